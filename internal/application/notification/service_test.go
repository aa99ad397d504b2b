package notification

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/retailops/backend/internal/domain/notification"
	"github.com/retailops/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// MockRepository is a mock implementation of notification.Repository
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Create(ctx context.Context, n *notification.Notification) error {
	return m.Called(ctx, n).Error(0)
}

func (m *MockRepository) FindByID(ctx context.Context, id uuid.UUID) (*notification.Notification, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*notification.Notification), args.Error(1)
}

func (m *MockRepository) List(ctx context.Context, filter notification.ListFilter) ([]notification.Notification, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]notification.Notification), args.Error(1)
}

func (m *MockRepository) SaveAcknowledgements(ctx context.Context, n *notification.Notification) error {
	return m.Called(ctx, n).Error(0)
}

func (m *MockRepository) LatestOfType(ctx context.Context, typ string) (*notification.Notification, error) {
	args := m.Called(ctx, typ)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*notification.Notification), args.Error(1)
}

func TestService_Notify(t *testing.T) {
	ctx := context.Background()
	repo := new(MockRepository)
	repo.On("Create", ctx, mock.MatchedBy(func(n *notification.Notification) bool {
		return n.Type == notification.TypeNewOrder && n.Severity == notification.SeverityInfo && n.Title == "New order #1001"
	})).Return(nil).Once()

	n, err := NewService(repo, zap.NewNop()).Notify(ctx, notification.TypeNewOrder, notification.SeverityInfo, "New order #1001", "")
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, n.ID)
	repo.AssertExpectations(t)
}

func TestService_Notify_RejectsUnknownSeverity(t *testing.T) {
	repo := new(MockRepository)
	_, err := NewService(repo, zap.NewNop()).Notify(context.Background(), "x", "loud", "t", "m")
	require.Error(t, err)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestService_List(t *testing.T) {
	ctx := context.Background()
	user := uuid.New()
	other := uuid.New()

	t.Run("defaults limit and marks acknowledged for viewer", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("List", ctx, notification.ListFilter{Limit: DefaultListLimit}).Return([]notification.Notification{
			{ID: uuid.New(), Type: "sync_orders", Severity: notification.SeveritySuccess, AcknowledgedBy: []uuid.UUID{user}},
			{ID: uuid.New(), Type: "sync_orders", Severity: notification.SeverityWarning, AcknowledgedBy: []uuid.UUID{other}},
			{ID: uuid.New(), Type: "new_order", Severity: notification.SeverityInfo},
		}, nil)

		out, err := NewService(repo, zap.NewNop()).List(ctx, user, ListQuery{})
		require.NoError(t, err)
		require.Len(t, out, 3)
		assert.True(t, out[0].Acknowledged)
		assert.False(t, out[1].Acknowledged)
		assert.NotNil(t, out[2].AcknowledgedBy)
	})

	t.Run("unacknowledged filter targets the caller and limit is capped", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("List", ctx, mock.MatchedBy(func(f notification.ListFilter) bool {
			return f.Limit == MaxListLimit && f.UnacknowledgedBy != nil && *f.UnacknowledgedBy == user
		})).Return([]notification.Notification{}, nil)

		out, err := NewService(repo, zap.NewNop()).List(ctx, user, ListQuery{Limit: 5000, Unacknowledged: true})
		require.NoError(t, err)
		assert.Empty(t, out)
		repo.AssertExpectations(t)
	})
}

func TestService_Acknowledge(t *testing.T) {
	ctx := context.Background()
	user := uuid.New()
	id := uuid.New()

	t.Run("first acknowledgement is saved", func(t *testing.T) {
		repo := new(MockRepository)
		n := &notification.Notification{ID: id, AcknowledgedBy: []uuid.UUID{}}
		repo.On("FindByID", ctx, id).Return(n, nil)
		repo.On("SaveAcknowledgements", ctx, n).Return(nil).Once()

		dto, err := NewService(repo, zap.NewNop()).Acknowledge(ctx, id, user)
		require.NoError(t, err)
		assert.True(t, dto.Acknowledged)
		assert.Equal(t, []uuid.UUID{user}, dto.AcknowledgedBy)
		repo.AssertExpectations(t)
	})

	t.Run("repeat acknowledgement is idempotent", func(t *testing.T) {
		repo := new(MockRepository)
		n := &notification.Notification{ID: id, AcknowledgedBy: []uuid.UUID{user}}
		repo.On("FindByID", ctx, id).Return(n, nil)

		dto, err := NewService(repo, zap.NewNop()).Acknowledge(ctx, id, user)
		require.NoError(t, err)
		assert.Len(t, dto.AcknowledgedBy, 1)
		repo.AssertNotCalled(t, "SaveAcknowledgements", mock.Anything, mock.Anything)
	})

	t.Run("unknown notification", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("FindByID", ctx, id).Return(nil, shared.ErrNotFound)

		_, err := NewService(repo, zap.NewNop()).Acknowledge(ctx, id, user)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}
