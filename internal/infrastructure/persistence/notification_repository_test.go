package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/retailops/backend/internal/domain/notification"
	"github.com/retailops/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormNotificationRepository(t *testing.T) {
	repo := NewGormNotificationRepository(setupSQLiteDB(t))
	ctx := context.Background()
	base := time.Date(2026, 6, 1, 8, 0, 0, 0, time.UTC)

	create := func(typ string, sev notification.Severity, offset time.Duration) *notification.Notification {
		t.Helper()
		n, err := notification.New(typ, sev, typ, "")
		require.NoError(t, err)
		n.CreatedAt = base.Add(offset)
		require.NoError(t, repo.Create(ctx, n))
		return n
	}

	oldest := create(notification.TypeSyncOrders, notification.SeveritySuccess, 0)
	middle := create(notification.TypeNewOrder, notification.SeverityInfo, time.Minute)
	newest := create(notification.TypeSyncOrders, notification.SeverityWarning, 2*time.Minute)
	reader := uuid.New()

	t.Run("lists newest first", func(t *testing.T) {
		list, err := repo.List(ctx, notification.ListFilter{})
		require.NoError(t, err)
		require.Len(t, list, 3)
		assert.Equal(t, []uuid.UUID{newest.ID, middle.ID, oldest.ID}, []uuid.UUID{list[0].ID, list[1].ID, list[2].ID})
		assert.NotNil(t, list[0].AcknowledgedBy)
	})

	t.Run("acknowledgements persist and filter", func(t *testing.T) {
		require.True(t, middle.Acknowledge(reader))
		require.NoError(t, repo.SaveAcknowledgements(ctx, middle))

		found, err := repo.FindByID(ctx, middle.ID)
		require.NoError(t, err)
		assert.True(t, found.IsAcknowledgedBy(reader))

		list, err := repo.List(ctx, notification.ListFilter{UnacknowledgedBy: &reader})
		require.NoError(t, err)
		require.Len(t, list, 2)
		for _, n := range list {
			assert.NotEqual(t, middle.ID, n.ID)
		}

		other := uuid.New()
		list, err = repo.List(ctx, notification.ListFilter{UnacknowledgedBy: &other})
		require.NoError(t, err)
		assert.Len(t, list, 3)
	})

	t.Run("filters by type and limit", func(t *testing.T) {
		list, err := repo.List(ctx, notification.ListFilter{Types: []string{notification.TypeSyncOrders}, Limit: 1})
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, newest.ID, list[0].ID)
	})

	t.Run("latest of type", func(t *testing.T) {
		latest, err := repo.LatestOfType(ctx, notification.TypeSyncOrders)
		require.NoError(t, err)
		assert.Equal(t, notification.SeverityWarning, latest.Severity)

		_, err = repo.LatestOfType(ctx, notification.TypeSyncInventory)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("unknown ids are not found", func(t *testing.T) {
		_, err := repo.FindByID(ctx, uuid.New())
		assert.ErrorIs(t, err, shared.ErrNotFound)

		ghost, _ := notification.New(notification.TypeNewOrder, notification.SeverityInfo, "x", "")
		assert.ErrorIs(t, repo.SaveAcknowledgements(ctx, ghost), shared.ErrNotFound)
	})
}
