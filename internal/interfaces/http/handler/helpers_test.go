package handler

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	assistantapp "github.com/retailops/backend/internal/application/assistant"
	integrationapp "github.com/retailops/backend/internal/application/integration"
	notificationapp "github.com/retailops/backend/internal/application/notification"
	reportapp "github.com/retailops/backend/internal/application/report"
	"github.com/retailops/backend/internal/domain/identity"
	"github.com/retailops/backend/internal/domain/trade"
	"github.com/retailops/backend/internal/interfaces/http/dto"
	"github.com/retailops/backend/internal/interfaces/http/middleware"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
	middleware.SetupValidator()
}

// newTestRouter returns an engine that authenticates every request as user
func newTestRouter(user *identity.User) *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestID())
	if user != nil {
		r.Use(func(c *gin.Context) {
			c.Set(middleware.CurrentUserKey, user)
			c.Next()
		})
	}
	return r
}

func testUser(role identity.Role) *identity.User {
	return &identity.User{ID: uuid.New(), Email: "ops@example.com", Role: role}
}

func doRequest(r http.Handler, method, path string, body io.Reader, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, body)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) dto.Response {
	t.Helper()
	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	resp := decode(t, w)
	require.False(t, resp.Success)
	require.NotNil(t, resp.Error)
	return resp.Error.Code
}

type MockSalesReporter struct {
	mock.Mock
}

func (m *MockSalesReporter) SalesSummary(ctx context.Context, period trade.Period) (*reportapp.SalesSummaryResponse, error) {
	args := m.Called(ctx, period)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*reportapp.SalesSummaryResponse), args.Error(1)
}

func (m *MockSalesReporter) InventoryRanking(ctx context.Context, limit int, lowStockOnly bool) (*reportapp.InventoryRankingResponse, error) {
	args := m.Called(ctx, limit, lowStockOnly)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*reportapp.InventoryRankingResponse), args.Error(1)
}

type MockQueryAnswerer struct {
	mock.Mock
}

func (m *MockQueryAnswerer) Query(ctx context.Context, text string) (*assistantapp.Answer, error) {
	args := m.Called(ctx, text)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*assistantapp.Answer), args.Error(1)
}

type MockWebhookProcessor struct {
	mock.Mock
}

func (m *MockWebhookProcessor) Handle(ctx context.Context, d integrationapp.WebhookDelivery) (*integrationapp.WebhookResult, error) {
	args := m.Called(ctx, d)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*integrationapp.WebhookResult), args.Error(1)
}

type MockAdminExecutor struct {
	mock.Mock
}

func (m *MockAdminExecutor) Execute(ctx context.Context, cmd integrationapp.AdminCommand) (any, error) {
	args := m.Called(ctx, cmd)
	return args.Get(0), args.Error(1)
}

type MockNotificationInbox struct {
	mock.Mock
}

func (m *MockNotificationInbox) List(ctx context.Context, userID uuid.UUID, q notificationapp.ListQuery) ([]notificationapp.NotificationDTO, error) {
	args := m.Called(ctx, userID, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]notificationapp.NotificationDTO), args.Error(1)
}

func (m *MockNotificationInbox) Acknowledge(ctx context.Context, id, userID uuid.UUID) (*notificationapp.NotificationDTO, error) {
	args := m.Called(ctx, id, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*notificationapp.NotificationDTO), args.Error(1)
}

type stubPinger struct {
	err error
}

func (s stubPinger) Ping(context.Context) error { return s.err }
