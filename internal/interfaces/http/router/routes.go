package router

import (
	"github.com/gin-gonic/gin"
	"github.com/retailops/backend/internal/domain/identity"
	"github.com/retailops/backend/internal/interfaces/http/handler"
	"github.com/retailops/backend/internal/interfaces/http/middleware"
)

// API holds the handlers served under /api/v1 and the middleware that
// authenticates dashboard users
type API struct {
	// Auth runs on every session-authenticated route. It must leave the
	// current user in the context for the role gates.
	Auth []gin.HandlerFunc
	// Webhook runs only on webhook routes, which skip session auth
	Webhook []gin.HandlerFunc

	Me            *handler.MeHandler
	Reports       *handler.ReportHandler
	Assistant     *handler.AssistantHandler
	Notifications *handler.NotificationHandler
	Admin         *handler.AdminHandler
	Webhooks      *handler.WebhookHandler
}

// Groups returns the route table. Role gates are per route.
func (a *API) Groups() []RouteRegistrar {
	anyRole := middleware.RequireRole(identity.RoleSales, identity.RoleWarehouse, identity.RoleAdmin)

	me := NewDomainGroup("identity", "").Use(a.Auth...).
		GET("/me", anyRole, a.Me.Get)

	reports := NewDomainGroup("reports", "/reports").Use(a.Auth...).
		GET("/sales/summary", middleware.RequireRole(identity.RoleSales, identity.RoleAdmin), a.Reports.SalesSummary).
		GET("/inventory/ranking", middleware.RequireRole(identity.RoleWarehouse, identity.RoleAdmin), a.Reports.InventoryRanking)

	assistant := NewDomainGroup("assistant", "/assistant").Use(a.Auth...).
		POST("/query", anyRole, a.Assistant.Query)

	notifications := NewDomainGroup("notifications", "/notifications").Use(a.Auth...).
		GET("", anyRole, a.Notifications.List).
		POST("/:id/acknowledge", anyRole, a.Notifications.Acknowledge).
		GET("/stream", anyRole, a.Notifications.Stream)

	admin := NewDomainGroup("admin", "/admin").Use(a.Auth...).
		POST("/actions", middleware.RequireRole(identity.RoleAdmin), a.Admin.Action)

	webhooks := NewDomainGroup("webhooks", "/webhooks").Use(a.Webhook...).
		POST("/ecommerce", a.Webhooks.Receive)

	return []RouteRegistrar{me, reports, assistant, notifications, admin, webhooks}
}

// Mount registers the health check at the root and the API under /api/v1
func Mount(engine *gin.Engine, health *handler.HealthHandler, api *API) {
	engine.GET("/health", health.Check)
	NewRouter(engine).Register(api.Groups()...).Setup()
}
