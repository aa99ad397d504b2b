package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	reportapp "github.com/retailops/backend/internal/application/report"
	"github.com/retailops/backend/internal/domain/trade"
	"github.com/retailops/backend/internal/interfaces/http/dto"
)

// SalesReporter serves the dashboard report queries
type SalesReporter interface {
	SalesSummary(ctx context.Context, period trade.Period) (*reportapp.SalesSummaryResponse, error)
	InventoryRanking(ctx context.Context, limit int, lowStockOnly bool) (*reportapp.InventoryRankingResponse, error)
}

// ReportHandler handles report endpoints
type ReportHandler struct {
	BaseHandler
	reports SalesReporter
}

// NewReportHandler creates a new ReportHandler
func NewReportHandler(reports SalesReporter) *ReportHandler {
	return &ReportHandler{reports: reports}
}

// SalesSummary godoc
// @ID           getSalesSummary
// @Summary      Sales totals for the current day, week or month
// @Tags         reports
// @Security     BearerAuth
// @Produce      json
// @Param        period query string false "day, week or month" default(day)
// @Router       /reports/sales/summary [get]
func (h *ReportHandler) SalesSummary(c *gin.Context) {
	var q dto.SalesSummaryQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.BindError(c, err)
		return
	}
	period, err := trade.ParsePeriod(q.Period)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	summary, err := h.reports.SalesSummary(c.Request.Context(), period)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, summary)
}

// InventoryRanking godoc
// @ID           getInventoryRanking
// @Summary      Products with the lowest current stock
// @Tags         reports
// @Security     BearerAuth
// @Produce      json
// @Param        limit query int false "1-100" default(10)
// @Param        low_stock_only query bool false "Only items below their minimum"
// @Router       /reports/inventory/ranking [get]
func (h *ReportHandler) InventoryRanking(c *gin.Context) {
	var q dto.InventoryRankingQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.BindError(c, err)
		return
	}

	ranking, err := h.reports.InventoryRanking(c.Request.Context(), q.Limit, q.LowStockOnly)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, ranking)
}
