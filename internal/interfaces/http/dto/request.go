package dto

// AssistantQueryRequest is the body of an assistant question
type AssistantQueryRequest struct {
	Query string `json:"query" binding:"max=4000"`
}

// SalesSummaryQuery selects the reporting period
type SalesSummaryQuery struct {
	Period string `form:"period" binding:"omitempty,oneof=day week month"`
}

// InventoryRankingQuery selects how many items to rank. Out of range limits are clamped.
type InventoryRankingQuery struct {
	Limit        int  `form:"limit"`
	LowStockOnly bool `form:"low_stock_only"`
}

// NotificationListQuery filters the notification list. An absent limit means
// the default; an explicit limit must be within 1-200.
type NotificationListQuery struct {
	Limit          *int     `form:"limit" binding:"omitempty,min=1,max=200"`
	Unacknowledged bool     `form:"unacknowledged"`
	Types          []string `form:"type" binding:"omitempty,dive,oneof=new_order sync_orders sync_inventory credential"`
}

// IDRequest represents a request with an ID path parameter
type IDRequest struct {
	ID string `uri:"id" binding:"required,uuid"`
}

// AdminActionRequest is the body of an admin action. Parameters depend on the action.
type AdminActionRequest struct {
	Action   string `json:"action" binding:"required,oneof=status refresh sync update_credentials test_connection"`
	Target   string `json:"target" binding:"omitempty,oneof=orders inventory all"`
	Username string `json:"username" binding:"required_if=Action update_credentials,max=255"`
	Password string `json:"password" binding:"required_if=Action update_credentials,max=1024"`
}

// StreamQuery carries the session token for WebSocket upgrades, which cannot set headers in browsers
type StreamQuery struct {
	AccessToken string `form:"access_token"`
}
