package ordersystem

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/retailops/backend/internal/domain/integration"
	"github.com/shopspring/decimal"
	"github.com/tidwall/gjson"
)

func invalidResponse(format string, args ...any) error {
	return fmt.Errorf("%w: %s", integration.ErrUpstreamInvalidResponse, fmt.Sprintf(format, args...))
}

func parseLogin(body []byte) (*integration.LoginResult, error) {
	if !gjson.ValidBytes(body) {
		return nil, invalidResponse("login response is not JSON")
	}
	token := gjson.GetBytes(body, "access_token").String()
	if token == "" {
		return nil, invalidResponse("login response has no access_token")
	}
	result := &integration.LoginResult{AccessToken: token}
	if exp := gjson.GetBytes(body, "expires_in"); exp.Type == gjson.Number && exp.Int() > 0 {
		result.ExpiresIn = time.Duration(exp.Int()) * time.Second
	}
	return result, nil
}

// pageItems validates the {data:[...], has_more} envelope
func pageItems(body []byte) ([]gjson.Result, bool, error) {
	if !gjson.ValidBytes(body) {
		return nil, false, invalidResponse("page is not JSON")
	}
	data := gjson.GetBytes(body, "data")
	if !data.IsArray() {
		return nil, false, invalidResponse("page has no data array")
	}
	return data.Array(), gjson.GetBytes(body, "has_more").Bool(), nil
}

// firstString returns the first non-empty field among paths
func firstString(item gjson.Result, paths ...string) string {
	for _, p := range paths {
		if v := item.Get(p); v.Exists() && v.String() != "" {
			return v.String()
		}
	}
	return ""
}

func parseOrderPage(body []byte) (*integration.OrderPage, error) {
	items, hasMore, err := pageItems(body)
	if err != nil {
		return nil, err
	}

	page := &integration.OrderPage{Items: make([]integration.ExternalOrder, 0, len(items)), HasMore: hasMore}
	for _, item := range items {
		order := integration.ExternalOrder{
			OrderNumber: firstString(item, "order_number", "number", "id"),
			Currency:    item.Get("currency").String(),
			Status:      item.Get("status").String(),
			Raw:         json.RawMessage(item.Raw),
		}

		if raw := firstString(item, "total_amount", "total"); raw != "" {
			total, err := decimal.NewFromString(raw)
			if err != nil {
				order.Problem = fmt.Sprintf("invalid total %q", raw)
			}
			order.TotalAmount = total
		} else {
			order.TotalAmount = decimal.Zero
		}

		if raw := firstString(item, "created_at", "ordered_at"); raw != "" {
			at, err := time.Parse(time.RFC3339, raw)
			if err != nil && order.Problem == "" {
				order.Problem = fmt.Sprintf("invalid timestamp %q", raw)
			}
			order.OrderedAt = at
		}
		page.Items = append(page.Items, order)
	}
	return page, nil
}

func parseInventoryPage(body []byte) (*integration.InventoryPage, error) {
	items, hasMore, err := pageItems(body)
	if err != nil {
		return nil, err
	}

	page := &integration.InventoryPage{Items: make([]integration.ExternalInventoryItem, 0, len(items)), HasMore: hasMore}
	for _, item := range items {
		inv := integration.ExternalInventoryItem{
			SKU:      item.Get("sku").String(),
			Name:     item.Get("name").String(),
			Stock:    int(item.Get("stock").Int()),
			MinStock: int(item.Get("min_stock").Int()),
			Raw:      json.RawMessage(item.Raw),
		}
		if stock := item.Get("stock"); stock.Type != gjson.Number {
			inv.Problem = "missing or non-numeric stock"
		}
		page.Items = append(page.Items, inv)
	}
	return page, nil
}
