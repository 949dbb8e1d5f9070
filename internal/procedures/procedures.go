// Package procedures defines the six namespaced routers of the API:
// products, inventory, customers, orders, employees and dashboard. Every
// endpoint validates its input shape before touching the store.
package procedures

import (
	"fmt"
	"time"

	"github.com/kytehq/kyte/internal/rpc"
	"github.com/kytehq/kyte/internal/store"
	"github.com/kytehq/kyte/internal/validation"
)

// Register wires all routers onto the aggregation router.
func Register(r *rpc.Router, st *store.Stores) {
	registerProducts(r, st)
	registerInventory(r, st)
	registerCustomers(r, st)
	registerOrders(r, st)
	registerEmployees(r, st)
	registerDashboard(r, st)
}

// pageInput is the shared pagination shape: page >= 1 (default 1),
// limit 1..100 (default 20).
type pageInput struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

func (p *pageInput) normalize(v validation.Violations) {
	if p.Page == 0 {
		p.Page = 1
	}
	if p.Limit == 0 {
		p.Limit = 20
	}
	if p.Page < 1 {
		v["page"] = "out_of_range"
	}
	if p.Limit < 1 || p.Limit > 100 {
		v["limit"] = "out_of_range"
	}
}

// listResult is the uniform list envelope. Total is the true count of
// records matching the filter, not the page length.
type listResult struct {
	Items any   `json:"items"`
	Total int64 `json:"total"`
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
}

// numberSuffix feeds the generated business codes (C-, ORD-, EMP-).
func numberSuffix() string {
	return fmt.Sprintf("%06d", time.Now().UnixNano()%1_000_000)
}

func optionalUserID(userID string) *string {
	if userID == "" {
		return nil
	}
	return &userID
}
