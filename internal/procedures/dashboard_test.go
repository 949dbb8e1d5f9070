package procedures

import (
	"fmt"
	"testing"

	"github.com/kytehq/kyte/internal/apperr"
	"github.com/kytehq/kyte/internal/store"
)

func TestDashboardSummary(t *testing.T) {
	r := newTestRouter(t)
	customer := createCustomer(t, r)
	p := createProduct(t, r, "SKU-D", 10)

	input := fmt.Sprintf(`{"customerId":%q,"items":[{"productId":%q,"quantity":2,"unitPrice":10}]}`,
		customer.ID, p.ID)
	mustCall(t, r, "orders.create", input)

	sum := mustCall(t, r, "dashboard.getSummary", ``).(*store.Summary)
	if sum.Orders.Total != 1 || sum.Orders.Pending != 1 {
		t.Fatalf("order counts wrong: %+v", sum.Orders)
	}
	if sum.Revenue.Total != 22 {
		t.Fatalf("revenue: got %v want 22", sum.Revenue.Total)
	}
	if sum.Customers.Total != 1 {
		t.Fatalf("customers: %+v", sum.Customers)
	}
}

func TestDashboardRecentActivity(t *testing.T) {
	r := newTestRouter(t)
	createCustomer(t, r)

	activities := mustCall(t, r, "dashboard.getRecentActivity", `{"limit":5}`).([]store.Activity)
	if len(activities) != 1 || activities[0].Type != "customer" {
		t.Fatalf("activity feed wrong: %+v", activities)
	}

	_, err := call(t, r, "dashboard.getRecentActivity", `{"limit":500}`)
	wantKind(t, err, apperr.KindValidation)
}

func TestDashboardSalesChartPeriods(t *testing.T) {
	r := newTestRouter(t)

	chart := mustCall(t, r, "dashboard.getSalesChart", ``).(*store.ChartData)
	if len(chart.Labels) != 6 {
		t.Fatalf("default period should be month (6 buckets), got %d", len(chart.Labels))
	}

	chart = mustCall(t, r, "dashboard.getSalesChart", `{"period":"week"}`).(*store.ChartData)
	if len(chart.Labels) != 7 {
		t.Fatalf("week should have 7 buckets, got %d", len(chart.Labels))
	}

	_, err := call(t, r, "dashboard.getSalesChart", `{"period":"decade"}`)
	wantKind(t, err, apperr.KindValidation)
}
