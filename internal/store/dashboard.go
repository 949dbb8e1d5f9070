package store

import (
	"context"
	"fmt"
	"sort"
	"time"

	"gorm.io/gorm"

	"github.com/kytehq/kyte/internal/models"
)

// DashboardStore serves the reporting queries: aggregates only, no writes.
type DashboardStore struct {
	db *gorm.DB
}

type Summary struct {
	Revenue struct {
		Total  float64 `json:"total"`
		Change float64 `json:"change"`
		Period string  `json:"period"`
	} `json:"revenue"`
	Orders struct {
		Total   int64   `json:"total"`
		Pending int64   `json:"pending"`
		Change  float64 `json:"change"`
	} `json:"orders"`
	Customers struct {
		Total  int64   `json:"total"`
		New    int64   `json:"new"`
		Change float64 `json:"change"`
	} `json:"customers"`
	Inventory struct {
		TotalProducts int64 `json:"totalProducts"`
		LowStock      int64 `json:"lowStock"`
		OutOfStock    int64 `json:"outOfStock"`
	} `json:"inventory"`
}

func (s *DashboardStore) GetSummary(ctx context.Context) (*Summary, error) {
	now := time.Now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	prevMonthStart := monthStart.AddDate(0, -1, 0)

	var sum Summary
	sum.Revenue.Period = "month"

	current, err := s.revenueBetween(ctx, monthStart, now)
	if err != nil {
		return nil, err
	}
	previous, err := s.revenueBetween(ctx, prevMonthStart, monthStart)
	if err != nil {
		return nil, err
	}
	sum.Revenue.Total = current
	sum.Revenue.Change = percentChange(previous, current)

	db := s.db.WithContext(ctx)
	if err := db.Model(&models.SalesOrder{}).Count(&sum.Orders.Total).Error; err != nil {
		return nil, translateRead(err, "order")
	}
	pendingStatuses := []string{models.OrderDraft, models.OrderConfirmed, models.OrderProcessing}
	if err := db.Model(&models.SalesOrder{}).Where("status IN ?", pendingStatuses).
		Count(&sum.Orders.Pending).Error; err != nil {
		return nil, translateRead(err, "order")
	}
	var currentOrders, previousOrders int64
	if err := db.Model(&models.SalesOrder{}).Where("order_date >= ?", monthStart).
		Count(&currentOrders).Error; err != nil {
		return nil, translateRead(err, "order")
	}
	if err := db.Model(&models.SalesOrder{}).
		Where("order_date >= ? AND order_date < ?", prevMonthStart, monthStart).
		Count(&previousOrders).Error; err != nil {
		return nil, translateRead(err, "order")
	}
	sum.Orders.Change = percentChange(float64(previousOrders), float64(currentOrders))

	if err := db.Model(&models.Customer{}).Count(&sum.Customers.Total).Error; err != nil {
		return nil, translateRead(err, "customer")
	}
	if err := db.Model(&models.Customer{}).Where("created_at >= ?", monthStart).
		Count(&sum.Customers.New).Error; err != nil {
		return nil, translateRead(err, "customer")
	}
	var previousNew int64
	if err := db.Model(&models.Customer{}).
		Where("created_at >= ? AND created_at < ?", prevMonthStart, monthStart).
		Count(&previousNew).Error; err != nil {
		return nil, translateRead(err, "customer")
	}
	sum.Customers.Change = percentChange(float64(previousNew), float64(sum.Customers.New))

	if err := db.Model(&models.Product{}).Where("is_active = ?", true).
		Count(&sum.Inventory.TotalProducts).Error; err != nil {
		return nil, translateRead(err, "product")
	}
	if err := db.Model(&models.Inventory{}).
		Joins("JOIN products ON products.id = inventories.product_id").
		Where("inventories.quantity > 0 AND inventories.quantity <= products.min_stock_level").
		Count(&sum.Inventory.LowStock).Error; err != nil {
		return nil, translateRead(err, "inventory")
	}
	if err := db.Model(&models.Inventory{}).Where("quantity = 0").
		Count(&sum.Inventory.OutOfStock).Error; err != nil {
		return nil, translateRead(err, "inventory")
	}

	return &sum, nil
}

func (s *DashboardStore) revenueBetween(ctx context.Context, from, to time.Time) (float64, error) {
	var total float64
	err := s.db.WithContext(ctx).Model(&models.SalesOrder{}).
		Where("order_date >= ? AND order_date < ? AND status <> ?", from, to, models.OrderCancelled).
		Select("COALESCE(SUM(total_amount), 0)").
		Scan(&total).Error
	if err != nil {
		return 0, translateRead(err, "order")
	}
	return total, nil
}

func percentChange(previous, current float64) float64 {
	if previous == 0 {
		if current == 0 {
			return 0
		}
		return 100
	}
	return (current - previous) / previous * 100
}

// Activity is one recent-event line on the dashboard.
type Activity struct {
	ID      string    `json:"id"`
	Type    string    `json:"type"`
	Message string    `json:"message"`
	Time    time.Time `json:"time"`
}

// RecentActivity merges the newest orders, stock movements and customer
// registrations into one reverse-chronological feed.
func (s *DashboardStore) RecentActivity(ctx context.Context, limit int) ([]Activity, error) {
	db := s.db.WithContext(ctx)
	var activities []Activity

	var orders []models.SalesOrder
	if err := db.Order("created_at DESC").Limit(limit).Find(&orders).Error; err != nil {
		return nil, translateRead(err, "order")
	}
	for _, o := range orders {
		activities = append(activities, Activity{
			ID:      o.ID,
			Type:    "order",
			Message: fmt.Sprintf("Order %s is %s", o.OrderNumber, o.Status),
			Time:    o.CreatedAt,
		})
	}

	var movements []models.InventoryTransaction
	if err := db.Preload("Product").Order("created_at DESC").Limit(limit).Find(&movements).Error; err != nil {
		return nil, translateRead(err, "inventory transaction")
	}
	for _, m := range movements {
		name := m.ProductID
		if m.Product != nil {
			name = m.Product.SKU
		}
		activities = append(activities, Activity{
			ID:      m.ID,
			Type:    "inventory",
			Message: fmt.Sprintf("Stock %s of %d for %s", m.Type, m.Quantity, name),
			Time:    m.CreatedAt,
		})
	}

	var customers []models.Customer
	if err := db.Order("created_at DESC").Limit(limit).Find(&customers).Error; err != nil {
		return nil, translateRead(err, "customer")
	}
	for _, c := range customers {
		activities = append(activities, Activity{
			ID:      c.ID,
			Type:    "customer",
			Message: fmt.Sprintf("New customer registered: %s", c.Name),
			Time:    c.CreatedAt,
		})
	}

	sort.Slice(activities, func(i, j int) bool { return activities[i].Time.After(activities[j].Time) })
	if len(activities) > limit {
		activities = activities[:limit]
	}
	return activities, nil
}

// ChartData is the bucketed revenue series for the sales chart.
type ChartData struct {
	Labels   []string `json:"labels"`
	Datasets []struct {
		Label string    `json:"label"`
		Data  []float64 `json:"data"`
	} `json:"datasets"`
}

// SalesChart buckets revenue by day (week), month (month: last 6, year:
// last 12).
func (s *DashboardStore) SalesChart(ctx context.Context, period string) (*ChartData, error) {
	now := time.Now()
	var buckets []time.Time
	var next func(time.Time) time.Time
	var label func(time.Time) string

	switch period {
	case "week":
		day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
		for i := 6; i >= 0; i-- {
			buckets = append(buckets, day.AddDate(0, 0, -i))
		}
		next = func(t time.Time) time.Time { return t.AddDate(0, 0, 1) }
		label = func(t time.Time) string { return t.Format("Jan 2") }
	case "year":
		month := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		for i := 11; i >= 0; i-- {
			buckets = append(buckets, month.AddDate(0, -i, 0))
		}
		next = func(t time.Time) time.Time { return t.AddDate(0, 1, 0) }
		label = func(t time.Time) string { return t.Format("Jan 2006") }
	default: // month
		month := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		for i := 5; i >= 0; i-- {
			buckets = append(buckets, month.AddDate(0, -i, 0))
		}
		next = func(t time.Time) time.Time { return t.AddDate(0, 1, 0) }
		label = func(t time.Time) string { return t.Format("Jan") }
	}

	chart := &ChartData{}
	data := make([]float64, 0, len(buckets))
	for _, start := range buckets {
		total, err := s.revenueBetween(ctx, start, next(start))
		if err != nil {
			return nil, err
		}
		chart.Labels = append(chart.Labels, label(start))
		data = append(data, total)
	}
	chart.Datasets = append(chart.Datasets, struct {
		Label string    `json:"label"`
		Data  []float64 `json:"data"`
	}{Label: "Revenue", Data: data})
	return chart, nil
}
