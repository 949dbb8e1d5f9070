package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/kytehq/kyte/internal/models"
)

func TestDashboardSummary(t *testing.T) {
	st := newStores(t)
	ctx := context.Background()
	customer := seedCustomer(t, st)
	p := seedProduct(t, st, "SKU-D", 10)
	w := seedWarehouse(t, st, "WH-1")

	// Two orders this month: one counts toward revenue, the cancelled one
	// must not.
	now := time.Now()
	require.NoError(t, st.Orders.Create(ctx, &models.SalesOrder{
		OrderNumber: "ORD-1", CustomerID: customer.ID, Status: models.OrderConfirmed,
		TotalAmount: 100, OrderDate: now,
	}, nil))
	require.NoError(t, st.Orders.Create(ctx, &models.SalesOrder{
		OrderNumber: "ORD-2", CustomerID: customer.ID, Status: models.OrderCancelled,
		TotalAmount: 40, OrderDate: now,
	}, nil))

	// One low-stock level (above zero, at or below the minimum) and one
	// out-of-stock level.
	lowP := &models.Product{SKU: "SKU-LOW", Name: "Low", UnitPrice: 1, Unit: "piece", MinStockLevel: 5}
	require.NoError(t, st.Products.Create(ctx, lowP))
	require.NoError(t, testDB(st).Create(&models.Inventory{ProductID: lowP.ID, WarehouseID: w.ID, Quantity: 3}).Error)
	require.NoError(t, testDB(st).Create(&models.Inventory{ProductID: p.ID, WarehouseID: w.ID, Quantity: 0}).Error)

	sum, err := st.Dashboard.GetSummary(ctx)
	require.NoError(t, err)
	require.Equal(t, 100.0, sum.Revenue.Total)
	require.EqualValues(t, 2, sum.Orders.Total)
	require.EqualValues(t, 1, sum.Orders.Pending)
	require.EqualValues(t, 1, sum.Customers.Total)
	require.EqualValues(t, 1, sum.Inventory.LowStock)
	require.EqualValues(t, 1, sum.Inventory.OutOfStock)
}

func TestRecentActivityMergedAndBounded(t *testing.T) {
	st := newStores(t)
	ctx := context.Background()
	customer := seedCustomer(t, st)
	p := seedProduct(t, st, "SKU-D", 10)
	w := seedWarehouse(t, st, "WH-1")

	require.NoError(t, st.Orders.Create(ctx, &models.SalesOrder{
		OrderNumber: "ORD-1", CustomerID: customer.ID, Status: models.OrderDraft, OrderDate: time.Now(),
	}, nil))
	_, err := st.Inventory.AdjustStock(ctx, &models.InventoryTransaction{
		ProductID: p.ID, WarehouseID: w.ID, Type: models.MovementIn, Quantity: 5,
	})
	require.NoError(t, err)

	activities, err := st.Dashboard.RecentActivity(ctx, 2)
	require.NoError(t, err)
	require.Len(t, activities, 2)
	for i := 1; i < len(activities); i++ {
		require.False(t, activities[i].Time.After(activities[i-1].Time), "feed not newest-first")
	}
}

func TestSalesChartBuckets(t *testing.T) {
	st := newStores(t)
	ctx := context.Background()
	customer := seedCustomer(t, st)
	require.NoError(t, st.Orders.Create(ctx, &models.SalesOrder{
		OrderNumber: "ORD-1", CustomerID: customer.ID, Status: models.OrderConfirmed,
		TotalAmount: 50, OrderDate: time.Now(),
	}, nil))

	cases := map[string]int{"week": 7, "month": 6, "year": 12}
	for period, want := range cases {
		chart, err := st.Dashboard.SalesChart(ctx, period)
		require.NoError(t, err)
		require.Len(t, chart.Labels, want, period)
		require.Len(t, chart.Datasets, 1)
		require.Len(t, chart.Datasets[0].Data, want)

		var total float64
		for _, v := range chart.Datasets[0].Data {
			total += v
		}
		require.Equal(t, 50.0, total, "today's revenue must land in a bucket for %s", period)
	}
}
