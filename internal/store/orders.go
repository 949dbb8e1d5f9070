package store

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/kytehq/kyte/internal/apperr"
	"github.com/kytehq/kyte/internal/models"
)

type OrdersStore struct {
	db *gorm.DB
}

// statusRank orders the forward-only lifecycle. A transition is legal only
// to a strictly later rank; cancellation is allowed from any pre-shipped
// state, and cancelled is terminal.
var statusRank = map[string]int{
	models.OrderDraft:      1,
	models.OrderConfirmed:  2,
	models.OrderProcessing: 3,
	models.OrderShipped:    4,
	models.OrderDelivered:  5,
}

func transitionAllowed(from, to string) bool {
	if from == models.OrderCancelled || from == to {
		return false
	}
	if to == models.OrderCancelled {
		return statusRank[from] < statusRank[models.OrderShipped]
	}
	fromRank, ok := statusRank[from]
	if !ok {
		return false
	}
	toRank, ok := statusRank[to]
	if !ok {
		return false
	}
	return toRank > fromRank
}

type OrderListParams struct {
	Page       int
	Limit      int
	Status     string
	CustomerID string
}

func (s *OrdersStore) List(ctx context.Context, p OrderListParams) ([]models.SalesOrder, int64, error) {
	q := s.db.WithContext(ctx).Model(&models.SalesOrder{})
	if p.Status != "" {
		q = q.Where("status = ?", p.Status)
	}
	if p.CustomerID != "" {
		q = q.Where("customer_id = ?", p.CustomerID)
	}
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, translateRead(err, "order")
	}
	var orders []models.SalesOrder
	err := q.Preload("Customer").
		Order("order_date DESC, id").
		Offset((p.Page - 1) * p.Limit).
		Limit(p.Limit).
		Find(&orders).Error
	if err != nil {
		return nil, 0, translateRead(err, "order")
	}
	return orders, total, nil
}

// GetByID composes the multi-entity read explicitly: header, customer,
// items and each item's product.
func (s *OrdersStore) GetByID(ctx context.Context, id string) (*models.SalesOrder, error) {
	var order models.SalesOrder
	err := s.db.WithContext(ctx).
		Preload("Customer").
		Preload("Items").
		Preload("Items.Product").
		First(&order, "id = ?", id).Error
	if err != nil {
		return nil, translateRead(err, "order")
	}
	return &order, nil
}

// Create persists the header and all N items in one transaction: a failure
// on any item (e.g. an unknown product) rolls back the header too.
func (s *OrdersStore) Create(ctx context.Context, order *models.SalesOrder, items []models.SalesOrderItem) error {
	if err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(order).Error; err != nil {
			return translateWrite(err, "orderNumber", order.OrderNumber, "customerId")
		}
		for i := range items {
			var count int64
			if err := tx.Model(&models.Product{}).Where("id = ?", items[i].ProductID).Count(&count).Error; err != nil {
				return translateRead(err, "product")
			}
			if count == 0 {
				return apperr.Referential("items.productId")
			}
			items[i].OrderID = order.ID
			if err := tx.Create(&items[i]).Error; err != nil {
				return translateWrite(err, "", "", "items.productId")
			}
		}
		return nil
	}); err != nil {
		return err
	}
	order.Items = items
	return nil
}

// UpdateStatus applies one lifecycle transition, stamping ShippedDate on
// the move to shipped.
func (s *OrdersStore) UpdateStatus(ctx context.Context, id, status string) (*models.SalesOrder, error) {
	var updated *models.SalesOrder
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var order models.SalesOrder
		if err := tx.First(&order, "id = ?", id).Error; err != nil {
			return translateRead(err, "order")
		}
		if !transitionAllowed(order.Status, status) {
			return apperr.Validation(map[string]string{"status": "illegal_transition"})
		}
		updates := map[string]any{"status": status}
		if status == models.OrderShipped {
			now := time.Now()
			updates["shipped_date"] = &now
		}
		if err := tx.Model(&order).Updates(updates).Error; err != nil {
			return translateWrite(err, "", "", "")
		}
		updated = &order
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.GetByID(ctx, updated.ID)
}

// CountItems reports how many line items an order has persisted.
func (s *OrdersStore) CountItems(ctx context.Context, orderID string) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.SalesOrderItem{}).
		Where("order_id = ?", orderID).Count(&count).Error
	if err != nil {
		return 0, translateRead(err, "order item")
	}
	return count, nil
}
