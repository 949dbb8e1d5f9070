package store

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/kytehq/kyte/internal/apperr"
	"github.com/kytehq/kyte/internal/models"
)

// errLevelRace signals that a concurrent first movement created the level
// row between our read and insert; the adjustment is retried on the now
// existing row.
var errLevelRace = errors.New("inventory level created concurrently")

type InventoryStore struct {
	db *gorm.DB
}

// Levels returns current-state rows with product and warehouse loaded so
// callers can derive stock status against the product thresholds.
func (s *InventoryStore) Levels(ctx context.Context, warehouseID string) ([]models.Inventory, error) {
	q := s.db.WithContext(ctx).Preload("Product").Preload("Warehouse")
	if warehouseID != "" {
		q = q.Where("warehouse_id = ?", warehouseID)
	}
	var rows []models.Inventory
	if err := q.Order("updated_at DESC").Find(&rows).Error; err != nil {
		return nil, translateRead(err, "inventory")
	}
	return rows, nil
}

func (s *InventoryStore) GetLevel(ctx context.Context, productID, warehouseID string) (*models.Inventory, error) {
	var row models.Inventory
	err := s.db.WithContext(ctx).
		Where("product_id = ? AND warehouse_id = ?", productID, warehouseID).
		First(&row).Error
	if err != nil {
		return nil, translateRead(err, "inventory")
	}
	return &row, nil
}

func (s *InventoryStore) ListWarehouses(ctx context.Context) ([]models.Warehouse, error) {
	var warehouses []models.Warehouse
	if err := s.db.WithContext(ctx).Order("code").Find(&warehouses).Error; err != nil {
		return nil, translateRead(err, "warehouse")
	}
	return warehouses, nil
}

// WarehouseProductCounts counts distinct stocked products per warehouse.
func (s *InventoryStore) WarehouseProductCounts(ctx context.Context) (map[string]int64, error) {
	var rows []struct {
		WarehouseID string
		Total       int64
	}
	err := s.db.WithContext(ctx).Model(&models.Inventory{}).
		Select("warehouse_id, COUNT(DISTINCT product_id) AS total").
		Group("warehouse_id").
		Scan(&rows).Error
	if err != nil {
		return nil, translateRead(err, "inventory")
	}
	counts := make(map[string]int64, len(rows))
	for _, r := range rows {
		counts[r.WarehouseID] = r.Total
	}
	return counts, nil
}

func (s *InventoryStore) CreateWarehouse(ctx context.Context, warehouse *models.Warehouse) error {
	if err := s.db.WithContext(ctx).Create(warehouse).Error; err != nil {
		return translateWrite(err, "code", warehouse.Code, "")
	}
	return nil
}

// AdjustStock records one signed movement: the ledger row and the
// current-state upsert commit together or not at all. Movements that would
// drive the on-hand quantity negative are rejected. The current-state read
// takes a row lock so concurrent adjustments on the same (product,
// warehouse) pair serialize instead of overwriting each other's delta.
func (s *InventoryStore) AdjustStock(ctx context.Context, tx *models.InventoryTransaction) (*models.Inventory, error) {
	if err := s.referencesExist(ctx, tx.ProductID, tx.WarehouseID); err != nil {
		return nil, err
	}

	level, err := s.adjustStockOnce(ctx, tx)
	if err == errLevelRace {
		level, err = s.adjustStockOnce(ctx, tx)
		if err == errLevelRace {
			return nil, apperr.Conflict("productId", tx.ProductID)
		}
	}
	if err != nil {
		return nil, err
	}
	return level, nil
}

func (s *InventoryStore) adjustStockOnce(ctx context.Context, tx *models.InventoryTransaction) (*models.Inventory, error) {
	var level *models.Inventory
	err := s.db.WithContext(ctx).Transaction(func(dbTx *gorm.DB) error {
		var current models.Inventory
		err := dbTx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("product_id = ? AND warehouse_id = ?", tx.ProductID, tx.WarehouseID).
			First(&current).Error
		switch {
		case err == nil:
			next := current.Quantity + tx.Quantity
			if next < 0 {
				return apperr.Validation(map[string]string{"quantity": "insufficient_stock"})
			}
			updates := map[string]any{"quantity": next}
			if tx.Type == models.MovementIn {
				now := time.Now()
				updates["last_restock_date"] = &now
			}
			if err := dbTx.Model(&current).Updates(updates).Error; err != nil {
				return translateWrite(err, "", "", "")
			}
			current.Quantity = next
		case err == gorm.ErrRecordNotFound:
			if tx.Quantity < 0 {
				return apperr.Validation(map[string]string{"quantity": "insufficient_stock"})
			}
			current = models.Inventory{
				ProductID:   tx.ProductID,
				WarehouseID: tx.WarehouseID,
				Quantity:    tx.Quantity,
			}
			if tx.Type == models.MovementIn {
				now := time.Now()
				current.LastRestockDate = &now
			}
			if err := dbTx.Create(&current).Error; err != nil {
				// A concurrent first movement can win the insert on the
				// composite unique index; retry against the committed row.
				if isUniqueViolation(err) {
					return errLevelRace
				}
				return translateWrite(err, "", "", "productId")
			}
		default:
			return translateRead(err, "inventory")
		}

		if err := dbTx.Create(tx).Error; err != nil {
			return translateWrite(err, "", "", "productId")
		}
		level = &current
		return nil
	})
	if err != nil {
		return nil, err
	}
	return level, nil
}

type TransactionListParams struct {
	ProductID   string
	WarehouseID string
	Limit       int
}

// ListTransactions reads the movement ledger, newest first.
func (s *InventoryStore) ListTransactions(ctx context.Context, p TransactionListParams) ([]models.InventoryTransaction, error) {
	q := s.db.WithContext(ctx).Preload("Product").Preload("Warehouse")
	if p.ProductID != "" {
		q = q.Where("product_id = ?", p.ProductID)
	}
	if p.WarehouseID != "" {
		q = q.Where("warehouse_id = ?", p.WarehouseID)
	}
	var rows []models.InventoryTransaction
	if err := q.Order("created_at DESC").Limit(p.Limit).Find(&rows).Error; err != nil {
		return nil, translateRead(err, "inventory transaction")
	}
	return rows, nil
}

func (s *InventoryStore) referencesExist(ctx context.Context, productID, warehouseID string) error {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Product{}).Where("id = ?", productID).Count(&count).Error; err != nil {
		return translateRead(err, "product")
	}
	if count == 0 {
		return apperr.Referential("productId")
	}
	if err := s.db.WithContext(ctx).Model(&models.Warehouse{}).Where("id = ?", warehouseID).Count(&count).Error; err != nil {
		return translateRead(err, "warehouse")
	}
	if count == 0 {
		return apperr.Referential("warehouseId")
	}
	return nil
}
