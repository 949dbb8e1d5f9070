package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Stock movement types recorded on the transaction ledger.
const (
	MovementIn         = "in"
	MovementOut        = "out"
	MovementAdjustment = "adjustment"
	MovementTransfer   = "transfer"
)

// Warehouse is a physical stock location.
type Warehouse struct {
	ID            string    `json:"id" gorm:"primaryKey;size:36"`
	Name          string    `json:"name" gorm:"size:255;not null"`
	Code          string    `json:"code" gorm:"size:50;not null;uniqueIndex"`
	Address       string    `json:"address" gorm:"type:text"`
	City          string    `json:"city" gorm:"size:100"`
	Country       string    `json:"country" gorm:"size:100"`
	ContactPerson string    `json:"contactPerson" gorm:"size:255"`
	ContactPhone  string    `json:"contactPhone" gorm:"size:50"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

func (w *Warehouse) BeforeCreate(*gorm.DB) error {
	if w.ID == "" {
		w.ID = uuid.New().String()
	}
	return nil
}

// Inventory is the mutable current-state row, one per (product, warehouse)
// pair. The composite unique index keeps stock queries unambiguous; the
// ledger below is the immutable counterpart.
type Inventory struct {
	ID               string     `json:"id" gorm:"primaryKey;size:36"`
	ProductID        string     `json:"productId" gorm:"size:36;not null;uniqueIndex:idx_inventory_product_warehouse,priority:1"`
	WarehouseID      string     `json:"warehouseId" gorm:"size:36;not null;uniqueIndex:idx_inventory_product_warehouse,priority:2"`
	Quantity         int        `json:"quantity" gorm:"not null;default:0"`
	ReservedQuantity int        `json:"reservedQuantity" gorm:"not null;default:0"`
	LastRestockDate  *time.Time `json:"lastRestockDate"`
	CreatedAt        time.Time  `json:"createdAt"`
	UpdatedAt        time.Time  `json:"updatedAt"`

	Product   *Product   `json:"product,omitempty" gorm:"foreignKey:ProductID"`
	Warehouse *Warehouse `json:"warehouse,omitempty" gorm:"foreignKey:WarehouseID"`
}

func (i *Inventory) BeforeCreate(*gorm.DB) error {
	if i.ID == "" {
		i.ID = uuid.New().String()
	}
	return nil
}

// InventoryTransaction is an append-only ledger entry. Rows are never
// updated or deleted, so there is no UpdatedAt.
type InventoryTransaction struct {
	ID            string    `json:"id" gorm:"primaryKey;size:36"`
	ProductID     string    `json:"productId" gorm:"size:36;not null;index"`
	WarehouseID   string    `json:"warehouseId" gorm:"size:36;not null;index"`
	Type          string    `json:"type" gorm:"size:50;not null"`
	Quantity      int       `json:"quantity" gorm:"not null"`
	UnitCost      *float64  `json:"unitCost" gorm:"type:decimal(12,2)"`
	ReferenceType string    `json:"referenceType" gorm:"size:50"`
	ReferenceID   *string   `json:"referenceId" gorm:"size:36"`
	Notes         string    `json:"notes" gorm:"type:text"`
	CreatedBy     *string   `json:"createdBy" gorm:"size:36"`
	CreatedAt     time.Time `json:"createdAt"`

	Product   *Product   `json:"product,omitempty" gorm:"foreignKey:ProductID"`
	Warehouse *Warehouse `json:"warehouse,omitempty" gorm:"foreignKey:WarehouseID"`
}

func (t *InventoryTransaction) BeforeCreate(*gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	return nil
}
