package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Category is tree-shaped via the self-referential parent link. Writes must
// go through the store layer, which rejects parent chains that would form a
// cycle.
type Category struct {
	ID          string    `json:"id" gorm:"primaryKey;size:36"`
	Name        string    `json:"name" gorm:"size:255;not null"`
	Description string    `json:"description" gorm:"type:text"`
	ParentID    *string   `json:"parentId" gorm:"size:36;index"`
	IsActive    bool      `json:"isActive" gorm:"not null;default:true"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`

	Parent *Category `json:"parent,omitempty" gorm:"foreignKey:ParentID"`
}

func (c *Category) BeforeCreate(*gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	return nil
}

// Product is the central catalog entity.
type Product struct {
	ID            string    `json:"id" gorm:"primaryKey;size:36"`
	SKU           string    `json:"sku" gorm:"size:100;not null;uniqueIndex"`
	Name          string    `json:"name" gorm:"size:255;not null"`
	Description   string    `json:"description" gorm:"type:text"`
	CategoryID    *string   `json:"categoryId" gorm:"size:36;index"`
	UnitPrice     float64   `json:"unitPrice" gorm:"type:decimal(12,2);not null"`
	CostPrice     float64   `json:"costPrice" gorm:"type:decimal(12,2)"`
	TaxRate       float64   `json:"taxRate" gorm:"type:decimal(5,2);default:0"`
	Unit          string    `json:"unit" gorm:"size:50;not null;default:piece"`
	MinStockLevel int       `json:"minStockLevel" gorm:"default:0"`
	MaxStockLevel *int      `json:"maxStockLevel"`
	IsActive      bool      `json:"isActive" gorm:"not null;default:true"`
	ImageURL      string    `json:"imageUrl" gorm:"size:500"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`

	Category *Category `json:"category,omitempty" gorm:"foreignKey:CategoryID"`
}

func (p *Product) BeforeCreate(*gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	return nil
}
