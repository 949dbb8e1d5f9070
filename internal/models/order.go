package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Sales order statuses. Legal transitions are enforced by the orders store:
// draft → confirmed → processing → shipped → delivered, with cancellation
// allowed from any pre-shipped state.
const (
	OrderDraft      = "draft"
	OrderConfirmed  = "confirmed"
	OrderProcessing = "processing"
	OrderShipped    = "shipped"
	OrderDelivered  = "delivered"
	OrderCancelled  = "cancelled"
)

// SalesOrder is the order header. Amount fields are computed at creation
// from the line items.
type SalesOrder struct {
	ID          string  `json:"id" gorm:"primaryKey;size:36"`
	OrderNumber string  `json:"orderNumber" gorm:"size:50;not null;uniqueIndex"`
	CustomerID  string  `json:"customerId" gorm:"size:36;not null;index"`
	WarehouseID *string `json:"warehouseId" gorm:"size:36"`
	Status      string  `json:"status" gorm:"size:50;not null;default:draft"`

	Subtotal       float64 `json:"subtotal" gorm:"type:decimal(12,2);not null;default:0"`
	TaxAmount      float64 `json:"taxAmount" gorm:"type:decimal(12,2);not null;default:0"`
	DiscountAmount float64 `json:"discountAmount" gorm:"type:decimal(12,2);not null;default:0"`
	ShippingAmount float64 `json:"shippingAmount" gorm:"type:decimal(12,2);not null;default:0"`
	TotalAmount    float64 `json:"totalAmount" gorm:"type:decimal(12,2);not null;default:0"`

	OrderDate    time.Time  `json:"orderDate" gorm:"not null"`
	RequiredDate *time.Time `json:"requiredDate"`
	ShippedDate  *time.Time `json:"shippedDate"`

	ShippingAddress string `json:"shippingAddress" gorm:"type:text"`
	ShippingMethod  string `json:"shippingMethod" gorm:"size:100"`
	TrackingNumber  string `json:"trackingNumber" gorm:"size:100"`

	Notes      string    `json:"notes" gorm:"type:text"`
	SalesRepID *string   `json:"salesRepId" gorm:"size:36"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`

	Customer *Customer        `json:"customer,omitempty" gorm:"foreignKey:CustomerID"`
	Items    []SalesOrderItem `json:"items,omitempty" gorm:"foreignKey:OrderID"`
}

func (o *SalesOrder) BeforeCreate(*gorm.DB) error {
	if o.ID == "" {
		o.ID = uuid.New().String()
	}
	return nil
}

// SalesOrderItem is owned by its parent order and cannot exist without it.
type SalesOrderItem struct {
	ID        string    `json:"id" gorm:"primaryKey;size:36"`
	OrderID   string    `json:"orderId" gorm:"size:36;not null;index"`
	ProductID string    `json:"productId" gorm:"size:36;not null"`
	Quantity  int       `json:"quantity" gorm:"not null"`
	UnitPrice float64   `json:"unitPrice" gorm:"type:decimal(12,2);not null"`
	Discount  float64   `json:"discount" gorm:"type:decimal(5,2);default:0"`
	TaxRate   float64   `json:"taxRate" gorm:"type:decimal(5,2);default:0"`
	LineTotal float64   `json:"lineTotal" gorm:"type:decimal(12,2);not null"`
	Notes     string    `json:"notes" gorm:"type:text"`
	CreatedAt time.Time `json:"createdAt"`

	Product *Product `json:"product,omitempty" gorm:"foreignKey:ProductID"`
}

func (i *SalesOrderItem) BeforeCreate(*gorm.DB) error {
	if i.ID == "" {
		i.ID = uuid.New().String()
	}
	return nil
}
