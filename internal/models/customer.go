package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Customer types.
const (
	CustomerRetail     = "retail"
	CustomerWholesale  = "wholesale"
	CustomerEnterprise = "enterprise"
)

// Customer is the CRM root entity.
type Customer struct {
	ID    string `json:"id" gorm:"primaryKey;size:36"`
	Code  string `json:"code" gorm:"size:50;not null;uniqueIndex"`
	Name  string `json:"name" gorm:"size:255;not null"`
	Email string `json:"email" gorm:"size:255"`
	Phone string `json:"phone" gorm:"size:50"`
	Type  string `json:"type" gorm:"size:50;not null;default:retail"`

	BillingAddress string `json:"billingAddress" gorm:"type:text"`
	BillingCity    string `json:"billingCity" gorm:"size:100"`
	BillingState   string `json:"billingState" gorm:"size:100"`
	BillingZip     string `json:"billingZip" gorm:"size:20"`
	BillingCountry string `json:"billingCountry" gorm:"size:100"`

	ShippingAddress string `json:"shippingAddress" gorm:"type:text"`
	ShippingCity    string `json:"shippingCity" gorm:"size:100"`
	ShippingState   string `json:"shippingState" gorm:"size:100"`
	ShippingZip     string `json:"shippingZip" gorm:"size:20"`
	ShippingCountry string `json:"shippingCountry" gorm:"size:100"`

	TaxID        string `json:"taxId" gorm:"size:50"`
	CreditLimit  string `json:"creditLimit" gorm:"size:50"`
	PaymentTerms string `json:"paymentTerms" gorm:"size:100"`

	Notes     string    `json:"notes" gorm:"type:text"`
	IsActive  bool      `json:"isActive" gorm:"not null;default:true"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (c *Customer) BeforeCreate(*gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	return nil
}
