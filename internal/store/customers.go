package store

import (
	"context"

	"gorm.io/gorm"

	"github.com/kytehq/kyte/internal/apperr"
	"github.com/kytehq/kyte/internal/models"
)

type CustomersStore struct {
	db *gorm.DB
}

type CustomerListParams struct {
	Page   int
	Limit  int
	Search string
	Type   string
}

func (s *CustomersStore) List(ctx context.Context, p CustomerListParams) ([]models.Customer, int64, error) {
	q := s.db.WithContext(ctx).Model(&models.Customer{})
	if p.Search != "" {
		like := "%" + p.Search + "%"
		q = q.Where("name LIKE ? OR code LIKE ? OR email LIKE ?", like, like, like)
	}
	if p.Type != "" {
		q = q.Where("type = ?", p.Type)
	}
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, translateRead(err, "customer")
	}
	var customers []models.Customer
	err := q.Order("created_at DESC, id").
		Offset((p.Page - 1) * p.Limit).
		Limit(p.Limit).
		Find(&customers).Error
	if err != nil {
		return nil, 0, translateRead(err, "customer")
	}
	return customers, total, nil
}

func (s *CustomersStore) GetByID(ctx context.Context, id string) (*models.Customer, error) {
	var customer models.Customer
	err := s.db.WithContext(ctx).First(&customer, "id = ?", id).Error
	if err != nil {
		return nil, translateRead(err, "customer")
	}
	return &customer, nil
}

func (s *CustomersStore) Create(ctx context.Context, customer *models.Customer) error {
	if err := s.db.WithContext(ctx).Create(customer).Error; err != nil {
		return translateWrite(err, "code", customer.Code, "")
	}
	return nil
}

func (s *CustomersStore) Update(ctx context.Context, id string, fields map[string]any) (*models.Customer, error) {
	res := s.db.WithContext(ctx).Model(&models.Customer{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return nil, translateWrite(res.Error, "code", "", "")
	}
	if res.RowsAffected == 0 {
		return nil, apperr.NotFound("customer")
	}
	return s.GetByID(ctx, id)
}

func (s *CustomersStore) Exists(ctx context.Context, id string) error {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Customer{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return translateRead(err, "customer")
	}
	if count == 0 {
		return apperr.Referential("customerId")
	}
	return nil
}
