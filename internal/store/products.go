package store

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/kytehq/kyte/internal/apperr"
	"github.com/kytehq/kyte/internal/models"
)

// maxCategoryDepth bounds the ancestor walk that keeps the category tree
// acyclic.
const maxCategoryDepth = 32

type ProductsStore struct {
	db *gorm.DB
}

type ProductListParams struct {
	Page       int
	Limit      int
	Search     string
	CategoryID string
}

// List returns one page of products plus the true total matching the
// filter, independent of pagination.
func (s *ProductsStore) List(ctx context.Context, p ProductListParams) ([]models.Product, int64, error) {
	q := s.db.WithContext(ctx).Model(&models.Product{})
	if p.Search != "" {
		like := "%" + p.Search + "%"
		q = q.Where("name LIKE ? OR sku LIKE ?", like, like)
	}
	if p.CategoryID != "" {
		q = q.Where("category_id = ?", p.CategoryID)
	}
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, translateRead(err, "product")
	}
	var products []models.Product
	err := q.Order("created_at DESC, id").
		Offset((p.Page - 1) * p.Limit).
		Limit(p.Limit).
		Find(&products).Error
	if err != nil {
		return nil, 0, translateRead(err, "product")
	}
	return products, total, nil
}

func (s *ProductsStore) GetByID(ctx context.Context, id string) (*models.Product, error) {
	var product models.Product
	err := s.db.WithContext(ctx).Preload("Category").First(&product, "id = ?", id).Error
	if err != nil {
		return nil, translateRead(err, "product")
	}
	return &product, nil
}

// Create inserts a product after verifying the optional category reference.
func (s *ProductsStore) Create(ctx context.Context, product *models.Product) error {
	if product.CategoryID != nil {
		if err := s.categoryExists(ctx, *product.CategoryID); err != nil {
			return err
		}
	}
	if err := s.db.WithContext(ctx).Create(product).Error; err != nil {
		return translateWrite(err, "sku", product.SKU, "categoryId")
	}
	return nil
}

// Update applies only the supplied columns and returns the updated record.
func (s *ProductsStore) Update(ctx context.Context, id string, fields map[string]any) (*models.Product, error) {
	if raw, ok := fields["category_id"]; ok {
		if catID, ok := raw.(string); ok && catID != "" {
			if err := s.categoryExists(ctx, catID); err != nil {
				return nil, err
			}
		}
	}
	res := s.db.WithContext(ctx).Model(&models.Product{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return nil, translateWrite(res.Error, "sku", "", "categoryId")
	}
	if res.RowsAffected == 0 {
		return nil, apperr.NotFound("product")
	}
	return s.GetByID(ctx, id)
}

// StockTotals sums on-hand quantity across warehouses for each product.
// Products with no inventory rows are simply absent from the result.
func (s *ProductsStore) StockTotals(ctx context.Context, ids []string) (map[string]int, error) {
	totals := make(map[string]int, len(ids))
	if len(ids) == 0 {
		return totals, nil
	}
	var rows []struct {
		ProductID string
		Total     int
	}
	err := s.db.WithContext(ctx).Model(&models.Inventory{}).
		Select("product_id, SUM(quantity) AS total").
		Where("product_id IN ?", ids).
		Group("product_id").
		Scan(&rows).Error
	if err != nil {
		return nil, translateRead(err, "inventory")
	}
	for _, r := range rows {
		totals[r.ProductID] = r.Total
	}
	return totals, nil
}

func (s *ProductsStore) categoryExists(ctx context.Context, id string) error {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Category{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return translateRead(err, "category")
	}
	if count == 0 {
		return apperr.Referential("categoryId")
	}
	return nil
}

// --- Categories ---

func (s *ProductsStore) ListCategories(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	err := s.db.WithContext(ctx).Order("name").Find(&categories).Error
	if err != nil {
		return nil, translateRead(err, "category")
	}
	return categories, nil
}

func (s *ProductsStore) GetCategoryByID(ctx context.Context, id string) (*models.Category, error) {
	var category models.Category
	err := s.db.WithContext(ctx).First(&category, "id = ?", id).Error
	if err != nil {
		return nil, translateRead(err, "category")
	}
	return &category, nil
}

func (s *ProductsStore) CreateCategory(ctx context.Context, category *models.Category) error {
	if category.ParentID != nil {
		if err := s.categoryExists(ctx, *category.ParentID); err != nil {
			if apperr.IsKind(err, apperr.KindReferential) {
				return apperr.Referential("parentId")
			}
			return err
		}
	}
	if err := s.db.WithContext(ctx).Create(category).Error; err != nil {
		return translateWrite(err, "", "", "parentId")
	}
	return nil
}

// SetCategoryParent re-parents a category, walking the new ancestor chain
// to reject cycles.
func (s *ProductsStore) SetCategoryParent(ctx context.Context, id string, parentID *string) (*models.Category, error) {
	if _, err := s.GetCategoryByID(ctx, id); err != nil {
		return nil, err
	}
	if parentID != nil {
		if err := s.checkNoCycle(ctx, id, *parentID); err != nil {
			return nil, err
		}
	}
	res := s.db.WithContext(ctx).Model(&models.Category{}).Where("id = ?", id).
		Update("parent_id", parentID)
	if res.Error != nil {
		return nil, translateWrite(res.Error, "", "", "parentId")
	}
	return s.GetCategoryByID(ctx, id)
}

// checkNoCycle walks up from newParentID; finding id again (or exceeding
// the depth bound) rejects the write.
func (s *ProductsStore) checkNoCycle(ctx context.Context, id, newParentID string) error {
	current := newParentID
	for depth := 0; depth < maxCategoryDepth; depth++ {
		if current == id {
			return apperr.Validation(map[string]string{"parentId": "would_create_cycle"})
		}
		var category models.Category
		err := s.db.WithContext(ctx).Select("parent_id").First(&category, "id = ?", current).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.Referential("parentId")
			}
			return translateRead(err, "category")
		}
		if category.ParentID == nil {
			return nil
		}
		current = *category.ParentID
	}
	return apperr.Validation(map[string]string{"parentId": "tree_too_deep"})
}
