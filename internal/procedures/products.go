package procedures

import (
	"encoding/json"
	"time"

	"github.com/kytehq/kyte/internal/apperr"
	"github.com/kytehq/kyte/internal/models"
	"github.com/kytehq/kyte/internal/rpc"
	"github.com/kytehq/kyte/internal/store"
	"github.com/kytehq/kyte/internal/validation"
)

// productView is the wire shape of a product; Price mirrors the model's
// UnitPrice and Stock aggregates on-hand quantity across warehouses.
type productView struct {
	ID            string    `json:"id"`
	SKU           string    `json:"sku"`
	Name          string    `json:"name"`
	Description   string    `json:"description,omitempty"`
	CategoryID    *string   `json:"categoryId,omitempty"`
	Category      string    `json:"category,omitempty"`
	Price         float64   `json:"price"`
	CostPrice     float64   `json:"costPrice,omitempty"`
	TaxRate       float64   `json:"taxRate"`
	Unit          string    `json:"unit"`
	Stock         int       `json:"stock"`
	MinStock      int       `json:"minStock"`
	MaxStock      *int      `json:"maxStock,omitempty"`
	IsActive      bool      `json:"isActive"`
	ImageURL      string    `json:"imageUrl,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

func toProductView(p *models.Product, stock int) productView {
	view := productView{
		ID:          p.ID,
		SKU:         p.SKU,
		Name:        p.Name,
		Description: p.Description,
		CategoryID:  p.CategoryID,
		Price:       p.UnitPrice,
		CostPrice:   p.CostPrice,
		TaxRate:     p.TaxRate,
		Unit:        p.Unit,
		Stock:       stock,
		MinStock:    p.MinStockLevel,
		MaxStock:    p.MaxStockLevel,
		IsActive:    p.IsActive,
		ImageURL:    p.ImageURL,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
	if p.Category != nil {
		view.Category = p.Category.Name
	}
	return view
}

func registerProducts(r *rpc.Router, st *store.Stores) {
	r.Query("products.list", func(ctx *rpc.Ctx, raw json.RawMessage) (any, error) {
		var in struct {
			pageInput
			Search     string  `json:"search"`
			CategoryID *string `json:"categoryId"`
		}
		if err := rpc.Decode(raw, &in); err != nil {
			return nil, err
		}
		v := validation.Violations{}
		in.normalize(v)
		validation.OptionalUUID("categoryId", in.CategoryID, v)
		if !v.Empty() {
			return nil, apperr.Validation(v)
		}
		params := store.ProductListParams{Page: in.Page, Limit: in.Limit, Search: in.Search}
		if in.CategoryID != nil {
			params.CategoryID = *in.CategoryID
		}
		products, total, err := st.Products.List(ctx, params)
		if err != nil {
			return nil, err
		}
		ids := make([]string, len(products))
		for i := range products {
			ids[i] = products[i].ID
		}
		stocks, err := st.Products.StockTotals(ctx, ids)
		if err != nil {
			return nil, err
		}
		items := make([]productView, 0, len(products))
		for i := range products {
			items = append(items, toProductView(&products[i], stocks[products[i].ID]))
		}
		return listResult{Items: items, Total: total, Page: in.Page, Limit: in.Limit}, nil
	})

	r.Query("products.getById", func(ctx *rpc.Ctx, raw json.RawMessage) (any, error) {
		var in struct {
			ID string `json:"id"`
		}
		if err := rpc.Decode(raw, &in); err != nil {
			return nil, err
		}
		v := validation.Violations{}
		validation.UUID("id", in.ID, v)
		if !v.Empty() {
			return nil, apperr.Validation(v)
		}
		product, err := st.Products.GetByID(ctx, in.ID)
		if err != nil {
			return nil, err
		}
		stocks, err := st.Products.StockTotals(ctx, []string{product.ID})
		if err != nil {
			return nil, err
		}
		return toProductView(product, stocks[product.ID]), nil
	})

	r.Mutation("products.create", func(ctx *rpc.Ctx, raw json.RawMessage) (any, error) {
		var in struct {
			SKU         string   `json:"sku"`
			Name        string   `json:"name"`
			Description string   `json:"description"`
			CategoryID  *string  `json:"categoryId"`
			Price       float64  `json:"price"`
			CostPrice   *float64 `json:"costPrice"`
			TaxRate     *float64 `json:"taxRate"`
			Unit        string   `json:"unit"`
			MinStock    *int     `json:"minStock"`
		}
		if err := rpc.Decode(raw, &in); err != nil {
			return nil, err
		}
		v := validation.Violations{}
		validation.Required("sku", in.SKU, v)
		validation.MaxLen("sku", in.SKU, 100, v)
		validation.Required("name", in.Name, v)
		validation.MaxLen("name", in.Name, 255, v)
		validation.PositiveFloat("price", in.Price, v)
		validation.OptionalUUID("categoryId", in.CategoryID, v)
		if in.CostPrice != nil {
			validation.PositiveFloat("costPrice", *in.CostPrice, v)
		}
		if in.TaxRate != nil {
			validation.RangeFloat("taxRate", *in.TaxRate, 0, 100, v)
		}
		if in.MinStock != nil {
			validation.NonNegativeInt("minStock", *in.MinStock, v)
		}
		if !v.Empty() {
			return nil, apperr.Validation(v)
		}

		product := &models.Product{
			SKU:         in.SKU,
			Name:        in.Name,
			Description: in.Description,
			CategoryID:  in.CategoryID,
			UnitPrice:   in.Price,
			Unit:        in.Unit,
		}
		if product.Unit == "" {
			product.Unit = "piece"
		}
		if in.CostPrice != nil {
			product.CostPrice = *in.CostPrice
		}
		if in.TaxRate != nil {
			product.TaxRate = *in.TaxRate
		}
		if in.MinStock != nil {
			product.MinStockLevel = *in.MinStock
		}
		if err := st.Products.Create(ctx, product); err != nil {
			return nil, err
		}
		return toProductView(product, 0), nil
	})

	r.Mutation("products.update", func(ctx *rpc.Ctx, raw json.RawMessage) (any, error) {
		var in struct {
			ID          string   `json:"id"`
			Name        *string  `json:"name"`
			Description *string  `json:"description"`
			CategoryID  *string  `json:"categoryId"`
			Price       *float64 `json:"price"`
			CostPrice   *float64 `json:"costPrice"`
			MinStock    *int     `json:"minStock"`
			IsActive    *bool    `json:"isActive"`
		}
		if err := rpc.Decode(raw, &in); err != nil {
			return nil, err
		}
		v := validation.Violations{}
		validation.UUID("id", in.ID, v)
		if in.Name != nil {
			validation.Required("name", *in.Name, v)
			validation.MaxLen("name", *in.Name, 255, v)
		}
		if in.Price != nil {
			validation.PositiveFloat("price", *in.Price, v)
		}
		if in.CostPrice != nil {
			validation.PositiveFloat("costPrice", *in.CostPrice, v)
		}
		if in.MinStock != nil {
			validation.NonNegativeInt("minStock", *in.MinStock, v)
		}
		validation.OptionalUUID("categoryId", in.CategoryID, v)
		if !v.Empty() {
			return nil, apperr.Validation(v)
		}

		// Only supplied fields are touched.
		fields := map[string]any{}
		if in.Name != nil {
			fields["name"] = *in.Name
		}
		if in.Description != nil {
			fields["description"] = *in.Description
		}
		if in.CategoryID != nil {
			// An empty categoryId clears the reference to NULL; a non-empty
			// one must point at an existing category.
			if *in.CategoryID == "" {
				fields["category_id"] = nil
			} else {
				fields["category_id"] = *in.CategoryID
			}
		}
		if in.Price != nil {
			fields["unit_price"] = *in.Price
		}
		if in.CostPrice != nil {
			fields["cost_price"] = *in.CostPrice
		}
		if in.MinStock != nil {
			fields["min_stock_level"] = *in.MinStock
		}
		if in.IsActive != nil {
			fields["is_active"] = *in.IsActive
		}
		if len(fields) == 0 {
			fields["updated_at"] = time.Now()
		}
		product, err := st.Products.Update(ctx, in.ID, fields)
		if err != nil {
			return nil, err
		}
		stocks, err := st.Products.StockTotals(ctx, []string{product.ID})
		if err != nil {
			return nil, err
		}
		return toProductView(product, stocks[product.ID]), nil
	})

	r.Query("products.listCategories", func(ctx *rpc.Ctx, raw json.RawMessage) (any, error) {
		return st.Products.ListCategories(ctx)
	})

	r.Mutation("products.createCategory", func(ctx *rpc.Ctx, raw json.RawMessage) (any, error) {
		var in struct {
			Name        string  `json:"name"`
			Description string  `json:"description"`
			ParentID    *string `json:"parentId"`
		}
		if err := rpc.Decode(raw, &in); err != nil {
			return nil, err
		}
		v := validation.Violations{}
		validation.Required("name", in.Name, v)
		validation.MaxLen("name", in.Name, 255, v)
		validation.OptionalUUID("parentId", in.ParentID, v)
		if !v.Empty() {
			return nil, apperr.Validation(v)
		}
		category := &models.Category{Name: in.Name, Description: in.Description, ParentID: in.ParentID}
		if err := st.Products.CreateCategory(ctx, category); err != nil {
			return nil, err
		}
		return category, nil
	})

	r.Mutation("products.moveCategory", func(ctx *rpc.Ctx, raw json.RawMessage) (any, error) {
		var in struct {
			ID       string  `json:"id"`
			ParentID *string `json:"parentId"`
		}
		if err := rpc.Decode(raw, &in); err != nil {
			return nil, err
		}
		v := validation.Violations{}
		validation.UUID("id", in.ID, v)
		validation.OptionalUUID("parentId", in.ParentID, v)
		if !v.Empty() {
			return nil, apperr.Validation(v)
		}
		return st.Products.SetCategoryParent(ctx, in.ID, in.ParentID)
	})
}
