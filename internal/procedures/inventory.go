package procedures

import (
	"encoding/json"

	"github.com/kytehq/kyte/internal/apperr"
	"github.com/kytehq/kyte/internal/models"
	"github.com/kytehq/kyte/internal/rpc"
	"github.com/kytehq/kyte/internal/store"
	"github.com/kytehq/kyte/internal/validation"
)

var movementTypes = []string{
	models.MovementIn,
	models.MovementOut,
	models.MovementAdjustment,
	models.MovementTransfer,
}

// Stock status relative to the product's minimum threshold.
const (
	stockOK  = "ok"
	stockLow = "low"
	stockOut = "out"
)

type levelView struct {
	ProductID     string `json:"productId"`
	SKU           string `json:"sku"`
	Name          string `json:"name"`
	WarehouseID   string `json:"warehouseId"`
	WarehouseCode string `json:"warehouseCode,omitempty"`
	Quantity      int    `json:"quantity"`
	Reserved      int    `json:"reserved"`
	MinStock      int    `json:"minStock"`
	Status        string `json:"status"`
}

func stockStatus(quantity, minStock int) string {
	switch {
	case quantity == 0:
		return stockOut
	case quantity <= minStock:
		return stockLow
	default:
		return stockOK
	}
}

func registerInventory(r *rpc.Router, st *store.Stores) {
	r.Query("inventory.getLevels", func(ctx *rpc.Ctx, raw json.RawMessage) (any, error) {
		var in struct {
			WarehouseID  *string `json:"warehouseId"`
			LowStockOnly bool    `json:"lowStockOnly"`
		}
		if err := rpc.Decode(raw, &in); err != nil {
			return nil, err
		}
		v := validation.Violations{}
		validation.OptionalUUID("warehouseId", in.WarehouseID, v)
		if !v.Empty() {
			return nil, apperr.Validation(v)
		}
		warehouseID := ""
		if in.WarehouseID != nil {
			warehouseID = *in.WarehouseID
		}
		rows, err := st.Inventory.Levels(ctx, warehouseID)
		if err != nil {
			return nil, err
		}
		views := make([]levelView, 0, len(rows))
		for _, row := range rows {
			view := levelView{
				ProductID:   row.ProductID,
				WarehouseID: row.WarehouseID,
				Quantity:    row.Quantity,
				Reserved:    row.ReservedQuantity,
			}
			if row.Product != nil {
				view.SKU = row.Product.SKU
				view.Name = row.Product.Name
				view.MinStock = row.Product.MinStockLevel
			}
			if row.Warehouse != nil {
				view.WarehouseCode = row.Warehouse.Code
			}
			view.Status = stockStatus(view.Quantity, view.MinStock)
			if in.LowStockOnly && view.Status == stockOK {
				continue
			}
			views = append(views, view)
		}
		return views, nil
	})

	r.Query("inventory.getWarehouses", func(ctx *rpc.Ctx, raw json.RawMessage) (any, error) {
		warehouses, err := st.Inventory.ListWarehouses(ctx)
		if err != nil {
			return nil, err
		}
		counts, err := st.Inventory.WarehouseProductCounts(ctx)
		if err != nil {
			return nil, err
		}
		type warehouseView struct {
			models.Warehouse
			Products int64 `json:"products"`
		}
		views := make([]warehouseView, 0, len(warehouses))
		for _, w := range warehouses {
			views = append(views, warehouseView{Warehouse: w, Products: counts[w.ID]})
		}
		return views, nil
	})

	r.Mutation("inventory.createWarehouse", func(ctx *rpc.Ctx, raw json.RawMessage) (any, error) {
		var in struct {
			Name          string `json:"name"`
			Code          string `json:"code"`
			Address       string `json:"address"`
			City          string `json:"city"`
			Country       string `json:"country"`
			ContactPerson string `json:"contactPerson"`
			ContactPhone  string `json:"contactPhone"`
		}
		if err := rpc.Decode(raw, &in); err != nil {
			return nil, err
		}
		v := validation.Violations{}
		validation.Required("name", in.Name, v)
		validation.Required("code", in.Code, v)
		validation.MaxLen("code", in.Code, 50, v)
		if !v.Empty() {
			return nil, apperr.Validation(v)
		}
		warehouse := &models.Warehouse{
			Name:          in.Name,
			Code:          in.Code,
			Address:       in.Address,
			City:          in.City,
			Country:       in.Country,
			ContactPerson: in.ContactPerson,
			ContactPhone:  in.ContactPhone,
		}
		if err := st.Inventory.CreateWarehouse(ctx, warehouse); err != nil {
			return nil, err
		}
		return warehouse, nil
	})

	r.Mutation("inventory.adjustStock", func(ctx *rpc.Ctx, raw json.RawMessage) (any, error) {
		var in struct {
			ProductID     string   `json:"productId"`
			WarehouseID   string   `json:"warehouseId"`
			Quantity      int      `json:"quantity"`
			Type          string   `json:"type"`
			UnitCost      *float64 `json:"unitCost"`
			ReferenceType string   `json:"referenceType"`
			ReferenceID   *string  `json:"referenceId"`
			Reason        string   `json:"reason"`
		}
		if err := rpc.Decode(raw, &in); err != nil {
			return nil, err
		}
		v := validation.Violations{}
		validation.UUID("productId", in.ProductID, v)
		validation.UUID("warehouseId", in.WarehouseID, v)
		validation.Required("type", in.Type, v)
		validation.OneOf("type", in.Type, movementTypes, v)
		validation.OptionalUUID("referenceId", in.ReferenceID, v)
		if in.Quantity == 0 {
			v["quantity"] = "must_be_nonzero"
		}
		// "in" movements add stock, "out" movements remove it; the signed
		// quantity must agree with the declared type.
		if in.Type == models.MovementIn && in.Quantity < 0 {
			v["quantity"] = "must_be_positive"
		}
		if in.Type == models.MovementOut && in.Quantity > 0 {
			v["quantity"] = "must_be_negative"
		}
		if in.UnitCost != nil {
			validation.PositiveFloat("unitCost", *in.UnitCost, v)
		}
		if !v.Empty() {
			return nil, apperr.Validation(v)
		}

		tx := &models.InventoryTransaction{
			ProductID:     in.ProductID,
			WarehouseID:   in.WarehouseID,
			Type:          in.Type,
			Quantity:      in.Quantity,
			UnitCost:      in.UnitCost,
			ReferenceType: in.ReferenceType,
			ReferenceID:   in.ReferenceID,
			Notes:         in.Reason,
			CreatedBy:     optionalUserID(ctx.UserID),
		}
		level, err := st.Inventory.AdjustStock(ctx, tx)
		if err != nil {
			return nil, err
		}
		return map[string]any{"transaction": tx, "level": level}, nil
	})

	r.Query("inventory.getTransactions", func(ctx *rpc.Ctx, raw json.RawMessage) (any, error) {
		var in struct {
			ProductID   *string `json:"productId"`
			WarehouseID *string `json:"warehouseId"`
			Limit       int     `json:"limit"`
		}
		if err := rpc.Decode(raw, &in); err != nil {
			return nil, err
		}
		v := validation.Violations{}
		validation.OptionalUUID("productId", in.ProductID, v)
		validation.OptionalUUID("warehouseId", in.WarehouseID, v)
		if in.Limit == 0 {
			in.Limit = 20
		}
		if in.Limit < 1 || in.Limit > 100 {
			v["limit"] = "out_of_range"
		}
		if !v.Empty() {
			return nil, apperr.Validation(v)
		}
		params := store.TransactionListParams{Limit: in.Limit}
		if in.ProductID != nil {
			params.ProductID = *in.ProductID
		}
		if in.WarehouseID != nil {
			params.WarehouseID = *in.WarehouseID
		}
		return st.Inventory.ListTransactions(ctx, params)
	})
}
