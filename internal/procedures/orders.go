package procedures

import (
	"encoding/json"
	"fmt"
	"math"
	"time"

	"github.com/kytehq/kyte/internal/apperr"
	"github.com/kytehq/kyte/internal/models"
	"github.com/kytehq/kyte/internal/rpc"
	"github.com/kytehq/kyte/internal/store"
	"github.com/kytehq/kyte/internal/validation"
)

// orderTaxRate is the flat rate applied at order creation, as encoded in
// the pricing defaults.
const orderTaxRate = 0.10

var orderStatuses = []string{
	models.OrderDraft,
	models.OrderConfirmed,
	models.OrderProcessing,
	models.OrderShipped,
	models.OrderDelivered,
	models.OrderCancelled,
}

type orderItemView struct {
	ProductID string  `json:"productId"`
	Name      string  `json:"name,omitempty"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unitPrice"`
	LineTotal float64 `json:"lineTotal"`
}

type orderView struct {
	ID          string          `json:"id"`
	OrderNumber string          `json:"orderNumber"`
	Customer    *orderCustomer  `json:"customer,omitempty"`
	CustomerID  string          `json:"customerId"`
	Status      string          `json:"status"`
	Subtotal    float64         `json:"subtotal"`
	Tax         float64         `json:"tax"`
	Discount    float64         `json:"discount"`
	Shipping    float64         `json:"shipping"`
	Total       float64         `json:"total"`
	OrderDate   time.Time       `json:"orderDate"`
	ShippedDate *time.Time      `json:"shippedDate,omitempty"`
	Notes       string          `json:"notes,omitempty"`
	Items       []orderItemView `json:"items,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

type orderCustomer struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
}

func toOrderView(o *models.SalesOrder, withItems bool) orderView {
	view := orderView{
		ID:          o.ID,
		OrderNumber: o.OrderNumber,
		CustomerID:  o.CustomerID,
		Status:      o.Status,
		Subtotal:    o.Subtotal,
		Tax:         o.TaxAmount,
		Discount:    o.DiscountAmount,
		Shipping:    o.ShippingAmount,
		Total:       o.TotalAmount,
		OrderDate:   o.OrderDate,
		ShippedDate: o.ShippedDate,
		Notes:       o.Notes,
		CreatedAt:   o.CreatedAt,
		UpdatedAt:   o.UpdatedAt,
	}
	if o.Customer != nil {
		view.Customer = &orderCustomer{ID: o.Customer.ID, Name: o.Customer.Name, Email: o.Customer.Email}
	}
	if withItems {
		for _, item := range o.Items {
			iv := orderItemView{
				ProductID: item.ProductID,
				Quantity:  item.Quantity,
				UnitPrice: item.UnitPrice,
				LineTotal: item.LineTotal,
			}
			if item.Product != nil {
				iv.Name = item.Product.Name
			}
			view.Items = append(view.Items, iv)
		}
	}
	return view
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}

func registerOrders(r *rpc.Router, st *store.Stores) {
	r.Query("orders.list", func(ctx *rpc.Ctx, raw json.RawMessage) (any, error) {
		var in struct {
			pageInput
			Status     string  `json:"status"`
			CustomerID *string `json:"customerId"`
		}
		if err := rpc.Decode(raw, &in); err != nil {
			return nil, err
		}
		v := validation.Violations{}
		in.normalize(v)
		validation.OneOf("status", in.Status, orderStatuses, v)
		validation.OptionalUUID("customerId", in.CustomerID, v)
		if !v.Empty() {
			return nil, apperr.Validation(v)
		}
		params := store.OrderListParams{Page: in.Page, Limit: in.Limit, Status: in.Status}
		if in.CustomerID != nil {
			params.CustomerID = *in.CustomerID
		}
		orders, total, err := st.Orders.List(ctx, params)
		if err != nil {
			return nil, err
		}
		items := make([]orderView, 0, len(orders))
		for i := range orders {
			items = append(items, toOrderView(&orders[i], false))
		}
		return listResult{Items: items, Total: total, Page: in.Page, Limit: in.Limit}, nil
	})

	r.Query("orders.getById", func(ctx *rpc.Ctx, raw json.RawMessage) (any, error) {
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
		order, err := st.Orders.GetByID(ctx, in.ID)
		if err != nil {
			return nil, err
		}
		return toOrderView(order, true), nil
	})

	r.Mutation("orders.create", func(ctx *rpc.Ctx, raw json.RawMessage) (any, error) {
		var in struct {
			CustomerID string `json:"customerId"`
			Items      []struct {
				ProductID string  `json:"productId"`
				Quantity  int     `json:"quantity"`
				UnitPrice float64 `json:"unitPrice"`
			} `json:"items"`
			ShippingAddress string `json:"shippingAddress"`
			Notes           string `json:"notes"`
		}
		if err := rpc.Decode(raw, &in); err != nil {
			return nil, err
		}
		v := validation.Violations{}
		validation.UUID("customerId", in.CustomerID, v)
		if len(in.Items) == 0 {
			v["items"] = "required"
		}
		for i, item := range in.Items {
			prefix := fmt.Sprintf("items[%d].", i)
			validation.UUID(prefix+"productId", item.ProductID, v)
			validation.PositiveInt(prefix+"quantity", item.Quantity, v)
			validation.PositiveFloat(prefix+"unitPrice", item.UnitPrice, v)
		}
		if !v.Empty() {
			return nil, apperr.Validation(v)
		}

		if err := st.Customers.Exists(ctx, in.CustomerID); err != nil {
			return nil, err
		}

		var subtotal float64
		items := make([]models.SalesOrderItem, 0, len(in.Items))
		for _, item := range in.Items {
			lineTotal := round2(item.UnitPrice * float64(item.Quantity))
			subtotal += lineTotal
			items = append(items, models.SalesOrderItem{
				ProductID: item.ProductID,
				Quantity:  item.Quantity,
				UnitPrice: item.UnitPrice,
				LineTotal: lineTotal,
			})
		}
		subtotal = round2(subtotal)
		tax := round2(subtotal * orderTaxRate)

		order := &models.SalesOrder{
			OrderNumber:     fmt.Sprintf("ORD-%d-%s", time.Now().Year(), numberSuffix()),
			CustomerID:      in.CustomerID,
			Status:          models.OrderDraft,
			Subtotal:        subtotal,
			TaxAmount:       tax,
			TotalAmount:     round2(subtotal + tax),
			OrderDate:       time.Now(),
			ShippingAddress: in.ShippingAddress,
			Notes:           in.Notes,
			SalesRepID:      optionalUserID(ctx.UserID),
		}
		if err := st.Orders.Create(ctx, order, items); err != nil {
			return nil, err
		}
		return toOrderView(order, true), nil
	})

	r.Mutation("orders.updateStatus", func(ctx *rpc.Ctx, raw json.RawMessage) (any, error) {
		var in struct {
			ID     string `json:"id"`
			Status string `json:"status"`
		}
		if err := rpc.Decode(raw, &in); err != nil {
			return nil, err
		}
		v := validation.Violations{}
		validation.UUID("id", in.ID, v)
		validation.Required("status", in.Status, v)
		validation.OneOf("status", in.Status, orderStatuses, v)
		if !v.Empty() {
			return nil, apperr.Validation(v)
		}
		order, err := st.Orders.UpdateStatus(ctx, in.ID, in.Status)
		if err != nil {
			return nil, err
		}
		return toOrderView(order, true), nil
	})
}
