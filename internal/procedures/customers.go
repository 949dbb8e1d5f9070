package procedures

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/kytehq/kyte/internal/apperr"
	"github.com/kytehq/kyte/internal/models"
	"github.com/kytehq/kyte/internal/rpc"
	"github.com/kytehq/kyte/internal/store"
	"github.com/kytehq/kyte/internal/validation"
)

var customerTypes = []string{
	models.CustomerRetail,
	models.CustomerWholesale,
	models.CustomerEnterprise,
}

func registerCustomers(r *rpc.Router, st *store.Stores) {
	r.Query("customers.list", func(ctx *rpc.Ctx, raw json.RawMessage) (any, error) {
		var in struct {
			pageInput
			Search string `json:"search"`
			Type   string `json:"type"`
		}
		if err := rpc.Decode(raw, &in); err != nil {
			return nil, err
		}
		v := validation.Violations{}
		in.normalize(v)
		validation.OneOf("type", in.Type, customerTypes, v)
		if !v.Empty() {
			return nil, apperr.Validation(v)
		}
		customers, total, err := st.Customers.List(ctx, store.CustomerListParams{
			Page:   in.Page,
			Limit:  in.Limit,
			Search: in.Search,
			Type:   in.Type,
		})
		if err != nil {
			return nil, err
		}
		return listResult{Items: customers, Total: total, Page: in.Page, Limit: in.Limit}, nil
	})

	r.Query("customers.getById", func(ctx *rpc.Ctx, raw json.RawMessage) (any, error) {
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
		return st.Customers.GetByID(ctx, in.ID)
	})

	r.Mutation("customers.create", func(ctx *rpc.Ctx, raw json.RawMessage) (any, error) {
		var in struct {
			Name            string `json:"name"`
			Email           string `json:"email"`
			Phone           string `json:"phone"`
			Type            string `json:"type"`
			BillingAddress  string `json:"billingAddress"`
			BillingCity     string `json:"billingCity"`
			BillingCountry  string `json:"billingCountry"`
			ShippingAddress string `json:"shippingAddress"`
			TaxID           string `json:"taxId"`
			CreditLimit     string `json:"creditLimit"`
			PaymentTerms    string `json:"paymentTerms"`
			Notes           string `json:"notes"`
		}
		if err := rpc.Decode(raw, &in); err != nil {
			return nil, err
		}
		v := validation.Violations{}
		validation.Required("name", in.Name, v)
		validation.MaxLen("name", in.Name, 255, v)
		validation.Email("email", in.Email, v)
		validation.OneOf("type", in.Type, customerTypes, v)
		if !v.Empty() {
			return nil, apperr.Validation(v)
		}
		if in.Type == "" {
			in.Type = models.CustomerRetail
		}
		customer := &models.Customer{
			Code:            fmt.Sprintf("C-%s", numberSuffix()),
			Name:            in.Name,
			Email:           in.Email,
			Phone:           in.Phone,
			Type:            in.Type,
			BillingAddress:  in.BillingAddress,
			BillingCity:     in.BillingCity,
			BillingCountry:  in.BillingCountry,
			ShippingAddress: in.ShippingAddress,
			TaxID:           in.TaxID,
			CreditLimit:     in.CreditLimit,
			PaymentTerms:    in.PaymentTerms,
			Notes:           in.Notes,
		}
		if err := st.Customers.Create(ctx, customer); err != nil {
			return nil, err
		}
		return customer, nil
	})

	r.Mutation("customers.update", func(ctx *rpc.Ctx, raw json.RawMessage) (any, error) {
		var in struct {
			ID       string  `json:"id"`
			Name     *string `json:"name"`
			Email    *string `json:"email"`
			Phone    *string `json:"phone"`
			Type     *string `json:"type"`
			Notes    *string `json:"notes"`
			IsActive *bool   `json:"isActive"`
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
		if in.Email != nil {
			validation.Email("email", *in.Email, v)
		}
		if in.Type != nil {
			// The type column is non-null; a supplied value must be one of
			// the enum members, never cleared.
			validation.Required("type", *in.Type, v)
			validation.OneOf("type", *in.Type, customerTypes, v)
		}
		if !v.Empty() {
			return nil, apperr.Validation(v)
		}

		fields := map[string]any{}
		if in.Name != nil {
			fields["name"] = *in.Name
		}
		if in.Email != nil {
			fields["email"] = *in.Email
		}
		if in.Phone != nil {
			fields["phone"] = *in.Phone
		}
		if in.Type != nil {
			fields["type"] = *in.Type
		}
		if in.Notes != nil {
			fields["notes"] = *in.Notes
		}
		if in.IsActive != nil {
			fields["is_active"] = *in.IsActive
		}
		if len(fields) == 0 {
			fields["updated_at"] = time.Now()
		}
		return st.Customers.Update(ctx, in.ID, fields)
	})
}
