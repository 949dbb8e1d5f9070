package procedures

import (
	"fmt"
	"testing"

	"github.com/kytehq/kyte/internal/apperr"
	"github.com/kytehq/kyte/internal/models"
)

func TestProductCreateGetRoundtrip(t *testing.T) {
	r := newTestRouter(t)

	out := mustCall(t, r, "products.create", `{"sku":"SKU-100","name":"Widget","price":10.00}`)
	created := out.(productView)
	if created.ID == "" {
		t.Fatalf("no id assigned")
	}
	if created.Price != 10.00 || created.Unit != "piece" {
		t.Fatalf("defaults wrong: %+v", created)
	}

	out = mustCall(t, r, "products.getById", fmt.Sprintf(`{"id":%q}`, created.ID))
	got := out.(productView)
	if got.SKU != "SKU-100" || got.Price != 10.00 {
		t.Fatalf("roundtrip mismatch: %+v", got)
	}
	if got.Stock != 0 {
		t.Fatalf("fresh product should have zero stock, got %d", got.Stock)
	}
}

func TestProductCreateDuplicateSKU(t *testing.T) {
	r := newTestRouter(t)
	mustCall(t, r, "products.create", `{"sku":"SKU-1","name":"A","price":1}`)
	_, err := call(t, r, "products.create", `{"sku":"SKU-1","name":"B","price":2}`)
	wantKind(t, err, apperr.KindConflict)
}

func TestProductCreateValidation(t *testing.T) {
	r := newTestRouter(t)
	_, err := call(t, r, "products.create", `{"sku":"","name":"","price":-2}`)
	wantKind(t, err, apperr.KindValidation)

	ae := apperr.From(err)
	for _, field := range []string{"sku", "name", "price"} {
		if ae.Fields[field] == "" {
			t.Errorf("field %s not reported: %v", field, ae.Fields)
		}
	}
}

func TestProductListPaginationTotals(t *testing.T) {
	r := newTestRouter(t)
	for i := 0; i < 25; i++ {
		mustCall(t, r, "products.create",
			fmt.Sprintf(`{"sku":"SKU-%03d","name":"Item %d","price":1}`, i, i))
	}

	res := mustCall(t, r, "products.list", `{"page":1,"limit":10}`).(listResult)
	if res.Total != 25 || len(res.Items.([]productView)) != 10 {
		t.Fatalf("page 1 wrong: total=%d", res.Total)
	}
	res = mustCall(t, r, "products.list", `{"page":3,"limit":10}`).(listResult)
	if res.Total != 25 || len(res.Items.([]productView)) != 5 {
		t.Fatalf("last page wrong: total=%d len=%d", res.Total, len(res.Items.([]productView)))
	}
}

func TestProductPartialUpdate(t *testing.T) {
	r := newTestRouter(t)
	created := mustCall(t, r, "products.create",
		`{"sku":"SKU-U","name":"Before","description":"keep","price":5}`).(productView)

	out := mustCall(t, r, "products.update",
		fmt.Sprintf(`{"id":%q,"name":"After"}`, created.ID)).(productView)
	if out.Name != "After" {
		t.Fatalf("name not updated: %+v", out)
	}
	if out.Description != "keep" || out.Price != 5 {
		t.Fatalf("untouched fields changed: %+v", out)
	}
}

func TestProductUpdateCategoryEmptyClearsToNull(t *testing.T) {
	r := newTestRouter(t)
	cat := mustCall(t, r, "products.createCategory", `{"name":"Hardware"}`).(*models.Category)
	created := mustCall(t, r, "products.create",
		fmt.Sprintf(`{"sku":"SKU-C","name":"Categorized","price":5,"categoryId":%q}`, cat.ID)).(productView)
	if created.CategoryID == nil {
		t.Fatalf("category not set on create")
	}

	out := mustCall(t, r, "products.update",
		fmt.Sprintf(`{"id":%q,"categoryId":""}`, created.ID)).(productView)
	if out.CategoryID != nil {
		t.Fatalf("empty categoryId must clear to NULL, got %q", *out.CategoryID)
	}

	// A non-empty reference still has to resolve.
	_, err := call(t, r, "products.update",
		fmt.Sprintf(`{"id":%q,"categoryId":"99999999-9999-9999-9999-999999999999"}`, created.ID))
	wantKind(t, err, apperr.KindReferential)
}

func TestProductUpdateNotFound(t *testing.T) {
	r := newTestRouter(t)
	_, err := call(t, r, "products.update",
		`{"id":"99999999-9999-9999-9999-999999999999","name":"x"}`)
	wantKind(t, err, apperr.KindNotFound)
}

func TestCategoryTree(t *testing.T) {
	r := newTestRouter(t)

	root := mustCall(t, r, "products.createCategory", `{"name":"Hardware"}`).(*models.Category)
	child := mustCall(t, r, "products.createCategory",
		fmt.Sprintf(`{"name":"Fasteners","parentId":%q}`, root.ID)).(*models.Category)

	// Moving the root under its child must be rejected.
	_, err := call(t, r, "products.moveCategory",
		fmt.Sprintf(`{"id":%q,"parentId":%q}`, root.ID, child.ID))
	wantKind(t, err, apperr.KindValidation)

	cats := mustCall(t, r, "products.listCategories", ``).([]models.Category)
	if len(cats) != 2 {
		t.Fatalf("expected 2 categories, got %d", len(cats))
	}
}

func TestProductCreateUnknownCategory(t *testing.T) {
	r := newTestRouter(t)
	_, err := call(t, r, "products.create",
		`{"sku":"SKU-X","name":"X","price":1,"categoryId":"99999999-9999-9999-9999-999999999999"}`)
	wantKind(t, err, apperr.KindReferential)
}
