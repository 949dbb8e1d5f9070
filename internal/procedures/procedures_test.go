package procedures

import (
	"context"
	"encoding/json"
	"testing"

	"go.uber.org/zap"

	"github.com/kytehq/kyte/internal/apperr"
	"github.com/kytehq/kyte/internal/rpc"
	"github.com/kytehq/kyte/internal/store"
	"github.com/kytehq/kyte/internal/testutil"
)

func newTestRouter(t *testing.T) *rpc.Router {
	t.Helper()
	st := store.NewStores(testutil.OpenDB(t))
	r := rpc.NewRouter()
	Register(r, st)
	return r
}

// call invokes a procedure directly, bypassing HTTP.
func call(t *testing.T, r *rpc.Router, name, input string) (any, error) {
	t.Helper()
	p, ok := r.Lookup(name)
	if !ok {
		t.Fatalf("procedure %q not registered", name)
	}
	ctx := &rpc.Ctx{Context: context.Background(), Log: zap.NewNop()}
	return p.Handle(ctx, json.RawMessage(input))
}

func mustCall(t *testing.T, r *rpc.Router, name, input string) any {
	t.Helper()
	out, err := call(t, r, name, input)
	if err != nil {
		t.Fatalf("%s: %v", name, err)
	}
	return out
}

// jsonRoundtrip re-decodes a result through JSON so tests can assert on the
// wire shape instead of internal types.
func jsonRoundtrip(t *testing.T, v any) any {
	t.Helper()
	b, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var out any
	if err := json.Unmarshal(b, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	return out
}

func wantKind(t *testing.T, err error, kind apperr.Kind) {
	t.Helper()
	if !apperr.IsKind(err, kind) {
		t.Fatalf("expected %s error, got %v", kind, err)
	}
}

func TestRegisterCoversAllNamespaces(t *testing.T) {
	r := newTestRouter(t)
	for _, name := range []string{
		"products.list", "products.getById", "products.create", "products.update",
		"products.listCategories", "products.createCategory", "products.moveCategory",
		"inventory.getLevels", "inventory.getWarehouses", "inventory.createWarehouse",
		"inventory.adjustStock", "inventory.getTransactions",
		"customers.list", "customers.getById", "customers.create", "customers.update",
		"orders.list", "orders.getById", "orders.create", "orders.updateStatus",
		"employees.list", "employees.getById", "employees.create", "employees.update",
		"employees.getDepartments", "employees.createDepartment",
		"dashboard.getSummary", "dashboard.getRecentActivity", "dashboard.getSalesChart",
	} {
		if _, ok := r.Lookup(name); !ok {
			t.Errorf("missing procedure %s", name)
		}
	}
}

func TestPaginationDefaultsAndBounds(t *testing.T) {
	r := newTestRouter(t)

	out := mustCall(t, r, "products.list", `{}`)
	res := out.(listResult)
	if res.Page != 1 || res.Limit != 20 {
		t.Fatalf("defaults not applied: page=%d limit=%d", res.Page, res.Limit)
	}

	_, err := call(t, r, "products.list", `{"limit":500}`)
	wantKind(t, err, apperr.KindValidation)
	_, err = call(t, r, "products.list", `{"page":-1}`)
	wantKind(t, err, apperr.KindValidation)
}
