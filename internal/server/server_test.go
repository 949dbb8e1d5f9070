package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/kytehq/kyte/internal/config"
	"github.com/kytehq/kyte/internal/procedures"
	"github.com/kytehq/kyte/internal/rpc"
	"github.com/kytehq/kyte/internal/store"
	"github.com/kytehq/kyte/internal/testutil"
)

func newTestServer(t *testing.T) http.Handler {
	t.Helper()
	gin.SetMode(gin.TestMode)
	st := store.NewStores(testutil.OpenDB(t))
	router := rpc.NewRouter()
	procedures.Register(router, st)
	cfg := config.Config{Env: "test", Version: "test"}
	return New(cfg, router, zap.NewNop())
}

func doJSON(t *testing.T, h http.Handler, method, path, body string) (int, map[string]any) {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	var out map[string]any
	if err := json.Unmarshal(rr.Body.Bytes(), &out); err != nil {
		t.Fatalf("%s %s: bad JSON response %q: %v", method, path, rr.Body.String(), err)
	}
	return rr.Code, out
}

func TestHealthEndpoint(t *testing.T) {
	h := newTestServer(t)
	code, out := doJSON(t, h, http.MethodGet, "/api/health", "")
	if code != http.StatusOK {
		t.Fatalf("got %d", code)
	}
	if out["status"] != "ok" || out["version"] != "test" || out["environment"] != "test" {
		t.Fatalf("unexpected payload: %v", out)
	}
	if out["timestamp"] == nil {
		t.Fatalf("no timestamp: %v", out)
	}
}

func TestMutationOverHTTP(t *testing.T) {
	h := newTestServer(t)
	code, out := doJSON(t, h, http.MethodPost, "/api/rpc/products.create",
		`{"sku":"SKU-100","name":"Widget","price":10.00}`)
	if code != http.StatusOK {
		t.Fatalf("got %d: %v", code, out)
	}
	data := out["data"].(map[string]any)
	if data["sku"] != "SKU-100" || data["price"] != 10.00 {
		t.Fatalf("unexpected data: %v", data)
	}
	if data["id"] == "" {
		t.Fatalf("no id: %v", data)
	}
}

func TestQueryOverHTTPWithInputParam(t *testing.T) {
	h := newTestServer(t)
	doJSON(t, h, http.MethodPost, "/api/rpc/products.create",
		`{"sku":"SKU-1","name":"A","price":1}`)

	input := url.QueryEscape(`{"search":"A"}`)
	code, out := doJSON(t, h, http.MethodGet, "/api/rpc/products.list?input="+input, "")
	if code != http.StatusOK {
		t.Fatalf("got %d: %v", code, out)
	}
	data := out["data"].(map[string]any)
	if data["total"] != 1.0 {
		t.Fatalf("unexpected total: %v", data)
	}
}

func TestUnknownProcedure(t *testing.T) {
	h := newTestServer(t)
	code, out := doJSON(t, h, http.MethodGet, "/api/rpc/products.destroyAll", "")
	if code != http.StatusNotFound {
		t.Fatalf("got %d: %v", code, out)
	}
	errObj := out["error"].(map[string]any)
	if errObj["kind"] != "not_found" {
		t.Fatalf("unexpected error: %v", errObj)
	}
}

func TestMethodKindMismatch(t *testing.T) {
	h := newTestServer(t)
	// Query invoked with POST.
	code, _ := doJSON(t, h, http.MethodPost, "/api/rpc/products.list", `{}`)
	if code != http.StatusMethodNotAllowed {
		t.Fatalf("query via POST: got %d", code)
	}
	// Mutation invoked with GET.
	code, _ = doJSON(t, h, http.MethodGet, "/api/rpc/products.create", "")
	if code != http.StatusMethodNotAllowed {
		t.Fatalf("mutation via GET: got %d", code)
	}
}

func TestErrorEnvelope(t *testing.T) {
	h := newTestServer(t)
	code, out := doJSON(t, h, http.MethodPost, "/api/rpc/products.create",
		`{"sku":"","name":"","price":0}`)
	if code != http.StatusBadRequest {
		t.Fatalf("got %d: %v", code, out)
	}
	errObj := out["error"].(map[string]any)
	if errObj["kind"] != "validation" {
		t.Fatalf("unexpected kind: %v", errObj)
	}
	fields := errObj["fields"].(map[string]any)
	if fields["sku"] == nil || fields["price"] == nil {
		t.Fatalf("field details missing: %v", fields)
	}
}

func TestConflictStatusOverHTTP(t *testing.T) {
	h := newTestServer(t)
	doJSON(t, h, http.MethodPost, "/api/rpc/products.create", `{"sku":"SKU-1","name":"A","price":1}`)
	code, out := doJSON(t, h, http.MethodPost, "/api/rpc/products.create", `{"sku":"SKU-1","name":"B","price":2}`)
	if code != http.StatusConflict {
		t.Fatalf("got %d: %v", code, out)
	}
}

func TestMalformedBody(t *testing.T) {
	h := newTestServer(t)
	code, out := doJSON(t, h, http.MethodPost, "/api/rpc/products.create", `{"sku":`)
	if code != http.StatusBadRequest {
		t.Fatalf("got %d: %v", code, out)
	}
}

func TestRequestIDPropagated(t *testing.T) {
	h := newTestServer(t)
	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.Header.Set("X-Request-Id", "req-42")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if got := rr.Header().Get("X-Request-Id"); got != "req-42" {
		t.Fatalf("request id not echoed: %q", got)
	}

	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	if rr.Header().Get("X-Request-Id") == "" {
		t.Fatalf("request id not generated")
	}
}
