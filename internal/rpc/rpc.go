// Package rpc is the typed procedure layer: named query and mutation
// endpoints addressed by dotted path (e.g. "orders.create"), each decoding
// and validating its own input before any data access runs.
package rpc

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/kytehq/kyte/internal/apperr"
)

type Kind string

const (
	// Query procedures are read-only and invoked with GET.
	Query Kind = "query"
	// Mutation procedures change state and are invoked with POST.
	Mutation Kind = "mutation"
)

// Ctx is the per-call context handed to every procedure. UserID is the
// session stub seam: populated from the transport when present, never
// verified here.
type Ctx struct {
	context.Context
	Log    *zap.Logger
	UserID string
}

// HandlerFunc executes one procedure against its raw JSON input.
type HandlerFunc func(ctx *Ctx, input json.RawMessage) (any, error)

type Procedure struct {
	Name   string
	Kind   Kind
	Handle HandlerFunc
}

// Router is the aggregation point: every namespaced procedure registers
// here, and the transport resolves dotted paths against it.
type Router struct {
	procedures map[string]Procedure
}

func NewRouter() *Router {
	return &Router{procedures: make(map[string]Procedure)}
}

// Query registers a read-only procedure. Duplicate names panic: routing is
// fixed at startup and a collision is a programming error.
func (r *Router) Query(name string, h HandlerFunc) {
	r.register(Procedure{Name: name, Kind: Query, Handle: h})
}

// Mutation registers a state-changing procedure.
func (r *Router) Mutation(name string, h HandlerFunc) {
	r.register(Procedure{Name: name, Kind: Mutation, Handle: h})
}

func (r *Router) register(p Procedure) {
	if _, exists := r.procedures[p.Name]; exists {
		panic(fmt.Sprintf("rpc: procedure %q registered twice", p.Name))
	}
	r.procedures[p.Name] = p
}

// Lookup resolves a dotted procedure path.
func (r *Router) Lookup(name string) (Procedure, bool) {
	p, ok := r.procedures[name]
	return p, ok
}

// Names returns all registered procedure paths, sorted.
func (r *Router) Names() []string {
	names := make([]string, 0, len(r.procedures))
	for n := range r.procedures {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Decode unmarshals a procedure input, mapping malformed JSON to a
// validation error. Empty input decodes the zero value so optional-only
// schemas work without an input payload.
func Decode(raw json.RawMessage, dst any) error {
	if len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return apperr.Validation(map[string]string{"input": "malformed_json"})
	}
	return nil
}
