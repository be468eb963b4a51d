package api

import (
	"context"
	"net/http"

	"github.com/five82/plantel/internal/club"
	"github.com/five82/plantel/internal/state"
)

// Resource is the gateway for one collection under /api/{name}.
type Resource[T state.Record] struct {
	client *Client
	name   string
}

// NewResource binds name to c.
func NewResource[T state.Record](c *Client, name string) *Resource[T] {
	return &Resource[T]{client: c, name: name}
}

// Name returns the resource path segment.
func (r *Resource[T]) Name() string { return r.name }

// List fetches GET /api/{name}.
func (r *Resource[T]) List(ctx context.Context) ([]T, error) {
	var out []T
	if err := r.client.Do(ctx, "list", http.MethodGet, r.path(), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Create sends POST /api/{name} and returns the stored record.
func (r *Resource[T]) Create(ctx context.Context, fields T) (T, error) {
	var out T
	if err := r.client.Do(ctx, "create", http.MethodPost, r.path(), fields, &out); err != nil {
		var zero T
		return zero, err
	}
	return out, nil
}

// Update sends PUT /api/{name}/{id} and returns the stored record.
func (r *Resource[T]) Update(ctx context.Context, id string, fields T) (T, error) {
	var out T
	if err := r.client.Do(ctx, "update", http.MethodPut, r.path(id), fields, &out); err != nil {
		var zero T
		return zero, err
	}
	return out, nil
}

// Delete sends DELETE /api/{name}/{id}.
func (r *Resource[T]) Delete(ctx context.Context, id string) error {
	return r.client.Do(ctx, "delete", http.MethodDelete, r.path(id), nil, nil)
}

func (r *Resource[T]) path(id ...string) []string {
	return append([]string{"api", r.name}, id...)
}

// Gateways groups the club resources.
type Gateways struct {
	Inventory *Resource[club.InventoryItem]
	Athletes  *Resource[club.Athlete]
	Staff     *Resource[club.Employee]
	Analyses  *Resource[club.Analysis]
}

// NewGateways builds a gateway for every club resource.
func NewGateways(c *Client) Gateways {
	return Gateways{
		Inventory: NewResource[club.InventoryItem](c, club.ResourceInventory),
		Athletes:  NewResource[club.Athlete](c, club.ResourceAthletes),
		Staff:     NewResource[club.Employee](c, club.ResourceStaff),
		Analyses:  NewResource[club.Analysis](c, club.ResourceAnalyses),
	}
}

var (
	_ state.Gateway[club.InventoryItem] = (*Resource[club.InventoryItem])(nil)
	_ state.Gateway[club.Analysis]      = (*Resource[club.Analysis])(nil)
)
