package app

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/five82/plantel/internal/club"
	"github.com/five82/plantel/internal/notify"
	"github.com/five82/plantel/internal/state"
)

// Stores holds one optimistic store per club resource.
type Stores struct {
	Inventory *state.Store[club.InventoryItem]
	Athletes  *state.Store[club.Athlete]
	Staff     *state.Store[club.Employee]
	Analyses  *state.Store[club.Analysis]
}

// StoreOptions are shared by every store.
type StoreOptions struct {
	Context  context.Context
	Notifier notify.Notifier
	OnChange func()
}

// NewStores builds the stores on top of the env's gateways. Auth failures
// invalidate the session.
func (e *Env) NewStores(o StoreOptions) Stores {
	ctx := o.Context
	if ctx == nil {
		ctx = context.Background()
	}
	onAuth := func(err error) { e.Session.Invalidate(ctx, err) }
	return Stores{
		Inventory: newStore[club.InventoryItem](ctx, e, e.Gateways.Inventory, club.Inventory, o, onAuth),
		Athletes:  newStore[club.Athlete](ctx, e, e.Gateways.Athletes, club.Athletes, o, onAuth),
		Staff:     newStore[club.Employee](ctx, e, e.Gateways.Staff, club.Staff, o, onAuth),
		Analyses:  newStore[club.Analysis](ctx, e, e.Gateways.Analyses, club.Analyses, o, onAuth),
	}
}

func newStore[T state.Record](ctx context.Context, e *Env, gw state.Gateway[T], schema club.Schema[T], o StoreOptions, onAuth func(error)) *state.Store[T] {
	return state.New(gw, state.Options[T]{
		Name:          schema.Resource,
		Validate:      schema.Validate,
		Label:         schema.Label,
		Notifier:      o.Notifier,
		OnAuthFailure: onAuth,
		OnChange:      o.OnChange,
		Context:       ctx,
		Logger:        e.Logger,
	})
}

// LoadAll runs the initial List of every store concurrently. Every store is
// attempted; the first error is returned.
func (s Stores) LoadAll(ctx context.Context) error {
	var g errgroup.Group
	g.Go(func() error { return list(ctx, club.ResourceInventory, s.Inventory) })
	g.Go(func() error { return list(ctx, club.ResourceAthletes, s.Athletes) })
	g.Go(func() error { return list(ctx, club.ResourceStaff, s.Staff) })
	g.Go(func() error { return list(ctx, club.ResourceAnalyses, s.Analyses) })
	return g.Wait()
}

// Wait blocks until every in-flight sync has settled.
func (s Stores) Wait() {
	s.Inventory.Wait()
	s.Athletes.Wait()
	s.Staff.Wait()
	s.Analyses.Wait()
}

// Close makes every store ignore responses still in flight.
func (s Stores) Close() {
	s.Inventory.Close()
	s.Athletes.Close()
	s.Staff.Close()
	s.Analyses.Close()
}

func list[T state.Record](ctx context.Context, name string, s *state.Store[T]) error {
	if _, err := s.List(ctx); err != nil {
		return fmt.Errorf("load %s: %w", name, err)
	}
	return nil
}
