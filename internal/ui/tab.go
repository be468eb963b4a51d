package ui

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/five82/plantel/internal/club"
	"github.com/five82/plantel/internal/confirm"
	"github.com/five82/plantel/internal/fault"
	"github.com/five82/plantel/internal/notify"
	"github.com/five82/plantel/internal/state"
)

// Tab is one resource screen. It hides the record type so the model can hold
// every resource in one slice.
type Tab interface {
	Name() string
	Title() string
	Columns() []club.Column
	Rows() []Row
	Status() TabStatus

	Creatable() bool
	Editable() bool
	// FormValues returns the current field values of id, or blank values
	// when id is empty.
	FormValues(id string) (map[string]string, error)
	Add(values map[string]string) error
	Edit(id string, values map[string]string) error
	// RequestDelete passes a delete intent through the tab's confirmation
	// strategy.
	RequestDelete(id string)
	// CancelDelete drops a pending confirmation.
	CancelDelete()
	Discard(id string) error
	Refresh(ctx context.Context) error
}

// Row is one rendered record.
type Row struct {
	ID     string
	Values []string
	State  state.SyncState
	Op     state.Op
	Err    error
	// Hidden rows are records whose delete failed; they stay listed so the
	// user can discard them.
	Hidden bool
}

// Failed reports whether the row's last sync failed.
func (r Row) Failed() bool { return r.State == state.SyncFailed }

// TabStatus summarises a tab for the header.
type TabStatus struct {
	Loaded        bool
	Count         int
	Pending       int
	Failed        int
	FailedDeletes int
	LastError     error
	LastUpdated   time.Time
}

type storeTab[T state.Record] struct {
	store    *state.Store[T]
	schema   club.Schema[T]
	strategy confirm.Strategy
	notifier notify.Notifier
}

// NewTab binds a store to its schema and delete confirmation strategy.
// Errors from confirmed deletes are reported through n.
func NewTab[T state.Record](store *state.Store[T], schema club.Schema[T], strategy confirm.Strategy, n notify.Notifier) Tab {
	if n == nil {
		n = notify.Discard
	}
	return &storeTab[T]{store: store, schema: schema, strategy: strategy, notifier: n}
}

func (t *storeTab[T]) Name() string           { return t.schema.Resource }
func (t *storeTab[T]) Title() string          { return t.schema.Title }
func (t *storeTab[T]) Columns() []club.Column { return t.schema.Columns }
func (t *storeTab[T]) Creatable() bool        { return t.schema.Creatable }
func (t *storeTab[T]) Editable() bool         { return t.schema.Editable }

func (t *storeTab[T]) Rows() []Row {
	entries := t.store.Entries()
	rows := make([]Row, 0, len(entries))
	var failedDeletes []Row
	for _, e := range entries {
		row := Row{
			ID:     e.ID,
			Values: t.schema.Values(e.Fields),
			State:  e.State,
			Op:     e.Op,
			Err:    e.Err,
			Hidden: e.Hidden(),
		}
		if len(row.Values) > 0 && t.schema.Columns[0].Key == "id" {
			row.Values[0] = e.ID
		}
		switch {
		case e.State == state.PendingDelete:
			continue
		case row.Hidden:
			failedDeletes = append(failedDeletes, row)
		default:
			rows = append(rows, row)
		}
	}
	return append(rows, failedDeletes...)
}

func (t *storeTab[T]) Status() TabStatus {
	snap := t.store.Snapshot()
	return TabStatus{
		Loaded:        snap.Loaded,
		Count:         len(snap.Items),
		Pending:       snap.Pending,
		Failed:        snap.Failed,
		FailedDeletes: snap.FailedDeletes,
		LastError:     snap.LastError,
		LastUpdated:   snap.LastUpdated,
	}
}

func (t *storeTab[T]) FormValues(id string) (map[string]string, error) {
	var rec T
	if id != "" {
		e, ok := t.store.Get(id)
		if !ok {
			return nil, &fault.NotFoundError{ID: id}
		}
		rec = e.Fields
	}
	values := make(map[string]string, len(t.schema.Columns))
	for _, c := range t.schema.Columns {
		values[c.Key] = t.schema.Get(rec, c.Key)
	}
	return values, nil
}

func (t *storeTab[T]) Add(values map[string]string) error {
	if !t.schema.Creatable {
		return fmt.Errorf("%s cannot be created here", t.schema.Title)
	}
	var rec T
	if err := t.schema.Apply(&rec, editable(t.schema.Columns, values)); err != nil {
		return err
	}
	_, err := t.store.Add(rec)
	return err
}

func (t *storeTab[T]) Edit(id string, values map[string]string) error {
	if !t.schema.Editable {
		return fmt.Errorf("%s cannot be edited here", t.schema.Title)
	}
	values = editable(t.schema.Columns, values)
	return t.store.Modify(id, func(rec *T) error {
		return t.schema.Apply(rec, values)
	})
}

func (t *storeTab[T]) RequestDelete(id string) {
	t.strategy.Request(id, t.remove)
}

func (t *storeTab[T]) CancelDelete() {
	t.strategy.Cancel()
}

func (t *storeTab[T]) remove(id string) {
	err := t.store.Remove(id)
	if err == nil {
		return
	}
	if errors.Is(err, fault.ErrNotFound) {
		t.notifier.Notify("nothing to delete: the record is gone", notify.Warning)
		return
	}
	t.notifier.Notify(fault.UserMessage(err), notify.Error)
}

func (t *storeTab[T]) Discard(id string) error {
	return t.store.Discard(id)
}

func (t *storeTab[T]) Refresh(ctx context.Context) error {
	_, err := t.store.List(ctx)
	return err
}

// editable drops read-only keys; the id column is displayed but never sent.
func editable(cols []club.Column, values map[string]string) map[string]string {
	out := make(map[string]string, len(values))
	for _, c := range cols {
		if c.ReadOnly {
			continue
		}
		if v, ok := values[c.Key]; ok {
			out[c.Key] = v
		}
	}
	return out
}
