package ui

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/five82/plantel/internal/club"
	"github.com/five82/plantel/internal/fault"
	"github.com/five82/plantel/internal/notify"
	"github.com/five82/plantel/internal/state"
)

type athleteGateway struct {
	mu        sync.Mutex
	records   []club.Athlete
	deleteErr error
	updates   []club.Athlete
}

func (g *athleteGateway) List(context.Context) ([]club.Athlete, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]club.Athlete(nil), g.records...), nil
}

func (g *athleteGateway) Create(_ context.Context, a club.Athlete) (club.Athlete, error) {
	a.ID = "100"
	return a, nil
}

func (g *athleteGateway) Update(_ context.Context, id string, a club.Athlete) (club.Athlete, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.updates = append(g.updates, a)
	return a, nil
}

func (g *athleteGateway) Delete(context.Context, string) error {
	return g.deleteErr
}

// approveAll removes on every request.
type approveAll struct {
	requests []string
	cancels  int
}

func (s *approveAll) Request(id string, remove func(string)) {
	s.requests = append(s.requests, id)
	remove(id)
}

func (s *approveAll) Cancel() { s.cancels++ }

func athleteTab(t *testing.T, gw *athleteGateway) (Tab, *state.Store[club.Athlete], *approveAll, *notify.Recorder) {
	t.Helper()
	rec := &notify.Recorder{}
	store := state.New[club.Athlete](gw, state.Options[club.Athlete]{
		Name:     club.ResourceAthletes,
		Validate: club.Athletes.Validate,
		Label:    club.Athletes.Label,
	})
	t.Cleanup(store.Close)
	if _, err := store.List(context.Background()); err != nil {
		t.Fatalf("List: %v", err)
	}
	strategy := &approveAll{}
	return NewTab(store, club.Athletes, strategy, rec), store, strategy, rec
}

func rowIDs(rows []Row) []string {
	ids := make([]string, len(rows))
	for i, r := range rows {
		ids[i] = r.ID
	}
	return ids
}

func TestTabRowsListFailedDeletesLast(t *testing.T) {
	gw := &athleteGateway{
		records: []club.Athlete{
			{ID: "1", Nome: "Ana"},
			{ID: "2", Nome: "Bia"},
			{ID: "3", Nome: "Caio"},
		},
		deleteErr: errors.New("connection reset"),
	}
	tab, store, strategy, _ := athleteTab(t, gw)

	tab.RequestDelete("2")
	store.Wait()

	rows := tab.Rows()
	got := rowIDs(rows)
	want := []string{"1", "3", "2"}
	if len(got) != len(want) {
		t.Fatalf("rows = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("rows = %v, want %v", got, want)
		}
	}
	last := rows[2]
	if !last.Hidden || !last.Failed() || last.Op != state.OpDelete {
		t.Fatalf("failed delete row = %+v", last)
	}
	if last.Values[0] != "2" {
		t.Fatalf("id column = %q, want 2", last.Values[0])
	}
	if len(strategy.requests) != 1 {
		t.Fatalf("requests = %v", strategy.requests)
	}

	status := tab.Status()
	if status.Count != 2 || status.FailedDeletes != 1 {
		t.Fatalf("status = %+v", status)
	}

	if err := tab.Discard("2"); err != nil {
		t.Fatalf("Discard: %v", err)
	}
	if got := rowIDs(tab.Rows()); len(got) != 2 {
		t.Fatalf("rows after discard = %v", got)
	}
}

func TestTabRemoveMissingRecordWarns(t *testing.T) {
	tab, _, _, rec := athleteTab(t, &athleteGateway{records: []club.Athlete{{ID: "1", Nome: "Ana"}}})

	tab.RequestDelete("9")

	if rec.Count(notify.Warning) != 1 {
		t.Fatalf("messages = %+v, want one warning", rec.Messages())
	}
}

func TestTabEditRejectsInvalidValuesUntouched(t *testing.T) {
	gw := &athleteGateway{records: []club.Athlete{{ID: "1", Nome: "Ana", Email: "ana@club.test"}}}
	tab, store, _, _ := athleteTab(t, gw)

	err := tab.Edit("1", map[string]string{"nome": "Ana", "email": "not-an-email"})
	if !errors.Is(err, fault.ErrValidation) {
		t.Fatalf("Edit error = %v, want validation error", err)
	}
	store.Wait()
	e, _ := store.Get("1")
	if e.Fields.Email != "ana@club.test" || e.State != state.Synced {
		t.Fatalf("entry changed: %+v", e)
	}
	if len(gw.updates) != 0 {
		t.Fatalf("rejected edit reached the server: %+v", gw.updates)
	}

	if err := tab.Edit("404", map[string]string{"nome": "X"}); !errors.Is(err, fault.ErrNotFound) {
		t.Fatalf("Edit unknown = %v, want not found", err)
	}
}

func TestTabEditIgnoresReadOnlyID(t *testing.T) {
	gw := &athleteGateway{records: []club.Athlete{{ID: "1", Nome: "Ana"}}}
	tab, store, _, _ := athleteTab(t, gw)

	values, err := tab.FormValues("1")
	if err != nil {
		t.Fatalf("FormValues: %v", err)
	}
	values["id"] = "999"
	values["posicao"] = "Pivô"
	if err := tab.Edit("1", values); err != nil {
		t.Fatalf("Edit: %v", err)
	}
	store.Wait()

	e, ok := store.Get("1")
	if !ok || e.Fields.Posicao != "Pivô" || e.State != state.Synced {
		t.Fatalf("entry = %+v", e)
	}
	if _, ok := store.Get("999"); ok {
		t.Fatal("read-only id was applied")
	}
}

func TestTabAddCreatesRecord(t *testing.T) {
	tab, store, _, _ := athleteTab(t, &athleteGateway{})

	if err := tab.Add(map[string]string{"nome": ""}); !errors.Is(err, fault.ErrValidation) {
		t.Fatalf("Add without name = %v, want validation error", err)
	}
	if err := tab.Add(map[string]string{"nome": "Duda", "data_nascimento": "2009-01-30"}); err != nil {
		t.Fatalf("Add: %v", err)
	}
	store.Wait()

	e, ok := store.Get("100")
	if !ok || e.Fields.Nome != "Duda" {
		t.Fatalf("created entry = %+v, %v", e, ok)
	}
}

func TestTabReadOnlyResource(t *testing.T) {
	store := state.New[club.Analysis](nil, state.Options[club.Analysis]{})
	tab := NewTab(store, club.Analyses, &approveAll{}, nil)

	if tab.Creatable() {
		t.Fatal("analyses should not be creatable")
	}
	if err := tab.Add(map[string]string{"titulo": "x"}); err == nil {
		t.Fatal("Add on a read-only resource succeeded")
	}
}

func TestEditableDropsReadOnlyKeys(t *testing.T) {
	got := editable(club.Staff.Columns, map[string]string{"id": "1", "nome": "Ana", "cargo": "Técnica"})
	if _, ok := got["id"]; ok {
		t.Fatal("id kept")
	}
	if got["nome"] != "Ana" || got["cargo"] != "Técnica" {
		t.Fatalf("editable = %v", got)
	}
}
