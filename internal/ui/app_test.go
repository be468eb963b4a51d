package ui

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/plantel/internal/club"
	"github.com/five82/plantel/internal/notify"
	"github.com/five82/plantel/internal/prefs"
	"github.com/five82/plantel/internal/state"
)

// fakeTab records the calls the model makes.
type fakeTab struct {
	name, title string
	rows        []Row
	readOnly    bool

	deletes  []string
	cancels  int
	discards []string
}

func (f *fakeTab) Name() string  { return f.name }
func (f *fakeTab) Title() string { return f.title }
func (f *fakeTab) Columns() []club.Column {
	return []club.Column{{Key: "id", Title: "ID", Width: 6}, {Key: "nome", Title: "Name", Width: 20}}
}
func (f *fakeTab) Rows() []Row { return append([]Row(nil), f.rows...) }
func (f *fakeTab) Status() TabStatus {
	return TabStatus{Loaded: true, Count: len(f.rows)}
}
func (f *fakeTab) Creatable() bool { return !f.readOnly }
func (f *fakeTab) Editable() bool  { return !f.readOnly }
func (f *fakeTab) FormValues(string) (map[string]string, error) {
	return map[string]string{"id": "", "nome": ""}, nil
}
func (f *fakeTab) Add(map[string]string) error          { return nil }
func (f *fakeTab) Edit(string, map[string]string) error { return nil }
func (f *fakeTab) RequestDelete(id string)              { f.deletes = append(f.deletes, id) }
func (f *fakeTab) CancelDelete()                        { f.cancels++ }
func (f *fakeTab) Discard(id string) error {
	f.discards = append(f.discards, id)
	return nil
}
func (f *fakeTab) Refresh(context.Context) error { return nil }

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func newTestModel(t *testing.T, tabs ...Tab) Model {
	t.Helper()
	m := New(Options{Tabs: tabs, PrefsPath: filepath.Join(t.TempDir(), "prefs.toml")})
	next, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 30})
	return next.(Model)
}

func press(m Model, msgs ...tea.Msg) Model {
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		m = next.(Model)
	}
	return m
}

func athleteRows() []Row {
	return []Row{
		{ID: "1", Values: []string{"1", "Ana"}, State: state.Synced},
		{ID: "2", Values: []string{"2", "Rafa"}, State: state.Synced},
	}
}

func TestDeleteKeyRequestsSelectedRecord(t *testing.T) {
	tab := &fakeTab{name: "atletas", title: "Athletes", rows: athleteRows()}
	m := newTestModel(t, tab)

	press(m, runes("j"), runes("d"))

	if len(tab.deletes) != 1 || tab.deletes[0] != "2" {
		t.Fatalf("deletes = %v, want [2]", tab.deletes)
	}
}

func TestDeleteKeyOnFailedDeleteRowWarns(t *testing.T) {
	tab := &fakeTab{name: "atletas", title: "Athletes", rows: []Row{
		{ID: "5", Values: []string{"5", "Bia"}, State: state.SyncFailed, Op: state.OpDelete, Hidden: true},
	}}
	m := press(newTestModel(t, tab), runes("d"))

	if len(tab.deletes) != 0 {
		t.Fatalf("deletes = %v, want none", tab.deletes)
	}
	if m.toast.kind != notify.Warning || !strings.Contains(m.toast.text, "discards") {
		t.Fatalf("toast = %+v", m.toast)
	}

	press(m, runes("x"))
	if len(tab.discards) != 1 || tab.discards[0] != "5" {
		t.Fatalf("discards = %v", tab.discards)
	}
}

func TestTabSwitchCancelsPendingDelete(t *testing.T) {
	first := &fakeTab{name: "estoque", title: "Inventory"}
	second := &fakeTab{name: "atletas", title: "Athletes", rows: athleteRows()}
	m := newTestModel(t, first, second)

	m = press(m, tea.KeyMsg{Type: tea.KeyTab})

	if m.active != 1 {
		t.Fatalf("active = %d, want 1", m.active)
	}
	if first.cancels != 1 || second.cancels != 0 {
		t.Fatalf("cancels = %d/%d, want 1/0", first.cancels, second.cancels)
	}
	if len(m.rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(m.rows))
	}

	p, err := prefs.Load(m.prefsPath)
	if err != nil {
		t.Fatalf("prefs.Load: %v", err)
	}
	if p.Resource != "atletas" {
		t.Fatalf("saved resource = %q, want atletas", p.Resource)
	}
}

func TestSelectTabByNumber(t *testing.T) {
	a := &fakeTab{name: "estoque", title: "Inventory"}
	b := &fakeTab{name: "atletas", title: "Athletes"}
	c := &fakeTab{name: "funcionarios", title: "Staff"}
	m := press(newTestModel(t, a, b, c), runes("3"))

	if m.active != 2 || a.cancels != 1 {
		t.Fatalf("active = %d, cancels = %d", m.active, a.cancels)
	}
}

func TestQuitCancelsEveryPendingDelete(t *testing.T) {
	a := &fakeTab{name: "estoque", title: "Inventory"}
	b := &fakeTab{name: "atletas", title: "Athletes"}
	m := newTestModel(t, a, b)

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	if cmd == nil {
		t.Fatal("ctrl+c returned no command")
	}
	if a.cancels != 1 || b.cancels != 1 {
		t.Fatalf("cancels = %d/%d, want 1/1", a.cancels, b.cancels)
	}
}

func TestPromptOpensConfirmModal(t *testing.T) {
	tab := &fakeTab{name: "atletas", title: "Athletes", rows: athleteRows()}
	m := newTestModel(t, tab)

	reply := make(chan bool, 1)
	m = press(m, promptMsg{text: "Delete Rafa? This cannot be undone.", reply: reply})

	if _, ok := m.modal.(confirmModal); !ok {
		t.Fatalf("modal = %T, want confirmModal", m.modal)
	}
	if view := m.View(); !strings.Contains(view, "Delete Rafa?") {
		t.Fatalf("view does not show the question:\n%s", view)
	}

	// Keys go to the modal, not the table.
	m = press(m, runes("y"))
	if m.modal != nil {
		t.Fatal("modal still open after answering")
	}
	if !<-reply {
		t.Fatal("answer = false, want true")
	}
	if len(tab.deletes) != 0 {
		t.Fatal("answering the question also triggered a table action")
	}
}

func TestEscapeAnswersPromptNo(t *testing.T) {
	m := newTestModel(t, &fakeTab{name: "atletas", title: "Athletes"})
	reply := make(chan bool, 1)
	m = press(m, promptMsg{text: "Delete?", reply: reply}, tea.KeyMsg{Type: tea.KeyEsc})

	if m.modal != nil || <-reply {
		t.Fatal("esc did not answer no")
	}
}

func TestNewPromptAnswersPreviousNo(t *testing.T) {
	m := newTestModel(t, &fakeTab{name: "atletas", title: "Athletes"})
	first := make(chan bool, 1)
	second := make(chan bool, 1)
	m = press(m, promptMsg{text: "first", reply: first}, promptMsg{text: "second", reply: second})

	if <-first {
		t.Fatal("replaced question answered yes")
	}
	c, ok := m.modal.(confirmModal)
	if !ok || c.prompt.text != "second" {
		t.Fatalf("modal = %+v", m.modal)
	}
}

func TestToastShowsAndExpires(t *testing.T) {
	m := newTestModel(t, &fakeTab{name: "atletas", title: "Athletes"})
	m = press(m, toastMsg{text: "Rafa removed", kind: notify.Success})

	if !strings.Contains(m.View(), "Rafa removed") {
		t.Fatal("toast not rendered")
	}
	m = press(m, tickMsg(time.Now().Add(time.Minute)))
	if m.toast.text != "" {
		t.Fatalf("toast = %+v, want expired", m.toast)
	}
}

func TestAddOnReadOnlyTabWarns(t *testing.T) {
	m := newTestModel(t, &fakeTab{name: "analises", title: "Analyses", readOnly: true})
	m = press(m, runes("a"))

	if m.modal != nil {
		t.Fatalf("modal = %T, want none", m.modal)
	}
	if m.toast.kind != notify.Warning {
		t.Fatalf("toast = %+v", m.toast)
	}
}

func TestAddOpensForm(t *testing.T) {
	m := press(newTestModel(t, &fakeTab{name: "atletas", title: "Athletes"}), runes("a"))
	if _, ok := m.modal.(formModal); !ok {
		t.Fatalf("modal = %T, want formModal", m.modal)
	}
	m = press(m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.modal != nil {
		t.Fatal("esc did not close the form")
	}
}

func TestViewRendersTabsAndRows(t *testing.T) {
	m := newTestModel(t,
		&fakeTab{name: "estoque", title: "Inventory"},
		&fakeTab{name: "atletas", title: "Athletes", rows: athleteRows()},
	)
	m = press(m, runes("2"))

	view := m.View()
	for _, want := range []string{"plantel", "Inventory", "Athletes (2)", "Rafa", "Sync"} {
		if !strings.Contains(view, want) {
			t.Fatalf("view missing %q:\n%s", want, view)
		}
	}
}

func TestStoreChangeReloadsRowsKeepingSelection(t *testing.T) {
	tab := &fakeTab{name: "atletas", title: "Athletes", rows: athleteRows()}
	m := press(newTestModel(t, tab), runes("j"))

	tab.rows = append([]Row{{ID: "0", Values: []string{"0", "Zeca"}}}, tab.rows...)
	m = press(m, storeChangedMsg{})

	row, ok := m.selectedRow()
	if !ok || row.ID != "2" {
		t.Fatalf("selected = %+v, want id 2", row)
	}
}

func TestColumnWidthsFillTotal(t *testing.T) {
	cols := club.Athletes.Columns
	widths := columnWidths(cols, 140, false)
	if len(widths) != len(cols)+1 {
		t.Fatalf("widths = %v", widths)
	}
	sum := len(cols)
	for _, w := range widths {
		sum += w
	}
	if sum != 140 {
		t.Fatalf("sum = %d, want 140", sum)
	}

	compact := columnWidths(cols, 60, true)
	for i, w := range compact {
		if w < 4 {
			t.Fatalf("column %d width %d below minimum", i, w)
		}
	}
}

func TestStateLabels(t *testing.T) {
	cases := []struct {
		row  Row
		want string
	}{
		{Row{State: state.Synced}, "✓"},
		{Row{State: state.PendingCreate}, "saving…"},
		{Row{State: state.PendingUpdate}, "updating…"},
		{Row{State: state.SyncFailed, Op: state.OpCreate}, "not saved"},
		{Row{State: state.SyncFailed, Op: state.OpUpdate}, "update failed"},
		{Row{State: state.SyncFailed, Op: state.OpDelete, Hidden: true}, "delete failed"},
	}
	for _, tc := range cases {
		if got := stateLabel(tc.row); got != tc.want {
			t.Errorf("stateLabel(%+v) = %q, want %q", tc.row, got, tc.want)
		}
	}
}
