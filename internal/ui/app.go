package ui

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/plantel/internal/fault"
	"github.com/five82/plantel/internal/logtail"
	"github.com/five82/plantel/internal/notify"
	"github.com/five82/plantel/internal/prefs"
	"github.com/five82/plantel/internal/session"
)

// View represents the current active view.
type View int

const (
	ViewRecords View = iota
	ViewLogs
)

// Options configures the UI.
type Options struct {
	Context context.Context
	Tabs    []Tab
	Bridge  *Bridge
	Session *session.Session
	LogFile string

	ThemeName string
	// Resource selects the initial tab by name.
	Resource  string
	PrefsPath string
	Tick      time.Duration
}

// toast is the transient notification line.
type toast struct {
	text  string
	kind  notify.Kind
	until time.Time
}

// Model is the root application state for Bubble Tea.
type Model struct {
	// Configuration
	ctx       context.Context
	tabs      []Tab
	session   *session.Session
	logFile   string
	prefsPath string
	tick      time.Duration
	keys      keyMap

	// UI state
	theme       Theme
	currentView View
	width       int
	height      int
	ready       bool
	showHelp    bool
	modal       Modal
	signedIn    bool

	// Records state
	active   int
	selected []string // selected record id per tab
	cursor   []int
	rows     []Row
	toast    toast

	// Log state
	logViewport viewport.Model
	logLevel    slog.Level
	logEntries  []logtail.Entry
	logErr      error
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	tick := opts.Tick
	if tick == 0 {
		tick = DefaultUIInterval
	}

	themeName := opts.ThemeName
	if themeName == "" {
		themeName = prefs.DefaultTheme
	}

	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}

	m := Model{
		ctx:       ctx,
		tabs:      opts.Tabs,
		session:   opts.Session,
		logFile:   opts.LogFile,
		prefsPath: prefsPath,
		tick:      tick,
		keys:      DefaultKeyMap(),
		theme:     GetTheme(themeName),
		selected:  make([]string, len(opts.Tabs)),
		cursor:    make([]int, len(opts.Tabs)),
		logLevel:  slog.LevelInfo,
	}
	for i, t := range opts.Tabs {
		if t.Name() == opts.Resource {
			m.active = i
		}
	}
	if m.session != nil {
		m.signedIn = m.session.LoggedIn(ctx)
	}
	m.reloadRows()
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		tea.EnterAltScreen,
		tickCmd(m.tick),
	}
	if m.session != nil && !m.signedIn {
		cmds = append(cmds, func() tea.Msg { return authRequiredMsg{} })
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if !m.ready {
			m.logViewport = viewport.New(msg.Width, m.contentHeight())
		}
		m.ready = true
		m.updateLogViewport()
		return m, nil

	case tickMsg:
		return m.handleTick(time.Time(msg))

	case storeChangedMsg:
		m.reloadRows()
		return m, nil

	case toastMsg:
		m.toast = toast{text: msg.text, kind: msg.kind, until: time.Now().Add(toastDuration(msg.kind))}
		return m, nil

	case authRequiredMsg:
		m.signedIn = false
		if _, open := m.modal.(tokenModal); !open && m.session != nil {
			m.closeModal()
			m.modal = newTokenModal(m.ctx, m.session, msg.reason)
		}
		return m, nil

	case promptMsg:
		m.closeModal()
		m.modal = confirmModal{prompt: msg}
		return m, nil

	case loginDoneMsg:
		m.signedIn = true
		m.toast = toast{text: "token saved, reloading", kind: notify.Success, until: time.Now().Add(toastDuration(notify.Success))}
		return m, m.refreshAll()

	case refreshedMsg:
		if msg.err != nil && !fault.IsAuth(msg.err) {
			m.toast = toast{
				text:  fmt.Sprintf("%s: %s", msg.title, fault.UserMessage(msg.err)),
				kind:  notify.Error,
				until: time.Now().Add(toastDuration(notify.Error)),
			}
		}
		m.reloadRows()
		return m, nil

	case logsMsg:
		m.logEntries, m.logErr = msg.entries, msg.err
		m.updateLogViewport()
		return m, nil
	}

	if m.modal != nil {
		return m.updateModal(msg)
	}
	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.modal != nil {
		return m.modal.View(m.theme, m.width, m.height)
	}
	if m.showHelp {
		return m.renderHelp()
	}
	return m.renderMain()
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		m.closeModal()
		m.cancelDeletes()
		return m, tea.Quit
	}
	if m.modal != nil {
		return m.updateModal(msg)
	}

	if m.showHelp {
		// Any key closes help
		m.showHelp = false
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.cancelDeletes()
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		m.savePrefs()
		return m, nil

	case key.Matches(msg, m.keys.Logs):
		if m.currentView == ViewLogs {
			m.currentView = ViewRecords
			return m, nil
		}
		m.currentView = ViewLogs
		return m, m.loadLogs()

	case key.Matches(msg, m.keys.Login):
		m.modal = newTokenModal(m.ctx, m.session, nil)
		return m, nil

	case key.Matches(msg, m.keys.Escape):
		m.currentView = ViewRecords
		return m, nil
	}

	switch m.currentView {
	case ViewLogs:
		return m.handleLogsKey(msg)
	default:
		return m.handleRecordsKey(msg)
	}
}

// handleRecordsKey processes keyboard input for the record table.
func (m Model) handleRecordsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if len(m.tabs) == 0 {
		return m, nil
	}
	tab := m.tabs[m.active]

	switch {
	case key.Matches(msg, m.keys.NextTab):
		m.switchTab((m.active + 1) % len(m.tabs))
		return m, nil
	case key.Matches(msg, m.keys.PrevTab):
		m.switchTab((m.active - 1 + len(m.tabs)) % len(m.tabs))
		return m, nil
	case key.Matches(msg, m.keys.SelectTab):
		if idx := int(msg.Runes[0] - '1'); idx >= 0 && idx < len(m.tabs) {
			m.switchTab(idx)
		}
		return m, nil

	case key.Matches(msg, m.keys.Up):
		m.moveCursor(-1)
	case key.Matches(msg, m.keys.Down):
		m.moveCursor(1)
	case key.Matches(msg, m.keys.Top):
		m.moveCursor(-len(m.rows))
	case key.Matches(msg, m.keys.Bottom):
		m.moveCursor(len(m.rows))
	case key.Matches(msg, m.keys.PageUp):
		m.moveCursor(-m.pageSize())
	case key.Matches(msg, m.keys.PageDown):
		m.moveCursor(m.pageSize())

	case key.Matches(msg, m.keys.Add):
		if !tab.Creatable() {
			m.flash(tab.Title()+" are read-only here", notify.Warning)
			return m, nil
		}
		return m.openForm(tab, "")

	case key.Matches(msg, m.keys.Edit):
		row, ok := m.selectedRow()
		if !ok {
			return m, nil
		}
		if !tab.Editable() {
			m.flash(tab.Title()+" are read-only here", notify.Warning)
			return m, nil
		}
		if row.Hidden {
			m.flash("delete failed for this record; x discards it, r reloads", notify.Warning)
			return m, nil
		}
		return m.openForm(tab, row.ID)

	case key.Matches(msg, m.keys.Delete):
		row, ok := m.selectedRow()
		if !ok {
			return m, nil
		}
		if row.Hidden {
			m.flash("delete failed for this record; x discards it, r reloads", notify.Warning)
			return m, nil
		}
		tab.RequestDelete(row.ID)
		return m, nil

	case key.Matches(msg, m.keys.Discard):
		row, ok := m.selectedRow()
		if !ok {
			return m, nil
		}
		if err := tab.Discard(row.ID); err != nil {
			m.flash(fault.UserMessage(err), notify.Warning)
		}
		return m, nil

	case key.Matches(msg, m.keys.Refresh):
		return m, refreshCmd(m.ctx, tab)
	}

	return m, nil
}

func (m Model) openForm(tab Tab, id string) (tea.Model, tea.Cmd) {
	form, err := newFormModal(tab, id)
	if err != nil {
		m.flash(fault.UserMessage(err), notify.Error)
		return m, nil
	}
	m.modal = form
	return m, nil
}

func (m Model) updateModal(msg tea.Msg) (tea.Model, tea.Cmd) {
	modal, cmd, done := m.modal.Update(msg, m.keys)
	if done {
		m.modal = nil
	} else {
		m.modal = modal
	}
	return m, cmd
}

// closeModal dismisses any open modal, answering an open question with no.
func (m *Model) closeModal() {
	if c, ok := m.modal.(confirmModal); ok {
		c.prompt.answer(false)
	}
	m.modal = nil
}

// switchTab changes the active resource. A pending delete confirmation never
// survives a tab switch.
func (m *Model) switchTab(idx int) {
	if idx == m.active {
		return
	}
	m.tabs[m.active].CancelDelete()
	m.active = idx
	m.reloadRows()
	m.savePrefs()
}

func (m *Model) cancelDeletes() {
	for _, t := range m.tabs {
		t.CancelDelete()
	}
}

func (m *Model) flash(text string, kind notify.Kind) {
	m.toast = toast{text: text, kind: kind, until: time.Now().Add(toastDuration(kind))}
}

func (m *Model) savePrefs() {
	if m.prefsPath == "" {
		return
	}
	p := prefs.Prefs{Theme: m.theme.Name}
	if len(m.tabs) > 0 {
		p.Resource = m.tabs[m.active].Name()
	}
	if err := prefs.Save(m.prefsPath, p); err != nil {
		slog.Debug("save prefs failed", "error", err)
	}
}

// handleTick expires the toast and keeps the log view fresh.
func (m Model) handleTick(now time.Time) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	if m.toast.text != "" && now.After(m.toast.until) {
		m.toast = toast{}
	}
	if m.currentView == ViewLogs {
		cmds = append(cmds, m.loadLogs())
	}

	// Schedule next tick
	cmds = append(cmds, tickCmd(m.tick))
	return m, tea.Batch(cmds...)
}

func (m Model) refreshAll() tea.Cmd {
	cmds := make([]tea.Cmd, 0, len(m.tabs))
	for _, t := range m.tabs {
		cmds = append(cmds, refreshCmd(m.ctx, t))
	}
	return tea.Batch(cmds...)
}

// renderMain renders the full UI.
func (m Model) renderMain() string {
	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderCommandBar())
	b.WriteString("\n")

	switch m.currentView {
	case ViewLogs:
		b.WriteString(m.renderLogs())
	default:
		b.WriteString(m.renderRecords())
	}

	b.WriteString("\n")
	b.WriteString(m.renderToast())
	return b.String()
}

// contentHeight is the height left for the main pane: header, command bar
// and toast line take one row each.
func (m Model) contentHeight() int {
	return max(m.height-3, 3)
}

func toastDuration(kind notify.Kind) time.Duration {
	if kind == notify.Error {
		return 6 * time.Second
	}
	return ToastDuration
}

// Messages

type tickMsg time.Time

type refreshedMsg struct {
	title string
	err   error
}

// Commands

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func refreshCmd(ctx context.Context, tab Tab) tea.Cmd {
	return func() tea.Msg {
		return refreshedMsg{title: tab.Title(), err: tab.Refresh(ctx)}
	}
}

// Run starts the Bubble Tea program and blocks until it exits.
func Run(opts Options) error {
	m := New(opts)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(m.ctx))
	if opts.Bridge != nil {
		opts.Bridge.Attach(p)
		defer opts.Bridge.Close()
	}
	_, err := p.Run()
	return err
}
