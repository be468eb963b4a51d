package ui

import (
	"fmt"
	"log/slog"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/plantel/internal/notify"
)

const bridgeBuffer = 256

// Bridge carries events from store goroutines into the Bubble Tea loop.
// Stores are built before the program exists, so messages are queued until
// Attach starts forwarding them. Send never blocks: stores call it while the
// UI goroutine is inside Update.
type Bridge struct {
	ch   chan tea.Msg
	done chan struct{}
	once sync.Once

	mu      sync.Mutex
	pending *promptMsg
}

// NewBridge creates an unattached bridge.
func NewBridge() *Bridge {
	return &Bridge{
		ch:   make(chan tea.Msg, bridgeBuffer),
		done: make(chan struct{}),
	}
}

// Attach forwards queued and future messages to p until the bridge is
// closed.
func (b *Bridge) Attach(p *tea.Program) {
	go func() {
		for {
			select {
			case <-b.done:
				return
			case msg := <-b.ch:
				p.Send(msg)
			}
		}
	}()
}

// Close stops forwarding and answers any open question with no.
func (b *Bridge) Close() {
	b.once.Do(func() { close(b.done) })
	b.Dismiss()
}

// Send queues msg. When the queue is full, redraw requests are dropped; they
// are coalesced by the next one anyway.
func (b *Bridge) Send(msg tea.Msg) {
	select {
	case <-b.done:
		return
	default:
	}
	select {
	case b.ch <- msg:
	default:
		if _, redraw := msg.(storeChangedMsg); !redraw {
			slog.Warn("ui event dropped", "type", fmt.Sprintf("%T", msg))
		}
	}
}

// Changed is the stores' OnChange hook.
func (b *Bridge) Changed() {
	b.Send(storeChangedMsg{})
}

// Notify implements notify.Notifier.
func (b *Bridge) Notify(message string, kind notify.Kind) {
	b.Send(toastMsg{text: message, kind: kind})
}

// AuthRequired is the session's OnExpired hook.
func (b *Bridge) AuthRequired(reason error) {
	b.Send(authRequiredMsg{reason: reason})
}

// Confirm implements confirm.Prompter. It opens a yes/no modal and blocks
// until the user answers or the question is dismissed.
func (b *Bridge) Confirm(message string) bool {
	reply := make(chan bool, 1)
	msg := &promptMsg{text: message, reply: reply}

	b.mu.Lock()
	if b.pending != nil {
		// One question at a time; a new one replaces the old.
		b.pending.answer(false)
	}
	b.pending = msg
	b.mu.Unlock()

	b.Send(*msg)
	var answer bool
	select {
	case answer = <-reply:
	case <-b.done:
	}

	b.mu.Lock()
	if b.pending == msg {
		b.pending = nil
	}
	b.mu.Unlock()
	return answer
}

// Dismiss implements confirm.Dismisser.
func (b *Bridge) Dismiss() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.pending != nil {
		b.pending.answer(false)
		b.pending = nil
	}
}

type promptMsg struct {
	text  string
	reply chan bool
}

// answer delivers v unless an answer was already given.
func (p promptMsg) answer(v bool) {
	select {
	case p.reply <- v:
	default:
	}
}

type storeChangedMsg struct{}

type toastMsg struct {
	text string
	kind notify.Kind
}

type authRequiredMsg struct {
	reason error
}
