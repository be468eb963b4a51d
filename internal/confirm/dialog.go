package confirm

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/five82/plantel/internal/notify"
)

// Prompter asks the user a yes/no question and blocks until they answer.
type Prompter interface {
	Confirm(message string) bool
}

// PrompterFunc adapts a function to Prompter.
type PrompterFunc func(message string) bool

// Confirm calls f.
func (f PrompterFunc) Confirm(message string) bool { return f(message) }

// Dismisser is implemented by prompters whose open question can be
// withdrawn. A dismissed question answers false.
type Dismisser interface {
	Dismiss()
}

// BlockingDialog asks a Prompter and removes only on an explicit yes. The
// question runs on its own goroutine so Request never blocks the caller.
type BlockingDialog struct {
	Prompter Prompter
	// Message renders the question for id.
	Message func(id string) string

	wg sync.WaitGroup
}

// NewBlockingDialog builds a BlockingDialog around p.
func NewBlockingDialog(p Prompter) *BlockingDialog {
	return &BlockingDialog{Prompter: p}
}

// Request implements Strategy.
func (d *BlockingDialog) Request(id string, remove func(id string)) {
	if d.Prompter == nil {
		return
	}
	msg := fmt.Sprintf("Delete %s? This cannot be undone.", id)
	if d.Message != nil {
		msg = d.Message(id)
	}
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		if d.Prompter.Confirm(msg) && remove != nil {
			remove(id)
		}
	}()
}

// Cancel implements Strategy by dismissing the open question, when the
// prompter supports it.
func (d *BlockingDialog) Cancel() {
	if dm, ok := d.Prompter.(Dismisser); ok {
		dm.Dismiss()
	}
}

// Wait blocks until every question asked so far has been answered.
func (d *BlockingDialog) Wait() {
	d.wg.Wait()
}

// Mode selects a Strategy.
type Mode string

const (
	ModeRepeat Mode = "repeat"
	ModeDialog Mode = "dialog"
)

// ParseMode validates a configured mode. Empty selects ModeRepeat.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case "", ModeRepeat:
		return ModeRepeat, nil
	case ModeDialog:
		return ModeDialog, nil
	default:
		return "", fmt.Errorf("unknown confirm mode %q (want %q or %q)", s, ModeRepeat, ModeDialog)
	}
}

// New builds the Strategy for mode. ModeDialog requires a prompter.
func New(mode Mode, window time.Duration, n notify.Notifier, p Prompter) (Strategy, error) {
	switch mode {
	case "", ModeRepeat:
		return NewArmedRepeat(window, n), nil
	case ModeDialog:
		if p == nil {
			return nil, fmt.Errorf("confirm mode %q needs a prompter", mode)
		}
		return NewBlockingDialog(p), nil
	default:
		return nil, fmt.Errorf("unknown confirm mode %q", mode)
	}
}
