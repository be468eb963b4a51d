// Package confirm guards destructive actions. A Strategy decides when a
// delete request has been confirmed and only then calls the supplied remove
// function.
package confirm

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/five82/plantel/internal/notify"
)

// DefaultWindow is how long an ArmedRepeat stays armed.
const DefaultWindow = 2500 * time.Millisecond

// Strategy is the delete confirmation gate.
type Strategy interface {
	// Request records a delete intent for id. remove is called at most once,
	// and only when the intent has been confirmed.
	Request(id string, remove func(id string))
	// Cancel drops any pending confirmation.
	Cancel()
}

// Timer is the part of *time.Timer the gate uses.
type Timer interface {
	Stop() bool
}

// Clock abstracts time for tests.
type Clock interface {
	Now() time.Time
	AfterFunc(d time.Duration, f func()) Timer
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

func (realClock) AfterFunc(d time.Duration, f func()) Timer { return time.AfterFunc(d, f) }

// SystemClock is the wall clock.
var SystemClock Clock = realClock{}

// ArmedRepeat confirms a delete when the same identifier is requested twice
// within Window. The first request arms the gate and warns the user; the gate
// disarms itself silently when the window elapses.
type ArmedRepeat struct {
	Window   time.Duration
	Notifier notify.Notifier
	Clock    Clock
	Logger   *slog.Logger

	mu      sync.Mutex
	armedID string
	armedAt time.Time
	timer   Timer
	gen     uint64
}

// NewArmedRepeat builds an ArmedRepeat with the wall clock. A non-positive
// window selects DefaultWindow.
func NewArmedRepeat(window time.Duration, n notify.Notifier) *ArmedRepeat {
	return &ArmedRepeat{Window: window, Notifier: n}
}

// Request implements Strategy.
func (a *ArmedRepeat) Request(id string, remove func(id string)) {
	clock := a.clock()
	window := a.window()

	a.mu.Lock()
	now := clock.Now()
	if a.armedID != "" && a.armedID == id && now.Sub(a.armedAt) < window {
		a.disarmLocked()
		a.mu.Unlock()
		a.logger().Debug("delete confirmed", "id", id)
		if remove != nil {
			remove(id)
		}
		return
	}

	// Fresh arming; any previous arming is discarded without a message.
	a.disarmLocked()
	a.armedID = id
	a.armedAt = now
	gen := a.gen
	a.timer = clock.AfterFunc(window, func() { a.expire(gen) })
	a.mu.Unlock()

	a.logger().Debug("delete armed", "id", id, "window", window)
	if a.Notifier != nil {
		a.Notifier.Notify(fmt.Sprintf("press delete again within %s to confirm", formatWindow(window)), notify.Warning)
	}
}

// Cancel implements Strategy.
func (a *ArmedRepeat) Cancel() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.disarmLocked()
}

// Armed returns the identifier awaiting confirmation, if any.
func (a *ArmedRepeat) Armed() (string, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.armedID, a.armedID != ""
}

func (a *ArmedRepeat) expire(gen uint64) {
	a.mu.Lock()
	defer a.mu.Unlock()
	// A newer arming or a confirmation already replaced this timer.
	if gen != a.gen {
		return
	}
	a.armedID = ""
	a.armedAt = time.Time{}
	a.timer = nil
	a.gen++
}

func (a *ArmedRepeat) disarmLocked() {
	if a.timer != nil {
		a.timer.Stop()
		a.timer = nil
	}
	a.armedID = ""
	a.armedAt = time.Time{}
	a.gen++
}

func (a *ArmedRepeat) clock() Clock {
	if a.Clock == nil {
		return SystemClock
	}
	return a.Clock
}

func (a *ArmedRepeat) window() time.Duration {
	if a.Window <= 0 {
		return DefaultWindow
	}
	return a.Window
}

func (a *ArmedRepeat) logger() *slog.Logger {
	if a.Logger == nil {
		return slog.Default()
	}
	return a.Logger
}

func formatWindow(d time.Duration) string {
	if d%time.Second == 0 {
		return fmt.Sprintf("%ds", int(d/time.Second))
	}
	return fmt.Sprintf("%.1fs", d.Seconds())
}
