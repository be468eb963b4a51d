// Package notify defines the fire-and-forget notification surface used by
// the resource stores and the delete confirmation gate.
package notify

import "sync"

// Kind is the severity of a notification.
type Kind int

const (
	Success Kind = iota
	Warning
	Error
)

func (k Kind) String() string {
	switch k {
	case Warning:
		return "warning"
	case Error:
		return "error"
	default:
		return "success"
	}
}

// Notifier presents a message to the user. Implementations must not block.
type Notifier interface {
	Notify(message string, kind Kind)
}

// Func adapts a function to Notifier.
type Func func(message string, kind Kind)

// Notify calls f.
func (f Func) Notify(message string, kind Kind) { f(message, kind) }

// Discard drops every notification.
var Discard Notifier = Func(func(string, Kind) {})

// Message is a recorded notification.
type Message struct {
	Text string
	Kind Kind
}

// Recorder keeps every notification in order. It is safe for concurrent use.
type Recorder struct {
	mu       sync.Mutex
	messages []Message
}

// Notify implements Notifier.
func (r *Recorder) Notify(message string, kind Kind) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = append(r.messages, Message{Text: message, Kind: kind})
}

// Messages returns a copy of the recorded notifications.
func (r *Recorder) Messages() []Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Message, len(r.messages))
	copy(out, r.messages)
	return out
}

// Count returns how many notifications of kind were recorded.
func (r *Recorder) Count(kind Kind) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, m := range r.messages {
		if m.Kind == kind {
			n++
		}
	}
	return n
}
