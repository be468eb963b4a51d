package ui

import (
	"testing"
	"time"

	"github.com/five82/plantel/internal/notify"
)

func TestBridgeSendNeverBlocks(t *testing.T) {
	b := NewBridge()
	done := make(chan struct{})
	go func() {
		for i := 0; i < bridgeBuffer+50; i++ {
			b.Changed()
		}
		b.Notify("still here", notify.Success)
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Send blocked on a full queue")
	}
	if got := len(b.ch); got != bridgeBuffer {
		t.Fatalf("queued = %d, want %d", got, bridgeBuffer)
	}
}

func TestBridgeNotifyQueuesToast(t *testing.T) {
	b := NewBridge()
	b.Notify("Rafa removed", notify.Success)
	msg := (<-b.ch).(toastMsg)
	if msg.text != "Rafa removed" || msg.kind != notify.Success {
		t.Fatalf("toast = %+v", msg)
	}
}

// nextPrompt waits for the question Confirm puts on the queue.
func nextPrompt(t *testing.T, b *Bridge) promptMsg {
	t.Helper()
	select {
	case msg := <-b.ch:
		p, ok := msg.(promptMsg)
		if !ok {
			t.Fatalf("queued %T, want promptMsg", msg)
		}
		return p
	case <-time.After(2 * time.Second):
		t.Fatal("no prompt queued")
		return promptMsg{}
	}
}

func TestBridgeConfirmReturnsAnswer(t *testing.T) {
	b := NewBridge()
	result := make(chan bool, 1)
	go func() { result <- b.Confirm("Delete Rafa? This cannot be undone.") }()

	p := nextPrompt(t, b)
	if p.text != "Delete Rafa? This cannot be undone." {
		t.Fatalf("prompt text = %q", p.text)
	}
	p.answer(true)
	p.answer(false) // second answer is ignored

	if !<-result {
		t.Fatal("Confirm = false, want true")
	}
}

func TestBridgeDismissAnswersNo(t *testing.T) {
	b := NewBridge()
	result := make(chan bool, 1)
	go func() { result <- b.Confirm("Delete?") }()

	nextPrompt(t, b)
	b.Dismiss()

	select {
	case got := <-result:
		if got {
			t.Fatal("dismissed question answered yes")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Dismiss did not release Confirm")
	}
}

func TestBridgeNewQuestionReplacesOld(t *testing.T) {
	b := NewBridge()
	first := make(chan bool, 1)
	go func() { first <- b.Confirm("first") }()
	nextPrompt(t, b)

	second := make(chan bool, 1)
	go func() { second <- b.Confirm("second") }()
	p := nextPrompt(t, b)

	if <-first {
		t.Fatal("replaced question answered yes")
	}
	p.answer(true)
	if !<-second {
		t.Fatal("second question lost its answer")
	}
}

func TestBridgeCloseReleasesConfirmAndDropsSends(t *testing.T) {
	b := NewBridge()
	result := make(chan bool, 1)
	go func() { result <- b.Confirm("Delete?") }()
	nextPrompt(t, b)

	b.Close()
	b.Close()

	select {
	case got := <-result:
		if got {
			t.Fatal("closed bridge answered yes")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Close did not release Confirm")
	}

	b.Changed()
	if len(b.ch) != 0 {
		t.Fatal("Send after Close queued a message")
	}
}
