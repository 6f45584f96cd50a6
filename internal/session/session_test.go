package session

import (
	"context"
	"testing"
	"time"
)

func TestOpenEmitSubscribeDeliversEvent(t *testing.T) {
	r := NewRegistry(nil)
	r.Open("s1")
	r.Emit("s1", "gathering_sources", "looking", nil)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	ch, ok := r.Subscribe(ctx, "s1")
	if !ok {
		t.Fatal("expected Subscribe to succeed for an opened session")
	}
	select {
	case evt := <-ch:
		if evt.Stage != "gathering_sources" {
			t.Fatalf("Stage = %q", evt.Stage)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
	}
}

func TestSubscribeUnknownSessionFails(t *testing.T) {
	r := NewRegistry(nil)
	_, ok := r.Subscribe(context.Background(), "missing")
	if ok {
		t.Fatal("expected Subscribe to fail for an unopened session")
	}
}

func TestEmitOnUnknownSessionIsNoop(t *testing.T) {
	r := NewRegistry(nil)
	r.Emit("missing", "stage", "msg", nil) // must not panic
}

func TestEmitDropsWhenQueueFull(t *testing.T) {
	r := NewRegistry(nil)
	r.Open("s1")
	for i := 0; i < defaultQueueCapacity+5; i++ {
		r.Emit("s1", "progress", "tick", nil)
	}
	// No assertion beyond "did not block or panic": Emit is a try-put.
}

func TestCancelMarksCancelledAndEmitsTerminal(t *testing.T) {
	r := NewRegistry(nil)
	r.Open("s1")
	if !r.Cancel("s1") {
		t.Fatal("Cancel should succeed for a known session")
	}
	if !r.CheckCancelled("s1") {
		t.Fatal("CheckCancelled should report true after Cancel")
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	ch, ok := r.Subscribe(ctx, "s1")
	if !ok {
		t.Fatal("expected Subscribe to succeed for a cancelled session")
	}
	if evt := <-ch; evt.Stage != StageCancelled {
		t.Fatalf("Stage = %q, want %q", evt.Stage, StageCancelled)
	}
	if r.Cancel("missing") {
		t.Fatal("Cancel should return false for an unknown session")
	}
}

func TestCheckCancelledUnknownOrEmptyIsFalse(t *testing.T) {
	r := NewRegistry(nil)
	if r.CheckCancelled("") {
		t.Fatal("empty session id should never be reported cancelled")
	}
	if r.CheckCancelled("never-opened") {
		t.Fatal("unknown session id should never be reported cancelled")
	}
}

func TestCloseRemovesSession(t *testing.T) {
	r := NewRegistry(nil)
	r.Open("s1")
	r.Close("s1")
	if _, ok := r.Subscribe(context.Background(), "s1"); ok {
		t.Fatal("expected session to be gone after Close")
	}
}
