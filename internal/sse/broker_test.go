package sse

import (
	"strings"
	"testing"
	"time"
)

func recv(t *testing.T, ch chan []byte) string {
	t.Helper()
	select {
	case msg, ok := <-ch:
		if !ok {
			t.Fatal("channel closed")
		}
		return string(msg)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for event")
		return ""
	}
}

func TestBroker_PublishPageEvent(t *testing.T) {
	b := NewBroker(time.Minute)
	defer b.Close()

	ch := b.Subscribe()
	defer b.Unsubscribe(ch)

	b.PublishPageEvent("created", "app/a.txt")

	msg := recv(t, ch)
	if !strings.Contains(msg, "event: page.created") {
		t.Errorf("msg = %q", msg)
	}
	if !strings.Contains(msg, `"path":"app/a.txt"`) {
		t.Errorf("msg = %q", msg)
	}

	// First page event also triggers the throttled list refresh.
	msg = recv(t, ch)
	if !strings.Contains(msg, "event: pages.changed") {
		t.Errorf("msg = %q", msg)
	}
}

func TestBroker_ListRefreshThrottled(t *testing.T) {
	b := NewBroker(time.Hour)
	defer b.Close()

	ch := b.Subscribe()
	defer b.Unsubscribe(ch)

	b.PublishPageEvent("updated", "a.txt")
	_ = recv(t, ch) // page.updated
	_ = recv(t, ch) // pages.changed

	b.PublishPageEvent("updated", "b.txt")
	msg := recv(t, ch)
	if !strings.Contains(msg, "event: page.updated") {
		t.Errorf("msg = %q", msg)
	}
	select {
	case extra := <-ch:
		if strings.Contains(string(extra), "pages.changed") {
			t.Error("pages.changed not throttled")
		}
	case <-time.After(100 * time.Millisecond):
	}
}

func TestBroker_SeedEvent(t *testing.T) {
	b := NewBroker(time.Minute)
	defer b.Close()

	ch := b.Subscribe()
	defer b.Unsubscribe(ch)

	b.PublishSeedEvent(7)
	msg := recv(t, ch)
	if !strings.Contains(msg, "event: seed.completed") || !strings.Contains(msg, `"files":7`) {
		t.Errorf("msg = %q", msg)
	}
}

func TestBroker_ClientCount(t *testing.T) {
	b := NewBroker(time.Minute)
	defer b.Close()

	ch1 := b.Subscribe()
	ch2 := b.Subscribe()

	// Counts go through the loop, so they observe both subscriptions.
	if n := b.ClientCount(); n != 2 {
		t.Errorf("count = %d, want 2", n)
	}
	b.Unsubscribe(ch1)
	if n := b.ClientCount(); n != 1 {
		t.Errorf("count = %d, want 1", n)
	}
	b.Unsubscribe(ch2)
}

func TestBroker_CloseUnblocksClients(t *testing.T) {
	b := NewBroker(time.Minute)
	ch := b.Subscribe()
	b.Close()

	select {
	case _, ok := <-ch:
		if ok {
			t.Error("expected closed channel")
		}
	case <-time.After(2 * time.Second):
		t.Error("channel not closed on broker shutdown")
	}

	// Publishing after close must not panic or block.
	b.Publish(Event{Type: "x"})
	b.PublishPageEvent("created", "a.txt")
}
