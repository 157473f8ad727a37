package scheduler

import (
	"testing"
	"time"

	"go.uber.org/zap"
)

func TestTriggerFires(t *testing.T) {
	fired := make(chan string, 1)
	tr := NewTrigger(func(id string) { fired <- id }, zap.NewNop())

	tr.Schedule("t1", time.Now().Add(20*time.Millisecond))

	select {
	case id := <-fired:
		if id != "t1" {
			t.Fatalf("fired with id %q, want t1", id)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timer never fired")
	}

	if n := tr.Pending(); n != 0 {
		t.Fatalf("Pending() = %d after fire, want 0", n)
	}
}

func TestTriggerReplaceFiresOnce(t *testing.T) {
	fired := make(chan string, 2)
	tr := NewTrigger(func(id string) { fired <- id }, zap.NewNop())

	tr.Schedule("t1", time.Now().Add(time.Hour))
	tr.Schedule("t1", time.Now().Add(20*time.Millisecond))

	if n := tr.Pending(); n != 1 {
		t.Fatalf("Pending() = %d after replace, want 1", n)
	}

	select {
	case <-fired:
	case <-time.After(2 * time.Second):
		t.Fatal("replacement timer never fired")
	}

	select {
	case <-fired:
		t.Fatal("replaced timer fired as well")
	case <-time.After(100 * time.Millisecond):
	}
}

func TestTriggerCancel(t *testing.T) {
	fired := make(chan string, 1)
	tr := NewTrigger(func(id string) { fired <- id }, zap.NewNop())

	tr.Schedule("t1", time.Now().Add(30*time.Millisecond))

	if !tr.Cancel("t1") {
		t.Fatal("Cancel returned false for a live registration")
	}
	if tr.Cancel("t1") {
		t.Fatal("Cancel returned true for a dead registration")
	}

	select {
	case <-fired:
		t.Fatal("cancelled timer fired")
	case <-time.After(150 * time.Millisecond):
	}
}

func TestTriggerStop(t *testing.T) {
	fired := make(chan string, 2)
	tr := NewTrigger(func(id string) { fired <- id }, zap.NewNop())

	tr.Schedule("t1", time.Now().Add(30*time.Millisecond))
	tr.Schedule("t2", time.Now().Add(30*time.Millisecond))
	tr.Stop()

	if n := tr.Pending(); n != 0 {
		t.Fatalf("Pending() = %d after Stop, want 0", n)
	}

	select {
	case <-fired:
		t.Fatal("timer fired after Stop")
	case <-time.After(150 * time.Millisecond):
	}
}
