package progress

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestConsoleTrackerHappyPath(t *testing.T) {
	buf := new(bytes.Buffer)
	tracker := NewConsoleTracker(buf)

	op := tracker.Start("branch version-3")
	if op.Status != StatusInit {
		t.Errorf("initial status = %v, want %v", op.Status, StatusInit)
	}

	tracker.Status(StatusCheckpointed)
	tracker.Status(StatusLocalCommitted)
	tracker.Notef("push deferred, server-side acceptance pending")
	tracker.Complete()

	out := buf.String()
	for _, want := range []string{
		"branch version-3",
		"-> checkpointed",
		"-> local-committed",
		"server-side acceptance pending",
		"completed",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output %q missing %q", out, want)
		}
	}
	if op.Status != StatusDone {
		t.Errorf("final status = %v, want %v", op.Status, StatusDone)
	}
}

func TestConsoleTrackerError(t *testing.T) {
	buf := new(bytes.Buffer)
	tracker := NewConsoleTracker(buf)

	op := tracker.Start("tag v3.3")
	tracker.Error(errors.New("remote rejected the update"))

	if op.Status != StatusAborted {
		t.Errorf("status = %v, want %v", op.Status, StatusAborted)
	}
	if !strings.Contains(buf.String(), "remote rejected the update") {
		t.Errorf("output %q missing error text", buf.String())
	}
}

func TestStatusBeforeStartIsIgnored(t *testing.T) {
	buf := new(bytes.Buffer)
	tracker := NewConsoleTracker(buf)

	tracker.Status(StatusDone)
	tracker.Complete()

	if buf.Len() != 0 {
		t.Errorf("output = %q, want none before Start", buf.String())
	}
}

func TestDiscard(t *testing.T) {
	var tracker Tracker = Discard{}
	op := tracker.Start("noop")
	tracker.Status(StatusDone)
	tracker.Complete()
	tracker.Error(errors.New("ignored"))
	if op.Name != "noop" {
		t.Errorf("op.Name = %q, want %q", op.Name, "noop")
	}
}
