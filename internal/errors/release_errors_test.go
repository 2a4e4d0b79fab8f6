package errors

import (
	"errors"
	"strings"
	"testing"
)

func TestPreconditionError_Error(t *testing.T) {
	err := NewPreconditionError("branch", "branch %q already exists on remote %q", "version-3", "origin")
	want := `branch: branch "version-3" already exists on remote "origin"`
	if got := err.Error(); got != want {
		t.Errorf("PreconditionError.Error() = %v, want %v", got, want)
	}
}

func TestReconcileError_Error(t *testing.T) {
	tests := []struct {
		name          string
		checkpointRef string
		want          string
	}{
		{
			name:          "with checkpoint ref",
			checkpointRef: "gitrelease/checkpoint-version-3",
			want:          `push: merge the checkpoint into the mainline (checkpoint ref "gitrelease/checkpoint-version-3" still exists)`,
		},
		{
			name: "without checkpoint ref",
			want: "push: merge the checkpoint into the mainline",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewReconcileError("push", "merge the checkpoint into the mainline", tt.checkpointRef, "", nil)
			if got := err.Error(); got != tt.want {
				t.Errorf("ReconcileError.Error() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestReconcileError_Unwrap(t *testing.T) {
	underlying := errors.New("non-fast-forward")
	err := NewReconcileError("push", "remote rejected the update", "", "", underlying)
	if got := err.Unwrap(); got != underlying {
		t.Errorf("ReconcileError.Unwrap() = %v, want %v", got, underlying)
	}
}

func TestIsPrecondition(t *testing.T) {
	if !IsPrecondition(NewPreconditionError("tag", "no configured remote")) {
		t.Error("IsPrecondition() = false for PreconditionError")
	}
	if IsPrecondition(errors.New("plain error")) {
		t.Error("IsPrecondition() = true for plain error")
	}
	if IsPrecondition(NewReconcileError("push", "m", "", "", nil)) {
		t.Error("IsPrecondition() = true for ReconcileError")
	}
}

func TestIsReconcile(t *testing.T) {
	if !IsReconcile(NewReconcileError("push", "m", "", "", nil)) {
		t.Error("IsReconcile() = false for ReconcileError")
	}
	if IsReconcile(NewPreconditionError("tag", "no configured remote")) {
		t.Error("IsReconcile() = true for PreconditionError")
	}
}

func TestDiagnosticTail(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		n    int
		want string
	}{
		{
			name: "short output unchanged",
			raw:  "error: failed to push\n",
			n:    3,
			want: "error: failed to push",
		},
		{
			name: "keeps only the last lines",
			raw:  "one\ntwo\nthree\nfour\n",
			n:    2,
			want: "three\nfour",
		},
		{
			name: "blank lines are skipped",
			raw:  "one\n\n\ntwo\n",
			n:    5,
			want: "one\ntwo",
		},
		{
			name: "empty output",
			raw:  "",
			n:    3,
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DiagnosticTail(tt.raw, tt.n); got != tt.want {
				t.Errorf("DiagnosticTail() = %q, want %q", got, tt.want)
			}
			if tt.n > 0 && strings.Count(DiagnosticTail(tt.raw, tt.n), "\n") >= tt.n {
				t.Errorf("DiagnosticTail() returned more than %d lines", tt.n)
			}
		})
	}
}
