package errors

import (
	"fmt"
	"strings"
)

// PreconditionError reports a fatal condition detected before any
// repository mutation. It is always safe to just stop: nothing has to
// be rolled back when one of these is returned.
type PreconditionError struct {
	Op      string // Operation that was requested
	Message string // Why the operation cannot start
}

func (e *PreconditionError) Error() string {
	return fmt.Sprintf("%s: %s", e.Op, e.Message)
}

// NewPreconditionError creates a new PreconditionError
func NewPreconditionError(op, format string, args ...interface{}) *PreconditionError {
	return &PreconditionError{
		Op:      op,
		Message: fmt.Sprintf(format, args...),
	}
}

// ReconcileError reports a rejection that happened after an earlier
// step already made a remote-visible change. The repository has been
// restructured so the conflicting commit stays reachable, but the
// operator has to finish the reconciliation by hand.
type ReconcileError struct {
	Op            string // Operation that failed
	Message       string // What the operator should do
	CheckpointRef string // Ref that still holds the conflicting commit, if any
	Raw           string // Tail of the collaborator's diagnostic output
	Err           error  // Underlying error
}

func (e *ReconcileError) Error() string {
	if e.CheckpointRef != "" {
		return fmt.Sprintf("%s: %s (checkpoint ref %q still exists)", e.Op, e.Message, e.CheckpointRef)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Message)
}

func (e *ReconcileError) Unwrap() error {
	return e.Err
}

// NewReconcileError creates a new ReconcileError
func NewReconcileError(op, message, checkpointRef, raw string, err error) *ReconcileError {
	return &ReconcileError{
		Op:            op,
		Message:       message,
		CheckpointRef: checkpointRef,
		Raw:           raw,
		Err:           err,
	}
}

// IsPrecondition checks if an error is a PreconditionError
func IsPrecondition(err error) bool {
	_, ok := err.(*PreconditionError)
	return ok
}

// IsReconcile checks if an error requires manual reconciliation
func IsReconcile(err error) bool {
	_, ok := err.(*ReconcileError)
	return ok
}

// DiagnosticTail returns the last n non-empty lines of raw collaborator
// output, for inclusion in operator-facing error reports.
func DiagnosticTail(raw string, n int) string {
	lines := strings.Split(strings.TrimRight(raw, "\n"), "\n")
	kept := make([]string, 0, n)
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		kept = append(kept, line)
	}
	if len(kept) > n {
		kept = kept[len(kept)-n:]
	}
	return strings.Join(kept, "\n")
}
