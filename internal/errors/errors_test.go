package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestOperationError_Error(t *testing.T) {
	tests := []struct {
		name     string
		op       string
		err      error
		expected string
	}{
		{
			name:     "with underlying error",
			op:       "read-version",
			err:      errors.New("failed to read version file: permission denied"),
			expected: "read-version: failed to read version file: permission denied",
		},
		{
			name:     "with push diagnostics",
			op:       "branch",
			err:      fmt.Errorf("remote rejected branch %s:\n%s", "version-3", "! [rejected] non-fast-forward"),
			expected: "branch: remote rejected branch version-3:\n! [rejected] non-fast-forward",
		},
		{
			name:     "without underlying error",
			op:       "stash-pop",
			err:      nil,
			expected: "stash-pop",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opErr := &OperationError{
				Op:  tt.op,
				Err: tt.err,
			}
			if got := opErr.Error(); got != tt.expected {
				t.Errorf("OperationError.Error() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestOperationError_Unwrap(t *testing.T) {
	underlying := errors.New("git push failed")
	opErr := &OperationError{
		Op:  "tag",
		Err: underlying,
	}

	if got := opErr.Unwrap(); got != underlying {
		t.Errorf("OperationError.Unwrap() = %v, want %v", got, underlying)
	}
	// The transaction wraps raw git failures once; callers match the
	// root cause through the chain.
	if !errors.Is(opErr, underlying) {
		t.Error("errors.Is() did not reach the underlying error")
	}
}

func TestNew(t *testing.T) {
	op := "config-get"
	err := errors.New("git config --get failed")

	opErr := New(op, err)

	if opErr.Op != op {
		t.Errorf("New() Op = %v, want %v", opErr.Op, op)
	}
	if opErr.Err != err {
		t.Errorf("New() Err = %v, want %v", opErr.Err, err)
	}
}

func TestOperationError_Is(t *testing.T) {
	tests := []struct {
		name     string
		err1     *OperationError
		err2     error
		expected bool
	}{
		{
			name:     "matching operations",
			err1:     &OperationError{Op: "tag", Err: errors.New("remote rejected the master update")},
			err2:     &OperationError{Op: "tag", Err: errors.New("duplicate tag")},
			expected: true,
		},
		{
			name:     "different operations",
			err1:     &OperationError{Op: "tag", Err: errors.New("error")},
			err2:     &OperationError{Op: "branch", Err: errors.New("error")},
			expected: false,
		},
		{
			name:     "different error types",
			err1:     &OperationError{Op: "policy", Err: errors.New("error")},
			err2:     errors.New("not an operation error"),
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err1.Is(tt.err2); got != tt.expected {
				t.Errorf("OperationError.Is() = %v, want %v", got, tt.expected)
			}
		})
	}
}
