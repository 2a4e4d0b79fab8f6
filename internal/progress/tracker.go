// Package progress reports release transaction progress to the operator.
package progress

import (
	"fmt"
	"io"
	"time"
)

// Tracker interface defines methods for reporting operation progress
type Tracker interface {
	Start(operation string) *Operation
	Status(status TransactionStatus)
	Notef(format string, args ...interface{})
	Complete()
	Error(err error)
}

// Operation represents a tracked operation
type Operation struct {
	Name      string
	StartTime time.Time
	Status    TransactionStatus
}

// TransactionStatus mirrors the states of the release transaction state
// machine so operator output and internal state never disagree.
type TransactionStatus string

const (
	StatusInit                  TransactionStatus = "init"
	StatusCheckpointed          TransactionStatus = "checkpointed"
	StatusLocalCommitted        TransactionStatus = "local-committed"
	StatusRemoteBranchPublished TransactionStatus = "remote-branch-published"
	StatusMainlinePublished     TransactionStatus = "mainline-published"
	StatusCleaned               TransactionStatus = "cleaned"
	StatusDone                  TransactionStatus = "done"
	StatusAborted               TransactionStatus = "aborted"
)

// ConsoleTracker implements Tracker for console output
type ConsoleTracker struct {
	w                io.Writer
	currentOperation *Operation
}

// NewConsoleTracker creates a new console-based progress tracker
// writing to w.
func NewConsoleTracker(w io.Writer) *ConsoleTracker {
	return &ConsoleTracker{w: w}
}

// Start begins tracking a new operation
func (t *ConsoleTracker) Start(operation string) *Operation {
	t.currentOperation = &Operation{
		Name:      operation,
		StartTime: time.Now(),
		Status:    StatusInit,
	}
	fmt.Fprintf(t.w, "%s\n", operation)
	return t.currentOperation
}

// Status records a state transition of the current operation
func (t *ConsoleTracker) Status(status TransactionStatus) {
	if t.currentOperation == nil {
		return
	}
	t.currentOperation.Status = status
	fmt.Fprintf(t.w, "  -> %s\n", status)
}

// Notef emits a free-form operator-visible note
func (t *ConsoleTracker) Notef(format string, args ...interface{}) {
	fmt.Fprintf(t.w, "  %s\n", fmt.Sprintf(format, args...))
}

// Complete marks the operation as completed
func (t *ConsoleTracker) Complete() {
	if t.currentOperation == nil {
		return
	}
	t.currentOperation.Status = StatusDone
	duration := time.Since(t.currentOperation.StartTime).Round(time.Millisecond)
	fmt.Fprintf(t.w, "%s completed (took %v)\n", t.currentOperation.Name, duration)
}

// Error marks the operation as failed with an error
func (t *ConsoleTracker) Error(err error) {
	if t.currentOperation == nil {
		return
	}
	t.currentOperation.Status = StatusAborted
	fmt.Fprintf(t.w, "%s failed: %v\n", t.currentOperation.Name, err)
}

// Discard is a Tracker that swallows all output, for callers that do
// not want progress reporting.
type Discard struct{}

func (Discard) Start(operation string) *Operation          { return &Operation{Name: operation} }
func (Discard) Status(TransactionStatus)                   {}
func (Discard) Notef(string, ...interface{})               {}
func (Discard) Complete()                                  {}
func (Discard) Error(error)                                {}
