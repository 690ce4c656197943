package vm

import (
	"fmt"
	"io"
)

// ExecutionTrace records one line per executed instruction to an io.Writer.
// It is an opt-in diagnostic; nil disables tracing entirely.
type ExecutionTrace struct {
	w       io.Writer
	entries int
}

// NewExecutionTrace wraps w for execution tracing.
func NewExecutionTrace(w io.Writer) *ExecutionTrace {
	return &ExecutionTrace{w: w}
}

// Record writes one trace line for the instruction about to execute.
func (t *ExecutionTrace) Record(cycle uint64, pc uint32, opcode, op1, op2 int32) error {
	t.entries++
	_, err := fmt.Fprintf(t.w, "%08d pc=%06d op=%-3d a1=%d a2=%d\n", cycle, pc, opcode, op1, op2)
	return err
}

// Entries returns the number of trace lines written so far.
func (t *ExecutionTrace) Entries() int {
	return t.entries
}
