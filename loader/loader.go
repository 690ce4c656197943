// Package loader wires an assembled image into a runnable VM: it picks the
// entry point, sizes the stack region, and attaches the optional trace and
// debugger hooks the host requested.
package loader

import (
	"io"

	"regvm/assembler"
	"regvm/vm"
)

// Options configures the VM a Load call produces.
type Options struct {
	MaxCycles uint64
	Trace     io.Writer // nil disables tracing
	DebugHook func(*vm.VM) error
}

// Load assembles source and returns a VM positioned at the code segment's
// first instruction, with the stack region starting at the assembled
// stack_top boundary.
func Load(source string, memSize int, opts Options) (*vm.VM, *assembler.Result, error) {
	res, err := assembler.Assemble(source, memSize)
	if err != nil {
		return nil, nil, err
	}

	entry := res.CodeSeg
	machine := vm.New(res.Image, entry, res.StackTop)
	machine.MaxCycles = opts.MaxCycles

	if opts.Trace != nil {
		machine.Trace = vm.NewExecutionTrace(opts.Trace)
	}
	if opts.DebugHook != nil {
		machine.DebugHook = opts.DebugHook
	}

	return machine, res, nil
}
