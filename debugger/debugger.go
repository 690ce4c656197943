// Package debugger implements the host-defined TRP 99 hook: a text UI
// showing the register file, a window of memory, and the next few
// instructions, with step/continue/quit controls.
package debugger

import "regvm/vm"

// Debugger wraps the VM a TRP 99 trap paused, and is the receiver bound to
// VM.DebugHook.
type Debugger struct {
	VM *vm.VM
}

// New returns a Debugger bound to v. Attach it with v.DebugHook = d.Hook.
func New(v *vm.VM) *Debugger {
	return &Debugger{VM: v}
}

// Hook is invoked synchronously by the VM's dispatch loop on TRP 99. It
// blocks until the user requests continue or quits, or until a step halts
// the program or fails.
func (d *Debugger) Hook(v *vm.VM) error {
	tui := NewTUI(d)
	return tui.Run()
}
