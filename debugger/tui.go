package debugger

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"regvm/encoder"
	"regvm/vm"
)

// TUI is the text interface shown on a TRP 99 trap.
type TUI struct {
	Debugger *Debugger
	App      *tview.Application

	RegisterView     *tview.TextView
	MemoryView       *tview.TextView
	InstructionsView *tview.TextView
	StatusView       *tview.TextView
}

// NewTUI builds the view panels and key bindings for d.
func NewTUI(d *Debugger) *TUI {
	t := &TUI{
		Debugger: d,
		App:      tview.NewApplication(),
	}

	t.RegisterView = tview.NewTextView().SetDynamicColors(true)
	t.RegisterView.SetBorder(true).SetTitle(" Registers ")

	t.MemoryView = tview.NewTextView().SetDynamicColors(true)
	t.MemoryView.SetBorder(true).SetTitle(" Memory ")

	t.InstructionsView = tview.NewTextView().SetDynamicColors(true)
	t.InstructionsView.SetBorder(true).SetTitle(" Next Instructions ")

	t.StatusView = tview.NewTextView().SetDynamicColors(true)
	t.StatusView.SetBorder(true).SetTitle(" (s)tep (c)ontinue (q)uit ")
	t.StatusView.SetText("paused at TRP 99")

	top := tview.NewFlex().
		AddItem(t.RegisterView, 0, 1, false).
		AddItem(t.MemoryView, 0, 1, false)

	layout := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(top, 0, 3, false).
		AddItem(t.InstructionsView, 0, 2, false).
		AddItem(t.StatusView, 3, 0, false)

	t.App.SetRoot(layout, true)
	t.setupKeyBindings()

	return t
}

func (t *TUI) setupKeyBindings() {
	t.App.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Rune() {
		case 's':
			t.step()
			return nil
		case 'c':
			t.App.Stop()
			return nil
		case 'q':
			t.Debugger.VM.Halted = true
			t.App.Stop()
			return nil
		}
		return event
	})
}

func (t *TUI) step() {
	v := t.Debugger.VM
	if err := v.Step(); err != nil {
		t.StatusView.SetText(fmt.Sprintf("[red]%v[white]", err))
		t.App.Stop()
		return
	}
	if v.Halted {
		t.StatusView.SetText("program halted")
		t.App.Stop()
		return
	}
	t.refresh()
}

func (t *TUI) refresh() {
	t.updateRegisters()
	t.updateMemory()
	t.updateInstructions()
	t.App.Draw()
}

func (t *TUI) updateRegisters() {
	v := t.Debugger.VM
	var sb strings.Builder
	names := map[int]string{vm.RegPC: "pc", vm.RegSP: "sp", vm.RegST: "st", vm.RegSB: "sb", vm.RegFP: "fp"}
	for i := 0; i < vm.RegisterCount; i++ {
		label := fmt.Sprintf("r%d", i)
		if n, ok := names[i]; ok {
			label = n
		}
		fmt.Fprintf(&sb, "%-3s = %11d (0x%08X)\n", label, v.Regs.Int(i), uint32(v.Regs.Int(i)))
	}
	t.RegisterView.SetText(sb.String())
}

func (t *TUI) updateMemory() {
	v := t.Debugger.VM
	pc := uint32(v.Regs.Int(vm.RegPC))
	start := pc
	if start > 32 {
		start = pc - 32
	} else {
		start = 0
	}
	end := start + 64
	if end > uint32(v.Memory.Size()) {
		end = uint32(v.Memory.Size())
	}

	var sb strings.Builder
	for addr := start; addr < end; addr += 16 {
		fmt.Fprintf(&sb, "%06d: ", addr)
		for j := uint32(0); j < 16 && addr+j < end; j++ {
			fmt.Fprintf(&sb, "%02X ", v.Memory.FetchByte(addr+j))
		}
		sb.WriteString("\n")
	}
	t.MemoryView.SetText(sb.String())
}

func (t *TUI) updateInstructions() {
	v := t.Debugger.VM
	pc := uint32(v.Regs.Int(vm.RegPC))

	var sb strings.Builder
	for i := 0; i < 8; i++ {
		addr := pc + uint32(i*vm.InstructionSize)
		if !v.Memory.InBounds(addr, vm.InstructionSize) {
			break
		}
		opcode, op1, op2 := v.Memory.FetchInst(addr)
		mnemonic, ok := encoder.Mnemonics[opcode]
		if !ok {
			mnemonic = fmt.Sprintf("?%d", opcode)
		}
		marker := "  "
		if i == 0 {
			marker = "->"
		}
		fmt.Fprintf(&sb, "%s %06d: %-5s %d, %d\n", marker, addr, mnemonic, op1, op2)
	}
	t.InstructionsView.SetText(sb.String())
}

// Run displays the TUI and blocks until the user continues or quits.
func (t *TUI) Run() error {
	t.refresh()
	return t.App.Run()
}
