package vm

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// VM is the complete virtual machine: the shared image, the register file,
// and the single-character input buffer described in the data model. It is
// single-threaded and synchronous — the fetch-decode-execute loop is the
// only thing that ever mutates Memory or Regs.
type VM struct {
	Memory *Memory
	Regs   *Registers

	Cycles    uint64
	MaxCycles uint64 // 0 means unbounded

	Halted   bool
	ExitCode int

	Stdin  *bufio.Reader
	Stdout io.Writer
	lineBuf string

	Trace *ExecutionTrace

	// DebugHook is invoked synchronously when the program executes TRP 99.
	// nil means the trap is a no-op (halts nothing, just returns).
	DebugHook func(v *VM) error
}

// New creates a VM over image, with pc/sp/st/sb/fp initialized per the data
// model: pc at entry, sp/sb/fp at the top of the image, st at stackTop.
func New(image *Memory, entry uint32, stackTop uint32) *VM {
	v := &VM{
		Memory: image,
		Regs:   NewRegisters(),
		Stdin:  bufio.NewReader(os.Stdin),
		Stdout: os.Stdout,
	}
	memSize := int32(image.Size())
	v.Regs.SetInt(RegPC, int32(entry))
	v.Regs.SetInt(RegSP, memSize)
	v.Regs.SetInt(RegST, int32(stackTop))
	v.Regs.SetInt(RegSB, memSize)
	v.Regs.SetInt(RegFP, memSize)
	return v
}

// Run executes instructions until a halt, a cycle-limit breach, or a
// runtime error.
func (v *VM) Run() error {
	for !v.Halted {
		if v.MaxCycles != 0 && v.Cycles >= v.MaxCycles {
			return newError(ErrorOutOfRange, v.pc(), "cycle limit exceeded (%d cycles)", v.MaxCycles)
		}
		if err := v.Step(); err != nil {
			return err
		}
	}
	return nil
}

func (v *VM) pc() uint32 {
	return uint32(v.Regs.Int(RegPC))
}

// Step performs one fetch-decode-execute cycle.
func (v *VM) Step() error {
	pc := v.pc()
	if !v.Memory.InBounds(pc, InstructionSize) {
		return newError(ErrorOutOfRange, pc, "instruction fetch out of range")
	}

	opcode, op1, op2 := v.Memory.FetchInst(pc)
	v.Regs.SetInt(RegPC, int32(pc+InstructionSize))

	if v.Trace != nil {
		if err := v.Trace.Record(v.Cycles, pc, opcode, op1, op2); err != nil {
			return fmt.Errorf("trace write: %w", err)
		}
	}
	v.Cycles++

	return v.dispatch(pc, opcode, op1, op2)
}

func (v *VM) dispatch(pc uint32, opcode, op1, op2 int32) error {
	x, y := int(op1), int(op2)

	switch opcode {
	case OpTRP:
		return v.trap(pc, int(op1))
	case OpADD:
		v.Regs.SetInt(x, v.Regs.Int(x)+v.Regs.Int(y))
	case OpADI:
		v.Regs.SetInt(x, v.Regs.Int(x)+op2)
	case OpSUB:
		v.Regs.SetInt(x, v.Regs.Int(x)-v.Regs.Int(y))
	case OpMUL:
		v.Regs.SetInt(x, v.Regs.Int(x)*v.Regs.Int(y))
	case OpDIV:
		divisor := v.Regs.Int(y)
		if divisor == 0 {
			return newError(ErrorDivideByZero, pc, "division by zero")
		}
		v.Regs.SetInt(x, v.Regs.Int(x)/divisor)
	case OpAND:
		v.Regs.SetInt(x, boolInt(v.Regs.Int(x) != 0 && v.Regs.Int(y) != 0))
	case OpOR:
		v.Regs.SetInt(x, boolInt(v.Regs.Int(x) != 0 || v.Regs.Int(y) != 0))
	case OpCMP:
		v.Regs.SetInt(x, v.Regs.Int(x)-v.Regs.Int(y))
	case OpMOV:
		v.Regs.Copy(x, y)
	case OpLDA:
		v.Regs.SetInt(x, op2)
	case OpSTR:
		return v.storeWord(pc, x, uint32(op2))
	case OpLDR:
		return v.loadWord(pc, x, uint32(op2))
	case OpSTRI:
		return v.storeWord(pc, x, uint32(v.Regs.Int(y)))
	case OpLDRI:
		return v.loadWord(pc, x, uint32(v.Regs.Int(y)))
	case OpSTB:
		return v.storeByte(pc, x, uint32(op2))
	case OpLDB:
		return v.loadByte(pc, x, uint32(op2))
	case OpSTBI:
		return v.storeByte(pc, x, uint32(v.Regs.Int(y)))
	case OpLDBI:
		return v.loadByte(pc, x, uint32(v.Regs.Int(y)))
	case OpJMP:
		v.Regs.SetInt(RegPC, op1)
	case OpJMR:
		v.Regs.SetInt(RegPC, v.Regs.Int(x))
	case OpBNZ:
		if v.Regs.Int(x) != 0 {
			v.Regs.SetInt(RegPC, op2)
		}
	case OpBGT:
		if v.Regs.Int(x) > 0 {
			v.Regs.SetInt(RegPC, op2)
		}
	case OpBLT:
		if v.Regs.Int(x) < 0 {
			v.Regs.SetInt(RegPC, op2)
		}
	case OpBRZ:
		if v.Regs.Int(x) == 0 {
			v.Regs.SetInt(RegPC, op2)
		}
	default:
		return newError(ErrorUnknownTrap, pc, "unknown opcode %d", opcode)
	}
	return nil
}

func boolInt(b bool) int32 {
	if b {
		return 1
	}
	return 0
}

func (v *VM) storeWord(pc uint32, reg int, addr uint32) error {
	if !v.Memory.InBounds(addr, 4) {
		return newError(ErrorOutOfRange, pc, "word store out of range at %d", addr)
	}
	v.Memory.StoreInt(v.Regs.Int(reg), addr)
	return nil
}

func (v *VM) loadWord(pc uint32, reg int, addr uint32) error {
	if !v.Memory.InBounds(addr, 4) {
		return newError(ErrorOutOfRange, pc, "word load out of range at %d", addr)
	}
	v.Regs.SetInt(reg, v.Memory.FetchInt(addr))
	return nil
}

func (v *VM) storeByte(pc uint32, reg int, addr uint32) error {
	if !v.Memory.InBounds(addr, 1) {
		return newError(ErrorOutOfRange, pc, "byte store out of range at %d", addr)
	}
	v.Memory.StoreByte(v.Regs.Byte(reg), addr)
	return nil
}

func (v *VM) loadByte(pc uint32, reg int, addr uint32) error {
	if !v.Memory.InBounds(addr, 1) {
		return newError(ErrorOutOfRange, pc, "byte load out of range at %d", addr)
	}
	v.Regs.ZeroUpper(reg)
	v.Regs.SetByte(reg, v.Memory.FetchByte(addr))
	return nil
}

func (v *VM) trap(pc uint32, code int) error {
	switch code {
	case TrapHalt:
		v.Halted = true
		v.ExitCode = 0
	case TrapPrintInt:
		fmt.Fprintf(v.Stdout, "%d", v.Regs.Int(0))
	case TrapReadInt:
		return v.trapReadInt()
	case TrapPrintChar:
		fmt.Fprintf(v.Stdout, "%c", v.Regs.Byte(0))
	case TrapReadChar:
		return v.trapReadChar()
	case TrapDebugger:
		if v.DebugHook != nil {
			return v.DebugHook(v)
		}
	default:
		return newError(ErrorUnknownTrap, pc, "unknown trap code %d", code)
	}
	return nil
}

func (v *VM) readLine() (string, error) {
	line, err := v.Stdin.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimRight(line, "\n"), nil
}

func (v *VM) trapReadInt() error {
	if v.lineBuf == "" {
		line, err := v.readLine()
		if err != nil {
			return fmt.Errorf("TRP 2: reading stdin: %w", err)
		}
		v.lineBuf = line
	}
	val, err := strconv.Atoi(strings.TrimSpace(v.lineBuf))
	v.lineBuf = ""
	if err != nil {
		return fmt.Errorf("TRP 2: parsing integer: %w", err)
	}
	v.Regs.SetInt(0, int32(val))
	return nil
}

func (v *VM) trapReadChar() error {
	if v.lineBuf == "" {
		line, err := v.readLine()
		if err != nil {
			return fmt.Errorf("TRP 4: reading stdin: %w", err)
		}
		v.lineBuf = line + "\n"
	}
	b := v.lineBuf[0]
	v.lineBuf = v.lineBuf[1:]
	v.Regs.SetByte(0, b)
	return nil
}
