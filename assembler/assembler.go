// Package assembler implements the two-pass assembler: pass one sizes
// directives and instructions and resolves the symbol table; pass two
// encodes the source into a flat byte image.
package assembler

import (
	"strings"

	"regvm/encoder"
	"regvm/vm"
)

// Assembler holds the state shared between the two passes.
type Assembler struct {
	Symbols *SymbolTable
}

// New returns an Assembler ready to assemble a single source.
func New() *Assembler {
	return &Assembler{Symbols: NewSymbolTable()}
}

// Result is the assembled image plus the two boundaries the loader needs:
// codeSeg (start of the instruction stream) and stackTop (end of the used
// image, where the stack region begins).
type Result struct {
	Image    *vm.Memory
	CodeSeg  uint32
	StackTop uint32
}

// Assemble runs both passes over source and returns the encoded image. Each
// pass walks the source independently rather than building an intermediate
// AST.
func Assemble(source string, memSize int) (*Result, error) {
	lines := strings.Split(source, "\n")

	a := New()
	if err := a.firstPass(lines); err != nil {
		return nil, err
	}

	image := vm.NewMemory(memSize)
	codeSeg, stackTop, err := a.secondPass(lines, image)
	if err != nil {
		return nil, err
	}

	return &Result{Image: image, CodeSeg: codeSeg, StackTop: stackTop}, nil
}

// FirstPassOnly runs pass one against a.Symbols (empty on an Assembler from
// New; it is not reset here) and leaves it populated, for diagnostics (a symbol table dump) that don't
// need the encoded image.
func (a *Assembler) FirstPassOnly(lines []string) error {
	return a.firstPass(lines)
}

func (a *Assembler) firstPass(lines []string) error {
	reserved := encoder.Reserved()
	pc := uint32(0)

	for i, raw := range lines {
		lineNo := i + 1
		dir, inst, err := Classify(lineNo, raw)
		if err != nil {
			return err
		}

		var label string
		var size uint32
		switch {
		case dir != nil:
			label = dir.Label
			if dir.Type == "INT" {
				size = 4
			} else {
				size = 1
			}
		case inst != nil:
			label = inst.Label
			size = vm.InstructionSize
		default:
			continue
		}

		if label != "" {
			if reserved[label] {
				return &Error{Kind: ErrorReservedKeyword, Line: lineNo, Text: label}
			}
			if err := a.Symbols.Declare(label, pc, lineNo); err != nil {
				return err
			}
		}

		if inst != nil {
			if err := a.useOperandLabel(inst, lineNo); err != nil {
				return err
			}
		}

		pc += size
	}

	if undef := a.Symbols.Undefined(); len(undef) > 0 {
		return newUndefinedLabelsError(undef)
	}
	return nil
}

func (a *Assembler) useOperandLabel(inst *InstructionLine, lineNo int) error {
	switch inst.Kind {
	case OpLabelRef, OpRegLabel:
		a.Symbols.Use(inst.LabelRef, lineNo)
	}
	return nil
}

func (a *Assembler) secondPass(lines []string, image *vm.Memory) (codeSeg, stackTop uint32, err error) {
	pc := uint32(0)
	var codeSegSet bool

	for i, raw := range lines {
		lineNo := i + 1
		dir, inst, classifyErr := Classify(lineNo, raw)
		if classifyErr != nil {
			return 0, 0, classifyErr
		}

		switch {
		case dir != nil:
			if codeSegSet {
				return 0, 0, &Error{Kind: ErrorDirectiveInInstructions, Line: lineNo, Text: dir.Raw}
			}
			size, err := a.encodeDirective(image, pc, dir)
			if err != nil {
				return 0, 0, err
			}
			pc += size

		case inst != nil:
			if !codeSegSet {
				codeSeg = pc
				codeSegSet = true
			}
			if err := a.encodeInstruction(image, pc, inst); err != nil {
				return 0, 0, err
			}
			pc += vm.InstructionSize
		}
	}

	return codeSeg, pc, nil
}

func (a *Assembler) encodeDirective(image *vm.Memory, pc uint32, dir *DirectiveLine) (uint32, error) {
	switch dir.Type {
	case "INT":
		v, err := ParseDirectiveValue(dir.Value)
		if err != nil {
			return 0, &Error{Kind: ErrorUnknownDirective, Line: dir.LineNo, Text: err.Error()}
		}
		image.StoreInt(v, pc)
		return 4, nil
	case "BYT":
		v, err := ParseDirectiveValue(dir.Value)
		if err != nil {
			return 0, &Error{Kind: ErrorUnknownDirective, Line: dir.LineNo, Text: err.Error()}
		}
		image.StoreByte(byte(v), pc)
		return 1, nil
	default:
		return 0, &Error{Kind: ErrorUnknownDirective, Line: dir.LineNo, Text: dir.Type}
	}
}

func (a *Assembler) encodeInstruction(image *vm.Memory, pc uint32, inst *InstructionLine) error {
	mnemonic := inst.Mnemonic
	var op1, op2 int32

	switch inst.Kind {
	case OpCode:
		op1 = inst.Code
	case OpReg:
		op1 = inst.Reg1
	case OpLabelRef:
		addr, ok := a.Symbols.Get(inst.LabelRef)
		if !ok {
			return &Error{Kind: ErrorUndefinedLabel, Line: inst.LineNo, Text: inst.LabelRef}
		}
		op1 = int32(addr)
	case OpRegReg:
		if encoder.Indirectable[mnemonic] {
			mnemonic = encoder.PromoteIndirect(mnemonic)
		}
		op1 = inst.Reg1
		op2 = inst.Reg2
	case OpRegImm:
		op1 = inst.Reg1
		op2 = inst.Imm
	case OpRegLabel:
		addr, ok := a.Symbols.Get(inst.LabelRef)
		if !ok {
			return &Error{Kind: ErrorUndefinedLabel, Line: inst.LineNo, Text: inst.LabelRef}
		}
		op1 = inst.Reg1
		op2 = int32(addr)
	}

	opcode, ok := encoder.Opcodes[mnemonic]
	if !ok {
		return &Error{Kind: ErrorUnknownInstruction, Line: inst.LineNo, Text: mnemonic}
	}

	image.StoreInst(pc, opcode, op1, op2)
	return nil
}
