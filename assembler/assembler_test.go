package assembler

import (
	"strings"
	"testing"

	"regvm/vm"
)

func TestAssembleDataThenCode(t *testing.T) {
	src := strings.Join([]string{
		"FORTY .INT 42",
		"main LDR r0 FORTY",
		"TRP 1",
		"TRP 0",
	}, "\n")

	res, err := Assemble(src, 256)
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	if got := res.Image.FetchInt(0); got != 42 {
		t.Errorf("FetchInt(0) = %d, want 42", got)
	}
	if res.CodeSeg != 4 {
		t.Errorf("CodeSeg = %d, want 4", res.CodeSeg)
	}
	if res.StackTop != 4+3*vm.InstructionSize {
		t.Errorf("StackTop = %d, want %d", res.StackTop, 4+3*vm.InstructionSize)
	}
}

func TestRegisterIndirectPromotion(t *testing.T) {
	src := strings.Join([]string{
		"LDR r1 r2",
		"TRP 0",
	}, "\n")
	res, err := Assemble(src, 64)
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	opcode, op1, op2 := res.Image.FetchInst(0)
	if opcode != vm.OpLDRI {
		t.Errorf("opcode = %d, want OpLDRI (%d)", opcode, vm.OpLDRI)
	}
	if op1 != 1 || op2 != 2 {
		t.Errorf("operands = (%d,%d), want (1,2)", op1, op2)
	}
}

func TestForwardLabelReference(t *testing.T) {
	src := strings.Join([]string{
		"JMP END",
		"TRP 0",
		"END TRP 0",
	}, "\n")
	res, err := Assemble(src, 64)
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	_, op1, _ := res.Image.FetchInst(0)
	if op1 != int32(2*vm.InstructionSize) {
		t.Errorf("JMP target = %d, want %d", op1, 2*vm.InstructionSize)
	}
}

func TestDuplicateLabel(t *testing.T) {
	src := "L .INT 1\nL .INT 2\n"
	_, err := Assemble(src, 64)
	if err == nil {
		t.Fatal("expected DuplicateLabel error")
	}
	asmErr, ok := err.(*Error)
	if !ok || asmErr.Kind != ErrorDuplicateLabel {
		t.Fatalf("got %v, want ErrorDuplicateLabel", err)
	}
	if asmErr.Line != 2 {
		t.Errorf("Line = %d, want 2", asmErr.Line)
	}
}

func TestUndefinedLabel(t *testing.T) {
	src := "JMP NOWHERE\nTRP 0\n"
	_, err := Assemble(src, 64)
	if err == nil {
		t.Fatal("expected UndefinedLabelsError")
	}
	undefErr, ok := err.(*UndefinedLabelsError)
	if !ok {
		t.Fatalf("got %T, want *UndefinedLabelsError", err)
	}
	if len(undefErr.Symbols) != 1 || undefErr.Symbols[0].Name != "NOWHERE" {
		t.Errorf("Symbols = %+v, want [NOWHERE]", undefErr.Symbols)
	}
}

func TestReservedKeywordAsLabel(t *testing.T) {
	src := "r0 .INT 1\nTRP 0\n"
	_, err := Assemble(src, 64)
	if err == nil {
		t.Fatal("expected ReservedKeyword error")
	}
	asmErr, ok := err.(*Error)
	if !ok || asmErr.Kind != ErrorReservedKeyword {
		t.Fatalf("got %v, want ErrorReservedKeyword", err)
	}
}

func TestDirectiveAfterInstruction(t *testing.T) {
	src := "TRP 0\nL .INT 1\n"
	_, err := Assemble(src, 64)
	if err == nil {
		t.Fatal("expected DirectiveInInstructions error")
	}
	asmErr, ok := err.(*Error)
	if !ok || asmErr.Kind != ErrorDirectiveInInstructions {
		t.Fatalf("got %v, want ErrorDirectiveInInstructions", err)
	}
}

func TestByteDirectiveEscapes(t *testing.T) {
	src := strings.Join([]string{
		"A .BYT '\\n'",
		"B .BYT ';'",
		"TRP 0",
	}, "\n")
	res, err := Assemble(src, 64)
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	if got := res.Image.FetchByte(0); got != '\n' {
		t.Errorf("A = %q, want \\n", got)
	}
	if got := res.Image.FetchByte(1); got != ';' {
		t.Errorf("B = %q, want ';'", got)
	}
}

func TestUnknownMnemonicLine(t *testing.T) {
	src := "FOO r0 r1\n"
	_, err := Assemble(src, 64)
	if err == nil {
		t.Fatal("expected UnknownInstruction error")
	}
	asmErr, ok := err.(*Error)
	if !ok || asmErr.Kind != ErrorUnknownInstruction {
		t.Fatalf("got %v, want ErrorUnknownInstruction", err)
	}
}
