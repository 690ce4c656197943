package vm

import (
	"bufio"
	"bytes"
	"strings"
	"testing"
)

func newTestVM(image []byte, entry uint32) (*VM, *bytes.Buffer) {
	m := &Memory{bytes: image}
	v := New(m, entry, uint32(len(image)))
	var out bytes.Buffer
	v.Stdout = &out
	return v, &out
}

func TestRunPrintsLiteral(t *testing.T) {
	// FORTY .INT 42 ; main LDR r0 FORTY ; TRP 1 ; TRP 0
	img := make([]byte, 4+3*InstructionSize)
	m := &Memory{bytes: img}
	m.StoreInt(42, 0)
	m.StoreInst(4, OpLDR, 0, 0)
	m.StoreInst(4+InstructionSize, OpTRP, 1, 0)
	m.StoreInst(4+2*InstructionSize, OpTRP, 0, 0)

	v, out := newTestVM(img, 4)
	if err := v.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if out.String() != "42" {
		t.Errorf("stdout = %q, want %q", out.String(), "42")
	}
	if v.ExitCode != 0 {
		t.Errorf("ExitCode = %d, want 0", v.ExitCode)
	}
}

func TestEchoChar(t *testing.T) {
	img := make([]byte, 3*InstructionSize)
	m := &Memory{bytes: img}
	m.StoreInst(0, OpTRP, 4, 0)
	m.StoreInst(InstructionSize, OpTRP, 3, 0)
	m.StoreInst(2*InstructionSize, OpTRP, 0, 0)

	v, out := newTestVM(img, 0)
	v.Stdin = bufio.NewReader(strings.NewReader("A\n"))
	if err := v.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if out.String() != "A" {
		t.Errorf("stdout = %q, want %q", out.String(), "A")
	}
}

func TestSumTwoInputs(t *testing.T) {
	// TRP 2 (r0=a); STR r0 data; TRP 2 (r0=b); LDR r1 data; ADD r1 r0; MOV r0 r1; TRP 1; TRP 0
	// Use a trailing data word for the stash, laid out after the code.
	code := 8 * InstructionSize
	img := make([]byte, code+4)
	dataAddr := int32(code)
	m := &Memory{bytes: img}
	pc := uint32(0)
	put := func(op, a1, a2 int32) {
		m.StoreInst(pc, op, a1, a2)
		pc += InstructionSize
	}
	put(OpTRP, 2, 0)
	put(OpSTR, 0, dataAddr)
	put(OpTRP, 2, 0)
	put(OpLDR, 1, dataAddr)
	put(OpADD, 1, 0)
	put(OpMOV, 0, 1)
	put(OpTRP, 1, 0)
	m.StoreInst(pc, OpTRP, 0, 0)

	v, out := newTestVM(img, 0)
	v.Stdin = bufio.NewReader(strings.NewReader("3\n4\n"))
	if err := v.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if out.String() != "7" {
		t.Errorf("stdout = %q, want %q", out.String(), "7")
	}
}

func TestBranchOnZero(t *testing.T) {
	// 0: r1 = 0
	// 1: BRZ r1 -> ELSE (index 3)
	// 2: JMP END (index 5)             <- skipped when branch taken
	// 3: ELSE: r0 += 'Y'
	// 4: TRP 3 (print low byte of r0)
	// 5: END: TRP 0
	m := &Memory{bytes: make([]byte, 6*InstructionSize)}
	pc := uint32(0)
	put := func(op, a1, a2 int32) {
		m.StoreInst(pc, op, a1, a2)
		pc += InstructionSize
	}
	put(OpLDA, 1, 0)
	put(OpBRZ, 1, int32(3*InstructionSize))
	put(OpJMP, int32(5*InstructionSize), 0)
	put(OpADI, 0, int32('Y'))
	put(OpTRP, 3, 0)
	put(OpTRP, 0, 0)

	v, out := newTestVM(m.bytes, 0)
	if err := v.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if out.String() != "Y" {
		t.Errorf("stdout = %q, want %q (branch should only print from ELSE)", out.String(), "Y")
	}
}

func TestDivideByZero(t *testing.T) {
	m := &Memory{bytes: make([]byte, InstructionSize)}
	m.StoreInst(0, OpDIV, 0, 1) // r1 is 0
	v := New(m, 0, uint32(len(m.bytes)))
	err := v.Run()
	if err == nil {
		t.Fatal("expected divide-by-zero error")
	}
	vmErr, ok := err.(*Error)
	if !ok || vmErr.Kind != ErrorDivideByZero {
		t.Errorf("got %v, want ErrorDivideByZero", err)
	}
}

func TestUnknownTrap(t *testing.T) {
	m := &Memory{bytes: make([]byte, InstructionSize)}
	m.StoreInst(0, OpTRP, 7, 0)
	v := New(m, 0, uint32(len(m.bytes)))
	err := v.Run()
	if err == nil {
		t.Fatal("expected unknown-trap error")
	}
	vmErr, ok := err.(*Error)
	if !ok || vmErr.Kind != ErrorUnknownTrap {
		t.Errorf("got %v, want ErrorUnknownTrap", err)
	}
}
