// Package encoder resolves mnemonics and register/special names to the
// numeric values the instruction cell format requires, keeping that lookup
// logic separate from the line-classification work in package assembler.
package encoder

import (
	"fmt"
	"strconv"
	"strings"

	"regvm/vm"
)

// Opcodes maps a mnemonic (upper-cased) to its numeric opcode.
var Opcodes = map[string]int32{
	"TRP": vm.OpTRP,
	"ADD": vm.OpADD,
	"ADI": vm.OpADI,
	"SUB": vm.OpSUB,
	"MUL": vm.OpMUL,
	"DIV": vm.OpDIV,
	"AND": vm.OpAND,
	"OR":  vm.OpOR,
	"CMP": vm.OpCMP,
	"MOV": vm.OpMOV,
	"LDA": vm.OpLDA,
	"STR": vm.OpSTR,
	"LDR": vm.OpLDR,
	"STB": vm.OpSTB,
	"LDB": vm.OpLDB,
	"JMP": vm.OpJMP,
	"JMR": vm.OpJMR,
	"BNZ": vm.OpBNZ,
	"BGT": vm.OpBGT,
	"BLT": vm.OpBLT,
	"BRZ": vm.OpBRZ,

	"LDBI": vm.OpLDBI,
	"STBI": vm.OpSTBI,
	"LDRI": vm.OpLDRI,
	"STRI": vm.OpSTRI,
}

// BaseMnemonics is the set of mnemonics a source line may write directly —
// every opcode except the register-indirect forms, which only ever appear
// as the promoted target of LDB/LDR/STB/STR and are never typed by hand.
var BaseMnemonics = map[string]bool{
	"TRP": true, "ADD": true, "ADI": true, "SUB": true, "MUL": true,
	"DIV": true, "AND": true, "OR": true, "CMP": true, "MOV": true,
	"LDA": true, "STR": true, "LDR": true, "STB": true, "LDB": true,
	"JMP": true, "JMR": true, "BNZ": true, "BGT": true, "BLT": true,
	"BRZ": true,
}

// Indirectable lists the mnemonics that promote to a register-indirect
// variant (by appending "I") when their second operand is a register
// rather than an immediate or label.
var Indirectable = map[string]bool{
	"LDB": true,
	"LDR": true,
	"STB": true,
	"STR": true,
}

// Mnemonics is the reverse of Opcodes, for disassembly in trace output and
// the debugger.
var Mnemonics = reverseOpcodes()

func reverseOpcodes() map[int32]string {
	m := make(map[int32]string, len(Opcodes))
	for name, op := range Opcodes {
		m[op] = name
	}
	return m
}

// specialRegisters maps the architectural register names to their indices.
var specialRegisters = map[string]int32{
	"pc": vm.RegPC,
	"sp": vm.RegSP,
	"st": vm.RegST,
	"sb": vm.RegSB,
	"fp": vm.RegFP,
}

// Reserved is the set of names a label may never bind to: register
// mnemonics, special register names, and every instruction mnemonic.
func Reserved() map[string]bool {
	reserved := make(map[string]bool, len(Opcodes)+len(specialRegisters)+2*vm.RegisterCount)
	for i := 0; i < vm.RegisterCount; i++ {
		reserved[fmt.Sprintf("r%d", i)] = true
		reserved[fmt.Sprintf("R%d", i)] = true
	}
	for name := range specialRegisters {
		reserved[name] = true
	}
	for name := range Opcodes {
		reserved[name] = true
	}
	return reserved
}

// RegisterIndex resolves a register operand (case-insensitive "r3"/"R3",
// or one of pc/sp/st/sb/fp) to its numeric index. ok is false if name is
// not a valid register reference.
func RegisterIndex(name string) (int32, bool) {
	lower := strings.ToLower(name)
	if idx, ok := specialRegisters[lower]; ok {
		return idx, true
	}
	if len(lower) < 2 || lower[0] != 'r' {
		return 0, false
	}
	n, err := strconv.Atoi(lower[1:])
	if err != nil || n < 0 || n >= vm.RegisterCount {
		return 0, false
	}
	return int32(n), true
}

// PromoteIndirect returns the "...I" mnemonic for an indirectable
// instruction, used when its second operand is a register rather than an
// immediate or label.
func PromoteIndirect(mnemonic string) string {
	return mnemonic + "I"
}
