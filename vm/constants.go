package vm

// Opcode numbers, exactly as laid out in the instruction set table.
const (
	OpTRP = 0
	OpADD = 1
	OpADI = 2
	OpSUB = 3
	OpMUL = 4
	OpDIV = 5
	OpAND = 6
	OpOR  = 7
	OpCMP = 8
	OpMOV = 9
	OpLDA = 10
	OpSTR = 11
	OpLDR = 12
	OpSTB = 13
	OpLDB = 14
	OpJMP = 15
	OpJMR = 16
	OpBNZ = 17
	OpBGT = 18
	OpBLT = 19
	OpBRZ = 20

	OpLDBI = 21
	OpSTBI = 22
	OpLDRI = 23
	OpSTRI = 24
)

// Register indices. 0..9 are general purpose; 10..14 have architectural roles.
const (
	RegPC = 10
	RegSP = 11
	RegST = 12
	RegSB = 13
	RegFP = 14

	RegisterCount = 15
)

// Trap codes understood by TRP.
const (
	TrapHalt      = 0
	TrapPrintInt  = 1
	TrapReadInt   = 2
	TrapPrintChar = 3
	TrapReadChar  = 4
	TrapDebugger  = 99
)

// InstructionSize is the width in bytes of one encoded instruction cell:
// three big-endian 32-bit fields (opcode, operand1, operand2).
const InstructionSize = 12

// DefaultMemSize is the VM's default image size, per the data model.
const DefaultMemSize = 51200

// DefaultMaxCycles bounds the fetch-decode-execute loop as a runaway-program
// safety net; it is not part of the architectural contract.
const DefaultMaxCycles = 10_000_000
