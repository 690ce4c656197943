package vm

// Registers is the 15-register file. Each register is modeled as its own
// 4-byte big-endian cell so that integer and byte views compose for free:
// MOV is a 4-byte copy, and the byte view is simply offset 3 of the cell.
// See DESIGN.md for why this representation was kept over a plain
// [15]uint32 with shift-based byte accessors.
type Registers struct {
	cells [RegisterCount][4]byte
}

// NewRegisters returns a zeroed register file.
func NewRegisters() *Registers {
	return &Registers{}
}

// Int returns the full-width signed integer view of register r.
func (r *Registers) Int(reg int) int32 {
	c := &r.cells[reg]
	u := uint32(c[0])<<24 | uint32(c[1])<<16 | uint32(c[2])<<8 | uint32(c[3])
	return int32(u)
}

// SetInt stores value as the full-width view of register r.
func (r *Registers) SetInt(reg int, value int32) {
	u := uint32(value)
	c := &r.cells[reg]
	c[0] = byte(u >> 24)
	c[1] = byte(u >> 16)
	c[2] = byte(u >> 8)
	c[3] = byte(u)
}

// Byte returns the low-order byte (offset 3) of register r.
func (r *Registers) Byte(reg int) byte {
	return r.cells[reg][3]
}

// SetByte stores value at the low-order byte (offset 3) of register r,
// leaving the upper three bytes untouched.
func (r *Registers) SetByte(reg int, value byte) {
	r.cells[reg][3] = value
}

// ZeroUpper clears bytes 0..2 of register r, keeping the low byte.
func (r *Registers) ZeroUpper(reg int) {
	c := &r.cells[reg]
	c[0], c[1], c[2] = 0, 0, 0
}

// Copy copies all four bytes of src into dst (the MOV semantics).
func (r *Registers) Copy(dst, src int) {
	r.cells[dst] = r.cells[src]
}

// Equal reports whether two registers compare equal under both the
// integer and byte views — true for any pair after a MOV.
func (r *Registers) Equal(a, b int) bool {
	return r.cells[a] == r.cells[b]
}
