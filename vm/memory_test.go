package vm

import "testing"

func TestStoreFetchIntRoundTrip(t *testing.T) {
	tests := []int32{0, 1, -1, 42, -42, 2147483647, -2147483648}
	for _, v := range tests {
		m := NewMemory(16)
		m.StoreInt(v, 0)
		if got := m.FetchInt(0); got != v {
			t.Errorf("StoreInt(%d) then FetchInt = %d, want %d", v, got, v)
		}
	}
}

func TestStoreIntNegativeOneBytes(t *testing.T) {
	m := NewMemory(4)
	m.StoreInt(-1, 0)
	want := []byte{0xFF, 0xFF, 0xFF, 0xFF}
	for i, b := range want {
		if m.bytes[i] != b {
			t.Errorf("byte %d = %#x, want %#x", i, m.bytes[i], b)
		}
	}
}

func TestStoreFetchByte(t *testing.T) {
	m := NewMemory(4)
	m.StoreByte('\n', 2)
	if got := m.FetchByte(2); got != '\n' {
		t.Errorf("FetchByte = %q, want %q", got, '\n')
	}
}

func TestStoreFetchInst(t *testing.T) {
	m := NewMemory(InstructionSize)
	m.StoreInst(0, OpADD, 1, 2)
	op, a1, a2 := m.FetchInst(0)
	if op != OpADD || a1 != 1 || a2 != 2 {
		t.Errorf("FetchInst = (%d,%d,%d), want (%d,1,2)", op, a1, a2, OpADD)
	}
}

func TestInBounds(t *testing.T) {
	m := NewMemory(10)
	if !m.InBounds(6, 4) {
		t.Error("expected 6..10 to be in bounds")
	}
	if m.InBounds(7, 4) {
		t.Error("expected 7..11 to be out of bounds")
	}
}
