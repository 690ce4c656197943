package encoder

import "testing"

func TestRegisterIndexSpecialNames(t *testing.T) {
	tests := map[string]int32{"pc": 10, "SP": 11, "st": 12, "SB": 13, "fp": 14}
	for name, want := range tests {
		got, ok := RegisterIndex(name)
		if !ok || got != want {
			t.Errorf("RegisterIndex(%q) = (%d,%v), want (%d,true)", name, got, ok, want)
		}
	}
}

func TestRegisterIndexNumeric(t *testing.T) {
	tests := map[string]int32{"r0": 0, "R5": 5, "r14": 14}
	for name, want := range tests {
		got, ok := RegisterIndex(name)
		if !ok || got != want {
			t.Errorf("RegisterIndex(%q) = (%d,%v), want (%d,true)", name, got, ok, want)
		}
	}
}

func TestRegisterIndexInvalid(t *testing.T) {
	for _, name := range []string{"r15", "rX", "foo", "r"} {
		if _, ok := RegisterIndex(name); ok {
			t.Errorf("RegisterIndex(%q) unexpectedly valid", name)
		}
	}
}

func TestPromoteIndirect(t *testing.T) {
	tests := map[string]string{"LDR": "LDRI", "STR": "STRI", "LDB": "LDBI", "STB": "STBI"}
	for in, want := range tests {
		if got := PromoteIndirect(in); got != want {
			t.Errorf("PromoteIndirect(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestReservedIncludesMnemonicsAndRegisters(t *testing.T) {
	r := Reserved()
	for _, name := range []string{"TRP", "ADD", "r0", "R14", "pc", "sb"} {
		if !r[name] {
			t.Errorf("Reserved()[%q] = false, want true", name)
		}
	}
	if r["main"] {
		t.Error(`Reserved()["main"] = true, want false`)
	}
}
