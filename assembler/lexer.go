package assembler

import (
	"fmt"
	"strconv"
	"strings"

	"regvm/encoder"
)

// OperandKind identifies which of the six operand shapes an instruction
// line matched.
type OperandKind int

const (
	OpCode OperandKind = iota
	OpReg
	OpLabelRef
	OpRegReg
	OpRegImm
	OpRegLabel
)

// DirectiveLine is a classified `[<label>] .<TYPE> <value>` source line.
// Type is upper-cased with the leading dot stripped; Value is the raw,
// untouched value token (a decimal literal or a quoted character literal),
// left for the caller to interpret since its meaning depends on Type.
type DirectiveLine struct {
	LineNo int
	Label  string
	Type   string
	Value  string
	Raw    string
}

// InstructionLine is a classified `[<label>] <MNEMONIC> <operands>` source
// line. Only the fields relevant to Kind are populated.
type InstructionLine struct {
	LineNo   int
	Label    string
	Mnemonic string
	Kind     OperandKind
	Reg1     int32
	Reg2     int32
	Imm      int32
	Code     int32
	LabelRef string
	Raw      string
}

// Classify strips comments and whitespace from raw and matches it against
// the directive or instruction shape. It returns (nil, nil, nil) for a
// blank or comment-only line. A line matching neither shape fails with
// UnknownInstruction.
func Classify(lineNo int, raw string) (*DirectiveLine, *InstructionLine, error) {
	stripped := strings.TrimSpace(stripComment(raw))
	if stripped == "" {
		return nil, nil, nil
	}

	word1, rest1 := splitFirstWord(stripped)

	if strings.HasPrefix(word1, ".") {
		return classifyDirective(lineNo, raw, "", word1, rest1)
	}
	if encoder.BaseMnemonics[strings.ToUpper(word1)] {
		return classifyInstruction(lineNo, raw, "", word1, rest1)
	}

	if !isAlnum(word1) {
		return nil, nil, &Error{Kind: ErrorUnknownInstruction, Line: lineNo, Text: stripped}
	}

	word2, rest2 := splitFirstWord(rest1)
	if strings.HasPrefix(word2, ".") {
		return classifyDirective(lineNo, raw, word1, word2, rest2)
	}
	if encoder.BaseMnemonics[strings.ToUpper(word2)] {
		return classifyInstruction(lineNo, raw, word1, word2, rest2)
	}

	return nil, nil, &Error{Kind: ErrorUnknownInstruction, Line: lineNo, Text: stripped}
}

func classifyDirective(lineNo int, raw, label, typeTok, valueRaw string) (*DirectiveLine, *InstructionLine, error) {
	value := strings.TrimSpace(valueRaw)
	if value == "" {
		return nil, nil, &Error{Kind: ErrorUnknownInstruction, Line: lineNo, Text: raw}
	}
	return &DirectiveLine{
		LineNo: lineNo,
		Label:  label,
		Type:   strings.ToUpper(strings.TrimPrefix(typeTok, ".")),
		Value:  value,
		Raw:    raw,
	}, nil, nil
}

func classifyInstruction(lineNo int, raw, label, mnemonicTok, operandsRaw string) (*DirectiveLine, *InstructionLine, error) {
	mnemonic := strings.ToUpper(mnemonicTok)
	tokens := strings.Fields(operandsRaw)

	inst := &InstructionLine{
		LineNo:   lineNo,
		Label:    label,
		Mnemonic: mnemonic,
		Raw:      raw,
	}

	switch len(tokens) {
	case 1:
		tok := tokens[0]
		switch {
		case isBareCode(tok):
			code, err := strconv.ParseInt(tok, 10, 32)
			if err != nil {
				return nil, nil, &Error{Kind: ErrorUnknownInstruction, Line: lineNo, Text: raw}
			}
			inst.Kind = OpCode
			inst.Code = int32(code)
		case isRegisterToken(tok):
			reg, _ := encoder.RegisterIndex(tok)
			inst.Kind = OpReg
			inst.Reg1 = reg
		case isLabelToken(tok):
			inst.Kind = OpLabelRef
			inst.LabelRef = tok
		default:
			return nil, nil, &Error{Kind: ErrorUnknownInstruction, Line: lineNo, Text: raw}
		}
	case 2:
		tok0, tok1 := tokens[0], tokens[1]
		if !isRegisterToken(tok0) {
			return nil, nil, &Error{Kind: ErrorUnknownInstruction, Line: lineNo, Text: raw}
		}
		reg1, _ := encoder.RegisterIndex(tok0)
		inst.Reg1 = reg1
		switch {
		case isRegisterToken(tok1):
			reg2, _ := encoder.RegisterIndex(tok1)
			inst.Kind = OpRegReg
			inst.Reg2 = reg2
		case strings.HasPrefix(tok1, "#"):
			imm, err := strconv.ParseInt(tok1[1:], 10, 32)
			if err != nil {
				return nil, nil, &Error{Kind: ErrorUnknownInstruction, Line: lineNo, Text: raw}
			}
			inst.Kind = OpRegImm
			inst.Imm = int32(imm)
		case isLabelToken(tok1):
			inst.Kind = OpRegLabel
			inst.LabelRef = tok1
		default:
			return nil, nil, &Error{Kind: ErrorUnknownInstruction, Line: lineNo, Text: raw}
		}
	default:
		return nil, nil, &Error{Kind: ErrorUnknownInstruction, Line: lineNo, Text: raw}
	}

	return nil, inst, nil
}

// stripComment removes a trailing `;...` comment, treating `;` inside a
// single-quoted character literal as ordinary text (so `.BYT ';'` keeps
// its value intact).
func stripComment(s string) string {
	inQuote := false
	for i, r := range s {
		if r == '\'' {
			inQuote = !inQuote
			continue
		}
		if r == ';' && !inQuote {
			return s[:i]
		}
	}
	return s
}

// splitFirstWord splits s on the first run of whitespace, returning the
// leading word and the (left-trimmed) remainder. s must already be
// left-trimmed.
func splitFirstWord(s string) (word, rest string) {
	i := strings.IndexAny(s, " \t")
	if i < 0 {
		return s, ""
	}
	return s[:i], strings.TrimSpace(s[i+1:])
}

func isBareCode(tok string) bool {
	if tok == "" {
		return false
	}
	for _, r := range tok {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func isRegisterToken(tok string) bool {
	_, ok := encoder.RegisterIndex(tok)
	return ok
}

func isAlnum(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !(r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9') {
			return false
		}
	}
	return true
}

func isLabelToken(tok string) bool {
	return len(tok) >= 2 && isAlnum(tok)
}

// ParseDirectiveValue interprets a directive's value token: a signed
// decimal integer, or a character literal ('x', '\n', '\t', '\0').
func ParseDirectiveValue(tok string) (int32, error) {
	if len(tok) >= 2 && tok[0] == '\'' && tok[len(tok)-1] == '\'' {
		inner := tok[1 : len(tok)-1]
		switch inner {
		case `\n`:
			return '\n', nil
		case `\t`:
			return '\t', nil
		case `\0`:
			return 0, nil
		default:
			if len(inner) == 1 {
				return int32(inner[0]), nil
			}
			return 0, fmt.Errorf("malformed character literal %q", tok)
		}
	}
	v, err := strconv.ParseInt(tok, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("malformed value %q: %w", tok, err)
	}
	return int32(v), nil
}
