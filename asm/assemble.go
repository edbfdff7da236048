package asm

import (
	"github.com/pkg/errors"

	"rvm16/isa"
)

// DebugSymbols maps a code offset to the source line that produced the byte
// at that offset. It is a supplemental output for the interactive
// inspector, not required to assemble or run a program.
type DebugSymbols struct {
	LineAt map[int]int
}

// fixup is a deferred patch site: the two-byte Const or Deref payload at
// offset must be overwritten with the resolved code offset of the label name
// once phase one has seen every label declaration.
type fixup struct {
	offset int
	name   string
	line   int
}

// Assemble runs phase one (stream tokens, emit bytes, record label
// declarations and fixups) followed by phase two (patch every fixup now
// that the label table is complete), returning the finished object bytes.
func Assemble(tokens []Token) ([]byte, error) {
	out, _, err := assemble(tokens)
	return out, err
}

// AssembleWithDebugInfo is Assemble plus a source-line-per-offset map for
// the interactive inspector.
func AssembleWithDebugInfo(tokens []Token) ([]byte, *DebugSymbols, error) {
	return assemble(tokens)
}

func assemble(tokens []Token) ([]byte, *DebugSymbols, error) {
	labels := make(map[string]int)
	sym := &DebugSymbols{LineAt: make(map[int]int)}
	var out []byte
	var fixups []fixup

	i := 0
	next := func() (Token, bool) {
		if i >= len(tokens) {
			return Token{}, false
		}
		t := tokens[i]
		i++
		return t, true
	}

tokenLoop:
	for i < len(tokens) {
		startLen := len(out)
		tok := tokens[i]
		i++

		switch tok.Kind {
		case TokEof:
			break tokenLoop

		case TokLabel:
			if _, exists := labels[tok.Name]; exists {
				return nil, nil, errors.Errorf("line %d: label already declared %q", tok.Line, tok.Name)
			}
			labels[tok.Name] = len(out)

		case TokOpCode:
			out = append(out, byte(tok.Op))
			arity := tok.Op.Arity()
			allowDeref := true
			for idx := 0; idx < arity; idx++ {
				operand, ok := next()
				if !ok || operand.Kind == TokEof {
					return nil, nil, errors.Errorf("line %d: %s: missing operand %d", tok.Line, tok.Op, idx+1)
				}
				nextAllowDeref, err := emitOperand(&out, labels, &fixups, operand, tok.Op.AllowConst(idx), allowDeref)
				if err != nil {
					return nil, nil, errors.Wrapf(err, "line %d: %s", tok.Line, tok.Op)
				}
				allowDeref = nextAllowDeref
			}

		case TokPseudo:
			if err := emitPseudo(&out, tok, next); err != nil {
				return nil, nil, errors.Wrapf(err, "line %d: %s", tok.Line, tok.Pseudo)
			}

		default:
			return nil, nil, errors.Errorf("line %d: expected label/opcode/pseudo, found %v", tok.Line, tok.Kind)
		}

		for off := startLen; off < len(out); off++ {
			sym.LineAt[off] = tok.Line
		}
	}

	for _, fx := range fixups {
		offset, ok := labels[fx.name]
		if !ok {
			return nil, nil, errors.Errorf("line %d: unknown label %q", fx.line, fx.name)
		}
		out[fx.offset] = byte(offset)
		out[fx.offset+1] = byte(offset >> 8)
	}

	return out, sym, nil
}

// emitOperand appends the bytes for one operand token and returns whether a
// deref operand is still permitted among the remaining operands of this
// instruction (false once one Deref has been emitted, enforcing "at most
// one memory operand").
func emitOperand(out *[]byte, labels map[string]int, fixups *[]fixup, tok Token, allowConst, allowDeref bool) (bool, error) {
	switch tok.Kind {
	case TokReg:
		*out = append(*out, byte(isa.Reg), byte(tok.Reg))
		return true, nil

	case TokConst:
		if !allowConst {
			return false, errors.New("destination cannot be a constant")
		}
		*out = append(*out, byte(isa.Const), byte(tok.Const), byte(tok.Const>>8))
		return true, nil

	case TokLabel:
		if !allowConst {
			return false, errors.New("destination cannot be a label")
		}
		*out = append(*out, byte(isa.Const))
		recordFixup(out, fixups, tok)
		return true, nil

	case TokDeref:
		if !allowDeref {
			return false, errors.New("cannot have two memory operands")
		}
		return emitDeref(out, labels, fixups, tok)

	default:
		return false, errors.Errorf("expected register/const/label/deref operand, found %v", tok.Kind)
	}
}

func emitDeref(out *[]byte, labels map[string]int, fixups *[]fixup, tok Token) (bool, error) {
	inner := tok.Inner
	if inner == nil {
		return false, errors.New("empty deref operand")
	}
	switch inner.Kind {
	case TokReg:
		*out = append(*out, byte(isa.DerefReg), byte(inner.Reg))
	case TokConst:
		*out = append(*out, byte(isa.Deref), byte(inner.Const), byte(inner.Const>>8))
	case TokLabel:
		*out = append(*out, byte(isa.Deref))
		recordFixup(out, fixups, *inner)
	default:
		return false, errors.Errorf("expected register/const/label inside deref, found %v", inner.Kind)
	}
	return false, nil
}

// recordFixup appends a two-byte 00 00 placeholder and records its offset
// for the fixup pass.
func recordFixup(out *[]byte, fixups *[]fixup, labelTok Token) {
	*fixups = append(*fixups, fixup{offset: len(*out), name: labelTok.Name, line: labelTok.Line})
	*out = append(*out, 0, 0)
}

// emitPseudo handles DB/DW/DN, each of which consumes one or two following
// Const tokens and writes raw bytes with no mode tag.
func emitPseudo(out *[]byte, tok Token, next func() (Token, bool)) error {
	constOperand := func() (uint16, error) {
		t, ok := next()
		if !ok || t.Kind != TokConst {
			return 0, errors.New("expected a constant operand")
		}
		return t.Const, nil
	}

	switch tok.Pseudo {
	case DB:
		c, err := constOperand()
		if err != nil {
			return err
		}
		*out = append(*out, byte(c))

	case DW:
		c, err := constOperand()
		if err != nil {
			return err
		}
		*out = append(*out, byte(c), byte(c>>8))

	case DN:
		c, err := constOperand()
		if err != nil {
			return err
		}
		n, err := constOperand()
		if err != nil {
			return err
		}
		for k := uint16(0); k < n; k++ {
			*out = append(*out, byte(c))
		}
	}
	return nil
}
