package asm

import "rvm16/isa"

// TokenKind classifies a Token. Declaration-vs-reference for a label is
// disambiguated by position in the stream, not by kind: a Label token at a
// statement head is a declaration, the same token consumed as an operand is
// a reference.
type TokenKind int

const (
	TokLabel TokenKind = iota
	TokReg
	TokConst
	TokOpCode
	TokPseudo
	TokDeref
	TokEof
)

// PseudoOp is one of the non-opcode source directives that emit raw bytes.
type PseudoOp int

const (
	DB PseudoOp = iota
	DW
	DN
)

func (p PseudoOp) String() string {
	switch p {
	case DB:
		return "DB"
	case DW:
		return "DW"
	case DN:
		return "DN"
	default:
		return "?"
	}
}

var pseudoByName = map[string]PseudoOp{
	"DB": DB,
	"DW": DW,
	"DN": DN,
}

// Token is one lexical unit of assembler source. Only the fields relevant to
// Kind are populated; Inner holds the operand of a Deref token.
type Token struct {
	Kind   TokenKind
	Line   int
	Name   string
	Reg    isa.Register
	Const  uint16
	Op     isa.OpCode
	Pseudo PseudoOp
	Inner  *Token
}
