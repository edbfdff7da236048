package asm

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"rvm16/isa"
)

// Lex tokenizes assembler source into a token stream terminated by an
// explicit Eof token. Source is line-oriented: a line whose first
// non-whitespace character is ';' is a comment and is discarded whole;
// otherwise the line is split on whitespace and each field is classified by
// its leading character.
func Lex(src []byte) ([]Token, error) {
	var tokens []Token
	lines := strings.Split(string(src), "\n")
	for i, raw := range lines {
		lineNo := i + 1
		line := strings.TrimSpace(raw)
		if line == "" || strings.HasPrefix(line, ";") {
			continue
		}
		for _, field := range strings.Fields(line) {
			tok, err := parseField(field, lineNo)
			if err != nil {
				return nil, errors.Wrapf(err, "line %d", lineNo)
			}
			tokens = append(tokens, tok)
		}
	}
	tokens = append(tokens, Token{Kind: TokEof, Line: len(lines) + 1})
	return tokens, nil
}

// parseField classifies one whitespace-delimited field. Dispatch is purely
// on the first character: '.' label, '%' register, '*' deref (recursing on
// the remainder), a digit numeric constant, anything else a keyword
// (pseudo-op or opcode mnemonic).
func parseField(field string, line int) (Token, error) {
	if field == "" {
		return Token{}, errors.New("empty token")
	}

	switch c := field[0]; {
	case c == '.':
		if len(field) < 2 {
			return Token{}, errors.New("empty label name")
		}
		return Token{Kind: TokLabel, Line: line, Name: field[1:]}, nil

	case c == '%':
		name := field[1:]
		r, ok := isa.ParseRegister(name)
		if !ok {
			return Token{}, errors.Errorf("unknown register %q", name)
		}
		return Token{Kind: TokReg, Line: line, Reg: r}, nil

	case c == '*':
		if len(field) < 2 {
			return Token{}, errors.New("empty deref operand")
		}
		inner, err := parseField(field[1:], line)
		if err != nil {
			return Token{}, err
		}
		return Token{Kind: TokDeref, Line: line, Inner: &inner}, nil

	case c >= '0' && c <= '9':
		v, err := parseNumber(field)
		if err != nil {
			return Token{}, err
		}
		return Token{Kind: TokConst, Line: line, Const: v}, nil

	default:
		upper := strings.ToUpper(field)
		if p, ok := pseudoByName[upper]; ok {
			return Token{Kind: TokPseudo, Line: line, Pseudo: p}, nil
		}
		op, ok := isa.ParseOpCode(field)
		if !ok {
			return Token{}, errors.Errorf("unknown mnemonic %q", field)
		}
		return Token{Kind: TokOpCode, Line: line, Op: op}, nil
	}
}

// parseNumber parses a numeric literal: bare decimal, or a 0x/0o/0b-prefixed
// hex/octal/binary literal. The lone "0" parses to 0. Overflow past u16 is
// an error.
func parseNumber(s string) (uint16, error) {
	base := 10
	digits := s
	if s != "0" && strings.HasPrefix(s, "0") && len(s) > 1 {
		switch s[1] {
		case 'x', 'X':
			base, digits = 16, s[2:]
		case 'o', 'O':
			base, digits = 8, s[2:]
		case 'b', 'B':
			base, digits = 2, s[2:]
		default:
			return 0, errors.Errorf("unknown numeric base in %q", s)
		}
	}
	v, err := strconv.ParseUint(digits, base, 16)
	if err != nil {
		return 0, errors.Wrapf(err, "malformed number %q", s)
	}
	return uint16(v), nil
}
