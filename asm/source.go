package asm

import (
	"os"

	"github.com/pkg/errors"
)

// AssembleSource lexes and assembles an in-memory source buffer, returning
// the finished object bytes.
func AssembleSource(src []byte) ([]byte, error) {
	tokens, err := Lex(src)
	if err != nil {
		return nil, errors.Wrap(err, "lex")
	}
	out, err := Assemble(tokens)
	if err != nil {
		return nil, errors.Wrap(err, "assemble")
	}
	return out, nil
}

// AssembleFile reads path and assembles it. Reading the source file is the
// plain byte I/O collaborator the core assembler does not otherwise concern
// itself with.
func AssembleFile(path string) ([]byte, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read %s", path)
	}
	return AssembleSource(src)
}

// AssembleFileWithDebugInfo is AssembleFile plus the source-line-per-offset
// map, for callers (the CLI's debug mode) that want to persist debug symbols
// alongside the object.
func AssembleFileWithDebugInfo(path string) ([]byte, *DebugSymbols, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "read %s", path)
	}
	tokens, err := Lex(src)
	if err != nil {
		return nil, nil, errors.Wrap(err, "lex")
	}
	out, sym, err := AssembleWithDebugInfo(tokens)
	if err != nil {
		return nil, nil, errors.Wrap(err, "assemble")
	}
	return out, sym, nil
}
