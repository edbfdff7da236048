// Package objfile is the thin byte-level file I/O collaborator: it knows
// nothing about the object format beyond "it is bytes," which is exactly
// what spec.md places out of scope for the assembler/emulator core. It also
// persists the assembler's optional debug-symbol map as a JSON sidecar file,
// so the CLI's debug mode can recover source line numbers for an object file
// assembled in an earlier invocation.
package objfile

import (
	"encoding/json"
	"os"

	"github.com/pkg/errors"

	"rvm16/asm"
)

// WriteObject writes data to path, creating or truncating it.
func WriteObject(path string, data []byte) error {
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrapf(err, "write object %s", path)
	}
	return nil
}

// ReadObject reads the object file at path in full.
func ReadObject(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read object %s", path)
	}
	return data, nil
}

// symbolPath derives the sidecar debug-symbol path for an object file path.
func symbolPath(objPath string) string {
	return objPath + ".sym"
}

// WriteDebugSymbols persists sym as a JSON sidecar next to objPath. `rvm asm`
// calls this for every object it writes.
func WriteDebugSymbols(objPath string, sym *asm.DebugSymbols) error {
	data, err := json.Marshal(sym)
	if err != nil {
		return errors.Wrap(err, "marshal debug symbols")
	}
	path := symbolPath(objPath)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrapf(err, "write debug symbols %s", path)
	}
	return nil
}

// ReadDebugSymbols loads the sidecar debug-symbol file for objPath, if one
// exists. A missing sidecar (an object not written by `rvm asm`, or whose
// sidecar was deleted) is not an error — it returns (nil, nil).
func ReadDebugSymbols(objPath string) (*asm.DebugSymbols, error) {
	path := symbolPath(objPath)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrapf(err, "read debug symbols %s", path)
	}
	var sym asm.DebugSymbols
	if err := json.Unmarshal(data, &sym); err != nil {
		return nil, errors.Wrapf(err, "parse debug symbols %s", path)
	}
	return &sym, nil
}
