package objfile_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rvm16/asm"
	"rvm16/internal/objfile"
)

func TestWriteThenReadRoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prog.o")
	data := []byte{0x0D, 0x00, 0x00, 0x2A, 0x00}

	require.NoError(t, objfile.WriteObject(path, data))

	got, err := objfile.ReadObject(path)
	require.NoError(t, err)
	assert.Equal(t, data, got)
}

func TestReadMissingFileFails(t *testing.T) {
	_, err := objfile.ReadObject(filepath.Join(t.TempDir(), "missing.o"))
	assert.Error(t, err)
}

func TestWriteCreatesParentlessFileFresh(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.o")
	require.NoError(t, objfile.WriteObject(path, []byte{1, 2, 3}))
	require.NoError(t, objfile.WriteObject(path, []byte{9}))

	got, err := objfile.ReadObject(path)
	require.NoError(t, err)
	assert.Equal(t, []byte{9}, got)
}

func TestDebugSymbolsRoundTripThroughSidecar(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prog.o")
	sym := &asm.DebugSymbols{LineAt: map[int]int{0: 1, 3: 2}}

	require.NoError(t, objfile.WriteDebugSymbols(path, sym))

	got, err := objfile.ReadDebugSymbols(path)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, sym.LineAt, got.LineAt)
}

func TestReadDebugSymbolsMissingSidecarIsNotAnError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prog.o")
	got, err := objfile.ReadDebugSymbols(path)
	require.NoError(t, err)
	assert.Nil(t, got)
}
