package loaders

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spaghettifunk/meshview/engine/core"
)

func TestBytesToBytecode(t *testing.T) {
	// SPIR-V magic number followed by one more word
	code, err := bytesToBytecode([]byte{0x03, 0x02, 0x23, 0x07, 0x00, 0x00, 0x01, 0x00})
	require.NoError(t, err)
	assert.Equal(t, []uint32{0x07230203, 0x00010000}, code)
}

func TestBytesToBytecodeInvalid(t *testing.T) {
	for _, size := range []int{0, 1, 6, 11} {
		_, err := bytesToBytecode(make([]byte, size))
		assert.ErrorIs(t, err, core.ErrInvalidBytecode, "size %d", size)
	}
}

func TestShaderLoaderLoad(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "vert.spv")
	bad := filepath.Join(dir, "frag.spv")
	require.NoError(t, os.WriteFile(good, make([]byte, 20), 0o644))
	require.NoError(t, os.WriteFile(bad, make([]byte, 21), 0o644))

	res, err := (&ShaderLoader{}).Load(good)
	require.NoError(t, err)
	assert.Len(t, res.Data.([]uint32), 5)
	assert.Equal(t, uint64(20), res.DataSize)

	_, err = (&ShaderLoader{}).Load(bad)
	assert.ErrorIs(t, err, core.ErrInvalidBytecode)

	_, err = (&ShaderLoader{}).Load(filepath.Join(dir, "missing.spv"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
