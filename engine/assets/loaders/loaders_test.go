package loaders

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spaghettifunk/facet/engine/core"
	"github.com/spaghettifunk/facet/engine/renderer/metadata"
	"github.com/spaghettifunk/facet/engine/shaders"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShaderLoader(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "basic.wgsl")
	bad := filepath.Join(dir, "bad.wgsl")
	require.NoError(t, os.WriteFile(good, []byte(shaders.Source()), 0o644))
	require.NoError(t, os.WriteFile(bad, []byte("@vertex fn nope() {}"), 0o644))

	l := &ShaderLoader{}
	res, err := l.Load(good)
	require.NoError(t, err)
	assert.Equal(t, metadata.ResourceTypeShader, res.Type)
	assert.Equal(t, uint64(len(shaders.Source())), res.DataSize)

	_, err = l.Load(bad)
	assert.ErrorIs(t, err, core.ErrShaderValidation)

	_, err = l.Load(filepath.Join(dir, "missing.wgsl"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestBinaryLoader(t *testing.T) {
	spv, err := shaders.CompileSPIRV(shaders.Source())
	require.NoError(t, err)

	dir := t.TempDir()
	path := filepath.Join(dir, "basic.spv")
	require.NoError(t, os.WriteFile(path, spv, 0o644))

	l := &BinaryLoader{}
	res, err := l.Load(path)
	require.NoError(t, err)
	words, ok := res.Words()
	require.True(t, ok)
	assert.Len(t, words, len(spv)/4)
	assert.Equal(t, metadata.SPIRVMagic, words[0])

	truncated := filepath.Join(dir, "truncated.spv")
	require.NoError(t, os.WriteFile(truncated, spv[:5], 0o644))
	_, err = l.Load(truncated)
	assert.Error(t, err)

	wrongMagic := filepath.Join(dir, "wrong.spv")
	require.NoError(t, os.WriteFile(wrongMagic, []byte{1, 2, 3, 4}, 0o644))
	_, err = l.Load(wrongMagic)
	assert.Error(t, err)
}

func TestSPIRVWordsLittleEndian(t *testing.T) {
	words, err := spirvWords([]byte{3, 2, 0x23, 7, 0, 0, 1, 0})
	require.NoError(t, err)
	assert.Equal(t, []uint32{0x07230203, 0x00010000}, words)

	_, err = spirvWords(nil)
	assert.Error(t, err)
}
