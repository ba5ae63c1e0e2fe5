package loaders

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spaghettifunk/meshview/engine/core"
	"github.com/spaghettifunk/meshview/engine/renderer/metadata"
)

func TestMeshLoaderDispatch(t *testing.T) {
	dir := t.TempDir()
	obj := filepath.Join(dir, "Quad.OBJ")
	require.NoError(t, os.WriteFile(obj, []byte(quadObj), 0o644))

	res, err := (&MeshLoader{}).Load(obj)
	require.NoError(t, err)
	assert.Equal(t, metadata.ResourceTypeMesh, res.Type)

	mesh := res.Data.(*metadata.MeshData)
	assert.Equal(t, uint64(4*metadata.VertexStride+6*4), res.DataSize)
	assert.Len(t, mesh.Indices, 6)

	_, err = (&MeshLoader{}).Load(filepath.Join(dir, "model.fbx"))
	assert.ErrorIs(t, err, core.ErrUnsupportedAsset)
}
