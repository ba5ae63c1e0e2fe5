package loaders

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spaghettifunk/meshview/engine/core"
	"github.com/spaghettifunk/meshview/engine/renderer/metadata"
)

func vtx(x, y, z, u, v float32) metadata.Vertex {
	return metadata.Vertex{
		Pos:      mgl32.Vec3{x, y, z},
		Color:    metadata.NeutralColor,
		TexCoord: mgl32.Vec2{u, v},
	}
}

func TestMeshBuilderSharedCorners(t *testing.T) {
	a := vtx(0, 0, 0, 0, 0)
	b := vtx(1, 0, 0, 1, 0)
	c := vtx(1, 1, 0, 1, 1)
	d := vtx(0, 1, 0, 0, 1)

	mb := NewMeshBuilder()
	mb.AddTriangle(a, b, c)
	mb.AddTriangle(a, c, d)

	mesh, err := mb.Build()
	require.NoError(t, err)
	assert.Len(t, mesh.Vertices, 4)
	assert.Equal(t, []uint32{0, 1, 2, 0, 2, 3}, mesh.Indices)
}

func TestMeshBuilderDistinctTexCoords(t *testing.T) {
	mb := NewMeshBuilder()
	mb.AddTriangle(vtx(0, 0, 0, 0, 0), vtx(1, 0, 0, 1, 0), vtx(1, 1, 0, 1, 1))
	// same position, different uv: not merged
	mb.AddTriangle(vtx(0, 0, 0, 0.5, 0), vtx(1, 0, 0, 1, 0), vtx(1, 1, 0, 1, 1))

	mesh, err := mb.Build()
	require.NoError(t, err)
	assert.Len(t, mesh.Vertices, 4)
	assert.Equal(t, []uint32{0, 1, 2, 3, 1, 2}, mesh.Indices)
}

func TestMeshBuilderIndicesInRange(t *testing.T) {
	mb := NewMeshBuilder()
	for i := 0; i < 50; i++ {
		f := float32(i % 7)
		mb.AddTriangle(vtx(f, 0, 0, 0, 0), vtx(f, 1, 0, 0, 1), vtx(f, 1, 1, 1, 1))
	}
	mesh, err := mb.Build()
	require.NoError(t, err)
	assert.Equal(t, 150, len(mesh.Indices))
	assert.Equal(t, 21, len(mesh.Vertices))
	for _, idx := range mesh.Indices {
		assert.Less(t, int(idx), len(mesh.Vertices))
	}
}

func TestMeshBuilderEmpty(t *testing.T) {
	_, err := NewMeshBuilder().Build()
	assert.ErrorIs(t, err, core.ErrEmptyMesh)
}

func TestMeshBuilderSignedZeroIsOneVertex(t *testing.T) {
	negZero := float32(math.Copysign(0, -1))

	mb := NewMeshBuilder()
	first := mb.AddVertex(vtx(0, 0, 0, 0, 0))
	second := mb.AddVertex(vtx(negZero, 0, negZero, 0, negZero))
	assert.Equal(t, first, second)
	assert.Equal(t, 1, mb.VertexCount())
}
