package metadata

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func TestVertexLayout(t *testing.T) {
	assert.Equal(t, uint32(32), VertexStride)
	assert.Equal(t, uint32(0), VertexPosOffset)
	assert.Equal(t, uint32(12), VertexColorOffset)
	assert.Equal(t, uint32(24), VertexTexCoordOffset)
}

func TestUniformBufferObject(t *testing.T) {
	assert.Equal(t, uint64(3*64), UniformBufferObjectSize)

	ubo := NewUniformBufferObject(0, 800, 600)
	assert.True(t, ubo.Model.ApproxEqual(mgl32.Ident4()))

	ref := mgl32.Perspective(mgl32.DegToRad(45), 800.0/600.0, 0.1, 10)
	assert.InDelta(t, -ref.At(1, 1), ubo.Proj.At(1, 1), 1e-6)
	assert.InDelta(t, ref.At(0, 0), ubo.Proj.At(0, 0), 1e-6)

	// After 1.5s the model has turned 90 degrees: X maps onto Y.
	ubo = NewUniformBufferObject(1.5, 800, 600)
	x := ubo.Model.Mul4x1(mgl32.Vec4{1, 0, 0, 1})
	assert.InDelta(t, 0, x.X(), 1e-5)
	assert.InDelta(t, 1, x.Y(), 1e-5)

	assert.Len(t, ubo.Bytes(), int(UniformBufferObjectSize))
}

func TestMeshDataBytes(t *testing.T) {
	m := &MeshData{
		Vertices: []Vertex{{Pos: mgl32.Vec3{1, 2, 3}}, {}},
		Indices:  []uint32{0, 1, 1},
	}
	assert.Len(t, m.VertexBytes(), 64)
	assert.Len(t, m.IndexBytes(), 12)
	assert.Nil(t, (&MeshData{}).VertexBytes())
}
