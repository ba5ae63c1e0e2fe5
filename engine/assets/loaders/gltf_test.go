package loaders

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spaghettifunk/meshview/engine/core"
)

func quadDocument(indexed bool) *gltf.Document {
	doc := gltf.NewDocument()
	positions := [][3]float32{{0, 0, 0}, {1, 0, 0}, {1, 1, 0}, {0, 1, 0}}
	uvs := [][2]float32{{0, 0}, {1, 0}, {1, 1}, {0, 1}}

	prim := &gltf.Primitive{
		Attributes: map[string]int{
			gltf.POSITION:   modeler.WritePosition(doc, positions),
			gltf.TEXCOORD_0: modeler.WriteTextureCoord(doc, uvs),
		},
	}
	if indexed {
		prim.Indices = gltf.Index(modeler.WriteIndices(doc, []uint16{0, 1, 2, 0, 2, 3}))
	}
	doc.Meshes = []*gltf.Mesh{{Name: "quad", Primitives: []*gltf.Primitive{prim}}}
	return doc
}

func TestBuildGLTFIndexed(t *testing.T) {
	mesh, err := buildGLTF(quadDocument(true))
	require.NoError(t, err)

	assert.Len(t, mesh.Vertices, 4)
	assert.Equal(t, []uint32{0, 1, 2, 0, 2, 3}, mesh.Indices)
	// no V flip for glTF
	assert.Equal(t, mgl32.Vec2{0, 1}, mesh.Vertices[3].TexCoord)
	assert.Equal(t, mgl32.Vec3{1, 1, 1}, mesh.Vertices[0].Color)
}

func TestBuildGLTFNonIndexed(t *testing.T) {
	mesh, err := buildGLTF(quadDocument(false))
	require.NoError(t, err)

	// four positions without indices form a single triangle
	assert.Len(t, mesh.Vertices, 3)
	assert.Equal(t, []uint32{0, 1, 2}, mesh.Indices)
}

func TestBuildGLTFSkipsNonTriangles(t *testing.T) {
	doc := quadDocument(true)
	doc.Meshes[0].Primitives[0].Mode = gltf.PrimitiveLines

	_, err := buildGLTF(doc)
	assert.ErrorIs(t, err, core.ErrEmptyMesh)
}
