package loaders

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spaghettifunk/meshview/engine/core"
)

const quadObj = `# unit quad
o quad
v 0 0 0
v 1 0 0
v 1 1 0
v 0 1 0
vt 0 0
vt 1 0
vt 1 1
vt 0 0.25
vn 0 0 1
f 1/1/1 2/2/1 3/3/1 4/4/1
`

func TestParseObjQuad(t *testing.T) {
	mesh, err := ParseObj(strings.NewReader(quadObj))
	require.NoError(t, err)

	assert.Len(t, mesh.Vertices, 4)
	assert.Equal(t, []uint32{0, 1, 2, 0, 2, 3}, mesh.Indices)

	// V is flipped
	assert.Equal(t, mgl32.Vec2{0, 1}, mesh.Vertices[0].TexCoord)
	assert.Equal(t, mgl32.Vec2{1, 0}, mesh.Vertices[2].TexCoord)
	assert.Equal(t, mgl32.Vec2{0, 0.75}, mesh.Vertices[3].TexCoord)
	for _, v := range mesh.Vertices {
		assert.Equal(t, mgl32.Vec3{1, 1, 1}, v.Color)
	}
}

func TestParseObjCornerForms(t *testing.T) {
	tests := []struct {
		name  string
		input string
		verts int
		idx   []uint32
	}{
		{
			name:  "position only",
			input: "v 0 0 0\nv 1 0 0\nv 0 1 0\nf 1 2 3\n",
			verts: 3,
			idx:   []uint32{0, 1, 2},
		},
		{
			name:  "position and normal",
			input: "v 0 0 0\nv 1 0 0\nv 0 1 0\nvn 0 0 1\nf 1//1 2//1 3//1\n",
			verts: 3,
			idx:   []uint32{0, 1, 2},
		},
		{
			name:  "negative indices",
			input: "v 0 0 0\nv 1 0 0\nv 0 1 0\nvt 0 0\nf -3/-1 -2/-1 -1/-1\n",
			verts: 3,
			idx:   []uint32{0, 1, 2},
		},
		{
			name:  "pentagon fan",
			input: "v 0 0 0\nv 1 0 0\nv 2 1 0\nv 1 2 0\nv 0 1 0\nf 1 2 3 4 5\n",
			verts: 5,
			idx:   []uint32{0, 1, 2, 0, 2, 3, 0, 3, 4},
		},
		{
			name:  "groups share vertices",
			input: "v 0 0 0\nv 1 0 0\nv 0 1 0\nv 1 1 0\ng a\nf 1 2 3\ng b\nf 2 4 3\n",
			verts: 4,
			idx:   []uint32{0, 1, 2, 1, 3, 2},
		},
		{
			name:  "degenerate face skipped",
			input: "v 0 0 0\nv 1 0 0\nv 0 1 0\nf 1 2\nf 1 2 3\n",
			verts: 3,
			idx:   []uint32{0, 1, 2},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mesh, err := ParseObj(strings.NewReader(tt.input))
			require.NoError(t, err)
			assert.Len(t, mesh.Vertices, tt.verts)
			assert.Equal(t, tt.idx, mesh.Indices)
		})
	}
}

func TestParseObjMissingUV(t *testing.T) {
	mesh, err := ParseObj(strings.NewReader("v 0 0 0\nv 1 0 0\nv 0 1 0\nf 1 2 3\n"))
	require.NoError(t, err)
	for _, v := range mesh.Vertices {
		assert.Equal(t, mgl32.Vec2{0, 0}, v.TexCoord)
	}
}

func TestParseObjErrors(t *testing.T) {
	_, err := ParseObj(strings.NewReader("v 0 0 0\nv 1 0 0\n"))
	assert.ErrorIs(t, err, core.ErrEmptyMesh)

	_, err = ParseObj(strings.NewReader("v 0 0 0\nf 1 2 3\n"))
	assert.ErrorIs(t, err, core.ErrDecodeFailed)

	_, err = ParseObj(strings.NewReader("v 0 zero 0\n"))
	assert.ErrorIs(t, err, core.ErrDecodeFailed)
}

func TestLoadObjFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "quad.obj")
	require.NoError(t, os.WriteFile(path, []byte(quadObj), 0o644))

	mesh, err := LoadObj(path)
	require.NoError(t, err)
	assert.Len(t, mesh.Indices, 6)

	_, err = LoadObj(filepath.Join(t.TempDir(), "missing.obj"))
	assert.Error(t, err)
}
