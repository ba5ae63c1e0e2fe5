package loaders

import (
	"github.com/spaghettifunk/meshview/engine/core"
	"github.com/spaghettifunk/meshview/engine/renderer/metadata"
)

// MeshBuilder accumulates triangles and collapses identical vertices
// into a single index.
type MeshBuilder struct {
	vertices []metadata.Vertex
	indices  []uint32
	unique   map[metadata.Vertex]uint32
}

func NewMeshBuilder() *MeshBuilder {
	return &MeshBuilder{
		unique: make(map[metadata.Vertex]uint32),
	}
}

// AddVertex appends v to the index list, reusing the index of an
// earlier identical vertex when there is one.
func (mb *MeshBuilder) AddVertex(v metadata.Vertex) uint32 {
	idx, ok := mb.unique[v]
	if !ok {
		idx = uint32(len(mb.vertices))
		mb.unique[v] = idx
		mb.vertices = append(mb.vertices, v)
	}
	mb.indices = append(mb.indices, idx)
	return idx
}

func (mb *MeshBuilder) AddTriangle(a, b, c metadata.Vertex) {
	mb.AddVertex(a)
	mb.AddVertex(b)
	mb.AddVertex(c)
}

func (mb *MeshBuilder) VertexCount() int { return len(mb.vertices) }

func (mb *MeshBuilder) IndexCount() int { return len(mb.indices) }

// Build returns the accumulated mesh. A builder with no triangles
// produces core.ErrEmptyMesh.
func (mb *MeshBuilder) Build() (*metadata.MeshData, error) {
	if len(mb.indices) == 0 {
		return nil, core.ErrEmptyMesh
	}
	return &metadata.MeshData{
		Vertices: mb.vertices,
		Indices:  mb.indices,
	}, nil
}
