package loaders

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"github.com/spaghettifunk/meshview/engine/core"
	"github.com/spaghettifunk/meshview/engine/renderer/metadata"
)

// LoadGLTF merges every triangle primitive of a .gltf or .glb file into
// one mesh. Node transforms are not applied.
func LoadGLTF(path string) (*metadata.MeshData, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("gltf open %q: %w: %s", path, core.ErrDecodeFailed, err)
	}
	return buildGLTF(doc)
}

func buildGLTF(doc *gltf.Document) (*metadata.MeshData, error) {
	mb := NewMeshBuilder()
	for mi, m := range doc.Meshes {
		for pi, prim := range m.Primitives {
			if prim.Mode != gltf.PrimitiveTriangles {
				core.LogWarn("gltf: mesh %d primitive %d: skipping non-triangle mode %d", mi, pi, prim.Mode)
				continue
			}
			if err := addGLTFPrimitive(doc, prim, mb); err != nil {
				return nil, fmt.Errorf("gltf: mesh %d primitive %d: %w", mi, pi, err)
			}
		}
	}
	return mb.Build()
}

func addGLTFPrimitive(doc *gltf.Document, prim *gltf.Primitive, mb *MeshBuilder) error {
	posIdx, ok := prim.Attributes[gltf.POSITION]
	if !ok {
		return fmt.Errorf("%w: no POSITION attribute", core.ErrDecodeFailed)
	}
	positions, err := modeler.ReadPosition(doc, doc.Accessors[posIdx], nil)
	if err != nil {
		return fmt.Errorf("positions: %w", err)
	}

	var uvs [][2]float32
	if idx, ok := prim.Attributes[gltf.TEXCOORD_0]; ok {
		uvs, err = modeler.ReadTextureCoord(doc, doc.Accessors[idx], nil)
		if err != nil {
			return fmt.Errorf("texcoords: %w", err)
		}
	}

	var indices []uint32
	if prim.Indices != nil {
		indices, err = modeler.ReadIndices(doc, doc.Accessors[*prim.Indices], nil)
		if err != nil {
			return fmt.Errorf("indices: %w", err)
		}
	} else {
		indices = make([]uint32, len(positions))
		for i := range indices {
			indices[i] = uint32(i)
		}
	}

	// trailing indices that do not close a triangle are dropped
	for i := 0; i+2 < len(indices); i += 3 {
		for _, idx := range indices[i : i+3] {
			if int(idx) >= len(positions) {
				return fmt.Errorf("%w: index %d out of range (have %d)", core.ErrDecodeFailed, idx, len(positions))
			}
			v := metadata.Vertex{
				Pos:   mgl32.Vec3(positions[idx]),
				Color: metadata.NeutralColor,
			}
			if int(idx) < len(uvs) {
				v.TexCoord = mgl32.Vec2(uvs[idx])
			}
			mb.AddVertex(v)
		}
	}
	return nil
}
