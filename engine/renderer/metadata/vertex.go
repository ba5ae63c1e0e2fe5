package metadata

import (
	"unsafe"

	"github.com/go-gl/mathgl/mgl32"
)

/**
 * @brief A single mesh vertex as laid out in the vertex buffer.
 * Vertex is comparable; two vertices are the same when every
 * component compares equal (so -0 matches +0 and a NaN matches nothing).
 */
type Vertex struct {
	/** @brief Object space position. */
	Pos mgl32.Vec3
	/** @brief Per-vertex color. */
	Color mgl32.Vec3
	/** @brief Texture coordinate (u, v). */
	TexCoord mgl32.Vec2
}

// VertexStride is the size in bytes of one Vertex.
const VertexStride = uint32(unsafe.Sizeof(Vertex{}))

// Attribute byte offsets inside Vertex.
var (
	VertexPosOffset      = uint32(unsafe.Offsetof(Vertex{}.Pos))
	VertexColorOffset    = uint32(unsafe.Offsetof(Vertex{}.Color))
	VertexTexCoordOffset = uint32(unsafe.Offsetof(Vertex{}.TexCoord))
)

// NeutralColor is assigned to every imported vertex.
var NeutralColor = mgl32.Vec3{1, 1, 1}
