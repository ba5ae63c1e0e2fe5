package metadata

import "unsafe"

/**
 * @brief The GPU-ready output of the mesh loader. Immutable after upload.
 */
type MeshData struct {
	Vertices []Vertex
	Indices  []uint32
}

// VertexBytes views the vertex array as raw bytes without copying.
func (m *MeshData) VertexBytes() []byte {
	if len(m.Vertices) == 0 {
		return nil
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(&m.Vertices[0])), len(m.Vertices)*int(VertexStride))
}

// IndexBytes views the index array as raw bytes without copying.
func (m *MeshData) IndexBytes() []byte {
	if len(m.Indices) == 0 {
		return nil
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(&m.Indices[0])), len(m.Indices)*4)
}
