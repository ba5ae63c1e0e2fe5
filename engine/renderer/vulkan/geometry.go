package vulkan

import (
	vk "github.com/goki/vulkan"
	"github.com/spaghettifunk/meshview/engine/core"
	"github.com/spaghettifunk/meshview/engine/renderer/metadata"
)

/**
 * @brief Device local vertex and index buffers of the loaded mesh.
 * They do not depend on the swapchain and live until shutdown.
 */
type VulkanGeometry struct {
	/** @brief Vertex buffer, one metadata.Vertex per element. */
	VertexBuffer *VulkanBuffer
	/** @brief Index buffer of uint32 indices. */
	IndexBuffer *VulkanBuffer
	/** @brief The vertex count. */
	VertexCount uint32
	/** @brief The index count, used by the draw call. */
	IndexCount uint32
}

// GeometryUpload copies mesh into device local memory through staging
// buffers.
func GeometryUpload(context *VulkanContext, mesh *metadata.MeshData) (*VulkanGeometry, error) {
	if len(mesh.Vertices) == 0 || len(mesh.Indices) == 0 {
		return nil, core.ErrEmptyMesh
	}

	vertexBuffer, err := CreateDeviceLocalBuffer(context, mesh.VertexBytes(), vk.BufferUsageFlags(vk.BufferUsageVertexBufferBit))
	if err != nil {
		return nil, err
	}
	indexBuffer, err := CreateDeviceLocalBuffer(context, mesh.IndexBytes(), vk.BufferUsageFlags(vk.BufferUsageIndexBufferBit))
	if err != nil {
		vertexBuffer.Destroy(context)
		return nil, err
	}

	core.LogDebug("geometry uploaded (%d vertices, %d indices)", len(mesh.Vertices), len(mesh.Indices))
	return &VulkanGeometry{
		VertexBuffer: vertexBuffer,
		IndexBuffer:  indexBuffer,
		VertexCount:  uint32(len(mesh.Vertices)),
		IndexCount:   uint32(len(mesh.Indices)),
	}, nil
}

func (g *VulkanGeometry) Destroy(context *VulkanContext) {
	if g.VertexBuffer != nil {
		g.VertexBuffer.Destroy(context)
		g.VertexBuffer = nil
	}
	if g.IndexBuffer != nil {
		g.IndexBuffer.Destroy(context)
		g.IndexBuffer = nil
	}
}

// VertexBindingDescription describes the single interleaved vertex stream.
func VertexBindingDescription() vk.VertexInputBindingDescription {
	return vk.VertexInputBindingDescription{
		Binding:   0,
		Stride:    metadata.VertexStride,
		InputRate: vk.VertexInputRateVertex,
	}
}

// VertexAttributeDescriptions maps position, color and texture
// coordinate to shader locations 0, 1 and 2.
func VertexAttributeDescriptions() []vk.VertexInputAttributeDescription {
	return []vk.VertexInputAttributeDescription{
		{
			Binding:  0,
			Location: 0,
			Format:   vk.FormatR32g32b32Sfloat,
			Offset:   metadata.VertexPosOffset,
		},
		{
			Binding:  0,
			Location: 1,
			Format:   vk.FormatR32g32b32Sfloat,
			Offset:   metadata.VertexColorOffset,
		},
		{
			Binding:  0,
			Location: 2,
			Format:   vk.FormatR32g32Sfloat,
			Offset:   metadata.VertexTexCoordOffset,
		},
	}
}
