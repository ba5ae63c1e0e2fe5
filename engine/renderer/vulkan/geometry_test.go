package vulkan

import (
	"testing"

	vk "github.com/goki/vulkan"
	"github.com/spaghettifunk/meshview/engine/renderer/metadata"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVertexBindingDescription(t *testing.T) {
	binding := VertexBindingDescription()
	assert.Equal(t, uint32(0), binding.Binding)
	assert.Equal(t, metadata.VertexStride, binding.Stride)
	assert.Equal(t, vk.VertexInputRateVertex, binding.InputRate)
}

func TestVertexAttributeDescriptions(t *testing.T) {
	attributes := VertexAttributeDescriptions()
	require.Len(t, attributes, 3)

	want := []struct {
		format vk.Format
		offset uint32
	}{
		{vk.FormatR32g32b32Sfloat, 0},
		{vk.FormatR32g32b32Sfloat, 12},
		{vk.FormatR32g32Sfloat, 24},
	}
	for i, w := range want {
		assert.Equal(t, uint32(i), attributes[i].Location)
		assert.Equal(t, uint32(0), attributes[i].Binding)
		assert.Equal(t, w.format, attributes[i].Format)
		assert.Equal(t, w.offset, attributes[i].Offset)
	}
}
