package vulkan

import (
	"testing"

	vk "github.com/goki/vulkan"
	"github.com/spaghettifunk/meshview/engine/core"
	"github.com/spaghettifunk/meshview/engine/renderer/frame"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMipLevels(t *testing.T) {
	tests := []struct {
		width, height uint32
		want          uint32
	}{
		{512, 256, 10},
		{1, 1, 1},
		{1024, 1024, 11},
		{3, 7, 3},
		{4096, 1, 13},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, MipLevels(tt.width, tt.height), "%dx%d", tt.width, tt.height)
	}
}

func TestMipChainHalvesWithFloorOfOne(t *testing.T) {
	chain := MipChain(512, 256, MipLevels(512, 256))
	require.Len(t, chain, 10)

	assert.Equal(t, frame.Extent{Width: 512, Height: 256}, chain[0])
	assert.Equal(t, frame.Extent{Width: 256, Height: 128}, chain[1])
	assert.Equal(t, frame.Extent{Width: 2, Height: 1}, chain[8])
	assert.Equal(t, frame.Extent{Width: 1, Height: 1}, chain[9])

	for i := 1; i < len(chain); i++ {
		assert.Equal(t, max(chain[i-1].Width/2, 1), chain[i].Width)
		assert.Equal(t, max(chain[i-1].Height/2, 1), chain[i].Height)
	}
}

func TestMipChainOddSizes(t *testing.T) {
	chain := MipChain(5, 3, MipLevels(5, 3))
	assert.Equal(t, []frame.Extent{
		{Width: 5, Height: 3},
		{Width: 2, Height: 1},
		{Width: 1, Height: 1},
	}, chain)
}

func TestLayoutTransitionMasks(t *testing.T) {
	masks, err := LayoutTransitionMasks(vk.ImageLayoutUndefined, vk.ImageLayoutTransferDstOptimal)
	require.NoError(t, err)
	assert.Equal(t, vk.AccessFlags(0), masks.SrcAccess)
	assert.Equal(t, vk.AccessFlags(vk.AccessTransferWriteBit), masks.DstAccess)
	assert.Equal(t, vk.PipelineStageFlags(vk.PipelineStageTopOfPipeBit), masks.SrcStage)
	assert.Equal(t, vk.PipelineStageFlags(vk.PipelineStageTransferBit), masks.DstStage)

	masks, err = LayoutTransitionMasks(vk.ImageLayoutTransferDstOptimal, vk.ImageLayoutShaderReadOnlyOptimal)
	require.NoError(t, err)
	assert.Equal(t, vk.AccessFlags(vk.AccessTransferWriteBit), masks.SrcAccess)
	assert.Equal(t, vk.AccessFlags(vk.AccessShaderReadBit), masks.DstAccess)
	assert.Equal(t, vk.PipelineStageFlags(vk.PipelineStageTransferBit), masks.SrcStage)
	assert.Equal(t, vk.PipelineStageFlags(vk.PipelineStageFragmentShaderBit), masks.DstStage)
}

func TestLayoutTransitionMasksRejectsOtherPairs(t *testing.T) {
	pairs := [][2]vk.ImageLayout{
		{vk.ImageLayoutUndefined, vk.ImageLayoutShaderReadOnlyOptimal},
		{vk.ImageLayoutShaderReadOnlyOptimal, vk.ImageLayoutTransferDstOptimal},
		{vk.ImageLayoutTransferDstOptimal, vk.ImageLayoutTransferSrcOptimal},
		{vk.ImageLayoutUndefined, vk.ImageLayoutColorAttachmentOptimal},
	}
	for _, p := range pairs {
		_, err := LayoutTransitionMasks(p[0], p[1])
		assert.ErrorIs(t, err, core.ErrUnsupportedLayoutTransition)
	}
}

func TestCreateTextureImageRejectsSizeMismatch(t *testing.T) {
	// 70000x70000x4 does not fit in 32 bits; the message must still
	// report the real byte count.
	_, err := CreateTextureImage(nil, 70000, 70000, make([]byte, 4))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "needs 19600000000 bytes, got 4")
}
