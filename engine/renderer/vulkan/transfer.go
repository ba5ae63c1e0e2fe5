package vulkan

import (
	"fmt"

	vk "github.com/goki/vulkan"
	"github.com/spaghettifunk/meshview/engine/core"
	"github.com/spaghettifunk/meshview/engine/math"
	"github.com/spaghettifunk/meshview/engine/renderer/frame"
)

// TransitionMasks are the access and stage masks of an image layout barrier.
type TransitionMasks struct {
	SrcAccess vk.AccessFlags
	DstAccess vk.AccessFlags
	SrcStage  vk.PipelineStageFlags
	DstStage  vk.PipelineStageFlags
}

// LayoutTransitionMasks returns the barrier masks for the two layout
// changes a texture upload goes through.
func LayoutTransitionMasks(oldLayout, newLayout vk.ImageLayout) (TransitionMasks, error) {
	switch {
	case oldLayout == vk.ImageLayoutUndefined && newLayout == vk.ImageLayoutTransferDstOptimal:
		return TransitionMasks{
			SrcAccess: 0,
			DstAccess: vk.AccessFlags(vk.AccessTransferWriteBit),
			SrcStage:  vk.PipelineStageFlags(vk.PipelineStageTopOfPipeBit),
			DstStage:  vk.PipelineStageFlags(vk.PipelineStageTransferBit),
		}, nil
	case oldLayout == vk.ImageLayoutTransferDstOptimal && newLayout == vk.ImageLayoutShaderReadOnlyOptimal:
		return TransitionMasks{
			SrcAccess: vk.AccessFlags(vk.AccessTransferWriteBit),
			DstAccess: vk.AccessFlags(vk.AccessShaderReadBit),
			SrcStage:  vk.PipelineStageFlags(vk.PipelineStageTransferBit),
			DstStage:  vk.PipelineStageFlags(vk.PipelineStageFragmentShaderBit),
		}, nil
	}
	return TransitionMasks{}, fmt.Errorf("%w: %d -> %d", core.ErrUnsupportedLayoutTransition, oldLayout, newLayout)
}

// MipLevels is the length of the full mip chain of a w x h image.
func MipLevels(width, height uint32) uint32 {
	return math.Log2Floor(max(width, height)) + 1
}

// MipChain lists the extent of each level, halving with a floor of 1.
func MipChain(width, height, levels uint32) []frame.Extent {
	chain := make([]frame.Extent, 0, levels)
	w, h := width, height
	for i := uint32(0); i < levels; i++ {
		chain = append(chain, frame.Extent{Width: w, Height: h})
		w = max(w/2, 1)
		h = max(h/2, 1)
	}
	return chain
}

func colorSubresource(baseMip, levels uint32) vk.ImageSubresourceRange {
	return vk.ImageSubresourceRange{
		AspectMask:     vk.ImageAspectFlags(vk.ImageAspectColorBit),
		BaseMipLevel:   baseMip,
		LevelCount:     levels,
		BaseArrayLayer: 0,
		LayerCount:     1,
	}
}

func imageBarrier(cmd vk.CommandBuffer, image vk.Image, oldLayout, newLayout vk.ImageLayout, masks TransitionMasks, subresource vk.ImageSubresourceRange) {
	vk.CmdPipelineBarrier(cmd, masks.SrcStage, masks.DstStage, 0, 0, nil, 0, nil, 1, []vk.ImageMemoryBarrier{{
		SType:               vk.StructureTypeImageMemoryBarrier,
		SrcAccessMask:       masks.SrcAccess,
		DstAccessMask:       masks.DstAccess,
		OldLayout:           oldLayout,
		NewLayout:           newLayout,
		SrcQueueFamilyIndex: vk.QueueFamilyIgnored,
		DstQueueFamilyIndex: vk.QueueFamilyIgnored,
		Image:               image,
		SubresourceRange:    subresource,
	}})
}

// TransitionLayout moves every mip level of image from oldLayout to newLayout.
func TransitionLayout(context *VulkanContext, image *VulkanImage, oldLayout, newLayout vk.ImageLayout) error {
	masks, err := LayoutTransitionMasks(oldLayout, newLayout)
	if err != nil {
		core.LogError(err.Error())
		return err
	}
	return ExecuteSingleUse(context, func(cb *VulkanCommandBuffer) error {
		imageBarrier(cb.Handle, image.Handle, oldLayout, newLayout, masks, colorSubresource(0, image.MipLevels))
		return nil
	})
}

func CopyBuffer(context *VulkanContext, src, dst *VulkanBuffer, size uint64) error {
	return ExecuteSingleUse(context, func(cb *VulkanCommandBuffer) error {
		vk.CmdCopyBuffer(cb.Handle, src.Handle, dst.Handle, 1, []vk.BufferCopy{{
			SrcOffset: 0,
			DstOffset: 0,
			Size:      vk.DeviceSize(size),
		}})
		return nil
	})
}

// CopyBufferToImage fills mip level 0 of image, which must be in the
// transfer destination layout.
func CopyBufferToImage(context *VulkanContext, buffer *VulkanBuffer, image *VulkanImage) error {
	return ExecuteSingleUse(context, func(cb *VulkanCommandBuffer) error {
		region := vk.BufferImageCopy{
			BufferOffset:      0,
			BufferRowLength:   0,
			BufferImageHeight: 0,
			ImageSubresource: vk.ImageSubresourceLayers{
				AspectMask:     vk.ImageAspectFlags(vk.ImageAspectColorBit),
				MipLevel:       0,
				BaseArrayLayer: 0,
				LayerCount:     1,
			},
			ImageOffset: vk.Offset3D{X: 0, Y: 0, Z: 0},
			ImageExtent: vk.Extent3D{Width: image.Width, Height: image.Height, Depth: 1},
		}
		vk.CmdCopyBufferToImage(cb.Handle, buffer.Handle, image.Handle, vk.ImageLayoutTransferDstOptimal, 1, []vk.BufferImageCopy{region})
		return nil
	})
}

func supportsLinearBlit(context *VulkanContext, format vk.Format) bool {
	var properties vk.FormatProperties
	vk.GetPhysicalDeviceFormatProperties(context.Device.PhysicalDevice, format, &properties)
	properties.Deref()
	bit := vk.FormatFeatureFlags(vk.FormatFeatureSampledImageFilterLinearBit)
	return properties.OptimalTilingFeatures&bit == bit
}

// GenerateMipmaps fills levels 1..n-1 by blitting each level from the one
// above it and leaves every level in the shader read layout. All levels
// must start in the transfer destination layout.
func GenerateMipmaps(context *VulkanContext, image *VulkanImage) error {
	if !supportsLinearBlit(context, image.Format) {
		err := fmt.Errorf("%w: format %d", core.ErrBlitUnsupported, image.Format)
		core.LogError(err.Error())
		return err
	}

	chain := MipChain(image.Width, image.Height, image.MipLevels)

	toTransferSrc := TransitionMasks{
		SrcAccess: vk.AccessFlags(vk.AccessTransferWriteBit),
		DstAccess: vk.AccessFlags(vk.AccessTransferReadBit),
		SrcStage:  vk.PipelineStageFlags(vk.PipelineStageTransferBit),
		DstStage:  vk.PipelineStageFlags(vk.PipelineStageTransferBit),
	}
	srcToShader := TransitionMasks{
		SrcAccess: vk.AccessFlags(vk.AccessTransferReadBit),
		DstAccess: vk.AccessFlags(vk.AccessShaderReadBit),
		SrcStage:  vk.PipelineStageFlags(vk.PipelineStageTransferBit),
		DstStage:  vk.PipelineStageFlags(vk.PipelineStageFragmentShaderBit),
	}
	dstToShader, err := LayoutTransitionMasks(vk.ImageLayoutTransferDstOptimal, vk.ImageLayoutShaderReadOnlyOptimal)
	if err != nil {
		return err
	}

	return ExecuteSingleUse(context, func(cb *VulkanCommandBuffer) error {
		for i := uint32(1); i < image.MipLevels; i++ {
			imageBarrier(cb.Handle, image.Handle,
				vk.ImageLayoutTransferDstOptimal, vk.ImageLayoutTransferSrcOptimal,
				toTransferSrc, colorSubresource(i-1, 1))

			src, dst := chain[i-1], chain[i]
			blit := vk.ImageBlit{
				SrcSubresource: vk.ImageSubresourceLayers{
					AspectMask: vk.ImageAspectFlags(vk.ImageAspectColorBit),
					MipLevel:   i - 1,
					LayerCount: 1,
				},
				SrcOffsets: [2]vk.Offset3D{
					{X: 0, Y: 0, Z: 0},
					{X: int32(src.Width), Y: int32(src.Height), Z: 1},
				},
				DstSubresource: vk.ImageSubresourceLayers{
					AspectMask: vk.ImageAspectFlags(vk.ImageAspectColorBit),
					MipLevel:   i,
					LayerCount: 1,
				},
				DstOffsets: [2]vk.Offset3D{
					{X: 0, Y: 0, Z: 0},
					{X: int32(dst.Width), Y: int32(dst.Height), Z: 1},
				},
			}
			vk.CmdBlitImage(cb.Handle,
				image.Handle, vk.ImageLayoutTransferSrcOptimal,
				image.Handle, vk.ImageLayoutTransferDstOptimal,
				1, []vk.ImageBlit{blit}, vk.FilterLinear)

			imageBarrier(cb.Handle, image.Handle,
				vk.ImageLayoutTransferSrcOptimal, vk.ImageLayoutShaderReadOnlyOptimal,
				srcToShader, colorSubresource(i-1, 1))
		}

		imageBarrier(cb.Handle, image.Handle,
			vk.ImageLayoutTransferDstOptimal, vk.ImageLayoutShaderReadOnlyOptimal,
			dstToShader, colorSubresource(image.MipLevels-1, 1))
		return nil
	})
}

// UploadViaStaging copies data into a device local buffer through a
// temporary host visible one.
func UploadViaStaging(context *VulkanContext, data []byte, dst *VulkanBuffer) error {
	staging, err := BufferCreate(context, uint64(len(data)),
		vk.BufferUsageFlags(vk.BufferUsageTransferSrcBit),
		vk.MemoryPropertyFlags(vk.MemoryPropertyHostVisibleBit|vk.MemoryPropertyHostCoherentBit))
	if err != nil {
		return err
	}
	defer staging.Destroy(context)

	if err := staging.LoadData(context, 0, data); err != nil {
		return err
	}
	return CopyBuffer(context, staging, dst, uint64(len(data)))
}

// CreateDeviceLocalBuffer allocates a device local buffer with usage and
// fills it with data.
func CreateDeviceLocalBuffer(context *VulkanContext, data []byte, usage vk.BufferUsageFlags) (*VulkanBuffer, error) {
	buffer, err := BufferCreate(context, uint64(len(data)),
		usage|vk.BufferUsageFlags(vk.BufferUsageTransferDstBit),
		vk.MemoryPropertyFlags(vk.MemoryPropertyDeviceLocalBit))
	if err != nil {
		return nil, err
	}
	if err := UploadViaStaging(context, data, buffer); err != nil {
		buffer.Destroy(context)
		return nil, err
	}
	return buffer, nil
}

// UploadImageViaStaging copies RGBA8 pixels into level 0 of image and
// builds the rest of the mip chain.
func UploadImageViaStaging(context *VulkanContext, pixels []byte, image *VulkanImage) error {
	staging, err := BufferCreate(context, uint64(len(pixels)),
		vk.BufferUsageFlags(vk.BufferUsageTransferSrcBit),
		vk.MemoryPropertyFlags(vk.MemoryPropertyHostVisibleBit|vk.MemoryPropertyHostCoherentBit))
	if err != nil {
		return err
	}
	defer staging.Destroy(context)

	if err := staging.LoadData(context, 0, pixels); err != nil {
		return err
	}
	if err := TransitionLayout(context, image, vk.ImageLayoutUndefined, vk.ImageLayoutTransferDstOptimal); err != nil {
		return err
	}
	if err := CopyBufferToImage(context, staging, image); err != nil {
		return err
	}
	return GenerateMipmaps(context, image)
}

// CreateTextureImage builds a sampled, mipmapped sRGB image from RGBA8
// pixels.
func CreateTextureImage(context *VulkanContext, width, height uint32, pixels []byte) (*VulkanImage, error) {
	if uint64(len(pixels)) != uint64(width)*uint64(height)*4 {
		err := fmt.Errorf("texture of %dx%d needs %d bytes, got %d", width, height, uint64(width)*uint64(height)*4, len(pixels))
		core.LogError(err.Error())
		return nil, err
	}

	image, err := ImageCreate(context, VulkanImageConfig{
		Width:     width,
		Height:    height,
		MipLevels: MipLevels(width, height),
		Samples:   vk.SampleCount1Bit,
		Format:    vk.FormatR8g8b8a8Srgb,
		Tiling:    vk.ImageTilingOptimal,
		Usage: vk.ImageUsageFlags(vk.ImageUsageTransferSrcBit) |
			vk.ImageUsageFlags(vk.ImageUsageTransferDstBit) |
			vk.ImageUsageFlags(vk.ImageUsageSampledBit),
		Properties: vk.MemoryPropertyFlags(vk.MemoryPropertyDeviceLocalBit),
		ViewAspect: vk.ImageAspectFlags(vk.ImageAspectColorBit),
	})
	if err != nil {
		return nil, err
	}

	if err := UploadImageViaStaging(context, pixels, image); err != nil {
		image.Destroy(context)
		return nil, err
	}
	core.LogDebug("texture uploaded (%dx%d, %d mip levels)", width, height, image.MipLevels)
	return image, nil
}
