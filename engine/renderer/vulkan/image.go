package vulkan

import (
	vk "github.com/goki/vulkan"
)

// VulkanImage pairs an image with its memory and, optionally, a view.
type VulkanImage struct {
	Handle    vk.Image
	Memory    vk.DeviceMemory
	View      vk.ImageView
	Width     uint32
	Height    uint32
	MipLevels uint32
	Format    vk.Format
}

type VulkanImageConfig struct {
	Width      uint32
	Height     uint32
	MipLevels  uint32
	Samples    vk.SampleCountFlagBits
	Format     vk.Format
	Tiling     vk.ImageTiling
	Usage      vk.ImageUsageFlags
	Properties vk.MemoryPropertyFlags
	// Aspect of the view. No view is created when it is zero.
	ViewAspect vk.ImageAspectFlags
}

func ImageCreate(context *VulkanContext, config VulkanImageConfig) (*VulkanImage, error) {
	mipLevels := config.MipLevels
	if mipLevels == 0 {
		mipLevels = 1
	}
	samples := config.Samples
	if samples == 0 {
		samples = vk.SampleCount1Bit
	}

	out := &VulkanImage{
		Width:     config.Width,
		Height:    config.Height,
		MipLevels: mipLevels,
		Format:    config.Format,
	}

	imageCreateInfo := vk.ImageCreateInfo{
		SType:     vk.StructureTypeImageCreateInfo,
		ImageType: vk.ImageType2d,
		Extent: vk.Extent3D{
			Width:  config.Width,
			Height: config.Height,
			Depth:  1,
		},
		MipLevels:     mipLevels,
		ArrayLayers:   1,
		Format:        config.Format,
		Tiling:        config.Tiling,
		InitialLayout: vk.ImageLayoutUndefined,
		Usage:         config.Usage,
		Samples:       samples,
		SharingMode:   vk.SharingModeExclusive,
	}

	var handle vk.Image
	if err := resultError(vk.CreateImage(context.Device.LogicalDevice, &imageCreateInfo, context.Allocator, &handle), "vkCreateImage"); err != nil {
		return nil, err
	}
	out.Handle = handle

	var requirements vk.MemoryRequirements
	vk.GetImageMemoryRequirements(context.Device.LogicalDevice, out.Handle, &requirements)

	memory, err := allocateMemory(context, requirements, config.Properties)
	if err != nil {
		out.Destroy(context)
		return nil, err
	}
	out.Memory = memory

	if err := resultError(vk.BindImageMemory(context.Device.LogicalDevice, out.Handle, out.Memory, 0), "vkBindImageMemory"); err != nil {
		out.Destroy(context)
		return nil, err
	}

	if config.ViewAspect != 0 {
		view, err := ImageViewCreate(context, out.Handle, config.Format, config.ViewAspect, mipLevels)
		if err != nil {
			out.Destroy(context)
			return nil, err
		}
		out.View = view
	}
	return out, nil
}

func ImageViewCreate(context *VulkanContext, image vk.Image, format vk.Format, aspect vk.ImageAspectFlags, mipLevels uint32) (vk.ImageView, error) {
	viewInfo := vk.ImageViewCreateInfo{
		SType:    vk.StructureTypeImageViewCreateInfo,
		Image:    image,
		ViewType: vk.ImageViewType2d,
		Format:   format,
		SubresourceRange: vk.ImageSubresourceRange{
			AspectMask:     aspect,
			BaseMipLevel:   0,
			LevelCount:     mipLevels,
			BaseArrayLayer: 0,
			LayerCount:     1,
		},
	}

	var view vk.ImageView
	if err := resultError(vk.CreateImageView(context.Device.LogicalDevice, &viewInfo, context.Allocator, &view), "vkCreateImageView"); err != nil {
		return vk.NullImageView, err
	}
	return view, nil
}

func (img *VulkanImage) Destroy(context *VulkanContext) {
	if img.View != vk.NullImageView {
		vk.DestroyImageView(context.Device.LogicalDevice, img.View, context.Allocator)
		img.View = vk.NullImageView
	}
	if img.Handle != vk.NullImage {
		vk.DestroyImage(context.Device.LogicalDevice, img.Handle, context.Allocator)
		img.Handle = vk.NullImage
	}
	if img.Memory != vk.NullDeviceMemory {
		vk.FreeMemory(context.Device.LogicalDevice, img.Memory, context.Allocator)
		img.Memory = vk.NullDeviceMemory
	}
}
