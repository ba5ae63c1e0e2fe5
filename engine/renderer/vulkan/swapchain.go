package vulkan

import (
	"fmt"
	stdmath "math"

	vk "github.com/goki/vulkan"
	"github.com/spaghettifunk/meshview/engine/core"
	"github.com/spaghettifunk/meshview/engine/math"
	"github.com/spaghettifunk/meshview/engine/renderer/frame"
)

type VulkanSwapchainSupportInfo struct {
	Capabilities vk.SurfaceCapabilities
	Formats      []vk.SurfaceFormat
	PresentModes []vk.PresentMode
}

type VulkanSwapchain struct {
	Handle      vk.Swapchain
	ImageFormat vk.SurfaceFormat
	PresentMode vk.PresentMode
	Extent      vk.Extent2D
	Images      []vk.Image
	Views       []vk.ImageView
	// Identifies this swapchain in logs across recreations.
	Generation string
}

// ChooseSurfaceFormat prefers 8-bit BGRA sRGB and otherwise takes
// whatever the surface lists first.
func ChooseSurfaceFormat(formats []vk.SurfaceFormat) (vk.SurfaceFormat, error) {
	if len(formats) == 0 {
		return vk.SurfaceFormat{}, core.ErrNoAcceptableFormat
	}
	for _, format := range formats {
		if format.Format == vk.FormatB8g8r8a8Srgb && format.ColorSpace == vk.ColorSpaceSrgbNonlinear {
			return format, nil
		}
	}
	return formats[0], nil
}

// ChoosePresentMode prefers mailbox. FIFO is always available.
func ChoosePresentMode(modes []vk.PresentMode) vk.PresentMode {
	for _, mode := range modes {
		if mode == vk.PresentModeMailbox {
			return mode
		}
	}
	return vk.PresentModeFifo
}

// ChooseExtent uses the surface's current extent unless the surface
// leaves it to the application, in which case the framebuffer size is
// clamped into the supported range.
func ChooseExtent(caps vk.SurfaceCapabilities, framebufferWidth, framebufferHeight uint32) vk.Extent2D {
	if caps.CurrentExtent.Width != stdmath.MaxUint32 {
		return caps.CurrentExtent
	}
	return vk.Extent2D{
		Width:  math.Clamp(framebufferWidth, caps.MinImageExtent.Width, caps.MaxImageExtent.Width),
		Height: math.Clamp(framebufferHeight, caps.MinImageExtent.Height, caps.MaxImageExtent.Height),
	}
}

// SwapchainImageCount asks for one image more than the minimum, capped
// at the maximum when the surface has one.
func SwapchainImageCount(caps vk.SurfaceCapabilities) uint32 {
	count := caps.MinImageCount + 1
	if caps.MaxImageCount > 0 && count > caps.MaxImageCount {
		count = caps.MaxImageCount
	}
	return count
}

// statusFromResult maps acquire and present results onto frame statuses.
// Anything other than success, suboptimal or out of date is an error.
func statusFromResult(result vk.Result, call string) (frame.Status, error) {
	switch result {
	case vk.Success:
		return frame.StatusOK, nil
	case vk.Suboptimal:
		return frame.StatusSuboptimal, nil
	case vk.ErrorOutOfDate:
		return frame.StatusOutOfDate, nil
	}
	return frame.StatusOK, resultError(result, call)
}

// SwapchainCreate queries the surface again and builds a swapchain for
// the given framebuffer size. Image views are created separately.
func SwapchainCreate(context *VulkanContext, framebuffer frame.Extent) (*VulkanSwapchain, error) {
	device := context.Device
	if err := DeviceQuerySwapchainSupport(device.PhysicalDevice, context.Surface, &device.SwapchainSupport); err != nil {
		return nil, err
	}
	support := device.SwapchainSupport

	imageFormat, err := ChooseSurfaceFormat(support.Formats)
	if err != nil {
		core.LogError(err.Error())
		return nil, err
	}

	swapchain := &VulkanSwapchain{
		ImageFormat: imageFormat,
		PresentMode: ChoosePresentMode(support.PresentModes),
		Extent:      ChooseExtent(support.Capabilities, framebuffer.Width, framebuffer.Height),
		Generation:  core.NewIdentifier(),
	}

	swapchainCreateInfo := vk.SwapchainCreateInfo{
		SType:            vk.StructureTypeSwapchainCreateInfo,
		Surface:          context.Surface,
		MinImageCount:    SwapchainImageCount(support.Capabilities),
		ImageFormat:      swapchain.ImageFormat.Format,
		ImageColorSpace:  swapchain.ImageFormat.ColorSpace,
		ImageExtent:      swapchain.Extent,
		ImageArrayLayers: 1,
		ImageUsage:       vk.ImageUsageFlags(vk.ImageUsageColorAttachmentBit),
		PreTransform:     support.Capabilities.CurrentTransform,
		CompositeAlpha:   vk.CompositeAlphaOpaqueBit,
		PresentMode:      swapchain.PresentMode,
		Clipped:          vk.True,
		OldSwapchain:     vk.NullSwapchain,
	}

	// Setup the queue family indices
	if device.GraphicsQueueIndex != device.PresentQueueIndex {
		swapchainCreateInfo.ImageSharingMode = vk.SharingModeConcurrent
		swapchainCreateInfo.QueueFamilyIndexCount = 2
		swapchainCreateInfo.PQueueFamilyIndices = []uint32{device.GraphicsQueueIndex, device.PresentQueueIndex}
	} else {
		swapchainCreateInfo.ImageSharingMode = vk.SharingModeExclusive
	}

	var swapchainHandle vk.Swapchain
	if err := resultError(vk.CreateSwapchain(device.LogicalDevice, &swapchainCreateInfo, context.Allocator, &swapchainHandle), "vkCreateSwapchainKHR"); err != nil {
		return nil, err
	}
	swapchain.Handle = swapchainHandle

	var imageCount uint32
	if err := resultError(vk.GetSwapchainImages(device.LogicalDevice, swapchain.Handle, &imageCount, nil), "vkGetSwapchainImagesKHR"); err != nil {
		swapchain.Destroy(context)
		return nil, err
	}
	swapchain.Images = make([]vk.Image, imageCount)
	if err := resultError(vk.GetSwapchainImages(device.LogicalDevice, swapchain.Handle, &imageCount, swapchain.Images), "vkGetSwapchainImagesKHR"); err != nil {
		swapchain.Destroy(context)
		return nil, err
	}

	core.Logger().Info("swapchain created",
		"generation", core.ShortIdentifier(swapchain.Generation),
		"width", swapchain.Extent.Width,
		"height", swapchain.Extent.Height,
		"images", len(swapchain.Images),
		"presentMode", swapchain.PresentMode)
	return swapchain, nil
}

// CreateViews builds one color view per swapchain image.
func (vs *VulkanSwapchain) CreateViews(context *VulkanContext) error {
	vs.Views = make([]vk.ImageView, len(vs.Images))
	for i, image := range vs.Images {
		view, err := ImageViewCreate(context, image, vs.ImageFormat.Format, vk.ImageAspectFlags(vk.ImageAspectColorBit), 1)
		if err != nil {
			vs.DestroyViews(context)
			return fmt.Errorf("swapchain image %d: %w", i, err)
		}
		vs.Views[i] = view
	}
	return nil
}

// DestroyViews only releases the views. The images belong to the
// swapchain and go away with it.
func (vs *VulkanSwapchain) DestroyViews(context *VulkanContext) {
	for i, view := range vs.Views {
		if view != vk.NullImageView {
			vk.DestroyImageView(context.Device.LogicalDevice, view, context.Allocator)
			vs.Views[i] = vk.NullImageView
		}
	}
	vs.Views = nil
}

func (vs *VulkanSwapchain) Destroy(context *VulkanContext) {
	vs.DestroyViews(context)
	if vs.Handle != vk.NullSwapchain {
		vk.DestroySwapchain(context.Device.LogicalDevice, vs.Handle, context.Allocator)
		vs.Handle = vk.NullSwapchain
		core.Logger().Debug("swapchain destroyed", "generation", core.ShortIdentifier(vs.Generation))
	}
	vs.Images = nil
}

func (vs *VulkanSwapchain) ImageCount() int {
	return len(vs.Images)
}

// AcquireNextImage waits without a timeout for a presentable image.
// imageAvailable is signaled when the image can be rendered to.
func (vs *VulkanSwapchain) AcquireNextImage(context *VulkanContext, imageAvailable vk.Semaphore) (uint32, frame.Status, error) {
	var imageIndex uint32
	result := vk.AcquireNextImage(context.Device.LogicalDevice, vs.Handle, vk.MaxUint64, imageAvailable, vk.NullFence, &imageIndex)
	status, err := statusFromResult(result, "vkAcquireNextImageKHR")
	return imageIndex, status, err
}

// Present queues imageIndex for display once renderComplete is signaled.
func (vs *VulkanSwapchain) Present(context *VulkanContext, presentQueue vk.Queue, renderComplete vk.Semaphore, imageIndex uint32) (frame.Status, error) {
	presentInfo := vk.PresentInfo{
		SType:              vk.StructureTypePresentInfo,
		WaitSemaphoreCount: 1,
		PWaitSemaphores:    []vk.Semaphore{renderComplete},
		SwapchainCount:     1,
		PSwapchains:        []vk.Swapchain{vs.Handle},
		PImageIndices:      []uint32{imageIndex},
	}
	return statusFromResult(vk.QueuePresent(presentQueue, &presentInfo), "vkQueuePresentKHR")
}
