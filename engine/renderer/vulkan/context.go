package vulkan

import (
	vk "github.com/goki/vulkan"
)

// VulkanContext holds the objects every other part of the backend
// needs: the instance, the surface and the selected device.
type VulkanContext struct {
	Instance  vk.Instance
	Allocator *vk.AllocationCallbacks
	Surface   vk.Surface

	debugCallback vk.DebugReportCallback

	Device *VulkanDevice

	// Sample count used by the color and depth attachments.
	MSAASamples vk.SampleCountFlagBits
}

// FindMemoryIndex picks the first memory type allowed by typeFilter that
// has every bit of propertyFlags.
func (vc *VulkanContext) FindMemoryIndex(typeFilter uint32, propertyFlags vk.MemoryPropertyFlags) (uint32, error) {
	return FindMemoryType(memoryTypeFlags(vc.Device.Memory), typeFilter, propertyFlags)
}
