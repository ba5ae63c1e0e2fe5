package vulkan

import (
	"fmt"

	vk "github.com/goki/vulkan"
	"github.com/spaghettifunk/meshview/engine/core"
)

// memoryTypeFlags flattens the device memory table into the property
// flags of each memory type, in index order.
func memoryTypeFlags(props vk.PhysicalDeviceMemoryProperties) []vk.MemoryPropertyFlags {
	props.Deref()
	flags := make([]vk.MemoryPropertyFlags, props.MemoryTypeCount)
	for i := range flags {
		props.MemoryTypes[i].Deref()
		flags[i] = props.MemoryTypes[i].PropertyFlags
	}
	return flags
}

// FindMemoryType returns the lowest index i such that bit i of typeFilter
// is set and types[i] carries every bit of required.
func FindMemoryType(types []vk.MemoryPropertyFlags, typeFilter uint32, required vk.MemoryPropertyFlags) (uint32, error) {
	for i := 0; i < len(types) && i < 32; i++ {
		if typeFilter&(1<<uint(i)) == 0 {
			continue
		}
		if types[i]&required == required {
			return uint32(i), nil
		}
	}
	return 0, fmt.Errorf("%w (filter %#x, flags %#x)", core.ErrNoSuitableMemoryType, typeFilter, uint32(required))
}

// allocateMemory allocates device memory for the given requirements.
func allocateMemory(context *VulkanContext, reqs vk.MemoryRequirements, properties vk.MemoryPropertyFlags) (vk.DeviceMemory, error) {
	reqs.Deref()

	memoryType, err := context.FindMemoryIndex(reqs.MemoryTypeBits, properties)
	if err != nil {
		core.LogError(err.Error())
		return vk.NullDeviceMemory, err
	}

	allocateInfo := vk.MemoryAllocateInfo{
		SType:           vk.StructureTypeMemoryAllocateInfo,
		AllocationSize:  reqs.Size,
		MemoryTypeIndex: memoryType,
	}

	var memory vk.DeviceMemory
	if err := resultError(vk.AllocateMemory(context.Device.LogicalDevice, &allocateInfo, context.Allocator, &memory), "vkAllocateMemory"); err != nil {
		return vk.NullDeviceMemory, err
	}
	return memory, nil
}
