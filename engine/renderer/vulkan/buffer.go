package vulkan

import (
	"fmt"
	"unsafe"

	vk "github.com/goki/vulkan"
	"github.com/spaghettifunk/meshview/engine/core"
)

// VulkanBuffer pairs a buffer handle with the memory bound to it. Both
// are released together by Destroy.
type VulkanBuffer struct {
	Handle     vk.Buffer
	Memory     vk.DeviceMemory
	Size       uint64
	Usage      vk.BufferUsageFlags
	Properties vk.MemoryPropertyFlags
}

func BufferCreate(context *VulkanContext, size uint64, usage vk.BufferUsageFlags, properties vk.MemoryPropertyFlags) (*VulkanBuffer, error) {
	if size == 0 {
		err := fmt.Errorf("cannot create a zero sized buffer")
		core.LogError(err.Error())
		return nil, err
	}

	out := &VulkanBuffer{
		Size:       size,
		Usage:      usage,
		Properties: properties,
	}

	bufferInfo := vk.BufferCreateInfo{
		SType:       vk.StructureTypeBufferCreateInfo,
		Size:        vk.DeviceSize(size),
		Usage:       usage,
		SharingMode: vk.SharingModeExclusive,
	}

	var handle vk.Buffer
	if err := resultError(vk.CreateBuffer(context.Device.LogicalDevice, &bufferInfo, context.Allocator, &handle), "vkCreateBuffer"); err != nil {
		return nil, err
	}
	out.Handle = handle

	var requirements vk.MemoryRequirements
	vk.GetBufferMemoryRequirements(context.Device.LogicalDevice, out.Handle, &requirements)

	memory, err := allocateMemory(context, requirements, properties)
	if err != nil {
		out.Destroy(context)
		return nil, err
	}
	out.Memory = memory

	if err := resultError(vk.BindBufferMemory(context.Device.LogicalDevice, out.Handle, out.Memory, 0), "vkBindBufferMemory"); err != nil {
		out.Destroy(context)
		return nil, err
	}
	return out, nil
}

func (b *VulkanBuffer) Destroy(context *VulkanContext) {
	if b.Handle != vk.NullBuffer {
		vk.DestroyBuffer(context.Device.LogicalDevice, b.Handle, context.Allocator)
		b.Handle = vk.NullBuffer
	}
	if b.Memory != vk.NullDeviceMemory {
		vk.FreeMemory(context.Device.LogicalDevice, b.Memory, context.Allocator)
		b.Memory = vk.NullDeviceMemory
	}
	b.Size = 0
}

// LoadData copies data into host visible buffer memory at offset.
func (b *VulkanBuffer) LoadData(context *VulkanContext, offset uint64, data []byte) error {
	if len(data) == 0 {
		return nil
	}
	if offset+uint64(len(data)) > b.Size {
		err := fmt.Errorf("buffer write of %d bytes at %d overflows buffer of %d bytes", len(data), offset, b.Size)
		core.LogError(err.Error())
		return err
	}

	var pData unsafe.Pointer
	if err := resultError(vk.MapMemory(context.Device.LogicalDevice, b.Memory, vk.DeviceSize(offset), vk.DeviceSize(len(data)), 0, &pData), "vkMapMemory"); err != nil {
		return err
	}
	vk.Memcopy(pData, data)
	vk.UnmapMemory(context.Device.LogicalDevice, b.Memory)
	return nil
}
