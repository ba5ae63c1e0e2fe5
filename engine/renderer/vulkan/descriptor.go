package vulkan

import (
	vk "github.com/goki/vulkan"
)

// Descriptor bindings shared with the shaders.
const (
	UniformBufferBinding  uint32 = 0
	TextureSamplerBinding uint32 = 1
)

// DescriptorSetLayoutCreate declares the uniform block for the vertex
// stage and the combined image sampler for the fragment stage.
func DescriptorSetLayoutCreate(context *VulkanContext) (vk.DescriptorSetLayout, error) {
	bindings := []vk.DescriptorSetLayoutBinding{
		{
			Binding:         UniformBufferBinding,
			DescriptorType:  vk.DescriptorTypeUniformBuffer,
			DescriptorCount: 1,
			StageFlags:      vk.ShaderStageFlags(vk.ShaderStageVertexBit),
		},
		{
			Binding:         TextureSamplerBinding,
			DescriptorType:  vk.DescriptorTypeCombinedImageSampler,
			DescriptorCount: 1,
			StageFlags:      vk.ShaderStageFlags(vk.ShaderStageFragmentBit),
		},
	}

	layoutInfo := vk.DescriptorSetLayoutCreateInfo{
		SType:        vk.StructureTypeDescriptorSetLayoutCreateInfo,
		BindingCount: uint32(len(bindings)),
		PBindings:    bindings,
	}

	var layout vk.DescriptorSetLayout
	if err := resultError(vk.CreateDescriptorSetLayout(context.Device.LogicalDevice, &layoutInfo, context.Allocator, &layout), "vkCreateDescriptorSetLayout"); err != nil {
		return nil, err
	}
	return layout, nil
}

func DescriptorSetLayoutDestroy(context *VulkanContext, layout *vk.DescriptorSetLayout) {
	if *layout != nil {
		vk.DestroyDescriptorSetLayout(context.Device.LogicalDevice, *layout, context.Allocator)
		*layout = nil
	}
}

// DescriptorPoolCreate sizes a pool for count sets, each holding one
// uniform buffer and one sampler.
func DescriptorPoolCreate(context *VulkanContext, count uint32) (vk.DescriptorPool, error) {
	poolSizes := []vk.DescriptorPoolSize{
		{
			Type:            vk.DescriptorTypeUniformBuffer,
			DescriptorCount: count,
		},
		{
			Type:            vk.DescriptorTypeCombinedImageSampler,
			DescriptorCount: count,
		},
	}

	poolInfo := vk.DescriptorPoolCreateInfo{
		SType:         vk.StructureTypeDescriptorPoolCreateInfo,
		PoolSizeCount: uint32(len(poolSizes)),
		PPoolSizes:    poolSizes,
		MaxSets:       count,
	}

	var pool vk.DescriptorPool
	if err := resultError(vk.CreateDescriptorPool(context.Device.LogicalDevice, &poolInfo, context.Allocator, &pool), "vkCreateDescriptorPool"); err != nil {
		return nil, err
	}
	return pool, nil
}

// DescriptorPoolDestroy also releases every set allocated from the pool.
func DescriptorPoolDestroy(context *VulkanContext, pool *vk.DescriptorPool) {
	if *pool != nil {
		vk.DestroyDescriptorPool(context.Device.LogicalDevice, *pool, context.Allocator)
		*pool = nil
	}
}

// DescriptorSetsAllocate allocates one set per uniform buffer and points
// it at that buffer and at the texture.
func DescriptorSetsAllocate(context *VulkanContext, pool vk.DescriptorPool, layout vk.DescriptorSetLayout, uniforms []*VulkanBuffer, textureView vk.ImageView, sampler vk.Sampler) ([]vk.DescriptorSet, error) {
	sets := make([]vk.DescriptorSet, len(uniforms))
	for i := range sets {
		allocInfo := vk.DescriptorSetAllocateInfo{
			SType:              vk.StructureTypeDescriptorSetAllocateInfo,
			DescriptorPool:     pool,
			DescriptorSetCount: 1,
			PSetLayouts:        []vk.DescriptorSetLayout{layout},
		}
		if err := resultError(vk.AllocateDescriptorSets(context.Device.LogicalDevice, &allocInfo, &sets[i]), "vkAllocateDescriptorSets"); err != nil {
			return nil, err
		}

		writes := []vk.WriteDescriptorSet{
			{
				SType:           vk.StructureTypeWriteDescriptorSet,
				DstSet:          sets[i],
				DstBinding:      UniformBufferBinding,
				DstArrayElement: 0,
				DescriptorCount: 1,
				DescriptorType:  vk.DescriptorTypeUniformBuffer,
				PBufferInfo: []vk.DescriptorBufferInfo{{
					Buffer: uniforms[i].Handle,
					Offset: 0,
					Range:  vk.DeviceSize(uniforms[i].Size),
				}},
			},
			{
				SType:           vk.StructureTypeWriteDescriptorSet,
				DstSet:          sets[i],
				DstBinding:      TextureSamplerBinding,
				DstArrayElement: 0,
				DescriptorCount: 1,
				DescriptorType:  vk.DescriptorTypeCombinedImageSampler,
				PImageInfo: []vk.DescriptorImageInfo{{
					ImageLayout: vk.ImageLayoutShaderReadOnlyOptimal,
					ImageView:   textureView,
					Sampler:     sampler,
				}},
			},
		}
		vk.UpdateDescriptorSets(context.Device.LogicalDevice, uint32(len(writes)), writes, 0, nil)
	}
	return sets, nil
}
