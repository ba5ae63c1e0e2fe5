package vulkan

import (
	vk "github.com/goki/vulkan"
)

// SamplerCreate builds a linear, repeating, anisotropic sampler covering
// mipLevels levels of detail.
func SamplerCreate(context *VulkanContext, mipLevels uint32) (vk.Sampler, error) {
	limits := context.Device.Properties.Limits
	limits.Deref()

	samplerInfo := vk.SamplerCreateInfo{
		SType:                   vk.StructureTypeSamplerCreateInfo,
		MagFilter:               vk.FilterLinear,
		MinFilter:               vk.FilterLinear,
		AddressModeU:            vk.SamplerAddressModeRepeat,
		AddressModeV:            vk.SamplerAddressModeRepeat,
		AddressModeW:            vk.SamplerAddressModeRepeat,
		AnisotropyEnable:        vk.True,
		MaxAnisotropy:           limits.MaxSamplerAnisotropy,
		BorderColor:             vk.BorderColorIntOpaqueBlack,
		UnnormalizedCoordinates: vk.False,
		CompareEnable:           vk.False,
		CompareOp:               vk.CompareOpAlways,
		MipmapMode:              vk.SamplerMipmapModeLinear,
		MinLod:                  0,
		MaxLod:                  float32(mipLevels),
		MipLodBias:              0,
	}

	var sampler vk.Sampler
	if err := resultError(vk.CreateSampler(context.Device.LogicalDevice, &samplerInfo, context.Allocator, &sampler), "vkCreateSampler"); err != nil {
		return vk.NullSampler, err
	}
	return sampler, nil
}

func SamplerDestroy(context *VulkanContext, sampler *vk.Sampler) {
	if *sampler != vk.NullSampler {
		vk.DestroySampler(context.Device.LogicalDevice, *sampler, context.Allocator)
		*sampler = vk.NullSampler
	}
}
