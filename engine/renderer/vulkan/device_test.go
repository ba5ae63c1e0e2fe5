package vulkan

import (
	"testing"

	vk "github.com/goki/vulkan"
	"github.com/stretchr/testify/assert"
)

func TestFindQueueFamilies(t *testing.T) {
	tests := []struct {
		name     string
		families []VulkanQueueFamily
		want     VulkanPhysicalDeviceQueueFamilyInfo
	}{
		{
			name:     "shared family",
			families: []VulkanQueueFamily{{Graphics: true, Present: true}},
			want:     VulkanPhysicalDeviceQueueFamilyInfo{HasGraphics: true, HasPresent: true},
		},
		{
			name:     "separate families",
			families: []VulkanQueueFamily{{Present: true}, {Graphics: true}},
			want:     VulkanPhysicalDeviceQueueFamilyInfo{GraphicsFamilyIndex: 1, PresentFamilyIndex: 0, HasGraphics: true, HasPresent: true},
		},
		{
			name:     "first match wins",
			families: []VulkanQueueFamily{{}, {Graphics: true}, {Graphics: true, Present: true}},
			want:     VulkanPhysicalDeviceQueueFamilyInfo{GraphicsFamilyIndex: 1, PresentFamilyIndex: 2, HasGraphics: true, HasPresent: true},
		},
		{
			name:     "no present",
			families: []VulkanQueueFamily{{Graphics: true}},
			want:     VulkanPhysicalDeviceQueueFamilyInfo{HasGraphics: true},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FindQueueFamilies(tt.families)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.want.HasGraphics && tt.want.HasPresent, got.Complete())
		})
	}
}

func TestMaxUsableSampleCount(t *testing.T) {
	upTo := func(bits ...vk.SampleCountFlagBits) vk.SampleCountFlags {
		var f vk.SampleCountFlags
		for _, b := range bits {
			f |= vk.SampleCountFlags(b)
		}
		return f
	}
	all := upTo(vk.SampleCount1Bit, vk.SampleCount2Bit, vk.SampleCount4Bit, vk.SampleCount8Bit)

	assert.Equal(t, vk.SampleCount8Bit, MaxUsableSampleCount(all, all))
	assert.Equal(t, vk.SampleCount4Bit, MaxUsableSampleCount(all, upTo(vk.SampleCount1Bit, vk.SampleCount4Bit)))
	assert.Equal(t, vk.SampleCount2Bit, MaxUsableSampleCount(upTo(vk.SampleCount2Bit, vk.SampleCount8Bit), upTo(vk.SampleCount2Bit, vk.SampleCount4Bit)))
	assert.Equal(t, vk.SampleCount1Bit, MaxUsableSampleCount(upTo(vk.SampleCount1Bit), all))
}

func TestHasStencilComponent(t *testing.T) {
	assert.True(t, HasStencilComponent(vk.FormatD32SfloatS8Uint))
	assert.True(t, HasStencilComponent(vk.FormatD24UnormS8Uint))
	assert.False(t, HasStencilComponent(vk.FormatD32Sfloat))
}
