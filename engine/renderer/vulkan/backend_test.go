package vulkan

import (
	"testing"

	"github.com/spaghettifunk/meshview/engine/renderer/frame"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedSurface struct{}

func (fixedSurface) FramebufferSize() (int, int) { return 800, 600 }
func (fixedSurface) WaitEvents()                 {}

func TestChainStagesAreSwapchainDependentOnly(t *testing.T) {
	vr := New(nil, RendererConfig{})
	stages := vr.chainStages()

	inOrder := func(order []string, name string) bool {
		for _, n := range order {
			if n == name {
				return true
			}
		}
		return false
	}

	names := map[string]bool{}
	for _, s := range stages {
		require.False(t, names[s.name], "stage %q registered twice", s.name)
		names[s.name] = true
		assert.Equal(t, inOrder(frame.CreateOrder, s.name), s.create != nil, "create of %q", s.name)
		assert.Equal(t, inOrder(frame.DestroyOrder, s.name), s.destroy != nil, "destroy of %q", s.name)
	}

	want := map[string]bool{
		frame.StageSwapchain:      true,
		frame.StageImageViews:     true,
		frame.StageRenderPass:     true,
		frame.StagePipeline:       true,
		frame.StagePipelineLayout: true,
		frame.StageColorResources: true,
		frame.StageDepthResources: true,
		frame.StageFramebuffers:   true,
		frame.StageUniformBuffers: true,
		frame.StageDescriptorPool: true,
		frame.StageDescriptorSets: true,
		frame.StageCommandBuffers: true,
	}
	assert.Equal(t, want, names)
	for _, kept := range []string{"geometry", "texture", "sampler", "descriptor set layout", "command pool", "sync objects"} {
		assert.NotContains(t, names, kept)
	}

	chain := frame.NewChain(fixedSurface{}, func() error { return nil })
	for _, s := range stages {
		chain.Register(s.name, s.create, s.destroy)
	}
	assert.NoError(t, chain.Validate())
}
