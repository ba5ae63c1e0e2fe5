package frame

import (
	"fmt"

	"github.com/spaghettifunk/meshview/engine/core"
)

// Names of the swapchain-dependent stages.
const (
	StageSwapchain      = "swapchain"
	StageImageViews     = "image views"
	StageRenderPass     = "render pass"
	StagePipeline       = "pipeline"
	StagePipelineLayout = "pipeline layout"
	StageColorResources = "color resources"
	StageDepthResources = "depth resources"
	StageFramebuffers   = "framebuffers"
	StageUniformBuffers = "uniform buffers"
	StageDescriptorPool = "descriptor pool"
	StageDescriptorSets = "descriptor sets"
	StageCommandBuffers = "command buffers"
)

var (
	// CreateOrder builds each stage after everything it consumes.
	CreateOrder = []string{
		StageSwapchain,
		StageImageViews,
		StageRenderPass,
		StagePipeline,
		StageColorResources,
		StageDepthResources,
		StageFramebuffers,
		StageUniformBuffers,
		StageDescriptorPool,
		StageDescriptorSets,
		StageCommandBuffers,
	}

	// DestroyOrder releases the deepest consumers first. Descriptor sets
	// go away with their pool.
	DestroyOrder = []string{
		StageDepthResources,
		StageColorResources,
		StageFramebuffers,
		StageCommandBuffers,
		StagePipeline,
		StagePipelineLayout,
		StageRenderPass,
		StageImageViews,
		StageSwapchain,
		StageUniformBuffers,
		StageDescriptorPool,
	}
)

// CreateFunc builds a stage for the given framebuffer size.
type CreateFunc func(framebuffer Extent) error

// DestroyFunc releases a stage. It must tolerate being called on a
// stage that was never created.
type DestroyFunc func()

type stage struct {
	create  CreateFunc
	destroy DestroyFunc
}

// Chain owns the creation and teardown order of everything that depends
// on the swapchain size. Objects that do not depend on it are never
// registered and survive recreation untouched.
type Chain struct {
	surface  Surface
	waitIdle func() error
	stages   map[string]stage
	built    bool
}

func NewChain(surface Surface, waitIdle func() error) *Chain {
	return &Chain{
		surface:  surface,
		waitIdle: waitIdle,
		stages:   make(map[string]stage),
	}
}

// Register attaches create and destroy steps to a named stage. Either
// may be nil when the stage only has one side.
func (c *Chain) Register(name string, create CreateFunc, destroy DestroyFunc) {
	c.stages[name] = stage{create: create, destroy: destroy}
}

// Validate reports stages named in the orders that were never registered.
func (c *Chain) Validate() error {
	for _, name := range append(append([]string{}, CreateOrder...), DestroyOrder...) {
		if _, ok := c.stages[name]; !ok {
			return fmt.Errorf("swapchain stage %q is not registered", name)
		}
	}
	return nil
}

// Build creates every stage in CreateOrder for the current framebuffer size.
func (c *Chain) Build() error {
	w, h := c.surface.FramebufferSize()
	if w <= 0 || h <= 0 {
		return core.ErrInvalidFramebufferSize
	}
	return c.build(Extent{Width: uint32(w), Height: uint32(h)})
}

// build marks the chain built before the first stage so that Destroy
// also releases a partially built chain.
func (c *Chain) build(extent Extent) error {
	c.built = true
	for _, name := range CreateOrder {
		s := c.stages[name]
		if s.create == nil {
			continue
		}
		if err := s.create(extent); err != nil {
			return fmt.Errorf("failed to create %s: %w", name, err)
		}
	}
	return nil
}

// Destroy releases every stage in DestroyOrder. It is a no-op when the
// chain is not built.
func (c *Chain) Destroy() {
	if !c.built {
		return
	}
	for _, name := range DestroyOrder {
		if s := c.stages[name]; s.destroy != nil {
			s.destroy()
		}
	}
	c.built = false
}

// Recreate blocks while the window has no area, waits for the device to
// go idle, then tears the chain down and rebuilds it at the new size.
func (c *Chain) Recreate() (Extent, error) {
	w, h := c.surface.FramebufferSize()
	for w == 0 || h == 0 {
		c.surface.WaitEvents()
		w, h = c.surface.FramebufferSize()
	}

	if err := c.waitIdle(); err != nil {
		return Extent{}, fmt.Errorf("failed to wait for device idle: %w", err)
	}

	extent := Extent{Width: uint32(w), Height: uint32(h)}
	c.Destroy()
	if err := c.build(extent); err != nil {
		return Extent{}, err
	}
	return extent, nil
}
