package frame

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSurface struct {
	sizes [][2]int
	waits int
}

func (f *fakeSurface) FramebufferSize() (int, int) {
	s := f.sizes[0]
	if len(f.sizes) > 1 {
		f.sizes = f.sizes[1:]
	}
	return s[0], s[1]
}

func (f *fakeSurface) WaitEvents() { f.waits++ }

// fakeRenderer hands out fresh handles for every created stage.
type fakeRenderer struct {
	nextHandle int
	handles    map[string]int
	extents    map[string]Extent
	created    map[string]int
	destroyed  map[string]int
	log        []string
}

func newFakeRenderer() *fakeRenderer {
	return &fakeRenderer{
		handles:   map[string]int{},
		extents:   map[string]Extent{},
		created:   map[string]int{},
		destroyed: map[string]int{},
	}
}

func (r *fakeRenderer) alloc() int {
	r.nextHandle++
	return r.nextHandle
}

func (r *fakeRenderer) register(c *Chain) {
	for _, name := range CreateOrder {
		name := name
		c.Register(name, func(e Extent) error {
			r.handles[name] = r.alloc()
			r.extents[name] = e
			r.created[name]++
			r.log = append(r.log, "create "+name)
			return nil
		}, func() {
			r.destroyed[name]++
			r.log = append(r.log, "destroy "+name)
		})
	}
	c.Register(StagePipelineLayout, nil, func() {
		r.destroyed[StagePipelineLayout]++
		r.log = append(r.log, "destroy "+StagePipelineLayout)
	})
	c.Register(StageDescriptorSets, func(e Extent) error {
		r.created[StageDescriptorSets]++
		r.log = append(r.log, "create "+StageDescriptorSets)
		return nil
	}, nil)
}

func TestChainRecreateRoundTrip(t *testing.T) {
	surface := &fakeSurface{sizes: [][2]int{{800, 600}}}
	idle := 0
	chain := NewChain(surface, func() error { idle++; return nil })
	r := newFakeRenderer()
	r.register(chain)
	require.NoError(t, chain.Validate())

	require.NoError(t, chain.Build())
	before := map[string]int{}
	for k, v := range r.handles {
		before[k] = v
	}
	assert.Equal(t, Extent{800, 600}, r.extents[StageFramebuffers])

	r.log = nil
	surface.sizes = [][2]int{{400, 300}}
	extent, err := chain.Recreate()
	require.NoError(t, err)
	assert.Equal(t, Extent{400, 300}, extent)
	assert.Equal(t, 1, idle)

	for _, name := range []string{StageFramebuffers, StagePipeline, StageColorResources, StageDepthResources} {
		assert.Equal(t, 1, r.destroyed[name], name)
		assert.Equal(t, 2, r.created[name], name)
		assert.Equal(t, Extent{400, 300}, r.extents[name], name)
		assert.NotEqual(t, before[name], r.handles[name], name)
	}
	assert.Equal(t, 1, r.destroyed[StagePipelineLayout])

	var want []string
	for _, name := range DestroyOrder {
		want = append(want, "destroy "+name)
	}
	for _, name := range CreateOrder {
		want = append(want, "create "+name)
	}
	assert.Equal(t, want, r.log)
}

func TestChainRecreateWaitsWhileMinimized(t *testing.T) {
	surface := &fakeSurface{sizes: [][2]int{{800, 600}}}
	chain := NewChain(surface, func() error { return nil })
	r := newFakeRenderer()
	r.register(chain)
	require.NoError(t, chain.Build())

	surface.sizes = [][2]int{{0, 0}, {0, 300}, {400, 300}}
	extent, err := chain.Recreate()
	require.NoError(t, err)
	assert.Equal(t, 2, surface.waits)
	assert.Equal(t, Extent{400, 300}, extent)
}

func TestChainBuildRejectsEmptySurface(t *testing.T) {
	chain := NewChain(&fakeSurface{sizes: [][2]int{{0, 0}}}, func() error { return nil })
	assert.Error(t, chain.Build())
}

func TestChainValidateReportsMissingStage(t *testing.T) {
	chain := NewChain(&fakeSurface{sizes: [][2]int{{1, 1}}}, func() error { return nil })
	chain.Register(StageSwapchain, func(Extent) error { return nil }, func() {})
	assert.Error(t, chain.Validate())
}

func TestChainCreateFailureStopsBuild(t *testing.T) {
	boom := errors.New("out of device memory")
	chain := NewChain(&fakeSurface{sizes: [][2]int{{10, 10}}}, func() error { return nil })
	r := newFakeRenderer()
	r.register(chain)
	chain.Register(StagePipeline, func(Extent) error { return boom }, func() {})

	err := chain.Build()
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 0, r.created[StageColorResources])
	assert.Equal(t, 1, r.created[StageRenderPass])

	// The stages built before the failure are still released.
	chain.Destroy()
	assert.Equal(t, 1, r.destroyed[StageRenderPass])
	assert.Equal(t, 1, r.destroyed[StageSwapchain])
}

func TestChainDestroyIsIdempotent(t *testing.T) {
	chain := NewChain(&fakeSurface{sizes: [][2]int{{10, 10}}}, func() error { return nil })
	r := newFakeRenderer()
	r.register(chain)
	require.NoError(t, chain.Build())

	chain.Destroy()
	chain.Destroy()
	assert.Equal(t, 1, r.destroyed[StageSwapchain])
}
