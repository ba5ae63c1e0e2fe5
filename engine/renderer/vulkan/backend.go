package vulkan

import (
	"fmt"
	"unsafe"

	vk "github.com/goki/vulkan"
	"github.com/spaghettifunk/meshview/engine/core"
	"github.com/spaghettifunk/meshview/engine/renderer/frame"
	"github.com/spaghettifunk/meshview/engine/renderer/metadata"
)

// Window is what the renderer needs from the window system.
type Window interface {
	frame.Surface
	InstanceProcAddr() unsafe.Pointer
	RequiredInstanceExtensions() []string
	CreateSurface(instance vk.Instance) (vk.Surface, error)
}

type RendererConfig struct {
	ApplicationName string
	Validation      bool
	Layers          []string
}

// Scene is the single textured mesh the renderer draws, plus the SPIR-V
// it is drawn with.
type Scene struct {
	Mesh           *metadata.MeshData
	Texture        *metadata.TextureData
	VertexShader   []uint32
	FragmentShader []uint32
}

// VulkanRenderer implements frame.Backend. Objects that depend on the
// swapchain are owned by a frame.Chain; the rest live from Initialize to
// Shutdown.
type VulkanRenderer struct {
	window  Window
	config  RendererConfig
	context *VulkanContext

	chain *frame.Chain

	// swapchain dependent
	swapchain      *VulkanSwapchain
	renderpass     *VulkanRenderpass
	pipeline       *VulkanPipeline
	colorImage     *VulkanImage
	depthImage     *VulkanImage
	framebuffers   []*VulkanFramebuffer
	uniformBuffers []*VulkanBuffer
	descriptorPool vk.DescriptorPool
	descriptorSets []vk.DescriptorSet
	commandBuffers []*VulkanCommandBuffer

	// swapchain independent
	descriptorSetLayout vk.DescriptorSetLayout
	geometry            *VulkanGeometry
	texture             *VulkanImage
	sampler             vk.Sampler
	vertexCode          []uint32
	fragmentCode        []uint32

	imageAvailableSemaphores [frame.MaxFramesInFlight]vk.Semaphore
	renderFinishedSemaphores [frame.MaxFramesInFlight]vk.Semaphore
	inFlightFences           [frame.MaxFramesInFlight]*VulkanFence
}

func New(window Window, config RendererConfig) *VulkanRenderer {
	return &VulkanRenderer{
		window: window,
		config: config,
		context: &VulkanContext{
			Allocator: nil,
		},
	}
}

func (vr *VulkanRenderer) Initialize(scene Scene) error {
	procAddr := vr.window.InstanceProcAddr()
	if procAddr == nil {
		err := fmt.Errorf("GetInstanceProcAddress is nil")
		core.LogError(err.Error())
		return err
	}
	vk.SetGetInstanceProcAddr(procAddr)
	if err := vk.Init(); err != nil {
		core.LogError("failed to initialize vk: %s", err)
		return err
	}

	if err := InstanceCreate(vr.context, InstanceConfig{
		ApplicationName: vr.config.ApplicationName,
		Extensions:      vr.window.RequiredInstanceExtensions(),
		Validation:      vr.config.Validation,
		Layers:          vr.config.Layers,
	}); err != nil {
		return err
	}

	core.LogDebug("Creating Vulkan surface...")
	surface, err := vr.window.CreateSurface(vr.context.Instance)
	if err != nil {
		core.LogError("Failed to create platform surface!")
		return err
	}
	vr.context.Surface = surface
	core.LogDebug("Vulkan surface created.")

	if err := DeviceCreate(vr.context); err != nil {
		core.LogError("Failed to create device!")
		return err
	}

	if err := vr.createSceneResources(scene); err != nil {
		return err
	}
	if err := vr.createSyncObjects(); err != nil {
		return err
	}

	vr.chain = frame.NewChain(vr.window, vr.context.Device.WaitIdle)
	vr.registerChain()
	if err := vr.chain.Validate(); err != nil {
		return err
	}
	if err := vr.chain.Build(); err != nil {
		return err
	}

	core.LogInfo("Vulkan renderer initialized successfully.")
	return nil
}

func (vr *VulkanRenderer) createSceneResources(scene Scene) error {
	vr.vertexCode = scene.VertexShader
	vr.fragmentCode = scene.FragmentShader

	layout, err := DescriptorSetLayoutCreate(vr.context)
	if err != nil {
		return err
	}
	vr.descriptorSetLayout = layout

	geometry, err := GeometryUpload(vr.context, scene.Mesh)
	if err != nil {
		return fmt.Errorf("failed to upload mesh: %w", err)
	}
	vr.geometry = geometry

	texture, err := CreateTextureImage(vr.context, uint32(scene.Texture.Width), uint32(scene.Texture.Height), scene.Texture.Pixels)
	if err != nil {
		return fmt.Errorf("failed to upload texture: %w", err)
	}
	vr.texture = texture

	sampler, err := SamplerCreate(vr.context, texture.MipLevels)
	if err != nil {
		return err
	}
	vr.sampler = sampler
	return nil
}

func (vr *VulkanRenderer) createSyncObjects() error {
	semaphoreCreateInfo := vk.SemaphoreCreateInfo{
		SType: vk.StructureTypeSemaphoreCreateInfo,
	}
	for i := 0; i < frame.MaxFramesInFlight; i++ {
		if err := resultError(vk.CreateSemaphore(vr.context.Device.LogicalDevice, &semaphoreCreateInfo, vr.context.Allocator, &vr.imageAvailableSemaphores[i]), "vkCreateSemaphore"); err != nil {
			return err
		}
		if err := resultError(vk.CreateSemaphore(vr.context.Device.LogicalDevice, &semaphoreCreateInfo, vr.context.Allocator, &vr.renderFinishedSemaphores[i]), "vkCreateSemaphore"); err != nil {
			return err
		}

		// Fences start signaled so the first wait on each slot returns.
		f, err := NewFence(vr.context, true)
		if err != nil {
			return err
		}
		vr.inFlightFences[i] = f
	}
	return nil
}

type chainStage struct {
	name    string
	create  frame.CreateFunc
	destroy frame.DestroyFunc
}

// chainStages lists everything rebuilt with the swapchain. Geometry, the
// texture and its sampler, the descriptor set layout, the command pool and
// the sync objects are owned by the renderer and stay out of it.
func (vr *VulkanRenderer) chainStages() []chainStage {
	return []chainStage{
		{frame.StageSwapchain, vr.createSwapchain, vr.destroySwapchain},
		{frame.StageImageViews, vr.createImageViews, vr.destroyImageViews},
		{frame.StageRenderPass, vr.createRenderpass, vr.destroyRenderpass},
		{frame.StagePipeline, vr.createPipeline, vr.destroyPipeline},
		{frame.StagePipelineLayout, nil, vr.destroyPipelineLayout},
		{frame.StageColorResources, vr.createColorResources, vr.destroyColorResources},
		{frame.StageDepthResources, vr.createDepthResources, vr.destroyDepthResources},
		{frame.StageFramebuffers, vr.createFramebuffers, vr.destroyFramebuffers},
		{frame.StageUniformBuffers, vr.createUniformBuffers, vr.destroyUniformBuffers},
		{frame.StageDescriptorPool, vr.createDescriptorPool, vr.destroyDescriptorPool},
		{frame.StageDescriptorSets, vr.createDescriptorSets, nil},
		{frame.StageCommandBuffers, vr.createCommandBuffers, vr.destroyCommandBuffers},
	}
}

func (vr *VulkanRenderer) registerChain() {
	for _, s := range vr.chainStages() {
		vr.chain.Register(s.name, s.create, s.destroy)
	}
}

func (vr *VulkanRenderer) createSwapchain(extent frame.Extent) error {
	sc, err := SwapchainCreate(vr.context, extent)
	if err != nil {
		return err
	}
	vr.swapchain = sc
	return nil
}

func (vr *VulkanRenderer) destroySwapchain() {
	if vr.swapchain != nil {
		vr.swapchain.Destroy(vr.context)
		vr.swapchain = nil
	}
}

func (vr *VulkanRenderer) createImageViews(frame.Extent) error {
	return vr.swapchain.CreateViews(vr.context)
}

func (vr *VulkanRenderer) destroyImageViews() {
	if vr.swapchain != nil {
		vr.swapchain.DestroyViews(vr.context)
	}
}

func (vr *VulkanRenderer) createRenderpass(frame.Extent) error {
	rp, err := RenderpassCreate(vr.context, vr.swapchain.ImageFormat.Format, vr.context.Device.DepthFormat, vr.context.MSAASamples, vr.swapchain.Extent)
	if err != nil {
		return err
	}
	vr.renderpass = rp
	return nil
}

func (vr *VulkanRenderer) destroyRenderpass() {
	if vr.renderpass != nil {
		vr.renderpass.Destroy(vr.context)
		vr.renderpass = nil
	}
}

func (vr *VulkanRenderer) createPipeline(frame.Extent) error {
	pipeline, err := NewGraphicsPipeline(vr.context, &VulkanPipelineConfig{
		Renderpass:           vr.renderpass,
		Extent:               vr.swapchain.Extent,
		Samples:              vr.context.MSAASamples,
		DescriptorSetLayouts: []vk.DescriptorSetLayout{vr.descriptorSetLayout},
		VertexCode:           vr.vertexCode,
		FragmentCode:         vr.fragmentCode,
	})
	if err != nil {
		return err
	}
	vr.pipeline = pipeline
	return nil
}

func (vr *VulkanRenderer) destroyPipeline() {
	if vr.pipeline != nil {
		vr.pipeline.DestroyHandle(vr.context)
	}
}

func (vr *VulkanRenderer) destroyPipelineLayout() {
	if vr.pipeline != nil {
		vr.pipeline.DestroyLayout(vr.context)
		vr.pipeline = nil
	}
}

func (vr *VulkanRenderer) createColorResources(frame.Extent) error {
	image, err := ImageCreate(vr.context, VulkanImageConfig{
		Width:     vr.swapchain.Extent.Width,
		Height:    vr.swapchain.Extent.Height,
		MipLevels: 1,
		Samples:   vr.context.MSAASamples,
		Format:    vr.swapchain.ImageFormat.Format,
		Tiling:    vk.ImageTilingOptimal,
		Usage: vk.ImageUsageFlags(vk.ImageUsageTransientAttachmentBit) |
			vk.ImageUsageFlags(vk.ImageUsageColorAttachmentBit),
		Properties: vk.MemoryPropertyFlags(vk.MemoryPropertyDeviceLocalBit),
		ViewAspect: vk.ImageAspectFlags(vk.ImageAspectColorBit),
	})
	if err != nil {
		return err
	}
	vr.colorImage = image
	return nil
}

func (vr *VulkanRenderer) destroyColorResources() {
	if vr.colorImage != nil {
		vr.colorImage.Destroy(vr.context)
		vr.colorImage = nil
	}
}

func (vr *VulkanRenderer) createDepthResources(frame.Extent) error {
	image, err := ImageCreate(vr.context, VulkanImageConfig{
		Width:      vr.swapchain.Extent.Width,
		Height:     vr.swapchain.Extent.Height,
		MipLevels:  1,
		Samples:    vr.context.MSAASamples,
		Format:     vr.context.Device.DepthFormat,
		Tiling:     vk.ImageTilingOptimal,
		Usage:      vk.ImageUsageFlags(vk.ImageUsageDepthStencilAttachmentBit),
		Properties: vk.MemoryPropertyFlags(vk.MemoryPropertyDeviceLocalBit),
		ViewAspect: vk.ImageAspectFlags(vk.ImageAspectDepthBit),
	})
	if err != nil {
		return err
	}
	vr.depthImage = image
	return nil
}

func (vr *VulkanRenderer) destroyDepthResources() {
	if vr.depthImage != nil {
		vr.depthImage.Destroy(vr.context)
		vr.depthImage = nil
	}
}

func (vr *VulkanRenderer) createFramebuffers(frame.Extent) error {
	vr.framebuffers = make([]*VulkanFramebuffer, len(vr.swapchain.Views))
	for i, view := range vr.swapchain.Views {
		attachments := []vk.ImageView{vr.colorImage.View, vr.depthImage.View, view}
		fb, err := FramebufferCreate(vr.context, vr.renderpass, vr.swapchain.Extent.Width, vr.swapchain.Extent.Height, attachments)
		if err != nil {
			return err
		}
		vr.framebuffers[i] = fb
	}
	return nil
}

func (vr *VulkanRenderer) destroyFramebuffers() {
	for _, fb := range vr.framebuffers {
		if fb != nil {
			fb.Destroy(vr.context)
		}
	}
	vr.framebuffers = nil
}

func (vr *VulkanRenderer) createUniformBuffers(frame.Extent) error {
	vr.uniformBuffers = make([]*VulkanBuffer, vr.swapchain.ImageCount())
	for i := range vr.uniformBuffers {
		buffer, err := BufferCreate(vr.context, metadata.UniformBufferObjectSize,
			vk.BufferUsageFlags(vk.BufferUsageUniformBufferBit),
			vk.MemoryPropertyFlags(vk.MemoryPropertyHostVisibleBit|vk.MemoryPropertyHostCoherentBit))
		if err != nil {
			return err
		}
		vr.uniformBuffers[i] = buffer
	}
	return nil
}

func (vr *VulkanRenderer) destroyUniformBuffers() {
	for _, buffer := range vr.uniformBuffers {
		if buffer != nil {
			buffer.Destroy(vr.context)
		}
	}
	vr.uniformBuffers = nil
}

func (vr *VulkanRenderer) createDescriptorPool(frame.Extent) error {
	pool, err := DescriptorPoolCreate(vr.context, uint32(vr.swapchain.ImageCount()))
	if err != nil {
		return err
	}
	vr.descriptorPool = pool
	return nil
}

func (vr *VulkanRenderer) destroyDescriptorPool() {
	DescriptorPoolDestroy(vr.context, &vr.descriptorPool)
	vr.descriptorSets = nil
}

func (vr *VulkanRenderer) createDescriptorSets(frame.Extent) error {
	sets, err := DescriptorSetsAllocate(vr.context, vr.descriptorPool, vr.descriptorSetLayout, vr.uniformBuffers, vr.texture.View, vr.sampler)
	if err != nil {
		return err
	}
	vr.descriptorSets = sets
	return nil
}

// createCommandBuffers records one draw per swapchain image. The
// buffers are replayed every frame without re-recording.
func (vr *VulkanRenderer) createCommandBuffers(frame.Extent) error {
	buffers, err := CommandBuffersAllocate(vr.context, vr.context.Device.GraphicsCommandPool, len(vr.framebuffers))
	if err != nil {
		return err
	}
	vr.commandBuffers = buffers

	for i, cb := range vr.commandBuffers {
		if err := cb.Begin(false, false, false); err != nil {
			return err
		}
		vr.renderpass.Begin(cb, vr.framebuffers[i].Handle)
		vr.pipeline.Bind(cb, vk.PipelineBindPointGraphics)
		vk.CmdBindVertexBuffers(cb.Handle, 0, 1, []vk.Buffer{vr.geometry.VertexBuffer.Handle}, []vk.DeviceSize{0})
		vk.CmdBindIndexBuffer(cb.Handle, vr.geometry.IndexBuffer.Handle, 0, vk.IndexTypeUint32)
		vk.CmdBindDescriptorSets(cb.Handle, vk.PipelineBindPointGraphics, vr.pipeline.PipelineLayout, 0, 1, []vk.DescriptorSet{vr.descriptorSets[i]}, 0, nil)
		vk.CmdDrawIndexed(cb.Handle, vr.geometry.IndexCount, 1, 0, 0, 0)
		vr.renderpass.End(cb)
		if err := cb.End(); err != nil {
			return err
		}
	}
	return nil
}

func (vr *VulkanRenderer) destroyCommandBuffers() {
	CommandBuffersFree(vr.context, vr.context.Device.GraphicsCommandPool, vr.commandBuffers)
	vr.commandBuffers = nil
}

func (vr *VulkanRenderer) WaitFence(slot int) error {
	return vr.inFlightFences[slot].FenceWait(vr.context, vk.MaxUint64)
}

func (vr *VulkanRenderer) ResetFence(slot int) error {
	return vr.inFlightFences[slot].FenceReset(vr.context)
}

func (vr *VulkanRenderer) Acquire(slot int) (uint32, frame.Status, error) {
	return vr.swapchain.AcquireNextImage(vr.context, vr.imageAvailableSemaphores[slot])
}

func (vr *VulkanRenderer) UpdateUniforms(image uint32, elapsed float64) error {
	ubo := metadata.NewUniformBufferObject(elapsed, vr.swapchain.Extent.Width, vr.swapchain.Extent.Height)
	return vr.uniformBuffers[image].LoadData(vr.context, 0, ubo.Bytes())
}

func (vr *VulkanRenderer) Submit(slot int, image uint32) error {
	cb := vr.commandBuffers[image]
	submitInfo := vk.SubmitInfo{
		SType:                vk.StructureTypeSubmitInfo,
		WaitSemaphoreCount:   1,
		PWaitSemaphores:      []vk.Semaphore{vr.imageAvailableSemaphores[slot]},
		PWaitDstStageMask:    []vk.PipelineStageFlags{vk.PipelineStageFlags(vk.PipelineStageColorAttachmentOutputBit)},
		CommandBufferCount:   1,
		PCommandBuffers:      []vk.CommandBuffer{cb.Handle},
		SignalSemaphoreCount: 1,
		PSignalSemaphores:    []vk.Semaphore{vr.renderFinishedSemaphores[slot]},
	}
	fence := vr.inFlightFences[slot]
	if err := resultError(vk.QueueSubmit(vr.context.Device.GraphicsQueue, 1, []vk.SubmitInfo{submitInfo}, fence.Handle), "vkQueueSubmit"); err != nil {
		return err
	}
	fence.IsSignaled = false
	cb.UpdateSubmitted()
	return nil
}

func (vr *VulkanRenderer) Present(slot int, image uint32) (frame.Status, error) {
	return vr.swapchain.Present(vr.context, vr.context.Device.PresentQueue, vr.renderFinishedSemaphores[slot], image)
}

func (vr *VulkanRenderer) Recreate() error {
	extent, err := vr.chain.Recreate()
	if err != nil {
		return err
	}
	core.LogInfo("swapchain recreated at %dx%d with %d images", extent.Width, extent.Height, vr.ImageCount())
	return nil
}

func (vr *VulkanRenderer) ImageCount() int {
	if vr.swapchain == nil {
		return 0
	}
	return vr.swapchain.ImageCount()
}

// SetShaders replaces the SPIR-V used the next time the pipeline is
// built. The running pipeline is not touched.
func (vr *VulkanRenderer) SetShaders(vertex, fragment []uint32) {
	if len(vertex) > 0 {
		vr.vertexCode = vertex
	}
	if len(fragment) > 0 {
		vr.fragmentCode = fragment
	}
}

func (vr *VulkanRenderer) WaitIdle() error {
	if vr.context.Device == nil || vr.context.Device.LogicalDevice == nil {
		return nil
	}
	return vr.context.Device.WaitIdle()
}

// Shutdown destroys everything in reverse creation order. It is safe to
// call after a partial Initialize.
func (vr *VulkanRenderer) Shutdown() error {
	err := vr.WaitIdle()

	if vr.chain != nil {
		vr.chain.Destroy()
	}

	if vr.context.Device != nil && vr.context.Device.LogicalDevice != nil {
		for i := 0; i < frame.MaxFramesInFlight; i++ {
			if vr.imageAvailableSemaphores[i] != vk.NullSemaphore {
				vk.DestroySemaphore(vr.context.Device.LogicalDevice, vr.imageAvailableSemaphores[i], vr.context.Allocator)
				vr.imageAvailableSemaphores[i] = vk.NullSemaphore
			}
			if vr.renderFinishedSemaphores[i] != vk.NullSemaphore {
				vk.DestroySemaphore(vr.context.Device.LogicalDevice, vr.renderFinishedSemaphores[i], vr.context.Allocator)
				vr.renderFinishedSemaphores[i] = vk.NullSemaphore
			}
			if vr.inFlightFences[i] != nil {
				vr.inFlightFences[i].FenceDestroy(vr.context)
				vr.inFlightFences[i] = nil
			}
		}

		SamplerDestroy(vr.context, &vr.sampler)
		if vr.texture != nil {
			vr.texture.Destroy(vr.context)
			vr.texture = nil
		}
		if vr.geometry != nil {
			vr.geometry.Destroy(vr.context)
			vr.geometry = nil
		}
		DescriptorSetLayoutDestroy(vr.context, &vr.descriptorSetLayout)
	}

	core.LogDebug("Destroying Vulkan device...")
	DeviceDestroy(vr.context)

	if vr.context.Surface != vk.NullSurface {
		core.LogDebug("Destroying Vulkan surface...")
		vk.DestroySurface(vr.context.Instance, vr.context.Surface, vr.context.Allocator)
		vr.context.Surface = vk.NullSurface
	}

	InstanceDestroy(vr.context)
	return err
}
