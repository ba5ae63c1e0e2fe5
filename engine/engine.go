package engine

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/spaghettifunk/meshview/engine/assets"
	"github.com/spaghettifunk/meshview/engine/core"
	"github.com/spaghettifunk/meshview/engine/platform"
	"github.com/spaghettifunk/meshview/engine/renderer/frame"
	"github.com/spaghettifunk/meshview/engine/renderer/vulkan"
)

type Stage uint8

const (
	// Engine is in an uninitialized state
	EngineStageUninitialized Stage = iota
	// Engine is currently initializing
	EngineStageInitializing
	// Engine initialization is complete
	EngineStageInitialized
	// Engine is currently running
	EngineStageRunning
	// Engine is in the process of shutting down
	EngineStageShuttingDown
	// Engine released every resource
	EngineStageShutdown
)

type Engine struct {
	currentStage Stage
	config       *core.Config
	isRunning    bool
	isSuspended  bool
	platform     *platform.Platform
	assetManager *assets.AssetManager
	renderer     *vulkan.VulkanRenderer
	scheduler    *frame.Scheduler
	clock        *core.Clock
	metrics      *core.Metrics
	lastTime     float64

	// set from other goroutines, read by the loop
	quitRequested atomic.Bool
}

func New(config *core.Config) (*Engine, error) {
	if err := config.Validate(); err != nil {
		core.LogError(err.Error())
		return nil, err
	}

	return &Engine{
		currentStage: EngineStageUninitialized,
		config:       config,
		clock:        core.NewClock(),
		metrics:      core.NewMetrics(),
		platform:     platform.New(),
		assetManager: assets.NewAssetManager(),
		isRunning:    false,
		isSuspended:  false,
	}, nil
}

// Initialize opens the window, loads the model, texture and shaders and
// brings up the renderer. ctx bounds the asset loading.
func (e *Engine) Initialize(ctx context.Context) error {
	e.currentStage = EngineStageInitializing

	core.EventInitialize()
	core.EventRegister(core.EVENT_CODE_APPLICATION_QUIT, e, e.onEvent)
	core.EventRegister(core.EVENT_CODE_KEY_PRESSED, e, e.onKey)
	core.EventRegister(core.EVENT_CODE_RESIZED, e, e.onResized)

	window := e.config.Window
	if err := e.platform.Startup(window.Title, window.Width, window.Height); err != nil {
		return err
	}

	assetsConfig := e.config.Assets
	mesh, texture, err := e.assetManager.LoadModel(ctx, assetsConfig.Model, assetsConfig.Texture)
	if err != nil {
		return err
	}
	vertexShader, err := e.assetManager.LoadShader(assetsConfig.VertexShader)
	if err != nil {
		return err
	}
	fragmentShader, err := e.assetManager.LoadShader(assetsConfig.FragmentShader)
	if err != nil {
		return err
	}

	e.renderer = vulkan.New(e.platform, vulkan.RendererConfig{
		ApplicationName: window.Title,
		Validation:      e.config.Validation.Enabled,
		Layers:          e.config.Validation.Layers,
	})
	if err := e.renderer.Initialize(vulkan.Scene{
		Mesh:           mesh,
		Texture:        texture,
		VertexShader:   vertexShader,
		FragmentShader: fragmentShader,
	}); err != nil {
		return fmt.Errorf("failed to initialize renderer: %w", err)
	}
	e.scheduler = frame.NewScheduler(e.renderer)

	if assetsConfig.WatchShaders {
		if err := e.assetManager.Watch(assetsConfig.VertexShader, assetsConfig.FragmentShader); err != nil {
			core.LogWarn("shader hot reload disabled: %s", err)
		}
	}

	e.currentStage = EngineStageInitialized
	return nil
}

// Run drives frames until the window closes or a quit is requested. It
// waits for the device to go idle before returning.
func (e *Engine) Run() error {
	if e.currentStage != EngineStageInitialized {
		return fmt.Errorf("engine cannot run from stage %d", e.currentStage)
	}
	e.currentStage = EngineStageRunning
	e.isRunning = true

	e.clock.Start()
	e.clock.Update()
	e.lastTime = e.clock.Elapsed()

	for e.isRunning {
		if !e.platform.PumpMessages() || e.quitRequested.Load() {
			e.isRunning = false
			break
		}

		if e.isSuspended {
			// Nothing to draw into; sleep until the window changes.
			e.platform.WaitEvents()
			continue
		}

		e.reloadChangedShaders()

		e.clock.Update()
		currentTime := e.clock.Elapsed()
		delta := currentTime - e.lastTime

		if err := e.scheduler.DrawFrame(currentTime); err != nil {
			e.isRunning = false
			return err
		}

		if e.metrics.Update(delta) {
			core.LogDebug("FPS: %.0f (%.2fms avg frame time)", e.metrics.FPS(), e.metrics.FrameTime())
		}
		e.lastTime = currentTime
	}

	return e.renderer.WaitIdle()
}

// RequestQuit asks the loop to stop after the current frame. Safe to
// call from any goroutine.
func (e *Engine) RequestQuit() {
	e.quitRequested.Store(true)
	e.platform.PostEmptyEvent()
}

// Shutdown releases everything Initialize created, in reverse order.
// It tolerates a partially initialized engine.
func (e *Engine) Shutdown() error {
	if e.currentStage == EngineStageShutdown {
		return nil
	}
	e.currentStage = EngineStageShuttingDown

	var firstErr error
	if e.renderer != nil {
		if err := e.renderer.Shutdown(); err != nil {
			firstErr = err
		}
		e.renderer = nil
	}
	if err := e.assetManager.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	e.platform.Shutdown()

	core.EventUnregister(core.EVENT_CODE_APPLICATION_QUIT, e)
	core.EventUnregister(core.EVENT_CODE_KEY_PRESSED, e)
	core.EventUnregister(core.EVENT_CODE_RESIZED, e)
	core.EventShutdown()

	e.currentStage = EngineStageShutdown
	core.LogInfo("engine shut down")
	return firstErr
}

// reloadChangedShaders rebuilds the pipeline when a watched shader file
// changed. A shader that fails to load keeps the running pipeline.
func (e *Engine) reloadChangedShaders() {
	select {
	case path := <-e.assetManager.Changes():
		core.LogInfo("shader %s changed, reloading", path)
		vertexShader, err := e.assetManager.LoadShader(e.config.Assets.VertexShader)
		if err != nil {
			core.LogWarn("keeping current shaders: %s", err)
			return
		}
		fragmentShader, err := e.assetManager.LoadShader(e.config.Assets.FragmentShader)
		if err != nil {
			core.LogWarn("keeping current shaders: %s", err)
			return
		}
		e.renderer.SetShaders(vertexShader, fragmentShader)
		e.scheduler.FramebufferResized()
	default:
	}
}

func (e *Engine) onEvent(code core.SystemEventCode, sender interface{}, listener interface{}, data core.EventContext) bool {
	switch code {
	case core.EVENT_CODE_APPLICATION_QUIT:
		core.LogInfo("EVENT_CODE_APPLICATION_QUIT received, shutting down.")
		e.isRunning = false
		return true
	}
	return false
}

func (e *Engine) onKey(code core.SystemEventCode, sender interface{}, listener interface{}, data core.EventContext) bool {
	keyCode := data.Data.U32[0]
	if keyCode == core.KEY_ESCAPE {
		e.platform.RequestClose()
		core.EventFire(core.EVENT_CODE_APPLICATION_QUIT, nil, core.EventContext{})
		return true
	}
	return false
}

func (e *Engine) onResized(code core.SystemEventCode, sender interface{}, listener interface{}, data core.EventContext) bool {
	width := data.Data.U32[0]
	height := data.Data.U32[1]

	if width == 0 || height == 0 {
		core.LogInfo("Window minimized, suspending application.")
		e.isSuspended = true
		return true
	}
	if e.isSuspended {
		core.LogInfo("Window restored, resuming application.")
		e.isSuspended = false
	}
	if e.scheduler != nil {
		e.scheduler.FramebufferResized()
	}
	return false
}
