package frame

import (
	"fmt"

	"github.com/spaghettifunk/meshview/engine/core"
)

const noSlot = -1

// Scheduler drives the acquire, submit and present cycle over a
// fixed ring of frame slots.
type Scheduler struct {
	backend Backend

	// index of the slot used by the next frame
	currentFrame int
	// frames presented so far
	frameCount uint64
	// slot whose fence guards each swapchain image, or noSlot
	imagesInFlight []int

	framebufferResized bool
}

func NewScheduler(backend Backend) *Scheduler {
	s := &Scheduler{backend: backend}
	s.resetImagesInFlight()
	return s
}

// FramebufferResized flags that the window changed size. The swapchain
// is rebuilt after the next present.
func (s *Scheduler) FramebufferResized() {
	s.framebufferResized = true
}

func (s *Scheduler) CurrentSlot() int {
	return s.currentFrame
}

func (s *Scheduler) FrameCount() uint64 {
	return s.frameCount
}

// DrawFrame renders and presents one frame. elapsed is the wall-clock
// time in seconds used for the uniform update. A stale swapchain is
// rebuilt without reporting an error; anything else is fatal.
func (s *Scheduler) DrawFrame(elapsed float64) error {
	slot := s.currentFrame

	if err := s.backend.WaitFence(slot); err != nil {
		return fmt.Errorf("failed to wait for frame slot %d: %w", slot, err)
	}

	image, status, err := s.backend.Acquire(slot)
	if err != nil {
		return fmt.Errorf("failed to acquire swapchain image: %w", err)
	}
	if status == StatusOutOfDate {
		core.LogDebug("swapchain out of date on acquire, recreating")
		return s.recreate()
	}

	if err := s.backend.UpdateUniforms(image, elapsed); err != nil {
		return fmt.Errorf("failed to update uniforms for image %d: %w", image, err)
	}

	// An earlier frame may still be rendering into this image.
	if owner := s.imagesInFlight[image]; owner != noSlot {
		if err := s.backend.WaitFence(owner); err != nil {
			return fmt.Errorf("failed to wait for image %d: %w", image, err)
		}
	}
	s.imagesInFlight[image] = slot

	if err := s.backend.ResetFence(slot); err != nil {
		return fmt.Errorf("failed to reset fence of slot %d: %w", slot, err)
	}
	if err := s.backend.Submit(slot, image); err != nil {
		return fmt.Errorf("failed to submit draw command buffer: %w", err)
	}

	status, err = s.backend.Present(slot, image)
	if err != nil {
		return fmt.Errorf("failed to present swapchain image: %w", err)
	}
	if status != StatusOK || s.framebufferResized {
		core.LogDebug("recreating swapchain after present (status %s, resized %t)", status, s.framebufferResized)
		if err := s.recreate(); err != nil {
			return err
		}
	}

	s.currentFrame = (s.currentFrame + 1) % MaxFramesInFlight
	s.frameCount++
	return nil
}

func (s *Scheduler) recreate() error {
	if err := s.backend.Recreate(); err != nil {
		return fmt.Errorf("failed to recreate swapchain: %w", err)
	}
	// Resizes reported while the rebuild waited on the window are
	// already covered by it.
	s.framebufferResized = false
	// The device is idle after a rebuild, so no image is in flight and
	// the image count may have changed.
	s.resetImagesInFlight()
	return nil
}

func (s *Scheduler) resetImagesInFlight() {
	n := s.backend.ImageCount()
	if cap(s.imagesInFlight) >= n {
		s.imagesInFlight = s.imagesInFlight[:n]
	} else {
		s.imagesInFlight = make([]int, n)
	}
	for i := range s.imagesInFlight {
		s.imagesInFlight[i] = noSlot
	}
}
