package frame

// MaxFramesInFlight is the number of frame slots. At most this many
// submissions can be outstanding on the GPU at once.
const MaxFramesInFlight = 2

// Status is the outcome of a swapchain acquire or present.
type Status int

const (
	StatusOK Status = iota
	// The swapchain still works but no longer matches the surface.
	StatusSuboptimal
	// The swapchain can no longer be used and must be rebuilt.
	StatusOutOfDate
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusSuboptimal:
		return "suboptimal"
	case StatusOutOfDate:
		return "out-of-date"
	default:
		return "unknown"
	}
}

// Backend is the GPU side of the frame loop. Slots are in
// [0, MaxFramesInFlight) and images in [0, ImageCount()).
type Backend interface {
	// WaitFence blocks until the fence of slot is signaled.
	WaitFence(slot int) error
	ResetFence(slot int) error
	// Acquire gets the next presentable image, signaling the slot's
	// image-available semaphore when it is ready.
	Acquire(slot int) (image uint32, status Status, err error)
	UpdateUniforms(image uint32, elapsed float64) error
	// Submit queues the image's command buffer. It waits on the slot's
	// image-available semaphore, signals render-finished and the slot fence.
	Submit(slot int, image uint32) error
	Present(slot int, image uint32) (Status, error)
	// Recreate rebuilds everything that depends on the swapchain.
	Recreate() error
	ImageCount() int
}

// Surface is the window as seen by the recreation protocol.
type Surface interface {
	FramebufferSize() (width, height int)
	// WaitEvents blocks until the window system delivers an event.
	WaitEvents()
}

type Extent struct {
	Width  uint32
	Height uint32
}
