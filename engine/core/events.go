package core

import "sync"

type EventContext struct {
	Data struct {
		I32 [4]int32
		U32 [4]uint32
		F32 [4]float32
	}
}

// System internal event codes. Application should use codes beyond 255.
type SystemEventCode int

const (
	// Shuts the application down on the next frame.
	EVENT_CODE_APPLICATION_QUIT SystemEventCode = 0x01

	// Keyboard key pressed.
	/* Context usage:
	 * key_code = data.U32[0]
	 */
	EVENT_CODE_KEY_PRESSED SystemEventCode = 0x02

	// Keyboard key released.
	/* Context usage:
	 * key_code = data.U32[0]
	 */
	EVENT_CODE_KEY_RELEASED SystemEventCode = 0x03

	// Framebuffer resized from the OS.
	/* Context usage:
	 * width = data.U32[0]
	 * height = data.U32[1]
	 */
	EVENT_CODE_RESIZED SystemEventCode = 0x08

	MAX_EVENT_CODE SystemEventCode = 0xFF
)

// Key codes carried by key events. Values match GLFW.
const (
	KEY_ESCAPE uint32 = 256
)

type registeredEvent struct {
	listener interface{}
	callback FnOnEvent
}

type eventSystemState struct {
	registered [MAX_EVENT_CODE + 1][]*registeredEvent
}

var (
	onceEvent  sync.Once
	eventState *eventSystemState
)

// Should return true if handled.
type FnOnEvent func(code SystemEventCode, sender interface{}, listener interface{}, data EventContext) bool

// EventInitialize clears every registration. Events are dispatched
// synchronously on the caller's goroutine.
func EventInitialize() {
	onceEvent.Do(func() {
		eventState = &eventSystemState{}
	})
	for i := range eventState.registered {
		eventState.registered[i] = nil
	}
}

func EventShutdown() {
	if eventState == nil {
		return
	}
	for i := range eventState.registered {
		eventState.registered[i] = nil
	}
}

// EventRegister adds a listener for code. A listener can only be
// registered once per code; a duplicate returns false.
func EventRegister(code SystemEventCode, listener interface{}, onEvent FnOnEvent) bool {
	if eventState == nil || code > MAX_EVENT_CODE {
		return false
	}
	for _, e := range eventState.registered[code] {
		if e.listener == listener {
			LogWarn("listener already registered for event code %d", code)
			return false
		}
	}
	eventState.registered[code] = append(eventState.registered[code], &registeredEvent{
		listener: listener,
		callback: onEvent,
	})
	return true
}

func EventUnregister(code SystemEventCode, listener interface{}) bool {
	if eventState == nil || code > MAX_EVENT_CODE {
		return false
	}
	events := eventState.registered[code]
	for i, e := range events {
		if e.listener == listener {
			eventState.registered[code] = append(events[:i], events[i+1:]...)
			return true
		}
	}
	return false
}

// EventFire calls listeners in registration order until one reports the
// event as handled.
func EventFire(code SystemEventCode, sender interface{}, context EventContext) bool {
	if eventState == nil || code > MAX_EVENT_CODE {
		return false
	}
	for _, e := range eventState.registered[code] {
		if e.callback(code, sender, e.listener, context) {
			return true
		}
	}
	return false
}
