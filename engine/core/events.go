package core

// System internal event codes. Application should use codes beyond 255.
type SystemEventCode int

const (
	// Shuts the application down on the next frame.
	EVENT_CODE_APPLICATION_QUIT SystemEventCode = 0x01

	// A clip wrapped around to its opposite boundary (Loop policy).
	/* Context usage:
	 * clip name = data.Clip
	 * repeat count = data.RepeatCount
	 */
	EVENT_CODE_ANIMATION_LOOPED SystemEventCode = 0x10

	// A clip changed direction at a boundary (PingPong policy).
	EVENT_CODE_ANIMATION_REVERSED SystemEventCode = 0x11

	// A clip froze on its boundary frame (Pause policy).
	EVENT_CODE_ANIMATION_HELD SystemEventCode = 0x12

	// Playback ended, either by Stop policy or by exhausting the repeat limit.
	EVENT_CODE_ANIMATION_STOPPED SystemEventCode = 0x13

	// An asset backing a shape was reloaded from disk.
	/* Context usage:
	 * path = data.Path
	 */
	EVENT_CODE_ASSET_RELOADED SystemEventCode = 0x20

	MAX_EVENT_CODE SystemEventCode = 0xFF
)

// This should be more than enough codes...
const MAX_MESSAGE_CODES = 16384

type EventContext struct {
	// The id of the shape that raised the event, if any.
	Sender      string
	Clip        string
	Path        string
	Frame       int
	RepeatCount int
}

// Should return true if handled.
type FnOnEvent func(code SystemEventCode, listener interface{}, data EventContext) bool

type registeredEvent struct {
	listener interface{}
	callback FnOnEvent
}

// EventSystem dispatches events synchronously on the calling goroutine.
type EventSystem struct {
	registered map[SystemEventCode][]*registeredEvent
}

func NewEventSystem() *EventSystem {
	return &EventSystem{
		registered: make(map[SystemEventCode][]*registeredEvent),
	}
}

func (es *EventSystem) Shutdown() error {
	// Drop listeners. Objects pointed to should be destroyed on their own.
	es.registered = make(map[SystemEventCode][]*registeredEvent)
	return nil
}

/**
 * Register to listen for when events are sent with the provided code. Events with duplicate
 * listeners will not be registered again and will cause this to return false.
 * @param code The event code to listen for.
 * @param listener A listener instance. Can be nil.
 * @param onEvent The callback to be invoked when the event code is fired.
 * @returns true if the event is successfully registered; otherwise false.
 */
func (es *EventSystem) Register(code SystemEventCode, listener interface{}, onEvent FnOnEvent) bool {
	if code < 0 || code >= MAX_MESSAGE_CODES || onEvent == nil {
		return false
	}
	for _, e := range es.registered[code] {
		if e.listener == listener {
			LogWarn("listener already registered for event code %d", code)
			return false
		}
	}
	es.registered[code] = append(es.registered[code], &registeredEvent{
		listener: listener,
		callback: onEvent,
	})
	return true
}

// Unregister removes the listener for the given code. Returns false if it was not found.
func (es *EventSystem) Unregister(code SystemEventCode, listener interface{}) bool {
	events := es.registered[code]
	for i, e := range events {
		if e.listener == listener {
			es.registered[code] = append(events[:i], events[i+1:]...)
			return true
		}
	}
	// Not found.
	return false
}

/**
 * Fires an event to listeners of the given code. If an event handler returns
 * true, the event is considered handled and is not passed on to any more listeners.
 * @returns true if handled, otherwise false.
 */
func (es *EventSystem) Fire(code SystemEventCode, data EventContext) bool {
	for _, e := range es.registered[code] {
		if e.callback(code, e.listener, data) {
			// Message has been handled, do not send to other listeners.
			return true
		}
	}
	return false
}
