package datatable

// EventKind identifies an ambient event that moves a filter trigger.
type EventKind int

const (
	EventResize EventKind = iota
	EventWindowScroll
	EventContainerScroll
)

var trackedEvents = []EventKind{EventResize, EventWindowScroll, EventContainerScroll}

func (k EventKind) String() string {
	switch k {
	case EventResize:
		return "resize"
	case EventWindowScroll:
		return "window-scroll"
	case EventContainerScroll:
		return "container-scroll"
	default:
		return "unknown"
	}
}

// EventSource attaches listeners for ambient UI events. The returned func
// detaches the listener; calling it more than once is harmless.
type EventSource interface {
	Listen(kind EventKind, fn func()) (remove func())
}

type listener struct {
	id int
	fn func()
}

// EventBus is an in-memory EventSource. Hosts forward their resize and
// scroll events to Emit. It is not safe for concurrent use; all calls are
// expected on the UI goroutine.
type EventBus struct {
	next      int
	listeners map[EventKind][]listener
}

// NewEventBus returns an empty bus.
func NewEventBus() *EventBus {
	return &EventBus{listeners: make(map[EventKind][]listener)}
}

// Listen implements EventSource.
func (b *EventBus) Listen(kind EventKind, fn func()) func() {
	b.next++
	id := b.next
	b.listeners[kind] = append(b.listeners[kind], listener{id: id, fn: fn})
	removed := false
	return func() {
		if removed {
			return
		}
		removed = true
		current := b.listeners[kind]
		for i, l := range current {
			if l.id == id {
				b.listeners[kind] = append(current[:i:i], current[i+1:]...)
				break
			}
		}
	}
}

// Emit runs every listener registered for kind.
func (b *EventBus) Emit(kind EventKind) {
	snapshot := append([]listener(nil), b.listeners[kind]...)
	for _, l := range snapshot {
		l.fn()
	}
}

// Listeners reports how many listeners are attached for kind.
func (b *EventBus) Listeners(kind EventKind) int {
	return len(b.listeners[kind])
}
