package sim

// Event is a sim-to-shell notification. Payloads live in Data; the sim
// never waits on consumers, so an undrained queue just clears next tick.
type Event struct {
	Type EventType
	Data any
}

type EventType string

const (
	EventLanded        EventType = "landed"
	EventLeftSurface   EventType = "left_surface"
	EventJumped        EventType = "jumped"
	EventDied          EventType = "died"
	EventRespawned     EventType = "respawned"
	EventSequenceBegan EventType = "sequence_began"
	EventSequenceEnded EventType = "sequence_ended"
)

// LandedEvent is emitted on the tick the player hits a supporting plane,
// bounces included. Surface is zero for the baseline ground; Impact is the
// downward speed absorbed.
type LandedEvent struct {
	Surface SurfaceID
	Ordinal int
	Impact  float64
	Bounced bool
}

// LeftSurfaceEvent is emitted when the player stops being supported,
// whether by jumping or by the surface scrolling out from underfoot.
type LeftSurfaceEvent struct {
	Surface  SurfaceID
	Velocity float64
}

// JumpedEvent is emitted when a charge window expires and the impulse fires.
type JumpedEvent struct {
	JumpsUsed int
	Velocity  float64
}

// DiedEvent is emitted when the fall check trips.
type DiedEvent struct {
	X float64
	Y float64
}

// SequenceBeganEvent reports the shape of a freshly spawned hazard run.
type SequenceBeganEvent struct {
	Holes      int
	Checkpoint SurfaceID
}

// EventQueue is a simple FIFO queue.
type EventQueue struct {
	items []Event
}

// Push adds an event.
func (q *EventQueue) Push(evt Event) {
	if q == nil {
		return
	}
	q.items = append(q.items, evt)
}

// Drain returns all events and clears the queue.
func (q *EventQueue) Drain() []Event {
	if q == nil || len(q.items) == 0 {
		return nil
	}
	out := q.items
	q.items = nil
	return out
}
