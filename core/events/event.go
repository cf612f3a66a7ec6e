package events

// Event is the minimal shape a raise engine emits: anything carrying a type
// tag. Concrete payloads live with the engine that produces them.
type Event interface {
	EventType() string
}

// Emitter receives events as handlers commit. Hosts plug in an indexer or
// attribute sink here.
type Emitter interface {
	Emit(Event)
}

// NoopEmitter discards everything. Engines default to it so emission stays
// optional for callers that do not observe events.
type NoopEmitter struct{}

// Emit drops the event.
func (NoopEmitter) Emit(Event) {}
