package translator

// Event is a sealed interface representing a streaming event.
// Events are purely semantic. Transport/protocol errors come from
// Next()'s error return, not from events.
// The unexported marker method prevents external implementations.
type Event interface {
	event()
}

// EventTextDelta represents a text content delta.
type EventTextDelta struct {
	Delta string
}

func (EventTextDelta) event() {}

// EventThinkingDelta represents a thinking content delta. Thinking text is
// never part of the translated output; consumers may surface it as progress.
type EventThinkingDelta struct {
	Delta string
}

func (EventThinkingDelta) event() {}

// Interface compliance checks.
var (
	_ Event = EventTextDelta{}
	_ Event = EventThinkingDelta{}
)
