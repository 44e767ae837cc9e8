package translator_test

import (
	"testing"

	"github.com/2389-research/translator"
	"github.com/stretchr/testify/assert"
)

func TestEventTextDelta_ImplementsEvent(t *testing.T) {
	t.Parallel()
	var e translator.Event = translator.EventTextDelta{Delta: "hello"}
	assert.NotNil(t, e)
}

func TestEvent_TypeSwitch(t *testing.T) {
	t.Parallel()

	events := []translator.Event{
		translator.EventTextDelta{Delta: "Hola"},
		translator.EventThinkingDelta{Delta: "considering idioms"},
	}

	var text, thinking string
	for _, evt := range events {
		switch e := evt.(type) {
		case translator.EventTextDelta:
			text += e.Delta
		case translator.EventThinkingDelta:
			thinking += e.Delta
		default:
			t.Fatalf("unexpected event type %T", evt)
		}
	}

	assert.Equal(t, "Hola", text)
	assert.Equal(t, "considering idioms", thinking)
}
