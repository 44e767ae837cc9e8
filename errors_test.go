package translator_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/2389-research/translator"
	"github.com/stretchr/testify/assert"
)

func TestStageError_WrapsCause(t *testing.T) {
	t.Parallel()

	cause := &translator.ServiceError{Provider: "anthropic", Status: 529, Err: errors.New("overloaded")}
	err := &translator.StageError{
		Stage:   translator.StageTranslate,
		Kind:    translator.KindService,
		Retried: 3,
		Err:     cause,
	}

	assert.Contains(t, err.Error(), "translate")
	assert.Contains(t, err.Error(), "after 3 retries")

	var se *translator.ServiceError
	assert.True(t, errors.As(err, &se))
	assert.Equal(t, 529, se.Status)
}

func TestIsTransient(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "nil", err: nil, want: false},
		{name: "context canceled", err: context.Canceled, want: false},
		{name: "deadline exceeded", err: context.DeadlineExceeded, want: true},
		{name: "cancelled sentinel", err: translator.ErrCancelled, want: false},
		{name: "wrapped cancelled", err: fmt.Errorf("stage: %w", translator.ErrCancelled), want: false},
		{name: "rate limited", err: &translator.ServiceError{Provider: "openai", Status: 429, Err: errors.New("slow down")}, want: true},
		{name: "server error", err: &translator.ServiceError{Provider: "anthropic", Status: 500, Err: errors.New("boom")}, want: true},
		{name: "overloaded", err: &translator.ServiceError{Provider: "anthropic", Status: 529, Err: errors.New("overloaded")}, want: true},
		{name: "auth failure", err: &translator.ServiceError{Provider: "openai", Status: 401, Err: errors.New("bad key")}, want: false},
		{name: "bad request", err: &translator.ServiceError{Provider: "gemini", Status: 400, Err: errors.New("invalid")}, want: false},
		{name: "explicit transient flag", err: &translator.ServiceError{Provider: "gemini", Transient: true, Err: errors.New("flaky")}, want: true},
		{name: "token limit", err: translator.ErrTokenLimit, want: false},
		{name: "plain error", err: errors.New("weird"), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, translator.IsTransient(tt.err))
		})
	}
}
