// Package openai implements [translator.Provider] for the OpenAI Chat
// Completions API.
//
// It wraps the github.com/openai/openai-go SDK. Streaming uses the SDK's
// ssestream iterator, wrapped into the pull-based [translator.Stream]
// interface. Usage accounting relies on stream_options.include_usage, which
// makes the API emit a final chunk carrying token counts.
package openai

const defaultMaxTokens = 16384
