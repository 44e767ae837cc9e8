// Package gemini implements [translator.Provider] for the Google Gemini API.
//
// It wraps the google.golang.org/genai SDK, translating between the
// translator's domain types and the Gemini API types. Streaming uses the
// SDK's iter.Seq2 iterator, wrapped into the pull-based
// [translator.Stream] interface.
package gemini

const defaultMaxTokens = 65536
