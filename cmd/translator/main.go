// Command translator translates markdown and text documents with a staged
// LLM pipeline: translate, optionally edit, then critique loops that
// generate feedback and apply it.
//
// Usage:
//
//	ANTHROPIC_API_KEY=sk-... translator post.md Spanish
//	translator "posts/**/*.md" French --model gpt-4o
//	translator post.md German --estimate-only
//	translator models
//	translator interpret post.es.md.log.json
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "translator: %v\n", err)
		os.Exit(1)
	}
}
