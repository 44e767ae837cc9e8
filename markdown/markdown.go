// Package markdown verifies that a translation preserves the structural
// regions a translator must not touch: code blocks and block quotes.
//
// The translation prompts forbid modifying these regions, but models
// occasionally translate comments inside code fences or drop a quote. The
// check compares goldmark AST counts between source and translation so the
// CLI can warn without blocking the run.
package markdown

import (
	"fmt"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// Structure summarizes the protected regions of a markdown document.
type Structure struct {
	FencedCodeBlocks   int
	IndentedCodeBlocks int
	BlockQuotes        int
}

// Analyze parses source and counts its protected regions.
func Analyze(source string) Structure {
	p := goldmark.DefaultParser()
	doc := p.Parse(text.NewReader([]byte(source)))

	var s Structure
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch n.(type) {
		case *ast.FencedCodeBlock:
			s.FencedCodeBlocks++
		case *ast.CodeBlock:
			s.IndentedCodeBlocks++
		case *ast.Blockquote:
			s.BlockQuotes++
		}
		return ast.WalkContinue, nil
	})
	return s
}

// Mismatch reports one structural count that differs between the source and
// its translation.
type Mismatch struct {
	Kind       string
	Source     int
	Translated int
}

func (m Mismatch) String() string {
	return fmt.Sprintf("%s: source has %d, translation has %d", m.Kind, m.Source, m.Translated)
}

// CheckPreservation compares the protected regions of a source document and
// its translation. An empty result means the structure survived.
func CheckPreservation(source, translated string) []Mismatch {
	src := Analyze(source)
	dst := Analyze(translated)

	var mismatches []Mismatch
	check := func(kind string, s, d int) {
		if s != d {
			mismatches = append(mismatches, Mismatch{Kind: kind, Source: s, Translated: d})
		}
	}
	check("fenced code blocks", src.FencedCodeBlocks, dst.FencedCodeBlocks)
	check("indented code blocks", src.IndentedCodeBlocks, dst.IndentedCodeBlocks)
	check("block quotes", src.BlockQuotes, dst.BlockQuotes)
	return mismatches
}
