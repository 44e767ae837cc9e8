package tui

import (
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"
)

// TailPreview returns the trailing portion of text that fits in width
// terminal cells, on a single line. Newlines collapse to spaces so the
// preview never breaks the panel layout, and truncation respects grapheme
// cluster boundaries so emoji and combining characters are never split.
func TailPreview(text string, width int) string {
	if width <= 0 {
		return ""
	}

	flat := strings.Join(strings.Fields(text), " ")
	if runewidth.StringWidth(flat) <= width {
		return flat
	}

	// Walk grapheme clusters from the end until the width budget (minus one
	// cell for the ellipsis) is spent.
	budget := width - 1
	var clusters []string
	g := uniseg.NewGraphemes(flat)
	for g.Next() {
		clusters = append(clusters, g.Str())
	}

	used := 0
	start := len(clusters)
	for i := len(clusters) - 1; i >= 0; i-- {
		w := runewidth.StringWidth(clusters[i])
		if used+w > budget {
			break
		}
		used += w
		start = i
	}

	return "…" + strings.Join(clusters[start:], "")
}
