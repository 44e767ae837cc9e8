// Package frontmatter splits YAML frontmatter from markdown documents and
// reassembles it after its translatable fields have been replaced.
//
// Parsing keeps the original yaml.Node tree so key order and non-translatable
// values survive the round trip untouched.
package frontmatter

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

const delimiter = "---"

// translatableFields lists frontmatter keys whose values are prose, in the
// order they are offered for translation. Covers the common static site
// generators.
var translatableFields = []string{
	"title",
	"description",
	"summary",
	"excerpt",
	"subtitle",
	"seo_title",
	"seo_description",
	"meta_description",
	"abstract",
	"intro",
	"heading",
	"subheading",
}

// Document is a markdown document split into frontmatter and body.
type Document struct {
	Body    string
	Present bool

	root *yaml.Node // document node of the frontmatter block
}

// Parse splits content into frontmatter and body. Content without a leading
// frontmatter block parses successfully with Present unset. Malformed YAML
// inside the block is an error; callers typically fall back to treating the
// whole content as body.
func Parse(content string) (*Document, error) {
	raw, body, found := split(content)
	if !found {
		return &Document{Body: content}, nil
	}

	var root yaml.Node
	if err := yaml.Unmarshal([]byte(raw), &root); err != nil {
		return nil, fmt.Errorf("frontmatter: parse: %w", err)
	}
	if mapping(&root) == nil {
		// A block that is not a mapping (e.g. a lone scalar) is not
		// frontmatter we can work with.
		return &Document{Body: content}, nil
	}

	return &Document{Body: body, Present: true, root: &root}, nil
}

// split separates the leading frontmatter block from the body.
func split(content string) (raw, body string, found bool) {
	after, ok := strings.CutPrefix(content, delimiter+"\n")
	if !ok {
		return "", "", false
	}

	end := strings.Index(after, "\n"+delimiter)
	if end < 0 {
		return "", "", false
	}
	raw = after[:end+1]

	rest := after[end+1+len(delimiter):]
	body = strings.TrimPrefix(rest, "\n")
	return raw, body, true
}

// TranslatableFields returns the translatable keys present in the
// frontmatter, in canonical order.
func (d *Document) TranslatableFields() []string {
	if !d.Present {
		return nil
	}
	var fields []string
	for _, key := range translatableFields {
		if d.value(key) != nil {
			fields = append(fields, key)
		}
	}
	return fields
}

// FieldsBlock renders the translatable fields as a standalone YAML block to
// send for translation. Returns false when there is nothing to translate.
func (d *Document) FieldsBlock() (string, bool) {
	fields := d.TranslatableFields()
	if len(fields) == 0 {
		return "", false
	}

	node := &yaml.Node{Kind: yaml.MappingNode}
	for _, key := range fields {
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Value: key},
			d.value(key),
		)
	}

	out, err := yaml.Marshal(node)
	if err != nil {
		return "", false
	}
	return string(out), true
}

// ApplyTranslated replaces the translatable field values with those from a
// translated YAML block. Keys absent from the block keep their original
// values; unknown keys in the block are ignored.
func (d *Document) ApplyTranslated(block string) error {
	if !d.Present {
		return fmt.Errorf("frontmatter: document has no frontmatter")
	}

	var translated map[string]string
	if err := yaml.Unmarshal([]byte(block), &translated); err != nil {
		return fmt.Errorf("frontmatter: parse translated block: %w", err)
	}

	for _, key := range translatableFields {
		value, ok := translated[key]
		if !ok {
			continue
		}
		if node := d.value(key); node != nil {
			node.SetString(value)
		}
	}
	return nil
}

// Content reassembles the document, frontmatter first.
func (d *Document) Content() (string, error) {
	if !d.Present {
		return d.Body, nil
	}

	out, err := yaml.Marshal(d.root)
	if err != nil {
		return "", fmt.Errorf("frontmatter: encode: %w", err)
	}

	var b strings.Builder
	b.WriteString(delimiter)
	b.WriteByte('\n')
	b.Write(out)
	b.WriteString(delimiter)
	b.WriteByte('\n')
	b.WriteString(d.Body)
	return b.String(), nil
}

// value returns the value node for a top-level key, or nil.
func (d *Document) value(key string) *yaml.Node {
	m := mapping(d.root)
	if m == nil {
		return nil
	}
	for i := 0; i+1 < len(m.Content); i += 2 {
		if m.Content[i].Value == key {
			return m.Content[i+1]
		}
	}
	return nil
}

// mapping unwraps a document node down to its top-level mapping.
func mapping(root *yaml.Node) *yaml.Node {
	if root == nil {
		return nil
	}
	node := root
	if node.Kind == yaml.DocumentNode {
		if len(node.Content) == 0 {
			return nil
		}
		node = node.Content[0]
	}
	if node.Kind != yaml.MappingNode {
		return nil
	}
	return node
}
