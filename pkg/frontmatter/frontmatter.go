// Package frontmatter decodes the YAML block that may lead a template.
package frontmatter

import (
	"regexp"
	"strings"

	"gitlab.com/tozd/go/errors"
	"gopkg.in/yaml.v3"
)

var (
	ErrMissing    = errors.Base("no frontmatter block")
	ErrNotMapping = errors.Base("frontmatter is not a mapping")
)

var reBlock = regexp.MustCompile(`^---[ \t]*\r?\n([\s\S]*?\r?\n)?---[ \t]*(?:\r?\n|$)`)

// Content returns the YAML between the delimiter lines of a block that starts
// at the beginning of source.
func Content(source string) (string, bool) {
	m := reBlock.FindStringSubmatch(source)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// Decode parses the block into a generic map. An empty block yields an
// empty map.
func Decode(source string) (map[string]any, error) {
	out := map[string]any{}
	if err := DecodeInto(source, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// DecodeInto parses the block into v, which must accept a YAML mapping.
func DecodeInto(source string, v any) error {
	content, ok := Content(source)
	if !ok {
		return errors.WithStack(ErrMissing)
	}
	if strings.TrimSpace(content) == "" {
		return nil
	}

	var doc yaml.Node
	if err := yaml.Unmarshal([]byte(content), &doc); err != nil {
		return errors.Errorf("decoding frontmatter: %w", err)
	}
	root := &doc
	if root.Kind == yaml.DocumentNode && len(root.Content) > 0 {
		root = root.Content[0]
	}
	if root.Kind != yaml.MappingNode {
		return errors.Errorf("line %d: %w", root.Line, ErrNotMapping)
	}
	if err := root.Decode(v); err != nil {
		return errors.Errorf("decoding frontmatter: %w", err)
	}
	return nil
}
