package markdown

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
)

// ToHTML renders Markdown source into HTML with surrounding whitespace trimmed.
func ToHTML(source string) (string, error) {
	var buf bytes.Buffer
	if err := goldmark.New().Convert([]byte(source), &buf); err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}

	return strings.TrimSpace(buf.String()), nil
}
