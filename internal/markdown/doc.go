// Package markdown renders release-notes Markdown into HTML via goldmark.
package markdown
