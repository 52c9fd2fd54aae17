package markdown

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// TestToHTML renders a plain paragraph and an emphasized word.
func TestToHTML(t *testing.T) {
	t.Parallel()

	out, err := ToHTML("Hello")
	require.NoError(t, err)
	require.Equal(t, "<p>Hello</p>", out)

	out, err = ToHTML("a *b* c")
	require.NoError(t, err)
	require.Equal(t, "<p>a <em>b</em> c</p>", out)
}

// TestToHTMLEmpty renders empty input to empty output.
func TestToHTMLEmpty(t *testing.T) {
	t.Parallel()

	out, err := ToHTML("")
	require.NoError(t, err)
	require.Empty(t, out)
}
