package markdown

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFirstHeading_VersionHeader(t *testing.T) {
	body := []byte("# Vlocity Newport Design System \n# Version: 2.3.1 \n## Install\n\nnpm install\n")

	h, ok := FirstHeading(body)
	require.True(t, ok)
	assert.Equal(t, 1, h.Level)
	assert.Equal(t, "Vlocity Newport Design System", h.Text)

	all := Headings(body)
	require.Len(t, all, 3)
	assert.Equal(t, "Version: 2.3.1", all[1].Text)
	assert.Equal(t, Heading{Level: 2, Text: "Install"}, all[2])
}

func TestFirstHeading_None(t *testing.T) {
	_, ok := FirstHeading([]byte("plain text\n\n    # indented code\n"))
	assert.False(t, ok)

	_, ok = FirstHeading(nil)
	assert.False(t, ok)
}

func TestHeadings_Setext(t *testing.T) {
	hs := Headings([]byte("Title\n=====\n\nBody\n"))
	require.Len(t, hs, 1)
	assert.Equal(t, Heading{Level: 1, Text: "Title"}, hs[0])
}
