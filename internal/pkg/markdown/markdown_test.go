package markdown

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRenderMarkdown(t *testing.T) {
	out := string(Render("# Title\n\nsome **bold** text"))
	assert.Contains(t, out, "<h1")
	assert.Contains(t, out, "<strong>bold</strong>")
}

func TestRenderSanitizesEditorHTML(t *testing.T) {
	out := string(Render(`<p onclick="x()">hi<script>alert(1)</script></p><a href="javascript:alert(1)">bad</a>`))
	assert.Contains(t, out, "hi")
	assert.NotContains(t, out, "<script")
	assert.NotContains(t, out, "onclick")
	assert.NotContains(t, out, "javascript:")
}

func TestRenderEmpty(t *testing.T) {
	assert.Empty(t, string(Render("   ")))
}

func TestExcerpt(t *testing.T) {
	assert.Equal(t, "hello world", Excerpt("<p>hello</p>\n<p>world</p>", 50))
	assert.Equal(t, "a < b", Excerpt("a &lt; b", 50))
	long := strings.Repeat("x", 30)
	assert.Equal(t, strings.Repeat("x", 10)+"...", Excerpt(long, 10))
	assert.Equal(t, "héllo...", Excerpt("héllo wörld", 5))
}

func TestExcerptDropsMarkdownSyntax(t *testing.T) {
	assert.Equal(t, "Title First post.", Excerpt("# Title\n\nFirst **post**.", 50))
	assert.Equal(t, "link here", Excerpt("[link](https://example.com) `here`", 50))
}
