// Package markdown turns post and comment bodies into safe HTML.
package markdown

import (
	"bytes"
	"html"
	"html/template"
	"strings"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	htmlrenderer "github.com/yuin/goldmark/renderer/html"
)

var engine = goldmark.New(
	goldmark.WithExtensions(
		extension.GFM,
		extension.Typographer,
	),
	goldmark.WithRendererOptions(
		htmlrenderer.WithHardWraps(),
		htmlrenderer.WithXHTML(),
		// Bodies written in the rich-text editor are HTML; the sanitizer runs afterwards.
		htmlrenderer.WithUnsafe(),
	),
)

var (
	ugcPolicy    = newUGCPolicy()
	strictPolicy = bluemonday.StrictPolicy()
)

func newUGCPolicy() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.AllowAttrs("class").Matching(bluemonday.SpaceSeparatedTokens).OnElements("code", "pre", "span", "div")
	p.AllowAttrs("style").OnElements("span", "p")
	p.RequireNoFollowOnLinks(true)
	return p
}

// Render converts markdown or editor HTML into sanitized HTML.
func Render(src string) template.HTML {
	src = strings.TrimSpace(src)
	if src == "" {
		return ""
	}
	var buf bytes.Buffer
	if err := engine.Convert([]byte(src), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(src))
	}
	return template.HTML(ugcPolicy.SanitizeBytes(buf.Bytes()))
}

// StripTags removes all markup and collapses whitespace.
func StripTags(src string) string {
	text := html.UnescapeString(strictPolicy.Sanitize(src))
	return strings.Join(strings.Fields(text), " ")
}

// Excerpt returns the first n runes of the rendered plain text of src, with
// an ellipsis when cut.
func Excerpt(src string, n int) string {
	text := StripTags(string(Render(src)))
	if n <= 0 || utf8.RuneCountInString(text) <= n {
		return text
	}
	runes := []rune(text)
	return strings.TrimSpace(string(runes[:n])) + "..."
}
