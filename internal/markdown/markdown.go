// Package markdown converts Markdown bodies (front-matter already removed)
// into HTML fragments.
package markdown

import (
	"bytes"
	"html/template"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

// Converter renders Markdown to HTML. It is safe for reuse across documents.
type Converter struct {
	md goldmark.Markdown
}

// NewConverter creates a Converter with the GFM extension set enabled.
func NewConverter() *Converter {
	return &Converter{
		md: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			goldmark.WithRendererOptions(html.WithHardWraps()),
		),
	}
}

// Convert renders a Markdown body into an HTML fragment.
//
// The result is typed template.HTML so page templates embed it without
// re-escaping; Markdown output is trusted site content, not user input.
func (c *Converter) Convert(body []byte) (template.HTML, error) {
	var buf bytes.Buffer
	if err := c.md.Convert(body, &buf); err != nil {
		return "", err
	}
	return template.HTML(buf.String()), nil
}
