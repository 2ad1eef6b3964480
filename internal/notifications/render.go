package notifications

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
)

// Renderer turns notification markdown into sanitized HTML.
type Renderer struct {
	md     goldmark.Markdown
	policy *bluemonday.Policy
}

// NewRenderer creates a Renderer with GitHub-flavoured markdown. Fenced
// code, such as log excerpts in system notices, is highlighted with inline
// styles; the sanitizer keeps only colour and weight declarations.
func NewRenderer() *Renderer {
	policy := bluemonday.UGCPolicy()
	policy.AllowStyles("color", "background-color", "font-weight", "font-style").OnElements("span", "pre")

	return &Renderer{
		md: goldmark.New(
			goldmark.WithExtensions(
				extension.GFM,
				highlighting.NewHighlighting(
					highlighting.WithStyle("github"),
				),
			),
		),
		policy: policy,
	}
}

// Render converts a markdown message to HTML safe for embedding in a page.
func (r *Renderer) Render(markdown string) (template.HTML, error) {
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(markdown), &buf); err != nil {
		return "", fmt.Errorf("rendering markdown: %w", err)
	}
	return template.HTML(r.policy.SanitizeBytes(buf.Bytes())), nil
}

// View is a notification prepared for the page template.
type View struct {
	Notification
	HTML template.HTML
}

// RenderAll renders every message in list.
func (r *Renderer) RenderAll(list []Notification) ([]View, error) {
	views := make([]View, 0, len(list))
	for _, n := range list {
		html, err := r.Render(n.Mensagem)
		if err != nil {
			return nil, fmt.Errorf("notification %s: %w", n.ID, err)
		}
		views = append(views, View{Notification: n, HTML: html})
	}
	return views, nil
}
