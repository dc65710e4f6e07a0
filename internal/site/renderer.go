package site

import (
	"bytes"
	"html/template"
	"os"
	"path/filepath"

	sterrors "github.com/fenrik/mdsite/internal/errors"
	"github.com/fenrik/mdsite/internal/post"
)

// PostPage is the binding for the per-post template.
type PostPage struct {
	Title   string
	Date    string
	Summary string
	Content template.HTML
}

// TagPage is the binding for a single tag's page.
type TagPage struct {
	Tag   string
	Posts []*post.Post
}

// AllTagsPage is the binding for the all-tags listing.
type AllTagsPage struct {
	Tags []post.TagEntry
}

// IndexPage is the binding for the landing page.
type IndexPage struct {
	Posts []*post.Post
	Tags  []post.TagEntry
}

// AllPostsPage is the binding for the full chronological listing.
type AllPostsPage struct {
	Posts []*post.Post
}

// Renderer executes page templates loaded from configured paths. Parsed
// templates are cached per path for the lifetime of a run.
type Renderer struct {
	cache map[string]*template.Template
}

// NewRenderer creates a Renderer with an empty template cache.
func NewRenderer() *Renderer {
	return &Renderer{cache: make(map[string]*template.Template)}
}

func (r *Renderer) load(path string) (*template.Template, error) {
	if tpl, ok := r.cache[path]; ok {
		return tpl, nil
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, sterrors.TemplateNotFound(path, err)
	}

	tpl, err := template.New(filepath.Base(path)).Option("missingkey=error").Parse(string(content))
	if err != nil {
		return nil, sterrors.Wrap(err, sterrors.CategoryTemplate, sterrors.SeverityFatal, "parse template "+path)
	}
	r.cache[path] = tpl
	return tpl, nil
}

// Render loads the template at path (cached) and executes it with data.
func (r *Renderer) Render(path string, data any) (string, error) {
	tpl, err := r.load(path)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := tpl.Execute(&buf, data); err != nil {
		return "", sterrors.Wrap(err, sterrors.CategoryRender, sterrors.SeverityFatal, "render template "+path)
	}
	return buf.String(), nil
}

// RenderToFile renders the template and writes the result to outPath,
// creating parent directories as needed.
func (r *Renderer) RenderToFile(tplPath, outPath string, data any) error {
	out, err := r.Render(tplPath, data)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(outPath), 0o750); err != nil {
		return sterrors.IOError(err, "create output directory "+filepath.Dir(outPath))
	}
	if err := os.WriteFile(outPath, []byte(out), 0o644); err != nil {
		return sterrors.IOError(err, "write "+outPath)
	}
	return nil
}
