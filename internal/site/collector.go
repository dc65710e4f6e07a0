package site

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/fenrik/mdsite/internal/config"
	sterrors "github.com/fenrik/mdsite/internal/errors"
	"github.com/fenrik/mdsite/internal/frontmatter"
	"github.com/fenrik/mdsite/internal/markdown"
	"github.com/fenrik/mdsite/internal/post"
)

// markdownExtensions are the file suffixes treated as source documents.
var markdownExtensions = map[string]bool{
	".md":       true,
	".markdown": true,
}

// Collector walks the input directory and turns each Markdown document into
// a written post page plus an in-memory post record.
type Collector struct {
	cfg       *config.Config
	converter *markdown.Converter
	renderer  *Renderer
}

// NewCollector wires the collector with its collaborators.
func NewCollector(cfg *config.Config, converter *markdown.Converter, renderer *Renderer) *Collector {
	return &Collector{cfg: cfg, converter: converter, renderer: renderer}
}

// CollectResult is the outcome of one input directory pass.
type CollectResult struct {
	// Posts in discovery order (directory enumeration order).
	Posts []*post.Post
	Tags  *post.TagIndex
	// Scanned counts the Markdown files considered.
	Scanned int
	// Skipped holds the per-document errors for documents left out of the
	// run (malformed metadata, duplicate titles, unreadable files).
	Skipped []error
}

// Collect enumerates the input directory (non-recursive), normalizes each
// document, renders its post page, and accumulates the ordered post list
// and tag index.
//
// Per-document failures do not abort the pass: the offending document is
// recorded in Skipped and collection continues. Fatal conditions (missing
// post template, unwritable output directory, cancellation) abort.
func (c *Collector) Collect(ctx context.Context) (*CollectResult, error) {
	entries, err := os.ReadDir(c.cfg.InputDir)
	if err != nil {
		return nil, sterrors.IOError(err, "read input directory "+c.cfg.InputDir)
	}

	result := &CollectResult{Tags: post.NewTagIndex()}
	seenTitles := make(map[string]string) // title -> first source file

	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if entry.IsDir() || !markdownExtensions[strings.ToLower(filepath.Ext(entry.Name()))] {
			continue
		}
		result.Scanned++

		p, err := c.collectOne(entry.Name(), seenTitles)
		if err != nil {
			var se *sterrors.SiteError
			if errors.As(err, &se) && se.Severity == sterrors.SeverityWarning {
				slog.Warn("Skipping document", "file", entry.Name(), "error", err)
				result.Skipped = append(result.Skipped, err)
				continue
			}
			return nil, err
		}

		result.Posts = append(result.Posts, p)
		for _, tag := range p.Tags {
			result.Tags.Add(tag, p)
		}
	}

	return result, nil
}

// collectOne processes a single source file: load, normalize, convert, and
// render the post page to disk.
func (c *Collector) collectOne(name string, seenTitles map[string]string) (*post.Post, error) {
	srcPath := filepath.Join(c.cfg.InputDir, name)

	doc, err := frontmatter.Load(srcPath)
	if err != nil {
		return nil, sterrors.Wrap(err, sterrors.CategoryFrontmatter, sterrors.SeverityWarning, "load "+name)
	}

	stem := strings.TrimSuffix(name, filepath.Ext(name))
	meta, err := post.Normalize(doc.Fields, stem)
	if err != nil {
		rawDate, _ := doc.Fields["date"].(string)
		return nil, sterrors.MalformedDate(name, rawDate, err)
	}

	// Output paths derive from the title; keep them inside the posts dir.
	if strings.ContainsAny(meta.Title, `/\`) {
		return nil, sterrors.New(sterrors.CategoryMetadata, sterrors.SeverityWarning,
			fmt.Sprintf("title %q contains path separators", meta.Title)).WithContext("file", name)
	}

	if first, ok := seenTitles[meta.Title]; ok {
		return nil, sterrors.DuplicateTitle(meta.Title, name, first)
	}
	seenTitles[meta.Title] = name

	content, err := c.converter.Convert(doc.Body)
	if err != nil {
		return nil, sterrors.Wrap(err, sterrors.CategoryRender, sterrors.SeverityWarning, "convert "+name)
	}

	outputPath, tagRelPath := post.OutputPaths(meta.Title)
	p := &post.Post{
		Title:      meta.Title,
		Date:       meta.Date,
		Summary:    meta.Summary,
		Tags:       meta.Tags,
		OutputPath: outputPath,
		TagRelPath: tagRelPath,
		SourceFile: name,
		Content:    content,
	}

	page := PostPage{Title: p.Title, Date: p.FormatDate(), Summary: p.Summary, Content: p.Content}
	outFile := filepath.Join(c.cfg.OutputDir, filepath.FromSlash(outputPath))
	if err := c.renderer.RenderToFile(c.cfg.PostTemplate, outFile, page); err != nil {
		return nil, err
	}

	slog.Debug("Rendered post", "file", name, "title", p.Title, "output", outputPath)
	return p, nil
}
