// Package site implements the generation pipeline: collecting Markdown
// documents into post records, and assembling the post, tag, index, and
// listing pages of the output site.
package site

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/fenrik/mdsite/internal/config"
	sterrors "github.com/fenrik/mdsite/internal/errors"
	"github.com/fenrik/mdsite/internal/linkcheck"
	"github.com/fenrik/mdsite/internal/markdown"
	"github.com/fenrik/mdsite/internal/metrics"
	"github.com/fenrik/mdsite/internal/post"
)

// Generator orchestrates a full site generation run.
type Generator struct {
	cfg           *config.Config
	recorder      metrics.Recorder
	verifyLinks   bool
	persistReport bool
}

// NewGenerator creates a Generator for the given configuration.
func NewGenerator(cfg *config.Config) *Generator {
	return &Generator{cfg: cfg, recorder: metrics.NoopRecorder{}}
}

// SetRecorder injects a metrics recorder (optional). Returns the generator for chaining.
func (g *Generator) SetRecorder(r metrics.Recorder) *Generator {
	if r == nil {
		g.recorder = metrics.NoopRecorder{}
		return g
	}
	g.recorder = r
	return g
}

// SetVerifyLinks enables the post-build link verification stage.
func (g *Generator) SetVerifyLinks(v bool) *Generator {
	g.verifyLinks = v
	return g
}

// SetPersistReport enables writing build-report.json into the output
// directory. Off by default so repeated runs over unchanged input produce
// byte-identical output trees.
func (g *Generator) SetPersistReport(v bool) *Generator {
	g.persistReport = v
	return g
}

// buildState carries mutable state across stages of one run.
type buildState struct {
	cfg      *config.Config
	renderer *Renderer
	recorder metrics.Recorder
	report   *BuildReport

	posts []*post.Post
	tags  *post.TagIndex
}

// Generate runs the pipeline: prepare output, collect posts, sort, render
// aggregate pages, optionally verify links. The returned report is non-nil
// whenever the run started, including failed runs.
func (g *Generator) Generate(ctx context.Context) (*BuildReport, error) {
	slog.Info("Starting site generation",
		slog.String("input", g.cfg.InputDir),
		slog.String("output", g.cfg.OutputDir))

	report := newBuildReport()
	bs := &buildState{
		cfg:      g.cfg,
		renderer: NewRenderer(),
		recorder: g.recorder,
		report:   report,
	}

	stages := []namedStage{
		{StagePrepareOutput, stagePrepareOutput},
		{StageCollectPosts, stageCollectPosts},
		{StageSortPosts, stageSortPosts},
		{StageTagPages, stageTagPages},
		{StageAllTagsPage, stageAllTagsPage},
		{StageIndexPage, stageIndexPage},
		{StageAllPostsPage, stageAllPostsPage},
		{StageVerifyLinks, g.stageVerifyLinks},
	}

	err := runStages(ctx, bs, stages)
	report.finish()

	g.recorder.ObserveBuildDuration(report.End.Sub(report.Start))
	g.recorder.IncBuildOutcome(string(report.Outcome))

	if err != nil {
		slog.Error("Site generation failed", "error", err, "outcome", report.Outcome)
		return report, err
	}

	if g.persistReport {
		if perr := report.Persist(g.cfg.OutputDir); perr != nil {
			slog.Warn("Failed to persist build report", "error", perr)
		}
	}

	slog.Info("Site generation completed",
		slog.String("outcome", string(report.Outcome)),
		slog.Int("posts", report.Posts),
		slog.Int("tags", report.Tags),
		slog.Int("skipped", report.SkippedDocuments),
		slog.Int("pages", report.RenderedPages))
	return report, nil
}

// stagePrepareOutput creates the output directory tree. Idempotent.
func stagePrepareOutput(_ context.Context, bs *buildState) error {
	dirs := []string{filepath.Join(bs.cfg.OutputDir, "posts")}
	if bs.cfg.TagPagesEnabled() {
		dirs = append(dirs, filepath.Join(bs.cfg.OutputDir, "tags"))
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return newFatalStageError(StagePrepareOutput, sterrors.IOError(err, "create "+dir))
		}
	}
	return nil
}

// stageCollectPosts runs the collector and folds its result into the state.
// Skipped documents surface as a stage warning, not a failure.
func stageCollectPosts(ctx context.Context, bs *buildState) error {
	collector := NewCollector(bs.cfg, markdown.NewConverter(), bs.renderer)
	result, err := collector.Collect(ctx)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return newCanceledStageError(StageCollectPosts, err)
		}
		return newFatalStageError(StageCollectPosts, err)
	}

	bs.posts = result.Posts
	bs.tags = result.Tags
	bs.report.ScannedFiles = result.Scanned
	bs.report.Posts = len(result.Posts)
	bs.report.Tags = result.Tags.Len()
	bs.report.SkippedDocuments = len(result.Skipped)
	bs.report.RenderedPages += len(result.Posts)
	for range result.Posts {
		bs.recorder.IncPageRendered()
	}

	if len(result.Skipped) > 0 {
		return newWarnStageError(StageCollectPosts, errors.Join(result.Skipped...))
	}
	return nil
}

// stageSortPosts orders posts by date descending. The sort is stable so
// posts sharing a date (notably the sentinel) keep discovery order.
func stageSortPosts(_ context.Context, bs *buildState) error {
	sort.SliceStable(bs.posts, func(i, j int) bool {
		return bs.posts[i].Date.After(bs.posts[j].Date)
	})
	return nil
}

// stageTagPages renders one page per tag when the tag template is configured.
func stageTagPages(ctx context.Context, bs *buildState) error {
	if !bs.cfg.TagPagesEnabled() {
		return nil
	}
	var skipped []error
	for _, tag := range bs.tags.Tags() {
		if err := ctx.Err(); err != nil {
			return newCanceledStageError(StageTagPages, err)
		}
		// Tag names are verbatim front-matter values; keep pages inside tags/.
		if strings.ContainsAny(tag, `/\`) {
			skipped = append(skipped, fmt.Errorf("tag %q contains path separators, page skipped", tag))
			continue
		}
		outFile := filepath.Join(bs.cfg.OutputDir, "tags", norm.NFC.String(tag)+".html")
		page := TagPage{Tag: tag, Posts: bs.tags.Posts(tag)}
		if err := bs.renderer.RenderToFile(bs.cfg.TagTemplate, outFile, page); err != nil {
			return newFatalStageError(StageTagPages, err)
		}
		bs.report.RenderedPages++
		bs.recorder.IncPageRendered()
	}
	if len(skipped) > 0 {
		return newWarnStageError(StageTagPages, errors.Join(skipped...))
	}
	return nil
}

// stageAllTagsPage renders the all-tags listing. Its switch is independent
// of the per-tag pages, but the page links to them, so configuring it
// without the tag template yields links to pages that do not exist.
func stageAllTagsPage(_ context.Context, bs *buildState) error {
	if !bs.cfg.AllTagsEnabled() {
		return nil
	}
	outFile := filepath.Join(bs.cfg.OutputDir, "all_tags.html")
	page := AllTagsPage{Tags: bs.tags.Entries()}
	if err := bs.renderer.RenderToFile(bs.cfg.AllTagsTemplate, outFile, page); err != nil {
		return newFatalStageError(StageAllTagsPage, err)
	}
	bs.report.RenderedPages++
	bs.recorder.IncPageRendered()
	return nil
}

// stageIndexPage renders the landing page with the latest-N slice.
func stageIndexPage(_ context.Context, bs *buildState) error {
	n := bs.cfg.NumPosts
	if n > len(bs.posts) {
		n = len(bs.posts)
	}
	outFile := filepath.Join(bs.cfg.OutputDir, "index.html")
	page := IndexPage{Posts: bs.posts[:n], Tags: bs.tags.Entries()}
	if err := bs.renderer.RenderToFile(bs.cfg.IndexTemplate, outFile, page); err != nil {
		return newFatalStageError(StageIndexPage, err)
	}
	bs.report.RenderedPages++
	bs.recorder.IncPageRendered()
	return nil
}

// stageAllPostsPage renders the full chronological listing when configured.
func stageAllPostsPage(_ context.Context, bs *buildState) error {
	if !bs.cfg.AllPostsEnabled() {
		return nil
	}
	outFile := filepath.Join(bs.cfg.OutputDir, "all_posts.html")
	page := AllPostsPage{Posts: bs.posts}
	if err := bs.renderer.RenderToFile(bs.cfg.AllPostsTemplate, outFile, page); err != nil {
		return newFatalStageError(StageAllPostsPage, err)
	}
	bs.report.RenderedPages++
	bs.recorder.IncPageRendered()
	return nil
}

// stageVerifyLinks checks relative links across the generated tree.
// Broken links are a warning: the site is written, just inconsistent.
func (g *Generator) stageVerifyLinks(_ context.Context, bs *buildState) error {
	if !g.verifyLinks {
		return nil
	}
	broken, err := linkcheck.VerifyDir(bs.cfg.OutputDir)
	if err != nil {
		return newWarnStageError(StageVerifyLinks, err)
	}
	if len(broken) > 0 {
		for _, b := range broken {
			slog.Warn("Broken internal link", "page", b.Page, "href", b.Href)
		}
		return newWarnStageError(StageVerifyLinks, broken.Err())
	}
	return nil
}
