// Package post holds the build-scoped post model: normalized metadata,
// post records, and the tag index. All values are constructed fresh per
// generation run and never persisted.
package post

import (
	"html/template"
	"path"
	"time"

	"golang.org/x/text/unicode/norm"
)

// Post is the record kept for one source document after normalization.
type Post struct {
	Title   string
	Date    time.Time
	Summary string
	// Tags in order of appearance in the front-matter. Values are used
	// verbatim as tag keys: no case folding, no trimming, no dedup.
	Tags []string
	// OutputPath is the generated file relative to the output root.
	OutputPath string
	// TagRelPath references the same file from a tag page, which lives one
	// directory level below the output root.
	TagRelPath string
	// SourceFile is the originating Markdown file name, used in diagnostics.
	SourceFile string
	// Content is the rendered HTML body, available to page templates.
	Content template.HTML
}

// FormatDate renders the post date for templates.
func (p *Post) FormatDate() string {
	return p.Date.Format("2006-01-02")
}

// Undated reports whether the post carries the sentinel date.
func (p *Post) Undated() bool {
	return p.Date.Equal(SentinelDate)
}

// OutputPaths derives the output-root-relative and tag-page-relative paths
// for a post title. The title is NFC-normalized first so the same logical
// title yields byte-identical paths regardless of the source editor's
// Unicode normal form.
func OutputPaths(title string) (outputPath, tagRelPath string) {
	name := norm.NFC.String(title) + ".html"
	outputPath = path.Join("posts", name)
	tagRelPath = "../" + outputPath
	return outputPath, tagRelPath
}

// TagIndex maps tag names to the posts carrying them, in discovery order.
// Keys iterate in first-use order so generated pages are deterministic.
type TagIndex struct {
	buckets map[string][]*Post
	keys    []string
}

// NewTagIndex creates an empty tag index.
func NewTagIndex() *TagIndex {
	return &TagIndex{buckets: make(map[string][]*Post)}
}

// Add appends a post to the tag's bucket, creating the bucket on first use.
func (ti *TagIndex) Add(tag string, p *Post) {
	if _, ok := ti.buckets[tag]; !ok {
		ti.keys = append(ti.keys, tag)
	}
	ti.buckets[tag] = append(ti.buckets[tag], p)
}

// Tags returns the tag names in first-use order.
func (ti *TagIndex) Tags() []string {
	return ti.keys
}

// Posts returns the posts carrying the tag, in discovery order.
func (ti *TagIndex) Posts(tag string) []*Post {
	return ti.buckets[tag]
}

// Len returns the number of distinct tags.
func (ti *TagIndex) Len() int {
	return len(ti.keys)
}

// Entries returns (tag, posts) pairs in first-use order, for templates.
func (ti *TagIndex) Entries() []TagEntry {
	entries := make([]TagEntry, 0, len(ti.keys))
	for _, tag := range ti.keys {
		entries = append(entries, TagEntry{Tag: tag, Posts: ti.buckets[tag]})
	}
	return entries
}

// TagEntry is one tag with its posts, as exposed to templates.
type TagEntry struct {
	Tag   string
	Posts []*Post
}
