package post

import (
	"fmt"
	"time"
)

// SentinelDate marks posts without a usable date. It predates any real
// content so undated posts sort last under most-recent-first ordering.
var SentinelDate = time.Date(1900, time.January, 1, 0, 0, 0, 0, time.UTC)

// isoDateLayout is the accepted calendar-date form for front-matter date strings.
const isoDateLayout = "2006-01-02"

// Metadata is the typed view of a document's front-matter after defaulting.
type Metadata struct {
	Title   string
	Date    time.Time
	Summary string
	Tags    []string
}

// Normalize resolves a raw front-matter field map into typed metadata.
//
// Resolution rules:
//   - title: raw non-empty string, else fallbackTitle (the file name stem).
//   - date: a string is parsed as an ISO-8601 calendar date; a native
//     timestamp (yaml.v3 decodes RFC 3339 values to time.Time) is used
//     as-is; anything else falls back to SentinelDate.
//   - summary: the "tldr" key, with "summary" accepted as an alias.
//   - tags: string elements kept verbatim; order of appearance preserved.
//
// An unparseable date string is the only normalization error.
func Normalize(fields map[string]any, fallbackTitle string) (Metadata, error) {
	meta := Metadata{Title: fallbackTitle, Date: SentinelDate}

	if raw, ok := fields["title"].(string); ok && raw != "" {
		meta.Title = raw
	}

	switch raw := fields["date"].(type) {
	case string:
		parsed, err := time.Parse(isoDateLayout, raw)
		if err != nil {
			return Metadata{}, fmt.Errorf("parse date %q: %w", raw, err)
		}
		meta.Date = parsed
	case time.Time:
		meta.Date = raw
	}

	if raw, ok := fields["tldr"].(string); ok {
		meta.Summary = raw
	} else if raw, ok := fields["summary"].(string); ok {
		meta.Summary = raw
	}

	if raw, ok := fields["tags"].([]any); ok {
		for _, item := range raw {
			if tag, ok := item.(string); ok {
				meta.Tags = append(meta.Tags, tag)
			}
		}
	}

	return meta, nil
}
