// Package frontmatter separates YAML front-matter from Markdown document bodies.
package frontmatter

import (
	"bytes"
	"errors"
	"os"

	"gopkg.in/yaml.v3"
)

// ErrMissingClosingDelimiter indicates the document started with a front-matter
// delimiter but never closed it.
var ErrMissingClosingDelimiter = errors.New("front-matter start delimiter found but closing delimiter is missing")

// Document is a source file split into metadata fields and Markdown body.
type Document struct {
	Fields map[string]any
	Body   []byte
}

// Split separates `---` delimited YAML front-matter from the Markdown body.
//
// A document without a leading delimiter has no front-matter; the full input
// is the body. CRLF line endings are tolerated.
func Split(content []byte) (meta []byte, body []byte, err error) {
	nl := detectNewline(content)
	open := []byte("---" + nl)
	if !bytes.HasPrefix(content, open) {
		return nil, content, nil
	}

	rest := content[len(open):]
	if bytes.HasPrefix(rest, open) {
		// Empty front-matter block.
		return nil, rest[len(open):], nil
	}

	closeSeq := []byte(nl + "---" + nl)
	idx := bytes.Index(rest, closeSeq)
	if idx < 0 {
		return nil, nil, ErrMissingClosingDelimiter
	}

	return rest[:idx+len(nl)], rest[idx+len(closeSeq):], nil
}

// Parse parses raw YAML front-matter (without delimiters) into a field map.
// Empty input yields an empty map.
func Parse(meta []byte) (map[string]any, error) {
	fields := map[string]any{}
	if len(meta) == 0 {
		return fields, nil
	}
	if err := yaml.Unmarshal(meta, &fields); err != nil {
		return nil, err
	}
	return fields, nil
}

// Load reads a Markdown file and returns its parsed front-matter and body.
func Load(path string) (*Document, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	meta, body, err := Split(content)
	if err != nil {
		return nil, err
	}
	fields, err := Parse(meta)
	if err != nil {
		return nil, err
	}
	return &Document{Fields: fields, Body: body}, nil
}

func detectNewline(content []byte) string {
	for i := 0; i+1 < len(content); i++ {
		if content[i] == '\r' && content[i+1] == '\n' {
			return "\r\n"
		}
		if content[i] == '\n' {
			return "\n"
		}
	}
	return "\n"
}
