package frontmatter

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSplit_NoFrontmatter_ReturnsBodyOnly(t *testing.T) {
	input := []byte("# Title\n\nHello\n")

	meta, body, err := Split(input)
	require.NoError(t, err)
	require.Empty(t, meta)
	require.Equal(t, input, body)
}

func TestSplit_YAMLFrontmatter_SplitsMetaAndBody(t *testing.T) {
	input := []byte("---\ntitle: Alpha\n---\n# Heading\n")

	meta, body, err := Split(input)
	require.NoError(t, err)
	require.Equal(t, []byte("title: Alpha\n"), meta)
	require.Equal(t, []byte("# Heading\n"), body)
}

func TestSplit_EmptyFrontmatterBlock_ReturnsEmptyMeta(t *testing.T) {
	input := []byte("---\n---\n# Heading\n")

	meta, body, err := Split(input)
	require.NoError(t, err)
	require.Empty(t, meta)
	require.Equal(t, []byte("# Heading\n"), body)
}

func TestSplit_CRLF_SplitsMetaAndBody(t *testing.T) {
	input := []byte("---\r\ntitle: Alpha\r\n---\r\nbody\r\n")

	meta, body, err := Split(input)
	require.NoError(t, err)
	require.Equal(t, []byte("title: Alpha\r\n"), meta)
	require.Equal(t, []byte("body\r\n"), body)
}

func TestSplit_MissingClosingDelimiter_ReturnsError(t *testing.T) {
	input := []byte("---\ntitle: Alpha\n# Heading\n")

	_, _, err := Split(input)
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrMissingClosingDelimiter))
}

func TestParse_ValidYAML_ReturnsFields(t *testing.T) {
	fields, err := Parse([]byte("title: Alpha\ntags:\n  - go\n  - web\n"))
	require.NoError(t, err)
	require.Equal(t, "Alpha", fields["title"])
	require.Equal(t, []any{"go", "web"}, fields["tags"])
}

func TestParse_Empty_ReturnsEmptyMap(t *testing.T) {
	fields, err := Parse(nil)
	require.NoError(t, err)
	require.Empty(t, fields)
}

func TestParse_InvalidYAML_ReturnsError(t *testing.T) {
	_, err := Parse([]byte(": not yaml"))
	require.Error(t, err)
}

func TestLoad_FileWithFrontmatter_ReturnsDocument(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "post.md")
	require.NoError(t, os.WriteFile(path, []byte("---\ntitle: Alpha\n---\nbody text\n"), 0o600))

	doc, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "Alpha", doc.Fields["title"])
	require.Equal(t, []byte("body text\n"), doc.Body)
}

func TestLoad_MissingFile_ReturnsError(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.md"))
	require.Error(t, err)
}
