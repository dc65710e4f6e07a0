package errors

import (
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSiteError_ErrorIncludesCategoryAndSeverity(t *testing.T) {
	err := New(CategoryConfig, SeverityFatal, "input_dir is required")
	require.Equal(t, "config (fatal): input_dir is required", err.Error())
}

func TestSiteError_WrapPreservesCause(t *testing.T) {
	cause := stderrors.New("disk full")
	err := Wrap(cause, CategoryFileSystem, SeverityFatal, "write index.html")

	require.ErrorIs(t, err, cause)
	require.Contains(t, err.Error(), "disk full")
}

func TestIsCategory_MatchesOnlyOwnCategory(t *testing.T) {
	err := ConfigError("missing output_dir")
	require.True(t, IsCategory(err, CategoryConfig))
	require.False(t, IsCategory(err, CategoryTemplate))
	require.False(t, IsCategory(stderrors.New("plain"), CategoryConfig))
}

func TestGetCategory_FallsBackToInternal(t *testing.T) {
	require.Equal(t, CategoryMetadata, GetCategory(MalformedDate("a.md", "nope", nil)))
	require.Equal(t, CategoryInternal, GetCategory(stderrors.New("plain")))
}

func TestMalformedDate_IsWarningWithFileContext(t *testing.T) {
	err := MalformedDate("a.md", "13/13/2024", stderrors.New("bad layout"))
	require.Equal(t, SeverityWarning, err.Severity)
	require.Equal(t, "a.md", err.Context["file"])
}

func TestDuplicateTitle_RecordsBothFiles(t *testing.T) {
	err := DuplicateTitle("Alpha", "b.md", "a.md")
	require.Equal(t, SeverityWarning, err.Severity)
	require.Equal(t, "b.md", err.Context["file"])
	require.Equal(t, "a.md", err.Context["first_file"])
}

func TestTemplateNotFound_IsFatalTemplateError(t *testing.T) {
	err := TemplateNotFound("missing.html", nil)
	require.Equal(t, CategoryTemplate, err.Category)
	require.Equal(t, SeverityFatal, err.Severity)
}
