package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	sterrors "github.com/fenrik/mdsite/internal/errors"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

// scaffold creates an input dir and the two required templates, returning
// their paths plus the scratch dir.
func scaffold(t *testing.T) (dir, input, postTpl, indexTpl string) {
	t.Helper()
	dir = t.TempDir()
	input = filepath.Join(dir, "writing")
	require.NoError(t, os.Mkdir(input, 0o750))
	postTpl = filepath.Join(dir, "post.html")
	indexTpl = filepath.Join(dir, "index.html")
	writeFile(t, postTpl, "{{.Title}}")
	writeFile(t, indexTpl, "{{range .Posts}}{{.Title}}{{end}}")
	return dir, input, postTpl, indexTpl
}

func TestLoad_FileOnly_PopulatesConfig(t *testing.T) {
	dir, input, postTpl, indexTpl := scaffold(t)
	cfgPath := filepath.Join(dir, "config.yaml")
	writeFile(t, cfgPath, `
input_dir: `+input+`
output_dir: `+filepath.Join(dir, "out")+`
post_template: `+postTpl+`
index_template: `+indexTpl+`
num_posts: 3
`)

	cfg, err := Load(cfgPath, Overrides{})
	require.NoError(t, err)
	require.Equal(t, input, cfg.InputDir)
	require.Equal(t, 3, cfg.NumPosts)
	require.False(t, cfg.TagPagesEnabled())
	require.False(t, cfg.AllPostsEnabled())
}

func TestLoad_FlagOverridesFileValue(t *testing.T) {
	dir, input, postTpl, indexTpl := scaffold(t)
	cfgPath := filepath.Join(dir, "config.yaml")
	writeFile(t, cfgPath, `
input_dir: `+input+`
output_dir: `+filepath.Join(dir, "out")+`
post_template: `+postTpl+`
index_template: `+indexTpl+`
num_posts: 3
`)

	cfg, err := Load(cfgPath, Overrides{NumPosts: 12})
	require.NoError(t, err)
	require.Equal(t, 12, cfg.NumPosts)
}

func TestLoad_MissingFileWithCompleteFlags_Succeeds(t *testing.T) {
	dir, input, postTpl, indexTpl := scaffold(t)

	cfg, err := Load(filepath.Join(dir, "absent.yaml"), Overrides{
		InputDir:      input,
		OutputDir:     filepath.Join(dir, "out"),
		PostTemplate:  postTpl,
		IndexTemplate: indexTpl,
	})
	require.NoError(t, err)
	require.Equal(t, DefaultNumPosts, cfg.NumPosts)
}

func TestLoad_MissingRequiredField_FailsWithConfigError(t *testing.T) {
	dir, input, postTpl, _ := scaffold(t)

	_, err := Load(filepath.Join(dir, "absent.yaml"), Overrides{
		InputDir:     input,
		OutputDir:    filepath.Join(dir, "out"),
		PostTemplate: postTpl,
	})
	require.Error(t, err)
	require.True(t, sterrors.IsCategory(err, sterrors.CategoryConfig))
}

func TestLoad_MissingTemplateFile_FailsWithTemplateError(t *testing.T) {
	dir, input, postTpl, indexTpl := scaffold(t)

	_, err := Load(filepath.Join(dir, "absent.yaml"), Overrides{
		InputDir:      input,
		OutputDir:     filepath.Join(dir, "out"),
		PostTemplate:  postTpl,
		IndexTemplate: indexTpl,
		TagTemplate:   filepath.Join(dir, "no-such-template.html"),
	})
	require.Error(t, err)
	require.True(t, sterrors.IsCategory(err, sterrors.CategoryTemplate))
}

func TestLoad_EnvExpansionInConfigContent(t *testing.T) {
	dir, input, postTpl, indexTpl := scaffold(t)
	t.Setenv("MDSITE_TEST_INPUT", input)
	cfgPath := filepath.Join(dir, "config.yaml")
	writeFile(t, cfgPath, `
input_dir: ${MDSITE_TEST_INPUT}
output_dir: `+filepath.Join(dir, "out")+`
post_template: `+postTpl+`
index_template: `+indexTpl+`
`)

	cfg, err := Load(cfgPath, Overrides{})
	require.NoError(t, err)
	require.Equal(t, input, cfg.InputDir)
}

func TestLoad_NegativeNumPosts_Rejected(t *testing.T) {
	dir, input, postTpl, indexTpl := scaffold(t)

	_, err := Load(filepath.Join(dir, "absent.yaml"), Overrides{
		InputDir:      input,
		OutputDir:     filepath.Join(dir, "out"),
		PostTemplate:  postTpl,
		IndexTemplate: indexTpl,
		NumPosts:      -2,
	})
	require.Error(t, err)
	require.True(t, sterrors.IsCategory(err, sterrors.CategoryConfig))
}

func TestInit_WritesExampleConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	require.NoError(t, Init(path, false))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), "input_dir:")
}

func TestInit_ExistingFileWithoutForce_Fails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	writeFile(t, path, "input_dir: x\n")

	require.Error(t, Init(path, false))
	require.NoError(t, Init(path, true))
}
