// Package config loads and validates the site generation configuration.
//
// Values come from a YAML file (with environment variable expansion and
// optional .env loading) and may be overridden per-field by CLI flags.
// Validation runs before any generation I/O so configuration mistakes fail
// fast.
package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	sterrors "github.com/fenrik/mdsite/internal/errors"
)

// DefaultNumPosts is the size of the index page's latest-posts slice.
const DefaultNumPosts = 8

// Config is the immutable input to one generation run.
type Config struct {
	InputDir  string `yaml:"input_dir"`
	OutputDir string `yaml:"output_dir"`

	PostTemplate  string `yaml:"post_template"`
	IndexTemplate string `yaml:"index_template"`

	// Optional page templates. An empty path disables the page. Tag pages
	// and the all-tags page have independent switches; note the all-tags
	// page is only useful when tag pages exist, since it links to them.
	TagTemplate      string `yaml:"tag_template"`
	AllTagsTemplate  string `yaml:"all_tags_template"`
	AllPostsTemplate string `yaml:"all_posts_template"`

	NumPosts int `yaml:"num_posts"`
}

// Overrides carries flag-sourced values that take precedence over the file.
// Zero values mean "not set on the command line".
type Overrides struct {
	InputDir         string
	OutputDir        string
	PostTemplate     string
	IndexTemplate    string
	TagTemplate      string
	AllTagsTemplate  string
	AllPostsTemplate string
	NumPosts         int
}

// Load reads the configuration file, expands environment variables in its
// content, applies flag overrides and defaults, and validates the result.
func Load(configPath string, overrides Overrides) (*Config, error) {
	// Load .env if present so ${VAR} expansion sees local values.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "Note: .env file couldn't be loaded: %v\n", err)
	}

	cfg := &Config{}
	data, err := os.ReadFile(configPath)
	switch {
	case os.IsNotExist(err):
		// No config file: flags must carry the full configuration.
	case err != nil:
		return nil, sterrors.Wrap(err, sterrors.CategoryConfig, sterrors.SeverityFatal, "read config file")
	default:
		expanded := os.ExpandEnv(string(data))
		if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
			return nil, sterrors.Wrap(err, sterrors.CategoryConfig, sterrors.SeverityFatal, "unmarshal config")
		}
	}

	cfg.apply(overrides)
	if cfg.NumPosts == 0 {
		cfg.NumPosts = DefaultNumPosts
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) apply(o Overrides) {
	if o.InputDir != "" {
		c.InputDir = o.InputDir
	}
	if o.OutputDir != "" {
		c.OutputDir = o.OutputDir
	}
	if o.PostTemplate != "" {
		c.PostTemplate = o.PostTemplate
	}
	if o.IndexTemplate != "" {
		c.IndexTemplate = o.IndexTemplate
	}
	if o.TagTemplate != "" {
		c.TagTemplate = o.TagTemplate
	}
	if o.AllTagsTemplate != "" {
		c.AllTagsTemplate = o.AllTagsTemplate
	}
	if o.AllPostsTemplate != "" {
		c.AllPostsTemplate = o.AllPostsTemplate
	}
	if o.NumPosts != 0 {
		c.NumPosts = o.NumPosts
	}
}

// Validate checks required fields and template paths before any output I/O.
func (c *Config) Validate() error {
	if c.InputDir == "" {
		return sterrors.ConfigError("input_dir is required")
	}
	if c.OutputDir == "" {
		return sterrors.ConfigError("output_dir is required")
	}
	if c.PostTemplate == "" {
		return sterrors.ConfigError("post_template is required")
	}
	if c.IndexTemplate == "" {
		return sterrors.ConfigError("index_template is required")
	}
	if c.NumPosts < 1 {
		return sterrors.ConfigError("num_posts must be positive")
	}

	if fi, err := os.Stat(c.InputDir); err != nil || !fi.IsDir() {
		return sterrors.ConfigError(fmt.Sprintf("input_dir is not a directory: %s", c.InputDir))
	}

	for _, tpl := range []string{c.PostTemplate, c.IndexTemplate, c.TagTemplate, c.AllTagsTemplate, c.AllPostsTemplate} {
		if tpl == "" {
			continue
		}
		if fi, err := os.Stat(tpl); err != nil || fi.IsDir() {
			return sterrors.TemplateNotFound(tpl, err)
		}
	}
	return nil
}

// TagPagesEnabled reports whether per-tag pages should be generated.
func (c *Config) TagPagesEnabled() bool { return c.TagTemplate != "" }

// AllTagsEnabled reports whether the all-tags page should be generated.
func (c *Config) AllTagsEnabled() bool { return c.AllTagsTemplate != "" }

// AllPostsEnabled reports whether the all-posts page should be generated.
func (c *Config) AllPostsEnabled() bool { return c.AllPostsTemplate != "" }
