package config

import (
	"fmt"
	"os"
)

const exampleConfig = `# mdsite configuration
input_dir: ./writing
output_dir: ./site

post_template: ./templates/post.html
index_template: ./templates/index.html

# Optional pages: leave unset to skip generation.
# tag_template: ./templates/tag.html
# all_tags_template: ./templates/all_tags.html
# all_posts_template: ./templates/all_posts.html

# Number of latest posts shown on the index page.
num_posts: 8
`

// Init creates a new configuration file with example content
func Init(configPath string, force bool) error {
	if _, err := os.Stat(configPath); err == nil && !force {
		return fmt.Errorf("configuration file already exists: %s (use --force to overwrite)", configPath)
	}
	if err := os.WriteFile(configPath, []byte(exampleConfig), 0o644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}
