package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/invopop/jsonschema"
	"github.com/spf13/viper"

	"github.com/lepinkainen/blog-feed/configs"
	"github.com/lepinkainen/blog-feed/pkg/feed"
	"github.com/lepinkainen/blog-feed/pkg/filesystem"
	"github.com/lepinkainen/blog-feed/pkg/urlutils"
)

// EnvPrefix prefixes environment overrides, e.g. BLOGFEED_FEED_TITLE
const EnvPrefix = "BLOGFEED"

// Config is the site descriptor
type Config struct {
	Site       string   `mapstructure:"site" json:"site" jsonschema:"description=Absolute origin of the deployed site"`
	Extensions []string `mapstructure:"extensions" json:"extensions" jsonschema:"description=Page build integrations (declared only)"`
	Markdown   Markdown `mapstructure:"markdown" json:"markdown"`

	Content Content `mapstructure:"content" json:"content" jsonschema:"description=Where collections are read from"`
	Feed    Feed    `mapstructure:"feed" json:"feed" jsonschema:"description=Feed channel metadata and output formats"`
	Build   Build   `mapstructure:"build" json:"build"`
	Server  Server  `mapstructure:"server" json:"server"`
}

// Markdown holds markdown processing options. They are declared for the page build and not applied here.
type Markdown struct {
	ShikiConfig struct {
		Theme string `mapstructure:"theme" json:"theme" jsonschema:"description=Syntax highlighting theme"`
	} `mapstructure:"shikiConfig" json:"shikiConfig"`
}

// Content configures the collection source
type Content struct {
	Dir      string `mapstructure:"dir" json:"dir" jsonschema:"description=Content root with one directory per collection"`
	Source   string `mapstructure:"source" json:"source" jsonschema:"enum=files,enum=sqlite,description=Collection source"`
	Database string `mapstructure:"database" json:"database" jsonschema:"description=Path of the sqlite store"`
}

// Feed configures the feed channel
type Feed struct {
	Title       string   `mapstructure:"title" json:"title"`
	Description string   `mapstructure:"description" json:"description"`
	Language    string   `mapstructure:"language" json:"language"`
	Author      string   `mapstructure:"author" json:"author,omitempty"`
	Collection  string   `mapstructure:"collection" json:"collection" jsonschema:"description=Collection the feed is built from"`
	LinkPrefix  string   `mapstructure:"link_prefix" json:"link_prefix" jsonschema:"description=Path prefix of entry links"`
	Formats     []string `mapstructure:"formats" json:"formats" jsonschema:"description=Formats written by build: rss atom json"`
	Stylesheet  string   `mapstructure:"stylesheet" json:"stylesheet,omitempty" jsonschema:"description=XSL stylesheet referenced from the RSS feed"`
	Template    string   `mapstructure:"template" json:"template,omitempty" jsonschema:"description=RSS template file replacing the built-in one"`
	CustomData  string   `mapstructure:"custom_data" json:"custom_data,omitempty" jsonschema:"description=Raw XML appended to the RSS channel"`
}

// Build configures the static output
type Build struct {
	OutDir string `mapstructure:"out_dir" json:"out_dir"`
}

// Server configures the HTTP binding
type Server struct {
	Listen  string        `mapstructure:"listen" json:"listen"`
	Timeout time.Duration `mapstructure:"timeout" json:"timeout"`
}

// setDefaults registers every key so environment overrides apply to all of them
func setDefaults(v *viper.Viper) {
	v.SetDefault("site", "")
	v.SetDefault("extensions", []string{"mdx"})
	v.SetDefault("markdown.shikiConfig.theme", "github-dark")

	v.SetDefault("content.dir", "src/content")
	v.SetDefault("content.source", "files")
	v.SetDefault("content.database", "blog-feed.db")

	v.SetDefault("feed.title", feed.DefaultTitle)
	v.SetDefault("feed.description", feed.DefaultDescription)
	v.SetDefault("feed.language", feed.DefaultLanguage)
	v.SetDefault("feed.author", "")
	v.SetDefault("feed.collection", feed.DefaultCollection)
	v.SetDefault("feed.link_prefix", feed.DefaultLinkPrefix)
	v.SetDefault("feed.formats", []string{string(feed.RSS)})
	v.SetDefault("feed.stylesheet", "")
	v.SetDefault("feed.template", "")
	v.SetDefault("feed.custom_data", "")

	v.SetDefault("build.out_dir", "dist")

	v.SetDefault("server.listen", ":8080")
	v.SetDefault("server.timeout", 30*time.Second)
}

// LoadConfig loads the site descriptor from path. A missing file leaves the defaults in place.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")

		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("error reading config file: %w", err)
			}
			slog.Debug("Config file not found, using defaults", "path", path)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	return &config, nil
}

// Validate checks the options a build depends on
func (c *Config) Validate() error {
	var errs []error

	if !urlutils.IsValidURL(c.Site) {
		errs = append(errs, fmt.Errorf("site must be an absolute URL, got %q", c.Site))
	}
	if c.Feed.Collection == "" {
		errs = append(errs, fmt.Errorf("feed.collection is required"))
	}
	if _, err := c.Formats(); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

// Formats returns the configured output formats, RSS when none are set
func (c *Config) Formats() ([]feed.Format, error) {
	if len(c.Feed.Formats) == 0 {
		return []feed.Format{feed.RSS}, nil
	}

	formats := make([]feed.Format, 0, len(c.Feed.Formats))
	for _, name := range c.Feed.Formats {
		format, err := feed.ParseFormat(name)
		if err != nil {
			return nil, fmt.Errorf("feed.formats: %w", err)
		}
		formats = append(formats, format)
	}
	return formats, nil
}

// Channel converts the feed section into channel metadata
func (c *Config) Channel() feed.Channel {
	return feed.Channel{
		Title:       c.Feed.Title,
		Description: c.Feed.Description,
		Language:    c.Feed.Language,
		Author:      c.Feed.Author,
		CustomData:  c.Feed.CustomData,
		Stylesheet:  c.Feed.Stylesheet,
		Collection:  c.Feed.Collection,
		LinkPrefix:  c.Feed.LinkPrefix,
	}
}

// Schema returns the JSON schema of the site descriptor
func Schema() *jsonschema.Schema {
	return jsonschema.Reflect(&Config{})
}

// WriteDefault writes the embedded default descriptor to path, refusing to replace an existing file unless force is set
func WriteDefault(path string, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config file %s already exists", path)
		}
	}

	data, err := configs.EmbeddedConfigs.ReadFile(configs.SiteConfig)
	if err != nil {
		return fmt.Errorf("failed to read embedded config: %w", err)
	}

	if err := filesystem.WriteFileAtomic(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	slog.Info("Config file written", "path", path)
	return nil
}
