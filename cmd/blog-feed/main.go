// Package main provides the CLI entry point for blog-feed.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
	kongyaml "github.com/alecthomas/kong-yaml"

	"github.com/lepinkainen/blog-feed/internal/config"
	"github.com/lepinkainen/blog-feed/internal/server"
	"github.com/lepinkainen/blog-feed/internal/site"
	"github.com/lepinkainen/blog-feed/pkg/preview"
	"github.com/lepinkainen/blog-feed/pkg/sources"
)

var version = "dev"

// CLI structure
var CLI struct {
	Config string `help:"Site descriptor path" default:"site.yaml"`
	Debug  bool   `help:"Enable debug logging" default:"false"`

	Build struct {
		OutDir string `help:"Output directory (defaults to build.out_dir)" short:"o"`
	} `cmd:"build" help:"Write the configured feed formats."`

	Serve struct {
		Listen string `help:"Listen address (defaults to server.listen)"`
	} `cmd:"serve" help:"Serve /rss.xml, /atom.xml and /feed.json, building on every request."`

	Preview struct {
		Index int `help:"Output the RSS <item> for a specific entry index (0-based) to stdout" default:"-1"`
	} `cmd:"preview" help:"Preview feed entries interactively."`

	Index struct {
		DB    string `help:"Store path (defaults to content.database)"`
		Stats bool   `help:"Print store statistics instead of indexing"`
	} `cmd:"index" help:"Copy the collection from the content directory into the sqlite store."`

	Check struct {
		Target string `arg:"" help:"Feed file or http(s) URL to verify"`
	} `cmd:"check" help:"Parse a generated or published feed and verify its entry order."`

	Schema struct{} `cmd:"schema" help:"Print the JSON schema of the site descriptor."`

	Init struct {
		Force bool `help:"Overwrite an existing site descriptor"`
	} `cmd:"init" help:"Write the default site descriptor."`
}

func main() {
	// Parse CLI with Kong YAML configuration file loading
	kctx := kong.Parse(&CLI,
		kong.Name("blog-feed"),
		kong.Description("Syndication feeds for a static blog."),
		kong.Configuration(kongyaml.Loader, "blog-feed.yaml", "~/.blog-feed/config.yaml"),
	)

	if CLI.Debug {
		slog.SetLogLoggerLevel(slog.LevelDebug)
	} else {
		slog.SetLogLoggerLevel(slog.LevelWarn)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var err error
	switch kctx.Command() {
	case "build":
		err = buildFeed(ctx)
	case "serve":
		err = serveFeed(ctx)
	case "preview":
		err = previewFeed(ctx)
	case "index":
		err = indexCollection(ctx)
	case "check <target>":
		err = checkFeed(ctx)
	case "schema":
		err = printSchema()
	case "init":
		err = config.WriteDefault(CLI.Config, CLI.Init.Force)
	default:
		panic(kctx.Command())
	}

	if err != nil {
		slog.Error("Command failed", "command", kctx.Command(), "error", err)
		stop()
		os.Exit(1)
	}
}

// openSite loads the site descriptor and opens its collection source
func openSite() (*config.Config, *site.Site, error) {
	cfg, err := config.LoadConfig(CLI.Config)
	if err != nil {
		return nil, nil, err
	}

	s, err := site.Open(cfg)
	if err != nil {
		return nil, nil, err
	}
	return cfg, s, nil
}

func buildFeed(ctx context.Context) error {
	_, s, err := openSite()
	if err != nil {
		return err
	}
	defer s.Close()

	paths, err := s.Build(ctx, CLI.Build.OutDir)
	if err != nil {
		return err
	}

	for _, path := range paths {
		fmt.Println(path)
	}
	return nil
}

func serveFeed(ctx context.Context) error {
	cfg, s, err := openSite()
	if err != nil {
		return err
	}
	defer s.Close()

	listen := cfg.Server.Listen
	if CLI.Serve.Listen != "" {
		listen = CLI.Serve.Listen
	}

	srv := server.New(server.Config{
		Listen:  listen,
		Timeout: cfg.Server.Timeout,
		Version: version,
		Debug:   CLI.Debug,
	}, s)
	return srv.Run(ctx)
}

func previewFeed(ctx context.Context) error {
	_, s, err := openSite()
	if err != nil {
		return err
	}
	defer s.Close()

	doc, err := s.Feed(ctx)
	if err != nil {
		return err
	}

	if CLI.Preview.Index >= 0 {
		if CLI.Preview.Index >= len(doc.Entries) {
			return fmt.Errorf("index %d out of range, the feed has %d entries", CLI.Preview.Index, len(doc.Entries))
		}
		fmt.Println(preview.FormatXMLItem(doc, CLI.Preview.Index, s.Generator()))
		return nil
	}

	return preview.Run(doc, s.Generator())
}

func indexCollection(ctx context.Context) error {
	cfg, err := config.LoadConfig(CLI.Config)
	if err != nil {
		return err
	}

	dbPath := CLI.Index.DB
	if dbPath == "" {
		dbPath = cfg.Content.Database
	}

	if CLI.Index.Stats {
		stats, err := site.Stats(ctx, dbPath)
		if err != nil {
			return err
		}
		return printJSON(stats)
	}

	count, err := site.Index(ctx, cfg, dbPath)
	if err != nil {
		return err
	}

	fmt.Printf("Indexed %d entries of %s into %s\n", count, cfg.Feed.Collection, dbPath)
	if cfg.Content.Source != sources.SQLiteSource {
		fmt.Printf("Set content.source to %q to build from the store\n", sources.SQLiteSource)
	}
	return nil
}

func checkFeed(ctx context.Context) error {
	report, err := site.Check(ctx, CLI.Check.Target, nil)
	if err != nil {
		return err
	}

	fmt.Printf("%s feed %q (language %q, link %s): %d entries, ordered newest first\n",
		report.Type, report.Title, report.Language, report.Link, report.Entries)
	return nil
}

func printSchema() error {
	return printJSON(config.Schema())
}

func printJSON(v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	fmt.Println(string(out))
	return nil
}
