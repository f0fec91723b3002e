// Package configs provides embedded configuration files for blog-feed.
package configs

import "embed"

// EmbeddedConfigs exposes embedded configuration files for read-only access.
//
//go:embed *.yaml
var EmbeddedConfigs embed.FS

// SiteConfig is the name of the default site descriptor
const SiteConfig = "site.yaml"
