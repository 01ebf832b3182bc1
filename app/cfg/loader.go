package cfg

import (
	"cmp"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/jessevdk/go-flags"
)

// Version is set at build time via -ldflags
var Version = "dev"

func GetVersion() string {
	return cmp.Or(Version, "unknown")
}

type rawCfg struct {
	// Site configuration
	SiteURL  string `long:"site-url" env:"SITE_URL" description:"Absolute base URL of the published site (required)"`
	SiteName string `long:"site-name" env:"SITE_NAME" description:"Site title used in the generated feed channel"`

	// CMS configuration
	StrapiURL      string `long:"strapi-url" env:"STRAPI_URL" description:"Strapi base URL (overrides remote/local config)"`
	StrapiSiteSlug string `long:"site-slug" env:"STRAPI_SITE_SLUG" description:"Strapi site slug (overrides remote/local config)"`
	StrapiAPIToken string `long:"api-token" env:"STRAPI_API_TOKEN" description:"Bearer token for Strapi API requests (optional)"`

	// Generation configuration
	OutputDir    string `long:"output-dir" env:"OUTPUT_DIR" default:"./public" description:"Directory the generated artifacts are written to"`
	ConfigFile   string `long:"config-file" env:"CONFIG_FILE" default:"./config.json" description:"Local site configuration file (JSON, or YAML by extension)"`
	GenerateFeed bool   `long:"feed" env:"GENERATE_FEED" description:"Also generate feed.xml (RSS 2.0)"`

	// Serve mode configuration
	Serve           bool   `long:"serve" env:"SERVE" description:"Run as a daemon: periodic regeneration plus HTTP server"`
	Port            string `long:"port" env:"PORT" default:"8080" description:"HTTP server port (serve mode)"`
	RefreshInterval int    `long:"refresh-interval" env:"REFRESH_INTERVAL" default:"3600" description:"Seconds between regenerations (serve mode)"`
	DBPath          string `long:"db-path" env:"DB_PATH" description:"Run history SQLite path (serve mode defaults to data/strapi-sitemap.db)"`
	APIAccessKey    string `long:"api-key" env:"API_ACCESS_KEY" description:"API access key for the regeneration endpoint (optional)"`

	// Application metadata
	UserAgent string `long:"user-agent" env:"USER_AGENT" default:"strapi-sitemap/1.0" description:"User agent string for HTTP requests"`
	Timezone  string `long:"timezone" env:"TZ" default:"UTC" description:"Timezone for timestamps (e.g., UTC, America/New_York)"`
	Debug     bool   `long:"debug" env:"DEBUG" description:"Enable debug logging"`
}

func Load() (*Cfg, error) {
	var raw rawCfg

	parser := flags.NewParser(&raw, flags.Default)

	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok {
			if flagsErr.Type == flags.ErrHelp {
				return nil, nil
			}
		}
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	siteURL, err := normalizeSiteURL(raw.SiteURL)
	if err != nil {
		return nil, err
	}

	cfg := &Cfg{
		SiteURL:         siteURL,
		SiteName:        cmp.Or(raw.SiteName, siteHost(siteURL)),
		StrapiURL:       strings.TrimRight(raw.StrapiURL, "/"),
		StrapiSiteSlug:  raw.StrapiSiteSlug,
		StrapiAPIToken:  raw.StrapiAPIToken,
		OutputDir:       raw.OutputDir,
		ConfigFile:      raw.ConfigFile,
		GenerateFeed:    raw.GenerateFeed,
		Serve:           raw.Serve,
		Port:            raw.Port,
		RefreshInterval: raw.RefreshInterval,
		DBPath:          raw.DBPath,
		APIAccessKey:    raw.APIAccessKey,
		UserAgent:       raw.UserAgent,
		Timezone:        raw.Timezone,
		Debug:           raw.Debug,
		Version:         GetVersion(),
	}

	if cfg.Serve && cfg.DBPath == "" {
		cfg.DBPath = "data/strapi-sitemap.db"
	}

	if err := applyTimezone(cfg.Timezone); err != nil {
		fmt.Printf("Warning: Invalid timezone '%s', using system default: %v\n", cfg.Timezone, err)
	}

	return cfg, nil
}

// normalizeSiteURL validates the site URL and strips any trailing slashes,
// so every emitted location shares one canonical base.
func normalizeSiteURL(raw string) (string, error) {
	if raw == "" {
		return "", fmt.Errorf("site URL is required (set SITE_URL or --site-url)")
	}

	trimmed := strings.TrimRight(raw, "/")
	parsed, err := url.Parse(trimmed)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return "", fmt.Errorf("site URL %q is not an absolute URL", raw)
	}

	return trimmed, nil
}

func siteHost(siteURL string) string {
	parsed, err := url.Parse(siteURL)
	if err != nil {
		return siteURL
	}
	return parsed.Host
}

func applyTimezone(timezone string) error {
	if timezone != "" {
		if loc, err := time.LoadLocation(timezone); err != nil {
			return err
		} else {
			time.Local = loc
		}
	}
	return nil
}
