package generate

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/dpogorelov/strapi-sitemap/app/cfg"
	"github.com/dpogorelov/strapi-sitemap/app/database"
	"github.com/dpogorelov/strapi-sitemap/app/output"
	"github.com/dpogorelov/strapi-sitemap/app/sitemap"
	"github.com/dpogorelov/strapi-sitemap/app/siteconf"
	"github.com/dpogorelov/strapi-sitemap/app/strapi"
)

// Runner executes one generation: resolve the CMS configuration, fetch
// the posts, build the artifacts, write them out and record the run.
type Runner struct {
	appCfg        *cfg.Cfg
	resolver      *siteconf.Resolver
	writer        *output.Writer
	generator     *sitemap.Generator
	feedGenerator *sitemap.FeedGenerator
	runRepo       database.RunRepository // nil disables run history
	httpClient    *http.Client
}

func NewRunner(appCfg *cfg.Cfg, runRepo database.RunRepository, httpClient *http.Client) *Runner {
	return &Runner{
		appCfg: appCfg,
		resolver: siteconf.NewResolver(appCfg.SiteURL, appCfg.ConfigFile,
			appCfg.StrapiURL, appCfg.StrapiSiteSlug, appCfg.UserAgent, httpClient),
		writer:        output.NewWriter(appCfg.OutputDir),
		generator:     sitemap.NewGenerator(),
		feedGenerator: sitemap.NewFeedGenerator(),
		runRepo:       runRepo,
		httpClient:    httpClient,
	}
}

// Run returns an error only when no artifacts could be produced: an
// unresolvable CMS configuration or a write failure. A failed post fetch
// degrades to an empty post list and still succeeds.
func (r *Runner) Run(ctx context.Context) (*sitemap.Artifacts, error) {
	started := time.Now()

	config, err := r.resolver.Resolve(ctx)
	if err != nil {
		return nil, err
	}
	slog.Debug("Resolved Strapi configuration", "strapi_url", config.StrapiURL, "site_slug", config.SiteSlug)

	client := strapi.NewClient(config, r.appCfg.StrapiAPIToken, r.appCfg.UserAgent,
		r.appCfg.GenerateFeed, r.httpClient)

	degraded := false
	fetchError := ""
	posts, err := client.FetchPosts(ctx)
	if err != nil {
		slog.Warn("Failed to fetch posts, generating minimal sitemap", "error", err)
		posts = nil
		degraded = true
		fetchError = err.Error()
	}

	artifacts := &sitemap.Artifacts{
		Sitemap:     r.generator.Run(r.appCfg.SiteURL, posts),
		Robots:      sitemap.BuildRobots(r.appCfg.SiteURL),
		PostCount:   len(posts),
		GeneratedAt: time.Now().UTC(),
	}
	if r.appCfg.GenerateFeed {
		artifacts.Feed = r.feedGenerator.Run(r.appCfg.SiteURL, r.appCfg.SiteName, posts)
	}

	if err := r.writer.Write(artifacts); err != nil {
		return nil, err
	}

	slog.Info("Generated artifacts",
		"output_dir", r.appCfg.OutputDir,
		"posts", len(posts),
		"degraded", degraded,
		"duration", time.Since(started).String())

	if r.runRepo != nil {
		run := database.Run{
			StartedAt:  started.UTC(),
			DurationMs: time.Since(started).Milliseconds(),
			PostCount:  len(posts),
			Degraded:   degraded,
			Error:      fetchError,
		}
		if err := r.runRepo.RecordRun(run); err != nil {
			slog.Warn("Failed to record run", "error", err)
		}
	}

	return artifacts, nil
}
