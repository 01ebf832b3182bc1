package siteconf

import (
	"cmp"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

const (
	keyStrapiURL = "strapi_url"
	keySiteSlug  = "strapi_site_slug"
)

// Resolver produces a SiteConfig from three sources in priority order:
// explicit values from the environment, a remote config.json served from
// the site's own domain, and a local configuration file. A failing source
// is treated as absent, never as an error; only an empty final result is.
type Resolver struct {
	siteURL      string
	configFile   string
	explicitURL  string
	explicitSlug string
	userAgent    string
	httpClient   *http.Client
}

func NewResolver(siteURL, configFile, explicitURL, explicitSlug, userAgent string, httpClient *http.Client) *Resolver {
	return &Resolver{
		siteURL:      siteURL,
		configFile:   configFile,
		explicitURL:  explicitURL,
		explicitSlug: explicitSlug,
		userAgent:    userAgent,
		httpClient:   httpClient,
	}
}

// Resolve launches the remote and local lookups concurrently, waits for
// both, and merges the results field by field with explicit values
// winning. Returns an error only when a field stays empty across all
// three sources.
func (r *Resolver) Resolve(ctx context.Context) (*SiteConfig, error) {
	var remote, local *document

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		remote = r.fetchRemote(ctx)
	}()
	go func() {
		defer wg.Done()
		local = r.readLocal()
	}()
	wg.Wait()

	strapiURL := cmp.Or(r.explicitURL, remote.get(keyStrapiURL), local.get(keyStrapiURL))
	siteSlug := cmp.Or(r.explicitSlug, remote.get(keySiteSlug), local.get(keySiteSlug))

	if strapiURL == "" || siteSlug == "" {
		return nil, fmt.Errorf("unable to resolve Strapi configuration: strapi_url=%q strapi_site_slug=%q "+
			"(checked environment, %s/config.json and %s)", strapiURL, siteSlug, r.siteURL, r.configFile)
	}

	return &SiteConfig{
		StrapiURL: strings.TrimRight(strapiURL, "/"),
		SiteSlug:  siteSlug,
	}, nil
}

func (r *Resolver) fetchRemote(ctx context.Context) *document {
	url := r.siteURL + "/config.json"

	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		slog.Debug("Remote config request setup failed", "url", url, "error", err)
		return nil
	}
	req.Header.Set("User-Agent", r.userAgent)

	resp, err := r.httpClient.Do(req)
	if err != nil {
		slog.Debug("Remote config unavailable", "url", url, "error", err)
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		slog.Debug("Remote config returned non-success status", "url", url, "status", resp.StatusCode)
		return nil
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		slog.Debug("Failed to read remote config body", "url", url, "error", err)
		return nil
	}

	doc, err := parseDocument(data, false)
	if err != nil {
		slog.Debug("Failed to parse remote config", "url", url, "error", err)
		return nil
	}

	return doc
}

func (r *Resolver) readLocal() *document {
	data, err := os.ReadFile(r.configFile)
	if err != nil {
		slog.Debug("Local config unavailable", "file", r.configFile, "error", err)
		return nil
	}

	ext := strings.ToLower(filepath.Ext(r.configFile))
	doc, err := parseDocument(data, ext == ".yml" || ext == ".yaml")
	if err != nil {
		slog.Debug("Failed to parse local config", "file", r.configFile, "error", err)
		return nil
	}

	return doc
}

// parseDocument extracts string fields from a config document. Fields live
// in the "basic" section; top-level keys are accepted as a fallback for
// hand-written files. All keys are lowercased.
func parseDocument(data []byte, isYAML bool) (*document, error) {
	var raw map[string]interface{}

	if isYAML {
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, err
		}
	} else {
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, err
		}
	}

	fields := make(map[string]string)
	collect := func(section map[string]interface{}) {
		for key, value := range section {
			if s, ok := value.(string); ok {
				fields[strings.ToLower(key)] = s
			}
		}
	}

	collect(raw)
	for key, value := range raw {
		if strings.EqualFold(key, "basic") {
			if section, ok := value.(map[string]interface{}); ok {
				collect(section)
			}
		}
	}

	return &document{fields: fields}, nil
}
