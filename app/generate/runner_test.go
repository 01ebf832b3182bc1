package generate

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dpogorelov/strapi-sitemap/app/cfg"
	"github.com/dpogorelov/strapi-sitemap/app/database"
)

type fakeRunRepo struct {
	runs []database.Run
}

func (f *fakeRunRepo) RecordRun(run database.Run) error {
	f.runs = append(f.runs, run)
	return nil
}

func (f *fakeRunRepo) GetRecentRuns(limit int) ([]database.Run, error) {
	return f.runs, nil
}

func (f *fakeRunRepo) GetRunStats() (*database.RunStats, error) {
	return &database.RunStats{TotalRuns: len(f.runs)}, nil
}

func testCfg(siteURL, outputDir string) *cfg.Cfg {
	return &cfg.Cfg{
		SiteURL:        siteURL,
		SiteName:       "Test Site",
		StrapiURL:      siteURL,
		StrapiSiteSlug: "test-site",
		OutputDir:      outputDir,
		ConfigFile:     filepath.Join(outputDir, "missing-config.json"),
		UserAgent:      "strapi-sitemap-test/1.0",
	}
}

func postsHandler(t *testing.T, slugs []string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/posts" {
			http.NotFound(w, r)
			return
		}
		data := make([]map[string]interface{}, 0, len(slugs))
		for _, slug := range slugs {
			data = append(data, map[string]interface{}{
				"id": 1, "slug": slug, "createdAt": "2024-01-15T09:00:00Z",
			})
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"data": data,
			"meta": map[string]interface{}{"pagination": map[string]interface{}{"pageCount": 1}},
		})
	}
}

func TestRunWritesArtifacts(t *testing.T) {
	server := httptest.NewServer(postsHandler(t, []string{"first-post", "second-post"}))
	defer server.Close()

	outputDir := t.TempDir()
	repo := &fakeRunRepo{}
	runner := NewRunner(testCfg(server.URL, outputDir), repo, server.Client())

	artifacts, err := runner.Run(context.Background())
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if artifacts.PostCount != 2 {
		t.Errorf("Expected 2 posts, got %d", artifacts.PostCount)
	}

	data, err := os.ReadFile(filepath.Join(outputDir, "sitemap.xml"))
	if err != nil {
		t.Fatalf("Expected sitemap.xml on disk: %v", err)
	}
	if !strings.Contains(string(data), "/blog/first-post") {
		t.Error("Written sitemap should contain the post entry")
	}

	if _, err := os.Stat(filepath.Join(outputDir, "robots.txt")); err != nil {
		t.Errorf("Expected robots.txt on disk: %v", err)
	}

	if len(repo.runs) != 1 || repo.runs[0].Degraded {
		t.Errorf("Expected one non-degraded run record, got %+v", repo.runs)
	}
}

func TestRunDegradesOnFetchFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "cms is down", http.StatusBadGateway)
	}))
	defer server.Close()

	outputDir := t.TempDir()
	repo := &fakeRunRepo{}
	runner := NewRunner(testCfg(server.URL, outputDir), repo, server.Client())

	artifacts, err := runner.Run(context.Background())
	if err != nil {
		t.Fatalf("Fetch failure must not fail the run, got: %v", err)
	}

	if artifacts.PostCount != 0 {
		t.Errorf("Expected empty post list, got %d", artifacts.PostCount)
	}
	if count := strings.Count(artifacts.Sitemap, "<url>"); count != 2 {
		t.Errorf("Degraded sitemap should contain exactly the 2 static entries, got %d", count)
	}

	if _, err := os.Stat(filepath.Join(outputDir, "sitemap.xml")); err != nil {
		t.Errorf("Degraded run should still write sitemap.xml: %v", err)
	}

	if len(repo.runs) != 1 || !repo.runs[0].Degraded || repo.runs[0].Error == "" {
		t.Errorf("Expected a degraded run record with error text, got %+v", repo.runs)
	}
}

func TestRunFailsWithoutResolution(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	defer server.Close()

	outputDir := filepath.Join(t.TempDir(), "out")
	appCfg := testCfg(server.URL, outputDir)
	appCfg.StrapiURL = ""
	appCfg.StrapiSiteSlug = ""

	runner := NewRunner(appCfg, nil, server.Client())
	if _, err := runner.Run(context.Background()); err == nil {
		t.Fatal("Expected error when the CMS configuration is unresolvable")
	}

	// Nothing may be written on a fatal resolution failure.
	if _, err := os.Stat(outputDir); !os.IsNotExist(err) {
		t.Error("Output directory should not exist after a failed resolution")
	}
}

func TestRunGeneratesFeedWhenEnabled(t *testing.T) {
	server := httptest.NewServer(postsHandler(t, []string{"hello"}))
	defer server.Close()

	outputDir := t.TempDir()
	appCfg := testCfg(server.URL, outputDir)
	appCfg.GenerateFeed = true

	runner := NewRunner(appCfg, nil, server.Client())
	artifacts, err := runner.Run(context.Background())
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if artifacts.Feed == "" {
		t.Fatal("Expected feed artifact when feed generation is enabled")
	}
	if _, err := os.Stat(filepath.Join(outputDir, "feed.xml")); err != nil {
		t.Errorf("Expected feed.xml on disk: %v", err)
	}
}
