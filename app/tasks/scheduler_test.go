package tasks

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dpogorelov/strapi-sitemap/app/cfg"
	"github.com/dpogorelov/strapi-sitemap/app/generate"
	"github.com/dpogorelov/strapi-sitemap/app/sitemap"
)

func newTestRunner(t *testing.T, serverURL string, httpClient *http.Client) *generate.Runner {
	t.Helper()

	appCfg := &cfg.Cfg{
		SiteURL:        serverURL,
		SiteName:       "Test Site",
		StrapiURL:      serverURL,
		StrapiSiteSlug: "test-site",
		OutputDir:      t.TempDir(),
		ConfigFile:     "missing-config.json",
		UserAgent:      "strapi-sitemap-test/1.0",
	}
	return generate.NewRunner(appCfg, nil, httpClient)
}

func TestSchedulerRunsStartupGeneration(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/posts" {
			http.NotFound(w, r)
			return
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"data": []map[string]interface{}{{"id": 1, "slug": "hello"}},
			"meta": map[string]interface{}{"pagination": map[string]interface{}{"pageCount": 1}},
		})
	}))
	defer server.Close()

	holder := sitemap.NewHolder()
	scheduler := NewScheduler(newTestRunner(t, server.URL, server.Client()), holder, time.Hour)
	scheduler.Start()
	defer scheduler.Stop()

	deadline := time.After(5 * time.Second)
	for holder.Get() == nil {
		select {
		case <-deadline:
			t.Fatal("Expected the startup generation to publish artifacts")
		case <-time.After(20 * time.Millisecond):
		}
	}

	if holder.Get().PostCount != 1 {
		t.Errorf("Expected 1 post in published artifacts, got %d", holder.Get().PostCount)
	}
}

func TestTriggerRegenerateAfterStop(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	defer server.Close()

	scheduler := NewScheduler(newTestRunner(t, server.URL, server.Client()), sitemap.NewHolder(), time.Hour)
	scheduler.Start()
	scheduler.Stop()

	if err := scheduler.TriggerRegenerate(); err == nil {
		t.Error("Expected error when triggering a stopped scheduler")
	}
}
