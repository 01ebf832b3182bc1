package output

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/dpogorelov/strapi-sitemap/app/sitemap"
)

// Writer persists generated artifacts to the output directory. Writes
// overwrite existing files; regeneration is idempotent so no
// partial-write protection is needed.
type Writer struct {
	outputDir string
}

func NewWriter(outputDir string) *Writer {
	return &Writer{outputDir: outputDir}
}

func (w *Writer) Write(artifacts *sitemap.Artifacts) error {
	if err := os.MkdirAll(w.outputDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory %s: %w", w.outputDir, err)
	}

	files := map[string]string{
		sitemap.FileSitemap: artifacts.Sitemap,
		sitemap.FileRobots:  artifacts.Robots,
	}
	if artifacts.Feed != "" {
		files[sitemap.FileFeed] = artifacts.Feed
	}

	for name, body := range files {
		path := filepath.Join(w.outputDir, name)
		if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", path, err)
		}
	}

	return nil
}
