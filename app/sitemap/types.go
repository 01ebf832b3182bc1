package sitemap

import "time"

// Artifact file names, also used as the HTTP paths in serve mode.
const (
	FileSitemap = "sitemap.xml"
	FileRobots  = "robots.txt"
	FileFeed    = "feed.xml"
)

const (
	changeFreqDaily  = "daily"
	changeFreqWeekly = "weekly"
)

// Priorities are emitted as fixed decimal literals so regenerated output
// is byte-stable.
const (
	priorityRoot  = "1"
	priorityIndex = "0.8"
	priorityPost  = "0.6"
)

// entry is one <url> element of the sitemap.
type entry struct {
	loc        string
	lastMod    *time.Time
	changeFreq string
	priority   string
}

// Artifacts holds one generation's output documents. Feed is empty when
// feed generation is disabled.
type Artifacts struct {
	Sitemap     string
	Robots      string
	Feed        string
	PostCount   int
	GeneratedAt time.Time
}
