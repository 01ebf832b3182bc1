package siteconf

// SiteConfig is the resolved CMS endpoint configuration. It is built once
// per run and not modified afterwards.
type SiteConfig struct {
	StrapiURL string
	SiteSlug  string
}

// document is a parsed configuration source. Keys are lowercased at parse
// time so lookups are case-insensitive. A nil document means the source
// was absent or unreadable.
type document struct {
	fields map[string]string
}

func (d *document) get(key string) string {
	if d == nil {
		return ""
	}
	return d.fields[key]
}
