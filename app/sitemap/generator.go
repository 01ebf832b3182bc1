package sitemap

import (
	"bytes"
	"encoding/xml"
	"net/url"
	"time"

	"github.com/dpogorelov/strapi-sitemap/app/strapi"
)

// Generator builds the sitemap document. Pure: no I/O, deterministic for
// a given input ordering.
type Generator struct{}

func NewGenerator() *Generator {
	return &Generator{}
}

// Run renders the sitemap-protocol XML for the site. The site root and
// the blog index are always emitted, even with zero posts.
func (g *Generator) Run(siteURL string, posts []strapi.Post) string {
	entries := make([]entry, 0, len(posts)+2)
	entries = append(entries,
		entry{loc: siteURL + "/", changeFreq: changeFreqDaily, priority: priorityRoot},
		entry{loc: siteURL + "/blog", changeFreq: changeFreqDaily, priority: priorityIndex},
	)

	for _, post := range posts {
		entries = append(entries, entry{
			loc:        siteURL + "/blog/" + url.PathEscape(post.Slug),
			lastMod:    post.UpdatedAt,
			changeFreq: changeFreqWeekly,
			priority:   priorityPost,
		})
	}

	var buf bytes.Buffer

	buf.WriteString(`<?xml version="1.0" encoding="UTF-8"?>`)
	buf.WriteString("\n")
	buf.WriteString(`<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">`)
	buf.WriteString("\n")

	for _, e := range entries {
		g.writeEntry(&buf, e)
	}

	buf.WriteString("</urlset>\n")

	return buf.String()
}

func (g *Generator) writeEntry(buf *bytes.Buffer, e entry) {
	buf.WriteString("  <url>\n")
	g.writeElement(buf, "loc", e.loc, 4)
	if e.lastMod != nil {
		g.writeElement(buf, "lastmod", e.lastMod.UTC().Format(time.RFC3339), 4)
	}
	g.writeElement(buf, "changefreq", e.changeFreq, 4)
	g.writeElement(buf, "priority", e.priority, 4)
	buf.WriteString("  </url>\n")
}

func (g *Generator) writeElement(buf *bytes.Buffer, tag, content string, indent int) {
	if content == "" {
		return
	}

	for i := 0; i < indent; i++ {
		buf.WriteByte(' ')
	}

	buf.WriteString("<")
	buf.WriteString(tag)
	buf.WriteString(">")
	xml.EscapeText(buf, []byte(content))
	buf.WriteString("</")
	buf.WriteString(tag)
	buf.WriteString(">\n")
}
