package sitemap

import (
	"bytes"
	"cmp"
	"encoding/xml"
	"net/url"
	"time"

	"github.com/dpogorelov/strapi-sitemap/app/strapi"
)

// FeedGenerator builds an RSS 2.0 feed of the blog posts. Like the
// sitemap generator it is pure and deterministic for a given ordering.
type FeedGenerator struct{}

func NewFeedGenerator() *FeedGenerator {
	return &FeedGenerator{}
}

func (g *FeedGenerator) Run(siteURL, siteName string, posts []strapi.Post) string {
	var buf bytes.Buffer

	buf.WriteString(`<?xml version="1.0" encoding="UTF-8"?>`)
	buf.WriteString("\n")
	buf.WriteString(`<rss version="2.0">`)
	buf.WriteString("\n  <channel>\n")

	g.writeElement(&buf, "title", siteName, 4)
	g.writeElement(&buf, "link", siteURL, 4)
	g.writeElement(&buf, "description", "Latest posts from "+siteName, 4)

	if len(posts) > 0 && posts[0].UpdatedAt != nil {
		g.writeElement(&buf, "lastBuildDate", posts[0].UpdatedAt.UTC().Format(time.RFC1123Z), 4)
	}

	for _, post := range posts {
		g.writeItem(&buf, siteURL, post)
	}

	buf.WriteString("  </channel>\n</rss>\n")

	return buf.String()
}

func (g *FeedGenerator) writeItem(buf *bytes.Buffer, siteURL string, post strapi.Post) {
	postURL := siteURL + "/blog/" + url.PathEscape(post.Slug)
	title := cmp.Or(post.Title, post.Slug)

	buf.WriteString("    <item>\n")
	g.writeElement(buf, "title", title, 6)
	g.writeElement(buf, "link", postURL, 6)
	g.writeElement(buf, "description", cmp.Or(post.Excerpt, title), 6)

	buf.WriteString(`      <guid isPermaLink="true">`)
	xml.EscapeText(buf, []byte(postURL))
	buf.WriteString("</guid>\n")

	if post.UpdatedAt != nil {
		g.writeElement(buf, "pubDate", post.UpdatedAt.UTC().Format(time.RFC1123Z), 6)
	}

	buf.WriteString("    </item>\n")
}

func (g *FeedGenerator) writeElement(buf *bytes.Buffer, tag, content string, indent int) {
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
