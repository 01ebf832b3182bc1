package strapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/unicode/norm"

	"github.com/dpogorelov/strapi-sitemap/app/siteconf"
)

const pageSize = 100

// maxPages bounds pagination against malformed server metadata; a server
// that keeps reporting more pages stops being believed after this many.
const maxPages = 1000

// timestampFields in fallback order: the first one present on a record
// becomes its UpdatedAt.
var timestampFields = []string{"updatedAt", "publishedAt", "createdAt"}

type Client struct {
	baseURL       string
	siteSlug      string
	apiToken      string
	userAgent     string
	includeTitles bool
	httpClient    *http.Client
}

func NewClient(config *siteconf.SiteConfig, apiToken, userAgent string, includeTitles bool, httpClient *http.Client) *Client {
	return &Client{
		baseURL:       config.StrapiURL,
		siteSlug:      config.SiteSlug,
		apiToken:      apiToken,
		userAgent:     userAgent,
		includeTitles: includeTitles,
		httpClient:    httpClient,
	}
}

// FetchPosts pages through the listing endpoint and returns every
// published post for the configured site slug. Pagination trusts the
// server's pageCount when reported; without it, a full page implies more
// may follow. Any per-page failure aborts the whole fetch.
func (c *Client) FetchPosts(ctx context.Context) ([]Post, error) {
	var posts []Post

	for page := 1; page <= maxPages; page++ {
		list, err := c.fetchPage(ctx, page)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch posts page %d: %w", page, err)
		}

		for _, entry := range list.Data {
			if post, ok := c.normalizeEntry(entry); ok {
				posts = append(posts, post)
			}
		}

		if pageCount := list.Meta.Pagination.PageCount; pageCount != nil {
			if page >= *pageCount {
				break
			}
		} else if len(list.Data) < pageSize {
			break
		}
	}

	return posts, nil
}

func (c *Client) fetchPage(ctx context.Context, page int) (*listResponse, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", c.pageURL(page), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")
	if c.apiToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP error: %d %s", resp.StatusCode, resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	var list listResponse
	if err := json.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("failed to decode listing response: %w", err)
	}

	return &list, nil
}

func (c *Client) pageURL(page int) string {
	fields := []string{"slug", "updatedAt", "publishedAt", "createdAt"}
	if c.includeTitles {
		fields = append(fields, "title", "excerpt")
	}

	query := url.Values{}
	for i, field := range fields {
		query.Set(fmt.Sprintf("fields[%d]", i), field)
	}
	query.Set("filters[site][slug][$eq]", c.siteSlug)
	query.Set("sort", "createdAt:desc")
	query.Set("pagination[page]", strconv.Itoa(page))
	query.Set("pagination[pageSize]", strconv.Itoa(pageSize))

	return c.baseURL + "/api/posts?" + query.Encode()
}

// normalizeEntry flattens a listing entry (v4 attributes envelope or v5
// flat record) into a Post. Entries without a slug are dropped.
func (c *Client) normalizeEntry(entry map[string]interface{}) (Post, bool) {
	attrs := entry
	if nested, ok := entry["attributes"].(map[string]interface{}); ok {
		attrs = nested
	}

	slug, _ := attrs["slug"].(string)
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return Post{}, false
	}

	post := Post{Slug: norm.NFC.String(slug)}

	if c.includeTitles {
		post.Title, _ = attrs["title"].(string)
		post.Excerpt, _ = attrs["excerpt"].(string)
	}

	for _, field := range timestampFields {
		raw, ok := attrs[field].(string)
		if !ok {
			continue
		}
		if ts, err := time.Parse(time.RFC3339, raw); err == nil {
			post.UpdatedAt = &ts
			break
		}
	}

	return post, true
}
