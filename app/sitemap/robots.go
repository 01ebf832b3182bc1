package sitemap

// BuildRobots renders the robots.txt document: full crawl access plus a
// pointer to the sitemap.
func BuildRobots(siteURL string) string {
	return "User-agent: *\nAllow: /\nSitemap: " + siteURL + "/sitemap.xml\n"
}
