package cfg

type Cfg struct {
	// Site configuration
	SiteURL  string
	SiteName string

	// CMS configuration (explicit values, highest priority source)
	StrapiURL      string
	StrapiSiteSlug string
	StrapiAPIToken string

	// Generation configuration
	OutputDir    string
	ConfigFile   string
	GenerateFeed bool

	// Serve mode configuration
	Serve           bool
	Port            string
	RefreshInterval int
	DBPath          string
	APIAccessKey    string

	// Application metadata
	UserAgent string
	Timezone  string
	Debug     bool
	Version   string
}
