package api

import (
	"github.com/dpogorelov/strapi-sitemap/app/database"
	"github.com/dpogorelov/strapi-sitemap/app/sitemap"
)

// Regenerator triggers an out-of-schedule generation; implemented by the
// task scheduler.
type Regenerator interface {
	TriggerRegenerate() error
}

type Handler struct {
	holder      *sitemap.Holder
	runRepo     database.RunRepository
	regenerator Regenerator
	version     string
	feedEnabled bool
}
