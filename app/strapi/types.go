package strapi

import (
	"time"
)

// Post is a normalized CMS post record. UpdatedAt is the first available
// of the record's updated/published/created timestamps; nil when the
// record carries none of them. Title and Excerpt are only populated when
// the client was configured to request them.
type Post struct {
	Slug      string
	Title     string
	Excerpt   string
	UpdatedAt *time.Time
}

// listResponse mirrors the Strapi listing envelope. Entries are kept as
// raw maps because v4 nests fields under "attributes" while v5 returns
// them flat.
type listResponse struct {
	Data []map[string]interface{} `json:"data"`
	Meta listMeta                 `json:"meta"`
}

type listMeta struct {
	Pagination listPagination `json:"pagination"`
}

type listPagination struct {
	PageCount *int `json:"pageCount"`
}
