// internal/app/system/paging/paging.go
package paging

import (
	"net/http"
	"strconv"

	"github.com/dalemusser/waffle/pantry/query"
)

// DefaultLimit is the page size used when the request does not specify one.
const DefaultLimit = 50

// MaxLimit caps the page size a client may request.
const MaxLimit = 200

// Params holds the parsed page/limit query parameters for offset paging.
type Params struct {
	Page  int
	Limit int
}

// Parse extracts "page" and "limit" from the request query. Missing or
// invalid values fall back to page 1 and DefaultLimit; limit is clamped
// to MaxLimit.
func Parse(r *http.Request) Params {
	p := Params{Page: 1, Limit: DefaultLimit}

	if s := query.Get(r, "page"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n >= 1 {
			p.Page = n
		}
	}
	if s := query.Get(r, "limit"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n >= 1 {
			p.Limit = n
		}
	}
	if p.Limit > MaxLimit {
		p.Limit = MaxLimit
	}
	return p
}

// Skip returns the number of documents to skip for Mongo Find().SetSkip().
func (p Params) Skip() int64 { return int64(p.Page-1) * int64(p.Limit) }

// Limit64 returns the limit as int64 for Mongo Find().SetLimit().
func (p Params) Limit64() int64 { return int64(p.Limit) }
