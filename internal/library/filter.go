package library

import (
	"fmt"
	"strconv"

	"github.com/hongminglow/rentalctl/internal/client"
)

// PageSize is the number of games per filtered page.
const PageSize = 15

// Filter selects games from the catalog. Empty fields do not filter.
type Filter struct {
	Page      int
	MinRating string
	Genres    []string
	Platforms []string
}

// Validate rejects values the catalog does not know.
func (f Filter) Validate() error {
	if f.MinRating != "" {
		if _, err := strconv.ParseFloat(f.MinRating, 64); err != nil {
			return fmt.Errorf("min rating %q is not a number", f.MinRating)
		}
	}
	for _, g := range f.Genres {
		if !KnownGenre(g) {
			return fmt.Errorf("unknown genre %q", g)
		}
	}
	for _, p := range f.Platforms {
		if !KnownPlatform(p) {
			return fmt.Errorf("unknown platform %q", p)
		}
	}
	return nil
}

// Query renders f for the client, defaulting to the first page.
func (f Filter) Query() client.FilterQuery {
	page := f.Page
	if page < 1 {
		page = 1
	}
	return client.FilterQuery{
		Page:      page,
		Limit:     PageSize,
		MinRating: f.MinRating,
		Genres:    f.Genres,
		Platforms: f.Platforms,
	}
}
