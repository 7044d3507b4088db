package library

import (
	"context"
	"fmt"
	"log"

	"golang.org/x/sync/errgroup"

	"github.com/hongminglow/rentalctl/internal/models"
	"github.com/hongminglow/rentalctl/internal/models/dto"
)

const (
	// FeedBatch is both the page size of the feed and the minimum number of
	// games a More call tries to add.
	FeedBatch = 3
	// feedInitialPages are fetched together by Start.
	feedInitialPages = 3
)

// Feed is the "new games" listing, loaded a few pages at a time with
// duplicate ids dropped.
type Feed struct {
	catalog    Catalog
	games      []models.Game
	seen       map[int64]struct{}
	page       int
	totalPages int
}

// NewFeed returns an empty feed.
func NewFeed(catalog Catalog) *Feed {
	return &Feed{catalog: catalog, seen: make(map[int64]struct{})}
}

// Start loads the first pages concurrently and replaces the feed contents.
// On failure the feed is left empty.
func (f *Feed) Start(ctx context.Context) ([]models.Game, error) {
	f.games = nil
	f.seen = make(map[int64]struct{})
	f.page, f.totalPages = 0, 0

	pages := make([]dto.GamePage, feedInitialPages)
	g, gctx := errgroup.WithContext(ctx)
	for i := range pages {
		g.Go(func() error {
			page, err := f.catalog.NewGames(gctx, i+1, FeedBatch)
			if err != nil {
				return fmt.Errorf("new games page %d: %w", i+1, err)
			}
			pages[i] = page
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for i, page := range pages {
		f.games = append(f.games, f.unseen(page.Data, i+1)...)
	}
	f.page = feedInitialPages
	f.totalPages = pages[0].Meta.TotalPages
	return f.Games(), nil
}

// More fetches further pages until at least FeedBatch unseen games were found
// or the pages run out, and returns only the added games. On failure nothing
// is added.
func (f *Feed) More(ctx context.Context) ([]models.Game, error) {
	var added []models.Game
	next := f.page + 1
	seen := make(map[int64]struct{}, len(f.seen))
	for id := range f.seen {
		seen[id] = struct{}{}
	}

	for len(added) < FeedBatch && next <= f.totalPages {
		page, err := f.catalog.NewGames(ctx, next, FeedBatch)
		if err != nil {
			return nil, fmt.Errorf("new games page %d: %w", next, err)
		}
		for _, game := range page.Data {
			if _, dup := seen[game.ID]; dup {
				log.Printf("library: duplicate game %d on page %d", game.ID, next)
				continue
			}
			seen[game.ID] = struct{}{}
			added = append(added, game)
		}
		next++
	}

	f.seen = seen
	f.games = append(f.games, added...)
	f.page = next - 1
	return added, nil
}

// HasMore reports whether pages remain after the last one loaded.
func (f *Feed) HasMore() bool {
	return f.page < f.totalPages
}

// Games returns a copy of everything loaded so far.
func (f *Feed) Games() []models.Game {
	return append([]models.Game(nil), f.games...)
}

func (f *Feed) unseen(games []models.Game, page int) []models.Game {
	var out []models.Game
	for _, game := range games {
		if _, dup := f.seen[game.ID]; dup {
			log.Printf("library: duplicate game %d on page %d", game.ID, page)
			continue
		}
		f.seen[game.ID] = struct{}{}
		out = append(out, game)
	}
	return out
}
