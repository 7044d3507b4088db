// Package library is the browsing side of the catalog: filtered listings, the
// new-games feed and random draws with their history.
package library

import (
	"context"
	"fmt"
	"log"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/hongminglow/rentalctl/internal/client"
	"github.com/hongminglow/rentalctl/internal/history"
	"github.com/hongminglow/rentalctl/internal/models"
	"github.com/hongminglow/rentalctl/internal/models/dto"
)

// Catalog is the read-only part of the catalog API.
type Catalog interface {
	FilterGames(ctx context.Context, q client.FilterQuery) (dto.GamePage, error)
	NewGames(ctx context.Context, page, limit int) (dto.GamePage, error)
	RandomGame(ctx context.Context) (models.GameDetails, error)
	Game(ctx context.Context, id int64) (models.GameDetails, error)
}

// Library combines the catalog with the local draw history.
type Library struct {
	catalog Catalog
	history *history.Tracker
}

// New builds a Library.
func New(catalog Catalog, tracker *history.Tracker) *Library {
	return &Library{catalog: catalog, history: tracker}
}

// History exposes the draw history.
func (l *Library) History() *history.Tracker { return l.history }

// Filter lists one page of games matching f.
func (l *Library) Filter(ctx context.Context, f Filter) (dto.GamePage, error) {
	if err := f.Validate(); err != nil {
		return dto.GamePage{}, err
	}
	return l.catalog.FilterGames(ctx, f.Query())
}

// Feed starts a new-games feed over the catalog.
func (l *Library) Feed() *Feed {
	return NewFeed(l.catalog)
}

// Draw fetches a random game and records it in the history. A history write
// failure is logged and does not fail the draw.
func (l *Library) Draw(ctx context.Context) (models.GameDetails, error) {
	game, err := l.catalog.RandomGame(ctx)
	if err != nil {
		return models.GameDetails{}, fmt.Errorf("draw random game: %w", err)
	}
	if _, err := l.history.Record(ctx, game.ID); err != nil {
		log.Printf("library: record draw %d: %v", game.ID, err)
	}
	return game, nil
}

// HistoryItem is a remembered draw resolved to full details.
type HistoryItem struct {
	models.GameDetails
	DrawnAt time.Time
}

// HistoryDetails resolves every remembered draw. If any lookup fails the
// result is empty.
func (l *Library) HistoryDetails(ctx context.Context) []HistoryItem {
	entries := l.history.Load(ctx)
	if len(entries) == 0 {
		return nil
	}

	items := make([]HistoryItem, len(entries))
	g, gctx := errgroup.WithContext(ctx)
	for i, entry := range entries {
		g.Go(func() error {
			game, err := l.catalog.Game(gctx, entry.ID)
			if err != nil {
				return fmt.Errorf("game %d: %w", entry.ID, err)
			}
			items[i] = HistoryItem{GameDetails: game, DrawnAt: entry.Timestamp}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		log.Printf("library: resolve draw history: %v", err)
		return nil
	}
	return items
}
