package models

import "strings"

// Game is the card-sized view returned by list endpoints.
type Game struct {
	ID         int64   `json:"id"`
	Name       string  `json:"name"`
	ArtworkURL string  `json:"artwork_url"`
	Rating     float64 `json:"rating"`
	Genres     string  `json:"genres,omitempty"`
}

// InventoryItem is one rentable copy pool of a game on a platform.
type InventoryItem struct {
	InventoryID  int64  `json:"inventory_id"`
	PlatformName string `json:"platform_name"`
	Quantity     int    `json:"quantity"`
}

// GameDetails is the full record returned by /games/{id} and /games/random.
type GameDetails struct {
	ID          int64           `json:"id"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	ReleaseDate string          `json:"release_date"`
	ArtworkURL  string          `json:"artwork_url"`
	Rating      float64         `json:"rating"`
	TotalRating float64         `json:"total_rating"`
	RatingCount int             `json:"rating_count"`
	Screenshots string          `json:"screenshots"`
	Genres      string          `json:"genres"`
	CreatedAt   string          `json:"created_at"`
	Inventory   []InventoryItem `json:"inventory"`
}

// ScreenshotURLs splits the comma separated screenshot list.
func (g GameDetails) ScreenshotURLs() []string {
	return splitList(g.Screenshots)
}

// GenreList splits the comma separated genre list.
func (g GameDetails) GenreList() []string {
	return splitList(g.Genres)
}

// AvailablePlatforms lists platforms with at least one copy in stock.
func (g GameDetails) AvailablePlatforms() []string {
	var out []string
	for _, item := range g.Inventory {
		if item.Quantity > 0 {
			out = append(out, item.PlatformName)
		}
	}
	return out
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
