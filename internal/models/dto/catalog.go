package dto

import "github.com/hongminglow/rentalctl/internal/models"

// PageMeta describes a page of a paginated listing.
type PageMeta struct {
	TotalItems  int `json:"total_items"`
	TotalPages  int `json:"total_pages"`
	CurrentPage int `json:"current_page"`
	PerPage     int `json:"per_page"`
}

// GamePage is the response of /games/filter and /games/new.
type GamePage struct {
	Data []models.Game `json:"data"`
	Meta PageMeta      `json:"meta"`
}

type RentRequest struct {
	InventoryID int64 `json:"inventory_id"`
}
