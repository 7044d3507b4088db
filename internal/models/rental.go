package models

// Rental is one entry of the signed-in user's rental history.
type Rental struct {
	ID               int64   `json:"id"`
	RentedAt         string  `json:"rented_at"`
	ReturnDate       string  `json:"return_date"`
	ActualReturnDate *string `json:"actual_return_date"`
	IsReturned       bool    `json:"is_returned"`
	Title            string  `json:"title"`
	ArtworkURL       string  `json:"artwork_url"`
	PlatformName     string  `json:"platform_name"`
}
