package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/hongminglow/rentalctl/internal/models"
	"github.com/hongminglow/rentalctl/internal/models/dto"
)

// Login posts credentials to /auth/login. password is sent as given.
func (c *Client) Login(ctx context.Context, email, password string) (dto.LoginResponse, error) {
	var out dto.LoginResponse
	err := c.do(ctx, request{
		method: http.MethodPost,
		path:   "/auth/login",
		body:   dto.LoginRequest{Email: email, Password: password},
	}, &out)
	return out, err
}

// Register creates an account.
func (c *Client) Register(ctx context.Context, req dto.RegisterRequest) (string, error) {
	var out dto.MessageResponse
	err := c.do(ctx, request{method: http.MethodPost, path: "/auth/register", body: req}, &out)
	return out.Message, err
}

// ChangeProfile updates address and/or password of the signed-in user.
func (c *Client) ChangeProfile(ctx context.Context, req dto.ChangeRequest) (string, error) {
	var out dto.MessageResponse
	err := c.do(ctx, request{method: http.MethodPost, path: "/auth/change", body: req, auth: true}, &out)
	return out.Message, err
}

// ProbeToken asks /users/me whether token is accepted. Any 2xx is success
// and the body is ignored. A 401 is returned as a *StatusError and does not
// trigger the unauthorized hook.
func (c *Client) ProbeToken(ctx context.Context, token string) error {
	if token == "" {
		return ErrNoToken
	}
	return c.do(ctx, request{method: http.MethodGet, path: "/users/me", auth: true, token: token}, nil)
}

// Me fetches the signed-in user with the stored token.
func (c *Client) Me(ctx context.Context) (models.User, error) {
	var out models.User
	err := c.do(ctx, request{method: http.MethodGet, path: "/users/me", auth: true}, &out)
	return out, err
}

// FilterQuery selects a page of /games/filter. Zero values are omitted.
type FilterQuery struct {
	Page      int
	Limit     int
	MinRating string
	Genres    []string
	Platforms []string
}

// Values renders the query string the backend expects.
func (q FilterQuery) Values() url.Values {
	v := url.Values{}
	if q.Page > 0 {
		v.Set("page", strconv.Itoa(q.Page))
	}
	if q.Limit > 0 {
		v.Set("limit", strconv.Itoa(q.Limit))
	}
	if q.MinRating != "" {
		v.Set("min_rating", q.MinRating)
	}
	if len(q.Genres) > 0 {
		v.Set("genres", strings.Join(q.Genres, ","))
	}
	if len(q.Platforms) > 0 {
		v.Set("platforms", strings.Join(q.Platforms, ","))
	}
	return v
}

// FilterGames lists games matching q.
func (c *Client) FilterGames(ctx context.Context, q FilterQuery) (dto.GamePage, error) {
	var out dto.GamePage
	err := c.do(ctx, request{method: http.MethodGet, path: "/games/filter", query: q.Values()}, &out)
	return out, err
}

// NewGames lists the newest games, one page at a time.
func (c *Client) NewGames(ctx context.Context, page, limit int) (dto.GamePage, error) {
	var out dto.GamePage
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("limit", strconv.Itoa(limit))
	err := c.do(ctx, request{method: http.MethodGet, path: "/games/new", query: q}, &out)
	return out, err
}

// RandomGame draws one game at random.
func (c *Client) RandomGame(ctx context.Context) (models.GameDetails, error) {
	var out models.GameDetails
	err := c.do(ctx, request{method: http.MethodGet, path: "/games/random"}, &out)
	return out, err
}

// Game fetches full details of one game.
func (c *Client) Game(ctx context.Context, id int64) (models.GameDetails, error) {
	var out models.GameDetails
	err := c.do(ctx, request{method: http.MethodGet, path: fmt.Sprintf("/games/%d", id)}, &out)
	return out, err
}

// Rent borrows one copy from an inventory pool.
func (c *Client) Rent(ctx context.Context, inventoryID int64) (string, error) {
	var out dto.MessageResponse
	err := c.do(ctx, request{
		method: http.MethodPost,
		path:   "/rent",
		body:   dto.RentRequest{InventoryID: inventoryID},
		auth:   true,
	}, &out)
	return out.Message, err
}

// ReturnRental gives a rented copy back.
func (c *Client) ReturnRental(ctx context.Context, rentalID int64) (string, error) {
	var out dto.MessageResponse
	err := c.do(ctx, request{
		method: http.MethodPost,
		path:   fmt.Sprintf("/rent/%d/return", rentalID),
		auth:   true,
	}, &out)
	return out.Message, err
}

// Rentals lists the signed-in user's rental history.
func (c *Client) Rentals(ctx context.Context) ([]models.Rental, error) {
	var out []models.Rental
	err := c.do(ctx, request{method: http.MethodGet, path: "/rentals", auth: true}, &out)
	return out, err
}
