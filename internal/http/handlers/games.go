package handlers

import (
	"errors"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/hongminglow/rentalctl/internal/catalog"
	"github.com/hongminglow/rentalctl/internal/http/respond"
	"github.com/hongminglow/rentalctl/internal/models/dto"
)

const (
	defaultPageLimit = 15
	maxPageLimit     = 100
)

// GamesHandler serves the public catalog listings.
type GamesHandler struct {
	store *catalog.Store
}

// NewGamesHandler constructs the handler.
func NewGamesHandler(store *catalog.Store) *GamesHandler {
	return &GamesHandler{store: store}
}

// Register attaches game routes.
func (h *GamesHandler) Register(r chi.Router) {
	r.Get("/games/filter", h.handleFilter)
	r.Get("/games/new", h.handleNew)
	r.Get("/games/random", h.handleRandom)
	r.Get("/games/{id}", h.handleGame)
}

func (h *GamesHandler) handleFilter(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, limit, err := pagination(q)
	if err != nil {
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	var query catalog.Query
	if raw := strings.TrimSpace(q.Get("min_rating")); raw != "" {
		query.MinRating, err = strconv.ParseFloat(raw, 64)
		if err != nil {
			respond.Error(w, http.StatusBadRequest, "min_rating must be a number")
			return
		}
	}
	query.Genres = splitCSV(q.Get("genres"))
	query.Platforms = splitCSV(q.Get("platforms"))

	games, total := h.store.Filter(r.Context(), query, page, limit)
	respond.JSON(w, http.StatusOK, dto.GamePage{Data: games, Meta: pageMeta(total, page, limit)})
}

func (h *GamesHandler) handleNew(w http.ResponseWriter, r *http.Request) {
	page, limit, err := pagination(r.URL.Query())
	if err != nil {
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	games, total := h.store.Newest(r.Context(), page, limit)
	respond.JSON(w, http.StatusOK, dto.GamePage{Data: games, Meta: pageMeta(total, page, limit)})
}

func (h *GamesHandler) handleRandom(w http.ResponseWriter, r *http.Request) {
	game, err := h.store.Random(r.Context())
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			respond.Error(w, http.StatusNotFound, "catalog is empty")
			return
		}
		log.Printf("random game error: %v", err)
		respond.Error(w, http.StatusInternalServerError, "failed to draw a game")
		return
	}
	respond.JSON(w, http.StatusOK, game)
}

func (h *GamesHandler) handleGame(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid game id")
		return
	}
	game, err := h.store.Game(r.Context(), id)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			respond.Error(w, http.StatusNotFound, "Game not found")
			return
		}
		log.Printf("game %d error: %v", id, err)
		respond.Error(w, http.StatusInternalServerError, "failed to fetch game")
		return
	}
	respond.JSON(w, http.StatusOK, game)
}

func pagination(q url.Values) (page, limit int, err error) {
	page, limit = 1, defaultPageLimit
	if raw := q.Get("page"); raw != "" {
		page, err = strconv.Atoi(raw)
		if err != nil || page < 1 {
			return 0, 0, errors.New("page must be a positive integer")
		}
	}
	if raw := q.Get("limit"); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil || limit < 1 {
			return 0, 0, errors.New("limit must be a positive integer")
		}
	}
	return page, min(limit, maxPageLimit), nil
}

func pageMeta(total, page, limit int) dto.PageMeta {
	return dto.PageMeta{
		TotalItems:  total,
		TotalPages:  (total + limit - 1) / limit,
		CurrentPage: page,
		PerPage:     limit,
	}
}

func splitCSV(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
