package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/hongminglow/rentalctl/internal/catalog"
	"github.com/hongminglow/rentalctl/internal/http/respond"
	"github.com/hongminglow/rentalctl/internal/middleware"
	"github.com/hongminglow/rentalctl/internal/models/dto"
)

// RentalsHandler serves the signed-in user's account, rentals and returns.
type RentalsHandler struct {
	store *catalog.Store
}

// NewRentalsHandler constructs the handler.
func NewRentalsHandler(store *catalog.Store) *RentalsHandler {
	return &RentalsHandler{store: store}
}

// Register attaches routes that need an authenticated user. The router is
// expected to be guarded already.
func (h *RentalsHandler) Register(r chi.Router) {
	r.Get("/users/me", h.handleMe)
	r.Post("/rent", h.handleRent)
	r.Post("/rent/{id}/return", h.handleReturn)
	r.Get("/rentals", h.handleRentals)
}

func (h *RentalsHandler) handleMe(w http.ResponseWriter, r *http.Request) {
	id, _ := middleware.IdentityFrom(r.Context())
	acc, err := h.store.Account(r.Context(), id.UserID)
	if err != nil {
		respond.Error(w, http.StatusUnauthorized, "user no longer exists")
		return
	}
	respond.JSON(w, http.StatusOK, acc.User())
}

func (h *RentalsHandler) handleRent(w http.ResponseWriter, r *http.Request) {
	id, _ := middleware.IdentityFrom(r.Context())

	var req dto.RentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.InventoryID <= 0 {
		respond.Error(w, http.StatusBadRequest, "inventory_id is required")
		return
	}

	_, err := h.store.Rent(r.Context(), id.UserID, req.InventoryID)
	switch {
	case err == nil:
		respond.Message(w, http.StatusCreated, "Game rented successfully")
	case errors.Is(err, catalog.ErrNotFound):
		respond.Error(w, http.StatusNotFound, "Inventory item not found")
	case errors.Is(err, catalog.ErrUnavailable):
		respond.Error(w, http.StatusConflict, "No copies available")
	default:
		log.Printf("rent inventory %d for user %d error: %v", req.InventoryID, id.UserID, err)
		respond.Error(w, http.StatusInternalServerError, "failed to rent game")
	}
}

func (h *RentalsHandler) handleReturn(w http.ResponseWriter, r *http.Request) {
	id, _ := middleware.IdentityFrom(r.Context())
	rentalID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid rental id")
		return
	}

	err = h.store.Return(r.Context(), id.UserID, rentalID)
	switch {
	case err == nil:
		respond.Message(w, http.StatusOK, "Game returned successfully")
	case errors.Is(err, catalog.ErrNotFound):
		respond.Error(w, http.StatusNotFound, "Rental not found")
	case errors.Is(err, catalog.ErrAlreadyReturned):
		respond.Error(w, http.StatusConflict, "Game already returned")
	default:
		log.Printf("return rental %d for user %d error: %v", rentalID, id.UserID, err)
		respond.Error(w, http.StatusInternalServerError, "failed to return game")
	}
}

func (h *RentalsHandler) handleRentals(w http.ResponseWriter, r *http.Request) {
	id, _ := middleware.IdentityFrom(r.Context())
	respond.JSON(w, http.StatusOK, h.store.Rentals(r.Context(), id.UserID))
}
