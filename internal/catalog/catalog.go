// Package catalog is the in-memory data behind the development backend:
// accounts, games, inventory and rentals.
package catalog

import (
	"cmp"
	"context"
	"errors"
	"math/rand/v2"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/hongminglow/rentalctl/internal/models"
)

var (
	// ErrNotFound is returned when a record does not exist.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists is returned when an account email is taken.
	ErrAlreadyExists = errors.New("already exists")
	// ErrUnavailable is returned when an inventory pool has no copies left.
	ErrUnavailable = errors.New("no copies available")
	// ErrAlreadyReturned is returned when a rental was already closed.
	ErrAlreadyReturned = errors.New("rental already returned")
)

// RentalPeriod is how long a rented copy may be kept.
const RentalPeriod = 14 * 24 * time.Hour

// Account is a stored user together with its password hash.
type Account struct {
	ID           int64
	Email        string
	Address      string
	IsAdmin      bool
	PasswordHash string
}

// User returns the public view of a.
func (a Account) User() models.User {
	isAdmin := a.IsAdmin
	return models.User{ID: a.ID, Email: a.Email, Address: a.Address, IsAdmin: &isAdmin}
}

// Game is a catalog entry.
type Game struct {
	models.GameDetails
	Platforms []string
}

type inventory struct {
	id       int64
	gameID   int64
	platform string
	quantity int
}

type rental struct {
	id          int64
	userID      int64
	inventoryID int64
	rentedAt    time.Time
	dueAt       time.Time
	returnedAt  *time.Time
}

// Query filters games. Empty fields match everything.
type Query struct {
	MinRating float64
	Genres    []string
	Platforms []string
}

// Store holds the catalog. It is safe for concurrent use.
type Store struct {
	mu        sync.RWMutex
	accounts  map[int64]*Account
	byEmail   map[string]int64
	games     map[int64]*Game
	inventory map[int64]*inventory
	rentals   map[int64]*rental
	nextID    int64
	now       func() time.Time
}

// New returns an empty store.
func New() *Store {
	return &Store{
		accounts:  make(map[int64]*Account),
		byEmail:   make(map[string]int64),
		games:     make(map[int64]*Game),
		inventory: make(map[int64]*inventory),
		rentals:   make(map[int64]*rental),
		now:       time.Now,
	}
}

func (s *Store) id() int64 {
	s.nextID++
	return s.nextID
}

// CreateAccount stores a new account. Emails are compared case-insensitively.
func (s *Store) CreateAccount(_ context.Context, acc Account) (Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := strings.ToLower(strings.TrimSpace(acc.Email))
	if _, ok := s.byEmail[key]; ok {
		return Account{}, ErrAlreadyExists
	}
	acc.ID = s.id()
	acc.Email = strings.TrimSpace(acc.Email)
	stored := acc
	s.accounts[acc.ID] = &stored
	s.byEmail[key] = acc.ID
	return acc, nil
}

// AccountByEmail looks an account up by email.
func (s *Store) AccountByEmail(_ context.Context, email string) (Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byEmail[strings.ToLower(strings.TrimSpace(email))]
	if !ok {
		return Account{}, ErrNotFound
	}
	return *s.accounts[id], nil
}

// Account looks an account up by id.
func (s *Store) Account(_ context.Context, id int64) (Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	acc, ok := s.accounts[id]
	if !ok {
		return Account{}, ErrNotFound
	}
	return *acc, nil
}

// UpdateAccount changes address and/or password hash. Nil fields are kept.
func (s *Store) UpdateAccount(_ context.Context, id int64, address, passwordHash *string) (Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	acc, ok := s.accounts[id]
	if !ok {
		return Account{}, ErrNotFound
	}
	if address != nil {
		acc.Address = *address
	}
	if passwordHash != nil {
		acc.PasswordHash = *passwordHash
	}
	return *acc, nil
}

// AddGame stores g and one inventory pool per platform with quantity copies.
func (s *Store) AddGame(g models.GameDetails, quantity int, platforms ...string) models.GameDetails {
	s.mu.Lock()
	defer s.mu.Unlock()

	g.ID = s.id()
	if g.CreatedAt == "" {
		g.CreatedAt = s.now().UTC().Format(time.RFC3339)
	}
	g.Inventory = nil
	for _, p := range platforms {
		inv := &inventory{id: s.id(), gameID: g.ID, platform: p, quantity: quantity}
		s.inventory[inv.id] = inv
	}
	s.games[g.ID] = &Game{GameDetails: g, Platforms: platforms}
	return s.details(g.ID)
}

// Game returns the full record of one game with its current inventory.
func (s *Store) Game(_ context.Context, id int64) (models.GameDetails, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, ok := s.games[id]; !ok {
		return models.GameDetails{}, ErrNotFound
	}
	return s.details(id), nil
}

// Random returns one game picked uniformly.
func (s *Store) Random(_ context.Context) (models.GameDetails, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.games) == 0 {
		return models.GameDetails{}, ErrNotFound
	}
	ids := s.sortedIDs()
	return s.details(ids[rand.IntN(len(ids))]), nil
}

// Filter returns one page of games matching q, ordered by rating then id,
// and the number of matches.
func (s *Store) Filter(_ context.Context, q Query, page, limit int) ([]models.Game, int) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var matches []*Game
	for _, id := range s.sortedIDs() {
		g := s.games[id]
		if g.Rating < q.MinRating {
			continue
		}
		if len(q.Genres) > 0 && !anyIn(q.Genres, g.GenreList()) {
			continue
		}
		if len(q.Platforms) > 0 && !anyIn(q.Platforms, g.Platforms) {
			continue
		}
		matches = append(matches, g)
	}
	slices.SortStableFunc(matches, func(a, b *Game) int {
		return cmp.Compare(b.Rating, a.Rating)
	})
	return cards(paginate(matches, page, limit)), len(matches)
}

// Newest returns one page of games ordered by creation time, newest first,
// and the total number of games.
func (s *Store) Newest(_ context.Context, page, limit int) ([]models.Game, int) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all := make([]*Game, 0, len(s.games))
	for _, id := range s.sortedIDs() {
		all = append(all, s.games[id])
	}
	slices.SortStableFunc(all, func(a, b *Game) int {
		return strings.Compare(b.CreatedAt, a.CreatedAt)
	})
	return cards(paginate(all, page, limit)), len(all)
}

// Rent takes one copy from an inventory pool for userID.
func (s *Store) Rent(_ context.Context, userID, inventoryID int64) (models.Rental, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	inv, ok := s.inventory[inventoryID]
	if !ok {
		return models.Rental{}, ErrNotFound
	}
	if inv.quantity <= 0 {
		return models.Rental{}, ErrUnavailable
	}
	inv.quantity--

	now := s.now().UTC()
	r := &rental{id: s.id(), userID: userID, inventoryID: inventoryID, rentedAt: now, dueAt: now.Add(RentalPeriod)}
	s.rentals[r.id] = r
	return s.rentalView(r), nil
}

// Return closes a rental owned by userID and puts the copy back.
func (s *Store) Return(_ context.Context, userID, rentalID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.rentals[rentalID]
	if !ok || r.userID != userID {
		return ErrNotFound
	}
	if r.returnedAt != nil {
		return ErrAlreadyReturned
	}
	now := s.now().UTC()
	r.returnedAt = &now
	if inv, ok := s.inventory[r.inventoryID]; ok {
		inv.quantity++
	}
	return nil
}

// Rentals lists the rentals of userID, newest first.
func (s *Store) Rentals(_ context.Context, userID int64) []models.Rental {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var own []*rental
	for _, r := range s.rentals {
		if r.userID == userID {
			own = append(own, r)
		}
	}
	slices.SortFunc(own, func(a, b *rental) int {
		return cmp.Compare(b.id, a.id)
	})

	out := make([]models.Rental, 0, len(own))
	for _, r := range own {
		out = append(out, s.rentalView(r))
	}
	return out
}

func (s *Store) details(id int64) models.GameDetails {
	g := s.games[id]
	d := g.GameDetails
	d.Inventory = nil
	for _, inv := range s.sortedInventory() {
		if inv.gameID == id {
			d.Inventory = append(d.Inventory, models.InventoryItem{
				InventoryID:  inv.id,
				PlatformName: inv.platform,
				Quantity:     inv.quantity,
			})
		}
	}
	return d
}

func (s *Store) rentalView(r *rental) models.Rental {
	view := models.Rental{
		ID:         r.id,
		RentedAt:   r.rentedAt.Format(time.RFC3339),
		ReturnDate: r.dueAt.Format(time.RFC3339),
		IsReturned: r.returnedAt != nil,
	}
	if r.returnedAt != nil {
		returned := r.returnedAt.Format(time.RFC3339)
		view.ActualReturnDate = &returned
	}
	if inv, ok := s.inventory[r.inventoryID]; ok {
		view.PlatformName = inv.platform
		if g, ok := s.games[inv.gameID]; ok {
			view.Title = g.Title
			view.ArtworkURL = g.ArtworkURL
		}
	}
	return view
}

func (s *Store) sortedIDs() []int64 {
	ids := make([]int64, 0, len(s.games))
	for id := range s.games {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

func (s *Store) sortedInventory() []*inventory {
	out := make([]*inventory, 0, len(s.inventory))
	for _, inv := range s.inventory {
		out = append(out, inv)
	}
	slices.SortFunc(out, func(a, b *inventory) int {
		return cmp.Compare(a.id, b.id)
	})
	return out
}

func paginate(games []*Game, page, limit int) []*Game {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		return games
	}
	start := (page - 1) * limit
	if start >= len(games) {
		return nil
	}
	end := min(start+limit, len(games))
	return games[start:end]
}

func cards(games []*Game) []models.Game {
	out := make([]models.Game, 0, len(games))
	for _, g := range games {
		out = append(out, models.Game{
			ID:         g.ID,
			Name:       g.Title,
			ArtworkURL: g.ArtworkURL,
			Rating:     g.Rating,
			Genres:     g.Genres,
		})
	}
	return out
}

func anyIn(want, have []string) bool {
	for _, w := range want {
		for _, h := range have {
			if strings.EqualFold(w, h) {
				return true
			}
		}
	}
	return false
}
