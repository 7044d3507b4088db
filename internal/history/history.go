// Package history keeps the bounded list of randomly drawn games.
package history

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/hongminglow/rentalctl/internal/storage"
)

// MaxEntries caps the number of remembered draws.
const MaxEntries = 10

// Entry is one draw: which game and when.
type Entry struct {
	ID        int64     `json:"id"`
	Timestamp time.Time `json:"timestamp"`
}

// Tracker persists draws newest first under storage.KeyDrawHistory.
type Tracker struct {
	mu    sync.Mutex
	store storage.Store
	now   func() time.Time
}

// NewTracker wraps store.
func NewTracker(store storage.Store) *Tracker {
	return &Tracker{store: store, now: time.Now}
}

// Load returns the remembered draws, newest first. Unreadable history is
// removed and reported as empty.
func (t *Tracker) Load(ctx context.Context) []Entry {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.load(ctx)
}

// Record puts id at the front of the history and evicts anything past MaxEntries.
func (t *Tracker) Record(ctx context.Context, id int64) ([]Entry, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	entry := Entry{ID: id, Timestamp: t.now().UTC()}
	entries := append([]Entry{entry}, t.load(ctx)...)
	if len(entries) > MaxEntries {
		entries = entries[:MaxEntries]
	}

	raw, err := encode(entries)
	if err != nil {
		return nil, err
	}
	if err := t.store.Set(ctx, storage.KeyDrawHistory, raw); err != nil {
		return nil, fmt.Errorf("save draw history: %w", err)
	}
	return entries, nil
}

// Clear forgets every draw.
func (t *Tracker) Clear(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.store.Remove(ctx, storage.KeyDrawHistory)
}

func (t *Tracker) load(ctx context.Context) []Entry {
	raw, err := t.store.Get(ctx, storage.KeyDrawHistory)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			log.Printf("history: read: %v", err)
		}
		return nil
	}
	if raw == "" {
		return nil
	}

	entries, err := decode(raw)
	if err != nil {
		log.Printf("history: dropping unreadable history: %v", err)
		if err := t.store.Remove(ctx, storage.KeyDrawHistory); err != nil {
			log.Printf("history: remove: %v", err)
		}
		return nil
	}
	if len(entries) > MaxEntries {
		entries = entries[:MaxEntries]
	}
	return entries
}

func encode(entries []Entry) (string, error) {
	payload, err := json.Marshal(entries)
	if err != nil {
		return "", fmt.Errorf("encode draw history: %w", err)
	}
	return base64.StdEncoding.EncodeToString(payload), nil
}

func decode(raw string) ([]Entry, error) {
	payload, err := base64.StdEncoding.DecodeString(raw)
	if err != nil {
		return nil, err
	}
	var entries []Entry
	if err := json.Unmarshal(payload, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}
