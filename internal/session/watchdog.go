package session

import (
	"context"
	"sync"
	"time"
)

// DefaultWatchInterval is how often the watchdog re-validates a session.
const DefaultWatchInterval = 60 * time.Second

type validator interface {
	Validate(ctx context.Context) bool
}

type reauthenticator interface {
	Run(ctx context.Context) bool
}

// WatchdogOptions configures a Watchdog.
type WatchdogOptions struct {
	// Interval between passes. Zero means DefaultWatchInterval.
	Interval time.Duration
	// Relogin, when set, is tried before OnFailure.
	Relogin reauthenticator
	// OnFailure is called after a failed pass while a token was present.
	OnFailure func(ctx context.Context)
}

// Watchdog periodically re-validates a long-lived session.
type Watchdog struct {
	tokens    *Tokens
	validator validator
	relogin   reauthenticator
	onFailure func(ctx context.Context)
	interval  time.Duration
}

// NewWatchdog builds a Watchdog over tokens and v.
func NewWatchdog(tokens *Tokens, v validator, opts WatchdogOptions) *Watchdog {
	interval := opts.Interval
	if interval <= 0 {
		interval = DefaultWatchInterval
	}
	return &Watchdog{
		tokens:    tokens,
		validator: v,
		relogin:   opts.Relogin,
		onFailure: opts.OnFailure,
		interval:  interval,
	}
}

// Interval returns the time between passes.
func (w *Watchdog) Interval() time.Duration {
	return w.interval
}

// Pass runs one validation. It returns false only when a token was present
// and could not be validated or recovered.
func (w *Watchdog) Pass(ctx context.Context) bool {
	if _, ok := w.tokens.Get(ctx); !ok {
		return true
	}
	if w.validator.Validate(ctx) {
		return true
	}
	if w.relogin != nil && w.relogin.Run(ctx) {
		return true
	}
	if ctx.Err() != nil {
		return true
	}
	if w.onFailure != nil {
		w.onFailure(ctx)
	}
	return false
}

// Run performs a pass immediately and then once per interval until ctx is done.
func (w *Watchdog) Run(ctx context.Context) {
	w.Pass(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.Pass(ctx)
		}
	}
}

// Start runs the watchdog in its own goroutine. The returned stop function
// cancels it and waits for the goroutine to exit; it is safe to call twice.
func (w *Watchdog) Start(ctx context.Context) (stop func()) {
	ctx, cancel := context.WithCancel(ctx)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		w.Run(ctx)
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			cancel()
			wg.Wait()
		})
	}
}
