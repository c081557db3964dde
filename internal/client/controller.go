package client

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// DefaultDebounceInterval is the quiet period applied to search input.
const DefaultDebounceInterval = 300 * time.Millisecond

// ControllerConfig holds configuration for Controller.
type ControllerConfig struct {
	// DebounceInterval is the quiet period for search input.
	// Zero means DefaultDebounceInterval.
	DebounceInterval time.Duration

	// OnChange, when set, is invoked with a state snapshot after every
	// accepted transition. It runs while no internal lock is held.
	OnChange func(State)

	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

// Controller keeps a local film list consistent with the two filter
// inputs and with server responses to mutations. Fetches replace the
// list wholesale; mutations patch it in place from the confirmed server
// record. Nothing is applied optimistically, so a failed call leaves the
// state exactly as it was.
type Controller struct {
	api      API
	logger   *slog.Logger
	debounce *Debouncer
	onChange func(State)

	mu     sync.Mutex
	state  State
	search string
	status string
}

// NewController creates a Controller talking to the given API.
func NewController(api API, cfg ControllerConfig) *Controller {
	interval := cfg.DebounceInterval
	if interval == 0 {
		interval = DefaultDebounceInterval
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Controller{
		api:      api,
		logger:   logger,
		debounce: NewDebouncer(interval),
		onChange: cfg.OnChange,
	}
}

// State returns a snapshot of the current state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// SetSearch records new search text and schedules a debounced refresh.
// Only the last call within the quiet period triggers a fetch.
func (c *Controller) SetSearch(query string) {
	c.mu.Lock()
	c.search = query
	c.mu.Unlock()

	c.debounce.Trigger(func() {
		c.Refresh(context.Background())
	})
}

// SetStatusFilter records a new status filter and refreshes immediately.
func (c *Controller) SetStatusFilter(status string) {
	c.mu.Lock()
	c.status = status
	c.mu.Unlock()

	c.Refresh(context.Background())
}

// Refresh fetches the listing for the current filters and replaces the
// local state. On failure the state is left unchanged.
func (c *Controller) Refresh(ctx context.Context) {
	c.mu.Lock()
	search, status := c.search, c.status
	c.mu.Unlock()

	films, err := c.api.List(ctx, search, status)
	if err != nil {
		c.logger.Error("failed to fetch films", slog.Any("error", err))
		return
	}

	c.transition(func(s State) State {
		return s.ApplyList(films)
	})
}

// Create submits a new film and, on confirmation, prepends it locally.
func (c *Controller) Create(ctx context.Context, req CreateFilmRequest) (*Film, error) {
	film, err := c.api.Create(ctx, req)
	if err != nil {
		c.logger.Error("failed to create film", slog.Any("error", err))
		return nil, err
	}

	c.transition(func(s State) State {
		return s.ApplyCreate(*film)
	})
	return film, nil
}

// Update patches a film and, on confirmation, replaces it locally.
func (c *Controller) Update(ctx context.Context, id string, req UpdateFilmRequest) (*Film, error) {
	film, err := c.api.Update(ctx, id, req)
	if err != nil {
		c.logger.Error("failed to update film",
			slog.String("film_id", id),
			slog.Any("error", err),
		)
		return nil, err
	}

	c.transition(func(s State) State {
		return s.ApplyUpdate(*film)
	})
	return film, nil
}

// Delete removes a film and, on confirmation, drops it locally.
func (c *Controller) Delete(ctx context.Context, id string) error {
	if err := c.api.Delete(ctx, id); err != nil {
		c.logger.Error("failed to delete film",
			slog.String("film_id", id),
			slog.Any("error", err),
		)
		return err
	}

	c.transition(func(s State) State {
		return s.ApplyDelete(id)
	})
	return nil
}

// Close cancels any pending debounced refresh.
func (c *Controller) Close() {
	c.debounce.Stop()
}

func (c *Controller) transition(fn func(State) State) {
	c.mu.Lock()
	c.state = fn(c.state)
	snapshot := c.state
	c.mu.Unlock()

	if c.onChange != nil {
		c.onChange(snapshot)
	}
}
