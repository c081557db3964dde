package client

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ferbdev/ferbflix/internal/domain/model"
)

// fakeAPI is an in-memory stand-in for the server, implementing the same
// listing and mutation semantics the real API exposes.
type fakeAPI struct {
	mu        sync.Mutex
	films     []Film // newest first
	clock     time.Time
	nextID    int
	listCalls atomic.Int32
	failAll   bool
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{clock: time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)}
}

func (f *fakeAPI) List(ctx context.Context, search string, status string) ([]Film, error) {
	f.listCalls.Add(1)
	if f.failAll {
		return nil, &APIError{StatusCode: 500, Message: "Failed to fetch films"}
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	statusFilter := model.Status(status)
	out := make([]Film, 0, len(f.films))
	for _, film := range f.films {
		if search != "" &&
			!strings.Contains(strings.ToLower(film.VietnameseName), strings.ToLower(search)) &&
			!strings.Contains(strings.ToLower(film.EnglishName), strings.ToLower(search)) {
			continue
		}
		if statusFilter.IsValid() && film.Status != statusFilter {
			continue
		}
		out = append(out, film)
	}
	return out, nil
}

func (f *fakeAPI) Create(ctx context.Context, req CreateFilmRequest) (*Film, error) {
	if f.failAll {
		return nil, &APIError{StatusCode: 500, Message: "Failed to create film"}
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	f.nextID++
	f.clock = f.clock.Add(time.Minute)
	film := Film{
		ID:             fmt.Sprintf("film-%d", f.nextID),
		VietnameseName: req.VietnameseName,
		EnglishName:    req.EnglishName,
		EpisodeCount:   req.EpisodeCount,
		ImageURL:       req.ImageURL,
		FilmURL:        req.FilmURL,
		Status:         req.Status,
		CreatedAt:      f.clock,
		UpdatedAt:      f.clock,
	}
	f.films = append([]Film{film}, f.films...)
	return &film, nil
}

func (f *fakeAPI) Update(ctx context.Context, id string, req UpdateFilmRequest) (*Film, error) {
	if f.failAll {
		return nil, &APIError{StatusCode: 500, Message: "Failed to update film"}
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	for i, film := range f.films {
		if film.ID != id {
			continue
		}
		if req.VietnameseName != "" {
			film.VietnameseName = req.VietnameseName
		}
		if req.EnglishName != "" {
			film.EnglishName = req.EnglishName
		}
		if req.EpisodeCount > 0 {
			film.EpisodeCount = req.EpisodeCount
		}
		if req.ImageURL != "" {
			film.ImageURL = req.ImageURL
		}
		if req.FilmURL != "" {
			film.FilmURL = req.FilmURL
		}
		if req.Status != "" && req.Status.IsValid() {
			film.Status = req.Status
		}
		f.clock = f.clock.Add(time.Minute)
		film.UpdatedAt = f.clock
		f.films[i] = film
		return &film, nil
	}
	return nil, &APIError{StatusCode: 404, Message: "Film not found"}
}

func (f *fakeAPI) Delete(ctx context.Context, id string) error {
	if f.failAll {
		return &APIError{StatusCode: 500, Message: "Failed to delete film"}
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	for i, film := range f.films {
		if film.ID == id {
			f.films = append(f.films[:i:i], f.films[i+1:]...)
			return nil
		}
	}
	return &APIError{StatusCode: 404, Message: "Film not found"}
}

func createReq(vn string, status model.Status) CreateFilmRequest {
	return CreateFilmRequest{
		VietnameseName: vn,
		EnglishName:    vn + " (EN)",
		EpisodeCount:   12,
		ImageURL:       "http://x/img.jpg",
		FilmURL:        "http://x/watch",
		Status:         status,
	}
}

// newTestController wires a controller with a tiny debounce interval and a
// change channel for synchronizing on async transitions.
func newTestController(api API) (*Controller, chan State) {
	changes := make(chan State, 16)
	c := NewController(api, ControllerConfig{
		DebounceInterval: 10 * time.Millisecond,
		OnChange: func(s State) {
			changes <- s
		},
	})
	return c, changes
}

func waitForState(t *testing.T, changes chan State) State {
	t.Helper()
	select {
	case s := <-changes:
		return s
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for state change")
		return State{}
	}
}

func TestController_Refresh(t *testing.T) {
	api := newFakeAPI()
	ctx := context.Background()
	_, err := api.Create(ctx, createReq("Phim A", model.StatusDownloaded))
	require.NoError(t, err)
	_, err = api.Create(ctx, createReq("Phim B", model.StatusNotCompleted))
	require.NoError(t, err)

	c, changes := newTestController(api)
	defer c.Close()

	c.Refresh(ctx)
	s := waitForState(t, changes)

	require.Len(t, s.Films, 2)
	assert.Equal(t, "Phim B", s.Films[0].VietnameseName, "raw list is newest first")
	assert.Equal(t, "Phim A", s.Display[1].VietnameseName, "downloaded film is displayed last")
}

func TestController_SearchIsDebounced(t *testing.T) {
	api := newFakeAPI()
	c, changes := newTestController(api)
	defer c.Close()

	// A burst of keystrokes collapses into one fetch for the final text.
	for _, q := range []string{"p", "ph", "phi", "phim"} {
		c.SetSearch(q)
	}

	waitForState(t, changes)
	assert.Equal(t, int32(1), api.listCalls.Load(), "only the last keystroke in the quiet period fetches")
}

func TestController_SetStatusFilterRefreshesImmediately(t *testing.T) {
	api := newFakeAPI()
	ctx := context.Background()
	_, err := api.Create(ctx, createReq("Phim A", model.StatusDownloaded))
	require.NoError(t, err)
	_, err = api.Create(ctx, createReq("Phim B", model.StatusNotCompleted))
	require.NoError(t, err)

	c, changes := newTestController(api)
	defer c.Close()

	c.SetStatusFilter("DOWNLOADED")
	s := waitForState(t, changes)

	require.Len(t, s.Films, 1)
	assert.Equal(t, "Phim A", s.Films[0].VietnameseName)
}

func TestController_CreatePrependsLocally(t *testing.T) {
	api := newFakeAPI()
	ctx := context.Background()
	_, err := api.Create(ctx, createReq("Phim A", model.StatusNotCompleted))
	require.NoError(t, err)

	c, changes := newTestController(api)
	defer c.Close()
	c.Refresh(ctx)
	waitForState(t, changes)
	listCallsBefore := api.listCalls.Load()

	created, err := c.Create(ctx, createReq("Phim B", model.StatusCompleted))
	require.NoError(t, err)
	s := waitForState(t, changes)

	assert.Equal(t, created.ID, s.Films[0].ID, "created film leads the raw list")
	assert.Equal(t, created.ID, s.Display[0].ID, "created film leads the display list")
	assert.Equal(t, listCallsBefore, api.listCalls.Load(), "no re-fetch after create")
}

func TestController_UpdateReplacesInPlace(t *testing.T) {
	api := newFakeAPI()
	ctx := context.Background()
	a, err := api.Create(ctx, createReq("Phim A", model.StatusNotCompleted))
	require.NoError(t, err)
	_, err = api.Create(ctx, createReq("Phim B", model.StatusNotCompleted))
	require.NoError(t, err)

	c, changes := newTestController(api)
	defer c.Close()
	c.Refresh(ctx)
	waitForState(t, changes)

	_, err = c.Update(ctx, a.ID, UpdateFilmRequest{Status: model.StatusDownloaded})
	require.NoError(t, err)
	s := waitForState(t, changes)

	require.Len(t, s.Films, 2)
	assert.Equal(t, model.StatusDownloaded, s.Films[1].Status, "record updated in raw list")
	// Known quirk carried over: the edited record keeps its display slot
	// until the next fetch even though it is now DOWNLOADED.
	assert.Equal(t, a.ID, s.Display[1].ID)
}

func TestController_DeleteRemovesLocally(t *testing.T) {
	api := newFakeAPI()
	ctx := context.Background()
	a, err := api.Create(ctx, createReq("Phim A", model.StatusNotCompleted))
	require.NoError(t, err)

	c, changes := newTestController(api)
	defer c.Close()
	c.Refresh(ctx)
	waitForState(t, changes)

	require.NoError(t, c.Delete(ctx, a.ID))
	s := waitForState(t, changes)
	assert.Empty(t, s.Films)
	assert.Empty(t, s.Display)

	// Deleting again fails server-side and leaves local state alone.
	err = c.Delete(ctx, a.ID)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 404, apiErr.StatusCode)
}

func TestController_FailedFetchKeepsState(t *testing.T) {
	api := newFakeAPI()
	ctx := context.Background()
	_, err := api.Create(ctx, createReq("Phim A", model.StatusNotCompleted))
	require.NoError(t, err)

	c, changes := newTestController(api)
	defer c.Close()
	c.Refresh(ctx)
	waitForState(t, changes)

	api.failAll = true
	c.Refresh(ctx)

	select {
	case <-changes:
		t.Fatal("failed fetch must not produce a state transition")
	case <-time.After(50 * time.Millisecond):
	}

	s := c.State()
	require.Len(t, s.Films, 1)
	assert.Equal(t, "Phim A", s.Films[0].VietnameseName)
}

// TestController_CatalogLifecycle walks the full create → filter → update
// → delete flow against the in-memory server.
func TestController_CatalogLifecycle(t *testing.T) {
	api := newFakeAPI()
	ctx := context.Background()

	c, changes := newTestController(api)
	defer c.Close()

	a, err := c.Create(ctx, createReq("Phim A", model.StatusNotCompleted))
	require.NoError(t, err)
	waitForState(t, changes)

	c.Refresh(ctx)
	s := waitForState(t, changes)
	require.Equal(t, []string{a.ID}, ids(s.Films))

	_, err = c.Update(ctx, a.ID, UpdateFilmRequest{Status: model.StatusDownloaded})
	require.NoError(t, err)
	waitForState(t, changes)

	// A single record partitions to itself.
	c.Refresh(ctx)
	s = waitForState(t, changes)
	require.Equal(t, []string{a.ID}, ids(s.Display))

	b, err := c.Create(ctx, createReq("Phim B", model.StatusNotCompleted))
	require.NoError(t, err)
	waitForState(t, changes)

	c.Refresh(ctx)
	s = waitForState(t, changes)
	assert.Equal(t, []string{b.ID, a.ID}, ids(s.Films), "newest first from server")
	assert.Equal(t, []string{b.ID, a.ID}, ids(s.Display), "downloaded A stays last")

	require.NoError(t, c.Delete(ctx, a.ID))
	s = waitForState(t, changes)
	assert.Equal(t, []string{b.ID}, ids(s.Films))
}
