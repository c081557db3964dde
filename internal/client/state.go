package client

import "github.com/ferbdev/ferbflix/internal/domain/model"

// State holds the two views the UI renders from: Films in server order
// (newest first) and Display with downloaded entries partitioned to the
// end. Transitions are pure: each returns a new State and never mutates
// the receiver or its slices, so stale snapshots stay valid.
type State struct {
	Films   []Film
	Display []Film
}

// ApplyList replaces both views with a fresh server listing.
func (s State) ApplyList(films []Film) State {
	return State{
		Films:   append([]Film(nil), films...),
		Display: displayOrder(films),
	}
}

// ApplyCreate prepends a newly created film to both views. The record is
// the newest by construction, so server ordering is preserved without a
// re-fetch.
func (s State) ApplyCreate(film Film) State {
	return State{
		Films:   prepend(s.Films, film),
		Display: prepend(s.Display, film),
	}
}

// ApplyUpdate replaces the matching record in place in both views. The
// display partition is intentionally not re-run: an edit that flips a
// film's status to or from DOWNLOADED keeps its position until the next
// fetch. That matches the original UI behavior and avoids records jumping
// around under the user's cursor mid-edit.
func (s State) ApplyUpdate(film Film) State {
	return State{
		Films:   replaceByID(s.Films, film),
		Display: replaceByID(s.Display, film),
	}
}

// ApplyDelete removes the matching record from both views.
func (s State) ApplyDelete(id string) State {
	return State{
		Films:   removeByID(s.Films, id),
		Display: removeByID(s.Display, id),
	}
}

// displayOrder is a stable partition: films that are not DOWNLOADED come
// first, DOWNLOADED films last, and relative order within each group
// follows the input.
func displayOrder(films []Film) []Film {
	out := make([]Film, 0, len(films))
	for _, f := range films {
		if f.Status != model.StatusDownloaded {
			out = append(out, f)
		}
	}
	for _, f := range films {
		if f.Status == model.StatusDownloaded {
			out = append(out, f)
		}
	}
	return out
}

func prepend(films []Film, film Film) []Film {
	out := make([]Film, 0, len(films)+1)
	out = append(out, film)
	return append(out, films...)
}

func replaceByID(films []Film, film Film) []Film {
	out := make([]Film, len(films))
	for i, f := range films {
		if f.ID == film.ID {
			out[i] = film
		} else {
			out[i] = f
		}
	}
	return out
}

func removeByID(films []Film, id string) []Film {
	out := make([]Film, 0, len(films))
	for _, f := range films {
		if f.ID != id {
			out = append(out, f)
		}
	}
	return out
}
