package pager

import "github.com/Sternrassler/artist-pager/pkg/pagination"

// Phase is the controller's position in its load cycle.
type Phase string

const (
	// PhaseIdle accepts triggers.
	PhaseIdle Phase = "idle"

	// PhaseLoading has one request in flight and ignores triggers.
	PhaseLoading Phase = "loading"

	// PhaseExhausted is terminal: no further pages exist.
	PhaseExhausted Phase = "exhausted"
)

// State is a snapshot of the pagination state.
type State struct {
	// CurrentPage is the page index the next trigger will request.
	CurrentPage int

	// PageSize is the requested size, 0 when the parameter is omitted.
	PageSize int

	// TotalPages as last reported by the server, or pagination.Unknown.
	TotalPages int

	// PagesLoaded counts the non-empty pages appended so far.
	PagesLoaded int

	// ItemsAppended counts the fragments appended so far.
	ItemsAppended int

	Loading   bool
	Exhausted bool
}

// Phase derives the cycle phase from the flags.
func (s State) Phase() Phase {
	switch {
	case s.Exhausted:
		return PhaseExhausted
	case s.Loading:
		return PhaseLoading
	default:
		return PhaseIdle
	}
}

// TotalPagesKnown reports whether the server has reported a page count.
func (s State) TotalPagesKnown() bool {
	return s.TotalPages != pagination.Unknown
}
