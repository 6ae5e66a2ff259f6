package usecase

import (
	"context"
	"strings"
	"sync"

	"github.com/bnema/cardex/internal/domain/entity"
	"github.com/bnema/cardex/internal/logging"
)

// SessionState is the lifecycle state of a browse session.
type SessionState int

const (
	SessionIdle SessionState = iota
	SessionLoading
	SessionLoaded
	SessionNotFound
)

// String implements fmt.Stringer.
func (s SessionState) String() string {
	switch s {
	case SessionIdle:
		return "idle"
	case SessionLoading:
		return "loading"
	case SessionLoaded:
		return "loaded"
	case SessionNotFound:
		return "not_found"
	default:
		return "unknown"
	}
}

// PageRequester resolves a page for the view layer.
// *PageCache implements it.
type PageRequester interface {
	RequestPage(ctx context.Context, term string, page int) (*entity.Page, error)
}

// PageRequest is one load issued by a session. Generation orders requests;
// only the latest one may change the session.
type PageRequest struct {
	Generation uint64
	Term       string
	Page       int
}

// SessionView is an immutable snapshot of a browse session.
type SessionView struct {
	State      SessionState
	Term       string
	Page       int
	TotalPages int
	Results    []entity.Character
	NotFound   bool
	Err        error
}

// Loading reports whether a request is outstanding.
func (v SessionView) Loading() bool {
	return v.State == SessionLoading
}

// CanPrev reports whether the previous-page action is available.
func (v SessionView) CanPrev() bool {
	return v.Page > 1 && !v.NotFound
}

// CanNext reports whether the next-page action is available.
func (v SessionView) CanNext() bool {
	return v.Page < v.TotalPages && !v.NotFound
}

// BrowseSession drives which page is shown and when it is loaded.
// It is safe for concurrent use.
type BrowseSession struct {
	pages PageRequester

	mu         sync.Mutex
	state      SessionState
	term       string
	page       int
	totalPages int
	results    []entity.Character
	notFound   bool
	lastErr    error
	generation uint64
}

// NewBrowseSession creates an idle session on page 1 with no filter.
func NewBrowseSession(pages PageRequester) *BrowseSession {
	return &BrowseSession{
		pages:      pages,
		state:      SessionIdle,
		page:       1,
		totalPages: 1,
		results:    []entity.Character{},
	}
}

// Mount starts the initial unfiltered load of page 1.
func (s *BrowseSession) Mount() PageRequest {
	return s.begin("", 1)
}

// SetTerm reloads the current page for a new search term.
func (s *BrowseSession) SetTerm(term string) PageRequest {
	s.mu.Lock()
	page := s.page
	s.mu.Unlock()
	return s.begin(strings.TrimSpace(term), page)
}

// Search loads page 1 for term (trimmed).
func (s *BrowseSession) Search(term string) PageRequest {
	return s.begin(strings.TrimSpace(term), 1)
}

// Reset clears the filter and loads page 1 through the cache.
// Cached pages are kept.
func (s *BrowseSession) Reset() PageRequest {
	return s.begin("", 1)
}

// NextPage moves one page forward. ok is false when already on the last
// page or in the not-found state.
func (s *BrowseSession) NextPage() (req PageRequest, ok bool) {
	view := s.Snapshot()
	if !view.CanNext() {
		return PageRequest{}, false
	}
	return s.begin(view.Term, min(view.Page+1, view.TotalPages)), true
}

// PrevPage moves one page back. ok is false on page 1 or in the not-found state.
func (s *BrowseSession) PrevPage() (req PageRequest, ok bool) {
	view := s.Snapshot()
	if !view.CanPrev() {
		return PageRequest{}, false
	}
	return s.begin(view.Term, max(view.Page-1, 1)), true
}

// GoToPage jumps to page, clamped to the known page range.
func (s *BrowseSession) GoToPage(page int) (req PageRequest, ok bool) {
	if page < 1 {
		return PageRequest{}, false
	}
	view := s.Snapshot()
	return s.begin(view.Term, min(page, max(view.TotalPages, 1))), true
}

func (s *BrowseSession) begin(term string, page int) PageRequest {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.generation++
	s.state = SessionLoading
	s.term = term
	s.page = page
	return PageRequest{Generation: s.generation, Term: term, Page: page}
}

// Fetch resolves req through the page requester without touching session state.
func (s *BrowseSession) Fetch(ctx context.Context, req PageRequest) (*entity.Page, error) {
	return s.pages.RequestPage(ctx, req.Term, req.Page)
}

// Resolve applies the outcome of req. It returns false and changes nothing
// when a newer request has been issued since req.
func (s *BrowseSession) Resolve(req PageRequest, page *entity.Page, err error) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if req.Generation != s.generation {
		return false
	}

	if err != nil || page == nil {
		s.state = SessionNotFound
		s.results = []entity.Character{}
		s.notFound = true
		s.lastErr = err
		return true
	}

	s.state = SessionLoaded
	s.page = req.Page
	s.totalPages = max(page.TotalPages, 1)
	s.results = page.Results
	if s.results == nil {
		s.results = []entity.Character{}
	}
	s.notFound = false
	s.lastErr = nil
	return true
}

// Execute fetches req and applies the result. applied is false when req
// went stale while in flight.
func (s *BrowseSession) Execute(ctx context.Context, req PageRequest) (applied bool, err error) {
	page, err := s.Fetch(ctx, req)
	applied = s.Resolve(req, page, err)
	if !applied {
		logging.FromContext(ctx).Debug().
			Uint64("generation", req.Generation).
			Str("term", req.Term).
			Int("page", req.Page).
			Msg("discarded stale page response")
	}
	return applied, err
}

// Load begins a request for (term, page) and executes it synchronously.
func (s *BrowseSession) Load(ctx context.Context, term string, page int) (SessionView, error) {
	_, err := s.Execute(ctx, s.begin(term, page))
	return s.Snapshot(), err
}

// Snapshot returns the current view state.
func (s *BrowseSession) Snapshot() SessionView {
	s.mu.Lock()
	defer s.mu.Unlock()

	results := make([]entity.Character, len(s.results))
	copy(results, s.results)
	return SessionView{
		State:      s.state,
		Term:       s.term,
		Page:       s.page,
		TotalPages: s.totalPages,
		Results:    results,
		NotFound:   s.notFound,
		Err:        s.lastErr,
	}
}
