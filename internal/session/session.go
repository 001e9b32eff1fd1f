// Package session holds per-user browsing state: the current page, active
// category filters, the pending weather preset flag, and the raw results of
// the last search. One Session exists per active user and is discarded on
// session end or idle expiry; nothing is persisted.
package session

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/tripsift/tripsift/internal/catalog"
	"github.com/tripsift/tripsift/internal/travel"
)

// Defaults for a fresh session.
const (
	DefaultPageSize = 10
	defaultIdleTTL  = 30 * time.Minute
)

// Query anchors a search: the coordinates, radius, and reference date the
// current results were fetched for. Immutable once set.
type Query struct {
	Label     string    `json:"label,omitempty"`
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	Radius    int       `json:"radius"`
	Date      time.Time `json:"date"`
}

// Session is the full state of one user's browsing session. Handlers lock the
// session for the duration of an interaction, so at most one interaction
// mutates a session at a time.
type Session struct {
	mu sync.Mutex

	ID uuid.UUID

	Page             int
	HaveResults      bool
	PresetPending    bool
	ActiveCategories []catalog.Category

	Sort     catalog.SortOption
	PageSize int

	Query      *Query
	Activities []travel.Activity
	Samples    []travel.WeatherSample

	lastSeen time.Time
}

// Lock takes the per-session interaction lock.
func (s *Session) Lock() { s.mu.Lock() }

// Unlock releases the per-session interaction lock.
func (s *Session) Unlock() { s.mu.Unlock() }

// EditCategories replaces the active category set from user input. A manual
// edit cancels any pending-but-not-yet-applied preset.
func (s *Session) EditCategories(cats []catalog.Category) {
	s.ActiveCategories = cats
	s.PresetPending = false
}

// RequestPreset marks the weather preset for application. The active set is
// not changed until weather data for the current query is available.
func (s *Session) RequestPreset() {
	s.PresetPending = true
}

// ResolvePreset applies the weather preset if one is pending and the
// classification is usable, overwriting the active selection. An unknown
// classification (no samples) leaves the pending flag set so a later search
// that does resolve weather can still apply it. Reports whether the preset
// was applied.
func (s *Session) ResolvePreset(c catalog.Classification) bool {
	if !s.PresetPending || !c.Known() {
		return false
	}
	s.ActiveCategories = catalog.PresetCategories(c.RainExpected, c.AvgTemp)
	s.PresetPending = false
	return true
}

// BeginSearch records a new search: the page resets to 1 and the query,
// results, and weather samples are replaced.
func (s *Session) BeginSearch(q Query, activities []travel.Activity, samples []travel.WeatherSample) {
	s.Page = 1
	s.HaveResults = true
	s.Query = &q
	s.Activities = activities
	s.Samples = samples
}

// Render produces the current page from session state and re-clamps the
// stored page number, since page size, filters, or data may have changed
// since the last call.
func (s *Session) Render() catalog.Page {
	page := catalog.Render(s.Activities, s.ActiveCategories, s.Sort, s.PageSize, s.Page)
	s.Page = page.Number
	return page
}

// Store is an in-memory session registry keyed by UUID. Sessions expire after
// an idle TTL.
type Store struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]*Session
	idleTTL  time.Duration
	now      func() time.Time
}

// NewStore constructs a Store with a 30-minute idle TTL.
func NewStore() *Store {
	return &Store{
		sessions: make(map[uuid.UUID]*Session),
		idleTTL:  defaultIdleTTL,
		now:      time.Now,
	}
}

// NewStoreWithClock constructs a Store with an injectable clock and idle TTL
// (for tests).
func NewStoreWithClock(idleTTL time.Duration, now func() time.Time) *Store {
	return &Store{
		sessions: make(map[uuid.UUID]*Session),
		idleTTL:  idleTTL,
		now:      now,
	}
}

// New creates a session with default state: page 1, no results, no preset
// pending, empty category set. Creation also sweeps out expired sessions, so
// abandoned sessions cannot accumulate while new visitors keep arriving.
func (st *Store) New() *Session {
	st.mu.Lock()
	defer st.mu.Unlock()

	st.sweepLocked()

	s := &Session{
		ID:       uuid.New(),
		Page:     1,
		Sort:     catalog.SortNone,
		PageSize: DefaultPageSize,
		lastSeen: st.now(),
	}
	st.sessions[s.ID] = s
	return s
}

// Get returns the session for id, refreshing its idle timer. Expired sessions
// are dropped and reported as missing.
func (st *Store) Get(id uuid.UUID) (*Session, bool) {
	st.mu.Lock()
	defer st.mu.Unlock()

	s, ok := st.sessions[id]
	if !ok {
		return nil, false
	}
	if st.now().Sub(s.lastSeen) > st.idleTTL {
		delete(st.sessions, id)
		return nil, false
	}
	s.lastSeen = st.now()
	return s, true
}

// Delete discards the session for id.
func (st *Store) Delete(id uuid.UUID) {
	st.mu.Lock()
	defer st.mu.Unlock()
	delete(st.sessions, id)
}

// Len reports the number of live sessions.
func (st *Store) Len() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return len(st.sessions)
}

// sweepLocked drops every session idle past the TTL. Caller holds st.mu.
func (st *Store) sweepLocked() {
	now := st.now()
	for id, s := range st.sessions {
		if now.Sub(s.lastSeen) > st.idleTTL {
			delete(st.sessions, id)
		}
	}
}
