package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/tripsift/tripsift/internal/catalog"
	"github.com/tripsift/tripsift/internal/session"
	"github.com/tripsift/tripsift/internal/travel"
)

// Handlers holds the dependencies for all HTTP handlers.
type Handlers struct {
	cities     CitySearcher
	activities ActivityFinder
	history    WeatherHistorian
	sessions   SessionStore
	log        *slog.Logger
}

// NewHandlers constructs Handlers with all required dependencies.
func NewHandlers(cities CitySearcher, activities ActivityFinder, history WeatherHistorian, sessions SessionStore, log *slog.Logger) *Handlers {
	return &Handlers{
		cities:     cities,
		activities: activities,
		history:    history,
		sessions:   sessions,
		log:        log,
	}
}

// writeJSON encodes v as JSON and writes it with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// view is the rendered state returned by every session interaction: one page
// of activities, the historical weather table, and the full session state so
// the client can redraw its controls.
type view struct {
	SessionID        string                 `json:"session_id"`
	HaveResults      bool                   `json:"have_results"`
	PresetPending    bool                   `json:"preset_pending"`
	ActiveCategories []catalog.Category     `json:"active_categories"`
	Sort             catalog.SortOption     `json:"sort"`
	PageSize         int                    `json:"page_size"`
	Page             int                    `json:"page"`
	MaxPage          int                    `json:"max_page"`
	TotalCount       int                    `json:"total_count"`
	Items            []travel.Activity      `json:"items"`
	Query            *session.Query         `json:"query,omitempty"`
	Weather          []travel.WeatherSample `json:"weather"`
	RainExpected     *bool                  `json:"rain_expected,omitempty"`
	AvgTemp          *float64               `json:"avg_temp,omitempty"`
	WeatherNote      string                 `json:"weather_note,omitempty"`
	PresetRules      string                 `json:"preset_rules"`
}

// renderView recomputes the page from current session state. The session must
// be locked by the caller.
func renderView(s *session.Session) view {
	page := s.Render()

	v := view{
		SessionID:        s.ID.String(),
		HaveResults:      s.HaveResults,
		PresetPending:    s.PresetPending,
		ActiveCategories: s.ActiveCategories,
		Sort:             s.Sort,
		PageSize:         s.PageSize,
		Page:             page.Number,
		MaxPage:          page.MaxPage,
		TotalCount:       page.TotalCount,
		Items:            page.Items,
		Query:            s.Query,
		Weather:          s.Samples,
		PresetRules:      catalog.PresetRules,
	}
	if v.ActiveCategories == nil {
		v.ActiveCategories = []catalog.Category{}
	}
	if v.Items == nil {
		v.Items = []travel.Activity{}
	}
	if v.Weather == nil {
		v.Weather = []travel.WeatherSample{}
	}

	if c := catalog.Classify(s.Samples); c.Known() {
		rain, avg := c.RainExpected, c.AvgTemp
		v.RainExpected = &rain
		v.AvgTemp = &avg
	} else if s.HaveResults {
		v.WeatherNote = "no weather data available"
	}

	return v
}

// CreateSession handles POST /api/v1/sessions.
func (h *Handlers) CreateSession(w http.ResponseWriter, r *http.Request) {
	s := h.sessions.New()
	s.Lock()
	defer s.Unlock()
	writeJSON(w, http.StatusCreated, renderView(s))
}

// DeleteSession handles DELETE /api/v1/sessions/{sessionID}.
func (h *Handlers) DeleteSession(w http.ResponseWriter, r *http.Request) {
	s := sessionFrom(r.Context())
	h.sessions.Delete(s.ID)
	w.WriteHeader(http.StatusNoContent)
}

// GetView handles GET /api/v1/sessions/{sessionID}.
// Pure recomputation of the current view; no external fetches.
func (h *Handlers) GetView(w http.ResponseWriter, r *http.Request) {
	s := sessionFrom(r.Context())
	s.Lock()
	defer s.Unlock()
	writeJSON(w, http.StatusOK, renderView(s))
}

// SearchCities handles GET /api/v1/cities?keyword=.
// Lookup failures degrade to an empty list inside the client; only an
// authentication failure surfaces here.
func (h *Handlers) SearchCities(w http.ResponseWriter, r *http.Request) {
	keyword := r.URL.Query().Get("keyword")
	if keyword == "" {
		writeJSON(w, http.StatusOK, map[string]any{"cities": []travel.CityCandidate{}})
		return
	}

	cities, err := h.cities.Search(r.Context(), keyword)
	if err != nil {
		h.writeFetchError(w, "city search", err)
		return
	}
	if cities == nil {
		cities = []travel.CityCandidate{}
	}

	writeJSON(w, http.StatusOK, map[string]any{"cities": cities})
}

type searchRequest struct {
	Label     string  `json:"label"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Radius    int     `json:"radius"`
	Date      string  `json:"date"`
}

// Search handles POST /api/v1/sessions/{sessionID}/search — the "find
// activities" action. Resets the page to 1, fetches the catalogue (failures
// abort the pass) and the three-year weather history (failed years are
// dropped), then applies a pending preset if the weather resolved.
func (h *Handlers) Search(w http.ResponseWriter, r *http.Request) {
	s := sessionFrom(r.Context())

	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if req.Radius < 1 || req.Radius > 20 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "radius must be between 1 and 20"})
		return
	}
	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "date must be YYYY-MM-DD"})
		return
	}

	activities, err := h.activities.Fetch(r.Context(), req.Latitude, req.Longitude, req.Radius)
	if err != nil {
		h.writeFetchError(w, "activities fetch", err)
		return
	}

	samples, err := h.history.Fetch(r.Context(), req.Latitude, req.Longitude, date)
	if err != nil {
		// Weather is advisory: a failed history pass degrades to "no data".
		h.log.Warn("weather history fetch failed", "err", err)
		samples = nil
	}

	s.Lock()
	defer s.Unlock()

	s.BeginSearch(session.Query{
		Label:     req.Label,
		Latitude:  req.Latitude,
		Longitude: req.Longitude,
		Radius:    req.Radius,
		Date:      date,
	}, activities, samples)

	if s.ResolvePreset(catalog.Classify(samples)) {
		h.log.Info("weather preset applied", "session", s.ID)
	}

	writeJSON(w, http.StatusOK, renderView(s))
}

type categoriesRequest struct {
	Categories []string `json:"categories"`
}

// EditCategories handles PUT /api/v1/sessions/{sessionID}/categories.
// A manual edit cancels any pending preset.
func (h *Handlers) EditCategories(w http.ResponseWriter, r *http.Request) {
	s := sessionFrom(r.Context())

	var req categoriesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	cats, err := catalog.ParseSet(req.Categories)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	s.Lock()
	defer s.Unlock()
	s.EditCategories(cats)
	writeJSON(w, http.StatusOK, renderView(s))
}

// RequestPreset handles POST /api/v1/sessions/{sessionID}/preset — the
// "apply weather filter" action. If weather for the current query has already
// resolved the preset applies immediately; otherwise it stays pending until a
// search resolves it.
func (h *Handlers) RequestPreset(w http.ResponseWriter, r *http.Request) {
	s := sessionFrom(r.Context())

	s.Lock()
	defer s.Unlock()

	s.RequestPreset()
	if s.ResolvePreset(catalog.Classify(s.Samples)) {
		h.log.Info("weather preset applied", "session", s.ID)
	}

	writeJSON(w, http.StatusOK, renderView(s))
}

type viewRequest struct {
	Sort     string `json:"sort"`
	PageSize int    `json:"page_size"`
}

// validPageSizes are the page sizes offered by the page-size selector.
var validPageSizes = map[int]bool{5: true, 10: true, 20: true}

// UpdateView handles PUT /api/v1/sessions/{sessionID}/view — the sort and
// page-size selectors. The current page is re-clamped on render.
func (h *Handlers) UpdateView(w http.ResponseWriter, r *http.Request) {
	s := sessionFrom(r.Context())

	var req viewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	sortBy, ok := catalog.ParseSort(req.Sort)
	if !ok {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "unknown sort option"})
		return
	}
	if !validPageSizes[req.PageSize] {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "page size must be 5, 10, or 20"})
		return
	}

	s.Lock()
	defer s.Unlock()
	s.Sort = sortBy
	s.PageSize = req.PageSize
	writeJSON(w, http.StatusOK, renderView(s))
}

type pageRequest struct {
	Direction string `json:"direction,omitempty"` // "next" or "prev"
	Page      int    `json:"page,omitempty"`      // explicit page number
}

// ChangePage handles POST /api/v1/sessions/{sessionID}/page — the pagination
// controls. Accepts either a prev/next direction or an explicit page number;
// the result is clamped to [1, maxPage], so navigating past a boundary is a
// no-op.
func (h *Handlers) ChangePage(w http.ResponseWriter, r *http.Request) {
	s := sessionFrom(r.Context())

	var req pageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	s.Lock()
	defer s.Unlock()

	switch {
	case req.Page != 0:
		s.Page = req.Page
	case req.Direction == "next":
		s.Page++
	case req.Direction == "prev":
		s.Page--
	default:
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "request must carry a page number or a next/prev direction"})
		return
	}

	writeJSON(w, http.StatusOK, renderView(s))
}

// writeFetchError maps external fetch failures onto the error taxonomy:
// authentication failures and catalogue 5xx responses are reported as bad
// gateway with distinct messages, everything else is a generic internal error.
func (h *Handlers) writeFetchError(w http.ResponseWriter, op string, err error) {
	h.log.Error(op+" failed", "err", err)

	switch {
	case errors.Is(err, travel.ErrAuth):
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": travel.ErrAuth.Error()})
	case errors.Is(err, travel.ErrUpstream):
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": travel.ErrUpstream.Error()})
	default:
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to fetch activities"})
	}
}

// redisPinger is satisfied by the cache's redis client.
type redisPinger interface {
	Ping(ctx context.Context) error
}

// HealthHandlerFunc returns an http.HandlerFunc that checks redis
// connectivity: 200 when the cache responds, 503 otherwise.
func HealthHandlerFunc(redis redisPinger, log *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
		defer cancel()

		if err := redis.Ping(ctx); err != nil {
			log.Error("health check: redis ping failed", "err", err)
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "degraded", "cache": "error"})
			return
		}

		writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "cache": "ok"})
	}
}
