package testing

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/desertthunder/crate/internal/models"
)

// Fake backend endpoint paths, mirroring the real backend.
const (
	GenresPath            = "/api/genres"
	FilterSuggestionsPath = "/api/filter-suggestions"
	RecommendationsPath   = "/api/recommendations"
	CreatePlaylistPath    = "/api/create-playlist"
	UserPlaylistsPath     = "/api/user-playlists"
	AddToPlaylistPath     = "/api/add-to-playlist"
)

// Failure makes an endpoint answer with Status and, when Message is set, an {"error": Message} body.
type Failure struct {
	Status  int
	Message string
}

// BackendState is the canned data served by [Backend]. A non-nil Failure for an endpoint overrides its data.
type BackendState struct {
	Genres        []string
	GenresFailure *Failure

	Suggestions        []models.FilterSuggestion
	SuggestionsFailure *Failure

	Tracks []models.Track
	// WrapTracks serves recommendations as {"tracks": [...]} instead of a bare array.
	WrapTracks       bool
	RecommendFailure *Failure

	Playlists        []models.Playlist
	PlaylistsFailure *Failure

	ExternalURL   string
	CreateFailure *Failure
	AddFailure    *Failure
}

// SaveCall records the body of a create-playlist or add-to-playlist request.
type SaveCall struct {
	Name       string   `json:"name"`
	PlaylistID string   `json:"playlist_id"`
	TrackURIs  []string `json:"track_uris"`
}

// Backend is an httptest server that imitates the recommendation backend and counts requests per path.
type Backend struct {
	Server *httptest.Server

	mu            sync.Mutex
	state         BackendState
	calls         map[string]int
	lastFilters   *models.FilterRequest
	lastSave      *SaveCall
	lastCookie    string
	lastAuthorize string
}

// NewBackend starts a fake backend serving state. The server is closed when the test ends.
func NewBackend(t *testing.T, state BackendState) *Backend {
	t.Helper()

	b := &Backend{state: state, calls: make(map[string]int)}

	router := NewRouter()
	router.Use(b.count)
	router.Handle(http.MethodGet, GenresPath, b.genres)
	router.Handle(http.MethodGet, FilterSuggestionsPath, b.suggestions)
	router.Handle(http.MethodPost, RecommendationsPath, b.recommendations)
	router.Handle(http.MethodGet, UserPlaylistsPath, b.playlists)
	router.Handle(http.MethodPost, CreatePlaylistPath, b.createPlaylist)
	router.Handle(http.MethodPost, AddToPlaylistPath, b.addToPlaylist)

	b.Server = httptest.NewServer(router)
	t.Cleanup(b.Server.Close)
	return b
}

// URL returns the base URL of the fake backend.
func (b *Backend) URL() string {
	return b.Server.URL
}

// Update mutates the served state under the backend's lock.
func (b *Backend) Update(fn func(*BackendState)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	fn(&b.state)
}

// Calls returns how many requests hit path.
func (b *Backend) Calls(path string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.calls[path]
}

// Total returns the number of requests received on any path.
func (b *Backend) Total() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	n := 0
	for _, c := range b.calls {
		n += c
	}
	return n
}

// LastFilters returns the body of the most recent recommendation request, or nil.
func (b *Backend) LastFilters() *models.FilterRequest {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.lastFilters
}

// LastSave returns the body of the most recent save request, or nil.
func (b *Backend) LastSave() *SaveCall {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.lastSave
}

// LastHeaders returns the Cookie and Authorization headers of the most recent request.
func (b *Backend) LastHeaders() (cookie, authorization string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.lastCookie, b.lastAuthorize
}

func (b *Backend) count(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		b.calls[r.URL.Path]++
		b.lastCookie = r.Header.Get("Cookie")
		b.lastAuthorize = r.Header.Get("Authorization")
		b.mu.Unlock()
		next.ServeHTTP(w, r)
	})
}

func (b *Backend) snapshot() BackendState {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

func (b *Backend) genres(w http.ResponseWriter, r *http.Request) {
	s := b.snapshot()
	if fail(w, s.GenresFailure) {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"genres": orEmpty(s.Genres)})
}

func (b *Backend) suggestions(w http.ResponseWriter, r *http.Request) {
	s := b.snapshot()
	if fail(w, s.SuggestionsFailure) {
		return
	}
	suggestions := s.Suggestions
	if suggestions == nil {
		suggestions = []models.FilterSuggestion{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"suggestions": suggestions})
}

func (b *Backend) recommendations(w http.ResponseWriter, r *http.Request) {
	var filters models.FilterRequest
	if err := json.NewDecoder(r.Body).Decode(&filters); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid input format for parameters"})
		return
	}

	b.mu.Lock()
	b.lastFilters = &filters
	b.mu.Unlock()

	s := b.snapshot()
	if fail(w, s.RecommendFailure) {
		return
	}

	tracks := s.Tracks
	if tracks == nil {
		tracks = []models.Track{}
	}
	if s.WrapTracks {
		writeJSON(w, http.StatusOK, map[string]any{"tracks": tracks})
		return
	}
	writeJSON(w, http.StatusOK, tracks)
}

func (b *Backend) playlists(w http.ResponseWriter, r *http.Request) {
	s := b.snapshot()
	if fail(w, s.PlaylistsFailure) {
		return
	}
	playlists := s.Playlists
	if playlists == nil {
		playlists = []models.Playlist{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"playlists": playlists})
}

func (b *Backend) createPlaylist(w http.ResponseWriter, r *http.Request) {
	call, ok := b.recordSave(w, r)
	if !ok {
		return
	}

	s := b.snapshot()
	if fail(w, s.CreateFailure) {
		return
	}
	writeJSON(w, http.StatusOK, models.CreatedPlaylist{
		Name:        call.Name,
		TrackCount:  len(call.TrackURIs),
		ExternalURL: s.ExternalURL,
	})
}

func (b *Backend) addToPlaylist(w http.ResponseWriter, r *http.Request) {
	call, ok := b.recordSave(w, r)
	if !ok {
		return
	}

	s := b.snapshot()
	if fail(w, s.AddFailure) {
		return
	}
	writeJSON(w, http.StatusOK, models.PlaylistUpdate{TrackCount: len(call.TrackURIs)})
}

func (b *Backend) recordSave(w http.ResponseWriter, r *http.Request) (SaveCall, bool) {
	var call SaveCall
	if err := json.NewDecoder(r.Body).Decode(&call); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid request format"})
		return call, false
	}

	b.mu.Lock()
	b.lastSave = &call
	b.mu.Unlock()
	return call, true
}

func fail(w http.ResponseWriter, f *Failure) bool {
	if f == nil {
		return false
	}
	if f.Message == "" {
		w.WriteHeader(f.Status)
		return true
	}
	writeJSON(w, f.Status, map[string]string{"error": f.Message})
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func orEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
