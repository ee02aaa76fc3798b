package models

import "fmt"

// FilterRequest is the body of a recommendation request.
//
// Exactly one of TargetTempo/Tempo and TargetEnergy/Energy is set when the user supplied a value.
type FilterRequest struct {
	Count          int      `json:"count"`
	DiscoveryLevel int      `json:"discovery_level"`
	MinYear        int      `json:"min_year"`
	MaxPopularity  int      `json:"max_popularity"`
	TargetTempo    *int     `json:"target_tempo,omitempty"`
	Tempo          string   `json:"tempo,omitempty"`
	TargetEnergy   *int     `json:"target_energy,omitempty"`
	Energy         string   `json:"energy,omitempty"`
	Genres         []string `json:"genres"`
	Moods          []string `json:"moods"`
}

// Track is a recommended track. URI is the identity used for selection.
type Track struct {
	URI        string `json:"uri"`
	Title      string `json:"title"`
	Artist     string `json:"artist"`
	PreviewURL string `json:"preview_url,omitempty"`
	ImageURL   string `json:"image_url,omitempty"`
}

// Playlist is an entry of the user's playlist listing.
type Playlist struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	TrackCount int    `json:"track_count"`
}

// Label renders the playlist as shown in the existing-playlist selector.
func (p Playlist) Label() string {
	return fmt.Sprintf("%s (%d tracks)", p.Name, p.TrackCount)
}

// CreatedPlaylist is returned by the backend after a playlist is created.
type CreatedPlaylist struct {
	Name        string `json:"name"`
	TrackCount  int    `json:"track_count"`
	ExternalURL string `json:"external_url,omitempty"`
}

// PlaylistUpdate is returned after tracks are appended to an existing playlist.
type PlaylistUpdate struct {
	TrackCount int `json:"track_count"`
}

// FilterSuggestion is a named preset (e.g. filter "tempo", extreme "high") with sample tracks.
type FilterSuggestion struct {
	Filter  string  `json:"filter"`
	Extreme string  `json:"extreme"`
	Tracks  []Track `json:"tracks"`
}

// SaveTarget is where selected tracks are saved: a [NewPlaylist] or an [ExistingPlaylist].
type SaveTarget interface {
	saveTarget()
}

// NewPlaylist creates a playlist with the given name.
type NewPlaylist struct {
	Name string
}

// ExistingPlaylist appends to the playlist with the given backend id.
type ExistingPlaylist struct {
	ID string
}

func (NewPlaylist) saveTarget()      {}
func (ExistingPlaylist) saveTarget() {}

// PlaylistSaveRequest pairs a save target with the selected track URIs.
type PlaylistSaveRequest struct {
	Target    SaveTarget
	TrackURIs []string
}
