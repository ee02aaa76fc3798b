package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/desertthunder/crate/internal/models"
	"github.com/desertthunder/crate/internal/shared"
)

// Backend endpoint paths.
const (
	GenresPath            = "/api/genres"
	FilterSuggestionsPath = "/api/filter-suggestions"
	RecommendationsPath   = "/api/recommendations"
	CreatePlaylistPath    = "/api/create-playlist"
	UserPlaylistsPath     = "/api/user-playlists"
	AddToPlaylistPath     = "/api/add-to-playlist"
)

type genresResponse struct {
	Genres []string `json:"genres"`
}

type suggestionsResponse struct {
	Suggestions []models.FilterSuggestion `json:"suggestions"`
}

type playlistsResponse struct {
	Playlists []models.Playlist `json:"playlists"`
}

type createPlaylistRequest struct {
	Name      string   `json:"name"`
	TrackURIs []string `json:"track_uris"`
}

type addToPlaylistRequest struct {
	PlaylistID string   `json:"playlist_id"`
	TrackURIs  []string `json:"track_uris"`
}

// Genres fetches the genre vocabulary.
func (c *Client) Genres(ctx context.Context) ([]string, error) {
	var out genresResponse
	if err := c.getJSON(ctx, GenresPath, &out); err != nil {
		return nil, err
	}
	return out.Genres, nil
}

// FilterSuggestions fetches tempo/energy presets with sample tracks.
func (c *Client) FilterSuggestions(ctx context.Context) ([]models.FilterSuggestion, error) {
	var out suggestionsResponse
	if err := c.getJSON(ctx, FilterSuggestionsPath, &out); err != nil {
		return nil, err
	}
	return out.Suggestions, nil
}

// Recommend posts filters and returns the recommended tracks.
func (c *Client) Recommend(ctx context.Context, filters models.FilterRequest) ([]models.Track, error) {
	if filters.Genres == nil {
		filters.Genres = []string{}
	}
	if filters.Moods == nil {
		filters.Moods = []string{}
	}

	data, err := json.Marshal(filters)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	resp, err := c.Post(ctx, RecommendationsPath, data)
	if err != nil {
		return nil, err
	}
	if !resp.OK() {
		return nil, newAPIError(resp)
	}
	return DecodeTracks(resp.Body)
}

// UserPlaylists lists the playlists of the authenticated user.
func (c *Client) UserPlaylists(ctx context.Context) ([]models.Playlist, error) {
	var out playlistsResponse
	if err := c.getJSON(ctx, UserPlaylistsPath, &out); err != nil {
		return nil, err
	}
	return out.Playlists, nil
}

// CreatePlaylist creates a playlist named name containing uris.
func (c *Client) CreatePlaylist(ctx context.Context, name string, uris []string) (*models.CreatedPlaylist, error) {
	var out models.CreatedPlaylist
	if err := c.postJSON(ctx, CreatePlaylistPath, createPlaylistRequest{Name: name, TrackURIs: nonNil(uris)}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// AddToPlaylist appends uris to the playlist with the given id.
func (c *Client) AddToPlaylist(ctx context.Context, playlistID string, uris []string) (*models.PlaylistUpdate, error) {
	var out models.PlaylistUpdate
	if err := c.postJSON(ctx, AddToPlaylistPath, addToPlaylistRequest{PlaylistID: playlistID, TrackURIs: nonNil(uris)}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DecodeTracks parses a recommendation body that is either a bare array of tracks or an object with a "tracks" field.
//
// A missing or null "tracks" field yields an empty result.
func DecodeTracks(body []byte) ([]models.Track, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("%w: empty body", shared.ErrDecode)
	}

	if trimmed[0] == '[' {
		var tracks []models.Track
		if err := json.Unmarshal(trimmed, &tracks); err != nil {
			return nil, fmt.Errorf("%w: %v", shared.ErrDecode, err)
		}
		return nonNilTracks(tracks), nil
	}

	var wrapped struct {
		Tracks []models.Track `json:"tracks"`
	}
	if err := json.Unmarshal(trimmed, &wrapped); err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrDecode, err)
	}
	return nonNilTracks(wrapped.Tracks), nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func nonNilTracks(t []models.Track) []models.Track {
	if t == nil {
		return []models.Track{}
	}
	return t
}
