package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/crate/internal/dashboard"
	"github.com/desertthunder/crate/internal/models"
)

// MsgKind enumerates all message types in the application.
type MsgKind int

// Msg represents all possible messages in the TUI (Elm-style message union).
type Msg struct {
	kind MsgKind
	data any
}

var (
	_ tea.Msg = Msg{}
)

const (
	MsgGenresLoaded MsgKind = iota
	MsgSuggestionsLoaded
	MsgRecommendations
	MsgPlaylistsLoaded
	MsgSaveFinished
	MsgFeedbackStored
	MsgNotificationExpired
	MsgBlurExpired
)

// fetched carries the result of a backend call back to Update.
type fetched[T any] struct {
	value T
	err   error
}

type saveOutcome struct {
	req    *models.PlaylistSaveRequest
	result dashboard.SaveResult
	err    error
}

// genresLoadedMsg is the constructor for [MsgGenresLoaded]
func genresLoadedMsg(genres []string, err error) Msg {
	return Msg{kind: MsgGenresLoaded, data: fetched[[]string]{genres, err}}
}

// suggestionsLoadedMsg is the constructor for [MsgSuggestionsLoaded]
func suggestionsLoadedMsg(suggestions []models.FilterSuggestion, err error) Msg {
	return Msg{kind: MsgSuggestionsLoaded, data: fetched[[]models.FilterSuggestion]{suggestions, err}}
}

// recommendationsMsg is the constructor for [MsgRecommendations]
func recommendationsMsg(tracks []models.Track, err error) Msg {
	return Msg{kind: MsgRecommendations, data: fetched[[]models.Track]{tracks, err}}
}

// playlistsLoadedMsg is the constructor for [MsgPlaylistsLoaded]
func playlistsLoadedMsg(playlists []models.Playlist, err error) Msg {
	return Msg{kind: MsgPlaylistsLoaded, data: fetched[[]models.Playlist]{playlists, err}}
}

// saveFinishedMsg is the constructor for [MsgSaveFinished]
func saveFinishedMsg(req *models.PlaylistSaveRequest, result dashboard.SaveResult, err error) Msg {
	return Msg{kind: MsgSaveFinished, data: saveOutcome{req, result, err}}
}

// feedbackStoredMsg is the constructor for [MsgFeedbackStored]
func feedbackStoredMsg(err error) Msg {
	return Msg{kind: MsgFeedbackStored, data: err}
}

// notificationExpiredMsg is the constructor for [MsgNotificationExpired]
func notificationExpiredMsg(id int) Msg {
	return Msg{kind: MsgNotificationExpired, data: id}
}

// blurExpiredMsg is the constructor for [MsgBlurExpired]
func blurExpiredMsg(token int) Msg {
	return Msg{kind: MsgBlurExpired, data: token}
}
