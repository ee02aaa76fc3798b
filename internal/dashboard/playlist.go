package dashboard

import (
	"fmt"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/desertthunder/crate/internal/models"
	"github.com/desertthunder/crate/internal/shared"
)

// SaveState is the state of the playlist save modal.
type SaveState int

const (
	SaveClosed SaveState = iota
	SaveOpen
	SaveSubmitting
)

// SaveMode chooses between creating a playlist and appending to an existing one.
type SaveMode int

const (
	ModeNew SaveMode = iota
	ModeExisting
)

func (m SaveMode) String() string {
	if m == ModeExisting {
		return "existing"
	}
	return "new"
}

// ListState is the state of the existing-playlist selector.
type ListState int

const (
	ListNotLoaded ListState = iota
	ListLoading
	ListLoaded
	ListFailed
)

// Messages shown by the save workflow.
const (
	EmptySelectionMessage  = "Please select at least one track to create a playlist."
	MissingNameMessage     = "Please enter a playlist name."
	MissingPlaylistMessage = "Please select a playlist."
	PlaylistsFailedLabel   = "Failed to load playlists"
	CreateFallbackMessage  = "Failed to create playlist. Please try again."
	AddFallbackMessage     = "Failed to add tracks to playlist. Please try again."
	DefaultPlaylistName    = "AI Generated Playlist"
)

// Submit control labels.
const (
	CreateLabel   = "Create Playlist"
	CreatingLabel = "Creating..."
	AddLabel      = "Add to Playlist"
	AddingLabel   = "Adding..."
)

// CreatedMessage is the success notification for a new playlist.
func CreatedMessage(p *models.CreatedPlaylist) string {
	return fmt.Sprintf("Playlist %q created successfully with %d tracks!", p.Name, p.TrackCount)
}

// AddedMessage is the success notification after appending to a playlist.
func AddedMessage(u *models.PlaylistUpdate) string {
	return fmt.Sprintf("Added %d tracks to the playlist!", u.TrackCount)
}

// SaveWorkflow is the playlist save modal.
//
// With CloseOnSubmit false (the default) the modal stays open until the backend confirms the
// save, so a failure leaves the inputs in place. With CloseOnSubmit true it closes as soon as the
// request is issued.
type SaveWorkflow struct {
	CloseOnSubmit bool
	DefaultName   string

	state      SaveState
	mode       SaveMode
	name       string
	playlistID string
	uris       []string

	listState ListState
	playlists []models.Playlist
	fieldErr  string
}

// NewSaveWorkflow creates a closed workflow. An empty defaultName uses [DefaultPlaylistName].
func NewSaveWorkflow(defaultName string, closeOnSubmit bool) *SaveWorkflow {
	if strings.TrimSpace(defaultName) == "" {
		defaultName = DefaultPlaylistName
	}
	return &SaveWorkflow{DefaultName: defaultName, CloseOnSubmit: closeOnSubmit}
}

// Open shows the modal in New mode with the default name. It fails with [shared.ErrEmptySelection] when uris is empty.
func (w *SaveWorkflow) Open(uris []string) error {
	if len(uris) == 0 {
		return shared.ErrEmptySelection
	}
	w.state = SaveOpen
	w.mode = ModeNew
	w.name = w.DefaultName
	w.playlistID = ""
	w.fieldErr = ""
	w.uris = append([]string(nil), uris...)
	return nil
}

// Close hides the modal. A submission in flight still finishes.
func (w *SaveWorkflow) Close() {
	if w.state == SaveOpen {
		w.state = SaveClosed
	}
}

// SwitchMode changes the sub-state and reports whether the playlist list needs fetching.
//
// Every switch to Existing refetches the list unless a fetch is already running.
func (w *SaveWorkflow) SwitchMode(mode SaveMode) (needsFetch bool, err error) {
	if w.state != SaveOpen {
		return false, shared.ErrWorkflowClosed
	}
	w.mode = mode
	w.fieldErr = ""
	if mode != ModeExisting {
		return false, nil
	}
	return w.listState != ListLoading, nil
}

// BeginPlaylists marks the playlist list as loading. It fails if a fetch is already running.
func (w *SaveWorkflow) BeginPlaylists() error {
	if w.listState == ListLoading {
		return shared.ErrRequestInFlight
	}
	w.listState = ListLoading
	return nil
}

// FinishPlaylists stores the fetched list, or the failed state when err is not nil.
func (w *SaveWorkflow) FinishPlaylists(playlists []models.Playlist, err error) {
	if err != nil {
		w.listState = ListFailed
		w.playlists = nil
		return
	}
	w.listState = ListLoaded
	w.playlists = append([]models.Playlist(nil), playlists...)
	for _, p := range w.playlists {
		if p.ID == w.playlistID {
			return
		}
	}
	w.playlistID = ""
	if len(w.playlists) > 0 {
		w.playlistID = w.playlists[0].ID
	}
}

// SetName sets the new-playlist name.
func (w *SaveWorkflow) SetName(name string) {
	w.name = name
	w.fieldErr = ""
}

// SelectPlaylist chooses an existing playlist by id. Unknown ids are rejected.
func (w *SaveWorkflow) SelectPlaylist(id string) bool {
	for _, p := range w.playlists {
		if p.ID == id {
			w.playlistID = id
			w.fieldErr = ""
			return true
		}
	}
	return false
}

// MoveSelection moves the existing-playlist choice by delta, wrapping around.
func (w *SaveWorkflow) MoveSelection(delta int) {
	n := len(w.playlists)
	if n == 0 {
		return
	}
	i := w.selectedIndex()
	if i < 0 {
		i = 0
	} else {
		i = ((i+delta)%n + n) % n
	}
	w.playlistID = w.playlists[i].ID
}

// Submit validates the current inputs and enters Submitting, returning the request to send.
//
// A missing name or playlist returns a [*ValidationError] and leaves the modal open.
func (w *SaveWorkflow) Submit() (*models.PlaylistSaveRequest, error) {
	switch w.state {
	case SaveClosed:
		return nil, shared.ErrWorkflowClosed
	case SaveSubmitting:
		return nil, shared.ErrRequestInFlight
	}

	var target models.SaveTarget
	switch w.mode {
	case ModeNew:
		name := strings.TrimSpace(w.name)
		if err := validation.Validate(name, validation.Required); err != nil {
			return nil, w.reject("name", MissingNameMessage)
		}
		target = models.NewPlaylist{Name: name}
	case ModeExisting:
		if err := validation.Validate(w.playlistID, validation.Required); err != nil {
			return nil, w.reject("playlist_id", MissingPlaylistMessage)
		}
		target = models.ExistingPlaylist{ID: w.playlistID}
	}

	w.fieldErr = ""
	w.state = SaveSubmitting
	return &models.PlaylistSaveRequest{Target: target, TrackURIs: append([]string(nil), w.uris...)}, nil
}

// Finish ends a submission. Success always closes the modal; failure closes it only with CloseOnSubmit.
func (w *SaveWorkflow) Finish(success bool) {
	if w.state != SaveSubmitting {
		return
	}
	if success || w.CloseOnSubmit {
		w.state = SaveClosed
		return
	}
	w.state = SaveOpen
}

// Visible reports whether the modal is shown. Under CloseOnSubmit it hides while submitting.
func (w *SaveWorkflow) Visible() bool {
	switch w.state {
	case SaveOpen:
		return true
	case SaveSubmitting:
		return !w.CloseOnSubmit
	default:
		return false
	}
}

// SubmitLabel is the text of the submit control.
func (w *SaveWorkflow) SubmitLabel() string {
	submitting := w.state == SaveSubmitting
	switch {
	case w.mode == ModeExisting && submitting:
		return AddingLabel
	case w.mode == ModeExisting:
		return AddLabel
	case submitting:
		return CreatingLabel
	default:
		return CreateLabel
	}
}

// SubmitEnabled reports whether the submit control accepts input.
func (w *SaveWorkflow) SubmitEnabled() bool { return w.state == SaveOpen }

func (w *SaveWorkflow) State() SaveState             { return w.state }
func (w *SaveWorkflow) Mode() SaveMode               { return w.mode }
func (w *SaveWorkflow) Name() string                 { return w.name }
func (w *SaveWorkflow) PlaylistID() string           { return w.playlistID }
func (w *SaveWorkflow) ListState() ListState         { return w.listState }
func (w *SaveWorkflow) Playlists() []models.Playlist { return w.playlists }
func (w *SaveWorkflow) FieldError() string           { return w.fieldErr }
func (w *SaveWorkflow) TrackURIs() []string          { return w.uris }

func (w *SaveWorkflow) selectedIndex() int {
	for i, p := range w.playlists {
		if p.ID == w.playlistID {
			return i
		}
	}
	return -1
}

func (w *SaveWorkflow) reject(field, message string) error {
	w.fieldErr = message
	return &ValidationError{Field: field, Message: message}
}
