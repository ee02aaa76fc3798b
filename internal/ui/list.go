package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/desertthunder/crate/internal/models"
)

var (
	_ list.Item = playlistItem{}
)

// playlistItem wraps [models.Playlist] to implement [list.Item].
type playlistItem struct {
	playlist models.Playlist
}

func (i playlistItem) FilterValue() string { return i.playlist.Name }
func (i playlistItem) Title() string       { return i.playlist.Name }
func (i playlistItem) Description() string { return fmt.Sprintf("%d tracks", i.playlist.TrackCount) }

// newPlaylistList builds the existing-playlist picker with selectedID highlighted.
func newPlaylistList(playlists []models.Playlist, selectedID string, width, height int) list.Model {
	items := make([]list.Item, len(playlists))
	selected := 0
	for i, p := range playlists {
		items[i] = playlistItem{playlist: p}
		if p.ID == selectedID {
			selected = i
		}
	}

	delegate := list.NewDefaultDelegate()
	l := list.New(items, delegate, width, height)
	l.Title = "Your Playlists"
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.Select(selected)
	return l
}

// selectedPlaylistID returns the playlist under the list cursor.
func selectedPlaylistID(l list.Model) (string, bool) {
	item, ok := l.SelectedItem().(playlistItem)
	if !ok {
		return "", false
	}
	return item.playlist.ID, true
}
