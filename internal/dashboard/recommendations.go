package dashboard

import (
	"github.com/desertthunder/crate/internal/models"
	"github.com/desertthunder/crate/internal/shared"
)

// Phase is the state of the recommendation request.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseLoading
	PhaseSuccess
	PhaseEmpty
	PhaseFailed
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseLoading:
		return "loading"
	case PhaseSuccess:
		return "success"
	case PhaseEmpty:
		return "empty"
	case PhaseFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// RecommendFallbackMessage is shown when a recommendation request fails without a server message.
const RecommendFallbackMessage = "Failed to fetch recommendations. Please try again."

// EmptyResultsMessage is shown in place of the result list when nothing matched.
const EmptyResultsMessage = "No tracks matched these filters. Try widening them."

// Recommendations tracks one recommendation request at a time and the last result set.
type Recommendations struct {
	phase   Phase
	tracks  []models.Track
	message string
}

// Begin enters Loading. It fails with [shared.ErrRequestInFlight] if a request is already loading.
func (r *Recommendations) Begin() error {
	if r.phase == PhaseLoading {
		return shared.ErrRequestInFlight
	}
	r.phase = PhaseLoading
	r.message = ""
	return nil
}

// Complete replaces the result set with tracks and enters Success or Empty.
func (r *Recommendations) Complete(tracks []models.Track) {
	r.tracks = append([]models.Track(nil), tracks...)
	r.message = ""
	if len(r.tracks) == 0 {
		r.phase = PhaseEmpty
		return
	}
	r.phase = PhaseSuccess
}

// Fail enters Failed and keeps message for display.
func (r *Recommendations) Fail(message string) {
	r.phase = PhaseFailed
	r.message = message
}

func (r *Recommendations) Phase() Phase           { return r.phase }
func (r *Recommendations) Tracks() []models.Track { return r.tracks }
func (r *Recommendations) ErrorMessage() string   { return r.message }
func (r *Recommendations) Loading() bool          { return r.phase == PhaseLoading }
func (r *Recommendations) ShowLoading() bool      { return r.phase == PhaseLoading }
func (r *Recommendations) ShowResults() bool      { return r.phase == PhaseSuccess }
func (r *Recommendations) ShowEmpty() bool        { return r.phase == PhaseEmpty }
func (r *Recommendations) ShowError() bool        { return r.phase == PhaseFailed }

// URIs returns the URIs of the current result set in order.
func (r *Recommendations) URIs() []string {
	uris := make([]string, len(r.tracks))
	for i, t := range r.tracks {
		uris[i] = t.URI
	}
	return uris
}
