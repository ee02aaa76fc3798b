package dashboard

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/crate/internal/models"
	"github.com/desertthunder/crate/internal/services"
	"github.com/desertthunder/crate/internal/shared"
)

// Backend is the recommendation backend as seen by the dashboard.
type Backend interface {
	Genres(ctx context.Context) ([]string, error)
	FilterSuggestions(ctx context.Context) ([]models.FilterSuggestion, error)
	Recommend(ctx context.Context, filters models.FilterRequest) ([]models.Track, error)
	UserPlaylists(ctx context.Context) ([]models.Playlist, error)
	CreatePlaylist(ctx context.Context, name string, uris []string) (*models.CreatedPlaylist, error)
	AddToPlaylist(ctx context.Context, playlistID string, uris []string) (*models.PlaylistUpdate, error)
}

// FeedbackStore persists submitted feedback.
type FeedbackStore interface {
	Create(feedback *models.Feedback) error
}

// Control identifies a trigger that is disabled while its request runs.
type Control int

const (
	ControlGenerate Control = iota
	ControlSave
	ControlFeedback
	ControlPlaylists
	ControlGenres
	ControlSuggestions
)

// Messages for degraded fetches.
const (
	GenresFailedMessage      = "Failed to load genres. Using the default list."
	SuggestionsFailedMessage = "Failed to load filter suggestions."
)

// SaveResult holds the backend reply to a save request; exactly one field is set.
type SaveResult struct {
	Created *models.CreatedPlaylist
	Updated *models.PlaylistUpdate
}

// Options configures a [Controller].
type Options struct {
	Config  shared.DashboardConfig
	TagMode bool
	Logger  *log.Logger
	// OpenURL opens a created playlist's external link. Nil disables it.
	OpenURL func(string) error
	Now     func() time.Time
}

// Controller owns all dashboard state and is the only way to change it.
//
// Each backend workflow is split into BeginX, which validates and disables the trigger, a fetch
// against [Backend], and FinishX, which interprets the result and re-enables the trigger. The
// composed X(ctx) runs the three in order. A Controller is not safe for concurrent use: the TUI
// calls it only from its Update loop and runs fetches in commands that do not touch it.
type Controller struct {
	backend Backend
	store   FeedbackStore
	logger  *log.Logger
	openURL func(string) error

	form        FilterForm
	genres      *GenreInput
	recs        Recommendations
	selection   Selection
	save        *SaveWorkflow
	notes       *Notifier
	suggestions []models.FilterSuggestion
	feedback    FeedbackForm
	busy        map[Control]bool
}

// NewController creates a controller. store may be nil, in which case feedback is validated but not kept.
func NewController(backend Backend, store FeedbackStore, opts Options) *Controller {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	notes := NewNotifier(opts.Config.NotificationTTL())
	if opts.Now != nil {
		notes.Now = opts.Now
	}

	form := NewFilterForm(opts.Config)
	form.TagMode = opts.TagMode

	return &Controller{
		backend: backend,
		store:   store,
		logger:  logger,
		openURL: opts.OpenURL,
		form:    form,
		genres:  NewGenreInput(opts.TagMode),
		save:    NewSaveWorkflow(opts.Config.DefaultPlaylistName, opts.Config.CloseSaveOnSubmit),
		notes:   notes,
		busy:    make(map[Control]bool),
	}
}

func (c *Controller) Backend() Backend                       { return c.backend }
func (c *Controller) Form() FilterForm                       { return c.form }
func (c *Controller) Genres() *GenreInput                    { return c.genres }
func (c *Controller) Recommendations() *Recommendations      { return &c.recs }
func (c *Controller) Selection() *Selection                  { return &c.selection }
func (c *Controller) SaveWorkflow() *SaveWorkflow            { return c.save }
func (c *Controller) Notifier() *Notifier                    { return c.notes }
func (c *Controller) Suggestions() []models.FilterSuggestion { return c.suggestions }
func (c *Controller) Feedback() FeedbackForm                 { return c.feedback }

// Busy reports whether control's request is in flight.
func (c *Controller) Busy(control Control) bool {
	return c.busy[control]
}

// SetForm replaces the raw filter inputs. Tag mode is kept.
func (c *Controller) SetForm(form FilterForm) {
	form.TagMode = c.form.TagMode
	c.form = form
}

// SetFeedback replaces the raw feedback inputs.
func (c *Controller) SetFeedback(form FeedbackForm) {
	c.feedback = form
}

// Notify adds a notification. It is the entry point for messages raised outside the controller.
func (c *Controller) Notify(level Level, message string) Notification {
	return c.notes.Notify(level, message)
}

func (c *Controller) begin(control Control) error {
	if c.busy[control] {
		return shared.ErrRequestInFlight
	}
	c.busy[control] = true
	return nil
}

func (c *Controller) end(control Control) {
	delete(c.busy, control)
}

// BeginGenres disables the genre fetch trigger.
func (c *Controller) BeginGenres() error {
	return c.begin(ControlGenres)
}

// FinishGenres installs the vocabulary, falling back to the defaults on failure.
func (c *Controller) FinishGenres(genres []string, err error) {
	defer c.end(ControlGenres)

	if fellBack := c.genres.SetVocabulary(genres, err); fellBack {
		c.logger.Warn("genre vocabulary unavailable, using defaults", "error", err)
		if err != nil {
			c.notes.Error(GenresFailedMessage)
		}
		return
	}
	c.logger.Debug("genre vocabulary loaded", "count", len(genres))
}

// LoadGenres fetches the genre vocabulary.
func (c *Controller) LoadGenres(ctx context.Context) error {
	if err := c.BeginGenres(); err != nil {
		return err
	}
	genres, err := c.backend.Genres(ctx)
	c.FinishGenres(genres, err)
	return err
}

// BeginSuggestions disables the suggestions fetch trigger.
func (c *Controller) BeginSuggestions() error {
	return c.begin(ControlSuggestions)
}

// FinishSuggestions stores filter suggestions. Failure is reported and leaves the list empty.
func (c *Controller) FinishSuggestions(suggestions []models.FilterSuggestion, err error) {
	defer c.end(ControlSuggestions)

	if err != nil {
		c.logger.Warn("filter suggestions unavailable", "error", err)
		c.suggestions = nil
		c.notes.Error(services.ErrorMessage(err, SuggestionsFailedMessage))
		return
	}
	c.suggestions = suggestions
}

// LoadSuggestions fetches filter suggestions.
func (c *Controller) LoadSuggestions(ctx context.Context) error {
	if err := c.BeginSuggestions(); err != nil {
		return err
	}
	suggestions, err := c.backend.FilterSuggestions(ctx)
	c.FinishSuggestions(suggestions, err)
	return err
}

// ApplySuggestion copies suggestion i onto the filter form.
func (c *Controller) ApplySuggestion(i int) bool {
	if i < 0 || i >= len(c.suggestions) {
		return false
	}
	s := c.suggestions[i]
	if !c.form.ApplySuggestion(s) {
		return false
	}
	c.notes.Info(fmt.Sprintf("Applied %s: %s", s.Filter, s.Extreme))
	return true
}

// BeginGenerate validates the form and enters Loading.
//
// A validation failure is notified and returned as a [*ValidationError]; no request should be sent.
func (c *Controller) BeginGenerate() (*models.FilterRequest, error) {
	if c.busy[ControlGenerate] {
		return nil, shared.ErrRequestInFlight
	}

	form := c.form
	if form.TagMode {
		form.GenreTags = c.genres.Tags()
	}

	req, err := BuildFilterRequest(form)
	if err != nil {
		c.notes.Error(err.Error())
		return nil, err
	}

	if err := c.recs.Begin(); err != nil {
		return nil, err
	}
	// The selection is about to be replaced, so a modal holding its URIs is dropped.
	c.save.Close()
	c.busy[ControlGenerate] = true
	c.logger.Info("requesting recommendations", "filters", Describe(req))
	return req, nil
}

// FinishGenerate replaces the result set and clears the selection, or records the failure.
func (c *Controller) FinishGenerate(tracks []models.Track, err error) {
	defer c.end(ControlGenerate)

	if err != nil {
		message := services.ErrorMessage(err, RecommendFallbackMessage)
		c.logger.Error("recommendation request failed", "error", err)
		c.recs.Fail(message)
		c.notes.Error(message)
		return
	}

	c.recs.Complete(tracks)
	c.selection.Reset(c.recs.URIs())
	c.logger.Info("recommendations received", "count", len(tracks))
}

// Generate validates the form, fetches recommendations and records the outcome.
func (c *Controller) Generate(ctx context.Context) error {
	req, err := c.BeginGenerate()
	if err != nil {
		return err
	}
	tracks, err := c.backend.Recommend(ctx, *req)
	c.FinishGenerate(tracks, err)
	return err
}

// ToggleTrack flips the selection of uri.
func (c *Controller) ToggleTrack(uri string) {
	c.selection.Toggle(uri)
}

// ToggleAll selects every track, or deselects every track when all are selected.
func (c *Controller) ToggleAll() {
	c.selection.ToggleAll()
}

// OpenSave opens the save modal for the selected tracks. With nothing selected, or no current
// result set, it notifies and stays closed. It is refused while recommendations are loading.
func (c *Controller) OpenSave() error {
	if c.recs.Loading() {
		return shared.ErrRequestInFlight
	}
	uris := c.selection.URIs()
	if !c.recs.ShowResults() {
		uris = nil
	}
	if err := c.save.Open(uris); err != nil {
		c.notes.Error(EmptySelectionMessage)
		return err
	}
	return nil
}

// CloseSave hides the save modal.
func (c *Controller) CloseSave() {
	c.save.Close()
}

// SwitchSaveMode changes the save modal mode and reports whether the playlist list must be fetched.
func (c *Controller) SwitchSaveMode(mode SaveMode) (bool, error) {
	return c.save.SwitchMode(mode)
}

// BeginPlaylists marks the playlist list as loading.
func (c *Controller) BeginPlaylists() error {
	if err := c.begin(ControlPlaylists); err != nil {
		return err
	}
	if err := c.save.BeginPlaylists(); err != nil {
		c.end(ControlPlaylists)
		return err
	}
	return nil
}

// FinishPlaylists fills the selector, or leaves it in the failed state.
func (c *Controller) FinishPlaylists(playlists []models.Playlist, err error) {
	defer c.end(ControlPlaylists)

	c.save.FinishPlaylists(playlists, err)
	if err != nil {
		c.logger.Warn("playlist list unavailable", "error", err)
		c.notes.Error(services.ErrorMessage(err, PlaylistsFailedLabel))
	}
}

// LoadPlaylists fetches the user's playlists for the existing-playlist selector.
func (c *Controller) LoadPlaylists(ctx context.Context) error {
	if err := c.BeginPlaylists(); err != nil {
		return err
	}
	playlists, err := c.backend.UserPlaylists(ctx)
	c.FinishPlaylists(playlists, err)
	return err
}

// BeginSave validates the save modal and disables its submit control.
func (c *Controller) BeginSave() (*models.PlaylistSaveRequest, error) {
	if c.busy[ControlSave] {
		return nil, shared.ErrRequestInFlight
	}

	req, err := c.save.Submit()
	if err != nil {
		var verr *ValidationError
		if errors.As(err, &verr) {
			c.notes.Error(verr.Message)
		}
		return nil, err
	}

	c.busy[ControlSave] = true
	return req, nil
}

// ExecuteSave sends req to the backend.
func ExecuteSave(ctx context.Context, backend Backend, req *models.PlaylistSaveRequest) (SaveResult, error) {
	switch target := req.Target.(type) {
	case models.NewPlaylist:
		created, err := backend.CreatePlaylist(ctx, target.Name, req.TrackURIs)
		return SaveResult{Created: created}, err
	case models.ExistingPlaylist:
		updated, err := backend.AddToPlaylist(ctx, target.ID, req.TrackURIs)
		return SaveResult{Updated: updated}, err
	default:
		return SaveResult{}, fmt.Errorf("%w: unknown save target %T", shared.ErrInvalidArgument, req.Target)
	}
}

// FinishSave reports the outcome of a save and closes the modal per its close policy.
//
// A created playlist's external link is opened when one is returned.
func (c *Controller) FinishSave(req *models.PlaylistSaveRequest, result SaveResult, err error) {
	defer c.end(ControlSave)

	c.save.Finish(err == nil)

	_, creating := req.Target.(models.NewPlaylist)
	if err != nil {
		fallback := AddFallbackMessage
		if creating {
			fallback = CreateFallbackMessage
		}
		c.logger.Error("playlist save failed", "error", err, "tracks", len(req.TrackURIs))
		c.notes.Error(services.ErrorMessage(err, fallback))
		return
	}

	switch {
	case result.Created != nil:
		c.notes.Success(CreatedMessage(result.Created))
		c.logger.Info("playlist created", "name", result.Created.Name, "tracks", result.Created.TrackCount)
		if result.Created.ExternalURL != "" && c.openURL != nil {
			if err := c.openURL(result.Created.ExternalURL); err != nil {
				c.logger.Warn("failed to open playlist link", "url", result.Created.ExternalURL, "error", err)
			}
		}
	case result.Updated != nil:
		c.notes.Success(AddedMessage(result.Updated))
		c.logger.Info("tracks added to playlist", "tracks", result.Updated.TrackCount)
	}
}

// Save submits the save modal.
func (c *Controller) Save(ctx context.Context) (SaveResult, error) {
	req, err := c.BeginSave()
	if err != nil {
		return SaveResult{}, err
	}
	result, err := ExecuteSave(ctx, c.backend, req)
	c.FinishSave(req, result, err)
	return result, err
}

// BeginFeedback validates the feedback form and disables its submit control.
func (c *Controller) BeginFeedback() (*models.Feedback, error) {
	if c.busy[ControlFeedback] {
		return nil, shared.ErrRequestInFlight
	}

	feedback, err := c.feedback.Validate()
	if err != nil {
		c.notes.Error(err.Error())
		return nil, err
	}

	c.busy[ControlFeedback] = true
	return feedback, nil
}

// StoreFeedback writes feedback to store. A nil store accepts everything.
func StoreFeedback(store FeedbackStore, feedback *models.Feedback) error {
	if store == nil {
		return nil
	}
	return store.Create(feedback)
}

// FinishFeedback reports the outcome and clears the comments on success.
func (c *Controller) FinishFeedback(err error) {
	defer c.end(ControlFeedback)

	if err != nil {
		c.logger.Error("failed to store feedback", "error", err)
		c.notes.Error(FeedbackFailedMessage)
		return
	}
	c.feedback.Comments = ""
	c.notes.Success(FeedbackThanksMessage)
}

// SubmitFeedback validates and stores the feedback form.
func (c *Controller) SubmitFeedback(ctx context.Context) error {
	feedback, err := c.BeginFeedback()
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		c.FinishFeedback(err)
		return err
	}
	err = StoreFeedback(c.store, feedback)
	c.FinishFeedback(err)
	return err
}

// Store returns the feedback store.
func (c *Controller) Store() FeedbackStore { return c.store }
