package dashboard

import (
	"context"
	"errors"
	"net/http"
	"reflect"
	"testing"

	"github.com/desertthunder/crate/internal/models"
	"github.com/desertthunder/crate/internal/services"
	"github.com/desertthunder/crate/internal/shared"
	tu "github.com/desertthunder/crate/internal/testing"
)

type memoryStore struct {
	saved []*models.Feedback
	err   error
}

func (m *memoryStore) Create(f *models.Feedback) error {
	if m.err != nil {
		return m.err
	}
	m.saved = append(m.saved, f)
	return nil
}

func newController(t *testing.T, state tu.BackendState, opts Options) (*Controller, *tu.Backend) {
	t.Helper()
	backend := tu.NewBackend(t, state)
	if opts.Config.Count == 0 {
		opts.Config = shared.DefaultConfig().Dashboard
	}
	return NewController(services.NewClient(backend.URL(), nil), nil, opts), backend
}

func lastMessage(t *testing.T, c *Controller) string {
	t.Helper()
	n, ok := c.Notifier().Latest()
	if !ok {
		t.Fatal("expected a notification")
	}
	return n.Message
}

func TestControllerGenerate(t *testing.T) {
	ctx := context.Background()

	t.Run("Invalid Count Issues No Request", func(t *testing.T) {
		c, backend := newController(t, tu.BackendState{Tracks: tracksABC()}, Options{})
		form := c.Form()
		form.Count = "51"
		c.SetForm(form)

		err := c.Generate(ctx)
		var verr *ValidationError
		if !errors.As(err, &verr) || verr.Max != 50 {
			t.Fatalf("expected count validation error, got %v", err)
		}
		if backend.Total() != 0 {
			t.Errorf("expected no backend calls, got %d", backend.Total())
		}
		if got := lastMessage(t, c); got != "Please enter a valid number of tracks (1-50)." {
			t.Errorf("unexpected notification %q", got)
		}
		if c.Recommendations().Phase() != PhaseIdle {
			t.Errorf("validation failure must not leave idle, got %v", c.Recommendations().Phase())
		}
	})

	t.Run("Success Starts With Empty Selection", func(t *testing.T) {
		c, backend := newController(t, tu.BackendState{Tracks: tracksABC(), WrapTracks: true}, Options{})

		if err := c.Generate(ctx); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if backend.Calls(tu.RecommendationsPath) != 1 {
			t.Errorf("expected one request, got %d", backend.Calls(tu.RecommendationsPath))
		}
		if c.Selection().Len() != 0 || c.Recommendations().Phase() != PhaseSuccess {
			t.Fatalf("expected success with empty selection, got %v %d", c.Recommendations().Phase(), c.Selection().Len())
		}
		if c.Busy(ControlGenerate) {
			t.Error("generate control should be re-enabled")
		}

		c.ToggleTrack("A")
		c.ToggleAll()
		if !reflect.DeepEqual(c.Selection().URIs(), []string{"A", "B", "C"}) || c.Selection().Label() != DeselectAllLabel {
			t.Errorf("expected all selected, got %v", c.Selection().URIs())
		}
		c.ToggleAll()
		if c.Selection().Len() != 0 || c.Selection().Label() != SelectAllLabel {
			t.Errorf("expected none selected, got %v", c.Selection().URIs())
		}
	})

	t.Run("Server Error Shown Verbatim", func(t *testing.T) {
		c, _ := newController(t, tu.BackendState{
			RecommendFailure: &tu.Failure{Status: http.StatusUnauthorized, Message: "Token expired. Please log in again."},
		}, Options{})

		err := c.Generate(ctx)
		if !errors.Is(err, shared.ErrNotAuthenticated) {
			t.Errorf("expected ErrNotAuthenticated, got %v", err)
		}
		if c.Recommendations().Phase() != PhaseFailed || c.Recommendations().ErrorMessage() != "Token expired. Please log in again." {
			t.Errorf("unexpected state %v %q", c.Recommendations().Phase(), c.Recommendations().ErrorMessage())
		}
		if got := lastMessage(t, c); got != "Token expired. Please log in again." {
			t.Errorf("unexpected notification %q", got)
		}
	})

	t.Run("Error Without Message Uses Fallback", func(t *testing.T) {
		c, _ := newController(t, tu.BackendState{RecommendFailure: &tu.Failure{Status: http.StatusInternalServerError}}, Options{})

		_ = c.Generate(ctx)
		if c.Recommendations().ErrorMessage() != RecommendFallbackMessage {
			t.Errorf("expected fallback, got %q", c.Recommendations().ErrorMessage())
		}
	})

	t.Run("Second Generate While Loading", func(t *testing.T) {
		c, _ := newController(t, tu.BackendState{}, Options{})

		if _, err := c.BeginGenerate(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !c.Busy(ControlGenerate) {
			t.Error("generate control should be disabled while loading")
		}
		if _, err := c.BeginGenerate(); !errors.Is(err, shared.ErrRequestInFlight) {
			t.Errorf("expected ErrRequestInFlight, got %v", err)
		}
		c.FinishGenerate(nil, nil)
		if c.Recommendations().Phase() != PhaseEmpty {
			t.Errorf("expected empty phase, got %v", c.Recommendations().Phase())
		}
	})

	t.Run("Tag Mode Sends Tags", func(t *testing.T) {
		c, backend := newController(t, tu.BackendState{Genres: []string{"rock", "jazz"}}, Options{TagMode: true})

		if err := c.LoadGenres(ctx); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		c.Genres().Accept("jazz")
		if err := c.Generate(ctx); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		sent := backend.LastFilters()
		if sent == nil || !reflect.DeepEqual(sent.Genres, []string{"jazz"}) {
			t.Errorf("expected [jazz] to be sent, got %+v", sent)
		}
	})
}

func TestControllerLoads(t *testing.T) {
	ctx := context.Background()

	t.Run("Genre Failure Falls Back", func(t *testing.T) {
		c, _ := newController(t, tu.BackendState{GenresFailure: &tu.Failure{Status: http.StatusInternalServerError, Message: "Failed to fetch genres from Spotify"}}, Options{})

		if err := c.LoadGenres(ctx); err == nil {
			t.Fatal("expected error to be returned")
		}
		if !reflect.DeepEqual(c.Genres().Vocabulary(), DefaultGenres) {
			t.Error("expected default vocabulary")
		}
		if got := lastMessage(t, c); got != GenresFailedMessage {
			t.Errorf("unexpected notification %q", got)
		}
		if c.Busy(ControlGenres) {
			t.Error("genres control should be re-enabled")
		}
	})

	t.Run("Suggestions", func(t *testing.T) {
		c, _ := newController(t, tu.BackendState{Suggestions: []models.FilterSuggestion{{Filter: "energy", Extreme: "high"}}}, Options{})

		if err := c.LoadSuggestions(ctx); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !c.ApplySuggestion(0) || c.Form().Energy != "high" {
			t.Errorf("expected suggestion to apply, got %q", c.Form().Energy)
		}
		if c.ApplySuggestion(3) {
			t.Error("out of range suggestion should not apply")
		}
	})

	t.Run("Suggestions Failure Is Non Fatal", func(t *testing.T) {
		c, _ := newController(t, tu.BackendState{SuggestionsFailure: &tu.Failure{Status: http.StatusBadGateway}}, Options{})

		_ = c.LoadSuggestions(ctx)
		if len(c.Suggestions()) != 0 {
			t.Error("expected no suggestions")
		}
		if got := lastMessage(t, c); got != SuggestionsFailedMessage {
			t.Errorf("unexpected notification %q", got)
		}
	})
}

func TestControllerSave(t *testing.T) {
	ctx := context.Background()

	generate := func(t *testing.T, c *Controller) {
		t.Helper()
		if err := c.Generate(ctx); err != nil {
			t.Fatalf("generate failed: %v", err)
		}
	}

	t.Run("Empty Selection Does Not Open", func(t *testing.T) {
		c, backend := newController(t, tu.BackendState{Tracks: tracksABC()}, Options{})
		generate(t, c)

		if err := c.OpenSave(); !errors.Is(err, shared.ErrEmptySelection) {
			t.Errorf("expected ErrEmptySelection, got %v", err)
		}
		if c.SaveWorkflow().Visible() {
			t.Error("save modal must not open")
		}
		if got := lastMessage(t, c); got != EmptySelectionMessage {
			t.Errorf("unexpected notification %q", got)
		}
		if backend.Calls(tu.CreatePlaylistPath) != 0 {
			t.Error("no save request expected")
		}
	})

	t.Run("Create And Open Link", func(t *testing.T) {
		var opened string
		c, backend := newController(t, tu.BackendState{Tracks: tracksABC(), ExternalURL: "https://open.example/p/1"}, Options{
			OpenURL: func(u string) error { opened = u; return nil },
		})
		generate(t, c)
		c.ToggleTrack("B")
		c.ToggleTrack("C")

		if err := c.OpenSave(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		c.SaveWorkflow().SetName("Road Trip")

		result, err := c.Save(ctx)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.Created == nil || result.Created.TrackCount != 2 {
			t.Errorf("unexpected result %+v", result)
		}
		if call := backend.LastSave(); call == nil || !reflect.DeepEqual(call.TrackURIs, []string{"B", "C"}) {
			t.Errorf("unexpected save call %+v", call)
		}
		if got := lastMessage(t, c); got != `Playlist "Road Trip" created successfully with 2 tracks!` {
			t.Errorf("unexpected notification %q", got)
		}
		if opened != "https://open.example/p/1" {
			t.Errorf("expected external link to be opened, got %q", opened)
		}
		if c.SaveWorkflow().Visible() || c.Busy(ControlSave) {
			t.Error("modal should close and save control re-enable after success")
		}
	})

	t.Run("Failure Keeps Modal Open", func(t *testing.T) {
		c, _ := newController(t, tu.BackendState{
			Tracks:        tracksABC(),
			CreateFailure: &tu.Failure{Status: http.StatusBadRequest, Message: "Playlist name must not exceed 100 characters"},
		}, Options{})
		generate(t, c)
		c.ToggleAll()
		_ = c.OpenSave()

		if _, err := c.Save(ctx); err == nil {
			t.Fatal("expected error")
		}
		if got := lastMessage(t, c); got != "Playlist name must not exceed 100 characters" {
			t.Errorf("unexpected notification %q", got)
		}
		if !c.SaveWorkflow().Visible() || c.SaveWorkflow().State() != SaveOpen {
			t.Error("modal should stay open after failure by default")
		}
	})

	t.Run("Failure With Close On Submit", func(t *testing.T) {
		cfg := shared.DefaultConfig().Dashboard
		cfg.CloseSaveOnSubmit = true
		c, _ := newController(t, tu.BackendState{Tracks: tracksABC(), CreateFailure: &tu.Failure{Status: http.StatusInternalServerError}}, Options{Config: cfg})
		generate(t, c)
		c.ToggleAll()
		_ = c.OpenSave()

		_, _ = c.Save(ctx)
		if c.SaveWorkflow().Visible() {
			t.Error("modal should be closed under close-on-submit")
		}
		if got := lastMessage(t, c); got != CreateFallbackMessage {
			t.Errorf("unexpected notification %q", got)
		}
	})

	t.Run("Add To Existing", func(t *testing.T) {
		c, backend := newController(t, tu.BackendState{
			Tracks:    tracksABC(),
			Playlists: []models.Playlist{{ID: "p1", Name: "Mix", TrackCount: 1}},
		}, Options{})
		generate(t, c)
		c.ToggleTrack("A")
		_ = c.OpenSave()

		needs, err := c.SwitchSaveMode(ModeExisting)
		if err != nil || !needs {
			t.Fatalf("expected fetch to be needed, got %v %v", needs, err)
		}
		if err := c.LoadPlaylists(ctx); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if _, err := c.Save(ctx); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if call := backend.LastSave(); call == nil || call.PlaylistID != "p1" {
			t.Errorf("unexpected save call %+v", call)
		}
		if got := lastMessage(t, c); got != "Added 1 tracks to the playlist!" {
			t.Errorf("unexpected notification %q", got)
		}
	})

	t.Run("Reopen Refetches Playlists", func(t *testing.T) {
		c, backend := newController(t, tu.BackendState{
			Tracks:    tracksABC(),
			Playlists: []models.Playlist{{ID: "p1", Name: "Mix", TrackCount: 1}},
		}, Options{})
		generate(t, c)
		c.ToggleTrack("A")
		_ = c.OpenSave()
		_, _ = c.SwitchSaveMode(ModeExisting)
		if err := c.LoadPlaylists(ctx); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		c.CloseSave()

		backend.Update(func(s *tu.BackendState) {
			s.Playlists = append(s.Playlists, models.Playlist{ID: "p2", Name: "Road Trip", TrackCount: 1})
		})
		_ = c.OpenSave()
		needs, err := c.SwitchSaveMode(ModeExisting)
		if err != nil || !needs {
			t.Fatalf("expected a fresh fetch after reopening, got %v %v", needs, err)
		}
		if err := c.LoadPlaylists(ctx); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got := len(c.SaveWorkflow().Playlists()); got != 2 {
			t.Errorf("expected the new playlist in the list, got %d playlists", got)
		}
		if backend.Calls(tu.UserPlaylistsPath) != 2 {
			t.Errorf("expected two playlist fetches, got %d", backend.Calls(tu.UserPlaylistsPath))
		}
	})

	t.Run("Regenerate Drops Open Modal", func(t *testing.T) {
		c, _ := newController(t, tu.BackendState{Tracks: tracksABC()}, Options{})
		generate(t, c)
		c.ToggleTrack("A")
		if err := c.OpenSave(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if _, err := c.BeginGenerate(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if c.SaveWorkflow().Visible() {
			t.Error("starting a new generate should close the save modal")
		}
		if err := c.OpenSave(); !errors.Is(err, shared.ErrRequestInFlight) {
			t.Errorf("expected ErrRequestInFlight while loading, got %v", err)
		}
		if c.SaveWorkflow().Visible() {
			t.Error("save modal must not open while loading")
		}

		c.FinishGenerate(nil, errors.New("model offline"))
		if err := c.OpenSave(); !errors.Is(err, shared.ErrEmptySelection) {
			t.Errorf("expected ErrEmptySelection after a failed generate, got %v", err)
		}
		if c.SaveWorkflow().Visible() {
			t.Error("save modal must not open over a failed result set")
		}
	})

	t.Run("Playlist List Failure", func(t *testing.T) {
		c, _ := newController(t, tu.BackendState{Tracks: tracksABC(), PlaylistsFailure: &tu.Failure{Status: http.StatusInternalServerError}}, Options{})
		generate(t, c)
		c.ToggleTrack("A")
		_ = c.OpenSave()
		_, _ = c.SwitchSaveMode(ModeExisting)

		_ = c.LoadPlaylists(ctx)
		if c.SaveWorkflow().ListState() != ListFailed {
			t.Errorf("expected failed list state, got %v", c.SaveWorkflow().ListState())
		}
		if !c.SaveWorkflow().Visible() {
			t.Error("list failure must not close the modal")
		}

		_, err := c.Save(ctx)
		var verr *ValidationError
		if !errors.As(err, &verr) || verr.Message != MissingPlaylistMessage {
			t.Errorf("expected missing playlist error, got %v", err)
		}
	})
}

func TestControllerFeedback(t *testing.T) {
	ctx := context.Background()

	t.Run("Stores And Clears Comments", func(t *testing.T) {
		store := &memoryStore{}
		c := NewController(nil, store, Options{Config: shared.DefaultConfig().Dashboard})
		c.SetFeedback(FeedbackForm{Rating: "4", Comments: "nice picks"})

		if err := c.SubmitFeedback(ctx); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(store.saved) != 1 || store.saved[0].Rating() != 4 {
			t.Errorf("unexpected stored feedback %+v", store.saved)
		}
		if c.Feedback().Comments != "" || c.Feedback().Rating != "4" {
			t.Errorf("expected comments cleared and rating kept, got %+v", c.Feedback())
		}
		if got := lastMessage(t, c); got != FeedbackThanksMessage {
			t.Errorf("unexpected notification %q", got)
		}
	})

	t.Run("Invalid Rating", func(t *testing.T) {
		store := &memoryStore{}
		c := NewController(nil, store, Options{})
		c.SetFeedback(FeedbackForm{Rating: "9"})

		if err := c.SubmitFeedback(ctx); err == nil {
			t.Fatal("expected error")
		}
		if len(store.saved) != 0 {
			t.Error("invalid feedback must not be stored")
		}
		if got := lastMessage(t, c); got != InvalidRatingMessage {
			t.Errorf("unexpected notification %q", got)
		}
	})

	t.Run("Store Failure", func(t *testing.T) {
		c := NewController(nil, &memoryStore{err: errors.New("disk full")}, Options{})
		c.SetFeedback(FeedbackForm{Rating: "2", Comments: "keep me"})

		if err := c.SubmitFeedback(ctx); err == nil {
			t.Fatal("expected error")
		}
		if c.Feedback().Comments != "keep me" {
			t.Error("comments should be kept after a failure")
		}
		if c.Busy(ControlFeedback) {
			t.Error("feedback control should be re-enabled")
		}
	})
}
