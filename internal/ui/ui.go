package ui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/crate/internal/dashboard"
	"github.com/desertthunder/crate/internal/models"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	FilterView ViewState = iota
	ResultsView
	SaveView
	FeedbackView
)

// field indexes the filter form inputs in display order.
type field int

const (
	fieldCount field = iota
	fieldDiscovery
	fieldMinYear
	fieldMaxPopularity
	fieldTargetTempo
	fieldTempo
	fieldTargetEnergy
	fieldEnergy
	fieldGenres
	fieldMoods
	numFields
)

var fieldLabels = [numFields]string{
	"Tracks (1-50)",
	"Discovery (0-100)",
	"Min year (1900-2025)",
	"Max popularity (0-100)",
	"Target tempo (40-200 BPM)",
	"Tempo (low/medium/high)",
	"Target energy (0-100)",
	"Energy (low/medium/high)",
	"Genres",
	"Moods",
}

// Model represents the TUI application state.
//
// All dashboard state lives in the controller; Model owns only widgets and focus.
// Backend calls run inside commands and report back through [Msg].
type Model struct {
	ctx        context.Context
	controller *dashboard.Controller
	openURL    func(string) error

	view          ViewState
	returnTo      ViewState
	width         int
	height        int
	inputs        []textinput.Model
	focus         field
	cursor        int
	suggestion    int
	nameInput     textinput.Model
	playlistList  list.Model
	ratingInput   textinput.Model
	commentsInput textinput.Model
	feedbackFocus int
	spinner       spinner.Model
	scheduled     int
	help          help.Model
	keys          keyMap
}

// NewModel creates a new TUI model driving controller. openURL opens track previews; nil disables them.
func NewModel(ctx context.Context, controller *dashboard.Controller, openURL func(string) error) *Model {
	m := &Model{
		ctx:        ctx,
		controller: controller,
		openURL:    openURL,
		view:       FilterView,
		inputs:     make([]textinput.Model, numFields),
		help:       help.New(),
		keys:       newKeyMap(),
	}

	for i := range m.inputs {
		in := textinput.New()
		in.Prompt = ""
		in.Width = 40
		m.inputs[i] = in
	}
	m.inputs[fieldTempo].Placeholder = "any"
	m.inputs[fieldEnergy].Placeholder = "any"
	m.inputs[fieldGenres].Placeholder = "start typing a genre"
	m.inputs[fieldMoods].Placeholder = "happy, chill"
	m.pullForm()
	m.inputs[fieldCount].Focus()

	m.nameInput = textinput.New()
	m.nameInput.Prompt = "Name: "
	m.nameInput.Width = 40

	m.ratingInput = textinput.New()
	m.ratingInput.Prompt = "Rating (1-5): "
	m.ratingInput.CharLimit = 1

	m.commentsInput = textinput.New()
	m.commentsInput.Prompt = "Comments: "
	m.commentsInput.Width = 60

	m.playlistList = newPlaylistList(nil, "", 0, 0)

	m.spinner = spinner.New()
	m.spinner.Spinner = spinner.Dot
	m.spinner.Style = styles.selected

	return m
}

// Init loads the genre vocabulary and filter suggestions.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.loadGenres(), m.loadSuggestions())
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	cmd := m.update(msg)
	return m, tea.Batch(cmd, m.scheduleExpiry())
}

func (m *Model) update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.playlistList.SetSize(m.listSize())
		return nil

	case spinner.TickMsg:
		if !m.busy() {
			return nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return cmd

	case Msg:
		return m.handleMsg(msg)

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return tea.Quit
		}
		switch m.view {
		case FilterView:
			return m.handleFilterKeys(msg)
		case ResultsView:
			return m.handleResultsKeys(msg)
		case SaveView:
			return m.handleSaveKeys(msg)
		case FeedbackView:
			return m.handleFeedbackKeys(msg)
		}
	}

	return m.updateInputs(msg)
}

func (m *Model) handleMsg(msg Msg) tea.Cmd {
	c := m.controller

	switch msg.kind {
	case MsgGenresLoaded:
		r := msg.data.(fetched[[]string])
		c.FinishGenres(r.value, r.err)

	case MsgSuggestionsLoaded:
		r := msg.data.(fetched[[]models.FilterSuggestion])
		c.FinishSuggestions(r.value, r.err)

	case MsgRecommendations:
		r := msg.data.(fetched[[]models.Track])
		c.FinishGenerate(r.value, r.err)
		if r.err == nil {
			m.cursor = 0
			m.view = ResultsView
		}

	case MsgPlaylistsLoaded:
		r := msg.data.(fetched[[]models.Playlist])
		c.FinishPlaylists(r.value, r.err)
		save := c.SaveWorkflow()
		width, height := m.listSize()
		m.playlistList = newPlaylistList(save.Playlists(), save.PlaylistID(), width, height)

	case MsgSaveFinished:
		r := msg.data.(saveOutcome)
		c.FinishSave(r.req, r.result, r.err)
		if m.view == SaveView && !c.SaveWorkflow().Visible() {
			m.view = ResultsView
		}

	case MsgFeedbackStored:
		err, _ := msg.data.(error)
		c.FinishFeedback(err)
		if err == nil {
			m.commentsInput.SetValue("")
			m.ratingInput.SetValue("")
			m.view = m.returnTo
		}

	case MsgNotificationExpired:
		c.Notifier().Expire(msg.data.(int))

	case MsgBlurExpired:
		c.Genres().ExpireBlur(msg.data.(int))
	}
	return nil
}

// scheduleExpiry starts one timer per notification raised since the last call.
func (m *Model) scheduleExpiry() tea.Cmd {
	var cmds []tea.Cmd
	for _, n := range m.controller.Notifier().Active() {
		if n.ID <= m.scheduled {
			continue
		}
		m.scheduled = n.ID
		id := n.ID
		cmds = append(cmds, tea.Tick(n.ExpiresAt.Sub(n.CreatedAt), func(time.Time) tea.Msg {
			return notificationExpiredMsg(id)
		}))
	}
	return tea.Batch(cmds...)
}

// listSize fits the playlist picker inside the save modal.
func (m *Model) listSize() (int, int) {
	return max(m.width-8, 40), max(m.height/2, 8)
}

func (m *Model) busy() bool {
	c := m.controller
	return c.Busy(dashboard.ControlGenerate) || c.Busy(dashboard.ControlSave) ||
		c.Busy(dashboard.ControlPlaylists) || c.Busy(dashboard.ControlFeedback)
}

func (m *Model) updateInputs(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch m.view {
	case FilterView:
		m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
		if m.focus == fieldGenres {
			m.controller.Genres().SetText(m.inputs[fieldGenres].Value())
		}
	case SaveView:
		if m.controller.SaveWorkflow().Mode() == dashboard.ModeExisting {
			m.playlistList, cmd = m.playlistList.Update(msg)
			if id, ok := selectedPlaylistID(m.playlistList); ok {
				m.controller.SaveWorkflow().SelectPlaylist(id)
			}
			return cmd
		}
		m.nameInput, cmd = m.nameInput.Update(msg)
		m.controller.SaveWorkflow().SetName(m.nameInput.Value())
	case FeedbackView:
		if m.feedbackFocus == 0 {
			m.ratingInput, cmd = m.ratingInput.Update(msg)
		} else {
			m.commentsInput, cmd = m.commentsInput.Update(msg)
		}
	}
	return cmd
}

// pushForm copies the widget values into the controller.
func (m *Model) pushForm() {
	v := func(f field) string { return m.inputs[f].Value() }
	m.controller.SetForm(dashboard.FilterForm{
		Count:          v(fieldCount),
		DiscoveryLevel: v(fieldDiscovery),
		MinYear:        v(fieldMinYear),
		MaxPopularity:  v(fieldMaxPopularity),
		TargetTempo:    v(fieldTargetTempo),
		Tempo:          v(fieldTempo),
		TargetEnergy:   v(fieldTargetEnergy),
		Energy:         v(fieldEnergy),
		Genres:         m.controller.Genres().Text(),
		Moods:          v(fieldMoods),
	})
}

// pullForm copies the controller's form into the widgets.
func (m *Model) pullForm() {
	form := m.controller.Form()
	values := map[field]string{
		fieldCount:         form.Count,
		fieldDiscovery:     form.DiscoveryLevel,
		fieldMinYear:       form.MinYear,
		fieldMaxPopularity: form.MaxPopularity,
		fieldTargetTempo:   form.TargetTempo,
		fieldTempo:         form.Tempo,
		fieldTargetEnergy:  form.TargetEnergy,
		fieldEnergy:        form.Energy,
		fieldMoods:         form.Moods,
	}
	for f, v := range values {
		m.inputs[f].SetValue(v)
	}
}

func (m *Model) setFocus(f field) tea.Cmd {
	if f == m.focus {
		return nil
	}

	var cmds []tea.Cmd
	if m.focus == fieldGenres {
		token := m.controller.Genres().Blur()
		cmds = append(cmds, tea.Tick(dashboard.BlurGrace, func(time.Time) tea.Msg {
			return blurExpiredMsg(token)
		}))
	}

	m.inputs[m.focus].Blur()
	m.focus = f
	if f == fieldGenres {
		m.controller.Genres().Focus()
	}
	cmds = append(cmds, m.inputs[f].Focus())
	return tea.Batch(cmds...)
}

func (m *Model) handleFilterKeys(msg tea.KeyMsg) tea.Cmd {
	if m.focus == fieldGenres {
		if m.handleGenreKeys(msg) {
			return nil
		}
	}

	switch msg.String() {
	case "tab", "down":
		return m.setFocus((m.focus + 1) % numFields)
	case "shift+tab", "up":
		return m.setFocus((m.focus + numFields - 1) % numFields)
	case "enter":
		return m.generate()
	case "ctrl+p":
		m.applyNextSuggestion()
		return nil
	case "ctrl+r":
		if recs := m.controller.Recommendations(); recs.ShowResults() || recs.ShowEmpty() {
			m.view = ResultsView
		}
		return nil
	case "ctrl+f":
		return m.openFeedback()
	}

	return m.updateInputs(msg)
}

// handleGenreKeys handles suggestion navigation and tag editing in the genre field.
func (m *Model) handleGenreKeys(msg tea.KeyMsg) bool {
	g := m.controller.Genres()
	showing := g.Suggestions() != nil

	switch msg.String() {
	case "tab", "enter":
		if !showing || !g.AcceptHighlighted() {
			return false
		}
		m.inputs[fieldGenres].SetValue(g.Text())
		m.inputs[fieldGenres].CursorEnd()
		return true
	case "up":
		if showing {
			g.MoveCursor(-1)
		}
		return showing
	case "down":
		if showing {
			g.MoveCursor(1)
		}
		return showing
	case "backspace":
		if g.TagMode() && g.Text() == "" {
			g.Backspace()
			return true
		}
	}
	return false
}

func (m *Model) applyNextSuggestion() {
	suggestions := m.controller.Suggestions()
	if len(suggestions) == 0 {
		return
	}
	m.pushForm()
	m.controller.ApplySuggestion(m.suggestion % len(suggestions))
	m.suggestion++
	m.pullForm()
}

func (m *Model) handleResultsKeys(msg tea.KeyMsg) tea.Cmd {
	c := m.controller
	recs := c.Recommendations()
	tracks := recs.Tracks()

	switch msg.String() {
	case "q":
		return tea.Quit
	case "esc", "e":
		m.view = FilterView
		return nil
	case "f", "ctrl+f":
		return m.openFeedback()
	}
	if !recs.ShowResults() {
		return nil
	}

	switch msg.String() {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(tracks)-1 {
			m.cursor++
		}
	case " ", "x":
		if m.cursor < len(tracks) {
			c.ToggleTrack(tracks[m.cursor].URI)
		}
	case "a":
		c.ToggleAll()
	case "s":
		if err := c.OpenSave(); err != nil {
			return nil
		}
		m.view = SaveView
		m.nameInput.SetValue(c.SaveWorkflow().Name())
		m.nameInput.CursorEnd()
		return m.nameInput.Focus()
	case "p":
		m.openPreview(tracks)
	}
	return nil
}

func (m *Model) openPreview(tracks []models.Track) {
	if m.openURL == nil || m.cursor >= len(tracks) {
		return
	}
	url := tracks[m.cursor].PreviewURL
	if url == "" {
		m.controller.Notify(dashboard.LevelInfo, "No preview available for this track.")
		return
	}
	if err := m.openURL(url); err != nil {
		m.controller.Notify(dashboard.LevelError, "Failed to open preview.")
	}
}

func (m *Model) handleSaveKeys(msg tea.KeyMsg) tea.Cmd {
	c := m.controller
	save := c.SaveWorkflow()

	switch msg.String() {
	case "esc":
		if save.State() == dashboard.SaveSubmitting {
			return nil
		}
		c.CloseSave()
		m.view = ResultsView
		return nil
	case "tab":
		mode := dashboard.ModeExisting
		if save.Mode() == dashboard.ModeExisting {
			mode = dashboard.ModeNew
		}
		needsFetch, err := c.SwitchSaveMode(mode)
		if err != nil {
			return nil
		}
		if mode == dashboard.ModeNew {
			return m.nameInput.Focus()
		}
		m.nameInput.Blur()
		if needsFetch {
			return m.loadPlaylists()
		}
		return nil
	case "enter":
		return m.save()
	}

	return m.updateInputs(msg)
}

func (m *Model) handleFeedbackKeys(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc":
		m.view = m.returnTo
		return nil
	case "tab", "shift+tab":
		m.feedbackFocus = 1 - m.feedbackFocus
		if m.feedbackFocus == 0 {
			m.commentsInput.Blur()
			return m.ratingInput.Focus()
		}
		m.ratingInput.Blur()
		return m.commentsInput.Focus()
	case "enter":
		return m.submitFeedback()
	}
	return m.updateInputs(msg)
}

func (m *Model) openFeedback() tea.Cmd {
	m.returnTo = m.view
	m.view = FeedbackView
	m.feedbackFocus = 0
	m.commentsInput.Blur()
	return m.ratingInput.Focus()
}

func (m *Model) loadGenres() tea.Cmd {
	if err := m.controller.BeginGenres(); err != nil {
		return nil
	}
	ctx, backend := m.ctx, m.controller.Backend()
	return func() tea.Msg {
		genres, err := backend.Genres(ctx)
		return genresLoadedMsg(genres, err)
	}
}

func (m *Model) loadSuggestions() tea.Cmd {
	if err := m.controller.BeginSuggestions(); err != nil {
		return nil
	}
	ctx, backend := m.ctx, m.controller.Backend()
	return func() tea.Msg {
		suggestions, err := backend.FilterSuggestions(ctx)
		return suggestionsLoadedMsg(suggestions, err)
	}
}

func (m *Model) generate() tea.Cmd {
	m.pushForm()
	req, err := m.controller.BeginGenerate()
	if err != nil {
		return nil
	}
	ctx, backend := m.ctx, m.controller.Backend()
	return tea.Batch(m.spinner.Tick, func() tea.Msg {
		tracks, err := backend.Recommend(ctx, *req)
		return recommendationsMsg(tracks, err)
	})
}

func (m *Model) loadPlaylists() tea.Cmd {
	if err := m.controller.BeginPlaylists(); err != nil {
		return nil
	}
	ctx, backend := m.ctx, m.controller.Backend()
	return tea.Batch(m.spinner.Tick, func() tea.Msg {
		playlists, err := backend.UserPlaylists(ctx)
		return playlistsLoadedMsg(playlists, err)
	})
}

func (m *Model) save() tea.Cmd {
	c := m.controller
	if c.SaveWorkflow().Mode() == dashboard.ModeNew {
		c.SaveWorkflow().SetName(m.nameInput.Value())
	}
	req, err := c.BeginSave()
	if err != nil {
		return nil
	}
	ctx, backend := m.ctx, c.Backend()
	return tea.Batch(m.spinner.Tick, func() tea.Msg {
		result, err := dashboard.ExecuteSave(ctx, backend, req)
		return saveFinishedMsg(req, result, err)
	})
}

func (m *Model) submitFeedback() tea.Cmd {
	c := m.controller
	c.SetFeedback(dashboard.FeedbackForm{Rating: m.ratingInput.Value(), Comments: m.commentsInput.Value()})
	feedback, err := c.BeginFeedback()
	if err != nil {
		return nil
	}
	store := c.Store()
	return func() tea.Msg {
		return feedbackStoredMsg(dashboard.StoreFeedback(store, feedback))
	}
}
