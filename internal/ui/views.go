package ui

import (
	"fmt"
	"strings"

	"github.com/desertthunder/crate/internal/dashboard"
)

// View renders the UI based on the current view state.
func (m *Model) View() string {
	var body string
	switch m.view {
	case FilterView:
		body = m.renderFilters()
	case ResultsView:
		body = m.renderResults()
	case SaveView:
		body = m.renderSave()
	case FeedbackView:
		body = m.renderFeedback()
	}

	helpView := m.help.ShortHelpView(m.keys.viewHelp(m.view))
	return fmt.Sprintf("%s\n\n%s%s", body, m.renderNotifications(), helpView)
}

func (m *Model) renderFilters() string {
	var b strings.Builder
	b.WriteString(styles.title.Render("Recommendation Filters"))
	b.WriteString("\n")

	for f := field(0); f < numFields; f++ {
		label := styles.label.Render(fieldLabels[f])
		if f == m.focus {
			label = styles.selected.Inherit(styles.label).Render(fieldLabels[f])
		}
		fmt.Fprintf(&b, "%s %s\n", label, m.inputs[f].View())
		if f == fieldGenres {
			b.WriteString(m.renderGenres())
		}
	}

	if suggestions := m.controller.Suggestions(); len(suggestions) > 0 {
		b.WriteString("\n")
		b.WriteString(styles.muted.Render("Suggestions:"))
		for _, s := range suggestions {
			fmt.Fprintf(&b, " %s→%s", s.Filter, s.Extreme)
		}
		b.WriteString("\n")
	}

	recs := m.controller.Recommendations()
	switch {
	case recs.ShowLoading():
		fmt.Fprintf(&b, "\n%s Generating recommendations...\n", m.spinner.View())
	case recs.ShowError():
		fmt.Fprintf(&b, "\n%s\n", styles.err.Render(recs.ErrorMessage()))
	}

	return b.String()
}

// renderGenres draws selected genre chips and the suggestion dropdown under the genre field.
func (m *Model) renderGenres() string {
	g := m.controller.Genres()
	indent := strings.Repeat(" ", styles.label.GetWidth()+1)

	var b strings.Builder
	if g.TagMode() {
		if tags := g.Tags(); len(tags) > 0 {
			chips := make([]string, len(tags))
			for i, t := range tags {
				chips[i] = styles.chip.Render(t + " ×")
			}
			fmt.Fprintf(&b, "%s%s\n", indent, strings.Join(chips, " "))
		}
	}

	for i, s := range g.Suggestions() {
		if i == g.Cursor() {
			fmt.Fprintf(&b, "%s%s\n", indent, styles.selected.Render("> "+s))
			continue
		}
		fmt.Fprintf(&b, "%s  %s\n", indent, styles.muted.Render(s))
	}
	return b.String()
}

func (m *Model) renderResults() string {
	c := m.controller
	recs := c.Recommendations()
	sel := c.Selection()

	var b strings.Builder
	switch {
	case recs.ShowLoading():
		b.WriteString(styles.title.Render("Recommendations"))
		fmt.Fprintf(&b, "\n%s Generating recommendations...\n", m.spinner.View())
		return b.String()
	case recs.ShowError():
		b.WriteString(styles.title.Render("Recommendations"))
		fmt.Fprintf(&b, "\n%s\n", styles.err.Render(recs.ErrorMessage()))
		return b.String()
	case !recs.ShowResults() && !recs.ShowEmpty():
		b.WriteString(styles.title.Render("Recommendations"))
		return b.String()
	}

	b.WriteString(styles.title.Render(fmt.Sprintf("Recommendations (%d)", len(recs.Tracks()))))
	b.WriteString("\n")

	if recs.ShowEmpty() {
		b.WriteString(styles.muted.Render(dashboard.EmptyResultsMessage))
		return b.String()
	}

	fmt.Fprintf(&b, "[a] %s  %s\n\n", sel.Label(), styles.muted.Render(fmt.Sprintf("%d selected", sel.Len())))

	for i, t := range recs.Tracks() {
		check := "[ ]"
		if sel.IsSelected(t.URI) {
			check = styles.ok.Render("[x]")
		}
		line := fmt.Sprintf("%s %s - %s", check, t.Title, t.Artist)
		if i == m.cursor {
			fmt.Fprintf(&b, "%s\n", styles.selected.Render("> ")+line)
			continue
		}
		fmt.Fprintf(&b, "  %s\n", line)
	}
	return b.String()
}

func (m *Model) renderSave() string {
	save := m.controller.SaveWorkflow()

	var b strings.Builder
	b.WriteString(styles.title.Render(fmt.Sprintf("Save %d tracks", len(save.TrackURIs()))))
	b.WriteString("\n")

	newTab, existingTab := styles.selected.Render("New playlist"), styles.muted.Render("Existing playlist")
	if save.Mode() == dashboard.ModeExisting {
		newTab, existingTab = styles.muted.Render("New playlist"), styles.selected.Render("Existing playlist")
	}
	fmt.Fprintf(&b, "%s | %s\n\n", newTab, existingTab)

	if save.Mode() == dashboard.ModeNew {
		b.WriteString(m.nameInput.View())
		b.WriteString("\n")
	} else {
		switch save.ListState() {
		case dashboard.ListLoading:
			fmt.Fprintf(&b, "%s Loading playlists...\n", m.spinner.View())
		case dashboard.ListFailed:
			b.WriteString(styles.err.Render(dashboard.PlaylistsFailedLabel))
			b.WriteString("\n")
		case dashboard.ListLoaded:
			if len(save.Playlists()) == 0 {
				b.WriteString(styles.muted.Render("You have no playlists yet."))
				b.WriteString("\n")
			} else {
				b.WriteString(m.playlistList.View())
				b.WriteString("\n")
			}
		}
	}

	if msg := save.FieldError(); msg != "" {
		fmt.Fprintf(&b, "\n%s\n", styles.err.Render(msg))
	}

	label := save.SubmitLabel()
	if save.SubmitEnabled() {
		label = styles.ok.Render("[enter] " + label)
	} else {
		label = m.spinner.View() + " " + styles.muted.Render(label)
	}
	fmt.Fprintf(&b, "\n%s", label)

	return styles.modal.Render(b.String())
}

func (m *Model) renderFeedback() string {
	var b strings.Builder
	b.WriteString(styles.title.Render("Feedback"))
	b.WriteString("\n")
	fmt.Fprintf(&b, "%s\n%s\n", m.ratingInput.View(), m.commentsInput.View())
	if m.controller.Busy(dashboard.ControlFeedback) {
		fmt.Fprintf(&b, "\n%s Saving...\n", m.spinner.View())
	}
	return styles.modal.Render(b.String())
}

// renderNotifications stacks active notifications oldest first.
func (m *Model) renderNotifications() string {
	active := m.controller.Notifier().Active()
	if len(active) == 0 {
		return ""
	}

	var b strings.Builder
	for _, n := range active {
		b.WriteString(styles.notification(n.Level).Render(n.Message))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	return b.String()
}
