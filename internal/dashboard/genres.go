package dashboard

import (
	"strings"
	"time"
	"unicode/utf8"
)

const (
	// MaxSuggestions caps the suggestion list.
	MaxSuggestions = 5
	// MinPartialLength is the number of runes typed before suggestions appear.
	MinPartialLength = 2
	// BlurGrace is how long suggestions stay visible after the input loses focus.
	BlurGrace = 150 * time.Millisecond
)

// DefaultGenres is used when the backend vocabulary cannot be fetched.
var DefaultGenres = []string{
	"acoustic", "afrobeat", "alternative", "ambient", "blues", "bossanova", "classical",
	"country", "dance", "deep-house", "disco", "drum-and-bass", "dub", "dubstep", "edm",
	"electronic", "folk", "funk", "gospel", "grunge", "hip-hop", "house", "indie",
	"indie-pop", "jazz", "k-pop", "latin", "metal", "punk", "r-n-b", "reggae", "reggaeton",
	"rock", "singer-songwriter", "soul", "synth-pop", "techno", "trance", "trip-hop",
}

// PartialWord returns the word being typed: the text after the last comma when value is a
// delimited list, otherwise the whole value. The result is trimmed.
func PartialWord(value string, delimited bool) string {
	if delimited {
		if i := strings.LastIndex(value, ","); i >= 0 {
			value = value[i+1:]
		}
	}
	return strings.TrimSpace(value)
}

// SuggestGenres returns up to limit vocabulary entries that start with partial, ignoring case.
//
// Nothing is suggested for partials shorter than [MinPartialLength]. Entries already in selected
// and repeated vocabulary entries are skipped. A limit outside (0, MaxSuggestions] means MaxSuggestions.
func SuggestGenres(vocabulary []string, partial string, selected []string, limit int) []string {
	partial = strings.ToLower(strings.TrimSpace(partial))
	if utf8.RuneCountInString(partial) < MinPartialLength {
		return nil
	}
	if limit <= 0 || limit > MaxSuggestions {
		limit = MaxSuggestions
	}

	skip := make(map[string]bool, len(selected))
	for _, s := range selected {
		skip[strings.ToLower(strings.TrimSpace(s))] = true
	}

	var out []string
	for _, genre := range vocabulary {
		key := strings.ToLower(genre)
		if skip[key] || !strings.HasPrefix(key, partial) {
			continue
		}
		skip[key] = true
		out = append(out, genre)
		if len(out) == limit {
			break
		}
	}
	return out
}

// GenreInput is the genre entry control.
//
// In tag mode accepted genres become removable tags and the text holds only the word being typed.
// Otherwise the text is a comma-separated list and accepting a suggestion completes its last entry.
type GenreInput struct {
	vocabulary []string
	tagMode    bool
	tags       []string
	text       string

	suggestions []string
	cursor      int
	visible     bool
	focused     bool
	blurToken   int
}

// NewGenreInput creates an input using the default vocabulary until [GenreInput.SetVocabulary] is called.
func NewGenreInput(tagMode bool) *GenreInput {
	return &GenreInput{vocabulary: DefaultGenres, tagMode: tagMode}
}

// SetVocabulary installs the fetched vocabulary. On error or an empty list it falls back to
// [DefaultGenres] and reports true.
func (g *GenreInput) SetVocabulary(genres []string, err error) (fellBack bool) {
	if err != nil || len(genres) == 0 {
		g.vocabulary = DefaultGenres
		fellBack = true
	} else {
		g.vocabulary = append([]string(nil), genres...)
	}
	g.refresh()
	return fellBack
}

func (g *GenreInput) Vocabulary() []string { return g.vocabulary }
func (g *GenreInput) TagMode() bool        { return g.tagMode }
func (g *GenreInput) Text() string         { return g.text }
func (g *GenreInput) Focused() bool        { return g.focused }
func (g *GenreInput) Cursor() int          { return g.cursor }

// Tags returns the selected genres in the order they were added.
func (g *GenreInput) Tags() []string {
	if g.tagMode {
		return append([]string(nil), g.tags...)
	}
	return SplitList(g.text, ",")
}

// SetText replaces the typed text and recomputes suggestions.
func (g *GenreInput) SetText(text string) {
	g.text = text
	g.refresh()
}

// Suggestions returns the visible suggestions, or nil when the list is hidden.
func (g *GenreInput) Suggestions() []string {
	if !g.visible {
		return nil
	}
	return g.suggestions
}

// Highlighted returns the suggestion under the cursor.
func (g *GenreInput) Highlighted() (string, bool) {
	if !g.visible || len(g.suggestions) == 0 {
		return "", false
	}
	return g.suggestions[g.cursor], true
}

// MoveCursor moves the highlight by delta, wrapping around the list.
func (g *GenreInput) MoveCursor(delta int) {
	n := len(g.suggestions)
	if !g.visible || n == 0 {
		return
	}
	g.cursor = ((g.cursor+delta)%n + n) % n
}

// Accept adds genre to the selection, clears the partial word and hides suggestions.
//
// It reports false when genre was already selected, in which case the selection is unchanged.
func (g *GenreInput) Accept(genre string) bool {
	genre = strings.TrimSpace(genre)
	if genre == "" {
		return false
	}
	if g.isSelected(genre) {
		g.clearPartial()
		g.hide()
		return false
	}

	if g.tagMode {
		g.tags = append(g.tags, genre)
		g.text = ""
	} else {
		prefix := ""
		if i := strings.LastIndex(g.text, ","); i >= 0 {
			prefix = g.text[:i+1] + " "
		}
		g.text = prefix + genre + ", "
	}
	g.hide()
	return true
}

// AcceptHighlighted accepts the suggestion under the cursor.
func (g *GenreInput) AcceptHighlighted() bool {
	genre, ok := g.Highlighted()
	if !ok {
		return false
	}
	return g.Accept(genre)
}

// Backspace deletes the last typed rune. With no text left in tag mode it removes the most recent tag instead.
func (g *GenreInput) Backspace() {
	if g.text != "" {
		_, size := utf8.DecodeLastRuneInString(g.text)
		g.SetText(g.text[:len(g.text)-size])
		return
	}
	if g.tagMode && len(g.tags) > 0 {
		g.tags = g.tags[:len(g.tags)-1]
		g.refresh()
	}
}

// Remove deletes genre (case-insensitive) from the selected tags.
func (g *GenreInput) Remove(genre string) bool {
	for i, t := range g.tags {
		if strings.EqualFold(t, genre) {
			return g.RemoveAt(i)
		}
	}
	return false
}

// RemoveAt deletes the tag at index i.
func (g *GenreInput) RemoveAt(i int) bool {
	if i < 0 || i >= len(g.tags) {
		return false
	}
	g.tags = append(g.tags[:i], g.tags[i+1:]...)
	g.refresh()
	return true
}

// Focus marks the input focused and shows any pending suggestions.
func (g *GenreInput) Focus() {
	g.focused = true
	g.refresh()
}

// Blur marks the input unfocused. Suggestions stay visible until [GenreInput.ExpireBlur] is
// called with the returned token after [BlurGrace].
func (g *GenreInput) Blur() int {
	g.focused = false
	g.blurToken++
	return g.blurToken
}

// ExpireBlur hides suggestions if token is from the latest Blur and focus has not returned.
func (g *GenreInput) ExpireBlur(token int) bool {
	if token != g.blurToken || g.focused {
		return false
	}
	g.hide()
	return true
}

// Reset clears the text and tags.
func (g *GenreInput) Reset() {
	g.tags = nil
	g.text = ""
	g.hide()
}

func (g *GenreInput) selected() []string {
	if g.tagMode {
		return g.tags
	}
	// The entry being typed is not selected yet.
	text := g.text
	if i := strings.LastIndex(text, ","); i >= 0 {
		text = text[:i]
	} else {
		text = ""
	}
	return SplitList(text, ",")
}

func (g *GenreInput) isSelected(genre string) bool {
	for _, s := range g.selected() {
		if strings.EqualFold(s, genre) {
			return true
		}
	}
	return false
}

func (g *GenreInput) refresh() {
	g.suggestions = SuggestGenres(g.vocabulary, PartialWord(g.text, !g.tagMode), g.selected(), MaxSuggestions)
	g.cursor = 0
	g.visible = g.focused && len(g.suggestions) > 0
}

func (g *GenreInput) clearPartial() {
	if g.tagMode {
		g.text = ""
		return
	}
	if i := strings.LastIndex(g.text, ","); i >= 0 {
		g.text = g.text[:i+1] + " "
	} else {
		g.text = ""
	}
}

func (g *GenreInput) hide() {
	g.suggestions = nil
	g.cursor = 0
	g.visible = false
}
