package dashboard

const (
	SelectAllLabel   = "Select All"
	DeselectAllLabel = "Deselect All"
)

// Selection is the set of selected track URIs within the current result set.
//
// URIs outside the known set are ignored, so the selection is always a subset of the result.
type Selection struct {
	known    []string
	index    map[string]bool
	selected map[string]bool
}

// Reset replaces the known URIs and clears the selection.
func (s *Selection) Reset(uris []string) {
	s.known = s.known[:0]
	s.index = make(map[string]bool, len(uris))
	s.selected = make(map[string]bool)
	for _, u := range uris {
		if s.index[u] {
			continue
		}
		s.index[u] = true
		s.known = append(s.known, u)
	}
}

// Toggle flips the selection state of uri.
func (s *Selection) Toggle(uri string) {
	s.Set(uri, !s.selected[uri])
}

// Set selects or deselects uri.
func (s *Selection) Set(uri string, on bool) {
	if !s.index[uri] {
		return
	}
	if on {
		s.selected[uri] = true
		return
	}
	delete(s.selected, uri)
}

// SelectAll selects every known URI.
func (s *Selection) SelectAll() {
	for _, u := range s.known {
		s.selected[u] = true
	}
}

// DeselectAll clears the selection.
func (s *Selection) DeselectAll() {
	s.selected = make(map[string]bool)
}

// IsAllSelected reports whether every known URI is selected. It is false when there are none.
func (s *Selection) IsAllSelected() bool {
	if len(s.known) == 0 {
		return false
	}
	for _, u := range s.known {
		if !s.selected[u] {
			return false
		}
	}
	return true
}

// ToggleAll deselects everything when all tracks are selected and selects everything otherwise.
func (s *Selection) ToggleAll() {
	if s.IsAllSelected() {
		s.DeselectAll()
		return
	}
	s.SelectAll()
}

// Label is the text of the select-all control for the current state.
func (s *Selection) Label() string {
	if s.IsAllSelected() {
		return DeselectAllLabel
	}
	return SelectAllLabel
}

// IsSelected reports whether uri is selected.
func (s *Selection) IsSelected(uri string) bool {
	return s.selected[uri]
}

// Len returns the number of selected URIs.
func (s *Selection) Len() int {
	return len(s.selected)
}

// URIs returns the selected URIs in result order.
func (s *Selection) URIs() []string {
	out := make([]string, 0, len(s.selected))
	for _, u := range s.known {
		if s.selected[u] {
			out = append(out, u)
		}
	}
	return out
}
