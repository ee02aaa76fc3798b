package dashboard

import (
	"fmt"
	"strconv"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/desertthunder/crate/internal/models"
	"github.com/desertthunder/crate/internal/shared"
)

// Field names reported by [ValidationError].
const (
	FieldCount          = "count"
	FieldDiscoveryLevel = "discovery_level"
	FieldMinYear        = "min_year"
	FieldMaxPopularity  = "max_popularity"
	FieldTargetTempo    = "target_tempo"
	FieldTargetEnergy   = "target_energy"
)

// ValidationError reports the first filter field that failed its range check.
type ValidationError struct {
	Field   string
	Min     int
	Max     int
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func (e *ValidationError) Unwrap() error { return shared.ErrInvalidInput }

type bound struct {
	field   string
	min     int
	max     int
	message string
}

// Checked in this order; the first failure wins.
var (
	countBound         = bound{FieldCount, 1, 50, "Please enter a valid number of tracks (1-50)."}
	discoveryBound     = bound{FieldDiscoveryLevel, 0, 100, "Please enter a valid discovery level (0-100)."}
	minYearBound       = bound{FieldMinYear, 1900, 2025, "Please enter a valid minimum year (1900-2025)."}
	maxPopularityBound = bound{FieldMaxPopularity, 0, 100, "Please enter a valid maximum popularity (0-100)."}
	tempoBound         = bound{FieldTargetTempo, 40, 200, "Please enter a valid target tempo (40-200 BPM)."}
	energyBound        = bound{FieldTargetEnergy, 0, 100, "Please enter a valid target energy (0-100)."}
)

func (b bound) invalid() *ValidationError {
	return &ValidationError{Field: b.field, Min: b.min, Max: b.max, Message: b.message}
}

// parse accepts a base-10 integer, surrounding whitespace allowed, inside [min, max].
func (b bound) parse(raw string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, b.invalid()
	}

	// ozzo threshold rules skip zero values, so a positive minimum also needs Required.
	rules := []validation.Rule{validation.Min(b.min), validation.Max(b.max)}
	if b.min > 0 {
		rules = append([]validation.Rule{validation.Required}, rules...)
	}
	if err := validation.Validate(n, rules...); err != nil {
		return 0, b.invalid()
	}
	return n, nil
}

// FilterForm holds the raw filter inputs as typed by the user.
//
// TargetTempo and TargetEnergy are numeric inputs; Tempo and Energy are categorical selectors
// such as "low" or "high". Genres and Moods are comma-separated lists.
type FilterForm struct {
	Count          string
	DiscoveryLevel string
	MinYear        string
	MaxPopularity  string
	TargetTempo    string
	TargetEnergy   string
	Tempo          string
	Energy         string
	Genres         string
	Moods          string

	// TagMode takes genres from GenreTags instead of splitting Genres.
	TagMode   bool
	GenreTags []string
}

// NewFilterForm returns a form prefilled with the configured defaults.
func NewFilterForm(cfg shared.DashboardConfig) FilterForm {
	count, discovery, minYear, maxPopularity := cfg.FormDefaults()
	return FilterForm{
		Count:          count,
		DiscoveryLevel: discovery,
		MinYear:        minYear,
		MaxPopularity:  maxPopularity,
	}
}

// BuildFilterRequest validates the form and produces a [models.FilterRequest].
//
// Validation stops at the first invalid field and returns a [*ValidationError] for it.
func BuildFilterRequest(form FilterForm) (*models.FilterRequest, error) {
	count, err := countBound.parse(form.Count)
	if err != nil {
		return nil, err
	}
	discovery, err := discoveryBound.parse(form.DiscoveryLevel)
	if err != nil {
		return nil, err
	}
	minYear, err := minYearBound.parse(form.MinYear)
	if err != nil {
		return nil, err
	}
	maxPopularity, err := maxPopularityBound.parse(form.MaxPopularity)
	if err != nil {
		return nil, err
	}

	req := &models.FilterRequest{
		Count:          count,
		DiscoveryLevel: discovery,
		MinYear:        minYear,
		MaxPopularity:  maxPopularity,
	}

	if req.TargetTempo, req.Tempo, err = targetOrCategory(tempoBound, form.TargetTempo, form.Tempo); err != nil {
		return nil, err
	}
	if req.TargetEnergy, req.Energy, err = targetOrCategory(energyBound, form.TargetEnergy, form.Energy); err != nil {
		return nil, err
	}

	if form.TagMode {
		req.Genres = dedupe(form.GenreTags)
	} else {
		req.Genres = SplitList(form.Genres, ",")
	}
	req.Moods = SplitList(form.Moods, ",")

	return req, nil
}

// targetOrCategory prefers a numeric value, falling back to the categorical one. Both empty means absent.
func targetOrCategory(b bound, numeric, category string) (*int, string, error) {
	if strings.TrimSpace(numeric) != "" {
		n, err := b.parse(numeric)
		if err != nil {
			return nil, "", err
		}
		return &n, "", nil
	}
	return nil, strings.TrimSpace(category), nil
}

// SplitList splits raw on sep, trims each entry, drops empty ones and removes duplicates keeping the first.
//
// The result is never nil.
func SplitList(raw, sep string) []string {
	return dedupe(strings.Split(raw, sep))
}

func dedupe(values []string) []string {
	out := make([]string, 0, len(values))
	seen := make(map[string]bool, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}

// ApplySuggestion copies a tempo or energy suggestion onto the categorical field and clears the numeric one.
//
// Suggestions for other filters are ignored and report false.
func (f *FilterForm) ApplySuggestion(s models.FilterSuggestion) bool {
	switch strings.ToLower(s.Filter) {
	case "tempo":
		f.Tempo, f.TargetTempo = s.Extreme, ""
	case "energy":
		f.Energy, f.TargetEnergy = s.Extreme, ""
	default:
		return false
	}
	return true
}

// Describe renders the request as a one-line summary for logs and CLI output.
func Describe(req *models.FilterRequest) string {
	var b strings.Builder
	fmt.Fprintf(&b, "count=%d discovery=%d year>=%d popularity<=%d", req.Count, req.DiscoveryLevel, req.MinYear, req.MaxPopularity)
	switch {
	case req.TargetTempo != nil:
		fmt.Fprintf(&b, " tempo=%d", *req.TargetTempo)
	case req.Tempo != "":
		fmt.Fprintf(&b, " tempo=%s", req.Tempo)
	}
	switch {
	case req.TargetEnergy != nil:
		fmt.Fprintf(&b, " energy=%d", *req.TargetEnergy)
	case req.Energy != "":
		fmt.Fprintf(&b, " energy=%s", req.Energy)
	}
	if len(req.Genres) > 0 {
		fmt.Fprintf(&b, " genres=%s", strings.Join(req.Genres, ","))
	}
	if len(req.Moods) > 0 {
		fmt.Fprintf(&b, " moods=%s", strings.Join(req.Moods, ","))
	}
	return b.String()
}
