package drafts

import (
	"encoding/json"
	"slices"
	"strings"
)

// Filter states of the draft list view.
const (
	FilterAll        = "all"
	FilterBookmarked = "bookmarked"
	FilterHidden     = "hidden"
	FilterViolations = "violations"
	FilterNew        = "new"
	FilterUnsynced   = "unsynced"
)

// Sort states of the draft list view.
const (
	SortNewest = "newest"
	SortOldest = "oldest"
)

// FilterStates lists the valid filter states.
var FilterStates = []string{FilterAll, FilterBookmarked, FilterHidden, FilterViolations, FilterNew, FilterUnsynced}

// SortStates lists the valid sort states.
var SortStates = []string{SortNewest, SortOldest}

// legacySortStates were offered by earlier releases and now mean newest.
var legacySortStates = []string{"api", "duration"}

// ViewState is the persisted preference of the draft list view.
// WorkspaceFilter is nil when no workspace is selected.
type ViewState struct {
	FilterState     string  `json:"filterState"`
	SortState       string  `json:"sortState"`
	WorkspaceFilter *string `json:"workspaceFilter"`
	SearchQuery     string  `json:"searchQuery"`
}

// DefaultViewState returns the view state used when nothing valid is stored.
func DefaultViewState() ViewState {
	return ViewState{
		FilterState: FilterAll,
		SortState:   SortNewest,
		SearchQuery: "",
	}
}

// NormalizeViewState validates a stored view state field by field, falling
// back to the default for every invalid or missing field.
func NormalizeViewState(raw map[string]any) ViewState {
	out := DefaultViewState()

	if s, ok := raw["filterState"].(string); ok && slices.Contains(FilterStates, s) {
		out.FilterState = s
	}

	if s, ok := raw["sortState"].(string); ok {
		sort := strings.ToLower(strings.TrimSpace(s))
		if slices.Contains(legacySortStates, sort) {
			sort = SortNewest
		}

		if slices.Contains(SortStates, sort) {
			out.SortState = sort
		}
	}

	if s, ok := raw["workspaceFilter"].(string); ok {
		if ws := strings.TrimSpace(s); ws != "" {
			out.WorkspaceFilter = &ws
		}
	}

	if s, ok := raw["searchQuery"].(string); ok {
		out.SearchQuery = s
	}

	return out
}

// DecodeViewState normalizes a JSON-encoded view state. Anything that is not
// a JSON object decodes to the default.
func DecodeViewState(data []byte) ViewState {
	var raw map[string]any

	err := json.Unmarshal(data, &raw)
	if err != nil {
		return DefaultViewState()
	}

	return NormalizeViewState(raw)
}

// Fields returns v as a raw field map, the inverse of [NormalizeViewState]
// for valid states.
func (v ViewState) Fields() map[string]any {
	fields := map[string]any{
		"filterState":     v.FilterState,
		"sortState":       v.SortState,
		"workspaceFilter": nil,
		"searchQuery":     v.SearchQuery,
	}

	if v.WorkspaceFilter != nil {
		fields["workspaceFilter"] = *v.WorkspaceFilter
	}

	return fields
}

// Workspace returns the workspace filter or "" if none is set.
func (v ViewState) Workspace() string {
	if v.WorkspaceFilter == nil {
		return ""
	}

	return *v.WorkspaceFilter
}
