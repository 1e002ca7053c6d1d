package drafts

import "slices"

// ViewOptions supplies the external state a list view is computed from.
type ViewOptions struct {
	Bookmarks            *IDSet
	JustSeen             *IDSet
	ResolveWorkspaceName func(workspaceID string) string
}

// ApplyView returns the records of list shown by view: records without an id
// are dropped, then the filter state, the workspace filter and the search
// query are applied, then the sort state. The newest order is list order.
func ApplyView(list []Draft, view ViewState, opts ViewOptions) []Draft {
	query := ParseQuery(view.SearchQuery)
	search := SearchOptions{
		Bookmarks:            opts.Bookmarks,
		ResolveWorkspaceName: opts.ResolveWorkspaceName,
	}

	out := make([]Draft, 0, len(list))

	for _, d := range list {
		id := d.ID()
		if id == "" {
			continue
		}

		if !inFilterState(d, id, view.FilterState, opts) {
			continue
		}

		if ws := view.Workspace(); ws != "" && NormalizeID(d["workspace_id"]) != ws {
			continue
		}

		if !Matches(d, query, search) {
			continue
		}

		out = append(out, d)
	}

	if view.SortState == SortOldest {
		slices.Reverse(out)
	}

	return out
}

func inFilterState(d Draft, id, state string, opts ViewOptions) bool {
	switch state {
	case FilterBookmarked:
		return opts.Bookmarks.Has(id)
	case FilterHidden:
		return IsHidden(d)
	case FilterViolations:
		return IsAlwaysOld(d)
	case FilterNew:
		return IsUnread(d) && !opts.JustSeen.Has(id)
	case FilterUnsynced:
		return IsPending(d)
	default:
		return true
	}
}
