package drafts

// Stats holds aggregate counts over a draft list.
type Stats struct {
	Total      int `json:"total"`
	Bookmarked int `json:"bookmarked"`
	Hidden     int `json:"hidden"`
	NewCount   int `json:"newCount"`
}

// ComputeStats counts the records of list that carry an id.
//
// NewCount excludes always-old records and records in justSeen, so a draft the
// user has opened this session stops counting as new before the server marks
// it read. Nil sets count as empty.
func ComputeStats(list []Draft, bookmarked, justSeen *IDSet) Stats {
	var stats Stats

	for _, d := range list {
		id := d.ID()
		if id == "" {
			continue
		}

		stats.Total++

		if IsHidden(d) {
			stats.Hidden++
		}

		if IsUnread(d) && !justSeen.Has(id) {
			stats.NewCount++
		}

		if bookmarked.Has(id) {
			stats.Bookmarked++
		}
	}

	return stats
}
