package drafts

// MergeByID concatenates primary and secondary keeping only the first record
// for each id, in first-seen order. Records without an id are dropped.
//
// Refreshing a cached list with a freshly fetched page is
// MergeByID(fetched, cached): fetched records win and come first.
func MergeByID(primary, secondary []Draft) []Draft {
	merged := make([]Draft, 0, len(primary)+len(secondary))
	seen := make(map[string]struct{}, len(primary)+len(secondary))

	push := func(d Draft) {
		id := d.ID()
		if id == "" {
			return
		}

		if _, ok := seen[id]; ok {
			return
		}

		seen[id] = struct{}{}
		merged = append(merged, d)
	}

	for _, d := range primary {
		push(d)
	}

	for _, d := range secondary {
		push(d)
	}

	return merged
}

// AppendUnique returns a copy of existing followed by every record of
// incoming whose id is new, in incoming order. Records in existing are kept
// as they are, including ones without an id.
func AppendUnique(existing, incoming []Draft) []Draft {
	out := make([]Draft, 0, len(existing)+len(incoming))
	out = append(out, existing...)

	seen := make(map[string]struct{}, len(out))

	for _, d := range out {
		if id := d.ID(); id != "" {
			seen[id] = struct{}{}
		}
	}

	for _, d := range incoming {
		id := d.ID()
		if id == "" {
			continue
		}

		if _, ok := seen[id]; ok {
			continue
		}

		seen[id] = struct{}{}
		out = append(out, d)
	}

	return out
}

// RemoveByID returns a copy of list without the records whose id equals the
// normalized id. An empty id removes nothing.
func RemoveByID(list []Draft, id any) []Draft {
	target := NormalizeID(id)
	out := make([]Draft, 0, len(list))

	for _, d := range list {
		if target != "" && d.ID() == target {
			continue
		}

		out = append(out, d)
	}

	return out
}

// Page returns the draft records of a list response: a bare array,
// {"items": [...]} or {"data": {"items": [...]}}. Entries that are not
// objects are skipped.
func Page(payload any) []Draft {
	items := unwrapItems(payload)
	out := make([]Draft, 0, len(items))

	for _, item := range items {
		if obj, ok := object(item); ok {
			out = append(out, Draft(obj))
		}
	}

	return out
}

func unwrapItems(payload any) []any {
	if items, ok := list(payload); ok {
		return items
	}

	obj, ok := object(payload)
	if !ok {
		return nil
	}

	if items, ok := list(obj["items"]); ok {
		return items
	}

	if data, ok := object(obj["data"]); ok {
		if items, ok := list(data["items"]); ok {
			return items
		}
	}

	return nil
}
