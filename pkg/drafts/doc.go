// Package drafts reconciles a client-held list of draft records against
// partial, repeated and out-of-order server responses, and answers structured
// search queries against that list.
//
// Every function in this package is pure: inputs are never mutated, new
// lists and records are returned, and no state is retained between calls.
// Malformed input degrades to a safe value (an empty list, false, or the
// unchanged input string) instead of an error.
//
// # Records
//
// A [Draft] is an opaque JSON object. Fields are read by name and follow the
// loose conventions of the upstream API: empty strings, zero, false and
// missing fields all count as "not set". Identity comes from the id field
// normalized by [NormalizeID]; records without an id are skipped by every
// identity-keyed operation.
//
// # Lists
//
//	cached := drafts.MergeByID(fetched, cached)   // refresh: new page first
//	cached = drafts.AppendUnique(cached, nextPage) // pagination
//	cached = drafts.RemoveByID(cached, "d_123")
//
// # Search
//
//	q := drafts.ParseQuery(`model:sora2 ws:"Music Lab" dur:>=10s cat`)
//	for _, d := range cached {
//	    if drafts.Matches(d, q, opts) { ... }
//	}
//
// Recognized filter keys are listed in [FilterKeys]. Unknown keys and keys
// without a value degrade to free-text terms.
//
// # Pending generations
//
// [FlattenPending] turns either upstream pending-feed shape into one list of
// generation-level records tagged with is_pending. [DroppedIDs] diffs two
// consecutive pending snapshots.
package drafts
