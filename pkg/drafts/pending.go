package drafts

import (
	"strconv"
	"strings"
)

// PendingStatuses are the normalized statuses of a generation that is still
// in flight.
var PendingStatuses = []string{
	"pending", "queued", "queueing", "enqueued", "running", "processing",
	"in_progress", "in-progress", "starting", "submitted", "waiting", "retrying",
}

var pendingStatusSet = func() map[string]struct{} {
	m := make(map[string]struct{}, len(PendingStatuses))
	for _, s := range PendingStatuses {
		m[s] = struct{}{}
	}

	return m
}()

// batchShape is the layout of one pending-feed payload. It is decided once
// per payload, never per item.
type batchShape int

const (
	// shapeFlat items are generations carrying their own status.
	shapeFlat batchShape = iota
	// shapeTask items are tasks with a generations array each.
	shapeTask
)

func detectShape(items []any) batchShape {
	for _, item := range items {
		if LooksLikeTask(item) {
			return shapeTask
		}
	}

	return shapeFlat
}

// PendingItems extracts the item array from a pending-feed payload: a bare
// array, {"items": [...]} or {"data": {"items": [...]}}. Anything else
// yields nil.
func PendingItems(payload any) []any {
	return unwrapItems(payload)
}

// LooksLikeTask reports whether item is a task: an object with an id and a
// generations array.
func LooksLikeTask(item any) bool {
	obj, ok := object(item)
	if !ok {
		return false
	}

	if _, ok := list(obj["generations"]); !ok {
		return false
	}

	return NormalizeID(obj["id"]) != ""
}

// NormalizePendingStatus lowercases a status; a missing or blank status is
// "pending".
func NormalizePendingStatus(status any) string {
	raw := strings.TrimSpace(textOf(status))
	if raw == "" {
		return "pending"
	}

	return strings.ToLower(raw)
}

// IsPendingStatus reports whether status normalizes to an in-flight status.
func IsPendingStatus(status any) bool {
	_, ok := pendingStatusSet[NormalizePendingStatus(status)]

	return ok
}

// FlattenPending turns a pending-feed payload into generation-level records.
//
// Every returned record is a copy carrying a resolved id, pending_status and
// is_pending=true. Records flattened from tasks also carry task_id,
// pending_task_status, and the task prompt backfilled into prompt and
// creation_config.prompt. Generations whose status is not in
// [PendingStatuses] are skipped; a generation without its own status
// inherits the task status.
func FlattenPending(payload any) []Draft {
	items := PendingItems(payload)
	if len(items) == 0 {
		return []Draft{}
	}

	switch detectShape(items) {
	case shapeTask:
		return flattenTasks(items)
	default:
		return flattenItems(items)
	}
}

func flattenTasks(items []any) []Draft {
	out := []Draft{}

	for _, item := range items {
		if !LooksLikeTask(item) {
			continue
		}

		task, _ := object(item)
		taskID := NormalizeID(task["id"])
		taskPrompt, _ := task["prompt"].(string)
		taskStatus := NormalizePendingStatus(task["status"])
		generations, _ := list(task["generations"])

		for i, g := range generations {
			gen, ok := object(g)
			if !ok {
				continue
			}

			var status string
			if truthy(gen["status"]) {
				status = NormalizePendingStatus(gen["status"])
			} else {
				status = taskStatus
			}

			if !IsPendingStatus(status) {
				continue
			}

			id := pendingGenerationID(gen, taskID, i)
			if id == "" {
				continue
			}

			rec := Draft(gen).Clone()
			rec["id"] = id

			if !truthy(rec["task_id"]) && taskID != "" {
				rec["task_id"] = taskID
			}

			if !truthy(rec["prompt"]) && taskPrompt != "" {
				rec["prompt"] = taskPrompt
			}

			cc := map[string]any{}
			if base, ok := object(rec["creation_config"]); ok {
				for k, v := range base {
					cc[k] = v
				}
			}

			if !truthy(cc["prompt"]) && taskPrompt != "" {
				cc["prompt"] = taskPrompt
			}

			rec["creation_config"] = cc
			rec["pending_status"] = status
			rec["pending_task_status"] = taskStatus
			rec["is_pending"] = true

			out = append(out, rec)
		}
	}

	return out
}

func flattenItems(items []any) []Draft {
	out := []Draft{}

	for _, item := range items {
		obj, ok := object(item)
		if !ok {
			continue
		}

		status := NormalizePendingStatus(obj["status"])
		if !IsPendingStatus(status) {
			continue
		}

		id := pendingGenerationID(obj, "", 0)
		if id == "" {
			continue
		}

		rec := Draft(obj).Clone()
		rec["id"] = id
		rec["pending_status"] = status
		rec["is_pending"] = true

		out = append(out, rec)
	}

	return out
}

// pendingGenerationID resolves id, generation_id or draft_id, falling back
// to "<taskID>:pending:<index>" inside a task.
func pendingGenerationID(gen map[string]any, taskID string, index int) string {
	if id := NormalizeID(Draft(gen).first("id", "generation_id", "draft_id")); id != "" {
		return id
	}

	if taskID == "" {
		return ""
	}

	return taskID + ":pending:" + strconv.Itoa(max(index, 0))
}

// DroppedIDs returns the ids of previous that are missing from next, in the
// order of previous. Between two polls of the pending feed these are the
// generations that finished, failed or vanished.
func DroppedIDs(previous, next *IDSet) []string {
	dropped := []string{}

	for _, id := range previous.IDs() {
		if !next.Has(id) {
			dropped = append(dropped, id)
		}
	}

	return dropped
}
