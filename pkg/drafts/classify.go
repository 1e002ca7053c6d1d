package drafts

import (
	"encoding/json"
	"regexp"
	"strings"
)

var (
	contentSignals = regexp.MustCompile(`(?i)(content|policy|moderation|safety|blocked|violat|disallow)`)
	infraSignals   = regexp.MustCompile(`(?i)(processing|generation|internal error|timeout|network|retry|server error|failed)`)
)

// IsAlwaysOld reports whether d is a terminal record (a policy violation or a
// failed generation) that never counts as new, whatever its read state.
//
// A draft is always-old when its kind or status names a content violation,
// a context violation or a processing error, when its violation_reason reads
// like a content-policy block rather than an infrastructure failure, or when
// it carries a violation_reason but no preview or thumbnail.
func IsAlwaysOld(d Draft) bool {
	kind := strings.ToLower(strings.TrimSpace(d.text("kind")))
	if isContentViolation(kind) || isContextViolation(kind) || isKindProcessingError(kind) {
		return true
	}

	status := strings.ToLower(strings.TrimSpace(textOf(d.first("status", "pending_status", "pending_task_status"))))
	if isContentViolation(status) || isContextViolation(status) || isStatusProcessingError(status) {
		return true
	}

	reason := reasonText(d)
	if reason == "" {
		return false
	}

	if contentSignals.MatchString(reason) && !infraSignals.MatchString(reason) {
		return true
	}

	hasMedia := strings.TrimSpace(d.text("preview_url")) != "" ||
		strings.TrimSpace(d.text("thumbnail_url")) != ""

	return !hasMedia
}

// IsUnread reports whether d is not always-old and is_read is exactly false.
func IsUnread(d Draft) bool {
	if IsAlwaysOld(d) {
		return false
	}

	read, ok := d["is_read"].(bool)

	return ok && !read
}

func reasonText(d Draft) string {
	switch v := d["violation_reason"].(type) {
	case string:
		return strings.ToLower(v)
	case nil:
		return ""
	case map[string]any, []any, Draft:
		b, err := json.Marshal(v)
		if err != nil {
			return ""
		}

		return strings.ToLower(string(b))
	default:
		return ""
	}
}

// Kind and status share the violation vocabularies. The exact-match
// spellings (sora_content_violation, context_violation, ...) are all covered
// by the substring rules.
func isContentViolation(s string) bool {
	return strings.Contains(s, "content_violation") ||
		strings.Contains(s, "policy_violation") ||
		strings.Contains(s, "moderation_violation") ||
		strings.Contains(s, "safety_violation")
}

func isContextViolation(s string) bool {
	return strings.Contains(s, "context_violation")
}

func isKindProcessingError(kind string) bool {
	return strings.Contains(kind, "processing_error") ||
		strings.Contains(kind, "processing_failed") ||
		strings.Contains(kind, "generation_error") ||
		strings.HasSuffix(kind, "_error")
}

func isStatusProcessingError(status string) bool {
	return isKindProcessingError(status) ||
		status == "failed" ||
		strings.HasSuffix(status, "_failed")
}

// IsHidden reports whether d carries a truthy hidden flag.
func IsHidden(d Draft) bool {
	return truthy(d["hidden"])
}

// IsPending reports whether d is a flattened pending generation that has not
// been replaced by a synced draft yet.
func IsPending(d Draft) bool {
	return truthy(d["is_pending"])
}
