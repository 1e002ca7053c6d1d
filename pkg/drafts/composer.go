package drafts

import (
	"math"
	"strings"
	"unicode/utf8"
)

// Generation count limits of the composer.
const (
	GensCountMin        = 1
	GensCountMaxDefault = 10
	GensCountMaxUltra   = 40
)

// defaultPreviewLen is the preview length used when none is given.
const defaultPreviewLen = 60

// ModeRequiresSource reports whether a composer mode needs a source draft.
func ModeRequiresSource(mode string) bool {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "remix", "extend":
		return true
	default:
		return false
	}
}

// GensCountMax returns the largest generation count allowed.
func GensCountMax(ultra bool) int {
	if ultra {
		return GensCountMaxUltra
	}

	return GensCountMaxDefault
}

// ClampGensCount rounds value to the nearest integer and clamps it into
// [GensCountMin, GensCountMax(ultra)]. NaN and infinities yield the minimum.
func ClampGensCount(value float64, ultra bool) int {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return GensCountMin
	}

	n := math.Floor(value + 0.5)

	return int(math.Min(float64(GensCountMax(ultra)), math.Max(GensCountMin, n)))
}

// PreviewText returns the prompt, else the title, else "Untitled", cut to
// maxLen characters followed by "..." when longer. maxLen <= 0 means 60.
func PreviewText(d Draft, maxLen int) string {
	limit := maxLen
	if limit <= 0 {
		limit = defaultPreviewLen
	}

	source := textOf(d.first("prompt", "title"))
	if source == "" {
		source = "Untitled"
	}

	if utf8.RuneCountInString(source) <= limit {
		return source
	}

	return string([]rune(source)[:limit]) + "..."
}
