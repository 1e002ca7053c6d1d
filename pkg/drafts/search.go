package drafts

import (
	"math"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"unicode"
)

// FilterKeys lists the recognized key:value filter keys.
var FilterKeys = []string{
	"id", "task", "ws", "workspace", "model", "ori", "orientation", "kind", "tag",
	"title", "prompt", "dur", "duration", "new", "hidden", "bookmarked",
	"resolution", "style", "seed",
}

var filterKeySet = func() map[string]struct{} {
	m := make(map[string]struct{}, len(FilterKeys))
	for _, k := range FilterKeys {
		m[k] = struct{}{}
	}

	return m
}()

// textFilterFields maps substring filter keys to the field they match.
var textFilterFields = map[string]string{
	"id":          "id",
	"task":        "task_id",
	"model":       "model",
	"ori":         "orientation",
	"orientation": "orientation",
	"kind":        "kind",
	"title":       "title",
	"prompt":      "prompt",
	"resolution":  "resolution",
	"style":       "style",
	"seed":        "seed",
}

// blobFields are the fields concatenated into the free-text search blob,
// in order. The workspace name, cameo usernames and tags follow them.
var blobFields = []string{
	"id", "task_id", "prompt", "title", "kind", "generation_type", "orientation",
	"model", "resolution", "style", "seed", "duration_seconds",
}

var durationExpr = regexp.MustCompile(`(?i)^(>=|<=|>|<|=)?\s*(\d+(?:\.\d+)?)(?:s|sec|secs|seconds?)?$`)

// durationEpsilon is the tolerance of an equality duration filter.
const durationEpsilon = 0.01

// Filter is a recognized key:value pair of a parsed query.
type Filter struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Query is a parsed search query. Terms are lowercased.
type Query struct {
	Filters []Filter `json:"filters"`
	Terms   []string `json:"terms"`
}

// IsZero reports whether q has neither filters nor terms.
func (q Query) IsZero() bool {
	return len(q.Filters) == 0 && len(q.Terms) == 0
}

// SearchOptions supplies the external state a query is matched against.
type SearchOptions struct {
	// Bookmarks is consulted by the bookmarked: filter. Nil is empty.
	Bookmarks *IDSet

	// ResolveWorkspaceName maps a workspace id to its display name.
	// If nil, WorkspaceName is used for every draft.
	ResolveWorkspaceName func(workspaceID string) string

	WorkspaceName string
}

func (o SearchOptions) workspaceName(d Draft) string {
	if o.ResolveWorkspaceName != nil {
		return o.ResolveWorkspaceName(NormalizeID(d["workspace_id"]))
	}

	return o.WorkspaceName
}

// Tokenize splits a query into raw tokens.
//
// Double quotes group a span into one token and are dropped; a quote
// preceded by a backslash is kept literally. Outside quotes, whitespace,
// commas and semicolons separate tokens.
func Tokenize(query string) []string {
	var (
		tokens   []string
		current  strings.Builder
		inQuotes bool
		prev     rune
	)

	for _, ch := range query {
		last := prev
		prev = ch

		if ch == '"' && last != '\\' {
			inQuotes = !inQuotes

			continue
		}

		if !inQuotes && (unicode.IsSpace(ch) || ch == ',' || ch == ';') {
			if current.Len() > 0 {
				tokens = append(tokens, current.String())
				current.Reset()
			}

			continue
		}

		current.WriteRune(ch)
	}

	if current.Len() > 0 {
		tokens = append(tokens, current.String())
	}

	return tokens
}

// ParseQuery parses a free-text query into filters and terms.
//
// A token of the form key:value becomes a filter when key is one of
// [FilterKeys] and value is not empty. Every other token becomes a
// lowercased term.
func ParseQuery(query string) Query {
	var q Query

	for _, token := range Tokenize(query) {
		cleaned := strings.TrimRight(strings.TrimSpace(token), ";,")
		if cleaned == "" {
			continue
		}

		if sep := strings.Index(cleaned, ":"); sep > 0 {
			key := strings.ToLower(strings.TrimSpace(cleaned[:sep]))
			value := strings.TrimRight(strings.TrimSpace(cleaned[sep+1:]), ";,")

			if _, ok := filterKeySet[key]; ok && value != "" {
				q.Filters = append(q.Filters, Filter{Key: key, Value: value})

				continue
			}
		}

		q.Terms = append(q.Terms, strings.ToLower(cleaned))
	}

	return q
}

// ParseBool parses a boolean filter value. ok is false for anything outside
// 1/true/yes/y and 0/false/no/n (case-insensitive).
func ParseBool(value string) (v bool, ok bool) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "1", "true", "yes", "y":
		return true, true
	case "0", "false", "no", "n":
		return false, true
	default:
		return false, false
	}
}

// MatchesDuration reports whether a duration in seconds satisfies expr, e.g.
// "12", ">=12s", "<9.5 seconds". Equality tolerates 0.01s. Malformed
// expressions never match.
func MatchesDuration(seconds any, expr string) bool {
	var duration float64
	if truthy(seconds) {
		duration = number(seconds)
	}

	m := durationExpr.FindStringSubmatch(strings.TrimSpace(expr))
	if m == nil {
		return false
	}

	target, err := strconv.ParseFloat(m[2], 64)
	if err != nil || math.IsInf(target, 0) {
		return false
	}

	switch m[1] {
	case ">":
		return duration > target
	case "<":
		return duration < target
	case ">=":
		return duration >= target
	case "<=":
		return duration <= target
	default:
		return math.Abs(duration-target) < durationEpsilon
	}
}

// SearchBlob returns the lowercased text that free-text terms are matched
// against.
func SearchBlob(d Draft, workspaceName string) string {
	parts := make([]string, 0, len(blobFields)+3)

	for _, key := range blobFields {
		v, ok := d[key]
		if !ok || v == nil || v == "" {
			continue
		}

		parts = append(parts, stringify(v))
	}

	if workspaceName != "" {
		parts = append(parts, workspaceName)
	}

	if cameos := cameoNames(d); cameos != "" {
		parts = append(parts, cameos)
	}

	if tags, ok := list(d["tags"]); ok {
		names := make([]string, len(tags))
		for i, t := range tags {
			names[i] = stringify(t)
		}

		if joined := strings.Join(names, " "); joined != "" {
			parts = append(parts, joined)
		}
	}

	return strings.ToLower(strings.Join(parts, " "))
}

func cameoNames(d Draft) string {
	profiles, ok := list(d["cameo_profiles"])
	if !ok {
		return ""
	}

	names := make([]string, 0, len(profiles))

	for _, p := range profiles {
		var name string

		switch v := p.(type) {
		case string:
			name = v
		default:
			if obj, isObj := object(v); isObj {
				name, _ = obj["username"].(string)
			}
		}

		if name != "" {
			names = append(names, name)
		}
	}

	return strings.Join(names, " ")
}

// MatchesFilters reports whether d passes every filter of q. A query without
// filters passes.
func MatchesFilters(d Draft, q Query, opts SearchOptions) bool {
	if len(q.Filters) == 0 {
		return true
	}

	workspaceName := strings.ToLower(opts.workspaceName(d))
	workspaceID := strings.ToLower(d.text("workspace_id"))

	for _, f := range q.Filters {
		if !matchesFilter(d, f, opts, workspaceName, workspaceID) {
			return false
		}
	}

	return true
}

func matchesFilter(d Draft, f Filter, opts SearchOptions, workspaceName, workspaceID string) bool {
	key := strings.ToLower(f.Key)
	raw := strings.TrimSpace(f.Value)
	value := strings.ToLower(raw)

	if field, ok := textFilterFields[key]; ok {
		return strings.Contains(strings.ToLower(d.text(field)), value)
	}

	switch key {
	case "ws", "workspace":
		return strings.Contains(workspaceName, value) || strings.Contains(workspaceID, value)
	case "tag":
		tags, _ := list(d["tags"])

		return slices.ContainsFunc(tags, func(t any) bool {
			return strings.Contains(strings.ToLower(textOf(t)), value)
		})
	case "dur", "duration":
		return MatchesDuration(d["duration_seconds"], raw)
	case "new":
		wanted, ok := ParseBool(raw)

		return ok && IsUnread(d) == wanted
	case "hidden":
		wanted, ok := ParseBool(raw)

		return ok && IsHidden(d) == wanted
	case "bookmarked":
		wanted, ok := ParseBool(raw)

		return ok && opts.Bookmarks.Has(d.ID()) == wanted
	default:
		return true
	}
}

// Matches reports whether d passes every filter of q and contains every term
// of q in its search blob.
func Matches(d Draft, q Query, opts SearchOptions) bool {
	if !MatchesFilters(d, q, opts) {
		return false
	}

	if len(q.Terms) == 0 {
		return true
	}

	blob := SearchBlob(d, opts.workspaceName(d))

	for _, term := range q.Terms {
		if !strings.Contains(blob, strings.ToLower(term)) {
			return false
		}
	}

	return true
}
