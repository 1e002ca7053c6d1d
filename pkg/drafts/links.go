package drafts

import (
	"net/url"
	"regexp"
	"strings"
)

// DefaultOrigin is the site origin used when none is configured.
const DefaultOrigin = "https://sora.chatgpt.com"

var postPath = regexp.MustCompile(`(?i)/p/`)

func normalizeOrigin(origin string) string {
	origin = strings.TrimSpace(origin)
	if origin == "" {
		return DefaultOrigin
	}

	return strings.TrimSuffix(origin, "/")
}

// IsPubliclyPosted reports whether d was published to the public feed.
func IsPubliclyPosted(d Draft) bool {
	if isPublic(d["post_visibility"]) {
		return true
	}

	if posted, ok := d["posted_to_public"].(bool); ok && posted {
		return true
	}

	for _, key := range []string{"post_meta", "post"} {
		post, ok := object(d[key])
		if !ok {
			continue
		}

		if posted, ok := post["posted_to_public"].(bool); ok && posted {
			return true
		}

		if isPublic(post["visibility"]) {
			return true
		}
	}

	return false
}

func isPublic(v any) bool {
	return strings.ToLower(strings.TrimSpace(textOf(v))) == "public"
}

// PostURL returns the public post link of d on origin, or "" if d was never
// posted. A stored permalink is only accepted if it is an http(s) URL whose
// path contains /p/; its host is always replaced by origin.
func PostURL(d Draft, origin string) string {
	base := normalizeOrigin(origin)
	meta, _ := object(d["post_meta"])
	post, _ := object(d["post"])

	permalink := firstSet(d["post_permalink"], meta["permalink"], post["permalink"])
	if link, ok := permalink.(string); ok {
		if u := normalizePostURL(link, base); u != "" {
			return u
		}
	}

	postID := strings.TrimSpace(textOf(firstSet(
		d["post_id"], meta["id"], post["id"], meta["share_ref"], post["share_ref"],
	)))
	if postID == "" {
		return ""
	}

	return base + "/p/" + encodeURIComponent(postID)
}

func normalizePostURL(link, base string) string {
	link = strings.TrimSpace(link)
	if link == "" {
		return ""
	}

	baseURL, err := url.Parse(base)
	if err != nil {
		return ""
	}

	ref, err := url.Parse(link)
	if err != nil {
		return ""
	}

	u := baseURL.ResolveReference(ref)

	scheme := strings.ToLower(u.Scheme)
	if scheme != "http" && scheme != "https" {
		return ""
	}

	path := u.EscapedPath()
	if !postPath.MatchString(path) {
		return ""
	}

	if u.RawQuery != "" {
		return base + path + "?" + u.RawQuery
	}

	return base + path
}

// CanTrim reports whether d can be opened in the trim editor.
func CanTrim(d Draft) bool {
	if !truthy(d["id"]) {
		return false
	}

	if strings.TrimSpace(d.text("storyboard_id")) != "" {
		return true
	}

	allowed, ok := d["can_storyboard"].(bool)

	return !ok || allowed
}

// TrimURL returns the trim editor link of d on origin, or "" if d cannot be
// trimmed. Drafts with a storyboard open the storyboard, others the draft.
func TrimURL(d Draft, origin string) string {
	if !CanTrim(d) {
		return ""
	}

	base := normalizeOrigin(origin)

	if sb := strings.TrimSpace(d.text("storyboard_id")); sb != "" {
		return base + "/storyboard/" + encodeURIComponent(sb)
	}

	return base + "/d/" + encodeURIComponent(d.text("id"))
}

func firstSet(values ...any) any {
	for _, v := range values {
		if truthy(v) {
			return v
		}
	}

	return nil
}

// encodeURIComponent escapes everything except A-Z a-z 0-9 and -_.!~*'().
// url.PathEscape leaves sub-delimiters such as : @ & = + $ unescaped, which
// would change the link.
func encodeURIComponent(s string) string {
	const hex = "0123456789ABCDEF"

	var b strings.Builder

	for i := 0; i < len(s); i++ {
		c := s[i]
		if isURIUnreserved(c) {
			b.WriteByte(c)

			continue
		}

		b.WriteByte('%')
		b.WriteByte(hex[c>>4])
		b.WriteByte(hex[c&0x0f])
	}

	return b.String()
}

func isURIUnreserved(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	}

	return strings.IndexByte("-_.!~*'()", c) >= 0
}
