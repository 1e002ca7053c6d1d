package drafts

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/tailscale/hujson"
)

// seedMaxDigits is the longest seed accepted by the create endpoint.
const seedMaxDigits = 10

var (
	errInvalidJSON = errors.New("invalid JSON")
	errNotObject   = errors.New("not a JSON object")
)

// CreateOverrides are user overrides for a create request body.
type CreateOverrides struct {
	Prompt      string `json:"prompt,omitempty"`
	Model       string `json:"model,omitempty"`
	Orientation string `json:"orientation,omitempty"`
	Resolution  string `json:"resolution,omitempty"`
	Style       string `json:"style,omitempty"`
	Mode        string `json:"mode,omitempty"`
	Seed        string `json:"seed,omitempty"`
}

// Normalize trims every override, keeps only the digits of Seed (at most
// ten) and reports whether any override is left.
func (o CreateOverrides) Normalize() (CreateOverrides, bool) {
	n := CreateOverrides{
		Prompt:      strings.TrimSpace(o.Prompt),
		Model:       strings.TrimSpace(o.Model),
		Orientation: strings.TrimSpace(o.Orientation),
		Resolution:  strings.TrimSpace(o.Resolution),
		Style:       strings.TrimSpace(o.Style),
		Mode:        strings.TrimSpace(o.Mode),
	}

	var seed strings.Builder

	for _, r := range o.Seed {
		if r >= '0' && r <= '9' && seed.Len() < seedMaxDigits {
			seed.WriteRune(r)
		}
	}

	n.Seed = seed.String()

	return n, n != CreateOverrides{}
}

// ApplyCreateOverrides writes the overrides into a JSON create request body
// and returns the new body.
//
// The body may carry the same request again, JSON-encoded, in a "body" string
// member; both levels are updated. prompt, model and resolution go to the
// request and to its creation_config; orientation, style and seed only to
// creation_config; mode only to the request. Members that are not
// overridden keep their order and bytes.
//
// The body is returned unchanged when no override survives [CreateOverrides.Normalize],
// when nothing changes, or when it is not a JSON object.
func ApplyCreateOverrides(body string, overrides CreateOverrides) string {
	o, ok := overrides.Normalize()
	if !ok {
		return body
	}

	env, err := decodeCreateEnvelope(body)
	if err != nil {
		return body
	}

	if !env.apply(o) {
		return body
	}

	return env.encode()
}

// createEnvelope is a decoded create request whose "body" member may hold a
// second, JSON-encoded create request.
type createEnvelope struct {
	outer hujson.Value
	inner *hujson.Value
}

func decodeCreateEnvelope(body string) (*createEnvelope, error) {
	outer, err := parseJSON([]byte(body))
	if err != nil {
		return nil, err
	}

	if _, ok := outer.Value.(*hujson.Object); !ok {
		return nil, errNotObject
	}

	env := &createEnvelope{outer: outer}

	if encoded, ok := stringMember(outer.Value.(*hujson.Object), "body"); ok {
		inner, innerErr := parseJSON([]byte(encoded))
		if innerErr == nil {
			env.inner = &inner
		}
	}

	return env, nil
}

// apply writes o into both levels and reports whether anything changed.
// The nested request is re-encoded into the body member only if it changed.
func (e *createEnvelope) apply(o CreateOverrides) bool {
	changed := applyCreateOverrides(&e.outer, o)

	if e.inner != nil && applyCreateOverrides(e.inner, o) {
		setString(e.outer.Value.(*hujson.Object), "body", string(e.inner.Pack()))

		changed = true
	}

	return changed
}

func (e *createEnvelope) encode() string {
	return string(e.outer.Pack())
}

// parseJSON parses strict JSON (no comments or trailing commas) into a
// compact, order-preserving tree.
func parseJSON(b []byte) (hujson.Value, error) {
	if !json.Valid(b) {
		return hujson.Value{}, errInvalidJSON
	}

	v, err := hujson.Parse(b)
	if err != nil {
		return hujson.Value{}, errInvalidJSON
	}

	v.Minimize()

	return v, nil
}

// applyCreateOverrides updates one request level. Members are written in a
// fixed order so that newly added members always appear in the same order.
func applyCreateOverrides(v *hujson.Value, o CreateOverrides) bool {
	obj, ok := v.Value.(*hujson.Object)
	if !ok {
		return false
	}

	changed := false

	cc := objectMember(obj, "creation_config")
	if cc == nil {
		cc = &hujson.Object{}
		setValue(obj, "creation_config", cc)

		changed = true
	}

	set := func(target *hujson.Object, key, value string) {
		if value != "" && setString(target, key, value) {
			changed = true
		}
	}

	set(obj, "prompt", o.Prompt)
	set(cc, "prompt", o.Prompt)
	set(obj, "model", o.Model)
	set(cc, "model", o.Model)
	set(cc, "orientation", o.Orientation)
	set(obj, "resolution", o.Resolution)
	set(cc, "resolution", o.Resolution)
	set(cc, "style", o.Style)
	set(cc, "seed", o.Seed)
	set(obj, "mode", o.Mode)

	return changed
}

// member returns the value of the last member named key. Decoders keep the
// last of duplicate names, so that is the one that counts.
func member(obj *hujson.Object, key string) *hujson.Value {
	for i := len(obj.Members) - 1; i >= 0; i-- {
		name, ok := obj.Members[i].Name.Value.(hujson.Literal)
		if ok && name.Kind() == '"' && name.String() == key {
			return &obj.Members[i].Value
		}
	}

	return nil
}

func objectMember(obj *hujson.Object, key string) *hujson.Object {
	m := member(obj, key)
	if m == nil {
		return nil
	}

	sub, _ := m.Value.(*hujson.Object)

	return sub
}

func stringMember(obj *hujson.Object, key string) (string, bool) {
	m := member(obj, key)
	if m == nil {
		return "", false
	}

	lit, ok := m.Value.(hujson.Literal)
	if !ok || lit.Kind() != '"' {
		return "", false
	}

	return lit.String(), true
}

// setString sets key to the string value and reports whether it changed.
func setString(obj *hujson.Object, key, value string) bool {
	if cur, ok := stringMember(obj, key); ok && cur == value {
		return false
	}

	setValue(obj, key, hujson.String(value))

	return true
}

// setValue replaces the value of key, or appends the member if missing.
func setValue(obj *hujson.Object, key string, value hujson.ValueTrimmed) {
	if m := member(obj, key); m != nil {
		m.Value = value

		return
	}

	obj.Members = append(obj.Members, hujson.ObjectMember{
		Name:  hujson.Value{Value: hujson.String(key)},
		Value: hujson.Value{Value: value},
	})
}
