package drafts

import (
	"encoding/json"
	"fmt"
)

// IDSet is an insertion-ordered set of draft ids.
//
// The zero value is an empty set ready to use. A nil *IDSet behaves as an
// empty set for reads. Empty ids are never stored.
type IDSet struct {
	order []string
	index map[string]struct{}
}

// NewIDSet returns a set holding the given ids in order, skipping empty ids
// and duplicates.
func NewIDSet(ids ...string) *IDSet {
	s := &IDSet{}
	for _, id := range ids {
		s.Add(id)
	}

	return s
}

// IDSetOf returns the set of ids carried by list, in list order.
func IDSetOf(list []Draft) *IDSet {
	s := &IDSet{}
	for _, d := range list {
		s.Add(d.ID())
	}

	return s
}

// Add inserts id and reports whether it was not already present.
func (s *IDSet) Add(id string) bool {
	if id == "" {
		return false
	}

	if s.index == nil {
		s.index = make(map[string]struct{})
	}

	if _, ok := s.index[id]; ok {
		return false
	}

	s.index[id] = struct{}{}
	s.order = append(s.order, id)

	return true
}

// Remove deletes id and reports whether it was present.
func (s *IDSet) Remove(id string) bool {
	if s == nil {
		return false
	}

	if _, ok := s.index[id]; !ok {
		return false
	}

	delete(s.index, id)

	for i, v := range s.order {
		if v == id {
			s.order = append(s.order[:i:i], s.order[i+1:]...)

			break
		}
	}

	return true
}

// Has reports whether id is in the set.
func (s *IDSet) Has(id string) bool {
	if s == nil || id == "" {
		return false
	}

	_, ok := s.index[id]

	return ok
}

// Len returns the number of ids in the set.
func (s *IDSet) Len() int {
	if s == nil {
		return 0
	}

	return len(s.order)
}

// IDs returns a copy of the ids in insertion order.
func (s *IDSet) IDs() []string {
	if s == nil {
		return []string{}
	}

	out := make([]string, len(s.order))
	copy(out, s.order)

	return out
}

// MarshalJSON encodes the set as an array of ids.
func (s *IDSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.IDs())
}

// UnmarshalJSON decodes an array of id-like values. Values are normalized
// with [NormalizeID]; empty ids are dropped.
func (s *IDSet) UnmarshalJSON(data []byte) error {
	var raw []any

	err := json.Unmarshal(data, &raw)
	if err != nil {
		return fmt.Errorf("decode id set: %w", err)
	}

	*s = IDSet{}
	for _, v := range raw {
		s.Add(NormalizeID(v))
	}

	return nil
}
