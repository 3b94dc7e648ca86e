package jwk

import (
	"encoding/json"
	"fmt"

	"github.com/halimath/josex/internal/omap"
)

// KeyFilter selects keys from a Set.
type KeyFilter func(k *JWK) bool

// WithID returns a KeyFilter matching keys whose "kid" equals kid.
func WithID(kid string) KeyFilter {
	return func(k *JWK) bool {
		return k.KeyID() == kid
	}
}

// WithUse returns a KeyFilter matching keys whose "use" equals use.
func WithUse(use string) KeyFilter {
	return func(k *JWK) bool {
		return k.Use() == use
	}
}

// Set is a JWK Set as specified by RFC 7517 section 5: an ordered "keys"
// array plus whatever other top-level members a producer chose to include
// alongside it. It mirrors Header and JWK's own ordered-parameter-map data
// model so that, like them, a Set re-serializes byte-identically to what
// was parsed if left untouched, extra members included.
type Set struct {
	raw *omap.Map
}

// NewSet returns a Set containing keys and no extra top-level members.
func NewSet(keys ...*JWK) Set {
	s := Set{raw: omap.New()}
	s.SetKeys(keys)
	return s
}

// Get returns the raw value of a top-level member other than "keys", and
// whether it was present.
func (s Set) Get(name string) (any, bool) {
	if s.raw == nil {
		return nil, false
	}
	return s.raw.Get(name)
}

// Set stores value under a top-level member name. Use SetKeys to replace
// the "keys" member itself.
func (s Set) Set(name string, value any) {
	s.raw.Set(name, value)
}

// Keys returns the set's keys in order.
func (s Set) Keys() []*JWK {
	if s.raw == nil {
		return nil
	}
	v, ok := s.raw.Get("keys")
	if !ok {
		return nil
	}
	keys, _ := v.([]*JWK)
	return keys
}

// SetKeys replaces the set's "keys" member, preserving its position among
// any other top-level members.
func (s *Set) SetKeys(keys []*JWK) {
	if s.raw == nil {
		s.raw = omap.New()
	}
	s.raw.Set("keys", keys)
}

// Has reports whether s contains at least one key matching f.
func (s Set) Has(f KeyFilter) bool {
	return s.First(f) != nil
}

// First returns the first key in s matching f, or nil.
func (s Set) First(f KeyFilter) *JWK {
	for _, k := range s.Keys() {
		if f(k) {
			return k
		}
	}
	return nil
}

// All returns a Set holding every key in s matching f, in s's order, and
// carrying s's other top-level members.
func (s Set) All(f KeyFilter) Set {
	out := NewSet()
	if s.raw != nil {
		for _, name := range s.raw.Keys() {
			if name == "keys" {
				continue
			}
			v, _ := s.raw.Get(name)
			out.Set(name, v)
		}
	}
	var filtered []*JWK
	for _, k := range s.Keys() {
		if f(k) {
			filtered = append(filtered, k)
		}
	}
	out.SetKeys(filtered)
	return out
}

// MarshalJSON renders s with members in the order they were set or parsed.
func (s Set) MarshalJSON() ([]byte, error) {
	if s.raw != nil {
		return s.raw.MarshalJSON()
	}
	empty := omap.New()
	empty.Set("keys", []*JWK{})
	return empty.MarshalJSON()
}

// UnmarshalJSON parses a JWK Set object. The "keys" member is required, per
// RFC 7517 section 5.1; an empty array is valid. Any other top-level member
// is preserved verbatim and reachable through Get.
func (s *Set) UnmarshalJSON(data []byte) error {
	raw := omap.New()
	if err := raw.UnmarshalJSON(data); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidKey, err)
	}

	v, ok := raw.Get("keys")
	if !ok {
		return fmt.Errorf("%w: JWK Set missing required %q member", ErrInvalidKey, "keys")
	}
	arr, ok := v.([]any)
	if !ok {
		return fmt.Errorf("%w: %q must be an array", ErrInvalidKey, "keys")
	}

	var ordered struct {
		Keys []json.RawMessage `json:"keys"`
	}
	if err := json.Unmarshal(data, &ordered); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidKey, err)
	}

	keys := make([]*JWK, len(arr))
	for i, e := range arr {
		if _, ok := e.(map[string]any); !ok {
			return fmt.Errorf("%w: keys[%d] must be a JSON object", ErrInvalidKey, i)
		}
		k, err := Parse(ordered.Keys[i])
		if err != nil {
			return err
		}
		keys[i] = k
	}
	raw.Set("keys", keys)

	*s = Set{raw: raw}
	return nil
}

// ParseSet decodes data as a JWK Set.
func ParseSet(data []byte) (Set, error) {
	var s Set
	if err := s.UnmarshalJSON(data); err != nil {
		return Set{}, err
	}
	return s, nil
}
