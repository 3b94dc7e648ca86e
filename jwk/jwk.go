package jwk

import (
	"crypto"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/halimath/josex/internal/joseerr"
	"github.com/halimath/josex/internal/omap"
	"github.com/halimath/josex/jwa"
)

// thumbprintMembers lists, per RFC 7638 section 3.2, the required members
// that go into a key's thumbprint hash input for each registered key type.
var thumbprintMembers = map[jwa.KeyType][]string{
	jwa.KeyTypeOct: {jwa.SymmetricKeyValueKey, jwa.KeyTypeKey},
	jwa.KeyTypeRSA: {jwa.RSAExponentKey, jwa.KeyTypeKey, jwa.RSAModulusKey},
	jwa.KeyTypeEC:  {jwa.ECCurveKey, jwa.KeyTypeKey, jwa.ECXCoordinateKey, jwa.ECYCoordinateKey},
	jwa.KeyTypeOKP: {jwa.OKPCurveKey, jwa.KeyTypeKey, jwa.OKPPublicKeyKey},
}

// ErrInvalidKey is returned when a JWK's JSON representation is malformed:
// a required parameter is missing, or a registered parameter has the wrong
// JSON type.
var ErrInvalidKey = joseerr.ErrInvalidKeyFormat

// JWK is a JSON Web Key: a map from parameter name to typed value, per
// RFC 7517 section 2. Registered parameters are exposed through typed
// accessors; unknown parameters are preserved verbatim and are reachable
// through Get.
type JWK struct {
	raw *omap.Map
}

// New returns an empty JWK. Callers populate it with Set before using it;
// a JWK with no "kty" is not valid input to anything that requires one.
func New() *JWK {
	return &JWK{raw: omap.New()}
}

// FromJSONObject validates and wraps a decoded JSON object as a JWK. kty
// must be present and a string; the registered parameters listed in RFC
// 7517 section 4 are type-checked if present. Unknown members are kept
// as-is.
func FromJSONObject(m map[string]any) (*JWK, error) {
	raw := omap.New()
	for k, v := range m {
		raw.Set(k, v)
	}
	k := &JWK{raw: raw}
	if err := k.validate(); err != nil {
		return nil, err
	}
	return k, nil
}

// Parse decodes data as a JSON object and wraps it as a JWK, preserving
// member order for byte-faithful re-serialization.
func Parse(data []byte) (*JWK, error) {
	raw := omap.New()
	if err := raw.UnmarshalJSON(data); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidKey, err)
	}
	k := &JWK{raw: raw}
	if err := k.validate(); err != nil {
		return nil, err
	}
	return k, nil
}

func (k *JWK) validate() error {
	kty, ok := k.raw.Get(jwa.KeyTypeKey)
	if !ok {
		return fmt.Errorf("%w: missing %q", ErrInvalidKey, jwa.KeyTypeKey)
	}
	if _, ok := kty.(string); !ok {
		return fmt.Errorf("%w: %q must be a string", ErrInvalidKey, jwa.KeyTypeKey)
	}
	for _, name := range []string{jwa.PublicKeyUseKey, jwa.AlgorithmParamKey, jwa.KeyIDParamKey, "jku", "x5u", "typ", "cty", jwa.X509CertificateSHA1ThumbprintKey, jwa.X509CertificateSHA256ThumbprintKey} {
		if v, ok := k.raw.Get(name); ok {
			if _, ok := v.(string); !ok {
				return fmt.Errorf("%w: %q must be a string", ErrInvalidKey, name)
			}
		}
	}
	if v, ok := k.raw.Get(jwa.KeyOpsKey); ok {
		if _, err := toStringSlice(v); err != nil {
			return fmt.Errorf("%w: %q must be an array of strings", ErrInvalidKey, jwa.KeyOpsKey)
		}
	}
	if v, ok := k.raw.Get(jwa.X509CertificateChainKey); ok {
		if _, err := toStringSlice(v); err != nil {
			return fmt.Errorf("%w: %q must be an array of strings", ErrInvalidKey, jwa.X509CertificateChainKey)
		}
	}
	return nil
}

func toStringSlice(v any) ([]string, error) {
	arr, ok := v.([]any)
	if !ok {
		return nil, errors.New("not an array")
	}
	out := make([]string, len(arr))
	for i, e := range arr {
		s, ok := e.(string)
		if !ok {
			return nil, errors.New("element is not a string")
		}
		out[i] = s
	}
	return out, nil
}

// MarshalJSON renders the key with members in the order they were set or
// parsed.
func (k *JWK) MarshalJSON() ([]byte, error) {
	return k.raw.MarshalJSON()
}

// UnmarshalJSON parses data into k, replacing any existing contents.
func (k *JWK) UnmarshalJSON(data []byte) error {
	parsed, err := Parse(data)
	if err != nil {
		return err
	}
	*k = *parsed
	return nil
}

// Get returns the raw value of parameter name and whether it was present.
func (k *JWK) Get(name string) (any, bool) {
	return k.raw.Get(name)
}

// Set stores value under name, preserving insertion order for new keys.
func (k *JWK) Set(name string, value any) {
	k.raw.Set(name, value)
}

// KeyType returns the "kty" parameter.
func (k *JWK) KeyType() jwa.KeyType {
	s, _ := k.getString(jwa.KeyTypeKey)
	return jwa.KeyType(s)
}

// Use returns the "use" parameter, or "" if absent.
func (k *JWK) Use() string {
	s, _ := k.getString(jwa.PublicKeyUseKey)
	return s
}

// KeyOps returns the "key_ops" parameter, or nil if absent.
func (k *JWK) KeyOps() []string {
	v, ok := k.raw.Get(jwa.KeyOpsKey)
	if !ok {
		return nil
	}
	ops, err := toStringSlice(v)
	if err != nil {
		return nil
	}
	return ops
}

// Algorithm returns the "alg" parameter, or "" if absent.
func (k *JWK) Algorithm() string {
	s, _ := k.getString(jwa.AlgorithmParamKey)
	return s
}

// KeyID returns the "kid" parameter, or "" if absent.
func (k *JWK) KeyID() string {
	s, _ := k.getString(jwa.KeyIDParamKey)
	return s
}

// JWKSetURL returns the "jku" parameter, or "" if absent.
func (k *JWK) JWKSetURL() string {
	s, _ := k.getString("jku")
	return s
}

// X509URL returns the "x5u" parameter, or "" if absent.
func (k *JWK) X509URL() string {
	s, _ := k.getString("x5u")
	return s
}

func (k *JWK) getString(name string) (string, bool) {
	v, ok := k.raw.Get(name)
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// X509CertificateChain decodes the "x5c" parameter. Per RFC 7517 section
// 4.7 each entry is standard (not URL-safe), padded Base64; this
// implementation follows the RFC rather than the URL-safe variant some
// implementations mistakenly use.
func (k *JWK) X509CertificateChain() ([][]byte, error) {
	v, ok := k.raw.Get(jwa.X509CertificateChainKey)
	if !ok {
		return nil, nil
	}
	strs, err := toStringSlice(v)
	if err != nil {
		return nil, fmt.Errorf("%w: x5c must be an array of strings", ErrInvalidKey)
	}
	out := make([][]byte, len(strs))
	for i, s := range strs {
		b, err := base64.StdEncoding.DecodeString(s)
		if err != nil {
			return nil, fmt.Errorf("%w: x5c[%d]: %s", ErrInvalidKey, i, err)
		}
		out[i] = b
	}
	return out, nil
}

// SetX509CertificateChain stores chain as the "x5c" parameter, encoding
// each certificate as standard Base64 per RFC 7517.
func (k *JWK) SetX509CertificateChain(chain [][]byte) {
	strs := make([]any, len(chain))
	for i, c := range chain {
		strs[i] = base64.StdEncoding.EncodeToString(c)
	}
	k.raw.Set(jwa.X509CertificateChainKey, strs)
}

// X509CertificateSHA1Thumbprint decodes the "x5t" parameter.
func (k *JWK) X509CertificateSHA1Thumbprint() ([]byte, error) {
	return k.getThumbprint(jwa.X509CertificateSHA1ThumbprintKey)
}

// X509CertificateSHA256Thumbprint decodes the "x5t#S256" parameter.
func (k *JWK) X509CertificateSHA256Thumbprint() ([]byte, error) {
	return k.getThumbprint(jwa.X509CertificateSHA256ThumbprintKey)
}

func (k *JWK) getThumbprint(name string) ([]byte, error) {
	s, ok := k.getString(name)
	if !ok {
		return nil, nil
	}
	b, err := base64.RawURLEncoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %s", ErrInvalidKey, name, err)
	}
	return b, nil
}

// Equal reports whether k and other carry the same parameters with the same
// values, independent of insertion order.
func (k *JWK) Equal(other *JWK) bool {
	if k == nil || other == nil {
		return k == other
	}
	if k.raw.Len() != other.raw.Len() {
		return false
	}
	for _, key := range k.raw.Keys() {
		a, _ := k.raw.Get(key)
		b, ok := other.raw.Get(key)
		if !ok || !jsonEqual(a, b) {
			return false
		}
	}
	return true
}

// Thumbprint computes the RFC 7638 JSON Web Key Thumbprint: hash is applied
// to the UTF-8 encoding of the JSON object containing exactly the key's
// required members, in lexicographic member order and with no insignificant
// whitespace. Callers typically pass crypto.SHA256.
func (k *JWK) Thumbprint(hash crypto.Hash) ([]byte, error) {
	members, ok := thumbprintMembers[k.KeyType()]
	if !ok {
		return nil, fmt.Errorf("%w: unsupported kty %q for thumbprint", ErrInvalidKey, k.KeyType())
	}
	sorted := append([]string(nil), members...)
	sort.Strings(sorted)

	var buf []byte
	buf = append(buf, '{')
	for i, name := range sorted {
		if i > 0 {
			buf = append(buf, ',')
		}
		v, ok := k.raw.Get(name)
		if !ok {
			return nil, fmt.Errorf("%w: missing required member %q for thumbprint", ErrInvalidKey, name)
		}
		kb, err := json.Marshal(name)
		if err != nil {
			return nil, err
		}
		vb, err := json.Marshal(v)
		if err != nil {
			return nil, err
		}
		buf = append(buf, kb...)
		buf = append(buf, ':')
		buf = append(buf, vb...)
	}
	buf = append(buf, '}')

	h := hash.New()
	h.Write(buf)
	return h.Sum(nil), nil
}

func jsonEqual(a, b any) bool {
	switch av := a.(type) {
	case []any:
		bv, ok := b.([]any)
		if !ok || len(av) != len(bv) {
			return false
		}
		for i := range av {
			if !jsonEqual(av[i], bv[i]) {
				return false
			}
		}
		return true
	default:
		return a == b
	}
}
