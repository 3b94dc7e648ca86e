package jwt_test

import (
	"testing"

	"github.com/halimath/josex/jwt"
)

func TestPayload_roundTripThroughJSON(t *testing.T) {
	p := jwt.NewPayload()
	p.SetIssuer("iss")
	p.SetSubject("sub")
	p.SetAudience("a", "b")
	p.SetExpirationTime(100)
	p.SetNotBefore(50)
	p.SetIssuedAt(10)
	p.SetJWTID("id-1")

	data, err := p.MarshalJSON()
	if err != nil {
		t.Fatal(err)
	}

	parsed, err := jwt.ParsePayload(data)
	if err != nil {
		t.Fatal(err)
	}
	if parsed.Issuer() != "iss" || parsed.Subject() != "sub" || parsed.JWTID() != "id-1" {
		t.Errorf("claims mismatch after round trip: %+v", parsed)
	}
	if aud := parsed.Audience(); len(aud) != 2 || aud[0] != "a" || aud[1] != "b" {
		t.Errorf("got audience %v", aud)
	}
	if exp, ok := parsed.ExpirationTime(); !ok || exp != 100 {
		t.Errorf("got exp %v %v", exp, ok)
	}
}

func TestPayload_audienceSingleValueIsPlainString(t *testing.T) {
	p := jwt.NewPayload()
	p.SetAudience("only-one")

	data, err := p.MarshalJSON()
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != `{"aud":"only-one"}` {
		t.Errorf("expected single audience to encode as a plain string, got %s", data)
	}
}

func TestPayload_missingClaimsReturnZeroValues(t *testing.T) {
	p := jwt.NewPayload()
	if p.Issuer() != "" {
		t.Error("expected empty issuer")
	}
	if _, ok := p.ExpirationTime(); ok {
		t.Error("expected exp to be absent")
	}
}
