package jwt_test

import (
	"testing"

	"github.com/halimath/josex/jwt"
)

func TestValidator_expired(t *testing.T) {
	payload := jwt.NewPayload()
	payload.SetExpirationTime(1000)

	v := &jwt.Validator{BaseTime: 1000}
	if err := v.Validate(payload); err == nil {
		t.Error("expected expired token to fail validation")
	}
}

func TestValidator_notYetValid(t *testing.T) {
	payload := jwt.NewPayload()
	payload.SetNotBefore(2000)

	v := &jwt.Validator{BaseTime: 1000}
	if err := v.Validate(payload); err == nil {
		t.Error("expected not-yet-valid token to fail validation")
	}
}

func TestValidator_issuerMismatch(t *testing.T) {
	payload := jwt.NewPayload()
	payload.SetIssuer("https://issuer.example")

	v := &jwt.Validator{Issuer: "https://other.example"}
	if err := v.Validate(payload); err == nil {
		t.Error("expected issuer mismatch to fail validation")
	}
}

func TestValidator_allChecksPass(t *testing.T) {
	payload := jwt.NewPayload()
	payload.SetIssuer("https://issuer.example")
	payload.SetSubject("user-1")
	payload.SetAudience("my-app")
	payload.SetExpirationTime(2000)
	payload.SetNotBefore(500)

	v := &jwt.Validator{
		BaseTime: 1000,
		Issuer:   "https://issuer.example",
		Subject:  "user-1",
		Audience: "my-app",
	}
	if err := v.Validate(payload); err != nil {
		t.Errorf("expected validation to pass, got %s", err)
	}
}

func TestValidator_customClaim(t *testing.T) {
	payload := jwt.NewPayload()
	payload.Set("custom", "value")

	v := &jwt.Validator{Claims: map[string]any{"custom": "value"}}
	if err := v.Validate(payload); err != nil {
		t.Errorf("expected custom claim check to pass, got %s", err)
	}

	v2 := &jwt.Validator{Claims: map[string]any{"custom": "other"}}
	if err := v2.Validate(payload); err == nil {
		t.Error("expected custom claim mismatch to fail validation")
	}
}
