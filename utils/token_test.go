package utils

import "testing"

func TestJwtRoundTrip(t *testing.T) {
	token, err := JwtGenerate(42, "admin")
	if err != nil {
		t.Fatalf("JwtGenerate: %v", err)
	}

	parsed, err := JwtValidate(token)
	if err != nil {
		t.Fatalf("JwtValidate: %v", err)
	}
	claims, ok := parsed.Claims.(*JwtCustomClaim)
	if !ok {
		t.Fatalf("claims type = %T", parsed.Claims)
	}
	if claims.ID != 42 || claims.Role != "admin" {
		t.Fatalf("claims = %+v, want id 42 role admin", claims)
	}
	if claims.Issuer != tokenIssuer {
		t.Fatalf("issuer = %q, want %q", claims.Issuer, tokenIssuer)
	}

	if _, err := JwtValidate(token + "x"); err == nil {
		t.Fatal("tampered token validated")
	}
}
