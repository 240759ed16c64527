package service

import (
	"os"
	"testing"
)

func TestJWTRoundTrip(t *testing.T) {
	os.Setenv("JWT_SECRET", "test-secret")
	InitJWT()

	const wallet = "WalletAlpha111111111111111111111111111111111"
	token, err := GenerateJWT(wallet)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	got, err := ParseJWT(token)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if got != wallet {
		t.Fatalf("wallet = %s, want %s", got, wallet)
	}
}

func TestJWTRejectsGarbage(t *testing.T) {
	os.Setenv("JWT_SECRET", "test-secret")
	InitJWT()

	for _, token := range []string{"", "not-a-token", "a.b.c"} {
		if _, err := ParseJWT(token); err == nil {
			t.Fatalf("token %q accepted", token)
		}
	}
}

func TestJWTRejectsWrongSecret(t *testing.T) {
	os.Setenv("JWT_SECRET", "secret-one")
	InitJWT()
	token, err := GenerateJWT("WalletBeta2222222222222222222222222222222222")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	os.Setenv("JWT_SECRET", "secret-two")
	InitJWT()
	if _, err := ParseJWT(token); err == nil {
		t.Fatal("token signed with another secret accepted")
	}
}
