package token

import (
	"testing"
	"time"

	"github.com/gudubets/gudubet-sub002/internal/model"
)

var secret = []byte("test-secret")

func TestAccessTokenRoundTrip(t *testing.T) {
	tok, err := GenerateAccessToken(&model.User{ID: "b6f1d3c2-0000-4000-8000-000000000001"}, secret, time.Minute)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	claims, err := VerifyToken(tok, secret)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if claims.Subject != "b6f1d3c2-0000-4000-8000-000000000001" {
		t.Fatalf("subject = %q", claims.Subject)
	}
}

func TestVerifyTokenRejects(t *testing.T) {
	expired, err := GenerateAccessToken(&model.User{ID: "u1"}, secret, -time.Minute)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	otherKey, err := GenerateAccessToken(&model.User{ID: "u1"}, []byte("other"), time.Minute)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	noSubject, err := GenerateAccessToken(&model.User{}, secret, time.Minute)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	tests := []struct {
		name  string
		token string
	}{
		{"expired", expired},
		{"wrong key", otherKey},
		{"no subject", noSubject},
		{"garbage", "not-a-jwt"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := VerifyToken(tt.token, secret); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestRefreshToken(t *testing.T) {
	a, err := GenerateRefreshToken()
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	b, _ := GenerateRefreshToken()
	if a == b {
		t.Fatal("refresh tokens must differ")
	}

	hash := HashRefreshToken(a)
	if !VerifyRefreshToken(a, hash) {
		t.Fatal("own hash must verify")
	}
	if VerifyRefreshToken(b, hash) {
		t.Fatal("foreign token must not verify")
	}
}
