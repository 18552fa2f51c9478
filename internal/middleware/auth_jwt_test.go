package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

const testSecret = "test-secret"

func TestSignVerifyRoundTrip(t *testing.T) {
	token, err := SignJWT(testSecret, TokenClaims{
		Sub:  "user-1",
		Plan: "free",
		Exp:  time.Now().Add(time.Hour).Unix(),
	})
	if err != nil {
		t.Fatalf("SignJWT: %v", err)
	}
	claims, err := VerifyJWT(testSecret, token)
	if err != nil {
		t.Fatalf("VerifyJWT: %v", err)
	}
	if claims.Sub != "user-1" || claims.Plan != "free" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestVerifyRejectsTamperedSignature(t *testing.T) {
	token, _ := SignJWT(testSecret, TokenClaims{Sub: "user-1"})
	parts := strings.Split(token, ".")
	tampered := parts[0] + "." + parts[1] + "." + "AAAA"
	if _, err := VerifyJWT(testSecret, tampered); err == nil {
		t.Fatal("expected error for tampered signature")
	}
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	token, _ := SignJWT(testSecret, TokenClaims{Sub: "user-1"})
	if _, err := VerifyJWT("other-secret", token); err == nil {
		t.Fatal("expected error for wrong secret")
	}
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	token, _ := SignJWT(testSecret, TokenClaims{
		Sub: "user-1",
		Exp: time.Now().Add(-time.Minute).Unix(),
	})
	if _, err := VerifyJWT(testSecret, token); err == nil {
		t.Fatal("expected error for expired token")
	}
}

func TestAuthJWTMiddlewareSetsContext(t *testing.T) {
	token, _ := SignJWT(testSecret, TokenClaims{
		Sub:  "user-9",
		Plan: "pro",
		Exp:  time.Now().Add(time.Hour).Unix(),
	})

	var gotUser, gotPlan string
	handler := AuthJWT(testSecret)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUser = UserIDFromContext(r.Context())
		gotPlan = PlanFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/v1/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if gotUser != "user-9" || gotPlan != "pro" {
		t.Fatalf("context not populated: user=%q plan=%q", gotUser, gotPlan)
	}
}

func TestAuthJWTMiddlewareRejectsMissingHeader(t *testing.T) {
	handler := AuthJWT(testSecret)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not be reached")
	}))
	req := httptest.NewRequest(http.MethodGet, "/v1/me", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}
