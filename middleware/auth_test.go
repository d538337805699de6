package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang-jwt/jwt/v5"
)

func mintToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	return signed
}

func TestFirebaseAuthMiddlewareMissingHeader(t *testing.T) {
	handler := FirebaseAuthMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler called without authorization")
	}))

	req := httptest.NewRequest("GET", "/api/v1/users/me", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestFirebaseAuthMiddlewareBadScheme(t *testing.T) {
	handler := FirebaseAuthMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler called with bad scheme")
	}))

	req := httptest.NewRequest("GET", "/api/v1/users/me", nil)
	req.Header.Set("Authorization", "Basic abc123")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestFirebaseAuthMiddlewareDevDecode(t *testing.T) {
	token := mintToken(t, jwt.MapClaims{
		"user_id": "firebase-uid-1",
		"email":   "eco@example.com",
		"name":    "Eco Tester",
	})

	var gotUID, gotEmail, gotName string
	handler := FirebaseAuthMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUID, _ = GetUserID(r.Context())
		gotEmail, _ = GetEmail(r.Context())
		gotName, _ = GetDisplayName(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest("GET", "/api/v1/users/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if gotUID != "firebase-uid-1" {
		t.Errorf("uid = %q", gotUID)
	}
	if gotEmail != "eco@example.com" {
		t.Errorf("email = %q", gotEmail)
	}
	if gotName != "Eco Tester" {
		t.Errorf("name = %q", gotName)
	}
}

func TestFirebaseAuthMiddlewareSubFallback(t *testing.T) {
	token := mintToken(t, jwt.MapClaims{"sub": "firebase-uid-2"})

	var gotUID string
	handler := FirebaseAuthMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUID, _ = GetUserID(r.Context())
	}))

	req := httptest.NewRequest("GET", "/api/v1/users/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if gotUID != "firebase-uid-2" {
		t.Errorf("uid = %q, want firebase-uid-2", gotUID)
	}
}

func TestFirebaseAuthMiddlewareNoUserID(t *testing.T) {
	token := mintToken(t, jwt.MapClaims{"email": "nobody@example.com"})

	handler := FirebaseAuthMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler called for token without user id")
	}))

	req := httptest.NewRequest("GET", "/api/v1/users/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestFirebaseAuthMiddlewareGarbageToken(t *testing.T) {
	handler := FirebaseAuthMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler called with garbage token")
	}))

	req := httptest.NewRequest("GET", "/api/v1/users/me", nil)
	req.Header.Set("Authorization", "Bearer not.a.jwt")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestOptionalAuthMiddlewarePassesThrough(t *testing.T) {
	called := false
	handler := OptionalAuthMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		if _, ok := GetUserID(r.Context()); ok {
			t.Error("identity present without a token")
		}
	}))

	req := httptest.NewRequest("GET", "/api/v1/challenges", nil)
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if !called {
		t.Error("next handler not called")
	}
}
