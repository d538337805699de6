package middleware

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strings"

	firebase "firebase.google.com/go/v4"
	firebaseauth "firebase.google.com/go/v4/auth"
	"github.com/golang-jwt/jwt/v5"
	"google.golang.org/api/option"
)

type contextKey string

const (
	UserIDKey      contextKey = "userID"
	EmailKey       contextKey = "email"
	DisplayNameKey contextKey = "displayName"
)

var authClient *firebaseauth.Client

// InitFirebaseAuth wires up ID-token verification against Firebase. When it
// is never called (no credentials configured), the middleware falls back to
// unverified claim extraction, which is only acceptable for local
// development.
func InitFirebaseAuth(ctx context.Context, credentialsFile string) error {
	app, err := firebase.NewApp(ctx, nil, option.WithCredentialsFile(credentialsFile))
	if err != nil {
		return fmt.Errorf("failed to initialize firebase app: %w", err)
	}
	client, err := app.Auth(ctx)
	if err != nil {
		return fmt.Errorf("failed to initialize firebase auth client: %w", err)
	}
	authClient = client
	return nil
}

type tokenIdentity struct {
	UID         string
	Email       string
	DisplayName string
}

// FirebaseAuthMiddleware validates the bearer token and stores the caller's
// identity in the request context.
func FirebaseAuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			respondWithError(w, http.StatusUnauthorized, "Authorization header required")
			return
		}

		token := strings.TrimPrefix(authHeader, "Bearer ")
		if token == authHeader {
			respondWithError(w, http.StatusUnauthorized, "Invalid authorization format. Use 'Bearer <token>'")
			return
		}

		identity, err := verifyToken(r.Context(), token)
		if err != nil {
			log.Printf("Token verification failed: %v", err)
			respondWithError(w, http.StatusUnauthorized, "Invalid or expired token")
			return
		}

		next.ServeHTTP(w, r.WithContext(withIdentity(r.Context(), identity)))
	})
}

// OptionalAuthMiddleware attaches the identity when a valid token is present
// and lets the request through either way.
func OptionalAuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader != "" {
			token := strings.TrimPrefix(authHeader, "Bearer ")
			if identity, err := verifyToken(r.Context(), token); err == nil {
				r = r.WithContext(withIdentity(r.Context(), identity))
			}
		}
		next.ServeHTTP(w, r)
	})
}

func withIdentity(ctx context.Context, id *tokenIdentity) context.Context {
	ctx = context.WithValue(ctx, UserIDKey, id.UID)
	ctx = context.WithValue(ctx, EmailKey, id.Email)
	ctx = context.WithValue(ctx, DisplayNameKey, id.DisplayName)
	return ctx
}

func verifyToken(ctx context.Context, token string) (*tokenIdentity, error) {
	if authClient != nil {
		verified, err := authClient.VerifyIDToken(ctx, token)
		if err != nil {
			return nil, err
		}
		id := &tokenIdentity{UID: verified.UID}
		if v, ok := verified.Claims["email"].(string); ok {
			id.Email = v
		}
		if v, ok := verified.Claims["name"].(string); ok {
			id.DisplayName = v
		}
		return id, nil
	}
	return decodeUnverified(token)
}

// decodeUnverified pulls identity claims out of the JWT payload without
// checking the signature. Dev-mode only.
func decodeUnverified(token string) (*tokenIdentity, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	id := &tokenIdentity{}
	for _, key := range []string{"user_id", "uid", "sub"} {
		if v, ok := claims[key].(string); ok && v != "" {
			id.UID = v
			break
		}
	}
	if id.UID == "" {
		return nil, fmt.Errorf("token carries no user id")
	}
	if v, ok := claims["email"].(string); ok {
		id.Email = v
	}
	if v, ok := claims["name"].(string); ok {
		id.DisplayName = v
	}
	return id, nil
}

// GetUserID extracts the authenticated user ID from context.
func GetUserID(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(UserIDKey).(string)
	return userID, ok && userID != ""
}

// GetEmail extracts the authenticated user's email from context.
func GetEmail(ctx context.Context) (string, bool) {
	email, ok := ctx.Value(EmailKey).(string)
	return email, ok
}

// GetDisplayName extracts the authenticated user's display name from context.
func GetDisplayName(ctx context.Context) (string, bool) {
	name, ok := ctx.Value(DisplayNameKey).(string)
	return name, ok
}

func respondWithError(w http.ResponseWriter, code int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write([]byte(fmt.Sprintf(`{"error": "%s"}`, message)))
}
