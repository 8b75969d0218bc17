package utils

import (
	"context"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// AuthPayload identifies the authenticated coach account and its team
type AuthPayload struct {
	UserID string
	TeamID string
}

type contextKey string

const authContextKey contextKey = "authPayload"

func jwtSecret() []byte {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		secret = "dev-secret-change-me"
	}
	return []byte(secret)
}

// GenerateToken signs a 7-day JWT carrying the user and team identifiers
func GenerateToken(payload AuthPayload) (string, error) {
	claims := jwt.MapClaims{
		"userId": payload.UserID,
		"teamId": payload.TeamID,
		"exp":    time.Now().Add(7 * 24 * time.Hour).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(jwtSecret())
}

// AuthMiddleware validates the Bearer token and injects the AuthPayload
// into the request context for team-scoped handlers.
func AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			http.Error(w, `{"error": "Missing or invalid authorization header"}`, http.StatusUnauthorized)
			return
		}

		tokenString := strings.TrimPrefix(header, "Bearer ")
		token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
			return jwtSecret(), nil
		}, jwt.WithValidMethods([]string{"HS256"}))
		if err != nil || !token.Valid {
			http.Error(w, `{"error": "Invalid or expired token"}`, http.StatusUnauthorized)
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			http.Error(w, `{"error": "Invalid or expired token"}`, http.StatusUnauthorized)
			return
		}
		userID, _ := claims["userId"].(string)
		teamID, _ := claims["teamId"].(string)
		if userID == "" || teamID == "" {
			http.Error(w, `{"error": "Invalid or expired token"}`, http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), authContextKey, AuthPayload{UserID: userID, TeamID: teamID})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// AuthFromContext returns the payload stored by AuthMiddleware
func AuthFromContext(ctx context.Context) (AuthPayload, bool) {
	payload, ok := ctx.Value(authContextKey).(AuthPayload)
	return payload, ok
}
