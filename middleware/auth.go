package middleware

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/billow-homes/homes-api/controllers"
	"github.com/billow-homes/homes-api/models"
	"github.com/billow-homes/homes-api/utils"
	"github.com/gorilla/mux"
)

// Auth rejects requests without a valid bearer token signed with key and
// otherwise passes them on with the caller's user ID in the context.
func Auth(key []byte) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenHeader := r.Header.Get("Authorization")
			if tokenHeader == "" {
				log.Printf("Missing Authorization header from request %s %s", r.Method, r.URL)
				controllers.WriteError(w, r, fmt.Errorf("missing Authorization header: %w", models.ErrUnauthorized))
				return
			}

			tokenParts := strings.Split(tokenHeader, " ")
			if len(tokenParts) != 2 || tokenParts[0] != "Bearer" {
				log.Printf("Invalid Authorization header format from request %s %s", r.Method, r.URL)
				controllers.WriteError(w, r, fmt.Errorf("invalid Authorization header format: %w", models.ErrUnauthorized))
				return
			}

			claims, err := utils.ValidateJWT(key, tokenParts[1])
			if err != nil {
				log.Printf("Invalid or expired token: %v", err)
				controllers.WriteError(w, r, fmt.Errorf("invalid or expired token: %w", models.ErrUnauthorized))
				return
			}

			ctx := context.WithValue(r.Context(), controllers.UserIDKey, claims.UserID)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
