package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"go-blog-platform/internal/model"
	"go-blog-platform/pkg/apierror"
)

type identityValidator interface {
	Validate(ctx context.Context, authorizationHeader string) (model.Identity, error)
}

type contextKey string

const identityContextKey contextKey = "auth_identity"

type AuthMiddleware struct {
	validator identityValidator
}

func NewAuthMiddleware(validator identityValidator) *AuthMiddleware {
	return &AuthMiddleware{validator: validator}
}

// RequireAuth rejects malformed Authorization headers locally, without a
// network call, and otherwise defers to the auth service.
func (m *AuthMiddleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := strings.TrimSpace(r.Header.Get("Authorization"))
		if header == "" {
			writeUnauthorized(w, "token is missing")
			return
		}
		if !strings.HasPrefix(header, "Bearer ") {
			writeUnauthorized(w, "invalid token format")
			return
		}

		identity, err := m.validator.Validate(r.Context(), header)
		if err != nil {
			var apiErr *apierror.APIError
			if errors.As(err, &apiErr) {
				writeUnauthorized(w, apiErr.Message)
			} else {
				writeUnauthorized(w, "token validation failed")
			}
			return
		}

		ctx := context.WithValue(r.Context(), identityContextKey, identity)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func IdentityFromContext(ctx context.Context) (model.Identity, bool) {
	identity, ok := ctx.Value(identityContextKey).(model.Identity)
	return identity, ok
}

func writeUnauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(model.ErrorResponse{
		Error: &model.APIError{Code: "UNAUTHORIZED", Message: message},
	})
}
