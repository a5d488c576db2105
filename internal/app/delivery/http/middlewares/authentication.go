package middlewares

import (
	"clinic-portal-service/internal/pkg/constvars"
	"clinic-portal-service/internal/pkg/exceptions"
	"clinic-portal-service/internal/pkg/utils"
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"go.uber.org/zap"
)

// Authenticate verifies the bearer access token and stores the caller in the request context.
func (m *Middlewares) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID, _ := r.Context().Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)

		token, ok := bearerToken(r.Header.Get(constvars.HeaderAuthorization))
		if !ok {
			utils.BuildErrorResponse(m.Log, w, exceptions.ErrTokenMissing(errors.New("missing bearer token")))
			return
		}

		user, err := m.TokenVerifier.VerifyAccessToken(r.Context(), token)
		if err != nil {
			m.Log.Info("Middlewares.Authenticate token rejected",
				zap.String(constvars.LoggingRequestIDKey, requestID),
				zap.Error(err),
			)
			utils.BuildErrorResponse(m.Log, w, exceptions.ErrTokenInvalidOrExpired(err))
			return
		}

		ctx := context.WithValue(r.Context(), constvars.CONTEXT_AUTH_USER_KEY, *user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireRoles rejects callers whose role is not in roles. It must run after Authenticate.
func (m *Middlewares) RequireRoles(roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := utils.AuthUserFromContext(r.Context())
			if !ok {
				utils.BuildErrorResponse(m.Log, w, exceptions.ErrTokenMissing(errors.New("no authenticated user in context")))
				return
			}
			if !user.HasRole(roles...) {
				err := fmt.Errorf("role %q not in %v", user.Role, roles)
				utils.BuildErrorResponse(m.Log, w, exceptions.ErrNotMatchRoleType(err))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
