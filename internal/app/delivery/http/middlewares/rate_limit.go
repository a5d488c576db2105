package middlewares

import (
	"clinic-portal-service/internal/pkg/utils"
	"net/http"
	"time"

	"github.com/go-chi/httprate"
)

// LimitByIP applies the global per-IP request budget.
func (m *Middlewares) LimitByIP() func(next http.Handler) http.Handler {
	return httprate.LimitByIP(m.InternalConfig.App.MaxRequests, time.Second)
}

// LimitByUser budgets authenticated callers by user id, falling back to the client IP.
// It must run after Authenticate.
func (m *Middlewares) LimitByUser(requestLimit int, window time.Duration) func(next http.Handler) http.Handler {
	return httprate.Limit(requestLimit, window,
		httprate.WithKeyFuncs(func(r *http.Request) (string, error) {
			if user, ok := utils.AuthUserFromContext(r.Context()); ok {
				return "user:" + user.ID, nil
			}
			return httprate.KeyByIP(r)
		}),
	)
}
