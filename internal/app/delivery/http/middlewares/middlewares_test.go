package middlewares

import (
	"clinic-portal-service/internal/app/config"
	"clinic-portal-service/internal/app/models"
	"clinic-portal-service/internal/app/services/shared/metrics"
	"clinic-portal-service/internal/app/services/shared/requestqueue"
	"clinic-portal-service/internal/pkg/constvars"
	"clinic-portal-service/internal/pkg/utils"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type MockTokenVerifier struct {
	mock.Mock
}

func (m *MockTokenVerifier) VerifyAccessToken(ctx context.Context, token string) (*models.AuthUser, error) {
	args := m.Called(ctx, token)
	if user, ok := args.Get(0).(*models.AuthUser); ok {
		return user, args.Error(1)
	}
	return nil, args.Error(1)
}

func setupMiddlewares(verifier TokenVerifier) *Middlewares {
	return &Middlewares{
		Log: zap.NewNop(),
		InternalConfig: &config.InternalConfig{
			App: config.App{MaxRequests: 100, RequestBodyLimitInMegabyte: 1},
		},
		TokenVerifier: verifier,
	}
}

func okHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func TestAuthenticate(t *testing.T) {
	t.Run("Missing Header", func(t *testing.T) {
		verifier := new(MockTokenVerifier)
		m := setupMiddlewares(verifier)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/clients", nil)
		rr := httptest.NewRecorder()
		m.Authenticate(http.HandlerFunc(okHandler)).ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		verifier.AssertNotCalled(t, "VerifyAccessToken", mock.Anything, mock.Anything)
	})

	t.Run("Non Bearer Scheme", func(t *testing.T) {
		verifier := new(MockTokenVerifier)
		m := setupMiddlewares(verifier)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/clients", nil)
		req.Header.Set(constvars.HeaderAuthorization, "Basic dXNlcjpwYXNz")
		rr := httptest.NewRecorder()
		m.Authenticate(http.HandlerFunc(okHandler)).ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("Invalid Token", func(t *testing.T) {
		verifier := new(MockTokenVerifier)
		verifier.On("VerifyAccessToken", mock.Anything, "bad").Return(nil, errors.New("signature is invalid"))
		m := setupMiddlewares(verifier)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/clients", nil)
		req.Header.Set(constvars.HeaderAuthorization, "Bearer bad")
		rr := httptest.NewRecorder()
		m.Authenticate(http.HandlerFunc(okHandler)).ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		verifier.AssertExpectations(t)
	})

	t.Run("Valid Token Stores User", func(t *testing.T) {
		verifier := new(MockTokenVerifier)
		verifier.On("VerifyAccessToken", mock.Anything, "good").
			Return(&models.AuthUser{ID: "u-1", Role: constvars.RoleClinician, AccessToken: "good"}, nil)
		m := setupMiddlewares(verifier)

		var got models.AuthUser
		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := utils.AuthUserFromContext(r.Context())
			require.True(t, ok)
			got = user
			w.WriteHeader(http.StatusOK)
		})

		req := httptest.NewRequest(http.MethodGet, "/api/v1/clients", nil)
		req.Header.Set(constvars.HeaderAuthorization, "bearer good")
		rr := httptest.NewRecorder()
		m.Authenticate(next).ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "u-1", got.ID)
		assert.Equal(t, "good", got.AccessToken)
	})
}

func TestRequireRoles(t *testing.T) {
	m := setupMiddlewares(nil)
	handler := m.RequireRoles(constvars.RoleAdmin)(http.HandlerFunc(okHandler))

	tests := []struct {
		name     string
		user     *models.AuthUser
		expected int
	}{
		{name: "No User", user: nil, expected: http.StatusUnauthorized},
		{name: "Wrong Role", user: &models.AuthUser{ID: "u-1", Role: constvars.RoleClient}, expected: http.StatusForbidden},
		{name: "Admin", user: &models.AuthUser{ID: "u-2", Role: constvars.RoleAdmin}, expected: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/diagnostics", nil)
			if tt.user != nil {
				req = req.WithContext(context.WithValue(req.Context(), constvars.CONTEXT_AUTH_USER_KEY, *tt.user))
			}
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)
			assert.Equal(t, tt.expected, rr.Code)
		})
	}
}

func TestRequestIDMiddleware(t *testing.T) {
	m := setupMiddlewares(nil)

	t.Run("Keeps Client Request ID", func(t *testing.T) {
		var seen string
		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			seen, _ = r.Context().Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
		})
		req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
		req.Header.Set(constvars.HeaderXRequestID, "req-123")
		rr := httptest.NewRecorder()
		m.RequestIDMiddleware(next).ServeHTTP(rr, req)

		assert.Equal(t, "req-123", seen)
		assert.Equal(t, "req-123", rr.Header().Get(constvars.HeaderXRequestID))
	})

	t.Run("Generates Request ID", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
		rr := httptest.NewRecorder()
		m.RequestIDMiddleware(http.HandlerFunc(okHandler)).ServeHTTP(rr, req)

		assert.NotEmpty(t, rr.Header().Get(constvars.HeaderXRequestID))
	})
}

func TestRequestPriority(t *testing.T) {
	m := setupMiddlewares(nil)

	tests := []struct {
		name     string
		header   string
		expected requestqueue.Priority
	}{
		{name: "Default High", header: "", expected: requestqueue.PriorityHigh},
		{name: "Explicit Low", header: "low", expected: requestqueue.PriorityLow},
		{name: "Unknown Normal", header: "urgent", expected: requestqueue.PriorityNormal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got requestqueue.Priority
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				got = requestqueue.PriorityFromContext(r.Context())
			})
			req := httptest.NewRequest(http.MethodGet, "/api/v1/clients", nil)
			if tt.header != "" {
				req.Header.Set(headerRequestPriority, tt.header)
			}
			m.RequestPriority(next).ServeHTTP(httptest.NewRecorder(), req)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestBodyLimit(t *testing.T) {
	m := setupMiddlewares(nil)

	var readErr error
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, readErr = io.ReadAll(r.Body)
	})

	body := strings.NewReader(strings.Repeat("a", (1<<20)+1))
	req := httptest.NewRequest(http.MethodPost, "/api/v1/clients", body)
	m.BodyLimit(next).ServeHTTP(httptest.NewRecorder(), req)

	var maxErr *http.MaxBytesError
	assert.True(t, errors.As(readErr, &maxErr))
}

func TestErrorHandler(t *testing.T) {
	m := setupMiddlewares(nil)
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/clients", nil)
	rr := httptest.NewRecorder()
	m.ErrorHandler(next).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Contains(t, rr.Body.String(), `"success":false`)
}

func TestLoggingRecordsRoutePattern(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	m := setupMiddlewares(nil)
	m.Metrics = metrics.NewHTTPMetrics(prometheus.NewRegistry())

	router := chi.NewRouter()
	router.Use(m.Logging(zap.New(core)))
	router.Get("/clients/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	req := httptest.NewRequest(http.MethodGet, "/clients/c-1", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusNotFound, rr.Code)
	completed := logs.FilterMessage("API request completed").All()
	require.Len(t, completed, 1)
	assert.Equal(t, int64(http.StatusNotFound), completed[0].ContextMap()[constvars.LoggingStatusCodeKey])
	assert.Equal(t, false, completed[0].ContextMap()[constvars.LoggingSuccessKey])
}
