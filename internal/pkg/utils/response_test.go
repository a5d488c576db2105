package utils

import (
	"clinic-portal-service/internal/pkg/constvars"
	"clinic-portal-service/internal/pkg/exceptions"
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestBuildErrorResponse(t *testing.T) {
	t.Setenv("APP_ENV", constvars.AppEnvProduction)

	t.Run("Custom Error Keeps Status And Client Message", func(t *testing.T) {
		rr := httptest.NewRecorder()
		BuildErrorResponse(zap.NewNop(), rr, exceptions.ErrSupabaseNotFound(errors.New("no rows"), constvars.TableClients))

		assert.Equal(t, constvars.StatusNotFound, rr.Code)

		var body map[string]interface{}
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
		assert.Equal(t, constvars.ErrClientResourceNotFound, body["message"])
		assert.Equal(t, false, body["success"])
		_, hasDev := body["dev_message"]
		assert.False(t, hasDev, "dev message must be hidden in production")
	})

	t.Run("Foreign Error Maps To 500", func(t *testing.T) {
		rr := httptest.NewRecorder()
		BuildErrorResponse(zap.NewNop(), rr, errors.New("boom"))

		assert.Equal(t, constvars.StatusInternalServerError, rr.Code)
	})
}

func TestBuildPaginationResponse(t *testing.T) {
	pagination := BuildPaginationResponse(45, 2, 20, "/api/v1/clients")

	assert.Equal(t, "/api/v1/clients?page=3&page_size=20", pagination.NextURL)
	assert.Equal(t, "/api/v1/clients?page=1&page_size=20", pagination.PrevURL)

	last := BuildPaginationResponse(45, 3, 20, "/api/v1/clients")
	assert.Empty(t, last.NextURL)
}
