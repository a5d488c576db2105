package utils

import (
	"clinic-portal-service/internal/app/models"
	"clinic-portal-service/internal/pkg/constvars"
	"clinic-portal-service/internal/pkg/dto/requests"
	"clinic-portal-service/internal/pkg/exceptions"
	"context"
	"net/http"
	"strconv"

	"github.com/goccy/go-json"
)

const (
	defaultPageSize = 20
	maxPageSize     = 200
)

func BuildPaginationRequest(r *http.Request) requests.Pagination {
	pageStr := r.URL.Query().Get("page")
	pageSizeStr := r.URL.Query().Get("page_size")

	page, err := strconv.Atoi(pageStr)
	if err != nil || page <= 0 {
		page = 1
	}

	pageSize, err := strconv.Atoi(pageSizeStr)
	if err != nil || pageSize <= 0 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}

	return requests.Pagination{
		Page:     page,
		PageSize: pageSize,
	}
}

// DecodeAndValidate parses a JSON request body into dst and runs struct validation on it.
func DecodeAndValidate(r *http.Request, dst interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return exceptions.ErrCannotParseJSON(err)
	}
	if err := ValidateStruct(dst); err != nil {
		return exceptions.ErrInputValidation(err)
	}
	return nil
}

func RequestIDFromContext(ctx context.Context) string {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	return requestID
}

// QueryBool reads a boolean query parameter, treating anything unparsable as the default.
func QueryBool(r *http.Request, key string, defaultValue bool) bool {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(raw)
	if err != nil {
		return defaultValue
	}
	return value
}

// AuthUserFromContext returns the caller stored by the Authenticate middleware.
func AuthUserFromContext(ctx context.Context) (models.AuthUser, bool) {
	user, ok := ctx.Value(constvars.CONTEXT_AUTH_USER_KEY).(models.AuthUser)
	return user, ok
}
