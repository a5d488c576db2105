package controllers

import (
	"clinic-portal-service/internal/pkg/exceptions"
	"clinic-portal-service/internal/pkg/utils"
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"
)

const requestTimeout = 10 * time.Second

// writeError maps an expired handler deadline to 504 and hands everything else to BuildErrorResponse.
func writeError(log *zap.Logger, w http.ResponseWriter, err error) {
	if errors.Is(err, context.DeadlineExceeded) {
		utils.BuildErrorResponse(log, w, exceptions.ErrServerDeadlineExceeded(err))
		return
	}
	utils.BuildErrorResponse(log, w, err)
}

// queryTime parses an optional RFC3339 query parameter.
func queryTime(r *http.Request, key string) (*time.Time, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, exceptions.ErrQueryParamValidation(err, key)
	}
	return &t, nil
}

func queryInt(r *http.Request, key string, defaultValue int) (int, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, exceptions.ErrQueryParamValidation(err, key)
	}
	return n, nil
}
