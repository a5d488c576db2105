package controllers

import (
	"clinic-portal-service/internal/app/contracts"
	"clinic-portal-service/internal/pkg/constvars"
	"clinic-portal-service/internal/pkg/utils"
	"context"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"
)

var (
	diagnosticsControllerInstance *DiagnosticsController
	onceDiagnosticsController     sync.Once
)

type DiagnosticsController struct {
	Log                *zap.Logger
	DiagnosticsUsecase contracts.DiagnosticsUsecase
}

func NewDiagnosticsController(logger *zap.Logger, diagnosticsUsecase contracts.DiagnosticsUsecase) *DiagnosticsController {
	onceDiagnosticsController.Do(func() {
		diagnosticsControllerInstance = &DiagnosticsController{
			Log:                logger,
			DiagnosticsUsecase: diagnosticsUsecase,
		}
	})
	return diagnosticsControllerInstance
}

// Run answers 200 for unhealthy results too; each failure is listed in Results.
func (ctrl *DiagnosticsController) Run(w http.ResponseWriter, r *http.Request) {
	requestID, _ := r.Context().Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	timeZone := r.URL.Query().Get(constvars.URLQueryParamTimeZone)
	ctrl.Log.Info("DiagnosticsController.Run called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingTimeZoneKey, timeZone),
	)

	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	result := ctrl.DiagnosticsUsecase.Run(ctx, timeZone)

	message := constvars.DiagnosticsHealthyMessage
	if !result.Healthy {
		message = constvars.DiagnosticsUnhealthyMessage
	}
	utils.BuildSuccessResponse(w, constvars.StatusOK, message, result)
}

// Healthz is the unauthenticated liveness probe.
func (ctrl *DiagnosticsController) Healthz(w http.ResponseWriter, r *http.Request) {
	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.ResponseSuccess, nil)
}
