package controllers

import (
	"clinic-portal-service/internal/app/contracts"
	"clinic-portal-service/internal/pkg/constvars"
	"clinic-portal-service/internal/pkg/dto/requests"
	"clinic-portal-service/internal/pkg/utils"
	"context"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

var (
	availabilityControllerInstance *AvailabilityController
	onceAvailabilityController     sync.Once
)

type AvailabilityController struct {
	Log                 *zap.Logger
	AvailabilityUsecase contracts.AvailabilityUsecase
}

func NewAvailabilityController(logger *zap.Logger, availabilityUsecase contracts.AvailabilityUsecase) *AvailabilityController {
	onceAvailabilityController.Do(func() {
		availabilityControllerInstance = &AvailabilityController{
			Log:                 logger,
			AvailabilityUsecase: availabilityUsecase,
		}
	})
	return availabilityControllerInstance
}

func (ctrl *AvailabilityController) GetWeekly(w http.ResponseWriter, r *http.Request) {
	requestID, _ := r.Context().Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	clinicianID := chi.URLParam(r, constvars.URLParamClinicianID)
	ctrl.Log.Info("AvailabilityController.GetWeekly called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingClinicianIDKey, clinicianID),
	)

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	result, err := ctrl.AvailabilityUsecase.GetWeeklyAvailability(ctx, clinicianID)
	if err != nil {
		writeError(ctrl.Log, w, err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.GetWeeklyAvailabilitySuccessfully, result)
}

func (ctrl *AvailabilityController) UpsertWeekly(w http.ResponseWriter, r *http.Request) {
	requestID, _ := r.Context().Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	clinicianID := chi.URLParam(r, constvars.URLParamClinicianID)
	ctrl.Log.Info("AvailabilityController.UpsertWeekly called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingClinicianIDKey, clinicianID),
	)

	request := new(requests.UpsertWeeklyAvailability)
	if err := utils.DecodeAndValidate(r, request); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	result, err := ctrl.AvailabilityUsecase.UpsertWeeklyAvailability(ctx, clinicianID, request)
	if err != nil {
		writeError(ctrl.Log, w, err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.UpsertWeeklyAvailabilitySuccessMessage, result)
}

// GetCalendar expands the clinician's weekly pattern into concrete events for the requested window.
func (ctrl *AvailabilityController) GetCalendar(w http.ResponseWriter, r *http.Request) {
	requestID, _ := r.Context().Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)

	weeks, err := queryInt(r, constvars.URLQueryParamWeeks, 0)
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}
	if weeks > constvars.AvailabilityMaxWeeksToShow {
		weeks = constvars.AvailabilityMaxWeeksToShow
	}

	query := requests.CalendarQuery{
		ClinicianID:         chi.URLParam(r, constvars.URLParamClinicianID),
		TimeZone:            r.URL.Query().Get(constvars.URLQueryParamTimeZone),
		WeeksToShow:         weeks,
		IncludeAppointments: utils.QueryBool(r, constvars.URLQueryParamIncludeAppointments, false),
	}
	ctrl.Log.Info("AvailabilityController.GetCalendar called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingClinicianIDKey, query.ClinicianID),
		zap.String(constvars.LoggingTimeZoneKey, query.TimeZone),
		zap.Int(constvars.LoggingWeeksToShowKey, query.WeeksToShow),
	)

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	result, err := ctrl.AvailabilityUsecase.GetCalendar(ctx, query)
	if err != nil {
		writeError(ctrl.Log, w, err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.GetCalendarSuccessfully, result)
}

func (ctrl *AvailabilityController) ListExceptions(w http.ResponseWriter, r *http.Request) {
	requestID, _ := r.Context().Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	clinicianID := chi.URLParam(r, constvars.URLParamClinicianID)
	ctrl.Log.Info("AvailabilityController.ListExceptions called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingClinicianIDKey, clinicianID),
	)

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	result, err := ctrl.AvailabilityUsecase.ListExceptions(ctx, clinicianID)
	if err != nil {
		writeError(ctrl.Log, w, err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.GetAvailabilityExceptionsSuccessfully, result)
}

func (ctrl *AvailabilityController) CreateException(w http.ResponseWriter, r *http.Request) {
	requestID, _ := r.Context().Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	clinicianID := chi.URLParam(r, constvars.URLParamClinicianID)
	ctrl.Log.Info("AvailabilityController.CreateException called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingClinicianIDKey, clinicianID),
	)

	request := new(requests.CreateAvailabilityException)
	if err := utils.DecodeAndValidate(r, request); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	result, err := ctrl.AvailabilityUsecase.CreateException(ctx, clinicianID, request)
	if err != nil {
		writeError(ctrl.Log, w, err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusCreated, constvars.CreateAvailabilityExceptionSuccess, result)
}

func (ctrl *AvailabilityController) DeleteException(w http.ResponseWriter, r *http.Request) {
	requestID, _ := r.Context().Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	clinicianID := chi.URLParam(r, constvars.URLParamClinicianID)
	exceptionID := chi.URLParam(r, constvars.URLParamExceptionID)
	ctrl.Log.Info("AvailabilityController.DeleteException called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingClinicianIDKey, clinicianID),
		zap.String(constvars.LoggingExceptionIDKey, exceptionID),
	)

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	if err := ctrl.AvailabilityUsecase.DeleteException(ctx, clinicianID, exceptionID); err != nil {
		writeError(ctrl.Log, w, err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.DeleteAvailabilityExceptionSuccess, nil)
}
