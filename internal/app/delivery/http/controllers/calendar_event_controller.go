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
	calendarEventControllerInstance *CalendarEventController
	onceCalendarEventController     sync.Once
)

type CalendarEventController struct {
	Log                  *zap.Logger
	CalendarEventUsecase contracts.CalendarEventUsecase
}

func NewCalendarEventController(logger *zap.Logger, calendarEventUsecase contracts.CalendarEventUsecase) *CalendarEventController {
	onceCalendarEventController.Do(func() {
		calendarEventControllerInstance = &CalendarEventController{
			Log:                  logger,
			CalendarEventUsecase: calendarEventUsecase,
		}
	})
	return calendarEventControllerInstance
}

func (ctrl *CalendarEventController) FindAll(w http.ResponseWriter, r *http.Request) {
	requestID, _ := r.Context().Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	ctrl.Log.Info("CalendarEventController.FindAll called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingQueryParamsKey, r.URL.RawQuery),
	)

	from, err := queryTime(r, constvars.URLQueryParamFrom)
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}
	to, err := queryTime(r, constvars.URLQueryParamTo)
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	filter := requests.CalendarEventFilter{
		ClinicianID: r.URL.Query().Get(constvars.URLQueryParamClinicianID),
		From:        from,
		To:          to,
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	result, err := ctrl.CalendarEventUsecase.List(ctx, filter)
	if err != nil {
		writeError(ctrl.Log, w, err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.GetCalendarEventsSuccessfully, result)
}

func (ctrl *CalendarEventController) Create(w http.ResponseWriter, r *http.Request) {
	requestID, _ := r.Context().Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	ctrl.Log.Info("CalendarEventController.Create called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
	)

	request := new(requests.CreateCalendarEvent)
	if err := utils.DecodeAndValidate(r, request); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	result, err := ctrl.CalendarEventUsecase.Create(ctx, request)
	if err != nil {
		writeError(ctrl.Log, w, err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusCreated, constvars.CreateCalendarEventSuccessMessage, result)
}

func (ctrl *CalendarEventController) Update(w http.ResponseWriter, r *http.Request) {
	requestID, _ := r.Context().Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	eventID := chi.URLParam(r, constvars.URLParamID)
	ctrl.Log.Info("CalendarEventController.Update called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingCalendarEventIDKey, eventID),
	)

	request := new(requests.UpdateCalendarEvent)
	if err := utils.DecodeAndValidate(r, request); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	result, err := ctrl.CalendarEventUsecase.Update(ctx, eventID, request)
	if err != nil {
		writeError(ctrl.Log, w, err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.UpdateCalendarEventSuccessMessage, result)
}

func (ctrl *CalendarEventController) Delete(w http.ResponseWriter, r *http.Request) {
	requestID, _ := r.Context().Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	eventID := chi.URLParam(r, constvars.URLParamID)
	ctrl.Log.Info("CalendarEventController.Delete called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingCalendarEventIDKey, eventID),
	)

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	if err := ctrl.CalendarEventUsecase.Delete(ctx, eventID); err != nil {
		writeError(ctrl.Log, w, err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.DeleteCalendarEventSuccessMessage, nil)
}
