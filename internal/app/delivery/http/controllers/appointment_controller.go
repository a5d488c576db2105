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
	appointmentControllerInstance *AppointmentController
	onceAppointmentController     sync.Once
)

type AppointmentController struct {
	Log                *zap.Logger
	AppointmentUsecase contracts.AppointmentUsecase
}

func NewAppointmentController(logger *zap.Logger, appointmentUsecase contracts.AppointmentUsecase) *AppointmentController {
	onceAppointmentController.Do(func() {
		appointmentControllerInstance = &AppointmentController{
			Log:                logger,
			AppointmentUsecase: appointmentUsecase,
		}
	})
	return appointmentControllerInstance
}

func (ctrl *AppointmentController) FindAll(w http.ResponseWriter, r *http.Request) {
	requestID, _ := r.Context().Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	ctrl.Log.Info("AppointmentController.FindAll called",
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

	filter := requests.AppointmentFilter{
		ClinicianID: r.URL.Query().Get(constvars.URLQueryParamClinicianID),
		ClientID:    r.URL.Query().Get(constvars.URLQueryParamClientID),
		Status:      r.URL.Query().Get(constvars.URLQueryParamStatus),
		From:        from,
		To:          to,
		Pagination:  utils.BuildPaginationRequest(r),
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	result, total, err := ctrl.AppointmentUsecase.List(ctx, filter)
	if err != nil {
		writeError(ctrl.Log, w, err)
		return
	}

	pagination := utils.BuildPaginationResponse(total, filter.Pagination.Page, filter.Pagination.PageSize, r.URL.Path)
	utils.BuildSuccessResponseWithPagination(w, constvars.StatusOK, constvars.GetAppointmentsSuccessfully, pagination, result)
}

func (ctrl *AppointmentController) FindByID(w http.ResponseWriter, r *http.Request) {
	requestID, _ := r.Context().Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	appointmentID := chi.URLParam(r, constvars.URLParamID)
	ctrl.Log.Info("AppointmentController.FindByID called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingAppointmentIDKey, appointmentID),
	)

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	result, err := ctrl.AppointmentUsecase.Get(ctx, appointmentID)
	if err != nil {
		writeError(ctrl.Log, w, err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.GetAppointmentSuccessfully, result)
}

func (ctrl *AppointmentController) Create(w http.ResponseWriter, r *http.Request) {
	requestID, _ := r.Context().Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	ctrl.Log.Info("AppointmentController.Create called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
	)

	request := new(requests.CreateAppointment)
	if err := utils.DecodeAndValidate(r, request); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	result, err := ctrl.AppointmentUsecase.Create(ctx, request)
	if err != nil {
		writeError(ctrl.Log, w, err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusCreated, constvars.CreateAppointmentSuccessMessage, result)
}

func (ctrl *AppointmentController) Update(w http.ResponseWriter, r *http.Request) {
	requestID, _ := r.Context().Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	appointmentID := chi.URLParam(r, constvars.URLParamID)
	ctrl.Log.Info("AppointmentController.Update called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingAppointmentIDKey, appointmentID),
	)

	request := new(requests.UpdateAppointment)
	if err := utils.DecodeAndValidate(r, request); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	result, err := ctrl.AppointmentUsecase.Update(ctx, appointmentID, request)
	if err != nil {
		writeError(ctrl.Log, w, err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.UpdateAppointmentSuccessMessage, result)
}

func (ctrl *AppointmentController) Delete(w http.ResponseWriter, r *http.Request) {
	requestID, _ := r.Context().Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	appointmentID := chi.URLParam(r, constvars.URLParamID)
	ctrl.Log.Info("AppointmentController.Delete called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingAppointmentIDKey, appointmentID),
	)

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	if err := ctrl.AppointmentUsecase.Delete(ctx, appointmentID); err != nil {
		writeError(ctrl.Log, w, err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.DeleteAppointmentSuccessMessage, nil)
}
