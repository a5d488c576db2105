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
	assessmentControllerInstance *AssessmentController
	onceAssessmentController     sync.Once
)

type AssessmentController struct {
	Log               *zap.Logger
	AssessmentUsecase contracts.AssessmentUsecase
}

func NewAssessmentController(logger *zap.Logger, assessmentUsecase contracts.AssessmentUsecase) *AssessmentController {
	onceAssessmentController.Do(func() {
		assessmentControllerInstance = &AssessmentController{
			Log:               logger,
			AssessmentUsecase: assessmentUsecase,
		}
	})
	return assessmentControllerInstance
}

func (ctrl *AssessmentController) FindAll(w http.ResponseWriter, r *http.Request) {
	requestID, _ := r.Context().Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	ctrl.Log.Info("AssessmentController.FindAll called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingQueryParamsKey, r.URL.RawQuery),
	)

	filter := requests.AssessmentFilter{
		ClientID:    r.URL.Query().Get(constvars.URLQueryParamClientID),
		ClinicianID: r.URL.Query().Get(constvars.URLQueryParamClinicianID),
		Instrument:  r.URL.Query().Get(constvars.URLQueryParamInstrument),
		Pagination:  utils.BuildPaginationRequest(r),
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	result, total, err := ctrl.AssessmentUsecase.List(ctx, filter)
	if err != nil {
		writeError(ctrl.Log, w, err)
		return
	}

	pagination := utils.BuildPaginationResponse(total, filter.Pagination.Page, filter.Pagination.PageSize, r.URL.Path)
	utils.BuildSuccessResponseWithPagination(w, constvars.StatusOK, constvars.GetAssessmentsSuccessfully, pagination, result)
}

func (ctrl *AssessmentController) FindByID(w http.ResponseWriter, r *http.Request) {
	requestID, _ := r.Context().Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	assessmentID := chi.URLParam(r, constvars.URLParamID)
	ctrl.Log.Info("AssessmentController.FindByID called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingAssessmentIDKey, assessmentID),
	)

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	result, err := ctrl.AssessmentUsecase.Get(ctx, assessmentID)
	if err != nil {
		writeError(ctrl.Log, w, err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.GetAssessmentSuccessfully, result)
}

func (ctrl *AssessmentController) Create(w http.ResponseWriter, r *http.Request) {
	requestID, _ := r.Context().Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	ctrl.Log.Info("AssessmentController.Create called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
	)

	request := new(requests.CreateAssessment)
	if err := utils.DecodeAndValidate(r, request); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	result, err := ctrl.AssessmentUsecase.Create(ctx, request)
	if err != nil {
		writeError(ctrl.Log, w, err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusCreated, constvars.CreateAssessmentSuccessMessage, result)
}

func (ctrl *AssessmentController) Update(w http.ResponseWriter, r *http.Request) {
	requestID, _ := r.Context().Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	assessmentID := chi.URLParam(r, constvars.URLParamID)
	ctrl.Log.Info("AssessmentController.Update called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingAssessmentIDKey, assessmentID),
	)

	request := new(requests.UpdateAssessment)
	if err := utils.DecodeAndValidate(r, request); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	result, err := ctrl.AssessmentUsecase.Update(ctx, assessmentID, request)
	if err != nil {
		writeError(ctrl.Log, w, err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.UpdateAssessmentSuccessMessage, result)
}

func (ctrl *AssessmentController) Delete(w http.ResponseWriter, r *http.Request) {
	requestID, _ := r.Context().Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	assessmentID := chi.URLParam(r, constvars.URLParamID)
	ctrl.Log.Info("AssessmentController.Delete called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingAssessmentIDKey, assessmentID),
	)

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	if err := ctrl.AssessmentUsecase.Delete(ctx, assessmentID); err != nil {
		writeError(ctrl.Log, w, err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.DeleteAssessmentSuccessMessage, nil)
}
