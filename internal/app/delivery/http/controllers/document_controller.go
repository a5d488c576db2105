package controllers

import (
	"clinic-portal-service/internal/app/contracts"
	"clinic-portal-service/internal/pkg/constvars"
	"clinic-portal-service/internal/pkg/dto/requests"
	"clinic-portal-service/internal/pkg/utils"
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Synchronous generation waits on the headless browser.
const renderRequestTimeout = 60 * time.Second

var (
	documentControllerInstance *DocumentController
	onceDocumentController     sync.Once
)

type DocumentController struct {
	Log             *zap.Logger
	DocumentUsecase contracts.DocumentUsecase
}

func NewDocumentController(logger *zap.Logger, documentUsecase contracts.DocumentUsecase) *DocumentController {
	onceDocumentController.Do(func() {
		documentControllerInstance = &DocumentController{
			Log:             logger,
			DocumentUsecase: documentUsecase,
		}
	})
	return documentControllerInstance
}

func (ctrl *DocumentController) FindAll(w http.ResponseWriter, r *http.Request) {
	requestID, _ := r.Context().Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	ctrl.Log.Info("DocumentController.FindAll called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingQueryParamsKey, r.URL.RawQuery),
	)

	filter := requests.DocumentFilter{
		ClientID:    r.URL.Query().Get(constvars.URLQueryParamClientID),
		ClinicianID: r.URL.Query().Get(constvars.URLQueryParamClinicianID),
		Template:    r.URL.Query().Get(constvars.URLQueryParamTemplate),
		Pagination:  utils.BuildPaginationRequest(r),
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	result, total, err := ctrl.DocumentUsecase.List(ctx, filter)
	if err != nil {
		writeError(ctrl.Log, w, err)
		return
	}

	pagination := utils.BuildPaginationResponse(total, filter.Pagination.Page, filter.Pagination.PageSize, r.URL.Path)
	utils.BuildSuccessResponseWithPagination(w, constvars.StatusOK, constvars.GetDocumentsSuccessfully, pagination, result)
}

func (ctrl *DocumentController) FindByID(w http.ResponseWriter, r *http.Request) {
	requestID, _ := r.Context().Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	documentID := chi.URLParam(r, constvars.URLParamID)
	ctrl.Log.Info("DocumentController.FindByID called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingDocumentIDKey, documentID),
	)

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	result, err := ctrl.DocumentUsecase.Get(ctx, documentID)
	if err != nil {
		writeError(ctrl.Log, w, err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.GetDocumentSuccessfully, result)
}

// Generate answers 201 with a ready document, or 202 with a pending one when the render was queued.
func (ctrl *DocumentController) Generate(w http.ResponseWriter, r *http.Request) {
	requestID, _ := r.Context().Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)

	request := new(requests.GenerateDocument)
	if err := utils.DecodeAndValidate(r, request); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}
	ctrl.Log.Info("DocumentController.Generate called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingTemplateKey, request.Template),
		zap.String(constvars.LoggingClientIDKey, request.ClientID),
		zap.Bool("async", request.Async),
	)

	ctx, cancel := context.WithTimeout(r.Context(), renderRequestTimeout)
	defer cancel()

	result, err := ctrl.DocumentUsecase.Generate(ctx, request)
	if err != nil {
		writeError(ctrl.Log, w, err)
		return
	}

	if result.Status == constvars.DocumentStatusPending {
		utils.BuildSuccessResponse(w, constvars.StatusAccepted, constvars.QueueDocumentSuccessMessage, result)
		return
	}
	utils.BuildSuccessResponse(w, constvars.StatusCreated, constvars.GenerateDocumentSuccessMessage, result)
}

func (ctrl *DocumentController) Download(w http.ResponseWriter, r *http.Request) {
	requestID, _ := r.Context().Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	documentID := chi.URLParam(r, constvars.URLParamID)
	ctrl.Log.Info("DocumentController.Download called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingDocumentIDKey, documentID),
	)

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	result, err := ctrl.DocumentUsecase.GetDownloadURL(ctx, documentID)
	if err != nil {
		writeError(ctrl.Log, w, err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.GetDocumentDownloadURLSuccessfully, result)
}

func (ctrl *DocumentController) Delete(w http.ResponseWriter, r *http.Request) {
	requestID, _ := r.Context().Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	documentID := chi.URLParam(r, constvars.URLParamID)
	ctrl.Log.Info("DocumentController.Delete called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingDocumentIDKey, documentID),
	)

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	if err := ctrl.DocumentUsecase.Delete(ctx, documentID); err != nil {
		writeError(ctrl.Log, w, err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.DeleteDocumentSuccessMessage, nil)
}
