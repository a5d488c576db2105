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
	clientControllerInstance *ClientController
	onceClientController     sync.Once
)

type ClientController struct {
	Log           *zap.Logger
	ClientUsecase contracts.ClientUsecase
}

func NewClientController(logger *zap.Logger, clientUsecase contracts.ClientUsecase) *ClientController {
	onceClientController.Do(func() {
		clientControllerInstance = &ClientController{
			Log:           logger,
			ClientUsecase: clientUsecase,
		}
	})
	return clientControllerInstance
}

func (ctrl *ClientController) FindAll(w http.ResponseWriter, r *http.Request) {
	requestID, _ := r.Context().Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	ctrl.Log.Info("ClientController.FindAll called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingQueryParamsKey, r.URL.RawQuery),
	)

	filter := requests.ClientFilter{
		ClinicianID: r.URL.Query().Get(constvars.URLQueryParamClinicianID),
		Status:      r.URL.Query().Get(constvars.URLQueryParamStatus),
		Search:      r.URL.Query().Get(constvars.URLQueryParamSearch),
		Pagination:  utils.BuildPaginationRequest(r),
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	result, total, err := ctrl.ClientUsecase.List(ctx, filter)
	if err != nil {
		writeError(ctrl.Log, w, err)
		return
	}

	pagination := utils.BuildPaginationResponse(total, filter.Pagination.Page, filter.Pagination.PageSize, r.URL.Path)
	utils.BuildSuccessResponseWithPagination(w, constvars.StatusOK, constvars.GetClientsSuccessfully, pagination, result)
}

func (ctrl *ClientController) FindByID(w http.ResponseWriter, r *http.Request) {
	requestID, _ := r.Context().Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	clientID := chi.URLParam(r, constvars.URLParamID)
	ctrl.Log.Info("ClientController.FindByID called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingClientIDKey, clientID),
	)

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	result, err := ctrl.ClientUsecase.Get(ctx, clientID)
	if err != nil {
		writeError(ctrl.Log, w, err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.GetClientSuccessfully, result)
}

func (ctrl *ClientController) Create(w http.ResponseWriter, r *http.Request) {
	requestID, _ := r.Context().Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	ctrl.Log.Info("ClientController.Create called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
	)

	request := new(requests.CreateClient)
	if err := utils.DecodeAndValidate(r, request); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	result, err := ctrl.ClientUsecase.Create(ctx, request)
	if err != nil {
		writeError(ctrl.Log, w, err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusCreated, constvars.CreateClientSuccessMessage, result)
}

func (ctrl *ClientController) Update(w http.ResponseWriter, r *http.Request) {
	requestID, _ := r.Context().Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	clientID := chi.URLParam(r, constvars.URLParamID)
	ctrl.Log.Info("ClientController.Update called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingClientIDKey, clientID),
	)

	request := new(requests.UpdateClient)
	if err := utils.DecodeAndValidate(r, request); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	result, err := ctrl.ClientUsecase.Update(ctx, clientID, request)
	if err != nil {
		writeError(ctrl.Log, w, err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.UpdateClientSuccessMessage, result)
}

func (ctrl *ClientController) Delete(w http.ResponseWriter, r *http.Request) {
	requestID, _ := r.Context().Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	clientID := chi.URLParam(r, constvars.URLParamID)
	ctrl.Log.Info("ClientController.Delete called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingClientIDKey, clientID),
	)

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	if err := ctrl.ClientUsecase.Delete(ctx, clientID); err != nil {
		writeError(ctrl.Log, w, err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.DeleteClientSuccessMessage, nil)
}
