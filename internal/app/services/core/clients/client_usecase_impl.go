package clients

import (
	"clinic-portal-service/internal/app/contracts"
	"clinic-portal-service/internal/app/models"
	"clinic-portal-service/internal/app/services/core/availability"
	"clinic-portal-service/internal/app/services/shared/querycache"
	"clinic-portal-service/internal/pkg/constvars"
	"clinic-portal-service/internal/pkg/dto/requests"
	"clinic-portal-service/internal/pkg/exceptions"
	"clinic-portal-service/internal/pkg/utils"
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
)

const clientStatusActive = "active"

type clientUsecase struct {
	clientRepo contracts.ClientRepository
	cache      contracts.QueryCache
	log        *zap.Logger
}

func NewClientUsecase(clientRepo contracts.ClientRepository, cache contracts.QueryCache, logger *zap.Logger) contracts.ClientUsecase {
	return &clientUsecase{clientRepo: clientRepo, cache: cache, log: logger}
}

type clientPage struct {
	Clients []models.Client `json:"clients"`
	Total   int             `json:"total"`
}

func (uc *clientUsecase) List(ctx context.Context, filter requests.ClientFilter) ([]models.Client, int, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	user, _ := utils.AuthUserFromContext(ctx)
	uc.log.Info("clientUsecase.List called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingUserIDKey, user.ID),
	)

	// clinicians only ever see their own caseload
	if user.Role == constvars.RoleClinician {
		filter.ClinicianID = user.ID
	}

	key := fmt.Sprintf("%s%s:list:%s:%s:%s:%d:%d", constvars.CacheKeyClientsPrefix, user.ID,
		filter.ClinicianID, filter.Status, filter.Search, filter.Pagination.Page, filter.Pagination.PageSize)
	page := new(clientPage)
	err := uc.cache.Fetch(ctx, key, querycache.PresetList, func(ctx context.Context) (interface{}, error) {
		rows, total, err := uc.clientRepo.List(ctx, filter)
		if err != nil {
			return nil, err
		}
		return clientPage{Clients: rows, Total: total}, nil
	}, page)
	if err != nil {
		uc.log.Error("clientUsecase.List error fetching clients",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, 0, err
	}
	return page.Clients, page.Total, nil
}

func (uc *clientUsecase) Get(ctx context.Context, clientID string) (*models.Client, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	user, _ := utils.AuthUserFromContext(ctx)
	uc.log.Info("clientUsecase.Get called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingClientIDKey, clientID),
	)

	client := new(models.Client)
	key := constvars.CacheKeyClientsPrefix + user.ID + ":" + clientID
	err := uc.cache.Fetch(ctx, key, querycache.PresetDetail, func(ctx context.Context) (interface{}, error) {
		return uc.clientRepo.FindByID(ctx, clientID)
	}, client)
	if err != nil {
		return nil, err
	}
	return client, nil
}

func (uc *clientUsecase) Create(ctx context.Context, input *requests.CreateClient) (*models.Client, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	user, _ := utils.AuthUserFromContext(ctx)
	uc.log.Info("clientUsecase.Create called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingUserIDKey, user.ID),
	)

	client := &models.Client{
		ClinicianID: input.ClinicianID,
		FirstName:   input.FirstName,
		LastName:    input.LastName,
		Email:       input.Email,
		Phone:       input.Phone,
		DateOfBirth: input.DateOfBirth,
		Status:      clientStatusActive,
	}
	if client.ClinicianID == "" && user.Role == constvars.RoleClinician {
		client.ClinicianID = user.ID
	}
	if input.TimeZone != "" {
		client.TimeZone = availability.NormalizeTimeZone(input.TimeZone)
	}

	created, err := uc.clientRepo.Create(ctx, client)
	if err != nil {
		uc.log.Error("clientUsecase.Create error creating client",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, err
	}

	uc.invalidate(ctx, requestID)
	uc.log.Info("clientUsecase.Create succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingClientIDKey, created.ID),
	)
	return created, nil
}

func (uc *clientUsecase) Update(ctx context.Context, clientID string, input *requests.UpdateClient) (*models.Client, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.log.Info("clientUsecase.Update called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingClientIDKey, clientID),
	)

	patch := make(map[string]interface{})
	if input.FirstName != nil {
		patch["first_name"] = *input.FirstName
	}
	if input.LastName != nil {
		patch["last_name"] = *input.LastName
	}
	if input.Email != nil {
		patch["email"] = *input.Email
	}
	if input.Phone != nil {
		patch["phone"] = *input.Phone
	}
	if input.DateOfBirth != nil {
		patch["date_of_birth"] = *input.DateOfBirth
	}
	if input.TimeZone != nil {
		patch["time_zone"] = availability.NormalizeTimeZone(*input.TimeZone)
	}
	if input.Status != nil {
		patch["status"] = *input.Status
	}
	if len(patch) == 0 {
		return nil, exceptions.ErrInputValidation(errors.New("no fields to update"))
	}

	updated, err := uc.clientRepo.Update(ctx, clientID, patch)
	if err != nil {
		uc.log.Error("clientUsecase.Update error updating client",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingClientIDKey, clientID),
			zap.Error(err),
		)
		return nil, err
	}
	uc.invalidate(ctx, requestID)
	return updated, nil
}

func (uc *clientUsecase) Delete(ctx context.Context, clientID string) error {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.log.Info("clientUsecase.Delete called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingClientIDKey, clientID),
	)

	if err := uc.clientRepo.Delete(ctx, clientID); err != nil {
		uc.log.Error("clientUsecase.Delete error deleting client",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingClientIDKey, clientID),
			zap.Error(err),
		)
		return err
	}
	uc.invalidate(ctx, requestID)
	return nil
}

// invalidate drops every user's cached client pages; a write can change what any caller sees.
func (uc *clientUsecase) invalidate(ctx context.Context, requestID string) {
	if err := uc.cache.InvalidatePrefix(ctx, constvars.CacheKeyClientsPrefix); err != nil {
		uc.log.Warn("clientUsecase failed to invalidate cached clients",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
	}
}
