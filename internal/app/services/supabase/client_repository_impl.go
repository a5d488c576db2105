package supabase

import (
	"clinic-portal-service/internal/app/contracts"
	"clinic-portal-service/internal/app/models"
	"clinic-portal-service/internal/app/services/supabase/rest"
	"clinic-portal-service/internal/pkg/constvars"
	"clinic-portal-service/internal/pkg/dto/requests"
	"context"

	"go.uber.org/zap"
)

type clientRepository struct {
	table table[models.Client]
	log   *zap.Logger
}

func NewClientRepository(client *rest.Client, logger *zap.Logger) contracts.ClientRepository {
	return &clientRepository{table: newTable[models.Client](client, constvars.TableClients), log: logger}
}

func (r *clientRepository) List(ctx context.Context, filter requests.ClientFilter) ([]models.Client, int, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	r.log.Info("clientRepository.List called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingClinicianIDKey, filter.ClinicianID),
	)

	q := rest.NewQuery().
		Eq("clinician_id", filter.ClinicianID).
		Eq("status", filter.Status).
		ILike("last_name", filter.Search).
		Order("last_name", true).
		Page(filter.Pagination)
	return r.table.list(ctx, q, false)
}

func (r *clientRepository) FindByID(ctx context.Context, clientID string) (*models.Client, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	r.log.Info("clientRepository.FindByID called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingClientIDKey, clientID),
	)
	return r.table.findByID(ctx, clientID)
}

func (r *clientRepository) Create(ctx context.Context, client *models.Client) (*models.Client, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	r.log.Info("clientRepository.Create called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingClinicianIDKey, client.ClinicianID),
	)
	return r.table.insert(ctx, client)
}

func (r *clientRepository) Update(ctx context.Context, clientID string, patch map[string]interface{}) (*models.Client, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	r.log.Info("clientRepository.Update called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingClientIDKey, clientID),
	)
	return r.table.update(ctx, rest.NewQuery().Eq("id", clientID), patch)
}

func (r *clientRepository) Delete(ctx context.Context, clientID string) error {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	r.log.Info("clientRepository.Delete called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingClientIDKey, clientID),
	)
	return r.table.delete(ctx, rest.NewQuery().Eq("id", clientID))
}
