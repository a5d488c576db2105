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

type documentRepository struct {
	table table[models.Document]
	log   *zap.Logger
}

func NewDocumentRepository(client *rest.Client, logger *zap.Logger) contracts.DocumentRepository {
	return &documentRepository{table: newTable[models.Document](client, constvars.TableDocuments), log: logger}
}

func (r *documentRepository) List(ctx context.Context, filter requests.DocumentFilter) ([]models.Document, int, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	r.log.Info("documentRepository.List called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingClientIDKey, filter.ClientID),
	)

	q := rest.NewQuery().
		Eq("client_id", filter.ClientID).
		Eq("clinician_id", filter.ClinicianID).
		Eq("template", filter.Template).
		Order("created_at", false).
		Page(filter.Pagination)
	return r.table.list(ctx, q, false)
}

func (r *documentRepository) FindByID(ctx context.Context, documentID string) (*models.Document, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	r.log.Info("documentRepository.FindByID called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingDocumentIDKey, documentID),
	)
	return r.table.findByID(ctx, documentID)
}

func (r *documentRepository) Create(ctx context.Context, document *models.Document) (*models.Document, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	r.log.Info("documentRepository.Create called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingClientIDKey, document.ClientID),
		zap.String(constvars.LoggingTemplateKey, document.Template),
	)
	return r.table.insert(ctx, document)
}

func (r *documentRepository) Update(ctx context.Context, documentID string, patch map[string]interface{}) (*models.Document, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	r.log.Info("documentRepository.Update called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingDocumentIDKey, documentID),
	)
	return r.table.update(ctx, rest.NewQuery().Eq("id", documentID), patch)
}

func (r *documentRepository) Delete(ctx context.Context, documentID string) error {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	r.log.Info("documentRepository.Delete called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingDocumentIDKey, documentID),
	)
	return r.table.delete(ctx, rest.NewQuery().Eq("id", documentID))
}
