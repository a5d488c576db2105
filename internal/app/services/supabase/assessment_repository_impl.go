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

type assessmentRepository struct {
	table table[models.Assessment]
	log   *zap.Logger
}

func NewAssessmentRepository(client *rest.Client, logger *zap.Logger) contracts.AssessmentRepository {
	return &assessmentRepository{table: newTable[models.Assessment](client, constvars.TableAssessments), log: logger}
}

func (r *assessmentRepository) List(ctx context.Context, filter requests.AssessmentFilter) ([]models.Assessment, int, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	r.log.Info("assessmentRepository.List called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingClientIDKey, filter.ClientID),
	)

	q := rest.NewQuery().
		Eq("client_id", filter.ClientID).
		Eq("clinician_id", filter.ClinicianID).
		Eq("instrument", filter.Instrument).
		Order("created_at", false).
		Page(filter.Pagination)
	return r.table.list(ctx, q, false)
}

func (r *assessmentRepository) FindByID(ctx context.Context, assessmentID string) (*models.Assessment, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	r.log.Info("assessmentRepository.FindByID called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingAssessmentIDKey, assessmentID),
	)
	return r.table.findByID(ctx, assessmentID)
}

func (r *assessmentRepository) Create(ctx context.Context, assessment *models.Assessment) (*models.Assessment, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	r.log.Info("assessmentRepository.Create called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingClientIDKey, assessment.ClientID),
	)
	return r.table.insert(ctx, assessment)
}

func (r *assessmentRepository) Update(ctx context.Context, assessmentID string, patch map[string]interface{}) (*models.Assessment, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	r.log.Info("assessmentRepository.Update called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingAssessmentIDKey, assessmentID),
	)
	return r.table.update(ctx, rest.NewQuery().Eq("id", assessmentID), patch)
}

func (r *assessmentRepository) Delete(ctx context.Context, assessmentID string) error {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	r.log.Info("assessmentRepository.Delete called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingAssessmentIDKey, assessmentID),
	)
	return r.table.delete(ctx, rest.NewQuery().Eq("id", assessmentID))
}
