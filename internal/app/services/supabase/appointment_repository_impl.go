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

type appointmentRepository struct {
	table table[models.Appointment]
	log   *zap.Logger
}

func NewAppointmentRepository(client *rest.Client, logger *zap.Logger) contracts.AppointmentRepository {
	return &appointmentRepository{table: newTable[models.Appointment](client, constvars.TableAppointments), log: logger}
}

func (r *appointmentRepository) List(ctx context.Context, filter requests.AppointmentFilter) ([]models.Appointment, int, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	r.log.Info("appointmentRepository.List called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingClinicianIDKey, filter.ClinicianID),
		zap.String(constvars.LoggingClientIDKey, filter.ClientID),
	)

	q := rest.NewQuery().
		Eq("clinician_id", filter.ClinicianID).
		Eq("client_id", filter.ClientID).
		Eq("status", filter.Status).
		Gte("starts_at", filter.From).
		Lt("starts_at", filter.To).
		Order("starts_at", true).
		Page(filter.Pagination)
	return r.table.list(ctx, q, false)
}

func (r *appointmentRepository) FindByID(ctx context.Context, appointmentID string) (*models.Appointment, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	r.log.Info("appointmentRepository.FindByID called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingAppointmentIDKey, appointmentID),
	)
	return r.table.findByID(ctx, appointmentID)
}

func (r *appointmentRepository) Create(ctx context.Context, appointment *models.Appointment) (*models.Appointment, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	r.log.Info("appointmentRepository.Create called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingClinicianIDKey, appointment.ClinicianID),
		zap.String(constvars.LoggingClientIDKey, appointment.ClientID),
	)
	return r.table.insert(ctx, appointment)
}

func (r *appointmentRepository) Update(ctx context.Context, appointmentID string, patch map[string]interface{}) (*models.Appointment, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	r.log.Info("appointmentRepository.Update called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingAppointmentIDKey, appointmentID),
	)
	return r.table.update(ctx, rest.NewQuery().Eq("id", appointmentID), patch)
}

func (r *appointmentRepository) Delete(ctx context.Context, appointmentID string) error {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	r.log.Info("appointmentRepository.Delete called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingAppointmentIDKey, appointmentID),
	)
	return r.table.delete(ctx, rest.NewQuery().Eq("id", appointmentID))
}
