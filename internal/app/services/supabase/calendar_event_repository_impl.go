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

type calendarEventRepository struct {
	table table[models.StoredCalendarEvent]
	log   *zap.Logger
}

func NewCalendarEventRepository(client *rest.Client, logger *zap.Logger) contracts.CalendarEventRepository {
	return &calendarEventRepository{table: newTable[models.StoredCalendarEvent](client, constvars.TableCalendarEvents), log: logger}
}

func (r *calendarEventRepository) List(ctx context.Context, filter requests.CalendarEventFilter) ([]models.StoredCalendarEvent, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	r.log.Info("calendarEventRepository.List called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingClinicianIDKey, filter.ClinicianID),
	)

	q := rest.NewQuery().
		Eq("clinician_id", filter.ClinicianID).
		Gte("starts_at", filter.From).
		Lt("starts_at", filter.To).
		Order("starts_at", true)
	events, _, err := r.table.list(ctx, q, false)
	return events, err
}

func (r *calendarEventRepository) FindByID(ctx context.Context, eventID string) (*models.StoredCalendarEvent, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	r.log.Info("calendarEventRepository.FindByID called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingCalendarEventIDKey, eventID),
	)
	return r.table.findByID(ctx, eventID)
}

func (r *calendarEventRepository) Create(ctx context.Context, event *models.StoredCalendarEvent) (*models.StoredCalendarEvent, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	r.log.Info("calendarEventRepository.Create called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingClinicianIDKey, event.ClinicianID),
	)
	return r.table.insert(ctx, event)
}

func (r *calendarEventRepository) Update(ctx context.Context, eventID string, patch map[string]interface{}) (*models.StoredCalendarEvent, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	r.log.Info("calendarEventRepository.Update called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingCalendarEventIDKey, eventID),
	)
	return r.table.update(ctx, rest.NewQuery().Eq("id", eventID), patch)
}

func (r *calendarEventRepository) Delete(ctx context.Context, eventID string) error {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	r.log.Info("calendarEventRepository.Delete called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingCalendarEventIDKey, eventID),
	)
	return r.table.delete(ctx, rest.NewQuery().Eq("id", eventID))
}
