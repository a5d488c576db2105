package calendarEvents

import (
	"clinic-portal-service/internal/app/contracts"
	"clinic-portal-service/internal/app/models"
	"clinic-portal-service/internal/app/services/shared/querycache"
	"clinic-portal-service/internal/pkg/constvars"
	"clinic-portal-service/internal/pkg/dto/requests"
	"clinic-portal-service/internal/pkg/exceptions"
	"clinic-portal-service/internal/pkg/utils"
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
)

type calendarEventUsecase struct {
	eventRepo contracts.CalendarEventRepository
	cache     contracts.QueryCache
	log       *zap.Logger
}

func NewCalendarEventUsecase(eventRepo contracts.CalendarEventRepository, cache contracts.QueryCache, logger *zap.Logger) contracts.CalendarEventUsecase {
	return &calendarEventUsecase{eventRepo: eventRepo, cache: cache, log: logger}
}

func listKey(userID string, filter requests.CalendarEventFilter) string {
	return fmt.Sprintf("%s%s:%s:%s:%s", constvars.CacheKeyCalendarEventsPrefix, userID, filter.ClinicianID, formatBound(filter.From), formatBound(filter.To))
}

func formatBound(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.UTC().Format(time.RFC3339)
}

func (uc *calendarEventUsecase) List(ctx context.Context, filter requests.CalendarEventFilter) ([]models.StoredCalendarEvent, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	user, _ := utils.AuthUserFromContext(ctx)
	uc.log.Info("calendarEventUsecase.List called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingClinicianIDKey, filter.ClinicianID),
	)

	if user.Role == constvars.RoleClinician {
		filter.ClinicianID = user.ID
	}

	var events []models.StoredCalendarEvent
	err := uc.cache.Fetch(ctx, listKey(user.ID, filter), querycache.PresetList, func(ctx context.Context) (interface{}, error) {
		return uc.eventRepo.List(ctx, filter)
	}, &events)
	if err != nil {
		uc.log.Error("calendarEventUsecase.List error fetching events",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, err
	}
	return events, nil
}

func (uc *calendarEventUsecase) Create(ctx context.Context, input *requests.CreateCalendarEvent) (*models.StoredCalendarEvent, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	user, _ := utils.AuthUserFromContext(ctx)
	uc.log.Info("calendarEventUsecase.Create called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
	)

	event := &models.StoredCalendarEvent{
		ClinicianID: input.ClinicianID,
		Title:       input.Title,
		Description: input.Description,
		StartsAt:    input.StartsAt.UTC(),
		EndsAt:      input.EndsAt.UTC(),
		Color:       input.Color,
	}
	if user.Role == constvars.RoleClinician || event.ClinicianID == "" {
		event.ClinicianID = user.ID
	}
	if event.ClinicianID == "" {
		return nil, exceptions.ErrInputValidation(errors.New("clinician_id is required"))
	}
	if event.Color == "" {
		event.Color = constvars.CalendarEventDefaultColor
	}

	created, err := uc.eventRepo.Create(ctx, event)
	if err != nil {
		uc.log.Error("calendarEventUsecase.Create error creating event",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, err
	}
	uc.invalidate(ctx, requestID)
	return created, nil
}

func (uc *calendarEventUsecase) Update(ctx context.Context, eventID string, input *requests.UpdateCalendarEvent) (*models.StoredCalendarEvent, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.log.Info("calendarEventUsecase.Update called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String("event_id", eventID),
	)

	patch := make(map[string]interface{})
	if input.Title != nil {
		patch["title"] = *input.Title
	}
	if input.Description != nil {
		patch["description"] = *input.Description
	}
	if input.Color != nil {
		patch["color"] = *input.Color
	}
	if input.StartsAt != nil || input.EndsAt != nil {
		existing, err := uc.eventRepo.FindByID(ctx, eventID)
		if err != nil {
			return nil, err
		}
		startsAt, endsAt := existing.StartsAt, existing.EndsAt
		if input.StartsAt != nil {
			startsAt = input.StartsAt.UTC()
			patch["starts_at"] = startsAt
		}
		if input.EndsAt != nil {
			endsAt = input.EndsAt.UTC()
			patch["ends_at"] = endsAt
		}
		if !endsAt.After(startsAt) {
			return nil, exceptions.ErrInputValidation(errors.New("ends_at must be after starts_at"))
		}
	}
	if len(patch) == 0 {
		return nil, exceptions.ErrInputValidation(errors.New("no fields to update"))
	}

	updated, err := uc.eventRepo.Update(ctx, eventID, patch)
	if err != nil {
		uc.log.Error("calendarEventUsecase.Update error updating event",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String("event_id", eventID),
			zap.Error(err),
		)
		return nil, err
	}
	uc.invalidate(ctx, requestID)
	return updated, nil
}

func (uc *calendarEventUsecase) Delete(ctx context.Context, eventID string) error {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.log.Info("calendarEventUsecase.Delete called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String("event_id", eventID),
	)

	if err := uc.eventRepo.Delete(ctx, eventID); err != nil {
		uc.log.Error("calendarEventUsecase.Delete error deleting event",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String("event_id", eventID),
			zap.Error(err),
		)
		return err
	}
	uc.invalidate(ctx, requestID)
	return nil
}

func (uc *calendarEventUsecase) invalidate(ctx context.Context, requestID string) {
	if err := uc.cache.InvalidatePrefix(ctx, constvars.CacheKeyCalendarEventsPrefix); err != nil {
		uc.log.Warn("calendarEventUsecase failed to invalidate cached events",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
	}
}
