package appointments

import (
	"clinic-portal-service/internal/app/contracts"
	"clinic-portal-service/internal/app/models"
	"clinic-portal-service/internal/pkg/constvars"
	"clinic-portal-service/internal/pkg/dto/requests"
	"clinic-portal-service/internal/pkg/exceptions"
	"clinic-portal-service/internal/pkg/utils"
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
)

type appointmentUsecase struct {
	appointmentRepo contracts.AppointmentRepository
	availability    contracts.AvailabilityUsecase
	log             *zap.Logger
}

func NewAppointmentUsecase(appointmentRepo contracts.AppointmentRepository, availability contracts.AvailabilityUsecase, logger *zap.Logger) contracts.AppointmentUsecase {
	return &appointmentUsecase{
		appointmentRepo: appointmentRepo,
		availability:    availability,
		log:             logger,
	}
}

func (uc *appointmentUsecase) List(ctx context.Context, filter requests.AppointmentFilter) ([]models.Appointment, int, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.log.Info("appointmentUsecase.List called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
	)

	user, _ := utils.AuthUserFromContext(ctx)
	switch user.Role {
	case constvars.RoleClient:
		filter.ClientID = user.ID
	case constvars.RoleClinician:
		filter.ClinicianID = user.ID
	}
	filter.From, filter.To = windowOf(filter.From, filter.To)

	appointments, total, err := uc.appointmentRepo.List(ctx, filter)
	if err != nil {
		uc.log.Error("appointmentUsecase.List error fetching appointments",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, 0, err
	}
	return appointments, total, nil
}

func (uc *appointmentUsecase) Get(ctx context.Context, appointmentID string) (*models.Appointment, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.log.Info("appointmentUsecase.Get called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String("appointment_id", appointmentID),
	)
	return uc.appointmentRepo.FindByID(ctx, appointmentID)
}

func (uc *appointmentUsecase) Create(ctx context.Context, input *requests.CreateAppointment) (*models.Appointment, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.log.Info("appointmentUsecase.Create called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingClinicianIDKey, input.ClinicianID),
		zap.String(constvars.LoggingClientIDKey, input.ClientID),
	)

	appointment := &models.Appointment{
		ClinicianID: input.ClinicianID,
		ClientID:    input.ClientID,
		SlotID:      input.SlotID,
		StartsAt:    input.StartsAt.UTC(),
		EndsAt:      input.EndsAt.UTC(),
		Status:      models.AppointmentStatusScheduled,
		Notes:       input.Notes,
	}

	created, err := uc.appointmentRepo.Create(ctx, appointment)
	if err != nil {
		uc.log.Error("appointmentUsecase.Create error creating appointment",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, err
	}

	uc.invalidateCalendar(ctx, requestID, created.ClinicianID)
	uc.log.Info("appointmentUsecase.Create succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String("appointment_id", created.ID),
	)
	return created, nil
}

func (uc *appointmentUsecase) Update(ctx context.Context, appointmentID string, input *requests.UpdateAppointment) (*models.Appointment, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.log.Info("appointmentUsecase.Update called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String("appointment_id", appointmentID),
	)

	existing, err := uc.appointmentRepo.FindByID(ctx, appointmentID)
	if err != nil {
		return nil, err
	}

	patch := make(map[string]interface{})
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
	if input.Status != nil {
		patch["status"] = *input.Status
	}
	if input.Notes != nil {
		patch["notes"] = *input.Notes
	}
	if len(patch) == 0 {
		return nil, exceptions.ErrInputValidation(errors.New("no fields to update"))
	}

	updated, err := uc.appointmentRepo.Update(ctx, appointmentID, patch)
	if err != nil {
		uc.log.Error("appointmentUsecase.Update error updating appointment",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String("appointment_id", appointmentID),
			zap.Error(err),
		)
		return nil, err
	}

	uc.invalidateCalendar(ctx, requestID, existing.ClinicianID)
	return updated, nil
}

func (uc *appointmentUsecase) Delete(ctx context.Context, appointmentID string) error {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.log.Info("appointmentUsecase.Delete called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String("appointment_id", appointmentID),
	)

	existing, err := uc.appointmentRepo.FindByID(ctx, appointmentID)
	if err != nil {
		return err
	}
	if err := uc.appointmentRepo.Delete(ctx, appointmentID); err != nil {
		uc.log.Error("appointmentUsecase.Delete error deleting appointment",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String("appointment_id", appointmentID),
			zap.Error(err),
		)
		return err
	}

	uc.invalidateCalendar(ctx, requestID, existing.ClinicianID)
	return nil
}

// invalidateCalendar is best effort; the realtime feed invalidates again when the row change arrives.
func (uc *appointmentUsecase) invalidateCalendar(ctx context.Context, requestID, clinicianID string) {
	if clinicianID == "" {
		return
	}
	if err := uc.availability.InvalidateClinician(ctx, clinicianID); err != nil {
		uc.log.Warn("appointmentUsecase failed to invalidate calendar",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingClinicianIDKey, clinicianID),
			zap.Error(err),
		)
	}
}

// windowOf tolerates a reversed range.
func windowOf(from, to *time.Time) (*time.Time, *time.Time) {
	if from != nil && to != nil && to.Before(*from) {
		return to, from
	}
	return from, to
}
