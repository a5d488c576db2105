package availability

import (
	"clinic-portal-service/internal/app/contracts"
	"clinic-portal-service/internal/app/models"
	"clinic-portal-service/internal/app/services/shared/querycache"
	"clinic-portal-service/internal/pkg/constvars"
	"clinic-portal-service/internal/pkg/dto/requests"
	"clinic-portal-service/internal/pkg/dto/responses"
	"clinic-portal-service/internal/pkg/exceptions"
	"clinic-portal-service/internal/pkg/utils"
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
)

type availabilityUsecase struct {
	availabilityRepo contracts.AvailabilityRepository
	appointmentRepo  contracts.AppointmentRepository
	cache            contracts.QueryCache
	expander         *Expander
	defaultWeeks     int
	now              func() time.Time
	log              *zap.Logger
}

func NewAvailabilityUsecase(
	availabilityRepo contracts.AvailabilityRepository,
	appointmentRepo contracts.AppointmentRepository,
	cache contracts.QueryCache,
	expander *Expander,
	defaultWeeks int,
	logger *zap.Logger,
) contracts.AvailabilityUsecase {
	if defaultWeeks < 1 {
		defaultWeeks = constvars.AvailabilityDefaultWeeksToShow
	}
	return &availabilityUsecase{
		availabilityRepo: availabilityRepo,
		appointmentRepo:  appointmentRepo,
		cache:            cache,
		expander:         expander,
		defaultWeeks:     defaultWeeks,
		now:              expander.now,
		log:              logger,
	}
}

func patternCacheKey(clinicianID string) string {
	return constvars.CacheKeyPatternPrefix + clinicianID
}

func calendarCachePrefix(clinicianID string) string {
	return constvars.CacheKeyCalendarPrefix + clinicianID + ":"
}

// calendarViewer names the identity whose token fetched the appointment rows.
func calendarViewer(ctx context.Context) string {
	user, ok := utils.AuthUserFromContext(ctx)
	if !ok || user.ID == "" {
		return "service"
	}
	return user.ID
}

func (uc *availabilityUsecase) GetWeeklyAvailability(ctx context.Context, clinicianID string) (*models.ClinicianAvailability, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.log.Info("availabilityUsecase.GetWeeklyAvailability called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingClinicianIDKey, clinicianID),
	)

	pattern := new(models.ClinicianAvailability)
	err := uc.cache.Fetch(ctx, patternCacheKey(clinicianID), querycache.PresetDetail, func(ctx context.Context) (interface{}, error) {
		return uc.loadPattern(ctx, clinicianID)
	}, pattern)
	if err != nil {
		uc.log.Error("availabilityUsecase.GetWeeklyAvailability error fetching pattern",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingClinicianIDKey, clinicianID),
			zap.Error(err),
		)
		return nil, err
	}
	return pattern, nil
}

// loadPattern returns an empty pattern in the default zone for clinicians who never saved one.
func (uc *availabilityUsecase) loadPattern(ctx context.Context, clinicianID string) (*models.ClinicianAvailability, error) {
	pattern, err := uc.availabilityRepo.FindByClinicianID(ctx, clinicianID)
	if err != nil {
		return nil, err
	}
	if pattern == nil {
		return &models.ClinicianAvailability{
			ClinicianID: clinicianID,
			TimeZone:    uc.expander.defaultTimeZone,
			Weekly:      models.WeeklyAvailability{},
		}, nil
	}
	if pattern.Weekly == nil {
		pattern.Weekly = models.WeeklyAvailability{}
	}
	return pattern, nil
}

func (uc *availabilityUsecase) UpsertWeeklyAvailability(ctx context.Context, clinicianID string, input *requests.UpsertWeeklyAvailability) (*models.ClinicianAvailability, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.log.Info("availabilityUsecase.UpsertWeeklyAvailability called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingClinicianIDKey, clinicianID),
	)

	if err := ValidateWeeklyAvailability(input.Weekly); err != nil {
		uc.log.Error("availabilityUsecase.UpsertWeeklyAvailability invalid pattern",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingClinicianIDKey, clinicianID),
			zap.Error(err),
		)
		return nil, exceptions.ErrAvailabilityPatternInvalid(err)
	}

	saved, err := uc.availabilityRepo.Upsert(ctx, &models.ClinicianAvailability{
		ClinicianID: clinicianID,
		TimeZone:    NormalizeTimeZoneWithFallback(input.TimeZone, uc.expander.defaultTimeZone),
		Weekly:      normalizeWeekdayKeys(input.Weekly),
	})
	if err != nil {
		uc.log.Error("availabilityUsecase.UpsertWeeklyAvailability error saving pattern",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingClinicianIDKey, clinicianID),
			zap.Error(err),
		)
		return nil, err
	}

	uc.invalidate(ctx, requestID, clinicianID)
	return saved, nil
}

// ValidateWeeklyAvailability checks weekday keys, slot times and slot id uniqueness.
func ValidateWeeklyAvailability(weekly models.WeeklyAvailability) error {
	seen := make(map[string]string)
	for key, slots := range weekly {
		if _, ok := models.ParseISOWeekday(key); !ok {
			return fmt.Errorf("weekly.%s is not a weekday name", key)
		}
		for i, slot := range slots {
			if err := utils.ValidateStruct(slot); err != nil {
				return fmt.Errorf("weekly.%s[%d] %s", key, i, exceptions.FormatFirstValidationError(err))
			}
			if _, err := parseWindow(slot.StartTime, slot.EndTime); err != nil {
				return fmt.Errorf("weekly.%s[%d] start time must be before end time", key, i)
			}
			if other, dup := seen[slot.ID]; dup {
				return fmt.Errorf("slot id %s is used on both %s and %s", slot.ID, other, key)
			}
			seen[slot.ID] = key
		}
	}
	return nil
}

func normalizeWeekdayKeys(weekly models.WeeklyAvailability) models.WeeklyAvailability {
	out := make(models.WeeklyAvailability, len(weekly))
	for key, slots := range weekly {
		wd, _ := models.ParseISOWeekday(key)
		out[wd.String()] = append(out[wd.String()], slots...)
	}
	return out
}

func (uc *availabilityUsecase) GetCalendar(ctx context.Context, query requests.CalendarQuery) (*responses.Calendar, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.log.Info("availabilityUsecase.GetCalendar called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingClinicianIDKey, query.ClinicianID),
		zap.String(constvars.LoggingTimeZoneKey, query.TimeZone),
		zap.Int(constvars.LoggingWeeksToShowKey, query.WeeksToShow),
	)

	weeks := query.WeeksToShow
	if weeks < 1 {
		weeks = uc.defaultWeeks
	}
	if weeks > constvars.AvailabilityMaxWeeksToShow {
		weeks = constvars.AvailabilityMaxWeeksToShow
	}
	query.WeeksToShow = weeks

	zoneKey := "pattern"
	if query.TimeZone != "" {
		query.TimeZone = NormalizeTimeZoneWithFallback(query.TimeZone, uc.expander.defaultTimeZone)
		zoneKey = query.TimeZone
	}
	key := fmt.Sprintf("%s%s:%d:%t", calendarCachePrefix(query.ClinicianID), zoneKey, weeks, query.IncludeAppointments)
	if query.IncludeAppointments {
		// appointment rows depend on the caller's row-level security
		key += ":" + calendarViewer(ctx)
	}

	calendar := new(responses.Calendar)
	err := uc.cache.Fetch(ctx, key, querycache.PresetCalendar, func(ctx context.Context) (interface{}, error) {
		return uc.buildCalendar(ctx, query)
	}, calendar)
	if err != nil {
		uc.log.Error("availabilityUsecase.GetCalendar error building calendar",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingClinicianIDKey, query.ClinicianID),
			zap.Error(err),
		)
		return nil, err
	}

	uc.log.Info("availabilityUsecase.GetCalendar succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingClinicianIDKey, query.ClinicianID),
		zap.Int(constvars.LoggingEventCountKey, len(calendar.Events)),
	)
	return calendar, nil
}

func (uc *availabilityUsecase) buildCalendar(ctx context.Context, query requests.CalendarQuery) (*responses.Calendar, error) {
	pattern, err := uc.loadPattern(ctx, query.ClinicianID)
	if err != nil {
		return nil, err
	}

	zone := query.TimeZone
	if zone == "" {
		zone = NormalizeTimeZoneWithFallback(pattern.TimeZone, uc.expander.defaultTimeZone)
	}
	loc := LoadTimeZone(zone)

	now := uc.now().In(loc)
	y, m, d := now.Date()
	from := time.Date(y, m, d, 0, 0, 0, 0, loc)
	// roll_forward can push the last instance one week past the nominal window
	to := from.AddDate(0, 0, 7*(query.WeeksToShow+1))

	events := uc.expander.Expand(pattern.Weekly, zone, query.WeeksToShow)

	if len(events) > 0 {
		cancelled, err := uc.availabilityRepo.ListExceptions(ctx, requests.AvailabilityExceptionFilter{
			ClinicianID: query.ClinicianID,
			From:        from.Format(constvars.DateLayout),
			To:          to.Format(constvars.DateLayout),
		})
		if err != nil {
			return nil, err
		}
		events = applyExceptions(events, cancelled, loc)
	}

	if query.IncludeAppointments {
		appointments, _, err := uc.appointmentRepo.List(ctx, requests.AppointmentFilter{
			ClinicianID: query.ClinicianID,
			From:        &from,
			To:          &to,
		})
		if err != nil {
			return nil, err
		}
		events = mergeAppointments(events, appointments, zone, loc)
	}

	SortEvents(events)
	return &responses.Calendar{
		ClinicianID: query.ClinicianID,
		TimeZone:    zone,
		WeeksToShow: query.WeeksToShow,
		From:        from,
		To:          to,
		Events:      events,
		GeneratedAt: uc.now().UTC(),
	}, nil
}

// applyExceptions drops availability instances cancelled for their local date.
func applyExceptions(events []models.CalendarEvent, cancelled []models.AvailabilityException, loc *time.Location) []models.CalendarEvent {
	if len(cancelled) == 0 {
		return events
	}
	skip := make(map[string]struct{}, len(cancelled))
	for _, ex := range cancelled {
		skip[ex.SlotID+"|"+ex.Date] = struct{}{}
	}
	out := events[:0]
	for _, ev := range events {
		if ev.Kind == models.CalendarEventKindAvailability {
			if _, ok := skip[ev.SlotID+"|"+ev.Start.In(loc).Format(constvars.DateLayout)]; ok {
				continue
			}
		}
		out = append(out, ev)
	}
	return out
}

// mergeAppointments adds booked appointments and removes availability that overlaps them.
func mergeAppointments(events []models.CalendarEvent, appointments []models.Appointment, zone string, loc *time.Location) []models.CalendarEvent {
	booked := make([]models.CalendarEvent, 0, len(appointments))
	for _, appt := range appointments {
		if appt.Status == models.AppointmentStatusCancelled {
			continue
		}
		booked = append(booked, models.CalendarEvent{
			ID:       "appointment-" + appt.ID,
			Title:    "Appointment",
			Start:    appt.StartsAt.In(loc),
			End:      appt.EndsAt.In(loc),
			Kind:     models.CalendarEventKindAppointment,
			Color:    constvars.AppointmentEventColor,
			SlotID:   appt.SlotID,
			Weekday:  models.ISOWeekdayOf(appt.StartsAt.In(loc)),
			TimeZone: zone,
		})
	}
	if len(booked) == 0 {
		return events
	}

	out := make([]models.CalendarEvent, 0, len(events)+len(booked))
	for _, ev := range events {
		if ev.Kind == models.CalendarEventKindAvailability && overlapsAny(ev, booked) {
			continue
		}
		out = append(out, ev)
	}
	return append(out, booked...)
}

func overlapsAny(ev models.CalendarEvent, booked []models.CalendarEvent) bool {
	for _, b := range booked {
		if ev.Start.Before(b.End) && b.Start.Before(ev.End) {
			return true
		}
	}
	return false
}

func (uc *availabilityUsecase) ListExceptions(ctx context.Context, clinicianID string) ([]models.AvailabilityException, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.log.Info("availabilityUsecase.ListExceptions called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingClinicianIDKey, clinicianID),
	)
	return uc.availabilityRepo.ListExceptions(ctx, requests.AvailabilityExceptionFilter{ClinicianID: clinicianID})
}

func (uc *availabilityUsecase) CreateException(ctx context.Context, clinicianID string, input *requests.CreateAvailabilityException) (*models.AvailabilityException, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.log.Info("availabilityUsecase.CreateException called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingClinicianIDKey, clinicianID),
		zap.String(constvars.LoggingSlotIDKey, input.SlotID),
	)

	date, err := time.Parse(constvars.DateLayout, input.Date)
	if err != nil {
		return nil, exceptions.ErrAvailabilityExceptionInvalid(fmt.Errorf("date must be YYYY-MM-DD"))
	}

	pattern, err := uc.loadPattern(ctx, clinicianID)
	if err != nil {
		return nil, err
	}
	weekday, found := slotWeekday(pattern.Weekly, input.SlotID)
	if !found {
		return nil, exceptions.ErrAvailabilityExceptionInvalid(fmt.Errorf("slot %s is not in the weekly availability", input.SlotID))
	}
	if models.ISOWeekdayOf(date) != weekday {
		return nil, exceptions.ErrAvailabilityExceptionInvalid(fmt.Errorf("%s is not a %s", input.Date, weekday))
	}

	created, err := uc.availabilityRepo.CreateException(ctx, &models.AvailabilityException{
		ClinicianID: clinicianID,
		SlotID:      input.SlotID,
		Date:        input.Date,
		Reason:      input.Reason,
	})
	if err != nil {
		uc.log.Error("availabilityUsecase.CreateException error saving exception",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, err
	}

	uc.invalidate(ctx, requestID, clinicianID)
	return created, nil
}

func slotWeekday(weekly models.WeeklyAvailability, slotID string) (models.ISOWeekday, bool) {
	for key, slots := range weekly {
		for _, slot := range slots {
			if slot.ID == slotID {
				wd, ok := models.ParseISOWeekday(key)
				return wd, ok
			}
		}
	}
	return 0, false
}

func (uc *availabilityUsecase) DeleteException(ctx context.Context, clinicianID, exceptionID string) error {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.log.Info("availabilityUsecase.DeleteException called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingClinicianIDKey, clinicianID),
		zap.String(constvars.LoggingExceptionIDKey, exceptionID),
	)

	if err := uc.availabilityRepo.DeleteException(ctx, clinicianID, exceptionID); err != nil {
		return err
	}
	uc.invalidate(ctx, requestID, clinicianID)
	return nil
}

func (uc *availabilityUsecase) InvalidateClinician(ctx context.Context, clinicianID string) error {
	if clinicianID == "" {
		return errors.New("clinician id is required")
	}
	if err := uc.cache.Invalidate(ctx, patternCacheKey(clinicianID)); err != nil {
		return err
	}
	return uc.cache.InvalidatePrefix(ctx, calendarCachePrefix(clinicianID))
}

// invalidate logs instead of failing the write; stale entries expire with the preset anyway.
func (uc *availabilityUsecase) invalidate(ctx context.Context, requestID, clinicianID string) {
	if err := uc.InvalidateClinician(ctx, clinicianID); err != nil {
		uc.log.Warn("availabilityUsecase failed to invalidate cached calendars",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingClinicianIDKey, clinicianID),
			zap.Error(err),
		)
	}
}
