package availability

import (
	"clinic-portal-service/internal/app/models"
	"clinic-portal-service/internal/app/services/shared/metrics"
	"clinic-portal-service/internal/pkg/constvars"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Expander projects a weekly availability pattern onto dated calendar events.
type Expander struct {
	log             *zap.Logger
	now             func() time.Time
	policy          PastSlotPolicy
	defaultTimeZone string
	defaultWeeks    int
	onError         func(error)
	metrics         *metrics.AvailabilityMetrics
}

type ExpanderOption func(*Expander)

// WithClock overrides the wall clock used to decide "today".
func WithClock(now func() time.Time) ExpanderOption {
	return func(e *Expander) {
		if now != nil {
			e.now = now
		}
	}
}

func WithPastSlotPolicy(policy PastSlotPolicy) ExpanderOption {
	return func(e *Expander) {
		e.policy = ParsePastSlotPolicy(string(policy))
	}
}

func WithDefaultTimeZone(tz string) ExpanderOption {
	return func(e *Expander) {
		e.defaultTimeZone = NormalizeTimeZone(tz)
	}
}

func WithDefaultWeeks(weeks int) ExpanderOption {
	return func(e *Expander) {
		if weeks >= 1 {
			e.defaultWeeks = weeks
		}
	}
}

// WithErrorCallback registers fn to be told when a whole expansion fails.
func WithErrorCallback(fn func(error)) ExpanderOption {
	return func(e *Expander) {
		e.onError = fn
	}
}

func WithMetrics(m *metrics.AvailabilityMetrics) ExpanderOption {
	return func(e *Expander) {
		e.metrics = m
	}
}

func NewExpander(log *zap.Logger, opts ...ExpanderOption) *Expander {
	if log == nil {
		log = zap.NewNop()
	}
	e := &Expander{
		log:             log,
		now:             time.Now,
		policy:          PastSlotRollForward,
		defaultTimeZone: constvars.AvailabilityDefaultTimeZone,
		defaultWeeks:    constvars.AvailabilityDefaultWeeksToShow,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Policy reports the configured past-slot policy.
func (e *Expander) Policy() PastSlotPolicy {
	return e.policy
}

// Expand returns one event per non-appointment slot per week in the window. Instances that
// cannot be built are logged and omitted. The result is not ordered; see SortEvents.
func (e *Expander) Expand(weekly models.WeeklyAvailability, timeZone string, weeksToShow int) (events []models.CalendarEvent) {
	defer func() {
		if r := recover(); r != nil {
			err := fmt.Errorf("availability expansion failed: %v", r)
			e.log.Error("Expander.Expand recovered from panic", zap.Error(err))
			e.metrics.ObserveFailure()
			if e.onError != nil {
				e.onError(err)
			}
			events = []models.CalendarEvent{}
		}
	}()

	zone := NormalizeTimeZoneWithFallback(timeZone, e.defaultTimeZone)
	loc, err := time.LoadLocation(zone)
	if err != nil {
		// tzdata is embedded, so only a corrupted zone name reaches here
		e.log.Error("Expander.Expand could not load time zone",
			zap.String(constvars.LoggingTimeZoneKey, zone),
			zap.Error(err),
		)
		loc, zone = time.UTC, utcZone
	}
	if timeZone != zone {
		e.log.Debug("Expander.Expand normalized time zone",
			zap.String("requested", timeZone),
			zap.String(constvars.LoggingTimeZoneKey, zone),
		)
	}

	if weeksToShow < 1 {
		weeksToShow = e.defaultWeeks
	}
	if weeksToShow > constvars.AvailabilityMaxWeeksToShow {
		e.log.Debug("Expander.Expand capped window",
			zap.Int(constvars.LoggingWeeksToShowKey, weeksToShow),
		)
		weeksToShow = constvars.AvailabilityMaxWeeksToShow
	}

	now := e.now().In(loc)
	events = make([]models.CalendarEvent, 0, weeksToShow*countSlots(weekly))

	// map iteration order is random; walk weekdays by key so logs are stable
	keys := make([]string, 0, len(weekly))
	for key := range weekly {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		weekday, ok := models.ParseISOWeekday(key)
		if !ok {
			e.log.Warn("Expander.Expand skipped unknown weekday",
				zap.String(constvars.LoggingWeekdayKey, key),
			)
			e.metrics.ObserveSkipped(skipUnknownWeekday)
			continue
		}
		for _, slot := range weekly[key] {
			if slot.IsAppointment {
				continue
			}
			events = append(events, e.expandSlot(slot, weekday, now, loc, zone, weeksToShow)...)
		}
	}

	e.metrics.ObserveEmitted(len(events))
	e.log.Debug("Expander.Expand completed",
		zap.String(constvars.LoggingTimeZoneKey, zone),
		zap.Int(constvars.LoggingWeeksToShowKey, weeksToShow),
		zap.Int(constvars.LoggingEventCountKey, len(events)),
	)
	return events
}

func (e *Expander) expandSlot(slot models.AvailabilitySlot, weekday models.ISOWeekday, now time.Time, loc *time.Location, zone string, weeksToShow int) []models.CalendarEvent {
	window, err := parseWindow(slot.StartTime, slot.EndTime)
	if err != nil {
		e.log.Error("Expander.Expand skipped slot with malformed time",
			zap.String(constvars.LoggingSlotIDKey, slot.ID),
			zap.String(constvars.LoggingWeekdayKey, weekday.String()),
			zap.String("start_time", slot.StartTime),
			zap.String("end_time", slot.EndTime),
			zap.Error(err),
		)
		e.metrics.ObserveSkipped(skipInvalidTime)
		return nil
	}

	anchor, skipFirst := e.anchorFor(weekday, window.Start, now, loc)

	out := make([]models.CalendarEvent, 0, weeksToShow)
	for week := 0; week < weeksToShow; week++ {
		if week == 0 && skipFirst {
			e.metrics.ObserveSkipped(skipElapsed)
			continue
		}
		day := anchor.AddDate(0, 0, 7*week)
		start, okStart := atClock(day, window.Start, loc)
		end, okEnd := atClock(day, window.End, loc)
		if !okStart || !okEnd || !start.Before(end) {
			e.log.Error("Expander.Expand skipped nonexistent instance",
				zap.String(constvars.LoggingSlotIDKey, slot.ID),
				zap.Int("week", week),
				zap.String(constvars.LoggingTimeZoneKey, zone),
				zap.String("requested_start", day.Format(constvars.DateLayout)+" "+window.Start.String()),
				zap.String("requested_end", day.Format(constvars.DateLayout)+" "+window.End.String()),
				zap.Time("computed_start", start),
				zap.Time("computed_end", end),
			)
			e.metrics.ObserveSkipped(skipNonexistent)
			continue
		}
		out = append(out, models.CalendarEvent{
			ID:          fmt.Sprintf("%s-week%d", slot.ID, week),
			Title:       constvars.AvailabilityEventTitle,
			Start:       start,
			End:         end,
			Kind:        models.CalendarEventKindAvailability,
			Color:       constvars.AvailabilityEventColor,
			IsRecurring: slot.IsRecurring,
			SlotID:      slot.ID,
			Weekday:     weekday,
			Week:        week,
			TimeZone:    zone,
		})
	}
	return out
}

// anchorFor returns the midnight of the first date on or after today that falls on weekday.
// When that date is today and start has already passed, the policy decides between moving the
// anchor a week ahead and dropping week 0.
func (e *Expander) anchorFor(weekday models.ISOWeekday, start clock, now time.Time, loc *time.Location) (time.Time, bool) {
	y, mo, dd := now.Date()
	today := time.Date(y, mo, dd, 0, 0, 0, 0, loc)
	ahead := (int(weekday) - int(models.ISOWeekdayOf(now)) + 7) % 7
	anchor := today.AddDate(0, 0, ahead)
	if ahead != 0 {
		return anchor, false
	}

	startToday, _ := atClock(today, start, loc)
	if startToday.After(now) {
		return anchor, false
	}
	if e.policy == PastSlotExclude {
		return anchor, true
	}
	return anchor.AddDate(0, 0, 7), false
}

func countSlots(weekly models.WeeklyAvailability) int {
	n := 0
	for _, slots := range weekly {
		n += len(slots)
	}
	return n
}

// SortEvents orders events by start, then end, then id.
func SortEvents(events []models.CalendarEvent) {
	sort.SliceStable(events, func(i, j int) bool {
		a, b := events[i], events[j]
		if !a.Start.Equal(b.Start) {
			return a.Start.Before(b.Start)
		}
		if !a.End.Equal(b.End) {
			return a.End.Before(b.End)
		}
		return strings.Compare(a.ID, b.ID) < 0
	})
}
