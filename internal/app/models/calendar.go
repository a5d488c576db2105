package models

import "time"

type CalendarEventKind string

const (
	CalendarEventKindAvailability CalendarEventKind = "availability"
	CalendarEventKindAppointment  CalendarEventKind = "appointment"
	CalendarEventKindCustom       CalendarEventKind = "custom"
)

// CalendarEvent is what the calendar view renders. Availability events are view-only
// projections of the weekly pattern and are never persisted.
type CalendarEvent struct {
	ID          string            `json:"id"`
	Title       string            `json:"title"`
	Start       time.Time         `json:"start"`
	End         time.Time         `json:"end"`
	Kind        CalendarEventKind `json:"kind"`
	Color       string            `json:"color,omitempty"`
	IsRecurring bool              `json:"isRecurring"`
	SlotID      string            `json:"slotId,omitempty"`
	Weekday     ISOWeekday        `json:"weekday,omitempty"`
	Week        int               `json:"week"`
	TimeZone    string            `json:"timeZone"`
}

// StoredCalendarEvent is a row of the calendar_events table (clinician-created blocks).
type StoredCalendarEvent struct {
	ID          string     `json:"id,omitempty"`
	ClinicianID string     `json:"clinician_id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	StartsAt    time.Time  `json:"starts_at"`
	EndsAt      time.Time  `json:"ends_at"`
	Color       string     `json:"color,omitempty"`
	CreatedAt   *time.Time `json:"created_at,omitempty"`
}
