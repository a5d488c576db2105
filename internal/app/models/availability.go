package models

import (
	"strings"
	"time"
)

// ISOWeekday numbers weekdays per ISO-8601: Monday=1 through Sunday=7.
type ISOWeekday int

const (
	ISOMonday ISOWeekday = iota + 1
	ISOTuesday
	ISOWednesday
	ISOThursday
	ISOFriday
	ISOSaturday
	ISOSunday
)

var weekdayNames = map[string]ISOWeekday{
	"monday":    ISOMonday,
	"tuesday":   ISOTuesday,
	"wednesday": ISOWednesday,
	"thursday":  ISOThursday,
	"friday":    ISOFriday,
	"saturday":  ISOSaturday,
	"sunday":    ISOSunday,
}

// ParseISOWeekday maps a weekday key such as "monday" (case-insensitive) to its ISO number.
func ParseISOWeekday(name string) (ISOWeekday, bool) {
	wd, ok := weekdayNames[strings.ToLower(strings.TrimSpace(name))]
	return wd, ok
}

// ISOWeekdayOf returns the ISO weekday of t in its own location.
func ISOWeekdayOf(t time.Time) ISOWeekday {
	wd := t.Weekday()
	if wd == time.Sunday {
		return ISOSunday
	}
	return ISOWeekday(wd)
}

func (w ISOWeekday) Valid() bool {
	return w >= ISOMonday && w <= ISOSunday
}

func (w ISOWeekday) String() string {
	for name, wd := range weekdayNames {
		if wd == w {
			return name
		}
	}
	return "unknown"
}

// AvailabilitySlot is a recurring template, not a dated instance.
type AvailabilitySlot struct {
	ID            string `json:"id" validate:"required"`
	StartTime     string `json:"startTime" validate:"required,hhmm"`
	EndTime       string `json:"endTime" validate:"required,hhmm"`
	IsRecurring   bool   `json:"isRecurring"`
	IsAppointment bool   `json:"isAppointment"`
}

// WeeklyAvailability maps weekday names (monday..sunday) to ordered slot templates.
type WeeklyAvailability map[string][]AvailabilitySlot

// ClinicianAvailability is the stored weekly pattern row of a clinician.
type ClinicianAvailability struct {
	ClinicianID string             `json:"clinician_id"`
	TimeZone    string             `json:"time_zone"`
	Weekly      WeeklyAvailability `json:"weekly"`
	UpdatedAt   *time.Time         `json:"updated_at,omitempty"`
}

// AvailabilityException cancels one dated occurrence of a recurring slot.
type AvailabilityException struct {
	ID          string     `json:"id,omitempty"`
	ClinicianID string     `json:"clinician_id"`
	SlotID      string     `json:"slot_id"`
	Date        string     `json:"date"`
	Reason      string     `json:"reason,omitempty"`
	CreatedAt   *time.Time `json:"created_at,omitempty"`
}
