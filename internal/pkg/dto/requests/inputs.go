package requests

import (
	"clinic-portal-service/internal/app/models"
	"encoding/json"
	"time"
)

type CreateClient struct {
	ClinicianID string `json:"clinician_id" validate:"omitempty,uuid"`
	FirstName   string `json:"first_name" validate:"required,max=100"`
	LastName    string `json:"last_name" validate:"max=100"`
	Email       string `json:"email" validate:"omitempty,email"`
	Phone       string `json:"phone" validate:"max=32"`
	DateOfBirth string `json:"date_of_birth" validate:"omitempty,datetime=2006-01-02"`
	TimeZone    string `json:"time_zone" validate:"omitempty,max=64"`
}

type UpdateClient struct {
	FirstName   *string `json:"first_name" validate:"omitempty,max=100"`
	LastName    *string `json:"last_name" validate:"omitempty,max=100"`
	Email       *string `json:"email" validate:"omitempty,email"`
	Phone       *string `json:"phone" validate:"omitempty,max=32"`
	DateOfBirth *string `json:"date_of_birth" validate:"omitempty,datetime=2006-01-02"`
	TimeZone    *string `json:"time_zone" validate:"omitempty,max=64"`
	Status      *string `json:"status" validate:"omitempty,oneof=active inactive archived"`
}

type CreateAppointment struct {
	ClinicianID string    `json:"clinician_id" validate:"required"`
	ClientID    string    `json:"client_id" validate:"required"`
	SlotID      string    `json:"slot_id"`
	StartsAt    time.Time `json:"starts_at" validate:"required"`
	EndsAt      time.Time `json:"ends_at" validate:"required,gtfield=StartsAt"`
	Notes       string    `json:"notes" validate:"max=2000"`
}

type UpdateAppointment struct {
	StartsAt *time.Time `json:"starts_at"`
	EndsAt   *time.Time `json:"ends_at"`
	Status   *string    `json:"status" validate:"omitempty,oneof=scheduled completed cancelled no_show"`
	Notes    *string    `json:"notes" validate:"omitempty,max=2000"`
}

type CreateCalendarEvent struct {
	ClinicianID string    `json:"clinician_id"`
	Title       string    `json:"title" validate:"required,max=200"`
	Description string    `json:"description" validate:"max=2000"`
	StartsAt    time.Time `json:"starts_at" validate:"required"`
	EndsAt      time.Time `json:"ends_at" validate:"required,gtfield=StartsAt"`
	Color       string    `json:"color" validate:"omitempty,max=16"`
}

type UpdateCalendarEvent struct {
	Title       *string    `json:"title" validate:"omitempty,max=200"`
	Description *string    `json:"description" validate:"omitempty,max=2000"`
	StartsAt    *time.Time `json:"starts_at"`
	EndsAt      *time.Time `json:"ends_at"`
	Color       *string    `json:"color" validate:"omitempty,max=16"`
}

type CreateAssessment struct {
	ClientID    string          `json:"client_id" validate:"required"`
	ClinicianID string          `json:"clinician_id"`
	Instrument  string          `json:"instrument" validate:"required,max=64"`
	Answers     json.RawMessage `json:"answers"`
	Score       *int            `json:"score" validate:"omitempty,min=0"`
	Severity    string          `json:"severity" validate:"max=32"`
}

type UpdateAssessment struct {
	Answers  json.RawMessage `json:"answers"`
	Score    *int            `json:"score" validate:"omitempty,min=0"`
	Severity *string         `json:"severity" validate:"omitempty,max=32"`
	Complete bool            `json:"complete"`
}

type UpdateUser struct {
	FullName  *string `json:"full_name" validate:"omitempty,max=200"`
	TimeZone  *string `json:"time_zone" validate:"omitempty,max=64"`
	AvatarURL *string `json:"avatar_url" validate:"omitempty,url"`
}

type UpsertWeeklyAvailability struct {
	TimeZone string                    `json:"time_zone" validate:"omitempty,max=64"`
	Weekly   models.WeeklyAvailability `json:"weekly" validate:"required"`
}

type CreateAvailabilityException struct {
	SlotID string `json:"slot_id" validate:"required"`
	Date   string `json:"date" validate:"required,datetime=2006-01-02"`
	Reason string `json:"reason" validate:"max=500"`
}

type CalendarQuery struct {
	ClinicianID         string
	TimeZone            string
	WeeksToShow         int
	IncludeAppointments bool
}

type GenerateDocument struct {
	Template      string                 `json:"template" validate:"required,oneof=intake progress_note assessment_summary"`
	ClientID      string                 `json:"client_id" validate:"required"`
	Title         string                 `json:"title" validate:"required,max=200"`
	Fields        []models.DocumentField `json:"fields" validate:"dive"`
	Notes         string                 `json:"notes" validate:"max=10000"`
	AppointmentID string                 `json:"appointment_id"`
	AssessmentID  string                 `json:"assessment_id"`
	Async         bool                   `json:"async"`
}
