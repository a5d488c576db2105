package requests

import "time"

type ClientFilter struct {
	ClinicianID string
	Status      string
	Search      string
	Pagination  Pagination
}

type AppointmentFilter struct {
	ClinicianID string
	ClientID    string
	Status      string
	From        *time.Time
	To          *time.Time
	Pagination  Pagination
}

type CalendarEventFilter struct {
	ClinicianID string
	From        *time.Time
	To          *time.Time
}

type DocumentFilter struct {
	ClientID    string
	ClinicianID string
	Template    string
	Pagination  Pagination
}

type AssessmentFilter struct {
	ClientID    string
	ClinicianID string
	Instrument  string
	Pagination  Pagination
}

type AvailabilityExceptionFilter struct {
	ClinicianID string
	From        string
	To          string
}
