package models

import "time"

type Document struct {
	ID          string     `json:"id,omitempty"`
	ClientID    string     `json:"client_id"`
	ClinicianID string     `json:"clinician_id,omitempty"`
	Template    string     `json:"template"`
	Title       string     `json:"title"`
	Bucket      string     `json:"bucket"`
	ObjectPath  string     `json:"object_path"`
	ContentType string     `json:"content_type"`
	SizeBytes   int64      `json:"size_bytes"`
	Status      string     `json:"status"`
	CreatedBy   string     `json:"created_by,omitempty"`
	CreatedAt   *time.Time `json:"created_at,omitempty"`
}

// DocumentField is one labelled row of a rendered clinical form.
type DocumentField struct {
	Label string `json:"label" validate:"required"`
	Value string `json:"value"`
}

// DocumentRenderJob is the queued request for an asynchronous render.
type DocumentRenderJob struct {
	JobID       string          `json:"job_id"`
	DocumentID  string          `json:"document_id"`
	RequestedBy string          `json:"requested_by"`
	Template    string          `json:"template"`
	ClientID    string          `json:"client_id"`
	Title       string          `json:"title"`
	Fields      []DocumentField `json:"fields,omitempty"`
	Notes       string          `json:"notes,omitempty"`
	// AppointmentID and AssessmentID are optional context for the progress_note and
	// assessment_summary templates.
	AppointmentID string    `json:"appointment_id,omitempty"`
	AssessmentID  string    `json:"assessment_id,omitempty"`
	Attempt       int       `json:"attempt"`
	EnqueuedAt    time.Time `json:"enqueued_at"`
}

// DocumentTemplateData is what the clinical-form templates are executed with.
type DocumentTemplateData struct {
	Title         string
	ClinicName    string
	ClinicianName string
	GeneratedAt   time.Time
	Client        Client
	Appointment   *Appointment
	Assessment    *Assessment
	Fields        []DocumentField
	Notes         string
}
