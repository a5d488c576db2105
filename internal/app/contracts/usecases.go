package contracts

import (
	"clinic-portal-service/internal/app/models"
	"clinic-portal-service/internal/pkg/dto/requests"
	"clinic-portal-service/internal/pkg/dto/responses"
	"context"
)

type AvailabilityUsecase interface {
	GetWeeklyAvailability(ctx context.Context, clinicianID string) (*models.ClinicianAvailability, error)
	UpsertWeeklyAvailability(ctx context.Context, clinicianID string, input *requests.UpsertWeeklyAvailability) (*models.ClinicianAvailability, error)
	GetCalendar(ctx context.Context, query requests.CalendarQuery) (*responses.Calendar, error)
	ListExceptions(ctx context.Context, clinicianID string) ([]models.AvailabilityException, error)
	CreateException(ctx context.Context, clinicianID string, input *requests.CreateAvailabilityException) (*models.AvailabilityException, error)
	DeleteException(ctx context.Context, clinicianID, exceptionID string) error
	// InvalidateClinician drops every cached pattern and calendar of the clinician.
	InvalidateClinician(ctx context.Context, clinicianID string) error
}

type ClientUsecase interface {
	List(ctx context.Context, filter requests.ClientFilter) ([]models.Client, int, error)
	Get(ctx context.Context, clientID string) (*models.Client, error)
	Create(ctx context.Context, input *requests.CreateClient) (*models.Client, error)
	Update(ctx context.Context, clientID string, input *requests.UpdateClient) (*models.Client, error)
	Delete(ctx context.Context, clientID string) error
}

type AppointmentUsecase interface {
	List(ctx context.Context, filter requests.AppointmentFilter) ([]models.Appointment, int, error)
	Get(ctx context.Context, appointmentID string) (*models.Appointment, error)
	Create(ctx context.Context, input *requests.CreateAppointment) (*models.Appointment, error)
	Update(ctx context.Context, appointmentID string, input *requests.UpdateAppointment) (*models.Appointment, error)
	Delete(ctx context.Context, appointmentID string) error
}

type CalendarEventUsecase interface {
	List(ctx context.Context, filter requests.CalendarEventFilter) ([]models.StoredCalendarEvent, error)
	Create(ctx context.Context, input *requests.CreateCalendarEvent) (*models.StoredCalendarEvent, error)
	Update(ctx context.Context, eventID string, input *requests.UpdateCalendarEvent) (*models.StoredCalendarEvent, error)
	Delete(ctx context.Context, eventID string) error
}

type AssessmentUsecase interface {
	List(ctx context.Context, filter requests.AssessmentFilter) ([]models.Assessment, int, error)
	Get(ctx context.Context, assessmentID string) (*models.Assessment, error)
	Create(ctx context.Context, input *requests.CreateAssessment) (*models.Assessment, error)
	Update(ctx context.Context, assessmentID string, input *requests.UpdateAssessment) (*models.Assessment, error)
	Delete(ctx context.Context, assessmentID string) error
}

type UserUsecase interface {
	// CurrentUser returns the profile of the authenticated caller.
	CurrentUser(ctx context.Context) (*models.User, error)
	UpdateCurrentUser(ctx context.Context, input *requests.UpdateUser) (*models.User, error)
}

type DocumentUsecase interface {
	List(ctx context.Context, filter requests.DocumentFilter) ([]models.Document, int, error)
	Get(ctx context.Context, documentID string) (*models.Document, error)
	// Generate renders synchronously, or queues the render and returns a pending document when
	// input.Async is set.
	Generate(ctx context.Context, input *requests.GenerateDocument) (*models.Document, error)
	ProcessRenderJob(ctx context.Context, job models.DocumentRenderJob) error
	GetDownloadURL(ctx context.Context, documentID string) (*responses.DocumentDownload, error)
	Delete(ctx context.Context, documentID string) error
}

type DiagnosticsUsecase interface {
	// Run executes every check. timeZone is optional and is resolved next to the default zone.
	Run(ctx context.Context, timeZone string) *responses.Diagnostics
}
