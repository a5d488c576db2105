package contracts

import (
	"clinic-portal-service/internal/app/models"
	"clinic-portal-service/internal/pkg/dto/requests"
	"context"
)

// Each repository method issues exactly one PostgREST request.

type ClientRepository interface {
	List(ctx context.Context, filter requests.ClientFilter) ([]models.Client, int, error)
	FindByID(ctx context.Context, clientID string) (*models.Client, error)
	Create(ctx context.Context, client *models.Client) (*models.Client, error)
	Update(ctx context.Context, clientID string, patch map[string]interface{}) (*models.Client, error)
	Delete(ctx context.Context, clientID string) error
}

type AppointmentRepository interface {
	List(ctx context.Context, filter requests.AppointmentFilter) ([]models.Appointment, int, error)
	FindByID(ctx context.Context, appointmentID string) (*models.Appointment, error)
	Create(ctx context.Context, appointment *models.Appointment) (*models.Appointment, error)
	Update(ctx context.Context, appointmentID string, patch map[string]interface{}) (*models.Appointment, error)
	Delete(ctx context.Context, appointmentID string) error
}

type CalendarEventRepository interface {
	List(ctx context.Context, filter requests.CalendarEventFilter) ([]models.StoredCalendarEvent, error)
	FindByID(ctx context.Context, eventID string) (*models.StoredCalendarEvent, error)
	Create(ctx context.Context, event *models.StoredCalendarEvent) (*models.StoredCalendarEvent, error)
	Update(ctx context.Context, eventID string, patch map[string]interface{}) (*models.StoredCalendarEvent, error)
	Delete(ctx context.Context, eventID string) error
}

type DocumentRepository interface {
	List(ctx context.Context, filter requests.DocumentFilter) ([]models.Document, int, error)
	FindByID(ctx context.Context, documentID string) (*models.Document, error)
	Create(ctx context.Context, document *models.Document) (*models.Document, error)
	Update(ctx context.Context, documentID string, patch map[string]interface{}) (*models.Document, error)
	Delete(ctx context.Context, documentID string) error
}

type AssessmentRepository interface {
	List(ctx context.Context, filter requests.AssessmentFilter) ([]models.Assessment, int, error)
	FindByID(ctx context.Context, assessmentID string) (*models.Assessment, error)
	Create(ctx context.Context, assessment *models.Assessment) (*models.Assessment, error)
	Update(ctx context.Context, assessmentID string, patch map[string]interface{}) (*models.Assessment, error)
	Delete(ctx context.Context, assessmentID string) error
}

type UserRepository interface {
	FindByID(ctx context.Context, userID string) (*models.User, error)
	Update(ctx context.Context, userID string, patch map[string]interface{}) (*models.User, error)
}

type AvailabilityRepository interface {
	// FindByClinicianID returns nil without error when the clinician has no stored pattern.
	FindByClinicianID(ctx context.Context, clinicianID string) (*models.ClinicianAvailability, error)
	Upsert(ctx context.Context, availability *models.ClinicianAvailability) (*models.ClinicianAvailability, error)
	ListClinicianIDs(ctx context.Context) ([]string, error)

	ListExceptions(ctx context.Context, filter requests.AvailabilityExceptionFilter) ([]models.AvailabilityException, error)
	CreateException(ctx context.Context, exception *models.AvailabilityException) (*models.AvailabilityException, error)
	DeleteException(ctx context.Context, clinicianID, exceptionID string) error
}
