package appointments

import (
	"clinic-portal-service/internal/app/models"
	"clinic-portal-service/internal/pkg/constvars"
	"clinic-portal-service/internal/pkg/dto/requests"
	"clinic-portal-service/internal/pkg/dto/responses"
	"clinic-portal-service/internal/pkg/exceptions"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type MockAppointmentRepository struct {
	mock.Mock
}

func (m *MockAppointmentRepository) List(ctx context.Context, filter requests.AppointmentFilter) ([]models.Appointment, int, error) {
	args := m.Called(ctx, filter)
	rows, _ := args.Get(0).([]models.Appointment)
	return rows, args.Int(1), args.Error(2)
}

func (m *MockAppointmentRepository) FindByID(ctx context.Context, appointmentID string) (*models.Appointment, error) {
	args := m.Called(ctx, appointmentID)
	appointment, _ := args.Get(0).(*models.Appointment)
	return appointment, args.Error(1)
}

func (m *MockAppointmentRepository) Create(ctx context.Context, appointment *models.Appointment) (*models.Appointment, error) {
	args := m.Called(ctx, appointment)
	created, _ := args.Get(0).(*models.Appointment)
	return created, args.Error(1)
}

func (m *MockAppointmentRepository) Update(ctx context.Context, appointmentID string, patch map[string]interface{}) (*models.Appointment, error) {
	args := m.Called(ctx, appointmentID, patch)
	updated, _ := args.Get(0).(*models.Appointment)
	return updated, args.Error(1)
}

func (m *MockAppointmentRepository) Delete(ctx context.Context, appointmentID string) error {
	return m.Called(ctx, appointmentID).Error(0)
}

type MockAvailabilityUsecase struct {
	mock.Mock
}

func (m *MockAvailabilityUsecase) GetWeeklyAvailability(ctx context.Context, clinicianID string) (*models.ClinicianAvailability, error) {
	args := m.Called(ctx, clinicianID)
	pattern, _ := args.Get(0).(*models.ClinicianAvailability)
	return pattern, args.Error(1)
}

func (m *MockAvailabilityUsecase) UpsertWeeklyAvailability(ctx context.Context, clinicianID string, input *requests.UpsertWeeklyAvailability) (*models.ClinicianAvailability, error) {
	args := m.Called(ctx, clinicianID, input)
	pattern, _ := args.Get(0).(*models.ClinicianAvailability)
	return pattern, args.Error(1)
}

func (m *MockAvailabilityUsecase) GetCalendar(ctx context.Context, query requests.CalendarQuery) (*responses.Calendar, error) {
	args := m.Called(ctx, query)
	calendar, _ := args.Get(0).(*responses.Calendar)
	return calendar, args.Error(1)
}

func (m *MockAvailabilityUsecase) ListExceptions(ctx context.Context, clinicianID string) ([]models.AvailabilityException, error) {
	args := m.Called(ctx, clinicianID)
	rows, _ := args.Get(0).([]models.AvailabilityException)
	return rows, args.Error(1)
}

func (m *MockAvailabilityUsecase) CreateException(ctx context.Context, clinicianID string, input *requests.CreateAvailabilityException) (*models.AvailabilityException, error) {
	args := m.Called(ctx, clinicianID, input)
	exception, _ := args.Get(0).(*models.AvailabilityException)
	return exception, args.Error(1)
}

func (m *MockAvailabilityUsecase) DeleteException(ctx context.Context, clinicianID, exceptionID string) error {
	return m.Called(ctx, clinicianID, exceptionID).Error(0)
}

func (m *MockAvailabilityUsecase) InvalidateClinician(ctx context.Context, clinicianID string) error {
	return m.Called(ctx, clinicianID).Error(0)
}

func withUser(role, id string) context.Context {
	return context.WithValue(context.Background(), constvars.CONTEXT_AUTH_USER_KEY, models.AuthUser{ID: id, Role: role})
}

func TestAppointmentUsecaseList(t *testing.T) {
	from := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 0, -7)

	tests := []struct {
		name  string
		ctx   context.Context
		match func(requests.AppointmentFilter) bool
	}{
		{
			name: "Client Sees Own Appointments",
			ctx:  withUser(constvars.RoleClient, "client-1"),
			match: func(f requests.AppointmentFilter) bool {
				return f.ClientID == "client-1" && f.ClinicianID == "doc-9"
			},
		},
		{
			name: "Clinician Sees Own Schedule",
			ctx:  withUser(constvars.RoleClinician, "doc-1"),
			match: func(f requests.AppointmentFilter) bool {
				return f.ClinicianID == "doc-1" && f.ClientID == ""
			},
		},
		{
			name: "Reversed Window Is Swapped",
			ctx:  withUser(constvars.RoleAdmin, "admin-1"),
			match: func(f requests.AppointmentFilter) bool {
				return f.From.Equal(to) && f.To.Equal(from)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockAppointmentRepository)
			uc := NewAppointmentUsecase(repo, new(MockAvailabilityUsecase), zap.NewNop())
			repo.On("List", mock.Anything, mock.MatchedBy(tt.match)).Return([]models.Appointment{}, 0, nil).Once()

			_, _, err := uc.List(tt.ctx, requests.AppointmentFilter{ClinicianID: "doc-9", From: &from, To: &to})

			require.NoError(t, err)
			repo.AssertExpectations(t)
		})
	}
}

func TestAppointmentUsecaseCreate(t *testing.T) {
	repo := new(MockAppointmentRepository)
	availability := new(MockAvailabilityUsecase)
	uc := NewAppointmentUsecase(repo, availability, zap.NewNop())

	loc, err := time.LoadLocation("America/Chicago")
	require.NoError(t, err)
	start := time.Date(2025, 1, 13, 9, 0, 0, 0, loc)

	repo.On("Create", mock.Anything, mock.MatchedBy(func(a *models.Appointment) bool {
		return a.Status == models.AppointmentStatusScheduled && a.StartsAt.Location() == time.UTC && a.StartsAt.Equal(start)
	})).Return(&models.Appointment{ID: "a1", ClinicianID: "doc-1"}, nil).Once()
	availability.On("InvalidateClinician", mock.Anything, "doc-1").Return(errors.New("redis down")).Once()

	created, err := uc.Create(context.Background(), &requests.CreateAppointment{
		ClinicianID: "doc-1",
		ClientID:    "client-1",
		StartsAt:    start,
		EndsAt:      start.Add(time.Hour),
	})

	require.NoError(t, err, "a failed invalidation must not fail the write")
	assert.Equal(t, "a1", created.ID)
	repo.AssertExpectations(t)
	availability.AssertExpectations(t)
}

func TestAppointmentUsecaseUpdate(t *testing.T) {
	start := time.Date(2025, 1, 13, 15, 0, 0, 0, time.UTC)
	existing := &models.Appointment{ID: "a1", ClinicianID: "doc-1", StartsAt: start, EndsAt: start.Add(time.Hour)}

	t.Run("End Before Start Is Rejected", func(t *testing.T) {
		repo := new(MockAppointmentRepository)
		uc := NewAppointmentUsecase(repo, new(MockAvailabilityUsecase), zap.NewNop())
		repo.On("FindByID", mock.Anything, "a1").Return(existing, nil).Once()
		earlier := start.Add(-time.Hour)

		_, err := uc.Update(context.Background(), "a1", &requests.UpdateAppointment{EndsAt: &earlier})

		assert.Equal(t, constvars.StatusBadRequest, exceptions.StatusCodeOf(err))
		repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Cancel Invalidates Calendar", func(t *testing.T) {
		repo := new(MockAppointmentRepository)
		availability := new(MockAvailabilityUsecase)
		uc := NewAppointmentUsecase(repo, availability, zap.NewNop())
		status := models.AppointmentStatusCancelled
		repo.On("FindByID", mock.Anything, "a1").Return(existing, nil).Once()
		repo.On("Update", mock.Anything, "a1", map[string]interface{}{"status": status}).Return(&models.Appointment{ID: "a1", Status: status}, nil).Once()
		availability.On("InvalidateClinician", mock.Anything, "doc-1").Return(nil).Once()

		updated, err := uc.Update(context.Background(), "a1", &requests.UpdateAppointment{Status: &status})

		require.NoError(t, err)
		assert.Equal(t, status, updated.Status)
		availability.AssertExpectations(t)
	})
}

func TestAppointmentUsecaseDelete(t *testing.T) {
	repo := new(MockAppointmentRepository)
	availability := new(MockAvailabilityUsecase)
	uc := NewAppointmentUsecase(repo, availability, zap.NewNop())

	notFound := exceptions.ErrSupabaseNotFound(errors.New("no rows"), constvars.TableAppointments)
	repo.On("FindByID", mock.Anything, "missing").Return(nil, notFound).Once()

	err := uc.Delete(context.Background(), "missing")

	assert.Equal(t, constvars.StatusNotFound, exceptions.StatusCodeOf(err))
	availability.AssertNotCalled(t, "InvalidateClinician", mock.Anything, mock.Anything)
}
