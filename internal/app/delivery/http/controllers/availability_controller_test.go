package controllers

import (
	"clinic-portal-service/internal/app/models"
	"clinic-portal-service/internal/pkg/dto/requests"
	"clinic-portal-service/internal/pkg/dto/responses"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

type MockAvailabilityUsecase struct {
	mock.Mock
}

func (m *MockAvailabilityUsecase) GetWeeklyAvailability(ctx context.Context, clinicianID string) (*models.ClinicianAvailability, error) {
	args := m.Called(ctx, clinicianID)
	result, _ := args.Get(0).(*models.ClinicianAvailability)
	return result, args.Error(1)
}

func (m *MockAvailabilityUsecase) UpsertWeeklyAvailability(ctx context.Context, clinicianID string, input *requests.UpsertWeeklyAvailability) (*models.ClinicianAvailability, error) {
	args := m.Called(ctx, clinicianID, input)
	result, _ := args.Get(0).(*models.ClinicianAvailability)
	return result, args.Error(1)
}

func (m *MockAvailabilityUsecase) GetCalendar(ctx context.Context, query requests.CalendarQuery) (*responses.Calendar, error) {
	args := m.Called(ctx, query)
	result, _ := args.Get(0).(*responses.Calendar)
	return result, args.Error(1)
}

func (m *MockAvailabilityUsecase) ListExceptions(ctx context.Context, clinicianID string) ([]models.AvailabilityException, error) {
	args := m.Called(ctx, clinicianID)
	result, _ := args.Get(0).([]models.AvailabilityException)
	return result, args.Error(1)
}

func (m *MockAvailabilityUsecase) CreateException(ctx context.Context, clinicianID string, input *requests.CreateAvailabilityException) (*models.AvailabilityException, error) {
	args := m.Called(ctx, clinicianID, input)
	result, _ := args.Get(0).(*models.AvailabilityException)
	return result, args.Error(1)
}

func (m *MockAvailabilityUsecase) DeleteException(ctx context.Context, clinicianID, exceptionID string) error {
	return m.Called(ctx, clinicianID, exceptionID).Error(0)
}

func (m *MockAvailabilityUsecase) InvalidateClinician(ctx context.Context, clinicianID string) error {
	return m.Called(ctx, clinicianID).Error(0)
}

func setupAvailabilityRouter(usecase *MockAvailabilityUsecase) *chi.Mux {
	ctrl := &AvailabilityController{Log: zap.NewNop(), AvailabilityUsecase: usecase}
	router := chi.NewRouter()
	router.Get("/clinicians/{clinicianID}/availability", ctrl.GetWeekly)
	router.Put("/clinicians/{clinicianID}/availability", ctrl.UpsertWeekly)
	router.Get("/clinicians/{clinicianID}/calendar", ctrl.GetCalendar)
	router.Get("/clinicians/{clinicianID}/availability/exceptions", ctrl.ListExceptions)
	router.Post("/clinicians/{clinicianID}/availability/exceptions", ctrl.CreateException)
	router.Delete("/clinicians/{clinicianID}/availability/exceptions/{exceptionID}", ctrl.DeleteException)
	return router
}

func TestAvailabilityController_GetCalendar(t *testing.T) {
	t.Run("Query Parameters Reach Usecase", func(t *testing.T) {
		usecase := new(MockAvailabilityUsecase)
		router := setupAvailabilityRouter(usecase)

		usecase.On("GetCalendar", mock.Anything, requests.CalendarQuery{
			ClinicianID:         "doc-1",
			TimeZone:            "EST",
			WeeksToShow:         4,
			IncludeAppointments: true,
		}).Return(&responses.Calendar{ClinicianID: "doc-1", TimeZone: "America/New_York", WeeksToShow: 4}, nil)

		req := httptest.NewRequest(http.MethodGet, "/clinicians/doc-1/calendar?tz=EST&weeks=4&include_appointments=true", nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		usecase.AssertExpectations(t)
	})

	t.Run("Weeks Defaults To Zero When Absent", func(t *testing.T) {
		usecase := new(MockAvailabilityUsecase)
		router := setupAvailabilityRouter(usecase)

		usecase.On("GetCalendar", mock.Anything, requests.CalendarQuery{ClinicianID: "doc-1"}).
			Return(&responses.Calendar{ClinicianID: "doc-1"}, nil)

		req := httptest.NewRequest(http.MethodGet, "/clinicians/doc-1/calendar", nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("Invalid Weeks", func(t *testing.T) {
		usecase := new(MockAvailabilityUsecase)
		router := setupAvailabilityRouter(usecase)

		req := httptest.NewRequest(http.MethodGet, "/clinicians/doc-1/calendar?weeks=many", nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		usecase.AssertNotCalled(t, "GetCalendar", mock.Anything, mock.Anything)
	})
}

func TestAvailabilityController_CreateException(t *testing.T) {
	t.Run("Created", func(t *testing.T) {
		usecase := new(MockAvailabilityUsecase)
		router := setupAvailabilityRouter(usecase)

		usecase.On("CreateException", mock.Anything, "doc-1", &requests.CreateAvailabilityException{
			SlotID: "slot-1",
			Date:   "2026-11-02",
			Reason: "conference",
		}).Return(&models.AvailabilityException{ID: "ex-1", ClinicianID: "doc-1", SlotID: "slot-1", Date: "2026-11-02"}, nil)

		body := `{"slot_id":"slot-1","date":"2026-11-02","reason":"conference"}`
		req := httptest.NewRequest(http.MethodPost, "/clinicians/doc-1/availability/exceptions", strings.NewReader(body))
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusCreated, rr.Code)
		usecase.AssertExpectations(t)
	})

	t.Run("Bad Date", func(t *testing.T) {
		usecase := new(MockAvailabilityUsecase)
		router := setupAvailabilityRouter(usecase)

		body := `{"slot_id":"slot-1","date":"11/02/2026"}`
		req := httptest.NewRequest(http.MethodPost, "/clinicians/doc-1/availability/exceptions", strings.NewReader(body))
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestAvailabilityController_DeleteException(t *testing.T) {
	usecase := new(MockAvailabilityUsecase)
	router := setupAvailabilityRouter(usecase)
	usecase.On("DeleteException", mock.Anything, "doc-1", "ex-1").Return(nil)

	req := httptest.NewRequest(http.MethodDelete, "/clinicians/doc-1/availability/exceptions/ex-1", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	usecase.AssertExpectations(t)
}
