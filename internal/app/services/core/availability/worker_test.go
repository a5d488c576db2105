package availability

import (
	"clinic-portal-service/internal/app/config"
	"clinic-portal-service/internal/app/models"
	"clinic-portal-service/internal/app/services/shared/realtime"
	"clinic-portal-service/internal/app/services/shared/requestqueue"
	"clinic-portal-service/internal/pkg/constvars"
	"clinic-portal-service/internal/pkg/dto/requests"
	"clinic-portal-service/internal/pkg/dto/responses"
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeLocker struct {
	mu       sync.Mutex
	held     bool
	unlocked int
}

func (l *fakeLocker) TryLock(ctx context.Context, key string, expiration time.Duration) (bool, string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.held {
		return false, "", nil
	}
	l.held = true
	return true, "token", nil
}

func (l *fakeLocker) Unlock(ctx context.Context, key, lockValue string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.held = false
	l.unlocked++
	return nil
}

func (l *fakeLocker) Refresh(ctx context.Context, key, lockValue string, expiration time.Duration) error {
	return nil
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
	created, _ := args.Get(0).(*models.AvailabilityException)
	return created, args.Error(1)
}

func (m *MockAvailabilityUsecase) DeleteException(ctx context.Context, clinicianID, exceptionID string) error {
	return m.Called(ctx, clinicianID, exceptionID).Error(0)
}

func (m *MockAvailabilityUsecase) InvalidateClinician(ctx context.Context, clinicianID string) error {
	return m.Called(ctx, clinicianID).Error(0)
}

func TestWorkerRunOnce(t *testing.T) {
	cfg := config.AppAvailability{WarmCronSpec: "@hourly", WarmLockTTL: time.Minute, WarmWeeks: 4}

	t.Run("Warms Every Clinician At Low Priority", func(t *testing.T) {
		locker := &fakeLocker{}
		repo := new(MockAvailabilityRepository)
		uc := new(MockAvailabilityUsecase)
		repo.On("ListClinicianIDs", mock.Anything).Return([]string{"doc-1", "doc-2"}, nil)
		uc.On("GetCalendar", mock.MatchedBy(func(ctx context.Context) bool {
			return requestqueue.PriorityFromContext(ctx) == requestqueue.PriorityLow
		}), mock.MatchedBy(func(q requests.CalendarQuery) bool {
			return q.WeeksToShow == 4 && !q.IncludeAppointments
		})).Return(&responses.Calendar{}, nil)
		uc.On("GetCalendar", mock.Anything, mock.Anything).Return(nil, errors.New("unexpected query"))

		NewWorker(zap.NewNop(), cfg, locker, repo, uc).RunOnce(context.Background())

		uc.AssertNumberOfCalls(t, "GetCalendar", 2)
		assert.Equal(t, 1, locker.unlocked)
		assert.False(t, locker.held)
	})

	t.Run("Skips When Another Instance Holds The Lock", func(t *testing.T) {
		locker := &fakeLocker{held: true}
		repo := new(MockAvailabilityRepository)
		uc := new(MockAvailabilityUsecase)

		NewWorker(zap.NewNop(), cfg, locker, repo, uc).RunOnce(context.Background())

		repo.AssertNotCalled(t, "ListClinicianIDs", mock.Anything)
		assert.Equal(t, 0, locker.unlocked)
	})

	t.Run("One Failing Clinician Does Not Stop The Run", func(t *testing.T) {
		locker := &fakeLocker{}
		repo := new(MockAvailabilityRepository)
		uc := new(MockAvailabilityUsecase)
		repo.On("ListClinicianIDs", mock.Anything).Return([]string{"doc-1", "doc-2"}, nil)
		uc.On("GetCalendar", mock.Anything, mock.MatchedBy(func(q requests.CalendarQuery) bool { return q.ClinicianID == "doc-1" })).Return(nil, errors.New("supabase down"))
		uc.On("GetCalendar", mock.Anything, mock.MatchedBy(func(q requests.CalendarQuery) bool { return q.ClinicianID == "doc-2" })).Return(&responses.Calendar{}, nil)

		NewWorker(zap.NewNop(), cfg, locker, repo, uc).RunOnce(context.Background())

		uc.AssertNumberOfCalls(t, "GetCalendar", 2)
	})
}

func TestWorkerStartStop(t *testing.T) {
	w := NewWorker(zap.NewNop(), config.AppAvailability{WarmCronSpec: "not a spec"}, &fakeLocker{}, new(MockAvailabilityRepository), new(MockAvailabilityUsecase))
	w.Start(context.Background())
	require.NotNil(t, w.cron)
	assert.Len(t, w.cron.Entries(), 1, "invalid spec falls back to hourly")
	w.Stop()
	w.Stop()
}

type fakeSubscriber struct {
	subs     []realtime.Subscription
	handlers []realtime.Handler
	removed  int
}

func (f *fakeSubscriber) Subscribe(sub realtime.Subscription, handler realtime.Handler) func() {
	f.subs = append(f.subs, sub)
	f.handlers = append(f.handlers, handler)
	return func() { f.removed++ }
}

func TestSubscribeInvalidations(t *testing.T) {
	sub := &fakeSubscriber{}
	uc := new(MockAvailabilityUsecase)
	uc.On("InvalidateClinician", mock.Anything, "doc-1").Return(nil)

	unsubscribe := SubscribeInvalidations(sub, uc, constvars.SupabaseSchemaPublic, zap.NewNop())

	require.Len(t, sub.subs, 3)
	assert.Equal(t, constvars.TableClinicianAvailability, sub.subs[0].Table)
	assert.Equal(t, "*", sub.subs[0].Event)

	// deletes only carry the old row
	sub.handlers[2](context.Background(), realtime.ChangeEvent{
		Type:      "DELETE",
		Table:     constvars.TableAppointments,
		OldRecord: map[string]interface{}{"id": "a1", "clinician_id": "doc-1"},
	})
	sub.handlers[1](context.Background(), realtime.ChangeEvent{Type: "INSERT", Record: map[string]interface{}{"id": "e1"}})

	uc.AssertNumberOfCalls(t, "InvalidateClinician", 1)

	unsubscribe()
	assert.Equal(t, 3, sub.removed)
}
