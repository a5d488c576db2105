package supabase

import (
	"clinic-portal-service/internal/app/models"
	"clinic-portal-service/internal/app/services/shared/ratelimiter"
	"clinic-portal-service/internal/app/services/shared/requestqueue"
	"clinic-portal-service/internal/app/services/supabase/rest"
	"clinic-portal-service/internal/pkg/constvars"
	"clinic-portal-service/internal/pkg/dto/requests"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type recordedRequest struct {
	Method string
	Path   string
	Query  map[string][]string
	Prefer string
	Body   []byte
}

func newRestClient(t *testing.T, status int, body string, seen *[]recordedRequest) *rest.Client {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		*seen = append(*seen, recordedRequest{
			Method: r.Method,
			Path:   r.URL.Path,
			Query:  r.URL.Query(),
			Prefer: r.Header.Get(constvars.HeaderPrefer),
			Body:   b,
		})
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)

	queue := requestqueue.New(zap.NewNop(), requestqueue.Config{MaxConcurrency: 1}, nil)
	return rest.NewClient(rest.Config{URL: srv.URL, AnonKey: "anon", ServiceRoleKey: "service"}, queue, ratelimiter.NewTokenBucket(0, 1, nil), zap.NewNop())
}

func TestAppointmentRepositoryList(t *testing.T) {
	var seen []recordedRequest
	repo := NewAppointmentRepository(newRestClient(t, http.StatusOK, `[{"id":"a1","clinician_id":"doc-1"}]`, &seen), zap.NewNop())

	from := time.Date(2025, 1, 13, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 0, 7)
	rows, total, err := repo.List(context.Background(), requests.AppointmentFilter{ClinicianID: "doc-1", From: &from, To: &to})

	require.NoError(t, err)
	require.Len(t, seen, 1, "one request per call")
	assert.Len(t, rows, 1)
	assert.Equal(t, 1, total)
	assert.Equal(t, "/rest/v1/appointments", seen[0].Path)
	assert.Equal(t, []string{"gte.2025-01-13T00:00:00Z", "lt.2025-01-20T00:00:00Z"}, seen[0].Query["starts_at"])
	assert.Equal(t, []string{"eq.doc-1"}, seen[0].Query["clinician_id"])
}

func TestClientRepositoryUpdate(t *testing.T) {
	var seen []recordedRequest
	repo := NewClientRepository(newRestClient(t, http.StatusOK, `{"id":"c1","first_name":"Ada","status":"inactive"}`, &seen), zap.NewNop())

	client, err := repo.Update(context.Background(), "c1", map[string]interface{}{"status": "inactive"})

	require.NoError(t, err)
	assert.Equal(t, "inactive", client.Status)
	require.Len(t, seen, 1)
	assert.Equal(t, http.MethodPatch, seen[0].Method)
	assert.Equal(t, []string{"eq.c1"}, seen[0].Query["id"])
	assert.Equal(t, constvars.PreferReturnRepresentation, seen[0].Prefer)
	assert.JSONEq(t, `{"status":"inactive"}`, string(seen[0].Body))
}

func TestAvailabilityRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("Missing Pattern Is Not An Error", func(t *testing.T) {
		var seen []recordedRequest
		repo := NewAvailabilityRepository(newRestClient(t, http.StatusNotAcceptable, `{"code":"PGRST116","message":"no rows"}`, &seen), zap.NewNop())

		pattern, err := repo.FindByClinicianID(ctx, "doc-1")
		require.NoError(t, err)
		assert.Nil(t, pattern)
	})

	t.Run("Upsert Merges On Clinician", func(t *testing.T) {
		var seen []recordedRequest
		repo := NewAvailabilityRepository(newRestClient(t, http.StatusCreated, `{"clinician_id":"doc-1","time_zone":"America/Chicago","weekly":{"monday":[{"id":"s1","startTime":"09:00","endTime":"10:00","isRecurring":true}]}}`, &seen), zap.NewNop())

		saved, err := repo.Upsert(ctx, &models.ClinicianAvailability{
			ClinicianID: "doc-1",
			TimeZone:    "America/Chicago",
			Weekly: models.WeeklyAvailability{
				"monday": {{ID: "s1", StartTime: "09:00", EndTime: "10:00", IsRecurring: true}},
			},
		})
		require.NoError(t, err)
		require.Len(t, saved.Weekly["monday"], 1)
		assert.Equal(t, []string{"clinician_id"}, seen[0].Query["on_conflict"])
		assert.Equal(t, constvars.PreferMergeDuplicates, seen[0].Prefer)

		var body map[string]interface{}
		require.NoError(t, json.Unmarshal(seen[0].Body, &body))
		assert.Equal(t, "doc-1", body["clinician_id"])
	})

	t.Run("Exceptions Filter By Date Range", func(t *testing.T) {
		var seen []recordedRequest
		repo := NewAvailabilityRepository(newRestClient(t, http.StatusOK, `[{"id":"e1","clinician_id":"doc-1","slot_id":"s1","date":"2025-01-13"}]`, &seen), zap.NewNop())

		rows, err := repo.ListExceptions(ctx, requests.AvailabilityExceptionFilter{ClinicianID: "doc-1", From: "2025-01-13", To: "2025-03-10"})
		require.NoError(t, err)
		assert.Len(t, rows, 1)
		assert.Equal(t, []string{"gte.2025-01-13", "lte.2025-03-10"}, seen[0].Query["date"])
	})

	t.Run("List Clinician IDs Selects One Column", func(t *testing.T) {
		var seen []recordedRequest
		repo := NewAvailabilityRepository(newRestClient(t, http.StatusOK, `[{"clinician_id":"doc-1"},{"clinician_id":"doc-2"}]`, &seen), zap.NewNop())

		ids, err := repo.ListClinicianIDs(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"doc-1", "doc-2"}, ids)
		assert.Equal(t, []string{"clinician_id"}, seen[0].Query["select"])
	})
}
