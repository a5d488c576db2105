package diagnostics

import (
	"clinic-portal-service/internal/app/services/shared/realtime"
	redisrepo "clinic-portal-service/internal/app/services/shared/redis"
	"clinic-portal-service/internal/pkg/dto/responses"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakePinger struct {
	latency time.Duration
	err     error
}

func (p fakePinger) Ping(ctx context.Context) (time.Duration, error) {
	return p.latency, p.err
}

type fakeStorage struct {
	exists bool
}

func (s fakeStorage) UploadObject(ctx context.Context, bucketName, objectName, contentType string, data []byte) (string, error) {
	return "", nil
}

func (s fakeStorage) GetObjectUrlWithExpiryTime(ctx context.Context, bucketName, objectName string, expiryTime time.Duration) (string, error) {
	return "", nil
}

func (s fakeStorage) RemoveObject(ctx context.Context, bucketName, objectName string) error {
	return nil
}

func (s fakeStorage) BucketExists(ctx context.Context, bucketName string) (bool, error) {
	return s.exists, nil
}

type fakeRealtime struct {
	status realtime.Status
}

func (f fakeRealtime) Status() realtime.Status {
	return f.status
}

func byName(results []responses.DiagnosticResult) map[string]responses.DiagnosticResult {
	out := make(map[string]responses.DiagnosticResult, len(results))
	for _, r := range results {
		out[r.Name] = r
	}
	return out
}

func newRedis(t *testing.T) *miniredis.Miniredis {
	t.Helper()
	return miniredis.RunT(t)
}

func TestRunHealthy(t *testing.T) {
	mr := newRedis(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	uc := NewDiagnosticsUsecase(Dependencies{
		REST:            fakePinger{latency: 42 * time.Millisecond},
		Redis:           redisrepo.NewRedisRepository(client),
		Storage:         fakeStorage{exists: true},
		Realtime:        fakeRealtime{status: realtime.Status{Connected: true, Channels: 3}},
		Bucket:          "documents",
		DefaultTimeZone: "America/Chicago",
	}, zap.NewNop())

	report := uc.Run(context.Background(), "eastern")

	assert.True(t, report.Healthy)
	results := byName(report.Results)
	require.Len(t, results, 6)

	rest := results["supabase_rest"]
	require.NotNil(t, rest.Connection)
	assert.Equal(t, int64(42), rest.Connection.LatencyMS)
	assert.Nil(t, rest.Storage)

	assert.True(t, results["storage_bucket"].Storage.Exists)
	assert.Equal(t, 3, results["realtime"].Realtime.Channels)

	tz := results["time_zone:eastern"]
	require.NotNil(t, tz.TimeZone)
	assert.Equal(t, "America/New_York", tz.TimeZone.Resolved)
	assert.False(t, tz.TimeZone.FellBack)
}

func TestRunReportsEachFailure(t *testing.T) {
	mr := newRedis(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	mr.Close()

	uc := NewDiagnosticsUsecase(Dependencies{
		REST:     fakePinger{err: errors.New("connection refused")},
		Redis:    redisrepo.NewRedisRepository(client),
		Storage:  fakeStorage{exists: false},
		Realtime: fakeRealtime{status: realtime.Status{LastError: "handshake failed"}},
		Bucket:   "documents",
	}, zap.NewNop())

	report := uc.Run(context.Background(), "Mars/Olympus_Mons")

	assert.False(t, report.Healthy)
	results := byName(report.Results)
	assert.False(t, results["supabase_rest"].Success)
	assert.Equal(t, "connection refused", results["supabase_rest"].Message)
	assert.False(t, results["redis"].Success)
	assert.False(t, results["storage_bucket"].Success)
	assert.Equal(t, "not connected: handshake failed", results["realtime"].Message)

	tz := results["time_zone:Mars/Olympus_Mons"]
	assert.True(t, tz.Success)
	assert.True(t, tz.TimeZone.FellBack)
	assert.Equal(t, "America/Chicago", tz.TimeZone.Resolved)
}

func TestRunWithoutRealtime(t *testing.T) {
	mr := newRedis(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	uc := NewDiagnosticsUsecase(Dependencies{
		REST:    fakePinger{},
		Redis:   redisrepo.NewRedisRepository(client),
		Storage: fakeStorage{exists: true},
		Bucket:  "documents",
	}, zap.NewNop())

	report := uc.Run(context.Background(), "")

	results := byName(report.Results)
	require.Len(t, results, 5)
	assert.Equal(t, "realtime disabled", results["realtime"].Message)
	assert.False(t, results["realtime"].Realtime.Enabled)
}
