package diagnostics

import (
	"clinic-portal-service/internal/app/contracts"
	"clinic-portal-service/internal/app/services/core/availability"
	"clinic-portal-service/internal/app/services/shared/realtime"
	"clinic-portal-service/internal/pkg/constvars"
	"clinic-portal-service/internal/pkg/dto/responses"
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const checkTimeout = 5 * time.Second

type RESTPinger interface {
	Ping(ctx context.Context) (time.Duration, error)
}

type RealtimeStatus interface {
	Status() realtime.Status
}

type Dependencies struct {
	REST            RESTPinger
	Redis           contracts.RedisRepository
	Storage         contracts.Storage
	// Realtime is nil when the realtime feed is disabled.
	Realtime        RealtimeStatus
	Bucket          string
	DefaultTimeZone string
}

type diagnosticsUsecase struct {
	deps Dependencies
	log  *zap.Logger
	now  func() time.Time
}

func NewDiagnosticsUsecase(deps Dependencies, logger *zap.Logger) contracts.DiagnosticsUsecase {
	if deps.DefaultTimeZone == "" {
		deps.DefaultTimeZone = constvars.AvailabilityDefaultTimeZone
	}
	return &diagnosticsUsecase{deps: deps, log: logger, now: time.Now}
}

func (uc *diagnosticsUsecase) Run(ctx context.Context, timeZone string) *responses.Diagnostics {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.log.Info("diagnosticsUsecase.Run called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
	)

	checks := []func(context.Context) responses.DiagnosticResult{
		uc.checkREST,
		uc.checkRedis,
		uc.checkStorage,
		uc.checkRealtime,
		func(context.Context) responses.DiagnosticResult { return uc.checkTimeZone(uc.deps.DefaultTimeZone) },
	}
	if strings.TrimSpace(timeZone) != "" {
		checks = append(checks, func(context.Context) responses.DiagnosticResult { return uc.checkTimeZone(timeZone) })
	}

	results := make([]responses.DiagnosticResult, len(checks))
	var g errgroup.Group
	for i, check := range checks {
		i, check := i, check
		g.Go(func() error {
			checkCtx, cancel := context.WithTimeout(ctx, checkTimeout)
			defer cancel()
			results[i] = check(checkCtx)
			return nil
		})
	}
	g.Wait()

	healthy := true
	for _, r := range results {
		if !r.Success {
			healthy = false
			uc.log.Warn("diagnosticsUsecase.Run check failed",
				zap.String(constvars.LoggingRequestIDKey, requestID),
				zap.String("check", r.Name),
				zap.String("message", r.Message),
			)
		}
	}
	return &responses.Diagnostics{Healthy: healthy, CheckedAt: uc.now().UTC(), Results: results}
}

func (uc *diagnosticsUsecase) checkREST(ctx context.Context) responses.DiagnosticResult {
	result := responses.DiagnosticResult{
		Kind:       responses.DiagnosticKindConnection,
		Name:       "supabase_rest",
		Connection: &responses.ConnectionDiagnostic{Target: "postgrest"},
	}
	latency, err := uc.deps.REST.Ping(ctx)
	result.Connection.LatencyMS = latency.Milliseconds()
	if err != nil {
		result.Message = err.Error()
		return result
	}
	result.Success = true
	result.Message = fmt.Sprintf("reachable in %dms", result.Connection.LatencyMS)
	return result
}

func (uc *diagnosticsUsecase) checkRedis(ctx context.Context) responses.DiagnosticResult {
	result := responses.DiagnosticResult{
		Kind:       responses.DiagnosticKindConnection,
		Name:       "redis",
		Connection: &responses.ConnectionDiagnostic{Target: "redis"},
	}
	start := time.Now()
	err := uc.deps.Redis.Ping(ctx)
	result.Connection.LatencyMS = time.Since(start).Milliseconds()
	if err != nil {
		result.Message = err.Error()
		return result
	}
	result.Success = true
	result.Message = "pong"
	return result
}

func (uc *diagnosticsUsecase) checkStorage(ctx context.Context) responses.DiagnosticResult {
	result := responses.DiagnosticResult{
		Kind:    responses.DiagnosticKindStorage,
		Name:    "storage_bucket",
		Storage: &responses.StorageDiagnostic{Bucket: uc.deps.Bucket},
	}
	exists, err := uc.deps.Storage.BucketExists(ctx, uc.deps.Bucket)
	switch {
	case err != nil:
		result.Message = err.Error()
	case !exists:
		result.Message = fmt.Sprintf("bucket %s does not exist", uc.deps.Bucket)
	default:
		result.Success = true
		result.Storage.Exists = true
		result.Message = "bucket available"
	}
	return result
}

func (uc *diagnosticsUsecase) checkRealtime(ctx context.Context) responses.DiagnosticResult {
	result := responses.DiagnosticResult{
		Kind:     responses.DiagnosticKindRealtime,
		Name:     "realtime",
		Realtime: &responses.RealtimeDiagnostic{},
	}
	if uc.deps.Realtime == nil {
		result.Success = true
		result.Message = "realtime disabled"
		return result
	}

	status := uc.deps.Realtime.Status()
	*result.Realtime = responses.RealtimeDiagnostic{
		Enabled:       true,
		Connected:     status.Connected,
		Channels:      status.Channels,
		Reconnects:    status.Reconnects,
		LastError:     status.LastError,
		LastHeartbeat: status.LastHeartbeat,
	}
	if !status.Connected {
		result.Message = "not connected"
		if status.LastError != "" {
			result.Message += ": " + status.LastError
		}
		return result
	}
	result.Success = true
	result.Message = fmt.Sprintf("connected, %d channels", status.Channels)
	return result
}

func (uc *diagnosticsUsecase) checkTimeZone(tz string) responses.DiagnosticResult {
	_, known := availability.ResolveTimeZone(tz)
	resolved := availability.NormalizeTimeZone(tz)
	loc := availability.LoadTimeZone(resolved)
	local := uc.now().In(loc)

	detail := &responses.TimeZoneDiagnostic{
		Requested: tz,
		Resolved:  resolved,
		FellBack:  !known,
		UTCOffset: local.Format("-07:00"),
		LocalNow:  local.Format(time.RFC3339),
	}
	result := responses.DiagnosticResult{
		Kind:     responses.DiagnosticKindTimeZone,
		Name:     "time_zone:" + tz,
		Success:  true,
		Message:  fmt.Sprintf("%s resolves to %s", tz, resolved),
		TimeZone: detail,
	}
	if detail.FellBack {
		result.Message = fmt.Sprintf("%s is not a known zone, using %s", tz, resolved)
	}
	return result
}
