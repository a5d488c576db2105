package availability

import (
	"clinic-portal-service/internal/app/config"
	"clinic-portal-service/internal/app/contracts"
	"clinic-portal-service/internal/app/services/shared/requestqueue"
	"clinic-portal-service/internal/pkg/constvars"
	"clinic-portal-service/internal/pkg/dto/requests"
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// ClinicianLister returns every clinician with a stored weekly pattern.
type ClinicianLister interface {
	ListClinicianIDs(ctx context.Context) ([]string, error)
}

// Worker periodically rebuilds cached calendars so the first visitor after a change or
// expiry does not pay for the expansion.
type Worker struct {
	log        *zap.Logger
	cfg        config.AppAvailability
	locker     contracts.LockerService
	clinicians ClinicianLister
	usecase    contracts.AvailabilityUsecase
	stop       chan struct{}
	cron       *cron.Cron
	runCtx     context.Context
	cancel     context.CancelFunc
}

func NewWorker(log *zap.Logger, cfg config.AppAvailability, lockerSvc contracts.LockerService, clinicians ClinicianLister, usecase contracts.AvailabilityUsecase) *Worker {
	if cfg.WarmLockTTL <= 0 {
		cfg.WarmLockTTL = 2 * time.Minute
	}
	return &Worker{log: log, cfg: cfg, locker: lockerSvc, clinicians: clinicians, usecase: usecase, stop: make(chan struct{})}
}

// Start schedules the warm job on the configured cron spec.
func (w *Worker) Start(ctx context.Context) {
	w.runCtx, w.cancel = context.WithCancel(ctx)
	c := cron.New()
	_, err := c.AddFunc(w.cfg.WarmCronSpec, func() { w.RunOnce(w.runCtx) })
	if err != nil {
		w.log.Warn("availability.worker: invalid cron spec; falling back to @hourly",
			zap.String("spec", w.cfg.WarmCronSpec),
			zap.Error(err),
		)
		c = cron.New()
		_, _ = c.AddFunc("@hourly", func() { w.RunOnce(w.runCtx) })
	}
	c.Start()
	w.cron = c
}

// Stop cancels in-flight warming and waits for the running job to return.
func (w *Worker) Stop() {
	select {
	case <-w.stop:
	default:
		close(w.stop)
	}
	if w.cancel != nil {
		w.cancel()
	}
	if w.cron != nil {
		ctx := w.cron.Stop()
		<-ctx.Done()
	}
}

// RunOnce warms every clinician's calendar while holding the leader lock.
func (w *Worker) RunOnce(ctx context.Context) {
	ttl := w.cfg.WarmLockTTL
	acquired, token, err := w.locker.TryLock(ctx, constvars.AvailabilityWarmLockKey, ttl)
	if err != nil {
		w.log.Warn("availability.worker: leader lock attempt failed", zap.Error(err))
		return
	}
	if !acquired {
		w.log.Info("availability.worker: leader lock not acquired; another instance is running")
		return
	}
	defer w.locker.Unlock(context.WithoutCancel(ctx), constvars.AvailabilityWarmLockKey, token)

	refreshCtx, cancelRefresh := context.WithCancel(ctx)
	defer cancelRefresh()
	go func() {
		tick := time.NewTicker(ttl / 2)
		defer tick.Stop()
		for {
			select {
			case <-refreshCtx.Done():
				return
			case <-tick.C:
				if err := w.locker.Refresh(refreshCtx, constvars.AvailabilityWarmLockKey, token, ttl); err != nil {
					w.log.Warn("availability.worker: failed to refresh leader lock TTL", zap.Error(err))
				}
			}
		}
	}()

	runID := fmt.Sprintf("warm-%d", time.Now().Unix())
	ctx = context.WithValue(ctx, constvars.CONTEXT_REQUEST_ID_KEY, runID)
	ctx = requestqueue.WithPriority(ctx, requestqueue.PriorityLow)

	ids, err := w.clinicians.ListClinicianIDs(ctx)
	if err != nil {
		w.log.Warn("availability.worker: listing clinicians failed",
			zap.String(constvars.LoggingRequestIDKey, runID),
			zap.Error(err),
		)
		return
	}

	warmed := 0
	for _, id := range ids {
		select {
		case <-w.stop:
			return
		case <-ctx.Done():
			return
		default:
		}
		_, err := w.usecase.GetCalendar(ctx, requests.CalendarQuery{
			ClinicianID:         id,
			WeeksToShow: w.cfg.WarmWeeks,
		})
		if err != nil {
			w.log.Warn("availability.worker: warming calendar failed",
				zap.String(constvars.LoggingRequestIDKey, runID),
				zap.String(constvars.LoggingClinicianIDKey, id),
				zap.Error(err),
			)
			continue
		}
		warmed++
	}
	w.log.Info("availability.worker: calendars warmed",
		zap.String(constvars.LoggingRequestIDKey, runID),
		zap.Int("clinicians", len(ids)),
		zap.Int("warmed", warmed),
	)
}
