package availability

import (
	"clinic-portal-service/internal/app/contracts"
	"clinic-portal-service/internal/app/services/shared/realtime"
	"clinic-portal-service/internal/pkg/constvars"
	"context"

	"go.uber.org/zap"
)

// Subscriber registers realtime subscriptions on m.
type Subscriber interface {
	Subscribe(sub realtime.Subscription, handler realtime.Handler) func()
}

// invalidatingTables are the tables whose row changes alter a clinician's calendar.
var invalidatingTables = []string{
	constvars.TableClinicianAvailability,
	constvars.TableAvailabilityExceptions,
	constvars.TableAppointments,
}

// SubscribeInvalidations drops cached calendars whenever another writer changes a pattern,
// an exception or an appointment. The returned func removes the subscriptions.
func SubscribeInvalidations(m Subscriber, uc contracts.AvailabilityUsecase, schema string, log *zap.Logger) func() {
	unsubs := make([]func(), 0, len(invalidatingTables))
	for _, table := range invalidatingTables {
		table := table
		unsubs = append(unsubs, m.Subscribe(realtime.Subscription{
			Channel: "calendar-" + table,
			Schema:  schema,
			Table:   table,
			Event:   "*",
		}, func(ctx context.Context, event realtime.ChangeEvent) {
			clinicianID := event.StringField("clinician_id")
			if clinicianID == "" {
				log.Warn("availability realtime change without clinician_id",
					zap.String(constvars.LoggingTableKey, table),
					zap.String(constvars.LoggingChangeTypeKey, event.Type),
				)
				return
			}
			if err := uc.InvalidateClinician(ctx, clinicianID); err != nil {
				log.Error("availability realtime invalidation failed",
					zap.String(constvars.LoggingTableKey, table),
					zap.String(constvars.LoggingClinicianIDKey, clinicianID),
					zap.Error(err),
				)
				return
			}
			log.Debug("availability realtime invalidated calendars",
				zap.String(constvars.LoggingTableKey, table),
				zap.String(constvars.LoggingChangeTypeKey, event.Type),
				zap.String(constvars.LoggingClinicianIDKey, clinicianID),
			)
		}))
	}
	return func() {
		for _, unsub := range unsubs {
			unsub()
		}
	}
}
