package supabase

import (
	"clinic-portal-service/internal/app/contracts"
	"clinic-portal-service/internal/app/models"
	"clinic-portal-service/internal/app/services/supabase/rest"
	"clinic-portal-service/internal/pkg/constvars"
	"clinic-portal-service/internal/pkg/dto/requests"
	"clinic-portal-service/internal/pkg/exceptions"
	"context"
	"errors"
	"net/url"

	"go.uber.org/zap"
)

type availabilityRepository struct {
	client     *rest.Client
	patterns   table[models.ClinicianAvailability]
	exceptions table[models.AvailabilityException]
	log        *zap.Logger
}

func NewAvailabilityRepository(client *rest.Client, logger *zap.Logger) contracts.AvailabilityRepository {
	return &availabilityRepository{
		client:     client,
		patterns:   newTable[models.ClinicianAvailability](client, constvars.TableClinicianAvailability),
		exceptions: newTable[models.AvailabilityException](client, constvars.TableAvailabilityExceptions),
		log:        logger,
	}
}

func (r *availabilityRepository) FindByClinicianID(ctx context.Context, clinicianID string) (*models.ClinicianAvailability, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	r.log.Info("availabilityRepository.FindByClinicianID called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingClinicianIDKey, clinicianID),
	)

	row := new(models.ClinicianAvailability)
	_, err := r.client.Do(ctx, rest.Request{
		Method: constvars.MethodGet,
		Table:  constvars.TableClinicianAvailability,
		Query:  rest.NewQuery().Eq("clinician_id", clinicianID).Values(),
		Single: true,
	}, row)
	if err != nil {
		var customErr *exceptions.CustomError
		if errors.As(err, &customErr) && customErr.StatusCode == constvars.StatusNotFound {
			return nil, nil
		}
		return nil, err
	}
	return row, nil
}

func (r *availabilityRepository) Upsert(ctx context.Context, availability *models.ClinicianAvailability) (*models.ClinicianAvailability, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	r.log.Info("availabilityRepository.Upsert called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingClinicianIDKey, availability.ClinicianID),
	)

	row := new(models.ClinicianAvailability)
	_, err := r.client.Do(ctx, rest.Request{
		Method: constvars.MethodPost,
		Table:  constvars.TableClinicianAvailability,
		Query:  url.Values{"on_conflict": {"clinician_id"}},
		Body:   availability,
		Prefer: constvars.PreferMergeDuplicates,
		Single: true,
	}, row)
	if err != nil {
		return nil, err
	}
	return row, nil
}

// ListClinicianIDs runs with the service key since it feeds the background cache warmer.
func (r *availabilityRepository) ListClinicianIDs(ctx context.Context) ([]string, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	r.log.Info("availabilityRepository.ListClinicianIDs called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
	)

	rows, _, err := r.patterns.list(ctx, rest.NewQuery().Select("clinician_id").Order("clinician_id", true), true)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.ClinicianID)
	}
	return ids, nil
}

func (r *availabilityRepository) ListExceptions(ctx context.Context, filter requests.AvailabilityExceptionFilter) ([]models.AvailabilityException, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	r.log.Info("availabilityRepository.ListExceptions called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingClinicianIDKey, filter.ClinicianID),
	)

	q := rest.NewQuery().Eq("clinician_id", filter.ClinicianID).Order("date", true)
	values := q.Values()
	if filter.From != "" {
		values.Add("date", "gte."+filter.From)
	}
	if filter.To != "" {
		values.Add("date", "lte."+filter.To)
	}
	rows, _, err := r.exceptions.list(ctx, q, false)
	return rows, err
}

func (r *availabilityRepository) CreateException(ctx context.Context, exception *models.AvailabilityException) (*models.AvailabilityException, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	r.log.Info("availabilityRepository.CreateException called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingClinicianIDKey, exception.ClinicianID),
		zap.String(constvars.LoggingSlotIDKey, exception.SlotID),
	)
	return r.exceptions.insert(ctx, exception)
}

func (r *availabilityRepository) DeleteException(ctx context.Context, clinicianID, exceptionID string) error {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	r.log.Info("availabilityRepository.DeleteException called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingClinicianIDKey, clinicianID),
		zap.String(constvars.LoggingExceptionIDKey, exceptionID),
	)
	return r.exceptions.delete(ctx, rest.NewQuery().Eq("id", exceptionID).Eq("clinician_id", clinicianID))
}
