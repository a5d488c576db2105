package supabase

import (
	"clinic-portal-service/internal/app/contracts"
	"clinic-portal-service/internal/app/models"
	"clinic-portal-service/internal/app/services/supabase/rest"
	"clinic-portal-service/internal/pkg/constvars"
	"context"

	"go.uber.org/zap"
)

type userRepository struct {
	table table[models.User]
	log   *zap.Logger
}

func NewUserRepository(client *rest.Client, logger *zap.Logger) contracts.UserRepository {
	return &userRepository{table: newTable[models.User](client, constvars.TableUsers), log: logger}
}

func (r *userRepository) FindByID(ctx context.Context, userID string) (*models.User, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	r.log.Info("userRepository.FindByID called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingUserIDKey, userID),
	)
	return r.table.findByID(ctx, userID)
}

func (r *userRepository) Update(ctx context.Context, userID string, patch map[string]interface{}) (*models.User, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	r.log.Info("userRepository.Update called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingUserIDKey, userID),
	)
	return r.table.update(ctx, rest.NewQuery().Eq("id", userID), patch)
}
