package users

import (
	"clinic-portal-service/internal/app/contracts"
	"clinic-portal-service/internal/app/models"
	"clinic-portal-service/internal/app/services/core/availability"
	"clinic-portal-service/internal/app/services/shared/querycache"
	"clinic-portal-service/internal/pkg/constvars"
	"clinic-portal-service/internal/pkg/dto/requests"
	"clinic-portal-service/internal/pkg/exceptions"
	"clinic-portal-service/internal/pkg/utils"
	"context"
	"errors"

	"go.uber.org/zap"
)

type userUsecase struct {
	userRepo contracts.UserRepository
	cache    contracts.QueryCache
	log      *zap.Logger
}

func NewUserUsecase(userRepo contracts.UserRepository, cache contracts.QueryCache, logger *zap.Logger) contracts.UserUsecase {
	return &userUsecase{userRepo: userRepo, cache: cache, log: logger}
}

func (uc *userUsecase) CurrentUser(ctx context.Context) (*models.User, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	authUser, ok := utils.AuthUserFromContext(ctx)
	if !ok {
		return nil, exceptions.ErrTokenMissing(errors.New("no authenticated user in context"))
	}
	uc.log.Info("userUsecase.CurrentUser called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingUserIDKey, authUser.ID),
	)

	user := new(models.User)
	err := uc.cache.Fetch(ctx, constvars.CacheKeyUsersPrefix+authUser.ID, querycache.PresetDetail, func(ctx context.Context) (interface{}, error) {
		return uc.userRepo.FindByID(ctx, authUser.ID)
	}, user)
	if exceptions.StatusCodeOf(err) == constvars.StatusNotFound {
		// signed up but the profile trigger has not written the row yet
		uc.log.Info("userUsecase.CurrentUser profile missing, using token claims",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingUserIDKey, authUser.ID),
		)
		return &models.User{ID: authUser.ID, Email: authUser.Email, Role: authUser.Role}, nil
	}
	if err != nil {
		uc.log.Error("userUsecase.CurrentUser error fetching profile",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, err
	}
	if user.Role == "" {
		user.Role = authUser.Role
	}
	return user, nil
}

func (uc *userUsecase) UpdateCurrentUser(ctx context.Context, input *requests.UpdateUser) (*models.User, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	authUser, ok := utils.AuthUserFromContext(ctx)
	if !ok {
		return nil, exceptions.ErrTokenMissing(errors.New("no authenticated user in context"))
	}
	uc.log.Info("userUsecase.UpdateCurrentUser called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingUserIDKey, authUser.ID),
	)

	patch := make(map[string]interface{})
	if input.FullName != nil {
		patch["full_name"] = *input.FullName
	}
	if input.TimeZone != nil {
		patch["time_zone"] = availability.NormalizeTimeZone(*input.TimeZone)
	}
	if input.AvatarURL != nil {
		patch["avatar_url"] = *input.AvatarURL
	}
	if len(patch) == 0 {
		return nil, exceptions.ErrInputValidation(errors.New("no fields to update"))
	}

	updated, err := uc.userRepo.Update(ctx, authUser.ID, patch)
	if err != nil {
		uc.log.Error("userUsecase.UpdateCurrentUser error updating profile",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, err
	}

	if err := uc.cache.Invalidate(ctx, constvars.CacheKeyUsersPrefix+authUser.ID); err != nil {
		uc.log.Warn("userUsecase.UpdateCurrentUser failed to invalidate cached profile",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
	}
	return updated, nil
}
