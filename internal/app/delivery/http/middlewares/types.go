package middlewares

import (
	"clinic-portal-service/internal/app/config"
	"clinic-portal-service/internal/app/models"
	"clinic-portal-service/internal/app/services/shared/metrics"
	"context"

	"go.uber.org/zap"
)

// TokenVerifier resolves a bearer token to the calling user.
type TokenVerifier interface {
	VerifyAccessToken(ctx context.Context, token string) (*models.AuthUser, error)
}

type Middlewares struct {
	Log            *zap.Logger
	InternalConfig *config.InternalConfig
	TokenVerifier  TokenVerifier
	Metrics        *metrics.HTTPMetrics
}

func NewMiddlewares(logger *zap.Logger, internalConfig *config.InternalConfig, verifier TokenVerifier, httpMetrics *metrics.HTTPMetrics) *Middlewares {
	return &Middlewares{
		Log:            logger,
		InternalConfig: internalConfig,
		TokenVerifier:  verifier,
		Metrics:        httpMetrics,
	}
}
