package jwtmanager

import (
	"clinic-portal-service/internal/app/models"
	"clinic-portal-service/internal/pkg/constvars"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"go.uber.org/zap"
)

const (
	supabaseAudience = "authenticated"
	defaultTokenTTL  = time.Hour
)

// JWTManager verifies Supabase access tokens, which are HS256-signed with the project JWT secret.
type JWTManager struct {
	log    *zap.Logger
	secret []byte
	now    func() time.Time
}

type supabaseClaims struct {
	Email        string                 `json:"email"`
	Role         string                 `json:"role"`
	AppMetadata  map[string]interface{} `json:"app_metadata,omitempty"`
	UserMetadata map[string]interface{} `json:"user_metadata,omitempty"`
	jwt.RegisteredClaims
}

// CreateTokenInput defines the claims of a locally minted token.
type CreateTokenInput struct {
	Subject string
	Email   string
	// Role is written to app_metadata.role.
	Role string
	TTL  time.Duration
}

type CreateTokenOutput struct {
	Token     string
	ExpiresAt time.Time
}

func NewJWTManager(secret string, log *zap.Logger) (*JWTManager, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, fmt.Errorf("SUPABASE_JWT_SECRET is empty")
	}
	return &JWTManager{log: log, secret: []byte(secret), now: time.Now}, nil
}

// CreateToken signs a token shaped like the ones Supabase Auth issues.
func (j *JWTManager) CreateToken(ctx context.Context, in *CreateTokenInput) (*CreateTokenOutput, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	j.log.Info("JWTManager.CreateToken called", zap.String(constvars.LoggingRequestIDKey, requestID))

	if in == nil || strings.TrimSpace(in.Subject) == "" {
		return nil, fmt.Errorf("subject is required")
	}
	ttl := in.TTL
	if ttl <= 0 {
		ttl = defaultTokenTTL
	}

	now := j.now().UTC()
	expiresAt := now.Add(ttl)
	claims := supabaseClaims{
		Email:       in.Email,
		Role:        supabaseAudience,
		AppMetadata: map[string]interface{}{"role": in.Role},
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   in.Subject,
			Audience:  jwt.ClaimStrings{supabaseAudience},
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(j.secret)
	if err != nil {
		return nil, err
	}
	return &CreateTokenOutput{Token: signed, ExpiresAt: expiresAt}, nil
}

// VerifyAccessToken validates signature, expiry and audience, and maps the claims to the caller.
func (j *JWTManager) VerifyAccessToken(ctx context.Context, token string) (*models.AuthUser, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)

	token = strings.TrimSpace(token)
	if token == "" {
		return nil, errors.New("token is required")
	}

	claims := new(supabaseClaims)
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	parsed, err := parser.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return j.secret, nil
	})
	if err != nil {
		j.log.Info("JWTManager.VerifyAccessToken rejected token",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, err
	}
	if !parsed.Valid {
		return nil, errors.New("token is not valid")
	}
	if !claims.VerifyAudience(supabaseAudience, true) {
		return nil, errors.New("token audience is not authenticated")
	}
	if claims.Subject == "" {
		return nil, errors.New("token has no subject")
	}

	return &models.AuthUser{
		ID:          claims.Subject,
		Email:       claims.Email,
		Role:        appRole(claims),
		AccessToken: token,
	}, nil
}

// appRole prefers app_metadata, which only the service role can write, over user_metadata.
func appRole(claims *supabaseClaims) string {
	for _, meta := range []map[string]interface{}{claims.AppMetadata, claims.UserMetadata} {
		role, _ := meta["role"].(string)
		switch role {
		case constvars.RoleClient, constvars.RoleClinician, constvars.RoleAdmin:
			return role
		}
	}
	return constvars.RoleClient
}
