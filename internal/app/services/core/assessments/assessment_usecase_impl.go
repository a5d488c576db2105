package assessments

import (
	"clinic-portal-service/internal/app/contracts"
	"clinic-portal-service/internal/app/models"
	"clinic-portal-service/internal/app/services/shared/querycache"
	"clinic-portal-service/internal/pkg/constvars"
	"clinic-portal-service/internal/pkg/dto/requests"
	"clinic-portal-service/internal/pkg/exceptions"
	"clinic-portal-service/internal/pkg/utils"
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
)

type assessmentUsecase struct {
	assessmentRepo contracts.AssessmentRepository
	cache          contracts.QueryCache
	log            *zap.Logger
	now            func() time.Time
}

func NewAssessmentUsecase(assessmentRepo contracts.AssessmentRepository, cache contracts.QueryCache, logger *zap.Logger) contracts.AssessmentUsecase {
	return &assessmentUsecase{
		assessmentRepo: assessmentRepo,
		cache:          cache,
		log:            logger,
		now:            time.Now,
	}
}

type assessmentPage struct {
	Assessments []models.Assessment `json:"assessments"`
	Total       int                 `json:"total"`
}

func (uc *assessmentUsecase) List(ctx context.Context, filter requests.AssessmentFilter) ([]models.Assessment, int, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	user, _ := utils.AuthUserFromContext(ctx)
	uc.log.Info("assessmentUsecase.List called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingUserIDKey, user.ID),
	)

	switch user.Role {
	case constvars.RoleClient:
		filter.ClientID = user.ID
	case constvars.RoleClinician:
		filter.ClinicianID = user.ID
	}

	key := fmt.Sprintf("%s%s:list:%s:%s:%s:%d:%d", constvars.CacheKeyAssessmentsPrefix, user.ID,
		filter.ClientID, filter.ClinicianID, filter.Instrument, filter.Pagination.Page, filter.Pagination.PageSize)
	page := new(assessmentPage)
	err := uc.cache.Fetch(ctx, key, querycache.PresetList, func(ctx context.Context) (interface{}, error) {
		rows, total, err := uc.assessmentRepo.List(ctx, filter)
		if err != nil {
			return nil, err
		}
		return assessmentPage{Assessments: rows, Total: total}, nil
	}, page)
	if err != nil {
		uc.log.Error("assessmentUsecase.List error fetching assessments",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, 0, err
	}
	return page.Assessments, page.Total, nil
}

func (uc *assessmentUsecase) Get(ctx context.Context, assessmentID string) (*models.Assessment, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	user, _ := utils.AuthUserFromContext(ctx)
	uc.log.Info("assessmentUsecase.Get called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String("assessment_id", assessmentID),
	)

	assessment := new(models.Assessment)
	key := constvars.CacheKeyAssessmentsPrefix + user.ID + ":" + assessmentID
	err := uc.cache.Fetch(ctx, key, querycache.PresetDetail, func(ctx context.Context) (interface{}, error) {
		return uc.assessmentRepo.FindByID(ctx, assessmentID)
	}, assessment)
	if err != nil {
		return nil, err
	}
	return assessment, nil
}

func (uc *assessmentUsecase) Create(ctx context.Context, input *requests.CreateAssessment) (*models.Assessment, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	user, _ := utils.AuthUserFromContext(ctx)
	uc.log.Info("assessmentUsecase.Create called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingClientIDKey, input.ClientID),
	)

	assessment := &models.Assessment{
		ClientID:    input.ClientID,
		ClinicianID: input.ClinicianID,
		Instrument:  input.Instrument,
		Answers:     input.Answers,
		Score:       input.Score,
		Severity:    input.Severity,
	}
	switch user.Role {
	case constvars.RoleClient:
		// clients can only fill in their own questionnaires
		assessment.ClientID = user.ID
	case constvars.RoleClinician:
		if assessment.ClinicianID == "" {
			assessment.ClinicianID = user.ID
		}
	}

	created, err := uc.assessmentRepo.Create(ctx, assessment)
	if err != nil {
		uc.log.Error("assessmentUsecase.Create error creating assessment",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, err
	}
	uc.invalidate(ctx, requestID)
	return created, nil
}

func (uc *assessmentUsecase) Update(ctx context.Context, assessmentID string, input *requests.UpdateAssessment) (*models.Assessment, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.log.Info("assessmentUsecase.Update called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String("assessment_id", assessmentID),
	)

	patch := make(map[string]interface{})
	if len(input.Answers) > 0 {
		patch["answers"] = input.Answers
	}
	if input.Score != nil {
		patch["score"] = *input.Score
	}
	if input.Severity != nil {
		patch["severity"] = *input.Severity
	}
	if input.Complete {
		patch["completed_at"] = uc.now().UTC()
	}
	if len(patch) == 0 {
		return nil, exceptions.ErrInputValidation(errors.New("no fields to update"))
	}

	updated, err := uc.assessmentRepo.Update(ctx, assessmentID, patch)
	if err != nil {
		uc.log.Error("assessmentUsecase.Update error updating assessment",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String("assessment_id", assessmentID),
			zap.Error(err),
		)
		return nil, err
	}
	uc.invalidate(ctx, requestID)
	return updated, nil
}

func (uc *assessmentUsecase) Delete(ctx context.Context, assessmentID string) error {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.log.Info("assessmentUsecase.Delete called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String("assessment_id", assessmentID),
	)

	if err := uc.assessmentRepo.Delete(ctx, assessmentID); err != nil {
		uc.log.Error("assessmentUsecase.Delete error deleting assessment",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String("assessment_id", assessmentID),
			zap.Error(err),
		)
		return err
	}
	uc.invalidate(ctx, requestID)
	return nil
}

func (uc *assessmentUsecase) invalidate(ctx context.Context, requestID string) {
	if err := uc.cache.InvalidatePrefix(ctx, constvars.CacheKeyAssessmentsPrefix); err != nil {
		uc.log.Warn("assessmentUsecase failed to invalidate cached assessments",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
	}
}
