package documents

import (
	"clinic-portal-service/internal/app/config"
	"clinic-portal-service/internal/app/contracts"
	"clinic-portal-service/internal/app/models"
	"clinic-portal-service/internal/app/services/shared/ratelimiter"
	"clinic-portal-service/internal/pkg/constvars"
	"clinic-portal-service/internal/pkg/dto/requests"
	"clinic-portal-service/internal/pkg/dto/responses"
	"clinic-portal-service/internal/pkg/exceptions"
	"clinic-portal-service/internal/pkg/utils"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	pdfContentType      = "application/pdf"
	renderWindowSeconds = 3600
)

// QuotaLimiter caps how many documents one user may render per window.
type QuotaLimiter interface {
	ApplyResourceLimiter(ctx context.Context, in *ratelimiter.ApplyResourceLimiterInput) (*ratelimiter.ApplyResourceLimiterOutput, error)
}

type Repositories struct {
	Documents    contracts.DocumentRepository
	Clients      contracts.ClientRepository
	Appointments contracts.AppointmentRepository
	Assessments  contracts.AssessmentRepository
	Users        contracts.UserRepository
}

type documentUsecase struct {
	repos    Repositories
	renderer contracts.DocumentRenderer
	storage  contracts.Storage
	// queue is nil when asynchronous rendering is disabled.
	queue    contracts.DocumentQueue
	limiter  QuotaLimiter
	bucket   string
	cfg      config.AppDocuments
	log      *zap.Logger
	now      func() time.Time
}

func NewDocumentUsecase(
	repos Repositories,
	renderer contracts.DocumentRenderer,
	storage contracts.Storage,
	queue contracts.DocumentQueue,
	limiter QuotaLimiter,
	bucketName string,
	cfg config.AppDocuments,
	logger *zap.Logger,
) contracts.DocumentUsecase {
	return &documentUsecase{
		repos:    repos,
		renderer: renderer,
		storage:  storage,
		queue:    queue,
		limiter:  limiter,
		bucket:   bucketName,
		cfg:      cfg,
		log:      logger,
		now:      time.Now,
	}
}

func (uc *documentUsecase) List(ctx context.Context, filter requests.DocumentFilter) ([]models.Document, int, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.log.Info("documentUsecase.List called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
	)

	user, _ := utils.AuthUserFromContext(ctx)
	switch user.Role {
	case constvars.RoleClient:
		filter.ClientID = user.ID
	case constvars.RoleClinician:
		filter.ClinicianID = user.ID
	}
	return uc.repos.Documents.List(ctx, filter)
}

func (uc *documentUsecase) Get(ctx context.Context, documentID string) (*models.Document, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.log.Info("documentUsecase.Get called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String("document_id", documentID),
	)
	return uc.repos.Documents.FindByID(ctx, documentID)
}

func (uc *documentUsecase) Generate(ctx context.Context, input *requests.GenerateDocument) (*models.Document, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	user, _ := utils.AuthUserFromContext(ctx)
	uc.log.Info("documentUsecase.Generate called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingUserIDKey, user.ID),
		zap.String(constvars.LoggingClientIDKey, input.ClientID),
		zap.String("template", input.Template),
		zap.Bool("async", input.Async),
	)

	if !uc.renderer.HasTemplate(input.Template) {
		return nil, exceptions.ErrUnknownDocumentTemplate(fmt.Errorf("template %q is not registered", input.Template), input.Template)
	}
	if err := uc.checkQuota(ctx, requestID, user.ID); err != nil {
		return nil, err
	}

	job := models.DocumentRenderJob{
		JobID:         uuid.NewString(),
		RequestedBy:   user.ID,
		Template:      input.Template,
		ClientID:      input.ClientID,
		Title:         input.Title,
		Fields:        input.Fields,
		Notes:         input.Notes,
		AppointmentID: input.AppointmentID,
		AssessmentID:  input.AssessmentID,
		EnqueuedAt:    uc.now().UTC(),
	}
	document := &models.Document{
		ClientID:    input.ClientID,
		Template:    input.Template,
		Title:       input.Title,
		Bucket:      uc.bucket,
		ObjectPath:  objectPath(input.ClientID),
		ContentType: pdfContentType,
		CreatedBy:   user.ID,
	}
	if user.Role == constvars.RoleClinician {
		document.ClinicianID = user.ID
	}

	if input.Async && uc.queue != nil {
		return uc.enqueue(ctx, requestID, document, job)
	}

	pdf, err := uc.render(ctx, job)
	if err != nil {
		return nil, err
	}
	if _, err := uc.storage.UploadObject(ctx, uc.bucket, document.ObjectPath, pdfContentType, pdf); err != nil {
		return nil, err
	}

	document.SizeBytes = int64(len(pdf))
	document.Status = constvars.DocumentStatusReady
	created, err := uc.repos.Documents.Create(ctx, document)
	if err != nil {
		uc.log.Error("documentUsecase.Generate error saving document, removing uploaded object",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingObjectNameKey, document.ObjectPath),
			zap.Error(err),
		)
		if rmErr := uc.storage.RemoveObject(ctx, uc.bucket, document.ObjectPath); rmErr != nil {
			uc.log.Warn("documentUsecase.Generate orphaned object",
				zap.String(constvars.LoggingRequestIDKey, requestID),
				zap.String(constvars.LoggingObjectNameKey, document.ObjectPath),
				zap.Error(rmErr),
			)
		}
		return nil, err
	}

	uc.log.Info("documentUsecase.Generate succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String("document_id", created.ID),
		zap.Int64("size_bytes", created.SizeBytes),
	)
	return created, nil
}

func (uc *documentUsecase) enqueue(ctx context.Context, requestID string, document *models.Document, job models.DocumentRenderJob) (*models.Document, error) {
	document.Status = constvars.DocumentStatusPending
	created, err := uc.repos.Documents.Create(ctx, document)
	if err != nil {
		return nil, err
	}

	job.DocumentID = created.ID
	if err := uc.queue.PublishRenderJob(ctx, job); err != nil {
		uc.log.Error("documentUsecase.Generate error queueing render job",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String("document_id", created.ID),
			zap.Error(err),
		)
		uc.markFailed(ctx, requestID, created.ID)
		return nil, err
	}

	uc.log.Info("documentUsecase.Generate queued render job",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String("document_id", created.ID),
		zap.String("job_id", job.JobID),
	)
	return created, nil
}

// ProcessRenderJob completes a pending document. It runs without a caller token, so the
// Supabase calls go out with the service key.
func (uc *documentUsecase) ProcessRenderJob(ctx context.Context, job models.DocumentRenderJob) error {
	requestID := "render-" + job.JobID
	ctx = context.WithValue(ctx, constvars.CONTEXT_REQUEST_ID_KEY, requestID)
	uc.log.Info("documentUsecase.ProcessRenderJob called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String("document_id", job.DocumentID),
		zap.Int(constvars.LoggingAttemptKey, job.Attempt),
	)

	document, err := uc.repos.Documents.FindByID(ctx, job.DocumentID)
	if err != nil {
		if exceptions.StatusCodeOf(err) == constvars.StatusNotFound {
			// deleted while queued
			uc.log.Warn("documentUsecase.ProcessRenderJob document gone, dropping job",
				zap.String(constvars.LoggingRequestIDKey, requestID),
				zap.String("document_id", job.DocumentID),
			)
			return nil
		}
		return err
	}
	if document.Status == constvars.DocumentStatusReady {
		return nil
	}

	pdf, err := uc.render(ctx, job)
	if err == nil {
		_, err = uc.storage.UploadObject(ctx, document.Bucket, document.ObjectPath, pdfContentType, pdf)
	}
	if err != nil {
		if job.Attempt+1 >= uc.cfg.MaxRetry {
			uc.markFailed(ctx, requestID, document.ID)
		}
		return err
	}

	_, err = uc.repos.Documents.Update(ctx, document.ID, map[string]interface{}{
		"status":     constvars.DocumentStatusReady,
		"size_bytes": len(pdf),
	})
	if err != nil {
		return err
	}

	uc.log.Info("documentUsecase.ProcessRenderJob succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String("document_id", document.ID),
		zap.Int("size_bytes", len(pdf)),
	)
	return nil
}

func (uc *documentUsecase) GetDownloadURL(ctx context.Context, documentID string) (*responses.DocumentDownload, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.log.Info("documentUsecase.GetDownloadURL called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String("document_id", documentID),
	)

	document, err := uc.repos.Documents.FindByID(ctx, documentID)
	if err != nil {
		return nil, err
	}
	if document.Status != constvars.DocumentStatusReady {
		return nil, exceptions.ErrDocumentNotReady(fmt.Errorf("document status is %s", document.Status), documentID)
	}

	expiry := time.Duration(uc.cfg.PresignedURLExpiryInMinute) * time.Minute
	if expiry <= 0 {
		expiry = 15 * time.Minute
	}
	url, err := uc.storage.GetObjectUrlWithExpiryTime(ctx, document.Bucket, document.ObjectPath, expiry)
	if err != nil {
		return nil, err
	}
	return &responses.DocumentDownload{
		DocumentID: document.ID,
		URL:        url,
		ExpiresAt:  uc.now().Add(expiry).UTC(),
	}, nil
}

func (uc *documentUsecase) Delete(ctx context.Context, documentID string) error {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.log.Info("documentUsecase.Delete called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String("document_id", documentID),
	)

	document, err := uc.repos.Documents.FindByID(ctx, documentID)
	if err != nil {
		return err
	}
	if document.Status == constvars.DocumentStatusReady {
		if err := uc.storage.RemoveObject(ctx, document.Bucket, document.ObjectPath); err != nil {
			return err
		}
	}
	return uc.repos.Documents.Delete(ctx, documentID)
}

func (uc *documentUsecase) checkQuota(ctx context.Context, requestID, userID string) error {
	out, err := uc.limiter.ApplyResourceLimiter(ctx, &ratelimiter.ApplyResourceLimiterInput{
		ResourceName:      userID,
		LimiterGroupName:  constvars.DocumentRenderLimiterGroup,
		WindowDurationSec: renderWindowSeconds,
		MaxQuota:          uc.cfg.RenderLimitPerHour,
		NowUTC:            uc.now().UTC(),
	})
	if err != nil {
		// fail open when redis is unreachable
		uc.log.Warn("documentUsecase render quota unavailable",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil
	}
	if !out.Allowed {
		return exceptions.ErrRateLimited(fmt.Errorf("render quota exhausted, retry after %ds", out.RetryAfterSecs), constvars.DocumentRenderLimiterGroup)
	}
	return nil
}

// render loads the records the template needs and prints the PDF.
func (uc *documentUsecase) render(ctx context.Context, job models.DocumentRenderJob) ([]byte, error) {
	data := models.DocumentTemplateData{
		Title:       job.Title,
		ClinicName:  uc.cfg.ClinicName,
		GeneratedAt: uc.now(),
		Fields:      job.Fields,
		Notes:       job.Notes,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		client, err := uc.repos.Clients.FindByID(gctx, job.ClientID)
		if err != nil {
			return err
		}
		data.Client = *client
		return nil
	})
	if job.AppointmentID != "" {
		g.Go(func() error {
			appointment, err := uc.repos.Appointments.FindByID(gctx, job.AppointmentID)
			if err != nil {
				return err
			}
			data.Appointment = appointment
			return nil
		})
	}
	if job.AssessmentID != "" {
		g.Go(func() error {
			assessment, err := uc.repos.Assessments.FindByID(gctx, job.AssessmentID)
			if err != nil {
				return err
			}
			data.Assessment = assessment
			return nil
		})
	}
	if job.RequestedBy != "" && uc.repos.Users != nil {
		g.Go(func() error {
			author, err := uc.repos.Users.FindByID(gctx, job.RequestedBy)
			if err != nil {
				// the author line is cosmetic
				return nil
			}
			data.ClinicianName = author.FullName
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if data.Appointment != nil && data.Appointment.ClientID != job.ClientID {
		return nil, exceptions.ErrInputValidation(errors.New("appointment belongs to another client"))
	}
	if data.Assessment != nil && data.Assessment.ClientID != job.ClientID {
		return nil, exceptions.ErrInputValidation(errors.New("assessment belongs to another client"))
	}

	if tz := data.Client.TimeZone; tz != "" {
		if loc, err := time.LoadLocation(tz); err == nil {
			data.GeneratedAt = data.GeneratedAt.In(loc)
			if data.Appointment != nil {
				data.Appointment.StartsAt = data.Appointment.StartsAt.In(loc)
				data.Appointment.EndsAt = data.Appointment.EndsAt.In(loc)
			}
		}
	}

	html, err := uc.renderer.RenderHTML(job.Template, data)
	if err != nil {
		return nil, err
	}
	return uc.renderer.RenderPDF(ctx, html)
}

func (uc *documentUsecase) markFailed(ctx context.Context, requestID, documentID string) {
	_, err := uc.repos.Documents.Update(ctx, documentID, map[string]interface{}{"status": constvars.DocumentStatusFailed})
	if err != nil {
		uc.log.Warn("documentUsecase could not mark document failed",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String("document_id", documentID),
			zap.Error(err),
		)
	}
}

func objectPath(clientID string) string {
	return fmt.Sprintf("%s/%s.pdf", clientID, uuid.NewString())
}
