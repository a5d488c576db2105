package documents

import (
	"clinic-portal-service/internal/app/config"
	"clinic-portal-service/internal/app/models"
	"clinic-portal-service/internal/app/services/shared/ratelimiter"
	"clinic-portal-service/internal/pkg/constvars"
	"clinic-portal-service/internal/pkg/dto/requests"
	"clinic-portal-service/internal/pkg/exceptions"
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type MockDocumentRepository struct {
	mock.Mock
}

func (m *MockDocumentRepository) List(ctx context.Context, filter requests.DocumentFilter) ([]models.Document, int, error) {
	args := m.Called(ctx, filter)
	rows, _ := args.Get(0).([]models.Document)
	return rows, args.Int(1), args.Error(2)
}

func (m *MockDocumentRepository) FindByID(ctx context.Context, documentID string) (*models.Document, error) {
	args := m.Called(ctx, documentID)
	document, _ := args.Get(0).(*models.Document)
	return document, args.Error(1)
}

func (m *MockDocumentRepository) Create(ctx context.Context, document *models.Document) (*models.Document, error) {
	args := m.Called(ctx, document)
	created, _ := args.Get(0).(*models.Document)
	return created, args.Error(1)
}

func (m *MockDocumentRepository) Update(ctx context.Context, documentID string, patch map[string]interface{}) (*models.Document, error) {
	args := m.Called(ctx, documentID, patch)
	updated, _ := args.Get(0).(*models.Document)
	return updated, args.Error(1)
}

func (m *MockDocumentRepository) Delete(ctx context.Context, documentID string) error {
	return m.Called(ctx, documentID).Error(0)
}

var errMissing = exceptions.ErrSupabaseNotFound(errors.New("no rows"), "fake")

type fakeClients struct{ rows map[string]models.Client }

func (f fakeClients) List(ctx context.Context, filter requests.ClientFilter) ([]models.Client, int, error) {
	return nil, 0, nil
}
func (f fakeClients) FindByID(ctx context.Context, id string) (*models.Client, error) {
	if c, ok := f.rows[id]; ok {
		return &c, nil
	}
	return nil, errMissing
}
func (f fakeClients) Create(ctx context.Context, c *models.Client) (*models.Client, error) { return c, nil }
func (f fakeClients) Update(ctx context.Context, id string, patch map[string]interface{}) (*models.Client, error) {
	return nil, nil
}
func (f fakeClients) Delete(ctx context.Context, id string) error { return nil }

type fakeAppointments struct{ rows map[string]models.Appointment }

func (f fakeAppointments) List(ctx context.Context, filter requests.AppointmentFilter) ([]models.Appointment, int, error) {
	return nil, 0, nil
}
func (f fakeAppointments) FindByID(ctx context.Context, id string) (*models.Appointment, error) {
	if a, ok := f.rows[id]; ok {
		return &a, nil
	}
	return nil, errMissing
}
func (f fakeAppointments) Create(ctx context.Context, a *models.Appointment) (*models.Appointment, error) {
	return a, nil
}
func (f fakeAppointments) Update(ctx context.Context, id string, patch map[string]interface{}) (*models.Appointment, error) {
	return nil, nil
}
func (f fakeAppointments) Delete(ctx context.Context, id string) error { return nil }

type fakeAssessments struct{}

func (fakeAssessments) List(ctx context.Context, filter requests.AssessmentFilter) ([]models.Assessment, int, error) {
	return nil, 0, nil
}
func (fakeAssessments) FindByID(ctx context.Context, id string) (*models.Assessment, error) {
	return nil, errMissing
}
func (fakeAssessments) Create(ctx context.Context, a *models.Assessment) (*models.Assessment, error) {
	return a, nil
}
func (fakeAssessments) Update(ctx context.Context, id string, patch map[string]interface{}) (*models.Assessment, error) {
	return nil, nil
}
func (fakeAssessments) Delete(ctx context.Context, id string) error { return nil }

type fakeRenderer struct {
	mu       sync.Mutex
	lastData models.DocumentTemplateData
	pdfErr   error
}

func (r *fakeRenderer) HasTemplate(name string) bool {
	return name == constvars.DocumentTemplateIntake || name == constvars.DocumentTemplateProgressNote
}

func (r *fakeRenderer) RenderHTML(name string, data interface{}) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lastData = data.(models.DocumentTemplateData)
	return "<html>" + name + "</html>", nil
}

func (r *fakeRenderer) RenderPDF(ctx context.Context, html string) ([]byte, error) {
	if r.pdfErr != nil {
		return nil, r.pdfErr
	}
	return []byte("%PDF-1.7 " + html), nil
}

type fakeStorage struct {
	objects map[string][]byte
	removed []string
}

func (s *fakeStorage) UploadObject(ctx context.Context, bucketName, objectName, contentType string, data []byte) (string, error) {
	s.objects[objectName] = data
	return objectName, nil
}

func (s *fakeStorage) GetObjectUrlWithExpiryTime(ctx context.Context, bucketName, objectName string, expiryTime time.Duration) (string, error) {
	return "https://storage.local/" + bucketName + "/" + objectName + "?X-Amz-Expires=" + expiryTime.String(), nil
}

func (s *fakeStorage) RemoveObject(ctx context.Context, bucketName, objectName string) error {
	s.removed = append(s.removed, objectName)
	delete(s.objects, objectName)
	return nil
}

func (s *fakeStorage) BucketExists(ctx context.Context, bucketName string) (bool, error) {
	return true, nil
}

type fakeQueue struct {
	jobs []models.DocumentRenderJob
	err  error
}

func (q *fakeQueue) PublishRenderJob(ctx context.Context, job models.DocumentRenderJob) error {
	if q.err != nil {
		return q.err
	}
	q.jobs = append(q.jobs, job)
	return nil
}

type fakeLimiter struct {
	allowed bool
	err     error
}

func (l fakeLimiter) ApplyResourceLimiter(ctx context.Context, in *ratelimiter.ApplyResourceLimiterInput) (*ratelimiter.ApplyResourceLimiterOutput, error) {
	if l.err != nil {
		return nil, l.err
	}
	return &ratelimiter.ApplyResourceLimiterOutput{Allowed: l.allowed, RetryAfterSecs: 120}, nil
}

type fixture struct {
	uc       *documentUsecase
	docs     *MockDocumentRepository
	renderer *fakeRenderer
	storage  *fakeStorage
	queue    *fakeQueue
}

func newFixture(t *testing.T, limiter fakeLimiter) fixture {
	t.Helper()
	docs := new(MockDocumentRepository)
	renderer := &fakeRenderer{}
	storage := &fakeStorage{objects: map[string][]byte{}}
	queue := &fakeQueue{}

	repos := Repositories{
		Documents: docs,
		Clients: fakeClients{rows: map[string]models.Client{
			"client-1": {ID: "client-1", FirstName: "Grace", TimeZone: "America/Chicago"},
		}},
		Appointments: fakeAppointments{rows: map[string]models.Appointment{
			"appt-1": {ID: "appt-1", ClientID: "client-1", StartsAt: time.Date(2025, 1, 13, 15, 0, 0, 0, time.UTC)},
			"appt-9": {ID: "appt-9", ClientID: "client-9"},
		}},
		Assessments: fakeAssessments{},
	}
	cfg := config.AppDocuments{ClinicName: "Northside Counseling", MaxRetry: 3, RenderLimitPerHour: 10, PresignedURLExpiryInMinute: 5}
	uc := NewDocumentUsecase(repos, renderer, storage, queue, limiter, "documents", cfg, zap.NewNop()).(*documentUsecase)
	uc.now = func() time.Time { return time.Date(2025, 1, 13, 18, 0, 0, 0, time.UTC) }
	return fixture{uc: uc, docs: docs, renderer: renderer, storage: storage, queue: queue}
}

func clinicianContext() context.Context {
	return context.WithValue(context.Background(), constvars.CONTEXT_AUTH_USER_KEY, models.AuthUser{ID: "doc-1", Role: constvars.RoleClinician})
}

func TestGenerateSync(t *testing.T) {
	f := newFixture(t, fakeLimiter{allowed: true})
	f.docs.On("Create", mock.Anything, mock.MatchedBy(func(d *models.Document) bool {
		return d.Status == constvars.DocumentStatusReady &&
			d.ClinicianID == "doc-1" &&
			strings.HasPrefix(d.ObjectPath, "client-1/") &&
			strings.HasSuffix(d.ObjectPath, ".pdf") &&
			d.SizeBytes > 0
	})).Return(&models.Document{ID: "d1", Status: constvars.DocumentStatusReady}, nil).Once()

	doc, err := f.uc.Generate(clinicianContext(), &requests.GenerateDocument{
		Template:      constvars.DocumentTemplateProgressNote,
		ClientID:      "client-1",
		Title:         "Session note",
		AppointmentID: "appt-1",
	})

	require.NoError(t, err)
	assert.Equal(t, "d1", doc.ID)
	assert.Len(t, f.storage.objects, 1)
	assert.Equal(t, "Northside Counseling", f.renderer.lastData.ClinicName)
	assert.Equal(t, "America/Chicago", f.renderer.lastData.Appointment.StartsAt.Location().String())
	assert.Equal(t, 9, f.renderer.lastData.Appointment.StartsAt.Hour())
	f.docs.AssertExpectations(t)
}

func TestGenerateRejections(t *testing.T) {
	tests := []struct {
		name    string
		limiter fakeLimiter
		input   requests.GenerateDocument
		status  int
	}{
		{
			name:    "Quota Exhausted",
			limiter: fakeLimiter{allowed: false},
			input:   requests.GenerateDocument{Template: constvars.DocumentTemplateIntake, ClientID: "client-1"},
			status:  constvars.StatusTooManyRequests,
		},
		{
			name:    "Unknown Template",
			limiter: fakeLimiter{allowed: true},
			input:   requests.GenerateDocument{Template: "discharge", ClientID: "client-1"},
			status:  constvars.StatusBadRequest,
		},
		{
			name:    "Unknown Client",
			limiter: fakeLimiter{allowed: true},
			input:   requests.GenerateDocument{Template: constvars.DocumentTemplateIntake, ClientID: "nobody"},
			status:  constvars.StatusNotFound,
		},
		{
			name:    "Appointment Of Another Client",
			limiter: fakeLimiter{allowed: true},
			input:   requests.GenerateDocument{Template: constvars.DocumentTemplateProgressNote, ClientID: "client-1", AppointmentID: "appt-9"},
			status:  constvars.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, tt.limiter)

			_, err := f.uc.Generate(clinicianContext(), &tt.input)

			assert.Equal(t, tt.status, exceptions.StatusCodeOf(err))
			assert.Empty(t, f.storage.objects)
			f.docs.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		})
	}
}

func TestGenerateQuotaFailsOpen(t *testing.T) {
	f := newFixture(t, fakeLimiter{err: errors.New("redis down")})
	f.docs.On("Create", mock.Anything, mock.Anything).Return(&models.Document{ID: "d1"}, nil).Once()

	_, err := f.uc.Generate(clinicianContext(), &requests.GenerateDocument{Template: constvars.DocumentTemplateIntake, ClientID: "client-1"})

	require.NoError(t, err)
}

func TestGenerateAsync(t *testing.T) {
	t.Run("Queues Pending Document", func(t *testing.T) {
		f := newFixture(t, fakeLimiter{allowed: true})
		f.docs.On("Create", mock.Anything, mock.MatchedBy(func(d *models.Document) bool {
			return d.Status == constvars.DocumentStatusPending
		})).Return(&models.Document{ID: "d2", Status: constvars.DocumentStatusPending}, nil).Once()

		doc, err := f.uc.Generate(clinicianContext(), &requests.GenerateDocument{
			Template: constvars.DocumentTemplateIntake,
			ClientID: "client-1",
			Async:    true,
		})

		require.NoError(t, err)
		assert.Equal(t, constvars.DocumentStatusPending, doc.Status)
		require.Len(t, f.queue.jobs, 1)
		assert.Equal(t, "d2", f.queue.jobs[0].DocumentID)
		assert.Equal(t, "doc-1", f.queue.jobs[0].RequestedBy)
		assert.Empty(t, f.storage.objects)
	})

	t.Run("Publish Failure Marks Failed", func(t *testing.T) {
		f := newFixture(t, fakeLimiter{allowed: true})
		f.queue.err = errors.New("channel closed")
		f.docs.On("Create", mock.Anything, mock.Anything).Return(&models.Document{ID: "d3"}, nil).Once()
		f.docs.On("Update", mock.Anything, "d3", map[string]interface{}{"status": constvars.DocumentStatusFailed}).Return(&models.Document{ID: "d3"}, nil).Once()

		_, err := f.uc.Generate(clinicianContext(), &requests.GenerateDocument{
			Template: constvars.DocumentTemplateIntake,
			ClientID: "client-1",
			Async:    true,
		})

		assert.EqualError(t, err, "channel closed")
		f.docs.AssertExpectations(t)
	})
}

func TestProcessRenderJob(t *testing.T) {
	pending := &models.Document{ID: "d2", Bucket: "documents", ObjectPath: "client-1/x.pdf", Status: constvars.DocumentStatusPending}
	job := models.DocumentRenderJob{JobID: "j1", DocumentID: "d2", Template: constvars.DocumentTemplateIntake, ClientID: "client-1"}

	t.Run("Completes Document", func(t *testing.T) {
		f := newFixture(t, fakeLimiter{allowed: true})
		f.docs.On("FindByID", mock.Anything, "d2").Return(pending, nil).Once()
		f.docs.On("Update", mock.Anything, "d2", mock.MatchedBy(func(p map[string]interface{}) bool {
			return p["status"] == constvars.DocumentStatusReady && p["size_bytes"].(int) > 0
		})).Return(&models.Document{ID: "d2"}, nil).Once()

		require.NoError(t, f.uc.ProcessRenderJob(context.Background(), job))
		assert.Contains(t, f.storage.objects, "client-1/x.pdf")
		f.docs.AssertExpectations(t)
	})

	t.Run("Last Attempt Marks Failed", func(t *testing.T) {
		f := newFixture(t, fakeLimiter{allowed: true})
		f.renderer.pdfErr = errors.New("chrome crashed")
		f.docs.On("FindByID", mock.Anything, "d2").Return(pending, nil).Once()
		f.docs.On("Update", mock.Anything, "d2", map[string]interface{}{"status": constvars.DocumentStatusFailed}).Return(pending, nil).Once()

		last := job
		last.Attempt = 2
		assert.Error(t, f.uc.ProcessRenderJob(context.Background(), last))
		f.docs.AssertExpectations(t)
	})

	t.Run("Earlier Attempt Leaves Pending", func(t *testing.T) {
		f := newFixture(t, fakeLimiter{allowed: true})
		f.renderer.pdfErr = errors.New("chrome crashed")
		f.docs.On("FindByID", mock.Anything, "d2").Return(pending, nil).Once()

		assert.Error(t, f.uc.ProcessRenderJob(context.Background(), job))
		f.docs.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Deleted Document Drops Job", func(t *testing.T) {
		f := newFixture(t, fakeLimiter{allowed: true})
		f.docs.On("FindByID", mock.Anything, "d2").Return(nil, errMissing).Once()

		assert.NoError(t, f.uc.ProcessRenderJob(context.Background(), job))
	})
}

func TestGetDownloadURL(t *testing.T) {
	t.Run("Ready", func(t *testing.T) {
		f := newFixture(t, fakeLimiter{allowed: true})
		f.docs.On("FindByID", mock.Anything, "d1").
			Return(&models.Document{ID: "d1", Bucket: "documents", ObjectPath: "client-1/a.pdf", Status: constvars.DocumentStatusReady}, nil).Once()

		download, err := f.uc.GetDownloadURL(context.Background(), "d1")

		require.NoError(t, err)
		assert.Contains(t, download.URL, "documents/client-1/a.pdf")
		assert.Equal(t, time.Date(2025, 1, 13, 18, 5, 0, 0, time.UTC), download.ExpiresAt)
	})

	t.Run("Pending", func(t *testing.T) {
		f := newFixture(t, fakeLimiter{allowed: true})
		f.docs.On("FindByID", mock.Anything, "d2").Return(&models.Document{ID: "d2", Status: constvars.DocumentStatusPending}, nil).Once()

		_, err := f.uc.GetDownloadURL(context.Background(), "d2")

		assert.Equal(t, constvars.StatusConflict, exceptions.StatusCodeOf(err))
	})
}

func TestDeleteDocument(t *testing.T) {
	f := newFixture(t, fakeLimiter{allowed: true})
	f.docs.On("FindByID", mock.Anything, "d1").
		Return(&models.Document{ID: "d1", Bucket: "documents", ObjectPath: "client-1/a.pdf", Status: constvars.DocumentStatusReady}, nil).Once()
	f.docs.On("Delete", mock.Anything, "d1").Return(nil).Once()

	require.NoError(t, f.uc.Delete(context.Background(), "d1"))
	assert.Equal(t, []string{"client-1/a.pdf"}, f.storage.removed)
	f.docs.AssertExpectations(t)
}
