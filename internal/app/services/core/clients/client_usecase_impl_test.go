package clients

import (
	"clinic-portal-service/internal/app/models"
	"clinic-portal-service/internal/app/services/shared/querycache"
	redisrepo "clinic-portal-service/internal/app/services/shared/redis"
	"clinic-portal-service/internal/pkg/constvars"
	"clinic-portal-service/internal/pkg/dto/requests"
	"clinic-portal-service/internal/pkg/exceptions"
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type MockClientRepository struct {
	mock.Mock
}

func (m *MockClientRepository) List(ctx context.Context, filter requests.ClientFilter) ([]models.Client, int, error) {
	args := m.Called(ctx, filter)
	rows, _ := args.Get(0).([]models.Client)
	return rows, args.Int(1), args.Error(2)
}

func (m *MockClientRepository) FindByID(ctx context.Context, clientID string) (*models.Client, error) {
	args := m.Called(ctx, clientID)
	client, _ := args.Get(0).(*models.Client)
	return client, args.Error(1)
}

func (m *MockClientRepository) Create(ctx context.Context, client *models.Client) (*models.Client, error) {
	args := m.Called(ctx, client)
	created, _ := args.Get(0).(*models.Client)
	return created, args.Error(1)
}

func (m *MockClientRepository) Update(ctx context.Context, clientID string, patch map[string]interface{}) (*models.Client, error) {
	args := m.Called(ctx, clientID, patch)
	updated, _ := args.Get(0).(*models.Client)
	return updated, args.Error(1)
}

func (m *MockClientRepository) Delete(ctx context.Context, clientID string) error {
	return m.Called(ctx, clientID).Error(0)
}

func setup(t *testing.T) (*clientUsecase, *MockClientRepository, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	repo := new(MockClientRepository)
	cache := querycache.NewQueryCache(redisrepo.NewRedisRepository(client), zap.NewNop(), true)
	return NewClientUsecase(repo, cache, zap.NewNop()).(*clientUsecase), repo, mr
}

func asClinician(id string) context.Context {
	return context.WithValue(context.Background(), constvars.CONTEXT_AUTH_USER_KEY, models.AuthUser{ID: id, Role: constvars.RoleClinician})
}

func TestClientUsecaseList(t *testing.T) {
	uc, repo, _ := setup(t)
	repo.On("List", mock.Anything, mock.MatchedBy(func(f requests.ClientFilter) bool {
		return f.ClinicianID == "doc-1"
	})).Return([]models.Client{{ID: "c1", FirstName: "Ada"}}, 1, nil).Once()

	ctx := asClinician("doc-1")
	filter := requests.ClientFilter{ClinicianID: "someone-else", Pagination: requests.Pagination{Page: 1, PageSize: 20}}
	rows, total, err := uc.List(ctx, filter)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Equal(t, "Ada", rows[0].FirstName)

	// served from cache
	_, _, err = uc.List(ctx, filter)
	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestClientUsecaseCreate(t *testing.T) {
	uc, repo, mr := setup(t)
	mr.Set("clients:doc-1:c1", "{}")

	repo.On("Create", mock.Anything, mock.MatchedBy(func(c *models.Client) bool {
		return c.ClinicianID == "doc-1" && c.TimeZone == "America/Los_Angeles" && c.Status == clientStatusActive
	})).Return(&models.Client{ID: "c2"}, nil).Once()

	created, err := uc.Create(asClinician("doc-1"), &requests.CreateClient{FirstName: "Grace", TimeZone: "PST"})

	require.NoError(t, err)
	assert.Equal(t, "c2", created.ID)
	assert.False(t, mr.Exists("clients:doc-1:c1"))
	repo.AssertExpectations(t)
}

func TestClientUsecaseUpdate(t *testing.T) {
	t.Run("Empty Patch Is Rejected", func(t *testing.T) {
		uc, repo, _ := setup(t)

		_, err := uc.Update(context.Background(), "c1", &requests.UpdateClient{})

		assert.Equal(t, constvars.StatusBadRequest, exceptions.StatusCodeOf(err))
		repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Only Set Fields Are Sent", func(t *testing.T) {
		uc, repo, _ := setup(t)
		status := "archived"
		repo.On("Update", mock.Anything, "c1", map[string]interface{}{"status": "archived"}).Return(&models.Client{ID: "c1", Status: status}, nil).Once()

		updated, err := uc.Update(context.Background(), "c1", &requests.UpdateClient{Status: &status})

		require.NoError(t, err)
		assert.Equal(t, "archived", updated.Status)
		repo.AssertExpectations(t)
	})
}
