package jobs

import (
	"context"
	"errors"
	"testing"

	"stockview/internal/config"
	"stockview/internal/models"
	"stockview/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type MockInventoryService struct {
	mock.Mock
}

func (m *MockInventoryService) Document(ctx context.Context) ([]byte, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockInventoryService) Import(ctx context.Context, filename string, data []byte) (*models.InventoryDocument, string, error) {
	args := m.Called(ctx, filename, data)
	if args.Get(0) == nil {
		return nil, args.String(1), args.Error(2)
	}
	return args.Get(0).(*models.InventoryDocument), args.String(1), args.Error(2)
}

func (m *MockInventoryService) Rebuild(ctx context.Context) (*models.InventoryDocument, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.InventoryDocument), args.Error(1)
}

func (m *MockInventoryService) Invalidate(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func newScheduler(t *testing.T, inventory services.InventoryService, at string) *JobScheduler {
	t.Helper()
	js, err := NewJobScheduler(inventory, config.JobsConfig{RebuildAt: at, Timezone: "Asia/Ho_Chi_Minh"}, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = js.Stop() })
	return js
}

func TestNewJobScheduler_RegistersJobs(t *testing.T) {
	js := newScheduler(t, new(MockInventoryService), "00:05")
	assert.Equal(t, []string{JobCacheWarmup, JobDocumentRebuild}, js.JobNames())

	_, err := js.NextRun("nightly-report")
	assert.Error(t, err)
}

func TestNewJobScheduler_InvalidSettings(t *testing.T) {
	_, err := NewJobScheduler(new(MockInventoryService), config.JobsConfig{RebuildAt: "25:00"}, zap.NewNop())
	assert.Error(t, err)

	_, err = NewJobScheduler(new(MockInventoryService), config.JobsConfig{RebuildAt: "00:05", Timezone: "Mars/Olympus"}, zap.NewNop())
	assert.Error(t, err)
}

func TestRebuildDocument(t *testing.T) {
	inventory := new(MockInventoryService)
	js := newScheduler(t, inventory, "00:05")

	inventory.On("Rebuild", mock.Anything).
		Return(&models.InventoryDocument{Metadata: models.Metadata{TotalProducts: 3}}, nil).Once()
	assert.NoError(t, js.rebuildDocument())

	inventory.On("Rebuild", mock.Anything).Return(nil, services.ErrNoWorkbook).Once()
	assert.NoError(t, js.rebuildDocument())

	inventory.On("Rebuild", mock.Anything).Return(nil, errors.New("minio unreachable")).Once()
	assert.Error(t, js.rebuildDocument())

	inventory.AssertExpectations(t)
}

func TestWarmCache(t *testing.T) {
	inventory := new(MockInventoryService)
	js := newScheduler(t, inventory, "00:05")

	inventory.On("Document", mock.Anything).Return([]byte(`{}`), nil).Once()
	assert.NoError(t, js.warmCache())

	inventory.On("Document", mock.Anything).Return(nil, services.ErrNoWorkbook).Once()
	assert.NoError(t, js.warmCache())

	inventory.AssertExpectations(t)
}

func TestParseClock(t *testing.T) {
	h, m, err := parseClock("23:45")
	require.NoError(t, err)
	assert.Equal(t, uint(23), h)
	assert.Equal(t, uint(45), m)

	_, _, err = parseClock("noon")
	assert.Error(t, err)
}
