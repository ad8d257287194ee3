package handlers

import (
	"context"
	"io"
	"time"

	"stockview/internal/models"

	"github.com/stretchr/testify/mock"
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

type MockShelfLifeService struct {
	mock.Mock
}

func (m *MockShelfLifeService) Save(ctx context.Context, req models.ShelfLifeRequest) (*models.ShelfLifeOverride, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ShelfLifeOverride), args.Error(1)
}

func (m *MockShelfLifeService) Get(ctx context.Context, key models.ProductKey) (*models.ShelfLifeOverride, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ShelfLifeOverride), args.Error(1)
}

func (m *MockShelfLifeService) Delete(ctx context.Context, key models.ProductKey) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

// MockPinger stands in for the database pool, the cache and the storage
// service in health checks; only Ping is exercised there.
type MockPinger struct {
	mock.Mock
}

func (m *MockPinger) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

type MockCacheService struct {
	MockPinger
}

func (m *MockCacheService) GetDocument(context.Context) ([]byte, error) { return nil, nil }
func (m *MockCacheService) SetDocument(context.Context, []byte) error { return nil }
func (m *MockCacheService) InvalidateDocument(context.Context) error { return nil }
func (m *MockCacheService) AcquireRebuildLock(context.Context, time.Duration) (func(), error) {
	return func() {}, nil
}

type MockStorageService struct {
	MockPinger
}

func (m *MockStorageService) UploadWorkbook(context.Context, string, io.Reader, int64) error { return nil }
func (m *MockStorageService) OpenWorkbook(context.Context, string) (io.ReadCloser, error) {
	return nil, nil
}
func (m *MockStorageService) EnsureBucketExists(context.Context) error { return nil }
