package services

import (
	"context"
	"io"
	"time"

	"stockview/internal/models"

	"github.com/stretchr/testify/mock"
)

type MockWorkbookRepository struct {
	mock.Mock
}

func (m *MockWorkbookRepository) Create(ctx context.Context, upload *models.WorkbookUpload) error {
	args := m.Called(ctx, upload)
	return args.Error(0)
}

func (m *MockWorkbookRepository) GetLatest(ctx context.Context) (*models.WorkbookUpload, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.WorkbookUpload), args.Error(1)
}

type MockShelfLifeRepository struct {
	mock.Mock
}

func (m *MockShelfLifeRepository) Upsert(ctx context.Context, override *models.ShelfLifeOverride) error {
	args := m.Called(ctx, override)
	return args.Error(0)
}

func (m *MockShelfLifeRepository) GetByKey(ctx context.Context, uniqueKey string) (*models.ShelfLifeOverride, error) {
	args := m.Called(ctx, uniqueKey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ShelfLifeOverride), args.Error(1)
}

func (m *MockShelfLifeRepository) GetAll(ctx context.Context) (map[string]int, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]int), args.Error(1)
}

func (m *MockShelfLifeRepository) Delete(ctx context.Context, uniqueKey string) error {
	args := m.Called(ctx, uniqueKey)
	return args.Error(0)
}

type MockStorageService struct {
	mock.Mock
}

func (m *MockStorageService) UploadWorkbook(ctx context.Context, objectName string, reader io.Reader, objectSize int64) error {
	args := m.Called(ctx, objectName, reader, objectSize)
	return args.Error(0)
}

func (m *MockStorageService) OpenWorkbook(ctx context.Context, objectName string) (io.ReadCloser, error) {
	args := m.Called(ctx, objectName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(io.ReadCloser), args.Error(1)
}

func (m *MockStorageService) EnsureBucketExists(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockStorageService) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

type MockCacheService struct {
	mock.Mock
}

func (m *MockCacheService) GetDocument(ctx context.Context) ([]byte, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockCacheService) SetDocument(ctx context.Context, data []byte) error {
	args := m.Called(ctx, data)
	return args.Error(0)
}

func (m *MockCacheService) InvalidateDocument(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockCacheService) AcquireRebuildLock(ctx context.Context, ttl time.Duration) (func(), error) {
	args := m.Called(ctx, ttl)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(func()), args.Error(1)
}

func (m *MockCacheService) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

type MockConverter struct {
	mock.Mock
}

func (m *MockConverter) Convert(r io.Reader, sourceFile string, overrides map[string]int) (*models.InventoryDocument, error) {
	args := m.Called(r, sourceFile, overrides)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.InventoryDocument), args.Error(1)
}

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
