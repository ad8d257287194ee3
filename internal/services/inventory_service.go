package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"stockview/internal/caching"
	"stockview/internal/models"
	"stockview/internal/repositories"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrNoWorkbook      = errors.New("no workbook has been uploaded")
	ErrUnsupportedFile = errors.New("only Excel workbooks (.xlsx, .xlsm) are accepted")
	ErrInvalidWorkbook = errors.New("workbook could not be converted")
)

// WorkbookConverter turns a workbook into an inventory document
type WorkbookConverter interface {
	Convert(r io.Reader, sourceFile string, overrides map[string]int) (*models.InventoryDocument, error)
}

// InventoryService builds and publishes the inventory document
type InventoryService interface {
	// Document returns the published document JSON, building it when the
	// cache is empty
	Document(ctx context.Context) ([]byte, error)
	// Import stores a new workbook and publishes the document built from it.
	// It returns the document and the stored file name.
	Import(ctx context.Context, filename string, data []byte) (*models.InventoryDocument, string, error)
	// Rebuild converts the latest workbook again with the current overrides
	Rebuild(ctx context.Context) (*models.InventoryDocument, error)
	// Invalidate drops the published document so the next Document call
	// rebuilds it
	Invalidate(ctx context.Context) error
}

type inventoryService struct {
	workbookRepo  repositories.WorkbookRepository
	shelfLifeRepo repositories.ShelfLifeRepository
	storage       StorageService
	cacheService  caching.CacheService
	converter     WorkbookConverter
	lockTTL       time.Duration
	logger        *zap.Logger
	now           func() time.Time
}

func NewInventoryService(
	workbookRepo repositories.WorkbookRepository,
	shelfLifeRepo repositories.ShelfLifeRepository,
	storage StorageService,
	cacheService caching.CacheService,
	converter WorkbookConverter,
	lockTTL time.Duration,
	logger *zap.Logger,
) InventoryService {
	if lockTTL <= 0 {
		lockTTL = 30 * time.Second
	}
	return &inventoryService{
		workbookRepo:  workbookRepo,
		shelfLifeRepo: shelfLifeRepo,
		storage:       storage,
		cacheService:  cacheService,
		converter:     converter,
		lockTTL:       lockTTL,
		logger:        logger,
		now:           time.Now,
	}
}

func (s *inventoryService) Document(ctx context.Context) ([]byte, error) {
	data, err := s.cacheService.GetDocument(ctx)
	if err != nil {
		s.logger.Warn("document cache unavailable, rebuilding", zap.Error(err))
	} else if data != nil {
		return data, nil
	}

	doc, err := s.Rebuild(ctx)
	if err != nil {
		return nil, err
	}
	return json.Marshal(doc)
}

func (s *inventoryService) Invalidate(ctx context.Context) error {
	if err := s.cacheService.InvalidateDocument(ctx); err != nil {
		return fmt.Errorf("failed to invalidate document cache: %w", err)
	}
	return nil
}

func (s *inventoryService) Import(ctx context.Context, filename string, data []byte) (*models.InventoryDocument, string, error) {
	if !acceptedWorkbook(filename) {
		return nil, "", ErrUnsupportedFile
	}

	release, err := s.cacheService.AcquireRebuildLock(ctx, s.lockTTL)
	if err != nil {
		return nil, "", err
	}
	defer release()

	overrides, err := s.shelfLifeRepo.GetAll(ctx)
	if err != nil {
		return nil, "", fmt.Errorf("failed to load shelf life overrides: %w", err)
	}

	doc, err := s.converter.Convert(bytes.NewReader(data), filepath.Base(filename), overrides)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %w", ErrInvalidWorkbook, err)
	}

	stored := storedName(filename, s.now())
	upload := &models.WorkbookUpload{
		ID:           uuid.New(),
		ObjectName:   "workbooks/" + stored,
		OriginalName: filepath.Base(filename),
		Size:         int64(len(data)),
	}
	if err := s.storage.UploadWorkbook(ctx, upload.ObjectName, bytes.NewReader(data), upload.Size); err != nil {
		return nil, "", err
	}
	if err := s.workbookRepo.Create(ctx, upload); err != nil {
		return nil, "", fmt.Errorf("failed to record workbook upload: %w", err)
	}

	if err := s.publish(ctx, doc); err != nil {
		return nil, "", err
	}
	s.logger.Info("workbook imported",
		zap.String("filename", upload.OriginalName),
		zap.String("object", upload.ObjectName),
		zap.Int("sheets", len(doc.Sheets)),
		zap.Int("products", doc.Metadata.TotalProducts))
	return doc, stored, nil
}

func (s *inventoryService) Rebuild(ctx context.Context) (*models.InventoryDocument, error) {
	release, err := s.cacheService.AcquireRebuildLock(ctx, s.lockTTL)
	if err != nil {
		return nil, err
	}
	defer release()

	upload, err := s.workbookRepo.GetLatest(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to find latest workbook: %w", err)
	}
	if upload == nil {
		return nil, ErrNoWorkbook
	}

	overrides, err := s.shelfLifeRepo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load shelf life overrides: %w", err)
	}

	obj, err := s.storage.OpenWorkbook(ctx, upload.ObjectName)
	if err != nil {
		return nil, err
	}
	defer obj.Close()

	doc, err := s.converter.Convert(obj, upload.OriginalName, overrides)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidWorkbook, err)
	}
	if err := s.publish(ctx, doc); err != nil {
		return nil, err
	}
	s.logger.Info("inventory document rebuilt",
		zap.String("object", upload.ObjectName),
		zap.Int("overrides", len(overrides)),
		zap.Int("products", doc.Metadata.TotalProducts))
	return doc, nil
}

func (s *inventoryService) publish(ctx context.Context, doc *models.InventoryDocument) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to encode document: %w", err)
	}
	if err := s.cacheService.SetDocument(ctx, data); err != nil {
		return fmt.Errorf("failed to publish document: %w", err)
	}
	return nil
}

func acceptedWorkbook(filename string) bool {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsx", ".xlsm":
		return true
	default:
		return false
	}
}

// storedName appends the upload time to the file name so uploads never
// overwrite each other: "22.12.xlsx" becomes "22.12_1734850000.xlsx".
func storedName(filename string, at time.Time) string {
	base := filepath.Base(filename)
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)
	return stem + "_" + strconv.FormatInt(at.Unix(), 10) + ext
}
