package services

import (
	"context"
	"errors"
	"fmt"

	"stockview/internal/models"
	"stockview/internal/repositories"

	"go.uber.org/zap"
)

var (
	ErrInvalidShelfLife  = errors.New("shelf life must be a positive number of months")
	ErrShelfLifeNotFound = errors.New("shelf life override not found")
)

type ShelfLifeService interface {
	// Save stores the override and rebuilds the published document. A failed
	// rebuild is logged and the published document is dropped so the next
	// read rebuilds it; the override itself is kept.
	Save(ctx context.Context, req models.ShelfLifeRequest) (*models.ShelfLifeOverride, error)
	Get(ctx context.Context, key models.ProductKey) (*models.ShelfLifeOverride, error)
	// Delete removes the override, returning the product to its sheet default,
	// and republishes the document the same way Save does
	Delete(ctx context.Context, key models.ProductKey) error
}

type shelfLifeService struct {
	repo      repositories.ShelfLifeRepository
	inventory InventoryService
	logger    *zap.Logger
}

func NewShelfLifeService(repo repositories.ShelfLifeRepository, inventory InventoryService, logger *zap.Logger) ShelfLifeService {
	return &shelfLifeService{repo: repo, inventory: inventory, logger: logger}
}

func (s *shelfLifeService) Save(ctx context.Context, req models.ShelfLifeRequest) (*models.ShelfLifeOverride, error) {
	if req.ShelfLifeMonths <= 0 {
		return nil, ErrInvalidShelfLife
	}
	override := &models.ShelfLifeOverride{
		ProductCode:     req.ProductCode,
		LotNumber:       req.LotNumber,
		ShelfLifeMonths: req.ShelfLifeMonths,
	}
	if err := s.repo.Upsert(ctx, override); err != nil {
		return nil, fmt.Errorf("failed to store shelf life: %w", err)
	}

	s.republish(ctx, s.logger.With(
		zap.String("unique_key", override.UniqueKey),
		zap.Int("shelf_life_months", override.ShelfLifeMonths)))
	return override, nil
}

func (s *shelfLifeService) Get(ctx context.Context, key models.ProductKey) (*models.ShelfLifeOverride, error) {
	return s.repo.GetByKey(ctx, key.UniqueKey())
}

func (s *shelfLifeService) Delete(ctx context.Context, key models.ProductKey) error {
	uniqueKey := key.UniqueKey()
	existing, err := s.repo.GetByKey(ctx, uniqueKey)
	if err != nil {
		return fmt.Errorf("failed to read shelf life: %w", err)
	}
	if existing == nil {
		return ErrShelfLifeNotFound
	}
	if err := s.repo.Delete(ctx, uniqueKey); err != nil {
		return fmt.Errorf("failed to delete shelf life: %w", err)
	}

	s.republish(ctx, s.logger.With(zap.String("unique_key", uniqueKey), zap.Bool("deleted", true)))
	return nil
}

// republish rebuilds the document after an override changed. When that
// fails the cached document no longer matches the overrides, so it is
// dropped and the next read rebuilds it.
func (s *shelfLifeService) republish(ctx context.Context, log *zap.Logger) {
	_, err := s.inventory.Rebuild(ctx)
	switch {
	case err == nil:
		log.Info("shelf life saved")
		return
	case errors.Is(err, ErrNoWorkbook):
		log.Info("shelf life saved, no workbook to rebuild yet")
		return
	}

	log.Warn("shelf life saved but document rebuild failed", zap.Error(err))
	if err := s.inventory.Invalidate(ctx); err != nil {
		log.Error("stale document left in cache", zap.Error(err))
	}
}
