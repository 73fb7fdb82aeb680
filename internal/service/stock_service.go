package service

import (
	"context"
	"fmt"

	"lojalink/internal/dto"
	"lojalink/internal/model"
	"lojalink/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type StockService interface {
	CreateMovement(ctx context.Context, req dto.CreateMovementRequest) (*dto.CreateMovementResponse, error)
	ListMovements(ctx context.Context, filter dto.MovementFilter) (*dto.MovementListResponse, error)
}

type stockService struct {
	productRepo repository.ProductRepository
	stockRepo   repository.StockMovementRepository
}

func NewStockService(productRepo repository.ProductRepository, stockRepo repository.StockMovementRepository) StockService {
	return &stockService{productRepo: productRepo, stockRepo: stockRepo}
}

// CreateMovement applies a manual entry or exit atomically: the product stock
// update and the movement row live or die together, and an exit that would
// drive stock negative is rejected before touching anything.
func (s *stockService) CreateMovement(ctx context.Context, req dto.CreateMovementRequest) (*dto.CreateMovementResponse, error) {
	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		return nil, fmt.Errorf("productId invalido: %w", err)
	}

	delta := req.Qty
	if req.Kind == model.MovementOut {
		delta = -req.Qty
	}

	var mov model.StockMovement
	txErr := runTx(ctx, s.productRepo.DB(), func(tx *gorm.DB) error {
		product, err := s.productRepo.FindByIDTx(tx, productID)
		if err != nil {
			return ErrProductNotFound
		}

		after := product.Stock + delta
		if after < 0 {
			return fmt.Errorf("%w: %s (atual %d, saida %d)", ErrInsufficientStock, product.Name, product.Stock, req.Qty)
		}

		if err := s.productRepo.UpdateStockTx(tx, productID, delta); err != nil {
			return err
		}

		mov = model.StockMovement{
			ProductID:     productID,
			Qty:           req.Qty,
			Kind:          req.Kind,
			StockBefore:   product.Stock,
			StockAfter:    after,
			ReferenceType: req.ReferenceType,
		}
		if req.ReferenceID != nil {
			refID, err := uuid.Parse(*req.ReferenceID)
			if err != nil {
				return fmt.Errorf("referenceId invalido: %w", err)
			}
			mov.ReferenceID = &refID
		}
		return s.stockRepo.CreateTx(tx, &mov)
	})
	if txErr != nil {
		return nil, txErr
	}

	return &dto.CreateMovementResponse{
		OK:       true,
		Movement: movementToResponse(&mov),
		NewStock: mov.StockAfter,
	}, nil
}

func (s *stockService) ListMovements(ctx context.Context, filter dto.MovementFilter) (*dto.MovementListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	movements, total, err := s.stockRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.MovementResponse, 0, len(movements))
	for i := range movements {
		items = append(items, movementToResponse(&movements[i]))
	}
	return &dto.MovementListResponse{
		Data:  items,
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}, nil
}

func movementToResponse(m *model.StockMovement) dto.MovementResponse {
	return dto.MovementResponse{
		ID:          m.ID.String(),
		ProductID:   m.ProductID.String(),
		Qty:         m.Qty,
		Kind:        m.Kind,
		StockBefore: m.StockBefore,
		StockAfter:  m.StockAfter,
		CreatedAt:   formatTimestamp(m.CreatedAt),
	}
}
