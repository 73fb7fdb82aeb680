package service

import (
	"context"
	"errors"
	"fmt"

	"lojalink/internal/dto"
	"lojalink/internal/model"
	"lojalink/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrSKUTaken = errors.New("sku ja cadastrado")

type ProductService interface {
	Create(ctx context.Context, req dto.CreateProductRequest) (*dto.ProductResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*dto.ProductResponse, error)
	List(ctx context.Context, filter dto.ProductFilter) (*dto.ProductListResponse, error)
	Catalog(ctx context.Context) ([]dto.CatalogItem, error)
	Update(ctx context.Context, id uuid.UUID, req dto.UpdateProductRequest) (*dto.ProductResponse, error)
	Deactivate(ctx context.Context, id uuid.UUID) error
	Reactivate(ctx context.Context, id uuid.UUID) error
}

type productService struct {
	repo      repository.ProductRepository
	stockRepo repository.StockMovementRepository
}

func NewProductService(repo repository.ProductRepository, stockRepo repository.StockMovementRepository) ProductService {
	return &productService{repo: repo, stockRepo: stockRepo}
}

// Create registers the product and, when it starts with stock on hand, writes
// the opening "in" movement in the same transaction.
func (s *productService) Create(ctx context.Context, req dto.CreateProductRequest) (*dto.ProductResponse, error) {
	if req.SKU == model.SentinelSKU {
		return nil, fmt.Errorf("sku %q e reservado", model.SentinelSKU)
	}

	product := &model.Product{
		SKU:      req.SKU,
		Code:     req.Code,
		Name:     req.Name,
		Price:    req.Price,
		Cost:     req.Cost,
		Stock:    req.Stock,
		MinStock: req.MinStock,
		Unit:     req.Unit,
		Barcode:  req.Barcode,
		Active:   true,
	}
	if product.Unit == "" {
		product.Unit = "un"
	}
	if req.CategoryID != nil {
		cid, err := uuid.Parse(*req.CategoryID)
		if err != nil {
			return nil, errors.New("category_id invalido")
		}
		product.CategoryID = &cid
	}

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if err := s.repo.CreateTx(tx, product); err != nil {
			return err
		}
		if product.Stock > 0 {
			refType := "initial"
			return s.stockRepo.CreateTx(tx, &model.StockMovement{
				ProductID:     product.ID,
				Qty:           product.Stock,
				Kind:          model.MovementIn,
				StockBefore:   0,
				StockAfter:    product.Stock,
				ReferenceType: &refType,
			})
		}
		return nil
	})
	if txErr != nil {
		if errors.Is(txErr, gorm.ErrDuplicatedKey) {
			return nil, ErrSKUTaken
		}
		return nil, txErr
	}

	resp := productToResponse(product)
	return &resp, nil
}

func (s *productService) Get(ctx context.Context, id uuid.UUID) (*dto.ProductResponse, error) {
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, ErrProductNotFound
	}
	resp := productToResponse(product)
	return &resp, nil
}

func (s *productService) List(ctx context.Context, filter dto.ProductFilter) (*dto.ProductListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	products, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductResponse, 0, len(products))
	for i := range products {
		items = append(items, productToResponse(&products[i]))
	}
	return &dto.ProductListResponse{
		Data:  items,
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}, nil
}

// Catalog is the public storefront projection: active products only, sentinel
// excluded, no cost or stock counts.
func (s *productService) Catalog(ctx context.Context) ([]dto.CatalogItem, error) {
	products, err := s.repo.ListCatalog(ctx)
	if err != nil {
		return nil, err
	}
	items := make([]dto.CatalogItem, 0, len(products))
	for _, p := range products {
		var category *string
		if p.Category != nil {
			category = &p.Category.Name
		}
		items = append(items, dto.CatalogItem{
			ID:       p.ID.String(),
			Name:     p.Name,
			Price:    p.Price,
			Unit:     p.Unit,
			Category: category,
			InStock:  p.Stock > 0,
		})
	}
	return items, nil
}

func (s *productService) Update(ctx context.Context, id uuid.UUID, req dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, ErrProductNotFound
	}
	if product.SKU == model.SentinelSKU {
		return nil, fmt.Errorf("produto %q e reservado", model.SentinelSKU)
	}

	if req.Code != "" {
		product.Code = req.Code
	}
	if req.Name != "" {
		product.Name = req.Name
	}
	if req.Price != nil {
		product.Price = *req.Price
	}
	if req.Cost != nil {
		product.Cost = *req.Cost
	}
	if req.MinStock != nil {
		product.MinStock = *req.MinStock
	}
	if req.Unit != "" {
		product.Unit = req.Unit
	}
	if req.Barcode != nil {
		product.Barcode = req.Barcode
	}
	if req.CategoryID != nil {
		cid, err := uuid.Parse(*req.CategoryID)
		if err != nil {
			return nil, errors.New("category_id invalido")
		}
		product.CategoryID = &cid
	}

	if err := s.repo.Update(ctx, product); err != nil {
		return nil, err
	}
	resp := productToResponse(product)
	return &resp, nil
}

func (s *productService) Deactivate(ctx context.Context, id uuid.UUID) error {
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return ErrProductNotFound
	}
	if product.SKU == model.SentinelSKU {
		return fmt.Errorf("produto %q e reservado", model.SentinelSKU)
	}
	return s.repo.SoftDelete(ctx, id)
}

func (s *productService) Reactivate(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return ErrProductNotFound
	}
	return s.repo.Reactivate(ctx, id)
}

func productToResponse(p *model.Product) dto.ProductResponse {
	var category *string
	if p.Category != nil {
		category = &p.Category.Name
	}
	return dto.ProductResponse{
		ID:       p.ID.String(),
		SKU:      p.SKU,
		Code:     p.Code,
		Name:     p.Name,
		Price:    p.Price,
		Cost:     p.Cost,
		Stock:    p.Stock,
		MinStock: p.MinStock,
		Unit:     p.Unit,
		Barcode:  p.Barcode,
		Category: category,
		Active:   p.Active,
	}
}
