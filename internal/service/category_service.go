package service

import (
	"context"
	"errors"

	"lojalink/internal/dto"
	"lojalink/internal/model"
	"lojalink/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrCategoryNotFound      = errors.New("categoria nao encontrada")
	ErrCategoryTaken         = errors.New("categoria ja cadastrada")
	ErrPaymentMethodNotFound = errors.New("forma de pagamento nao encontrada")
)

type CategoryService interface {
	Create(ctx context.Context, req dto.CategoryRequest) (*dto.CategoryResponse, error)
	List(ctx context.Context) ([]dto.CategoryResponse, error)
	Update(ctx context.Context, id uuid.UUID, req dto.CategoryRequest) (*dto.CategoryResponse, error)
	Deactivate(ctx context.Context, id uuid.UUID) error
}

type categoryService struct {
	repo repository.CategoryRepository
}

func NewCategoryService(repo repository.CategoryRepository) CategoryService {
	return &categoryService{repo: repo}
}

func (s *categoryService) Create(ctx context.Context, req dto.CategoryRequest) (*dto.CategoryResponse, error) {
	cat := &model.Category{Name: req.Name, Active: true}
	if err := s.repo.Create(ctx, cat); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrCategoryTaken
		}
		return nil, err
	}
	return categoryToResponse(cat), nil
}

func (s *categoryService) List(ctx context.Context) ([]dto.CategoryResponse, error) {
	cats, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.CategoryResponse, 0, len(cats))
	for i := range cats {
		resp = append(resp, *categoryToResponse(&cats[i]))
	}
	return resp, nil
}

func (s *categoryService) Update(ctx context.Context, id uuid.UUID, req dto.CategoryRequest) (*dto.CategoryResponse, error) {
	cat, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, ErrCategoryNotFound
	}
	cat.Name = req.Name
	if err := s.repo.Update(ctx, cat); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrCategoryTaken
		}
		return nil, err
	}
	return categoryToResponse(cat), nil
}

func (s *categoryService) Deactivate(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return ErrCategoryNotFound
	}
	return s.repo.SoftDelete(ctx, id)
}

func categoryToResponse(c *model.Category) *dto.CategoryResponse {
	return &dto.CategoryResponse{ID: c.ID.String(), Name: c.Name, Active: c.Active}
}

// ─── Payment methods ─────────────────────────────────────────────────────────

type PaymentMethodService interface {
	Create(ctx context.Context, req dto.PaymentMethodRequest) (*dto.PaymentMethodResponse, error)
	List(ctx context.Context) ([]dto.PaymentMethodResponse, error)
	Deactivate(ctx context.Context, id uuid.UUID) error
}

type paymentMethodService struct {
	repo repository.PaymentMethodRepository
}

func NewPaymentMethodService(repo repository.PaymentMethodRepository) PaymentMethodService {
	return &paymentMethodService{repo: repo}
}

func (s *paymentMethodService) Create(ctx context.Context, req dto.PaymentMethodRequest) (*dto.PaymentMethodResponse, error) {
	m := &model.PaymentMethod{Name: req.Name, Active: true}
	if err := s.repo.Create(ctx, m); err != nil {
		return nil, err
	}
	return &dto.PaymentMethodResponse{ID: m.ID.String(), Name: m.Name, Active: m.Active}, nil
}

func (s *paymentMethodService) List(ctx context.Context) ([]dto.PaymentMethodResponse, error) {
	methods, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.PaymentMethodResponse, 0, len(methods))
	for _, m := range methods {
		resp = append(resp, dto.PaymentMethodResponse{ID: m.ID.String(), Name: m.Name, Active: m.Active})
	}
	return resp, nil
}

func (s *paymentMethodService) Deactivate(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return ErrPaymentMethodNotFound
	}
	return s.repo.SoftDelete(ctx, id)
}
