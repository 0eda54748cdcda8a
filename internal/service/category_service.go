package service

import (
	"context"
	"errors"
	"strings"

	"github.com/AzizSouissi/store-inventory-suite/internal/apierror"
	"github.com/AzizSouissi/store-inventory-suite/internal/dto"
	"github.com/AzizSouissi/store-inventory-suite/internal/model"
	"github.com/AzizSouissi/store-inventory-suite/internal/numeric"
	"github.com/AzizSouissi/store-inventory-suite/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CategoryService defines business operations for product categories.
type CategoryService interface {
	Create(ctx context.Context, req dto.CategoryRequest) (*dto.CategoryResponse, error)
	Update(ctx context.Context, id uuid.UUID, req dto.CategoryRequest) (*dto.CategoryResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
	GetByID(ctx context.Context, id uuid.UUID) (*dto.CategoryResponse, error)
	GetAll(ctx context.Context) ([]dto.CategoryResponse, error)
}

type categoryService struct {
	repo     repository.CategoryRepository
	products repository.ProductRepository
}

func NewCategoryService(repo repository.CategoryRepository, products repository.ProductRepository) CategoryService {
	return &categoryService{repo: repo, products: products}
}

func mapCategory(c model.Category) *dto.CategoryResponse {
	return &dto.CategoryResponse{
		ID:                       c.ID.String(),
		Name:                     c.Name,
		DefaultLowStockThreshold: c.DefaultLowStockThreshold,
	}
}

func (s *categoryService) Create(ctx context.Context, req dto.CategoryRequest) (*dto.CategoryResponse, error) {
	name := strings.TrimSpace(req.Name)
	existing, err := s.repo.FindByName(ctx, name)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, apierror.Conflict("Category name already exists")
	}

	c := &model.Category{
		Name:                     name,
		DefaultLowStockThreshold: numeric.ScaleThreshold(req.DefaultLowStockThreshold),
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	return mapCategory(*c), nil
}

func (s *categoryService) Update(ctx context.Context, id uuid.UUID, req dto.CategoryRequest) (*dto.CategoryResponse, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierror.NotFound("Category not found")
		}
		return nil, err
	}

	newName := strings.TrimSpace(req.Name)
	if !strings.EqualFold(c.Name, newName) {
		existing, err := s.repo.FindByName(ctx, newName)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		if existing != nil && existing.ID != id {
			return nil, apierror.Conflict("Category name already exists")
		}
	}

	c.Name = newName
	c.DefaultLowStockThreshold = numeric.ScaleThreshold(req.DefaultLowStockThreshold)
	if err := s.repo.Update(ctx, c); err != nil {
		return nil, err
	}
	return mapCategory(*c), nil
}

func (s *categoryService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apierror.NotFound("Category not found")
		}
		return err
	}

	referenced, err := s.products.ExistsByCategory(ctx, id)
	if err != nil {
		return err
	}
	if referenced {
		return apierror.Conflict("Cannot delete category while products reference it")
	}
	return s.repo.Delete(ctx, id)
}

func (s *categoryService) GetByID(ctx context.Context, id uuid.UUID) (*dto.CategoryResponse, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierror.NotFound("Category not found")
		}
		return nil, err
	}
	return mapCategory(*c), nil
}

func (s *categoryService) GetAll(ctx context.Context) ([]dto.CategoryResponse, error) {
	list, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	result := make([]dto.CategoryResponse, 0, len(list))
	for _, c := range list {
		result = append(result, *mapCategory(c))
	}
	return result, nil
}
