package service

import (
	"context"
	"errors"
	"strings"

	"github.com/AzizSouissi/store-inventory-suite/internal/apierror"
	"github.com/AzizSouissi/store-inventory-suite/internal/dto"
	"github.com/AzizSouissi/store-inventory-suite/internal/model"
	"github.com/AzizSouissi/store-inventory-suite/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SupplierService defines business operations for suppliers.
type SupplierService interface {
	Create(ctx context.Context, req dto.SupplierRequest) (*dto.SupplierResponse, error)
	Update(ctx context.Context, id uuid.UUID, req dto.SupplierRequest) (*dto.SupplierResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
	GetByID(ctx context.Context, id uuid.UUID) (*dto.SupplierResponse, error)
	GetAll(ctx context.Context) ([]dto.SupplierResponse, error)
}

type supplierService struct {
	repo repository.SupplierRepository
}

func NewSupplierService(repo repository.SupplierRepository) SupplierService {
	return &supplierService{repo: repo}
}

func mapSupplier(s model.Supplier) *dto.SupplierResponse {
	return &dto.SupplierResponse{
		ID:      s.ID.String(),
		Name:    s.Name,
		Phone:   s.Phone,
		Address: s.Address,
		Notes:   s.Notes,
	}
}

func (s *supplierService) Create(ctx context.Context, req dto.SupplierRequest) (*dto.SupplierResponse, error) {
	name := strings.TrimSpace(req.Name)
	existing, err := s.repo.FindByName(ctx, name)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, apierror.Conflict("Supplier name already exists")
	}

	sup := &model.Supplier{
		Name:    name,
		Phone:   req.Phone,
		Address: req.Address,
		Notes:   req.Notes,
	}
	if err := s.repo.Create(ctx, sup); err != nil {
		return nil, err
	}
	return mapSupplier(*sup), nil
}

func (s *supplierService) Update(ctx context.Context, id uuid.UUID, req dto.SupplierRequest) (*dto.SupplierResponse, error) {
	sup, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierror.NotFound("Supplier not found")
		}
		return nil, err
	}

	newName := strings.TrimSpace(req.Name)
	if !strings.EqualFold(sup.Name, newName) {
		existing, err := s.repo.FindByName(ctx, newName)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		if existing != nil && existing.ID != id {
			return nil, apierror.Conflict("Supplier name already exists")
		}
	}

	sup.Name = newName
	sup.Phone = req.Phone
	sup.Address = req.Address
	sup.Notes = req.Notes
	if err := s.repo.Update(ctx, sup); err != nil {
		return nil, err
	}
	return mapSupplier(*sup), nil
}

func (s *supplierService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apierror.NotFound("Supplier not found")
		}
		return err
	}
	return s.repo.Delete(ctx, id)
}

func (s *supplierService) GetByID(ctx context.Context, id uuid.UUID) (*dto.SupplierResponse, error) {
	sup, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierror.NotFound("Supplier not found")
		}
		return nil, err
	}
	return mapSupplier(*sup), nil
}

func (s *supplierService) GetAll(ctx context.Context) ([]dto.SupplierResponse, error) {
	list, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	result := make([]dto.SupplierResponse, 0, len(list))
	for _, sup := range list {
		result = append(result, *mapSupplier(sup))
	}
	return result, nil
}
