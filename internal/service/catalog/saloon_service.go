package catalog

import (
	"context"

	"gorm.io/gorm"

	"github.com/alexlitwinski/realiza-reservas-sub000/internal/common/errors"
	"github.com/alexlitwinski/realiza-reservas-sub000/internal/models"
	"github.com/alexlitwinski/realiza-reservas-sub000/internal/repository"
)

// SaloonService manages saloons.
type SaloonService struct {
	saloonRepo *repository.SaloonRepository
	areaRepo   *repository.AreaRepository
}

// NewSaloonService creates a saloon service.
func NewSaloonService(saloonRepo *repository.SaloonRepository, areaRepo *repository.AreaRepository) *SaloonService {
	return &SaloonService{saloonRepo: saloonRepo, areaRepo: areaRepo}
}

// CreateSaloonRequest carries saloon creation fields.
type CreateSaloonRequest struct {
	AreaID      int64   `json:"area_id" binding:"required"`
	Name        string  `json:"name" binding:"required,max=100"`
	Description *string `json:"description"`
	Sort        int     `json:"sort"`
	IsActive    *bool   `json:"is_active"`
}

// UpdateSaloonRequest carries saloon update fields.
type UpdateSaloonRequest struct {
	AreaID      *int64  `json:"area_id"`
	Name        *string `json:"name" binding:"omitempty,max=100"`
	Description *string `json:"description"`
	Sort        *int    `json:"sort"`
	IsActive    *bool   `json:"is_active"`
}

// Create creates a saloon inside an existing area.
func (s *SaloonService) Create(ctx context.Context, req *CreateSaloonRequest) (*models.Saloon, error) {
	if _, err := s.areaRepo.GetByID(ctx, req.AreaID); err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrAreaNotFound
		}
		return nil, errors.ErrDatabaseError.WithError(err)
	}

	saloon := &models.Saloon{
		AreaID:      req.AreaID,
		Name:        req.Name,
		Description: req.Description,
		Sort:        req.Sort,
		IsActive:    true,
	}
	if req.IsActive != nil {
		saloon.IsActive = *req.IsActive
	}

	if err := s.saloonRepo.Create(ctx, saloon); err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	return saloon, nil
}

// Get fetches a saloon with its tables.
func (s *SaloonService) Get(ctx context.Context, id int64) (*models.Saloon, error) {
	saloon, err := s.saloonRepo.GetByIDWithTables(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrSaloonNotFound
		}
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	return saloon, nil
}

// Update modifies a saloon.
func (s *SaloonService) Update(ctx context.Context, id int64, req *UpdateSaloonRequest) (*models.Saloon, error) {
	saloon, err := s.saloonRepo.GetByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrSaloonNotFound
		}
		return nil, errors.ErrDatabaseError.WithError(err)
	}

	if req.AreaID != nil && *req.AreaID != saloon.AreaID {
		if _, err := s.areaRepo.GetByID(ctx, *req.AreaID); err != nil {
			if err == gorm.ErrRecordNotFound {
				return nil, errors.ErrAreaNotFound
			}
			return nil, errors.ErrDatabaseError.WithError(err)
		}
		saloon.AreaID = *req.AreaID
	}
	if req.Name != nil {
		saloon.Name = *req.Name
	}
	if req.Description != nil {
		saloon.Description = req.Description
	}
	if req.Sort != nil {
		saloon.Sort = *req.Sort
	}
	if req.IsActive != nil {
		saloon.IsActive = *req.IsActive
	}

	if err := s.saloonRepo.Update(ctx, saloon); err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	return saloon, nil
}

// Delete removes an empty saloon.
func (s *SaloonService) Delete(ctx context.Context, id int64) error {
	if _, err := s.saloonRepo.GetByID(ctx, id); err != nil {
		if err == gorm.ErrRecordNotFound {
			return errors.ErrSaloonNotFound
		}
		return errors.ErrDatabaseError.WithError(err)
	}

	count, err := s.saloonRepo.CountTables(ctx, id)
	if err != nil {
		return errors.ErrDatabaseError.WithError(err)
	}
	if count > 0 {
		return errors.ErrSaloonHasTables
	}

	if err := s.saloonRepo.Delete(ctx, id); err != nil {
		return errors.ErrDatabaseError.WithError(err)
	}
	return nil
}

// List fetches saloons with pagination.
func (s *SaloonService) List(ctx context.Context, offset, limit int, filters map[string]interface{}) ([]*models.Saloon, int64, error) {
	saloons, total, err := s.saloonRepo.List(ctx, offset, limit, filters)
	if err != nil {
		return nil, 0, errors.ErrDatabaseError.WithError(err)
	}
	return saloons, total, nil
}

// ListActive fetches active saloons, optionally narrowed to an area.
func (s *SaloonService) ListActive(ctx context.Context, areaID *int64) ([]*models.Saloon, error) {
	var (
		saloons []*models.Saloon
		err     error
	)
	if areaID != nil {
		saloons, err = s.saloonRepo.ListActiveByArea(ctx, *areaID)
	} else {
		saloons, err = s.saloonRepo.ListActive(ctx)
	}
	if err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	return saloons, nil
}
