// Package catalog provides area, saloon and table management.
package catalog

import (
	"context"

	"gorm.io/gorm"

	"github.com/alexlitwinski/realiza-reservas-sub000/internal/common/errors"
	"github.com/alexlitwinski/realiza-reservas-sub000/internal/models"
	"github.com/alexlitwinski/realiza-reservas-sub000/internal/repository"
)

// AreaService manages areas.
type AreaService struct {
	areaRepo *repository.AreaRepository
}

// NewAreaService creates an area service.
func NewAreaService(areaRepo *repository.AreaRepository) *AreaService {
	return &AreaService{areaRepo: areaRepo}
}

// CreateAreaRequest carries area creation fields.
type CreateAreaRequest struct {
	Name        string  `json:"name" binding:"required,max=100"`
	Description *string `json:"description"`
	Sort        int     `json:"sort"`
	IsActive    *bool   `json:"is_active"`
}

// UpdateAreaRequest carries area update fields.
type UpdateAreaRequest struct {
	Name        *string `json:"name" binding:"omitempty,max=100"`
	Description *string `json:"description"`
	Sort        *int    `json:"sort"`
	IsActive    *bool   `json:"is_active"`
}

// Create creates an area.
func (s *AreaService) Create(ctx context.Context, req *CreateAreaRequest) (*models.Area, error) {
	area := &models.Area{
		Name:        req.Name,
		Description: req.Description,
		Sort:        req.Sort,
		IsActive:    true,
	}
	if req.IsActive != nil {
		area.IsActive = *req.IsActive
	}

	if err := s.areaRepo.Create(ctx, area); err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	return area, nil
}

// Get fetches an area.
func (s *AreaService) Get(ctx context.Context, id int64) (*models.Area, error) {
	area, err := s.areaRepo.GetByIDWithSaloons(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrAreaNotFound
		}
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	return area, nil
}

// Update modifies an area.
func (s *AreaService) Update(ctx context.Context, id int64, req *UpdateAreaRequest) (*models.Area, error) {
	area, err := s.areaRepo.GetByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrAreaNotFound
		}
		return nil, errors.ErrDatabaseError.WithError(err)
	}

	if req.Name != nil {
		area.Name = *req.Name
	}
	if req.Description != nil {
		area.Description = req.Description
	}
	if req.Sort != nil {
		area.Sort = *req.Sort
	}
	if req.IsActive != nil {
		area.IsActive = *req.IsActive
	}

	if err := s.areaRepo.Update(ctx, area); err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	return area, nil
}

// Delete removes an empty area.
func (s *AreaService) Delete(ctx context.Context, id int64) error {
	if _, err := s.areaRepo.GetByID(ctx, id); err != nil {
		if err == gorm.ErrRecordNotFound {
			return errors.ErrAreaNotFound
		}
		return errors.ErrDatabaseError.WithError(err)
	}

	count, err := s.areaRepo.CountSaloons(ctx, id)
	if err != nil {
		return errors.ErrDatabaseError.WithError(err)
	}
	if count > 0 {
		return errors.ErrAreaHasSaloons
	}

	if err := s.areaRepo.Delete(ctx, id); err != nil {
		return errors.ErrDatabaseError.WithError(err)
	}
	return nil
}

// List fetches areas with pagination.
func (s *AreaService) List(ctx context.Context, offset, limit int, filters map[string]interface{}) ([]*models.Area, int64, error) {
	areas, total, err := s.areaRepo.List(ctx, offset, limit, filters)
	if err != nil {
		return nil, 0, errors.ErrDatabaseError.WithError(err)
	}
	return areas, total, nil
}

// ListActive fetches every active area for the public catalog.
func (s *AreaService) ListActive(ctx context.Context) ([]*models.Area, error) {
	areas, err := s.areaRepo.ListActive(ctx)
	if err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	return areas, nil
}
