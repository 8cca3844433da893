package catalog

import (
	"context"

	"gorm.io/gorm"

	"github.com/alexlitwinski/realiza-reservas-sub000/internal/common/errors"
	"github.com/alexlitwinski/realiza-reservas-sub000/internal/models"
	"github.com/alexlitwinski/realiza-reservas-sub000/internal/repository"
)

// TableService manages dining tables.
type TableService struct {
	tableRepo  *repository.TableRepository
	saloonRepo *repository.SaloonRepository
}

// NewTableService creates a table service.
func NewTableService(tableRepo *repository.TableRepository, saloonRepo *repository.SaloonRepository) *TableService {
	return &TableService{tableRepo: tableRepo, saloonRepo: saloonRepo}
}

// CreateTableRequest carries table creation fields.
type CreateTableRequest struct {
	SaloonID    int64   `json:"saloon_id" binding:"required"`
	Name        string  `json:"name" binding:"required,max=100"`
	Capacity    int     `json:"capacity" binding:"required"`
	Description *string `json:"description"`
	Sort        int     `json:"sort"`
	IsActive    *bool   `json:"is_active"`
}

// UpdateTableRequest carries table update fields.
type UpdateTableRequest struct {
	SaloonID    *int64  `json:"saloon_id"`
	Name        *string `json:"name" binding:"omitempty,max=100"`
	Capacity    *int    `json:"capacity"`
	Description *string `json:"description"`
	Sort        *int    `json:"sort"`
	IsActive    *bool   `json:"is_active"`
}

// Create creates a table inside an existing saloon.
func (s *TableService) Create(ctx context.Context, req *CreateTableRequest) (*models.DiningTable, error) {
	if req.Capacity <= 0 {
		return nil, errors.ErrInvalidCapacity
	}

	if _, err := s.saloonRepo.GetByID(ctx, req.SaloonID); err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrSaloonNotFound
		}
		return nil, errors.ErrDatabaseError.WithError(err)
	}

	table := &models.DiningTable{
		SaloonID:    req.SaloonID,
		Name:        req.Name,
		Capacity:    req.Capacity,
		Description: req.Description,
		Sort:        req.Sort,
		IsActive:    true,
	}
	if req.IsActive != nil {
		table.IsActive = *req.IsActive
	}

	if err := s.tableRepo.Create(ctx, table); err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	return table, nil
}

// Get fetches a table with its saloon and area.
func (s *TableService) Get(ctx context.Context, id int64) (*models.DiningTable, error) {
	table, err := s.tableRepo.GetByIDWithSaloon(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrTableNotFound
		}
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	return table, nil
}

// Update modifies a table.
func (s *TableService) Update(ctx context.Context, id int64, req *UpdateTableRequest) (*models.DiningTable, error) {
	table, err := s.tableRepo.GetByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrTableNotFound
		}
		return nil, errors.ErrDatabaseError.WithError(err)
	}

	if req.Capacity != nil {
		if *req.Capacity <= 0 {
			return nil, errors.ErrInvalidCapacity
		}
		table.Capacity = *req.Capacity
	}
	if req.SaloonID != nil && *req.SaloonID != table.SaloonID {
		if _, err := s.saloonRepo.GetByID(ctx, *req.SaloonID); err != nil {
			if err == gorm.ErrRecordNotFound {
				return nil, errors.ErrSaloonNotFound
			}
			return nil, errors.ErrDatabaseError.WithError(err)
		}
		table.SaloonID = *req.SaloonID
	}
	if req.Name != nil {
		table.Name = *req.Name
	}
	if req.Description != nil {
		table.Description = req.Description
	}
	if req.Sort != nil {
		table.Sort = *req.Sort
	}
	if req.IsActive != nil {
		table.IsActive = *req.IsActive
	}

	if err := s.tableRepo.Update(ctx, table); err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	return table, nil
}

// Delete removes a table together with its availability windows.
func (s *TableService) Delete(ctx context.Context, id int64) error {
	if _, err := s.tableRepo.GetByID(ctx, id); err != nil {
		if err == gorm.ErrRecordNotFound {
			return errors.ErrTableNotFound
		}
		return errors.ErrDatabaseError.WithError(err)
	}

	if err := s.tableRepo.Delete(ctx, id); err != nil {
		return errors.ErrDatabaseError.WithError(err)
	}
	return nil
}

// List fetches tables with pagination.
func (s *TableService) List(ctx context.Context, offset, limit int, filters map[string]interface{}) ([]*models.DiningTable, int64, error) {
	tables, total, err := s.tableRepo.List(ctx, offset, limit, filters)
	if err != nil {
		return nil, 0, errors.ErrDatabaseError.WithError(err)
	}
	return tables, total, nil
}
