package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/jonesrussell/gosignal/internal/models"
)

const categoryColumns = "id, name, slug, description, active, created_at, updated_at"

// CreateCategory creates a new category
func (r *Repository) CreateCategory(ctx context.Context, req *models.CategoryCreateRequest) (*models.Category, error) {
	now := time.Now()
	category := &models.Category{
		ID:          uuid.New(),
		Name:        req.Name,
		Slug:        req.Slug,
		Description: req.Description,
		Active:      true, // Default to true
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if req.Active != nil {
		category.Active = *req.Active
	}

	query := `
		INSERT INTO categories (` + categoryColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + categoryColumns

	err := r.db.QueryRowxContext(
		ctx, query,
		category.ID, category.Name, category.Slug, category.Description,
		category.Active, category.CreatedAt, category.UpdatedAt,
	).StructScan(category)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return nil, models.ErrAlreadyExists
		}
		return nil, fmt.Errorf("failed to create category: %w", err)
	}

	return category, nil
}

// GetCategory retrieves a category by ID
func (r *Repository) GetCategory(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	category := &models.Category{}
	query := `SELECT ` + categoryColumns + ` FROM categories WHERE id = $1`

	err := r.db.GetContext(ctx, category, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get category: %w", err)
	}

	return category, nil
}

// GetCategoryBySlug retrieves a category by slug
func (r *Repository) GetCategoryBySlug(ctx context.Context, slug string) (*models.Category, error) {
	category := &models.Category{}
	query := `SELECT ` + categoryColumns + ` FROM categories WHERE slug = $1`

	err := r.db.GetContext(ctx, category, query, slug)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get category: %w", err)
	}

	return category, nil
}

// ListCategories retrieves all categories, optionally active only
func (r *Repository) ListCategories(ctx context.Context, activeOnly bool) ([]models.Category, error) {
	categories := []models.Category{}
	query := `SELECT ` + categoryColumns + ` FROM categories`
	if activeOnly {
		query += ` WHERE active = true`
	}
	query += ` ORDER BY name ASC`

	err := r.db.SelectContext(ctx, &categories, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}

	return categories, nil
}

// UpdateCategory updates a category
func (r *Repository) UpdateCategory(ctx context.Context, id uuid.UUID, req *models.CategoryUpdateRequest) (*models.Category, error) {
	updates := make(map[string]any)

	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Slug != nil {
		updates["slug"] = *req.Slug
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Active != nil {
		updates["active"] = *req.Active
	}

	query, args, err := buildUpdateQuery("categories", id, updates, categoryColumns)
	if err != nil {
		return nil, err
	}

	category := &models.Category{}
	err = r.db.QueryRowxContext(ctx, query, args...).StructScan(category)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return nil, models.ErrAlreadyExists
		}
		return nil, fmt.Errorf("failed to update category: %w", err)
	}

	return category, nil
}

// DeleteCategory deletes a category
func (r *Repository) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return models.ErrNotFound
	}

	return nil
}
