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

const signalColumns = "id, title, slug, pair, direction, entry_price, stop_loss, take_profit, analysis, published, published_at, created_at, updated_at"

// CreateSignal creates a new trade signal
func (r *Repository) CreateSignal(ctx context.Context, req *models.SignalCreateRequest) (*models.Signal, error) {
	now := time.Now()
	signal := &models.Signal{
		ID:         uuid.New(),
		Title:      req.Title,
		Slug:       req.Slug,
		Pair:       req.Pair,
		Direction:  req.Direction,
		EntryPrice: req.EntryPrice,
		StopLoss:   req.StopLoss,
		TakeProfit: req.TakeProfit,
		Analysis:   req.Analysis,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if req.Published != nil {
		signal.Published = *req.Published
	}
	if signal.Published {
		signal.PublishedAt = &now
	}

	query := `
		INSERT INTO signals (` + signalColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING ` + signalColumns

	err := r.db.QueryRowxContext(
		ctx, query,
		signal.ID, signal.Title, signal.Slug, signal.Pair, signal.Direction,
		signal.EntryPrice, signal.StopLoss, signal.TakeProfit, signal.Analysis,
		signal.Published, signal.PublishedAt, signal.CreatedAt, signal.UpdatedAt,
	).StructScan(signal)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return nil, models.ErrAlreadyExists
		}
		return nil, fmt.Errorf("failed to create signal: %w", err)
	}

	return signal, nil
}

// GetSignal retrieves a signal by ID
func (r *Repository) GetSignal(ctx context.Context, id uuid.UUID) (*models.Signal, error) {
	signal := &models.Signal{}
	query := `SELECT ` + signalColumns + ` FROM signals WHERE id = $1`

	err := r.db.GetContext(ctx, signal, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get signal: %w", err)
	}

	return signal, nil
}

// GetSignalBySlug retrieves a signal by slug
func (r *Repository) GetSignalBySlug(ctx context.Context, slug string) (*models.Signal, error) {
	signal := &models.Signal{}
	query := `SELECT ` + signalColumns + ` FROM signals WHERE slug = $1`

	err := r.db.GetContext(ctx, signal, query, slug)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get signal by slug: %w", err)
	}

	return signal, nil
}

// ListSignals retrieves signals with pagination, newest first
func (r *Repository) ListSignals(ctx context.Context, filter *models.ListFilter) ([]models.Signal, error) {
	clampLimit(filter)

	signals := []models.Signal{}
	query := `SELECT ` + signalColumns + ` FROM signals`
	if filter.PublishedOnly {
		query += ` WHERE published = true`
	}
	query += ` ORDER BY created_at DESC LIMIT $1 OFFSET $2`

	err := r.db.SelectContext(ctx, &signals, query, filter.Limit, filter.Offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list signals: %w", err)
	}

	return signals, nil
}

// UpdateSignal updates a signal
func (r *Repository) UpdateSignal(ctx context.Context, id uuid.UUID, req *models.SignalUpdateRequest) (*models.Signal, error) {
	updates := make(map[string]any)

	if req.Title != nil {
		updates["title"] = *req.Title
	}
	if req.Slug != nil {
		updates["slug"] = *req.Slug
	}
	if req.Pair != nil {
		updates["pair"] = *req.Pair
	}
	if req.Direction != nil {
		updates["direction"] = *req.Direction
	}
	if req.EntryPrice != nil {
		updates["entry_price"] = *req.EntryPrice
	}
	if req.StopLoss != nil {
		updates["stop_loss"] = *req.StopLoss
	}
	if req.TakeProfit != nil {
		updates["take_profit"] = *req.TakeProfit
	}
	if req.Analysis != nil {
		updates["analysis"] = *req.Analysis
	}
	if req.Published != nil {
		updates["published"] = *req.Published
		if *req.Published {
			updates["published_at"] = time.Now()
		}
	}

	query, args, err := buildUpdateQuery("signals", id, updates, signalColumns)
	if err != nil {
		return nil, err
	}

	signal := &models.Signal{}
	err = r.db.QueryRowxContext(ctx, query, args...).StructScan(signal)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return nil, models.ErrAlreadyExists
		}
		return nil, fmt.Errorf("failed to update signal: %w", err)
	}

	return signal, nil
}

// DeleteSignal deletes a signal
func (r *Repository) DeleteSignal(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM signals WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete signal: %w", err)
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
