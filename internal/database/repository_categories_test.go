package database_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/jonesrussell/gosignal/internal/models"
)

func categoryRow(id uuid.UUID, slug string, active bool) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{
		"id", "name", "slug", "description", "active", "created_at", "updated_at",
	}).AddRow(id, "Name", slug, "Description", active, now, now)
}

func TestCreateCategory_DefaultsActive(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectQuery("INSERT INTO categories").
		WillReturnRows(categoryRow(uuid.New(), "forex", true))

	category, err := repo.CreateCategory(context.Background(), &models.CategoryCreateRequest{
		Name: "Forex",
		Slug: "forex",
	})
	if err != nil {
		t.Fatalf("CreateCategory() error = %v", err)
	}
	if !category.Active {
		t.Error("Active = false, want true by default")
	}
}

func TestCreateCategory_DuplicateSlug(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectQuery("INSERT INTO categories").
		WillReturnError(&pq.Error{Code: "23505"})

	_, err := repo.CreateCategory(context.Background(), &models.CategoryCreateRequest{
		Name: "Forex",
		Slug: "forex",
	})
	if !errors.Is(err, models.ErrAlreadyExists) {
		t.Errorf("CreateCategory() error = %v, want ErrAlreadyExists", err)
	}
}

func TestGetCategoryBySlug(t *testing.T) {
	repo, mock := newMockRepository(t)
	id := uuid.New()

	mock.ExpectQuery("SELECT .* FROM categories WHERE slug").
		WithArgs("forex").
		WillReturnRows(categoryRow(id, "forex", true))

	category, err := repo.GetCategoryBySlug(context.Background(), "forex")
	if err != nil {
		t.Fatalf("GetCategoryBySlug() error = %v", err)
	}
	if category.ID != id {
		t.Errorf("ID = %v, want %v", category.ID, id)
	}

	mock.ExpectQuery("SELECT .* FROM categories WHERE slug").
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	if _, err := repo.GetCategoryBySlug(context.Background(), "missing"); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("GetCategoryBySlug() error = %v, want ErrNotFound", err)
	}
}

func TestListCategories_ActiveOnly(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectQuery("SELECT .* FROM categories WHERE active = true ORDER BY name ASC").
		WillReturnRows(categoryRow(uuid.New(), "forex", true))

	categories, err := repo.ListCategories(context.Background(), true)
	if err != nil {
		t.Fatalf("ListCategories() error = %v", err)
	}
	if len(categories) != 1 {
		t.Errorf("len(categories) = %d, want 1", len(categories))
	}

	if expectErr := mock.ExpectationsWereMet(); expectErr != nil {
		t.Errorf("unfulfilled expectations: %v", expectErr)
	}
}
