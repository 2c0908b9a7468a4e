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

const blogPostColumns = "id, title, slug, body, excerpt, category_id, author, published, published_at, created_at, updated_at"

// CreateBlogPost creates a new blog post
func (r *Repository) CreateBlogPost(ctx context.Context, req *models.BlogPostCreateRequest) (*models.BlogPost, error) {
	now := time.Now()
	post := &models.BlogPost{
		ID:         uuid.New(),
		Title:      req.Title,
		Slug:       req.Slug,
		Body:       req.Body,
		Excerpt:    req.Excerpt,
		CategoryID: req.CategoryID,
		Author:     req.Author,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if req.Published != nil {
		post.Published = *req.Published
	}
	if post.Published {
		post.PublishedAt = &now
	}

	query := `
		INSERT INTO blog_posts (` + blogPostColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING ` + blogPostColumns

	err := r.db.QueryRowxContext(
		ctx, query,
		post.ID, post.Title, post.Slug, post.Body, post.Excerpt, post.CategoryID,
		post.Author, post.Published, post.PublishedAt, post.CreatedAt, post.UpdatedAt,
	).StructScan(post)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return nil, models.ErrAlreadyExists
		}
		return nil, fmt.Errorf("failed to create blog post: %w", err)
	}

	return post, nil
}

// GetBlogPost retrieves a blog post by ID
func (r *Repository) GetBlogPost(ctx context.Context, id uuid.UUID) (*models.BlogPost, error) {
	post := &models.BlogPost{}
	query := `SELECT ` + blogPostColumns + ` FROM blog_posts WHERE id = $1`

	err := r.db.GetContext(ctx, post, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get blog post: %w", err)
	}

	return post, nil
}

// GetBlogPostBySlug retrieves a blog post by slug
func (r *Repository) GetBlogPostBySlug(ctx context.Context, slug string) (*models.BlogPost, error) {
	post := &models.BlogPost{}
	query := `SELECT ` + blogPostColumns + ` FROM blog_posts WHERE slug = $1`

	err := r.db.GetContext(ctx, post, query, slug)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get blog post by slug: %w", err)
	}

	return post, nil
}

// ListBlogPosts retrieves blog posts with pagination, newest first
func (r *Repository) ListBlogPosts(ctx context.Context, filter *models.ListFilter) ([]models.BlogPost, error) {
	clampLimit(filter)

	posts := []models.BlogPost{}
	query := `SELECT ` + blogPostColumns + ` FROM blog_posts`
	if filter.PublishedOnly {
		query += ` WHERE published = true`
	}
	query += ` ORDER BY created_at DESC LIMIT $1 OFFSET $2`

	err := r.db.SelectContext(ctx, &posts, query, filter.Limit, filter.Offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list blog posts: %w", err)
	}

	return posts, nil
}

// UpdateBlogPost updates a blog post
func (r *Repository) UpdateBlogPost(ctx context.Context, id uuid.UUID, req *models.BlogPostUpdateRequest) (*models.BlogPost, error) {
	updates := make(map[string]any)

	if req.Title != nil {
		updates["title"] = *req.Title
	}
	if req.Slug != nil {
		updates["slug"] = *req.Slug
	}
	if req.Body != nil {
		updates["body"] = *req.Body
	}
	if req.Excerpt != nil {
		updates["excerpt"] = *req.Excerpt
	}
	if req.CategoryID != nil {
		updates["category_id"] = *req.CategoryID
	}
	if req.Author != nil {
		updates["author"] = *req.Author
	}
	if req.Published != nil {
		updates["published"] = *req.Published
		if *req.Published {
			updates["published_at"] = time.Now()
		}
	}

	query, args, err := buildUpdateQuery("blog_posts", id, updates, blogPostColumns)
	if err != nil {
		return nil, err
	}

	post := &models.BlogPost{}
	err = r.db.QueryRowxContext(ctx, query, args...).StructScan(post)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return nil, models.ErrAlreadyExists
		}
		return nil, fmt.Errorf("failed to update blog post: %w", err)
	}

	return post, nil
}

// DeleteBlogPost deletes a blog post
func (r *Repository) DeleteBlogPost(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM blog_posts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete blog post: %w", err)
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
