package content

import (
	"context"

	"github.com/google/uuid"

	"github.com/jonesrussell/gosignal/internal/indexing"
	"github.com/jonesrussell/gosignal/internal/models"
)

// Repository is the persistence surface the content service depends on.
// *database.Repository satisfies it; tests substitute fakes.
type Repository interface {
	CreateBlogPost(ctx context.Context, req *models.BlogPostCreateRequest) (*models.BlogPost, error)
	GetBlogPost(ctx context.Context, id uuid.UUID) (*models.BlogPost, error)
	GetBlogPostBySlug(ctx context.Context, slug string) (*models.BlogPost, error)
	ListBlogPosts(ctx context.Context, filter *models.ListFilter) ([]models.BlogPost, error)
	UpdateBlogPost(ctx context.Context, id uuid.UUID, req *models.BlogPostUpdateRequest) (*models.BlogPost, error)
	DeleteBlogPost(ctx context.Context, id uuid.UUID) error

	CreateSignal(ctx context.Context, req *models.SignalCreateRequest) (*models.Signal, error)
	GetSignal(ctx context.Context, id uuid.UUID) (*models.Signal, error)
	GetSignalBySlug(ctx context.Context, slug string) (*models.Signal, error)
	ListSignals(ctx context.Context, filter *models.ListFilter) ([]models.Signal, error)
	UpdateSignal(ctx context.Context, id uuid.UUID, req *models.SignalUpdateRequest) (*models.Signal, error)
	DeleteSignal(ctx context.Context, id uuid.UUID) error

	CreateCategory(ctx context.Context, req *models.CategoryCreateRequest) (*models.Category, error)
	GetCategory(ctx context.Context, id uuid.UUID) (*models.Category, error)
	GetCategoryBySlug(ctx context.Context, slug string) (*models.Category, error)
	ListCategories(ctx context.Context, activeOnly bool) ([]models.Category, error)
	UpdateCategory(ctx context.Context, id uuid.UUID, req *models.CategoryUpdateRequest) (*models.Category, error)
	DeleteCategory(ctx context.Context, id uuid.UUID) error
}

// Submitter is the indexing coordinator surface the lifecycle hooks use.
// *indexing.Service satisfies it.
type Submitter interface {
	SubmitURLs(ctx context.Context, urls []string) []indexing.SubmissionRecord
	NotifyDeletion(ctx context.Context, url string) indexing.SubmissionRecord
	BatchSubmit(ctx context.Context, urls []string) indexing.BatchResult
}

// CacheInvalidator drops cached SEO artifacts after a mutation.
// *seo.Service satisfies it.
type CacheInvalidator interface {
	Invalidate(ctx context.Context)
}
