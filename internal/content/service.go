package content

import (
	"context"

	"github.com/google/uuid"

	"github.com/jonesrussell/gosignal/internal/logger"
	"github.com/jonesrussell/gosignal/internal/metrics"
	"github.com/jonesrussell/gosignal/internal/models"
	"github.com/jonesrussell/gosignal/internal/seo"
)

const enumerationPageSize = 1000

// Service wraps the repository with the indexing and SEO lifecycle hooks.
// Every mutation triggers a best-effort search engine notification and an
// unconditional SEO cache invalidation; persistence errors are returned to
// the caller untouched, hook failures are logged and swallowed.
type Service struct {
	repo      Repository
	submitter Submitter
	cache     CacheInvalidator
	urls      *seo.URLBuilder
	metrics   *metrics.Metrics
	logger    logger.Logger
}

func NewService(
	repo Repository,
	submitter Submitter,
	cache CacheInvalidator,
	urls *seo.URLBuilder,
	m *metrics.Metrics,
	log logger.Logger,
) *Service {
	return &Service{
		repo:      repo,
		submitter: submitter,
		cache:     cache,
		urls:      urls,
		metrics:   m,
		logger:    log,
	}
}

// Blog posts

func (s *Service) CreateBlogPost(ctx context.Context, req *models.BlogPostCreateRequest) (*models.BlogPost, error) {
	post, err := s.repo.CreateBlogPost(ctx, req)
	if err != nil {
		return nil, err
	}
	s.metrics.ContentMutations.WithLabelValues("blog_post", "create").Inc()
	if post.Published {
		s.notifyUpdate(ctx, s.urls.BlogPost(post))
	}
	s.invalidate(ctx)
	return post, nil
}

func (s *Service) GetBlogPost(ctx context.Context, id uuid.UUID) (*models.BlogPost, error) {
	return s.repo.GetBlogPost(ctx, id)
}

func (s *Service) GetBlogPostBySlug(ctx context.Context, slug string) (*models.BlogPost, error) {
	return s.repo.GetBlogPostBySlug(ctx, slug)
}

func (s *Service) ListBlogPosts(ctx context.Context, filter *models.ListFilter) ([]models.BlogPost, error) {
	return s.repo.ListBlogPosts(ctx, filter)
}

func (s *Service) UpdateBlogPost(ctx context.Context, id uuid.UUID, req *models.BlogPostUpdateRequest) (*models.BlogPost, error) {
	post, err := s.repo.UpdateBlogPost(ctx, id, req)
	if err != nil {
		return nil, err
	}
	s.metrics.ContentMutations.WithLabelValues("blog_post", "update").Inc()
	if post.Published {
		s.notifyUpdate(ctx, s.urls.BlogPost(post))
	}
	s.invalidate(ctx)
	return post, nil
}

func (s *Service) DeleteBlogPost(ctx context.Context, id uuid.UUID) error {
	post, err := s.repo.GetBlogPost(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.DeleteBlogPost(ctx, id); err != nil {
		return err
	}
	s.metrics.ContentMutations.WithLabelValues("blog_post", "delete").Inc()
	s.notifyDeletion(ctx, s.urls.BlogPost(post))
	s.invalidate(ctx)
	return nil
}

// Signals

func (s *Service) CreateSignal(ctx context.Context, req *models.SignalCreateRequest) (*models.Signal, error) {
	sig, err := s.repo.CreateSignal(ctx, req)
	if err != nil {
		return nil, err
	}
	s.metrics.ContentMutations.WithLabelValues("signal", "create").Inc()
	if sig.Published {
		s.notifyUpdate(ctx, s.urls.Signal(sig))
	}
	s.invalidate(ctx)
	return sig, nil
}

func (s *Service) GetSignal(ctx context.Context, id uuid.UUID) (*models.Signal, error) {
	return s.repo.GetSignal(ctx, id)
}

func (s *Service) GetSignalBySlug(ctx context.Context, slug string) (*models.Signal, error) {
	return s.repo.GetSignalBySlug(ctx, slug)
}

func (s *Service) ListSignals(ctx context.Context, filter *models.ListFilter) ([]models.Signal, error) {
	return s.repo.ListSignals(ctx, filter)
}

func (s *Service) UpdateSignal(ctx context.Context, id uuid.UUID, req *models.SignalUpdateRequest) (*models.Signal, error) {
	sig, err := s.repo.UpdateSignal(ctx, id, req)
	if err != nil {
		return nil, err
	}
	s.metrics.ContentMutations.WithLabelValues("signal", "update").Inc()
	if sig.Published {
		s.notifyUpdate(ctx, s.urls.Signal(sig))
	}
	s.invalidate(ctx)
	return sig, nil
}

func (s *Service) DeleteSignal(ctx context.Context, id uuid.UUID) error {
	sig, err := s.repo.GetSignal(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.DeleteSignal(ctx, id); err != nil {
		return err
	}
	s.metrics.ContentMutations.WithLabelValues("signal", "delete").Inc()
	s.notifyDeletion(ctx, s.urls.Signal(sig))
	s.invalidate(ctx)
	return nil
}

// Categories

func (s *Service) CreateCategory(ctx context.Context, req *models.CategoryCreateRequest) (*models.Category, error) {
	cat, err := s.repo.CreateCategory(ctx, req)
	if err != nil {
		return nil, err
	}
	s.metrics.ContentMutations.WithLabelValues("category", "create").Inc()
	if cat.Active {
		s.notifyUpdate(ctx, s.urls.Category(cat))
	}
	s.invalidate(ctx)
	return cat, nil
}

func (s *Service) GetCategory(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	return s.repo.GetCategory(ctx, id)
}

func (s *Service) GetCategoryBySlug(ctx context.Context, slug string) (*models.Category, error) {
	return s.repo.GetCategoryBySlug(ctx, slug)
}

func (s *Service) ListCategories(ctx context.Context, activeOnly bool) ([]models.Category, error) {
	return s.repo.ListCategories(ctx, activeOnly)
}

func (s *Service) UpdateCategory(ctx context.Context, id uuid.UUID, req *models.CategoryUpdateRequest) (*models.Category, error) {
	cat, err := s.repo.UpdateCategory(ctx, id, req)
	if err != nil {
		return nil, err
	}
	s.metrics.ContentMutations.WithLabelValues("category", "update").Inc()
	if cat.Active {
		s.notifyUpdate(ctx, s.urls.Category(cat))
	}
	s.invalidate(ctx)
	return cat, nil
}

func (s *Service) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	cat, err := s.repo.GetCategory(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.DeleteCategory(ctx, id); err != nil {
		return err
	}
	s.metrics.ContentMutations.WithLabelValues("category", "delete").Inc()
	s.notifyDeletion(ctx, s.urls.Category(cat))
	s.invalidate(ctx)
	return nil
}

// ResubmitAll enumerates every published post, published signal, active
// category and static route, then hands the full URL set to the batch
// submitter. Used by the admin resubmit endpoint and the cron schedule.
func (s *Service) ResubmitAll(ctx context.Context) (int, error) {
	urls, err := s.collectAllURLs(ctx)
	if err != nil {
		return 0, err
	}
	result := s.submitter.BatchSubmit(ctx, urls)
	s.logger.Info("full resubmission finished",
		logger.Int("total", result.TotalURLs),
		logger.Int("successful", result.Successful),
		logger.Int("failed", result.Failed),
	)
	return result.TotalURLs, nil
}

func (s *Service) collectAllURLs(ctx context.Context) ([]string, error) {
	urls := make([]string, 0, len(seo.StaticRoutes))
	for _, route := range seo.StaticRoutes {
		urls = append(urls, s.urls.Static(route))
	}

	for offset := 0; ; offset += enumerationPageSize {
		page, err := s.repo.ListBlogPosts(ctx, &models.ListFilter{
			Limit:         enumerationPageSize,
			Offset:        offset,
			PublishedOnly: true,
		})
		if err != nil {
			return nil, err
		}
		for i := range page {
			urls = append(urls, s.urls.BlogPost(&page[i]))
		}
		if len(page) < enumerationPageSize {
			break
		}
	}

	for offset := 0; ; offset += enumerationPageSize {
		page, err := s.repo.ListSignals(ctx, &models.ListFilter{
			Limit:         enumerationPageSize,
			Offset:        offset,
			PublishedOnly: true,
		})
		if err != nil {
			return nil, err
		}
		for i := range page {
			urls = append(urls, s.urls.Signal(&page[i]))
		}
		if len(page) < enumerationPageSize {
			break
		}
	}

	categories, err := s.repo.ListCategories(ctx, true)
	if err != nil {
		return nil, err
	}
	for i := range categories {
		urls = append(urls, s.urls.Category(&categories[i]))
	}

	return urls, nil
}

// notifyUpdate pushes a single URL to the search engines. Failures are
// already captured in the submission history, so we only log here.
func (s *Service) notifyUpdate(ctx context.Context, url string) {
	records := s.submitter.SubmitURLs(ctx, []string{url})
	for _, rec := range records {
		if !rec.Success {
			s.logger.Warn("search engine notification failed",
				logger.String("url", rec.URL),
				logger.String("engine", string(rec.Engine)),
				logger.String("reason", rec.Message),
			)
		}
	}
}

func (s *Service) notifyDeletion(ctx context.Context, url string) {
	rec := s.submitter.NotifyDeletion(ctx, url)
	if !rec.Success {
		s.logger.Warn("deletion notification failed",
			logger.String("url", rec.URL),
			logger.String("engine", string(rec.Engine)),
			logger.String("reason", rec.Message),
		)
	}
}

func (s *Service) invalidate(ctx context.Context) {
	s.cache.Invalidate(ctx)
}
