package seo

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jonesrussell/gosignal/internal/logger"
	"github.com/jonesrussell/gosignal/internal/metrics"
	"github.com/jonesrussell/gosignal/internal/models"
)

const (
	feedItemLimit = 20

	// enumerationPageSize approximates "all published content" for the
	// sitemap, matching the resubmission page size.
	enumerationPageSize = 1000
)

// ContentLister is the subset of the content repository the SEO renderer
// reads from.
type ContentLister interface {
	ListBlogPosts(ctx context.Context, filter *models.ListFilter) ([]models.BlogPost, error)
	ListSignals(ctx context.Context, filter *models.ListFilter) ([]models.Signal, error)
	ListCategories(ctx context.Context, activeOnly bool) ([]models.Category, error)
}

// SiteInfo carries the public site identity used in feeds and meta tags.
type SiteInfo struct {
	BaseURL     string
	Name        string
	Description string
}

// Service renders and caches the site's SEO artifacts.
type Service struct {
	repo   ContentLister
	urls   *URLBuilder
	cache  Cache
	site   SiteInfo
	ttl    time.Duration
	logger logger.Logger
}

// Deps contains dependencies for creating a Service.
type Deps struct {
	RedisClient redis.UniversalClient // nil disables caching
	Metrics     *metrics.Metrics
	Logger      logger.Logger
}

// NewService creates the SEO renderer.
func NewService(site SiteInfo, repo ContentLister, ttl time.Duration, deps Deps) *Service {
	log := deps.Logger
	if log == nil {
		log = logger.NewNopLogger()
	}

	var cache Cache = nopCache{}
	if deps.RedisClient != nil {
		cache = NewRedisCache(deps.RedisClient, deps.Metrics, log)
	}

	if ttl <= 0 {
		ttl = time.Hour
	}

	return &Service{
		repo:   repo,
		urls:   NewURLBuilder(site.BaseURL),
		cache:  cache,
		site:   site,
		ttl:    ttl,
		logger: log,
	}
}

// URLs returns the canonical URL builder for this site.
func (s *Service) URLs() *URLBuilder {
	return s.urls
}

// Sitemap returns the sitemap XML, rendering and caching on a miss.
func (s *Service) Sitemap(ctx context.Context) (string, error) {
	if cached, ok := s.cache.Get(ctx, cacheKeySitemap); ok {
		return cached, nil
	}

	entries, err := s.sitemapEntries(ctx)
	if err != nil {
		return "", err
	}

	out, err := RenderSitemap(entries)
	if err != nil {
		return "", err
	}

	s.cache.Set(ctx, cacheKeySitemap, out, s.ttl)
	s.logger.Debug("Rendered sitemap",
		logger.Int("url_count", len(entries)),
	)
	return out, nil
}

func (s *Service) sitemapEntries(ctx context.Context) ([]SitemapEntry, error) {
	entries := make([]SitemapEntry, 0, len(StaticRoutes))
	for _, path := range StaticRoutes {
		entries = append(entries, SitemapEntry{
			Loc:        s.urls.Static(path),
			ChangeFreq: "daily",
			Priority:   "0.8",
		})
	}

	posts, err := s.repo.ListBlogPosts(ctx, &models.ListFilter{Limit: enumerationPageSize, PublishedOnly: true})
	if err != nil {
		return nil, fmt.Errorf("list blog posts for sitemap: %w", err)
	}
	for i := range posts {
		post := &posts[i]
		lastMod := post.UpdatedAt
		entries = append(entries, SitemapEntry{
			Loc:        s.urls.BlogPost(post),
			LastMod:    &lastMod,
			ChangeFreq: "weekly",
			Priority:   "0.6",
		})
	}

	signals, err := s.repo.ListSignals(ctx, &models.ListFilter{Limit: enumerationPageSize, PublishedOnly: true})
	if err != nil {
		return nil, fmt.Errorf("list signals for sitemap: %w", err)
	}
	for i := range signals {
		signal := &signals[i]
		lastMod := signal.UpdatedAt
		entries = append(entries, SitemapEntry{
			Loc:        s.urls.Signal(signal),
			LastMod:    &lastMod,
			ChangeFreq: "daily",
			Priority:   "0.7",
		})
	}

	categories, err := s.repo.ListCategories(ctx, true)
	if err != nil {
		return nil, fmt.Errorf("list categories for sitemap: %w", err)
	}
	for i := range categories {
		entries = append(entries, SitemapEntry{
			Loc:        s.urls.Category(&categories[i]),
			ChangeFreq: "weekly",
			Priority:   "0.5",
		})
	}

	return entries, nil
}

// RSS returns the RSS 2.0 feed of the latest published posts.
func (s *Service) RSS(ctx context.Context) (string, error) {
	return s.feed(ctx, cacheKeyRSS, func(f *feedSource) (string, error) {
		return f.ToRSS()
	})
}

// Atom returns the Atom feed of the latest published posts.
func (s *Service) Atom(ctx context.Context) (string, error) {
	return s.feed(ctx, cacheKeyAtom, func(f *feedSource) (string, error) {
		return f.ToAtom()
	})
}

func (s *Service) feed(ctx context.Context, key string, render func(*feedSource) (string, error)) (string, error) {
	if cached, ok := s.cache.Get(ctx, key); ok {
		return cached, nil
	}

	posts, err := s.repo.ListBlogPosts(ctx, &models.ListFilter{Limit: feedItemLimit, PublishedOnly: true})
	if err != nil {
		return "", fmt.Errorf("list blog posts for feed: %w", err)
	}

	src := s.buildFeed(posts)
	out, err := render(src)
	if err != nil {
		return "", err
	}

	s.cache.Set(ctx, key, out, s.ttl)
	return out, nil
}

// Invalidate drops all cached artifacts. Called unconditionally after
// every content mutation, whatever the submission outcome.
func (s *Service) Invalidate(ctx context.Context) {
	s.cache.Invalidate(ctx, cacheKeySitemap, cacheKeyRSS, cacheKeyAtom)
}
