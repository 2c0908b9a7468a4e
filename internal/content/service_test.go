package content_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/jonesrussell/gosignal/internal/content"
	"github.com/jonesrussell/gosignal/internal/indexing"
	"github.com/jonesrussell/gosignal/internal/logger"
	"github.com/jonesrussell/gosignal/internal/metrics"
	"github.com/jonesrussell/gosignal/internal/models"
	"github.com/jonesrussell/gosignal/internal/seo"
)

var errDatabase = errors.New("database down")

// fakeRepo is an in-memory stand-in for the database repository.
type fakeRepo struct {
	posts      map[uuid.UUID]*models.BlogPost
	signals    map[uuid.UUID]*models.Signal
	categories map[uuid.UUID]*models.Category
	failAll    bool
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		posts:      make(map[uuid.UUID]*models.BlogPost),
		signals:    make(map[uuid.UUID]*models.Signal),
		categories: make(map[uuid.UUID]*models.Category),
	}
}

func (f *fakeRepo) CreateBlogPost(_ context.Context, req *models.BlogPostCreateRequest) (*models.BlogPost, error) {
	if f.failAll {
		return nil, errDatabase
	}
	post := &models.BlogPost{ID: uuid.New(), Title: req.Title, Slug: req.Slug, CreatedAt: time.Now()}
	if req.Published != nil {
		post.Published = *req.Published
	}
	f.posts[post.ID] = post
	return post, nil
}

func (f *fakeRepo) GetBlogPost(_ context.Context, id uuid.UUID) (*models.BlogPost, error) {
	post, ok := f.posts[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	return post, nil
}

func (f *fakeRepo) GetBlogPostBySlug(_ context.Context, slug string) (*models.BlogPost, error) {
	for _, post := range f.posts {
		if post.Slug == slug {
			return post, nil
		}
	}
	return nil, models.ErrNotFound
}

func (f *fakeRepo) ListBlogPosts(_ context.Context, filter *models.ListFilter) ([]models.BlogPost, error) {
	out := []models.BlogPost{}
	for _, post := range f.posts {
		if filter.PublishedOnly && !post.Published {
			continue
		}
		out = append(out, *post)
	}
	return out, nil
}

func (f *fakeRepo) UpdateBlogPost(_ context.Context, id uuid.UUID, req *models.BlogPostUpdateRequest) (*models.BlogPost, error) {
	post, ok := f.posts[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	if req.Title != nil {
		post.Title = *req.Title
	}
	if req.Published != nil {
		post.Published = *req.Published
	}
	return post, nil
}

func (f *fakeRepo) DeleteBlogPost(_ context.Context, id uuid.UUID) error {
	if _, ok := f.posts[id]; !ok {
		return models.ErrNotFound
	}
	delete(f.posts, id)
	return nil
}

func (f *fakeRepo) CreateSignal(_ context.Context, req *models.SignalCreateRequest) (*models.Signal, error) {
	signal := &models.Signal{ID: uuid.New(), Title: req.Title, Slug: req.Slug}
	if req.Published != nil {
		signal.Published = *req.Published
	}
	f.signals[signal.ID] = signal
	return signal, nil
}

func (f *fakeRepo) GetSignal(_ context.Context, id uuid.UUID) (*models.Signal, error) {
	signal, ok := f.signals[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	return signal, nil
}

func (f *fakeRepo) GetSignalBySlug(_ context.Context, slug string) (*models.Signal, error) {
	for _, signal := range f.signals {
		if signal.Slug == slug {
			return signal, nil
		}
	}
	return nil, models.ErrNotFound
}

func (f *fakeRepo) ListSignals(_ context.Context, filter *models.ListFilter) ([]models.Signal, error) {
	out := []models.Signal{}
	for _, signal := range f.signals {
		if filter.PublishedOnly && !signal.Published {
			continue
		}
		out = append(out, *signal)
	}
	return out, nil
}

func (f *fakeRepo) UpdateSignal(_ context.Context, id uuid.UUID, req *models.SignalUpdateRequest) (*models.Signal, error) {
	signal, ok := f.signals[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	if req.Published != nil {
		signal.Published = *req.Published
	}
	return signal, nil
}

func (f *fakeRepo) DeleteSignal(_ context.Context, id uuid.UUID) error {
	if _, ok := f.signals[id]; !ok {
		return models.ErrNotFound
	}
	delete(f.signals, id)
	return nil
}

func (f *fakeRepo) CreateCategory(_ context.Context, req *models.CategoryCreateRequest) (*models.Category, error) {
	category := &models.Category{ID: uuid.New(), Name: req.Name, Slug: req.Slug, Active: true}
	if req.Active != nil {
		category.Active = *req.Active
	}
	f.categories[category.ID] = category
	return category, nil
}

func (f *fakeRepo) GetCategory(_ context.Context, id uuid.UUID) (*models.Category, error) {
	category, ok := f.categories[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	return category, nil
}

func (f *fakeRepo) GetCategoryBySlug(_ context.Context, slug string) (*models.Category, error) {
	for _, category := range f.categories {
		if category.Slug == slug {
			return category, nil
		}
	}
	return nil, models.ErrNotFound
}

func (f *fakeRepo) ListCategories(_ context.Context, activeOnly bool) ([]models.Category, error) {
	out := []models.Category{}
	for _, category := range f.categories {
		if activeOnly && !category.Active {
			continue
		}
		out = append(out, *category)
	}
	return out, nil
}

func (f *fakeRepo) UpdateCategory(_ context.Context, id uuid.UUID, req *models.CategoryUpdateRequest) (*models.Category, error) {
	category, ok := f.categories[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	if req.Active != nil {
		category.Active = *req.Active
	}
	return category, nil
}

func (f *fakeRepo) DeleteCategory(_ context.Context, id uuid.UUID) error {
	if _, ok := f.categories[id]; !ok {
		return models.ErrNotFound
	}
	delete(f.categories, id)
	return nil
}

// fakeSubmitter records every notification the service sends.
type fakeSubmitter struct {
	submitted []string
	deleted   []string
	batched   []string
}

func (f *fakeSubmitter) SubmitURLs(_ context.Context, urls []string) []indexing.SubmissionRecord {
	f.submitted = append(f.submitted, urls...)
	records := make([]indexing.SubmissionRecord, len(urls))
	for i, u := range urls {
		records[i] = indexing.SubmissionRecord{URL: u, Success: true, Engine: indexing.EngineIndexNow}
	}
	return records
}

func (f *fakeSubmitter) NotifyDeletion(_ context.Context, url string) indexing.SubmissionRecord {
	f.deleted = append(f.deleted, url)
	return indexing.SubmissionRecord{URL: url, Engine: indexing.EngineGoogle, Kind: indexing.FailureUnsupported}
}

func (f *fakeSubmitter) BatchSubmit(_ context.Context, urls []string) indexing.BatchResult {
	f.batched = append(f.batched, urls...)
	return indexing.BatchResult{TotalURLs: len(urls), Successful: len(urls)}
}

type fakeInvalidator struct {
	calls int
}

func (f *fakeInvalidator) Invalidate(context.Context) {
	f.calls++
}

func newTestService(repo *fakeRepo) (*content.Service, *fakeSubmitter, *fakeInvalidator) {
	submitter := &fakeSubmitter{}
	invalidator := &fakeInvalidator{}
	svc := content.NewService(
		repo,
		submitter,
		invalidator,
		seo.NewURLBuilder("https://signals.example.com"),
		metrics.NewWith(prometheus.NewRegistry()),
		logger.NewNopLogger(),
	)
	return svc, submitter, invalidator
}

func boolPtr(b bool) *bool { return &b }

func TestCreateBlogPost_PublishedTriggersSubmission(t *testing.T) {
	svc, submitter, invalidator := newTestService(newFakeRepo())

	post, err := svc.CreateBlogPost(context.Background(), &models.BlogPostCreateRequest{
		Title:     "Outlook",
		Slug:      "eurusd-outlook",
		Body:      "Body",
		Published: boolPtr(true),
	})
	if err != nil {
		t.Fatalf("CreateBlogPost() error = %v", err)
	}

	want := "https://signals.example.com/blog/eurusd-outlook"
	if len(submitter.submitted) != 1 || submitter.submitted[0] != want {
		t.Errorf("submitted = %v, want [%s]", submitter.submitted, want)
	}
	if invalidator.calls != 1 {
		t.Errorf("cache invalidations = %d, want 1", invalidator.calls)
	}
	if !post.Published {
		t.Error("Published = false, want true")
	}
}

func TestCreateBlogPost_DraftSkipsSubmission(t *testing.T) {
	svc, submitter, invalidator := newTestService(newFakeRepo())

	_, err := svc.CreateBlogPost(context.Background(), &models.BlogPostCreateRequest{
		Title: "Draft",
		Slug:  "draft",
		Body:  "Body",
	})
	if err != nil {
		t.Fatalf("CreateBlogPost() error = %v", err)
	}

	if len(submitter.submitted) != 0 {
		t.Errorf("submitted = %v, want none for a draft", submitter.submitted)
	}
	// Cache invalidation happens on every mutation, draft or not.
	if invalidator.calls != 1 {
		t.Errorf("cache invalidations = %d, want 1", invalidator.calls)
	}
}

func TestCreateBlogPost_RepositoryErrorSkipsHooks(t *testing.T) {
	repo := newFakeRepo()
	repo.failAll = true
	svc, submitter, invalidator := newTestService(repo)

	_, err := svc.CreateBlogPost(context.Background(), &models.BlogPostCreateRequest{
		Title: "Boom",
		Slug:  "boom",
		Body:  "Body",
	})
	if !errors.Is(err, errDatabase) {
		t.Fatalf("CreateBlogPost() error = %v, want the repository error", err)
	}

	if len(submitter.submitted) != 0 {
		t.Error("submission hook ran despite the repository error")
	}
	if invalidator.calls != 0 {
		t.Error("cache invalidated despite the repository error")
	}
}

func TestUpdateBlogPost_PublishTriggersSubmission(t *testing.T) {
	repo := newFakeRepo()
	svc, submitter, _ := newTestService(repo)
	ctx := context.Background()

	post, err := svc.CreateBlogPost(ctx, &models.BlogPostCreateRequest{
		Title: "Draft", Slug: "to-publish", Body: "Body",
	})
	if err != nil {
		t.Fatalf("CreateBlogPost() error = %v", err)
	}
	if len(submitter.submitted) != 0 {
		t.Fatal("draft creation should not submit")
	}

	if _, err := svc.UpdateBlogPost(ctx, post.ID, &models.BlogPostUpdateRequest{
		Published: boolPtr(true),
	}); err != nil {
		t.Fatalf("UpdateBlogPost() error = %v", err)
	}

	want := "https://signals.example.com/blog/to-publish"
	if len(submitter.submitted) != 1 || submitter.submitted[0] != want {
		t.Errorf("submitted = %v, want [%s]", submitter.submitted, want)
	}
}

func TestDeleteBlogPost_NotifiesDeletion(t *testing.T) {
	repo := newFakeRepo()
	svc, submitter, invalidator := newTestService(repo)
	ctx := context.Background()

	post, err := svc.CreateBlogPost(ctx, &models.BlogPostCreateRequest{
		Title: "Gone", Slug: "gone", Body: "Body", Published: boolPtr(true),
	})
	if err != nil {
		t.Fatalf("CreateBlogPost() error = %v", err)
	}

	if err := svc.DeleteBlogPost(ctx, post.ID); err != nil {
		t.Fatalf("DeleteBlogPost() error = %v", err)
	}

	want := "https://signals.example.com/blog/gone"
	if len(submitter.deleted) != 1 || submitter.deleted[0] != want {
		t.Errorf("deleted = %v, want [%s]", submitter.deleted, want)
	}
	if invalidator.calls != 2 {
		t.Errorf("cache invalidations = %d, want 2 (create and delete)", invalidator.calls)
	}
}

func TestDeleteBlogPost_NotFound(t *testing.T) {
	svc, submitter, invalidator := newTestService(newFakeRepo())

	err := svc.DeleteBlogPost(context.Background(), uuid.New())
	if !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("DeleteBlogPost() error = %v, want ErrNotFound", err)
	}
	if len(submitter.deleted) != 0 || invalidator.calls != 0 {
		t.Error("hooks ran for a missing post")
	}
}

func TestCreateSignal_PublishedTriggersSubmission(t *testing.T) {
	svc, submitter, _ := newTestService(newFakeRepo())

	_, err := svc.CreateSignal(context.Background(), &models.SignalCreateRequest{
		Title: "EURUSD Buy", Slug: "eurusd-buy", Pair: "EURUSD",
		Direction: "buy", EntryPrice: 1.085, Published: boolPtr(true),
	})
	if err != nil {
		t.Fatalf("CreateSignal() error = %v", err)
	}

	want := "https://signals.example.com/signals/eurusd-buy"
	if len(submitter.submitted) != 1 || submitter.submitted[0] != want {
		t.Errorf("submitted = %v, want [%s]", submitter.submitted, want)
	}
}

func TestResubmitAll(t *testing.T) {
	repo := newFakeRepo()
	svc, submitter, _ := newTestService(repo)
	ctx := context.Background()

	if _, err := svc.CreateBlogPost(ctx, &models.BlogPostCreateRequest{
		Title: "Published", Slug: "published-post", Body: "Body", Published: boolPtr(true),
	}); err != nil {
		t.Fatalf("CreateBlogPost() error = %v", err)
	}
	if _, err := svc.CreateBlogPost(ctx, &models.BlogPostCreateRequest{
		Title: "Draft", Slug: "draft-post", Body: "Body",
	}); err != nil {
		t.Fatalf("CreateBlogPost() error = %v", err)
	}
	if _, err := svc.CreateSignal(ctx, &models.SignalCreateRequest{
		Title: "Signal", Slug: "live-signal", Pair: "EURUSD",
		Direction: "sell", EntryPrice: 1.08, Published: boolPtr(true),
	}); err != nil {
		t.Fatalf("CreateSignal() error = %v", err)
	}
	if _, err := svc.CreateCategory(ctx, &models.CategoryCreateRequest{
		Name: "Forex", Slug: "forex",
	}); err != nil {
		t.Fatalf("CreateCategory() error = %v", err)
	}
	if _, err := svc.CreateCategory(ctx, &models.CategoryCreateRequest{
		Name: "Archived", Slug: "archived", Active: boolPtr(false),
	}); err != nil {
		t.Fatalf("CreateCategory() error = %v", err)
	}

	total, err := svc.ResubmitAll(ctx)
	if err != nil {
		t.Fatalf("ResubmitAll() error = %v", err)
	}

	// Static routes + 1 published post + 1 published signal + 1 active category.
	wantTotal := len(seo.StaticRoutes) + 3
	if total != wantTotal {
		t.Errorf("total = %d, want %d", total, wantTotal)
	}

	got := make(map[string]bool, len(submitter.batched))
	for _, u := range submitter.batched {
		got[u] = true
	}
	mustHave := []string{
		"https://signals.example.com/",
		"https://signals.example.com/blog",
		"https://signals.example.com/blog/published-post",
		"https://signals.example.com/signals/live-signal",
		"https://signals.example.com/category/forex",
	}
	for _, u := range mustHave {
		if !got[u] {
			t.Errorf("batch submission missing %s", u)
		}
	}
	mustNotHave := []string{
		"https://signals.example.com/blog/draft-post",
		"https://signals.example.com/category/archived",
	}
	for _, u := range mustNotHave {
		if got[u] {
			t.Errorf("batch submission should not include %s", u)
		}
	}
}
