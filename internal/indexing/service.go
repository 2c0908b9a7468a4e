// Package indexing implements the search-engine push-indexing coordinator.
// It announces site URLs to IndexNow-compatible endpoints and the Google
// Indexing API, tracks a daily submission quota, and retains a bounded
// in-memory history of outcomes.
package indexing

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/jonesrussell/gosignal/internal/httpclient"
	"github.com/jonesrussell/gosignal/internal/logger"
	"github.com/jonesrussell/gosignal/internal/metrics"
)

const (
	// DefaultMaxAttempts is the retry ceiling per endpoint per batch.
	DefaultMaxAttempts = 3

	// DefaultRetryBaseDelay is multiplied by the attempt number between retries.
	DefaultRetryBaseDelay = 1 * time.Second

	// DefaultAttemptTimeout bounds a single HTTP attempt.
	DefaultAttemptTimeout = 10 * time.Second

	// DefaultChunkSize is the number of URLs submitted per batch round.
	DefaultChunkSize = 100

	// DefaultChunkDelay separates batch rounds to avoid endpoint rate limits.
	DefaultChunkDelay = 500 * time.Millisecond

	// DefaultRequestRPS caps outbound requests to the engines per second.
	DefaultRequestRPS = 10

	// keyLength is the IndexNow credential length in hex characters.
	keyLength = 32

	googleEndpoint = "https://indexing.googleapis.com/v3/urlNotifications:publish"
)

// Endpoint is one IndexNow-compatible push-indexing host.
type Endpoint struct {
	Name string
	URL  string
}

// DefaultEndpoints returns the push-indexing hosts contacted for each batch.
func DefaultEndpoints() []Endpoint {
	return []Endpoint{
		{Name: EngineIndexNow, URL: "https://api.indexnow.org/indexnow"},
		{Name: EngineBing, URL: "https://www.bing.com/indexnow"},
		{Name: EngineYandex, URL: "https://yandex.com/indexnow"},
	}
}

// Config configures the coordinator.
type Config struct {
	// BaseURL is the public site root, e.g. "https://signals.example.com".
	// Its hostname is sent to the push endpoints.
	BaseURL string

	// Key pins the IndexNow credential. Empty means a fresh random key is
	// generated at construction; pin it so search-engine verification
	// survives restarts.
	Key string

	// GoogleToken is the bearer token for the Google Indexing API.
	// Empty disables the Google path and deletion notifications.
	GoogleToken string

	// DailyQuota is the unit ceiling per UTC day. Zero means DefaultDailyQuota.
	DailyQuota int

	// Endpoints overrides the push-indexing hosts, for tests.
	Endpoints []Endpoint

	// GoogleEndpoint overrides the Google Indexing API URL, for tests.
	GoogleEndpoint string

	MaxAttempts    int
	RetryBaseDelay time.Duration
	AttemptTimeout time.Duration
	ChunkSize      int
	ChunkDelay     time.Duration

	// RequestRPS caps outbound requests per second across all engines.
	RequestRPS int
}

func (c *Config) setDefaults() {
	if c.DailyQuota <= 0 {
		c.DailyQuota = DefaultDailyQuota
	}
	if len(c.Endpoints) == 0 {
		c.Endpoints = DefaultEndpoints()
	}
	if c.GoogleEndpoint == "" {
		c.GoogleEndpoint = googleEndpoint
	}
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = DefaultMaxAttempts
	}
	if c.RetryBaseDelay <= 0 {
		c.RetryBaseDelay = DefaultRetryBaseDelay
	}
	if c.AttemptTimeout <= 0 {
		c.AttemptTimeout = DefaultAttemptTimeout
	}
	if c.ChunkSize <= 0 {
		c.ChunkSize = DefaultChunkSize
	}
	if c.ChunkDelay <= 0 {
		c.ChunkDelay = DefaultChunkDelay
	}
	if c.RequestRPS <= 0 {
		c.RequestRPS = DefaultRequestRPS
	}
}

// Deps contains dependencies for creating a Service.
type Deps struct {
	Quota   QuotaStore // nil means a fresh in-memory store
	Metrics *metrics.Metrics
	Logger  logger.Logger
}

// Service coordinates URL submissions to the configured engines.
// Construct once and share; all methods are safe for concurrent use.
type Service struct {
	cfg     Config
	host    string
	key     string
	client  *http.Client
	limiter *rate.Limiter
	quota   QuotaStore
	history *historyBuffer
	metrics *metrics.Metrics
	logger  logger.Logger
}

// NewService creates a coordinator. The IndexNow credential is taken from
// cfg.Key or generated once here; serve it at /<key>.txt for verification.
func NewService(cfg Config, deps Deps) (*Service, error) {
	cfg.setDefaults()

	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("indexing: base URL is required")
	}
	parsed, err := url.Parse(cfg.BaseURL)
	if err != nil || parsed.Host == "" {
		return nil, fmt.Errorf("indexing: invalid base URL %q", cfg.BaseURL)
	}

	key := cfg.Key
	if key == "" {
		key, err = generateKey()
		if err != nil {
			return nil, fmt.Errorf("indexing: generate key: %w", err)
		}
	}

	quota := deps.Quota
	if quota == nil {
		quota = NewMemoryQuotaStore()
	}

	log := deps.Logger
	if log == nil {
		log = logger.NewNopLogger()
	}

	return &Service{
		cfg:  cfg,
		host: parsed.Host,
		key:  key,
		client: httpclient.New(&httpclient.Config{
			Timeout: cfg.AttemptTimeout,
		}),
		limiter: rate.NewLimiter(rate.Limit(cfg.RequestRPS), cfg.RequestRPS),
		quota:   quota,
		history: newHistoryBuffer(DefaultHistorySize),
		metrics: deps.Metrics,
		logger:  log,
	}, nil
}

func generateKey() (string, error) {
	buf := make([]byte, keyLength/2)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

// Key returns the IndexNow credential token. It is served verbatim at
// /<key>.txt so the engines can verify domain ownership.
func (s *Service) Key() string {
	return s.key
}

// KeyLocation returns the public URL of the verification file.
func (s *Service) KeyLocation() string {
	return fmt.Sprintf("%s/%s.txt", s.cfg.BaseURL, s.key)
}

// SubmitURLs announces the given URLs to every configured push endpoint and
// returns one record per (URL, engine) pair. URLs that do not fit in today's
// remaining quota are returned as quota-exceeded failures without any
// network activity; the rest are charged against the quota after all
// endpoints have been attempted, whatever the outcome.
func (s *Service) SubmitURLs(ctx context.Context, urls []string) []SubmissionRecord {
	if len(urls) == 0 {
		return nil
	}

	used, err := s.quota.Used(ctx)
	if err != nil {
		// Quota store trouble must not block submissions; assume zero used.
		s.logger.Warn("Failed to read quota, assuming zero",
			logger.Error(err),
		)
		used = 0
	}

	remaining := s.cfg.DailyQuota - used
	if remaining <= 0 {
		s.logger.Warn("Daily submission limit reached",
			logger.Int("today_count", used),
			logger.Int("url_count", len(urls)),
		)
		records := s.quotaRecords(urls)
		s.record(records)
		return records
	}

	// The batch is truncated by URL count against the remaining units, then
	// charged one unit per URL per endpoint. At the boundary this can
	// over-commit today's counter by at most one batch's worth.
	attempted := urls
	var dropped []string
	if len(urls) > remaining {
		attempted = urls[:remaining]
		dropped = urls[remaining:]
	}

	var records []SubmissionRecord
	if len(attempted) > 0 {
		records = s.fanOut(ctx, attempted)
		if _, err := s.quota.Add(ctx, len(attempted)*len(s.cfg.Endpoints)); err != nil {
			s.logger.Warn("Failed to charge quota", logger.Error(err))
		}
	}
	records = append(records, s.quotaRecords(dropped)...)

	s.record(records)
	s.updateQuotaGauge(ctx)

	return records
}

// fanOut contacts every endpoint concurrently and flattens the per-endpoint
// outcomes into per-URL records. Each endpoint keeps its own retry loop;
// completion order is not significant.
func (s *Service) fanOut(ctx context.Context, urls []string) []SubmissionRecord {
	outcomes := make([]endpointOutcome, len(s.cfg.Endpoints))

	var wg sync.WaitGroup
	for i := range s.cfg.Endpoints {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			outcomes[i] = s.submitEndpoint(ctx, s.cfg.Endpoints[i], urls)
		}(i)
	}
	wg.Wait()

	records := make([]SubmissionRecord, 0, len(urls)*len(outcomes))
	now := time.Now()
	for _, out := range outcomes {
		for _, u := range urls {
			records = append(records, SubmissionRecord{
				URL:       u,
				Success:   out.success,
				Engine:    out.engine,
				Message:   out.message,
				Kind:      out.kind,
				Timestamp: now,
			})
		}
	}
	return records
}

// endpointOutcome is the result of one endpoint's retry loop. The endpoint
// accepted or rejected the whole batch; granularity is per-endpoint.
type endpointOutcome struct {
	engine  string
	success bool
	message string
	kind    FailureKind
}

type indexNowPayload struct {
	Host        string   `json:"host"`
	Key         string   `json:"key"`
	KeyLocation string   `json:"keyLocation"`
	URLList     []string `json:"urlList"`
}

// submitEndpoint POSTs the URL batch to one endpoint with bounded retries.
// 200 and 202 are accepted; 4xx responses are not retried.
func (s *Service) submitEndpoint(ctx context.Context, ep Endpoint, urls []string) endpointOutcome {
	payload, err := json.Marshal(indexNowPayload{
		Host:        s.host,
		Key:         s.key,
		KeyLocation: s.KeyLocation(),
		URLList:     urls,
	})
	if err != nil {
		return endpointOutcome{
			engine:  ep.Name,
			message: fmt.Sprintf("encode payload: %v", err),
			kind:    FailureTransport,
		}
	}

	start := time.Now()
	defer func() {
		if s.metrics != nil {
			s.metrics.SubmissionDuration.Observe(time.Since(start).Seconds())
		}
	}()

	var lastMsg string
	var lastKind FailureKind

	for attempt := 1; attempt <= s.cfg.MaxAttempts; attempt++ {
		status, statusText, err := s.postOnce(ctx, ep.URL, payload)

		switch {
		case err != nil:
			lastMsg = fmt.Sprintf("attempt %d: %v", attempt, err)
			lastKind = FailureTransport

		case status == http.StatusOK || status == http.StatusAccepted:
			s.logger.Debug("Batch accepted",
				logger.String("engine", ep.Name),
				logger.Int("url_count", len(urls)),
				logger.Int("status_code", status),
				logger.Int("attempt", attempt),
			)
			return endpointOutcome{
				engine:  ep.Name,
				success: true,
				message: fmt.Sprintf("accepted %d URLs (HTTP %d)", len(urls), status),
			}

		default:
			lastMsg = fmt.Sprintf("attempt %d: HTTP %d %s", attempt, status, statusText)
			lastKind = FailureEndpointRejected
			if status >= 400 && status < 500 {
				// Client errors are not transient.
				s.logger.Warn("Endpoint rejected batch, not retrying",
					logger.String("engine", ep.Name),
					logger.Int("status_code", status),
				)
				return endpointOutcome{engine: ep.Name, message: lastMsg, kind: lastKind}
			}
		}

		if attempt < s.cfg.MaxAttempts {
			if waitErr := sleepCtx(ctx, time.Duration(attempt)*s.cfg.RetryBaseDelay); waitErr != nil {
				lastMsg = fmt.Sprintf("attempt %d: %v", attempt, waitErr)
				lastKind = FailureTransport
				break
			}
		}
	}

	s.logger.Warn("Endpoint submission failed",
		logger.String("engine", ep.Name),
		logger.Int("url_count", len(urls)),
		logger.String("last_error", lastMsg),
	)
	return endpointOutcome{engine: ep.Name, message: lastMsg, kind: lastKind}
}

func (s *Service) postOnce(ctx context.Context, endpointURL string, payload []byte) (int, string, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return 0, "", fmt.Errorf("rate limit wait: %w", err)
	}

	attemptCtx, cancel := context.WithTimeout(ctx, s.cfg.AttemptTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(attemptCtx, http.MethodPost, endpointURL, bytes.NewReader(payload))
	if err != nil {
		return 0, "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json; charset=utf-8")

	resp, err := s.client.Do(req)
	if err != nil {
		return 0, "", err
	}
	defer resp.Body.Close()

	// Drain so the connection can be reused.
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))

	return resp.StatusCode, http.StatusText(resp.StatusCode), nil
}

// quotaRecords builds one failed record per URL dropped for quota reasons,
// so callers can tell "never attempted" from "attempted and failed".
func (s *Service) quotaRecords(urls []string) []SubmissionRecord {
	if len(urls) == 0 {
		return nil
	}
	now := time.Now()
	records := make([]SubmissionRecord, 0, len(urls))
	for _, u := range urls {
		records = append(records, SubmissionRecord{
			URL:       u,
			Engine:    EngineIndexNow,
			Message:   fmt.Sprintf("daily limit reached (%d units/day)", s.cfg.DailyQuota),
			Kind:      FailureQuotaExceeded,
			Timestamp: now,
		})
	}
	return records
}

// record appends to history and bumps metrics.
func (s *Service) record(records []SubmissionRecord) {
	if len(records) == 0 {
		return
	}
	s.history.Append(records...)

	if s.metrics == nil {
		return
	}
	for i := range records {
		outcome := "failure"
		if records[i].Success {
			outcome = "success"
		}
		s.metrics.SubmissionsTotal.WithLabelValues(records[i].Engine, outcome).Inc()
	}
}

func (s *Service) updateQuotaGauge(ctx context.Context) {
	if s.metrics == nil {
		return
	}
	if used, err := s.quota.Used(ctx); err == nil {
		s.metrics.QuotaUsed.Set(float64(used))
	}
}

// BatchSubmit splits urls into fixed-size chunks and submits them
// sequentially with a small delay between rounds. TotalURLs always reflects
// the input count, whatever the per-record outcomes.
func (s *Service) BatchSubmit(ctx context.Context, urls []string) BatchResult {
	result := BatchResult{TotalURLs: len(urls)}

	for start := 0; start < len(urls); start += s.cfg.ChunkSize {
		if start > 0 {
			if err := sleepCtx(ctx, s.cfg.ChunkDelay); err != nil {
				s.logger.Warn("Batch submission interrupted",
					logger.Int("submitted", start),
					logger.Int("total", len(urls)),
					logger.Error(err),
				)
				break
			}
		}

		end := start + s.cfg.ChunkSize
		if end > len(urls) {
			end = len(urls)
		}
		result.Results = append(result.Results, s.SubmitURLs(ctx, urls[start:end])...)
	}

	for i := range result.Results {
		if result.Results[i].Success {
			result.Successful++
		} else {
			result.Failed++
		}
	}

	s.logger.Info("Batch submission completed",
		logger.Int("total_urls", result.TotalURLs),
		logger.Int("successful", result.Successful),
		logger.Int("failed", result.Failed),
	)
	return result
}

type googlePayload struct {
	URL  string `json:"url"`
	Type string `json:"type"`
}

// SubmitGoogle announces a single URL change to the Google Indexing API.
// It requires a configured bearer token and charges one quota unit after
// the attempt, success or not.
func (s *Service) SubmitGoogle(ctx context.Context, pageURL string, kind UpdateKind) SubmissionRecord {
	record := SubmissionRecord{
		URL:       pageURL,
		Engine:    EngineGoogle,
		Timestamp: time.Now(),
	}

	if s.cfg.GoogleToken == "" {
		record.Message = "Google indexing credentials not configured"
		record.Kind = FailureConfigurationMissing
		s.record([]SubmissionRecord{record})
		return record
	}

	payload, _ := json.Marshal(googlePayload{URL: pageURL, Type: string(kind)})

	if err := s.limiter.Wait(ctx); err != nil {
		record.Message = fmt.Sprintf("rate limit wait: %v", err)
		record.Kind = FailureTransport
		s.record([]SubmissionRecord{record})
		return record
	}

	attemptCtx, cancel := context.WithTimeout(ctx, s.cfg.AttemptTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(attemptCtx, http.MethodPost, s.cfg.GoogleEndpoint, bytes.NewReader(payload))
	if err != nil {
		record.Message = fmt.Sprintf("create request: %v", err)
		record.Kind = FailureTransport
		s.record([]SubmissionRecord{record})
		return record
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.cfg.GoogleToken)

	resp, err := s.client.Do(req)
	if err != nil {
		record.Message = err.Error()
		record.Kind = FailureTransport
	} else {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		resp.Body.Close()

		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			record.Success = true
			record.Message = fmt.Sprintf("%s accepted (HTTP %d)", kind, resp.StatusCode)
		} else {
			record.Message = fmt.Sprintf("HTTP %d: %s", resp.StatusCode, string(body))
			record.Kind = FailureEndpointRejected
		}
	}

	// Charged per call regardless of outcome, same policy as the batch path.
	if _, quotaErr := s.quota.Add(ctx, 1); quotaErr != nil {
		s.logger.Warn("Failed to charge quota", logger.Error(quotaErr))
	}

	s.record([]SubmissionRecord{record})
	s.updateQuotaGauge(ctx)
	return record
}

// NotifyDeletion announces a removed URL. IndexNow has no deletion
// semantics, so only the Google path is used; without its credential a
// failed record is returned and no network call is made.
func (s *Service) NotifyDeletion(ctx context.Context, pageURL string) SubmissionRecord {
	if s.cfg.GoogleToken == "" {
		record := SubmissionRecord{
			URL:       pageURL,
			Engine:    EngineGoogle,
			Message:   "deletion notifications are not supported by the IndexNow protocol and no Google credentials are configured",
			Kind:      FailureUnsupported,
			Timestamp: time.Now(),
		}
		s.record([]SubmissionRecord{record})
		return record
	}
	return s.SubmitGoogle(ctx, pageURL, UpdateKindDeleted)
}

// Statistics aggregates the retained history and today's quota counter.
func (s *Service) Statistics(ctx context.Context) Stats {
	used, err := s.quota.Used(ctx)
	if err != nil {
		s.logger.Warn("Failed to read quota for statistics", logger.Error(err))
	}

	remaining := s.cfg.DailyQuota - used
	if remaining < 0 {
		remaining = 0
	}

	stats := Stats{
		TodayCount:     used,
		RemainingQuota: remaining,
		Engines:        make(map[string]EngineStats),
	}

	for _, rec := range s.history.Snapshot() {
		stats.Total++
		engine := stats.Engines[rec.Engine]
		engine.Total++
		if rec.Success {
			stats.Successful++
			engine.Successful++
		} else {
			stats.Failed++
			engine.Failed++
		}
		stats.Engines[rec.Engine] = engine
	}

	return stats
}

// History returns up to limit records, newest first.
func (s *Service) History(limit int) []SubmissionRecord {
	return s.history.Recent(limit)
}

// sleepCtx waits for d or until ctx is done.
func sleepCtx(ctx context.Context, d time.Duration) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}
