package indexing

import "time"

// Engine labels used in submission records and statistics.
const (
	EngineIndexNow = "IndexNow"
	EngineBing     = "Bing"
	EngineYandex   = "Yandex"
	EngineGoogle   = "Google"
)

// FailureKind classifies why a submission attempt failed. Empty on success.
type FailureKind string

const (
	// FailureQuotaExceeded means the daily ceiling was reached before any
	// network attempt was made for this URL.
	FailureQuotaExceeded FailureKind = "quota_exceeded"

	// FailureEndpointRejected means the endpoint answered with a non-2xx
	// status after retries were exhausted.
	FailureEndpointRejected FailureKind = "endpoint_rejected"

	// FailureTransport means a network or timeout error after retries.
	FailureTransport FailureKind = "transport_failure"

	// FailureConfigurationMissing means a required credential is absent.
	FailureConfigurationMissing FailureKind = "configuration_missing"

	// FailureUnsupported means the operation has no equivalent in the
	// target protocol (e.g., deletion over IndexNow).
	FailureUnsupported FailureKind = "unsupported_operation"
)

// SubmissionRecord is one outcome of announcing one URL to one engine.
// Records are immutable once appended to the history.
type SubmissionRecord struct {
	URL       string      `json:"url"`
	Success   bool        `json:"success"`
	Engine    string      `json:"engine"`
	Message   string      `json:"message"`
	Kind      FailureKind `json:"kind,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// UpdateKind is the change type reported to the Google Indexing API.
type UpdateKind string

const (
	// UpdateKindUpdated announces a new or changed URL.
	UpdateKindUpdated UpdateKind = "URL_UPDATED"

	// UpdateKindDeleted announces a removed URL.
	UpdateKindDeleted UpdateKind = "URL_DELETED"
)

// BatchResult aggregates the records produced by a chunked batch submission.
type BatchResult struct {
	TotalURLs  int                `json:"total_urls"`
	Successful int                `json:"successful"`
	Failed     int                `json:"failed"`
	Results    []SubmissionRecord `json:"results"`
}

// EngineStats holds per-engine submission counts.
type EngineStats struct {
	Total      int `json:"total"`
	Successful int `json:"successful"`
	Failed     int `json:"failed"`
}

// Stats is the aggregate view over the in-memory history and today's quota.
type Stats struct {
	Total          int                    `json:"total"`
	Successful     int                    `json:"successful"`
	Failed         int                    `json:"failed"`
	TodayCount     int                    `json:"today_count"`
	RemainingQuota int                    `json:"remaining_quota"`
	Engines        map[string]EngineStats `json:"engines"`
}
