package indexing

import "sync"

// DefaultHistorySize is the number of submission records retained in memory.
const DefaultHistorySize = 1000

// historyBuffer is a FIFO ring of submission records. When full, the oldest
// record is evicted on append.
type historyBuffer struct {
	mu      sync.RWMutex
	records []SubmissionRecord
	max     int
}

func newHistoryBuffer(max int) *historyBuffer {
	if max <= 0 {
		max = DefaultHistorySize
	}
	return &historyBuffer{
		records: make([]SubmissionRecord, 0, max),
		max:     max,
	}
}

// Append adds records in order, evicting the oldest entries on overflow.
func (h *historyBuffer) Append(records ...SubmissionRecord) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.records = append(h.records, records...)
	if overflow := len(h.records) - h.max; overflow > 0 {
		h.records = h.records[overflow:]
	}
}

// Recent returns up to limit records, newest first. A non-positive limit
// returns everything retained.
func (h *historyBuffer) Recent(limit int) []SubmissionRecord {
	h.mu.RLock()
	defer h.mu.RUnlock()

	n := len(h.records)
	if limit <= 0 || limit > n {
		limit = n
	}

	out := make([]SubmissionRecord, limit)
	for i := 0; i < limit; i++ {
		out[i] = h.records[n-1-i]
	}
	return out
}

// Snapshot returns all retained records, oldest first.
func (h *historyBuffer) Snapshot() []SubmissionRecord {
	h.mu.RLock()
	defer h.mu.RUnlock()

	out := make([]SubmissionRecord, len(h.records))
	copy(out, h.records)
	return out
}

// Len returns the number of retained records.
func (h *historyBuffer) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.records)
}
