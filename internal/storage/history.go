package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/worklab/newsdigest/internal/dates"
	"github.com/worklab/newsdigest/internal/logger"
)

// Record is one delivered article as persisted. SentAt is kept as text so a
// malformed value survives loading and is dropped by Prune.
type Record struct {
	URL       string `json:"url"`
	TitleNorm string `json:"title_norm"`
	SentAt    string `json:"sent_at"`
}

// NewRecord builds the record for an article delivered at sentAt.
func NewRecord(url, titleNorm string, sentAt time.Time) Record {
	return Record{URL: url, TitleNorm: titleNorm, SentAt: dates.Format(sentAt)}
}

// Backend persists full history snapshots. Load returns no records and no
// error when nothing was saved yet.
type Backend interface {
	Load(ctx context.Context) ([]Record, error)
	Save(ctx context.Context, records []Record) error
}

// History is the delivery history for one run: loaded once, pruned,
// consulted, appended to after delivery and saved once.
type History struct {
	backend   Backend
	retention time.Duration

	records   []Record
	links     map[string]struct{}
	titleKeys map[string]struct{}
}

// NewHistory returns an empty history bound to backend.
func NewHistory(backend Backend, retention time.Duration) *History {
	h := &History{backend: backend, retention: retention}
	h.reindex()
	return h
}

// Load replaces the in-memory records with the persisted snapshot. Any
// failure leaves the history empty; a lost history only means duplicates
// may be delivered again, so it never stops a run.
func (h *History) Load(ctx context.Context) {
	records, err := h.backend.Load(ctx)
	if err != nil {
		logger.Warn("history unreadable, starting empty", "error", err)
		records = nil
	}
	h.records = records
	h.reindex()
	logger.Debug("history loaded", "records", len(h.records))
}

// Prune drops records delivered before now minus the retention window and
// records whose timestamp does not parse. It returns how many were dropped.
func (h *History) Prune(now time.Time) int {
	cutoff := now.Add(-h.retention)
	kept := h.records[:0]
	for _, r := range h.records {
		sentAt, err := dates.Parse(r.SentAt)
		if err != nil {
			logger.Debug("dropping history record with bad timestamp", "url", r.URL, "sent_at", r.SentAt)
			continue
		}
		if sentAt.Before(cutoff) {
			continue
		}
		kept = append(kept, r)
	}

	dropped := len(h.records) - len(kept)
	h.records = kept
	h.reindex()
	return dropped
}

func (h *History) ContainsLink(link string) bool {
	_, ok := h.links[link]
	return ok
}

func (h *History) ContainsTitleKey(key string) bool {
	_, ok := h.titleKeys[key]
	return ok
}

// Append adds records in the given order.
func (h *History) Append(records ...Record) {
	for _, r := range records {
		h.records = append(h.records, r)
		h.index(r)
	}
}

// Save writes the full current snapshot to the backend.
func (h *History) Save(ctx context.Context) error {
	if err := h.backend.Save(ctx, h.records); err != nil {
		return fmt.Errorf("save history: %w", err)
	}
	return nil
}

func (h *History) Len() int {
	return len(h.records)
}

// Records returns a copy of the current records.
func (h *History) Records() []Record {
	out := make([]Record, len(h.records))
	copy(out, h.records)
	return out
}

// LastDelivery returns the newest parseable SentAt, if any.
func (h *History) LastDelivery() (time.Time, bool) {
	var last time.Time
	found := false
	for _, r := range h.records {
		t, err := dates.Parse(r.SentAt)
		if err != nil {
			continue
		}
		if !found || t.After(last) {
			last, found = t, true
		}
	}
	return last, found
}

func (h *History) reindex() {
	h.links = make(map[string]struct{}, len(h.records))
	h.titleKeys = make(map[string]struct{}, len(h.records))
	for _, r := range h.records {
		h.index(r)
	}
}

// index skips empty keys so a blank field never matches anything.
func (h *History) index(r Record) {
	if r.URL != "" {
		h.links[r.URL] = struct{}{}
	}
	if r.TitleNorm != "" {
		h.titleKeys[r.TitleNorm] = struct{}{}
	}
}
