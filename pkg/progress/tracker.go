// Package progress provides an in-memory, TTL-bounded store of per-project
// progress snapshots. Snapshots are transient; the durable source of truth
// is the project's persisted status.
package progress

import (
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"site-cloner/pkg/models"
)

// Tracker holds the latest progress snapshot per project id.
// Entries older than the TTL are evicted opportunistically on every write;
// there is no background sweeper.
type Tracker struct {
	mu      sync.Mutex
	records map[string]models.ProgressRecord
	ttl     time.Duration
	now     func() time.Time
	log     *logrus.Entry
}

// NewTracker creates a tracker with the given eviction TTL.
func NewTracker(ttl time.Duration, logger *logrus.Entry) *Tracker {
	return &Tracker{
		records: make(map[string]models.ProgressRecord),
		ttl:     ttl,
		now:     time.Now,
		log:     logger.WithField("component", "progress"),
	}
}

// Update merges the partial update into the project's snapshot and returns
// the merged record. Zero-valued fields leave the existing value unchanged;
// the timestamp is always refreshed. Stale entries across all projects are
// evicted on the same lock.
func (t *Tracker) Update(projectID string, upd models.ProgressUpdate) models.ProgressRecord {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	rec := t.records[projectID]

	if upd.Status != "" {
		rec.Status = upd.Status
	}
	if upd.Step != "" {
		rec.Step = upd.Step
	}
	if upd.Progress != 0 {
		rec.Progress = upd.Progress
	}
	if upd.Message != "" {
		rec.Message = upd.Message
	}
	if upd.Details != nil {
		rec.Details = upd.Details
	}
	rec.Timestamp = now
	t.records[projectID] = rec

	t.log.WithFields(logrus.Fields{
		"project_id": projectID,
		"status":     rec.Status,
		"progress":   rec.Progress,
	}).Debug(rec.Message)

	t.evictStaleLocked(now)
	return rec
}

// Get returns the latest snapshot for the project, if one exists.
func (t *Tracker) Get(projectID string) (models.ProgressRecord, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	rec, ok := t.records[projectID]
	return rec, ok
}

// Delete removes the snapshot for a project.
func (t *Tracker) Delete(projectID string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.records, projectID)
}

// Len reports the number of live snapshots.
func (t *Tracker) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.records)
}

func (t *Tracker) evictStaleLocked(now time.Time) {
	cutoff := now.Add(-t.ttl)
	for id, rec := range t.records {
		if rec.Timestamp.Before(cutoff) {
			delete(t.records, id)
			t.log.WithField("project_id", id).Debug("Evicted stale progress entry")
		}
	}
}
