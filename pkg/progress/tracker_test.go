package progress

import (
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"site-cloner/pkg/models"
)

func newTestTracker(t *testing.T, ttl time.Duration) *Tracker {
	t.Helper()
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return NewTracker(ttl, logrus.NewEntry(logger))
}

func TestUpdateMergesPartialFields(t *testing.T) {
	tr := newTestTracker(t, time.Hour)

	tr.Update("p1", models.ProgressUpdate{
		Status:   models.StatusAnalyzing,
		Step:     "Starting Analysis",
		Progress: 15,
		Message:  "Initializing website analysis...",
	})
	merged := tr.Update("p1", models.ProgressUpdate{Progress: 25, Step: "Analyzing Website Structure"})

	rec, ok := tr.Get("p1")
	require.True(t, ok)
	assert.Equal(t, merged, rec, "Update returns the same merged snapshot Get sees")
	assert.Equal(t, models.StatusAnalyzing, rec.Status, "status survives a partial update")
	assert.Equal(t, "Analyzing Website Structure", rec.Step)
	assert.Equal(t, 25, rec.Progress)
	assert.Equal(t, "Initializing website analysis...", rec.Message, "message survives a partial update")
}

func TestUpdateAlwaysRefreshesTimestamp(t *testing.T) {
	tr := newTestTracker(t, time.Hour)
	current := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	tr.now = func() time.Time { return current }

	tr.Update("p1", models.ProgressUpdate{Progress: 10})
	first, _ := tr.Get("p1")

	current = current.Add(5 * time.Minute)
	tr.Update("p1", models.ProgressUpdate{})
	second, _ := tr.Get("p1")

	assert.True(t, second.Timestamp.After(first.Timestamp))
	assert.Equal(t, 10, second.Progress, "empty update changes nothing but the timestamp")
}

func TestWriteEvictsStaleEntriesOfOtherProjects(t *testing.T) {
	tr := newTestTracker(t, time.Hour)
	current := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	tr.now = func() time.Time { return current }

	tr.Update("old", models.ProgressUpdate{Progress: 50})

	current = current.Add(61 * time.Minute)
	tr.Update("fresh", models.ProgressUpdate{Progress: 10})

	_, ok := tr.Get("old")
	assert.False(t, ok, "stale entry should be evicted by an unrelated write")
	_, ok = tr.Get("fresh")
	assert.True(t, ok)
	assert.Equal(t, 1, tr.Len())
}

func TestGetMissing(t *testing.T) {
	tr := newTestTracker(t, time.Hour)
	_, ok := tr.Get("nope")
	assert.False(t, ok)
}

func TestDelete(t *testing.T) {
	tr := newTestTracker(t, time.Hour)
	tr.Update("p1", models.ProgressUpdate{Progress: 5})
	tr.Delete("p1")
	_, ok := tr.Get("p1")
	assert.False(t, ok)
}
