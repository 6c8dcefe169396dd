package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestProjectStatusIsValid(t *testing.T) {
	tests := []struct {
		status ProjectStatus
		want   bool
	}{
		{StatusPending, true},
		{StatusAnalyzing, true},
		{StatusAnalyzed, true},
		{StatusGenerating, true},
		{StatusCompleted, true},
		{StatusFailed, true},
		{ProjectStatus(""), false},
		{ProjectStatus("RUNNING"), false},
	}

	for _, tt := range tests {
		t.Run(tt.status.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.status.IsValid())
		})
	}
}

func TestProjectStatusIsTerminal(t *testing.T) {
	assert.True(t, StatusCompleted.IsTerminal())
	assert.True(t, StatusFailed.IsTerminal())
	assert.False(t, StatusPending.IsTerminal())
	assert.False(t, StatusGenerating.IsTerminal())
}

func TestFrameworkIsValid(t *testing.T) {
	for _, fw := range AllFrameworks {
		assert.True(t, fw.IsValid(), "expected %s to be valid", fw)
	}
	assert.False(t, Framework("DJANGO").IsValid())
	assert.False(t, Framework("").IsValid())
}

func TestRecordFromStatus(t *testing.T) {
	now := time.Now()
	p := &Project{ID: "p1", Status: StatusGenerating, UpdatedAt: now}

	rec := RecordFromStatus(p)
	assert.Equal(t, StatusGenerating, rec.Status)
	assert.Equal(t, "Generating Code", rec.Step)
	assert.Equal(t, 80, rec.Progress)
	assert.Equal(t, now, rec.Timestamp)
	assert.NotEmpty(t, rec.Message)
}

func TestStatusDerivationCoversAllStates(t *testing.T) {
	for _, s := range []ProjectStatus{StatusPending, StatusAnalyzing, StatusAnalyzed, StatusGenerating, StatusCompleted, StatusFailed} {
		assert.NotEqual(t, "Unknown", StepForStatus(s))
		assert.NotEqual(t, "Processing...", MessageForStatus(s))
	}
	// Failed maps to zero progress so pollers don't show a stale bar.
	assert.Equal(t, 0, ProgressForStatus(StatusFailed))
}
