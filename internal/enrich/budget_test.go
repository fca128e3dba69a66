package enrich

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func newTestLogger() (*slog.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})), &buf
}

func TestBudgetTripsAboveThreshold(t *testing.T) {
	t.Parallel()

	logger, _ := newTestLogger()
	budget := NewBudget("objects", logger)

	for i := 0; i < TripThreshold; i++ {
		budget.RecordFailure()
		assert.False(t, budget.Tripped(), "budget must not trip at %d failures", i+1)
	}

	budget.RecordFailure()
	assert.True(t, budget.Tripped(), "budget must trip once the count exceeds the threshold")
}

func TestBudgetWarnsOnceAtTheCrossing(t *testing.T) {
	t.Parallel()

	logger, buf := newTestLogger()
	budget := NewBudget("objects", logger)

	for i := 0; i < TripThreshold+3; i++ {
		budget.RecordFailure()
	}

	warnings := strings.Count(buf.String(), "too many errors")
	assert.Equal(t, 1, warnings, "only the crossing transition logs")
}

func TestBudgetRecoversThroughSuccesses(t *testing.T) {
	t.Parallel()

	logger, _ := newTestLogger()
	budget := NewBudget("faces", logger)

	for i := 0; i < 6; i++ {
		budget.RecordFailure()
	}
	assert.True(t, budget.Tripped())

	for i := 0; i < 6; i++ {
		budget.RecordSuccess()
	}
	assert.Equal(t, 0, budget.Count())
	assert.False(t, budget.Tripped(), "a decayed budget re-admits entries")
}

func TestBudgetSuccessFloorsAtZero(t *testing.T) {
	t.Parallel()

	logger, _ := newTestLogger()
	budget := NewBudget("similarity", logger)

	budget.RecordSuccess()
	budget.RecordSuccess()
	assert.Equal(t, 0, budget.Count())
}
