package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/sattutor/internal/store"
)

func TestAggregateRequests(t *testing.T) {
	ev := func(op string, ms int64, ok bool) store.RequestEventRecord {
		return store.RequestEventRecord{RequestEventData: store.RequestEventData{
			Operation: op, LatencyMs: ms, Success: ok,
		}}
	}
	stats := aggregateRequests([]store.RequestEventRecord{
		ev("generate", 100, true),
		ev("generate", 300, false),
		ev("hint", 50, true),
		ev("chat", 20, true),
	})

	require.Len(t, stats, 3)
	assert.Equal(t, "generate", stats[0].Operation)
	assert.Equal(t, 2, stats[0].Calls)
	assert.Equal(t, 1, stats[0].Failures)
	assert.Equal(t, int64(200), stats[0].avgMs())
	assert.Equal(t, "chat", stats[1].Operation, "ties sort by name")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", truncate("abcdef", 3))
	assert.Equal(t, "ab", truncate("ab", 3))
}

func TestMilestoneText(t *testing.T) {
	assert.Equal(t, "50% of the way to Bronze at 1000", milestoneText(500))
	assert.Equal(t, "all milestones achieved", milestoneText(20000))
}
