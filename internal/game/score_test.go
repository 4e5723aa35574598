package game

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scythe504/tabu-backend/internal"
)

func TestReconcile(t *testing.T) {
	tests := []struct {
		name       string
		result     internal.GameResult
		wantWins   map[string]int
		wantLosses map[string]int
	}{
		{
			name:       "team A wins",
			result:     internal.GameResult{TeamAScore: 3, TeamBScore: 1, TeamA: []string{"a1", "a2"}, TeamB: []string{"b1"}},
			wantWins:   map[string]int{"a1": 1, "a2": 1},
			wantLosses: map[string]int{"b1": 1},
		},
		{
			name:       "team B wins with negative scores",
			result:     internal.GameResult{TeamAScore: -2, TeamBScore: -1, TeamA: []string{"a1"}, TeamB: []string{"b1"}},
			wantWins:   map[string]int{"b1": 1},
			wantLosses: map[string]int{"a1": 1},
		},
		{
			name:       "tie",
			result:     internal.GameResult{TeamAScore: 2, TeamBScore: 2, TeamA: []string{"a1"}, TeamB: []string{"b1"}},
			wantWins:   map[string]int{},
			wantLosses: map[string]int{},
		},
		{
			name:       "guest seats are skipped",
			result:     internal.GameResult{TeamAScore: 1, TeamA: []string{"", "a1"}, TeamB: []string{""}},
			wantWins:   map[string]int{"a1": 1},
			wantLosses: map[string]int{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newFakeStats()
			require.NoError(t, NewStatsReconciler(store).Reconcile(context.Background(), tt.result))
			assert.Equal(t, tt.wantWins, store.wins)
			assert.Equal(t, tt.wantLosses, store.losses)
		})
	}
}

func TestReconcileContinuesPastFailures(t *testing.T) {
	store := newFakeStats()
	boom := errors.New("connection reset")
	store.fail["a1"] = boom

	err := NewStatsReconciler(store).Reconcile(context.Background(), internal.GameResult{
		TeamAScore: 1,
		TeamA:      []string{"a1", "a2"},
		TeamB:      []string{"b1"},
	})

	assert.ErrorIs(t, err, boom)
	assert.Equal(t, map[string]int{"a2": 1}, store.wins)
	assert.Equal(t, map[string]int{"b1": 1}, store.losses)
}
