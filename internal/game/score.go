package game

import (
	"context"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/scythe504/tabu-backend/internal"
)

const (
	statsTimeout     = 10 * time.Second
	statsConcurrency = 4
)

// StatsStore persists per-account win/loss counters.
type StatsStore interface {
	IncrementWins(ctx context.Context, userID string) error
	IncrementLosses(ctx context.Context, userID string) error
}

// StatsReconciler records the outcome of a finished game against the
// accounts that played it.
type StatsReconciler struct {
	store   StatsStore
	timeout time.Duration
	limit   int
}

func NewStatsReconciler(store StatsStore) *StatsReconciler {
	return &StatsReconciler{
		store:   store,
		timeout: statsTimeout,
		limit:   statsConcurrency,
	}
}

// Reconcile adds one win to every account on the higher-scoring team and one
// loss to every account on the other. A tie changes nothing. One failed
// update never stops the others; the first failure is returned.
func (sr *StatsReconciler) Reconcile(ctx context.Context, result internal.GameResult) error {
	if result.Tied() {
		log.WithField("room", result.RoomID).Infof("[Reconcile] tie at %d, no stats recorded", result.TeamAScore)
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, sr.timeout)
	defer cancel()

	winners, losers := result.Winners()
	var g errgroup.Group
	g.SetLimit(sr.limit)
	for _, id := range winners {
		g.Go(func() error { return sr.apply(ctx, result.RoomID, id, "win", sr.store.IncrementWins) })
	}
	for _, id := range losers {
		g.Go(func() error { return sr.apply(ctx, result.RoomID, id, "loss", sr.store.IncrementLosses) })
	}
	return g.Wait()
}

func (sr *StatsReconciler) apply(ctx context.Context, roomID, userID, kind string, inc func(context.Context, string) error) error {
	entry := log.WithFields(log.Fields{"room": roomID, "user": userID})
	if userID == "" {
		entry.Debugf("[Reconcile] seat without account, skipping %s", kind)
		return nil
	}
	if err := inc(ctx, userID); err != nil {
		entry.WithError(err).Warnf("[Reconcile] failed to record %s", kind)
		return fmt.Errorf("record %s for %s: %w", kind, userID, err)
	}
	entry.Debugf("[Reconcile] recorded %s", kind)
	return nil
}

// reconcile hands the result to the stats store in the background; the room
// has already moved on by the time the store answers.
func (m *Manager) reconcile(result internal.GameResult) {
	if m.stats == nil {
		return
	}

	m.pending.Add(1)
	go func() {
		defer m.pending.Done()
		if err := m.stats.Reconcile(context.Background(), result); err != nil {
			log.WithField("room", result.RoomID).WithError(err).Error("[reconcile] stats update incomplete")
		}
	}()
}
