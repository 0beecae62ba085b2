package jobs

import (
	"context"
	"testing"
	"time"

	"github.com/gudubets/gudubet-sub002/internal/model"
	"github.com/gudubets/gudubet-sub002/internal/repository/memrepo"
	"github.com/shopspring/decimal"
)

type jobsCfg struct {
	reconcile string
	prune     string
}

func (c jobsCfg) ReconcileSchedule() string     { return c.reconcile }
func (c jobsCfg) ReconcileGrace() time.Duration { return time.Minute }
func (c jobsCfg) PruneSchedule() string         { return c.prune }

func TestReconcilerResolvesRows(t *testing.T) {
	ctx := context.Background()
	store := memrepo.New()
	now := time.Now()

	// Спин закоммичен, хотя клиент получил 503
	if err := store.Spins().Create(ctx, &model.SpinRecord{
		ID: "spin-1", UserID: "u1", IdempotencyKey: "committed", BetAmount: decimal.NewFromInt(10),
	}); err != nil {
		t.Fatalf("create spin: %v", err)
	}

	rows := []model.Reconciliation{
		{UserID: "u1", IdempotencyKey: "committed", Reason: "outcome_unknown", CreatedAt: now},
		{UserID: "u1", IdempotencyKey: "lost", Reason: "outcome_unknown", CreatedAt: now.Add(-5 * time.Minute)},
		{UserID: "u1", IdempotencyKey: "fresh", Reason: "persistence_failed", CreatedAt: now.Add(-10 * time.Second)},
	}
	for i := range rows {
		if err := store.Reconciliations().Create(ctx, &rows[i]); err != nil {
			t.Fatalf("create reconciliation: %v", err)
		}
	}

	r := NewReconciler(store.Reconciliations(), store.Spins(), 2*time.Minute)
	r.now = func() time.Time { return now }

	stats, err := r.Run(ctx)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if stats != (ReconcileStats{Committed: 1, Voided: 1, Pending: 1}) {
		t.Fatalf("stats = %+v", stats)
	}

	want := map[string]model.ReconciliationStatus{
		"committed": model.ReconciliationCommitted,
		"lost":      model.ReconciliationVoided,
		"fresh":     model.ReconciliationPending,
	}
	for _, row := range store.ReconciliationRows() {
		if row.Status != want[row.IdempotencyKey] {
			t.Fatalf("%s: status = %s, want %s", row.IdempotencyKey, row.Status, want[row.IdempotencyKey])
		}
		if row.Status != model.ReconciliationPending && row.ResolvedAt == nil {
			t.Fatalf("%s: resolved_at not set", row.IdempotencyKey)
		}
	}

	// Повторный проход трогает только оставшуюся строку
	r.now = func() time.Time { return now.Add(time.Hour) }
	stats, err = r.Run(ctx)
	if err != nil {
		t.Fatalf("second Run: %v", err)
	}
	if stats != (ReconcileStats{Voided: 1}) {
		t.Fatalf("second stats = %+v", stats)
	}
}

func TestPrunerDeletesOldEvents(t *testing.T) {
	ctx := context.Background()
	store := memrepo.New()
	now := time.Now()

	err := store.Events().WriteEvents(ctx, []model.Event{
		{Name: "spin_settled", OccurredAt: now.Add(-48 * time.Hour)},
		{Name: "spin_settled", OccurredAt: now.Add(-time.Hour)},
	})
	if err != nil {
		t.Fatalf("WriteEvents: %v", err)
	}

	p := NewPruner(store.Events(), 24*time.Hour)
	p.now = func() time.Time { return now }

	n, err := p.Run(ctx)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if n != 1 || len(store.StoredEvents()) != 1 {
		t.Fatalf("deleted = %d, left = %d", n, len(store.StoredEvents()))
	}
}

func TestSchedulerRejectsBadSchedule(t *testing.T) {
	store := memrepo.New()
	s := NewScheduler(
		jobsCfg{reconcile: "not a schedule", prune: "@daily"},
		NewReconciler(store.Reconciliations(), store.Spins(), time.Minute),
		NewPruner(store.Events(), time.Hour),
	)
	if err := s.Start(context.Background()); err == nil {
		t.Fatal("expected schedule error")
	}
}

func TestSchedulerStartStop(t *testing.T) {
	store := memrepo.New()
	s := NewScheduler(
		jobsCfg{reconcile: "@every 1m", prune: "@daily"},
		NewReconciler(store.Reconciliations(), store.Spins(), time.Minute),
		NewPruner(store.Events(), time.Hour),
	)
	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	s.Stop()
}
