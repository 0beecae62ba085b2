package rtp_stats_repo

import (
	"math"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
)

func TestRecordAccumulates(t *testing.T) {
	r := newStatsRepo(3)
	target := decimal.NewFromInt(95)

	r.Record("classic", target, decimal.NewFromInt(10), decimal.Zero)
	r.Record("classic", target, decimal.NewFromInt(10), decimal.NewFromInt(20))
	snap := r.Record("classic", target, decimal.NewFromInt(10), decimal.NewFromInt(10))

	if snap.TotalSpins != 3 {
		t.Fatalf("spins = %d, want 3", snap.TotalSpins)
	}
	if snap.TotalBet != 30 || snap.TotalPayout != 30 {
		t.Fatalf("bet/payout = %v/%v, want 30/30", snap.TotalBet, snap.TotalPayout)
	}
	if math.Abs(snap.CurrentRTP-100) > 1e-9 {
		t.Fatalf("current rtp = %v, want 100", snap.CurrentRTP)
	}
	if snap.TargetRTP != 95 {
		t.Fatalf("target rtp = %v, want 95", snap.TargetRTP)
	}
}

func TestWindowSlides(t *testing.T) {
	r := newStatsRepo(2)
	target := decimal.NewFromInt(95)

	r.Record("classic", target, decimal.NewFromInt(10), decimal.NewFromInt(100))
	r.Record("classic", target, decimal.NewFromInt(10), decimal.Zero)
	snap := r.Record("classic", target, decimal.NewFromInt(10), decimal.Zero)

	if snap.WindowSize != 2 {
		t.Fatalf("window size = %d, want 2", snap.WindowSize)
	}
	if snap.WindowRTP != 0 {
		t.Fatalf("window rtp = %v, want 0 after big win left the window", snap.WindowRTP)
	}
	if math.Abs(snap.CurrentRTP-100.0/30*100) > 1e-9 {
		t.Fatalf("current rtp = %v", snap.CurrentRTP)
	}
}

func TestGamesAreIndependent(t *testing.T) {
	r := newStatsRepo(10)
	r.Record("a", decimal.NewFromInt(90), decimal.NewFromInt(1), decimal.NewFromInt(5))

	if _, ok := r.Snapshot("b"); ok {
		t.Fatal("unknown game must report ok=false")
	}
	snap, ok := r.Snapshot("a")
	if !ok || snap.TotalSpins != 1 {
		t.Fatalf("snapshot a = %+v, %v", snap, ok)
	}
}

func TestDeviationFlagHysteresis(t *testing.T) {
	r := newStatsRepo(100)
	target := decimal.NewFromInt(95)
	bet := decimal.NewFromInt(1)

	// Ни одного выигрыша: RTP окна 0
	snap := r.Record("classic", target, bet, decimal.Zero)
	for i := 1; i < countSpinsToCheck; i++ {
		snap = r.Record("classic", target, bet, decimal.Zero)
	}
	if !snap.Deviating {
		t.Fatalf("expected deviation after %d losing spins", countSpinsToCheck)
	}

	// Окно из 100 спинов с выплатой 0.95 возвращает RTP к цели
	for i := 0; i < 125; i++ {
		snap = r.Record("classic", target, bet, decimal.RequireFromString("0.95"))
	}
	if snap.Deviating {
		t.Fatalf("deviation must clear, window rtp = %v", snap.WindowRTP)
	}
}

func TestConcurrentRecord(t *testing.T) {
	r := newStatsRepo(50)
	target := decimal.NewFromInt(95)

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				r.Record("classic", target, decimal.NewFromInt(1), decimal.Zero)
				r.Snapshot("classic")
			}
		}()
	}
	wg.Wait()

	snap, _ := r.Snapshot("classic")
	if snap.TotalSpins != 800 {
		t.Fatalf("spins = %d, want 800", snap.TotalSpins)
	}
}
