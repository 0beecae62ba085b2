package rtp_stats_repo

import (
	"math"
	"sync"

	"github.com/gudubets/gudubet-sub002/internal/logger"
	"github.com/gudubets/gudubet-sub002/internal/metrics"
	servModel "github.com/gudubets/gudubet-sub002/internal/model"
	"github.com/gudubets/gudubet-sub002/internal/repository"
	repoModel "github.com/gudubets/gudubet-sub002/internal/repository/rtp_stats_repo/model"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	// defaultWindowSize Размер скользящего окна
	defaultWindowSize = 500
	// countSpinsToCheck Сколько спинов нужно, прежде чем проверять отклонение
	countSpinsToCheck = 100
	// periodSpinsToCheck Периодичность проверки (каждые N спинов)
	periodSpinsToCheck = 25
	// criticalRTPDeviation отклонение (п.п.), при котором игра помечается
	criticalRTPDeviation = 10.0
	// normalRTPDeviation отклонение, при котором пометка снимается
	normalRTPDeviation = 5.0
)

// StatsRepo хранит наблюдаемый RTP по играм в памяти процесса.
// Только наблюдение: на исход спинов не влияет
type StatsRepo struct {
	mtx        sync.RWMutex
	windowSize int
	games      map[string]*repoModel.GameState
}

func NewRTPStatsRepository() repository.RTPStatsRepository {
	return newStatsRepo(defaultWindowSize)
}

func newStatsRepo(windowSize int) *StatsRepo {
	return &StatsRepo{
		windowSize: windowSize,
		games:      make(map[string]*repoModel.GameState),
	}
}

// Record Обновление статистики игры после спина
func (r *StatsRepo) Record(slug string, targetRTP, bet, win decimal.Decimal) servModel.RTPSnapshot {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	state, ok := r.games[slug]
	if !ok {
		state = &repoModel.GameState{
			SpinWindow: make([]repoModel.SpinResult, 0, r.windowSize),
			WindowSize: r.windowSize,
		}
		r.games[slug] = state
	}
	state.TargetRTP = targetRTP.InexactFloat64()

	b, p := bet.InexactFloat64(), win.InexactFloat64()
	state.TotalSpins++
	state.TotalBet += b
	state.TotalPayout += p
	if state.TotalBet > 0 {
		state.CurrentRTP = state.TotalPayout / state.TotalBet * 100
	}

	// Добавляем спин в окно
	state.SpinWindow = append(state.SpinWindow, repoModel.SpinResult{Bet: b, Payout: p})
	// Поддерживаем размер окна
	if len(state.SpinWindow) > state.WindowSize {
		state.SpinWindow = state.SpinWindow[1:]
	}

	var windowBet, windowPayout float64
	for _, spin := range state.SpinWindow {
		windowBet += spin.Bet
		windowPayout += spin.Payout
	}
	if windowBet > 0 {
		state.WindowRTP = windowPayout / windowBet * 100
	} else {
		state.WindowRTP = 0
	}

	if state.TotalSpins >= countSpinsToCheck && state.TotalSpins%periodSpinsToCheck == 0 {
		r.checkDeviation(slug, state)
	}

	metrics.SetObservedRTP(slug, state.CurrentRTP, state.WindowRTP)
	return snapshot(slug, state)
}

// Snapshot Копия текущей статистики игры
func (r *StatsRepo) Snapshot(slug string) (servModel.RTPSnapshot, bool) {
	r.mtx.RLock()
	defer r.mtx.RUnlock()

	state, ok := r.games[slug]
	if !ok {
		return servModel.RTPSnapshot{GameSlug: slug, WindowSize: r.windowSize}, false
	}
	return snapshot(slug, state), true
}

// Проверка отклонения с гистерезисом: входим за criticalRTPDeviation,
// выходим ближе normalRTPDeviation
func (r *StatsRepo) checkDeviation(slug string, state *repoModel.GameState) {
	diff := math.Abs(state.WindowRTP - state.TargetRTP)

	if !state.Deviating && diff > criticalRTPDeviation {
		state.Deviating = true
		logger.Warn("observed rtp deviates from target",
			zap.String("game", slug),
			zap.Float64("windowRtp", state.WindowRTP),
			zap.Float64("targetRtp", state.TargetRTP),
			zap.Int64("totalSpins", state.TotalSpins),
		)
		return
	}
	if state.Deviating && diff < normalRTPDeviation {
		state.Deviating = false
		logger.Info("observed rtp back near target",
			zap.String("game", slug),
			zap.Float64("windowRtp", state.WindowRTP),
		)
	}
}

func snapshot(slug string, state *repoModel.GameState) servModel.RTPSnapshot {
	return servModel.RTPSnapshot{
		GameSlug:    slug,
		TargetRTP:   state.TargetRTP,
		TotalSpins:  state.TotalSpins,
		TotalBet:    state.TotalBet,
		TotalPayout: state.TotalPayout,
		CurrentRTP:  state.CurrentRTP,
		WindowRTP:   state.WindowRTP,
		WindowSize:  len(state.SpinWindow),
		Deviating:   state.Deviating,
	}
}
