package model

// GameState - накопленная статистика одной игры
type GameState struct {
	TotalSpins  int64   // Сколько всего спинов сделано
	TotalBet    float64 // Сумма всех ставок
	TotalPayout float64 // Сумма всех выплат

	CurrentRTP float64 // Текущий RTP = (TotalPayout/TotalBet)*100
	TargetRTP  float64 // Настроенный RTP игры

	Deviating bool // RTP окна ушёл от целевого дальше критического порога

	SpinWindow []SpinResult // Окно последних спинов для анализа
	WindowRTP  float64      // RTP в окне последних спинов
	WindowSize int          // Размер окна
}

// Результат спина для окна
type SpinResult struct {
	Bet    float64
	Payout float64
}
