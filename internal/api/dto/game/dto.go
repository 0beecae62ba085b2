package game

type Game struct {
	Slug    string   `json:"slug"`
	Name    string   `json:"name"`
	Reels   int      `json:"reels"`
	Rows    int      `json:"rows"`
	Symbols []string `json:"symbols"`
	MinBet  float64  `json:"minBet"`
	MaxBet  float64  `json:"maxBet"`
	RTP     float64  `json:"rtp"`
}

type GamesResponse struct {
	Games []Game `json:"games"`
}

type RTPResponse struct {
	GameSlug    string  `json:"gameSlug"`
	TargetRTP   float64 `json:"targetRtp"`
	TotalSpins  int64   `json:"totalSpins"`
	TotalBet    float64 `json:"totalBet"`
	TotalPayout float64 `json:"totalPayout"`
	CurrentRTP  float64 `json:"currentRtp"`
	WindowRTP   float64 `json:"windowRtp"`
	WindowSize  int     `json:"windowSize"`
	Deviating   bool    `json:"deviating"`
}
