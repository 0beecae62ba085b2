package engine

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// DampenRTP - регулятор долгосрочного RTP.
// Если draw > rtp/100, выигрыш урезается до floor(win * rtp/100).
// Выигрыш никогда не растёт
func DampenRTP(win, rtp decimal.Decimal, draw float64) decimal.Decimal {
	if !win.IsPositive() {
		return win
	}

	factor := rtp.Div(hundred)
	if !decimal.NewFromFloat(draw).GreaterThan(factor) {
		return win
	}

	return decimal.Min(win, win.Mul(factor).Floor())
}
