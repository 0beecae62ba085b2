package engine

import (
	"strconv"

	"github.com/gudubets/gudubet-sub002/internal/model"
	"github.com/shopspring/decimal"
)

// minRun - минимальная длина серии, которая платит
const minRun = 3

// EvaluateLines считает выплату по всем строкам поля.
// Строка r - это reels[c][r] для каждого барабана c
func EvaluateLines(reels [][]string, paytable model.Paytable, bet decimal.Decimal) (decimal.Decimal, []int) {
	total := decimal.Zero
	winningLines := []int{}
	if len(reels) == 0 {
		return total, winningLines
	}

	rows := len(reels[0])
	line := make([]string, len(reels))
	for r := 0; r < rows; r++ {
		for c := range reels {
			line[c] = reels[c][r]
		}
		payout := EvaluateLine(line, paytable, bet)
		if !payout.IsZero() {
			total = total.Add(payout)
			winningLines = append(winningLines, r)
		}
	}

	return total, winningLines
}

// EvaluateLine считает выплату одной линии.
// Вайлд заменяет только первый символ линии, скаттер в начале линии не платит
func EvaluateLine(line []string, paytable model.Paytable, bet decimal.Decimal) decimal.Decimal {
	if len(line) == 0 {
		return decimal.Zero
	}

	first := line[0]
	if first == model.SymbolScatter {
		return decimal.Zero
	}

	// Серия от нулевого барабана
	run := 0
	hasWild := false
	for _, symbol := range line {
		if symbol != first && symbol != model.SymbolWild {
			break
		}
		if symbol == model.SymbolWild {
			hasWild = true
		}
		run++
	}

	if run < minRun {
		return decimal.Zero
	}

	mult, ok := paytable[first][strconv.Itoa(run)]
	if !ok {
		return decimal.Zero
	}

	payout := bet.Mul(mult)
	if hasWild {
		// Плоский множитель, один раз на линию
		if wildMult, ok := paytable[model.SymbolWild][model.WildMultiplierKey]; ok {
			payout = payout.Mul(wildMult)
		}
	}

	// Выплата линии округляется вниз до копеек
	return payout.RoundFloor(model.MoneyPlaces)
}
