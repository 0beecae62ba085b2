package engine

import (
	"crypto/rand"
	"math/big"
)

// RandomSource - источник случайности для барабанов и RTP.
// В проде только криптостойкий, в тестах - детерминированный
type RandomSource interface {
	// Intn возвращает число в [0, n)
	Intn(n int) int
	// Float64 возвращает число в [0, 1)
	Float64() float64
}

const floatPrecision = 1 << 53

type cryptoSource struct{}

// NewCryptoSource - источник на crypto/rand
func NewCryptoSource() RandomSource {
	return cryptoSource{}
}

func (cryptoSource) Intn(n int) int {
	if n <= 0 {
		panic("engine: Intn called with non-positive n")
	}
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		panic("engine: crypto/rand failed: " + err.Error())
	}
	return int(v.Int64())
}

func (cryptoSource) Float64() float64 {
	v, err := rand.Int(rand.Reader, big.NewInt(floatPrecision))
	if err != nil {
		panic("engine: crypto/rand failed: " + err.Error())
	}
	return float64(v.Int64()) / floatPrecision
}
