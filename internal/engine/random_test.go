package engine

import "testing"

func TestCryptoSourceRanges(t *testing.T) {
	src := NewCryptoSource()
	seen := make(map[int]bool)
	for i := 0; i < 2000; i++ {
		v := src.Intn(5)
		if v < 0 || v >= 5 {
			t.Fatalf("Intn(5) = %d", v)
		}
		seen[v] = true

		f := src.Float64()
		if f < 0 || f >= 1 {
			t.Fatalf("Float64() = %v", f)
		}
	}
	// 2000 равновероятных розыгрышей из 5 покрывают все значения
	if len(seen) != 5 {
		t.Errorf("only %d distinct values drawn", len(seen))
	}
}

func TestCryptoSourcePanicsOnBadN(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic for n = 0")
		}
	}()
	NewCryptoSource().Intn(0)
}
