package calculator

import (
	"math"
	"testing"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestSMA_RunningWindow(t *testing.T) {
	closes := []float64{1, 2, 3, 4, 5}
	out, err := SMA(closes, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != len(closes) {
		t.Fatalf("expected %d values, got %d", len(closes), len(out))
	}
	if !math.IsNaN(out[0]) || !math.IsNaN(out[1]) {
		t.Error("positions before period-1 should be NaN")
	}
	want := []float64{2, 3, 4}
	for i, w := range want {
		if !almostEqual(out[i+2], w) {
			t.Errorf("sma[%d]: expected %.2f, got %.2f", i+2, w, out[i+2])
		}
	}
}

func TestSMA_ConstantSeries(t *testing.T) {
	closes := make([]float64, 30)
	for i := range closes {
		closes[i] = 42.5
	}
	out, err := SMA(closes, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := 9; i < len(out); i++ {
		if !almostEqual(out[i], 42.5) {
			t.Fatalf("sma[%d]: expected 42.5, got %v", i, out[i])
		}
	}
}

func TestSMALast(t *testing.T) {
	tests := []struct {
		name    string
		closes  []float64
		period  int
		want    float64
		wantErr bool
	}{
		{"simple", []float64{1, 2, 3, 4}, 2, 3.5, false},
		{"whole series", []float64{2, 4, 6}, 3, 4, false},
		{"too short", []float64{1, 2}, 3, 0, true},
		{"zero period", []float64{1, 2}, 0, 0, true},
	}
	for _, tt := range tests {
		got, err := SMALast(tt.closes, tt.period)
		if tt.wantErr {
			if err == nil {
				t.Errorf("%s: expected error", tt.name)
			}
			continue
		}
		if err != nil {
			t.Errorf("%s: unexpected error: %v", tt.name, err)
			continue
		}
		if !almostEqual(got, tt.want) {
			t.Errorf("%s: expected %.2f, got %.2f", tt.name, tt.want, got)
		}
	}
}

func TestRSI_InsufficientData(t *testing.T) {
	// period+1 points required
	closes := []float64{1, 2, 3, 4, 5}
	_, ok, err := RSI(closes, 14)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Error("expected ok=false for series shorter than period+1")
	}
}

func TestRSI_AlwaysWithinBounds(t *testing.T) {
	closes := []float64{
		44, 44.3, 44.1, 43.6, 44.3, 44.8, 45.1, 45.4, 45.8, 46.1,
		45.9, 46.3, 46.1, 46.6, 46.3, 46.0, 46.4, 46.2, 45.6, 46.2,
		46.2, 45.7, 46.4, 47.6, 47.7,
	}
	rsi, ok, err := RSI(closes, 14)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Fatal("expected computable RSI")
	}
	if rsi < 0 || rsi > 100 {
		t.Errorf("RSI out of bounds: %v", rsi)
	}
}

func TestRSI_SaturatesWithoutLosses(t *testing.T) {
	closes := make([]float64, 20)
	for i := range closes {
		closes[i] = 100 + float64(i)
	}
	rsi, ok, err := RSI(closes, 14)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Fatal("expected computable RSI")
	}
	if rsi != 100 {
		t.Errorf("expected saturation at 100 for all-gain series, got %v", rsi)
	}
}

func TestRSI_ConstantSeriesIsNeutral(t *testing.T) {
	// Zero deltas everywhere: relative strength is 0/0, undefined.
	closes := make([]float64, 20)
	for i := range closes {
		closes[i] = 55
	}
	_, ok, err := RSI(closes, 14)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Error("expected ok=false when gains and losses are both zero")
	}
}

func TestRSI_InvalidPeriod(t *testing.T) {
	if _, _, err := RSI([]float64{1, 2, 3}, 0); err == nil {
		t.Error("expected error for zero period")
	}
}
