package logic

import (
	"math"
	"testing"
)

func TestLipoCapacityPercentKnownValues(t *testing.T) {
	tests := []struct {
		voltage float64
		want    int
	}{
		{3.0, 0},
		{3.5, 0},
		{3.6, 2},
		{3.7, 13},
		{4.0, 79},
		{4.2, 100},
		{4.3, 100},
		{5.0, 100},
	}
	for _, tt := range tests {
		if got := LipoCapacityPercent(tt.voltage); got != tt.want {
			t.Errorf("LipoCapacityPercent(%.2f): got %d, want %d", tt.voltage, got, tt.want)
		}
	}
}

func TestLipoCapacityPercentMonotonicAndBounded(t *testing.T) {
	prev := -1
	for mv := 2500; mv <= 4500; mv++ {
		v := float64(mv) / 1000
		got := LipoCapacityPercent(v)
		if got < 0 || got > 100 {
			t.Fatalf("LipoCapacityPercent(%.3f) = %d out of range", v, got)
		}
		if got < prev {
			t.Fatalf("not monotonic at %.3f: %d < %d", v, got, prev)
		}
		prev = got
	}
}

func TestLipoCapacityPercentSaturatesBadInput(t *testing.T) {
	for _, v := range []float64{math.NaN(), -1, 0, math.Inf(-1)} {
		if got := LipoCapacityPercent(v); got != 0 {
			t.Errorf("LipoCapacityPercent(%v): got %d, want 0", v, got)
		}
	}
	if got := LipoCapacityPercent(math.Inf(1)); got != 100 {
		t.Errorf("LipoCapacityPercent(+Inf): got %d, want 100", got)
	}
}

func TestChargeBandFor(t *testing.T) {
	tests := []struct {
		percent int
		want    ChargeBand
	}{
		{0, BandAlert},
		{19, BandAlert},
		{20, BandWarning},
		{49, BandWarning},
		{50, BandNormal},
		{100, BandNormal},
	}
	for _, tt := range tests {
		if got := ChargeBandFor(tt.percent); got != tt.want {
			t.Errorf("ChargeBandFor(%d): got %s, want %s", tt.percent, got, tt.want)
		}
	}
}

func TestBatteryReadingPercent(t *testing.T) {
	r := BatteryReading{Voltage: 4.0, Charging: true}
	if r.Percent() != 79 {
		t.Errorf("expected 79, got %d", r.Percent())
	}
}
