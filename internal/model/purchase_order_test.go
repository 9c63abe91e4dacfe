package model

import "testing"

func TestMaterialProgressUnclamped(t *testing.T) {
	cases := []struct {
		name     string
		needed   float64
		received float64
		progress float64
	}{
		{"untouched", 100, 0, 0},
		{"partial", 100, 40, 40},
		{"complete", 100, 100, 100},
		{"over-receipt", 100, 120, 120},
	}
	for _, tc := range cases {
		line := POMaterial{NeededQty: tc.needed, ReceivedQty: tc.received}
		if got := line.Progress(); !approxEqual(got, tc.progress) {
			t.Errorf("%s: progress = %v, want %v", tc.name, got, tc.progress)
		}
	}
}

func TestMaterialProgressZeroNeeded(t *testing.T) {
	line := POMaterial{NeededQty: 0, ReceivedQty: 50}
	if got := line.Progress(); got != 0 {
		t.Errorf("progress with zero needed qty = %v, want 0", got)
	}
}
