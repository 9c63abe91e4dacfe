package model

import (
	"math"
	"testing"
)

func approxEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestRejectionRateAndQuality(t *testing.T) {
	cases := []struct {
		name     string
		accepted float64
		rejected float64
		rate     float64
		quality  QualityBand
	}{
		{"no rejection", 1000, 0, 0, QualityExcellent},
		{"under five percent", 951, 49, 4.9, QualityGood},
		{"exactly five percent", 950, 50, 5.0, QualityFair},
		{"under fifteen percent", 861, 139, 13.9, QualityFair},
		{"exactly fifteen percent", 850, 150, 15.0, QualityPoor},
		{"heavy rejection", 500, 500, 50.0, QualityPoor},
	}
	for _, tc := range cases {
		u := MaterialUnloading{AcceptedQty: tc.accepted, RejectionQty: tc.rejected}
		if got := u.RejectionRate(); !approxEqual(got, tc.rate) {
			t.Errorf("%s: rejection rate = %v, want %v", tc.name, got, tc.rate)
		}
		if got := u.Quality(); got != tc.quality {
			t.Errorf("%s: quality = %s, want %s", tc.name, got, tc.quality)
		}
	}
}

func TestQualityForRateBoundaries(t *testing.T) {
	cases := []struct {
		rate    float64
		quality QualityBand
	}{
		{0, QualityExcellent},
		{0.1, QualityGood},
		{4.999, QualityGood},
		{5.0, QualityFair},
		{14.999, QualityFair},
		{15.0, QualityPoor},
		{100.0, QualityPoor},
	}
	for _, tc := range cases {
		if got := QualityForRate(tc.rate); got != tc.quality {
			t.Errorf("rate %v: quality = %s, want %s", tc.rate, got, tc.quality)
		}
	}
}

func TestZeroQuantityUnloading(t *testing.T) {
	u := MaterialUnloading{}
	if got := u.TotalQty(); got != 0 {
		t.Errorf("total qty = %v, want 0", got)
	}
	if got := u.RejectionRate(); got != 0 {
		t.Errorf("rejection rate = %v, want 0", got)
	}
	if got := u.Quality(); got != QualityExcellent {
		t.Errorf("quality = %s, want %s", got, QualityExcellent)
	}
}
