package model

import (
	"testing"
	"time"
)

func TestNextStageFollowsStageOrder(t *testing.T) {
	for i, stage := range StageOrder {
		next, ok := stage.NextStage()
		if i == len(StageOrder)-1 {
			if ok {
				t.Errorf("%s is terminal but NextStage returned %s", stage, next)
			}
			continue
		}
		if !ok {
			t.Errorf("%s: NextStage returned no successor", stage)
			continue
		}
		if next != StageOrder[i+1] {
			t.Errorf("%s: NextStage = %s, want %s", stage, next, StageOrder[i+1])
		}
	}
}

func TestNextStageRejectsUnknownStage(t *testing.T) {
	if next, ok := TripStage("LOADING").NextStage(); ok {
		t.Errorf("unknown stage got successor %s", next)
	}
}

func TestStageIsValid(t *testing.T) {
	for _, stage := range StageOrder {
		if !stage.IsValid() {
			t.Errorf("%s should be valid", stage)
		}
	}
	if TripStage("ENTRY").IsValid() {
		t.Error("ENTRY should not be a valid stage")
	}
	if TripStage("").IsValid() {
		t.Error("empty stage should not be valid")
	}
}

func TestNetWeight(t *testing.T) {
	gross := 24580.0
	tare := 9820.0

	trip := Trip{GrossWeight: &gross, TareWeight: &tare}
	net, ok := trip.NetWeight()
	if !ok {
		t.Fatal("net weight should be available with both weights recorded")
	}
	if net != 14760.0 {
		t.Errorf("net weight = %v, want 14760", net)
	}
}

func TestNetWeightUnavailable(t *testing.T) {
	gross := 24580.0
	tare := 9820.0

	cases := []struct {
		name string
		trip Trip
	}{
		{"no weights", Trip{}},
		{"gross only", Trip{GrossWeight: &gross}},
		{"tare only", Trip{TareWeight: &tare}},
	}
	for _, tc := range cases {
		if net, ok := tc.trip.NetWeight(); ok {
			t.Errorf("%s: net weight should be unavailable, got %v", tc.name, net)
		}
	}
}

func TestIsTerminal(t *testing.T) {
	now := time.Now()
	cases := []struct {
		status   TripStatus
		terminal bool
	}{
		{TripActive, false},
		{TripCompleted, true},
		{TripFailed, true},
	}
	for _, tc := range cases {
		trip := Trip{Status: tc.status, CurrentStage: StageExitGate, CompletedAt: &now}
		if got := trip.IsTerminal(); got != tc.terminal {
			t.Errorf("IsTerminal for %s = %v, want %v", tc.status, got, tc.terminal)
		}
	}
}
