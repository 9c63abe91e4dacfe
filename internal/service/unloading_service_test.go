package service

import (
	"errors"
	"math"
	"testing"

	"go-weighbridge-ws/internal/model"
)

func approxEqualF(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

type unloadingFixture struct {
	*tripFixture
	unloadings *fakeUnloadingRepo
	svc        UnloadingService
}

func newUnloadingFixture() *unloadingFixture {
	trips := newTripFixture()
	unloadings := newFakeUnloadingRepo(trips.trips)
	return &unloadingFixture{
		tripFixture: trips,
		unloadings:  unloadings,
		svc:         NewUnloadingService(unloadings, trips.trips, nil, nil),
	}
}

func (f *unloadingFixture) tripAtUnloading(t *testing.T) *model.Trip {
	t.Helper()
	trip := f.startTrip(t)
	staff := testStaff()
	for _, next := range []model.TripStage{model.StageGrossWeight, model.StageUnloading} {
		if _, err := f.tripFixture.svc.Advance(trip.ID, next, staff, ""); err != nil {
			t.Fatalf("advance to %s: %v", next, err)
		}
	}
	return trip
}

func TestVerifyUnloadingDerivesQuality(t *testing.T) {
	f := newUnloadingFixture()
	trip := f.tripAtUnloading(t)

	result, err := f.svc.Verify(trip.ID, &VerifyUnloadingRequest{
		MaterialType: "M-SAND",
		AcceptedQty:  951,
		RejectionQty: 49,
	}, testStaff())
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if result.TotalQty != 1000 {
		t.Errorf("total qty = %v, want 1000", result.TotalQty)
	}
	if !approxEqualF(result.RejectionRate, 4.9) {
		t.Errorf("rejection rate = %v, want 4.9", result.RejectionRate)
	}
	if result.Quality != model.QualityGood {
		t.Errorf("quality = %s, want %s", result.Quality, model.QualityGood)
	}

	listed, err := f.svc.ListByTrip(trip.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(listed) != 1 {
		t.Fatalf("got %d unloading rows, want 1", len(listed))
	}
	if listed[0].Quality != model.QualityGood {
		t.Errorf("listed quality = %s, want %s", listed[0].Quality, model.QualityGood)
	}
}

func TestVerifyOutsideUnloadingStage(t *testing.T) {
	f := newUnloadingFixture()
	trip := f.startTrip(t)

	req := &VerifyUnloadingRequest{MaterialType: "M-SAND", AcceptedQty: 100}
	if _, err := f.svc.Verify(trip.ID, req, testStaff()); !errors.Is(err, ErrStageMismatch) {
		t.Errorf("verify at ENTRY_GATE: err = %v, want ErrStageMismatch", err)
	}
}

func TestVerifyValidation(t *testing.T) {
	f := newUnloadingFixture()
	trip := f.tripAtUnloading(t)
	staff := testStaff()

	cases := []struct {
		name string
		req  VerifyUnloadingRequest
	}{
		{"missing material", VerifyUnloadingRequest{AcceptedQty: 100}},
		{"negative accepted", VerifyUnloadingRequest{MaterialType: "M-SAND", AcceptedQty: -1}},
		{"negative rejected", VerifyUnloadingRequest{MaterialType: "M-SAND", RejectionQty: -1}},
	}
	for _, tc := range cases {
		if _, err := f.svc.Verify(trip.ID, &tc.req, staff); !errors.Is(err, ErrValidation) {
			t.Errorf("%s: err = %v, want ErrValidation", tc.name, err)
		}
	}
}

func TestVerifyLosesRaceWithAdvance(t *testing.T) {
	f := newUnloadingFixture()
	trip := f.tripAtUnloading(t)
	staff := testStaff()

	// The trip moves on to TARE_WEIGHT before the verification lands.
	if _, err := f.tripFixture.svc.Advance(trip.ID, model.StageTareWeight, staff, ""); err != nil {
		t.Fatalf("advance: %v", err)
	}

	req := &VerifyUnloadingRequest{MaterialType: "M-SAND", AcceptedQty: 100}
	if _, err := f.svc.Verify(trip.ID, req, staff); !errors.Is(err, ErrStageMismatch) {
		t.Errorf("verify after advance: err = %v, want ErrStageMismatch", err)
	}
}
