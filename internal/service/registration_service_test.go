package service

import (
	"errors"
	"sync"
	"testing"

	"go-weighbridge-ws/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

func validRegisterRequest() *RegisterRequest {
	return &RegisterRequest{
		RegistrationNumber:     "ka01ab1234",
		VehicleType:            "Truck",
		ManufacturerTareWeight: 9500,
		DriverName:             "Ramesh Kumar",
		MobileNumber:           "9876543210",
		Aadhaar:                "123412341234",
	}
}

func testStaff() Staff {
	return Staff{ID: uuid.NewString(), Name: "Gate Operator", Role: model.RoleSecurity}
}

func TestRegisterCreatesBothLegs(t *testing.T) {
	vehicles := newFakeVehicleRepo()
	drivers := newFakeDriverRepo()
	svc := NewRegistrationService(vehicles, drivers, nil)

	result, err := svc.Register(validRegisterRequest(), testStaff())
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if result.VehicleReused {
		t.Error("fresh registration should not report a reused vehicle")
	}
	if result.Vehicle.RegistrationNumber != "KA01AB1234" {
		t.Errorf("registration number not normalized: %q", result.Vehicle.RegistrationNumber)
	}
	if result.Vehicle.ApprovalStatus != model.ApprovalPending {
		t.Errorf("new vehicle status = %s, want %s", result.Vehicle.ApprovalStatus, model.ApprovalPending)
	}
	if result.Driver.ApprovalStatus != model.ApprovalPending {
		t.Errorf("new driver status = %s, want %s", result.Driver.ApprovalStatus, model.ApprovalPending)
	}
}

func TestRegisterReusesExistingVehicle(t *testing.T) {
	vehicles := newFakeVehicleRepo()
	drivers := newFakeDriverRepo()
	svc := NewRegistrationService(vehicles, drivers, nil)
	staff := testStaff()

	first, err := svc.Register(validRegisterRequest(), staff)
	if err != nil {
		t.Fatalf("first register failed: %v", err)
	}
	if err := svc.ApproveVehicle(first.Vehicle.ID.String(), staff); err != nil {
		t.Fatalf("approve failed: %v", err)
	}

	// Resubmission with different whitespace and casing of the same plate.
	req := validRegisterRequest()
	req.RegistrationNumber = "  KA01ab1234 "
	second, err := svc.Register(req, staff)
	if err != nil {
		t.Fatalf("second register failed: %v", err)
	}
	if !second.VehicleReused {
		t.Error("resubmission should reuse the existing vehicle")
	}
	if second.Vehicle.ID != first.Vehicle.ID {
		t.Errorf("vehicle id changed across resubmission: %s vs %s", second.Vehicle.ID, first.Vehicle.ID)
	}
	if second.Vehicle.ApprovalStatus != model.ApprovalApproved {
		t.Errorf("reused vehicle should keep its approval status, got %s", second.Vehicle.ApprovalStatus)
	}
	if second.Driver.ID == first.Driver.ID {
		t.Error("each registration should create its own driver row")
	}
}

func TestRegisterRejectedVehicleRefused(t *testing.T) {
	vehicles := newFakeVehicleRepo()
	drivers := newFakeDriverRepo()
	svc := NewRegistrationService(vehicles, drivers, nil)
	staff := testStaff()

	first, err := svc.Register(validRegisterRequest(), staff)
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if err := svc.RejectVehicle(first.Vehicle.ID.String(), staff); err != nil {
		t.Fatalf("reject failed: %v", err)
	}

	_, err = svc.Register(validRegisterRequest(), staff)
	if !errors.Is(err, ErrVehicleRejected) {
		t.Fatalf("register of rejected vehicle: err = %v, want ErrVehicleRejected", err)
	}
	var legErr *LegError
	if !errors.As(err, &legErr) || legErr.Leg != LegVehicle {
		t.Errorf("error should identify the vehicle leg, got %v", err)
	}
}

func TestRegisterConcurrentSamePlate(t *testing.T) {
	vehicles := newFakeVehicleRepo()
	drivers := newFakeDriverRepo()
	svc := NewRegistrationService(vehicles, drivers, nil)

	const callers = 8
	results := make([]*RegisterResult, callers)
	errs := make([]error, callers)

	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = svc.Register(validRegisterRequest(), testStaff())
		}(i)
	}
	wg.Wait()

	var wantID uuid.UUID
	for i := 0; i < callers; i++ {
		if errs[i] != nil {
			t.Fatalf("caller %d failed: %v", i, errs[i])
		}
		if wantID == uuid.Nil {
			wantID = results[i].Vehicle.ID
		}
		if results[i].Vehicle.ID != wantID {
			t.Errorf("caller %d observed vehicle %s, want %s", i, results[i].Vehicle.ID, wantID)
		}
		if results[i].Vehicle.ApprovalStatus != model.ApprovalPending {
			t.Errorf("caller %d observed status %s, want %s", i, results[i].Vehicle.ApprovalStatus, model.ApprovalPending)
		}
	}

	rows, err := vehicles.FindAll("", 0, 100)
	if err != nil {
		t.Fatalf("find all failed: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("got %d vehicle rows, want exactly 1", len(rows))
	}
}

func TestRegisterDuplicateKeyRetriesLookupOnce(t *testing.T) {
	vehicles := newFakeVehicleRepo()
	drivers := newFakeDriverRepo()
	svc := NewRegistrationService(vehicles, drivers, nil)
	staff := testStaff()

	// A concurrent winner inserts the row between this caller's lookup and
	// create: the first lookup misses, the create hits the unique index,
	// and the retry lookup finds the winner's row.
	winner := &model.Vehicle{
		RegistrationNumber: "KA01AB1234",
		VehicleType:        "Truck",
		ApprovalStatus:     model.ApprovalPending,
	}
	if err := vehicles.Create(winner); err != nil {
		t.Fatalf("seeding winner: %v", err)
	}
	vehicles.missLookups = 1
	vehicles.createErr = gorm.ErrDuplicatedKey

	result, err := svc.Register(validRegisterRequest(), staff)
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if !result.VehicleReused {
		t.Error("loser of the create race should reuse the winner's row")
	}
	if result.Vehicle.ID != winner.ID {
		t.Errorf("vehicle id = %s, want winner's %s", result.Vehicle.ID, winner.ID)
	}
}

func TestRegisterValidation(t *testing.T) {
	svc := NewRegistrationService(newFakeVehicleRepo(), newFakeDriverRepo(), nil)
	staff := testStaff()

	cases := []struct {
		name   string
		mutate func(*RegisterRequest)
	}{
		{"blank registration", func(r *RegisterRequest) { r.RegistrationNumber = "   " }},
		{"missing vehicle type", func(r *RegisterRequest) { r.VehicleType = "" }},
		{"missing driver name", func(r *RegisterRequest) { r.DriverName = "" }},
		{"missing mobile", func(r *RegisterRequest) { r.MobileNumber = "" }},
		{"short aadhaar", func(r *RegisterRequest) { r.Aadhaar = "12341234123" }},
		{"non-numeric aadhaar", func(r *RegisterRequest) { r.Aadhaar = "12341234123x" }},
	}
	for _, tc := range cases {
		req := validRegisterRequest()
		tc.mutate(req)
		if _, err := svc.Register(req, staff); !errors.Is(err, ErrValidation) {
			t.Errorf("%s: err = %v, want ErrValidation", tc.name, err)
		}
	}
}

func TestRegisterDriverLegFailureNamed(t *testing.T) {
	vehicles := newFakeVehicleRepo()
	drivers := newFakeDriverRepo()
	drivers.createErr = errors.New("disk full")
	svc := NewRegistrationService(vehicles, drivers, nil)

	_, err := svc.Register(validRegisterRequest(), testStaff())
	var legErr *LegError
	if !errors.As(err, &legErr) {
		t.Fatalf("err = %v, want a LegError", err)
	}
	if legErr.Leg != LegDriver {
		t.Errorf("failed leg = %s, want %s", legErr.Leg, LegDriver)
	}

	// The vehicle leg already succeeded and is not rolled back.
	rows, _ := vehicles.FindAll("", 0, 100)
	if len(rows) != 1 {
		t.Errorf("got %d vehicle rows after driver failure, want 1", len(rows))
	}
}
