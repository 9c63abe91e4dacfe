package service

import (
	"encoding/json"
	"errors"
	"time"

	"go-weighbridge-ws/internal/cache"
	"go-weighbridge-ws/internal/model"
	"go-weighbridge-ws/internal/repository"
	"go-weighbridge-ws/internal/ws"

	"github.com/google/uuid"
)

// Staff identifies the operator behind a mutating call. Filled from the
// JWT claims by the handler layer.
type Staff struct {
	ID   string
	Name string
	Role string
}

type TripService interface {
	CreateTrip(vehicleID, driverID, poID uuid.UUID, staff Staff) (*model.Trip, error)
	Advance(tripID uuid.UUID, nextStage model.TripStage, staff Staff, remarks string) (*model.Trip, error)
	Fail(tripID uuid.UUID, staff Staff, remarks string) error
	History(tripID uuid.UUID) ([]model.StageTransaction, error)
	GetTrip(id uuid.UUID) (*model.Trip, error)
	GetTrips(status string, skip, limit int) ([]model.Trip, error)
}

type tripService struct {
	tripRepo    repository.TripRepository
	vehicleRepo repository.VehicleRepository
	driverRepo  repository.DriverRepository
	poRepo      repository.PurchaseOrderRepository
	cache       *cache.Cache
	wsHub       *ws.Hub
}

func NewTripService(
	tripRepo repository.TripRepository,
	vehicleRepo repository.VehicleRepository,
	driverRepo repository.DriverRepository,
	poRepo repository.PurchaseOrderRepository,
	c *cache.Cache,
	hub *ws.Hub,
) TripService {
	return &tripService{
		tripRepo:    tripRepo,
		vehicleRepo: vehicleRepo,
		driverRepo:  driverRepo,
		poRepo:      poRepo,
		cache:       c,
		wsHub:       hub,
	}
}

// CreateTrip opens a trip at ENTRY_GATE against an approved vehicle,
// approved driver, and Active purchase order.
func (s *tripService) CreateTrip(vehicleID, driverID, poID uuid.UUID, staff Staff) (*model.Trip, error) {
	vehicle, err := s.vehicleRepo.FindByID(vehicleID)
	if err != nil {
		if repository.IsNotFoundError(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if vehicle.ApprovalStatus != model.ApprovalApproved {
		return nil, validationErr("vehicle %s is not approved", vehicle.RegistrationNumber)
	}

	driver, err := s.driverRepo.FindByID(driverID)
	if err != nil {
		if repository.IsNotFoundError(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if driver.ApprovalStatus != model.ApprovalApproved {
		return nil, validationErr("driver %s is not approved", driver.DriverName)
	}

	po, err := s.poRepo.FindByID(poID)
	if err != nil {
		if repository.IsNotFoundError(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if po.Status != model.POActive {
		return nil, validationErr("purchase order %s is not active", po.Reference)
	}

	trip := &model.Trip{
		VehicleID:    vehicleID,
		DriverID:     driverID,
		POID:         poID,
		Status:       model.TripActive,
		CurrentStage: model.StageEntryGate,
	}
	trip.CreatedBy = staff.ID
	trip.UpdatedBy = staff.ID

	if err := s.tripRepo.Create(trip); err != nil {
		return nil, err
	}

	s.cache.Invalidate(cache.KeyActiveTrips, cache.KeyDashboardStats)
	s.broadcast("trip_created", trip, staff, "")

	return trip, nil
}

// Advance moves the trip to nextStage, which must be the immediate
// successor of the trip's current stage. Two racing callers cannot both
// succeed against the same stage: the write is guarded on the stage this
// caller observed, and the loser fails with ErrInvalidTransition.
func (s *tripService) Advance(tripID uuid.UUID, nextStage model.TripStage, staff Staff, remarks string) (*model.Trip, error) {
	if !nextStage.IsValid() {
		return nil, validationErr("unknown stage %q", nextStage)
	}

	trip, err := s.tripRepo.FindByID(tripID)
	if err != nil {
		if repository.IsNotFoundError(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if trip.IsTerminal() {
		return nil, ErrInvalidTransition
	}

	successor, ok := trip.CurrentStage.NextStage()
	if !ok || nextStage != successor {
		return nil, ErrInvalidTransition
	}

	completed := nextStage == model.StageExitGate
	stx := &model.StageTransaction{
		TripID:          tripID,
		StageName:       nextStage,
		StageStatus:     model.StageStatusCompleted,
		StaffID:         staff.ID,
		Role:            staff.Role,
		ActionTimestamp: time.Now(),
		Remarks:         remarks,
	}

	if err := s.tripRepo.AdvanceStage(tripID, trip.CurrentStage, nextStage, completed, stx); err != nil {
		if errors.Is(err, repository.ErrStageConflict) {
			return nil, ErrInvalidTransition
		}
		return nil, err
	}

	s.cache.Invalidate(cache.TripKey(tripID.String()), cache.KeyActiveTrips, cache.KeyDashboardStats)

	updated, err := s.tripRepo.FindByID(tripID)
	if err != nil {
		return nil, err
	}
	s.broadcast("trip_stage", updated, staff, remarks)

	return updated, nil
}

// Fail marks the trip FAILED. Terminal: no transition of any kind after.
func (s *tripService) Fail(tripID uuid.UUID, staff Staff, remarks string) error {
	trip, err := s.tripRepo.FindByID(tripID)
	if err != nil {
		if repository.IsNotFoundError(err) {
			return ErrNotFound
		}
		return err
	}
	if trip.IsTerminal() {
		return ErrInvalidTransition
	}

	stx := &model.StageTransaction{
		TripID:          tripID,
		StageName:       trip.CurrentStage,
		StageStatus:     model.StageStatusFailed,
		StaffID:         staff.ID,
		Role:            staff.Role,
		ActionTimestamp: time.Now(),
		Remarks:         remarks,
	}

	if err := s.tripRepo.MarkFailed(tripID, stx); err != nil {
		if errors.Is(err, repository.ErrStageConflict) {
			return ErrInvalidTransition
		}
		return err
	}

	s.cache.Invalidate(cache.TripKey(tripID.String()), cache.KeyActiveTrips, cache.KeyDashboardStats)
	s.broadcast("trip_failed", trip, staff, remarks)

	return nil
}

func (s *tripService) History(tripID uuid.UUID) ([]model.StageTransaction, error) {
	return s.tripRepo.History(tripID)
}

func (s *tripService) GetTrip(id uuid.UUID) (*model.Trip, error) {
	var cached model.Trip
	if err := s.cache.GetJSON(cache.TripKey(id.String()), &cached); err == nil {
		return &cached, nil
	}

	trip, err := s.tripRepo.FindByID(id)
	if err != nil {
		if repository.IsNotFoundError(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	s.cache.SetJSON(cache.TripKey(id.String()), trip)
	return trip, nil
}

func (s *tripService) GetTrips(status string, skip, limit int) ([]model.Trip, error) {
	return s.tripRepo.FindAll(status, skip, limit)
}

func (s *tripService) broadcast(event string, trip *model.Trip, staff Staff, remarks string) {
	if s.wsHub == nil {
		return
	}
	go func() {
		payload := map[string]interface{}{
			"type": event,
			"trip": map[string]interface{}{
				"id":            trip.ID,
				"status":        trip.Status,
				"current_stage": trip.CurrentStage,
				"vehicle_id":    trip.VehicleID,
			},
			"staff": map[string]interface{}{
				"id":   staff.ID,
				"name": staff.Name,
				"role": staff.Role,
			},
			"remarks": remarks,
		}
		msg, _ := json.Marshal(payload)
		s.wsHub.Broadcast <- msg
	}()
}
