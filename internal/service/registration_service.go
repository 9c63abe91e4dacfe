package service

import (
	"encoding/json"

	"go-weighbridge-ws/internal/model"
	"go-weighbridge-ws/internal/repository"
	"go-weighbridge-ws/internal/ws"
	"go-weighbridge-ws/pkg/validator"

	"github.com/google/uuid"
)

func parseID(id string) (uuid.UUID, error) {
	return uuid.Parse(id)
}

type RegisterRequest struct {
	// Vehicle leg
	RegistrationNumber     string  `json:"registration_number" validate:"required,regnum"`
	VehicleType            string  `json:"vehicle_type" validate:"required"`
	ManufacturerTareWeight float64 `json:"manufacturer_tare_weight"`
	FastagID               string  `json:"fastag_id,omitempty"`
	Image                  string  `json:"image,omitempty"`

	// Driver leg
	DriverName   string `json:"driver_name" validate:"required"`
	MobileNumber string `json:"mobile_number" validate:"required"`
	Aadhaar      string `json:"aadhaar" validate:"required,aadhaar"`
}

// RegisterResult reports both legs. VehicleReused is set when the vehicle
// leg resolved to a pre-existing row instead of creating one.
type RegisterResult struct {
	Vehicle       *model.Vehicle `json:"vehicle"`
	VehicleReused bool           `json:"vehicle_reused"`
	Driver        *model.Driver  `json:"driver"`
}

// RegistrationService registers a vehicle and driver together from the
// security gate. The same physical vehicle may be submitted by two
// terminals at once, or resubmitted after a timeout; the vehicle leg must
// converge on one canonical row either way.
type RegistrationService interface {
	Register(req *RegisterRequest, staff Staff) (*RegisterResult, error)
	ApproveVehicle(id string, staff Staff) error
	RejectVehicle(id string, staff Staff) error
	ApproveDriver(id string, staff Staff) error
	RejectDriver(id string, staff Staff) error
	GetVehicles(approvalStatus string, skip, limit int) ([]model.Vehicle, error)
	GetDrivers(approvalStatus string, skip, limit int) ([]model.Driver, error)
}

type registrationService struct {
	vehicleRepo repository.VehicleRepository
	driverRepo  repository.DriverRepository
	wsHub       *ws.Hub
}

func NewRegistrationService(vehicleRepo repository.VehicleRepository, driverRepo repository.DriverRepository, hub *ws.Hub) RegistrationService {
	return &registrationService{
		vehicleRepo: vehicleRepo,
		driverRepo:  driverRepo,
		wsHub:       hub,
	}
}

// Register runs both legs. The vehicle leg is dedup-protected; the driver
// leg is created unconditionally (duplicate driver rows are acceptable,
// duplicate vehicles are not). There is no rollback of a leg that already
// succeeded: a failed driver leg leaves the vehicle row in place, and the
// returned error says which leg broke.
func (s *registrationService) Register(req *RegisterRequest, staff Staff) (*RegisterResult, error) {
	if err := validateRegisterRequest(req); err != nil {
		return nil, err
	}

	vehicle, reused, err := s.vehicleLeg(req, staff)
	if err != nil {
		return nil, &LegError{Leg: LegVehicle, Err: err}
	}

	driver := &model.Driver{
		DriverName:     req.DriverName,
		MobileNumber:   req.MobileNumber,
		Aadhaar:        req.Aadhaar,
		ApprovalStatus: model.ApprovalPending,
	}
	driver.CreatedBy = staff.ID
	driver.UpdatedBy = staff.ID
	if err := s.driverRepo.Create(driver); err != nil {
		return nil, &LegError{Leg: LegDriver, Err: err}
	}

	result := &RegisterResult{Vehicle: vehicle, VehicleReused: reused, Driver: driver}
	s.broadcast(result, staff)

	return result, nil
}

// vehicleLeg resolves the registration number to exactly one vehicle row.
// Lookup first; a rejected vehicle is refused outright; a found vehicle is
// reused as-is with its current approval status. Only a not-found lookup
// proceeds to create, and a duplicate-key failure there means a concurrent
// caller won the race, so the lookup-and-branch runs exactly once more.
func (s *registrationService) vehicleLeg(req *RegisterRequest, staff Staff) (*model.Vehicle, bool, error) {
	reg := model.NormalizeRegistrationNumber(req.RegistrationNumber)

	vehicle, err := s.lookupVehicle(reg)
	if err != nil {
		return nil, false, err
	}
	if vehicle != nil {
		return vehicle, true, nil
	}

	created := &model.Vehicle{
		RegistrationNumber:     reg,
		VehicleType:            req.VehicleType,
		ManufacturerTareWeight: req.ManufacturerTareWeight,
		FastagID:               req.FastagID,
		Image:                  req.Image,
		ApprovalStatus:         model.ApprovalPending,
	}
	created.CreatedBy = staff.ID
	created.UpdatedBy = staff.ID

	err = s.vehicleRepo.Create(created)
	if err == nil {
		return created, false, nil
	}
	if !repository.IsDuplicateKeyError(err) {
		return nil, false, err
	}

	// Lost the create race. The winner's row must be there now; if the
	// re-lookup still misses, the store is inconsistent and that surfaces.
	vehicle, lookupErr := s.lookupVehicle(reg)
	if lookupErr != nil {
		return nil, false, lookupErr
	}
	if vehicle == nil {
		return nil, false, ErrConflict
	}
	return vehicle, true, nil
}

// lookupVehicle treats not-found as a nil result, not an error: it is the
// signal to proceed to create.
func (s *registrationService) lookupVehicle(reg string) (*model.Vehicle, error) {
	vehicle, err := s.vehicleRepo.FindByRegistrationNumber(reg)
	if err != nil {
		if repository.IsNotFoundError(err) {
			return nil, nil
		}
		return nil, err
	}
	if vehicle.ApprovalStatus == model.ApprovalRejected {
		return nil, ErrVehicleRejected
	}
	return vehicle, nil
}

func validateRegisterRequest(req *RegisterRequest) error {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		return validationErr("%s failed validation on %s", errs[0].FailedField, errs[0].Tag)
	}
	return nil
}

func (s *registrationService) ApproveVehicle(id string, staff Staff) error {
	return s.updateVehicleApproval(id, model.ApprovalApproved, staff)
}

func (s *registrationService) RejectVehicle(id string, staff Staff) error {
	return s.updateVehicleApproval(id, model.ApprovalRejected, staff)
}

func (s *registrationService) updateVehicleApproval(id string, status model.ApprovalStatus, staff Staff) error {
	vehicleID, err := parseID(id)
	if err != nil {
		return validationErr("invalid vehicle id")
	}
	if err := s.vehicleRepo.UpdateApprovalStatus(vehicleID, status, staff.ID); err != nil {
		if repository.IsNotFoundError(err) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

func (s *registrationService) ApproveDriver(id string, staff Staff) error {
	return s.updateDriverApproval(id, model.ApprovalApproved, staff)
}

func (s *registrationService) RejectDriver(id string, staff Staff) error {
	return s.updateDriverApproval(id, model.ApprovalRejected, staff)
}

func (s *registrationService) updateDriverApproval(id string, status model.ApprovalStatus, staff Staff) error {
	driverID, err := parseID(id)
	if err != nil {
		return validationErr("invalid driver id")
	}
	if err := s.driverRepo.UpdateApprovalStatus(driverID, status, staff.ID); err != nil {
		if repository.IsNotFoundError(err) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

func (s *registrationService) GetVehicles(approvalStatus string, skip, limit int) ([]model.Vehicle, error) {
	return s.vehicleRepo.FindAll(approvalStatus, skip, limit)
}

func (s *registrationService) GetDrivers(approvalStatus string, skip, limit int) ([]model.Driver, error) {
	return s.driverRepo.FindAll(approvalStatus, skip, limit)
}

func (s *registrationService) broadcast(result *RegisterResult, staff Staff) {
	if s.wsHub == nil {
		return
	}
	go func() {
		payload := map[string]interface{}{
			"type": "registration",
			"vehicle": map[string]interface{}{
				"id":                  result.Vehicle.ID,
				"registration_number": result.Vehicle.RegistrationNumber,
				"approval_status":     result.Vehicle.ApprovalStatus,
				"reused":              result.VehicleReused,
			},
			"driver": map[string]interface{}{
				"id":              result.Driver.ID,
				"driver_name":     result.Driver.DriverName,
				"approval_status": result.Driver.ApprovalStatus,
			},
			"staff": map[string]interface{}{
				"id":   staff.ID,
				"name": staff.Name,
			},
		}
		msg, _ := json.Marshal(payload)
		s.wsHub.Broadcast <- msg
	}()
}
