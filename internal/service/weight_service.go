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

type CaptureWeightRequest struct {
	WeightType     model.WeightType   `json:"weight_type" validate:"required,oneof=Gross Tare"`
	WeightValue    float64            `json:"weight_value" validate:"required,gt=0"`
	Status         model.WeightStatus `json:"status" validate:"required,oneof=PASSED FAILED"`
	CameraImageRef string             `json:"camera_image_ref,omitempty"`
}

type WeightService interface {
	Capture(tripID uuid.UUID, req *CaptureWeightRequest, staff Staff) (*model.Weight, error)
	ListByTrip(tripID uuid.UUID) ([]model.Weight, error)
}

type weightService struct {
	weightRepo repository.WeightRepository
	tripRepo   repository.TripRepository
	cache      *cache.Cache
	wsHub      *ws.Hub
}

func NewWeightService(weightRepo repository.WeightRepository, tripRepo repository.TripRepository, c *cache.Cache, hub *ws.Hub) WeightService {
	return &weightService{
		weightRepo: weightRepo,
		tripRepo:   tripRepo,
		cache:      c,
		wsHub:      hub,
	}
}

// Capture records a weighbridge reading for the trip. Gross is only valid
// at GROSS_WEIGHT and Tare at TARE_WEIGHT; anything else is a stage
// mismatch, including a trip that advanced between the caller's read and
// the write.
func (s *weightService) Capture(tripID uuid.UUID, req *CaptureWeightRequest, staff Staff) (*model.Weight, error) {
	requiredStage, ok := model.StageForWeightType(req.WeightType)
	if !ok {
		return nil, validationErr("unknown weight type %q", req.WeightType)
	}

	if req.WeightValue <= 0 || req.WeightValue > model.MaxWeightKg {
		return nil, validationErr("weight value must be in (0, %.0f] kg, got %v", model.MaxWeightKg, req.WeightValue)
	}
	if req.Status != model.WeightPassed && req.Status != model.WeightFailed {
		return nil, validationErr("unknown weight status %q", req.Status)
	}

	trip, err := s.tripRepo.FindByID(tripID)
	if err != nil {
		if repository.IsNotFoundError(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if trip.Status != model.TripActive || trip.CurrentStage != requiredStage {
		return nil, ErrStageMismatch
	}

	weight := &model.Weight{
		TripID:         tripID,
		WeightType:     req.WeightType,
		WeightValue:    req.WeightValue,
		CaptureTime:    time.Now(),
		CameraImageRef: req.CameraImageRef,
		OperatorID:     staff.ID,
		Status:         req.Status,
	}
	weight.CreatedBy = staff.ID
	weight.UpdatedBy = staff.ID

	if err := s.weightRepo.Capture(weight, requiredStage); err != nil {
		if errors.Is(err, repository.ErrStageConflict) {
			return nil, ErrStageMismatch
		}
		return nil, err
	}

	s.cache.Invalidate(cache.TripKey(tripID.String()), cache.KeyDashboardStats)
	s.broadcast(weight, staff)

	return weight, nil
}

func (s *weightService) ListByTrip(tripID uuid.UUID) ([]model.Weight, error) {
	return s.weightRepo.FindByTrip(tripID)
}

func (s *weightService) broadcast(weight *model.Weight, staff Staff) {
	if s.wsHub == nil {
		return
	}
	go func() {
		payload := map[string]interface{}{
			"type": "weight_captured",
			"weight": map[string]interface{}{
				"id":           weight.ID,
				"trip_id":      weight.TripID,
				"weight_type":  weight.WeightType,
				"weight_value": weight.WeightValue,
				"status":       weight.Status,
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
