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

type VerifyUnloadingRequest struct {
	MaterialType string  `json:"material_type" validate:"required"`
	AcceptedQty  float64 `json:"accepted_qty"`
	RejectionQty float64 `json:"rejection_qty"`
	Remarks      string  `json:"remarks,omitempty"`
}

// UnloadingResult is the recorded row plus its derived reconciliation
// figures, the shape the quality dashboard renders.
type UnloadingResult struct {
	Unloading     *model.MaterialUnloading `json:"unloading"`
	TotalQty      float64                  `json:"total_qty"`
	RejectionRate float64                  `json:"rejection_rate"`
	Quality       model.QualityBand        `json:"quality"`
}

type UnloadingService interface {
	Verify(tripID uuid.UUID, req *VerifyUnloadingRequest, staff Staff) (*UnloadingResult, error)
	ListByTrip(tripID uuid.UUID) ([]UnloadingResult, error)
}

type unloadingService struct {
	unloadingRepo repository.UnloadingRepository
	tripRepo      repository.TripRepository
	cache         *cache.Cache
	wsHub         *ws.Hub
}

func NewUnloadingService(unloadingRepo repository.UnloadingRepository, tripRepo repository.TripRepository, c *cache.Cache, hub *ws.Hub) UnloadingService {
	return &unloadingService{
		unloadingRepo: unloadingRepo,
		tripRepo:      tripRepo,
		cache:         c,
		wsHub:         hub,
	}
}

// Verify records what was unloaded for the trip and derives the rejection
// rate and quality band. It never touches the purchase order: crediting
// accepted quantity against the PO is a separate, explicit ledger update.
func (s *unloadingService) Verify(tripID uuid.UUID, req *VerifyUnloadingRequest, staff Staff) (*UnloadingResult, error) {
	if req.MaterialType == "" {
		return nil, validationErr("material_type is required")
	}
	if req.AcceptedQty < 0 {
		return nil, validationErr("accepted_qty must be >= 0, got %v", req.AcceptedQty)
	}
	if req.RejectionQty < 0 {
		return nil, validationErr("rejection_qty must be >= 0, got %v", req.RejectionQty)
	}

	trip, err := s.tripRepo.FindByID(tripID)
	if err != nil {
		if repository.IsNotFoundError(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if trip.Status != model.TripActive || trip.CurrentStage != model.StageUnloading {
		return nil, ErrStageMismatch
	}

	unloading := &model.MaterialUnloading{
		TripID:           tripID,
		MaterialType:     req.MaterialType,
		AcceptedQty:      req.AcceptedQty,
		RejectionQty:     req.RejectionQty,
		StaffID:          staff.ID,
		VerificationTime: time.Now(),
		Remarks:          req.Remarks,
	}
	unloading.CreatedBy = staff.ID
	unloading.UpdatedBy = staff.ID

	if err := s.unloadingRepo.CreateAtStage(unloading, model.StageUnloading); err != nil {
		if errors.Is(err, repository.ErrStageConflict) {
			return nil, ErrStageMismatch
		}
		if repository.IsNotFoundError(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	s.cache.Invalidate(cache.TripKey(tripID.String()))

	result := toUnloadingResult(unloading)
	s.broadcast(result, staff)

	return result, nil
}

func (s *unloadingService) ListByTrip(tripID uuid.UUID) ([]UnloadingResult, error) {
	unloadings, err := s.unloadingRepo.FindByTrip(tripID)
	if err != nil {
		return nil, err
	}
	results := make([]UnloadingResult, len(unloadings))
	for i := range unloadings {
		results[i] = *toUnloadingResult(&unloadings[i])
	}
	return results, nil
}

func toUnloadingResult(u *model.MaterialUnloading) *UnloadingResult {
	return &UnloadingResult{
		Unloading:     u,
		TotalQty:      u.TotalQty(),
		RejectionRate: u.RejectionRate(),
		Quality:       u.Quality(),
	}
}

func (s *unloadingService) broadcast(result *UnloadingResult, staff Staff) {
	if s.wsHub == nil {
		return
	}
	go func() {
		payload := map[string]interface{}{
			"type": "unloading_verified",
			"unloading": map[string]interface{}{
				"id":             result.Unloading.ID,
				"trip_id":        result.Unloading.TripID,
				"material_type":  result.Unloading.MaterialType,
				"accepted_qty":   result.Unloading.AcceptedQty,
				"rejection_qty":  result.Unloading.RejectionQty,
				"rejection_rate": result.RejectionRate,
				"quality":        result.Quality,
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
