package repository

import (
	"fmt"

	"go-weighbridge-ws/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type WeightRepository interface {
	Capture(weight *model.Weight, stage model.TripStage) error
	FindByTrip(tripID uuid.UUID) ([]model.Weight, error)
}

type weightRepo struct {
	db *gorm.DB
}

func NewWeightRepo(db *gorm.DB) WeightRepository {
	return &weightRepo{db}
}

// Capture records the weight row and writes the matching gross/tare field
// on the trip in one transaction. The trip update is guarded on the stage
// the reading is valid for; zero rows means the trip moved on (or failed)
// between the caller's read and this write, and nothing is persisted.
func (r *weightRepo) Capture(weight *model.Weight, stage model.TripStage) error {
	var field string
	switch weight.WeightType {
	case model.WeightGross:
		field = "gross_weight"
	case model.WeightTare:
		field = "tare_weight"
	default:
		return fmt.Errorf("unknown weight type %q", weight.WeightType)
	}

	return r.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.Trip{}).
			Where("id = ? AND current_stage = ? AND status = ?", weight.TripID, stage, model.TripActive).
			Updates(map[string]interface{}{
				field:        weight.WeightValue,
				"updated_by": weight.OperatorID,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrStageConflict
		}

		return tx.Create(weight).Error
	})
}

func (r *weightRepo) FindByTrip(tripID uuid.UUID) ([]model.Weight, error) {
	weights := []model.Weight{}
	err := r.db.Where("trip_id = ?", tripID).
		Order("capture_time ASC").
		Find(&weights).Error
	return weights, err
}
