package repository

import (
	"go-weighbridge-ws/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UnloadingRepository interface {
	CreateAtStage(unloading *model.MaterialUnloading, stage model.TripStage) error
	FindByTrip(tripID uuid.UUID) ([]model.MaterialUnloading, error)
}

type unloadingRepo struct {
	db *gorm.DB
}

func NewUnloadingRepo(db *gorm.DB) UnloadingRepository {
	return &unloadingRepo{db}
}

// CreateAtStage inserts the unloading record only while the trip sits at
// the given stage. The trip row is locked for the duration so an advance
// racing with the verification cannot slip between check and insert.
func (r *unloadingRepo) CreateAtStage(unloading *model.MaterialUnloading, stage model.TripStage) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var trip model.Trip
		if err := tx.Set("gorm:query_option", "FOR UPDATE").
			First(&trip, "id = ?", unloading.TripID).Error; err != nil {
			return err
		}

		if trip.Status != model.TripActive || trip.CurrentStage != stage {
			return ErrStageConflict
		}

		return tx.Create(unloading).Error
	})
}

func (r *unloadingRepo) FindByTrip(tripID uuid.UUID) ([]model.MaterialUnloading, error) {
	unloadings := []model.MaterialUnloading{}
	err := r.db.Where("trip_id = ?", tripID).
		Order("verification_time ASC").
		Find(&unloadings).Error
	return unloadings, err
}
