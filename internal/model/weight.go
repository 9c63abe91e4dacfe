package model

import (
	"time"

	"github.com/google/uuid"
)

type WeightType string

const (
	WeightGross WeightType = "Gross"
	WeightTare  WeightType = "Tare"
)

type WeightStatus string

const (
	WeightPassed WeightStatus = "PASSED"
	WeightFailed WeightStatus = "FAILED"
)

// MaxWeightKg is the weighbridge capacity. Captures above it are rejected.
const MaxWeightKg = 100000.0

// StageForWeightType returns the trip stage at which a weight of the given
// type may be captured.
func StageForWeightType(t WeightType) (TripStage, bool) {
	switch t {
	case WeightGross:
		return StageGrossWeight, true
	case WeightTare:
		return StageTareWeight, true
	}
	return "", false
}

// Weight is one weighbridge reading for a trip. Multiple rows may exist per
// trip and type; the authoritative gross/tare for net-weight purposes are
// the fields stored on the trip itself, set by the capture operation.
type Weight struct {
	BaseModel
	TripID         uuid.UUID    `gorm:"type:uuid;not null;index" json:"trip_id" validate:"uuid_required"`
	WeightType     WeightType   `gorm:"type:varchar(10);not null" json:"weight_type" validate:"required,oneof=Gross Tare"`
	WeightValue    float64      `gorm:"not null" json:"weight_value" validate:"required,gt=0"`
	CaptureTime    time.Time    `gorm:"not null" json:"capture_time"`
	CameraImageRef string       `gorm:"type:text" json:"camera_image_ref,omitempty"`
	OperatorID     string       `gorm:"type:varchar(255);not null" json:"operator_id"`
	Status         WeightStatus `gorm:"type:varchar(10);not null" json:"status" validate:"required,oneof=PASSED FAILED"`
}
