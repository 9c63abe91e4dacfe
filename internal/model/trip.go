package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TripStatus string

const (
	TripActive    TripStatus = "ACTIVE"
	TripCompleted TripStatus = "COMPLETED"
	TripFailed    TripStatus = "FAILED"
)

// TripStage is one of the five fixed checkpoints a trip passes through.
type TripStage string

const (
	StageEntryGate   TripStage = "ENTRY_GATE"
	StageGrossWeight TripStage = "GROSS_WEIGHT"
	StageUnloading   TripStage = "UNLOADING"
	StageTareWeight  TripStage = "TARE_WEIGHT"
	StageExitGate    TripStage = "EXIT_GATE"
)

// StageOrder is the full progression in execution order.
var StageOrder = []TripStage{
	StageEntryGate,
	StageGrossWeight,
	StageUnloading,
	StageTareWeight,
	StageExitGate,
}

// stageSuccessor maps each stage to the only stage a trip may advance to.
// EXIT_GATE is terminal and has no entry.
var stageSuccessor = map[TripStage]TripStage{
	StageEntryGate:   StageGrossWeight,
	StageGrossWeight: StageUnloading,
	StageUnloading:   StageTareWeight,
	StageTareWeight:  StageExitGate,
}

// NextStage returns the stage immediately following s, or false when s is
// terminal or unknown.
func (s TripStage) NextStage() (TripStage, bool) {
	next, ok := stageSuccessor[s]
	return next, ok
}

// IsValid reports whether s is one of the five known stages.
func (s TripStage) IsValid() bool {
	for _, stage := range StageOrder {
		if stage == s {
			return true
		}
	}
	return false
}

// Trip is one vehicle's pass through the facility against a purchase order.
type Trip struct {
	BaseModel
	VehicleID uuid.UUID      `gorm:"type:uuid;not null;index" json:"vehicle_id" validate:"uuid_required"`
	Vehicle   *Vehicle       `gorm:"foreignKey:VehicleID" json:"vehicle,omitempty"`
	DriverID  uuid.UUID      `gorm:"type:uuid;not null;index" json:"driver_id" validate:"uuid_required"`
	Driver    *Driver        `gorm:"foreignKey:DriverID" json:"driver,omitempty"`
	POID      uuid.UUID      `gorm:"type:uuid;not null;index" json:"po_id" validate:"uuid_required"`
	PO        *PurchaseOrder `gorm:"foreignKey:POID" json:"po,omitempty"`

	Status       TripStatus `gorm:"type:varchar(20);not null;default:'ACTIVE';index" json:"status"`
	CurrentStage TripStage  `gorm:"type:varchar(20);not null;default:'ENTRY_GATE'" json:"current_stage"`

	// Set by weight capture at the matching stage; net weight needs both.
	GrossWeight *float64 `json:"gross_weight,omitempty"`
	TareWeight  *float64 `json:"tare_weight,omitempty"`

	CompletedAt *time.Time `json:"completed_at,omitempty"`

	StageTransactions []StageTransaction `gorm:"foreignKey:TripID" json:"stage_transactions,omitempty"`
}

// NetWeight returns gross − tare, or false when either side is missing.
// A trip mid-unloading has a gross weight but no tare yet; that is not a
// zero net weight.
func (t *Trip) NetWeight() (float64, bool) {
	if t.GrossWeight == nil || t.TareWeight == nil {
		return 0, false
	}
	return *t.GrossWeight - *t.TareWeight, true
}

// IsTerminal reports whether the trip accepts no further transitions.
func (t *Trip) IsTerminal() bool {
	return t.Status == TripCompleted || t.Status == TripFailed
}

// StageTransaction is the immutable audit record of one executed stage
// transition. Append-only; never updated or deleted.
type StageTransaction struct {
	ID              uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	TripID          uuid.UUID `gorm:"type:uuid;not null;index" json:"trip_id"`
	StageName       TripStage `gorm:"type:varchar(20);not null" json:"stage_name"`
	StageStatus     string    `gorm:"type:varchar(20);not null" json:"stage_status"` // COMPLETED or FAILED
	StaffID         string    `gorm:"type:varchar(255);not null" json:"staff_id"`
	Role            string    `gorm:"type:varchar(50)" json:"role"`
	ActionTimestamp time.Time `gorm:"not null" json:"action_timestamp"`
	Remarks         string    `gorm:"type:text" json:"remarks,omitempty"`
}

func (StageTransaction) TableName() string {
	return "stage_transactions"
}

func (st *StageTransaction) BeforeCreate(tx *gorm.DB) (err error) {
	if st.ID == uuid.Nil {
		st.ID = uuid.New()
	}
	return
}

// Stage statuses recorded on a StageTransaction.
const (
	StageStatusCompleted = "COMPLETED"
	StageStatusFailed    = "FAILED"
)
