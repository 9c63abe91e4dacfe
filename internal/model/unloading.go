package model

import (
	"time"

	"github.com/google/uuid"
)

// QualityBand classifies an unloading by its rejection rate.
type QualityBand string

const (
	QualityExcellent QualityBand = "Excellent"
	QualityGood      QualityBand = "Good"
	QualityFair      QualityBand = "Fair"
	QualityPoor      QualityBand = "Poor"
)

// MaterialUnloading records what was physically unloaded and verified for a
// trip. Crediting accepted quantity against the purchase order is a
// separate, explicit operation on the PO ledger.
type MaterialUnloading struct {
	BaseModel
	TripID           uuid.UUID `gorm:"type:uuid;not null;index" json:"trip_id" validate:"uuid_required"`
	MaterialType     string    `gorm:"type:varchar(100);not null" json:"material_type" validate:"required"`
	AcceptedQty      float64   `gorm:"not null" json:"accepted_qty"`
	RejectionQty     float64   `gorm:"not null;default:0" json:"rejection_qty"`
	StaffID          string    `gorm:"type:varchar(255);not null" json:"staff_id"`
	VerificationTime time.Time `gorm:"not null" json:"verification_time"`
	Remarks          string    `gorm:"type:text" json:"remarks,omitempty"`
}

// TotalQty is accepted plus rejected quantity.
func (m *MaterialUnloading) TotalQty() float64 {
	return m.AcceptedQty + m.RejectionQty
}

// RejectionRate is the rejected share of the total, in percent. Zero when
// nothing was unloaded at all.
func (m *MaterialUnloading) RejectionRate() float64 {
	total := m.TotalQty()
	if total == 0 {
		return 0
	}
	return m.RejectionQty / total * 100
}

// Quality maps the rejection rate to a band. Boundaries are half-open on
// the lower value: exactly 5.0% is Fair, exactly 15.0% is Poor.
func (m *MaterialUnloading) Quality() QualityBand {
	return QualityForRate(m.RejectionRate())
}

func QualityForRate(rate float64) QualityBand {
	switch {
	case rate == 0:
		return QualityExcellent
	case rate < 5:
		return QualityGood
	case rate < 15:
		return QualityFair
	default:
		return QualityPoor
	}
}
