package model

import "strings"

// ApprovalStatus is shared by vehicles and drivers registered at the gate.
type ApprovalStatus string

const (
	ApprovalPending  ApprovalStatus = "Pending"
	ApprovalApproved ApprovalStatus = "Approved"
	ApprovalRejected ApprovalStatus = "Rejected"
)

// Vehicle is a truck known to the facility, keyed by its normalized
// registration number. The unique index is what makes gate-side dedup safe
// under concurrent submissions.
type Vehicle struct {
	BaseModel
	RegistrationNumber     string         `gorm:"type:varchar(20);uniqueIndex;not null" json:"registration_number" validate:"required,regnum"`
	VehicleType            string         `gorm:"type:varchar(50);not null" json:"vehicle_type" validate:"required"`
	ManufacturerTareWeight float64        `gorm:"not null;default:0" json:"manufacturer_tare_weight"`
	FastagID               string         `gorm:"type:varchar(50)" json:"fastag_id,omitempty"`
	Image                  string         `gorm:"type:text" json:"image,omitempty"` // base64 snapshot from the gate camera
	ApprovalStatus         ApprovalStatus `gorm:"type:varchar(20);not null;default:'Pending';index" json:"approval_status"`
}

// NormalizeRegistrationNumber trims and uppercases a plate so that
// " ka01ab1234 " and "KA01AB1234" resolve to the same vehicle row.
func NormalizeRegistrationNumber(reg string) string {
	return strings.ToUpper(strings.TrimSpace(reg))
}
