package model

// Driver is the person behind the wheel, registered at the gate alongside
// the vehicle. Duplicate driver rows are allowed: only the vehicle leg of a
// registration is dedup-protected.
type Driver struct {
	BaseModel
	DriverName     string         `gorm:"type:varchar(255);not null" json:"driver_name" validate:"required"`
	MobileNumber   string         `gorm:"type:varchar(20);not null" json:"mobile_number" validate:"required"`
	Aadhaar        string         `gorm:"type:varchar(12);not null" json:"aadhaar" validate:"required,aadhaar"`
	ApprovalStatus ApprovalStatus `gorm:"type:varchar(20);not null;default:'Pending';index" json:"approval_status"`
}
