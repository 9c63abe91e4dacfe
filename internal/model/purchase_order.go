package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type POStatus string

const (
	POActive  POStatus = "Active"
	POExpired POStatus = "Expired"
	POClosed  POStatus = "Closed"
)

// PurchaseOrder authorizes a seller to deliver up to the needed quantities
// of its material lines within the validity window. Status is stored and
// served, not derived here: expiry and closure are decided externally.
type PurchaseOrder struct {
	BaseModel
	Reference     string    `gorm:"type:varchar(50);uniqueIndex;not null" json:"reference" validate:"required"`
	SellerName    string    `gorm:"type:varchar(255);not null" json:"seller_name" validate:"required"`
	SellerGSTIN   string    `gorm:"type:varchar(20)" json:"seller_gstin,omitempty"`
	SellerContact string    `gorm:"type:varchar(50)" json:"seller_contact,omitempty"`
	ValidFrom     time.Time `gorm:"not null" json:"valid_from" validate:"required"`
	ValidTo       time.Time `gorm:"not null" json:"valid_to" validate:"required"`
	Status        POStatus  `gorm:"type:varchar(20);not null;default:'Active';index" json:"status"`

	Materials []POMaterial `gorm:"foreignKey:POID" json:"materials,omitempty"`
}

// POMaterial is one material line on a purchase order.
type POMaterial struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	POID        uuid.UUID `gorm:"type:uuid;not null;index" json:"po_id"`
	MaterialID  string    `gorm:"type:varchar(100);not null" json:"material_id" validate:"required"`
	NeededQty   float64   `gorm:"not null" json:"needed_qty" validate:"required,gt=0"`
	ReceivedQty float64   `gorm:"not null;default:0" json:"received_qty"`
}

func (POMaterial) TableName() string {
	return "po_materials"
}

func (m *POMaterial) BeforeCreate(tx *gorm.DB) (err error) {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return
}

// Progress is received over needed, in percent, deliberately unclamped:
// over-receipt surfaces as >100 rather than being hidden.
func (m *POMaterial) Progress() float64 {
	if m.NeededQty == 0 {
		return 0
	}
	return m.ReceivedQty / m.NeededQty * 100
}
