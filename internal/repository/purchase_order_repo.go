package repository

import (
	"go-weighbridge-ws/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PurchaseOrderRepository interface {
	Create(po *model.PurchaseOrder) error
	FindByID(id uuid.UUID) (*model.PurchaseOrder, error)
	FindByReference(reference string) (*model.PurchaseOrder, error)
	FindAll(status string, skip, limit int) ([]model.PurchaseOrder, error)
	UpdateMaterialReceived(poID, materialID uuid.UUID, receivedQty float64) error
	UpdateStatus(poID uuid.UUID, status model.POStatus, updatedBy string) error
}

type purchaseOrderRepo struct {
	db *gorm.DB
}

func NewPurchaseOrderRepo(db *gorm.DB) PurchaseOrderRepository {
	return &purchaseOrderRepo{db}
}

// Create persists the PO and its material lines in one transaction. The
// unique index on reference is the real duplicate guard; callers inspect
// the error with IsDuplicateKeyError.
func (r *purchaseOrderRepo) Create(po *model.PurchaseOrder) error {
	return r.db.Create(po).Error
}

func (r *purchaseOrderRepo) FindByID(id uuid.UUID) (*model.PurchaseOrder, error) {
	var po model.PurchaseOrder
	if err := r.db.Preload("Materials").First(&po, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &po, nil
}

func (r *purchaseOrderRepo) FindByReference(reference string) (*model.PurchaseOrder, error) {
	var po model.PurchaseOrder
	if err := r.db.Preload("Materials").First(&po, "reference = ?", reference).Error; err != nil {
		return nil, err
	}
	return &po, nil
}

func (r *purchaseOrderRepo) FindAll(status string, skip, limit int) ([]model.PurchaseOrder, error) {
	var pos []model.PurchaseOrder
	q := r.db.Preload("Materials").Order("created_at DESC")
	if status != "" {
		q = q.Where("status = ?", status)
	}
	if skip > 0 {
		q = q.Offset(skip)
	}
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Find(&pos).Error
	return pos, err
}

// UpdateMaterialReceived sets the line's received_qty as-is. No clamping to
// needed_qty: over-receipt is stored and shows up as >100% progress.
func (r *purchaseOrderRepo) UpdateMaterialReceived(poID, materialID uuid.UUID, receivedQty float64) error {
	res := r.db.Model(&model.POMaterial{}).
		Where("id = ? AND po_id = ?", materialID, poID).
		Update("received_qty", receivedQty)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *purchaseOrderRepo) UpdateStatus(poID uuid.UUID, status model.POStatus, updatedBy string) error {
	res := r.db.Model(&model.PurchaseOrder{}).
		Where("id = ?", poID).
		Updates(map[string]interface{}{
			"status":     status,
			"updated_by": updatedBy,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
