package service

import (
	"time"

	"go-weighbridge-ws/internal/cache"
	"go-weighbridge-ws/internal/model"
	"go-weighbridge-ws/internal/repository"

	"github.com/google/uuid"
)

type POMaterialRequest struct {
	MaterialID string  `json:"material_id" validate:"required"`
	NeededQty  float64 `json:"needed_qty" validate:"required,gt=0"`
}

type CreatePORequest struct {
	Reference     string              `json:"reference" validate:"required"`
	SellerName    string              `json:"seller_name" validate:"required"`
	SellerGSTIN   string              `json:"seller_gstin,omitempty"`
	SellerContact string              `json:"seller_contact,omitempty"`
	ValidFrom     time.Time           `json:"valid_from" validate:"required"`
	ValidTo       time.Time           `json:"valid_to" validate:"required"`
	Materials     []POMaterialRequest `json:"materials" validate:"required,min=1,dive"`
}

// MaterialProgress is one PO line with its unclamped completion figure.
type MaterialProgress struct {
	Line     model.POMaterial `json:"line"`
	Progress float64          `json:"progress"`
}

type PurchaseOrderService interface {
	Create(req *CreatePORequest, staff Staff) (*model.PurchaseOrder, error)
	UpdateReceived(poID, materialID uuid.UUID, receivedQty float64, staff Staff) (*model.PurchaseOrder, error)
	Close(poID uuid.UUID, staff Staff) error
	GetByID(id uuid.UUID) (*model.PurchaseOrder, error)
	GetAll(status string, skip, limit int) ([]model.PurchaseOrder, error)
	Progress(poID uuid.UUID) ([]MaterialProgress, error)
}

type purchaseOrderService struct {
	poRepo repository.PurchaseOrderRepository
	cache  *cache.Cache
}

func NewPurchaseOrderService(poRepo repository.PurchaseOrderRepository, c *cache.Cache) PurchaseOrderService {
	return &purchaseOrderService{poRepo: poRepo, cache: c}
}

// Create validates the reference, validity window, and material lines, then
// persists. The unique index on reference is the authoritative duplicate
// guard; the pre-check only gives a friendlier error for the common case.
func (s *purchaseOrderService) Create(req *CreatePORequest, staff Staff) (*model.PurchaseOrder, error) {
	if req.Reference == "" {
		return nil, validationErr("reference is required")
	}
	if req.SellerName == "" {
		return nil, validationErr("seller_name is required")
	}
	if !req.ValidFrom.Before(req.ValidTo) {
		return nil, validationErr("validity window start must be before end")
	}
	if len(req.Materials) == 0 {
		return nil, validationErr("at least one material line is required")
	}
	for _, m := range req.Materials {
		if m.MaterialID == "" {
			return nil, validationErr("material_id is required on every line")
		}
		if m.NeededQty <= 0 {
			return nil, validationErr("needed_qty must be > 0 for material %s", m.MaterialID)
		}
	}

	if existing, err := s.poRepo.FindByReference(req.Reference); err == nil && existing != nil {
		return nil, ErrConflict
	}

	po := &model.PurchaseOrder{
		Reference:     req.Reference,
		SellerName:    req.SellerName,
		SellerGSTIN:   req.SellerGSTIN,
		SellerContact: req.SellerContact,
		ValidFrom:     req.ValidFrom,
		ValidTo:       req.ValidTo,
		Status:        model.POActive,
	}
	po.CreatedBy = staff.ID
	po.UpdatedBy = staff.ID
	for _, m := range req.Materials {
		po.Materials = append(po.Materials, model.POMaterial{
			MaterialID: m.MaterialID,
			NeededQty:  m.NeededQty,
		})
	}

	if err := s.poRepo.Create(po); err != nil {
		if repository.IsDuplicateKeyError(err) {
			return nil, ErrConflict
		}
		return nil, err
	}

	s.cache.Invalidate(cache.KeyActivePOs)
	return po, nil
}

// UpdateReceived sets the line's received quantity without clamping to the
// needed quantity; over-receipt is stored and reported as >100% progress.
func (s *purchaseOrderService) UpdateReceived(poID, materialID uuid.UUID, receivedQty float64, staff Staff) (*model.PurchaseOrder, error) {
	if receivedQty < 0 {
		return nil, validationErr("received_qty must be >= 0, got %v", receivedQty)
	}

	if err := s.poRepo.UpdateMaterialReceived(poID, materialID, receivedQty); err != nil {
		if repository.IsNotFoundError(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	s.cache.Invalidate(cache.PurchaseOrderKey(poID.String()), cache.KeyActivePOs)

	return s.poRepo.FindByID(poID)
}

func (s *purchaseOrderService) Close(poID uuid.UUID, staff Staff) error {
	if err := s.poRepo.UpdateStatus(poID, model.POClosed, staff.ID); err != nil {
		if repository.IsNotFoundError(err) {
			return ErrNotFound
		}
		return err
	}
	s.cache.Invalidate(cache.PurchaseOrderKey(poID.String()), cache.KeyActivePOs)
	return nil
}

func (s *purchaseOrderService) GetByID(id uuid.UUID) (*model.PurchaseOrder, error) {
	var cached model.PurchaseOrder
	if err := s.cache.GetJSON(cache.PurchaseOrderKey(id.String()), &cached); err == nil {
		return &cached, nil
	}

	po, err := s.poRepo.FindByID(id)
	if err != nil {
		if repository.IsNotFoundError(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	s.cache.SetJSON(cache.PurchaseOrderKey(id.String()), po)
	return po, nil
}

func (s *purchaseOrderService) GetAll(status string, skip, limit int) ([]model.PurchaseOrder, error) {
	return s.poRepo.FindAll(status, skip, limit)
}

func (s *purchaseOrderService) Progress(poID uuid.UUID) ([]MaterialProgress, error) {
	po, err := s.GetByID(poID)
	if err != nil {
		return nil, err
	}
	progress := make([]MaterialProgress, len(po.Materials))
	for i, line := range po.Materials {
		progress[i] = MaterialProgress{Line: line, Progress: line.Progress()}
	}
	return progress, nil
}
