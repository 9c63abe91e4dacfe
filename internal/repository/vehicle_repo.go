package repository

import (
	"go-weighbridge-ws/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type VehicleRepository interface {
	Create(vehicle *model.Vehicle) error
	FindByID(id uuid.UUID) (*model.Vehicle, error)
	FindByRegistrationNumber(reg string) (*model.Vehicle, error)
	FindAll(approvalStatus string, skip, limit int) ([]model.Vehicle, error)
	UpdateApprovalStatus(id uuid.UUID, status model.ApprovalStatus, updatedBy string) error
}

type vehicleRepo struct {
	db *gorm.DB
}

func NewVehicleRepo(db *gorm.DB) VehicleRepository {
	return &vehicleRepo{db}
}

func (r *vehicleRepo) Create(vehicle *model.Vehicle) error {
	return r.db.Create(vehicle).Error
}

func (r *vehicleRepo) FindByID(id uuid.UUID) (*model.Vehicle, error) {
	var vehicle model.Vehicle
	if err := r.db.First(&vehicle, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &vehicle, nil
}

// FindByRegistrationNumber expects an already-normalized plate.
// gorm.ErrRecordNotFound passes through: "not yet registered" is a
// legitimate branch for the caller, not a failure.
func (r *vehicleRepo) FindByRegistrationNumber(reg string) (*model.Vehicle, error) {
	var vehicle model.Vehicle
	if err := r.db.First(&vehicle, "registration_number = ?", reg).Error; err != nil {
		return nil, err
	}
	return &vehicle, nil
}

func (r *vehicleRepo) FindAll(approvalStatus string, skip, limit int) ([]model.Vehicle, error) {
	var vehicles []model.Vehicle
	q := r.db.Order("created_at DESC")
	if approvalStatus != "" {
		q = q.Where("approval_status = ?", approvalStatus)
	}
	if skip > 0 {
		q = q.Offset(skip)
	}
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Find(&vehicles).Error
	return vehicles, err
}

func (r *vehicleRepo) UpdateApprovalStatus(id uuid.UUID, status model.ApprovalStatus, updatedBy string) error {
	res := r.db.Model(&model.Vehicle{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"approval_status": status,
			"updated_by":      updatedBy,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
