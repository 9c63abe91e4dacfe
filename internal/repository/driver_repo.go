package repository

import (
	"go-weighbridge-ws/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type DriverRepository interface {
	Create(driver *model.Driver) error
	FindByID(id uuid.UUID) (*model.Driver, error)
	FindAll(approvalStatus string, skip, limit int) ([]model.Driver, error)
	UpdateApprovalStatus(id uuid.UUID, status model.ApprovalStatus, updatedBy string) error
}

type driverRepo struct {
	db *gorm.DB
}

func NewDriverRepo(db *gorm.DB) DriverRepository {
	return &driverRepo{db}
}

func (r *driverRepo) Create(driver *model.Driver) error {
	return r.db.Create(driver).Error
}

func (r *driverRepo) FindByID(id uuid.UUID) (*model.Driver, error) {
	var driver model.Driver
	if err := r.db.First(&driver, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &driver, nil
}

func (r *driverRepo) FindAll(approvalStatus string, skip, limit int) ([]model.Driver, error) {
	var drivers []model.Driver
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
	err := q.Find(&drivers).Error
	return drivers, err
}

func (r *driverRepo) UpdateApprovalStatus(id uuid.UUID, status model.ApprovalStatus, updatedBy string) error {
	res := r.db.Model(&model.Driver{}).
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
