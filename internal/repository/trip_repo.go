package repository

import (
	"time"

	"go-weighbridge-ws/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TripRepository interface {
	Create(trip *model.Trip) error
	FindByID(id uuid.UUID) (*model.Trip, error)
	FindAll(status string, skip, limit int) ([]model.Trip, error)
	AdvanceStage(tripID uuid.UUID, from, to model.TripStage, completed bool, stx *model.StageTransaction) error
	MarkFailed(tripID uuid.UUID, stx *model.StageTransaction) error
	History(tripID uuid.UUID) ([]model.StageTransaction, error)
	GetDashboardStats() (*DashboardStats, error)
	GetTripThroughput(startDate, endDate time.Time) ([]TripThroughputData, error)
}

// TripThroughputData is one day of trip activity for the dashboard chart.
type TripThroughputData struct {
	Date      string `json:"date"`
	Started   int    `json:"started"`
	Completed int    `json:"completed"`
}

// DashboardStats is the operations overview.
type DashboardStats struct {
	OpenTrips       int64   `json:"open_trips"`
	CompletedToday  int64   `json:"completed_today"`
	PendingVehicles int64   `json:"pending_vehicles"`
	NetWeightToday  float64 `json:"net_weight_today"`
}

type tripRepo struct {
	db *gorm.DB
}

func NewTripRepo(db *gorm.DB) TripRepository {
	return &tripRepo{db}
}

func (r *tripRepo) Create(trip *model.Trip) error {
	return r.db.Create(trip).Error
}

func (r *tripRepo) FindByID(id uuid.UUID) (*model.Trip, error) {
	var trip model.Trip
	err := r.db.Preload("Vehicle").Preload("Driver").Preload("PO").Preload("PO.Materials").
		First(&trip, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &trip, nil
}

func (r *tripRepo) FindAll(status string, skip, limit int) ([]model.Trip, error) {
	var trips []model.Trip
	q := r.db.Preload("Vehicle").Preload("Driver").Order("created_at DESC")
	if status != "" {
		q = q.Where("status = ?", status)
	}
	if skip > 0 {
		q = q.Offset(skip)
	}
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Find(&trips).Error
	return trips, err
}

// AdvanceStage moves the trip from `from` to `to` and appends the audit
// record atomically. The update is guarded on the stage and status the
// caller observed; zero rows affected means another caller won the race or
// the trip went terminal, and the whole transaction rolls back with
// ErrStageConflict.
func (r *tripRepo) AdvanceStage(tripID uuid.UUID, from, to model.TripStage, completed bool, stx *model.StageTransaction) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{
			"current_stage": to,
			"updated_by":    stx.StaffID,
		}
		if completed {
			updates["status"] = model.TripCompleted
			updates["completed_at"] = time.Now()
		}

		res := tx.Model(&model.Trip{}).
			Where("id = ? AND current_stage = ? AND status = ?", tripID, from, model.TripActive).
			Updates(updates)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrStageConflict
		}

		return tx.Create(stx).Error
	})
}

// MarkFailed is terminal and allowed from any stage, but only while the
// trip is still active.
func (r *tripRepo) MarkFailed(tripID uuid.UUID, stx *model.StageTransaction) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.Trip{}).
			Where("id = ? AND status = ?", tripID, model.TripActive).
			Updates(map[string]interface{}{
				"status":     model.TripFailed,
				"updated_by": stx.StaffID,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrStageConflict
		}

		return tx.Create(stx).Error
	})
}

func (r *tripRepo) History(tripID uuid.UUID) ([]model.StageTransaction, error) {
	transactions := []model.StageTransaction{}
	err := r.db.Where("trip_id = ?", tripID).
		Order("action_timestamp ASC").
		Find(&transactions).Error
	return transactions, err
}

func (r *tripRepo) GetDashboardStats() (*DashboardStats, error) {
	var stats DashboardStats

	r.db.Model(&model.Trip{}).Where("status = ?", model.TripActive).Count(&stats.OpenTrips)

	today := time.Now().Truncate(24 * time.Hour)
	r.db.Model(&model.Trip{}).
		Where("status = ? AND completed_at >= ?", model.TripCompleted, today).
		Count(&stats.CompletedToday)

	r.db.Model(&model.Vehicle{}).
		Where("approval_status = ?", model.ApprovalPending).
		Count(&stats.PendingVehicles)

	r.db.Model(&model.Trip{}).
		Where("status = ? AND completed_at >= ? AND gross_weight IS NOT NULL AND tare_weight IS NOT NULL", model.TripCompleted, today).
		Select("COALESCE(SUM(gross_weight - tare_weight), 0)").
		Scan(&stats.NetWeightToday)

	return &stats, nil
}

func (r *tripRepo) GetTripThroughput(startDate, endDate time.Time) ([]TripThroughputData, error) {
	var results []TripThroughputData

	rows, err := r.db.Model(&model.Trip{}).
		Select(`
			DATE(created_at) as date,
			COUNT(*) as started,
			COALESCE(SUM(CASE WHEN status = 'COMPLETED' THEN 1 ELSE 0 END), 0) as completed
		`).
		Where("created_at BETWEEN ? AND ?", startDate, endDate).
		Group("DATE(created_at)").
		Order("date ASC").
		Rows()

	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var data TripThroughputData
		if err := rows.Scan(&data.Date, &data.Started, &data.Completed); err != nil {
			return nil, err
		}
		results = append(results, data)
	}

	return results, nil
}
