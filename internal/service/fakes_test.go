package service

import (
	"sync"
	"time"

	"go-weighbridge-ws/internal/model"
	"go-weighbridge-ws/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// In-memory fakes honoring the repository contracts, including the
// stage-guarded conditional writes and the unique registration number.

type fakeVehicleRepo struct {
	mu          sync.Mutex
	byReg       map[string]*model.Vehicle
	byID        map[uuid.UUID]*model.Vehicle
	createErr   error // one-shot injected failure, cleared after use
	missLookups int   // force this many not-found lookups first
}

func newFakeVehicleRepo() *fakeVehicleRepo {
	return &fakeVehicleRepo{
		byReg: make(map[string]*model.Vehicle),
		byID:  make(map[uuid.UUID]*model.Vehicle),
	}
}

func (r *fakeVehicleRepo) Create(vehicle *model.Vehicle) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		err := r.createErr
		r.createErr = nil
		return err
	}
	if _, exists := r.byReg[vehicle.RegistrationNumber]; exists {
		return gorm.ErrDuplicatedKey
	}
	vehicle.ID = uuid.New()
	cp := *vehicle
	r.byReg[vehicle.RegistrationNumber] = &cp
	r.byID[vehicle.ID] = &cp
	return nil
}

func (r *fakeVehicleRepo) FindByID(id uuid.UUID) (*model.Vehicle, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.byID[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *v
	return &cp, nil
}

func (r *fakeVehicleRepo) FindByRegistrationNumber(reg string) (*model.Vehicle, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.missLookups > 0 {
		r.missLookups--
		return nil, gorm.ErrRecordNotFound
	}
	v, ok := r.byReg[reg]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *v
	return &cp, nil
}

func (r *fakeVehicleRepo) FindAll(approvalStatus string, skip, limit int) ([]model.Vehicle, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Vehicle
	for _, v := range r.byID {
		if approvalStatus == "" || string(v.ApprovalStatus) == approvalStatus {
			out = append(out, *v)
		}
	}
	return out, nil
}

func (r *fakeVehicleRepo) UpdateApprovalStatus(id uuid.UUID, status model.ApprovalStatus, updatedBy string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.byID[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	v.ApprovalStatus = status
	return nil
}

type fakeDriverRepo struct {
	mu        sync.Mutex
	byID      map[uuid.UUID]*model.Driver
	createErr error
}

func newFakeDriverRepo() *fakeDriverRepo {
	return &fakeDriverRepo{byID: make(map[uuid.UUID]*model.Driver)}
}

func (r *fakeDriverRepo) Create(driver *model.Driver) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		err := r.createErr
		r.createErr = nil
		return err
	}
	driver.ID = uuid.New()
	cp := *driver
	r.byID[driver.ID] = &cp
	return nil
}

func (r *fakeDriverRepo) FindByID(id uuid.UUID) (*model.Driver, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.byID[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *d
	return &cp, nil
}

func (r *fakeDriverRepo) FindAll(approvalStatus string, skip, limit int) ([]model.Driver, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Driver
	for _, d := range r.byID {
		if approvalStatus == "" || string(d.ApprovalStatus) == approvalStatus {
			out = append(out, *d)
		}
	}
	return out, nil
}

func (r *fakeDriverRepo) UpdateApprovalStatus(id uuid.UUID, status model.ApprovalStatus, updatedBy string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.byID[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	d.ApprovalStatus = status
	return nil
}

type fakeTripRepo struct {
	mu      sync.Mutex
	byID    map[uuid.UUID]*model.Trip
	history map[uuid.UUID][]model.StageTransaction
}

func newFakeTripRepo() *fakeTripRepo {
	return &fakeTripRepo{
		byID:    make(map[uuid.UUID]*model.Trip),
		history: make(map[uuid.UUID][]model.StageTransaction),
	}
}

func (r *fakeTripRepo) Create(trip *model.Trip) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	trip.ID = uuid.New()
	trip.CreatedAt = time.Now()
	cp := *trip
	r.byID[trip.ID] = &cp
	return nil
}

func (r *fakeTripRepo) FindByID(id uuid.UUID) (*model.Trip, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.byID[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *t
	return &cp, nil
}

func (r *fakeTripRepo) FindAll(status string, skip, limit int) ([]model.Trip, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Trip
	for _, t := range r.byID {
		if status == "" || string(t.Status) == status {
			out = append(out, *t)
		}
	}
	return out, nil
}

// AdvanceStage mirrors the store's conditional write: the update only
// lands if the trip still sits at `from` and is still active.
func (r *fakeTripRepo) AdvanceStage(tripID uuid.UUID, from, to model.TripStage, completed bool, stx *model.StageTransaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.byID[tripID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if t.CurrentStage != from || t.Status != model.TripActive {
		return repository.ErrStageConflict
	}
	t.CurrentStage = to
	if completed {
		t.Status = model.TripCompleted
		now := time.Now()
		t.CompletedAt = &now
	}
	r.history[tripID] = append(r.history[tripID], *stx)
	return nil
}

func (r *fakeTripRepo) MarkFailed(tripID uuid.UUID, stx *model.StageTransaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.byID[tripID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if t.Status != model.TripActive {
		return repository.ErrStageConflict
	}
	t.Status = model.TripFailed
	r.history[tripID] = append(r.history[tripID], *stx)
	return nil
}

func (r *fakeTripRepo) History(tripID uuid.UUID) ([]model.StageTransaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]model.StageTransaction, len(r.history[tripID]))
	copy(out, r.history[tripID])
	return out, nil
}

func (r *fakeTripRepo) GetDashboardStats() (*repository.DashboardStats, error) {
	return &repository.DashboardStats{}, nil
}

func (r *fakeTripRepo) GetTripThroughput(startDate, endDate time.Time) ([]repository.TripThroughputData, error) {
	return nil, nil
}

type fakeWeightRepo struct {
	mu       sync.Mutex
	tripRepo *fakeTripRepo
	byTrip   map[uuid.UUID][]model.Weight
}

func newFakeWeightRepo(tripRepo *fakeTripRepo) *fakeWeightRepo {
	return &fakeWeightRepo{tripRepo: tripRepo, byTrip: make(map[uuid.UUID][]model.Weight)}
}

func (r *fakeWeightRepo) Capture(weight *model.Weight, stage model.TripStage) error {
	r.tripRepo.mu.Lock()
	defer r.tripRepo.mu.Unlock()
	t, ok := r.tripRepo.byID[weight.TripID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if t.CurrentStage != stage || t.Status != model.TripActive {
		return repository.ErrStageConflict
	}
	switch weight.WeightType {
	case model.WeightGross:
		v := weight.WeightValue
		t.GrossWeight = &v
	case model.WeightTare:
		v := weight.WeightValue
		t.TareWeight = &v
	}
	weight.ID = uuid.New()
	r.mu.Lock()
	r.byTrip[weight.TripID] = append(r.byTrip[weight.TripID], *weight)
	r.mu.Unlock()
	return nil
}

func (r *fakeWeightRepo) FindByTrip(tripID uuid.UUID) ([]model.Weight, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]model.Weight, len(r.byTrip[tripID]))
	copy(out, r.byTrip[tripID])
	return out, nil
}

type fakeUnloadingRepo struct {
	mu       sync.Mutex
	tripRepo *fakeTripRepo
	byTrip   map[uuid.UUID][]model.MaterialUnloading
}

func newFakeUnloadingRepo(tripRepo *fakeTripRepo) *fakeUnloadingRepo {
	return &fakeUnloadingRepo{tripRepo: tripRepo, byTrip: make(map[uuid.UUID][]model.MaterialUnloading)}
}

func (r *fakeUnloadingRepo) CreateAtStage(unloading *model.MaterialUnloading, stage model.TripStage) error {
	r.tripRepo.mu.Lock()
	defer r.tripRepo.mu.Unlock()
	t, ok := r.tripRepo.byID[unloading.TripID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if t.CurrentStage != stage || t.Status != model.TripActive {
		return repository.ErrStageConflict
	}
	unloading.ID = uuid.New()
	r.mu.Lock()
	r.byTrip[unloading.TripID] = append(r.byTrip[unloading.TripID], *unloading)
	r.mu.Unlock()
	return nil
}

func (r *fakeUnloadingRepo) FindByTrip(tripID uuid.UUID) ([]model.MaterialUnloading, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]model.MaterialUnloading, len(r.byTrip[tripID]))
	copy(out, r.byTrip[tripID])
	return out, nil
}

type fakePORepo struct {
	mu    sync.Mutex
	byID  map[uuid.UUID]*model.PurchaseOrder
	byRef map[string]*model.PurchaseOrder
}

func newFakePORepo() *fakePORepo {
	return &fakePORepo{
		byID:  make(map[uuid.UUID]*model.PurchaseOrder),
		byRef: make(map[string]*model.PurchaseOrder),
	}
}

func (r *fakePORepo) Create(po *model.PurchaseOrder) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.byRef[po.Reference]; exists {
		return gorm.ErrDuplicatedKey
	}
	po.ID = uuid.New()
	for i := range po.Materials {
		po.Materials[i].ID = uuid.New()
		po.Materials[i].POID = po.ID
	}
	cp := *po
	r.byID[po.ID] = &cp
	r.byRef[po.Reference] = &cp
	return nil
}

func (r *fakePORepo) FindByID(id uuid.UUID) (*model.PurchaseOrder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	po, ok := r.byID[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *po
	cp.Materials = make([]model.POMaterial, len(po.Materials))
	copy(cp.Materials, po.Materials)
	return &cp, nil
}

func (r *fakePORepo) FindByReference(reference string) (*model.PurchaseOrder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	po, ok := r.byRef[reference]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *po
	return &cp, nil
}

func (r *fakePORepo) FindAll(status string, skip, limit int) ([]model.PurchaseOrder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.PurchaseOrder
	for _, po := range r.byID {
		if status == "" || string(po.Status) == status {
			out = append(out, *po)
		}
	}
	return out, nil
}

func (r *fakePORepo) UpdateMaterialReceived(poID, materialID uuid.UUID, receivedQty float64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	po, ok := r.byID[poID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	for i := range po.Materials {
		if po.Materials[i].ID == materialID {
			po.Materials[i].ReceivedQty = receivedQty
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (r *fakePORepo) UpdateStatus(poID uuid.UUID, status model.POStatus, updatedBy string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	po, ok := r.byID[poID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	po.Status = status
	return nil
}
