package repository

import (
	"context"
	"strings"
	"time"

	"handyconnect/internal/domain"

	"gorm.io/gorm"
)

type WorkerRepository struct {
	db *gorm.DB
}

func NewWorkerRepository(db *gorm.DB) *WorkerRepository {
	return &WorkerRepository{db: db}
}

type workerModel struct {
	ID              int64      `gorm:"column:id;primaryKey"`
	Name            string     `gorm:"column:name"`
	Phone           string     `gorm:"column:phone"`
	Email           string     `gorm:"column:email;uniqueIndex"`
	PasswordHash    string     `gorm:"column:password_hash"`
	Address         *string    `gorm:"column:address"`
	City            *string    `gorm:"column:city"`
	State           *string    `gorm:"column:state"`
	Pincode         *string    `gorm:"column:pincode"`
	Aadhaar         *string    `gorm:"column:aadhaar"`
	ProfilePhoto    *string    `gorm:"column:profile_photo_url"`
	AadhaarPhoto    *string    `gorm:"column:aadhaar_photo_url"`
	ServiceType     string     `gorm:"column:service_type"`
	Status          string     `gorm:"column:status"`
	ApprovedBy      *int64     `gorm:"column:approved_by"`
	ApprovedAt      *time.Time `gorm:"column:approved_at"`
	RejectionReason *string    `gorm:"column:rejection_reason"`
	CreatedAt       time.Time  `gorm:"column:created_at"`
	UpdatedAt       time.Time  `gorm:"column:updated_at"`
}

func (workerModel) TableName() string { return "workers" }

func toDomainWorker(m workerModel) *domain.Worker {
	return &domain.Worker{
		ID:              m.ID,
		Name:            m.Name,
		Phone:           m.Phone,
		Email:           m.Email,
		PasswordHash:    m.PasswordHash,
		Address:         strFromPtr(m.Address),
		City:            strFromPtr(m.City),
		State:           strFromPtr(m.State),
		Pincode:         strFromPtr(m.Pincode),
		Aadhaar:         strFromPtr(m.Aadhaar),
		ProfilePhoto:    strFromPtr(m.ProfilePhoto),
		AadhaarPhoto:    strFromPtr(m.AadhaarPhoto),
		ServiceType:     m.ServiceType,
		Status:          domain.ApprovalStatus(m.Status),
		ApprovedBy:      m.ApprovedBy,
		ApprovedAt:      m.ApprovedAt,
		RejectionReason: strFromPtr(m.RejectionReason),
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
}

func toWorkerModel(w *domain.Worker) workerModel {
	return workerModel{
		ID:              w.ID,
		Name:            w.Name,
		Phone:           w.Phone,
		Email:           strings.ToLower(strings.TrimSpace(w.Email)),
		PasswordHash:    w.PasswordHash,
		Address:         ptrFromStr(w.Address),
		City:            ptrFromStr(w.City),
		State:           ptrFromStr(w.State),
		Pincode:         ptrFromStr(w.Pincode),
		Aadhaar:         ptrFromStr(w.Aadhaar),
		ProfilePhoto:    ptrFromStr(w.ProfilePhoto),
		AadhaarPhoto:    ptrFromStr(w.AadhaarPhoto),
		ServiceType:     w.ServiceType,
		Status:          string(w.Status),
		ApprovedBy:      w.ApprovedBy,
		ApprovedAt:      w.ApprovedAt,
		RejectionReason: ptrFromStr(w.RejectionReason),
		CreatedAt:       w.CreatedAt,
		UpdatedAt:       w.UpdatedAt,
	}
}

func (r *WorkerRepository) Create(ctx context.Context, w *domain.Worker) error {
	m := toWorkerModel(w)
	tx := r.db.WithContext(ctx).Create(&m)
	if tx.Error != nil {
		return tx.Error
	}
	*w = *toDomainWorker(m)
	return nil
}

func (r *WorkerRepository) GetByEmail(ctx context.Context, email string) (*domain.Worker, error) {
	var m workerModel
	tx := r.db.WithContext(ctx).
		Where("LOWER(email) = ?", strings.ToLower(strings.TrimSpace(email))).
		First(&m)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return toDomainWorker(m), nil
}

func (r *WorkerRepository) GetByID(ctx context.Context, id int64) (*domain.Worker, error) {
	var m workerModel
	tx := r.db.WithContext(ctx).First(&m, id)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return toDomainWorker(m), nil
}

func (r *WorkerRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var cnt int64
	tx := r.db.WithContext(ctx).Model(&workerModel{}).
		Where("LOWER(email) = ?", strings.ToLower(strings.TrimSpace(email))).
		Count(&cnt)
	if tx.Error != nil {
		return false, tx.Error
	}
	return cnt > 0, nil
}

func (r *WorkerRepository) Update(ctx context.Context, w *domain.Worker) error {
	m := toWorkerModel(w)
	m.UpdatedAt = time.Now()
	tx := r.db.WithContext(ctx).Save(&m)
	if tx.Error != nil {
		return tx.Error
	}
	*w = *toDomainWorker(m)
	return nil
}

func (r *WorkerRepository) Delete(ctx context.Context, id int64) error {
	tx := r.db.WithContext(ctx).Delete(&workerModel{}, id)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *WorkerRepository) ListByStatus(ctx context.Context, status domain.ApprovalStatus) ([]domain.Worker, error) {
	var models []workerModel
	tx := r.db.WithContext(ctx).
		Where("status = ?", string(status)).
		Order("created_at DESC").
		Find(&models)
	if tx.Error != nil {
		return nil, tx.Error
	}

	out := make([]domain.Worker, 0, len(models))
	for _, m := range models {
		out = append(out, *toDomainWorker(m))
	}
	return out, nil
}

func (r *WorkerRepository) CountByStatus(ctx context.Context, status domain.ApprovalStatus) (int64, error) {
	var cnt int64
	tx := r.db.WithContext(ctx).Model(&workerModel{}).
		Where("status = ?", string(status)).
		Count(&cnt)
	if tx.Error != nil {
		return 0, tx.Error
	}
	return cnt, nil
}

func (r *WorkerRepository) Count(ctx context.Context) (int64, error) {
	var cnt int64
	tx := r.db.WithContext(ctx).Model(&workerModel{}).Count(&cnt)
	if tx.Error != nil {
		return 0, tx.Error
	}
	return cnt, nil
}
