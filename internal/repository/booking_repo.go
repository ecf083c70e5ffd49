package repository

import (
	"context"
	"time"

	"handyconnect/internal/domain"

	"gorm.io/gorm"
)

type BookingRepository struct {
	db *gorm.DB
}

func NewBookingRepository(db *gorm.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

type bookingModel struct {
	ID           int64      `gorm:"column:id;primaryKey"`
	CustomerID   int64      `gorm:"column:customer_id;index"`
	ServiceType  string     `gorm:"column:service_type"`
	Problem      string     `gorm:"column:problem"`
	Urgency      string     `gorm:"column:urgency"`
	BookingFor   string     `gorm:"column:booking_for"`
	Address      string     `gorm:"column:address"`
	City         string     `gorm:"column:city"`
	Date         string     `gorm:"column:date"`
	Time         string     `gorm:"column:time"`
	ContactName  string     `gorm:"column:contact_name"`
	ContactPhone string     `gorm:"column:contact_phone"`
	ContactEmail string     `gorm:"column:contact_email"`
	Status       string     `gorm:"column:status;index"`
	AcceptedBy   *int64     `gorm:"column:accepted_by;index"`
	AcceptedAt   *time.Time `gorm:"column:accepted_at"`
	CompletedAt  *time.Time `gorm:"column:completed_at"`
	Rating       *int       `gorm:"column:rating"`
	Review       *string    `gorm:"column:review"`
	RatedAt      *time.Time `gorm:"column:rated_at"`
	CreatedAt    time.Time  `gorm:"column:created_at"`
	UpdatedAt    time.Time  `gorm:"column:updated_at"`
}

func (bookingModel) TableName() string { return "bookings" }

func toDomainBooking(m bookingModel) *domain.Booking {
	return &domain.Booking{
		ID:          m.ID,
		CustomerID:  m.CustomerID,
		ServiceType: m.ServiceType,
		Problem:     m.Problem,
		Urgency:     domain.Urgency(m.Urgency),
		BookingFor:  domain.BookingFor(m.BookingFor),
		Location: domain.ServiceLocation{
			Address: m.Address,
			City:    m.City,
		},
		Date:         m.Date,
		Time:         m.Time,
		ContactName:  m.ContactName,
		ContactPhone: m.ContactPhone,
		ContactEmail: m.ContactEmail,
		Status:       domain.BookingStatus(m.Status),
		AcceptedBy:   m.AcceptedBy,
		AcceptedAt:   m.AcceptedAt,
		CompletedAt:  m.CompletedAt,
		Rating:       m.Rating,
		Review:       strFromPtr(m.Review),
		RatedAt:      m.RatedAt,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

func toBookingModel(b *domain.Booking) bookingModel {
	return bookingModel{
		ID:           b.ID,
		CustomerID:   b.CustomerID,
		ServiceType:  b.ServiceType,
		Problem:      b.Problem,
		Urgency:      string(b.Urgency),
		BookingFor:   string(b.BookingFor),
		Address:      b.Location.Address,
		City:         b.Location.City,
		Date:         b.Date,
		Time:         b.Time,
		ContactName:  b.ContactName,
		ContactPhone: b.ContactPhone,
		ContactEmail: b.ContactEmail,
		Status:       string(b.Status),
		AcceptedBy:   b.AcceptedBy,
		AcceptedAt:   b.AcceptedAt,
		CompletedAt:  b.CompletedAt,
		Rating:       b.Rating,
		Review:       ptrFromStr(b.Review),
		RatedAt:      b.RatedAt,
		CreatedAt:    b.CreatedAt,
		UpdatedAt:    b.UpdatedAt,
	}
}

func (r *BookingRepository) Create(ctx context.Context, b *domain.Booking) error {
	m := toBookingModel(b)
	tx := r.db.WithContext(ctx).Create(&m)
	if tx.Error != nil {
		return tx.Error
	}
	*b = *toDomainBooking(m)
	return nil
}

func (r *BookingRepository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	var m bookingModel
	tx := r.db.WithContext(ctx).First(&m, id)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return toDomainBooking(m), nil
}

// ClaimIfPending atomically moves a booking from pending to accepted for the
// given worker. The status guard in the WHERE clause is what arbitrates
// concurrent claims: the second worker to commit matches zero rows.
func (r *BookingRepository) ClaimIfPending(ctx context.Context, bookingID, workerID int64, at time.Time) (bool, error) {
	tx := r.db.WithContext(ctx).Exec(`
UPDATE bookings
SET status = ?, accepted_by = ?, accepted_at = ?, updated_at = ?
WHERE id = ? AND status = ?`,
		string(domain.BookingAccepted), workerID, at, at,
		bookingID, string(domain.BookingPending),
	)
	if tx.Error != nil {
		return false, tx.Error
	}
	return tx.RowsAffected == 1, nil
}

// RejectIfPending uses the same status guard as ClaimIfPending so that a
// reject racing an accept also resolves to exactly one winner.
func (r *BookingRepository) RejectIfPending(ctx context.Context, bookingID int64, at time.Time) (bool, error) {
	tx := r.db.WithContext(ctx).Exec(`
UPDATE bookings
SET status = ?, updated_at = ?
WHERE id = ? AND status = ?`,
		string(domain.BookingRejected), at,
		bookingID, string(domain.BookingPending),
	)
	if tx.Error != nil {
		return false, tx.Error
	}
	return tx.RowsAffected == 1, nil
}

// CompleteIfAccepted requires both the accepted status and the claiming
// worker to match.
func (r *BookingRepository) CompleteIfAccepted(ctx context.Context, bookingID, workerID int64, at time.Time) (bool, error) {
	tx := r.db.WithContext(ctx).Exec(`
UPDATE bookings
SET status = ?, completed_at = ?, updated_at = ?
WHERE id = ? AND status = ? AND accepted_by = ?`,
		string(domain.BookingCompleted), at, at,
		bookingID, string(domain.BookingAccepted), workerID,
	)
	if tx.Error != nil {
		return false, tx.Error
	}
	return tx.RowsAffected == 1, nil
}

// RateIfUnrated writes the one-shot rating overlay. The rated_at IS NULL
// guard makes a second rating attempt match zero rows instead of
// overwriting the first.
func (r *BookingRepository) RateIfUnrated(ctx context.Context, bookingID int64, rating int, review string, at time.Time) (bool, error) {
	tx := r.db.WithContext(ctx).Exec(`
UPDATE bookings
SET rating = ?, review = ?, rated_at = ?, updated_at = ?
WHERE id = ? AND status = ? AND rated_at IS NULL`,
		rating, review, at, at,
		bookingID, string(domain.BookingCompleted),
	)
	if tx.Error != nil {
		return false, tx.Error
	}
	return tx.RowsAffected == 1, nil
}

// ListOpenByCityAndService returns pending bookings matching city and
// service type, case-insensitively, newest first.
func (r *BookingRepository) ListOpenByCityAndService(ctx context.Context, city, serviceType string) ([]domain.Booking, error) {
	var models []bookingModel
	tx := r.db.WithContext(ctx).
		Where("status = ? AND LOWER(city) = LOWER(?) AND LOWER(service_type) = LOWER(?)",
			string(domain.BookingPending), city, serviceType).
		Order("created_at DESC").
		Find(&models)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return toDomainBookings(models), nil
}

func (r *BookingRepository) ListAcceptedByWorker(ctx context.Context, workerID int64) ([]domain.Booking, error) {
	var models []bookingModel
	tx := r.db.WithContext(ctx).
		Where("accepted_by = ? AND status = ?", workerID, string(domain.BookingAccepted)).
		Order("accepted_at DESC").
		Find(&models)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return toDomainBookings(models), nil
}

func (r *BookingRepository) ListCompletedByWorker(ctx context.Context, workerID int64) ([]domain.Booking, error) {
	var models []bookingModel
	tx := r.db.WithContext(ctx).
		Where("accepted_by = ? AND status = ?", workerID, string(domain.BookingCompleted)).
		Order("completed_at DESC").
		Find(&models)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return toDomainBookings(models), nil
}

func (r *BookingRepository) ListByCustomer(ctx context.Context, customerID int64) ([]domain.Booking, error) {
	var models []bookingModel
	tx := r.db.WithContext(ctx).
		Where("customer_id = ?", customerID).
		Order("created_at DESC").
		Find(&models)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return toDomainBookings(models), nil
}

func (r *BookingRepository) Count(ctx context.Context) (int64, error) {
	var cnt int64
	tx := r.db.WithContext(ctx).Model(&bookingModel{}).Count(&cnt)
	if tx.Error != nil {
		return 0, tx.Error
	}
	return cnt, nil
}

func toDomainBookings(models []bookingModel) []domain.Booking {
	out := make([]domain.Booking, 0, len(models))
	for _, m := range models {
		out = append(out, *toDomainBooking(m))
	}
	return out
}
