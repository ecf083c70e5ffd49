package booking

import (
	"context"
	"time"

	"handyconnect/internal/domain"
)

// BookingRepository is the persistence surface the transition engine needs.
// The four conditional writes are compare-and-set on the status column;
// they report whether the guarded row was actually updated.
type BookingRepository interface {
	Create(ctx context.Context, b *domain.Booking) error
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	ClaimIfPending(ctx context.Context, bookingID, workerID int64, at time.Time) (bool, error)
	RejectIfPending(ctx context.Context, bookingID int64, at time.Time) (bool, error)
	CompleteIfAccepted(ctx context.Context, bookingID, workerID int64, at time.Time) (bool, error)
	RateIfUnrated(ctx context.Context, bookingID int64, rating int, review string, at time.Time) (bool, error)
	ListOpenByCityAndService(ctx context.Context, city, serviceType string) ([]domain.Booking, error)
	ListAcceptedByWorker(ctx context.Context, workerID int64) ([]domain.Booking, error)
	ListCompletedByWorker(ctx context.Context, workerID int64) ([]domain.Booking, error)
	ListByCustomer(ctx context.Context, customerID int64) ([]domain.Booking, error)
}
