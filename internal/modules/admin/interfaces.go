package admin

import (
	"context"

	"handyconnect/internal/domain"
)

type WorkerRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Worker, error)
	Update(ctx context.Context, w *domain.Worker) error
	Delete(ctx context.Context, id int64) error
	ListByStatus(ctx context.Context, status domain.ApprovalStatus) ([]domain.Worker, error)
	CountByStatus(ctx context.Context, status domain.ApprovalStatus) (int64, error)
	Count(ctx context.Context) (int64, error)
}

type AdminRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Admin, error)
}

type BookingCounter interface {
	Count(ctx context.Context) (int64, error)
}
