package auth

import (
	"context"

	"handyconnect/internal/domain"
)

type CustomerRepository interface {
	Create(ctx context.Context, c *domain.Customer) error
	GetByEmail(ctx context.Context, email string) (*domain.Customer, error)
	GetByID(ctx context.Context, id int64) (*domain.Customer, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Update(ctx context.Context, c *domain.Customer) error
}

type WorkerRepository interface {
	Create(ctx context.Context, w *domain.Worker) error
	GetByEmail(ctx context.Context, email string) (*domain.Worker, error)
	GetByID(ctx context.Context, id int64) (*domain.Worker, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Update(ctx context.Context, w *domain.Worker) error
}

type AdminRepository interface {
	GetActiveByEmail(ctx context.Context, email string) (*domain.Admin, error)
}
