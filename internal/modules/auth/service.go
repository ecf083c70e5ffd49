package auth

import (
	"context"
	"errors"
	"strings"

	"handyconnect/internal/domain"
	jwtsvc "handyconnect/internal/pkg/jwt"
	pkgvalidator "handyconnect/internal/pkg/validator"

	"github.com/jackc/pgx/v5/pgconn"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type jwtService interface {
	GenerateToken(subjectID int64, kind string) (string, error)
}

// Service owns registration, login and profile updates for all three
// principal kinds. Each kind has its own credential space and token kind.
type Service struct {
	customers CustomerRepository
	workers   WorkerRepository
	admins    AdminRepository
	jwt       jwtService
}

func NewService(customers CustomerRepository, workers WorkerRepository, admins AdminRepository, jwt jwtService) *Service {
	return &Service{
		customers: customers,
		workers:   workers,
		admins:    admins,
		jwt:       jwt,
	}
}

func (s *Service) RegisterCustomer(ctx context.Context, req RegisterCustomerRequest) (*domain.Customer, error) {
	if req.Password != req.ConfirmPassword {
		return nil, ErrPasswordMismatch
	}

	exists, err := s.customers.ExistsByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrEmailAlreadyExists
	}

	hash, err := hashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	customer := &domain.Customer{
		Name:         req.Name,
		Phone:        req.Phone,
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		PasswordHash: hash,
		Address:      req.Address,
		City:         req.City,
		State:        req.State,
		Pincode:      req.Pincode,
	}

	if fields := pkgvalidator.Validate(customer); fields != nil {
		return nil, ErrValidation
	}

	if err := s.customers.Create(ctx, customer); err != nil {
		if isUniqueViolation(err) {
			return nil, ErrEmailAlreadyExists
		}
		return nil, err
	}

	customer.PasswordHash = ""
	return customer, nil
}

func (s *Service) LoginCustomer(ctx context.Context, req LoginRequest) (*domain.Customer, string, error) {
	customer, err := s.customers.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}

	if bcrypt.CompareHashAndPassword([]byte(customer.PasswordHash), []byte(req.Password)) != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.jwt.GenerateToken(customer.ID, jwtsvc.KindCustomer)
	if err != nil {
		return nil, "", err
	}

	customer.PasswordHash = ""
	return customer, token, nil
}

// RegisterWorker creates the worker in pending status. No token is issued
// at signup; the account cannot log in until an administrator approves it.
func (s *Service) RegisterWorker(ctx context.Context, req RegisterWorkerRequest) (*domain.Worker, error) {
	if req.Password != req.ConfirmPassword {
		return nil, ErrPasswordMismatch
	}

	exists, err := s.workers.ExistsByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrEmailAlreadyExists
	}

	hash, err := hashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	worker := &domain.Worker{
		Name:         req.Name,
		Phone:        req.Phone,
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		PasswordHash: hash,
		Address:      req.Address,
		City:         req.City,
		State:        req.State,
		Pincode:      req.Pincode,
		Aadhaar:      req.Aadhaar,
		ProfilePhoto: req.ProfilePhotoURL,
		AadhaarPhoto: req.AadhaarPhotoURL,
		ServiceType:  req.ServiceType,
		Status:       domain.WorkerPending,
	}

	if fields := pkgvalidator.Validate(worker); fields != nil {
		return nil, ErrValidation
	}

	if err := s.workers.Create(ctx, worker); err != nil {
		if isUniqueViolation(err) {
			return nil, ErrEmailAlreadyExists
		}
		return nil, err
	}

	worker.PasswordHash = ""
	return worker, nil
}

// LoginWorker checks credentials first, then the approval gate. The gate
// is evaluated on every login — approval state is never cached in a token.
func (s *Service) LoginWorker(ctx context.Context, req LoginRequest) (*domain.Worker, string, error) {
	worker, err := s.workers.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}

	if bcrypt.CompareHashAndPassword([]byte(worker.PasswordHash), []byte(req.Password)) != nil {
		return nil, "", ErrInvalidCredentials
	}

	switch worker.Status {
	case domain.WorkerPending:
		return nil, "", ErrPendingApproval
	case domain.WorkerRejected:
		reason := worker.RejectionReason
		if reason == "" {
			reason = "Not specified"
		}
		return nil, "", &RejectedAccountError{Reason: reason}
	}

	token, err := s.jwt.GenerateToken(worker.ID, jwtsvc.KindWorker)
	if err != nil {
		return nil, "", err
	}

	worker.PasswordHash = ""
	return worker, token, nil
}

func (s *Service) LoginAdmin(ctx context.Context, req LoginRequest) (*domain.Admin, string, error) {
	admin, err := s.admins.GetActiveByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}

	if bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(req.Password)) != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.jwt.GenerateToken(admin.ID, jwtsvc.KindAdmin)
	if err != nil {
		return nil, "", err
	}

	admin.PasswordHash = ""
	return admin, token, nil
}

func (s *Service) GetCustomer(ctx context.Context, id int64) (*domain.Customer, error) {
	customer, err := s.customers.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	customer.PasswordHash = ""
	return customer, nil
}

func (s *Service) UpdateCustomerProfile(ctx context.Context, id int64, req UpdateCustomerProfileRequest) (*domain.Customer, error) {
	customer, err := s.customers.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	applyIfSet(&customer.Name, req.Name)
	applyIfSet(&customer.Phone, req.Phone)
	applyIfSet(&customer.Address, req.Address)
	applyIfSet(&customer.City, req.City)
	applyIfSet(&customer.State, req.State)
	applyIfSet(&customer.Pincode, req.Pincode)

	if err := s.customers.Update(ctx, customer); err != nil {
		return nil, err
	}

	customer.PasswordHash = ""
	return customer, nil
}

func (s *Service) GetWorker(ctx context.Context, id int64) (*domain.Worker, error) {
	worker, err := s.workers.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	worker.PasswordHash = ""
	return worker, nil
}

func (s *Service) UpdateWorkerProfile(ctx context.Context, id int64, req UpdateWorkerProfileRequest) (*domain.Worker, error) {
	worker, err := s.workers.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	applyIfSet(&worker.Name, req.Name)
	applyIfSet(&worker.Phone, req.Phone)
	applyIfSet(&worker.Address, req.Address)
	applyIfSet(&worker.City, req.City)
	applyIfSet(&worker.State, req.State)
	applyIfSet(&worker.Pincode, req.Pincode)

	if err := s.workers.Update(ctx, worker); err != nil {
		return nil, err
	}

	worker.PasswordHash = ""
	return worker, nil
}

func (s *Service) ResetCustomerPassword(ctx context.Context, req ResetPasswordRequest) error {
	customer, err := s.customers.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}

	hash, err := hashPassword(req.NewPassword)
	if err != nil {
		return err
	}

	customer.PasswordHash = hash
	return s.customers.Update(ctx, customer)
}

func (s *Service) ResetWorkerPassword(ctx context.Context, req ResetPasswordRequest) error {
	worker, err := s.workers.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}

	hash, err := hashPassword(req.NewPassword)
	if err != nil {
		return err
	}

	worker.PasswordHash = hash
	return s.workers.Update(ctx, worker)
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func applyIfSet(dst *string, v string) {
	if strings.TrimSpace(v) != "" {
		*dst = v
	}
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	// SQLite (local dev and tests)
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
