package admin

import (
	"context"
	"errors"
	"strings"
	"time"

	"handyconnect/internal/domain"

	"gorm.io/gorm"
)

// Service is the worker approval gate plus admin-side worker management.
// Admins never operate on bookings.
type Service struct {
	workers  WorkerRepository
	admins   AdminRepository
	bookings BookingCounter
}

func NewService(workers WorkerRepository, admins AdminRepository, bookings BookingCounter) *Service {
	return &Service{
		workers:  workers,
		admins:   admins,
		bookings: bookings,
	}
}

func (s *Service) ListPendingWorkers(ctx context.Context) ([]domain.Worker, error) {
	return s.listSanitized(ctx, domain.WorkerPending)
}

func (s *Service) ListWorkers(ctx context.Context, status domain.ApprovalStatus) ([]domain.Worker, error) {
	if status == "" {
		status = domain.WorkerApproved
	}
	return s.listSanitized(ctx, status)
}

func (s *Service) GetWorker(ctx context.Context, workerID int64) (*WorkerDetails, error) {
	worker, err := s.getWorker(ctx, workerID)
	if err != nil {
		return nil, err
	}
	worker.PasswordHash = ""

	details := &WorkerDetails{Worker: worker}
	if worker.ApprovedBy != nil {
		if approver, err := s.admins.GetByID(ctx, *worker.ApprovedBy); err == nil {
			details.Approver = &ApproverInfo{
				ID:    approver.ID,
				Name:  approver.Name,
				Email: approver.Email,
			}
		}
	}
	return details, nil
}

// ApproveWorker admits a pending worker. Approving also clears any
// rejection reason left over from an earlier reject/re-pend cycle.
func (s *Service) ApproveWorker(ctx context.Context, workerID, adminID int64) (*domain.Worker, error) {
	worker, err := s.getWorker(ctx, workerID)
	if err != nil {
		return nil, err
	}

	if worker.Status != domain.WorkerPending {
		return nil, ErrNotPending
	}

	now := time.Now()
	worker.Status = domain.WorkerApproved
	worker.ApprovedBy = &adminID
	worker.ApprovedAt = &now
	worker.RejectionReason = ""

	if err := s.workers.Update(ctx, worker); err != nil {
		return nil, err
	}

	worker.PasswordHash = ""
	return worker, nil
}

// RejectWorker turns a pending worker away. The reason is mandatory; it
// is echoed back to the worker at every login attempt.
func (s *Service) RejectWorker(ctx context.Context, workerID int64, reason string) (*domain.Worker, error) {
	if strings.TrimSpace(reason) == "" {
		return nil, ErrMissingReason
	}

	worker, err := s.getWorker(ctx, workerID)
	if err != nil {
		return nil, err
	}

	if worker.Status != domain.WorkerPending {
		return nil, ErrNotPending
	}

	worker.Status = domain.WorkerRejected
	worker.RejectionReason = strings.TrimSpace(reason)
	worker.ApprovedBy = nil
	worker.ApprovedAt = nil

	if err := s.workers.Update(ctx, worker); err != nil {
		return nil, err
	}

	worker.PasswordHash = ""
	return worker, nil
}

// ReopenWorker moves a rejected worker back to pending so the account can
// be re-reviewed, clearing the old rejection reason.
func (s *Service) ReopenWorker(ctx context.Context, workerID int64) (*domain.Worker, error) {
	worker, err := s.getWorker(ctx, workerID)
	if err != nil {
		return nil, err
	}

	if worker.Status != domain.WorkerRejected {
		return nil, ErrNotPending
	}

	worker.Status = domain.WorkerPending
	worker.RejectionReason = ""
	worker.ApprovedBy = nil
	worker.ApprovedAt = nil

	if err := s.workers.Update(ctx, worker); err != nil {
		return nil, err
	}

	worker.PasswordHash = ""
	return worker, nil
}

func (s *Service) RemoveWorker(ctx context.Context, workerID int64) error {
	if err := s.workers.Delete(ctx, workerID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

func (s *Service) GetDashboardStats(ctx context.Context) (*DashboardStats, error) {
	stats := &DashboardStats{}

	var err error
	if stats.Workers.Pending, err = s.workers.CountByStatus(ctx, domain.WorkerPending); err != nil {
		return nil, err
	}
	if stats.Workers.Approved, err = s.workers.CountByStatus(ctx, domain.WorkerApproved); err != nil {
		return nil, err
	}
	if stats.Workers.Rejected, err = s.workers.CountByStatus(ctx, domain.WorkerRejected); err != nil {
		return nil, err
	}
	if stats.Workers.Total, err = s.workers.Count(ctx); err != nil {
		return nil, err
	}
	if stats.TotalBookings, err = s.bookings.Count(ctx); err != nil {
		return nil, err
	}

	return stats, nil
}

func (s *Service) getWorker(ctx context.Context, workerID int64) (*domain.Worker, error) {
	worker, err := s.workers.GetByID(ctx, workerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return worker, nil
}

func (s *Service) listSanitized(ctx context.Context, status domain.ApprovalStatus) ([]domain.Worker, error) {
	workers, err := s.workers.ListByStatus(ctx, status)
	if err != nil {
		return nil, err
	}
	for i := range workers {
		workers[i].PasswordHash = ""
	}
	return workers, nil
}
