package booking

import (
	"context"
	"errors"
	"math"
	"strings"
	"time"

	"handyconnect/internal/domain"

	"gorm.io/gorm"
)

type Service struct {
	bookings BookingRepository
}

func NewService(bookings BookingRepository) *Service {
	return &Service{bookings: bookings}
}

// Create validates the request and opens a pending booking owned by the
// customer. All descriptive fields are required; the error lists every
// missing one so the client can fix them in a single round trip.
func (s *Service) Create(ctx context.Context, customerID int64, req CreateBookingRequest) (*domain.Booking, error) {
	missing := missingFields(req)
	if len(missing) > 0 {
		return nil, &MissingFieldsError{Fields: missing}
	}

	urgency := domain.Urgency(req.Urgency)
	switch urgency {
	case domain.UrgencyNormal, domain.UrgencyUrgent, domain.UrgencyEmergency:
	default:
		return nil, &MissingFieldsError{Fields: []string{"urgency"}}
	}

	bookingFor := domain.BookingFor(req.BookingFor)
	switch bookingFor {
	case domain.BookingForSelf, domain.BookingForOther:
	default:
		return nil, &MissingFieldsError{Fields: []string{"bookingFor"}}
	}

	b := &domain.Booking{
		CustomerID:   customerID,
		ServiceType:  strings.TrimSpace(req.ServiceType),
		Problem:      strings.TrimSpace(req.Problem),
		Urgency:      urgency,
		BookingFor:   bookingFor,
		Location: domain.ServiceLocation{
			Address: strings.TrimSpace(req.ServiceLocation.Address),
			City:    strings.TrimSpace(req.ServiceLocation.City),
		},
		Date:         req.Date,
		Time:         req.Time,
		ContactName:  strings.TrimSpace(req.ContactName),
		ContactPhone: strings.TrimSpace(req.ContactPhone),
		ContactEmail: strings.TrimSpace(req.ContactEmail),
		Status:       domain.BookingPending,
	}

	if err := s.bookings.Create(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

func missingFields(req CreateBookingRequest) []string {
	var missing []string
	check := func(name, value string) {
		if strings.TrimSpace(value) == "" {
			missing = append(missing, name)
		}
	}
	check("serviceType", req.ServiceType)
	check("problem", req.Problem)
	check("urgency", req.Urgency)
	check("bookingFor", req.BookingFor)
	check("serviceLocation.address", req.ServiceLocation.Address)
	check("serviceLocation.city", req.ServiceLocation.City)
	check("date", req.Date)
	check("time", req.Time)
	check("contactName", req.ContactName)
	check("contactPhone", req.ContactPhone)
	check("contactEmail", req.ContactEmail)
	return missing
}

// Decide is the worker's claim-or-reject call on a pending booking.
// Both paths are guarded updates on the status column, so when two workers
// act concurrently exactly one wins and the other gets ErrInvalidTransition.
// The loser learns nothing about who won.
func (s *Service) Decide(ctx context.Context, bookingID, workerID int64, status string) (*domain.Booking, error) {
	if status != string(domain.BookingAccepted) && status != string(domain.BookingRejected) {
		return nil, ErrValidation
	}

	if _, err := s.get(ctx, bookingID); err != nil {
		return nil, err
	}

	now := time.Now()
	var (
		ok  bool
		err error
	)
	if status == string(domain.BookingAccepted) {
		ok, err = s.bookings.ClaimIfPending(ctx, bookingID, workerID, now)
	} else {
		ok, err = s.bookings.RejectIfPending(ctx, bookingID, now)
	}
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrInvalidTransition
	}

	return s.get(ctx, bookingID)
}

// Complete moves an accepted booking to completed. Only the worker who
// claimed it may call this; everyone else gets ErrForbidden no matter what
// state the booking is in.
func (s *Service) Complete(ctx context.Context, bookingID, workerID int64) (*domain.Booking, error) {
	b, err := s.get(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if b.AcceptedBy == nil || *b.AcceptedBy != workerID {
		return nil, ErrForbidden
	}
	if b.Status != domain.BookingAccepted {
		return nil, ErrInvalidTransition
	}

	ok, err := s.bookings.CompleteIfAccepted(ctx, bookingID, workerID, time.Now())
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrInvalidTransition
	}

	return s.get(ctx, bookingID)
}

// Rate attaches the one-shot rating overlay to a completed booking.
// Re-rating fails closed: the first rating is never overwritten.
func (s *Service) Rate(ctx context.Context, bookingID, customerID int64, rating int, review string) (*domain.Booking, error) {
	if rating < 1 || rating > 5 {
		return nil, ErrValidation
	}

	b, err := s.get(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if b.CustomerID != customerID {
		return nil, ErrForbidden
	}
	if b.Status != domain.BookingCompleted {
		return nil, ErrInvalidTransition
	}
	if b.Rated() {
		return nil, ErrAlreadyRated
	}

	ok, err := s.bookings.RateIfUnrated(ctx, bookingID, rating, review, time.Now())
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrAlreadyRated
	}

	return s.get(ctx, bookingID)
}

// ListOpenFor surfaces pending bookings to workers by city and service
// type. Both filters are mandatory.
func (s *Service) ListOpenFor(ctx context.Context, city, serviceType string) ([]domain.Booking, error) {
	city = strings.TrimSpace(city)
	serviceType = strings.TrimSpace(serviceType)
	if city == "" || serviceType == "" {
		return nil, ErrValidation
	}
	return s.bookings.ListOpenByCityAndService(ctx, city, serviceType)
}

// ListClaimedBy is the worker's active queue: claimed, not yet completed.
func (s *Service) ListClaimedBy(ctx context.Context, workerID int64) ([]domain.Booking, error) {
	return s.bookings.ListAcceptedByWorker(ctx, workerID)
}

// ListMine returns all of a customer's bookings, newest first.
func (s *Service) ListMine(ctx context.Context, customerID int64) ([]domain.Booking, error) {
	return s.bookings.ListByCustomer(ctx, customerID)
}

// ListOwnedBy partitions a customer's bookings by status. The repository
// already orders newest-first, and the partition preserves that order.
func (s *Service) ListOwnedBy(ctx context.Context, customerID int64) (*CategorizedBookings, error) {
	all, err := s.bookings.ListByCustomer(ctx, customerID)
	if err != nil {
		return nil, err
	}

	out := &CategorizedBookings{
		Pending:   []domain.Booking{},
		Accepted:  []domain.Booking{},
		Rejected:  []domain.Booking{},
		Completed: []domain.Booking{},
	}
	for _, b := range all {
		switch b.Status {
		case domain.BookingPending:
			out.Pending = append(out.Pending, b)
		case domain.BookingAccepted:
			out.Accepted = append(out.Accepted, b)
		case domain.BookingRejected:
			out.Rejected = append(out.Rejected, b)
		case domain.BookingCompleted:
			out.Completed = append(out.Completed, b)
		}
	}
	return out, nil
}

// WorkerCompletedJobs returns a worker's completed bookings together with
// rating stats recomputed from the ledger.
func (s *Service) WorkerCompletedJobs(ctx context.Context, workerID int64) ([]domain.Booking, *WorkerStats, error) {
	jobs, err := s.bookings.ListCompletedByWorker(ctx, workerID)
	if err != nil {
		return nil, nil, err
	}

	stats := &WorkerStats{
		TotalCompletedJobs: len(jobs),
		RatingBreakdown:    map[int]int{1: 0, 2: 0, 3: 0, 4: 0, 5: 0},
	}

	sum := 0
	for _, job := range jobs {
		if job.Rating == nil {
			continue
		}
		stats.TotalRatings++
		sum += *job.Rating
		stats.RatingBreakdown[*job.Rating]++
	}

	if stats.TotalRatings > 0 {
		avg := float64(sum) / float64(stats.TotalRatings)
		stats.AverageRating = math.Round(avg*10) / 10
	}

	return jobs, stats, nil
}

func (s *Service) get(ctx context.Context, bookingID int64) (*domain.Booking, error) {
	b, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return b, nil
}
