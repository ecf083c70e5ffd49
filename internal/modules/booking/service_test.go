package booking

import (
	"context"
	"sync"
	"testing"
	"time"

	"handyconnect/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"
)

// Mock repository

type MockBookingRepository struct {
	mock.Mock
}

func (m *MockBookingRepository) Create(ctx context.Context, b *domain.Booking) error {
	args := m.Called(ctx, b)
	if b != nil {
		b.ID = 999 // simulate DB insert
	}
	return args.Error(0)
}

func (m *MockBookingRepository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingRepository) ClaimIfPending(ctx context.Context, bookingID, workerID int64, at time.Time) (bool, error) {
	args := m.Called(ctx, bookingID, workerID, at)
	return args.Bool(0), args.Error(1)
}

func (m *MockBookingRepository) RejectIfPending(ctx context.Context, bookingID int64, at time.Time) (bool, error) {
	args := m.Called(ctx, bookingID, at)
	return args.Bool(0), args.Error(1)
}

func (m *MockBookingRepository) CompleteIfAccepted(ctx context.Context, bookingID, workerID int64, at time.Time) (bool, error) {
	args := m.Called(ctx, bookingID, workerID, at)
	return args.Bool(0), args.Error(1)
}

func (m *MockBookingRepository) RateIfUnrated(ctx context.Context, bookingID int64, rating int, review string, at time.Time) (bool, error) {
	args := m.Called(ctx, bookingID, rating, review, at)
	return args.Bool(0), args.Error(1)
}

func (m *MockBookingRepository) ListOpenByCityAndService(ctx context.Context, city, serviceType string) ([]domain.Booking, error) {
	args := m.Called(ctx, city, serviceType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Booking), args.Error(1)
}

func (m *MockBookingRepository) ListAcceptedByWorker(ctx context.Context, workerID int64) ([]domain.Booking, error) {
	args := m.Called(ctx, workerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Booking), args.Error(1)
}

func (m *MockBookingRepository) ListCompletedByWorker(ctx context.Context, workerID int64) ([]domain.Booking, error) {
	args := m.Called(ctx, workerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Booking), args.Error(1)
}

func (m *MockBookingRepository) ListByCustomer(ctx context.Context, customerID int64) ([]domain.Booking, error) {
	args := m.Called(ctx, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Booking), args.Error(1)
}

func validCreateRequest() CreateBookingRequest {
	return CreateBookingRequest{
		ServiceType: "Plumbing",
		Problem:     "Kitchen sink is leaking",
		Urgency:     "Normal",
		BookingFor:  "self",
		ServiceLocation: domain.ServiceLocation{
			Address: "12 MG Road",
			City:    "Pune",
		},
		Date:         "2026-09-15",
		Time:         "10:00",
		ContactName:  "Ravi",
		ContactPhone: "+91 98765 43210",
		ContactEmail: "ravi@mail.in",
	}
}

func TestCreate_Success(t *testing.T) {
	repo := new(MockBookingRepository)
	repo.On("Create", mock.Anything, mock.Anything).Return(nil)

	service := NewService(repo)

	b, err := service.Create(context.Background(), 42, validCreateRequest())

	assert.NoError(t, err)
	assert.NotNil(t, b)
	assert.Equal(t, int64(999), b.ID)
	assert.Equal(t, int64(42), b.CustomerID)
	assert.Equal(t, domain.BookingPending, b.Status)
	assert.Nil(t, b.AcceptedBy)
	repo.AssertExpectations(t)
}

func TestCreate_MissingFieldsListsAll(t *testing.T) {
	repo := new(MockBookingRepository)
	service := NewService(repo)

	req := validCreateRequest()
	req.Problem = ""
	req.ContactPhone = "   "

	_, err := service.Create(context.Background(), 42, req)

	assert.ErrorIs(t, err, ErrValidation)
	var mf *MissingFieldsError
	assert.ErrorAs(t, err, &mf)
	assert.ElementsMatch(t, []string{"problem", "contactPhone"}, mf.Fields)
	repo.AssertNotCalled(t, "Create")
}

func TestCreate_InvalidUrgency(t *testing.T) {
	repo := new(MockBookingRepository)
	service := NewService(repo)

	req := validCreateRequest()
	req.Urgency = "ASAP"

	_, err := service.Create(context.Background(), 42, req)

	assert.ErrorIs(t, err, ErrValidation)
	var mf *MissingFieldsError
	assert.ErrorAs(t, err, &mf)
	assert.Equal(t, []string{"urgency"}, mf.Fields)
}

func TestCreate_InvalidBookingFor(t *testing.T) {
	repo := new(MockBookingRepository)
	service := NewService(repo)

	req := validCreateRequest()
	req.BookingFor = "friend"

	_, err := service.Create(context.Background(), 42, req)

	assert.ErrorIs(t, err, ErrValidation)
}

func TestDecide_AcceptSuccess(t *testing.T) {
	repo := new(MockBookingRepository)

	pending := &domain.Booking{ID: 7, CustomerID: 42, Status: domain.BookingPending}
	workerID := int64(5)
	accepted := &domain.Booking{ID: 7, CustomerID: 42, Status: domain.BookingAccepted, AcceptedBy: &workerID}

	repo.On("GetByID", mock.Anything, int64(7)).Return(pending, nil).Once()
	repo.On("ClaimIfPending", mock.Anything, int64(7), workerID, mock.Anything).Return(true, nil)
	repo.On("GetByID", mock.Anything, int64(7)).Return(accepted, nil).Once()

	service := NewService(repo)

	b, err := service.Decide(context.Background(), 7, workerID, "accepted")

	assert.NoError(t, err)
	assert.Equal(t, domain.BookingAccepted, b.Status)
	assert.Equal(t, workerID, *b.AcceptedBy)
	repo.AssertExpectations(t)
}

func TestDecide_RejectSuccess(t *testing.T) {
	repo := new(MockBookingRepository)

	pending := &domain.Booking{ID: 7, Status: domain.BookingPending}
	rejected := &domain.Booking{ID: 7, Status: domain.BookingRejected}

	repo.On("GetByID", mock.Anything, int64(7)).Return(pending, nil).Once()
	repo.On("RejectIfPending", mock.Anything, int64(7), mock.Anything).Return(true, nil)
	repo.On("GetByID", mock.Anything, int64(7)).Return(rejected, nil).Once()

	service := NewService(repo)

	b, err := service.Decide(context.Background(), 7, 5, "rejected")

	assert.NoError(t, err)
	assert.Equal(t, domain.BookingRejected, b.Status)
	assert.Nil(t, b.AcceptedBy)
}

func TestDecide_InvalidStatus(t *testing.T) {
	repo := new(MockBookingRepository)
	service := NewService(repo)

	_, err := service.Decide(context.Background(), 7, 5, "completed")

	assert.ErrorIs(t, err, ErrValidation)
	repo.AssertNotCalled(t, "GetByID")
}

func TestDecide_NotFound(t *testing.T) {
	repo := new(MockBookingRepository)
	repo.On("GetByID", mock.Anything, int64(404)).Return(nil, gorm.ErrRecordNotFound)

	service := NewService(repo)

	_, err := service.Decide(context.Background(), 404, 5, "accepted")

	assert.ErrorIs(t, err, ErrNotFound)
}

// The second worker to act on the same booking loses the guarded update
// and gets ErrInvalidTransition, never the winner's identity.
func TestDecide_LostRace(t *testing.T) {
	repo := new(MockBookingRepository)

	// Snapshot still looks pending; the competing claim lands in between.
	pending := &domain.Booking{ID: 7, Status: domain.BookingPending}
	repo.On("GetByID", mock.Anything, int64(7)).Return(pending, nil)
	repo.On("ClaimIfPending", mock.Anything, int64(7), int64(6), mock.Anything).Return(false, nil)

	service := NewService(repo)

	_, err := service.Decide(context.Background(), 7, 6, "accepted")

	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestComplete_Success(t *testing.T) {
	repo := new(MockBookingRepository)

	workerID := int64(5)
	accepted := &domain.Booking{ID: 7, Status: domain.BookingAccepted, AcceptedBy: &workerID}
	done := &domain.Booking{ID: 7, Status: domain.BookingCompleted, AcceptedBy: &workerID}

	repo.On("GetByID", mock.Anything, int64(7)).Return(accepted, nil).Once()
	repo.On("CompleteIfAccepted", mock.Anything, int64(7), workerID, mock.Anything).Return(true, nil)
	repo.On("GetByID", mock.Anything, int64(7)).Return(done, nil).Once()

	service := NewService(repo)

	b, err := service.Complete(context.Background(), 7, workerID)

	assert.NoError(t, err)
	assert.Equal(t, domain.BookingCompleted, b.Status)
	repo.AssertExpectations(t)
}

func TestComplete_ForbiddenForOtherWorker(t *testing.T) {
	repo := new(MockBookingRepository)

	claimant := int64(5)
	accepted := &domain.Booking{ID: 7, Status: domain.BookingAccepted, AcceptedBy: &claimant}
	repo.On("GetByID", mock.Anything, int64(7)).Return(accepted, nil)

	service := NewService(repo)

	_, err := service.Complete(context.Background(), 7, 6)

	assert.ErrorIs(t, err, ErrForbidden)
	repo.AssertNotCalled(t, "CompleteIfAccepted")
}

// An unclaimed booking has no claimant, so any worker is "someone else".
func TestComplete_ForbiddenWhenUnclaimed(t *testing.T) {
	repo := new(MockBookingRepository)

	pending := &domain.Booking{ID: 7, Status: domain.BookingPending}
	repo.On("GetByID", mock.Anything, int64(7)).Return(pending, nil)

	service := NewService(repo)

	_, err := service.Complete(context.Background(), 7, 6)

	assert.ErrorIs(t, err, ErrForbidden)
}

func TestComplete_AlreadyCompleted(t *testing.T) {
	repo := new(MockBookingRepository)

	workerID := int64(5)
	done := &domain.Booking{ID: 7, Status: domain.BookingCompleted, AcceptedBy: &workerID}
	repo.On("GetByID", mock.Anything, int64(7)).Return(done, nil)

	service := NewService(repo)

	_, err := service.Complete(context.Background(), 7, workerID)

	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestRate_Success(t *testing.T) {
	repo := new(MockBookingRepository)

	now := time.Now()
	rating := 5
	done := &domain.Booking{ID: 7, CustomerID: 42, Status: domain.BookingCompleted}
	rated := &domain.Booking{ID: 7, CustomerID: 42, Status: domain.BookingCompleted, Rating: &rating, RatedAt: &now}

	repo.On("GetByID", mock.Anything, int64(7)).Return(done, nil).Once()
	repo.On("RateIfUnrated", mock.Anything, int64(7), 5, "Great work", mock.Anything).Return(true, nil)
	repo.On("GetByID", mock.Anything, int64(7)).Return(rated, nil).Once()

	service := NewService(repo)

	b, err := service.Rate(context.Background(), 7, 42, 5, "Great work")

	assert.NoError(t, err)
	assert.True(t, b.Rated())
	assert.Equal(t, 5, *b.Rating)
	repo.AssertExpectations(t)
}

func TestRate_OutOfRange(t *testing.T) {
	repo := new(MockBookingRepository)
	service := NewService(repo)

	for _, rating := range []int{0, 6, -1} {
		_, err := service.Rate(context.Background(), 7, 42, rating, "")
		assert.ErrorIs(t, err, ErrValidation)
	}
	repo.AssertNotCalled(t, "GetByID")
}

func TestRate_NotOwner(t *testing.T) {
	repo := new(MockBookingRepository)

	done := &domain.Booking{ID: 7, CustomerID: 42, Status: domain.BookingCompleted}
	repo.On("GetByID", mock.Anything, int64(7)).Return(done, nil)

	service := NewService(repo)

	_, err := service.Rate(context.Background(), 7, 43, 5, "")

	assert.ErrorIs(t, err, ErrForbidden)
}

func TestRate_NotCompleted(t *testing.T) {
	repo := new(MockBookingRepository)

	workerID := int64(5)
	accepted := &domain.Booking{ID: 7, CustomerID: 42, Status: domain.BookingAccepted, AcceptedBy: &workerID}
	repo.On("GetByID", mock.Anything, int64(7)).Return(accepted, nil)

	service := NewService(repo)

	_, err := service.Rate(context.Background(), 7, 42, 5, "")

	assert.ErrorIs(t, err, ErrInvalidTransition)
}

// The first rating is final. A second attempt fails closed.
func TestRate_AlreadyRated(t *testing.T) {
	repo := new(MockBookingRepository)

	now := time.Now()
	rating := 4
	rated := &domain.Booking{ID: 7, CustomerID: 42, Status: domain.BookingCompleted, Rating: &rating, RatedAt: &now}
	repo.On("GetByID", mock.Anything, int64(7)).Return(rated, nil)

	service := NewService(repo)

	_, err := service.Rate(context.Background(), 7, 42, 5, "changed my mind")

	assert.ErrorIs(t, err, ErrAlreadyRated)
	repo.AssertNotCalled(t, "RateIfUnrated")
}

// Snapshot looked unrated but another request rated it first.
func TestRate_LostRace(t *testing.T) {
	repo := new(MockBookingRepository)

	done := &domain.Booking{ID: 7, CustomerID: 42, Status: domain.BookingCompleted}
	repo.On("GetByID", mock.Anything, int64(7)).Return(done, nil)
	repo.On("RateIfUnrated", mock.Anything, int64(7), 5, "", mock.Anything).Return(false, nil)

	service := NewService(repo)

	_, err := service.Rate(context.Background(), 7, 42, 5, "")

	assert.ErrorIs(t, err, ErrAlreadyRated)
}

func TestListOpenFor_RequiresBothFilters(t *testing.T) {
	repo := new(MockBookingRepository)
	service := NewService(repo)

	_, err := service.ListOpenFor(context.Background(), "", "Plumbing")
	assert.ErrorIs(t, err, ErrValidation)

	_, err = service.ListOpenFor(context.Background(), "Pune", "  ")
	assert.ErrorIs(t, err, ErrValidation)

	repo.AssertNotCalled(t, "ListOpenByCityAndService")
}

func TestListOwnedBy_PartitionsByStatus(t *testing.T) {
	repo := new(MockBookingRepository)

	all := []domain.Booking{
		{ID: 4, Status: domain.BookingCompleted},
		{ID: 3, Status: domain.BookingPending},
		{ID: 2, Status: domain.BookingAccepted},
		{ID: 1, Status: domain.BookingPending},
	}
	repo.On("ListByCustomer", mock.Anything, int64(42)).Return(all, nil)

	service := NewService(repo)

	out, err := service.ListOwnedBy(context.Background(), 42)

	assert.NoError(t, err)
	assert.Len(t, out.Pending, 2)
	assert.Len(t, out.Accepted, 1)
	assert.Len(t, out.Completed, 1)
	// Empty buckets serialize as [], not null.
	assert.NotNil(t, out.Rejected)
	assert.Len(t, out.Rejected, 0)
	// Repo order is preserved within each bucket.
	assert.Equal(t, int64(3), out.Pending[0].ID)
	assert.Equal(t, int64(1), out.Pending[1].ID)
}

func TestWorkerCompletedJobs_Stats(t *testing.T) {
	repo := new(MockBookingRepository)

	r5, r4 := 5, 4
	jobs := []domain.Booking{
		{ID: 1, Status: domain.BookingCompleted, Rating: &r5},
		{ID: 2, Status: domain.BookingCompleted, Rating: &r4},
		{ID: 3, Status: domain.BookingCompleted, Rating: &r5},
		{ID: 4, Status: domain.BookingCompleted}, // completed but never rated
	}
	repo.On("ListCompletedByWorker", mock.Anything, int64(5)).Return(jobs, nil)

	service := NewService(repo)

	got, stats, err := service.WorkerCompletedJobs(context.Background(), 5)

	assert.NoError(t, err)
	assert.Len(t, got, 4)
	assert.Equal(t, 4, stats.TotalCompletedJobs)
	assert.Equal(t, 3, stats.TotalRatings)
	assert.Equal(t, 4.7, stats.AverageRating) // 14/3 rounded to one decimal
	assert.Equal(t, 2, stats.RatingBreakdown[5])
	assert.Equal(t, 1, stats.RatingBreakdown[4])
	assert.Equal(t, 0, stats.RatingBreakdown[1])
}

func TestWorkerCompletedJobs_NoRatings(t *testing.T) {
	repo := new(MockBookingRepository)
	repo.On("ListCompletedByWorker", mock.Anything, int64(5)).Return([]domain.Booking{}, nil)

	service := NewService(repo)

	_, stats, err := service.WorkerCompletedJobs(context.Background(), 5)

	assert.NoError(t, err)
	assert.Equal(t, 0, stats.TotalCompletedJobs)
	assert.Equal(t, 0, stats.TotalRatings)
	assert.Equal(t, 0.0, stats.AverageRating)
}

// fakeBookingStore is a mutex-guarded in-memory repository used to drive
// real goroutine races through the service. Only the methods Decide touches
// are implemented; the rest are never called in the race test.
type fakeBookingStore struct {
	mu sync.Mutex
	b  domain.Booking
}

func (f *fakeBookingStore) GetByID(_ context.Context, id int64) (*domain.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.b.ID != id {
		return nil, gorm.ErrRecordNotFound
	}
	cp := f.b
	return &cp, nil
}

func (f *fakeBookingStore) ClaimIfPending(_ context.Context, bookingID, workerID int64, at time.Time) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.b.ID != bookingID || f.b.Status != domain.BookingPending {
		return false, nil
	}
	f.b.Status = domain.BookingAccepted
	f.b.AcceptedBy = &workerID
	f.b.AcceptedAt = &at
	return true, nil
}

func (f *fakeBookingStore) RejectIfPending(_ context.Context, bookingID int64, at time.Time) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.b.ID != bookingID || f.b.Status != domain.BookingPending {
		return false, nil
	}
	f.b.Status = domain.BookingRejected
	return true, nil
}

func (f *fakeBookingStore) Create(context.Context, *domain.Booking) error { return nil }
func (f *fakeBookingStore) CompleteIfAccepted(context.Context, int64, int64, time.Time) (bool, error) {
	return false, nil
}
func (f *fakeBookingStore) RateIfUnrated(context.Context, int64, int, string, time.Time) (bool, error) {
	return false, nil
}
func (f *fakeBookingStore) ListOpenByCityAndService(context.Context, string, string) ([]domain.Booking, error) {
	return nil, nil
}
func (f *fakeBookingStore) ListAcceptedByWorker(context.Context, int64) ([]domain.Booking, error) {
	return nil, nil
}
func (f *fakeBookingStore) ListCompletedByWorker(context.Context, int64) ([]domain.Booking, error) {
	return nil, nil
}
func (f *fakeBookingStore) ListByCustomer(context.Context, int64) ([]domain.Booking, error) {
	return nil, nil
}

func TestDecide_ConcurrentClaims_ExactlyOneWinner(t *testing.T) {
	store := &fakeBookingStore{
		b: domain.Booking{ID: 7, CustomerID: 42, Status: domain.BookingPending},
	}
	service := NewService(store)

	const workers = 10
	var wg sync.WaitGroup
	results := make([]error, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := service.Decide(context.Background(), 7, int64(i+1), "accepted")
			results[i] = err
		}(i)
	}
	wg.Wait()

	winners := 0
	for _, err := range results {
		if err == nil {
			winners++
		} else {
			assert.ErrorIs(t, err, ErrInvalidTransition)
		}
	}
	assert.Equal(t, 1, winners)

	final, err := store.GetByID(context.Background(), 7)
	assert.NoError(t, err)
	assert.Equal(t, domain.BookingAccepted, final.Status)
	assert.NotNil(t, final.AcceptedBy)
}

// A reject racing a claim also resolves to exactly one outcome.
func TestDecide_ConcurrentAcceptAndReject(t *testing.T) {
	store := &fakeBookingStore{
		b: domain.Booking{ID: 7, CustomerID: 42, Status: domain.BookingPending},
	}
	service := NewService(store)

	var wg sync.WaitGroup
	var acceptErr, rejectErr error

	wg.Add(2)
	go func() {
		defer wg.Done()
		_, acceptErr = service.Decide(context.Background(), 7, 1, "accepted")
	}()
	go func() {
		defer wg.Done()
		_, rejectErr = service.Decide(context.Background(), 7, 2, "rejected")
	}()
	wg.Wait()

	if acceptErr == nil {
		assert.ErrorIs(t, rejectErr, ErrInvalidTransition)
	} else {
		assert.ErrorIs(t, acceptErr, ErrInvalidTransition)
		assert.NoError(t, rejectErr)
	}

	final, _ := store.GetByID(context.Background(), 7)
	assert.Contains(t, []domain.BookingStatus{domain.BookingAccepted, domain.BookingRejected}, final.Status)
}
