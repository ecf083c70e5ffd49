package booking

import "handyconnect/internal/domain"

// CreateBookingRequest mirrors the wire shape the frontend already sends,
// including the nested serviceLocation object.
type CreateBookingRequest struct {
	ServiceType     string                 `json:"serviceType"`
	Problem         string                 `json:"problem"`
	Urgency         string                 `json:"urgency"`
	BookingFor      string                 `json:"bookingFor"`
	ServiceLocation domain.ServiceLocation `json:"serviceLocation"`
	Date            string                 `json:"date"`
	Time            string                 `json:"time"`
	ContactName     string                 `json:"contactName"`
	ContactPhone    string                 `json:"contactPhone"`
	ContactEmail    string                 `json:"contactEmail"`
}

type DecisionRequest struct {
	Status string `json:"status" binding:"required"`
}

type RateRequest struct {
	Rating int    `json:"rating"`
	Review string `json:"review"`
}

// CategorizedBookings is a customer's ledger partitioned by status,
// newest first within each bucket.
type CategorizedBookings struct {
	Pending   []domain.Booking `json:"pending"`
	Accepted  []domain.Booking `json:"accepted"`
	Rejected  []domain.Booking `json:"rejected"`
	Completed []domain.Booking `json:"completed"`
}

// WorkerStats is derived on demand from the worker's completed bookings;
// it is never persisted.
type WorkerStats struct {
	TotalCompletedJobs int         `json:"totalCompletedJobs"`
	TotalRatings       int         `json:"totalRatings"`
	AverageRating      float64     `json:"averageRating"`
	RatingBreakdown    map[int]int `json:"ratingBreakdown"`
}
