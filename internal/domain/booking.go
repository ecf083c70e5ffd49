package domain

import "time"

type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingAccepted  BookingStatus = "accepted"
	BookingRejected  BookingStatus = "rejected"
	BookingCompleted BookingStatus = "completed"
)

type Urgency string

const (
	UrgencyNormal    Urgency = "Normal"
	UrgencyUrgent    Urgency = "Urgent"
	UrgencyEmergency Urgency = "Emergency"
)

type BookingFor string

const (
	BookingForSelf  BookingFor = "self"
	BookingForOther BookingFor = "other"
)

// ServiceLocation is where the job happens. It may differ from the owning
// customer's profile address when the booking is made for someone else.
type ServiceLocation struct {
	Address string `json:"address"`
	City    string `json:"city"`
}

// Booking is a customer's service request and its full lifecycle record.
//
// Lifecycle: pending -> accepted | rejected; accepted -> completed.
// No transition is reversible and none skips a state. AcceptedBy is set
// exactly when a worker claims the booking and is never reassigned.
// Rating is an overlay on the completed state, not a separate status,
// and may be written at most once.
type Booking struct {
	ID           int64           `json:"id"`
	CustomerID   int64           `json:"user"`
	ServiceType  string          `json:"serviceType"`
	Problem      string          `json:"problem"`
	Urgency      Urgency         `json:"urgency"`
	BookingFor   BookingFor      `json:"bookingFor"`
	Location     ServiceLocation `json:"serviceLocation"`
	Date         string          `json:"date"`
	Time         string          `json:"time"`
	ContactName  string          `json:"contactName"`
	ContactPhone string          `json:"contactPhone"`
	ContactEmail string          `json:"contactEmail"`
	Status       BookingStatus   `json:"status"`
	AcceptedBy   *int64          `json:"acceptedBy,omitempty"`
	AcceptedAt   *time.Time      `json:"acceptedAt,omitempty"`
	CompletedAt  *time.Time      `json:"completedAt,omitempty"`
	Rating       *int            `json:"rating,omitempty"`
	Review       string          `json:"review,omitempty"`
	RatedAt      *time.Time      `json:"ratedAt,omitempty"`
	CreatedAt    time.Time       `json:"createdAt"`
	UpdatedAt    time.Time       `json:"updatedAt"`
}

// Rated reports whether a rating has been attached to the booking.
func (b *Booking) Rated() bool {
	return b.RatedAt != nil
}
