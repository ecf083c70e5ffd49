package domain

import "time"

type ApprovalStatus string

const (
	WorkerPending  ApprovalStatus = "pending"
	WorkerApproved ApprovalStatus = "approved"
	WorkerRejected ApprovalStatus = "rejected"
)

// Worker is a service provider. A worker signs up in "pending" status and
// cannot authenticate until an administrator approves the account.
// RejectionReason is set iff Status is "rejected"; a later approve clears it.
type Worker struct {
	ID              int64          `json:"id"`
	Name            string         `json:"name"`
	Phone           string         `json:"phone"`
	Email           string         `json:"email" validate:"required,email"`
	PasswordHash    string         `json:"-"`
	Address         string         `json:"address,omitempty"`
	City            string         `json:"city,omitempty"`
	State           string         `json:"state,omitempty"`
	Pincode         string         `json:"pincode,omitempty"`
	Aadhaar         string         `json:"aadhaar,omitempty"`
	ProfilePhoto    string         `json:"profilePhoto,omitempty"`
	AadhaarPhoto    string         `json:"aadhaarPhoto,omitempty"`
	ServiceType     string         `json:"serviceType"`
	Status          ApprovalStatus `json:"status"`
	ApprovedBy      *int64         `json:"approvedBy,omitempty"`
	ApprovedAt      *time.Time     `json:"approvedAt,omitempty"`
	RejectionReason string         `json:"rejectionReason,omitempty"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
}
