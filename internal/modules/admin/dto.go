package admin

import "handyconnect/internal/domain"

type RejectWorkerRequest struct {
	Reason string `json:"reason"`
}

type WorkerCounts struct {
	Pending  int64 `json:"pending"`
	Approved int64 `json:"approved"`
	Rejected int64 `json:"rejected"`
	Total    int64 `json:"total"`
}

type DashboardStats struct {
	Workers       WorkerCounts `json:"workers"`
	TotalBookings int64        `json:"totalBookings"`
}

// WorkerDetails pairs a worker with the admin who decided on the account,
// when one did.
type WorkerDetails struct {
	Worker   *domain.Worker `json:"worker"`
	Approver *ApproverInfo  `json:"approver,omitempty"`
}

type ApproverInfo struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}
