package admin

import (
	"errors"
	"net/http"
	"strconv"

	"handyconnect/internal/domain"
	"handyconnect/internal/middleware"
	"handyconnect/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts the admin-token-only worker management routes.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/dashboard/stats", h.GetDashboardStats)
	rg.GET("/workers/pending", h.GetPendingWorkers)
	rg.GET("/workers", h.GetWorkers)
	rg.GET("/workers/:workerId", h.GetWorker)
	rg.PUT("/workers/:workerId/approve", h.ApproveWorker)
	rg.PUT("/workers/:workerId/reject", h.RejectWorker)
	rg.PUT("/workers/:workerId/reopen", h.ReopenWorker)
	rg.DELETE("/workers/:workerId", h.RemoveWorker)
}

func (h *Handler) GetPendingWorkers(c *gin.Context) {
	workers, err := h.service.ListPendingWorkers(c.Request.Context())
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to fetch pending workers")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"count": len(workers), "workers": workers})
}

func (h *Handler) GetWorkers(c *gin.Context) {
	status := domain.ApprovalStatus(c.Query("status"))
	switch status {
	case "", domain.WorkerPending, domain.WorkerApproved, domain.WorkerRejected:
	default:
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid status filter")
		return
	}

	workers, err := h.service.ListWorkers(c.Request.Context(), status)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to fetch workers")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"count": len(workers), "workers": workers})
}

func (h *Handler) GetWorker(c *gin.Context) {
	workerID, ok := workerIDParam(c)
	if !ok {
		return
	}

	details, err := h.service.GetWorker(c.Request.Context(), workerID)
	if err != nil {
		h.writeAdminError(c, err, "Failed to fetch worker details")
		return
	}
	response.Success(c, http.StatusOK, details)
}

func (h *Handler) ApproveWorker(c *gin.Context) {
	workerID, ok := workerIDParam(c)
	if !ok {
		return
	}

	worker, err := h.service.ApproveWorker(c.Request.Context(), workerID, middleware.SubjectID(c))
	if err != nil {
		h.writeAdminError(c, err, "Failed to approve worker")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"worker": worker, "message": "Worker approved successfully"})
}

func (h *Handler) RejectWorker(c *gin.Context) {
	workerID, ok := workerIDParam(c)
	if !ok {
		return
	}

	var req RejectWorkerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	worker, err := h.service.RejectWorker(c.Request.Context(), workerID, req.Reason)
	if err != nil {
		h.writeAdminError(c, err, "Failed to reject worker")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"worker": worker, "message": "Worker rejected successfully"})
}

func (h *Handler) ReopenWorker(c *gin.Context) {
	workerID, ok := workerIDParam(c)
	if !ok {
		return
	}

	worker, err := h.service.ReopenWorker(c.Request.Context(), workerID)
	if err != nil {
		h.writeAdminError(c, err, "Failed to reopen worker")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"worker": worker, "message": "Worker moved back to pending"})
}

func (h *Handler) RemoveWorker(c *gin.Context) {
	workerID, ok := workerIDParam(c)
	if !ok {
		return
	}

	if err := h.service.RemoveWorker(c.Request.Context(), workerID); err != nil {
		h.writeAdminError(c, err, "Failed to remove worker")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "Worker removed successfully"})
}

func (h *Handler) GetDashboardStats(c *gin.Context) {
	stats, err := h.service.GetDashboardStats(c.Request.Context())
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to fetch stats")
		return
	}
	response.Success(c, http.StatusOK, stats)
}

func (h *Handler) writeAdminError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, ErrNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Worker not found")
	case errors.Is(err, ErrNotPending):
		response.Error(c, http.StatusConflict, "INVALID_TRANSITION", "Worker is not in a state that allows this action")
	case errors.Is(err, ErrMissingReason):
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Rejection reason is required")
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", fallback)
	}
}

func workerIDParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("workerId"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid worker ID")
		return 0, false
	}
	return id, true
}
