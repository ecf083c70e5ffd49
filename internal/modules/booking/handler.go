package booking

import (
	"errors"
	"net/http"
	"strconv"

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

// RegisterCustomerRoutes mounts the routes a customer token may call.
func (h *Handler) RegisterCustomerRoutes(rg *gin.RouterGroup) {
	rg.POST("/bookings", h.CreateBooking)
	rg.GET("/bookings/my", h.GetMyBookings)
	rg.GET("/bookings/my-services", h.GetMyBookingsCategorized)
	rg.PUT("/bookings/:id/rate", h.RateBooking)
}

// RegisterWorkerRoutes mounts the routes a worker token may call.
func (h *Handler) RegisterWorkerRoutes(rg *gin.RouterGroup) {
	rg.GET("/bookings/open", h.GetOpenBookings)
	rg.PUT("/bookings/:id/status", h.UpdateBookingStatus)
	rg.PUT("/bookings/:id/complete", h.CompleteBooking)
	rg.GET("/bookings/worker/accepted", h.GetAcceptedJobs)
	rg.GET("/bookings/worker/completed", h.GetCompletedJobs)
}

func (h *Handler) CreateBooking(c *gin.Context) {
	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	b, err := h.service.Create(c.Request.Context(), middleware.SubjectID(c), req)
	if err != nil {
		var mf *MissingFieldsError
		if errors.As(err, &mf) {
			response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR",
				"Please fill all required booking fields", mf.Fields)
			return
		}
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to create booking")
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"booking": b})
}

func (h *Handler) GetMyBookings(c *gin.Context) {
	bookings, err := h.service.ListMine(c.Request.Context(), middleware.SubjectID(c))
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to fetch bookings")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"bookings": bookings})
}

func (h *Handler) GetMyBookingsCategorized(c *gin.Context) {
	out, err := h.service.ListOwnedBy(c.Request.Context(), middleware.SubjectID(c))
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to fetch bookings")
		return
	}
	response.Success(c, http.StatusOK, out)
}

func (h *Handler) GetOpenBookings(c *gin.Context) {
	city := c.Query("city")
	serviceType := c.Query("serviceType")

	bookings, err := h.service.ListOpenFor(c.Request.Context(), city, serviceType)
	if err != nil {
		if errors.Is(err, ErrValidation) {
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Both city and service type are required")
			return
		}
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to fetch bookings")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"bookings": bookings})
}

func (h *Handler) UpdateBookingStatus(c *gin.Context) {
	bookingID, ok := bookingIDParam(c)
	if !ok {
		return
	}

	var req DecisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	b, err := h.service.Decide(c.Request.Context(), bookingID, middleware.SubjectID(c), req.Status)
	if err != nil {
		h.writeBookingError(c, err, "Failed to update booking status")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"booking": b})
}

func (h *Handler) CompleteBooking(c *gin.Context) {
	bookingID, ok := bookingIDParam(c)
	if !ok {
		return
	}

	b, err := h.service.Complete(c.Request.Context(), bookingID, middleware.SubjectID(c))
	if err != nil {
		h.writeBookingError(c, err, "Failed to mark booking as completed")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"booking": b})
}

func (h *Handler) RateBooking(c *gin.Context) {
	bookingID, ok := bookingIDParam(c)
	if !ok {
		return
	}

	var req RateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	b, err := h.service.Rate(c.Request.Context(), bookingID, middleware.SubjectID(c), req.Rating, req.Review)
	if err != nil {
		if errors.Is(err, ErrValidation) {
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Rating must be between 1 and 5")
			return
		}
		h.writeBookingError(c, err, "Failed to submit rating")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"booking": b})
}

func (h *Handler) GetAcceptedJobs(c *gin.Context) {
	bookings, err := h.service.ListClaimedBy(c.Request.Context(), middleware.SubjectID(c))
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to fetch accepted bookings")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"bookings": bookings})
}

func (h *Handler) GetCompletedJobs(c *gin.Context) {
	jobs, stats, err := h.service.WorkerCompletedJobs(c.Request.Context(), middleware.SubjectID(c))
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to fetch completed jobs")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"jobs": jobs, "stats": stats})
}

// writeBookingError maps transition engine errors to HTTP. The race loser
// gets the same INVALID_TRANSITION answer as a stale retry would.
func (h *Handler) writeBookingError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, ErrNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Booking not found")
	case errors.Is(err, ErrForbidden):
		response.Error(c, http.StatusForbidden, "FORBIDDEN", "You are not allowed to modify this booking")
	case errors.Is(err, ErrInvalidTransition):
		response.Error(c, http.StatusConflict, "INVALID_TRANSITION", "Booking is not in a state that allows this action")
	case errors.Is(err, ErrAlreadyRated):
		response.Error(c, http.StatusConflict, "INVALID_TRANSITION", "Booking has already been rated")
	case errors.Is(err, ErrValidation):
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid status")
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", fallback)
	}
}

func bookingIDParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid booking ID")
		return 0, false
	}
	return id, true
}
