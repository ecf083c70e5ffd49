package auth

import (
	"errors"
	"net/http"

	"handyconnect/internal/middleware"
	"handyconnect/internal/pkg/response"

	"handyconnect/internal/modules/upload"

	"github.com/gin-gonic/gin"
)

// Cloudinary folder for worker signup documents.
const workerDocsFolder = "handyconnect/workers"

type Handler struct {
	service *Service
	storage upload.Storage
}

func NewHandler(service *Service, storage upload.Storage) *Handler {
	return &Handler{service: service, storage: storage}
}

func (h *Handler) RegisterPublicRoutes(v1 *gin.RouterGroup) {
	authGroup := v1.Group("/auth")
	{
		authGroup.POST("/signup", h.RegisterCustomer)
		authGroup.POST("/login", h.LoginCustomer)
		authGroup.POST("/reset-password", h.ResetCustomerPassword)
	}

	workerGroup := v1.Group("/workers")
	{
		workerGroup.POST("/signup", h.RegisterWorker)
		workerGroup.POST("/login", h.LoginWorker)
		workerGroup.POST("/reset-password", h.ResetWorkerPassword)
	}

	v1.POST("/admin/login", h.LoginAdmin)
}

func (h *Handler) RegisterCustomerRoutes(rg *gin.RouterGroup) {
	rg.GET("/auth/profile", h.GetCustomerProfile)
	rg.PUT("/auth/profile", h.UpdateCustomerProfile)
}

func (h *Handler) RegisterWorkerRoutes(rg *gin.RouterGroup) {
	rg.GET("/workers/profile", h.GetWorkerProfile)
	rg.PUT("/workers/profile", h.UpdateWorkerProfile)
}

func (h *Handler) RegisterCustomer(c *gin.Context) {
	var req RegisterCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	customer, err := h.service.RegisterCustomer(c.Request.Context(), req)
	if err != nil {
		h.writeAuthError(c, err, "Failed to register")
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"user": customer})
}

func (h *Handler) LoginCustomer(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	customer, token, err := h.service.LoginCustomer(c.Request.Context(), req)
	if err != nil {
		h.writeAuthError(c, err, "Failed to log in")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"user": customer, "token": token})
}

// RegisterWorker handles the multipart signup form. Both document images
// are mandatory; they are uploaded before the account is created so a
// worker record never exists without its verification documents.
func (h *Handler) RegisterWorker(c *gin.Context) {
	var req RegisterWorkerRequest
	if err := c.ShouldBind(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid signup form")
		return
	}

	profileFile, err := c.FormFile("profile")
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Profile and Aadhaar images are required")
		return
	}
	aadhaarFile, err := c.FormFile("aadhaarCard")
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Profile and Aadhaar images are required")
		return
	}

	ctx := c.Request.Context()

	profileURL, err := h.storage.Upload(ctx, profileFile, workerDocsFolder)
	if err != nil {
		h.writeUploadError(c, err)
		return
	}
	aadhaarURL, err := h.storage.Upload(ctx, aadhaarFile, workerDocsFolder)
	if err != nil {
		h.writeUploadError(c, err)
		return
	}

	req.ProfilePhotoURL = profileURL
	req.AadhaarPhotoURL = aadhaarURL

	worker, err := h.service.RegisterWorker(ctx, req)
	if err != nil {
		h.writeAuthError(c, err, "Failed to register")
		return
	}

	response.Success(c, http.StatusCreated, gin.H{
		"worker":  worker,
		"message": "Registration successful! Please wait for admin approval before logging in.",
	})
}

func (h *Handler) LoginWorker(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	worker, token, err := h.service.LoginWorker(c.Request.Context(), req)
	if err != nil {
		h.writeAuthError(c, err, "Failed to log in")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"worker": worker, "token": token})
}

func (h *Handler) LoginAdmin(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	admin, token, err := h.service.LoginAdmin(c.Request.Context(), req)
	if err != nil {
		h.writeAuthError(c, err, "Failed to log in")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"admin": admin, "token": token})
}

func (h *Handler) GetCustomerProfile(c *gin.Context) {
	customer, err := h.service.GetCustomer(c.Request.Context(), middleware.SubjectID(c))
	if err != nil {
		h.writeAuthError(c, err, "Failed to fetch profile")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"user": customer})
}

func (h *Handler) UpdateCustomerProfile(c *gin.Context) {
	var req UpdateCustomerProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	customer, err := h.service.UpdateCustomerProfile(c.Request.Context(), middleware.SubjectID(c), req)
	if err != nil {
		h.writeAuthError(c, err, "Failed to update profile")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"user": customer})
}

func (h *Handler) GetWorkerProfile(c *gin.Context) {
	worker, err := h.service.GetWorker(c.Request.Context(), middleware.SubjectID(c))
	if err != nil {
		h.writeAuthError(c, err, "Failed to fetch profile")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"worker": worker})
}

func (h *Handler) UpdateWorkerProfile(c *gin.Context) {
	var req UpdateWorkerProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	worker, err := h.service.UpdateWorkerProfile(c.Request.Context(), middleware.SubjectID(c), req)
	if err != nil {
		h.writeAuthError(c, err, "Failed to update profile")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"worker": worker})
}

func (h *Handler) ResetCustomerPassword(c *gin.Context) {
	var req ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	if err := h.service.ResetCustomerPassword(c.Request.Context(), req); err != nil {
		h.writeAuthError(c, err, "Failed to reset password")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "Password reset successfully"})
}

func (h *Handler) ResetWorkerPassword(c *gin.Context) {
	var req ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	if err := h.service.ResetWorkerPassword(c.Request.Context(), req); err != nil {
		h.writeAuthError(c, err, "Failed to reset password")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "Password reset successfully"})
}

func (h *Handler) writeAuthError(c *gin.Context, err error, fallback string) {
	var rejected *RejectedAccountError
	switch {
	case errors.Is(err, ErrInvalidCredentials):
		response.Error(c, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid email or password")
	case errors.Is(err, ErrEmailAlreadyExists):
		response.Error(c, http.StatusConflict, "EMAIL_EXISTS", "This email is already registered")
	case errors.Is(err, ErrPasswordMismatch):
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Passwords do not match")
	case errors.Is(err, ErrValidation):
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid account details")
	case errors.Is(err, ErrPendingApproval):
		response.Error(c, http.StatusForbidden, "PENDING_APPROVAL",
			"Your account is pending admin approval. Please wait for approval before logging in.")
	case errors.As(err, &rejected):
		response.Error(c, http.StatusForbidden, "ACCOUNT_REJECTED",
			"Your account has been rejected. Reason: "+rejected.Reason)
	case errors.Is(err, ErrNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Account not found")
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", fallback)
	}
}

func (h *Handler) writeUploadError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, upload.ErrEmptyFile),
		errors.Is(err, upload.ErrFileTooLarge),
		errors.Is(err, upload.ErrUnsupportedType):
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid document image")
	default:
		response.Error(c, http.StatusInternalServerError, "UPLOAD_FAILED", "Failed to upload documents")
	}
}
