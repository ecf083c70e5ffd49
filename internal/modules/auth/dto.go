package auth

type RegisterCustomerRequest struct {
	Name            string `json:"name" binding:"required"`
	Phone           string `json:"phone" binding:"required"`
	Email           string `json:"email" binding:"required,email"`
	Password        string `json:"password" binding:"required,min=6"`
	ConfirmPassword string `json:"confirmPassword" binding:"required"`
	Address         string `json:"address"`
	City            string `json:"city"`
	State           string `json:"state"`
	Pincode         string `json:"pincode"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// RegisterWorkerRequest arrives as a multipart form together with the
// profile and Aadhaar document images.
type RegisterWorkerRequest struct {
	Name            string `form:"name" binding:"required"`
	Phone           string `form:"phone" binding:"required"`
	Email           string `form:"email" binding:"required,email"`
	Password        string `form:"password" binding:"required,min=6"`
	ConfirmPassword string `form:"confirmPassword" binding:"required"`
	Address         string `form:"address"`
	City            string `form:"city"`
	State           string `form:"state"`
	Pincode         string `form:"pincode"`
	Aadhaar         string `form:"aadhaar" binding:"required"`
	ServiceType     string `form:"serviceType" binding:"required"`

	// Filled by the handler after the document uploads succeed.
	ProfilePhotoURL string `form:"-"`
	AadhaarPhotoURL string `form:"-"`
}

type ResetPasswordRequest struct {
	Email       string `json:"email" binding:"required,email"`
	NewPassword string `json:"newPassword" binding:"required,min=6"`
}

// Allow-listed profile updates, one struct per principal kind. Empty
// fields are left untouched; nothing outside these lists can be written.
type UpdateCustomerProfileRequest struct {
	Name    string `json:"name,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Address string `json:"address,omitempty"`
	City    string `json:"city,omitempty"`
	State   string `json:"state,omitempty"`
	Pincode string `json:"pincode,omitempty"`
}

type UpdateWorkerProfileRequest struct {
	Name    string `json:"name,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Address string `json:"address,omitempty"`
	City    string `json:"city,omitempty"`
	State   string `json:"state,omitempty"`
	Pincode string `json:"pincode,omitempty"`
}
