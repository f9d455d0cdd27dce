package dto

import (
	"time"

	"github.com/google/uuid"
)

// LtiLaunchRequest is the already-validated launch payload forwarded by
// the LTI front end. Signature checking happens before this service.
type LtiLaunchRequest struct {
	ModuleExternalRef string `json:"module_external_ref" validate:"required"`
	ModuleName        string `json:"module_name" validate:"required"`
	UserExternalRef   string `json:"user_external_ref" validate:"required"`
	Email             string `json:"email" validate:"omitempty,email"`
	Name              string `json:"name"`
	IsAdmin           bool   `json:"is_admin"`
}

type AdminLoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type AuthResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

type UserResponse struct {
	Id              uuid.UUID  `json:"id"`
	Email           string     `json:"email"`
	Name            string     `json:"name"`
	IsAdmin         bool       `json:"is_admin"`
	MaxRequests     int        `json:"max_requests"`
	TermsAcceptedAt *time.Time `json:"terms_accepted_at"`
}
