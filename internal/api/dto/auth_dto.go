package dto

import "time"

// LoginRequest payload.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RegisterRequest payload.
type RegisterRequest struct {
	FirstName   string  `json:"firstName" validate:"required,max=100"`
	Prefix      *string `json:"prefix" validate:"omitempty,max=30"`
	LastName    string  `json:"lastName" validate:"required,max=100"`
	Email       string  `json:"email" validate:"required,email"`
	Password    string  `json:"password" validate:"required,min=8,max=128"`
	PhoneNumber string  `json:"phoneNumber" validate:"required,max=32"`
	Role        string  `json:"role" validate:"required,oneof=CustomerAdmin CustomerEmployee VisconAdmin VisconEmployee"`
	CompanyID   string  `json:"companyId" validate:"required,uuid"`
}

// ChangePasswordRequest payload.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=8,max=128"`
}

// UserResponse describes a user without credentials.
type UserResponse struct {
	ID          string  `json:"id"`
	FirstName   string  `json:"firstName"`
	Prefix      *string `json:"prefix"`
	LastName    string  `json:"lastName"`
	Email       string  `json:"email"`
	PhoneNumber string  `json:"phoneNumber"`
	Role        string  `json:"role"`
	IsActive    bool    `json:"isActive"`
	CompanyID   string  `json:"companyId"`
}

// AuthenticatedUserResponse is returned by login and me.
type AuthenticatedUserResponse struct {
	UserResponse
	Company     CompanyResponse `json:"company"`
	AccessToken string          `json:"accessToken,omitempty"`
	ExpiresAt   *time.Time      `json:"expiresAt,omitempty"`
}
