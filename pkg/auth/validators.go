package auth

import "github.com/readloom/readloom/pkg/models"

// SignupPayload represents the signup request body.
type SignupPayload struct {
	Email    string `json:"email" mod:"trim" validate:"required,email,max=254"`
	Name     string `json:"name" mod:"trim" validate:"required,max=100"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

// LoginPayload represents the login request body.
type LoginPayload struct {
	Email    string `json:"email" mod:"trim" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// TokenResponse is returned by signup and login.
type TokenResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}
