package models

import "time"

// User represents a registered account.
type User struct {
	ID           string    `json:"_id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=3,max=20"`
	Email    string `json:"email" binding:"required,email,max=50"`
	Password string `json:"password" binding:"required,min=6"`
}

type RegisterResponse struct {
	ID string `json:"_id"`
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse carries the identity the client stores plus a bearer token.
type LoginResponse struct {
	ID       string `json:"_id"`
	Username string `json:"username"`
	Token    string `json:"token,omitempty"`
}

// ErrorResponse is the body of every non-2xx answer from the store.
type ErrorResponse struct {
	Error   string   `json:"error"`
	Details []string `json:"details,omitempty"`
}
