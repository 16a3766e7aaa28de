// Package dto provides Data Transfer Objects for API requests and responses.
package dto

// SignupRequest represents the request body for POST /signup.
type SignupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest represents the request body for POST /login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// FederatedLoginRequest represents the request body for POST /federated-login.
// Token is the provider-issued ID token, not a session token.
type FederatedLoginRequest struct {
	Token string `json:"token"`
}

// LoginResponse is returned on successful login or federated login.
type LoginResponse struct {
	Token string `json:"token"`
	Name  string `json:"name"`
}

// MessageResponse carries a confirmation message.
type MessageResponse struct {
	Message string `json:"message"`
}

// ErrorResponse represents an API error.
type ErrorResponse struct {
	Error string `json:"error"`
}
