package dto

import "github.com/lingoprep/lingoprep-be/internal/models"

type RegisterRequest struct {
	Username    string `json:"username"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
	Grade       string `json:"grade"`
	Region      string `json:"region"`
	Password    string `json:"password"`
}

type LoginRequest struct {
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
}

type LoginResponse struct {
	Token string      `json:"token"`
	User  models.User `json:"user"`
}

type StartPracticeResponse struct {
	SessionID string `json:"sessionId"`
}
