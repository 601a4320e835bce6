package dto

import "time"

type LoginDTO struct {
	Username string `json:"username" validate:"required,max=100"`
	Password string `json:"password" validate:"required"`
	UserType string `json:"user_type" validate:"required,user_type"`
}

type AuthResponseDTO struct {
	AccessToken string        `json:"access_token"`
	ExpiresAt   time.Time     `json:"expires_at"`
	User        UserPublicDTO `json:"user"`
}

type UserPublicDTO struct {
	ID       string `json:"id"`
	Username string `json:"username,omitempty"`
	Name     string `json:"name"`
	Type     string `json:"user_type"`
}
