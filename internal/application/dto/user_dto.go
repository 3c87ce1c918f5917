package dto

import "time"

// RegisterRequest alta de un dueño junto con su taller.
type RegisterRequest struct {
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=8"`
	Name        string `json:"name" validate:"required,max=200"`
	ServiceName string `json:"service_name" validate:"required,max=200"`
	Phone       string `json:"phone" validate:"omitempty,max=50"`
	Address     string `json:"address" validate:"omitempty,max=300"`
}

// CreateUserRequest alta de un miembro en el taller del dueño autenticado.
type CreateUserRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Name     string `json:"name" validate:"required,max=200"`
	Role     string `json:"role" validate:"omitempty,oneof=owner member"`
}

// UserResponse salida de un usuario (sin password).
type UserResponse struct {
	ID        string    `json:"id"`
	ServiceID string    `json:"service_id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// LoginRequest entrada para login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse token JWT más el usuario y su taller.
type LoginResponse struct {
	Token   string           `json:"token"`
	User    UserResponse     `json:"user"`
	Service *ServiceResponse `json:"service,omitempty"`
}
