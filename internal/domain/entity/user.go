package entity

import "time"

// Roles válidos para User.
const (
	RoleOwner  = "owner"
	RoleMember = "member"
)

// User mapea una identidad autenticada a un taller (tenant) y un rol.
type User struct {
	ID           string
	ServiceID    string
	Email        string
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	Name         string
	Role         string // owner, member
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
