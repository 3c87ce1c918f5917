package auth

import (
	"github.com/jhoicas/Taller-api/internal/domain"
	"github.com/jhoicas/Taller-api/internal/domain/entity"
)

// Session identidad de la petición en curso: quién es y a qué taller pertenece.
// La construye el middleware HTTP a partir del JWT y se pasa explícitamente a los casos de uso.
type Session struct {
	UserID    string
	ServiceID string
	Role      string
}

// IsOwner indica si el usuario es dueño del taller.
func (s Session) IsOwner() bool {
	return s.Role == entity.RoleOwner
}

// Owns indica si un registro con el serviceID dado pertenece al taller de la sesión.
func (s Session) Owns(serviceID string) bool {
	return s.ServiceID != "" && s.ServiceID == serviceID
}

// RequireService falla si la sesión aún no tiene taller asociado.
func (s Session) RequireService() error {
	if s.ServiceID == "" {
		return domain.ErrForbidden
	}
	return nil
}
