package repository

import (
	"context"

	"github.com/jhoicas/stock-movements/internal/domain/entity"
)

// UserRepository define el puerto de persistencia para User (DIP).
type UserRepository interface {
	// Create asigna user.ID. Devuelve domain.ErrConflict si el email ya existe.
	Create(ctx context.Context, user *entity.User) error
	// FindByEmail devuelve nil, nil si no existe.
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
}
