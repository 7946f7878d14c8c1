package entity

import "time"

// Estados de User.
const (
	UserActive   = "active"
	UserInactive = "inactive"
)

// User es un operador que registra o consulta movimientos de stock.
type User struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // bcrypt hash, nunca plano en dominio después de persistir
	Name         string    `json:"name"`
	Role         string    `json:"role"`   // admin, bodeguero, consulta
	Status       string    `json:"status"` // active, inactive
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}
