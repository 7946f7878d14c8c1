package repository

import (
	"context"

	"github.com/jhoicas/stock-movements/internal/domain/entity"
)

// MovementRepository define el puerto de persistencia del libro de movimientos.
type MovementRepository interface {
	// Create guarda la cabecera (desde req) y el detalle aplicado (entry.Details).
	Create(ctx context.Context, entry *entity.LedgerEntry, req entity.StockMovementRequest) error
	// GetByID devuelve nil, nil si no existe.
	GetByID(ctx context.Context, id string) (*entity.LedgerEntry, error)
	// List devuelve cabeceras (sin detalle) de la más reciente a la más antigua, y el total.
	List(ctx context.Context, limit, offset int) ([]entity.LedgerEntry, int, error)
}
