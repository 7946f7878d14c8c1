package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/stock-movements/internal/domain/entity"
)

// BatchRepository define el puerto sobre lotes por (ubicación, insumo).
// Usado dentro de transacciones para garantizar consistencia.
type BatchRepository interface {
	// ListForUpdate bloquea (SELECT FOR UPDATE) los lotes de la ubicación para el insumo.
	ListForUpdate(ctx context.Context, locationID, supplyID int64) ([]entity.Batch, error)
	// AddQuantity suma delta (puede ser negativo) al lote.
	AddQuantity(ctx context.Context, batchID int64, delta decimal.Decimal) error
	// Receive suma la cantidad al lote con ese número, creándolo si no existe. Devuelve su ID.
	Receive(ctx context.Context, locationID, supplyID int64, batch entity.Batch) (int64, error)
}
