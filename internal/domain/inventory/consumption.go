package inventory

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/stock-movements/internal/domain"
	"github.com/jhoicas/stock-movements/internal/domain/entity"
)

// Draw es la porción de una salida que se toma de un lote.
type Draw struct {
	Batch    entity.Batch
	Quantity decimal.Decimal
}

// PlanDraws reparte qty entre los lotes de (ubicación, insumo) ya bloqueados.
// Con batchNumber se toma todo de ese lote; sin él se consume en orden FEFO.
// Devuelve ErrInsufficientStock si el stock no alcanza. No modifica batches.
func PlanDraws(batches []entity.Batch, batchNumber string, qty decimal.Decimal) ([]Draw, error) {
	if !qty.IsPositive() {
		return nil, fmt.Errorf("%w: quantity must be greater than zero", domain.ErrInvalidInput)
	}

	if batchNumber != "" {
		for _, b := range batches {
			if b.BatchNumber != batchNumber {
				continue
			}
			if b.Quantity.LessThan(qty) {
				return nil, fmt.Errorf("%w: batch %s has %s, requested %s", domain.ErrInsufficientStock, batchNumber, b.Quantity, qty)
			}
			return []Draw{{Batch: b, Quantity: qty}}, nil
		}
		return nil, fmt.Errorf("%w: batch %s not found at origin location", domain.ErrInsufficientStock, batchNumber)
	}

	usable := make([]entity.Batch, 0, len(batches))
	available := decimal.Zero
	for _, b := range batches {
		if !b.Quantity.IsPositive() || (b.Active != nil && !*b.Active) {
			continue
		}
		usable = append(usable, b)
		available = available.Add(b.Quantity)
	}
	if available.LessThan(qty) {
		return nil, fmt.Errorf("%w: available %s, requested %s", domain.ErrInsufficientStock, available, qty)
	}
	sortFEFO(usable)

	var draws []Draw
	remaining := qty
	for _, b := range usable {
		if !remaining.IsPositive() {
			break
		}
		take := decimal.Min(b.Quantity, remaining)
		draws = append(draws, Draw{Batch: b, Quantity: take})
		remaining = remaining.Sub(take)
	}
	return draws, nil
}
