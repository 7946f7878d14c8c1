package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/stock-movements/internal/domain"
	"github.com/jhoicas/stock-movements/internal/domain/entity"
	"github.com/jhoicas/stock-movements/internal/domain/repository"
)

var _ repository.BatchRepository = (*BatchRepo)(nil)

// BatchRepo implementación de BatchRepository sobre PostgreSQL (usable con pool o tx).
type BatchRepo struct {
	q Querier
}

// NewBatchRepository construye el adaptador de lotes. Pasar pool o tx (Querier).
func NewBatchRepository(q Querier) *BatchRepo {
	return &BatchRepo{q: q}
}

// ListForUpdate bloquea los lotes en orden de ID para que dos transacciones no se crucen.
func (r *BatchRepo) ListForUpdate(ctx context.Context, locationID, supplyID int64) ([]entity.Batch, error) {
	query := `
		SELECT id, batch_number, expiration_date, quantity, active
		FROM batches
		WHERE location_id = $1 AND supply_id = $2
		ORDER BY id
		FOR UPDATE`
	rows, err := r.q.Query(ctx, query, locationID, supplyID)
	if err != nil {
		return nil, fmt.Errorf("list batches for update: %w", err)
	}
	defer rows.Close()

	var list []entity.Batch
	for rows.Next() {
		var (
			b      entity.Batch
			exp    *time.Time
			active bool
		)
		if err := rows.Scan(&b.ID, &b.BatchNumber, &exp, &b.Quantity, &active); err != nil {
			return nil, fmt.Errorf("scan batch: %w", err)
		}
		b.ExpirationDate = civilDate(exp)
		b.Active = &active
		list = append(list, b)
	}
	return list, rows.Err()
}

// AddQuantity aplica delta al lote. Un saldo negativo viola el CHECK y se reporta como stock insuficiente.
func (r *BatchRepo) AddQuantity(ctx context.Context, batchID int64, delta decimal.Decimal) error {
	query := `UPDATE batches SET quantity = quantity + $2, updated_at = now() WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, batchID, delta)
	if err != nil {
		if isCheckViolation(err) {
			return fmt.Errorf("%w: batch %d", domain.ErrInsufficientStock, batchID)
		}
		return fmt.Errorf("update batch quantity: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("batch %d: %w", batchID, domain.ErrNotFound)
	}
	return nil
}

// Receive suma al lote (ubicación, insumo, número) o lo crea. El vencimiento existente no se pisa.
func (r *BatchRepo) Receive(ctx context.Context, locationID, supplyID int64, batch entity.Batch) (int64, error) {
	query := `
		INSERT INTO batches (location_id, supply_id, batch_number, expiration_date, quantity, active, updated_at)
		VALUES ($1, $2, $3, $4, $5, true, now())
		ON CONFLICT (location_id, supply_id, batch_number)
		DO UPDATE SET quantity = batches.quantity + EXCLUDED.quantity,
		              expiration_date = COALESCE(batches.expiration_date, EXCLUDED.expiration_date),
		              active = true,
		              updated_at = now()
		RETURNING id`
	var id int64
	err := r.q.QueryRow(ctx, query,
		locationID, supplyID, batch.BatchNumber, dateArg(batch.ExpirationDate), batch.Quantity,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("receive batch: %w", err)
	}
	return id, nil
}
