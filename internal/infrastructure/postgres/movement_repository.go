package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/stock-movements/internal/domain"
	"github.com/jhoicas/stock-movements/internal/domain/entity"
	"github.com/jhoicas/stock-movements/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

// MovementRepo implementación sobre PostgreSQL (usable con pool o tx).
type MovementRepo struct {
	q Querier
}

// NewMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMovementRepository(q Querier) *MovementRepo {
	return &MovementRepo{q: q}
}

var detailColumns = []string{"movement_id", "line", "location_id", "supply_id", "batch_id", "batch_number", "quantity", "notes"}

// Create persiste la cabecera y copia el detalle con COPY.
func (r *MovementRepo) Create(ctx context.Context, entry *entity.LedgerEntry, req entity.StockMovementRequest) error {
	query := `
		INSERT INTO stock_movements (id, type, movement_date, user_id, supplier_id, origin_location_id,
		                             destination_location_id, reason, notes, exit_reason)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	var exitReason *string
	if req.ExitReason != nil {
		s := string(*req.ExitReason)
		exitReason = &s
	}
	_, err := r.q.Exec(ctx, query,
		entry.MovementID, entry.MovementType.String(), entry.MovementDate, req.UserID, req.SupplierID,
		req.OriginLocationID, req.DestinationLocationID, req.Reason, req.Notes, exitReason,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("movement %s: %w", entry.MovementID, domain.ErrConflict)
		}
		return fmt.Errorf("create stock movement: %w", err)
	}

	rows := make([][]any, 0, len(entry.Details))
	for i, d := range entry.Details {
		rows = append(rows, []any{
			entry.MovementID, i, d.LocationID, d.SupplyID, d.BatchID, d.BatchNumber, d.Quantity, d.Notes,
		})
	}
	if _, err := r.q.CopyFrom(ctx, pgx.Identifier{"stock_movement_details"}, detailColumns, pgx.CopyFromRows(rows)); err != nil {
		return fmt.Errorf("copy movement details: %w", err)
	}
	return nil
}

// GetByID obtiene un movimiento con su detalle. Devuelve nil, nil si no existe.
func (r *MovementRepo) GetByID(ctx context.Context, id string) (*entity.LedgerEntry, error) {
	var (
		entry    entity.LedgerEntry
		typeName string
	)
	if _, err := uuid.Parse(id); err != nil {
		return nil, nil
	}
	err := r.q.QueryRow(ctx,
		`SELECT id, type, movement_date FROM stock_movements WHERE id = $1`, id,
	).Scan(&entry.MovementID, &typeName, &entry.MovementDate)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get movement: %w", err)
	}
	if entry.MovementType, err = entity.ParseMovementType(typeName); err != nil {
		return nil, fmt.Errorf("get movement: %w", err)
	}

	rows, err := r.q.Query(ctx, `
		SELECT location_id, supply_id, batch_id, batch_number, quantity, notes
		FROM stock_movement_details WHERE movement_id = $1 ORDER BY line`, id)
	if err != nil {
		return nil, fmt.Errorf("list movement details: %w", err)
	}
	details, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (entity.LedgerEntryDetail, error) {
		var d entity.LedgerEntryDetail
		err := row.Scan(&d.LocationID, &d.SupplyID, &d.BatchID, &d.BatchNumber, &d.Quantity, &d.Notes)
		return d, err
	})
	if err != nil {
		return nil, fmt.Errorf("scan movement details: %w", err)
	}
	entry.Details = details
	return &entry, nil
}

// List pagina las cabeceras por fecha descendente. El total viene de COUNT(*) OVER ().
func (r *MovementRepo) List(ctx context.Context, limit, offset int) ([]entity.LedgerEntry, int, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, type, movement_date, COUNT(*) OVER ()
		FROM stock_movements
		ORDER BY movement_date DESC, id
		LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list movements: %w", err)
	}
	total := 0
	list, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (entity.LedgerEntry, error) {
		var (
			e        entity.LedgerEntry
			typeName string
		)
		if err := row.Scan(&e.MovementID, &typeName, &e.MovementDate, &total); err != nil {
			return e, err
		}
		e.Details = []entity.LedgerEntryDetail{}
		t, err := entity.ParseMovementType(typeName)
		e.MovementType = t
		return e, err
	})
	if err != nil {
		return nil, 0, fmt.Errorf("scan movements: %w", err)
	}
	return list, total, nil
}
