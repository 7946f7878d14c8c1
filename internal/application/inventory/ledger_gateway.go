package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/stock-movements/internal/domain"
	"github.com/jhoicas/stock-movements/internal/domain/entity"
	"github.com/jhoicas/stock-movements/internal/domain/inventory"
	"github.com/jhoicas/stock-movements/internal/domain/repository"
)

var _ SubmissionGateway = (*LedgerGateway)(nil)

// LedgerGateway es el gateway de envío sobre la base de datos: aplica el movimiento a los lotes
// y guarda el asiento en una sola transacción. Bloquea los lotes de origen (SELECT FOR UPDATE)
// y revalida el stock: es la verificación autoritativa.
type LedgerGateway struct {
	txRunner TxRunner
	now      func() time.Time
	newID    func() string
}

// NewLedgerGateway construye el gateway.
func NewLedgerGateway(txRunner TxRunner) *LedgerGateway {
	return &LedgerGateway{
		txRunner: txRunner,
		now:      time.Now,
		newID:    uuid.NewString,
	}
}

// Submit inicia una transacción, aplica cada línea y hace Commit o Rollback.
func (g *LedgerGateway) Submit(ctx context.Context, req entity.StockMovementRequest) (*entity.LedgerEntry, error) {
	if !req.Type.Valid() {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidInput, entity.ErrUnknownMovementType)
	}
	if len(req.Details) == 0 {
		return nil, fmt.Errorf("%w: at least one detail required", domain.ErrInvalidInput)
	}

	entry := &entity.LedgerEntry{
		MovementID:   g.newID(),
		MovementType: req.Type,
		MovementDate: g.now().UTC(),
	}
	err := g.txRunner.Run(ctx, func(batchRepo repository.BatchRepository, movRepo repository.MovementRepository) error {
		entry.Details = entry.Details[:0]
		for i, d := range req.Details {
			lines, err := g.apply(ctx, batchRepo, req, d, entry.MovementID)
			if err != nil {
				return fmt.Errorf("detail %d: %w", i+1, err)
			}
			entry.Details = append(entry.Details, lines...)
		}
		return movRepo.Create(ctx, entry, req)
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// endpoints devuelve de dónde sale y a dónde entra el stock de una línea.
func endpoints(req entity.StockMovementRequest, qty decimal.Decimal) (source, dest *int64) {
	switch req.Type {
	case entity.MovementPurchase:
		return nil, req.DestinationLocationID
	case entity.MovementTransfer:
		return req.OriginLocationID, req.DestinationLocationID
	case entity.MovementAdjustment:
		if qty.IsNegative() {
			return req.OriginLocationID, nil
		}
		return nil, req.DestinationLocationID
	case entity.MovementReturn:
		return req.OriginLocationID, nil
	}
	return nil, nil
}

// apply mueve una línea: descuenta de los lotes de origen (el elegido o FEFO) y suma en destino.
// En TRANSFER el lote conserva su número y vencimiento en la ubicación destino.
func (g *LedgerGateway) apply(
	ctx context.Context,
	batchRepo repository.BatchRepository,
	req entity.StockMovementRequest,
	d entity.MovementDetail,
	movementID string,
) ([]entity.LedgerEntryDetail, error) {
	source, dest := endpoints(req, d.Quantity)
	if source == nil && dest == nil {
		return nil, fmt.Errorf("%w: missing location", domain.ErrInvalidInput)
	}
	qty := d.Quantity.Abs()
	if !qty.IsPositive() {
		return nil, fmt.Errorf("%w: quantity must not be zero", domain.ErrInvalidInput)
	}

	var out []entity.LedgerEntryDetail
	if source == nil {
		number := deref(d.BatchNumber)
		if number == "" {
			number = defaultBatchNumber(req.Type, movementID)
		}
		line, err := receive(ctx, batchRepo, *dest, d.SupplyID, entity.Batch{
			BatchNumber: number, ExpirationDate: d.ExpirationDate, Quantity: qty,
		}, d.Notes)
		if err != nil {
			return nil, err
		}
		return append(out, line), nil
	}

	locked, err := batchRepo.ListForUpdate(ctx, *source, d.SupplyID)
	if err != nil {
		return nil, err
	}
	draws, err := inventory.PlanDraws(locked, deref(d.BatchNumber), qty)
	if err != nil {
		return nil, err
	}
	for _, dr := range draws {
		if err := batchRepo.AddQuantity(ctx, dr.Batch.ID, dr.Quantity.Neg()); err != nil {
			return nil, err
		}
		out = append(out, entity.LedgerEntryDetail{
			LocationID:  *source,
			SupplyID:    d.SupplyID,
			BatchID:     dr.Batch.ID,
			BatchNumber: dr.Batch.BatchNumber,
			Quantity:    dr.Quantity.Neg(),
			Notes:       d.Notes,
		})
		if dest == nil {
			continue
		}
		line, err := receive(ctx, batchRepo, *dest, d.SupplyID, entity.Batch{
			BatchNumber: dr.Batch.BatchNumber, ExpirationDate: dr.Batch.ExpirationDate, Quantity: dr.Quantity,
		}, d.Notes)
		if err != nil {
			return nil, err
		}
		out = append(out, line)
	}
	return out, nil
}

func receive(ctx context.Context, batchRepo repository.BatchRepository, locationID, supplyID int64, b entity.Batch, notes *string) (entity.LedgerEntryDetail, error) {
	id, err := batchRepo.Receive(ctx, locationID, supplyID, b)
	if err != nil {
		return entity.LedgerEntryDetail{}, err
	}
	return entity.LedgerEntryDetail{
		LocationID:  locationID,
		SupplyID:    supplyID,
		BatchID:     id,
		BatchNumber: b.BatchNumber,
		Quantity:    b.Quantity,
		Notes:       notes,
	}, nil
}

// defaultBatchNumber nombra el lote de una entrada sin número: prefijo del tipo + inicio del ID del movimiento.
func defaultBatchNumber(t entity.MovementType, movementID string) string {
	id := movementID
	if len(id) > 8 {
		id = id[:8]
	}
	return fmt.Sprintf("%s-%s", t.String()[:3], id)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
