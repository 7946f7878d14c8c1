package inventory

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cloud.google.com/go/civil"
	"github.com/rs/zerolog"

	"github.com/jhoicas/stock-movements/internal/domain"
	"github.com/jhoicas/stock-movements/internal/domain/entity"
	"github.com/jhoicas/stock-movements/internal/domain/inventory"
	"github.com/jhoicas/stock-movements/pkg/metrics"
)

// RegisterMovementUseCase orquesta el motor de movimientos: resuelve la estrategia del tipo,
// valida el formulario contra la foto vigente, arma el payload y lo envía al gateway.
// El gateway revalida stock dentro de su transacción; aquí la validación es un prefiltro.
type RegisterMovementUseCase struct {
	catalog CatalogProvider
	gateway SubmissionGateway
	reader  MovementReader
	metrics *metrics.Metrics
	log     zerolog.Logger
	now     func() time.Time
}

// NewRegisterMovementUseCase construye el caso de uso. m puede ser nil.
func NewRegisterMovementUseCase(
	catalog CatalogProvider,
	gateway SubmissionGateway,
	m *metrics.Metrics,
	log zerolog.Logger,
) *RegisterMovementUseCase {
	return &RegisterMovementUseCase{
		catalog: catalog,
		gateway: gateway,
		metrics: m,
		log:     log.With().Str("component", "stock_movements").Logger(),
		now:     time.Now,
	}
}

// WithClock reemplaza el reloj usado para "hoy" (fechas de vencimiento).
func (uc *RegisterMovementUseCase) WithClock(now func() time.Time) *RegisterMovementUseCase {
	uc.now = now
	return uc
}

// WithMovementReader habilita GetMovement.
func (uc *RegisterMovementUseCase) WithMovementReader(r MovementReader) *RegisterMovementUseCase {
	uc.reader = r
	return uc
}

// RegisterResult resultado de un registro exitoso.
type RegisterResult struct {
	Entry   *entity.LedgerEntry
	Message string
}

// Catalog devuelve la foto vigente del catálogo.
func (uc *RegisterMovementUseCase) Catalog(ctx context.Context) (*entity.CatalogSnapshot, error) {
	snap, err := uc.catalog.Snapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	return snap, nil
}

// Availability calcula los lotes seleccionables y la cantidad máxima para (ubicación, insumo).
func (uc *RegisterMovementUseCase) Availability(ctx context.Context, locationID, supplyID *int64, sel inventory.BatchSelection) (inventory.BatchAvailability, error) {
	snap, err := uc.Catalog(ctx)
	if err != nil {
		return inventory.BatchAvailability{}, err
	}
	return inventory.ResolveBatches(snap, locationID, supplyID, sel), nil
}

// GetMovement devuelve un asiento persistido o domain.ErrNotFound.
func (uc *RegisterMovementUseCase) GetMovement(ctx context.Context, id string) (*entity.LedgerEntry, error) {
	if uc.reader == nil {
		return nil, domain.ErrNotFound
	}
	entry, err := uc.reader.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get movement: %w", err)
	}
	if entry == nil {
		return nil, domain.ErrNotFound
	}
	return entry, nil
}

// ListMovements pagina los asientos registrados, del más reciente al más antiguo.
func (uc *RegisterMovementUseCase) ListMovements(ctx context.Context, limit, offset int) ([]entity.LedgerEntry, int, error) {
	if uc.reader == nil {
		return []entity.LedgerEntry{}, 0, nil
	}
	list, total, err := uc.reader.List(ctx, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list movements: %w", err)
	}
	return list, total, nil
}

// Validate ejecuta la validación del tipo sin enviar nada.
// Devuelve un *domain.ValidationError (o *domain.CapacityError) si el formulario no es válido.
func (uc *RegisterMovementUseCase) Validate(ctx context.Context, t entity.MovementType, form inventory.Form) error {
	snap, err := uc.Catalog(ctx)
	if err != nil {
		return err
	}
	_, err = uc.validate(t, form, snap)
	return err
}

// Register valida, arma y envía el movimiento. Un error del gateway se devuelve como
// *domain.SubmissionError con el mensaje original; no se reintenta.
func (uc *RegisterMovementUseCase) Register(ctx context.Context, t entity.MovementType, form inventory.Form, userID int64) (*RegisterResult, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidInput, entity.ErrUnknownMovementType)
	}
	snap, err := uc.Catalog(ctx)
	if err != nil {
		return nil, err
	}
	form, err = uc.validate(t, form, snap)
	if err != nil {
		return nil, err
	}

	strategy := inventory.Resolve(t)
	req := strategy.Build(form, userID)

	start := time.Now()
	entry, err := strategy.Submit(ctx, uc.gateway, req)
	uc.metrics.ObserveSubmission(t.String(), err, time.Since(start))
	if err != nil {
		uc.log.Error().Err(err).
			Str("type", t.String()).
			Int64("user_id", userID).
			Int("details", len(req.Details)).
			Msg("submission failed")
		return nil, &domain.SubmissionError{Err: err}
	}

	uc.log.Info().
		Str("type", t.String()).
		Str("movement_id", entry.MovementID).
		Int64("user_id", userID).
		Int("details", len(req.Details)).
		Msg("movement registered")

	if inv, ok := uc.catalog.(CatalogInvalidator); ok {
		if err := inv.Invalidate(ctx); err != nil {
			uc.log.Warn().Err(err).Msg("catalog invalidation failed")
		}
	}
	return &RegisterResult{Entry: entry, Message: strategy.SuccessMessage}, nil
}

// validate completa insumos desde líneas de proveedor, recalcula los topes contra la foto
// y aplica las reglas del tipo. Devuelve el formulario ya normalizado.
func (uc *RegisterMovementUseCase) validate(t entity.MovementType, form inventory.Form, snap *entity.CatalogSnapshot) (inventory.Form, error) {
	if !t.Valid() {
		return form, fmt.Errorf("%w: %w", domain.ErrInvalidInput, entity.ErrUnknownMovementType)
	}
	form = inventory.ResolveSupplies(form, snap)
	form = inventory.RefreshCapacity(t, form, snap)

	err := inventory.Resolve(t).Validate(form, snap, civil.DateOf(uc.now()))
	uc.metrics.ObserveValidation(t.String(), err)
	if err != nil {
		ev := uc.log.Warn().Str("type", t.String()).Str("reason", err.Error())
		var ve *domain.ValidationError
		if errors.As(err, &ve) {
			ev = ev.Str("code", ve.Code).Int("line", ve.Line)
		}
		ev.Msg("movement rejected")
		return form, err
	}
	return form, nil
}
