package inventory

import (
	"context"

	"github.com/jhoicas/stock-movements/internal/domain/entity"
	"github.com/jhoicas/stock-movements/internal/domain/inventory"
	"github.com/jhoicas/stock-movements/internal/domain/repository"
)

// CatalogProvider entrega la foto vigente de ubicaciones, insumos, proveedores y lotes.
// La foto devuelta no se modifica: cada llamada puede devolver la misma instancia.
type CatalogProvider interface {
	Snapshot(ctx context.Context) (*entity.CatalogSnapshot, error)
}

// CatalogInvalidator lo implementan los proveedores con caché; se llama tras un envío exitoso.
type CatalogInvalidator interface {
	Invalidate(ctx context.Context) error
}

// SubmissionGateway persiste el payload y devuelve el asiento creado.
// Es la única operación del motor que hace I/O; revalida stock de forma autoritativa.
type SubmissionGateway interface {
	inventory.Submitter
}

// MovementReader consulta asientos ya persistidos.
type MovementReader interface {
	GetByID(ctx context.Context, id string) (*entity.LedgerEntry, error)
	List(ctx context.Context, limit, offset int) ([]entity.LedgerEntry, int, error)
}

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Garantiza atomicidad del libro de movimientos.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		batchRepo repository.BatchRepository,
		movRepo repository.MovementRepository,
	) error) error
}
