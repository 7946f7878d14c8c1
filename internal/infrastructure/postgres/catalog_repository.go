package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/stock-movements/internal/domain/entity"
	"github.com/jhoicas/stock-movements/internal/domain/repository"
)

var _ repository.CatalogRepository = (*CatalogRepo)(nil)

// CatalogRepo arma la foto de catálogo desde PostgreSQL (usable con pool o tx).
type CatalogRepo struct {
	q Querier
}

// NewCatalogRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCatalogRepository(q Querier) *CatalogRepo {
	return &CatalogRepo{q: q}
}

// Snapshot implementa el proveedor de catálogo del caso de uso.
func (r *CatalogRepo) Snapshot(ctx context.Context) (*entity.CatalogSnapshot, error) {
	snap := &entity.CatalogSnapshot{}
	var err error

	if snap.Locations, err = collect(ctx, r.q,
		`SELECT id, name, type, address FROM locations ORDER BY id`,
		func(row pgx.CollectableRow) (entity.Location, error) {
			var l entity.Location
			err := row.Scan(&l.ID, &l.Name, &l.Type, &l.Address)
			return l, err
		}); err != nil {
		return nil, fmt.Errorf("load locations: %w", err)
	}
	if snap.Supplies, err = collect(ctx, r.q,
		`SELECT id, name, sku FROM supplies ORDER BY id`,
		func(row pgx.CollectableRow) (entity.Supply, error) {
			var s entity.Supply
			err := row.Scan(&s.ID, &s.Name, &s.SKU)
			return s, err
		}); err != nil {
		return nil, fmt.Errorf("load supplies: %w", err)
	}
	if snap.Suppliers, err = collect(ctx, r.q,
		`SELECT id, name, tax_id FROM suppliers ORDER BY id`,
		func(row pgx.CollectableRow) (entity.Supplier, error) {
			var s entity.Supplier
			err := row.Scan(&s.ID, &s.Name, &s.TaxID)
			return s, err
		}); err != nil {
		return nil, fmt.Errorf("load suppliers: %w", err)
	}
	if snap.SupplierItems, err = collect(ctx, r.q,
		`SELECT id, supplier_id, supply_id FROM supplier_items ORDER BY id`,
		func(row pgx.CollectableRow) (entity.SupplierItem, error) {
			var s entity.SupplierItem
			err := row.Scan(&s.ID, &s.SupplierID, &s.SupplyID)
			return s, err
		}); err != nil {
		return nil, fmt.Errorf("load supplier items: %w", err)
	}

	type locatedBatch struct {
		locationID, supplyID int64
		batch                entity.Batch
	}
	batches, err := collect(ctx, r.q, `
		SELECT location_id, supply_id, id, batch_number, expiration_date, quantity, active
		FROM batches
		ORDER BY location_id, supply_id, expiration_date NULLS LAST, batch_number`,
		func(row pgx.CollectableRow) (locatedBatch, error) {
			var (
				lb     locatedBatch
				exp    *time.Time
				active bool
			)
			err := row.Scan(&lb.locationID, &lb.supplyID, &lb.batch.ID, &lb.batch.BatchNumber, &exp, &lb.batch.Quantity, &active)
			lb.batch.ExpirationDate = civilDate(exp)
			lb.batch.Active = &active
			return lb, err
		})
	if err != nil {
		return nil, fmt.Errorf("load batches: %w", err)
	}

	// Las filas vienen ordenadas por ubicación e insumo: se agrupan en una pasada.
	snap.StockByLocation = []entity.LocationStock{}
	for _, lb := range batches {
		n := len(snap.StockByLocation)
		if n == 0 || snap.StockByLocation[n-1].LocationID != lb.locationID {
			snap.StockByLocation = append(snap.StockByLocation, entity.LocationStock{LocationID: lb.locationID})
			n++
		}
		loc := &snap.StockByLocation[n-1]
		m := len(loc.Supplies)
		if m == 0 || loc.Supplies[m-1].SupplyID != lb.supplyID {
			loc.Supplies = append(loc.Supplies, entity.SupplyStock{SupplyID: lb.supplyID})
			m++
		}
		loc.Supplies[m-1].Batches = append(loc.Supplies[m-1].Batches, lb.batch)
	}
	return snap, nil
}

// Load inserta o actualiza por ID todo el contenido de la foto en un solo batch de sentencias.
// Pensado para correr dentro de una transacción.
func (r *CatalogRepo) Load(ctx context.Context, snap *entity.CatalogSnapshot) error {
	b := &pgx.Batch{}
	for _, l := range snap.Locations {
		b.Queue(`
			INSERT INTO locations (id, name, type, address) VALUES ($1, $2, $3, $4)
			ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, type = EXCLUDED.type, address = EXCLUDED.address`,
			l.ID, l.Name, string(l.Type), l.Address)
	}
	for _, s := range snap.Supplies {
		b.Queue(`
			INSERT INTO supplies (id, name, sku) VALUES ($1, $2, $3)
			ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, sku = EXCLUDED.sku`,
			s.ID, s.Name, s.SKU)
	}
	for _, s := range snap.Suppliers {
		b.Queue(`
			INSERT INTO suppliers (id, name, tax_id) VALUES ($1, $2, $3)
			ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, tax_id = EXCLUDED.tax_id`,
			s.ID, s.Name, s.TaxID)
	}
	for _, s := range snap.SupplierItems {
		b.Queue(`
			INSERT INTO supplier_items (id, supplier_id, supply_id) VALUES ($1, $2, $3)
			ON CONFLICT (id) DO UPDATE SET supplier_id = EXCLUDED.supplier_id, supply_id = EXCLUDED.supply_id`,
			s.ID, s.SupplierID, s.SupplyID)
	}
	for _, ls := range snap.StockByLocation {
		for _, ss := range ls.Supplies {
			for _, bt := range ss.Batches {
				active := bt.Active == nil || *bt.Active
				b.Queue(`
					INSERT INTO batches (id, location_id, supply_id, batch_number, expiration_date, quantity, active, updated_at)
					VALUES ($1, $2, $3, $4, $5, $6, $7, now())
					ON CONFLICT (id) DO UPDATE SET location_id = EXCLUDED.location_id, supply_id = EXCLUDED.supply_id,
					    batch_number = EXCLUDED.batch_number, expiration_date = EXCLUDED.expiration_date,
					    quantity = EXCLUDED.quantity, active = EXCLUDED.active, updated_at = now()`,
					bt.ID, ls.LocationID, ss.SupplyID, bt.BatchNumber, dateArg(bt.ExpirationDate), bt.Quantity, active)
			}
		}
	}
	// Las secuencias siguen después de los IDs cargados.
	for _, table := range []string{"locations", "supplies", "suppliers", "supplier_items", "batches"} {
		b.Queue(fmt.Sprintf(
			`SELECT setval(pg_get_serial_sequence('%[1]s', 'id'), COALESCE((SELECT MAX(id) FROM %[1]s), 0) + 1, false)`, table))
	}

	br := r.q.SendBatch(ctx, b)
	for i := 0; i < b.Len(); i++ {
		if _, err := br.Exec(); err != nil {
			_ = br.Close()
			return fmt.Errorf("load catalog (statement %d): %w", i, err)
		}
	}
	return br.Close()
}

func collect[T any](ctx context.Context, q Querier, sql string, fn pgx.RowToFunc[T]) ([]T, error) {
	rows, err := q.Query(ctx, sql)
	if err != nil {
		return nil, err
	}
	out, err := pgx.CollectRows(rows, fn)
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []T{}
	}
	return out, nil
}
