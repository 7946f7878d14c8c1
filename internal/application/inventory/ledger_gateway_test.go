package inventory_test

import (
	"context"
	"testing"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appinv "github.com/jhoicas/stock-movements/internal/application/inventory"
	"github.com/jhoicas/stock-movements/internal/domain"
	"github.com/jhoicas/stock-movements/internal/domain/entity"
	"github.com/jhoicas/stock-movements/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Base en memoria: los cambios de la tx se descartan si fn falla
// ──────────────────────────────────────────────────────────────────────────────

type memBatch struct {
	location, supply int64
	batch            entity.Batch
}

type memDB struct {
	batches []memBatch
	entries []*entity.LedgerEntry
	nextID  int64
}

type memTx struct{ db *memDB }

func (m *memTx) Run(ctx context.Context, fn func(repository.BatchRepository, repository.MovementRepository) error) error {
	work := &memDB{
		batches: append([]memBatch(nil), m.db.batches...),
		entries: append([]*entity.LedgerEntry(nil), m.db.entries...),
		nextID:  m.db.nextID,
	}
	if err := fn(work, work); err != nil {
		return err
	}
	*m.db = *work
	return nil
}

func (m *memDB) ListForUpdate(_ context.Context, locationID, supplyID int64) ([]entity.Batch, error) {
	var out []entity.Batch
	for _, b := range m.batches {
		if b.location == locationID && b.supply == supplyID {
			out = append(out, b.batch)
		}
	}
	return out, nil
}

func (m *memDB) AddQuantity(_ context.Context, batchID int64, delta decimal.Decimal) error {
	for i := range m.batches {
		if m.batches[i].batch.ID == batchID {
			q := m.batches[i].batch.Quantity.Add(delta)
			if q.IsNegative() {
				return domain.ErrInsufficientStock
			}
			m.batches[i].batch.Quantity = q
			return nil
		}
	}
	return domain.ErrNotFound
}

func (m *memDB) Receive(_ context.Context, locationID, supplyID int64, b entity.Batch) (int64, error) {
	for i := range m.batches {
		mb := &m.batches[i]
		if mb.location == locationID && mb.supply == supplyID && mb.batch.BatchNumber == b.BatchNumber {
			mb.batch.Quantity = mb.batch.Quantity.Add(b.Quantity)
			return mb.batch.ID, nil
		}
	}
	m.nextID++
	b.ID = m.nextID
	m.batches = append(m.batches, memBatch{location: locationID, supply: supplyID, batch: b})
	return b.ID, nil
}

func (m *memDB) Create(_ context.Context, entry *entity.LedgerEntry, _ entity.StockMovementRequest) error {
	m.entries = append(m.entries, entry)
	return nil
}

func (m *memDB) GetByID(_ context.Context, id string) (*entity.LedgerEntry, error) {
	for _, e := range m.entries {
		if e.MovementID == id {
			return e, nil
		}
	}
	return nil, nil
}

func (m *memDB) List(_ context.Context, limit, offset int) ([]entity.LedgerEntry, int, error) {
	out := []entity.LedgerEntry{}
	for i := len(m.entries) - 1 - offset; i >= 0 && len(out) < limit; i-- {
		out = append(out, *m.entries[i])
	}
	return out, len(m.entries), nil
}

func (m *memDB) qty(location, supply int64, number string) decimal.Decimal {
	for _, b := range m.batches {
		if b.location == location && b.supply == supply && b.batch.BatchNumber == number {
			return b.batch.Quantity
		}
	}
	return decimal.Zero
}

func newMemDB() *memDB {
	b1 := civil.Date{Year: 2027, Month: 1, Day: 1}
	b2 := civil.Date{Year: 2026, Month: 12, Day: 1}
	return &memDB{
		nextID: 100,
		batches: []memBatch{
			{5, 10, entity.Batch{ID: 1, BatchNumber: "B1", ExpirationDate: &b1, Quantity: decimal.NewFromInt(5)}},
			{5, 10, entity.Batch{ID: 2, BatchNumber: "B2", ExpirationDate: &b2, Quantity: decimal.NewFromInt(3)}},
		},
	}
}

func strp(s string) *string { return &s }

// ──────────────────────────────────────────────────────────────────────────────
// Submit
// ──────────────────────────────────────────────────────────────────────────────

func TestLedgerGateway_TrasladoFEFO_ConservaLote(t *testing.T) {
	db := newMemDB()
	gw := appinv.NewLedgerGateway(&memTx{db: db})

	entry, err := gw.Submit(context.Background(), entity.StockMovementRequest{
		Type:                  entity.MovementTransfer,
		OriginLocationID:      ptr(5),
		DestinationLocationID: ptr(3),
		UserID:                1,
		Details:               []entity.MovementDetail{{SupplyID: 10, Quantity: decimal.NewFromInt(4)}},
	})

	require.NoError(t, err)
	assert.NotEmpty(t, entry.MovementID)
	assert.Equal(t, entity.MovementTransfer, entry.MovementType)
	require.Len(t, entry.Details, 4, "salida y entrada por cada lote tocado")
	assert.True(t, db.qty(5, 10, "B2").IsZero(), "B2 vence primero y se agota")
	assert.True(t, db.qty(5, 10, "B1").Equal(decimal.NewFromInt(4)))
	assert.True(t, db.qty(3, 10, "B2").Equal(decimal.NewFromInt(3)))
	assert.True(t, db.qty(3, 10, "B1").Equal(decimal.NewFromInt(1)))
	require.Len(t, db.entries, 1)
}

func TestLedgerGateway_StockInsuficiente_Rollback(t *testing.T) {
	db := newMemDB()
	gw := appinv.NewLedgerGateway(&memTx{db: db})

	_, err := gw.Submit(context.Background(), entity.StockMovementRequest{
		Type:             entity.MovementReturn,
		OriginLocationID: ptr(5),
		Details: []entity.MovementDetail{
			{SupplyID: 10, Quantity: decimal.NewFromInt(2), BatchNumber: strp("B1")},
			{SupplyID: 10, Quantity: decimal.NewFromInt(9)},
		},
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Contains(t, err.Error(), "detail 2")
	assert.True(t, db.qty(5, 10, "B1").Equal(decimal.NewFromInt(5)), "la primera línea no queda aplicada")
	assert.Empty(t, db.entries)
}

func TestLedgerGateway_CompraCreaLote(t *testing.T) {
	db := newMemDB()
	gw := appinv.NewLedgerGateway(&memTx{db: db})
	exp := civil.Date{Year: 2027, Month: 6, Day: 30}

	entry, err := gw.Submit(context.Background(), entity.StockMovementRequest{
		Type:                  entity.MovementPurchase,
		DestinationLocationID: ptr(3),
		SupplierID:            ptr(7),
		Details: []entity.MovementDetail{
			{SupplyID: 10, Quantity: decimal.NewFromInt(100), BatchNumber: strp("L-2027"), ExpirationDate: &exp},
		},
	})

	require.NoError(t, err)
	require.Len(t, entry.Details, 1)
	assert.Equal(t, int64(101), entry.Details[0].BatchID)
	assert.True(t, entry.Details[0].Quantity.Equal(decimal.NewFromInt(100)))
	assert.True(t, db.qty(3, 10, "L-2027").Equal(decimal.NewFromInt(100)))
}

func TestLedgerGateway_AjusteSegunSigno(t *testing.T) {
	db := newMemDB()
	gw := appinv.NewLedgerGateway(&memTx{db: db})

	_, err := gw.Submit(context.Background(), entity.StockMovementRequest{
		Type:                  entity.MovementAdjustment,
		OriginLocationID:      ptr(5),
		DestinationLocationID: ptr(5),
		Details: []entity.MovementDetail{
			{SupplyID: 10, Quantity: decimal.NewFromInt(-1), BatchNumber: strp("B1")},
			{SupplyID: 10, Quantity: decimal.NewFromInt(2), BatchNumber: strp("B2")},
		},
	})

	require.NoError(t, err)
	assert.True(t, db.qty(5, 10, "B1").Equal(decimal.NewFromInt(4)))
	assert.True(t, db.qty(5, 10, "B2").Equal(decimal.NewFromInt(5)))
}

func TestLedgerGateway_EntradaSinNumeroDeLote(t *testing.T) {
	db := newMemDB()
	gw := appinv.NewLedgerGateway(&memTx{db: db})

	entry, err := gw.Submit(context.Background(), entity.StockMovementRequest{
		Type:                  entity.MovementPurchase,
		DestinationLocationID: ptr(3),
		Details:               []entity.MovementDetail{{SupplyID: 10, Quantity: decimal.NewFromInt(1)}},
	})

	require.NoError(t, err)
	assert.Contains(t, entry.Details[0].BatchNumber, "PUR-")
}

func TestLedgerGateway_PayloadInvalido(t *testing.T) {
	gw := appinv.NewLedgerGateway(&memTx{db: newMemDB()})

	_, err := gw.Submit(context.Background(), entity.StockMovementRequest{Type: entity.MovementPurchase})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = gw.Submit(context.Background(), entity.StockMovementRequest{
		Details: []entity.MovementDetail{{SupplyID: 10, Quantity: decimal.NewFromInt(1)}},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestGetMovement(t *testing.T) {
	db := newMemDB()
	gw := appinv.NewLedgerGateway(&memTx{db: db})
	uc := newUseCase(&fakeCatalog{snap: testSnapshot()}, &fakeGateway{}, nil).WithMovementReader(db)

	entry, err := gw.Submit(context.Background(), entity.StockMovementRequest{
		Type:                  entity.MovementPurchase,
		DestinationLocationID: ptr(3),
		Details:               []entity.MovementDetail{{SupplyID: 10, Quantity: decimal.NewFromInt(1)}},
	})
	require.NoError(t, err)

	got, err := uc.GetMovement(context.Background(), entry.MovementID)
	require.NoError(t, err)
	assert.Equal(t, entry.MovementID, got.MovementID)

	_, err = uc.GetMovement(context.Background(), "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	list, total, err := uc.ListMovements(context.Background(), 10, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, list, 1)
	assert.Equal(t, entry.MovementID, list[0].MovementID)
}
