package inventory_test

import (
	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/stock-movements/internal/domain/entity"
	"github.com/jhoicas/stock-movements/internal/domain/inventory"
)

// ──────────────────────────────────────────────────────────────────────────────
// Foto de catálogo compartida por los tests del motor
// ──────────────────────────────────────────────────────────────────────────────

const (
	locBodega  int64 = 3
	locLab     int64 = 5
	locEstante int64 = 8

	supplyGuantes  int64 = 10
	supplyReactivo int64 = 11

	supplierID     int64 = 7
	supplierItemID int64 = 70
)

var today = civil.Date{Year: 2026, Month: 10, Day: 19}

func id(v int64) *int64 { return &v }

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func date(s string) *civil.Date {
	d, err := civil.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return &d
}

// testCatalog: en el laboratorio (5) hay guantes en B1 (5 u) y B2 (3 u) y un lote vacío B0;
// en la bodega (3) hay 10 u de guantes en R1.
func testCatalog() *entity.CatalogSnapshot {
	return &entity.CatalogSnapshot{
		Locations: []entity.Location{
			{ID: locBodega, Name: "Bodega central", Type: entity.LocationWarehouse},
			{ID: locLab, Name: "Laboratorio", Type: entity.LocationLab},
			{ID: locEstante, Name: "Estante A1", Type: entity.LocationShelf},
		},
		Supplies: []entity.Supply{
			{ID: supplyGuantes, Name: "Guantes de nitrilo", SKU: "GUA-001"},
			{ID: supplyReactivo, Name: "Reactivo X", SKU: "REA-002"},
		},
		Suppliers:     []entity.Supplier{{ID: supplierID, Name: "Proveedor Andino"}},
		SupplierItems: []entity.SupplierItem{{ID: supplierItemID, SupplierID: supplierID, SupplyID: supplyGuantes}},
		StockByLocation: []entity.LocationStock{
			{
				LocationID: locLab,
				Supplies: []entity.SupplyStock{{
					SupplyID: supplyGuantes,
					Batches: []entity.Batch{
						{ID: 1, BatchNumber: "B1", ExpirationDate: date("2027-01-01"), Quantity: dec("5")},
						{ID: 2, BatchNumber: "B2", ExpirationDate: date("2026-12-01"), Quantity: dec("3")},
						{ID: 3, BatchNumber: "B0", Quantity: dec("0")},
					},
				}},
			},
			{
				LocationID: locBodega,
				Supplies: []entity.SupplyStock{{
					SupplyID: supplyGuantes,
					Batches:  []entity.Batch{{ID: 4, BatchNumber: "R1", Quantity: dec("10")}},
				}},
			},
		},
	}
}

func line(supply int64, qty string) inventory.DetailForm {
	return inventory.DetailForm{SupplyID: id(supply), Quantity: inventory.RawQuantity(qty)}
}
