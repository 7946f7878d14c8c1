package inventory

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/stock-movements/internal/domain/entity"
)

// BatchSelection identifica el lote elegido en una línea. Number tiene prioridad sobre ID.
type BatchSelection struct {
	Number string
	ID     *int64
}

// IsZero indica que no hay lote elegido.
func (s BatchSelection) IsZero() bool { return s.Number == "" && s.ID == nil }

func (s BatchSelection) matches(b entity.Batch) bool {
	if s.Number != "" {
		return b.BatchNumber == s.Number
	}
	return s.ID != nil && b.ID == *s.ID
}

// BatchAvailability es lo que se puede mover desde una ubicación para un insumo.
// MaxQuantity nil indica que falta ubicación o insumo y no se puede limitar la cantidad.
// StaleSelection indica que el lote elegido ya no está disponible: el llamador debe limpiar
// el lote y los campos que dependen de él (vencimiento, cantidad).
type BatchAvailability struct {
	Batches        []entity.Batch
	MaxQuantity    *decimal.Decimal
	Selected       *entity.Batch
	StaleSelection bool
}

// ResolveBatches filtra los lotes con stock (> 0) de (ubicación, insumo) en la foto del catálogo.
// Sin lote elegido, MaxQuantity es la suma de los lotes; con lote elegido, la cantidad de ese lote.
// Los lotes se ordenan por vencimiento más próximo primero (FEFO); sin vencimiento van al final.
// Función pura: no modifica la foto ni el estado del llamador.
func ResolveBatches(catalog *entity.CatalogSnapshot, locationID, supplyID *int64, sel BatchSelection) BatchAvailability {
	if locationID == nil || supplyID == nil {
		return BatchAvailability{Batches: []entity.Batch{}}
	}

	all := catalog.Batches(*locationID, *supplyID)
	batches := make([]entity.Batch, 0, len(all))
	total := decimal.Zero
	for _, b := range all {
		if !b.Quantity.IsPositive() {
			continue
		}
		if b.Active != nil && !*b.Active {
			continue
		}
		batches = append(batches, b)
		total = total.Add(b.Quantity)
	}
	sortFEFO(batches)

	out := BatchAvailability{Batches: batches, MaxQuantity: &total}
	if sel.IsZero() {
		return out
	}
	for i := range batches {
		if sel.matches(batches[i]) {
			q := batches[i].Quantity
			out.Selected = &batches[i]
			out.MaxQuantity = &q
			return out
		}
	}
	out.StaleSelection = true
	return out
}

// sortFEFO ordena por vencimiento ascendente, luego por número de lote.
func sortFEFO(batches []entity.Batch) {
	sort.SliceStable(batches, func(i, j int) bool {
		a, b := batches[i].ExpirationDate, batches[j].ExpirationDate
		switch {
		case a != nil && b != nil && *a != *b:
			return a.Before(*b)
		case a != nil && b == nil:
			return true
		case a == nil && b != nil:
			return false
		}
		return batches[i].BatchNumber < batches[j].BatchNumber
	})
}

// SourceLocation devuelve la ubicación de la que sale stock para el tipo dado, o nil si el
// movimiento sólo suma (PURCHASE). En ADJUSTMENT es la ubicación ajustada.
func SourceLocation(t entity.MovementType, form Form) *int64 {
	switch t {
	case entity.MovementTransfer, entity.MovementReturn:
		return form.OriginLocationID
	case entity.MovementAdjustment:
		return form.LocationID
	}
	return nil
}

// RefreshCapacity recalcula MaxQuantity de cada línea contra la foto dada, descartando el tope
// que haya enviado el llamador. Un lote elegido que ya no existe deja el tope en cero.
// Un lote elegido sólo por ID recibe su número, que es lo que viaja en el payload.
// Devuelve una copia; form no se modifica.
func RefreshCapacity(t entity.MovementType, form Form, catalog *entity.CatalogSnapshot) Form {
	out := form
	out.Details = make([]DetailForm, len(form.Details))
	copy(out.Details, form.Details)

	source := SourceLocation(t, form)
	if source == nil {
		return out
	}
	for i, d := range out.Details {
		av := ResolveBatches(catalog, source, d.SupplyID, d.BatchSelection())
		if av.StaleSelection {
			zero := decimal.Zero
			out.Details[i].MaxQuantity = &zero
			continue
		}
		out.Details[i].MaxQuantity = av.MaxQuantity
		if av.Selected != nil && out.Details[i].BatchNumber == "" {
			out.Details[i].BatchNumber = av.Selected.BatchNumber
		}
	}
	return out
}
