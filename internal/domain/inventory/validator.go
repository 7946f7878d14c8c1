package inventory

import (
	"strings"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/stock-movements/internal/domain"
	"github.com/jhoicas/stock-movements/internal/domain/entity"
)

// ValidateFunc es la firma común de los validadores por tipo.
// catalog puede ser nil: en ese caso sólo se exige presencia de referencias, no su existencia.
type ValidateFunc func(form Form, catalog *entity.CatalogSnapshot, today civil.Date) error

// Validate valida un formulario para el tipo dado. nil = válido.
// El primer error gana, en este orden: referencias de cabecera, líneas no vacías, cantidades
// numéricas, signo de la cantidad, insumo resoluble, vencimiento y capacidad.
func Validate(t entity.MovementType, form Form, catalog *entity.CatalogSnapshot, today civil.Date) error {
	return Resolve(t).Validate(form, catalog, today)
}

// quantityRules describe lo que cambia entre tipos a partir del paso 2.
type quantityRules struct {
	signed   bool                        // ADJUSTMENT: se admite negativo, sólo se rechaza cero
	capped   func(q decimal.Decimal) bool // si la línea consume stock y debe respetar MaxQuantity
	refCheck func(form Form, catalog *entity.CatalogSnapshot) error
	supplyOf func(d DetailForm, catalog *entity.CatalogSnapshot) (int64, bool)
}

func newValidator(r quantityRules) ValidateFunc {
	return func(form Form, catalog *entity.CatalogSnapshot, today civil.Date) error {
		if err := r.refCheck(form, catalog); err != nil {
			return err
		}
		if len(form.Details) == 0 {
			return domain.NewValidationError(domain.CodeNoDetails, "at least one detail required")
		}

		quantities := make([]decimal.Decimal, len(form.Details))
		for i, d := range form.Details {
			q, ok := d.Quantity.Decimal()
			if !ok {
				return domain.NewLineError(i, domain.CodeNonNumericQuantity,
					"detail %d: quantity %q must be a number", i+1, string(d.Quantity))
			}
			if !Representable(q) {
				return domain.NewLineError(i, domain.CodeQuantityOutOfRange,
					"detail %d: quantity allows at most %d integer digits and %d decimals",
					i+1, QuantityIntDigits, QuantityScale)
			}
			quantities[i] = q
		}

		for i, q := range quantities {
			if r.signed {
				if q.IsZero() {
					return domain.NewLineError(i, domain.CodeZeroQuantity,
						"detail %d: adjustment quantity cannot be zero", i+1)
				}
				continue
			}
			if !q.IsPositive() {
				return domain.NewLineError(i, domain.CodeNonPositive,
					"detail %d: quantity must be greater than zero", i+1)
			}
		}

		for i, d := range form.Details {
			if _, ok := r.supplyOf(d, catalog); !ok {
				return domain.NewLineError(i, domain.CodeMissingSupply,
					"detail %d: a valid supply is required", i+1)
			}
		}

		for i, d := range form.Details {
			raw := strings.TrimSpace(d.ExpirationDate)
			if raw == "" {
				continue
			}
			exp, err := civil.ParseDate(raw)
			if err != nil {
				return domain.NewLineError(i, domain.CodeInvalidDate,
					"detail %d: expiration date %q must use YYYY-MM-DD", i+1, raw)
			}
			if exp.Before(today) {
				return domain.NewLineError(i, domain.CodeExpired,
					"detail %d: expiration date %s is in the past", i+1, exp)
			}
		}

		if r.capped == nil {
			return nil
		}
		for i, d := range form.Details {
			q := quantities[i]
			if !r.capped(q) || d.MaxQuantity == nil {
				continue
			}
			if q.Abs().GreaterThan(*d.MaxQuantity) {
				return domain.NewCapacityError(i, q.Abs().String(), d.MaxQuantity.String())
			}
		}
		return nil
	}
}

// ─── Referencias de cabecera por tipo ─────────────────────────────────────────

func purchaseRefs(form Form, catalog *entity.CatalogSnapshot) error {
	if form.SupplierID == nil {
		return domain.NewValidationError(domain.CodeMissingReference, "supplier is required")
	}
	if err := supplierExists(catalog, *form.SupplierID); err != nil {
		return err
	}
	if form.LocationID == nil {
		return domain.NewValidationError(domain.CodeMissingReference, "destination location is required")
	}
	return locationExists(catalog, *form.LocationID)
}

func transferRefs(form Form, catalog *entity.CatalogSnapshot) error {
	if form.OriginLocationID == nil {
		return domain.NewValidationError(domain.CodeMissingReference, "origin location is required")
	}
	if form.DestinationLocationID == nil {
		return domain.NewValidationError(domain.CodeMissingReference, "destination location is required")
	}
	if *form.OriginLocationID == *form.DestinationLocationID {
		return domain.NewValidationError(domain.CodeSameLocation, "origin and destination locations must be different")
	}
	if err := locationExists(catalog, *form.OriginLocationID); err != nil {
		return err
	}
	return locationExists(catalog, *form.DestinationLocationID)
}

func adjustmentRefs(form Form, catalog *entity.CatalogSnapshot) error {
	if form.LocationID == nil {
		return domain.NewValidationError(domain.CodeMissingReference, "location is required")
	}
	return locationExists(catalog, *form.LocationID)
}

func returnRefs(form Form, catalog *entity.CatalogSnapshot) error {
	if form.OriginLocationID == nil {
		return domain.NewValidationError(domain.CodeMissingReference, "origin location is required")
	}
	if err := locationExists(catalog, *form.OriginLocationID); err != nil {
		return err
	}
	if form.SupplierID != nil {
		if err := supplierExists(catalog, *form.SupplierID); err != nil {
			return err
		}
	}
	if _, err := entity.ParseExitReason(form.ExitReason); err != nil {
		return domain.NewValidationError(domain.CodeInvalidExitReason, "exit reason %q is not supported", form.ExitReason)
	}
	return nil
}

func locationExists(catalog *entity.CatalogSnapshot, id int64) error {
	if catalog == nil {
		return nil
	}
	if _, ok := catalog.Location(id); !ok {
		return domain.NewValidationError(domain.CodeUnknownReference, "location %d not found", id)
	}
	return nil
}

func supplierExists(catalog *entity.CatalogSnapshot, id int64) error {
	if catalog == nil {
		return nil
	}
	if _, ok := catalog.Supplier(id); !ok {
		return domain.NewValidationError(domain.CodeUnknownReference, "supplier %d not found", id)
	}
	return nil
}

// ─── Resolución del insumo de una línea ───────────────────────────────────────

// catalogSupply exige supplyId y, si hay catálogo, que exista.
func catalogSupply(d DetailForm, catalog *entity.CatalogSnapshot) (int64, bool) {
	if d.SupplyID == nil {
		return 0, false
	}
	if catalog == nil {
		return *d.SupplyID, true
	}
	_, ok := catalog.Supply(*d.SupplyID)
	return *d.SupplyID, ok
}

// returnSupply acepta supplyId o, en su defecto, supplierItemId mapeado a un insumo.
func returnSupply(d DetailForm, catalog *entity.CatalogSnapshot) (int64, bool) {
	if d.SupplyID != nil {
		return catalogSupply(d, catalog)
	}
	if d.SupplierItemID == nil {
		return 0, false
	}
	if catalog == nil {
		return 0, true
	}
	item, ok := catalog.SupplierItem(*d.SupplierItemID)
	if !ok {
		return 0, false
	}
	_, ok = catalog.Supply(item.SupplyID)
	return item.SupplyID, ok
}

// ResolveSupplies completa SupplyID en las líneas que sólo traen supplierItemId.
// No modifica form: devuelve una copia.
func ResolveSupplies(form Form, catalog *entity.CatalogSnapshot) Form {
	out := form
	out.Details = make([]DetailForm, len(form.Details))
	copy(out.Details, form.Details)
	for i, d := range out.Details {
		if d.SupplyID != nil || d.SupplierItemID == nil {
			continue
		}
		if item, ok := catalog.SupplierItem(*d.SupplierItemID); ok {
			id := item.SupplyID
			out.Details[i].SupplyID = &id
		}
	}
	return out
}

func consumesAlways(decimal.Decimal) bool { return true }

func consumesWhenNegative(q decimal.Decimal) bool { return q.IsNegative() }
