package inventory

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"
)

// RawQuantity es la cantidad tal como llega del formulario: número JSON o texto.
// Se conserva sin interpretar para que el validador pueda reportar valores no numéricos.
type RawQuantity string

// UnmarshalJSON acepta 10, 10.5, "10", "" y null.
func (q *RawQuantity) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*q = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*q = RawQuantity(s)
		return nil
	}
	*q = RawQuantity(b)
	return nil
}

// Decimal parsea la cantidad. ok=false si no es numérica.
func (q RawQuantity) Decimal() (decimal.Decimal, bool) {
	s := strings.TrimSpace(string(q))
	if s == "" {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

// Límites de NUMERIC(18,4), el tipo de las cantidades en el libro.
const (
	QuantityScale     = 4
	QuantityIntDigits = 14
)

// Representable indica si q cabe en NUMERIC(18,4) sin redondeo.
// Sólo mira exponente y dígitos del coeficiente: no expande q.
func Representable(q decimal.Decimal) bool {
	exp := int(q.Exponent())
	if q.NumDigits()+exp > QuantityIntDigits {
		return false
	}
	if exp >= -QuantityScale {
		return true
	}
	// Sobran más decimales que dígitos tiene el coeficiente: no pueden ser todos ceros.
	if -exp-QuantityScale > q.NumDigits() {
		return false
	}
	return q.Equal(q.Truncate(QuantityScale))
}

// Qty construye una RawQuantity desde un decimal (útil para llamadores internos).
func Qty(d decimal.Decimal) RawQuantity { return RawQuantity(d.String()) }

// Form es el formulario de movimiento tal como lo arma el llamador.
// LocationID es la ubicación única de PURCHASE (destino) y ADJUSTMENT (la ubicación ajustada).
// TRANSFER usa OriginLocationID y DestinationLocationID; RETURN usa OriginLocationID.
type Form struct {
	SupplierID            *int64       `json:"supplierId,omitempty"`
	LocationID            *int64       `json:"locationId,omitempty"`
	OriginLocationID      *int64       `json:"originLocationId,omitempty"`
	DestinationLocationID *int64       `json:"destinationLocationId,omitempty"`
	Reason                string       `json:"reason"`
	Notes                 string       `json:"notes,omitempty"`
	ExitReason            string       `json:"exitReason,omitempty"`
	Details               []DetailForm `json:"details"`
}

// DetailForm es una línea del formulario.
// MaxQuantity es el tope reportado por ResolveBatches para la combinación lote/ubicación/insumo;
// nil significa que el tope todavía no se puede aplicar.
type DetailForm struct {
	SupplyID       *int64           `json:"supplyId,omitempty"`
	SupplierItemID *int64           `json:"supplierItemId,omitempty"`
	Quantity       RawQuantity      `json:"quantity"`
	BatchID        *int64           `json:"batchId,omitempty"`
	BatchNumber    string           `json:"batchNumber,omitempty"`
	ExpirationDate string           `json:"expirationDate,omitempty"`
	Notes          string           `json:"notes,omitempty"`
	MaxQuantity    *decimal.Decimal `json:"maxQuantity,omitempty"`
}

// BatchSelection devuelve la selección de lote de la línea (número o ID).
func (d DetailForm) BatchSelection() BatchSelection {
	return BatchSelection{Number: strings.TrimSpace(d.BatchNumber), ID: d.BatchID}
}
