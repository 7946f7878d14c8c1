package entity

import (
	"errors"
	"fmt"
	"strings"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
)

// ErrUnknownMovementType se devuelve al parsear un tipo fuera del conjunto cerrado.
var ErrUnknownMovementType = errors.New("tipo de movimiento desconocido")

// MovementType es el tipo de movimiento de inventario (conjunto cerrado de 4 valores).
type MovementType int

// Tipos de movimiento. El cero no es un tipo válido.
const (
	MovementPurchase   MovementType = iota + 1 // entrada por compra a proveedor
	MovementTransfer                           // traslado entre ubicaciones
	MovementAdjustment                         // ajuste (+/-) en una ubicación
	MovementReturn                             // salida por devolución o consumo
)

// MovementTypes lista todos los tipos en orden estable.
var MovementTypes = []MovementType{MovementPurchase, MovementTransfer, MovementAdjustment, MovementReturn}

var movementTypeNames = map[MovementType]string{
	MovementPurchase:   "PURCHASE",
	MovementTransfer:   "TRANSFER",
	MovementAdjustment: "ADJUSTMENT",
	MovementReturn:     "RETURN",
}

// String devuelve el nombre canónico (PURCHASE, TRANSFER, ...).
func (t MovementType) String() string {
	if s, ok := movementTypeNames[t]; ok {
		return s
	}
	return fmt.Sprintf("MovementType(%d)", int(t))
}

// Valid indica si t pertenece al conjunto cerrado.
func (t MovementType) Valid() bool {
	_, ok := movementTypeNames[t]
	return ok
}

// ParseMovementType acepta el nombre canónico sin distinguir mayúsculas.
func ParseMovementType(s string) (MovementType, error) {
	name := strings.ToUpper(strings.TrimSpace(s))
	for t, n := range movementTypeNames {
		if n == name {
			return t, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownMovementType, s)
}

// MarshalText serializa el tipo por nombre.
func (t MovementType) MarshalText() ([]byte, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownMovementType, int(t))
	}
	return []byte(t.String()), nil
}

// UnmarshalText parsea el nombre canónico.
func (t *MovementType) UnmarshalText(b []byte) error {
	parsed, err := ParseMovementType(string(b))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// IncreasesOnly indica si el movimiento sólo puede sumar stock para la cantidad dada.
func (t MovementType) IncreasesOnly(quantity decimal.Decimal) bool {
	switch t {
	case MovementPurchase:
		return true
	case MovementAdjustment:
		return quantity.IsPositive()
	}
	return false
}

// ExitReason discrimina por qué salió el stock en un RETURN.
type ExitReason string

// Motivos de salida.
const (
	ExitReasonConsumption    ExitReason = "CONSUMPTION"
	ExitReasonSupplierReturn ExitReason = "SUPPLIER_RETURN"
)

// ParseExitReason valida el discriminador; vacío devuelve "" sin error.
func ParseExitReason(s string) (ExitReason, error) {
	switch r := ExitReason(strings.ToUpper(strings.TrimSpace(s))); r {
	case "", ExitReasonConsumption, ExitReasonSupplierReturn:
		return r, nil
	}
	return "", fmt.Errorf("motivo de salida desconocido: %q", s)
}

// StockMovementRequest es el asiento del libro de movimientos antes de persistirse.
// Type no viaja en el JSON: lo determina el endpoint/estrategia que lo envía.
type StockMovementRequest struct {
	Type                  MovementType     `json:"-"`
	DestinationLocationID *int64           `json:"destinationLocationId,omitempty"`
	OriginLocationID      *int64           `json:"originLocationId,omitempty"`
	UserID                int64            `json:"userId"`
	SupplierID            *int64           `json:"supplierId,omitempty"`
	Reason                *string          `json:"reason,omitempty"`
	Notes                 *string          `json:"notes,omitempty"`
	ExitReason            *ExitReason      `json:"exitReason,omitempty"`
	Details               []MovementDetail `json:"details"`
}

// MovementDetail es una línea del movimiento.
// Quantity lleva signo sólo en ADJUSTMENT; en los demás tipos es positiva.
type MovementDetail struct {
	SupplyID       int64           `json:"supplyId"`
	SupplierItemID *int64          `json:"supplierItemId,omitempty"`
	Quantity       decimal.Decimal `json:"quantity"`
	BatchNumber    *string         `json:"batchNumber,omitempty"`
	ExpirationDate *civil.Date     `json:"expirationDate,omitempty"`
	Notes          *string         `json:"notes,omitempty"`
}
