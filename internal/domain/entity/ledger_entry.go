package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// LedgerEntry representa un movimiento ya persistido (inmutable).
// Es lo que devuelve el gateway de envío cuando acepta un StockMovementRequest.
type LedgerEntry struct {
	MovementID   string              `json:"movementId"`
	MovementType MovementType        `json:"movementType"`
	MovementDate time.Time           `json:"movementDate"`
	Details      []LedgerEntryDetail `json:"details"`
}

// LedgerEntryDetail es el efecto aplicado sobre un lote concreto.
// Quantity positivo = entrada al lote, negativo = salida del lote.
type LedgerEntryDetail struct {
	LocationID  int64           `json:"locationId"`
	SupplyID    int64           `json:"supplyId"`
	BatchID     int64           `json:"batchId"`
	BatchNumber string          `json:"batchNumber"`
	Quantity    decimal.Decimal `json:"quantity"`
	Notes       *string         `json:"notes,omitempty"`
}
