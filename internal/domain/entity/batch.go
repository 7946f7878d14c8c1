package entity

import (
	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
)

// Batch es un lote de un insumo en una ubicación, con su propio stock y vencimiento.
// Quantity es el conteo autoritativo de ese lote en esa ubicación.
type Batch struct {
	ID             int64           `json:"batchId"`
	BatchNumber    string          `json:"batchNumber"`
	ExpirationDate *civil.Date     `json:"expirationDate,omitempty"`
	Quantity       decimal.Decimal `json:"quantity"`
	Active         *bool           `json:"active,omitempty"`
}
