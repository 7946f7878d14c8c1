package dto

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/stock-movements/internal/domain/entity"
	"github.com/jhoicas/stock-movements/internal/domain/inventory"
)

// MovementRequest body para POST /api/inventory/movements/:type y /validate.
// locationId es la ubicación de PURCHASE (destino) y de ADJUSTMENT.
type MovementRequest struct {
	SupplierID            *int64                  `json:"supplierId,omitempty" validate:"omitempty,gt=0"`
	LocationID            *int64                  `json:"locationId,omitempty" validate:"omitempty,gt=0"`
	OriginLocationID      *int64                  `json:"originLocationId,omitempty" validate:"omitempty,gt=0"`
	DestinationLocationID *int64                  `json:"destinationLocationId,omitempty" validate:"omitempty,gt=0"`
	Reason                string                  `json:"reason" validate:"max=255"`
	Notes                 string                  `json:"notes,omitempty" validate:"max=1000"`
	ExitReason            string                  `json:"exitReason,omitempty" validate:"max=32"`
	Details               []MovementDetailRequest `json:"details" validate:"max=200,dive"`
}

// MovementDetailRequest línea del movimiento. quantity acepta número o texto.
type MovementDetailRequest struct {
	SupplyID       *int64                `json:"supplyId,omitempty" validate:"omitempty,gt=0"`
	SupplierItemID *int64                `json:"supplierItemId,omitempty" validate:"omitempty,gt=0"`
	Quantity       inventory.RawQuantity `json:"quantity" validate:"max=64"`
	BatchID        *int64                `json:"batchId,omitempty" validate:"omitempty,gt=0"`
	BatchNumber    string                `json:"batchNumber,omitempty" validate:"max=64"`
	ExpirationDate string                `json:"expirationDate,omitempty" validate:"max=32"`
	Notes          string                `json:"notes,omitempty" validate:"max=500"`
}

// ToForm convierte el body en el formulario del motor.
func (r MovementRequest) ToForm() inventory.Form {
	form := inventory.Form{
		SupplierID:            r.SupplierID,
		LocationID:            r.LocationID,
		OriginLocationID:      r.OriginLocationID,
		DestinationLocationID: r.DestinationLocationID,
		Reason:                r.Reason,
		Notes:                 r.Notes,
		ExitReason:            r.ExitReason,
		Details:               make([]inventory.DetailForm, 0, len(r.Details)),
	}
	for _, d := range r.Details {
		form.Details = append(form.Details, inventory.DetailForm{
			SupplyID:       d.SupplyID,
			SupplierItemID: d.SupplierItemID,
			Quantity:       d.Quantity,
			BatchID:        d.BatchID,
			BatchNumber:    d.BatchNumber,
			ExpirationDate: d.ExpirationDate,
			Notes:          d.Notes,
		})
	}
	return form
}

// ValidationResultResponse respuesta de POST /api/inventory/movements/:type/validate.
type ValidationResultResponse struct {
	Valid   bool   `json:"valid"`
	Message string `json:"message,omitempty"`
	Code    string `json:"code,omitempty"`
	Line    *int   `json:"line,omitempty"`
}

// RegisterMovementResponse respuesta 201 de POST /api/inventory/movements/:type.
type RegisterMovementResponse struct {
	Message  string              `json:"message"`
	Movement *entity.LedgerEntry `json:"movement"`
}

// BatchAvailabilityQuery parámetros de GET /api/inventory/batches.
type BatchAvailabilityQuery struct {
	LocationID  *int64 `query:"location_id" validate:"omitempty,gt=0"`
	SupplyID    *int64 `query:"supply_id" validate:"omitempty,gt=0"`
	BatchID     *int64 `query:"batch_id" validate:"omitempty,gt=0"`
	BatchNumber string `query:"batch_number" validate:"max=64"`
}

// BatchAvailabilityResponse lotes seleccionables y cantidad máxima.
// maxQuantity null: falta ubicación o insumo y la cantidad no se limita.
type BatchAvailabilityResponse struct {
	Batches        []entity.Batch   `json:"batches"`
	MaxQuantity    *decimal.Decimal `json:"maxQuantity"`
	SelectedBatch  *entity.Batch    `json:"selectedBatch,omitempty"`
	StaleSelection bool             `json:"staleSelection"`
}

// NewBatchAvailabilityResponse arma la respuesta desde el resultado del motor.
func NewBatchAvailabilityResponse(av inventory.BatchAvailability) BatchAvailabilityResponse {
	batches := av.Batches
	if batches == nil {
		batches = []entity.Batch{}
	}
	return BatchAvailabilityResponse{
		Batches:        batches,
		MaxQuantity:    av.MaxQuantity,
		SelectedBatch:  av.Selected,
		StaleSelection: av.StaleSelection,
	}
}
