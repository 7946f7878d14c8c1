package inventory

import (
	"strings"

	"cloud.google.com/go/civil"

	"github.com/jhoicas/stock-movements/internal/domain/entity"
)

// BuildFunc construye el payload canónico a partir de un formulario ya validado.
// Es total sobre cualquier entrada que pasó Validate y determinista: no lee reloj ni genera IDs.
type BuildFunc func(form Form, userID int64) entity.StockMovementRequest

// BuildPayload construye el payload del tipo dado.
func BuildPayload(t entity.MovementType, form Form, userID int64) entity.StockMovementRequest {
	return Resolve(t).Build(form, userID)
}

// buildPurchase: destino = ubicación del formulario, proveedor obligatorio, sin origen.
func buildPurchase(form Form, userID int64) entity.StockMovementRequest {
	req := baseRequest(entity.MovementPurchase, form, userID)
	req.DestinationLocationID = copyID(form.LocationID)
	req.SupplierID = copyID(form.SupplierID)
	return req
}

// buildTransfer: origen y destino distintos, sin proveedor.
func buildTransfer(form Form, userID int64) entity.StockMovementRequest {
	req := baseRequest(entity.MovementTransfer, form, userID)
	req.OriginLocationID = copyID(form.OriginLocationID)
	req.DestinationLocationID = copyID(form.DestinationLocationID)
	return req
}

// buildAdjustment: el ajuste vive en una sola ubicación; el origen la replica para trazabilidad.
func buildAdjustment(form Form, userID int64) entity.StockMovementRequest {
	req := baseRequest(entity.MovementAdjustment, form, userID)
	req.DestinationLocationID = copyID(form.LocationID)
	req.OriginLocationID = copyID(form.LocationID)
	return req
}

// buildReturn: origen obligatorio, proveedor opcional y motivo de salida.
// Sin motivo explícito se asume SUPPLIER_RETURN (compatibilidad con clientes anteriores).
func buildReturn(form Form, userID int64) entity.StockMovementRequest {
	req := baseRequest(entity.MovementReturn, form, userID)
	req.OriginLocationID = copyID(form.OriginLocationID)
	req.SupplierID = copyID(form.SupplierID)
	reason, _ := entity.ParseExitReason(form.ExitReason)
	if reason == "" {
		reason = entity.ExitReasonSupplierReturn
	}
	req.ExitReason = &reason
	return req
}

func baseRequest(t entity.MovementType, form Form, userID int64) entity.StockMovementRequest {
	details := make([]entity.MovementDetail, 0, len(form.Details))
	for _, d := range form.Details {
		details = append(details, buildDetail(d))
	}
	return entity.StockMovementRequest{
		Type:    t,
		UserID:  userID,
		Reason:  optionalText(form.Reason),
		Notes:   optionalText(form.Notes),
		Details: details,
	}
}

func buildDetail(d DetailForm) entity.MovementDetail {
	q, _ := d.Quantity.Decimal()
	out := entity.MovementDetail{
		SupplierItemID: copyID(d.SupplierItemID),
		Quantity:       q,
		BatchNumber:    optionalText(d.BatchNumber),
		Notes:          optionalText(d.Notes),
	}
	if d.SupplyID != nil {
		out.SupplyID = *d.SupplyID
	}
	if raw := strings.TrimSpace(d.ExpirationDate); raw != "" {
		if exp, err := civil.ParseDate(raw); err == nil {
			out.ExpirationDate = &exp
		}
	}
	return out
}

// optionalText recorta y devuelve nil si queda vacío.
func optionalText(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

func copyID(id *int64) *int64 {
	if id == nil {
		return nil
	}
	v := *id
	return &v
}
