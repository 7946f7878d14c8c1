package inventory

import (
	"context"
	"fmt"

	"github.com/jhoicas/stock-movements/internal/domain/entity"
)

// Submitter es el puerto mínimo que necesita una estrategia para enviar su payload.
// Lo implementa el gateway de envío (persistencia externa).
type Submitter interface {
	Submit(ctx context.Context, req entity.StockMovementRequest) (*entity.LedgerEntry, error)
}

// SubmitFunc envía el payload de una estrategia.
type SubmitFunc func(ctx context.Context, s Submitter, req entity.StockMovementRequest) (*entity.LedgerEntry, error)

// Strategy agrupa las funciones puras de un tipo de movimiento.
type Strategy struct {
	Type           entity.MovementType
	Validate       ValidateFunc
	Build          BuildFunc
	Submit         SubmitFunc
	SuccessMessage string
}

// strategies es la tabla de despacho, indexada por tipo. Se arma una sola vez.
var strategies = buildStrategies()

func buildStrategies() [entity.MovementReturn + 1]*Strategy {
	var table [entity.MovementReturn + 1]*Strategy
	table[entity.MovementPurchase] = &Strategy{
		Type: entity.MovementPurchase,
		Validate: newValidator(quantityRules{
			refCheck: purchaseRefs,
			supplyOf: catalogSupply,
		}),
		Build:          buildPurchase,
		Submit:         submitAs(entity.MovementPurchase),
		SuccessMessage: "Purchase entry registered successfully",
	}
	table[entity.MovementTransfer] = &Strategy{
		Type: entity.MovementTransfer,
		Validate: newValidator(quantityRules{
			capped:   consumesAlways,
			refCheck: transferRefs,
			supplyOf: catalogSupply,
		}),
		Build:          buildTransfer,
		Submit:         submitAs(entity.MovementTransfer),
		SuccessMessage: "Transfer registered successfully",
	}
	table[entity.MovementAdjustment] = &Strategy{
		Type: entity.MovementAdjustment,
		Validate: newValidator(quantityRules{
			signed:   true,
			capped:   consumesWhenNegative,
			refCheck: adjustmentRefs,
			supplyOf: catalogSupply,
		}),
		Build:          buildAdjustment,
		Submit:         submitAs(entity.MovementAdjustment),
		SuccessMessage: "Adjustment registered successfully",
	}
	table[entity.MovementReturn] = &Strategy{
		Type: entity.MovementReturn,
		Validate: newValidator(quantityRules{
			capped:   consumesAlways,
			refCheck: returnRefs,
			supplyOf: returnSupply,
		}),
		Build:          buildReturn,
		Submit:         submitAs(entity.MovementReturn),
		SuccessMessage: "Return registered successfully",
	}
	for _, t := range entity.MovementTypes {
		if table[t] == nil {
			panic(fmt.Sprintf("inventory: sin estrategia para %s", t))
		}
	}
	return table
}

// Resolve devuelve la estrategia del tipo. Un tipo fuera del conjunto es un error de programación:
// los llamadores deben rechazarlo antes (entity.ParseMovementType).
func Resolve(t entity.MovementType) Strategy {
	if !t.Valid() {
		panic(fmt.Sprintf("inventory: tipo de movimiento no soportado: %d", int(t)))
	}
	return *strategies[t]
}

// submitAs fija el tipo en el payload antes de delegar en el gateway.
func submitAs(t entity.MovementType) SubmitFunc {
	return func(ctx context.Context, s Submitter, req entity.StockMovementRequest) (*entity.LedgerEntry, error) {
		req.Type = t
		return s.Submit(ctx, req)
	}
}
