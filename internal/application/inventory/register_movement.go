package inventory

import (
	"context"
	"fmt"

	"github.com/jhoicas/stock-movements/internal/application/dto"
	"github.com/jhoicas/stock-movements/internal/domain"
	"github.com/jhoicas/stock-movements/internal/domain/entity"
)

// RegisterMovementFromRequest adapta el request HTTP al caso de uso Register(ctx, tipo, form, userID).
// rawType es el segmento de ruta (purchase, transfer, adjustment, return).
func (uc *RegisterMovementUseCase) RegisterMovementFromRequest(ctx context.Context, rawType string, userID int64, in dto.MovementRequest) (*RegisterResult, error) {
	t, err := parseType(rawType)
	if err != nil {
		return nil, err
	}
	return uc.Register(ctx, t, in.ToForm(), userID)
}

// ValidateFromRequest valida el body sin enviarlo.
func (uc *RegisterMovementUseCase) ValidateFromRequest(ctx context.Context, rawType string, in dto.MovementRequest) error {
	t, err := parseType(rawType)
	if err != nil {
		return err
	}
	return uc.Validate(ctx, t, in.ToForm())
}

// parseType rechaza tipos desconocidos antes de llegar al resolutor de estrategias.
func parseType(raw string) (entity.MovementType, error) {
	t, err := entity.ParseMovementType(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", domain.ErrInvalidInput, err)
	}
	return t, nil
}
