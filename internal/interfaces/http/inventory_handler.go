package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stock-movements/internal/application/dto"
	"github.com/jhoicas/stock-movements/internal/application/inventory"
	"github.com/jhoicas/stock-movements/internal/domain"
	engine "github.com/jhoicas/stock-movements/internal/domain/inventory"
)

// InventoryHandler maneja las peticiones HTTP de movimientos de stock (protegido).
type InventoryHandler struct {
	uc *inventory.RegisterMovementUseCase
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(uc *inventory.RegisterMovementUseCase) *InventoryHandler {
	return &InventoryHandler{uc: uc}
}

// GetCatalog godoc
// @Summary      Foto vigente del catálogo (ubicaciones, insumos, proveedores, lotes)
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  entity.CatalogSnapshot
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /api/inventory/catalog [get]
func (h *InventoryHandler) GetCatalog(c *fiber.Ctx) error {
	snap, err := h.uc.Catalog(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(snap)
}

// GetBatches godoc
// @Summary      Lotes seleccionables y cantidad máxima para (ubicación, insumo)
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        location_id   query  int     false  "Ubicación de origen"
// @Param        supply_id     query  int     false  "Insumo"
// @Param        batch_id      query  int     false  "Lote elegido (ID)"
// @Param        batch_number  query  string  false  "Lote elegido (número)"
// @Success      200  {object}  dto.BatchAvailabilityResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/inventory/batches [get]
func (h *InventoryHandler) GetBatches(c *fiber.Ctx) error {
	var q dto.BatchAvailabilityQuery
	if err := c.QueryParser(&q); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "parámetros inválidos"})
	}
	if msg := validateShape(q); msg != "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: msg})
	}
	av, err := h.uc.Availability(c.UserContext(), q.LocationID, q.SupplyID, engine.BatchSelection{Number: q.BatchNumber, ID: q.BatchID})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.NewBatchAvailabilityResponse(av))
}

// ValidateMovement godoc
// @Summary      Validar un movimiento sin registrarlo
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        type  path  string               true  "purchase | transfer | adjustment | return"
// @Param        body  body  dto.MovementRequest  true  "Formulario del movimiento"
// @Success      200   {object}  dto.ValidationResultResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/inventory/movements/{type}/validate [post]
func (h *InventoryHandler) ValidateMovement(c *fiber.Ctx) error {
	in, ok, err := h.parseBody(c)
	if !ok {
		return err
	}
	err = h.uc.ValidateFromRequest(c.UserContext(), c.Params("type"), in)
	if err == nil {
		return c.JSON(dto.ValidationResultResponse{Valid: true})
	}
	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		res := dto.ValidationResultResponse{Valid: false, Message: ve.Message, Code: ve.Code}
		if ve.Line >= 0 {
			line := ve.Line
			res.Line = &line
		}
		return c.JSON(res)
	}
	return writeError(c, err)
}

// RegisterMovement godoc
// @Summary      Registrar movimiento de stock
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        type  path  string               true  "purchase | transfer | adjustment | return"
// @Param        body  body  dto.MovementRequest  true  "Formulario del movimiento"
// @Success      201   {object}  dto.RegisterMovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      502   {object}  dto.ErrorResponse
// @Router       /api/inventory/movements/{type} [post]
func (h *InventoryHandler) RegisterMovement(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID <= 0 {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	in, ok, err := h.parseBody(c)
	if !ok {
		return err
	}
	res, err := h.uc.RegisterMovementFromRequest(c.UserContext(), c.Params("type"), userID, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.RegisterMovementResponse{Message: res.Message, Movement: res.Entry})
}

// GetMovement godoc
// @Summary      Obtener un movimiento registrado
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del movimiento (UUID)"
// @Success      200  {object}  entity.LedgerEntry
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/movements/{id} [get]
func (h *InventoryHandler) GetMovement(c *fiber.Ctx) error {
	entry, err := h.uc.GetMovement(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(entry)
}

// ListMovements godoc
// @Summary      Listar movimientos registrados (más recientes primero)
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Máximo 100 (por defecto 20)"
// @Param        offset  query  int  false  "Desplazamiento"
// @Success      200  {object}  dto.MovementListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/inventory/movements [get]
func (h *InventoryHandler) ListMovements(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "parámetros inválidos"})
	}
	page.DefaultPage()
	if msg := validateShape(page); msg != "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: msg})
	}
	items, total, err := h.uc.ListMovements(c.UserContext(), page.Limit, page.Offset)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.MovementListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset, Total: total},
	})
}

// parseBody decodifica y revisa la forma del body. ok=false significa que la respuesta ya se escribió.
func (h *InventoryHandler) parseBody(c *fiber.Ctx) (dto.MovementRequest, bool, error) {
	var in dto.MovementRequest
	if err := c.BodyParser(&in); err != nil {
		return in, false, c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if msg := validateShape(in); msg != "" {
		return in, false, c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: msg})
	}
	return in, true, nil
}
