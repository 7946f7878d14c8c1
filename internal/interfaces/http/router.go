package http

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"github.com/jhoicas/stock-movements/internal/application/auth"
	"github.com/jhoicas/stock-movements/internal/application/inventory"
	"github.com/jhoicas/stock-movements/pkg/jwt"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	RegisterMovement *inventory.RegisterMovementUseCase
	AuthUC           *auth.AuthUseCase // nil = sin rutas /api/auth
	Metrics          http.Handler      // nil = sin /metrics
	JWTSecret        string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
	if deps.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(deps.Metrics))
	}

	api := app.Group("/api")

	// Rutas públicas
	var authHandler *AuthHandler
	if deps.AuthUC != nil {
		authHandler = NewAuthHandler(deps.AuthUC)
		api.Post("/auth/login", authHandler.Login)
	}

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	if authHandler != nil {
		protected.Post("/auth/register", RequireRole(jwt.RoleAdmin), authHandler.Register)
	}

	// Inventory movements (protegido; registrar exige admin o bodeguero)
	invGroup := protected.Group("/inventory")
	inventoryHandler := NewInventoryHandler(deps.RegisterMovement)
	invGroup.Get("/catalog", inventoryHandler.GetCatalog)
	invGroup.Get("/batches", inventoryHandler.GetBatches)
	invGroup.Get("/movements", inventoryHandler.ListMovements)
	invGroup.Get("/movements/:id", inventoryHandler.GetMovement)
	invGroup.Post("/movements/:type/validate", inventoryHandler.ValidateMovement)
	invGroup.Post("/movements/:type",
		RequireRole(jwt.RoleAdmin, jwt.RoleBodeguero),
		inventoryHandler.RegisterMovement,
	)
}
