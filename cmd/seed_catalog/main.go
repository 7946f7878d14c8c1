// seed_catalog carga una foto de catálogo (ubicaciones, insumos, proveedores, lotes) en PostgreSQL.
// El JSON tiene la misma forma que GET /api/inventory/catalog.
//
// Uso: go run ./cmd/seed_catalog [ruta/catalog.json]
// Por defecto lee catalog.json en el directorio actual.
package main

import (
	"context"
	"encoding/json"
	"os"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/stock-movements/internal/domain/entity"
	"github.com/jhoicas/stock-movements/internal/infrastructure/postgres"
	"github.com/jhoicas/stock-movements/pkg/config"
	"github.com/jhoicas/stock-movements/pkg/logger"
)

func main() {
	path := "catalog.json"
	if len(os.Args) > 1 {
		path = os.Args[1]
	}

	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel, Service: "seed_catalog"})

	raw, err := os.ReadFile(path)
	if err != nil {
		log.Fatal().Err(err).Str("path", path).Msg("leer catálogo")
	}
	var snap entity.CatalogSnapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		log.Fatal().Err(err).Str("path", path).Msg("JSON de catálogo inválido")
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	err = pgx.BeginFunc(ctx, pool, func(tx pgx.Tx) error {
		return postgres.NewCatalogRepository(tx).Load(ctx, &snap)
	})
	if err != nil {
		log.Fatal().Err(err).Msg("cargar catálogo")
	}

	log.Info().
		Int("locations", len(snap.Locations)).
		Int("supplies", len(snap.Supplies)).
		Int("suppliers", len(snap.Suppliers)).
		Int("stock_groups", len(snap.StockByLocation)).
		Msg("catálogo cargado")
}
