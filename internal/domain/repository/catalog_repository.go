package repository

import (
	"context"

	"github.com/jhoicas/stock-movements/internal/domain/entity"
)

// CatalogRepository define el puerto de lectura/carga de la foto de catálogo.
type CatalogRepository interface {
	Snapshot(ctx context.Context) (*entity.CatalogSnapshot, error)
	// Load inserta o actualiza (por ID) todo el contenido de la foto.
	Load(ctx context.Context, snap *entity.CatalogSnapshot) error
}
