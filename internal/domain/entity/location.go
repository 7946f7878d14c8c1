package entity

// LocationType clasifica la ubicación física o lógica.
type LocationType string

// Tipos de ubicación.
const (
	LocationShelf     LocationType = "shelf"
	LocationWarehouse LocationType = "warehouse"
	LocationLab       LocationType = "lab"
)

// Location representa un punto de almacenamiento (estante, bodega o laboratorio).
// Referencia de sólo lectura para el motor: nunca se crea ni se elimina aquí.
type Location struct {
	ID      int64        `json:"id"`
	Name    string       `json:"name"`
	Type    LocationType `json:"type"`
	Address string       `json:"address,omitempty"`
}
