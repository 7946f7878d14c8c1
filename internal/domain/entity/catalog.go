package entity

// CatalogSnapshot es la foto inmutable del catálogo que alimenta al motor en cada llamada.
// Su forma JSON es la que entrega el proveedor de catálogo y debe ida-y-vuelta sin cambios.
type CatalogSnapshot struct {
	Locations       []Location      `json:"locations"`
	Supplies        []Supply        `json:"supplies"`
	Suppliers       []Supplier      `json:"suppliers"`
	SupplierItems   []SupplierItem  `json:"supplierItems,omitempty"`
	StockByLocation []LocationStock `json:"stockByLocation"`
}

// LocationStock agrupa el stock de una ubicación por insumo.
type LocationStock struct {
	LocationID int64         `json:"locationId"`
	Supplies   []SupplyStock `json:"supplies"`
}

// SupplyStock son los lotes de un insumo dentro de una ubicación.
type SupplyStock struct {
	SupplyID int64   `json:"supplyId"`
	Batches  []Batch `json:"batches"`
}

// Location busca una ubicación por ID.
func (c *CatalogSnapshot) Location(id int64) (*Location, bool) {
	if c == nil {
		return nil, false
	}
	for i := range c.Locations {
		if c.Locations[i].ID == id {
			return &c.Locations[i], true
		}
	}
	return nil, false
}

// Supply busca un insumo por ID.
func (c *CatalogSnapshot) Supply(id int64) (*Supply, bool) {
	if c == nil {
		return nil, false
	}
	for i := range c.Supplies {
		if c.Supplies[i].ID == id {
			return &c.Supplies[i], true
		}
	}
	return nil, false
}

// Supplier busca un proveedor por ID.
func (c *CatalogSnapshot) Supplier(id int64) (*Supplier, bool) {
	if c == nil {
		return nil, false
	}
	for i := range c.Suppliers {
		if c.Suppliers[i].ID == id {
			return &c.Suppliers[i], true
		}
	}
	return nil, false
}

// SupplierItem busca una línea de proveedor por ID.
func (c *CatalogSnapshot) SupplierItem(id int64) (*SupplierItem, bool) {
	if c == nil {
		return nil, false
	}
	for i := range c.SupplierItems {
		if c.SupplierItems[i].ID == id {
			return &c.SupplierItems[i], true
		}
	}
	return nil, false
}

// Batches devuelve los lotes registrados para (ubicación, insumo), sin filtrar.
// El slice pertenece a la foto: no debe modificarse.
func (c *CatalogSnapshot) Batches(locationID, supplyID int64) []Batch {
	if c == nil {
		return nil
	}
	for _, ls := range c.StockByLocation {
		if ls.LocationID != locationID {
			continue
		}
		for _, ss := range ls.Supplies {
			if ss.SupplyID == supplyID {
				return ss.Batches
			}
		}
	}
	return nil
}
