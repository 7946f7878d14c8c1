package entity

// Supply representa un insumo del catálogo que puede tener stock en cualquier ubicación.
type Supply struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	SKU  string `json:"sku"`
}

// Supplier representa un proveedor.
type Supplier struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	TaxID string `json:"taxId,omitempty"`
}

// SupplierItem relaciona el código de un proveedor con un insumo del catálogo.
// Las devoluciones pueden referirse a la línea del proveedor en lugar del insumo.
type SupplierItem struct {
	ID         int64 `json:"id"`
	SupplierID int64 `json:"supplierId"`
	SupplyID   int64 `json:"supplyId"`
}
