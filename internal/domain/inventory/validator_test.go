package inventory_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-movements/internal/domain"
	"github.com/jhoicas/stock-movements/internal/domain/entity"
	"github.com/jhoicas/stock-movements/internal/domain/inventory"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers
// ──────────────────────────────────────────────────────────────────────────────

func validForm(t entity.MovementType) inventory.Form {
	switch t {
	case entity.MovementPurchase:
		return inventory.Form{SupplierID: id(supplierID), LocationID: id(locBodega), Reason: "restock",
			Details: []inventory.DetailForm{line(supplyGuantes, "50")}}
	case entity.MovementTransfer:
		return inventory.Form{OriginLocationID: id(locLab), DestinationLocationID: id(locBodega), Reason: "traslado",
			Details: []inventory.DetailForm{line(supplyGuantes, "2")}}
	case entity.MovementAdjustment:
		return inventory.Form{LocationID: id(locLab), Reason: "conteo",
			Details: []inventory.DetailForm{line(supplyGuantes, "-1")}}
	default:
		return inventory.Form{OriginLocationID: id(locLab), Reason: "devolución",
			Details: []inventory.DetailForm{line(supplyGuantes, "1")}}
	}
}

func requireCode(t *testing.T, err error, code string) *domain.ValidationError {
	t.Helper()
	require.Error(t, err)
	var ve *domain.ValidationError
	require.True(t, errors.As(err, &ve), "se esperaba *domain.ValidationError, got %T", err)
	assert.Equal(t, code, ve.Code, ve.Message)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	return ve
}

// ──────────────────────────────────────────────────────────────────────────────
// Formularios válidos por tipo
// ──────────────────────────────────────────────────────────────────────────────

func TestValidate_FormulariosValidos(t *testing.T) {
	for _, mt := range entity.MovementTypes {
		t.Run(mt.String(), func(t *testing.T) {
			assert.NoError(t, inventory.Validate(mt, validForm(mt), testCatalog(), today))
		})
	}
}

// Escenario A: compra válida.
func TestValidate_EscenarioA_Compra(t *testing.T) {
	form := inventory.Form{
		SupplierID: id(7), LocationID: id(3), Reason: "restock",
		Details: []inventory.DetailForm{line(10, "50")},
	}
	assert.NoError(t, inventory.Validate(entity.MovementPurchase, form, testCatalog(), today))
}

// ──────────────────────────────────────────────────────────────────────────────
// Paso 1: referencias de cabecera
// ──────────────────────────────────────────────────────────────────────────────

func TestValidate_ReferenciasRequeridas(t *testing.T) {
	cases := []struct {
		name   string
		mt     entity.MovementType
		mutate func(f *inventory.Form)
		code   string
	}{
		{"compra sin proveedor", entity.MovementPurchase, func(f *inventory.Form) { f.SupplierID = nil }, domain.CodeMissingReference},
		{"compra sin destino", entity.MovementPurchase, func(f *inventory.Form) { f.LocationID = nil }, domain.CodeMissingReference},
		{"compra proveedor inexistente", entity.MovementPurchase, func(f *inventory.Form) { f.SupplierID = id(99) }, domain.CodeUnknownReference},
		{"traslado sin origen", entity.MovementTransfer, func(f *inventory.Form) { f.OriginLocationID = nil }, domain.CodeMissingReference},
		{"traslado sin destino", entity.MovementTransfer, func(f *inventory.Form) { f.DestinationLocationID = nil }, domain.CodeMissingReference},
		{"traslado destino inexistente", entity.MovementTransfer, func(f *inventory.Form) { f.DestinationLocationID = id(404) }, domain.CodeUnknownReference},
		{"ajuste sin ubicación", entity.MovementAdjustment, func(f *inventory.Form) { f.LocationID = nil }, domain.CodeMissingReference},
		{"devolución sin origen", entity.MovementReturn, func(f *inventory.Form) { f.OriginLocationID = nil }, domain.CodeMissingReference},
		{"devolución motivo desconocido", entity.MovementReturn, func(f *inventory.Form) { f.ExitReason = "ROBO" }, domain.CodeInvalidExitReason},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			form := validForm(tc.mt)
			tc.mutate(&form)
			requireCode(t, inventory.Validate(tc.mt, form, testCatalog(), today), tc.code)
		})
	}
}

func TestValidate_DevolucionProveedorOpcional(t *testing.T) {
	form := validForm(entity.MovementReturn)
	form.SupplierID = nil
	assert.NoError(t, inventory.Validate(entity.MovementReturn, form, testCatalog(), today))

	form.SupplierID = id(supplierID)
	form.ExitReason = "consumption"
	assert.NoError(t, inventory.Validate(entity.MovementReturn, form, testCatalog(), today))
}

// Origen = destino invalida el traslado sin importar las líneas.
func TestValidate_TrasladoMismaUbicacion(t *testing.T) {
	details := [][]inventory.DetailForm{
		nil,
		{line(supplyGuantes, "abc")},
		{line(supplyGuantes, "1")},
	}
	for _, d := range details {
		form := inventory.Form{OriginLocationID: id(locLab), DestinationLocationID: id(locLab), Details: d}
		ve := requireCode(t, inventory.Validate(entity.MovementTransfer, form, testCatalog(), today), domain.CodeSameLocation)
		assert.Equal(t, -1, ve.Line)
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Pasos 2 a 4: líneas y cantidades
// ──────────────────────────────────────────────────────────────────────────────

func TestValidate_SinLineas(t *testing.T) {
	for _, mt := range entity.MovementTypes {
		form := validForm(mt)
		form.Details = nil
		ve := requireCode(t, inventory.Validate(mt, form, testCatalog(), today), domain.CodeNoDetails)
		assert.Contains(t, ve.Message, "at least one detail")
	}
}

func TestValidate_CantidadNoNumerica(t *testing.T) {
	for _, raw := range []string{"abc", "", "1,5", "true"} {
		form := validForm(entity.MovementPurchase)
		form.Details = append(form.Details, line(supplyGuantes, raw))
		ve := requireCode(t, inventory.Validate(entity.MovementPurchase, form, testCatalog(), today), domain.CodeNonNumericQuantity)
		assert.Equal(t, 1, ve.Line)
	}
}

// Cantidades que NUMERIC(18,4) no guarda tal cual: exponentes enormes o decimales que se redondearían a cero.
func TestValidate_CantidadFueraDeRango(t *testing.T) {
	cases := []struct {
		name string
		mt   entity.MovementType
		qty  string
	}{
		{"exponente enorme en traslado", entity.MovementTransfer, "1e30000000"},
		{"exponente negativo enorme", entity.MovementPurchase, "1e-30000000"},
		{"quince dígitos enteros", entity.MovementPurchase, "123456789012345"},
		{"ajuste de cinco decimales", entity.MovementAdjustment, "-0.00001"},
		{"compra de cinco decimales", entity.MovementPurchase, "0.00001"},
		{"devolución de cinco decimales", entity.MovementReturn, "0.00001"},
		{"cero con exponente", entity.MovementAdjustment, "0e30000000"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			form := validForm(tc.mt)
			form.Details[0].Quantity = inventory.RawQuantity(tc.qty)
			form.Details[0].MaxQuantity = decPtr("5")
			ve := requireCode(t, inventory.Validate(tc.mt, form, testCatalog(), today), domain.CodeQuantityOutOfRange)
			assert.Equal(t, 0, ve.Line)
			assert.Less(t, len(ve.Message), 200)
		})
	}
}

func TestValidate_CantidadEnElLimiteDeEscala(t *testing.T) {
	for _, q := range []string{"99999999999999.9999", "1.50000", "0.0001", "2e3"} {
		t.Run(q, func(t *testing.T) {
			form := validForm(entity.MovementPurchase)
			form.Details[0].Quantity = inventory.RawQuantity(q)
			assert.NoError(t, inventory.Validate(entity.MovementPurchase, form, testCatalog(), today))
		})
	}
}

func TestRepresentable(t *testing.T) {
	assert.True(t, inventory.Representable(dec("-12.3400")))
	assert.True(t, inventory.Representable(dec("0")))
	assert.False(t, inventory.Representable(dec("0.12345")))
	assert.False(t, inventory.Representable(dec("100000000000000")))
}

// Para todo tipo salvo ADJUSTMENT, cualquier cantidad <= 0 invalida.
func TestValidate_CantidadNoPositiva(t *testing.T) {
	for _, mt := range []entity.MovementType{entity.MovementPurchase, entity.MovementTransfer, entity.MovementReturn} {
		for _, q := range []string{"0", "-1", "-0.01"} {
			t.Run(mt.String()+"/"+q, func(t *testing.T) {
				form := validForm(mt)
				form.Details[0].Quantity = inventory.RawQuantity(q)
				requireCode(t, inventory.Validate(mt, form, testCatalog(), today), domain.CodeNonPositive)
			})
		}
	}
}

// Escenario C: ajuste con cantidad cero.
func TestValidate_EscenarioC_AjusteCero(t *testing.T) {
	form := validForm(entity.MovementAdjustment)
	form.Details = append(form.Details, line(supplyGuantes, "0"))

	ve := requireCode(t, inventory.Validate(entity.MovementAdjustment, form, testCatalog(), today), domain.CodeZeroQuantity)
	assert.Contains(t, ve.Message, "cannot be zero")
	assert.Equal(t, 1, ve.Line)
}

func TestValidate_AjustePositivoSinTope(t *testing.T) {
	form := validForm(entity.MovementAdjustment)
	form.Details[0].Quantity = "1000"
	form.Details[0].MaxQuantity = decPtr("8")

	assert.NoError(t, inventory.Validate(entity.MovementAdjustment, form, testCatalog(), today))
}

// ──────────────────────────────────────────────────────────────────────────────
// Paso 5: insumo resoluble
// ──────────────────────────────────────────────────────────────────────────────

func TestValidate_InsumoRequerido(t *testing.T) {
	form := validForm(entity.MovementTransfer)
	form.Details[0].SupplyID = nil
	requireCode(t, inventory.Validate(entity.MovementTransfer, form, testCatalog(), today), domain.CodeMissingSupply)

	form.Details[0].SupplyID = id(999)
	requireCode(t, inventory.Validate(entity.MovementTransfer, form, testCatalog(), today), domain.CodeMissingSupply)
}

func TestValidate_DevolucionPorLineaDeProveedor(t *testing.T) {
	form := validForm(entity.MovementReturn)
	form.Details[0].SupplyID = nil
	form.Details[0].SupplierItemID = id(supplierItemID)
	assert.NoError(t, inventory.Validate(entity.MovementReturn, form, testCatalog(), today))

	form.Details[0].SupplierItemID = id(12345)
	requireCode(t, inventory.Validate(entity.MovementReturn, form, testCatalog(), today), domain.CodeMissingSupply)
}

func TestValidate_SinCatalogoSoloExigePresencia(t *testing.T) {
	form := validForm(entity.MovementPurchase)
	form.SupplierID = id(999)
	form.Details[0].SupplyID = id(999)
	assert.NoError(t, inventory.Validate(entity.MovementPurchase, form, nil, today))
}

// ──────────────────────────────────────────────────────────────────────────────
// Paso 6: vencimiento
// ──────────────────────────────────────────────────────────────────────────────

func TestValidate_Vencimiento(t *testing.T) {
	form := validForm(entity.MovementPurchase)

	form.Details[0].ExpirationDate = "2026-10-19"
	assert.NoError(t, inventory.Validate(entity.MovementPurchase, form, testCatalog(), today), "vence hoy: válido")

	form.Details[0].ExpirationDate = "2026-10-18"
	requireCode(t, inventory.Validate(entity.MovementPurchase, form, testCatalog(), today), domain.CodeExpired)

	form.Details[0].ExpirationDate = "19/10/2026"
	requireCode(t, inventory.Validate(entity.MovementPurchase, form, testCatalog(), today), domain.CodeInvalidDate)
}

// ──────────────────────────────────────────────────────────────────────────────
// Paso 7: capacidad
// ──────────────────────────────────────────────────────────────────────────────

// Escenario B: el origen tiene 5 u disponibles y se piden 6.
func TestValidate_EscenarioB_TrasladoSobreCapacidad(t *testing.T) {
	form := validForm(entity.MovementTransfer)
	form.Details[0].Quantity = "6"
	form.Details[0].MaxQuantity = decPtr("5")

	err := inventory.Validate(entity.MovementTransfer, form, testCatalog(), today)
	requireCode(t, err, domain.CodeCapacityExceeded)
	assert.Contains(t, err.Error(), "exceed")

	var ce *domain.CapacityError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "6", ce.Requested)
	assert.Equal(t, "5", ce.Available)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
}

// Escenario D: devolución en el límite (inclusivo).
func TestValidate_EscenarioD_DevolucionEnElLimite(t *testing.T) {
	form := validForm(entity.MovementReturn)
	form.Details[0].MaxQuantity = decPtr("10")

	form.Details[0].Quantity = "10"
	assert.NoError(t, inventory.Validate(entity.MovementReturn, form, testCatalog(), today))

	form.Details[0].Quantity = "10.01"
	requireCode(t, inventory.Validate(entity.MovementReturn, form, testCatalog(), today), domain.CodeCapacityExceeded)
}

func TestValidate_AjusteNegativoAcotado(t *testing.T) {
	form := validForm(entity.MovementAdjustment)
	form.Details[0].MaxQuantity = decPtr("3")

	form.Details[0].Quantity = "-3"
	assert.NoError(t, inventory.Validate(entity.MovementAdjustment, form, testCatalog(), today))

	form.Details[0].Quantity = "-4"
	requireCode(t, inventory.Validate(entity.MovementAdjustment, form, testCatalog(), today), domain.CodeCapacityExceeded)
}

func TestValidate_CompraIgnoraTope(t *testing.T) {
	form := validForm(entity.MovementPurchase)
	form.Details[0].MaxQuantity = decPtr("1")
	assert.NoError(t, inventory.Validate(entity.MovementPurchase, form, testCatalog(), today))
}

func TestValidate_SinTopeNoSeLimita(t *testing.T) {
	form := validForm(entity.MovementTransfer)
	form.Details[0].Quantity = "1000"
	form.Details[0].MaxQuantity = nil
	assert.NoError(t, inventory.Validate(entity.MovementTransfer, form, testCatalog(), today))
}

// El primer error gana: una cantidad no numérica se reporta antes que un vencimiento inválido.
func TestValidate_OrdenDeReglas(t *testing.T) {
	form := validForm(entity.MovementTransfer)
	form.Details = []inventory.DetailForm{
		{SupplyID: id(supplyGuantes), Quantity: "1", ExpirationDate: "2000-01-01"},
		{SupplyID: id(supplyGuantes), Quantity: "x"},
	}
	requireCode(t, inventory.Validate(entity.MovementTransfer, form, testCatalog(), today), domain.CodeNonNumericQuantity)
}
