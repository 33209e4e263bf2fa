package sku_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/inventario-ledger/internal/domain/sku"
)

func TestGenerate_OpcionesPorDefecto(t *testing.T) {
	opts := sku.DefaultOptions()

	assert.Equal(t, "BEB000001", sku.Generate(opts, "Bebidas", 1))
	assert.Equal(t, "LIM000042", sku.Generate(opts, "Limpieza", 42))
}

func TestGenerate_PrefijoIgnoraEspaciosYRespetaElLargo(t *testing.T) {
	opts := sku.DefaultOptions()

	assert.Equal(t, "AGU000007", sku.Generate(opts, "a gu as", 7), "los espacios no cuentan para el prefijo")
	assert.Equal(t, "AB000003", sku.Generate(opts, "Ab", 3), "una categoría corta produce un prefijo corto")
}

func TestGenerate_ConSeparadorYLargosPropios(t *testing.T) {
	opts := sku.Options{PrefixLength: 2, CodeLength: 4, Separator: "-"}

	assert.Equal(t, "BE-0012", sku.Generate(opts, "Bebidas", 12))
}

func TestGenerate_SinCategoriaSoloNumero(t *testing.T) {
	assert.Equal(t, "000009", sku.Generate(sku.DefaultOptions(), "", 9))
}

func TestGenerate_NumeroMasLargoQueElCodigoNoSeTrunca(t *testing.T) {
	opts := sku.Options{PrefixLength: 3, CodeLength: 2, Separator: ""}

	assert.Equal(t, "BEB12345", sku.Generate(opts, "Bebidas", 12345))
}
