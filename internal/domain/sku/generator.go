package sku

import (
	"fmt"
	"strings"
	"unicode"
)

// Options controla la forma del SKU generado.
type Options struct {
	PrefixLength int    // letras tomadas del nombre de la categoría
	CodeLength   int    // dígitos del número, con relleno de ceros
	Separator    string // separador entre prefijo y número
}

// DefaultOptions valores por defecto: prefijo de 3, código de 6, sin separador.
// Un artículo de la categoría "Bebidas" con número 1 genera "BEB000001".
func DefaultOptions() Options {
	return Options{PrefixLength: 3, CodeLength: 6, Separator: ""}
}

// Generate construye un SKU a partir del nombre de la categoría y un número de
// secuencia (servicio de dominio puro).
func Generate(opts Options, categoryName string, number int64) string {
	prefix := prefixFrom(categoryName, opts.PrefixLength)
	code := fmt.Sprintf("%0*d", opts.CodeLength, number)
	return prefix + opts.Separator + code
}

// prefixFrom toma las primeras n letras del nombre, sin espacios, en mayúsculas.
func prefixFrom(name string, n int) string {
	var b strings.Builder
	for _, r := range name {
		if b.Len() >= n {
			break
		}
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(unicode.ToUpper(r))
		}
	}
	return b.String()
}
