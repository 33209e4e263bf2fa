package lang

import (
	"strings"

	"golang.org/x/text/language"
)

// Params son los parámetros con nombre que se interpolan en el mensaje
// (placeholders con prefijo dos puntos, ej. ":location").
type Params map[string]string

var supported = []language.Tag{
	language.Spanish, // por defecto
	language.English,
}

var matcher = language.NewMatcher(supported)

// Catálogo de mensajes por idioma. La clave es el tipo de error; el motor solo
// produce tipo + parámetros, el render es responsabilidad del consumidor.
var catalog = map[language.Tag]map[string]string{
	language.Spanish: {
		"StockNotFound":      "no se encontró stock en la ubicación :location",
		"StockAlreadyExists": "ya existe stock en la ubicación :location",
		"InsufficientStock":  "stock insuficiente: no hay :quantity disponibles",
		"IsParentViolation":  "el artículo :parentName es padre y no admite la operación",
		"InvalidVariant":     "el artículo :parentName ya es variante; no puede tener variantes propias",
		"InvalidSupplier":    "no se pudo resolver el proveedor :supplier",
		"NoActorResolved":    "no hay usuario responsable de la operación",
		"AlreadyRolledBack":  "el movimiento :movement ya fue revertido",
		"NotFound":           "recurso no encontrado",
	},
	language.English: {
		"StockNotFound":      "no stock was found on location :location",
		"StockAlreadyExists": "stock already exists on location :location",
		"InsufficientStock":  "insufficient stock: :quantity not available",
		"IsParentViolation":  "item :parentName is a parent and does not allow this operation",
		"InvalidVariant":     "item :parentName is already a variant; it cannot own variants",
		"InvalidSupplier":    "could not resolve supplier :supplier",
		"NoActorResolved":    "no user is responsible for this operation",
		"AlreadyRolledBack":  "movement :movement was already rolled back",
		"NotFound":           "resource not found",
	},
}

// Get devuelve el mensaje localizado para un tipo de error, interpolando los
// parámetros con nombre. locale acepta cualquier cadena BCP 47 ("es", "en-US").
func Get(locale, kind string, params Params) string {
	_, idx := language.MatchStrings(matcher, locale)
	msgs, ok := catalog[supported[idx]]
	if !ok {
		msgs = catalog[language.Spanish]
	}
	msg, ok := msgs[kind]
	if !ok {
		return kind
	}
	for name, value := range params {
		msg = strings.ReplaceAll(msg, ":"+name, value)
	}
	return msg
}
