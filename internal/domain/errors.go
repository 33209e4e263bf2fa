package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrStockNotFound      = errors.New("stock no encontrado en la ubicación")
	ErrStockAlreadyExists = errors.New("ya existe stock en la ubicación")
	ErrInsufficientStock  = errors.New("stock insuficiente")
	ErrIsParentViolation  = errors.New("el artículo es padre y no puede tener stock ni proveedores")
	ErrInvalidVariant     = errors.New("una variante no puede ser padre de otra variante")
	ErrInvalidSupplier    = errors.New("proveedor inválido o no resoluble")
	ErrNoActorResolved    = errors.New("no hay usuario responsable y allow_no_user está desactivado")
	ErrAlreadyRolledBack  = errors.New("el movimiento ya fue revertido")
	ErrDuplicateMovement  = errors.New("movimiento duplicado (before == after) no permitido")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrInvalidLocation    = errors.New("ubicación inválida o no encontrada")
)
