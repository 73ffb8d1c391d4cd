package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound               = errors.New("recurso no encontrado")
	ErrInvalidInput           = errors.New("entrada inválida")
	ErrInsufficientStock      = errors.New("stock insuficiente")
	ErrInvalidStateTransition = errors.New("transición de estado no permitida")
	ErrTransferFailed         = errors.New("traslado revertido por compensación")
	ErrConflict               = errors.New("conflicto con el estado actual")
)
