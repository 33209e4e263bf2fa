package ports

import "time"

// Event es un evento de dominio emitido como efecto observable tras el commit
// de una unidad de trabajo. Entrega síncrona, en proceso, sin garantías más
// allá de "llamado una vez, después del commit".
type Event struct {
	Name    string
	At      time.Time
	Payload map[string]string
}

// EventBus define el puerto de publicación de eventos de dominio.
type EventBus interface {
	Publish(event Event)
}
