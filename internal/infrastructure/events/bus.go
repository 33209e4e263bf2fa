// Package events implementa un bus de eventos síncrono en proceso.
package events

import (
	"sync"

	"github.com/jhoicas/inventario-ledger/internal/application/ports"
	"github.com/jhoicas/inventario-ledger/pkg/logger"
)

var _ ports.EventBus = (*Bus)(nil)

// Bus entrega cada evento a los manejadores suscritos a su nombre, en el
// goroutine del publicador. Guarda además todos los eventos publicados,
// consultables con Published (útil en tests y demos).
type Bus struct {
	mu        sync.Mutex
	handlers  map[string][]func(ports.Event)
	published []ports.Event
	log       *logger.Logger
}

// NewBus construye el bus. log puede ser nil.
func NewBus(log *logger.Logger) *Bus {
	return &Bus{handlers: make(map[string][]func(ports.Event)), log: log}
}

// Subscribe registra un manejador para los eventos con ese nombre.
func (b *Bus) Subscribe(name string, handler func(ports.Event)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[name] = append(b.handlers[name], handler)
}

// Publish entrega el evento a sus manejadores y lo deja registrado.
func (b *Bus) Publish(event ports.Event) {
	b.mu.Lock()
	b.published = append(b.published, event)
	handlers := append(([]func(ports.Event))(nil), b.handlers[event.Name]...)
	b.mu.Unlock()

	if b.log != nil {
		b.log.Debug().Str("event", event.Name).Msg("evento publicado")
	}
	for _, h := range handlers {
		h(event)
	}
}

// Published devuelve una copia de los eventos publicados hasta el momento.
func (b *Bus) Published() []ports.Event {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]ports.Event(nil), b.published...)
}
