package events_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-ledger/internal/application/ports"
	"github.com/jhoicas/inventario-ledger/internal/infrastructure/events"
)

func TestBus_EntregaSoloALosSuscriptoresDelNombre(t *testing.T) {
	bus := events.NewBus(nil)

	var added, removed []ports.Event
	bus.Subscribe("inventory.stock.added", func(e ports.Event) { added = append(added, e) })
	bus.Subscribe("inventory.stock.removed", func(e ports.Event) { removed = append(removed, e) })

	bus.Publish(ports.Event{Name: "inventory.stock.added", Payload: map[string]string{"stock_id": "s1"}})
	bus.Publish(ports.Event{Name: "inventory.stock.added"})
	bus.Publish(ports.Event{Name: "inventory.stock.moved"})

	require.Len(t, added, 2)
	assert.Equal(t, "s1", added[0].Payload["stock_id"])
	assert.Empty(t, removed)
}

func TestBus_RegistraTodoLoPublicado(t *testing.T) {
	bus := events.NewBus(nil)

	bus.Publish(ports.Event{Name: "a"})
	bus.Publish(ports.Event{Name: "b"})

	published := bus.Published()
	require.Len(t, published, 2)
	assert.Equal(t, "a", published[0].Name)
	assert.Equal(t, "b", published[1].Name)

	// La copia devuelta no expone el estado interno
	published[0].Name = "mutado"
	assert.Equal(t, "a", bus.Published()[0].Name)
}
