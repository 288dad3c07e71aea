package event

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEventsArriveNextTick(t *testing.T) {
	b := NewBus()
	var got []WallRemoved
	Subscribe(b, func(e WallRemoved) { got = append(got, e) })

	Emit(b, WallRemoved{Row: 1, Col: 2})
	b.DispatchAll()
	assert.Empty(t, got, "not visible before the swap")

	b.SwapBuffers()
	b.DispatchAll()
	assert.Equal(t, []WallRemoved{{Row: 1, Col: 2}}, got)

	b.SwapBuffers()
	b.DispatchAll()
	assert.Len(t, got, 1, "delivered once")
}

func TestDispatchOrderFollowsFirstEmit(t *testing.T) {
	b := NewBus()
	var order []string
	Subscribe(b, func(ExitOpened) { order = append(order, "exit") })
	Subscribe(b, func(CreatureRemoved) { order = append(order, "removed") })
	Subscribe(b, func(LevelLoaded) { order = append(order, "loaded") })

	for i := 0; i < 5; i++ {
		order = order[:0]
		Emit(b, CreatureRemoved{})
		Emit(b, LevelLoaded{})
		Emit(b, ExitOpened{})
		Emit(b, CreatureRemoved{})
		b.SwapBuffers()
		b.DispatchAll()
		assert.Equal(t, []string{"removed", "removed", "loaded", "exit"}, order)
	}
}

func TestEmitDuringDispatchWaitsForNextTick(t *testing.T) {
	b := NewBus()
	var opened int
	Subscribe(b, func(CreatureRemoved) { Emit(b, ExitOpened{}) })
	Subscribe(b, func(ExitOpened) { opened++ })

	Emit(b, CreatureRemoved{})
	b.SwapBuffers()
	b.DispatchAll()
	assert.Zero(t, opened)

	b.SwapBuffers()
	b.DispatchAll()
	assert.Equal(t, 1, opened)
}
