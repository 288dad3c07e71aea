package ecs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPoolNeverIssuesZero(t *testing.T) {
	p := NewEntityPool()
	a := p.Create()
	assert.False(t, a.IsZero())
	assert.Equal(t, uint32(0), a.Index())
	assert.True(t, p.Alive(a))
}

func TestPoolReusesSlotsWithNewGeneration(t *testing.T) {
	p := NewEntityPool()
	a := p.Create()
	b := p.Create()
	require.Equal(t, 2, p.Live())

	p.Destroy(a)
	assert.False(t, p.Alive(a))
	assert.Equal(t, 1, p.Live())

	c := p.Create()
	assert.Equal(t, a.Index(), c.Index())
	assert.NotEqual(t, a, c)
	assert.True(t, p.Alive(b))

	p.Destroy(a) // stale
	assert.True(t, p.Alive(c))
	assert.Equal(t, 2, p.Live())
}

func TestWorldFlushClearsComponents(t *testing.T) {
	w := NewWorld()
	names := NewPtrComponentStore[string]()
	w.Registry().Register(names)

	id := w.CreateEntity()
	name := "crawler"
	names.Set(id, &name)
	require.True(t, names.Has(id))

	w.MarkForDestruction(id)
	w.MarkForDestruction(id)
	assert.True(t, w.Alive(id), "alive until flushed")

	w.FlushDestroyQueue()
	assert.False(t, w.Alive(id))
	assert.Zero(t, names.Len())
	assert.Zero(t, w.Pool().Live())
}
