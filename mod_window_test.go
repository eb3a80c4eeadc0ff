package depthtop

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWindowRegistryAllocate(t *testing.T) {
	r := newWindowRegistry()

	a, err := r.Allocate(EntityId(1))
	require.NoError(t, err)
	b, err := r.Allocate(EntityId(2))
	require.NoError(t, err)

	assert.Equal(t, uint16(0), a)
	assert.Equal(t, uint16(1), b)
	assert.Equal(t, 2, r.Count())

	eid, ok := r.Entity(a)
	assert.True(t, ok)
	assert.Equal(t, EntityId(1), eid)
}

func TestWindowRegistryReuse(t *testing.T) {
	r := newWindowRegistry()
	for i := 0; i < 4; i++ {
		_, err := r.Allocate(EntityId(i))
		require.NoError(t, err)
	}

	r.Release(1)
	assert.Equal(t, 3, r.Count())

	// Released ids are handed out again before the counter advances.
	id, err := r.Allocate(EntityId(9))
	require.NoError(t, err)
	assert.Equal(t, uint16(1), id)

	// Releasing an unknown id is a no-op.
	r.Release(42)
	assert.Equal(t, 4, r.Count())
}

func TestWindowRegistryLimit(t *testing.T) {
	r := newWindowRegistry()
	for i := 0; i < MaxWindows; i++ {
		_, err := r.Allocate(EntityId(i))
		require.NoError(t, err)
	}

	_, err := r.Allocate(EntityId(999))
	require.Error(t, err)

	r.Release(17)
	id, err := r.Allocate(EntityId(999))
	require.NoError(t, err)
	assert.Equal(t, uint16(17), id)
}

func TestSpawnWindowRollsBackWhenFull(t *testing.T) {
	app := NewApp()
	cmd := app.Commands()
	server := &AssetServer{textures: make(map[AssetId]TextureAsset)}

	registry := newWindowRegistry()
	for i := 0; i < MaxWindows; i++ {
		_, err := registry.Allocate(EntityId(1000 + i))
		require.NoError(t, err)
	}

	err := spawnWindow(cmd, registry, server, DefaultScene(), 0, 1, WindowDef{Title: "Overflow", Width: 1, Height: 1})
	require.Error(t, err)

	// The rolled-back entity must not survive the flush: it would carry id 0
	// and collide with the live window owning that slot.
	app.FlushCommands()
	MakeQuery1[Window](cmd).Map(func(eid EntityId, w *Window) bool {
		t.Errorf("failed spawn left window entity %d with id %d", eid, w.ID)
		return true
	})
	assert.Equal(t, MaxWindows, registry.Count())
}

func TestWindowModuleSpawnsScene(t *testing.T) {
	app := NewApp()
	app.UseModules(
		AssetServerModule{},
		WindowModule{Scene: DefaultScene()},
	)

	var registry *WindowRegistry
	app.UseSystem(System(func(r *WindowRegistry, cmd *Commands) {
		registry = r
		cmd.Quit()
	}).InStage(Update))
	app.Run()

	require.NotNil(t, registry)
	assert.Equal(t, 3, registry.Count())

	cmd := &Commands{app: app}
	seen := map[uint16]bool{}
	MakeQuery2[Window, WindowContent](cmd).Map(func(eid EntityId, w *Window, c *WindowContent) bool {
		assert.False(t, seen[w.ID], "duplicate window id %d", w.ID)
		seen[w.ID] = true
		assert.True(t, c.Dirty)
		assert.NotEmpty(t, c.Texture)
		return true
	})
	assert.Len(t, seen, 3)
}

func TestCloseWindow(t *testing.T) {
	app := NewApp()
	app.UseModules(
		AssetServerModule{},
		WindowModule{Scene: DefaultScene()},
	)

	done := false
	app.UseSystem(System(func(r *WindowRegistry, cmd *Commands) {
		if done {
			cmd.Quit()
			return
		}
		done = true
		assert.True(t, CloseWindow(cmd, r, 0))
		assert.False(t, CloseWindow(cmd, r, 99))
	}).InStage(Update))
	app.Run()

	cmd := &Commands{app: app}
	count := 0
	MakeQuery1[Window](cmd).Map(func(eid EntityId, w *Window) bool {
		count++
		return true
	})
	assert.Equal(t, 2, count)
}

func TestModelMatrixBakesSize(t *testing.T) {
	w := Window{Width: 2, Height: 0.5}
	tr := TransformComponent{Position: [3]float32{1, 2, -3}}

	m := tr.ModelMatrix(&w)

	// Local quad corner (0.5, 0.5, 0) lands at position + half extents.
	p := m.Mul4x1([4]float32{0.5, 0.5, 0, 1})
	assert.InDelta(t, 2.0, p.X(), 1e-6)
	assert.InDelta(t, 2.25, p.Y(), 1e-6)
	assert.InDelta(t, -3.0, p.Z(), 1e-6)
}
