package depthtop

import "slices"

type Commands struct {
	app *App
}

// Quit stops the frame loop after the current frame completes.
func (cmd *Commands) Quit() *Commands {
	cmd.app.quitting = true
	return cmd
}

func (cmd *Commands) AddResources(resources ...any) *Commands {
	cmd.app.addResources(resources...)
	return cmd
}

func (cmd *Commands) AddEntity(components ...any) EntityId {
	eid := cmd.app.ecs.nextEntityId()
	cmd.app.pendingAdditions = append(cmd.app.pendingAdditions, pendingAdd{
		eid:        eid,
		components: components,
	})
	return eid
}

func (cmd *Commands) AddComponents(entityId EntityId, components ...any) {
	cmd.app.pendingCompAdds = append(cmd.app.pendingCompAdds, pendingCompAdd{
		eid:        entityId,
		components: components,
	})
}

// RemoveEntity deletes an entity at the next flush. Removing an entity that is
// still pending insertion cancels the insertion instead, so a spawn rolled back
// in the same frame never reaches the store.
func (cmd *Commands) RemoveEntity(entityId EntityId) {
	app := cmd.app

	app.pendingCompAdds = slices.DeleteFunc(app.pendingCompAdds, func(add pendingCompAdd) bool {
		return add.eid == entityId
	})

	for i, add := range app.pendingAdditions {
		if add.eid == entityId {
			app.pendingAdditions = slices.Delete(app.pendingAdditions, i, i+1)
			return
		}
	}
	app.pendingRemovals = append(app.pendingRemovals, entityId)
}
