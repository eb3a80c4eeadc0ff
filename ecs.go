package depthtop

import (
	"fmt"
	"reflect"
	"sync"
)

type EntityId uint64
type set[T comparable] = map[T]struct{}

// Ecs is a small entity store keyed by component type. Components are held as
// pointers to structs, so systems mutate them in place through queries. The
// compositor's population is tiny (one entity per on-screen window plus a few
// markers), so clarity wins over archetype packing here.
type Ecs struct {
	idGeneratorLock sync.Mutex
	entityIdCounter EntityId

	stores   map[reflect.Type]map[EntityId]any
	entities map[EntityId]set[reflect.Type]
}

func MakeEcs() Ecs {
	return Ecs{
		entityIdCounter: EntityId(0),
		stores:          make(map[reflect.Type]map[EntityId]any),
		entities:        make(map[EntityId]set[reflect.Type]),
	}
}

func (ecs *Ecs) nextEntityId() EntityId {
	ecs.idGeneratorLock.Lock()
	defer ecs.idGeneratorLock.Unlock()

	id := ecs.entityIdCounter
	ecs.entityIdCounter += 1

	return id
}

func (ecs *Ecs) addEntity(components ...any) EntityId {
	entityId := ecs.nextEntityId()
	return ecs.insertEntity(entityId, components...)
}

func (ecs *Ecs) insertEntity(entityId EntityId, components ...any) EntityId {
	if _, ok := ecs.entities[entityId]; !ok {
		ecs.entities[entityId] = make(set[reflect.Type])
	}
	for _, component := range components {
		ecs.writeComponent(entityId, component)
	}
	return entityId
}

func (ecs *Ecs) addComponents(entityId EntityId, components ...any) {
	if _, ok := ecs.entities[entityId]; !ok {
		panic(fmt.Sprintf("entity %d does not exist", entityId))
	}
	for _, component := range components {
		ecs.writeComponent(entityId, component)
	}
}

func (ecs *Ecs) removeEntity(entityId EntityId) {
	types, ok := ecs.entities[entityId]
	if !ok {
		return
	}
	for t := range types {
		delete(ecs.stores[t], entityId)
	}
	delete(ecs.entities, entityId)
}

func (ecs *Ecs) removeComponents(entityId EntityId, components ...any) {
	types, ok := ecs.entities[entityId]
	if !ok {
		return
	}
	for _, component := range components {
		t := componentType(component)
		delete(ecs.stores[t], entityId)
		delete(types, t)
	}
}

// writeComponent stores a pointer to the component. Value components are
// copied onto the heap first so query callbacks always see a stable *T.
func (ecs *Ecs) writeComponent(entityId EntityId, component any) {
	t := reflect.TypeOf(component)
	v := reflect.ValueOf(component)

	if t.Kind() == reflect.Pointer {
		t = t.Elem()
		if t.Kind() != reflect.Struct {
			panic(fmt.Errorf("expected component to be a struct or a pointer to a struct, got *%s", t.Kind()))
		}
	} else if t.Kind() == reflect.Struct {
		ptr := reflect.New(t)
		ptr.Elem().Set(v)
		v = ptr
	} else {
		panic(fmt.Errorf("expected component to be a struct or a pointer to a struct, got %s", t.Kind()))
	}

	store, ok := ecs.stores[t]
	if !ok {
		store = make(map[EntityId]any)
		ecs.stores[t] = store
	}
	store[entityId] = v.Interface()
	ecs.entities[entityId][t] = struct{}{}
}

func (ecs *Ecs) component(entityId EntityId, t reflect.Type) (any, bool) {
	store, ok := ecs.stores[t]
	if !ok {
		return nil, false
	}
	c, ok := store[entityId]
	return c, ok
}

func (ecs *Ecs) storeFor(t reflect.Type) map[EntityId]any {
	return ecs.stores[t]
}

func componentType(component any) reflect.Type {
	t := reflect.TypeOf(component)
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		panic("component should be a struct")
	}
	return t
}
