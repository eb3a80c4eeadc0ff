package depthtop

import (
	"reflect"
)

// Queries iterate entities owning all requested component types. Map stops
// early when the callback returns false, same contract for every arity.
type Query1[A any] struct{ ecs *Ecs }
type Query2[A, B any] struct{ ecs *Ecs }
type Query3[A, B, C any] struct{ ecs *Ecs }

func MakeQuery1[A any](cmd *Commands) Query1[A]             { return Query1[A]{ecs: cmd.app.ecs} }
func MakeQuery2[A, B any](cmd *Commands) Query2[A, B]       { return Query2[A, B]{ecs: cmd.app.ecs} }
func MakeQuery3[A, B, C any](cmd *Commands) Query3[A, B, C] { return Query3[A, B, C]{ecs: cmd.app.ecs} }

func typeOf[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

func (q Query1[A]) Map(m func(EntityId, *A) bool) {
	for eid, a := range q.ecs.storeFor(typeOf[A]()) {
		if !m(eid, a.(*A)) {
			return
		}
	}
}

func (q Query2[A, B]) Map(m func(EntityId, *A, *B) bool) {
	for eid, a := range q.ecs.storeFor(typeOf[A]()) {
		b, ok := q.ecs.component(eid, typeOf[B]())
		if !ok {
			continue
		}
		if !m(eid, a.(*A), b.(*B)) {
			return
		}
	}
}

func (q Query3[A, B, C]) Map(m func(EntityId, *A, *B, *C) bool) {
	for eid, a := range q.ecs.storeFor(typeOf[A]()) {
		b, ok := q.ecs.component(eid, typeOf[B]())
		if !ok {
			continue
		}
		c, ok := q.ecs.component(eid, typeOf[C]())
		if !ok {
			continue
		}
		if !m(eid, a.(*A), b.(*B), c.(*C)) {
			return
		}
	}
}
