package hostenv

import "colloml/internal/value"

// Env is the runtime object environment an embedding host implements
// (spec.md §6.2). It is borrowed for the duration of one evaluation and
// must not be mutated concurrently (spec.md §5); every method must be
// referentially transparent for a fixed Env value.
type Env interface {
	// ObjectsWithType enumerates all live objects of a nominal type.
	ObjectsWithType(name string) []value.Object
	// TypeName retrieves the nominal Object(name) type of a handle.
	TypeName(obj value.Object) string
	// FieldAccess reads a field off an object handle.
	FieldAccess(obj value.Object, field string) (value.Value, error)
}

// StaticEnv is an in-memory Env backed by pre-populated object tables,
// suitable for tests and for hosts that snapshot their object graph
// before each evaluation (spec.md §5: "borrowed for the duration of an
// evaluation").
type StaticEnv struct {
	objects map[string][]value.Object
	fields  map[string]map[string]func(value.Object) (value.Value, error)
}

// NewStaticEnv builds an empty StaticEnv.
func NewStaticEnv() *StaticEnv {
	return &StaticEnv{
		objects: map[string][]value.Object{},
		fields:  map[string]map[string]func(value.Object) (value.Value, error){},
	}
}

// AddObjects registers every object of the given nominal type.
func (e *StaticEnv) AddObjects(typeName string, objs ...value.Object) {
	e.objects[typeName] = append(e.objects[typeName], objs...)
}

// AddField registers a field accessor for objects of typeName.
func (e *StaticEnv) AddField(typeName, field string, get func(value.Object) (value.Value, error)) {
	if e.fields[typeName] == nil {
		e.fields[typeName] = map[string]func(value.Object) (value.Value, error){}
	}
	e.fields[typeName][field] = get
}

func (e *StaticEnv) ObjectsWithType(name string) []value.Object { return e.objects[name] }

func (e *StaticEnv) TypeName(obj value.Object) string { return obj.TypeName() }

func (e *StaticEnv) FieldAccess(obj value.Object, field string) (value.Value, error) {
	fields := e.fields[obj.TypeName()]
	if fields == nil {
		return value.Value{}, fieldError(obj.TypeName(), field)
	}
	get, ok := fields[field]
	if !ok {
		return value.Value{}, fieldError(obj.TypeName(), field)
	}
	return get(obj)
}

type noSuchField struct{ typeName, field string }

func (e noSuchField) Error() string { return "object type " + e.typeName + " has no field " + e.field }

func fieldError(typeName, field string) error { return noSuchField{typeName, field} }
