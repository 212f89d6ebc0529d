/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package registry

import (
	"fmt"
	"reflect"
	"strings"
	"sync"
	"weak"
)

type entry struct {
	newFn  func() any
	weakFn func(record any) Ref
	fields map[string]struct{}
}

var (
	// typeRegistry maps an entity name (like "Task") to its constructor.
	typeRegistry = make(map[string]entry)
	// typeNames maps a record pointer type back to its entity name.
	typeNames = make(map[reflect.Type]string)
	typeMu    sync.RWMutex
)

// RegisterType registers the constructor for the named entity type.
// It panics if the name is already registered or if T is not a struct, so
// mistakes surface during initialization.
func RegisterType[T any](name string, fn func() *T) {
	fields, err := declaredFields(fn())
	if err != nil {
		panic(fmt.Sprintf("type registry: %s: %v", name, err))
	}

	typeMu.Lock()
	defer typeMu.Unlock()
	if _, exists := typeRegistry[name]; exists {
		panic(fmt.Sprintf("type registry: type %q already registered", name))
	}
	typeRegistry[name] = entry{
		newFn:  func() any { return fn() },
		weakFn: weakRef[T],
		fields: fields,
	}
	if _, exists := typeNames[reflect.TypeFor[*T]()]; !exists {
		typeNames[reflect.TypeFor[*T]()] = name
	}
}

// New allocates a new empty record of the named entity type.
func New(name string) (any, error) {
	typeMu.RLock()
	e, ok := typeRegistry[name]
	typeMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("type registry: no type registered for %q", name)
	}
	return e.newFn(), nil
}

// Ref is a weak reference to a record of a registered type. It does not keep
// the record alive.
type Ref struct {
	key   any
	value func() any
}

// Key identifies the referenced record. References to the same record have
// equal keys, also after the record has been collected.
func (r Ref) Key() any { return r.key }

// Value returns the record, or nil once it has been garbage collected.
func (r Ref) Value() any {
	if r.value == nil {
		return nil
	}
	return r.value()
}

// Weak returns a weak reference to record, which must be a pointer to a
// registered entity type.
func Weak(record any) (Ref, error) {
	typeMu.RLock()
	name, ok := typeNames[reflect.TypeOf(record)]
	e := typeRegistry[name]
	typeMu.RUnlock()
	if !ok {
		return Ref{}, fmt.Errorf("type registry: %T is not a registered type", record)
	}
	return e.weakFn(record), nil
}

func weakRef[T any](record any) Ref {
	w := weak.Make(record.(*T))
	return Ref{
		key: w,
		value: func() any {
			if v := w.Value(); v != nil {
				return v
			}
			return nil
		},
	}
}

// HasField reports whether the named entity declares field in its JSON form.
func HasField(name, field string) (bool, error) {
	typeMu.RLock()
	e, ok := typeRegistry[name]
	typeMu.RUnlock()
	if !ok {
		return false, fmt.Errorf("type registry: no type registered for %q", name)
	}
	_, declared := e.fields[field]
	return declared, nil
}

// declaredFields collects the JSON keys encoding/json would produce for v.
func declaredFields(v any) (map[string]struct{}, error) {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return nil, fmt.Errorf("constructor must return a non-nil pointer, got %T", v)
	}
	t := rv.Type().Elem()
	if t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("constructor must return a pointer to a struct, got %T", v)
	}
	fields := make(map[string]struct{})
	collectFields(t, fields)
	return fields, nil
}

func collectFields(t reflect.Type, fields map[string]struct{}) {
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		tag := f.Tag.Get("json")
		if tag == "-" {
			continue
		}
		name, _, _ := strings.Cut(tag, ",")

		if f.Anonymous && name == "" {
			ft := f.Type
			if ft.Kind() == reflect.Pointer {
				ft = ft.Elem()
			}
			if ft.Kind() == reflect.Struct {
				collectFields(ft, fields)
				continue
			}
		}
		if !f.IsExported() {
			continue
		}
		if name == "" {
			name = f.Name
		}
		fields[name] = struct{}{}
	}
}
