// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package syncall

import (
	"fmt"
	"maps"
	"slices"
	"strconv"
	"sync"
)

// Record is an exposable object with string keys kept in insertion
// order. Reading a missing key yields Undefined.
type Record struct {
	mu     sync.RWMutex
	keys   []string
	fields map[string]Value
	frozen bool
}

// NewRecord returns an empty Record.
func NewRecord() *Record {
	return &Record{fields: make(map[string]Value)}
}

// Define adds or replaces a field and returns r.
// Define ignores the frozen flag; it is meant for construction.
func (r *Record) Define(key string, v Value) *Record {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.put(key, v)
	return r
}

// Method defines a Function-valued field.
func (r *Record) Method(key string, f Func) *Record {
	return r.Define(key, FunctionValue(f))
}

// Freeze makes every later Set fail.
func (r *Record) Freeze() *Record {
	r.mu.Lock()
	r.frozen = true
	r.mu.Unlock()
	return r
}

func (r *Record) put(key string, v Value) {
	if _, ok := r.fields[key]; !ok {
		r.keys = append(r.keys, key)
	}
	r.fields[key] = v
}

func (r *Record) Get(key string) (Value, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.fields[key], nil
}

func (r *Record) Set(key string, v Value) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.frozen {
		return typeError("cannot assign to read only property %q of object", key)
	}
	r.put(key, v)
	return nil
}

func (r *Record) OwnKeys() ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.keys), nil
}

func (r *Record) Describe(key string) (*Descriptor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if _, ok := r.fields[key]; !ok {
		return nil, nil
	}
	return &Descriptor{Enumerable: true, Writable: !r.frozen, Configurable: !r.frozen}, nil
}

func recordOf(m map[string]any) (Value, error) {
	r := NewRecord()
	for _, k := range slices.Sorted(maps.Keys(m)) {
		v, err := ValueOf(m[k])
		if err != nil {
			return Value{}, fmt.Errorf("field %q: %w", k, err)
		}
		r.put(k, v)
	}
	return ObjectValue(r), nil
}

// List is an exposable array. Its own keys are the indices followed
// by "length"; assigning at index Len() appends.
type List struct {
	mu    sync.RWMutex
	items []Value
}

// NewList returns a List holding vs.
func NewList(vs ...Value) *List {
	return &List{items: slices.Clone(vs)}
}

// Shape reports ShapeArray.
func (l *List) Shape() Shape { return ShapeArray }

// Len returns the number of elements.
func (l *List) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.items)
}

func (l *List) index(key string) (int, bool) {
	i, err := strconv.Atoi(key)
	if err != nil || i < 0 || strconv.Itoa(i) != key {
		return 0, false
	}
	return i, true
}

func (l *List) Get(key string) (Value, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if key == "length" {
		return Number(float64(len(l.items))), nil
	}
	if i, ok := l.index(key); ok && i < len(l.items) {
		return l.items[i], nil
	}
	return Undefined(), nil
}

func (l *List) Set(key string, v Value) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	i, ok := l.index(key)
	switch {
	case !ok:
		return typeError("cannot assign non-index property %q of array", key)
	case i < len(l.items):
		l.items[i] = v
	case i == len(l.items):
		l.items = append(l.items, v)
	default:
		return typeError("array index %d out of range [0, %d]", i, len(l.items))
	}
	return nil
}

func (l *List) OwnKeys() ([]string, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	keys := make([]string, 0, len(l.items)+1)
	for i := range l.items {
		keys = append(keys, strconv.Itoa(i))
	}
	return append(keys, "length"), nil
}

func (l *List) Describe(key string) (*Descriptor, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if key == "length" {
		return &Descriptor{Writable: true}, nil
	}
	if i, ok := l.index(key); ok && i < len(l.items) {
		return &Descriptor{Enumerable: true, Writable: true, Configurable: true}, nil
	}
	return nil, nil
}

func listOf(xs []any) (Value, error) {
	vs, err := Values(xs...)
	if err != nil {
		return Value{}, err
	}
	return ObjectValue(&List{items: vs}), nil
}
