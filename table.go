// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package syncall

import "sync"

// table maps exposed names and reference keys to live values on the
// exposing side. One table exists per attached exposer.
//
// Actions are dispatched sequentially, but Expose and its release
// function run on arbitrary goroutines, so every access takes mu.
type table struct {
	mu    sync.Mutex
	names map[string]Value
	refs  map[string]Value
}

func newTable() *table {
	return &table{
		names: make(map[string]Value),
		refs:  make(map[string]Value),
	}
}

// expose registers v under name.
func (t *table) expose(name string, v Value) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.names[name]; ok {
		return &exposeError{name: name}
	}
	t.names[name] = v
	return nil
}

// unexpose removes name and reports how many names remain.
func (t *table) unexpose(name string) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.names, name)
	return len(t.names)
}

func (t *table) lookupName(name string) (Value, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	v, ok := t.names[name]
	return v, ok
}

// put caches v under key if v can be targeted again. Scalars and null
// are never retained.
func (t *table) put(key string, v Value) bool {
	if key == "" || !v.Kind().cacheable() || v.IsNull() {
		return false
	}
	t.mu.Lock()
	t.refs[key] = v
	t.mu.Unlock()
	return true
}

func (t *table) get(key string) (Value, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	v, ok := t.refs[key]
	return v, ok
}

// remove drops key and reports whether it was present.
func (t *table) remove(key string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, ok := t.refs[key]
	delete(t.refs, key)
	return ok
}

// clear drops every cached reference and returns how many there were.
func (t *table) clear() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	n := len(t.refs)
	clear(t.refs)
	return n
}

// len returns the number of cached references.
func (t *table) len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.refs)
}

// exposeError reports a duplicate name; it matches ErrAlreadyExposed.
type exposeError struct {
	name string
}

func (e *exposeError) Error() string {
	return ErrAlreadyExposed.Error() + ": " + e.name
}

func (e *exposeError) Unwrap() error {
	return ErrAlreadyExposed
}
