// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package syncall

import (
	"encoding/json"
	"fmt"
	"runtime"

	"code.hybscloud.com/atomix"
)

// RemoteObject is an Object living on the other side of an endpoint.
type RemoteObject interface {
	Object
	Key() string
	Release() error
}

// RemoteFunction is a Function living on the other side of an endpoint.
type RemoteFunction interface {
	Function
	Key() string
	Release() error
}

var (
	_ RemoteObject   = (*ObjectHandle)(nil)
	_ RemoteFunction = (*FunctionHandle)(nil)
)

// ref is the state shared by both handle kinds.
type ref struct {
	c        *client
	key      string
	released atomix.Uint32
	cleanup  runtime.Cleanup
}

// Key returns the reference key the remote value is cached under.
func (r *ref) Key() string {
	return r.key
}

// Release drops the remote reference. Later operations through the
// handle fail remotely with ErrMissingTarget. Release is idempotent.
func (r *ref) Release() error {
	if r.released.Add(1) != 1 {
		return nil
	}
	r.cleanup.Stop()
	return r.c.ep.Send(ReleaseAction{Key: r.key})
}

// track arranges for key to be released once owner is unreachable.
func (c *client) track(owner any, r *ref) {
	if !c.cfg.AutoRelease {
		return
	}
	switch o := owner.(type) {
	case *ObjectHandle:
		r.cleanup = runtime.AddCleanup(o, c.releaseKey, r.key)
	case *FunctionHandle:
		r.cleanup = runtime.AddCleanup(o, c.releaseKey, r.key)
	}
}

// ObjectHandle is the consumer-side stand-in for a remote object. Each
// method is one blocking round trip.
type ObjectHandle struct {
	ref
	shape Shape
}

func (c *client) objectHandle(key string, s Shape) *ObjectHandle {
	h := &ObjectHandle{ref: ref{c: c, key: key}, shape: s}
	c.track(h, &h.ref)
	return h
}

// Shape reports whether the remote object is an array.
func (h *ObjectHandle) Shape() Shape {
	return h.shape
}

// Get reads a property. Object and function results are new handles.
func (h *ObjectHandle) Get(key string) (Value, error) {
	next := h.c.mint()
	v, err := h.c.call(next, func(b *Buffer) Action {
		return GetAction{Target: h.key, Prop: key, Key: next, Reply: b}
	})
	runtime.KeepAlive(h)
	return v, err
}

// Set assigns a property. Handles to values exposed by the peer are
// passed by reference.
func (h *ObjectHandle) Set(key string, v Value) error {
	_, err := h.c.call("", func(b *Buffer) Action {
		return SetAction{Target: h.key, Prop: key, Value: v, Reply: b}
	})
	runtime.KeepAlive(h)
	runtime.KeepAlive(v)
	return err
}

// OwnKeys enumerates the remote object's own property keys.
func (h *ObjectHandle) OwnKeys() ([]string, error) {
	v, err := h.c.call("", func(b *Buffer) Action {
		return OwnKeysAction{Target: h.key, Reply: b}
	})
	runtime.KeepAlive(h)
	if err != nil {
		return nil, err
	}
	var keys []string
	if err := json.Unmarshal([]byte(v.Str()), &keys); err != nil {
		return nil, fmt.Errorf("%w: own keys: %v", ErrMalformed, err)
	}
	return keys, nil
}

// Describe returns the flags of an own property, or nil if the remote
// object has no such property.
func (h *ObjectHandle) Describe(key string) (*Descriptor, error) {
	v, err := h.c.call("", func(b *Buffer) Action {
		return DescribeAction{Target: h.key, Prop: key, Reply: b}
	})
	runtime.KeepAlive(h)
	if err != nil || v.IsUndefined() {
		return nil, err
	}
	var d Descriptor
	if err := json.Unmarshal([]byte(v.Str()), &d); err != nil {
		return nil, fmt.Errorf("%w: descriptor: %v", ErrMalformed, err)
	}
	return &d, nil
}

// Call invokes method with h as the calling context. The method handle
// fetched for the call is released afterwards.
func (h *ObjectHandle) Call(method string, args ...Value) (Value, error) {
	m, err := h.Get(method)
	if err != nil {
		return Value{}, err
	}
	fn := m.FunctionHandle()
	if fn == nil {
		Release(m)
		return Value{}, typeError("%s is not a function", method)
	}
	defer fn.Release()
	return fn.Apply(ObjectValue(h), args)
}

func (h *ObjectHandle) String() string {
	return fmt.Sprintf("[remote %s %s]", h.shape, h.key)
}

// FunctionHandle is the consumer-side stand-in for a remote function.
type FunctionHandle struct {
	ref
}

func (c *client) functionHandle(key string) *FunctionHandle {
	h := &FunctionHandle{ref: ref{c: c, key: key}}
	c.track(h, &h.ref)
	return h
}

// Apply invokes the remote function. When this holds a handle from the
// same endpoint, its key is bound as the calling context; otherwise the
// function runs without one.
func (h *FunctionHandle) Apply(this Value, args []Value) (Value, error) {
	var context string
	if o := this.ObjectHandle(); o != nil && o.c == h.c {
		context = o.key
	} else if f := this.FunctionHandle(); f != nil && f.c == h.c {
		context = f.key
	}
	next := h.c.mint()
	v, err := h.c.call(next, func(b *Buffer) Action {
		return ApplyAction{Target: h.key, Context: context, Args: args, Key: next, Reply: b}
	})
	// The handles behind the keys must outlive the round trip, or their
	// cleanups could release the keys before the action is dispatched.
	runtime.KeepAlive(h)
	runtime.KeepAlive(this)
	runtime.KeepAlive(args)
	return v, err
}

// Call invokes the remote function without a calling context.
func (h *FunctionHandle) Call(args ...Value) (Value, error) {
	return h.Apply(Undefined(), args)
}

func (h *FunctionHandle) String() string {
	return "[remote function " + h.key + "]"
}

// Release drops the remote reference held by v, if v holds a handle.
func Release(v Value) error {
	if h := v.ObjectHandle(); h != nil {
		return h.Release()
	}
	if h := v.FunctionHandle(); h != nil {
		return h.Release()
	}
	return nil
}
