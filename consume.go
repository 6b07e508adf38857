// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package syncall

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Consume blocks until the exposer on the peer of ep answers for name.
// Objects and functions come back as handles; everything else is a
// copy.
//
// Once the peer has exposed a value, any name it does not currently
// expose fails with ErrNotExposed, including names it has released.
// Before the peer's first Expose there is nobody to answer, and Consume
// waits for one, bounded only by Config.WaitTimeout.
//
// Consume must not be called from the handler serving ep's peer: the
// reply could never be produced.
func Consume(name string, ep *Endpoint) (Value, error) {
	c := ep.client()
	key := c.mint()
	return c.call(key, func(b *Buffer) Action {
		return ConsumeAction{Name: name, Key: key, Reply: b}
	})
}

// ConsumeObject is Consume for a name bound to an object.
func ConsumeObject(name string, ep *Endpoint) (*ObjectHandle, error) {
	v, err := Consume(name, ep)
	if err != nil {
		return nil, err
	}
	h := v.ObjectHandle()
	if h == nil {
		Release(v)
		return nil, fmt.Errorf("%w: %q is %s", ErrNotObject, name, v.Kind())
	}
	return h, nil
}

// ConsumeFunction is Consume for a name bound to a function.
func ConsumeFunction(name string, ep *Endpoint) (*FunctionHandle, error) {
	v, err := Consume(name, ep)
	if err != nil {
		return nil, err
	}
	h := v.FunctionHandle()
	if h == nil {
		Release(v)
		return nil, fmt.Errorf("%w: %q is %s", ErrNotFunction, name, v.Kind())
	}
	return h, nil
}

// client is the consuming side of an endpoint. Handles carry it so
// their round trips go out on the same endpoint.
type client struct {
	ep  *Endpoint
	cfg Config
}

func (ep *Endpoint) client() *client {
	ep.mu.Lock()
	defer ep.mu.Unlock()
	if ep.cli == nil {
		ep.cli = &client{ep: ep, cfg: ep.cfg}
	}
	return ep.cli
}

// mint returns a fresh reference key.
func (c *client) mint() string {
	return uuid.NewString()
}

// call performs one round trip: it reserves a reply buffer shared with
// the exposer, sends the action built around it, blocks until the
// reply is published and decodes it. key names the reference an object
// or function reply is cached under; it is empty for actions that
// never cache.
func (c *client) call(key string, build func(*Buffer) Action) (Value, error) {
	b, err := newBuffer(c.cfg.MaxBufferSize)
	if err != nil {
		return Value{}, err
	}
	defer b.Close()
	b.ref()
	a := build(b)
	if err := c.ep.Send(a); err != nil {
		b.Close()
		return Value{}, fmt.Errorf("send %s: %w", a.Op(), err)
	}

	k, err := b.await(c.cfg.WaitTimeout)
	if err != nil {
		if key != "" && errors.Is(err, ErrTimeout) {
			// The reply may still be cached remotely; queue its release
			// behind the action.
			c.releaseKey(key)
		}
		return Value{}, fmt.Errorf("%s: %w", a.Op(), err)
	}
	res, err := decode(b, k, c, key)
	if err != nil {
		return Value{}, fmt.Errorf("decode %s reply: %w", a.Op(), err)
	}
	return unwrapResult(res)
}

// releaseKey sends a fire-and-forget ReleaseAction. It runs on the
// caller's goroutine or on the runtime's cleanup goroutine.
func (c *client) releaseKey(key string) {
	if err := c.ep.Send(ReleaseAction{Key: key}); err != nil {
		log.Debugf("endpoint %s: release %s dropped: %v", c.ep.serial, key, err)
	}
}
