// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package syncall

import (
	"encoding/json"
	"time"
)

// exposer is the exposing side of an endpoint: the reference table and
// the handler that interprets actions against it. Actions arrive on the
// endpoint's single receive goroutine, one at a time.
type exposer struct {
	ep     *Endpoint
	tab    *table
	met    *metrics
	stopCh chan struct{}
}

// handle dispatches a, publishes the reply if a has one, and records
// metrics. It never lets a failure leave the consumer without a reply.
func (x *exposer) handle(a Action) {
	start := time.Now()
	res := x.dispatch(a)
	x.met.observe(a.Op(), res, time.Since(start))
	x.met.setReferences(x.tab.len())
	if e, ok := res.GetLeft(); ok {
		log.Debugf("endpoint %s: %s threw %v", x.ep.serial, a.Op(), e)
	}
	if b := a.reply(); b != nil {
		writeReply(b, res)
	}
}

func (x *exposer) dispatch(a Action) (res Result) {
	defer func() {
		if r := recover(); r != nil {
			log.Warningf("endpoint %s: recovered panic in %s: %v", x.ep.serial, a.Op(), r)
			res = throw(panicError(r))
		}
	}()
	return a.dispatch(x)
}

// target looks up a cached reference.
func (x *exposer) target(key string) (Value, error) {
	v, ok := x.tab.get(key)
	if !ok {
		return Value{}, ErrMissingTarget.with(key)
	}
	return v, nil
}

// object looks up a cached reference that supports property access.
// Functions qualify when their implementation is also an Object.
func (x *exposer) object(key string) (Object, error) {
	v, err := x.target(key)
	if err != nil {
		return nil, err
	}
	if o := v.Object(); o != nil {
		return o, nil
	}
	if o, ok := v.Function().(Object); ok {
		return o, nil
	}
	return nil, typeError("cannot access properties of %s", v)
}

// cache retains v under key when it can be targeted again.
func (x *exposer) cache(key string, v Value) {
	if x.tab.put(key, v) {
		log.Debugf("endpoint %s: cached %s as %s", x.ep.serial, v, key)
	}
}

// resolve maps a handle minted by the peer back to the value it refers
// to when that value lives in this table. Anything else is returned
// unchanged.
func (x *exposer) resolve(v Value) Value {
	var c *client
	var key string
	if h := v.ObjectHandle(); h != nil {
		c, key = h.c, h.key
	} else if h := v.FunctionHandle(); h != nil {
		c, key = h.c, h.key
	} else {
		return v
	}
	if c.ep != x.ep.peer {
		return v
	}
	if live, ok := x.tab.get(key); ok {
		return live
	}
	return v
}

// jsonResult replies with v rendered as a JSON string.
func jsonResult(v any) Result {
	data, err := json.Marshal(v)
	if err != nil {
		return throw(err)
	}
	return succeed(String(string(data)))
}

// writeReply encodes res into b, publishes it and drops the exposer's
// reference. A result that cannot be encoded is replaced by the thrown
// encoding error, and that by Undefined, so a tag is always published.
func writeReply(b *Buffer, res Result) {
	defer b.Close()
	k, err := encodeResult(b, res)
	if err != nil {
		log.Errorf("encode reply: %v", err)
		b.reset()
		if k, err = encodeResult(b, throw(err)); err != nil {
			b.reset()
			k = KindUndefined
		}
	}
	b.publish(k)
}

// reject answers an action that will never be dispatched.
func reject(a Action, err error) {
	if b := a.reply(); b != nil {
		writeReply(b, throw(err))
	}
}
