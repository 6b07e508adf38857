// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package syncall

import (
	"fmt"
	"sync"
)

// Expose registers v under name so that Consume on the peer of ep can
// reach it. The first Expose on an endpoint attaches an exposer: a new
// reference table plus a handler listening on ep. Expose fails with
// ErrAlreadyExposed for a duplicate name, and with ErrListening if ep
// already has a handler of its own.
//
// The returned release function removes name; calling it again is a
// no-op. Releasing the last name also drops every reference cached for
// the consumer. The exposer itself stays attached until ep is closed,
// so a released name fails with ErrNotExposed rather than blocking.
func Expose(name string, v Value, ep *Endpoint) (release func(), err error) {
	ep.mu.Lock()
	defer ep.mu.Unlock()

	x := ep.exp
	if x == nil {
		if x, err = ep.attachLocked(); err != nil {
			return nil, err
		}
	}
	if err := x.tab.expose(name, v); err != nil {
		return nil, err
	}
	log.Debugf("endpoint %s: exposed %q as %s", ep.serial, name, v)

	var once sync.Once
	return func() {
		once.Do(func() { ep.unexpose(x, name) })
	}, nil
}

// MustExpose is like Expose but panics on failure.
func MustExpose(name string, v Value, ep *Endpoint) (release func()) {
	release, err := Expose(name, v, ep)
	if err != nil {
		panic(err)
	}
	return release
}

func (ep *Endpoint) attachLocked() (*exposer, error) {
	met, err := newMetrics(ep.cfg.Registerer, ep.serial, ep.side)
	if err != nil {
		return nil, err
	}
	x := &exposer{ep: ep, tab: newTable(), met: met}
	stopCh, err := ep.listenLocked(x.handle)
	if err != nil {
		met.unregister()
		return nil, fmt.Errorf("attach exposer: %w", err)
	}
	x.stopCh = stopCh
	ep.exp = x
	log.Debugf("endpoint %s: exposer attached", ep.serial)
	return x, nil
}

func (ep *Endpoint) unexpose(x *exposer, name string) {
	ep.mu.Lock()
	defer ep.mu.Unlock()
	if x.tab.unexpose(name) == 0 {
		n := x.tab.clear()
		x.met.setReferences(0)
		log.Debugf("endpoint %s: last name released, dropped %d references", ep.serial, n)
	}
	log.Debugf("endpoint %s: released %q", ep.serial, name)
}

// detach stops the exposer attached to ep, if any, and unregisters its
// metrics. It runs when the pair is closed.
func (ep *Endpoint) detach() {
	ep.mu.Lock()
	defer ep.mu.Unlock()
	x := ep.exp
	if x == nil {
		return
	}
	ep.exp = nil
	ep.stopLocked(x.stopCh)
	x.met.unregister()
	log.Debugf("endpoint %s: exposer detached", ep.serial)
}
