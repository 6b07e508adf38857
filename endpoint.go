// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package syncall

import (
	"sync"

	"code.hybscloud.com/atomix"
	"code.hybscloud.com/iox"
	"code.hybscloud.com/lfq"
)

// Handler receives actions on an endpoint. Calls are sequential.
type Handler func(Action)

// Endpoint is one side of a connected pair. Actions sent on an
// endpoint are received by the handler listening on its peer.
//
// Each direction is a bounded lock-free SPSC queue from lfq. Producers
// are serialised by a mutex; the single consumer is the receive
// goroutine started by Listen. A one-slot doorbell parks the receiver
// while its queue is empty.
type Endpoint struct {
	peer   *Endpoint
	serial Serial
	side   string
	cfg    Config

	sendQ  *lfq.SPSC[Action]
	recvQ  *lfq.SPSC[Action]
	sendMu *sync.Mutex
	ring   chan struct{} // peer's doorbell
	bell   chan struct{} // own doorbell
	closed *atomix.Uint32
	shut   chan struct{}
	closer func()

	mu     sync.Mutex
	stopCh chan struct{} // non-nil while a handler is active
	served chan struct{} // closed when the last receive goroutine exits
	exp    *exposer
	cli    *client
}

// endpointPair holds both endpoints, queues and shared state in a
// single allocation.
type endpointPair struct {
	a, b   Endpoint
	closed atomix.Uint32
	shut   chan struct{}
	once   sync.Once
	muAB   sync.Mutex
	muBA   sync.Mutex
	dataAB lfq.SPSC[Action]
	dataBA lfq.SPSC[Action]
}

// New creates a connected pair of endpoints.
func New(opts ...Option) (*Endpoint, *Endpoint) {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	cfg.normalize()

	s := nextSerial()
	pair := &endpointPair{shut: make(chan struct{})}
	pair.dataAB.Init(cfg.QueueCapacity)
	pair.dataBA.Init(cfg.QueueCapacity)
	bellA, bellB := make(chan struct{}, 1), make(chan struct{}, 1)

	pair.a = Endpoint{
		peer:   &pair.b,
		serial: s,
		side:   "a",
		cfg:    cfg,
		sendQ:  &pair.dataAB,
		recvQ:  &pair.dataBA,
		sendMu: &pair.muAB,
		ring:   bellB,
		bell:   bellA,
		closed: &pair.closed,
		shut:   pair.shut,
	}
	pair.b = Endpoint{
		peer:   &pair.a,
		serial: s,
		side:   "b",
		cfg:    cfg,
		sendQ:  &pair.dataBA,
		recvQ:  &pair.dataAB,
		sendMu: &pair.muBA,
		ring:   bellA,
		bell:   bellB,
		closed: &pair.closed,
		shut:   pair.shut,
	}
	pair.a.closer = pair.close
	pair.b.closer = pair.close
	log.Debugf("endpoint %s: pair created, queue capacity %d", s, cfg.QueueCapacity)
	return &pair.a, &pair.b
}

// Serial returns the serial number shared by this endpoint and its peer.
func (ep *Endpoint) Serial() Serial {
	return ep.serial
}

// Peer returns the other endpoint of the pair.
func (ep *Endpoint) Peer() *Endpoint {
	return ep.peer
}

// Config returns the configuration the pair was created with.
func (ep *Endpoint) Config() Config {
	return ep.cfg
}

// Closed reports whether the pair has been closed.
func (ep *Endpoint) Closed() bool {
	return ep.closed.Load() != 0
}

// Send delivers a to the peer's handler. It waits with iox.Backoff while
// the queue is full and fails with ErrClosed once the pair is closed.
func (ep *Endpoint) Send(a Action) error {
	ep.sendMu.Lock()
	defer ep.sendMu.Unlock()
	var bo iox.Backoff
	for {
		if ep.Closed() {
			return ErrClosed
		}
		err := ep.sendQ.Enqueue(&a)
		if err == nil {
			break
		}
		if !iox.IsWouldBlock(err) {
			return err
		}
		bo.Wait()
	}
	select {
	case ep.ring <- struct{}{}:
	default:
	}
	return nil
}

// Listen installs h as the single active handler for actions arriving
// on ep and starts receiving. The returned function de-registers h
// without waiting for a call already in progress. Listen fails with
// ErrListening while another handler is active.
func (ep *Endpoint) Listen(h Handler) (stop func(), err error) {
	ep.mu.Lock()
	defer ep.mu.Unlock()
	stopCh, err := ep.listenLocked(h)
	if err != nil {
		return nil, err
	}
	var once sync.Once
	return func() {
		once.Do(func() {
			ep.mu.Lock()
			ep.stopLocked(stopCh)
			ep.mu.Unlock()
		})
	}, nil
}

func (ep *Endpoint) listenLocked(h Handler) (chan struct{}, error) {
	if ep.Closed() {
		return nil, ErrClosed
	}
	if ep.stopCh != nil {
		return nil, ErrListening
	}
	stopCh, served := make(chan struct{}), make(chan struct{})
	prev := ep.served
	ep.stopCh, ep.served = stopCh, served
	go ep.serve(h, stopCh, prev, served)
	return stopCh, nil
}

// stopLocked ends the receive loop owning stopCh. Each stopCh must be
// stopped at most once.
func (ep *Endpoint) stopLocked(stopCh chan struct{}) {
	if ep.stopCh == stopCh {
		ep.stopCh = nil
	}
	close(stopCh)
}

// serve is the receive loop. It waits for the previous loop to exit so
// the queue never has two consumers. Once the pair is closed it answers
// everything still queued with ErrEndpointClosed.
func (ep *Endpoint) serve(h Handler, stop <-chan struct{}, prev <-chan struct{}, served chan<- struct{}) {
	defer close(served)
	if prev != nil {
		<-prev
	}
	exit := func() {
		if ep.Closed() {
			ep.drain()
		}
	}
	for {
		select {
		case <-stop:
			exit()
			return
		default:
		}
		if ep.Closed() {
			ep.drain()
			return
		}
		if a, err := ep.recvQ.Dequeue(); err == nil {
			h(a)
			continue
		}
		select {
		case <-ep.bell:
		case <-ep.shut:
		case <-stop:
			exit()
			return
		}
	}
}

// drain rejects every queued action. Only the current queue consumer
// may call it.
func (ep *Endpoint) drain() {
	for {
		a, err := ep.recvQ.Dequeue()
		if err != nil {
			return
		}
		log.Debugf("endpoint %s: rejecting queued %s", ep.serial, a.Op())
		reject(a, ErrEndpointClosed)
	}
}

// Close closes the pair. Later sends fail with ErrClosed, and actions
// not yet dispatched are answered with ErrEndpointClosed. Close is
// idempotent and closes the peer as well.
func (ep *Endpoint) Close() error {
	ep.closer()
	return nil
}

func (p *endpointPair) close() {
	p.once.Do(func() {
		p.closed.Add(1)
		// No producer is inside Send once both locks have been held.
		p.muAB.Lock()
		p.muBA.Lock()
		p.muBA.Unlock()
		p.muAB.Unlock()
		close(p.shut)
		p.a.detach()
		p.b.detach()
		p.a.closeReceiver()
		p.b.closeReceiver()
		log.Debugf("endpoint %s: pair closed", p.a.serial)
	})
}

// closeReceiver drains ep's queue when no receive goroutine will.
func (ep *Endpoint) closeReceiver() {
	ep.mu.Lock()
	active, prev := ep.stopCh != nil, ep.served
	ep.mu.Unlock()
	switch {
	case active:
	case prev == nil:
		ep.drain()
	default:
		// The last receive goroutine may be the caller.
		go func() {
			<-prev
			ep.drain()
		}()
	}
}
