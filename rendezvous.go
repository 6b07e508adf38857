// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package syncall

import (
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"code.hybscloud.com/iox"

	"code.hybscloud.com/syncall/internal/futex"
)

// publish makes an encoded payload visible to the waiter.
// Every payload write must precede the call: the atomic store of the tag
// is the release point, and the wake follows it.
func (b *Buffer) publish(k Kind) {
	w := b.word()
	atomic.StoreUint32(w, uint32(k))
	if _, err := futex.Wake(w, 1); err != nil && !errors.Is(err, futex.ErrUnsupported) {
		log.Warningf("wake after publish: %v", err)
	}
}

// poll is the non-blocking check. It returns iox.ErrWouldBlock while
// nothing has been published.
func (b *Buffer) poll() (Kind, error) {
	if b.mem == nil {
		return kindNone, ErrEmptyBuffer
	}
	if k := Kind(atomic.LoadUint32(b.word())); k != kindNone {
		return k, nil
	}
	return kindNone, iox.ErrWouldBlock
}

// await blocks the calling thread until a tag is published.
// A non-positive timeout waits forever.
//
// The header word is re-read after every return from the kernel, so
// spurious wakes and signal interruptions only cost another round.
// Without a futex the wait backs off with iox.Backoff.
func (b *Buffer) await(timeout time.Duration) (Kind, error) {
	var deadline time.Time
	if timeout > 0 {
		deadline = time.Now().Add(timeout)
	}
	var bo iox.Backoff
	for {
		k, err := b.poll()
		if !iox.IsWouldBlock(err) {
			return k, err
		}

		var remaining time.Duration
		if timeout > 0 {
			remaining = time.Until(deadline)
			if remaining <= 0 {
				return kindNone, ErrTimeout
			}
		}

		err = futex.Wait(b.word(), uint32(kindNone), remaining)
		switch {
		case err == nil, errors.Is(err, futex.ErrTimeout):
		case errors.Is(err, futex.ErrUnsupported):
			bo.Wait()
		default:
			return kindNone, fmt.Errorf("syncall: await reply: %w", err)
		}
	}
}
