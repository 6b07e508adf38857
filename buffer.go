// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package syncall

import (
	"fmt"
	"sync/atomic"
	"unsafe"

	"code.hybscloud.com/atomix"

	"code.hybscloud.com/syncall/internal/shm"
)

// headerSize is the fixed header in front of every payload. Only byte 0
// (the tag) is used; the rest keeps the payload 8-byte aligned.
const headerSize = 8

// DefaultMaxBufferSize is the default reservation per Buffer.
// Only the pages a payload touches are committed.
const DefaultMaxBufferSize = 64 << 20

// Buffer is a shared region carrying one reply from the exposing side
// to the blocked consumer. Layout:
//
//	[0]     tag (Kind), 0 until published
//	[1:8]   reserved
//	[8:]    payload
//
// The region is reserved at its maximum size and grows in place, so
// its address never changes. A Buffer is used for exactly one exchange.
//
// Ownership is shared between the consumer and the exposer; the region
// is returned to the system when both have called Close.
type Buffer struct {
	region *shm.Region
	mem    []byte
	size   int
	refs   atomix.Int32
}

// NewBuffer reserves a Buffer of DefaultMaxBufferSize bytes.
func NewBuffer() (*Buffer, error) {
	return newBuffer(DefaultMaxBufferSize)
}

func newBuffer(capacity int) (*Buffer, error) {
	if capacity < headerSize {
		return nil, fmt.Errorf("%w: capacity %d below header size", ErrBufferOverflow, capacity)
	}
	region, err := shm.Reserve(capacity)
	if err != nil {
		return nil, err
	}
	b := &Buffer{region: region, mem: region.Bytes(), size: headerSize}
	b.refs.Add(1)
	return b, nil
}

// Len returns the committed length in bytes, header included.
// Zero once the region has been released.
func (b *Buffer) Len() int {
	if b.mem == nil {
		return 0
	}
	return b.size
}

// Cap returns the reserved length in bytes, header included.
func (b *Buffer) Cap() int {
	return len(b.mem)
}

// Tag returns the published tag, or 0 if nothing is published yet.
func (b *Buffer) Tag() Kind {
	if b.mem == nil {
		return kindNone
	}
	return Kind(atomic.LoadUint32(b.word()))
}

// word is the 32-bit header word the tag lives in (little-endian,
// so byte 0 is the low byte). Waiters park on it.
func (b *Buffer) word() *uint32 {
	return (*uint32)(unsafe.Pointer(&b.mem[0]))
}

// grow commits headerSize+n bytes and returns the first n payload bytes.
// Growth only ever extends the committed prefix.
func (b *Buffer) grow(n int) ([]byte, error) {
	if b.mem == nil {
		return nil, ErrEmptyBuffer
	}
	need := headerSize + n
	if n < 0 || need > len(b.mem) {
		return nil, fmt.Errorf("%w: need %d bytes, capacity %d", ErrBufferOverflow, need, len(b.mem))
	}
	if need > b.size {
		b.size = need
	}
	return b.mem[headerSize:need], nil
}

// reset discards an unpublished payload.
func (b *Buffer) reset() {
	b.size = headerSize
}

// payload returns the committed payload bytes.
func (b *Buffer) payload() []byte {
	return b.mem[headerSize:b.size]
}

// ref adds an owner.
func (b *Buffer) ref() {
	b.refs.Add(1)
}

// Close drops one owner. The last owner releases the region.
func (b *Buffer) Close() error {
	if b.refs.Add(-1) != 0 {
		return nil
	}
	b.mem = nil
	return b.region.Release()
}
