// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package shm reserves fixed-address memory regions shared by the
// goroutines of one process.
//
// A Region is reserved once at its maximum size. Callers commit a prefix
// of it and grow that prefix in place; the base address never changes,
// so views taken before a growth stay valid after it.
package shm

import "errors"

// ErrInvalidSize is returned when a reservation size is not positive.
var ErrInvalidSize = errors.New("shm: invalid region size")

// Region is a fixed-address block of memory.
type Region struct {
	mem []byte
}

// Reserve reserves size bytes. The memory reads as zero until written.
func Reserve(size int) (*Region, error) {
	if size <= 0 {
		return nil, ErrInvalidSize
	}
	mem, err := reserve(size)
	if err != nil {
		return nil, err
	}
	return &Region{mem: mem}, nil
}

// Bytes returns the whole reservation.
// Nil after Release.
func (r *Region) Bytes() []byte {
	return r.mem
}

// Size returns the reserved size in bytes.
func (r *Region) Size() int {
	return len(r.mem)
}

// Release returns the reservation to the system. Idempotent.
func (r *Region) Release() error {
	if r.mem == nil {
		return nil
	}
	mem := r.mem
	r.mem = nil
	return release(mem)
}
