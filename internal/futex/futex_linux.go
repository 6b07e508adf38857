// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

//go:build linux

package futex

import (
	"fmt"
	"sync/atomic"
	"time"
	"unsafe"

	"golang.org/x/sys/unix"
)

const (
	opWaitPrivate = 128 // FUTEX_WAIT | FUTEX_PRIVATE_FLAG
	opWakePrivate = 129 // FUTEX_WAKE | FUTEX_PRIVATE_FLAG
)

// Supported reports whether Wait and Wake are backed by the kernel.
const Supported = true

// Wait blocks the calling thread while *addr == val.
// It returns nil on wake, on a value mismatch, and on signal
// interruption; callers must re-check their condition.
// A non-positive timeout waits forever; an elapsed timeout
// returns ErrTimeout.
//
// unix.Syscall6 (not RawSyscall6) is used so the Go scheduler hands
// the P to another thread while this one sleeps in the kernel.
func Wait(addr *uint32, val uint32, timeout time.Duration) error {
	if atomic.LoadUint32(addr) != val {
		return nil
	}

	var tsp uintptr
	var ts unix.Timespec
	if timeout > 0 {
		ts = unix.NsecToTimespec(int64(timeout))
		tsp = uintptr(unsafe.Pointer(&ts))
	}

	_, _, errno := unix.Syscall6(
		unix.SYS_FUTEX,
		uintptr(unsafe.Pointer(addr)),
		opWaitPrivate,
		uintptr(val),
		tsp,
		0,
		0,
	)
	switch errno {
	case 0, unix.EAGAIN, unix.EINTR:
		return nil
	case unix.ETIMEDOUT:
		return ErrTimeout
	}
	return fmt.Errorf("futex wait: %w", errno)
}

// Wake wakes up to n threads waiting on addr and
// returns how many were woken.
func Wake(addr *uint32, n int) (int, error) {
	r1, _, errno := unix.Syscall6(
		unix.SYS_FUTEX,
		uintptr(unsafe.Pointer(addr)),
		opWakePrivate,
		uintptr(n),
		0,
		0,
		0,
	)
	if errno != 0 {
		return 0, fmt.Errorf("futex wake: %w", errno)
	}
	return int(r1), nil
}
