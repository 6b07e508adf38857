// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

//go:build !linux

package futex

import "time"

// Supported reports whether Wait and Wake are backed by the kernel.
const Supported = false

// Wait is not supported on this platform.
func Wait(addr *uint32, val uint32, timeout time.Duration) error {
	return ErrUnsupported
}

// Wake is not supported on this platform.
func Wake(addr *uint32, n int) (int, error) {
	return 0, ErrUnsupported
}
