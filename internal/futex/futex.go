// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package futex wraps the kernel wait/notify primitive on a 32-bit word.
package futex

import "errors"

var (
	// ErrTimeout is returned by Wait when the timeout elapses first.
	ErrTimeout = errors.New("futex: timeout")

	// ErrUnsupported is returned on platforms without a futex.
	ErrUnsupported = errors.New("futex: not supported on this platform")
)
