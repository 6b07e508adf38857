// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

//go:build !unix && !windows

package shm

// Lazy reports whether reserved pages are committed on first touch
// rather than at Reserve.
const Lazy = false

// reserve falls back to a heap allocation of the full size.
// The Go heap does not move objects, so the address is stable.
func reserve(size int) ([]byte, error) {
	return make([]byte, size), nil
}

func release(mem []byte) error {
	return nil
}
