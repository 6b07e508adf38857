// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

//go:build windows

package shm

import (
	"fmt"
	"unsafe"

	"golang.org/x/sys/windows"
)

// Lazy reports whether reserved pages are committed on first touch
// rather than at Reserve.
const Lazy = true

// reserve reserves and commits size bytes of private memory. Committed
// pages are zero-filled by the system on first access.
func reserve(size int) ([]byte, error) {
	addr, err := windows.VirtualAlloc(0, uintptr(size), windows.MEM_RESERVE|windows.MEM_COMMIT, windows.PAGE_READWRITE)
	if err != nil {
		return nil, fmt.Errorf("shm: VirtualAlloc %d bytes: %w", size, err)
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(addr)), size), nil
}

func release(mem []byte) error {
	if err := windows.VirtualFree(uintptr(unsafe.Pointer(unsafe.SliceData(mem))), 0, windows.MEM_RELEASE); err != nil {
		return fmt.Errorf("shm: VirtualFree: %w", err)
	}
	return nil
}
