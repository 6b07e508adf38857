// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

//go:build unix && !linux

package shm

import "golang.org/x/sys/unix"

const mapFlags = unix.MAP_PRIVATE | unix.MAP_ANON
