// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package syncall

import (
	"strconv"

	"code.hybscloud.com/atomix"
)

// Serial identifies an endpoint pair. Both endpoints returned by one
// call to New share it; serials increase monotonically per process.
type Serial uint32

func (s Serial) String() string {
	return strconv.FormatUint(uint64(s), 10)
}

// pairs counts endpoint pairs created by New.
var pairs atomix.Uint32

func nextSerial() Serial {
	return Serial(pairs.Add(1))
}
