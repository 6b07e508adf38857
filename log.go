// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package syncall

import "github.com/tliron/commonlog"

// log is silent until the application selects a commonlog backend,
// e.g. by importing github.com/tliron/commonlog/simple.
var log = commonlog.GetLogger("syncall")
