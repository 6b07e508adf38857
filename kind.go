// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package syncall

//go:generate go tool stringer -type=Kind -linecomment
//go:generate go tool stringer -type=Op -linecomment

// Kind is the type of a Value. Its numeric value is the one-byte
// tag written at offset 0 of a Buffer header.
type Kind uint8

const (
	kindNone      Kind = iota // none
	KindUndefined             // undefined
	KindBoolean               // boolean
	KindNumber                // number
	KindBigInt                // bigint
	KindBytes                 // bytes
	KindString                // string
	KindObject                // object
	KindFunction              // function
	KindError                 // error
	kindThrown                // thrown
)

// valid reports whether k may appear in a published header.
func (k Kind) valid() bool {
	return k > kindNone && k <= kindThrown
}

// cacheable reports whether values of kind k can be the target of
// further remote operations and so are kept in the reference table.
func (k Kind) cacheable() bool {
	return k == KindObject || k == KindFunction
}

// Op identifies the kind of a remote Action.
type Op uint8

const (
	OpConsume  Op = iota + 1 // consume
	OpGet                    // get
	OpSet                    // set
	OpApply                  // apply
	OpOwnKeys                // ownKeys
	OpDescribe               // getOwnPropertyDescriptor
	OpRelease                // release
)
