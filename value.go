// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package syncall

import (
	"fmt"
	"math"
	"reflect"
	"slices"
)

// Value is a closed tagged union over the kinds that can cross the
// boundary. The zero Value is Undefined.
//
// Object and Function values are never copied: on the exposing side
// they hold the live Object or Function; on the consuming side they
// hold an *ObjectHandle or *FunctionHandle.
type Value struct {
	kind  Kind
	num   float64
	i64   int64
	bytes []byte
	str   string
	err   *RemoteError
	shape Shape
	obj   Object
	fn    Function
}

// Object is the capability set of a value whose properties can be
// read, written, enumerated and described.
type Object interface {
	Get(key string) (Value, error)
	Set(key string, v Value) error
	OwnKeys() ([]string, error)
	Describe(key string) (*Descriptor, error)
}

// Function is the capability set of a callable value.
// this is Undefined when the function is invoked without a context.
type Function interface {
	Apply(this Value, args []Value) (Value, error)
}

// Func adapts an ordinary Go function to Function.
type Func func(this Value, args []Value) (Value, error)

// Apply calls f(this, args).
func (f Func) Apply(this Value, args []Value) (Value, error) {
	return f(this, args)
}

// Shape is the minimal description of an object sent in place of its
// contents.
type Shape uint8

const (
	ShapeNull Shape = iota
	ShapeObject
	ShapeArray
)

func (s Shape) String() string {
	switch s {
	case ShapeObject:
		return "object"
	case ShapeArray:
		return "array"
	}
	return "null"
}

// shaper is implemented by objects that are not plain objects.
type shaper interface {
	Shape() Shape
}

// Descriptor holds the property flags that can cross the boundary.
// Accessors and values are never transmitted.
type Descriptor struct {
	Enumerable   bool `json:"enumerable"`
	Writable     bool `json:"writable"`
	Configurable bool `json:"configurable"`
}

// Undefined returns the undefined Value.
func Undefined() Value { return Value{kind: KindUndefined} }

// Null returns the null object.
func Null() Value { return Value{kind: KindObject, shape: ShapeNull} }

// Bool returns a Boolean Value.
func Bool(b bool) Value {
	v := Value{kind: KindBoolean}
	if b {
		v.i64 = 1
	}
	return v
}

// Number returns a Number Value.
func Number(f float64) Value { return Value{kind: KindNumber, num: f} }

// BigInt returns a BigInt Value.
func BigInt(i int64) Value { return Value{kind: KindBigInt, i64: i} }

// Bytes returns a Bytes Value holding b. b is not copied.
func Bytes(b []byte) Value { return Value{kind: KindBytes, bytes: b} }

// String returns a String Value.
func String(s string) Value { return Value{kind: KindString, str: s} }

// ErrorValue returns an Error Value for err. A nil err yields Undefined.
func ErrorValue(err error) Value {
	if err == nil {
		return Undefined()
	}
	return Value{kind: KindError, err: toRemoteError(err)}
}

// ObjectValue returns an Object Value for o. A nil o yields Null.
func ObjectValue(o Object) Value {
	if o == nil {
		return Null()
	}
	shape := ShapeObject
	if s, ok := o.(shaper); ok {
		shape = s.Shape()
	}
	return Value{kind: KindObject, shape: shape, obj: o}
}

// FunctionValue returns a Function Value for f.
func FunctionValue(f Function) Value { return Value{kind: KindFunction, fn: f} }

// Kind returns the kind of v.
func (v Value) Kind() Kind {
	if v.kind == kindNone {
		return KindUndefined
	}
	return v.kind
}

// IsUndefined reports whether v is Undefined.
func (v Value) IsUndefined() bool { return v.Kind() == KindUndefined }

// IsNull reports whether v is the null object.
func (v Value) IsNull() bool { return v.kind == KindObject && v.shape == ShapeNull }

// Bool returns the boolean held by v, or false.
func (v Value) Bool() bool { return v.kind == KindBoolean && v.i64 != 0 }

// Number returns the number held by v, or 0.
func (v Value) Number() float64 { return v.num }

// BigInt returns the integer held by v, or 0.
func (v Value) BigInt() int64 { return pick(v.kind == KindBigInt, v.i64) }

// Bytes returns the byte sequence held by v, or nil.
func (v Value) Bytes() []byte { return v.bytes }

// Str returns the string held by v, or "".
func (v Value) Str() string { return v.str }

// Err returns the error record held by v, or nil.
func (v Value) Err() *RemoteError { return v.err }

// Shape returns the object shape of v; ShapeNull for non-objects.
func (v Value) Shape() Shape { return v.shape }

// Object returns the object held by v, or nil.
func (v Value) Object() Object { return v.obj }

// Function returns the function held by v, or nil.
func (v Value) Function() Function { return v.fn }

// ObjectHandle returns the remote handle held by v, or nil.
func (v Value) ObjectHandle() *ObjectHandle {
	h, _ := v.obj.(*ObjectHandle)
	return h
}

// FunctionHandle returns the remote handle held by v, or nil.
func (v Value) FunctionHandle() *FunctionHandle {
	h, _ := v.fn.(*FunctionHandle)
	return h
}

func pick[T any](ok bool, t T) T {
	if ok {
		return t
	}
	var zero T
	return zero
}

// Equal reports whether v and w are the same scalar, the same error
// record, or the same object or function reference.
// NaN numbers compare equal to each other.
func (v Value) Equal(w Value) bool {
	if v.Kind() != w.Kind() {
		return false
	}
	switch v.Kind() {
	case KindUndefined:
		return true
	case KindBoolean:
		return v.Bool() == w.Bool()
	case KindNumber:
		return v.num == w.num || (math.IsNaN(v.num) && math.IsNaN(w.num))
	case KindBigInt:
		return v.i64 == w.i64
	case KindBytes:
		return slices.Equal(v.bytes, w.bytes)
	case KindString:
		return v.str == w.str
	case KindError:
		return errorsEqual(v.err, w.err)
	case KindObject:
		return v.shape == w.shape && sameRef(v.obj, w.obj)
	case KindFunction:
		return sameRef(v.fn, w.fn)
	}
	return false
}

func errorsEqual(a, b *RemoteError) bool {
	for a != nil && b != nil {
		if a.Name != b.Name || a.Message != b.Message || a.Code != b.Code || a.Stack != b.Stack {
			return false
		}
		a, b = a.Cause, b.Cause
	}
	return a == nil && b == nil
}

// sameRef compares object or function references. Implementations
// whose dynamic type is not comparable, such as Func or a map, are
// never equal.
func sameRef(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	ra, rb := reflect.ValueOf(a), reflect.ValueOf(b)
	if ra.Type() != rb.Type() || !ra.Comparable() || !rb.Comparable() {
		return false
	}
	return a == b
}

func (v Value) String() string {
	switch v.Kind() {
	case KindUndefined:
		return "undefined"
	case KindBoolean:
		return fmt.Sprint(v.Bool())
	case KindNumber:
		return fmt.Sprint(v.num)
	case KindBigInt:
		return fmt.Sprintf("%dn", v.i64)
	case KindBytes:
		return fmt.Sprintf("bytes[%d]", len(v.bytes))
	case KindString:
		return fmt.Sprintf("%q", v.str)
	case KindError:
		return v.err.Error()
	case KindObject:
		if v.IsNull() {
			return "null"
		}
		return "[" + v.shape.String() + "]"
	case KindFunction:
		return "[function]"
	}
	return v.kind.String()
}

// ValueOf converts a native Go value.
//
//	nil                         Null
//	bool                        Boolean
//	int, int8..int32, uint8..uint32, uint, float32, float64   Number
//	int64, uint64               BigInt
//	string                      String
//	[]byte                      Bytes
//	error                       Error
//	Value                       itself
//	Object, Function            Object, Function
//	func(Value, []Value) (Value, error)   Function
//	map[string]any              Record
//	[]any                       List
//
// Anything else fails with ErrUnsupportedType.
func ValueOf(x any) (Value, error) {
	switch t := x.(type) {
	case nil:
		return Null(), nil
	case Value:
		return t, nil
	case bool:
		return Bool(t), nil
	case int:
		return Number(float64(t)), nil
	case int8:
		return Number(float64(t)), nil
	case int16:
		return Number(float64(t)), nil
	case int32:
		return Number(float64(t)), nil
	case uint:
		return Number(float64(t)), nil
	case uint8:
		return Number(float64(t)), nil
	case uint16:
		return Number(float64(t)), nil
	case uint32:
		return Number(float64(t)), nil
	case float32:
		return Number(float64(t)), nil
	case float64:
		return Number(t), nil
	case int64:
		return BigInt(t), nil
	case uint64:
		if t > math.MaxInt64 {
			return Value{}, fmt.Errorf("%w: uint64 %d out of bigint range", ErrUnsupportedType, t)
		}
		return BigInt(int64(t)), nil
	case string:
		return String(t), nil
	case []byte:
		return Bytes(t), nil
	case Object:
		return ObjectValue(t), nil
	case Function:
		return FunctionValue(t), nil
	case func(Value, []Value) (Value, error):
		return FunctionValue(Func(t)), nil
	case error:
		return ErrorValue(t), nil
	case map[string]any:
		return recordOf(t)
	case []any:
		return listOf(t)
	}
	return Value{}, fmt.Errorf("%w: %T", ErrUnsupportedType, x)
}

// MustValueOf is like ValueOf but panics on unsupported input.
func MustValueOf(x any) Value {
	v, err := ValueOf(x)
	if err != nil {
		panic(err)
	}
	return v
}

// Values converts each argument with ValueOf.
func Values(xs ...any) ([]Value, error) {
	vs := make([]Value, len(xs))
	for i, x := range xs {
		v, err := ValueOf(x)
		if err != nil {
			return nil, fmt.Errorf("argument %d: %w", i, err)
		}
		vs[i] = v
	}
	return vs, nil
}
