// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package syncall_test

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"testing"

	"code.hybscloud.com/syncall"
)

// roundTrip encodes v into a fresh buffer and decodes it back.
func roundTrip(tb testing.TB, v syncall.Value) (syncall.Value, error) {
	tb.Helper()
	b, err := syncall.NewBuffer()
	if err != nil {
		tb.Fatalf("NewBuffer: %v", err)
	}
	defer b.Close()
	if err := syncall.Encode(b, v); err != nil {
		return syncall.Value{}, err
	}
	return syncall.Decode(b)
}

func TestRoundTripScalars(t *testing.T) {
	cause := errors.New("disk full")
	tests := []struct {
		name string
		v    syncall.Value
	}{
		{"undefined", syncall.Undefined()},
		{"zero value", syncall.Value{}},
		{"true", syncall.Bool(true)},
		{"false", syncall.Bool(false)},
		{"zero", syncall.Number(0)},
		{"negative zero", syncall.Number(math.Copysign(0, -1))},
		{"float", syncall.Number(3.25)},
		{"max float", syncall.Number(math.MaxFloat64)},
		{"smallest float", syncall.Number(math.SmallestNonzeroFloat64)},
		{"infinity", syncall.Number(math.Inf(-1))},
		{"nan", syncall.Number(math.NaN())},
		{"max safe integer", syncall.Number(1<<53 - 1)},
		{"bigint min", syncall.BigInt(math.MinInt64)},
		{"bigint max", syncall.BigInt(math.MaxInt64)},
		{"empty string", syncall.String("")},
		{"ascii", syncall.String("hello")},
		{"multi-byte", syncall.String("日本語 ✓ 🚀")},
		{"empty bytes", syncall.Bytes(nil)},
		{"bytes", syncall.Bytes([]byte{0, 1, 2, 0xff})},
		{"error", syncall.ErrorValue(errors.New("boom"))},
		{"error chain", syncall.ErrorValue(fmt.Errorf("save: %w", fmt.Errorf("write: %w", cause)))},
		{"typed error", syncall.ErrorValue(syncall.NewError("RangeError", "too big"))},
		{"null", syncall.Null()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := roundTrip(t, tt.v)
			if err != nil {
				t.Fatalf("round trip: %v", err)
			}
			if !got.Equal(tt.v) {
				t.Fatalf("round trip = %v, want %v", got, tt.v)
			}
		})
	}
}

// mapObject is an Object whose dynamic type is not comparable.
type mapObject map[string]syncall.Value

func (m mapObject) Get(key string) (syncall.Value, error) { return m[key], nil }
func (m mapObject) Set(key string, v syncall.Value) error { m[key] = v; return nil }
func (m mapObject) OwnKeys() ([]string, error)            { return nil, nil }
func (m mapObject) Describe(string) (*syncall.Descriptor, error) {
	return nil, nil
}

func TestValueEqualReferences(t *testing.T) {
	rec := syncall.NewRecord()
	if !syncall.ObjectValue(rec).Equal(syncall.ObjectValue(rec)) {
		t.Fatal("same record is not equal to itself")
	}
	if syncall.ObjectValue(rec).Equal(syncall.ObjectValue(syncall.NewRecord())) {
		t.Fatal("distinct records compare equal")
	}
	m := syncall.ObjectValue(mapObject{})
	if m.Equal(m) {
		t.Fatal("non-comparable object compared equal")
	}
	if m.Equal(syncall.ObjectValue(rec)) {
		t.Fatal("objects of different types compared equal")
	}
	fn := syncall.FunctionValue(syncall.Func(add))
	if fn.Equal(fn) {
		t.Fatal("Func compared equal")
	}
	if !syncall.Null().Equal(syncall.Null()) {
		t.Fatal("null is not equal to null")
	}
}

func TestRoundTripNegativeZeroSign(t *testing.T) {
	got, err := roundTrip(t, syncall.Number(math.Copysign(0, -1)))
	if err != nil {
		t.Fatal(err)
	}
	if !math.Signbit(got.Number()) {
		t.Fatal("negative zero lost its sign")
	}
}

func TestRoundTripErrorCause(t *testing.T) {
	inner := syncall.NewError("TypeError", "bad input")
	got, err := roundTrip(t, syncall.ErrorValue(fmt.Errorf("handler: %w", inner)))
	if err != nil {
		t.Fatal(err)
	}
	re := got.Err()
	if re == nil || re.Cause == nil {
		t.Fatalf("decoded error %v has no cause", got)
	}
	if !errors.Is(re, inner) {
		t.Fatalf("errors.Is(%v, %v) = false", re, inner)
	}
	if re.Cause.Name != "TypeError" {
		t.Fatalf("cause name = %q, want TypeError", re.Cause.Name)
	}
}

func TestDecodedBytesAreCopied(t *testing.T) {
	b, err := syncall.NewBuffer()
	if err != nil {
		t.Fatal(err)
	}
	if err := syncall.Encode(b, syncall.Bytes([]byte("abc"))); err != nil {
		t.Fatal(err)
	}
	v, err := syncall.Decode(b)
	if err != nil {
		t.Fatal(err)
	}
	b.Close()
	if string(v.Bytes()) != "abc" {
		t.Fatalf("bytes after buffer close = %q, want abc", v.Bytes())
	}
}

func TestRoundTripDetachedObjects(t *testing.T) {
	obj, _ := fixture()
	got, err := roundTrip(t, obj)
	if err != nil {
		t.Fatal(err)
	}
	if got.Kind() != syncall.KindObject || got.Shape() != syncall.ShapeObject {
		t.Fatalf("object decoded as %v (%v)", got.Kind(), got.Shape())
	}
	if got.Object() != nil {
		t.Fatal("detached object carries contents")
	}

	got, err = roundTrip(t, syncall.ObjectValue(syncall.NewList(syncall.Number(1))))
	if err != nil {
		t.Fatal(err)
	}
	if got.Shape() != syncall.ShapeArray {
		t.Fatalf("list decoded with shape %v, want array", got.Shape())
	}

	got, err = roundTrip(t, syncall.FunctionValue(syncall.Func(add)))
	if err != nil {
		t.Fatal(err)
	}
	if got.Kind() != syncall.KindFunction {
		t.Fatalf("function decoded as %v", got.Kind())
	}
}

func TestEncodeOverflow(t *testing.T) {
	skipRace(t)
	a, b := newPair(t, syncall.WithMaxBufferSize(512))
	expose(t, "big", syncall.Bytes(make([]byte, 1024)), a)

	_, err := syncall.Consume("big", b)
	var re *syncall.RemoteError
	if !errors.As(err, &re) {
		t.Fatalf("Consume of oversized value: %v, want thrown overflow", err)
	}
	if !strings.Contains(re.Message, "exceeds buffer capacity") {
		t.Fatalf("thrown message = %q", re.Message)
	}
}

func TestDecodeClosedBuffer(t *testing.T) {
	b, err := syncall.NewBuffer()
	if err != nil {
		t.Fatal(err)
	}
	b.Close()
	if _, err := syncall.Decode(b); !errors.Is(err, syncall.ErrEmptyBuffer) {
		t.Fatalf("Decode after Close: %v, want ErrEmptyBuffer", err)
	}
	if b.Len() != 0 {
		t.Fatalf("Len after Close = %d, want 0", b.Len())
	}
}

func TestEncodeClosedBuffer(t *testing.T) {
	values := []syncall.Value{
		syncall.Undefined(),
		syncall.Null(),
		syncall.Bool(true),
		syncall.Number(1),
		syncall.BigInt(2),
		syncall.Bytes([]byte("b")),
		syncall.String("s"),
		syncall.ErrorValue(errors.New("e")),
		syncall.ObjectValue(syncall.NewRecord()),
		syncall.ObjectValue(syncall.NewList()),
		syncall.FunctionValue(syncall.Func(add)),
	}
	for _, v := range values {
		b, err := syncall.NewBuffer()
		if err != nil {
			t.Fatal(err)
		}
		b.Close()
		if err := syncall.Encode(b, v); !errors.Is(err, syncall.ErrEmptyBuffer) {
			t.Fatalf("Encode(%v) after Close: %v, want ErrEmptyBuffer", v.Kind(), err)
		}
	}
}

func TestValueOf(t *testing.T) {
	tests := []struct {
		in   any
		want syncall.Kind
	}{
		{nil, syncall.KindObject},
		{true, syncall.KindBoolean},
		{42, syncall.KindNumber},
		{uint8(7), syncall.KindNumber},
		{float32(1.5), syncall.KindNumber},
		{int64(-3), syncall.KindBigInt},
		{uint64(3), syncall.KindBigInt},
		{"s", syncall.KindString},
		{[]byte("b"), syncall.KindBytes},
		{errors.New("e"), syncall.KindError},
		{map[string]any{"k": 1}, syncall.KindObject},
		{[]any{1, "two"}, syncall.KindObject},
		{add, syncall.KindFunction},
		{syncall.Undefined(), syncall.KindUndefined},
	}
	for _, tt := range tests {
		v, err := syncall.ValueOf(tt.in)
		if err != nil {
			t.Fatalf("ValueOf(%T): %v", tt.in, err)
		}
		if v.Kind() != tt.want {
			t.Fatalf("ValueOf(%T).Kind() = %v, want %v", tt.in, v.Kind(), tt.want)
		}
	}
}

func TestValueOfUnsupported(t *testing.T) {
	for _, in := range []any{
		make(chan int),
		struct{}{},
		complex(1, 2),
		uint64(math.MaxUint64),
		map[string]any{"ch": make(chan int)},
	} {
		_, err := syncall.ValueOf(in)
		if !errors.Is(err, syncall.ErrUnsupportedType) {
			t.Fatalf("ValueOf(%T) = %v, want ErrUnsupportedType", in, err)
		}
	}
}

func TestValueOfRecordKeys(t *testing.T) {
	v := syncall.MustValueOf(map[string]any{"b": 2, "a": 1})
	keys, err := v.Object().OwnKeys()
	if err != nil {
		t.Fatal(err)
	}
	if len(keys) != 2 || keys[0] != "a" || keys[1] != "b" {
		t.Fatalf("own keys = %v, want [a b]", keys)
	}
}

func TestKindString(t *testing.T) {
	tests := map[syncall.Kind]string{
		syncall.KindUndefined: "undefined",
		syncall.KindBigInt:    "bigint",
		syncall.KindFunction:  "function",
		syncall.KindError:     "error",
	}
	for k, want := range tests {
		if k.String() != want {
			t.Fatalf("Kind(%d).String() = %q, want %q", uint8(k), k.String(), want)
		}
	}
	if syncall.OpDescribe.String() != "getOwnPropertyDescriptor" {
		t.Fatalf("OpDescribe.String() = %q", syncall.OpDescribe.String())
	}
}
