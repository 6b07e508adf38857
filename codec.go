// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package syncall

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"math"
)

// lengthPrefix is the size of the little-endian length in front of
// byte and string payloads.
const lengthPrefix = 4

// Encode writes v into b and publishes it. Object and Function values
// travel as a shape or a bare tag; their contents stay where they are.
func Encode(b *Buffer, v Value) error {
	if b.mem == nil {
		return ErrEmptyBuffer
	}
	k, err := encode(b, v)
	if err != nil {
		return err
	}
	b.publish(k)
	return nil
}

// Decode waits for b to be published and decodes it. A thrown error is
// returned as a *RemoteError. Objects and functions decode detached:
// they keep their kind and shape but carry no handle.
func Decode(b *Buffer) (Value, error) {
	k, err := b.await(0)
	if err != nil {
		return Value{}, err
	}
	res, err := decode(b, k, nil, "")
	if err != nil {
		return Value{}, err
	}
	return unwrapResult(res)
}

func unwrapResult(res Result) (Value, error) {
	if e, ok := res.GetLeft(); ok {
		return Value{}, e
	}
	v, _ := res.GetRight()
	return v, nil
}

// encodeResult writes a Result payload and returns the tag to publish.
func encodeResult(b *Buffer, res Result) (Kind, error) {
	if e, ok := res.GetLeft(); ok {
		return kindThrown, writeError(b, e)
	}
	v, _ := res.GetRight()
	return encode(b, v)
}

// encode writes the payload of v and returns its tag. Nothing is
// visible to the reader until the tag is published.
func encode(b *Buffer, v Value) (Kind, error) {
	k := v.Kind()
	var err error
	switch k {
	case KindUndefined, KindFunction:
	case KindBoolean:
		var p []byte
		if p, err = b.grow(1); err == nil {
			p[0] = 0
			if v.Bool() {
				p[0] = 1
			}
		}
	case KindNumber:
		err = writeUint64(b, math.Float64bits(v.num))
	case KindBigInt:
		err = writeUint64(b, uint64(v.i64))
	case KindBytes:
		err = writeBytes(b, v.bytes)
	case KindString:
		err = writeString(b, v.str)
	case KindError:
		err = writeError(b, v.err)
	case KindObject:
		err = writeShape(b, v.shape)
	default:
		err = fmt.Errorf("%w: %v", ErrUnsupportedType, k)
	}
	return k, err
}

func writeUint64(b *Buffer, u uint64) error {
	p, err := b.grow(8)
	if err != nil {
		return err
	}
	binary.LittleEndian.PutUint64(p, u)
	return nil
}

func writeBytes(b *Buffer, data []byte) error {
	if uint64(len(data)) > math.MaxUint32 {
		return fmt.Errorf("%w: %d bytes exceed length prefix", ErrBufferOverflow, len(data))
	}
	p, err := b.grow(lengthPrefix + len(data))
	if err != nil {
		return err
	}
	binary.LittleEndian.PutUint32(p, uint32(len(data)))
	copy(p[lengthPrefix:], data)
	return nil
}

// writeString is writeBytes over the UTF-8 bytes of s, without the
// intermediate []byte.
func writeString(b *Buffer, s string) error {
	if uint64(len(s)) > math.MaxUint32 {
		return fmt.Errorf("%w: %d bytes exceed length prefix", ErrBufferOverflow, len(s))
	}
	p, err := b.grow(lengthPrefix + len(s))
	if err != nil {
		return err
	}
	binary.LittleEndian.PutUint32(p, uint32(len(s)))
	copy(p[lengthPrefix:], s)
	return nil
}

func writeError(b *Buffer, e *RemoteError) error {
	if e == nil {
		e = &RemoteError{Name: "Error"}
	}
	data, err := marshalError(e)
	if err != nil {
		return err
	}
	return writeBytes(b, data)
}

// shapeRecord is the object descriptor on the wire; nil encodes null.
type shapeRecord struct {
	Kind string `json:"kind"`
}

func writeShape(b *Buffer, s Shape) error {
	var rec *shapeRecord
	if s != ShapeNull {
		rec = &shapeRecord{Kind: s.String()}
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	return writeBytes(b, data)
}

// decode reads a published payload. With a client, object and function
// tags become handles bound to key.
func decode(b *Buffer, k Kind, c *client, key string) (Result, error) {
	var zero Result
	if b.Len() == 0 {
		return zero, ErrEmptyBuffer
	}
	if !k.valid() {
		return zero, fmt.Errorf("%w: %d", ErrUnsupportedTag, uint8(k))
	}
	p := b.payload()

	switch k {
	case KindUndefined:
		return succeed(Undefined()), nil
	case KindBoolean:
		if len(p) < 1 {
			return zero, fmt.Errorf("%w: boolean needs 1 byte", ErrMalformed)
		}
		return succeed(Bool(p[0] == 1)), nil
	case KindNumber:
		u, err := readUint64(p)
		if err != nil {
			return zero, err
		}
		return succeed(Number(math.Float64frombits(u))), nil
	case KindBigInt:
		u, err := readUint64(p)
		if err != nil {
			return zero, err
		}
		return succeed(BigInt(int64(u))), nil
	case KindBytes:
		raw, err := readBytes(p)
		if err != nil {
			return zero, err
		}
		return succeed(Bytes(bytes.Clone(raw))), nil
	case KindString:
		raw, err := readBytes(p)
		if err != nil {
			return zero, err
		}
		return succeed(String(string(raw))), nil
	case KindError, kindThrown:
		raw, err := readBytes(p)
		if err != nil {
			return zero, err
		}
		e, err := unmarshalError(raw)
		if err != nil {
			return zero, err
		}
		if k == kindThrown {
			return throw(e), nil
		}
		return succeed(Value{kind: KindError, err: e}), nil
	case KindObject:
		s, err := readShape(p)
		if err != nil {
			return zero, err
		}
		if s == ShapeNull {
			return succeed(Null()), nil
		}
		if c == nil {
			return succeed(Value{kind: KindObject, shape: s}), nil
		}
		return succeed(ObjectValue(c.objectHandle(key, s))), nil
	case KindFunction:
		if c == nil {
			return succeed(Value{kind: KindFunction}), nil
		}
		return succeed(FunctionValue(c.functionHandle(key))), nil
	}
	return zero, fmt.Errorf("%w: %d", ErrUnsupportedTag, uint8(k))
}

func readUint64(p []byte) (uint64, error) {
	if len(p) < 8 {
		return 0, fmt.Errorf("%w: need 8 bytes, have %d", ErrMalformed, len(p))
	}
	return binary.LittleEndian.Uint64(p), nil
}

// readBytes returns a view of a length-prefixed payload.
func readBytes(p []byte) ([]byte, error) {
	if len(p) < lengthPrefix {
		return nil, fmt.Errorf("%w: missing length prefix", ErrMalformed)
	}
	n := uint64(binary.LittleEndian.Uint32(p))
	if n > uint64(len(p)-lengthPrefix) {
		return nil, fmt.Errorf("%w: length %d exceeds payload %d", ErrMalformed, n, len(p)-lengthPrefix)
	}
	return p[lengthPrefix : lengthPrefix+int(n)], nil
}

func readShape(p []byte) (Shape, error) {
	raw, err := readBytes(p)
	if err != nil {
		return ShapeNull, err
	}
	var rec *shapeRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return ShapeNull, fmt.Errorf("%w: object shape: %v", ErrMalformed, err)
	}
	if rec == nil {
		return ShapeNull, nil
	}
	switch rec.Kind {
	case "object":
		return ShapeObject, nil
	case "array":
		return ShapeArray, nil
	}
	return ShapeNull, fmt.Errorf("%w: unrecognized object kind %q", ErrMalformed, rec.Kind)
}
