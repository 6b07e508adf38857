// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package syncall

import (
	"encoding/json"
	"errors"
	"fmt"
	"runtime/debug"

	"code.hybscloud.com/kont"
)

// Protocol errors. They are returned to the caller of the operation
// that hit them and never cross the boundary.
var (
	ErrUnsupportedType = errors.New("syncall: unsupported data type")
	ErrUnsupportedTag  = errors.New("syncall: unsupported data type tag")
	ErrEmptyBuffer     = errors.New("syncall: cannot read from an empty buffer")
	ErrMalformed       = errors.New("syncall: malformed payload")
	ErrBufferOverflow  = errors.New("syncall: payload exceeds buffer capacity")
	ErrAlreadyExposed  = errors.New("syncall: name already exposed")
	ErrListening       = errors.New("syncall: endpoint already has a message handler")
	ErrClosed          = errors.New("syncall: endpoint closed")
	ErrTimeout         = errors.New("syncall: timed out waiting for reply")
	ErrNotObject       = errors.New("syncall: value is not an object")
	ErrNotFunction     = errors.New("syncall: value is not a function")
)

// Application errors raised on the exposing side. Match them with
// errors.Is; the comparison uses Code, so detail in Message is free.
var (
	ErrNotExposed = &RemoteError{
		Name:    "ReferenceError",
		Code:    "ERR_NOT_EXPOSED",
		Message: "no value exposed with that name",
	}
	ErrMissingTarget = &RemoteError{
		Name:    "ReferenceError",
		Code:    "ERR_MISSING_TARGET",
		Message: "remote target is undefined",
	}
	ErrEndpointClosed = &RemoteError{
		Name:    "Error",
		Code:    "ERR_ENDPOINT_CLOSED",
		Message: "endpoint closed before the action was dispatched",
	}
)

// maxCauseDepth bounds cause chains so a cyclic Unwrap cannot loop.
const maxCauseDepth = 32

// RemoteError is the structured form of an error that crosses the
// boundary, either as an Error value or as a thrown failure.
type RemoteError struct {
	Name    string       `json:"name"`
	Message string       `json:"message"`
	Code    string       `json:"code,omitempty"`
	Stack   string       `json:"stack,omitempty"`
	Cause   *RemoteError `json:"cause,omitempty"`
}

// NewError returns a RemoteError with the given name and message.
// Exposed functions return one to raise a typed error on the consumer.
func NewError(name, message string) *RemoteError {
	return &RemoteError{Name: name, Message: message}
}

func (e *RemoteError) Error() string {
	if e.Name == "" {
		return e.Message
	}
	return e.Name + ": " + e.Message
}

func (e *RemoteError) Unwrap() error {
	if e.Cause == nil {
		return nil
	}
	return e.Cause
}

// Is matches by Code when target carries one, else by Name and Message.
func (e *RemoteError) Is(target error) bool {
	t, ok := target.(*RemoteError)
	if !ok {
		return false
	}
	if t.Code != "" {
		return e.Code == t.Code
	}
	return e.Name == t.Name && e.Message == t.Message
}

// with returns a copy of e whose message carries detail.
func (e *RemoteError) with(detail string) *RemoteError {
	c := *e
	c.Message = e.Message + ": " + detail
	return &c
}

// typeError is the failure for an operation applied to the wrong kind.
func typeError(format string, args ...any) *RemoteError {
	return &RemoteError{Name: "TypeError", Message: fmt.Sprintf(format, args...)}
}

// errorName is implemented by errors that carry their own class name.
type errorName interface {
	ErrorName() string
}

// toRemoteError converts err and its Unwrap chain to a RemoteError.
func toRemoteError(err error) *RemoteError {
	return toRemoteErrorDepth(err, 0)
}

func toRemoteErrorDepth(err error, depth int) *RemoteError {
	if err == nil {
		return nil
	}
	if re, ok := err.(*RemoteError); ok {
		return re
	}
	re := &RemoteError{Name: "Error", Message: err.Error()}
	if n, ok := err.(errorName); ok {
		re.Name = n.ErrorName()
	}
	if depth < maxCauseDepth {
		re.Cause = toRemoteErrorDepth(errors.Unwrap(err), depth+1)
	}
	return re
}

// panicError converts a recovered panic value, keeping the stack.
func panicError(r any) *RemoteError {
	var re *RemoteError
	if err, ok := r.(error); ok {
		c := *toRemoteError(err)
		re = &c
	} else {
		re = &RemoteError{Name: "Error", Message: fmt.Sprint(r)}
	}
	re.Stack = string(debug.Stack())
	return re
}

func marshalError(e *RemoteError) ([]byte, error) {
	return json.Marshal(e)
}

func unmarshalError(data []byte) (*RemoteError, error) {
	var e RemoteError
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, fmt.Errorf("%w: error record: %v", ErrMalformed, err)
	}
	return &e, nil
}

// Result is the outcome of one remote action: Right holds the produced
// value, Left holds the error thrown while producing it.
type Result = kont.Either[*RemoteError, Value]

func succeed(v Value) Result {
	return kont.Right[*RemoteError, Value](v)
}

func throw(err error) Result {
	return kont.Left[*RemoteError, Value](toRemoteError(err))
}
