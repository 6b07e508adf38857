// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package syncall

import (
	"errors"
	"slices"
	"sync"
)

// Scope collects handles and releases them together, for callers that
// want deterministic release instead of Config.AutoRelease.
//
//	var s syncall.Scope
//	defer s.Close()
//	api, err := s.Track(syncall.Consume("api", ep))
type Scope struct {
	mu      sync.Mutex
	handles []interface{ Release() error }
	closed  bool
}

// Track records the handle held by v, if any, and returns v unchanged.
// It accepts Consume-style results so calls can be wrapped directly;
// a non-nil err is passed through. Values tracked after Close are
// released immediately.
func (s *Scope) Track(v Value, err error) (Value, error) {
	if err != nil {
		return v, err
	}
	var h interface{ Release() error }
	if oh := v.ObjectHandle(); oh != nil {
		h = oh
	} else if fh := v.FunctionHandle(); fh != nil {
		h = fh
	} else {
		return v, nil
	}
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return v, h.Release()
	}
	s.handles = append(s.handles, h)
	s.mu.Unlock()
	return v, nil
}

// Close releases every tracked handle, most recent first.
func (s *Scope) Close() error {
	s.mu.Lock()
	hs := s.handles
	s.handles, s.closed = nil, true
	s.mu.Unlock()

	var errs []error
	for _, h := range slices.Backward(hs) {
		if err := h.Release(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
