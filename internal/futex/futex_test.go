// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package futex_test

import (
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"code.hybscloud.com/syncall/internal/futex"
)

func TestWaitValueMismatch(t *testing.T) {
	if !futex.Supported {
		t.Skip("futex not supported")
	}
	var word uint32 = 7
	if err := futex.Wait(&word, 0, 0); err != nil {
		t.Fatalf("Wait on mismatched value: %v", err)
	}
}

func TestWakeNoWaiters(t *testing.T) {
	if !futex.Supported {
		t.Skip("futex not supported")
	}
	var word uint32
	n, err := futex.Wake(&word, 1)
	if err != nil {
		t.Fatalf("Wake: %v", err)
	}
	if n != 0 {
		t.Fatalf("Wake woke %d, want 0", n)
	}
}

func TestWaitWake(t *testing.T) {
	if !futex.Supported {
		t.Skip("futex not supported")
	}
	var word uint32
	done := make(chan struct{})
	go func() {
		defer close(done)
		for atomic.LoadUint32(&word) == 0 {
			if err := futex.Wait(&word, 0, 0); err != nil {
				t.Errorf("Wait: %v", err)
				return
			}
		}
	}()

	time.Sleep(10 * time.Millisecond)
	atomic.StoreUint32(&word, 1)
	if _, err := futex.Wake(&word, 1); err != nil {
		t.Fatalf("Wake: %v", err)
	}

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("waiter did not return after wake")
	}
}

func TestWaitTimeout(t *testing.T) {
	if !futex.Supported {
		t.Skip("futex not supported")
	}
	var word uint32
	start := time.Now()
	var err error
	// EINTR surfaces as an early nil return; retry until the timeout is reported.
	for range 100 {
		if err = futex.Wait(&word, 0, 20*time.Millisecond); err != nil {
			break
		}
	}
	if !errors.Is(err, futex.ErrTimeout) {
		t.Fatalf("Wait err = %v, want ErrTimeout", err)
	}
	if elapsed := time.Since(start); elapsed < 10*time.Millisecond {
		t.Fatalf("Wait returned after %v, expected to block", elapsed)
	}
}

func TestUnsupportedPlatform(t *testing.T) {
	if futex.Supported {
		t.Skip("futex supported")
	}
	var word uint32
	if err := futex.Wait(&word, 0, 0); !errors.Is(err, futex.ErrUnsupported) {
		t.Fatalf("Wait err = %v, want ErrUnsupported", err)
	}
	if _, err := futex.Wake(&word, 1); !errors.Is(err, futex.ErrUnsupported) {
		t.Fatalf("Wake err = %v, want ErrUnsupported", err)
	}
}
