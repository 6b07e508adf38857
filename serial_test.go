// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package syncall_test

import (
	"strconv"
	"testing"

	"code.hybscloud.com/syncall"
)

func TestSerialMonotonic(t *testing.T) {
	epA1, _ := syncall.New()
	epA2, _ := syncall.New()
	epA3, _ := syncall.New()

	s1 := epA1.Serial()
	s2 := epA2.Serial()
	s3 := epA3.Serial()

	if s1 >= s2 {
		t.Fatalf("serials not increasing: %d >= %d", s1, s2)
	}
	if s2 >= s3 {
		t.Fatalf("serials not increasing: %d >= %d", s2, s3)
	}
}

func TestEndpointSerial(t *testing.T) {
	epA, epB := syncall.New()

	if epA.Serial() != epB.Serial() {
		t.Fatalf("pair serials differ: %d != %d", epA.Serial(), epB.Serial())
	}
	if got, want := epA.Serial().String(), strconv.FormatUint(uint64(epA.Serial()), 10); got != want {
		t.Fatalf("Serial.String() = %q, want %q", got, want)
	}
	if epA.Peer() != epB || epB.Peer() != epA {
		t.Fatal("Peer does not return the other endpoint")
	}
}
