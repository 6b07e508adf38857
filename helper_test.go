// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package syncall_test

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"

	"code.hybscloud.com/syncall"
)

// newPair returns a connected pair that is closed when tb ends.
func newPair(tb testing.TB, opts ...syncall.Option) (*syncall.Endpoint, *syncall.Endpoint) {
	tb.Helper()
	a, b := syncall.New(opts...)
	tb.Cleanup(func() { a.Close() })
	return a, b
}

// expose exposes v on ep and releases it when tb ends.
func expose(tb testing.TB, name string, v syncall.Value, ep *syncall.Endpoint) func() {
	tb.Helper()
	release, err := syncall.Expose(name, v, ep)
	if err != nil {
		tb.Fatalf("Expose(%q): %v", name, err)
	}
	tb.Cleanup(release)
	return release
}

func add(_ syncall.Value, args []syncall.Value) (syncall.Value, error) {
	var sum float64
	for _, a := range args {
		sum += a.Number()
	}
	return syncall.Number(sum), nil
}

// fixture is the object most round-trip tests operate on:
//
//	{a: 1, nested: {add}, add, fail, getA, isNested}
func fixture() (syncall.Value, *syncall.Record) {
	nested := syncall.NewRecord().Method("add", add)
	root := syncall.NewRecord().
		Define("a", syncall.Number(1)).
		Define("nested", syncall.ObjectValue(nested)).
		Method("add", add).
		Method("fail", func(syncall.Value, []syncall.Value) (syncall.Value, error) {
			return syncall.Undefined(), syncall.NewError("RangeError", "value out of range")
		}).
		Method("getA", func(this syncall.Value, _ []syncall.Value) (syncall.Value, error) {
			if this.Object() == nil {
				return syncall.Undefined(), syncall.NewError("TypeError", "no calling context")
			}
			return this.Object().Get("a")
		}).
		Method("isNested", func(_ syncall.Value, args []syncall.Value) (syncall.Value, error) {
			return syncall.Bool(len(args) == 1 && args[0].Object() == syncall.Object(nested)), nil
		})
	return syncall.ObjectValue(root), nested
}

// metricValue returns the value of the first sample of the named family
// whose labels include want. It fails tb when no sample matches.
func metricValue(tb testing.TB, g prometheus.Gatherer, name string, want map[string]string) float64 {
	tb.Helper()
	families, err := g.Gather()
	if err != nil {
		tb.Fatalf("Gather: %v", err)
	}
	for _, f := range families {
		if f.GetName() != name {
			continue
		}
	next:
		for _, m := range f.GetMetric() {
			labels := make(map[string]string, len(m.GetLabel()))
			for _, l := range m.GetLabel() {
				labels[l.GetName()] = l.GetValue()
			}
			for k, v := range want {
				if labels[k] != v {
					continue next
				}
			}
			switch {
			case m.GetCounter() != nil:
				return m.GetCounter().GetValue()
			case m.GetGauge() != nil:
				return m.GetGauge().GetValue()
			case m.GetHistogram() != nil:
				return float64(m.GetHistogram().GetSampleCount())
			}
		}
	}
	tb.Fatalf("no sample of %s with labels %v", name, want)
	return 0
}
