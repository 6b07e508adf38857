// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package syncall provides blocking remote calls between goroutines over
// shared reply buffers.
//
// One side exposes values by name; the other consumes them and operates
// on them as if they were local. Every operation is a one-way [Action]
// plus a [Buffer] the reply is published in, and the caller's thread
// parks on the buffer's header word until the reply arrives.
//
// # Architecture
//
//   - Transport: [New] creates an [Endpoint] pair joined by bounded lock-free SPSC queues from [code.hybscloud.com/lfq]. Full queues are waited past with [code.hybscloud.com/iox.Backoff].
//   - Rendezvous: the reply tag is published with an atomic store followed by a futex wake; the consumer re-checks the tag after every wake. Without futex support the wait backs off instead.
//   - Codec: a closed set of [Kind]s, each a one-byte tag. Scalars are copied; objects travel as a [Shape] and functions as a bare tag.
//   - References: objects and functions returned to the consumer are cached by the exposer under a key the consumer minted, and stay there until released.
//   - Errors: a failure on the exposing side is carried back as a thrown [*RemoteError] inside a [code.hybscloud.com/kont.Either] and returned at the call site.
//
// # API Topologies
//
//   - Exposing: [Expose], [MustExpose], [Record], [List], [Func].
//   - Consuming: [Consume], [ConsumeObject], [ConsumeFunction], [ObjectHandle], [FunctionHandle].
//   - Lifetime: [Release], [Scope], and [Config.AutoRelease] for garbage-collector driven release.
//   - Codec: [Encode], [Decode], [ValueOf].
//
// # Blocking
//
// A consumer blocks until the exposer replies. [Config.WaitTimeout]
// bounds the wait; without it a hung exposer hangs the caller. Calling a
// remote operation from the handler that serves the peer deadlocks.
//
// # Example
//
//	a, b := syncall.New()
//	release, _ := syncall.Expose("math", syncall.ObjectValue(syncall.NewRecord().
//		Method("add", func(_ syncall.Value, args []syncall.Value) (syncall.Value, error) {
//			return syncall.Number(args[0].Number() + args[1].Number()), nil
//		})), a)
//	defer release()
//
//	math, _ := syncall.ConsumeObject("math", b)
//	sum, _ := math.Call("add", syncall.Number(3), syncall.Number(4)) // 7
package syncall
