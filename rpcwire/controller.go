// Copyright 2024 The CubeFS Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or
// implied. See the License for the specific language governing
// permissions and limitations under the License.

package rpcwire

import (
	"net"
	"sync"
)

// Closure is fired exactly once when an RPC is complete — the Go
// stand-in for brpc's google::protobuf::Closure.
type Closure func()

// Controller carries the per-RPC context an Operator needs beyond its
// request/response packets: cancellation is intentionally absent here
// (spec section 5: the pipeline itself never observes cancellation).
// Conn is the underlying connection the RPC arrived on; a streaming-
// capable op-type's stream tail multiplexes a second stream over this
// same connection rather than opening a new one.
type Controller struct {
	Remote string
	Conn   net.Conn
}

// ClosureGuard fires its Closure at most once, either on Run
// (explicit) or through the deferred RunIfArmed when the guard was
// never released; Release itself never fires it — modeled on
// brpc::ClosureGuard, whose destructor invokes done_ unless
// doneGuard.release() was called.
//
// Go has no destructors, so callers must pair NewClosureGuard with a
// deferred RunIfArmed; Release disarms the deferred call for the
// common case where the closure has already fired via a different
// path (the streaming tails fire Done manually, then release the
// guard so the deferred call is a no-op).
type ClosureGuard struct {
	once    sync.Once
	closure Closure
	armed   bool
}

// NewClosureGuard arms a guard around closure. Pair it with:
//
//	guard := NewClosureGuard(done)
//	defer guard.RunIfArmed()
func NewClosureGuard(closure Closure) *ClosureGuard {
	return &ClosureGuard{closure: closure, armed: true}
}

// Release disarms the guard without running the closure — the caller
// is asserting the closure already ran (or will run) through another
// path.
func (g *ClosureGuard) Release() {
	g.armed = false
}

// RunIfArmed fires the closure if the guard was never released and
// has not already fired. Safe to call multiple times; only the first
// call (while armed) has any effect.
func (g *ClosureGuard) RunIfArmed() {
	if !g.armed {
		return
	}
	g.armed = false
	g.once.Do(func() {
		if g.closure != nil {
			g.closure()
		}
	})
}

// Run fires the closure unconditionally, exactly once, regardless of
// armed state — used by code paths that want to fire Done directly
// (the streaming tails) while still relying on the guard's once
// semantics to prevent a double-fire if RunIfArmed also runs later.
func (g *ClosureGuard) Run() {
	g.armed = false
	g.once.Do(func() {
		if g.closure != nil {
			g.closure()
		}
	})
}
