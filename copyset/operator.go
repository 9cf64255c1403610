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

package copyset

import (
	"context"
	"time"

	"github.com/cubefs/metaopcache/metastore"
	"github.com/cubefs/metaopcache/raftwrap"
	"github.com/cubefs/metaopcache/rpcwire"
)

// Operator is the single record the pipeline carries per RPC: the
// op-type, request/response packets, the controller, and the scoped
// completion closure — modeled as one tagged record with a dispatch
// table rather than per-type generated methods (spec.md section 9,
// "Macro-generated per-type methods").
type Operator struct {
	Type  metastore.OpType
	Req   *rpcwire.Packet
	Resp  *rpcwire.Packet
	Ctrl  *rpcwire.Controller
	Node  raftwrap.Node
	Store metastore.Store

	// Guard owns firing Done exactly once. Callers arm it around the
	// RPC-layer completion closure before calling Propose; Propose
	// releases it on the fast-apply and raft-propose branches, and
	// OnApply or onProposeDone fires it later on whichever goroutine
	// finishes the operator.
	Guard *rpcwire.ClosureGuard

	RequestID string
	Ctx       context.Context

	start time.Time
}

// NewOperator builds an Operator ready for Propose. done is the
// RPC-layer completion closure (write the response, notify the
// transport); it is wrapped in a ClosureGuard so exactly one of
// Propose's branches ends up firing it.
func NewOperator(opType metastore.OpType, req, resp *rpcwire.Packet, ctrl *rpcwire.Controller, node raftwrap.Node, store metastore.Store, done rpcwire.Closure) *Operator {
	return &Operator{
		Type:      opType,
		Req:       req,
		Resp:      resp,
		Ctrl:      ctrl,
		Node:      node,
		Store:     store,
		Guard:     rpcwire.NewClosureGuard(done),
		RequestID: req.RequestID,
		start:     time.Now(),
	}
}

// intToOpType is the narrow conversion applyqueue.go needs to label a
// metric by op-type without importing metastore's OpType constructors
// directly into a hot-path int.
func intToOpType(i int) metastore.OpType {
	return metastore.OpType(i)
}

// HashCode is the request packet's PartitionID (invariant 4) for every
// op-type, CreatePartition included; no partition id nested inside a
// CreatePartition payload is read.
func (op *Operator) HashCode() uint64 {
	return op.Req.PartitionID
}

// GetOperatorType returns the op-type this Operator carries.
func (op *Operator) GetOperatorType() metastore.OpType {
	return op.Type
}

// CanBypassPropose is true exactly for the readonly set (invariant 3).
func (op *Operator) CanBypassPropose() bool {
	return op.Type.Readonly()
}

// Redirect sets the response status to REDIRECTED — the outcome of
// either a failed leader-term check or an expired lease with no
// bypass possible.
func (op *Operator) Redirect() {
	op.Resp.Status = rpcwire.Redirected
}

// OnFailed records a failure outcome without aborting the process —
// the operator layer never aborts; every failure path sets a response
// status and relies on the caller's ClosureGuard to fire Done exactly
// once (spec.md section 7).
func (op *Operator) OnFailed(status metastore.StatusCode) {
	op.Resp.Status = rpcwire.StatusCode(status)
}
