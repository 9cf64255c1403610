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
	"github.com/cubefs/metaopcache/metastore"
	"github.com/cubefs/metaopcache/raftwrap"
	"github.com/cubefs/metaopcache/rpcwire"
)

// Pipeline is the single entry point an RPC transport calls into: one
// per copyset (one per partition group's raft node), wrapping the
// node and store every Operator it builds shares.
type Pipeline struct {
	Node  raftwrap.Node
	Store metastore.Store
}

// NewPipeline builds a Pipeline over an already-running raftwrap.Node
// and the metastore.Store it applies committed entries against.
func NewPipeline(node raftwrap.Node, store metastore.Store) *Pipeline {
	return &Pipeline{Node: node, Store: store}
}

// Dispatch classifies and runs one request, invoking done exactly
// once with the filled-in response packet. This is the transport-
// agnostic shape every concrete RPC handler (gRPC, brpc-style raw
// TCP, or the streaming frames themselves) narrows down to.
func (p *Pipeline) Dispatch(opType metastore.OpType, req *rpcwire.Packet, ctrl *rpcwire.Controller, done func(*rpcwire.Packet)) {
	resp := &rpcwire.Packet{
		OpCode:      req.OpCode,
		RequestID:   req.RequestID,
		PartitionID: req.PartitionID,
	}
	op := NewOperator(opType, req, resp, ctrl, p.Node, p.Store, func() {
		done(resp)
	})
	defer op.Guard.RunIfArmed()
	if err := op.Propose(); err != nil {
		op.Resp.Status = rpcwire.UnknownError
	}
}
