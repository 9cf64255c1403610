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
	"time"

	"github.com/cubefs/metaopcache/raftwrap"
)

// Propose is the classification entry point every RPC dispatch calls
// before anything else runs (spec.md section 4.1.2). It decides among
// exactly three outcomes — redirect, fast-apply, or raft-propose.
// OnApply never runs synchronously inside Propose; it runs either off
// an ApplyQueue worker or from the raft apply path.
//
// Callers must call Propose under:
//
//	op := NewOperator(...)
//	defer op.Guard.RunIfArmed()
//	op.Propose()
//
// Only readonly op-types consult the leader lease: a valid lease
// fast-applies, an expired lease redirects, and a lease that is not
// ready or disabled falls through to raft-propose. Every other
// op-type is raft-proposed.
//
// The redirect branch leaves the guard armed, so the deferred call
// fires Done. The fast-apply and raft-propose branches release the
// guard themselves — ownership of firing Done moves to OnApply on the
// ApplyQueue worker, or to onProposeDone once the proposal returns.
func (op *Operator) Propose() error {
	if !op.Node.IsLeaderTerm() {
		op.Redirect()
		return nil
	}

	if !op.CanBypassPropose() {
		return op.raftPropose()
	}

	switch status := op.Node.GetLeaderLeaseStatus(); {
	case op.Node.IsLeaseLeader(status):
		return op.fastApply()
	case op.Node.IsLeaseExpired(status):
		op.Redirect()
		return nil
	default:
		return op.raftPropose()
	}
}

// fastApply hands the operator to the node's ApplyQueue, hashed by
// partition so operators against the same partition never run
// concurrently (invariant 5).
func (op *Operator) fastApply() error {
	op.Guard.Release()
	queue := op.Node.GetApplyQueue()
	queue.Push(op.HashCode(), int(op.Type), func() {
		op.OnApply()
	})
	return nil
}

// raftPropose encodes the request into a raft-log entry and submits
// it; StateMachine.Apply runs once the entry commits, on every
// replica, and the task's Done callback (onProposeDone) fires Done
// here. A submission error fires Done with UnknownError.
func (op *Operator) raftPropose() error {
	op.Guard.Release()
	entry := RaftLogCodec{}.Encode(op.Type, op.Req.Data)
	start := time.Now()
	err := op.Node.Propose(raftwrap.Task{
		Data:         entry,
		ExpectedTerm: op.Node.LeaderTerm(),
		Done: func(resp interface{}, err error) {
			op.onProposeDone(start, resp, err)
		},
	})
	if err != nil {
		op.onProposeDone(start, nil, err)
	}
	return err
}
