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
	"github.com/tiglabs/raft"
	"github.com/tiglabs/raft/proto"

	"github.com/cubefs/metaopcache/metastore"
	"github.com/cubefs/metaopcache/raftwrap"
	"github.com/cubefs/metaopcache/util/log"
)

// applyResult is what StateMachine.Apply returns for a committed
// entry; raftwrap.Task.Done hands it back to onProposeDone unchanged.
// It is not itself logged — only the request payload is (spec.md
// section 4.1.3).
type applyResult struct {
	data     []byte
	status   metastore.StatusCode
	iterator metastore.Iterator
}

// StateMachine is the raft.StateMachine every partition in this
// copyset runs: it decodes each committed log entry with RaftLogCodec
// and dispatches into the same metastore.Store the fast-apply path
// uses, then advances the node's applied-index watermark. It runs on
// every replica, not only the leader — onProposeDone only exists on
// whichever replica happened to be leader when the client proposed.
type StateMachine struct {
	store metastore.Store
	node  raftwrap.Node
}

// NewStateMachine builds the FSM a raft partition applies committed
// entries against.
func NewStateMachine(store metastore.Store, node raftwrap.Node) *StateMachine {
	return &StateMachine{store: store, node: node}
}

// Apply decodes command, dispatches it into the store, advances the
// applied-index watermark, and returns an *applyResult for the
// leader's onProposeDone to unpack.
func (sm *StateMachine) Apply(command []byte, index uint64) (interface{}, error) {
	opType, req, err := RaftLogCodec{}.Decode(command)
	if err != nil {
		return nil, err
	}
	data, status, it := dispatch(sm.store, opType, req)
	sm.node.UpdateAppliedIndex(index)
	return &applyResult{data: data, status: status, iterator: it}, nil
}

// ApplyMemberChange is a no-op: copyset has no membership changes of
// its own to react to beyond what the raft engine already does.
func (sm *StateMachine) ApplyMemberChange(confChange *proto.ConfChange, index uint64) (interface{}, error) {
	sm.node.UpdateAppliedIndex(index)
	return nil, nil
}

// Snapshot is out of scope for this pipeline (spec.md's Non-goals:
// "Snapshot/recovery wire format"); a real deployment would serialize
// sm.store's full state here.
func (sm *StateMachine) Snapshot(recoverNode uint64) (proto.Snapshot, error) {
	return nil, raft.ErrStopped
}

// ApplySnapshot is likewise out of scope; see Snapshot.
func (sm *StateMachine) ApplySnapshot(peers []proto.Peer, iter proto.SnapIterator) error {
	return raft.ErrStopped
}

func (sm *StateMachine) HandleFatalEvent(err *raft.FatalError) {
	log.LogFatalf("copyset: fatal raft event on peer %d: %v", err.ID, err.Err)
}

func (sm *StateMachine) HandleLeaderChange(leader uint64) {
	if driver, ok := sm.node.(raftwrap.LeaseDriver); ok {
		if leader == 0 {
			driver.ResetLease()
		}
	}
}
