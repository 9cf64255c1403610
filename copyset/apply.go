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

	"github.com/cubefs/metaopcache/metastore"
	"github.com/cubefs/metaopcache/rpcwire"
)

// dispatch is the one switch every apply path funnels through: decode
// has already happened, so this just calls the matching metastore.Store
// method and normalizes its result shape. The request payload is
// opaque here; only GetOrModifyS3ChunkInfo can yield an Iterator.
func dispatch(store metastore.Store, opType metastore.OpType, req []byte) ([]byte, metastore.StatusCode, metastore.Iterator) {
	var resp []byte
	var status metastore.StatusCode
	var it metastore.Iterator

	switch opType {
	case metastore.GetDentry:
		status = store.GetDentry(req, &resp)
	case metastore.ListDentry:
		status = store.ListDentry(req, &resp)
	case metastore.CreateDentry:
		status = store.CreateDentry(req, &resp)
	case metastore.DeleteDentry:
		status = store.DeleteDentry(req, &resp)
	case metastore.GetInode:
		status = store.GetInode(req, &resp)
	case metastore.BatchGetInodeAttr:
		status = store.BatchGetInodeAttr(req, &resp)
	case metastore.BatchGetXAttr:
		status = store.BatchGetXAttr(req, &resp)
	case metastore.CreateInode:
		status = store.CreateInode(req, &resp)
	case metastore.UpdateInode:
		status = store.UpdateInode(req, &resp)
	case metastore.DeleteInode:
		status = store.DeleteInode(req, &resp)
	case metastore.CreateRootInode:
		status = store.CreateRootInode(req, &resp)
	case metastore.CreateManageInode:
		status = store.CreateManageInode(req, &resp)
	case metastore.CreatePartition:
		status = store.CreatePartition(req, &resp)
	case metastore.DeletePartition:
		status = store.DeletePartition(req, &resp)
	case metastore.PrepareRenameTx:
		status = store.PrepareRenameTx(req, &resp)
	case metastore.GetOrModifyS3ChunkInfo:
		status, it = store.GetOrModifyS3ChunkInfo(req, &resp)
	case metastore.GetVolumeExtent:
		status = store.GetVolumeExtent(req, &resp)
	case metastore.UpdateVolumeExtent:
		status = store.UpdateVolumeExtent(req, &resp)
	case metastore.UpdateDeallocatableBlockGroup:
		status = store.UpdateDeallocatableBlockGroup(req, &resp)
	default:
		status = rpcwire.UnknownError
	}
	return resp, status, it
}

// OnApply runs an operator that Propose routed to the ApplyQueue — a
// readonly op under a valid leader lease — directly against op.Store,
// with no raft log entry. It owns firing Done: Propose already
// released op.Guard before handing the task to the queue.
func (op *Operator) OnApply() {
	data, status, it := dispatch(op.Store, op.Type, op.Req.Data)
	op.finish(data, status, it, false)
}

// onProposeDone is raftwrap.Task's Done callback for the raft-propose
// branch: resp is whatever the StateMachine's Apply returned for this
// entry once it committed.
func (op *Operator) onProposeDone(start time.Time, resp interface{}, err error) {
	if err != nil {
		op.Resp.Status = rpcwire.UnknownError
		op.Guard.Run()
		return
	}
	result, ok := resp.(*applyResult)
	if !ok {
		op.Resp.Status = rpcwire.UnknownError
		op.Guard.Run()
		return
	}
	op.finish(result.data, result.status, result.iterator, true)
}

// finish normalizes the response packet, records completion metrics,
// and either fires Done immediately or — for a streaming-capable
// op-type whose dispatch produced an Iterator — defers firing Done
// until the stream tail connection has been accepted.
func (op *Operator) finish(data []byte, status metastore.StatusCode, it metastore.Iterator, fromLog bool) {
	op.Resp.Data = data
	op.Resp.Status = rpcwire.StatusCode(status)
	op.Resp.AppliedIndex = op.Node.GetAppliedIndex()

	elapsed := time.Since(op.start).Microseconds()
	if m := op.Node.GetMetric(); m != nil {
		success := status == 0
		if fromLog {
			m.OnOperatorCompleteFromLog(int(op.Type), elapsed, success)
		} else {
			m.OnOperatorComplete(int(op.Type), elapsed, success)
		}
	}

	if op.Type.StreamingCapable() && it != nil {
		op.runStreamTail(it)
		return
	}
	op.Guard.Run()
}
