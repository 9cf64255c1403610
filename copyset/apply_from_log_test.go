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
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cubefs/metaopcache/metastore"
	"github.com/cubefs/metaopcache/raftwrap"
)

func reqOf(pid, iid uint64, tail string) []byte {
	buf := make([]byte, 16+len(tail))
	binary.LittleEndian.PutUint64(buf[0:8], pid)
	binary.LittleEndian.PutUint64(buf[8:16], iid)
	copy(buf[16:], tail)
	return buf
}

func TestStateMachineApplyDispatchesAndAdvancesAppliedIndex(t *testing.T) {
	store := metastore.NewMemStore()
	node := &fakeNode{isLeader: true}
	sm := NewStateMachine(store, node)

	entry := RaftLogCodec{}.Encode(metastore.CreateInode, reqOf(1, 1, "x"))
	resp, err := sm.Apply(entry, 42)
	require.NoError(t, err)

	result, ok := resp.(*applyResult)
	require.True(t, ok)
	require.Equal(t, metastore.StatusCode(0), result.status)
	require.Equal(t, uint64(42), node.GetAppliedIndex())

	var out []byte
	require.Equal(t, metastore.StatusCode(0), store.GetInode(reqOf(1, 1, ""), &out))
}

func TestStateMachineApplyRejectsMalformedEntry(t *testing.T) {
	store := metastore.NewMemStore()
	node := &fakeNode{isLeader: true}
	sm := NewStateMachine(store, node)

	_, err := sm.Apply([]byte{1, 2}, 1)
	require.Error(t, err)
}

func TestStateMachineHandleLeaderChangeZeroWithUnsetHolderDoesNotPanic(t *testing.T) {
	store := metastore.NewMemStore()
	holder := &raftwrap.NodeHolder{}
	sm := NewStateMachine(store, holder)

	// No real Node is Set on the holder; HandleLeaderChange must not
	// panic when the LeaseDriver type assertion finds nothing wired.
	require.NotPanics(t, func() { sm.HandleLeaderChange(0) })
}
