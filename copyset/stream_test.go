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
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cubefs/metaopcache/metastore"
	"github.com/cubefs/metaopcache/rpcwire"
	"github.com/cubefs/metaopcache/streaming"
)

// noStreamStore wraps MemStore but reports no stream server available,
// exercising runStreamTail's fallback when a deployment has not wired
// up stream transport at all.
type noStreamStore struct {
	*metastore.MemStore
}

func (noStreamStore) GetStreamServer() *streaming.StreamServer { return nil }

func TestRunStreamTailFallsBackToGuardRunWhenNoServer(t *testing.T) {
	store := noStreamStore{metastore.NewMemStore()}
	node := &fakeNode{isLeader: true}

	fired := false
	op := NewOperator(metastore.GetOrModifyS3ChunkInfo,
		rpcwire.NewPacket(int32(metastore.GetOrModifyS3ChunkInfo), 1, []byte{}),
		&rpcwire.Packet{}, &rpcwire.Controller{}, node, store, func() { fired = true })

	op.runStreamTail(nil)
	require.True(t, fired)
}
