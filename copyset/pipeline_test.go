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
	"time"

	"github.com/stretchr/testify/require"

	"github.com/cubefs/metaopcache/metastore"
	"github.com/cubefs/metaopcache/raftwrap"
	"github.com/cubefs/metaopcache/rpcwire"
)

func TestPipelineDispatchRedirectsWhenNotLeader(t *testing.T) {
	node := &fakeNode{isLeader: false}
	store := metastore.NewMemStore()
	p := NewPipeline(node, store)

	req := rpcwire.NewPacket(int32(metastore.GetDentry), 1, []byte{})
	done := make(chan *rpcwire.Packet, 1)
	p.Dispatch(metastore.GetDentry, req, &rpcwire.Controller{}, func(resp *rpcwire.Packet) { done <- resp })

	select {
	case resp := <-done:
		require.Equal(t, rpcwire.Redirected, resp.Status)
	case <-time.After(time.Second):
		t.Fatal("Dispatch never fired Done")
	}
}

func TestPipelineDispatchFastAppliesReadonlyOp(t *testing.T) {
	node := &fakeNode{isLeader: true, leaseStatus: raftwrap.LeaseValid, queue: NewApplyQueue(1, 4)}
	store := metastore.NewMemStore()
	p := NewPipeline(node, store)

	req := rpcwire.NewPacket(int32(metastore.GetDentry), 1, reqOf(1, 1, ""))
	done := make(chan *rpcwire.Packet, 1)
	p.Dispatch(metastore.GetDentry, req, &rpcwire.Controller{}, func(resp *rpcwire.Packet) { done <- resp })

	select {
	case resp := <-done:
		require.NotNil(t, resp)
	case <-time.After(time.Second):
		t.Fatal("Dispatch never fired Done")
	}
}
