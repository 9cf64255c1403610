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

package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/cubefs/metaopcache/raftwrap"
)

func TestNewServeCmdDeclaresConfigFlag(t *testing.T) {
	cmd := newServeCmd()
	require.Equal(t, "serve", cmd.Use)

	flag := cmd.Flags().Lookup("config")
	require.NotNil(t, flag)
	require.Equal(t, "c", flag.Shorthand)
}

// plainNode implements raftwrap.Node but not raftwrap.LeaseDriver, the
// shape runLeaseConfirmer must tolerate by returning immediately.
type plainNode struct{}

func (plainNode) IsLeaderTerm() bool                         { return false }
func (plainNode) LeaderTerm() uint64                          { return 0 }
func (plainNode) GetLeaderLeaseStatus() raftwrap.LeaseStatus  { return raftwrap.LeaseDisabled }
func (plainNode) IsLeaseLeader(raftwrap.LeaseStatus) bool     { return false }
func (plainNode) IsLeaseExpired(raftwrap.LeaseStatus) bool    { return false }
func (plainNode) Propose(raftwrap.Task) error                { return nil }
func (plainNode) GetApplyQueue() raftwrap.ApplyQueue          { return nil }
func (plainNode) GetAppliedIndex() uint64                     { return 0 }
func (plainNode) UpdateAppliedIndex(uint64)                   {}
func (plainNode) GetMetaStore() raftwrap.MetaStore            { return nil }
func (plainNode) GetMetric() raftwrap.MetricSink              { return nil }

func TestRunLeaseConfirmerReturnsWhenNodeIsNotLeaseDriver(t *testing.T) {
	done := make(chan struct{})
	go func() {
		runLeaseConfirmer(nil, plainNode{}, time.Millisecond, make(chan struct{}))
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("runLeaseConfirmer did not return for a non-LeaseDriver node")
	}
}
