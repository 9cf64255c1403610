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

// Package raftwrap adapts a raft engine's partition handle into the
// RaftNode contract the operator pipeline consumes, adding a
// leader-lease tracker the engine itself does not expose.
package raftwrap

import (
	"sync"
	"sync/atomic"
	"time"
)

// LeaseStatus mirrors the four lease outcomes a leader-lease read must
// distinguish before deciding whether a fast-apply is safe.
type LeaseStatus int

const (
	LeaseDisabled LeaseStatus = iota
	LeaseNotReady
	LeaseValid
	LeaseExpired
)

func (s LeaseStatus) String() string {
	switch s {
	case LeaseDisabled:
		return "disabled"
	case LeaseNotReady:
		return "not_ready"
	case LeaseValid:
		return "valid"
	case LeaseExpired:
		return "expired"
	default:
		return "unknown"
	}
}

// Task is a single proposal handed to Propose: the encoded raft-log
// payload, a callback fired with the apply outcome, and the term the
// caller observed when it decided to propose (used to detect a term
// change between decision and apply).
type Task struct {
	Data         []byte
	Done         func(resp interface{}, err error)
	ExpectedTerm uint64
}

// MetricSink is the per-node metric collector RaftNode exposes so the
// operator pipeline can record wait/execute/completion latencies
// without depending on a concrete metrics backend.
type MetricSink interface {
	WaitInQueueLatency(opType int, us int64)
	ExecuteLatency(opType int, us int64)
	OnOperatorComplete(opType int, us int64, success bool)
	OnOperatorCompleteFromLog(opType int, us int64, success bool)
}

// ApplyQueue is the narrow view of copyset.ApplyQueue that RaftNode
// exposes to callers that only need to push fast-apply work; the full
// queue type lives in package copyset to avoid an import cycle.
type ApplyQueue interface {
	Push(hash uint64, opType int, task func())
}

// MetaStore is the narrow view of metastore.Store that RaftNode
// exposes; the full contract lives in package metastore.
type MetaStore interface{}

// Partition is the slice of the raft engine's partition handle that a
// Node needs: submit a command to the log, and read this replica's
// leadership and term. The engine itself (log replication, election,
// snapshotting, WAL storage) is an external collaborator per spec
// section 1 — Node depends on this contract only, never on a concrete
// engine package.
type Partition interface {
	Submit(cmd []byte) (resp interface{}, err error)
	IsRaftLeader() bool
	LeaderTerm() (leaderID, term uint64)
}

// Node is the RaftNode contract from spec section 6.1: everything the
// operator pipeline needs from the raft layer to classify, propose,
// and apply an operator.
type Node interface {
	IsLeaderTerm() bool
	LeaderTerm() uint64

	GetLeaderLeaseStatus() LeaseStatus
	IsLeaseLeader(status LeaseStatus) bool
	IsLeaseExpired(status LeaseStatus) bool

	Propose(task Task) error

	GetApplyQueue() ApplyQueue
	GetAppliedIndex() uint64
	UpdateAppliedIndex(index uint64)

	GetMetaStore() MetaStore
	GetMetric() MetricSink
}

// LeaseDriver lets a leadership-change watcher feed confirmations into
// a Node's lease tracker. Node implementations that back the lease
// fields with a real timer (as node does) also implement this.
type LeaseDriver interface {
	ConfirmLeader()
	ResetLease()
}

// leaseConfig controls how long a confirmed leadership observation
// remains usable for lease reads before it must be reconfirmed.
type leaseConfig struct {
	enabled  bool
	duration time.Duration
	minTicks int
}

// node adapts a Partition, tracking leader-lease state locally since
// tiglabs/raft has no native braft-style lease API: every observed
// leadership tick refreshes a local deadline, and reads are only
// trusted while that deadline has not passed.
type node struct {
	partition Partition
	applyQ    ApplyQueue
	store     MetaStore
	metric    MetricSink
	lease     leaseConfig

	mu           sync.Mutex
	appliedIndex uint64
	leaseUntil   time.Time
	confirmTicks int
}

// New wraps a Partition as a Node. leaseDuration of zero disables
// lease reads entirely (every fast-apply falls through to
// Raft-propose, matching spec.md's "disabled" lease outcome).
func New(p Partition, applyQ ApplyQueue, store MetaStore, metric MetricSink, leaseDuration time.Duration) Node {
	return &node{
		partition: p,
		applyQ:    applyQ,
		store:     store,
		metric:    metric,
		lease: leaseConfig{
			enabled:  leaseDuration > 0,
			duration: leaseDuration,
			minTicks: 2,
		},
	}
}

func (n *node) IsLeaderTerm() bool {
	return n.partition.IsRaftLeader()
}

func (n *node) LeaderTerm() uint64 {
	_, term := n.partition.LeaderTerm()
	return term
}

// ConfirmLeader is called by the raft heartbeat/apply path whenever
// this node observes itself as leader; it refreshes the lease
// deadline. Two consecutive confirmations are required before the
// lease is considered "ready" (mirrors braft's warm-up requirement
// that a freshly elected leader cannot serve lease reads immediately).
func (n *node) ConfirmLeader() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.confirmTicks++
	n.leaseUntil = time.Now().Add(n.lease.duration)
}

// ResetLease clears lease state, used on a leadership loss.
func (n *node) ResetLease() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.confirmTicks = 0
	n.leaseUntil = time.Time{}
}

func (n *node) GetLeaderLeaseStatus() LeaseStatus {
	if !n.lease.enabled {
		return LeaseDisabled
	}
	if !n.partition.IsRaftLeader() {
		return LeaseExpired
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.confirmTicks < n.lease.minTicks {
		return LeaseNotReady
	}
	if time.Now().Before(n.leaseUntil) {
		return LeaseValid
	}
	return LeaseExpired
}

func (n *node) IsLeaseLeader(status LeaseStatus) bool {
	return status == LeaseValid
}

func (n *node) IsLeaseExpired(status LeaseStatus) bool {
	return status == LeaseExpired
}

// Propose submits task.Data to the raft log and waits for
// Partition.Submit to return; on success it calls task.Done with the
// applied response before returning. A Submit error (not-leader,
// transport failure) is returned and task.Done is not called.
func (n *node) Propose(task Task) error {
	resp, err := n.partition.Submit(task.Data)
	if err != nil {
		return err
	}
	if task.Done != nil {
		task.Done(resp, nil)
	}
	return nil
}

func (n *node) GetApplyQueue() ApplyQueue {
	return n.applyQ
}

func (n *node) GetAppliedIndex() uint64 {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.appliedIndex
}

// UpdateAppliedIndex enforces the monotonic-max invariant (spec.md §8
// invariant 2): a lower or equal index is silently ignored.
func (n *node) UpdateAppliedIndex(index uint64) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if index > n.appliedIndex {
		n.appliedIndex = index
	}
}

func (n *node) GetMetaStore() MetaStore {
	return n.store
}

func (n *node) GetMetric() MetricSink {
	return n.metric
}

// NodeHolder breaks the construction cycle between a StateMachine
// (which needs a Node to advance the applied-index watermark) and a
// Node (which needs a Partition built from that same StateMachine):
// build a NodeHolder first, hand it to the state
// machine as a Node, create the partition, build the real Node, then
// Set it. Every call before Set is a safe no-op — the only caller that
// could race ahead of Set is a raft log replay during partition
// creation itself, and a dropped index update there is harmless since
// UpdateAppliedIndex is idempotent once the real node is wired in.
type NodeHolder struct {
	v atomic.Value // holds Node
}

func (h *NodeHolder) Set(n Node) {
	h.v.Store(n)
}

func (h *NodeHolder) get() Node {
	n, _ := h.v.Load().(Node)
	return n
}

func (h *NodeHolder) IsLeaderTerm() bool {
	if n := h.get(); n != nil {
		return n.IsLeaderTerm()
	}
	return false
}

func (h *NodeHolder) LeaderTerm() uint64 {
	if n := h.get(); n != nil {
		return n.LeaderTerm()
	}
	return 0
}

func (h *NodeHolder) GetLeaderLeaseStatus() LeaseStatus {
	if n := h.get(); n != nil {
		return n.GetLeaderLeaseStatus()
	}
	return LeaseNotReady
}

func (h *NodeHolder) IsLeaseLeader(status LeaseStatus) bool {
	if n := h.get(); n != nil {
		return n.IsLeaseLeader(status)
	}
	return false
}

func (h *NodeHolder) IsLeaseExpired(status LeaseStatus) bool {
	if n := h.get(); n != nil {
		return n.IsLeaseExpired(status)
	}
	return status == LeaseExpired
}

func (h *NodeHolder) Propose(task Task) error {
	if n := h.get(); n != nil {
		return n.Propose(task)
	}
	return nil
}

func (h *NodeHolder) GetApplyQueue() ApplyQueue {
	if n := h.get(); n != nil {
		return n.GetApplyQueue()
	}
	return nil
}

func (h *NodeHolder) GetAppliedIndex() uint64 {
	if n := h.get(); n != nil {
		return n.GetAppliedIndex()
	}
	return 0
}

func (h *NodeHolder) UpdateAppliedIndex(index uint64) {
	if n := h.get(); n != nil {
		n.UpdateAppliedIndex(index)
	}
}

func (h *NodeHolder) GetMetaStore() MetaStore {
	if n := h.get(); n != nil {
		return n.GetMetaStore()
	}
	return nil
}

func (h *NodeHolder) GetMetric() MetricSink {
	if n := h.get(); n != nil {
		return n.GetMetric()
	}
	return nil
}

// ConfirmLeader and ResetLease make NodeHolder itself a LeaseDriver,
// forwarding to the wrapped node once Set has run so callers that
// only ever see the holder (copyset.StateMachine, built before the
// real node exists) can still drive lease confirmations.
func (h *NodeHolder) ConfirmLeader() {
	if d, ok := h.get().(LeaseDriver); ok {
		d.ConfirmLeader()
	}
}

func (h *NodeHolder) ResetLease() {
	if d, ok := h.get().(LeaseDriver); ok {
		d.ResetLease()
	}
}
