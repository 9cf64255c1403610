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

package raftwrap

import (
	"fmt"
	"path"
	"strconv"

	"github.com/tiglabs/raft"
	"github.com/tiglabs/raft/proto"
	"github.com/tiglabs/raft/storage/wal"
)

// BootstrapConfig is the minimal set of knobs needed to stand up the
// single-member raft group a copyset's StateMachine runs under. A
// real multi-replica deployment's peer discovery, snapshot transfer
// and log-retention policy are the raft engine's own concern and stay
// out of scope here (spec.md section 1 names the engine itself an
// external collaborator); this only builds enough of it that Propose
// and the applied-index watermark have somewhere real to land.
type BootstrapConfig struct {
	NodeID        uint64
	PartitionID   uint64
	IPAddr        string
	HeartbeatPort int
	ReplicatePort int
	WalDir        string
	SM            raft.StateMachine
}

// selfResolver answers raft's transport address lookups with this
// node's own heartbeat/replicate addresses. A multi-replica deployment
// needs a resolver that can also address every peer; that lookup
// table is the engine's peer-management concern, not this adapter's.
type selfResolver struct {
	nodeID    uint64
	heartbeat string
	replicate string
}

func (r *selfResolver) NodeAddress(nodeID uint64, stype raft.SocketType) (string, error) {
	if nodeID != r.nodeID {
		return "", fmt.Errorf("raftwrap: no address known for node %d", nodeID)
	}
	switch stype {
	case raft.HeartBeat:
		return r.heartbeat, nil
	case raft.Replicate:
		return r.replicate, nil
	default:
		return "", fmt.Errorf("raftwrap: unknown socket type %v", stype)
	}
}

// NewPartition stands up a single-member raft group running cfg.SM
// and returns the Partition handle a Node wraps.
func NewPartition(cfg BootstrapConfig) (Partition, error) {
	heartbeatAddr := fmt.Sprintf("%s:%d", cfg.IPAddr, cfg.HeartbeatPort)
	replicateAddr := fmt.Sprintf("%s:%d", cfg.IPAddr, cfg.ReplicatePort)

	rc := raft.DefaultConfig()
	rc.NodeID = cfg.NodeID
	rc.LeaseCheck = true
	rc.HeartbeatAddr = heartbeatAddr
	rc.ReplicateAddr = replicateAddr
	rc.Resolver = &selfResolver{nodeID: cfg.NodeID, heartbeat: heartbeatAddr, replicate: replicateAddr}

	server, err := raft.NewRaftServer(rc)
	if err != nil {
		return nil, err
	}

	walPath := path.Join(cfg.WalDir, "wal_"+strconv.FormatUint(cfg.PartitionID, 10))
	storage, err := wal.NewStorage(walPath, &wal.Config{})
	if err != nil {
		return nil, err
	}

	if err := server.CreateRaft(&raft.RaftConfig{
		ID:           cfg.PartitionID,
		Peers:        []proto.Peer{{ID: cfg.NodeID}},
		Storage:      storage,
		StateMachine: cfg.SM,
	}); err != nil {
		return nil, err
	}

	return &enginePartition{server: server, id: cfg.PartitionID}, nil
}

// enginePartition is the thin Partition implementation NewPartition
// returns. A Node only ever calls Submit, IsRaftLeader and LeaderTerm
// on it, so that is all it exposes.
type enginePartition struct {
	server *raft.RaftServer
	id     uint64
}

func (p *enginePartition) Submit(cmd []byte) (interface{}, error) {
	if !p.IsRaftLeader() {
		return nil, raft.ErrNotLeader
	}
	future := p.server.Submit(nil, p.id, cmd)
	return future.Response()
}

func (p *enginePartition) IsRaftLeader() bool {
	return p.server.IsLeader(p.id)
}

func (p *enginePartition) LeaderTerm() (leaderID, term uint64) {
	return p.server.LeaderTerm(p.id)
}
