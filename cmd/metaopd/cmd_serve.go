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
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/cubefs/metaopcache/copyset"
	"github.com/cubefs/metaopcache/diskcache"
	"github.com/cubefs/metaopcache/metastore"
	"github.com/cubefs/metaopcache/objectstore"
	"github.com/cubefs/metaopcache/raftwrap"
	"github.com/cubefs/metaopcache/util/config"
	"github.com/cubefs/metaopcache/util/log"
)

func newServeCmd() *cobra.Command {
	var configFile string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "start a metaopd process against a copyset",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(configFile)
		},
	}
	cmd.Flags().StringVarP(&configFile, "config", "c", "", "path to the metaopd JSON config file")
	return cmd
}

func runServe(configFile string) error {
	cfg, err := config.LoadConfigFile(configFile)
	if err != nil {
		return err
	}

	if _, err := log.NewLog(cfg.GetString("log_dir"), "metaopd", log.InfoLevel); err != nil {
		return err
	}

	store := metastore.NewMemStore()

	s3, err := objectstore.NewS3Client(objectstore.S3Config{
		Endpoint:        cfg.GetString("s3_endpoint"),
		Region:          cfg.GetString("s3_region"),
		AccessKeyID:     cfg.GetString("s3_access_key_id"),
		SecretAccessKey: cfg.GetString("s3_secret_access_key"),
		Bucket:          cfg.GetString("s3_bucket"),
		DisableSSL:      cfg.GetBool("s3_disable_ssl"),
		ForcePathStyle:  true,
	})
	if err != nil {
		return err
	}

	diskCfg := diskcache.Config{
		StagingDir:      cfg.GetString("cache_staging_dir"),
		AsyncLoadPeriod: time.Duration(cfg.GetInt64("cache_async_load_period_ms")) * time.Millisecond,
	}
	cache, err := diskcache.Init(diskCfg, s3)
	if err != nil {
		return err
	}
	cache.AsyncUploadRun()
	defer cache.AsyncUploadStop()

	leaseDuration := time.Duration(cfg.GetInt64("leader_lease_ms")) * time.Millisecond

	// node wraps the partition before NewPartition exists so the state
	// machine built below can close over it; Propose cannot be called
	// until after NewPartition returns.
	nodeHolder := &raftwrap.NodeHolder{}
	sm := copyset.NewStateMachine(store, nodeHolder)

	partition, err := raftwrap.NewPartition(raftwrap.BootstrapConfig{
		NodeID:        uint64(cfg.GetInt64("node_id")),
		PartitionID:   uint64(cfg.GetInt64("partition_id")),
		IPAddr:        cfg.GetString("ip_addr"),
		HeartbeatPort: int(cfg.GetInt64("heartbeat_port")),
		ReplicatePort: int(cfg.GetInt64("replicate_port")),
		WalDir:        cfg.GetString("raft_wal_dir"),
		SM:            sm,
	})
	if err != nil {
		return err
	}

	applyQ := copyset.NewApplyQueue(int(cfg.GetInt64("apply_queue_shards")), 1024)
	node := raftwrap.New(partition, applyQ, store, nil, leaseDuration)
	nodeHolder.Set(node)

	// Nothing in tiglabs/raft itself confirms a lease; do it here, the
	// same warm-up-by-repeated-heartbeat shape braft's leader lease
	// uses, just driven from this process instead of the raft core.
	leaseStop := make(chan struct{})
	if leaseDuration > 0 {
		go runLeaseConfirmer(partition, node, leaseDuration, leaseStop)
	}
	defer close(leaseStop)

	// pipeline.Dispatch is the call a concrete RPC transport makes per
	// request; wiring that transport is out of scope here (spec.md's
	// Non-goals: "concrete wire protocol / transport binding").
	pipeline := copyset.NewPipeline(node, store)

	log.LogInfof("metaopd: serving partition %d on node %d, pipeline ready", cfg.GetInt64("partition_id"), cfg.GetInt64("node_id"))
	_ = pipeline.Dispatch

	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGTERM, syscall.SIGINT)
	sig := <-ch
	log.LogInfof("metaopd: received signal %s, shutting down", sig.String())
	return nil
}

// runLeaseConfirmer ticks at a quarter of the lease duration, calling
// ConfirmLeader whenever this replica currently holds raft leadership
// and ResetLease the moment it doesn't — giving GetLeaderLeaseStatus
// something real to read instead of sitting permanently NotReady.
func runLeaseConfirmer(partition raftwrap.Partition, node raftwrap.Node, leaseDuration time.Duration, stop <-chan struct{}) {
	driver, ok := node.(raftwrap.LeaseDriver)
	if !ok {
		return
	}
	tick := leaseDuration / 4
	if tick <= 0 {
		tick = time.Millisecond
	}
	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			if partition.IsRaftLeader() {
				driver.ConfirmLeader()
			} else {
				driver.ResetLease()
			}
		}
	}
}
