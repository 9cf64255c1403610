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

// Package metastore is the MetaStore contract (spec section 6.2): one
// typed method per operator type, each returning a status code the
// operator pipeline forwards to the RPC response verbatim.
package metastore

import (
	"github.com/cubefs/metaopcache/rpcwire"
	"github.com/cubefs/metaopcache/streaming"
)

// StatusCode is a MetaStore-defined outcome, forwarded verbatim into
// rpcwire.Packet.Status by the operator pipeline.
type StatusCode = rpcwire.StatusCode

// Iterator drains a GetOrModifyS3ChunkInfo result across the stream
// tail after the RPC headers have already been sent.
type Iterator interface {
	Next() (chunk []byte, ok bool)
}

// StreamConn is the accepted stream connection MetaStore writes tail
// frames to — streaming.Connection's Write/Close, without committing
// this contract to the rest of net.Conn.
type StreamConn interface {
	Write(p []byte) (int, error)
	Close() error
}

// Store is the MetaStore contract: one method per op-type from
// spec.md section 3, "op_type ∈ {...}". Every method takes an opaque
// request payload and an opaque response buffer to fill, mirroring
// the C++ signature "(const Request*, Response*) → MetaStatusCode"
// without committing this contract to a concrete schema (out of scope
// per spec.md's Non-goals).
type Store interface {
	GetDentry(req []byte, resp *[]byte) StatusCode
	ListDentry(req []byte, resp *[]byte) StatusCode
	CreateDentry(req []byte, resp *[]byte) StatusCode
	DeleteDentry(req []byte, resp *[]byte) StatusCode

	GetInode(req []byte, resp *[]byte) StatusCode
	BatchGetInodeAttr(req []byte, resp *[]byte) StatusCode
	BatchGetXAttr(req []byte, resp *[]byte) StatusCode
	CreateInode(req []byte, resp *[]byte) StatusCode
	UpdateInode(req []byte, resp *[]byte) StatusCode
	DeleteInode(req []byte, resp *[]byte) StatusCode
	CreateRootInode(req []byte, resp *[]byte) StatusCode
	CreateManageInode(req []byte, resp *[]byte) StatusCode

	CreatePartition(req []byte, resp *[]byte) StatusCode
	DeletePartition(req []byte, resp *[]byte) StatusCode

	PrepareRenameTx(req []byte, resp *[]byte) StatusCode

	// GetOrModifyS3ChunkInfo additionally yields an Iterator when the
	// caller both requested the chunk-info map and supports streaming;
	// it is nil whenever streaming does not apply.
	GetOrModifyS3ChunkInfo(req []byte, resp *[]byte) (StatusCode, Iterator)

	GetVolumeExtent(req []byte, resp *[]byte) StatusCode
	UpdateVolumeExtent(req []byte, resp *[]byte) StatusCode

	UpdateDeallocatableBlockGroup(req []byte, resp *[]byte) StatusCode

	// GetStreamServer returns the stream server used to accept the
	// tail connection for streaming-capable operators.
	GetStreamServer() *streaming.StreamServer

	// SendS3ChunkInfoByStream drains it over conn after Done has
	// already fired the RPC response headers.
	SendS3ChunkInfoByStream(conn StreamConn, it Iterator) error
}

// PartitionIDFunc extracts the HashCode field for a given op-type from
// its raw request payload. CreatePartition reads a nested field (per
// spec.md 4.1.9); every other op-type's payload begins with an 8-byte
// little-endian partition id, the layout MemStore's reqKey reads.
type PartitionIDFunc func(opType OpType, req []byte) (uint64, bool)
