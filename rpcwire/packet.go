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

// Package rpcwire carries the thin RPC envelope the operator pipeline
// treats as an external collaborator: a request/response packet, a
// completion closure, and the scoped guard that fires it exactly once.
package rpcwire

import "github.com/google/uuid"

// StatusCode is the wire-visible outcome of an RPC, forwarded verbatim
// from MetaStore-defined codes plus the three pipeline-level codes.
type StatusCode int32

const (
	OK             StatusCode = 0
	UnknownError   StatusCode = 1
	Redirected     StatusCode = 2
	RPCStreamError StatusCode = 3
)

// Packet is the request/response envelope handed to an Operator.
// PartitionID is the HashCode contract: every op-type's HashCode,
// CreatePartition included, reads this field.
type Packet struct {
	OpCode       int32
	RequestID    string
	PartitionID  uint64
	Data         []byte
	Status       StatusCode
	AppliedIndex uint64
}

// NewPacket allocates a request packet with a fresh request ID, the
// way the teacher's own Packet constructors stamp proto.GenerateRequestID().
func NewPacket(opCode int32, partitionID uint64, data []byte) *Packet {
	return &Packet{
		OpCode:      opCode,
		RequestID:   uuid.NewString(),
		PartitionID: partitionID,
		Data:        data,
	}
}
