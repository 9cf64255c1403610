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

// Package copyset is the MetaOperator pipeline: classification,
// fast-apply dispatch, raft-propose, and the apply/apply-from-log
// paths that run against a metastore.Store.
package copyset

import (
	"encoding/binary"
	"fmt"

	"github.com/cubefs/metaopcache/metastore"
)

// RaftLogCodec is the only artifact the state machine persists:
// Encode produces a byte buffer beginning with a fixed-size tag
// identifying the op-type, followed by the raw request payload;
// replies are never logged (spec.md section 4.1.3).
type RaftLogCodec struct{}

const tagSize = 4

// Encode writes opType as a 4-byte big-endian tag followed by req.
func (RaftLogCodec) Encode(opType metastore.OpType, req []byte) []byte {
	buf := make([]byte, tagSize+len(req))
	binary.BigEndian.PutUint32(buf[:tagSize], uint32(opType))
	copy(buf[tagSize:], req)
	return buf
}

// Decode splits a logged entry back into its op-type and request
// payload; the returned payload is a fresh copy, not aliased to entry.
func (RaftLogCodec) Decode(entry []byte) (metastore.OpType, []byte, error) {
	if len(entry) < tagSize {
		return 0, nil, fmt.Errorf("copyset: raft log entry too short: %d bytes", len(entry))
	}
	opType := metastore.OpType(binary.BigEndian.Uint32(entry[:tagSize]))
	req := make([]byte, len(entry)-tagSize)
	copy(req, entry[tagSize:])
	return opType, req, nil
}
