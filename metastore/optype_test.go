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

package metastore

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestOpTypeReadonlyMembership(t *testing.T) {
	readonly := []OpType{GetDentry, ListDentry, GetInode, BatchGetInodeAttr, BatchGetXAttr, GetVolumeExtent}
	for _, op := range readonly {
		require.Truef(t, op.Readonly(), "%s should be readonly", op)
	}

	notReadonly := []OpType{CreateDentry, DeleteDentry, CreateInode, UpdateInode, DeleteInode, CreatePartition}
	for _, op := range notReadonly {
		require.Falsef(t, op.Readonly(), "%s should not be readonly", op)
	}
}

func TestOpTypeStreamingCapableMembership(t *testing.T) {
	require.True(t, GetOrModifyS3ChunkInfo.StreamingCapable())
	require.True(t, GetVolumeExtent.StreamingCapable())
	require.False(t, GetDentry.StreamingCapable())
	require.False(t, CreateInode.StreamingCapable())
}

func TestOpTypeStringUnknownOutOfRange(t *testing.T) {
	require.Equal(t, "GetDentry", GetDentry.String())
	require.Equal(t, "Unknown", OpType(-1).String())
	require.Equal(t, "Unknown", OpType(numOpTypes).String())
}
