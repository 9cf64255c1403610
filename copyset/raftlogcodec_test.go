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
)

func TestRaftLogCodecRoundTrip(t *testing.T) {
	entry := RaftLogCodec{}.Encode(metastore.CreateInode, []byte("payload"))

	opType, req, err := RaftLogCodec{}.Decode(entry)
	require.NoError(t, err)
	require.Equal(t, metastore.CreateInode, opType)
	require.Equal(t, []byte("payload"), req)
}

func TestRaftLogCodecDecodeRejectsShortEntry(t *testing.T) {
	_, _, err := RaftLogCodec{}.Decode([]byte{0, 1})
	require.Error(t, err)
}

func TestRaftLogCodecDecodeYieldsIndependentSlice(t *testing.T) {
	original := []byte("payload")
	entry := RaftLogCodec{}.Encode(metastore.GetDentry, original)

	_, req, err := RaftLogCodec{}.Decode(entry)
	require.NoError(t, err)

	req[0] = 'X'
	require.Equal(t, byte('p'), entry[tagSize])
}
