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

package cachekv

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLRUAddContainsRemove(t *testing.T) {
	l, err := New(2)
	require.NoError(t, err)

	l.Add("a")
	l.Add("b")
	require.True(t, l.Contains("a"))
	require.Equal(t, 2, l.Len())

	l.Remove("a")
	require.False(t, l.Contains("a"))
	require.Equal(t, 1, l.Len())
}

func TestLRUEvictsOldestOnOverflow(t *testing.T) {
	l, err := New(1)
	require.NoError(t, err)

	l.Add("a")
	l.Add("b")
	require.False(t, l.Contains("a"))
	require.True(t, l.Contains("b"))
}
