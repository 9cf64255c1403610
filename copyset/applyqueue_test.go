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
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/cubefs/metaopcache/metastore"
)

func TestApplyQueueRunsTasksSharingHashInFIFOOrder(t *testing.T) {
	q := NewApplyQueue(4, 8)

	var mu sync.Mutex
	var order []int
	var wg sync.WaitGroup
	wg.Add(5)

	for i := 0; i < 5; i++ {
		i := i
		q.Push(7, int(metastore.GetDentry), func() {
			mu.Lock()
			order = append(order, i)
			mu.Unlock()
			wg.Done()
		})
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("tasks did not complete")
	}

	require.Equal(t, []int{0, 1, 2, 3, 4}, order)
}

func TestApplyQueueDistinctHashesRunOnDifferentBuckets(t *testing.T) {
	q := NewApplyQueue(4, 8)

	done := make(chan uint64, 2)
	q.Push(1, int(metastore.GetDentry), func() { done <- 1 })
	q.Push(2, int(metastore.GetDentry), func() { done <- 2 })

	seen := map[uint64]bool{}
	for i := 0; i < 2; i++ {
		select {
		case h := <-done:
			seen[h] = true
		case <-time.After(time.Second):
			t.Fatal("task did not run")
		}
	}
	require.True(t, seen[1])
	require.True(t, seen[2])
}
