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

package diskcache

import "sync"

// syncTask is one queued upload request: the object name and the
// buffer read off disk for it (mirrors disk_cache_write.cpp's
// AsyncUploadEnqueue parameter pair).
type syncTask struct {
	name   string
	buffer []byte
}

// pendingQueue is waitUpload_: a mutex-guarded FIFO of pending
// uploads, plus the condition variable AsyncUploadStop waits on for
// it to drain.
type pendingQueue struct {
	mu    sync.Mutex
	cond  *sync.Cond
	tasks []syncTask
}

func newPendingQueue() *pendingQueue {
	q := &pendingQueue{}
	q.cond = sync.NewCond(&q.mu)
	return q
}

// Push enqueues a task and wakes nothing — only drains wake cond
// (AsyncUploadStop waits for empty, not for a push).
func (q *pendingQueue) Push(t syncTask) {
	q.mu.Lock()
	q.tasks = append(q.tasks, t)
	q.mu.Unlock()
}

// Len reports the current queue depth.
func (q *pendingQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.tasks)
}

// PopAll swaps out the entire queue, GetUploadFile("", &out)'s exact
// semantics in the original: the empty-inode case is a full swap, not
// a filtered drain.
func (q *pendingQueue) PopAll() []syncTask {
	q.mu.Lock()
	out := q.tasks
	q.tasks = nil
	q.mu.Unlock()
	q.cond.Broadcast()
	return out
}

// PopMatchingInode filters out and returns every task belonging to
// inode, leaving the rest queued — GetUploadFile(inode, &out)'s
// remove_if semantics.
func (q *pendingQueue) PopMatchingInode(inode uint64) []syncTask {
	q.mu.Lock()
	var matched []syncTask
	var remaining []syncTask
	for _, t := range q.tasks {
		if ValidNameOfInode(t.name, inode) {
			matched = append(matched, t)
		} else {
			remaining = append(remaining, t)
		}
	}
	q.tasks = remaining
	empty := len(q.tasks) == 0
	q.mu.Unlock()
	if empty {
		q.cond.Broadcast()
	}
	return matched
}

// WaitEmpty blocks until the queue is empty, used by AsyncUploadStop.
func (q *pendingQueue) WaitEmpty() {
	q.mu.Lock()
	for len(q.tasks) != 0 {
		q.cond.Wait()
	}
	q.mu.Unlock()
}
