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

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/cubefs/metaopcache/objectstore"
)

// fakeClient records every upload and always reports success.
type fakeClient struct {
	mu   sync.Mutex
	keys []string
}

func (f *fakeClient) UploadAsync(ctx objectstore.UploadContext, cb objectstore.Callback) {
	f.mu.Lock()
	f.keys = append(f.keys, ctx.Key)
	f.mu.Unlock()
	cb(ctx, objectstore.UploadResult{RetCode: 0, Key: ctx.Key, BufferSize: len(ctx.Buffer)})
}

func (f *fakeClient) uploaded() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.keys...)
}

func TestWriteDiskFileThenAsyncUploadEnqueueDrains(t *testing.T) {
	dir := t.TempDir()
	client := &fakeClient{}
	cache, err := Init(Config{StagingDir: dir, AsyncLoadPeriod: 5 * time.Millisecond}, client)
	require.NoError(t, err)

	name := GenObjName(1, 0)
	require.NoError(t, cache.WriteDiskFile(name, []byte("payload"), true))
	require.NoError(t, cache.AsyncUploadEnqueue(name))
	require.Equal(t, 1, cache.queue.Len())

	cache.AsyncUploadRun()
	defer cache.AsyncUploadStop()

	require.Eventually(t, func() bool {
		return cache.IsCacheClean()
	}, time.Second, 5*time.Millisecond)

	require.Contains(t, client.uploaded(), name)
}

func TestUploadFileByInodeDrainsOnlyMatchingInode(t *testing.T) {
	dir := t.TempDir()
	client := &fakeClient{}
	cache, err := Init(Config{StagingDir: dir, AsyncLoadPeriod: 5 * time.Millisecond}, client)
	require.NoError(t, err)

	a := GenObjName(1, 0)
	b := GenObjName(2, 0)
	require.NoError(t, cache.WriteDiskFile(a, []byte("a"), false))
	require.NoError(t, cache.WriteDiskFile(b, []byte("b"), false))
	require.NoError(t, cache.AsyncUploadEnqueue(a))
	require.NoError(t, cache.AsyncUploadEnqueue(b))

	require.NoError(t, cache.UploadFileByInode(1))

	require.False(t, cache.fileExist(1))
	require.True(t, cache.fileExist(2))
}

func TestUploadAllCacheWriteFileEmptiesStagingDir(t *testing.T) {
	dir := t.TempDir()
	client := &fakeClient{}
	cache, err := Init(Config{StagingDir: dir, AsyncLoadPeriod: 5 * time.Millisecond}, client)
	require.NoError(t, err)

	require.NoError(t, cache.WriteDiskFile(GenObjName(1, 0), []byte("a"), false))
	require.NoError(t, cache.WriteDiskFile(GenObjName(2, 0), []byte("b"), false))

	require.NoError(t, cache.UploadAllCacheWriteFile())
	require.True(t, cache.IsCacheClean())
}
