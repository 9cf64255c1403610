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

package objectstore

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNewS3ClientBuildsFromConfig(t *testing.T) {
	c, err := NewS3Client(S3Config{
		Endpoint: "http://127.0.0.1:9000", Region: "us-east-1",
		AccessKeyID: "id", SecretAccessKey: "secret", Bucket: "cache",
		DisableSSL: true, ForcePathStyle: true,
	})
	require.NoError(t, err)
	require.Equal(t, "cache", c.bucket)
	require.NotNil(t, c.svc)
}

func TestS3ClientUploadAsyncSuccess(t *testing.T) {
	var gotMethod, gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	c, err := NewS3Client(S3Config{
		Endpoint: server.URL, Region: "us-east-1",
		AccessKeyID: "id", SecretAccessKey: "secret", Bucket: "cache",
		DisableSSL: true, ForcePathStyle: true,
	})
	require.NoError(t, err)

	done := make(chan UploadResult, 1)
	c.UploadAsync(UploadContext{Key: "obj-1", Buffer: []byte("payload")}, func(_ UploadContext, res UploadResult) {
		done <- res
	})

	select {
	case res := <-done:
		require.Equal(t, 0, res.RetCode)
		require.Equal(t, 7, res.BufferSize)
	case <-time.After(5 * time.Second):
		t.Fatal("UploadAsync did not invoke callback")
	}

	require.Equal(t, http.MethodPut, gotMethod)
	require.Contains(t, gotPath, "obj-1")
}

func TestS3ClientUploadAsyncFailureSetsNegativeRetCode(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	c, err := NewS3Client(S3Config{
		Endpoint: server.URL, Region: "us-east-1",
		AccessKeyID: "id", SecretAccessKey: "secret", Bucket: "cache",
		DisableSSL: true, ForcePathStyle: true,
	})
	require.NoError(t, err)

	done := make(chan UploadResult, 1)
	c.UploadAsync(UploadContext{Key: "obj-2", Buffer: []byte("x")}, func(_ UploadContext, res UploadResult) {
		done <- res
	})

	select {
	case res := <-done:
		require.Equal(t, -1, res.RetCode)
	case <-time.After(5 * time.Second):
		t.Fatal("UploadAsync did not invoke callback")
	}
}
