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

// Package objectstore is the ObjectClient contract (spec section 6.4)
// the write-back disk cache uploads staged files through.
package objectstore

import "time"

// UploadContext is the unit of work handed to UploadAsync: a key, its
// buffer, and its object type; the Callback that receives the outcome
// is passed to UploadAsync alongside it. The buffer is
// owned by the caller until the callback reports retCode >= 0 — on a
// negative retCode the same context is expected to be resubmitted by
// the caller, not freed (spec.md's "freed only after a success
// callback" invariant, invariant 9).
type UploadContext struct {
	Key    string
	Buffer []byte
	Type   ObjectType

	submittedAt time.Time
}

// ObjectType distinguishes staged write-back objects from any other
// kind of object this client might eventually carry.
type ObjectType int

const (
	WriteBackObject ObjectType = iota
)

// UploadResult is delivered to a context's callback.
type UploadResult struct {
	RetCode    int
	Key        string
	BufferSize int
	Elapsed    time.Duration
}

// Callback observes the outcome of one UploadAsync call.
type Callback func(UploadContext, UploadResult)

// Client is the ObjectClient contract: fire-and-observe asynchronous
// uploads, with retry-by-resubmission left to the caller (the disk
// cache resubmits on RetCode < 0, per spec.md section 4.2.4).
type Client interface {
	UploadAsync(ctx UploadContext, cb Callback)
}
