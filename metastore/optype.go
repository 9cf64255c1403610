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

// OpType is the operator taxonomy from spec.md section 3.1, one
// member per MetaStore method.
type OpType int32

const (
	GetDentry OpType = iota
	ListDentry
	CreateDentry
	DeleteDentry
	GetInode
	BatchGetInodeAttr
	BatchGetXAttr
	CreateInode
	UpdateInode
	GetOrModifyS3ChunkInfo
	DeleteInode
	CreateRootInode
	CreateManageInode
	CreatePartition
	DeletePartition
	PrepareRenameTx
	GetVolumeExtent
	UpdateVolumeExtent
	UpdateDeallocatableBlockGroup

	numOpTypes
)

var opTypeNames = [numOpTypes]string{
	"GetDentry", "ListDentry", "CreateDentry", "DeleteDentry",
	"GetInode", "BatchGetInodeAttr", "BatchGetXAttr", "CreateInode",
	"UpdateInode", "GetOrModifyS3ChunkInfo", "DeleteInode",
	"CreateRootInode", "CreateManageInode", "CreatePartition",
	"DeletePartition", "PrepareRenameTx", "GetVolumeExtent",
	"UpdateVolumeExtent", "UpdateDeallocatableBlockGroup",
}

func (t OpType) String() string {
	if t < 0 || int(t) >= len(opTypeNames) {
		return "Unknown"
	}
	return opTypeNames[t]
}

// readonlySet is CanBypassPropose's exact membership (spec.md section
// 4.1.2): {GetDentry, ListDentry, GetInode, BatchGetInodeAttr,
// BatchGetXAttr, GetVolumeExtent}.
var readonlySet = map[OpType]bool{
	GetDentry:         true,
	ListDentry:        true,
	GetInode:          true,
	BatchGetInodeAttr: true,
	BatchGetXAttr:     true,
	GetVolumeExtent:   true,
}

// Readonly reports whether t is in the readonly/bypassable set.
func (t OpType) Readonly() bool {
	return readonlySet[t]
}

// streamingSet is the streaming_capable flag's membership (spec.md
// section 3.1): GetOrModifyS3ChunkInfo and GetVolumeExtent.
var streamingSet = map[OpType]bool{
	GetOrModifyS3ChunkInfo: true,
	GetVolumeExtent:        true,
}

// StreamingCapable reports whether t may drive a stream tail.
func (t OpType) StreamingCapable() bool {
	return streamingSet[t]
}
