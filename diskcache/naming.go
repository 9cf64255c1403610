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
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
)

// objNamePrefix is the staging/object naming convention: every cached
// object name embeds its owning inode so ValidNameOfInode can filter
// the pending queue and the staging directory without a side index.
const objNamePrefix = "ino_"

// GenObjName builds a cache object name for inode carrying seq, the
// per-inode monotonically increasing block sequence number.
func GenObjName(inode, seq uint64) string {
	return fmt.Sprintf("%s%d_%d", objNamePrefix, inode, seq)
}

// ValidNameOfInode reports whether name is a cache object belonging
// to inode — the predicate GetUploadFile's filtered drain and
// FileExist's directory scan both apply.
func ValidNameOfInode(name string, inode uint64) bool {
	owner, ok := inodeOf(name)
	return ok && owner == inode
}

// inodeOf extracts the owning inode from a cache object name.
func inodeOf(name string) (uint64, bool) {
	if !strings.HasPrefix(name, objNamePrefix) {
		return 0, false
	}
	rest := strings.TrimPrefix(name, objNamePrefix)
	idx := strings.IndexByte(rest, '_')
	if idx < 0 {
		return 0, false
	}
	inode, err := strconv.ParseUint(rest[:idx], 10, 64)
	if err != nil {
		return 0, false
	}
	return inode, true
}

// GenPathByObjName joins dir and name into the staging file path.
func GenPathByObjName(dir, name string) string {
	return filepath.Join(dir, name)
}
