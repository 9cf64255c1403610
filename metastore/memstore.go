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
	"encoding/binary"
	"sync"

	"github.com/cubefs/metaopcache/streaming"
)

// MemStore is an in-memory reference Store, standing in for the
// teacher's rocksdb/btree-backed partitions the way metamock's plain
// maps stand in for the real metanode B-tree during tests. Keys are
// (partitionID, itemID) pairs encoded as a single string; the store
// does not interpret request payloads beyond decoding the fixed
// 8-byte partition id and 8-byte item id header every request carries.
type MemStore struct {
	mu           sync.Mutex
	dentries     map[string][]byte
	inodes       map[string][]byte
	deleted      map[string]bool
	streamServer *streaming.StreamServer
}

// NewMemStore builds an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{
		dentries:     make(map[string][]byte),
		inodes:       make(map[string][]byte),
		deleted:      make(map[string]bool),
		streamServer: streaming.NewStreamServer(),
	}
}

// reqKey reads the fixed 16-byte header (partitionID, itemID) every
// request in this reference store is expected to carry.
func reqKey(req []byte) (string, uint64, uint64) {
	if len(req) < 16 {
		return "", 0, 0
	}
	pid := binary.LittleEndian.Uint64(req[0:8])
	iid := binary.LittleEndian.Uint64(req[8:16])
	return string(req[0:16]), pid, iid
}

func (m *MemStore) GetDentry(req []byte, resp *[]byte) StatusCode {
	m.mu.Lock()
	defer m.mu.Unlock()
	key, _, _ := reqKey(req)
	v, ok := m.dentries[key]
	if !ok {
		return statusCode(1)
	}
	*resp = v
	return statusOK()
}

func (m *MemStore) ListDentry(req []byte, resp *[]byte) StatusCode {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, pid, _ := reqKey(req)
	var out []byte
	for k, v := range m.dentries {
		if len(k) >= 8 && binary.LittleEndian.Uint64([]byte(k)[0:8]) == pid {
			out = append(out, v...)
		}
	}
	*resp = out
	return statusOK()
}

func (m *MemStore) CreateDentry(req []byte, resp *[]byte) StatusCode {
	m.mu.Lock()
	defer m.mu.Unlock()
	key, _, _ := reqKey(req)
	if key == "" {
		return statusCode(1)
	}
	m.dentries[key] = req
	return statusOK()
}

func (m *MemStore) DeleteDentry(req []byte, resp *[]byte) StatusCode {
	m.mu.Lock()
	defer m.mu.Unlock()
	key, _, _ := reqKey(req)
	delete(m.dentries, key)
	return statusOK()
}

func (m *MemStore) GetInode(req []byte, resp *[]byte) StatusCode {
	m.mu.Lock()
	defer m.mu.Unlock()
	key, _, _ := reqKey(req)
	v, ok := m.inodes[key]
	if !ok || m.deleted[key] {
		return statusCode(1)
	}
	*resp = v
	return statusOK()
}

func (m *MemStore) BatchGetInodeAttr(req []byte, resp *[]byte) StatusCode {
	return m.GetInode(req, resp)
}

func (m *MemStore) BatchGetXAttr(req []byte, resp *[]byte) StatusCode {
	m.mu.Lock()
	defer m.mu.Unlock()
	key, _, _ := reqKey(req)
	*resp = m.inodes[key]
	return statusOK()
}

func (m *MemStore) CreateInode(req []byte, resp *[]byte) StatusCode {
	m.mu.Lock()
	defer m.mu.Unlock()
	key, _, _ := reqKey(req)
	if key == "" {
		return statusCode(1)
	}
	m.inodes[key] = req
	delete(m.deleted, key)
	return statusOK()
}

func (m *MemStore) UpdateInode(req []byte, resp *[]byte) StatusCode {
	return m.CreateInode(req, resp)
}

func (m *MemStore) DeleteInode(req []byte, resp *[]byte) StatusCode {
	m.mu.Lock()
	defer m.mu.Unlock()
	key, _, _ := reqKey(req)
	m.deleted[key] = true
	return statusOK()
}

func (m *MemStore) CreateRootInode(req []byte, resp *[]byte) StatusCode {
	return m.CreateInode(req, resp)
}

func (m *MemStore) CreateManageInode(req []byte, resp *[]byte) StatusCode {
	return m.CreateInode(req, resp)
}

func (m *MemStore) CreatePartition(req []byte, resp *[]byte) StatusCode {
	return statusOK()
}

func (m *MemStore) DeletePartition(req []byte, resp *[]byte) StatusCode {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, pid, _ := reqKey(req)
	for k := range m.inodes {
		if len(k) >= 8 && binary.LittleEndian.Uint64([]byte(k)[0:8]) == pid {
			delete(m.inodes, k)
		}
	}
	for k := range m.dentries {
		if len(k) >= 8 && binary.LittleEndian.Uint64([]byte(k)[0:8]) == pid {
			delete(m.dentries, k)
		}
	}
	return statusOK()
}

func (m *MemStore) PrepareRenameTx(req []byte, resp *[]byte) StatusCode {
	return statusOK()
}

// GetOrModifyS3ChunkInfo returns the stored inode payload and an
// iterator over it whenever the inode exists. Request payloads here
// carry no chunk-info-map or streaming flags, so the iterator is not
// withheld for callers that did not ask for streaming.
func (m *MemStore) GetOrModifyS3ChunkInfo(req []byte, resp *[]byte) (StatusCode, Iterator) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key, _, _ := reqKey(req)
	v, ok := m.inodes[key]
	if !ok {
		return statusCode(1), nil
	}
	*resp = v
	return statusOK(), newSliceIterator(v)
}

func (m *MemStore) GetVolumeExtent(req []byte, resp *[]byte) StatusCode {
	m.mu.Lock()
	defer m.mu.Unlock()
	key, _, _ := reqKey(req)
	*resp = m.inodes[key]
	return statusOK()
}

func (m *MemStore) UpdateVolumeExtent(req []byte, resp *[]byte) StatusCode {
	return m.CreateInode(req, resp)
}

func (m *MemStore) UpdateDeallocatableBlockGroup(req []byte, resp *[]byte) StatusCode {
	return statusOK()
}

func (m *MemStore) GetStreamServer() *streaming.StreamServer {
	return m.streamServer
}

func (m *MemStore) SendS3ChunkInfoByStream(conn StreamConn, it Iterator) error {
	for {
		chunk, ok := it.Next()
		if !ok {
			return nil
		}
		if _, err := conn.Write(chunk); err != nil {
			return err
		}
	}
}

// sliceIterator chunks a byte slice into fixed-size frames, a minimal
// Iterator suitable for tests exercising the streaming tail.
type sliceIterator struct {
	data []byte
	pos  int
}

func newSliceIterator(data []byte) *sliceIterator {
	return &sliceIterator{data: data}
}

func (it *sliceIterator) Next() ([]byte, bool) {
	const frame = 4096
	if it.pos >= len(it.data) {
		return nil, false
	}
	end := it.pos + frame
	if end > len(it.data) {
		end = len(it.data)
	}
	chunk := it.data[it.pos:end]
	it.pos = end
	return chunk, true
}

func statusOK() StatusCode     { return 0 }
func statusCode(c int) StatusCode { return StatusCode(c) }
