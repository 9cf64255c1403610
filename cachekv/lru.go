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

// Package cachekv holds the LRU-ordered set of cached object names the
// write-back disk cache uses to remember which staged objects have
// already been durably uploaded and removed locally.
package cachekv

import lru "github.com/hashicorp/golang-lru"

// LRU is an LRU-ordered set of object names. golang-lru evicts the
// least-recently-used entry once Cap is reached; "move to back" (the
// semantics disk_cache_write.cpp's RemoveFile calls for) is exactly
// golang-lru's most-recently-used promotion on Add, so Add doubles as
// both insert and promote.
type LRU struct {
	cache *lru.Cache
}

// New builds an LRU capped at cap entries. golang-lru itself is
// mutex-protected, satisfying the "must provide its own thread-safety"
// requirement without an extra lock here.
func New(cap int) (*LRU, error) {
	c, err := lru.New(cap)
	if err != nil {
		return nil, err
	}
	return &LRU{cache: c}, nil
}

// Add inserts name, promoting it to most-recently-used if already
// present.
func (l *LRU) Add(name string) {
	l.cache.Add(name, struct{}{})
}

// Contains reports whether name is currently tracked, without
// affecting recency order.
func (l *LRU) Contains(name string) bool {
	return l.cache.Contains(name)
}

// Remove drops name from the set.
func (l *LRU) Remove(name string) {
	l.cache.Remove(name)
}

// Len returns the number of tracked names.
func (l *LRU) Len() int {
	return l.cache.Len()
}
