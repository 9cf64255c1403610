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

package rpcwire

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestClosureGuardRunIfArmedFiresOnce(t *testing.T) {
	var calls int
	guard := NewClosureGuard(func() { calls++ })
	guard.RunIfArmed()
	guard.RunIfArmed()
	require.Equal(t, 1, calls)
}

func TestClosureGuardReleaseSuppressesDeferredFire(t *testing.T) {
	var calls int
	guard := NewClosureGuard(func() { calls++ })
	guard.Release()
	guard.RunIfArmed()
	require.Equal(t, 0, calls)
}

func TestClosureGuardRunFiresEvenAfterRelease(t *testing.T) {
	var calls int
	guard := NewClosureGuard(func() { calls++ })
	guard.Release()
	guard.Run()
	guard.RunIfArmed()
	require.Equal(t, 1, calls)
}

func TestNewPacketAssignsDistinctRequestIDs(t *testing.T) {
	a := NewPacket(1, 10, []byte("a"))
	b := NewPacket(1, 10, []byte("b"))
	require.NotEmpty(t, a.RequestID)
	require.NotEqual(t, a.RequestID, b.RequestID)
}
