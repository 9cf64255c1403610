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

package streaming

import (
	"io"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/xtaci/smux"

	"github.com/cubefs/metaopcache/rpcwire"
)

func TestStreamServerAcceptDrainsOneMultiplexedStream(t *testing.T) {
	serverConn, clientConn := net.Pipe()
	defer serverConn.Close()
	defer clientConn.Close()

	server := NewStreamServer()
	ctrl := &rpcwire.Controller{Conn: serverConn}

	accepted := make(chan Connection, 1)
	acceptErr := make(chan error, 1)
	go func() {
		conn, err := server.Accept(ctrl)
		if err != nil {
			acceptErr <- err
			return
		}
		accepted <- conn
	}()

	clientSession, err := smux.Client(clientConn, smux.DefaultConfig())
	require.NoError(t, err)
	defer clientSession.Close()

	clientStream, err := clientSession.OpenStream()
	require.NoError(t, err)
	defer clientStream.Close()

	go func() { _, _ = clientStream.Write([]byte("hello")) }()

	select {
	case err := <-acceptErr:
		t.Fatalf("Accept failed: %v", err)
	case conn := <-accepted:
		buf := make([]byte, 5)
		n, err := io.ReadFull(conn, buf)
		require.NoError(t, err)
		require.Equal(t, "hello", string(buf[:n]))
	case <-time.After(time.Second):
		t.Fatal("Accept never completed")
	}
}
