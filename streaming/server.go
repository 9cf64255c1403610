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

// Package streaming backs the operator pipeline's stream tail with a
// multiplexed stream accepted over the same connection the RPC
// response is sent on. Only GetOrModifyS3ChunkInfo opens a tail;
// GetVolumeExtent is streaming-capable by op-type, but its dispatch
// yields no iterator, so it never reaches Accept.
package streaming

import (
	"net"

	"github.com/cubefs/metaopcache/rpcwire"
	"github.com/xtaci/smux"
)

// Connection is the accepted stream frame writers use to send the
// tail payload after the RPC headers have already gone out.
type Connection interface {
	net.Conn
}

// StreamServer accepts one multiplexed stream per RPC connection. The
// caller must have already written (or be about to write, per the
// GetOrModifyS3ChunkInfo ordering) the RPC response headers on the
// same underlying connection before draining the accepted stream.
type StreamServer struct {
	cfg *smux.Config
}

// NewStreamServer builds a StreamServer with smux's default tuning,
// the same defaults util/smux_conn_pool_test.go exercises via
// smux.Server(conn, nil).
func NewStreamServer() *StreamServer {
	return &StreamServer{cfg: smux.DefaultConfig()}
}

// Accept multiplexes ctrl.Conn and accepts exactly one stream from it.
// A failed accept must translate to RPC_STREAM_ERROR in the caller
// (spec section 4.1.6) without emitting any stream frames.
func (s *StreamServer) Accept(ctrl *rpcwire.Controller) (Connection, error) {
	session, err := smux.Server(ctrl.Conn, s.cfg)
	if err != nil {
		return nil, err
	}
	stream, err := session.AcceptStream()
	if err != nil {
		return nil, err
	}
	return stream, nil
}
