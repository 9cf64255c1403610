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

package copyset

import (
	"github.com/cubefs/metaopcache/metastore"
	"github.com/cubefs/metaopcache/rpcwire"
	"github.com/cubefs/metaopcache/util/log"
)

// runStreamTail accepts the tail connection, fires Done so the RPC
// headers go out, and only then drains it into the stream — in that
// order. Accepting before Done fires means a client that reacted to
// the headers can never race ahead of a stream the server hasn't
// opened yet; draining after Done fires means a slow or stalled drain
// can never delay the header response (spec.md section 4.1.6).
func (op *Operator) runStreamTail(it metastore.Iterator) {
	server := op.Store.GetStreamServer()
	if server == nil {
		op.Guard.Run()
		return
	}

	conn, err := server.Accept(op.Ctrl)
	if err != nil {
		op.Resp.Status = rpcwire.RPCStreamError
		op.Guard.Run()
		return
	}

	op.Guard.Run()

	if err := op.Store.SendS3ChunkInfoByStream(conn, it); err != nil {
		log.LogWarnf("copyset: stream tail for %s (req %s) failed: %v", op.Type, op.RequestID, err)
	}
}
