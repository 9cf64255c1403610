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

import "github.com/prometheus/client_golang/prometheus"

// queueDepth tracks waitUpload's current length; per-upload byte and
// latency counters live in objectstore.S3Client, which is where the
// actual PUT happens.
var queueDepth = prometheus.NewGauge(prometheus.GaugeOpts{
	Name: "diskcache_pending_uploads",
	Help: "number of cache objects currently queued for upload",
})

func init() {
	prometheus.MustRegister(queueDepth)
}

// reportQueueDepth refreshes the pending-uploads gauge; called after
// every enqueue and drain.
func (c *Cache) reportQueueDepth() {
	queueDepth.Set(float64(c.queue.Len()))
}
