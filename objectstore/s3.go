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

package objectstore

import (
	"bytes"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"

	"github.com/cubefs/metaopcache/metrics"
	"github.com/cubefs/metaopcache/util/log"
)

// S3Client is an ObjectClient backed by an S3-compatible endpoint,
// the same object-storage access pattern the teacher's blobstore uses
// for its S3-compatible backends.
type S3Client struct {
	bucket string
	svc    *s3.S3
}

// S3Config names the endpoint, credentials, and bucket an S3Client
// uploads into.
type S3Config struct {
	Endpoint        string
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	Bucket          string
	DisableSSL      bool
	ForcePathStyle  bool
}

// NewS3Client builds an S3Client from cfg.
func NewS3Client(cfg S3Config) (*S3Client, error) {
	sess, err := session.NewSession(&aws.Config{
		Endpoint:         aws.String(cfg.Endpoint),
		Region:           aws.String(cfg.Region),
		Credentials:      credentials.NewStaticCredentials(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		DisableSSL:       aws.Bool(cfg.DisableSSL),
		S3ForcePathStyle: aws.Bool(cfg.ForcePathStyle),
	})
	if err != nil {
		return nil, err
	}
	return &S3Client{bucket: cfg.Bucket, svc: s3.New(sess)}, nil
}

// UploadAsync fires a PutObject in its own goroutine and invokes cb
// with the outcome, mirroring the callback-thread model spec section
// 5 describes for the disk cache's object-client interactions.
func (c *S3Client) UploadAsync(ctx UploadContext, cb Callback) {
	ctx.submittedAt = time.Now()
	go func() {
		_, err := c.svc.PutObject(&s3.PutObjectInput{
			Bucket: aws.String(c.bucket),
			Key:    aws.String(ctx.Key),
			Body:   bytes.NewReader(ctx.Buffer),
		})
		elapsed := time.Since(ctx.submittedAt)
		metrics.UploadLatency.Observe(float64(elapsed.Microseconds()))
		result := UploadResult{
			Key:        ctx.Key,
			BufferSize: len(ctx.Buffer),
			Elapsed:    elapsed,
		}
		if err != nil {
			log.LogWarnf("s3 upload failed key=%s err=%v", ctx.Key, err)
			result.RetCode = -1
		} else {
			metrics.UploadBytes.Add(float64(len(ctx.Buffer)))
		}
		cb(ctx, result)
	}()
}
