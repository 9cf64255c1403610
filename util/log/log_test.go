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

package log

// These tests are too simple.

import (
	"os"
	"path"
	"testing"
	"time"
)

func TestLog(t *testing.T) {
	dir := path.Join(os.TempDir(), "metaopcache-log-test")
	os.RemoveAll(dir)

	if _, err := NewLog(dir, "metaopd", DebugLevel); err != nil {
		t.Fatalf("NewLog failed: %v", err)
	}

	for i := 0; i < 5; i++ {
		LogDebugf("[debug] current time %v.", time.Now())
		LogWarnf("[warn] current time %v.", time.Now())
		LogErrorf("[error] current time %v.", time.Now())
		LogInfof("[info] current time %v.", time.Now())
	}
	LogFlush()

	if _, err := os.Stat(path.Join(dir, "metaopd"+InfoLogFileName)); err != nil {
		t.Errorf("expect info log file to exist: %v", err)
	}
	if _, err := os.Stat(path.Join(dir, "metaopd"+ErrLogFileName)); err != nil {
		t.Errorf("expect error log file to exist: %v", err)
	}
}

func TestLogNoopBeforeNewLog(t *testing.T) {
	gLog = nil
	// Must not panic with no logger initialized.
	LogDebugf("dropped")
	LogWarnf("dropped")
	LogErrorf("dropped")
	LogInfof("dropped")
}
