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

// Package errors provides a small wrapped-error type carrying an
// annotation stack, in the style the rest of the codebase expects from
// its error helpers (New, NewErrorf, Trace, Annotate).
package errors

import "fmt"

// Error wraps an underlying cause with zero or more annotations added
// as it travels up the call stack.
type Error struct {
	cause   error
	message string
}

func (e *Error) Error() string {
	if e.cause == nil {
		return e.message
	}
	if e.message == "" {
		return e.cause.Error()
	}
	return e.message + ": " + e.cause.Error()
}

func (e *Error) Unwrap() error {
	return e.cause
}

// New creates a new root error.
func New(message string) error {
	return &Error{message: message}
}

// NewErrorf creates a new root error with a formatted message.
func NewErrorf(format string, args ...interface{}) error {
	return &Error{message: fmt.Sprintf(format, args...)}
}

// Trace wraps err unchanged, recording that it passed through the
// caller. Returns nil if err is nil.
func Trace(err error, message string) error {
	if err == nil {
		return nil
	}
	return &Error{cause: err, message: message}
}

// Annotate adds a formatted message to err. Returns nil if err is nil.
func Annotate(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return &Error{cause: err, message: fmt.Sprintf(format, args...)}
}

// Cause returns the root cause of a wrapped error, or err itself if it
// was not produced by this package.
func Cause(err error) error {
	for err != nil {
		w, ok := err.(*Error)
		if !ok || w.cause == nil {
			return err
		}
		err = w.cause
	}
	return err
}
