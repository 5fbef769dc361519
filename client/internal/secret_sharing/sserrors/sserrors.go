// Copyright 2024 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package sserrors defines the error kinds returned by the secret sharing library.
// Every error returned by the library wraps exactly one of these, so callers can
// classify failures with errors.Is.
package sserrors

import "errors"

var (
	// ErrInvalidArgument reports a bad share count, threshold or pad length.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrInvalidInput reports a malformed hex or binary string.
	ErrInvalidInput = errors.New("invalid input")
	// ErrInvalidShare reports a malformed share string or an out of range share id.
	ErrInvalidShare = errors.New("invalid share")
	// ErrInvalidConfiguration reports a pad width outside the supported range.
	ErrInvalidConfiguration = errors.New("invalid configuration")
	// ErrEntropy reports that the random source kept producing unusable values.
	ErrEntropy = errors.New("random source exhausted")
)
