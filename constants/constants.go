// Copyright 2021 Google LLC
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

// Package constants contains constants shared between the hexshare binaries.
package constants

// DefaultConfigName is the name of the configuration file looked up in the
// user configuration directory.
const DefaultConfigName = "hexshare.yaml"

// Version is displayed via the `version` subcommand.
const Version = "0.1.0"

// StdioPath stands for stdin or stdout in file arguments.
const StdioPath = "-"

// ShareCommentPrefix starts a comment line in a share file.
const ShareCommentPrefix = "#"

// DefaultKeyBits is the size of secrets created by `keygen`.
const DefaultKeyBits = 256
