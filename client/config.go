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

package client

import (
	"fmt"
	"os"

	"github.com/GoogleCloudPlatform/hexshare/client/internal/secret_sharing/secrets"
	"sigs.k8s.io/yaml"
)

// Config holds the settings for splitting and combining secrets. It is usually
// read from a YAML file:
//
//	shares: 5
//	threshold: 3
//	padLength: 128
//	checksum: true
//	bytesPerChar: 2
type Config struct {
	// Shares is the number of shares a secret is split into.
	Shares int `json:"shares,omitempty"`
	// Threshold is the number of shares needed to reconstruct a secret. When set,
	// Combine refuses to run with fewer distinct shares.
	Threshold int `json:"threshold,omitempty"`
	// PadLength is the block size in bits secrets are padded to. Defaults to 128.
	PadLength *int `json:"padLength,omitempty"`
	// Checksum appends a checksum before splitting and verifies it after
	// combining. Defaults to true.
	Checksum *bool `json:"checksum,omitempty"`
	// BytesPerChar is the character width for text secrets. Defaults to 2.
	BytesPerChar int `json:"bytesPerChar,omitempty"`
}

// ParseConfig parses a YAML configuration. Unknown fields are rejected.
func ParseConfig(yamlBytes []byte) (*Config, error) {
	cfg := &Config{}
	if err := yaml.UnmarshalStrict(yamlBytes, cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %v", err)
	}
	return cfg, nil
}

// LoadConfig reads and parses the YAML configuration at path.
func LoadConfig(path string) (*Config, error) {
	yamlBytes, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return ParseConfig(yamlBytes)
}

// PadLengthOrDefault returns the configured pad length or secrets.DefaultPadLength.
func (c *Config) PadLengthOrDefault() int {
	if c.PadLength == nil {
		return secrets.DefaultPadLength
	}
	return *c.PadLength
}

// ChecksumEnabled reports whether secrets carry a checksum.
func (c *Config) ChecksumEnabled() bool {
	return c.Checksum == nil || *c.Checksum
}

func (c *Config) metadata() secrets.Metadata {
	return secrets.Metadata{
		NumShares: c.Shares,
		Threshold: c.Threshold,
		PadLength: c.PadLengthOrDefault(),
	}
}
