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

// Package client is the client library for hexshare. It splits hex or text
// secrets into share strings over GF(2^8) and combines them again.
package client

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"

	"github.com/GoogleCloudPlatform/hexshare/client/internal/secret_sharing/bitcodec"
	"github.com/GoogleCloudPlatform/hexshare/client/internal/secret_sharing/secrets"
	"github.com/GoogleCloudPlatform/hexshare/client/internal/secret_sharing/shamir"
	"github.com/GoogleCloudPlatform/hexshare/client/internal/secret_sharing/sserrors"
	"github.com/GoogleCloudPlatform/hexshare/client/shares"
	glog "github.com/golang/glog"
	"github.com/google/tink/go/subtle/random"
	"github.com/google/uuid"
)

// Errors returned by the client, usable with errors.Is.
var (
	ErrInvalidArgument      = sserrors.ErrInvalidArgument
	ErrInvalidInput         = sserrors.ErrInvalidInput
	ErrInvalidShare         = sserrors.ErrInvalidShare
	ErrInvalidConfiguration = sserrors.ErrInvalidConfiguration
	ErrChecksumMismatch     = shares.ErrChecksumMismatch
)

// MaxSecretBits is the largest secret GenerateSecret creates.
const MaxSecretBits = 1 << 16

// Manifest describes the result of splitting one secret.
type Manifest struct {
	// ID identifies the split, so shares of different secrets can be told apart.
	ID        string   `json:"id,omitempty"`
	Shares    []string `json:"shares"`
	Threshold int      `json:"threshold"`
	PadLength int      `json:"padLength"`
	Checksum  bool     `json:"checksum"`
}

// Client splits and combines secrets according to a Config.
type Client struct {
	cfg Config

	// Source of polynomial coefficients. Defaults to crypto/rand.
	rand io.Reader
}

// New returns a Client for cfg.
func New(cfg Config) *Client {
	return &Client{cfg: cfg, rand: rand.Reader}
}

// Config returns the client configuration.
func (c *Client) Config() Config {
	return c.cfg
}

// Split splits a hex secret into the configured number of shares.
func (c *Client) Split(secret string) (*Manifest, error) {
	md := c.cfg.metadata()
	if err := md.Validate(); err != nil {
		return nil, err
	}

	var out []string
	var err error
	if c.cfg.ChecksumEnabled() {
		out, err = shares.SplitShares(secret, md, c.rand)
	} else {
		out, err = shamir.SplitWithRand(md, secret, c.rand)
	}
	if err != nil {
		return nil, err
	}

	m := &Manifest{
		ID:        uuid.NewString(),
		Shares:    out,
		Threshold: md.Threshold,
		PadLength: md.PadLength,
		Checksum:  c.cfg.ChecksumEnabled(),
	}
	glog.V(1).Infof("Split %d hex digit secret into %d shares (threshold %d, split %s)", len(secret), len(out), md.Threshold, m.ID)
	return m, nil
}

// SplitText encodes text as hex with the configured character width and splits it.
func (c *Client) SplitText(text string) (*Manifest, error) {
	secret, err := bitcodec.StringToHex(text, c.cfg.BytesPerChar)
	if err != nil {
		return nil, err
	}
	return c.Split(secret)
}

// Combine reconstructs a hex secret from share strings.
//
// Without a checksum and a configured threshold, combining too few shares
// returns a wrong secret rather than an error.
func (c *Client) Combine(in []string) (string, error) {
	if err := c.checkShareCount(in); err != nil {
		return "", err
	}
	var secret string
	var err error
	if c.cfg.ChecksumEnabled() {
		secret, err = shares.CombineShares(in)
	} else {
		secret, err = shamir.Combine(in)
	}
	if err != nil {
		return "", err
	}
	glog.V(1).Infof("Combined %d shares into a %d hex digit secret", len(in), len(secret))
	return secret, nil
}

// CombineText reconstructs a secret split with SplitText.
func (c *Client) CombineText(in []string) (string, error) {
	secret, err := c.Combine(in)
	if err != nil {
		return "", err
	}
	return bitcodec.HexToString(secret, c.cfg.BytesPerChar)
}

// NewShare creates the share with the given id from existing shares.
func (c *Client) NewShare(id int, in []string) (string, error) {
	if err := c.checkShareCount(in); err != nil {
		return "", err
	}
	share, err := shamir.NewShare(id, in)
	if err != nil {
		return "", err
	}
	glog.V(1).Infof("Created share %02x from %d shares", id, len(in))
	return share, nil
}

// checkShareCount makes sure at least the configured threshold of distinct
// shares is present.
func (c *Client) checkShareCount(in []string) error {
	ids := make(map[int]bool, len(in))
	for _, s := range in {
		share, err := secrets.ParseShare(s)
		if err != nil {
			return err
		}
		ids[share.ID] = true
	}
	minimum := c.cfg.Threshold
	if minimum < 2 {
		minimum = 2
	}
	if len(ids) < minimum {
		return fmt.Errorf("got %d distinct shares, need at least %d: %w", len(ids), minimum, ErrInvalidArgument)
	}
	if len(ids) < len(in) {
		glog.Warningf("Ignoring %d duplicate shares", len(in)-len(ids))
	}
	return nil
}

// GenerateSecret returns a random secret of the given number of bits as hex.
func GenerateSecret(bits int) (string, error) {
	if bits < 1 || bits > MaxSecretBits {
		return "", fmt.Errorf("secret size must be between 1 and %d bits, got %d: %w", MaxSecretBits, bits, ErrInvalidArgument)
	}
	b := random.GetRandomBytes(uint32((bits + 7) / 8))
	// Clear the bits above the requested size.
	if extra := len(b)*8 - bits; extra > 0 {
		b[0] &= 0xff >> extra
	}
	secret := hex.EncodeToString(b)
	// Drop a leading nibble that can't carry requested bits.
	if len(secret)*4-bits >= 4 {
		secret = secret[1:]
	}
	return secret, nil
}
