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

// Package secrets contains types for secret sharing. When splitting a secret, a dealer needs
// to provide both the hex `secret` + `Metadata`. A dealer would then get one `Share` per
// participant, each of which is exchanged in its string form.
package secrets

import (
	"fmt"
	"math/bits"

	"github.com/GoogleCloudPlatform/hexshare/client/internal/secret_sharing/bitcodec"
	"github.com/GoogleCloudPlatform/hexshare/client/internal/secret_sharing/sserrors"
)

const (
	// MaxShares is the largest number of shares, and the largest threshold, GF(2^8) supports.
	MaxShares = 255
	// FieldBits is the size in bits of one field element.
	FieldBits = 8
	// DefaultPadLength is the block size, in bits, the marked secret is padded to by default.
	DefaultPadLength = 128
)

// Metadata contains the necessary secret sharing scheme information to split a secret.
type Metadata struct {
	NumShares int
	Threshold int
	// PadLength is the block size in bits the secret is zero-padded to, which hides
	// the exact secret length from share holders. 0 and 1 disable padding.
	PadLength int
}

// NewMetadata returns Metadata with the default pad length.
func NewMetadata(numShares, threshold int) Metadata {
	return Metadata{NumShares: numShares, Threshold: threshold, PadLength: DefaultPadLength}
}

// Validate checks 2 <= Threshold <= NumShares <= MaxShares and the pad length range.
func (m Metadata) Validate() error {
	if m.NumShares < 2 || m.NumShares > MaxShares {
		return fmt.Errorf("number of shares must be an integer between 2 and %d, got %d%s: %w", MaxShares, m.NumShares, neededBits(m.NumShares), sserrors.ErrInvalidArgument)
	}
	if m.Threshold < 2 || m.Threshold > MaxShares {
		return fmt.Errorf("threshold must be an integer between 2 and %d, got %d%s: %w", MaxShares, m.Threshold, neededBits(m.Threshold), sserrors.ErrInvalidArgument)
	}
	if m.Threshold > m.NumShares {
		return fmt.Errorf("threshold (%d) should be smaller than or equal to number of shares (%d): %w", m.Threshold, m.NumShares, sserrors.ErrInvalidArgument)
	}
	if m.PadLength < 0 || m.PadLength > bitcodec.MaxPadWidth {
		return fmt.Errorf("pad length must be an integer between 0 and %d, got %d: %w", bitcodec.MaxPadWidth, m.PadLength, sserrors.ErrInvalidArgument)
	}
	return nil
}

// neededBits explains how wide a field would have to be for counts above MaxShares.
func neededBits(n int) string {
	if n <= MaxShares {
		return ""
	}
	return fmt.Sprintf(" (%d requires a field of at least %d bits, this one has %d)", n, bits.Len(uint(n)), FieldBits)
}
