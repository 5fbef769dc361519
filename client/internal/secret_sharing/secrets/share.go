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

package secrets

import (
	"fmt"

	"github.com/GoogleCloudPlatform/hexshare/client/internal/secret_sharing/bitcodec"
	"github.com/GoogleCloudPlatform/hexshare/client/internal/secret_sharing/sserrors"
)

// idDigits is the number of hex digits used for the share id on the wire.
const idDigits = 2

// Share represents one share of a shared secret.
//
// The string form is the id as two hex digits followed by the hex payload, most
// significant chunk first:
//
//	03 9a41...c7
//	id payload
type Share struct {
	// ID is both the share identity and its x coordinate, in [1, 255].
	ID int
	// Chunks holds one y value per secret chunk, least significant chunk first.
	Chunks []byte
}

// String encodes the share in its wire form.
func (s Share) String() string {
	// JoinBytes emits whole bytes, so the conversion can't fail.
	payload, _ := bitcodec.BinaryToHex(bitcodec.JoinBytes(s.Chunks))
	return fmt.Sprintf("%0*x", idDigits, s.ID) + payload
}

// ParseShare decodes a share from its wire form. Hex digits may be in either case.
func ParseShare(s string) (Share, error) {
	if len(s) <= idDigits {
		return Share{}, fmt.Errorf("share %q is too short, want %d id digits and a non-empty payload: %w", s, idDigits, sserrors.ErrInvalidShare)
	}
	idBits, err := bitcodec.HexToBinary(s[:idDigits])
	if err != nil {
		return Share{}, fmt.Errorf("share id %q: %w: %w", s[:idDigits], sserrors.ErrInvalidShare, err)
	}
	idChunks, err := bitcodec.SplitToBytes(idBits, 0)
	if err != nil {
		return Share{}, fmt.Errorf("share id %q: %w: %w", s[:idDigits], sserrors.ErrInvalidShare, err)
	}
	id := int(idChunks[0])
	if id < 1 || id > MaxShares {
		return Share{}, fmt.Errorf("share id must be an integer between 1 and %d, got %d: %w", MaxShares, id, sserrors.ErrInvalidShare)
	}
	payloadBits, err := bitcodec.HexToBinary(s[idDigits:])
	if err != nil {
		return Share{}, fmt.Errorf("share payload: %w: %w", sserrors.ErrInvalidShare, err)
	}
	chunks, err := bitcodec.SplitToBytes(payloadBits, 0)
	if err != nil {
		return Share{}, fmt.Errorf("share payload: %w: %w", sserrors.ErrInvalidShare, err)
	}
	return Share{ID: id, Chunks: chunks}, nil
}
