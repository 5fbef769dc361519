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

// Package shares wraps secret splitting with a checksum, so that combining too
// few or corrupted shares is detected instead of silently yielding a wrong secret.
package shares

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/GoogleCloudPlatform/hexshare/client/internal/secret_sharing/secrets"
	"github.com/GoogleCloudPlatform/hexshare/client/internal/secret_sharing/shamir"
)

// ChecksumHexDigits is the number of hex digits appended to a secret.
const ChecksumHexDigits = 8

// ErrChecksumMismatch is returned when a reconstructed secret doesn't carry the
// expected checksum, which means too few or corrupted shares were combined.
var ErrChecksumMismatch = errors.New("checksum mismatch: insufficient or corrupted shares")

// Checksum returns the first ChecksumHexDigits hex digits of the SHA-256 hash of
// the lower-cased hex secret.
func Checksum(secret string) string {
	hash := sha256.Sum256([]byte(strings.ToLower(secret)))
	return hex.EncodeToString(hash[:])[:ChecksumHexDigits]
}

// AppendChecksum returns secret followed by its checksum.
func AppendChecksum(secret string) string {
	return secret + Checksum(secret)
}

// VerifyChecksum strips the trailing checksum from secretWithChecksum and
// returns the remaining secret if the checksum matches.
func VerifyChecksum(secretWithChecksum string) (string, error) {
	if len(secretWithChecksum) < ChecksumHexDigits {
		return "", fmt.Errorf("secret has %d hex digits, shorter than the checksum: %w", len(secretWithChecksum), ErrChecksumMismatch)
	}
	split := len(secretWithChecksum) - ChecksumHexDigits
	secret, sum := secretWithChecksum[:split], secretWithChecksum[split:]
	if !strings.EqualFold(Checksum(secret), sum) {
		return "", ErrChecksumMismatch
	}
	return secret, nil
}

// SplitShares appends a checksum to the hex secret and splits the result into
// md.NumShares share strings.
func SplitShares(secret string, md secrets.Metadata, r io.Reader) ([]string, error) {
	shares, err := shamir.SplitWithRand(md, AppendChecksum(secret), r)
	if err != nil {
		return nil, fmt.Errorf("error splitting secret: %w", err)
	}
	return shares, nil
}

// CombineShares reconstitutes a secret produced by SplitShares and checks its checksum.
func CombineShares(shares []string) (string, error) {
	combined, err := shamir.Combine(shares)
	if err != nil {
		return "", fmt.Errorf("error combining shares: %w", err)
	}
	return VerifyChecksum(combined)
}
