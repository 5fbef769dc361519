// Copyright 2022 Google LLC
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

// Package shamir encapsulates all of the logic needed to perform t-of-n [Shamir
// Secret Sharing] (SSS) on hex encoded secrets of arbitrary length over
// GF(2^8). SSS is based on the Lagrange interpolation theorem, which
// states that `k` points are enough to uniquely determine a polynomial of
// degree less than or equal to `k - 1`.
//
// A secret is converted to bits, prefixed with a single marker bit and
// zero-padded to a multiple of the pad length. Each byte of the result is the
// constant term of its own random polynomial.
//
// This scheme is secure under the following assumptions:
//   - The scheme requires a trusted dealer to generate the shares. Participants
//     must trust the dealer with access to the secret and to properly generate the
//     shares.
//   - The scheme assumes a passive adversary which can observe (t - 1) shares
//     without being able to reconstruct the secrets. Combine does not detect
//     bogus, corrupted or too few shares: it returns a wrong secret instead of an
//     error. Callers that need to detect this must add their own integrity check.
//
// [Shamir Secret Sharing]: https://web.mit.edu/6.857/OldStuff/Fall03/ref/Shamir-HowToShareAsecrets.pdf
package shamir

import (
	"crypto/rand"
	"fmt"
	"io"
	"strings"

	"github.com/GoogleCloudPlatform/hexshare/client/internal/secret_sharing/bitcodec"
	"github.com/GoogleCloudPlatform/hexshare/client/internal/secret_sharing/internal/polynomial"
	"github.com/GoogleCloudPlatform/hexshare/client/internal/secret_sharing/secrets"
	"github.com/GoogleCloudPlatform/hexshare/client/internal/secret_sharing/sserrors"
)

// Split splits a hex encoded secret into metadata.NumShares share strings where
// metadata.Threshold or more can be combined to reconstruct it. Randomness
// comes from crypto/rand.
func Split(metadata secrets.Metadata, secret string) ([]string, error) {
	return SplitWithRand(metadata, secret, rand.Reader)
}

// SplitWithRand is like Split but draws polynomial coefficients from r.
func SplitWithRand(metadata secrets.Metadata, secret string, r io.Reader) ([]string, error) {
	shares, err := SplitSecret(metadata, secret, r)
	if err != nil {
		return nil, err
	}
	out := make([]string, len(shares))
	for i, s := range shares {
		out[i] = s.String()
	}
	return out, nil
}

// SplitSecret splits a hex encoded secret into decoded shares.
func SplitSecret(metadata secrets.Metadata, secret string, r io.Reader) ([]secrets.Share, error) {
	if err := metadata.Validate(); err != nil {
		return nil, err
	}
	bits, err := bitcodec.HexToBinary(secret)
	if err != nil {
		return nil, err
	}
	// The marker bit preserves leading zeros of the secret through padding.
	chunks, err := bitcodec.SplitToBytes("1"+bits, metadata.PadLength)
	if err != nil {
		return nil, err
	}

	shares := make([]secrets.Share, metadata.NumShares)
	for i := range shares {
		shares[i] = secrets.Share{ID: i + 1, Chunks: make([]byte, len(chunks))}
	}
	// shares is a set of field elements. Each field element is the evaluation of a
	// different polynomial where the constant term of each polynomial is one chunk.
	// shares[0] = 			[ F1(1), F2(1), ..., FN(1) ]
	// shares[1] = 			[ F1(2), F2(2), ..., FN(2) ]
	// shares[N - 1] = 	[ F1(N), F2(N), ..., FN(N) ]
	for c, chunk := range chunks {
		points, err := polynomial.Points(chunk, metadata.NumShares, metadata.Threshold, r)
		if err != nil {
			return nil, err
		}
		for i, p := range points {
			shares[i].Chunks[c] = p.Y
		}
	}
	return shares, nil
}

// Combine reconstructs the hex encoded secret from share strings.
//
// Shares with an id that was already seen are ignored. The number of distinct
// shares must meet the threshold used by Split; Combine can't check this and
// returns a wrong secret when it isn't met.
func Combine(shares []string) (string, error) {
	parsed, err := parseShares(shares)
	if err != nil {
		return "", err
	}
	bits := bitcodec.JoinBytes(interpolate(0, parsed))
	marker := strings.IndexByte(bits, '1')
	if marker < 0 {
		return "", fmt.Errorf("reconstructed secret has no marker bit: %w", sserrors.ErrInvalidShare)
	}
	return bitcodec.BinaryToHex(bits[marker+1:])
}

// NewShare computes the share with the given id from at least threshold
// existing shares, without reconstructing the secret itself. It can be used to
// add a participant to an existing split.
func NewShare(id int, shares []string) (string, error) {
	if id < 1 || id > secrets.MaxShares {
		return "", fmt.Errorf("share id must be an integer between 1 and %d, got %d: %w", secrets.MaxShares, id, sserrors.ErrInvalidArgument)
	}
	parsed, err := parseShares(shares)
	if err != nil {
		return "", err
	}
	return secrets.Share{ID: id, Chunks: interpolate(byte(id), parsed)}.String(), nil
}

// parseShares decodes share strings, keeps the first share for every id and
// checks all payloads have the same number of chunks.
func parseShares(shares []string) ([]secrets.Share, error) {
	if len(shares) == 0 {
		return nil, fmt.Errorf("no shares provided: %w", sserrors.ErrInvalidArgument)
	}
	seen := make(map[int]bool, len(shares))
	out := make([]secrets.Share, 0, len(shares))
	for _, s := range shares {
		share, err := secrets.ParseShare(s)
		if err != nil {
			return nil, err
		}
		if seen[share.ID] {
			continue
		}
		seen[share.ID] = true
		if len(out) > 0 && len(share.Chunks) != len(out[0].Chunks) {
			return nil, fmt.Errorf("share %d has %d chunks, share %d has %d: %w", share.ID, len(share.Chunks), out[0].ID, len(out[0].Chunks), sserrors.ErrInvalidShare)
		}
		out = append(out, share)
	}
	return out, nil
}

// transpose returns the share ids and, for every chunk position, the y values
// of all shares at that position.
func transpose(shares []secrets.Share) ([]byte, [][]byte) {
	xs := make([]byte, len(shares))
	for i, s := range shares {
		xs[i] = byte(s.ID)
	}
	columns := make([][]byte, len(shares[0].Chunks))
	for c := range columns {
		columns[c] = make([]byte, len(shares))
		for i, s := range shares {
			columns[c][i] = s.Chunks[c]
		}
	}
	return xs, columns
}

// interpolate evaluates every chunk polynomial at `at`.
func interpolate(at byte, shares []secrets.Share) []byte {
	xs, columns := transpose(shares)
	chunks := make([]byte, len(columns))
	for c, ys := range columns {
		chunks[c] = polynomial.Interpolate(at, xs, ys)
	}
	return chunks
}
