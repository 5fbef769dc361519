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

// Package bitcodec converts between hexadecimal strings, strings of binary
// digits and sequences of GF(2^8) elements.
//
// Bit strings are kept as strings of '0' and '1' characters so that a secret
// can be prefixed with a marker bit and padded to widths which are not a
// multiple of 8.
package bitcodec

import (
	"fmt"
	"math/bits"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/GoogleCloudPlatform/hexshare/client/internal/secret_sharing/sserrors"
)

const (
	// MaxPadWidth is the largest width accepted by PadLeft.
	MaxPadWidth = 1024

	// ChunkBits is the number of bits in one field element.
	ChunkBits = 8

	// DefaultBytesPerChar is the character width used by StringToHex and
	// HexToString when none is given.
	DefaultBytesPerChar = 2
	// MaxBytesPerChar is the largest supported character width.
	MaxBytesPerChar = 6
)

// HexToBinary expands every hex digit of s into four binary digits.
func HexToBinary(s string) (string, error) {
	var b strings.Builder
	b.Grow(len(s) * 4)
	for i := 0; i < len(s); i++ {
		v, ok := hexDigit(s[i])
		if !ok {
			return "", fmt.Errorf("invalid hex character %q at offset %d: %w", s[i], i, sserrors.ErrInvalidInput)
		}
		for shift := 3; shift >= 0; shift-- {
			b.WriteByte('0' + (v>>shift)&1)
		}
	}
	return b.String(), nil
}

// BinaryToHex left-pads s to a multiple of four bits and encodes every group
// of four bits as one lower-case hex digit.
func BinaryToHex(s string) (string, error) {
	s, err := PadLeft(s, 4)
	if err != nil {
		return "", err
	}
	var b strings.Builder
	b.Grow(len(s) / 4)
	for i := 0; i < len(s); i += 4 {
		v, err := parseBits(s[i : i+4])
		if err != nil {
			return "", err
		}
		b.WriteString(strconv.FormatUint(uint64(v), 16))
	}
	return b.String(), nil
}

// PadLeft prepends zero bits to s until its length is the smallest multiple
// of width that is not smaller than len(s). Widths 0 and 1 leave s unchanged.
func PadLeft(s string, width int) (string, error) {
	if width < 0 || width > MaxPadWidth {
		return "", fmt.Errorf("pad width must be between 0 and %d, got %d: %w", MaxPadWidth, width, sserrors.ErrInvalidConfiguration)
	}
	if width <= 1 {
		return s, nil
	}
	missing := len(s) % width
	if missing == 0 {
		return s, nil
	}
	return strings.Repeat("0", width-missing) + s, nil
}

// SplitToBytes pads s to a multiple of padWidth bits and cuts it into 8-bit
// chunks starting from the least significant end. Chunk 0 of the result holds
// the last eight bits of s.
//
// When the padded length is not a multiple of 8, the most significant chunk is
// zero-extended to a full byte. This is numerically the same as reading the
// shorter chunk on its own, so JoinBytes followed by stripping leading zero bits
// recovers the input.
func SplitToBytes(s string, padWidth int) ([]byte, error) {
	s, err := PadLeft(s, padWidth)
	if err != nil {
		return nil, err
	}
	if s, err = PadLeft(s, ChunkBits); err != nil {
		return nil, err
	}
	chunks := make([]byte, 0, len(s)/ChunkBits)
	for i := len(s); i > 0; i -= ChunkBits {
		v, err := parseBits(s[i-ChunkBits : i])
		if err != nil {
			return nil, err
		}
		chunks = append(chunks, v)
	}
	return chunks, nil
}

// JoinBytes is the inverse of SplitToBytes: it renders every chunk as eight
// binary digits, most significant chunk (the last one) first.
func JoinBytes(chunks []byte) string {
	var b strings.Builder
	b.Grow(len(chunks) * ChunkBits)
	for i := len(chunks) - 1; i >= 0; i-- {
		fmt.Fprintf(&b, "%08b", chunks[i])
	}
	return b.String()
}

// StringToHex encodes every character of s as bytesPerChar bytes of hex. The
// first character of s ends up in the least significant position, matching the
// layout HexToString expects. A bytesPerChar of 0 selects DefaultBytesPerChar.
func StringToHex(s string, bytesPerChar int) (string, error) {
	hexChars, err := hexCharsPerChar(bytesPerChar)
	if err != nil {
		return "", err
	}
	maxCode := uint64(1)<<(4*uint(hexChars)) - 1
	parts := make([]string, 0, utf8.RuneCountInString(s))
	for i, r := range s {
		if r == utf8.RuneError {
			if _, size := utf8.DecodeRuneInString(s[i:]); size <= 1 {
				return "", fmt.Errorf("invalid UTF-8 character at offset %d: %w", i, sserrors.ErrInvalidInput)
			}
		}
		if uint64(r) > maxCode {
			needed := (bits.Len64(uint64(r)) + 7) / 8
			return "", fmt.Errorf("character code %d exceeds maximum %d, use at least %d bytes per character: %w", r, maxCode, needed, sserrors.ErrInvalidConfiguration)
		}
		code := strconv.FormatUint(uint64(r), 16)
		parts = append(parts, strings.Repeat("0", hexChars-len(code))+code)
	}
	var b strings.Builder
	for i := len(parts) - 1; i >= 0; i-- {
		b.WriteString(parts[i])
	}
	return b.String(), nil
}

// HexToString reverses StringToHex.
func HexToString(s string, bytesPerChar int) (string, error) {
	hexChars, err := hexCharsPerChar(bytesPerChar)
	if err != nil {
		return "", err
	}
	if missing := len(s) % hexChars; missing != 0 {
		s = strings.Repeat("0", hexChars-missing) + s
	}
	runes := make([]rune, 0, len(s)/hexChars)
	for i := len(s); i > 0; i -= hexChars {
		v, err := strconv.ParseUint(s[i-hexChars:i], 16, 64)
		if err != nil {
			return "", fmt.Errorf("invalid hex character in %q: %w", s[i-hexChars:i], sserrors.ErrInvalidInput)
		}
		runes = append(runes, rune(v))
	}
	return string(runes), nil
}

func hexCharsPerChar(bytesPerChar int) (int, error) {
	if bytesPerChar == 0 {
		bytesPerChar = DefaultBytesPerChar
	}
	if bytesPerChar < 1 || bytesPerChar > MaxBytesPerChar {
		return 0, fmt.Errorf("bytes per character must be between 1 and %d, got %d: %w", MaxBytesPerChar, bytesPerChar, sserrors.ErrInvalidConfiguration)
	}
	return 2 * bytesPerChar, nil
}

func hexDigit(c byte) (byte, bool) {
	switch {
	case '0' <= c && c <= '9':
		return c - '0', true
	case 'a' <= c && c <= 'f':
		return c - 'a' + 10, true
	case 'A' <= c && c <= 'F':
		return c - 'A' + 10, true
	}
	return 0, false
}

// parseBits reads at most eight binary digits.
func parseBits(s string) (byte, error) {
	var v byte
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '0':
			v <<= 1
		case '1':
			v = v<<1 | 1
		default:
			return 0, fmt.Errorf("invalid binary character %q: %w", s[i], sserrors.ErrInvalidInput)
		}
	}
	return v, nil
}
