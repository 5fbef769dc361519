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

package bitcodec_test

import (
	"encoding/hex"
	"errors"
	"strings"
	"testing"

	"github.com/GoogleCloudPlatform/hexshare/client/internal/secret_sharing/bitcodec"
	"github.com/GoogleCloudPlatform/hexshare/client/internal/secret_sharing/sserrors"
	"github.com/google/go-cmp/cmp"
	"github.com/google/tink/go/subtle/random"
)

func TestHexToBinary(t *testing.T) {
	for _, tc := range []struct {
		in   string
		want string
	}{
		{in: "", want: ""},
		{in: "0", want: "0000"},
		{in: "a3", want: "10100011"},
		{in: "A3", want: "10100011"},
		{in: "f00f", want: "1111000000001111"},
		{in: "7368", want: "0111001101101000"},
	} {
		t.Run(tc.in, func(t *testing.T) {
			got, err := bitcodec.HexToBinary(tc.in)
			if err != nil {
				t.Fatalf("HexToBinary(%q) err = %v, want nil", tc.in, err)
			}
			if got != tc.want {
				t.Errorf("HexToBinary(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestHexToBinaryRejectsNonHex(t *testing.T) {
	for _, in := range []string{"g", "12 34", "0x12", "-1"} {
		if _, err := bitcodec.HexToBinary(in); !errors.Is(err, sserrors.ErrInvalidInput) {
			t.Errorf("HexToBinary(%q) err = %v, want %v", in, err, sserrors.ErrInvalidInput)
		}
	}
}

func TestBinaryToHex(t *testing.T) {
	for _, tc := range []struct {
		in   string
		want string
	}{
		{in: "", want: ""},
		{in: "1", want: "1"},
		{in: "101", want: "5"},
		{in: "10100011", want: "a3"},
		{in: "110100011", want: "1a3"},
		{in: "00000000", want: "00"},
	} {
		t.Run(tc.in, func(t *testing.T) {
			got, err := bitcodec.BinaryToHex(tc.in)
			if err != nil {
				t.Fatalf("BinaryToHex(%q) err = %v, want nil", tc.in, err)
			}
			if got != tc.want {
				t.Errorf("BinaryToHex(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestBinaryToHexRejectsNonBinary(t *testing.T) {
	for _, in := range []string{"2", "10a1", "1 0"} {
		if _, err := bitcodec.BinaryToHex(in); !errors.Is(err, sserrors.ErrInvalidInput) {
			t.Errorf("BinaryToHex(%q) err = %v, want %v", in, err, sserrors.ErrInvalidInput)
		}
	}
}

func TestHexBinaryRoundTrip(t *testing.T) {
	for _, n := range []int{0, 1, 7, 32, 256} {
		want := hex.EncodeToString(random.GetRandomBytes(uint32(n)))
		bin, err := bitcodec.HexToBinary(want)
		if err != nil {
			t.Fatal(err)
		}
		got, err := bitcodec.BinaryToHex(bin)
		if err != nil {
			t.Fatal(err)
		}
		if got != want {
			t.Errorf("BinaryToHex(HexToBinary(%q)) = %q", want, got)
		}
	}
}

func TestPadLeft(t *testing.T) {
	for _, tc := range []struct {
		name  string
		in    string
		width int
		want  string
	}{
		{name: "width zero", in: "101", width: 0, want: "101"},
		{name: "width one", in: "101", width: 1, want: "101"},
		{name: "to byte", in: "101", width: 8, want: "00000101"},
		{name: "already aligned", in: "10101010", width: 8, want: "10101010"},
		{name: "next multiple", in: "101010101", width: 8, want: "0000000101010101"},
		{name: "empty", in: "", width: 8, want: ""},
		{name: "odd width", in: "1", width: 3, want: "001"},
		{name: "max width", in: "1", width: 1024, want: strings.Repeat("0", 1023) + "1"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			got, err := bitcodec.PadLeft(tc.in, tc.width)
			if err != nil {
				t.Fatalf("PadLeft(%q, %d) err = %v, want nil", tc.in, tc.width, err)
			}
			if got != tc.want {
				t.Errorf("PadLeft(%q, %d) = %q, want %q", tc.in, tc.width, got, tc.want)
			}
		})
	}
}

func TestPadLeftRejectsWidth(t *testing.T) {
	for _, width := range []int{-1, 1025, 4096} {
		if _, err := bitcodec.PadLeft("1", width); !errors.Is(err, sserrors.ErrInvalidConfiguration) {
			t.Errorf("PadLeft(\"1\", %d) err = %v, want %v", width, err, sserrors.ErrInvalidConfiguration)
		}
	}
}

func TestSplitToBytes(t *testing.T) {
	for _, tc := range []struct {
		name     string
		in       string
		padWidth int
		want     []byte
	}{
		{name: "single byte", in: "10100011", want: []byte{0xa3}},
		{name: "least significant first", in: "0000000111111111", want: []byte{0xff, 0x01}},
		{name: "short top chunk", in: "110100011", want: []byte{0xa3, 0x01}},
		{name: "padded", in: "1", padWidth: 32, want: []byte{0x01, 0, 0, 0}},
		{name: "pad not multiple of eight", in: "1", padWidth: 12, want: []byte{0x01, 0}},
		{name: "empty", in: "", want: []byte{}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			got, err := bitcodec.SplitToBytes(tc.in, tc.padWidth)
			if err != nil {
				t.Fatalf("SplitToBytes(%q, %d) err = %v, want nil", tc.in, tc.padWidth, err)
			}
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Errorf("SplitToBytes(%q, %d) mismatch (-want +got):\n%s", tc.in, tc.padWidth, diff)
			}
		})
	}
}

func TestSplitToBytesErrors(t *testing.T) {
	if _, err := bitcodec.SplitToBytes("1021", 0); !errors.Is(err, sserrors.ErrInvalidInput) {
		t.Errorf("SplitToBytes(\"1021\", 0) err = %v, want %v", err, sserrors.ErrInvalidInput)
	}
	if _, err := bitcodec.SplitToBytes("1", 2048); !errors.Is(err, sserrors.ErrInvalidConfiguration) {
		t.Errorf("SplitToBytes(\"1\", 2048) err = %v, want %v", err, sserrors.ErrInvalidConfiguration)
	}
}

func TestSplitToBytesJoinBytesRoundTrip(t *testing.T) {
	for _, padWidth := range []int{0, 8, 128, 1024} {
		bin, err := bitcodec.HexToBinary(hex.EncodeToString(random.GetRandomBytes(40)))
		if err != nil {
			t.Fatal(err)
		}
		want, err := bitcodec.PadLeft("1"+bin, padWidth)
		if err != nil {
			t.Fatal(err)
		}
		if want, err = bitcodec.PadLeft(want, 8); err != nil {
			t.Fatal(err)
		}
		chunks, err := bitcodec.SplitToBytes("1"+bin, padWidth)
		if err != nil {
			t.Fatal(err)
		}
		if got := bitcodec.JoinBytes(chunks); got != want {
			t.Errorf("JoinBytes(SplitToBytes(s, %d)) = %q, want %q", padWidth, got, want)
		}
	}
}

func TestStringToHex(t *testing.T) {
	for _, tc := range []struct {
		name         string
		in           string
		bytesPerChar int
		want         string
	}{
		{name: "default width", in: "ab", want: "00620061"},
		{name: "one byte", in: "ab", bytesPerChar: 1, want: "6261"},
		{name: "multi byte rune", in: "é", bytesPerChar: 2, want: "00e9"},
		{name: "astral rune", in: "😀", bytesPerChar: 3, want: "01f600"},
		{name: "empty", in: "", want: ""},
	} {
		t.Run(tc.name, func(t *testing.T) {
			got, err := bitcodec.StringToHex(tc.in, tc.bytesPerChar)
			if err != nil {
				t.Fatalf("StringToHex(%q, %d) err = %v, want nil", tc.in, tc.bytesPerChar, err)
			}
			if got != tc.want {
				t.Errorf("StringToHex(%q, %d) = %q, want %q", tc.in, tc.bytesPerChar, got, tc.want)
			}
			back, err := bitcodec.HexToString(got, tc.bytesPerChar)
			if err != nil {
				t.Fatalf("HexToString(%q, %d) err = %v, want nil", got, tc.bytesPerChar, err)
			}
			if back != tc.in {
				t.Errorf("HexToString(%q, %d) = %q, want %q", got, tc.bytesPerChar, back, tc.in)
			}
		})
	}
}

func TestStringToHexErrors(t *testing.T) {
	if _, err := bitcodec.StringToHex("é", 0); err != nil {
		t.Errorf("StringToHex(\"é\", 0) err = %v, want nil", err)
	}
	if _, err := bitcodec.StringToHex("😀", 2); !errors.Is(err, sserrors.ErrInvalidConfiguration) {
		t.Errorf("StringToHex(emoji, 2) err = %v, want %v", err, sserrors.ErrInvalidConfiguration)
	}
	if _, err := bitcodec.StringToHex("a", 7); !errors.Is(err, sserrors.ErrInvalidConfiguration) {
		t.Errorf("StringToHex(\"a\", 7) err = %v, want %v", err, sserrors.ErrInvalidConfiguration)
	}
	if _, err := bitcodec.StringToHex("\xff", 1); !errors.Is(err, sserrors.ErrInvalidInput) {
		t.Errorf("StringToHex(invalid utf8, 1) err = %v, want %v", err, sserrors.ErrInvalidInput)
	}
	if _, err := bitcodec.HexToString("zz", 1); !errors.Is(err, sserrors.ErrInvalidInput) {
		t.Errorf("HexToString(\"zz\", 1) err = %v, want %v", err, sserrors.ErrInvalidInput)
	}
}
