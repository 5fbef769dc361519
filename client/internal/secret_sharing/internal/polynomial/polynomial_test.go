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

package polynomial

import (
	"bytes"
	"crypto/rand"
	"errors"
	"fmt"
	"testing"

	"github.com/GoogleCloudPlatform/hexshare/client/internal/secret_sharing/internal/field/gf8"
	"github.com/GoogleCloudPlatform/hexshare/client/internal/secret_sharing/sserrors"
	"github.com/google/go-cmp/cmp"
	"github.com/google/tink/go/subtle/random"
)

// naiveEvaluate sums c[i] * x^i term by term.
func naiveEvaluate(coefficients []byte, x byte) byte {
	var sum byte
	power := byte(1)
	for _, c := range coefficients {
		sum = gf8.Add(sum, gf8.Mul(c, power))
		power = gf8.Mul(power, x)
	}
	return sum
}

func TestEvaluateMatchesNaive(t *testing.T) {
	for n := 0; n < 200; n++ {
		coefficients := random.GetRandomBytes(5)
		for x := 1; x < 256; x += 17 {
			got := Evaluate(coefficients, byte(x))
			if want := naiveEvaluate(coefficients, byte(x)); got != want {
				t.Fatalf("Evaluate(%v, %d) = %d, want %d", coefficients, x, got, want)
			}
		}
	}
}

func TestEvaluateWithZeroAccumulator(t *testing.T) {
	// The leading coefficient is zero, so the accumulator starts at zero.
	for _, tc := range []struct {
		coefficients []byte
		x            byte
	}{
		{coefficients: []byte{7, 0, 0}, x: 3},
		{coefficients: []byte{0, 5, 0}, x: 9},
		{coefficients: []byte{0}, x: 1},
		{coefficients: []byte{}, x: 4},
	} {
		t.Run(fmt.Sprint(tc.coefficients), func(t *testing.T) {
			if got, want := Evaluate(tc.coefficients, tc.x), naiveEvaluate(tc.coefficients, tc.x); got != want {
				t.Errorf("Evaluate(%v, %d) = %d, want %d", tc.coefficients, tc.x, got, want)
			}
		})
	}
}

func TestRandomCoefficientsAreNonZero(t *testing.T) {
	// Every other byte is zero and must be skipped.
	src := bytes.NewReader([]byte{0, 1, 0, 2, 0, 0, 3})
	got, err := RandomCoefficients(src, 3)
	if err != nil {
		t.Fatalf("RandomCoefficients() err = %v, want nil", err)
	}
	if diff := cmp.Diff([]byte{1, 2, 3}, got); diff != "" {
		t.Errorf("RandomCoefficients() mismatch (-want +got):\n%s", diff)
	}
}

func TestRandomCoefficientsBoundsRetries(t *testing.T) {
	src := bytes.NewReader(make([]byte, 4*maxSampleAttempts))
	if _, err := RandomCoefficients(src, 1); !errors.Is(err, sserrors.ErrEntropy) {
		t.Fatalf("RandomCoefficients(all zero source) err = %v, want %v", err, sserrors.ErrEntropy)
	}
}

func TestRandomCoefficientsShortRead(t *testing.T) {
	if _, err := RandomCoefficients(bytes.NewReader([]byte{9}), 2); !errors.Is(err, sserrors.ErrEntropy) {
		t.Fatalf("RandomCoefficients(short source) err = %v, want %v", err, sserrors.ErrEntropy)
	}
}

func TestPointsInterpolateToSecret(t *testing.T) {
	for _, tc := range []struct {
		numShares int
		threshold int
	}{
		{numShares: 2, threshold: 2},
		{numShares: 5, threshold: 3},
		{numShares: 20, threshold: 20},
		{numShares: 255, threshold: 255},
		{numShares: 255, threshold: 2},
	} {
		t.Run(fmt.Sprintf("n-%d t-%d", tc.numShares, tc.threshold), func(t *testing.T) {
			for s := 0; s < 256; s += 51 {
				points, err := Points(byte(s), tc.numShares, tc.threshold, rand.Reader)
				if err != nil {
					t.Fatalf("Points() err = %v, want nil", err)
				}
				if len(points) != tc.numShares {
					t.Fatalf("Points() returned %d points, want %d", len(points), tc.numShares)
				}
				// Use the last `threshold` points to check order independence.
				var xs, ys []byte
				for _, p := range points[tc.numShares-tc.threshold:] {
					xs = append(xs, p.X)
					ys = append(ys, p.Y)
				}
				if got := Interpolate(0, xs, ys); got != byte(s) {
					t.Errorf("Interpolate(0) = %d, want %d", got, s)
				}
			}
		})
	}
}

func TestPointsUseSequentialX(t *testing.T) {
	points, err := Points(42, 4, 2, rand.Reader)
	if err != nil {
		t.Fatal(err)
	}
	for i, p := range points {
		if p.X != byte(i+1) {
			t.Errorf("points[%d].X = %d, want %d", i, p.X, i+1)
		}
	}
}

func TestPointsRejectsArguments(t *testing.T) {
	for _, tc := range []struct {
		numShares int
		threshold int
	}{
		{numShares: 3, threshold: 0},
		{numShares: 2, threshold: 3},
		{numShares: 256, threshold: 3},
	} {
		if _, err := Points(1, tc.numShares, tc.threshold, rand.Reader); !errors.Is(err, sserrors.ErrInvalidArgument) {
			t.Errorf("Points(1, %d, %d) err = %v, want %v", tc.numShares, tc.threshold, err, sserrors.ErrInvalidArgument)
		}
	}
}

func TestInterpolateAtExistingX(t *testing.T) {
	points, err := Points(200, 6, 3, rand.Reader)
	if err != nil {
		t.Fatal(err)
	}
	xs := []byte{points[0].X, points[2].X, points[4].X}
	ys := []byte{points[0].Y, points[2].Y, points[4].Y}
	for _, p := range points {
		if got := Interpolate(p.X, xs, ys); got != p.Y {
			t.Errorf("Interpolate(%d) = %d, want %d", p.X, got, p.Y)
		}
	}
}

func TestInterpolateBelowThresholdIsWrong(t *testing.T) {
	wrong := 0
	const trials = 200
	for n := 0; n < trials; n++ {
		points, err := Points(0x5a, 5, 4, rand.Reader)
		if err != nil {
			t.Fatal(err)
		}
		xs := []byte{points[0].X, points[1].X, points[2].X}
		ys := []byte{points[0].Y, points[1].Y, points[2].Y}
		if Interpolate(0, xs, ys) != 0x5a {
			wrong++
		}
	}
	// A correct guess happens with probability about 1/255 per trial.
	if wrong < trials*9/10 {
		t.Errorf("interpolating below threshold recovered the secret in %d of %d trials", trials-wrong, trials)
	}
}
