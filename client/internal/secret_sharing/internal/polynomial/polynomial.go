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

// Package polynomial generates and interpolates the per-byte polynomials used
// by shamir secret sharing over GF(2^8).
package polynomial

import (
	"fmt"
	"io"

	"github.com/GoogleCloudPlatform/hexshare/client/internal/secret_sharing/internal/field/gf8"
	"github.com/GoogleCloudPlatform/hexshare/client/internal/secret_sharing/sserrors"
)

// maxSampleAttempts bounds the number of zero bytes drawn in a row for a
// single coefficient. A healthy source hits this with probability 256^-64.
const maxSampleAttempts = 64

// Point is one evaluation (X, f(X)) of a polynomial.
type Point struct {
	X byte
	Y byte
}

// RandomCoefficients draws n field elements uniformly from [1, 255] using r.
// Zero is rejected and redrawn, every coefficient of a generated polynomial
// above the constant term is therefore non-zero.
func RandomCoefficients(r io.Reader, n int) ([]byte, error) {
	coefficients := make([]byte, n)
	b := make([]byte, 1)
	for i := range coefficients {
		attempts := 0
		for b[0] = 0; b[0] == 0; attempts++ {
			if attempts == maxSampleAttempts {
				return nil, fmt.Errorf("drew %d zero coefficients in a row: %w", maxSampleAttempts, sserrors.ErrEntropy)
			}
			if _, err := io.ReadFull(r, b); err != nil {
				return nil, fmt.Errorf("reading random coefficient: %v: %w", err, sserrors.ErrEntropy)
			}
		}
		coefficients[i] = b[0]
	}
	return coefficients, nil
}

// Evaluate evaluates the polynomial
// f(x) = c[n-1] * x^(n-1) + c[n-2] * x^(n-2) + ... + c[1] * x^1 + c[0]
// at x with Horner's scheme, multiplying in log space. x must be non-zero.
func Evaluate(coefficients []byte, x byte) byte {
	logX := gf8.Log(x)
	var fx byte
	for i := len(coefficients) - 1; i >= 0; i-- {
		if fx == 0 {
			// log(0) is undefined, but 0 * x + c = c.
			fx = coefficients[i]
			continue
		}
		fx = gf8.Exp(logX+gf8.Log(fx)) ^ coefficients[i]
	}
	return fx
}

// Points builds a fresh polynomial of degree threshold-1 whose constant term is
// secret and evaluates it at x = 1..numShares. Coefficients are never shared
// between calls, so every secret byte gets an independent polynomial.
func Points(secret byte, numShares, threshold int, r io.Reader) ([]Point, error) {
	if threshold < 1 || numShares < threshold || numShares > gf8.Order {
		return nil, fmt.Errorf("need 1 <= threshold (%d) <= numShares (%d) <= %d: %w", threshold, numShares, gf8.Order, sserrors.ErrInvalidArgument)
	}
	random, err := RandomCoefficients(r, threshold-1)
	if err != nil {
		return nil, err
	}
	coefficients := append([]byte{secret}, random...)
	points := make([]Point, numShares)
	for i := range points {
		x := byte(i + 1)
		points[i] = Point{X: x, Y: Evaluate(coefficients, x)}
	}
	return points, nil
}
