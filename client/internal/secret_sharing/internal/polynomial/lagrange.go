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

import "github.com/GoogleCloudPlatform/hexshare/client/internal/secret_sharing/internal/field/gf8"

// Interpolate performs lagrange interpolation on the points (xs[i], ys[i]) and
// returns the value of the polynomial at `at`:
// ∑i y[i] * ∏j≠i ( (at - x[j]) / (x[i] - x[j]) )
// All products are computed as sums of logarithms modulo 255.
//
// The x coordinates must be distinct and non-zero. With fewer points than the
// threshold the result is a well formed but meaningless field element; no error
// is reported.
func Interpolate(at byte, xs, ys []byte) byte {
	var sum byte
	for i := range xs {
		if ys[i] == 0 {
			continue
		}
		product := gf8.Log(ys[i])
		zero := false
		for j := range xs {
			if i == j {
				continue
			}
			if at == xs[j] {
				// (at - x[j]) is zero, so is the whole term.
				zero = true
				break
			}
			product = (product + gf8.Log(at^xs[j]) - gf8.Log(xs[i]^xs[j]) + gf8.Order) % gf8.Order
		}
		if zero {
			continue
		}
		sum ^= gf8.Exp(product)
	}
	return sum
}
