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

// Package gf8 implements arithmetic in the field GF(2^8) using precomputed
// exponent and logarithm tables.
//
// The tables are built once when the package is initialized and never written
// again, so every function in this package is safe for concurrent use.
package gf8

// irreducible polynomial (x^8 + x^4 + x^3 + x^2 + 1)
// (x^8 + x^4 + x^3 + x^2 + 1) = {0x01 0x1D}
const irreduciblePolynomial = 0x11D

// Order is the order of the multiplicative group of GF(2^8). Exponents are
// taken modulo Order.
const Order = 255

var (
	// exp[i] = g^i for the generator g = 2.
	exp [Order]byte
	// log[exp[i]] = i. log[0] is undefined and left at zero.
	log [Order + 1]int
)

func init() {
	x := 1
	for i := 0; i < Order; i++ {
		exp[i] = byte(x)
		log[x] = i
		x <<= 1
		if x&0x100 != 0 {
			x ^= irreduciblePolynomial
		}
	}
}

// Exp returns g^i, where i is reduced modulo Order.
func Exp(i int) byte {
	i %= Order
	if i < 0 {
		i += Order
	}
	return exp[i]
}

// Log returns the discrete logarithm of a. The logarithm of zero is undefined;
// callers must special-case it, Log(0) returns 0.
func Log(a byte) int {
	return log[a]
}

// Add returns a + b in GF(2^8).
func Add(a, b byte) byte {
	return a ^ b
}

// Sub returns a - b in GF(2^8), which is the same operation as Add.
func Sub(a, b byte) byte {
	return a ^ b
}

// Mul returns a * b in GF(2^8).
func Mul(a, b byte) byte {
	if a == 0 || b == 0 {
		return 0
	}
	return exp[(log[a]+log[b])%Order]
}

// Div returns a / b in GF(2^8). It panics if b is zero.
func Div(a, b byte) byte {
	if b == 0 {
		panic("gf8: division by zero")
	}
	if a == 0 {
		return 0
	}
	return exp[(log[a]-log[b]+Order)%Order]
}

// Inverse returns the multiplicative inverse of a. It panics if a is zero.
func Inverse(a byte) byte {
	return Div(1, a)
}
