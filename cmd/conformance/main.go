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

// Binary to validate that the hexshare client behaves as documented.
package main

import (
	"errors"
	"fmt"
	"os"

	"flag"
	"github.com/GoogleCloudPlatform/hexshare/client"
	"github.com/alecthomas/colour"
)

var (
	secret = flag.String("secret", "7368616d6972", "Hex secret used by the tests")
	bits   = flag.Int("bits", 512, "Size of the random secret used by the tests")
)

type conformanceTest struct {
	testName  string
	expectErr bool
	run       func() error
}

func noChecksum(cfg client.Config) client.Config {
	checksum := false
	cfg.Checksum = &checksum
	return cfg
}

// roundTrip splits secret and combines every subset of threshold shares.
func roundTrip(cfg client.Config, secret string) error {
	c := client.New(cfg)
	m, err := c.Split(secret)
	if err != nil {
		return err
	}
	var subsetErr error
	forEachSubset(len(m.Shares), cfg.Threshold, func(idx []int) bool {
		in := make([]string, len(idx))
		for i, j := range idx {
			in[i] = m.Shares[j]
		}
		got, err := c.Combine(in)
		if err != nil {
			subsetErr = fmt.Errorf("shares %v: %v", idx, err)
			return false
		}
		if got != secret {
			subsetErr = fmt.Errorf("shares %v: got secret %q, want %q", idx, got, secret)
			return false
		}
		return true
	})
	return subsetErr
}

// forEachSubset calls fn with every k-subset of [0, n) until fn returns false.
func forEachSubset(n, k int, fn func([]int) bool) {
	idx := make([]int, k)
	for i := range idx {
		idx[i] = i
	}
	for {
		if !fn(idx) {
			return
		}
		i := k - 1
		for i >= 0 && idx[i] == n-k+i {
			i--
		}
		if i < 0 {
			return
		}
		idx[i]++
		for j := i + 1; j < k; j++ {
			idx[j] = idx[j-1] + 1
		}
	}
}

func main() {
	flag.Parse()

	random, err := client.GenerateSecret(*bits)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to generate secret: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Running split and combine tests...")

	testCases := []conformanceTest{
		{
			testName: "Any 3 of 5 shares reconstruct the secret",
			run:      func() error { return roundTrip(client.Config{Shares: 5, Threshold: 3}, *secret) },
		},
		{
			testName: "Any 3 of 5 shares reconstruct a random secret without checksum",
			run:      func() error { return roundTrip(noChecksum(client.Config{Shares: 5, Threshold: 3}), random) },
		},
		{
			testName: "Secret with leading zeros survives padding",
			run:      func() error { return roundTrip(client.Config{Shares: 4, Threshold: 2}, "000000ff") },
		},
		{
			testName: "255 shares with threshold 255",
			run: func() error {
				m, err := client.New(client.Config{Shares: 255, Threshold: 255}).Split(*secret)
				if err != nil {
					return err
				}
				got, err := client.New(client.Config{Threshold: 255}).Combine(m.Shares)
				if err != nil {
					return err
				}
				if got != *secret {
					return fmt.Errorf("got secret %q, want %q", got, *secret)
				}
				return nil
			},
		},
		{
			testName:  "256 shares are rejected",
			expectErr: true,
			run: func() error {
				_, err := client.New(client.Config{Shares: 256, Threshold: 3}).Split(*secret)
				return err
			},
		},
		{
			testName:  "Threshold 1 is rejected",
			expectErr: true,
			run: func() error {
				_, err := client.New(client.Config{Shares: 3, Threshold: 1}).Split(*secret)
				return err
			},
		},
		{
			testName:  "Duplicate shares don't count towards the threshold",
			expectErr: true,
			run: func() error {
				c := client.New(client.Config{Shares: 5, Threshold: 3})
				m, err := c.Split(*secret)
				if err != nil {
					return err
				}
				_, err = c.Combine([]string{m.Shares[0], m.Shares[0], m.Shares[1]})
				if !errors.Is(err, client.ErrInvalidArgument) {
					return nil
				}
				return err
			},
		},
		{
			testName:  "Two of three shares fail the checksum",
			expectErr: true,
			run: func() error {
				m, err := client.New(client.Config{Shares: 5, Threshold: 3}).Split(*secret)
				if err != nil {
					return err
				}
				_, err = client.New(client.Config{}).Combine(m.Shares[:2])
				return err
			},
		},
		{
			testName: "New share replaces a lost one",
			run: func() error {
				c := client.New(client.Config{Shares: 3, Threshold: 2})
				m, err := c.Split(*secret)
				if err != nil {
					return err
				}
				added, err := c.NewShare(42, m.Shares[1:])
				if err != nil {
					return err
				}
				got, err := c.Combine([]string{m.Shares[0], added})
				if err != nil {
					return err
				}
				if got != *secret {
					return fmt.Errorf("got secret %q, want %q", got, *secret)
				}
				return nil
			},
		},
		{
			testName: "Text secrets round trip",
			run: func() error {
				c := client.New(client.Config{Shares: 3, Threshold: 2})
				m, err := c.SplitText("Grüße, 世界")
				if err != nil {
					return err
				}
				got, err := c.CombineText(m.Shares[:2])
				if err != nil {
					return err
				}
				if got != "Grüße, 世界" {
					return fmt.Errorf("got text %q", got)
				}
				return nil
			},
		},
		{
			testName:  "Malformed share is rejected",
			expectErr: true,
			run: func() error {
				_, err := client.New(client.Config{}).Combine([]string{"01abcd", "g2abcd"})
				return err
			},
		},
	}

	failed := 0
	for _, testCase := range testCases {
		err := testCase.run()
		testPassed := testCase.expectErr == (err != nil)
		if testPassed {
			colour.Printf("^2 - %v^R\n", testCase.testName)
		} else {
			colour.Printf("^1 - %v^R\n", testCase.testName)
			if err != nil {
				fmt.Printf("     %v\n", err)
			}
			failed++
		}
	}

	if failed > 0 {
		os.Exit(1)
	}
}
