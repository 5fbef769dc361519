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

package main

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"flag"
	"github.com/GoogleCloudPlatform/hexshare/client"
	"github.com/GoogleCloudPlatform/hexshare/constants"
	glog "github.com/golang/glog"
	"sigs.k8s.io/yaml"
)

// Output formats for split and newshare.
const (
	formatLines = "lines"
	formatYAML  = "yaml"
)

func defaultConfigPath() string {
	cfgDir, err := os.UserConfigDir()
	if err != nil {
		glog.Errorf("Failed to get config directory location: %v", err.Error())
	}
	return filepath.Join(cfgDir, constants.DefaultConfigName)
}

// configFlags are the flags shared by commands that need a client.Config.
// Flags given on the command line override the configuration file.
type configFlags struct {
	configFile   string
	shares       int
	threshold    int
	padLength    int
	checksum     bool
	bytesPerChar int
	text         bool
	quiet        bool
}

func (c *configFlags) setFlags(f *flag.FlagSet) {
	f.StringVar(&c.configFile, "config-file", defaultConfigPath(), "Path to a hexshare YAML config file. Optional.")
	f.IntVar(&c.shares, "shares", 0, "Number of shares to create. Overrides the config file.")
	f.IntVar(&c.threshold, "threshold", 0, "Number of shares needed to reconstruct the secret. Overrides the config file.")
	f.IntVar(&c.padLength, "pad-length", 128, "Pad secrets to a multiple of this many bits. Overrides the config file.")
	f.BoolVar(&c.checksum, "checksum", true, "Protect the secret with a checksum. Overrides the config file.")
	f.IntVar(&c.bytesPerChar, "bytes-per-char", 0, "Bytes per character for --text secrets. Overrides the config file.")
	f.BoolVar(&c.text, "text", false, "Treat the secret as UTF-8 text instead of hex.")
	f.BoolVar(&c.quiet, "quiet", false, "Suppress logging output.")
}

// load reads the config file and applies the flags set on the command line.
// A missing file at the default location is not an error.
func (c *configFlags) load(f *flag.FlagSet) (client.Config, error) {
	cfg := client.Config{}
	explicit := false
	f.Visit(func(fl *flag.Flag) {
		if fl.Name == "config-file" {
			explicit = true
		}
	})

	loaded, err := client.LoadConfig(c.configFile)
	switch {
	case err == nil:
		cfg = *loaded
	case !explicit && errors.Is(err, fs.ErrNotExist):
		glog.V(1).Infof("No config file at %s, using flags only", c.configFile)
	default:
		return cfg, err
	}

	f.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "shares":
			cfg.Shares = c.shares
		case "threshold":
			cfg.Threshold = c.threshold
		case "pad-length":
			padLength := c.padLength
			cfg.PadLength = &padLength
		case "checksum":
			checksum := c.checksum
			cfg.Checksum = &checksum
		case "bytes-per-char":
			cfg.BytesPerChar = c.bytesPerChar
		}
	})
	return cfg, nil
}

// openInput opens path for reading, or stdin for "-".
func openInput(path string) (io.ReadCloser, error) {
	if path == constants.StdioPath {
		return io.NopCloser(os.Stdin), nil
	}
	return os.Open(path)
}

// output is a destination file plus the stream progress messages go to, so
// they never mix with data written to stdout.
type output struct {
	file *os.File
	log  io.Writer
}

func openOutput(path string) (*output, error) {
	if path == constants.StdioPath {
		return &output{file: os.Stdout, log: os.Stderr}, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	return &output{file: f, log: os.Stdout}, nil
}

func (o *output) Close() error {
	if o.file == os.Stdout {
		return nil
	}
	return o.file.Close()
}

// readSecret reads a secret file. Hex secrets have all surrounding whitespace
// removed, text secrets only a trailing line break.
func readSecret(r io.Reader, text bool) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("failed to read secret: %v", err)
	}
	if text {
		return strings.TrimRight(string(data), "\r\n"), nil
	}
	return strings.TrimSpace(string(data)), nil
}

// readShares reads share strings either from a YAML manifest written by
// `split --format=yaml` or from a file with one share per line. Blank lines
// and lines starting with # are skipped.
func readShares(r io.Reader) ([]string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read shares: %v", err)
	}

	m := &client.Manifest{}
	if err := yaml.Unmarshal(data, m); err == nil && len(m.Shares) > 0 {
		return m.Shares, nil
	}

	var out []string
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, constants.ShareCommentPrefix) {
			continue
		}
		out = append(out, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read shares: %v", err)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no shares found in input")
	}
	return out, nil
}

// writeManifest writes m in the requested format.
func writeManifest(w io.Writer, m *client.Manifest, format string) error {
	switch format {
	case formatLines:
		for _, s := range m.Shares {
			if _, err := fmt.Fprintln(w, s); err != nil {
				return err
			}
		}
		return nil
	case formatYAML:
		yamlBytes, err := yaml.Marshal(m)
		if err != nil {
			return fmt.Errorf("failed to marshal manifest: %v", err)
		}
		_, err = w.Write(yamlBytes)
		return err
	default:
		return fmt.Errorf("unknown output format %q, expected %q or %q", format, formatLines, formatYAML)
	}
}
