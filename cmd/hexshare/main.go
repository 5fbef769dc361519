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

// This binary is the main entrypoint for the hexshare command line tool.
package main

import (
	"context"
	"fmt"
	"os"

	"flag"
	"github.com/GoogleCloudPlatform/hexshare/client"
	"github.com/GoogleCloudPlatform/hexshare/constants"
	glog "github.com/golang/glog"
	"github.com/google/subcommands"
)

// splitCmd handles CLI options for the split command.
type splitCmd struct {
	configFlags
	format string
}

func (*splitCmd) Name() string { return "split" }
func (*splitCmd) Synopsis() string {
	return "splits a secret into shares according to the given config"
}
func (*splitCmd) Usage() string {
	return fmt.Sprintf(`Usage: hexshare split [--config-file=<config_file>] [--shares=<n>] [--threshold=<t>] <secret_file> <shares_file>

Examples:
  Split a hex secret using %s for configuration:
    $ hexshare split secret.hex shares.txt

  Split into 5 shares, any 3 of which reconstruct the secret:
    $ hexshare split --shares=5 --threshold=3 secret.hex shares.txt

  Split a text secret read from stdin and write a YAML manifest to stdout:
    $ echo "my passphrase" | hexshare split --text --format=yaml - -

Flags:
`, defaultConfigPath())
}
func (s *splitCmd) SetFlags(f *flag.FlagSet) {
	s.configFlags.setFlags(f)
	f.StringVar(&s.format, "format", formatLines, "Output format, one share per line (lines) or a YAML manifest (yaml).")
}

func (s *splitCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() < 2 {
		glog.Errorf("Not enough arguments (expected secret file and shares file)")
		return subcommands.ExitFailure
	}

	cfg, err := s.load(f)
	if err != nil {
		glog.Errorf("Failed to load config: %v", err.Error())
		return subcommands.ExitFailure
	}

	inFile, err := openInput(f.Arg(0))
	if err != nil {
		glog.Errorf("Failed to open secret file: %v", err.Error())
		return subcommands.ExitFailure
	}
	defer inFile.Close()

	secret, err := readSecret(inFile, s.text)
	if err != nil {
		glog.Errorf("%v", err.Error())
		return subcommands.ExitFailure
	}

	c := client.New(cfg)
	var m *client.Manifest
	if s.text {
		m, err = c.SplitText(secret)
	} else {
		m, err = c.Split(secret)
	}
	if err != nil {
		glog.Errorf("Failed to split secret: %v", err.Error())
		return subcommands.ExitFailure
	}

	out, err := openOutput(f.Arg(1))
	if err != nil {
		glog.Errorf("Failed to open file for shares: %v", err.Error())
		return subcommands.ExitFailure
	}
	defer out.Close()

	if err := writeManifest(out.file, m, s.format); err != nil {
		glog.Errorf("Failed to write shares: %v", err.Error())
		return subcommands.ExitFailure
	}

	if !s.quiet {
		fmt.Fprintln(out.log, "Wrote", len(m.Shares), "shares to", out.file.Name())
		fmt.Fprintln(out.log, "Split ID:", m.ID)
		fmt.Fprintln(out.log, "Shares needed to reconstruct:", m.Threshold)
	}

	return subcommands.ExitSuccess
}

// combineCmd handles CLI options for the combine command.
type combineCmd struct {
	configFlags
}

func (*combineCmd) Name() string { return "combine" }
func (*combineCmd) Synopsis() string {
	return "reconstructs a secret from shares according to the given config"
}
func (*combineCmd) Usage() string {
	return fmt.Sprintf(`Usage: hexshare combine [--config-file=<config_file>] <shares_file> <secret_file>

The shares file holds one share per line, or is a YAML manifest written by
"hexshare split --format=yaml".

Examples:
  Combine shares using %s for configuration:
    $ hexshare combine shares.txt secret.hex

  Combine shares from stdin and write the secret to stdout:
    $ cat share1.txt share3.txt share4.txt | hexshare combine - -

Flags:
`, defaultConfigPath())
}
func (c *combineCmd) SetFlags(f *flag.FlagSet) {
	c.configFlags.setFlags(f)
}

func (c *combineCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() < 2 {
		glog.Errorf("Not enough arguments (expected shares file and secret file)")
		return subcommands.ExitFailure
	}

	cfg, err := c.load(f)
	if err != nil {
		glog.Errorf("Failed to load config: %v", err.Error())
		return subcommands.ExitFailure
	}

	inFile, err := openInput(f.Arg(0))
	if err != nil {
		glog.Errorf("Failed to open shares file: %v", err.Error())
		return subcommands.ExitFailure
	}
	defer inFile.Close()

	in, err := readShares(inFile)
	if err != nil {
		glog.Errorf("%v", err.Error())
		return subcommands.ExitFailure
	}

	cl := client.New(cfg)
	var secret string
	if c.text {
		secret, err = cl.CombineText(in)
	} else {
		secret, err = cl.Combine(in)
	}
	if err != nil {
		glog.Errorf("Failed to combine shares: %v", err.Error())
		return subcommands.ExitFailure
	}

	out, err := openOutput(f.Arg(1))
	if err != nil {
		glog.Errorf("Failed to open file for secret: %v", err.Error())
		return subcommands.ExitFailure
	}
	defer out.Close()

	if _, err := fmt.Fprintln(out.file, secret); err != nil {
		glog.Errorf("Failed to write secret: %v", err.Error())
		return subcommands.ExitFailure
	}

	if !c.quiet {
		fmt.Fprintln(out.log, "Combined", len(in), "shares, wrote secret to", out.file.Name())
	}

	return subcommands.ExitSuccess
}

// newShareCmd handles CLI options for the newshare command.
type newShareCmd struct {
	configFlags
	id     int
	format string
}

func (*newShareCmd) Name() string { return "newshare" }
func (*newShareCmd) Synopsis() string {
	return "creates an additional share from existing shares"
}
func (*newShareCmd) Usage() string {
	return `Usage: hexshare newshare --id=<id> <shares_file> <share_file>

Creates the share with the given id (1 to 255) for a new participant from at
least threshold existing shares. The secret is never written out.

Example:
  $ hexshare newshare --id=6 shares.txt share6.txt

Flags:
`
}
func (n *newShareCmd) SetFlags(f *flag.FlagSet) {
	n.configFlags.setFlags(f)
	f.IntVar(&n.id, "id", 0, "ID of the share to create, between 1 and 255.")
	f.StringVar(&n.format, "format", formatLines, "Output format, one share per line (lines) or a YAML manifest (yaml).")
}

func (n *newShareCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() < 2 {
		glog.Errorf("Not enough arguments (expected shares file and new share file)")
		return subcommands.ExitFailure
	}

	cfg, err := n.load(f)
	if err != nil {
		glog.Errorf("Failed to load config: %v", err.Error())
		return subcommands.ExitFailure
	}

	inFile, err := openInput(f.Arg(0))
	if err != nil {
		glog.Errorf("Failed to open shares file: %v", err.Error())
		return subcommands.ExitFailure
	}
	defer inFile.Close()

	in, err := readShares(inFile)
	if err != nil {
		glog.Errorf("%v", err.Error())
		return subcommands.ExitFailure
	}

	share, err := client.New(cfg).NewShare(n.id, in)
	if err != nil {
		glog.Errorf("Failed to create share: %v", err.Error())
		return subcommands.ExitFailure
	}

	out, err := openOutput(f.Arg(1))
	if err != nil {
		glog.Errorf("Failed to open file for share: %v", err.Error())
		return subcommands.ExitFailure
	}
	defer out.Close()

	m := &client.Manifest{
		Shares:    []string{share},
		Threshold: cfg.Threshold,
		PadLength: cfg.PadLengthOrDefault(),
		Checksum:  cfg.ChecksumEnabled(),
	}
	if err := writeManifest(out.file, m, n.format); err != nil {
		glog.Errorf("Failed to write share: %v", err.Error())
		return subcommands.ExitFailure
	}

	if !n.quiet {
		fmt.Fprintf(out.log, "Wrote share %02x to %s\n", n.id, out.file.Name())
	}

	return subcommands.ExitSuccess
}

// keygenCmd handles CLI options for the keygen command.
type keygenCmd struct {
	bits int
}

func (*keygenCmd) Name() string { return "keygen" }
func (*keygenCmd) Synopsis() string {
	return "generates a random hex secret"
}
func (*keygenCmd) Usage() string {
	return `Usage: hexshare keygen [--bits=<bits>] [<secret_file>]

Writes a random secret as hex to the given file, or to stdout.

Example:
  $ hexshare keygen --bits=512 | hexshare split --shares=5 --threshold=3 - shares.txt

Flags:
`
}
func (k *keygenCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&k.bits, "bits", constants.DefaultKeyBits, "Size of the secret in bits.")
}

func (k *keygenCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	path := constants.StdioPath
	if f.NArg() > 0 {
		path = f.Arg(0)
	}

	secret, err := client.GenerateSecret(k.bits)
	if err != nil {
		glog.Errorf("Failed to generate secret: %v", err.Error())
		return subcommands.ExitFailure
	}

	out, err := openOutput(path)
	if err != nil {
		glog.Errorf("Failed to open file for secret: %v", err.Error())
		return subcommands.ExitFailure
	}
	defer out.Close()

	if _, err := fmt.Fprintln(out.file, secret); err != nil {
		glog.Errorf("Failed to write secret: %v", err.Error())
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

// versionCmd handles CLI options for the version command.
type versionCmd struct{}

func (*versionCmd) Name() string           { return "version" }
func (*versionCmd) Synopsis() string       { return "prints the current version" }
func (*versionCmd) Usage() string          { return "Usage: hexshare version" }
func (*versionCmd) SetFlags(*flag.FlagSet) {}
func (*versionCmd) Execute(context.Context, *flag.FlagSet, ...interface{}) subcommands.ExitStatus {
	fmt.Printf("hexshare Version %s\n", constants.Version)
	return subcommands.ExitSuccess
}

func main() {
	flag.Parse()

	subcommands.Register(subcommands.HelpCommand(), "")
	subcommands.Register(&splitCmd{}, "")
	subcommands.Register(&combineCmd{}, "")
	subcommands.Register(&newShareCmd{}, "")
	subcommands.Register(&keygenCmd{}, "")
	subcommands.Register(&versionCmd{}, "")

	ctx := context.Background()
	os.Exit(int(subcommands.Execute(ctx)))
}
