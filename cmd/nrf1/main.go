// Command nrf1 is a small driver around the codec: encode a JSON document
// to canonical NRF-1.1 bytes (raw or hex), decode bytes back to JSON,
// classify a batch of candidate files against a corpus cache and report how
// many were accepted, rejected, or already known along with the cache hit
// rate, or report entry count, on-disk size and accepted/rejected split for
// a disk-backed corpus directory.
package main

import (
	"context"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/urfave/cli"

	"github.com/unkn0wn-root/nrf1"
	bjson "github.com/unkn0wn-root/nrf1/bridge/json"
	"github.com/unkn0wn-root/nrf1/corpus"
	"github.com/unkn0wn-root/nrf1/corpus/provider/localdisk"
	"github.com/unkn0wn-root/nrf1/corpus/provider/ristretto"
)

const defaultCorpusDir = ".nrf1corpus"

func main() {
	app := cli.NewApp()
	app.Name = "nrf1"
	app.Usage = "encode, decode, and classify NRF-1.1 byte vectors"
	app.Commands = []cli.Command{
		{
			Name:   "encode",
			Usage:  "Read a JSON document and write canonical NRF-1.1 bytes",
			Action: encodeCommand,
			Flags: []cli.Flag{
				cli.StringFlag{Name: "o, output", Usage: "output file (default stdout)"},
				cli.BoolFlag{Name: "hex", Usage: "write lowercase hex instead of raw bytes"},
			},
		},
		{
			Name:   "decode",
			Usage:  "Read NRF-1.1 bytes and write the equivalent JSON document",
			Action: decodeCommand,
			Flags: []cli.Flag{
				cli.StringFlag{Name: "o, output", Usage: "output file (default stdout)"},
				cli.BoolFlag{Name: "pretty", Usage: "indent the JSON output"},
				cli.BoolFlag{Name: "hex", Usage: "read lowercase hex instead of raw bytes"},
			},
		},
		{
			Name:   "classify",
			Usage:  "Decode each argument file, caching accept/reject verdicts",
			Action: classifyCommand,
			Flags: []cli.Flag{
				cli.StringFlag{Name: "dir", Usage: "disk-backed corpus directory (default: in-memory only)"},
			},
		},
		{
			Name:   "corpus",
			Usage:  "Inspect an on-disk corpus directory",
			Subcommands: []cli.Command{
				{
					Name:   "stats",
					Usage:  "Report entry count, size, and accept/reject split for a corpus directory",
					Action: corpusStatsCommand,
					Flags: []cli.Flag{
						cli.StringFlag{Name: "dir", Usage: "corpus directory", Value: defaultCorpusDir},
					},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "nrf1:", err)
		os.Exit(1)
	}
}

func readInput(c *cli.Context) ([]byte, error) {
	if c.NArg() > 0 && c.Args().First() != "-" {
		return os.ReadFile(c.Args().First())
	}
	return io.ReadAll(os.Stdin)
}

func writeOutput(c *cli.Context, b []byte) error {
	out := c.String("output")
	if out == "" || out == "-" {
		_, err := os.Stdout.Write(b)
		return err
	}
	return os.WriteFile(out, b, 0o644)
}

func encodeCommand(c *cli.Context) error {
	in, err := readInput(c)
	if err != nil {
		return fmt.Errorf("reading input: %w", err)
	}
	v, err := bjson.Unmarshal(in)
	if err != nil {
		return fmt.Errorf("parsing JSON: %w", err)
	}
	enc, err := nrf1.Encode(v)
	if err != nil {
		return fmt.Errorf("encoding: %w", err)
	}
	if c.Bool("hex") {
		enc = []byte(hex.EncodeToString(enc))
	}
	return writeOutput(c, enc)
}

func decodeCommand(c *cli.Context) error {
	in, err := readInput(c)
	if err != nil {
		return fmt.Errorf("reading input: %w", err)
	}
	if c.Bool("hex") {
		in, err = hex.DecodeString(strings.TrimSpace(string(in)))
		if err != nil {
			return fmt.Errorf("decoding hex input: %w", err)
		}
	}
	v, err := nrf1.Decode(in)
	if err != nil {
		return fmt.Errorf("decoding: %w", err)
	}
	var out []byte
	if c.Bool("pretty") {
		out, err = bjson.MarshalIndent(v, "", "  ")
	} else {
		out, err = bjson.Marshal(v)
	}
	if err != nil {
		return fmt.Errorf("rendering JSON: %w", err)
	}
	out = append(out, '\n')
	return writeOutput(c, out)
}

func classifyCommand(c *cli.Context) error {
	if c.NArg() == 0 {
		return fmt.Errorf("classify requires at least one file argument")
	}

	var provider corpus.Provider
	var err error
	if dir := c.String("dir"); dir != "" {
		provider, err = localdisk.New(dir)
	} else {
		provider, err = ristretto.New(ristretto.Config{
			NumCounters: 10000,
			MaxCost:     64 << 20,
			BufferItems: 64,
		})
	}
	if err != nil {
		return fmt.Errorf("starting corpus provider: %w", err)
	}
	cc, err := corpus.New(corpus.Options{Provider: provider})
	if err != nil {
		return fmt.Errorf("starting corpus cache: %w", err)
	}
	ctx := context.Background()
	defer cc.Close(ctx)

	var accepted, rejected, cached int
	var totalBytes uint64

	for _, path := range c.Args() {
		b, err := os.ReadFile(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "nrf1: skipping %s: %v\n", path, err)
			continue
		}
		totalBytes += uint64(len(b))
		key := corpus.Key(b)

		if _, ok, _ := cc.Get(ctx, key); ok {
			cached++
			continue
		}

		e := corpus.Classify(b)
		_ = cc.Set(ctx, key, e, cc.SnapshotGen(), time.Hour)
		if e.Accepted {
			accepted++
		} else {
			rejected++
			fmt.Printf("%s: rejected (%s at offset %d)\n", path, e.Kind, e.Offset)
		}
	}

	stats := cc.Stats()
	fmt.Printf("\n%d accepted, %d rejected, %d already cached, %s scanned, %.0f%% hit rate\n",
		accepted, rejected, cached, humanize.Bytes(totalBytes), stats.HitRate()*100)
	return nil
}

func corpusStatsCommand(c *cli.Context) error {
	dir := c.String("dir")
	provider, err := localdisk.New(dir)
	if err != nil {
		return fmt.Errorf("opening corpus directory: %w", err)
	}
	ctx := context.Background()
	defer provider.Close(ctx)

	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("reading corpus directory: %w", err)
	}

	var total, accepted, rejected int
	var totalBytes uint64
	for _, de := range entries {
		if de.IsDir() || filepath.Ext(de.Name()) != ".bin" {
			continue
		}
		info, err := de.Info()
		if err != nil {
			continue
		}
		totalBytes += uint64(info.Size())

		key := strings.TrimSuffix(de.Name(), ".bin")
		raw, ok, err := provider.Get(ctx, key)
		if err != nil || !ok {
			continue
		}
		e, err := corpus.DecodeEntry(raw, nil)
		if err != nil {
			continue
		}
		total++
		if e.Accepted {
			accepted++
		} else {
			rejected++
		}
	}

	fmt.Printf("%s: %d entries, %s on disk, %d accepted, %d rejected\n",
		dir, total, humanize.Bytes(totalBytes), accepted, rejected)
	return nil
}
