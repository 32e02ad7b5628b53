// Command ckptsnap takes a checkpoint of its own process (goroutines as
// managed threads, OS threads as native threads, plus every runtime
// enumeration) and prints the resulting pool directory.
package main

import (
	"encoding/binary"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/andreyvit/ckpt"
	"github.com/andreyvit/ckpt/procsnap"
	"github.com/andreyvit/ckpt/vmthread"
)

const (
	flagCompress      = "compress"
	flagHex           = "hex"
	flagVerbose       = "verbose"
	flagNoNative      = "no-native"
	flagOut           = "out"
	flagCheckLockRank = "check-lock-rank"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "ckptsnap",
		Usage: "write a constant pool checkpoint of this process",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  flagCompress,
				Usage: "zstd-compress the payload",
			},
			&cli.BoolFlag{
				Name:  flagHex,
				Usage: "print a hex dump of the payload",
			},
			&cli.BoolFlag{
				Name:    flagVerbose,
				Aliases: []string{"v"},
				Usage:   "enable debug logging",
			},
			&cli.BoolFlag{
				Name:  flagNoNative,
				Usage: "skip OS threads",
			},
			&cli.BoolFlag{
				Name:  flagCheckLockRank,
				Usage: "check lock ordering of every thread",
			},
			&cli.StringFlag{
				Name:    flagOut,
				Aliases: []string{"o"},
				Usage:   "write the envelope to `FILE`",
			},
		},
		Before: func(c *cli.Context) error {
			level := slog.LevelInfo
			if c.Bool(flagVerbose) {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(c.App.ErrWriter, &slog.HandlerOptions{Level: level})))
			return nil
		},
		Action: snapshotAction,
	}
}

func snapshotAction(c *cli.Context) error {
	ctx := c.Context
	logger := slog.Default()
	verbose := c.Bool(flagVerbose)

	reg := vmthread.NewRegistry(vmthread.Options{
		Context:       ctx,
		Logger:        logger,
		Verbose:       verbose,
		CheckLockRank: c.Bool(flagCheckLockRank),
	})
	stats, err := procsnap.Populate(reg, nil, procsnap.Options{
		Context:  ctx,
		Logger:   logger,
		Verbose:  verbose,
		NoNative: c.Bool(flagNoNative),
	})
	if err != nil {
		logger.LogAttrs(ctx, slog.LevelWarn, "OS threads unavailable", slog.Any("err", err))
	}
	if stats.Current == nil {
		return errors.New("current goroutine not found in the stack dump")
	}
	logger.LogAttrs(ctx, slog.LevelInfo, "registry populated", slog.Int("goroutines", stats.Goroutines), slog.Int("os_threads", stats.OSThreads), slog.Int("groups", stats.Groups))

	compression := ckpt.NoCompression
	if c.Bool(flagCompress) {
		compression = ckpt.ZstdCompression
	}
	cp := ckpt.New(ckpt.Options{
		Context:     ctx,
		Logger:      logger,
		Compression: compression,
		Verbose:     verbose,
	})
	set := ckpt.StandardSet(reg, stats.Current)
	cp.SerializeAll(set)
	cp.Serialize(ckpt.TypeThreadSelf, set.Lookup(ckpt.TypeThreadSelf))

	data, err := cp.Finish()
	if err != nil {
		return err
	}

	w := c.App.Writer
	fmt.Fprint(w, ckpt.DumpPools(cp.Pools()))
	fmt.Fprintf(w, "\npayload: %d bytes, envelope: %d bytes, checksum: %016x\n", len(cp.Payload()), len(data), binary.LittleEndian.Uint64(data[ckpt.EnvelopeHeaderSize-8:]))
	if c.Bool(flagHex) {
		fmt.Fprintln(w)
		fmt.Fprint(w, ckpt.HexDump(cp.Payload(), -1))
	}

	if out := c.String(flagOut); out != "" {
		if err := os.WriteFile(out, data, 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", out, err)
		}
		logger.LogAttrs(ctx, slog.LevelInfo, "envelope written", slog.String("file", out))
	}
	return nil
}
