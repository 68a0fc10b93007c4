package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/arenakit/arenakit/arena"
)

var (
	fillSize      int
	fillFreeEvery int
)

func init() {
	cmd := newFillCmd()
	cmd.Flags().IntVar(&fillSize, "size", 65536, "Arena store size in bytes")
	cmd.Flags().IntVar(&fillFreeEvery, "free-every", 0, "After filling, release every Nth allocation to punch holes")
	rootCmd.AddCommand(cmd)
}

func newFillCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fill <blocksize>",
		Short: "Fill an arena with fixed-size blocks and measure fragmentation",
		Long: `The fill command allocates blocks of the given payload size until the
arena runs out of space, then optionally releases every Nth allocation to
punch holes. It reports how many blocks fit, how the bytes split between busy
and free, and whether a double-size request still fits afterwards.

Example:
  arenactl fill 64
  arenactl fill 64 --size 16384 --free-every 3
  arenactl fill 256 --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFill(args)
		},
	}
	return cmd
}

type fillResult struct {
	BlockSize   int    `json:"block_size"`
	StoreBytes  int    `json:"store_bytes"`
	Allocations int    `json:"allocations"`
	Holes       int    `json:"holes"`
	BusyBytes   int64  `json:"busy_bytes"`
	FreeBytes   int64  `json:"free_bytes"`
	LargestHole uint32 `json:"largest_hole"`
	DoubleFits  bool   `json:"double_fits"`
}

func runFill(args []string) error {
	blockSize, err := strconv.Atoi(args[0])
	if err != nil || blockSize <= 0 {
		return fmt.Errorf("invalid block size %q", args[0])
	}

	a := arena.New()
	if err := a.InitBuffer(make([]byte, fillSize)); err != nil {
		return fmt.Errorf("failed to initialize %d byte store: %w", fillSize, err)
	}
	defer a.Close()

	printVerbose("Filling %d byte store with %d byte blocks\n", fillSize, blockSize)

	// Allocate until the first-fit walk comes up empty.
	var refs []arena.Ref
	for {
		ref, _, err := a.Alloc(blockSize)
		if errors.Is(err, arena.ErrOutOfMemory) {
			break
		}
		if err != nil {
			return fmt.Errorf("allocation %d failed: %w", len(refs)+1, err)
		}
		refs = append(refs, ref)
	}

	// Punch holes by releasing every Nth allocation. The survivors pin
	// the holes apart so they cannot coalesce.
	holes := 0
	if fillFreeEvery > 0 {
		for i := fillFreeEvery - 1; i < len(refs); i += fillFreeEvery {
			if err := a.Free(refs[i]); err != nil {
				return fmt.Errorf("failed to free allocation %d: %w", i+1, err)
			}
			holes++
		}
	}

	snap, err := a.Snapshot()
	if err != nil {
		return err
	}

	result := fillResult{
		BlockSize:   blockSize,
		StoreBytes:  fillSize,
		Allocations: len(refs),
		Holes:       holes,
		BusyBytes:   snap.Totals.BusyBytes,
		FreeBytes:   snap.Totals.FreeBytes,
	}
	for _, b := range snap.Blocks {
		if b.Status == arena.Free && b.Size > result.LargestHole {
			result.LargestHole = b.Size
		}
	}

	// A doubled request probes whether the free bytes are usable or
	// scattered across holes too small to serve it.
	if ref, _, err := a.Alloc(2 * blockSize); err == nil {
		result.DoubleFits = true
		if err := a.Free(ref); err != nil {
			return fmt.Errorf("failed to release probe block: %w", err)
		}
	}

	if jsonOut {
		return printJSON(result)
	}

	printInfo("\nFill Results: %d byte blocks into %s\n", blockSize, formatBytes(int64(fillSize)))
	printInfo("%s\n\n", strings.Repeat("=", 40))
	printInfo("Allocations:\n")
	printInfo("  Blocks placed: %s\n", formatNumber(int64(result.Allocations)))
	printInfo("  Holes punched: %d\n", result.Holes)
	printInfo("\nBytes:\n")
	printInfo("  Busy: %s\n", formatBytes(result.BusyBytes))
	printInfo("  Free: %s\n", formatBytes(result.FreeBytes))
	printInfo("  Largest hole: %s\n", formatBytes(int64(result.LargestHole)))
	printInfo("\nProbe:\n")
	if result.DoubleFits {
		printInfo("  A %d byte request still fits\n", 2*blockSize)
	} else {
		printInfo("  A %d byte request no longer fits\n", 2*blockSize)
	}

	return nil
}

func formatBytes(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}

func formatNumber(n int64) string {
	str := fmt.Sprintf("%d", n)
	if len(str) <= 3 {
		return str
	}

	// Add commas
	var result strings.Builder
	for i, c := range str {
		if i > 0 && (len(str)-i)%3 == 0 {
			result.WriteRune(',')
		}
		result.WriteRune(c)
	}
	return result.String()
}
