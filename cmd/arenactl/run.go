package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/arenakit/arenakit/arena"
	"github.com/arenakit/arenakit/arena/printer"
)

var (
	runPayloads bool
)

func init() {
	cmd := newRunCmd()
	cmd.Flags().BoolVar(&runPayloads, "payloads", false, "Include payload previews in block listings")
	rootCmd.AddCommand(cmd)
}

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run <script>",
		Short: "Run an allocation script against a fresh arena",
		Long: `The run command executes an allocation script line by line against a
fresh arena and prints whatever output the script requests. Blank lines are
skipped and '#' starts a comment.

Directives:
  init <bytes>    create the arena store (must come first, multiple of 4)
  alloc <bytes>   allocate a block; allocations are numbered from 1
  free <n>        release allocation number n
  report          print the classic block-list table
  blocks          print the block listing (honors --json and --payloads)
  summary         print byte totals and allocator counters (honors --json)

Example:
  arenactl run scenario.txt
  arenactl run scenario.txt --json
  arenactl run scenario.txt --payloads --verbose`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRun(args)
		},
	}
	return cmd
}

func runRun(args []string) error {
	path := args[0]

	printVerbose("Running script: %s\n", path)

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open script: %w", err)
	}
	defer f.Close()

	return execScript(f)
}

// execScript drives an arena from the script text. Every failure carries
// the 1-based line number it happened on.
func execScript(r io.Reader) error {
	var (
		a    *arena.Arena
		refs []arena.Ref
	)
	defer func() {
		if a != nil {
			_ = a.Close()
		}
	}()

	opts := printer.DefaultOptions()
	if jsonOut {
		opts.Format = printer.FormatJSON
	}
	opts.ShowPayloads = runPayloads

	scanner := bufio.NewScanner(r)
	lineno := 0
	for scanner.Scan() {
		lineno++
		line := scanner.Text()
		if i := strings.IndexByte(line, '#'); i >= 0 {
			line = line[:i]
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}

		directive := fields[0]
		if a == nil && directive != "init" {
			return fmt.Errorf("line %d: %q before init", lineno, directive)
		}

		switch directive {
		case "init":
			n, err := directiveArg(fields, lineno)
			if err != nil {
				return err
			}
			if a != nil {
				return fmt.Errorf("line %d: store already initialized", lineno)
			}
			a = arena.New()
			if err := a.InitBuffer(make([]byte, n)); err != nil {
				return fmt.Errorf("line %d: init %d: %w", lineno, n, err)
			}
			printVerbose("init: %d byte store\n", n)

		case "alloc":
			n, err := directiveArg(fields, lineno)
			if err != nil {
				return err
			}
			ref, _, err := a.Alloc(n)
			if err != nil {
				return fmt.Errorf("line %d: alloc %d: %w", lineno, n, err)
			}
			refs = append(refs, ref)
			printVerbose("alloc %d -> allocation #%d (ref 0x%08X)\n", n, len(refs), ref)

		case "free":
			i, err := directiveArg(fields, lineno)
			if err != nil {
				return err
			}
			if i < 1 || i > len(refs) {
				return fmt.Errorf("line %d: free %d: no such allocation", lineno, i)
			}
			if err := a.Free(refs[i-1]); err != nil {
				return fmt.Errorf("line %d: free %d: %w", lineno, i, err)
			}
			printVerbose("free #%d (ref 0x%08X)\n", i, refs[i-1])

		case "report":
			if err := a.Report(os.Stdout); err != nil {
				return fmt.Errorf("line %d: report: %w", lineno, err)
			}

		case "blocks":
			p := printer.New(a, os.Stdout, opts)
			if err := p.PrintBlocks(); err != nil {
				return fmt.Errorf("line %d: blocks: %w", lineno, err)
			}

		case "summary":
			p := printer.New(a, os.Stdout, opts)
			if err := p.PrintSummary(); err != nil {
				return fmt.Errorf("line %d: summary: %w", lineno, err)
			}

		default:
			return fmt.Errorf("line %d: unknown directive %q", lineno, directive)
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read script: %w", err)
	}
	return nil
}

// directiveArg parses the single numeric argument of a directive.
func directiveArg(fields []string, lineno int) (int, error) {
	if len(fields) != 2 {
		return 0, fmt.Errorf("line %d: %s takes exactly one argument", lineno, fields[0])
	}
	n, err := strconv.Atoi(fields[1])
	if err != nil {
		return 0, fmt.Errorf("line %d: %s %q: not a number", lineno, fields[0], fields[1])
	}
	return n, nil
}
