package main

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/arenakit/arenakit/cmd/arenaview/logger"
)

const defaultArenaSize = 4096

func main() {
	// Parse flags first
	args := os.Args[1:]
	debugMode := false
	empty := false
	size := defaultArenaSize

	filteredArgs := make([]string, 0, len(args))
	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch {
		case arg == "--debug" || arg == "-d":
			debugMode = true
		case arg == "--empty" || arg == "-e":
			empty = true
		case arg == "--size" || arg == "-s":
			if i+1 >= len(args) {
				fmt.Fprintf(os.Stderr, "Error: %s needs a value\n", arg)
				os.Exit(1)
			}
			i++
			n, err := strconv.Atoi(args[i])
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error: bad arena size %q\n", args[i])
				os.Exit(1)
			}
			size = n
		case strings.HasPrefix(arg, "--size="):
			n, err := strconv.Atoi(strings.TrimPrefix(arg, "--size="))
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error: bad arena size %q\n", strings.TrimPrefix(arg, "--size="))
				os.Exit(1)
			}
			size = n
		default:
			filteredArgs = append(filteredArgs, arg)
		}
	}

	// Initialize logger (must be before any logging calls)
	if err := logger.Init(logger.Options{
		Enabled: debugMode,
		Level:   slog.LevelDebug,
	}); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to init logging: %v\n", err)
	}

	if len(filteredArgs) > 0 {
		if filteredArgs[0] == "--help" || filteredArgs[0] == "-h" {
			printHelp()
			os.Exit(0)
		}

		if filteredArgs[0] == "--version" || filteredArgs[0] == "-v" {
			fmt.Printf("arenaview %s\n", version)
			fmt.Printf("  commit: %s\n", commit)
			fmt.Printf("  built: %s\n", date)
			os.Exit(0)
		}

		printUsage()
		os.Exit(1)
	}

	logger.Info("starting arenaview", "size", size, "empty", empty, "debug", debugMode)

	// Create the TUI model, which maps and initializes the arena
	m, err := NewModel(size, !empty)
	if err != nil {
		logger.Error("arena init failed", "size", size, "error", err)
		fmt.Fprintf(os.Stderr, "Error: cannot initialize a %d byte arena: %v\n", size, err)
		os.Exit(1)
	}

	// Create the Bubbletea program
	p := tea.NewProgram(
		m,
		tea.WithAltScreen(),       // Use alternate screen buffer
		tea.WithMouseCellMotion(), // Enable mouse support
	)

	// Run the program
	finalModel, err := p.Run()
	if err != nil {
		logger.Error("TUI error", "error", err)
		fmt.Fprintf(os.Stderr, "Error running TUI: %v\n", err)
		os.Exit(1)
	}

	// Clean up resources
	if model, ok := finalModel.(Model); ok {
		if err := model.Close(); err != nil {
			// Log error but don't fail - cleanup is best effort
			logger.Warn("error closing resources", "error", err)
		}
	}

	logger.Info("arenaview exited normally")
}

func printUsage() {
	fmt.Fprintf(os.Stderr, "Usage: arenaview [options]\n")
	fmt.Fprintf(os.Stderr, "Try 'arenaview --help' for more information.\n")
}

func printHelp() {
	fmt.Println("arenaview - Interactive TUI for a fixed-size arena allocator")
	fmt.Println()
	fmt.Println("USAGE:")
	fmt.Println("  arenaview [options]")
	fmt.Println()
	fmt.Println("DESCRIPTION:")
	fmt.Println("  Maps a private arena and launches an interactive terminal UI for")
	fmt.Println("  exercising it: allocate payloads, release blocks, and watch the")
	fmt.Println("  block list split and coalesce in place.")
	fmt.Println()
	fmt.Println("  Features:")
	fmt.Println("    - Block list with live sizes and offsets")
	fmt.Println("    - Proportional arena map (busy/free)")
	fmt.Println("    - Allocator counters (allocs, frees, splits, merges)")
	fmt.Println("    - Per-block detail with payload hex dump")
	fmt.Println("    - Copy the block table to the clipboard")
	fmt.Println()
	fmt.Println("  Navigation:")
	fmt.Println("    ↑/k, ↓/j    Navigate up/down")
	fmt.Println("    a           Allocate (type a size, then Enter)")
	fmt.Println("    x           Free the selected block")
	fmt.Println("    Enter       Show block details")
	fmt.Println("    c           Copy the block table")
	fmt.Println("    ?           Show help")
	fmt.Println("    q           Quit")
	fmt.Println()
	fmt.Println("OPTIONS:")
	fmt.Println("  -s, --size N   Arena size in bytes (default 4096)")
	fmt.Println("  -e, --empty    Start with a single free block, no demo layout")
	fmt.Println("  -d, --debug    Enable debug logging to ~/.arenaview/logs/")
	fmt.Println("  -h, --help     Show this help message")
	fmt.Println("  -v, --version  Show version information")
	fmt.Println()
	fmt.Println("EXAMPLES:")
	fmt.Println("  arenaview")
	fmt.Println("  arenaview --size 65536 --empty")
	fmt.Println()
	fmt.Println("For non-interactive operations, use the 'arenactl' command instead.")
}
