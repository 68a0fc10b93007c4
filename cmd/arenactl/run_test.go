package main

import (
	"strings"
	"testing"
)

func TestRunCommand(t *testing.T) {
	tests := []struct {
		name           string
		script         string
		json           bool
		payloads       bool
		wantErr        string
		wantContain    []string
		wantNotContain []string
		wantJSON       bool
	}{
		{
			name: "full scenario",
			script: `# carve two blocks, release the first, inspect
init 256
alloc 100
alloc 60
free 1
report
summary
`,
			wantContain: []string{
				"Block list",
				"Total busy size = 72",
				"Total free size = 184",
				"Total size = 256",
				"Blocks: 3 (1 busy, 2 free)",
			},
		},
		{
			name: "blocks as JSON",
			script: `init 256
alloc 16
blocks
`,
			json:        true,
			wantJSON:    true,
			wantContain: []string{`"arena_bytes": 256`, `"status": "Busy"`},
		},
		{
			name: "payload previews",
			script: `init 256
alloc 16
blocks
`,
			payloads:       true,
			wantContain:    []string{"#1 Busy", "data: 00000000000000000000000000000000 |................|"},
			wantNotContain: []string{"truncated"},
		},
		{
			name:    "free unknown ordinal",
			script:  "init 256\nfree 9\n",
			wantErr: "line 2: free 9: no such allocation",
		},
		{
			name:    "alloc before init",
			script:  "alloc 10\n",
			wantErr: `line 1: "alloc" before init`,
		},
		{
			name:    "double init",
			script:  "init 256\ninit 256\n",
			wantErr: "line 2: store already initialized",
		},
		{
			name:    "unknown directive",
			script:  "init 256\nshrink 10\n",
			wantErr: `line 2: unknown directive "shrink"`,
		},
		{
			name:    "non-numeric argument",
			script:  "init lots\n",
			wantErr: `line 1: init "lots": not a number`,
		},
		{
			name:    "exhaustion surfaces the line",
			script:  "init 256\nalloc 4096\n",
			wantErr: "line 2: alloc 4096",
		},
		{
			name: "comments and blank lines skipped",
			script: `
# preamble

init 256   # trailing comment
summary
`,
			wantContain: []string{"Blocks: 1 (0 busy, 1 free)"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Reset flags
			quiet = false
			verbose = false
			jsonOut = tt.json
			runPayloads = tt.payloads

			args := []string{writeScript(t, tt.script)}

			output, err := captureOutput(t, func() error {
				return runRun(args)
			})

			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Errorf("runRun() error = %v, want containing %q", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Errorf("runRun() error = %v", err)
				return
			}

			if tt.wantJSON {
				assertJSON(t, output)
			}

			assertContains(t, output, tt.wantContain)
			assertNotContains(t, output, tt.wantNotContain)
		})
	}
}

func TestRunCommandMissingScript(t *testing.T) {
	quiet = false
	verbose = false
	jsonOut = false

	_, err := captureOutput(t, func() error {
		return runRun([]string{"no-such-script.txt"})
	})
	if err == nil || !strings.Contains(err.Error(), "failed to open script") {
		t.Errorf("expected open failure, got %v", err)
	}
}

func TestRunCommandVerboseTraces(t *testing.T) {
	quiet = false
	verbose = true
	jsonOut = false
	runPayloads = false

	args := []string{writeScript(t, "init 256\nalloc 20\nfree 1\n")}

	output, err := captureOutput(t, func() error {
		return runRun(args)
	})
	if err != nil {
		t.Fatalf("runRun() error = %v", err)
	}

	assertContains(t, output, []string{
		"init: 256 byte store",
		"alloc 20 -> allocation #1 (ref 0x0000000C)",
		"free #1 (ref 0x0000000C)",
	})

	verbose = false
}
