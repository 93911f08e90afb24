package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/peterh/liner"

	"github.com/zlogcls/zlog/internal/host"
	"github.com/zlogcls/zlog/internal/zlogcfg"
	"github.com/zlogcls/zlog/pkg/client"
)

// runShell opens an interactive prompt over the configured snapshot,
// grounded on cmd/sloty/main.go's liner-based REPL. Every accepted command
// flushes the snapshot immediately, so a crash mid-session leaves the
// snapshot as of the last accepted command for the next zlogctl invocation.
// The shell holds the snapshot's exclusive lock for the whole session, so
// other zlogctl invocations against the same snapshot wait until it exits.
func runShell(cfg zlogcfg.Config, stdout, stderr *os.File) int {
	fm, err := host.OpenFileMap(cfg.SnapshotPath)
	if err != nil {
		fmt.Fprintf(stderr, "open snapshot: %v\n", err)
		return 1
	}
	defer fm.Close()

	c := client.New(fm)

	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)

	fmt.Fprintf(stdout, "zlogctl shell, snapshot %s (type 'help' for commands, 'exit' to quit)\n", cfg.SnapshotPath)

	for {
		input, err := line.Prompt("zlog> ")
		if err != nil {
			if err == liner.ErrPromptAborted || err == io.EOF {
				return 0
			}
			fmt.Fprintln(stderr, err)
			return 1
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		line.AppendHistory(input)

		fields := strings.Fields(input)
		switch fields[0] {
		case "exit", "quit", "q":
			return 0
		case "help":
			printUsage(stdout)
			continue
		}

		status, err := runCommand(c, fields, stdout)
		if err != nil {
			fmt.Fprintln(stderr, err)
			continue
		}

		if flushErr := fm.Flush(); flushErr != nil {
			fmt.Fprintf(stderr, "flush snapshot: %v\n", flushErr)
			continue
		}

		fmt.Fprintln(stdout, status)
	}
}
