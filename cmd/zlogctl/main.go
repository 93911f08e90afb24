// zlogctl is a demo command-line harness for the epoch-sealed log core. It
// drives one object's seven operations against a disk-backed snapshot
// (internal/host.FileMap) so the core is exercisable without a real
// storage-node host, grounded on cmd/tk/main.go's exit-code shape (run
// returns the code main passes to os.Exit). It installs no signal handler
// and reads no environment variables.
package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/pflag"

	"github.com/zlogcls/zlog/internal/host"
	"github.com/zlogcls/zlog/internal/zlog"
	"github.com/zlogcls/zlog/internal/zlogcfg"
	"github.com/zlogcls/zlog/pkg/client"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr *os.File) int {
	flags := pflag.NewFlagSet("zlogctl", pflag.ContinueOnError)
	configPath := flags.StringP("config", "c", "", "path to .zlogctl.json (default: ./"+zlogcfg.ConfigFileName+")")
	snapshotOverride := flags.StringP("snapshot", "s", "", "override the configured snapshot path")

	if err := flags.Parse(args); err != nil {
		fmt.Fprintln(stderr, err)
		return 2
	}

	cfg, err := zlogcfg.Load(*configPath)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	if *snapshotOverride != "" {
		cfg.SnapshotPath = *snapshotOverride
	}

	rest := flags.Args()
	if len(rest) == 0 {
		printUsage(stderr)
		return 2
	}

	if rest[0] == "shell" {
		return runShell(cfg, stdout, stderr)
	}

	fm, err := host.OpenFileMap(cfg.SnapshotPath)
	if err != nil {
		fmt.Fprintf(stderr, "open snapshot: %v\n", err)
		return 1
	}
	defer fm.Close()

	c := client.New(fm)

	status, err := runCommand(c, rest, stdout)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 2
	}

	if flushErr := fm.Flush(); flushErr != nil {
		fmt.Fprintf(stderr, "flush snapshot: %v\n", flushErr)
		return 1
	}

	fmt.Fprintln(stdout, status)
	return 0
}

func printUsage(stderr *os.File) {
	fmt.Fprintln(stderr, `usage: zlogctl [-c config] [-s snapshot] <command> [args...]

commands:
  seal <epoch>
  write <epoch> <position> <data>
  fill <epoch> <position>
  read <epoch> <position>
  max-position <epoch>
  get-projection
  set-projection
  shell                 interactive REPL over the configured snapshot`)
}

func runCommand(c *client.Client, args []string, stdout *os.File) (fmt.Stringer, error) {
	switch args[0] {
	case "seal":
		epoch, err := parseU64(args, 1, "epoch")
		if err != nil {
			return nil, err
		}
		return c.Seal(epoch), nil

	case "write":
		epoch, err := parseU64(args, 1, "epoch")
		if err != nil {
			return nil, err
		}
		position, err := parseU64(args, 2, "position")
		if err != nil {
			return nil, err
		}
		data := ""
		if len(args) > 3 {
			data = args[3]
		}
		return c.Write(epoch, position, []byte(data)), nil

	case "fill":
		epoch, err := parseU64(args, 1, "epoch")
		if err != nil {
			return nil, err
		}
		position, err := parseU64(args, 2, "position")
		if err != nil {
			return nil, err
		}
		return c.Fill(epoch, position), nil

	case "read":
		epoch, err := parseU64(args, 1, "epoch")
		if err != nil {
			return nil, err
		}
		position, err := parseU64(args, 2, "position")
		if err != nil {
			return nil, err
		}
		data, status := c.Read(epoch, position)
		if data != nil {
			fmt.Fprintln(stdout, string(data))
		}
		return status, nil

	case "max-position":
		epoch, err := parseU64(args, 1, "epoch")
		if err != nil {
			return nil, err
		}
		position, status := c.MaxPosition(epoch)
		if status == zlog.StatusOK {
			fmt.Fprintln(stdout, position)
		}
		return status, nil

	case "get-projection":
		value, status := c.GetProjection()
		if status == zlog.StatusOK {
			fmt.Fprintln(stdout, value)
		}
		return status, nil

	case "set-projection":
		return c.SetProjection(), nil

	default:
		return nil, fmt.Errorf("unknown command %q", args[0])
	}
}

func parseU64(args []string, idx int, name string) (uint64, error) {
	if idx >= len(args) {
		return 0, fmt.Errorf("missing %s argument", name)
	}
	v, err := strconv.ParseUint(args[idx], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", name, args[idx], err)
	}
	return v, nil
}
