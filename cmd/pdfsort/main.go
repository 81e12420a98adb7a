// Command pdfsort files PDFs by rule: it reads each document's text,
// matches it against the rules file, then renames and moves it.
//
// It runs once over a folder, or watches it with --watch. Subcommands
// provide diagnostics (check), an extension sorter (organize), and rule
// bootstrapping (init-rules).
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

// version and commit are injected at build time via -ldflags
// "-X main.version=... -X main.commit=...".
var (
	version = "0.3.0"
	commit  = "unknown"
)

// errFailed signals a non-zero exit whose cause was already logged.
var errFailed = errors.New("run failed")

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	root := newRootCmd(newApp())
	root.SetArgs(args)
	if err := root.Execute(); err != nil {
		if !errors.Is(err, errFailed) {
			fmt.Fprintf(os.Stderr, "pdfsort: %v\n", err)
		}
		return 1
	}
	return 0
}

// warner is the part of the logger signal handling needs.
type warner interface {
	Warn(string, ...interface{})
}

// withSignals cancels the returned context on SIGINT/SIGTERM so runs stop
// between files, never in the middle of a move.
func withSignals(parent context.Context, log warner) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		select {
		case <-sigCh:
			log.Warn("Received interrupt, finishing current file…")
			cancel()
		case <-ctx.Done():
		}
		signal.Stop(sigCh)
	}()
	return ctx, cancel
}
