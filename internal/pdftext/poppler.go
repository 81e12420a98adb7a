package pdftext

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

const pdftotextBin = "pdftotext"

// ErrToolNotFound means pdftotext is not installed or not on PATH.
var ErrToolNotFound = errors.New("pdftotext not found in PATH")

// CommandRunner executes an external program and returns its stdout.
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

type execRunner struct{}

func (execRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return nil, fmt.Errorf("%w: %s", err, msg)
		}
		return nil, err
	}
	return out, nil
}

// Poppler extracts text by running `pdftotext -layout -enc UTF-8 <path> -`.
type Poppler struct {
	runner CommandRunner
}

// NewPoppler returns a Poppler extractor that runs the real binary.
func NewPoppler() *Poppler {
	return &Poppler{runner: execRunner{}}
}

// NewWithRunner returns a Poppler extractor using runner, for tests.
func NewWithRunner(runner CommandRunner) *Poppler {
	return &Poppler{runner: runner}
}

func (p *Poppler) Name() string { return pdftotextBin }

func (p *Poppler) Extract(ctx context.Context, path string) (string, error) {
	out, err := p.runner.Run(ctx, pdftotextBin, "-layout", "-enc", "UTF-8", path, "-")
	if err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return "", ErrToolNotFound
		}
		return "", fmt.Errorf("pdftotext failed for %q: %w", path, err)
	}
	// Pages are separated by form feeds.
	return strings.ReplaceAll(string(out), "\f", "\n"), nil
}

// CheckAvailable reports whether pdftotext can be found.
func CheckAvailable() error {
	if _, err := exec.LookPath(pdftotextBin); err != nil {
		return ErrToolNotFound
	}
	return nil
}

// InstallInstructions tells the user how to get pdftotext.
func InstallInstructions() string {
	return `pdftotext is part of poppler:
  macOS:          brew install poppler
  Debian/Ubuntu:  sudo apt install poppler-utils
  Fedora:         sudo dnf install poppler-utils
  Arch:           sudo pacman -S poppler`
}
