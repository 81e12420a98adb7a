package pdftext

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Extractor returns the concatenated text of every page of a PDF.
type Extractor interface {
	Extract(ctx context.Context, path string) (string, error)
	Name() string
}

// Mode selects the extractor used by [New].
type Mode string

const (
	ModeAuto      Mode = "auto"
	ModePdftotext Mode = "pdftotext"
	ModeNative    Mode = "native"
)

// ParseMode validates a --extractor value.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(s))); m {
	case ModeAuto, ModePdftotext, ModeNative:
		return m, nil
	default:
		return "", fmt.Errorf("unknown extractor %q (want auto, pdftotext or native)", s)
	}
}

// New builds the extractor for mode. ModePdftotext fails with
// ErrToolNotFound when pdftotext is not on PATH; ModeAuto degrades to the
// native parser instead.
func New(mode Mode) (Extractor, error) {
	switch mode {
	case ModePdftotext:
		if err := CheckAvailable(); err != nil {
			return nil, err
		}
		return NewPoppler(), nil
	case ModeNative:
		return NewNative(), nil
	case ModeAuto, "":
		if CheckAvailable() == nil {
			return Chain{NewPoppler(), NewNative()}, nil
		}
		return NewNative(), nil
	default:
		return nil, fmt.Errorf("unknown extractor mode %q", mode)
	}
}

// Chain tries each extractor in order. The first non-empty text wins; if
// every extractor fails the errors are joined.
type Chain []Extractor

func (c Chain) Name() string {
	names := make([]string, len(c))
	for i, e := range c {
		names[i] = e.Name()
	}
	return strings.Join(names, "+")
}

func (c Chain) Extract(ctx context.Context, path string) (string, error) {
	var errs []error
	for _, e := range c {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		text, err := e.Extract(ctx, path)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", e.Name(), err))
			continue
		}
		if strings.TrimSpace(text) != "" {
			return text, nil
		}
	}
	if len(errs) == len(c) && len(errs) > 0 {
		return "", errors.Join(errs...)
	}
	return "", nil
}
