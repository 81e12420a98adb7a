package pdftext

import (
	"context"
	"fmt"
	"io"

	"github.com/ledongthuc/pdf"
)

// Native extracts text with the pure Go ledongthuc/pdf reader. It copes
// with simple documents but misses text in some encodings.
type Native struct{}

func NewNative() Native { return Native{} }

func (Native) Name() string { return "native" }

func (Native) Extract(ctx context.Context, path string) (text string, err error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	// The parser panics on some malformed files.
	defer func() {
		if r := recover(); r != nil {
			text, err = "", fmt.Errorf("parse %q: %v", path, r)
		}
	}()

	f, r, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("open %q: %w", path, err)
	}
	defer f.Close()

	plain, err := r.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("read text of %q: %w", path, err)
	}
	b, err := io.ReadAll(plain)
	if err != nil {
		return "", fmt.Errorf("read text of %q: %w", path, err)
	}
	return string(b), nil
}
