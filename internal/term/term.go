// Package term answers whether pdfsort is talking to a person.
//
// The answer drives ANSI colors on log lines and the banner, and whether
// the folder prompt may read stdin. [Configure] settles colors once at
// startup; the level colors are empty strings while colors are off.
package term

import (
	"os"
	"strings"

	xterm "golang.org/x/term"

	"github.com/backmassage/pdfsort/internal/config"
)

// Colors per log level, and the sequence that ends them.
var (
	Info    string
	Success string
	Warn    string
	Error   string
	Debug   string
	Reset   string
)

var palette = []struct {
	dst  *string
	code string
}{
	{&Info, "\033[1;94m"},
	{&Success, "\033[1;92m"},
	{&Warn, "\033[1;93m"},
	{&Error, "\033[1;91m"},
	{&Debug, "\033[1;96m"},
	{&Reset, "\033[0m"},
}

// Configure turns the level colors on or off for mode.
func Configure(mode config.ColorMode) {
	on := resolve(mode)
	for _, p := range palette {
		*p.dst = ""
		if on {
			*p.dst = p.code
		}
	}
}

// Enabled reports whether colors are on.
func Enabled() bool { return Reset != "" }

// resolve: auto means stdout is a terminal, NO_COLOR (https://no-color.org)
// is unset and TERM is not dumb.
func resolve(mode config.ColorMode) bool {
	switch mode {
	case config.ColorAlways:
		return true
	case config.ColorNever:
		return false
	}
	return IsTerminal(os.Stdout) &&
		os.Getenv("NO_COLOR") == "" &&
		!strings.EqualFold(os.Getenv("TERM"), "dumb")
}

// IsTerminal reports whether f is attached to a TTY. A nil file is not.
func IsTerminal(f *os.File) bool {
	return f != nil && xterm.IsTerminal(int(f.Fd()))
}
