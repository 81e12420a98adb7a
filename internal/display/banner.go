// Package display renders the startup banner and human-readable values.
package display

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"

	"github.com/backmassage/pdfsort/internal/term"
)

const bannerArt = `             _  __                _
 _ __   __| |/ _|___  ___  _ __| |_
| '_ \ / _` + "`" + ` | |_/ __|/ _ \| '__| __|
| |_) | (_| |  _\__ \ (_) | |  | |_
| .__/ \__,_|_| |___/\___/|_|   \__|
|_|`

var bannerStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(lipgloss.Color("13")).
	MarginBottom(1)

// PrintBanner writes the ASCII art banner and version line to w; styled
// when colors are enabled.
func PrintBanner(w io.Writer, version string) {
	art := bannerArt + "\n  v" + version
	if term.Enabled() {
		fmt.Fprintln(w, bannerStyle.Render(art))
		return
	}
	fmt.Fprintln(w, art)
	fmt.Fprintln(w)
}
