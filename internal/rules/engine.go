package rules

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/backmassage/pdfsort/internal/naming"
)

// Decision is the action chosen for one document.
type Decision struct {
	Rule     string // Name of the matched rule.
	FileName string // Rendered and sanitized destination filename.
	DestDir  string // Destination folder, already expanded and resolved.
	DestPath string // DestDir joined with FileName.
	Renamed  bool   // The rule carried a rename pattern.
	Relocate bool   // The rule carried a move_to target.
}

// Engine evaluates an immutable, ordered rule list. The first rule whose
// conditions hold decides; later rules are never consulted.
type Engine struct {
	rules   []Rule
	homeDir func() (string, error)
}

// NewEngine wraps an already compiled rule list (see [Load] / [Compile]).
func NewEngine(list []Rule) *Engine {
	cp := make([]Rule, len(list))
	copy(cp, list)
	return &Engine{rules: cp, homeDir: os.UserHomeDir}
}

// Len returns the number of loaded rules.
func (en *Engine) Len() int { return len(en.rules) }

// Match returns the first rule matching the document, or false.
func (en *Engine) Match(path, text string) (*Rule, bool) {
	for i := range en.rules {
		if Matches(path, text, &en.rules[i]) {
			return &en.rules[i], true
		}
	}
	return nil, false
}

// Decide picks the first matching rule and renders its actions. sourceDir
// is the folder being processed; relative move_to targets resolve against
// it, and it is the destination when the rule has no move_to.
func (en *Engine) Decide(path, text, sourceDir string, f naming.Fields) (Decision, bool) {
	r, ok := en.Match(path, text)
	if !ok {
		return Decision{}, false
	}

	d := Decision{Rule: r.Name, FileName: filepath.Base(path), DestDir: sourceDir}
	if r.Actions.RenamePattern != "" {
		d.FileName = naming.Render(r.Actions.RenamePattern, f)
		d.Renamed = true
	}
	if r.Actions.MoveTo != "" {
		d.DestDir = en.resolveDir(naming.ExpandDir(r.Actions.MoveTo, f), sourceDir)
		d.Relocate = true
	}
	d.DestPath = filepath.Join(d.DestDir, d.FileName)
	return d, true
}

// resolveDir anchors a move_to value: "/..." is absolute, "~" and "~/..."
// are under the home directory, anything else (including "~user") is
// relative to sourceDir.
func (en *Engine) resolveDir(target, sourceDir string) string {
	switch {
	case strings.HasPrefix(target, "/"):
		return filepath.Clean(target)
	case target == "~" || strings.HasPrefix(target, "~/"):
		home, err := en.homeDir()
		if err != nil || home == "" {
			// No home to anchor to; keep the folder next to the source.
			return filepath.Join(sourceDir, strings.TrimPrefix(strings.TrimPrefix(target, "~"), "/"))
		}
		return filepath.Join(home, strings.TrimPrefix(target, "~"))
	default:
		return filepath.Join(sourceDir, target)
	}
}
