// Package rules holds the rule model, the rules file store, the matcher and
// the first-match-wins engine.
package rules

import "github.com/google/cel-go/cel"

// Rule is one configured automation policy: a conjunction of conditions and
// the actions applied to the first document that satisfies them.
type Rule struct {
	Name        string     `json:"name" yaml:"name" toml:"name"`
	Description string     `json:"description,omitempty" yaml:"description,omitempty" toml:"description,omitempty"`
	Conditions  Conditions `json:"conditions" yaml:"conditions" toml:"conditions"`
	Actions     Actions    `json:"actions" yaml:"actions" toml:"actions"`

	program cel.Program // compiled Conditions.Expression, nil when unset
}

// Conditions are ANDed together. Empty fields are absent; a rule with no
// conditions matches every file.
type Conditions struct {
	// Extension is compared case-insensitively to the file suffix without the dot.
	Extension string `json:"extension,omitempty" yaml:"extension,omitempty" toml:"extension,omitempty"`
	// ContentContains keywords must all appear in the text, ignoring case.
	ContentContains []string `json:"content_contains,omitempty" yaml:"content_contains,omitempty" toml:"content_contains,omitempty"`
	// Expression is an optional CEL predicate over text, name, stem and ext.
	Expression string `json:"expression,omitempty" yaml:"expression,omitempty" toml:"expression,omitempty"`
}

// Actions describe what happens to a matched file. Empty fields are absent.
type Actions struct {
	// RenamePattern is a filename template; absent keeps the original name.
	RenamePattern string `json:"rename_pattern,omitempty" yaml:"rename_pattern,omitempty" toml:"rename_pattern,omitempty"`
	// MoveTo is a destination folder template; absent renames in place.
	MoveTo string `json:"move_to,omitempty" yaml:"move_to,omitempty" toml:"move_to,omitempty"`
}

// IsEmpty reports whether no condition is configured.
func (c Conditions) IsEmpty() bool {
	return c.Extension == "" && len(c.ContentContains) == 0 && c.Expression == ""
}
