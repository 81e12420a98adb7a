package rules

import (
	"path/filepath"
	"strings"
)

// Matches reports whether the file at path with extracted text satisfies
// every condition of r. Conditions are checked in order (extension,
// keywords, expression) and the first failure stops evaluation.
func Matches(path, text string, r *Rule) bool {
	c := r.Conditions

	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	if c.Extension != "" && ext != strings.ToLower(c.Extension) {
		return false
	}

	if len(c.ContentContains) > 0 {
		lower := strings.ToLower(text)
		for _, kw := range c.ContentContains {
			if !strings.Contains(lower, strings.ToLower(kw)) {
				return false
			}
		}
	}

	if c.Expression != "" {
		if r.program == nil {
			return false
		}
		name := filepath.Base(path)
		return evalExpression(r.program, map[string]any{
			"text": text,
			"name": name,
			"stem": strings.TrimSuffix(name, filepath.Ext(name)),
			"ext":  ext,
		})
	}
	return true
}
