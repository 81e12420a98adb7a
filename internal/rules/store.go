package rules

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Sentinel errors returned by the store.
var (
	// ErrConfigurationMissing means the rules file does not exist. LoadOrCreate
	// recovers from it by writing the sample rules.
	ErrConfigurationMissing = errors.New("rules file not found")

	// ErrMalformedRules means the rules file exists but cannot be used.
	ErrMalformedRules = errors.New("malformed rules file")
)

// Format is a rules file encoding, chosen by file extension.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// FormatFor maps a path to its encoding. Unknown extensions are JSON.
func FormatFor(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	case ".toml":
		return FormatTOML
	default:
		return FormatJSON
	}
}

// tomlDocument wraps the rule list; TOML has no top-level arrays.
type tomlDocument struct {
	Rules []Rule `toml:"rules"`
}

// Load reads and compiles the rules at path. A missing file yields
// ErrConfigurationMissing; undecodable content or a bad expression yields
// ErrMalformedRules.
func Load(path string) ([]Rule, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrConfigurationMissing, path)
	}
	if err != nil {
		return nil, fmt.Errorf("read rules %s: %w", path, err)
	}

	list, err := Decode(data, FormatFor(path))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrMalformedRules, path, err)
	}
	if err := Compile(list); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrMalformedRules, path, err)
	}
	return list, nil
}

// LoadOrCreate is Load, except that a missing file is first populated with
// [SampleRules]. created reports whether that happened.
func LoadOrCreate(path string) (list []Rule, created bool, err error) {
	list, err = Load(path)
	if !errors.Is(err, ErrConfigurationMissing) {
		return list, false, err
	}
	if err := Save(path, SampleRules()); err != nil {
		return nil, false, err
	}
	list, err = Load(path)
	return list, err == nil, err
}

// Decode parses rules data in the given format without compiling it.
func Decode(data []byte, format Format) ([]Rule, error) {
	var list []Rule
	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(data, &list); err != nil {
			return nil, err
		}
	case FormatTOML:
		var doc tomlDocument
		if err := toml.Unmarshal(data, &doc); err != nil {
			return nil, err
		}
		list = doc.Rules
	default:
		if err := json.Unmarshal(data, &list); err != nil {
			return nil, err
		}
	}
	if list == nil {
		list = []Rule{}
	}
	return list, nil
}

// Encode renders rules in the given format.
func Encode(list []Rule, format Format) ([]byte, error) {
	switch format {
	case FormatYAML:
		return yaml.Marshal(list)
	case FormatTOML:
		return toml.Marshal(tomlDocument{Rules: list})
	default:
		out, err := json.MarshalIndent(list, "", "  ")
		if err != nil {
			return nil, err
		}
		return append(out, '\n'), nil
	}
}

// Save writes rules to path in the format its extension selects, creating
// parent directories as needed.
func Save(path string, list []Rule) error {
	data, err := Encode(list, FormatFor(path))
	if err != nil {
		return fmt.Errorf("encode rules: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create rules directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write rules %s: %w", path, err)
	}
	return nil
}

// Compile prepares every rule expression. It fails on the first rule whose
// expression does not compile.
func Compile(list []Rule) error {
	for i := range list {
		r := &list[i]
		r.program = nil
		if r.Conditions.Expression == "" {
			continue
		}
		prog, err := compileExpression(r.Conditions.Expression)
		if err != nil {
			return fmt.Errorf("rule %d (%q): %w", i+1, r.Name, err)
		}
		r.program = prog
	}
	return nil
}

// SampleRules returns the starter rule set written when no rules file exists.
func SampleRules() []Rule {
	return []Rule{
		{
			Name:        "App Store Receipts",
			Description: "Organizes App Store/iCloud receipts",
			Conditions: Conditions{
				Extension:       "pdf",
				ContentContains: []string{"receipt", "icloud"},
			},
			Actions: Actions{
				RenamePattern: "App Store_{date}_{year}{ext}",
				MoveTo:        "Receipts",
			},
		},
		{
			Name:        "Bank Statements",
			Description: "Organizes bank statements",
			Conditions: Conditions{
				Extension:       "pdf",
				ContentContains: []string{"statement", "account"},
			},
			Actions: Actions{
				RenamePattern: "Bank_Statement_{date}{ext}",
				MoveTo:        "Banking/Statements",
			},
		},
		{
			Name:        "Invoices",
			Description: "Organizes invoices",
			Conditions: Conditions{
				Extension:       "pdf",
				ContentContains: []string{"invoice"},
			},
			Actions: Actions{
				RenamePattern: "Invoice_{date}_{year}{ext}",
				MoveTo:        "Invoices",
			},
		},
	}
}
