package naming

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// DefaultMaxLength is the filename byte limit shared by common filesystems.
const DefaultMaxLength = 255

// truncateMargin is kept free when a long name is shortened.
const truncateMargin = 10

var unsafeReplacer = strings.NewReplacer(
	"/", "_", `\`, "_", ":", "_", "*", "_", "?", "_",
	`"`, "_", "<", "_", ">", "_", "|", "_",
)

// reservedNames are device names that cannot be used as a file base on Windows.
var reservedNames = map[string]bool{
	"CON": true, "PRN": true, "AUX": true, "NUL": true,
	"COM1": true, "COM2": true, "COM3": true, "COM4": true, "COM5": true,
	"COM6": true, "COM7": true, "COM8": true, "COM9": true,
	"LPT1": true, "LPT2": true, "LPT3": true, "LPT4": true, "LPT5": true,
	"LPT6": true, "LPT7": true, "LPT8": true, "LPT9": true,
}

// SanitizeDefault is Sanitize with [DefaultMaxLength].
func SanitizeDefault(name string) string {
	return Sanitize(name, DefaultMaxLength)
}

// Sanitize turns an arbitrary string into a filename that is safe on
// Linux, macOS and Windows. It never fails and is idempotent:
//
//	Sanitize(Sanitize(x, n), n) == Sanitize(x, n)
//
// The extension (text after the last '.') is kept; the base loses control
// characters and path/wildcard characters, has '_' runs collapsed, and is
// trimmed of spaces and dots. Reserved device names get a '_' prefix and an
// empty base becomes "unnamed". When the result exceeds maxLength bytes the
// base is shortened on a UTF-8 boundary.
func Sanitize(name string, maxLength int) string {
	rawBase, rawExt := splitExt(name)
	ext := cleanExt(rawExt)
	if ext == "" && rawBase != name {
		// A trailing or empty extension: the base is the whole name now and
		// may itself contain dots.
		return Sanitize(rawBase, maxLength)
	}
	base := cleanBase(rawBase)

	out := join(base, ext)
	if maxLength <= 0 || len(out) <= maxLength {
		return out
	}

	budget := maxLength - len(ext) - 1 - truncateMargin
	if ext == "" {
		budget = maxLength - truncateMargin
	}
	if budget < 1 {
		// The extension alone does not fit. Keep a dot-free base so the
		// result does not split differently next time.
		ext = ""
		budget = maxLength - truncateMargin
		if budget < 1 {
			budget = maxLength
		}
		base = collapseUnderscores(strings.ReplaceAll(base, ".", "_"))
	}
	base = truncateUTF8(base, budget)
	base = finishBase(strings.Trim(base, " ."))
	return join(base, ext)
}

func splitExt(name string) (base, ext string) {
	i := strings.LastIndex(name, ".")
	if i < 0 {
		return name, ""
	}
	return name[:i], name[i+1:]
}

func join(base, ext string) string {
	if ext == "" {
		return base
	}
	return base + "." + ext
}

func cleanBase(s string) string {
	s = stripControl(s)
	s = unsafeReplacer.Replace(s)
	s = collapseUnderscores(s)
	s = strings.Trim(s, " .")
	return finishBase(s)
}

func cleanExt(s string) string {
	s = stripControl(s)
	s = unsafeReplacer.Replace(s)
	return strings.Trim(s, " ")
}

// finishBase applies the reserved-name and empty-name fallbacks.
func finishBase(s string) string {
	if s == "" {
		return "unnamed"
	}
	if reservedNames[strings.ToUpper(s)] {
		return "_" + s
	}
	return s
}

func stripControl(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, s)
}

func collapseUnderscores(s string) string {
	if !strings.Contains(s, "__") {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	prev := rune(0)
	for _, r := range s {
		if r == '_' && prev == '_' {
			continue
		}
		b.WriteRune(r)
		prev = r
	}
	return b.String()
}

// truncateUTF8 cuts s to at most n bytes and drops any partial multi-byte
// sequence left at the end.
func truncateUTF8(s string, n int) string {
	if len(s) <= n {
		return s
	}
	s = s[:n]
	for len(s) > 0 {
		r, size := utf8.DecodeLastRuneInString(s)
		if r != utf8.RuneError || size > 1 {
			break
		}
		s = s[:len(s)-1]
	}
	return s
}
