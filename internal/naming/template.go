package naming

import (
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Placeholders recognized in rename patterns and move_to paths.
const (
	PlaceholderDate         = "{date}"
	PlaceholderYear         = "{year}"
	PlaceholderExt          = "{ext}"
	PlaceholderDateCreated  = "{date_created}"
	PlaceholderOriginalName = "{original_name}"
)

// Fields holds the values substituted into a pattern.
type Fields struct {
	Date         string    // Date label extracted from the document text.
	Year         int       // Year extracted from the document text.
	Ext          string    // Extension with leading dot, e.g. ".pdf".
	CreatedAt    time.Time // Creation time of the file itself.
	OriginalStem string    // Original filename without extension.
}

// FieldsFor fills Ext and OriginalStem from path.
func FieldsFor(path, date string, year int, createdAt time.Time) Fields {
	base := filepath.Base(path)
	ext := filepath.Ext(base)
	return Fields{
		Date:         date,
		Year:         year,
		Ext:          ext,
		CreatedAt:    createdAt,
		OriginalStem: strings.TrimSuffix(base, ext),
	}
}

// Expand replaces every recognized placeholder in pattern, in a fixed order,
// with plain substring replacement. Unknown placeholders stay as they are.
func Expand(pattern string, f Fields) string {
	out := pattern
	out = strings.ReplaceAll(out, PlaceholderDate, f.Date)
	out = strings.ReplaceAll(out, PlaceholderYear, strconv.Itoa(f.Year))
	out = strings.ReplaceAll(out, PlaceholderExt, f.Ext)
	out = strings.ReplaceAll(out, PlaceholderDateCreated, f.CreatedAt.Format("2006-01-02"))
	out = strings.ReplaceAll(out, PlaceholderOriginalName, f.OriginalStem)
	return out
}

// Render expands pattern and sanitizes the result into a filename.
//
//	Render("Invoice_{year}{ext}", Fields{Year: 2024, Ext: ".pdf"}) == "Invoice_2024.pdf"
func Render(pattern string, f Fields) string {
	return SanitizeDefault(Expand(pattern, f))
}

// ExpandDir substitutes only {year} and {date}, the placeholders allowed in
// destination folders.
func ExpandDir(pattern string, f Fields) string {
	out := strings.ReplaceAll(pattern, PlaceholderYear, strconv.Itoa(f.Year))
	return strings.ReplaceAll(out, PlaceholderDate, f.Date)
}
