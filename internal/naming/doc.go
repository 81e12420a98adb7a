// Package naming turns rule templates into safe filenames and picks free
// destination paths.
//
// [Render] expands the {date}, {year}, {ext}, {date_created} and
// {original_name} placeholders and passes the result through [Sanitize],
// which makes any string a valid filename on Linux, macOS and Windows.
// [CollisionResolver] appends _1, _2, … before the extension until a
// destination is free on disk and unclaimed within the run.
package naming
