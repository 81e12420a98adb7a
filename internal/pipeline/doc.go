// Package pipeline orchestrates folder runs: PDF discovery, sequential
// per-file processing, the polling watch loop, and summary reporting. It
// also hosts the extension-category organizer.
package pipeline
