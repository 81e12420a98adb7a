// Package pdftext extracts the plain text of a PDF document.
//
// Two extractors are available: [Poppler] shells out to pdftotext, which
// handles the widest range of documents, and [Native] reads the file with a
// pure Go parser so the tool still works where poppler is not installed.
// [New] picks between them for a configured [Mode].
package pdftext
