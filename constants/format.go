package constants

import "strings"

// FileFormat is the declared format of an uploaded menu document.
type FileFormat string

const (
	SPREADSHEET FileFormat = "SPREADSHEET" // xlsx workbooks
	TABULAR     FileFormat = "TABULAR"     // csv/tsv and friends
	STRUCTURED  FileFormat = "STRUCTURED"  // json/yaml documents
	TEXT        FileFormat = "TEXT"        // plain text
	MARKDOWN    FileFormat = "MARKDOWN"    // markdown, passed through like text
)

const (
	// MaxExtractedTextLen caps the text handed to the extraction engine.
	// Bounds the cost and risk surface of the downstream AI call.
	MaxExtractedTextLen = 200_000

	// ChunkSizeLimit is the per-chunk ceiling for one AI extraction call.
	ChunkSizeLimit = 50_000
)

var extToFormat = map[string]FileFormat{
	"xlsx":     SPREADSHEET,
	"xlsm":     SPREADSHEET,
	"csv":      TABULAR,
	"tsv":      TABULAR,
	"json":     STRUCTURED,
	"yaml":     STRUCTURED,
	"yml":      STRUCTURED,
	"txt":      TEXT,
	"text":     TEXT,
	"md":       MARKDOWN,
	"markdown": MARKDOWN,
}

// MapExtToFormat maps a file extension to a FileFormat, or "" if unsupported.
func MapExtToFormat(ext string) FileFormat {
	return extToFormat[NormalizeExt(ext)]
}

// NormalizeExt lowercases and trims the dot from a file extension.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}
