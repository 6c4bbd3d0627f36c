package extract

import "github.com/tablecraft/menu-importer/constants"

// Result is the normalized output of the adapter: plain text plus rendering
// metadata. Truncated is set when the rendered text hit MaxExtractedTextLen.
type Result struct {
	Text      string
	Metadata  Metadata
	Truncated bool
}

type Metadata struct {
	Format     constants.FileFormat
	SheetNames []string
	Headers    []string
	RowCount   int
	Delimiter  string
}
