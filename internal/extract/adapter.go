package extract

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"
	"gopkg.in/yaml.v3"

	"github.com/tablecraft/menu-importer/constants"
	"github.com/tablecraft/menu-importer/internal/common"
)

// Extract normalizes raw bytes of a declared format into plain text.
// Pure: no I/O, deterministic for identical input bytes.
func Extract(data []byte, format constants.FileFormat) (Result, error) {
	var (
		res Result
		err error
	)
	switch format {
	case constants.SPREADSHEET:
		res, err = renderSpreadsheet(data)
	case constants.TABULAR:
		res, err = renderTabular(data)
	case constants.STRUCTURED:
		res, err = renderStructured(data)
	case constants.TEXT, constants.MARKDOWN:
		res = Result{Text: strings.TrimSpace(string(data))}
	default:
		return Result{}, fmt.Errorf("%w: %q", common.ErrUnsupportedFormat, format)
	}
	if err != nil {
		return Result{}, err
	}

	res.Metadata.Format = format
	if len(res.Text) > constants.MaxExtractedTextLen {
		res.Text = cutAtRuneBoundary(res.Text, constants.MaxExtractedTextLen)
		res.Truncated = true
	}
	return res, nil
}

// renderSpreadsheet renders each sheet as a labeled pipe-delimited block,
// concatenated with sheet-name headers.
func renderSpreadsheet(data []byte) (Result, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return Result{}, fmt.Errorf("open spreadsheet: %w", err)
	}
	defer func() { _ = f.Close() }()

	var (
		b        strings.Builder
		sheets   []string
		rowCount int
	)
	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil {
			return Result{}, fmt.Errorf("read sheet %q: %w", sheet, err)
		}
		sheets = append(sheets, sheet)
		b.WriteString("== Sheet: ")
		b.WriteString(sheet)
		b.WriteString(" ==\n")
		for _, row := range rows {
			if rowEmpty(row) {
				continue
			}
			b.WriteString(strings.Join(row, " | "))
			b.WriteString("\n")
			rowCount++
		}
		b.WriteString("\n")
	}

	return Result{
		Text:     strings.TrimSpace(b.String()),
		Metadata: Metadata{SheetNames: sheets, RowCount: rowCount},
	}, nil
}

// renderTabular renders delimited rows as a header / separator / rows block.
func renderTabular(data []byte) (Result, error) {
	delim := sniffDelimiter(string(data))

	r := csv.NewReader(bytes.NewReader(data))
	r.Comma = delim
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	records, err := r.ReadAll()
	if err != nil {
		return Result{}, fmt.Errorf("parse tabular data: %w", err)
	}
	if len(records) == 0 {
		return Result{Metadata: Metadata{Delimiter: string(delim)}}, nil
	}

	headers := records[0]
	var b strings.Builder
	b.WriteString(strings.Join(headers, " | "))
	b.WriteString("\n")
	b.WriteString(strings.Repeat("-", len(strings.Join(headers, " | "))))
	b.WriteString("\n")
	for _, row := range records[1:] {
		if rowEmpty(row) {
			continue
		}
		b.WriteString(strings.Join(row, " | "))
		b.WriteString("\n")
	}

	return Result{
		Text: strings.TrimSpace(b.String()),
		Metadata: Metadata{
			Headers:   headers,
			RowCount:  len(records) - 1,
			Delimiter: string(delim),
		},
	}, nil
}

// renderStructured pretty-prints JSON or YAML for readability. Bytes that
// parse as neither fall back to trimmed passthrough.
func renderStructured(data []byte) (Result, error) {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		if err := yaml.Unmarshal(data, &v); err != nil {
			return Result{Text: strings.TrimSpace(string(data))}, nil
		}
	}
	pretty, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return Result{Text: strings.TrimSpace(string(data))}, nil
	}
	return Result{Text: string(pretty)}, nil
}

// sniffDelimiter picks the delimiter that splits the first non-empty lines
// into the most columns, most consistently.
func sniffDelimiter(text string) rune {
	candidates := []rune{',', '\t', ';', '|'}
	lines := sampleLines(text, 10)
	if len(lines) == 0 {
		return ','
	}

	best, bestCols := ',', 1
	for _, c := range candidates {
		cols := strings.Count(lines[0], string(c)) + 1
		if cols <= bestCols {
			continue
		}
		consistent := true
		for _, l := range lines[1:] {
			if strings.Count(l, string(c))+1 != cols {
				consistent = false
				break
			}
		}
		if consistent {
			best, bestCols = c, cols
		}
	}
	return best
}

func sampleLines(text string, n int) []string {
	var out []string
	for _, l := range strings.Split(text, "\n") {
		if strings.TrimSpace(l) == "" {
			continue
		}
		out = append(out, l)
		if len(out) == n {
			break
		}
	}
	return out
}

func rowEmpty(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func cutAtRuneBoundary(s string, max int) string {
	if len(s) <= max {
		return s
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}
