package extract

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/tablecraft/menu-importer/constants"
	"github.com/tablecraft/menu-importer/internal/common"
)

func TestExtractUnsupportedFormat(t *testing.T) {
	_, err := Extract([]byte("anything"), constants.FileFormat("DOCX"))
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrUnsupportedFormat)
}

func TestExtractTextPassthrough(t *testing.T) {
	res, err := Extract([]byte("  Margherita Pizza  $12\n\n"), constants.TEXT)
	require.NoError(t, err)
	assert.Equal(t, "Margherita Pizza  $12", res.Text)
	assert.False(t, res.Truncated)
}

func TestExtractTabular(t *testing.T) {
	csvData := "name,price,category\nMargherita Pizza,1200,Pizzas\nTiramisu,650,Desserts\n"
	res, err := Extract([]byte(csvData), constants.TABULAR)
	require.NoError(t, err)

	lines := strings.Split(res.Text, "\n")
	require.GreaterOrEqual(t, len(lines), 4)
	assert.Equal(t, "name | price | category", lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "---"))
	assert.Equal(t, "Margherita Pizza | 1200 | Pizzas", lines[2])

	assert.Equal(t, []string{"name", "price", "category"}, res.Metadata.Headers)
	assert.Equal(t, 2, res.Metadata.RowCount)
	assert.Equal(t, ",", res.Metadata.Delimiter)
}

func TestExtractTabularSniffsSemicolon(t *testing.T) {
	data := "name;price\nCola;300\nFanta;300\n"
	res, err := Extract([]byte(data), constants.TABULAR)
	require.NoError(t, err)
	assert.Equal(t, ";", res.Metadata.Delimiter)
	assert.Contains(t, res.Text, "Cola | 300")
}

func TestExtractStructuredJSON(t *testing.T) {
	res, err := Extract([]byte(`{"drinks":[{"name":"Cola","price":300}]}`), constants.STRUCTURED)
	require.NoError(t, err)
	assert.Contains(t, res.Text, "\"drinks\"")
	assert.Contains(t, res.Text, "  ") // pretty-printed
}

func TestExtractStructuredYAML(t *testing.T) {
	yml := "drinks:\n  - name: Cola\n    price: 300\n"
	res, err := Extract([]byte(yml), constants.STRUCTURED)
	require.NoError(t, err)
	assert.Contains(t, res.Text, "\"Cola\"")
}

func TestExtractStructuredFallsBackToPassthrough(t *testing.T) {
	res, err := Extract([]byte("not: [valid: yaml: or json"), constants.STRUCTURED)
	require.NoError(t, err)
	assert.Equal(t, "not: [valid: yaml: or json", res.Text)
}

func TestExtractSpreadsheet(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetCellValue(sheet, "A1", "Item"))
	require.NoError(t, f.SetCellValue(sheet, "B1", "Price"))
	require.NoError(t, f.SetCellValue(sheet, "A2", "Margherita Pizza"))
	require.NoError(t, f.SetCellValue(sheet, "B2", 1200))

	_, err := f.NewSheet("Drinks")
	require.NoError(t, err)
	require.NoError(t, f.SetCellValue("Drinks", "A1", "Cola"))

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	res, err := Extract(buf.Bytes(), constants.SPREADSHEET)
	require.NoError(t, err)

	assert.Contains(t, res.Text, "== Sheet: "+sheet+" ==")
	assert.Contains(t, res.Text, "== Sheet: Drinks ==")
	assert.Contains(t, res.Text, "Margherita Pizza | 1200")
	assert.Contains(t, res.Metadata.SheetNames, "Drinks")
	assert.Equal(t, 3, res.Metadata.RowCount)
}

func TestExtractTruncatesAtCap(t *testing.T) {
	big := strings.Repeat("Margherita Pizza with extra mozzarella\n", 10_000)
	require.Greater(t, len(big), constants.MaxExtractedTextLen)

	res, err := Extract([]byte(big), constants.TEXT)
	require.NoError(t, err)
	assert.True(t, res.Truncated)
	assert.LessOrEqual(t, len(res.Text), constants.MaxExtractedTextLen)
}

func TestExtractSmallInputNotTruncated(t *testing.T) {
	res, err := Extract([]byte("Small menu"), constants.TEXT)
	require.NoError(t, err)
	assert.False(t, res.Truncated)
	assert.Equal(t, "Small menu", res.Text)
}
