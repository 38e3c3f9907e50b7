package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/rogerio-castellano/catalog-manager/internal/catalog"
)

var sampleRows = []catalog.ExportRow{
	{ID: 1, Name: "Hammer", Category: "Tools", Description: "steel", Price: "9.99", Stock: 5, Status: "Enabled", CreatedAt: "2024-01-02 03:04:05", UpdatedAt: "2024-01-02 03:04:05"},
	{ID: 2, Name: "Rake", Category: "No Category", Price: "12.00", Stock: 0, Status: "Disabled", CreatedAt: "2024-01-03 00:00:00", UpdatedAt: "2024-01-04 00:00:00"},
}

func TestParseFormat(t *testing.T) {
	tests := map[string]Format{"": FormatXLSX, "xlsx": FormatXLSX, "CSV": FormatCSV, " json ": FormatJSON}
	for raw, want := range tests {
		got, err := ParseFormat(raw)
		require.NoError(t, err, raw)
		assert.Equal(t, want, got, raw)
	}

	_, err := ParseFormat("pdf")
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

func TestFormatMetadata(t *testing.T) {
	assert.Equal(t, "products.xlsx", FormatXLSX.Filename())
	assert.Equal(t, "products.csv", FormatCSV.Filename())
	assert.Equal(t, "text/csv", FormatCSV.ContentType())
	assert.Equal(t, "application/json", FormatJSON.ContentType())
	assert.Contains(t, FormatXLSX.ContentType(), "spreadsheetml")
}

func TestWriteXLSX(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatXLSX, sampleRows))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{SheetName}, f.GetSheetList())

	rows, err := f.GetRows(SheetName)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, Headings, rows[0])
	assert.Equal(t, []string{"1", "Hammer", "Tools", "steel", "9.99", "5", "Enabled", "2024-01-02 03:04:05", "2024-01-02 03:04:05"}, rows[1])
	assert.Equal(t, "No Category", rows[2][2])
	assert.Equal(t, "12.00", rows[2][4])
}

func TestWriteXLSX_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, nil))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(SheetName)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, Headings, rows[0])
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatCSV, sampleRows))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, Headings, records[0])
	assert.Equal(t, sampleRows[1].Strings(), records[2])
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatJSON, sampleRows))

	var decoded []catalog.ExportRow
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, sampleRows, decoded)

	buf.Reset()
	require.NoError(t, WriteJSON(&buf, nil))
	assert.JSONEq(t, `[]`, buf.String())
}
