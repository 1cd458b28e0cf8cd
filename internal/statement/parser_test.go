package statement

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestParseCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "statement.csv")
	content := "Date,Narration,Amount\n2026-01-05,NEFT ACME,1200.50\n2026-01-09,IMPS REFUND,-300\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	rows, err := Parse(path)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "2026-01-05", rows[0]["Date"])
	assert.Equal(t, "NEFT ACME", rows[0]["Narration"])
	assert.Equal(t, "1200.50", rows[0]["Amount"])
	assert.Equal(t, "-300", rows[1]["Amount"])
}

func TestParseXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "statement.xlsx")

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetSheetRow(sheet, "A1", &[]any{"Date", "Narration", "Amount"}))
	require.NoError(t, f.SetSheetRow(sheet, "A2", &[]any{"2026-01-05", "NEFT ACME", "1200.50"}))
	require.NoError(t, f.SetSheetRow(sheet, "A3", &[]any{"2026-01-09", "IMPS REFUND", "-300"}))
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	rows, err := Parse(path)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "NEFT ACME", rows[0]["Narration"])
	assert.Equal(t, "-300", rows[1]["Amount"])
}

func TestParseShortRowFillsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "statement.csv")
	content := "Date,Narration,Amount\n2026-01-05,NEFT ACME\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	rows, err := Parse(path)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "", rows[0]["Amount"])
}

func TestParseUnsupportedFormat(t *testing.T) {
	_, err := Parse("statement.pdf")
	assert.Error(t, err)
}

func TestParseEmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.csv")
	require.NoError(t, os.WriteFile(path, nil, 0644))

	_, err := Parse(path)
	assert.Error(t, err)
}
