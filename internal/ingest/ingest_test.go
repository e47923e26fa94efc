package ingest

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestFromCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rentroll.csv")
	content := "Unit,Tenant,Rent\n101,Acme Dental,\"2,500\"\n,,\n102,Bright Books,1900\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	text, err := FromCSV(path)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(text, "\n"), "\n")
	require.Len(t, lines, 3, "blank rows are dropped")
	assert.Equal(t, "Unit\tTenant\tRent", lines[0])
	assert.Equal(t, "101\tAcme Dental\t2,500", lines[1])
}

func TestFromCSV_RaggedRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ragged.csv")
	require.NoError(t, os.WriteFile(path, []byte("a,b,c\nd,e\n"), 0o644))

	text, err := FromCSV(path)
	require.NoError(t, err)
	assert.Contains(t, text, "d\te")
}

func TestFromXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rentroll.xlsx")

	f := excelize.NewFile()
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]any{"Unit", "Tenant", "Rent"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A2", &[]any{"101", "Acme Dental", 2500}))
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	text, err := FromXLSX(path)
	require.NoError(t, err)

	assert.Contains(t, text, "Unit\tTenant\tRent")
	assert.Contains(t, text, "101\tAcme Dental\t2500")
}

func TestFromFile_Dispatch(t *testing.T) {
	dir := t.TempDir()

	txt := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(txt, []byte("plain text body"), 0o644))
	text, err := FromFile(txt)
	require.NoError(t, err)
	assert.Equal(t, "plain text body", text)

	csvPath := filepath.Join(dir, "data.csv")
	require.NoError(t, os.WriteFile(csvPath, []byte("a,b\n"), 0o644))
	text, err = FromFile(csvPath)
	require.NoError(t, err)
	assert.Equal(t, "a\tb\n", text)
}

func TestFromFile_Missing(t *testing.T) {
	_, err := FromFile(filepath.Join(t.TempDir(), "absent.txt"))
	assert.Error(t, err)
}
