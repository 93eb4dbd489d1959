package utils

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type exportRow struct {
	ID    int            `json:"id"`
	Name  string         `json:"name"`
	Email *string        `json:"email"`
	Meta  map[string]int `json:"meta,omitempty"`
}

func TestExportCSVQuotesCells(t *testing.T) {
	email := "jane@example.com"
	rows := []exportRow{
		{ID: 1, Name: `Jane "JJ" Doe`, Email: &email},
		{ID: 2, Name: "John Smith"},
	}

	out, err := ExportCSV(rows)
	require.NoError(t, err)

	lines := strings.Split(string(out), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "id,name,email", lines[0])
	assert.Equal(t, `"1","Jane ""JJ"" Doe","jane@example.com"`, lines[1])
	assert.Equal(t, `"2","John Smith",""`, lines[2])
}

func TestExportCSVHeadersFromFirstRowOnly(t *testing.T) {
	rows := []map[string]any{
		{"a": 1, "b": "x"},
		{"a": 2, "c": "dropped"},
	}

	out, err := ExportCSV(rows)
	require.NoError(t, err)
	assert.Equal(t, "a,b\n\"1\",\"x\"\n\"2\",\"\"", string(out))
}

func TestExportCSVNestedValues(t *testing.T) {
	rows := []map[string]any{
		{"user": map[string]any{"name": "A & B"}, "tags": []string{"x"}, "ok": true},
	}

	out, err := ExportCSV(rows)
	require.NoError(t, err)
	assert.Equal(t, "ok,tags,user\n\"true\",\"[\"\"x\"\"]\",\"{\"\"name\"\":\"\"A & B\"\"}\"", string(out))
}

func TestExportCSVEmpty(t *testing.T) {
	out, err := ExportCSV([]exportRow{})
	require.NoError(t, err)
	assert.Nil(t, out)
}

func TestExportCSVRejectsScalars(t *testing.T) {
	_, err := ExportCSV([]int{1, 2})
	assert.ErrorIs(t, err, errRowNotObject)
}

func TestWriteCSVFile(t *testing.T) {
	dir := t.TempDir()

	path := filepath.Join(dir, "empty.csv")
	written, err := WriteCSVFile(path, []exportRow{})
	require.NoError(t, err)
	assert.False(t, written)
	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))

	path = filepath.Join(dir, "users.csv")
	written, err = WriteCSVFile(path, []exportRow{{ID: 7, Name: "Ada"}})
	require.NoError(t, err)
	assert.True(t, written)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "id,name,email\n\"7\",\"Ada\",\"\"", string(data))
}
