package exporter

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"orderpulse/internal/config"
)

// setupTestEnv returns a writer whose reports directory lives in a temp dir
func setupTestEnv(t *testing.T) (*CSVWriter, *config.Paths) {
	t.Helper()

	paths, err := config.NewPaths(t.TempDir(), config.Default())
	require.NoError(t, err)
	require.NoError(t, paths.EnsureDirectories())

	return NewCSVWriter(paths, nil), paths
}

func readCSVLines(t *testing.T, path string) []string {
	t.Helper()
	content, err := os.ReadFile(path)
	require.NoError(t, err)
	content = bytes.TrimPrefix(content, utf8BOM)
	return strings.Split(strings.TrimSpace(string(content)), "\n")
}

func TestCSVWriter_WriteCSV(t *testing.T) {
	writer, paths := setupTestEnv(t)

	tests := []struct {
		name     string
		filePath string
		options  WriteOptions
		validate func(t *testing.T, fullPath string)
	}{
		{
			name:     "basic write with headers",
			filePath: "test_basic.csv",
			options: WriteOptions{
				Headers: []string{"CustomerID", "Total"},
				Records: [][]string{
					{"A", "10.00"},
					{"B", "3.50"},
				},
			},
			validate: func(t *testing.T, fullPath string) {
				lines := readCSVLines(t, fullPath)
				assert.Equal(t, []string{"CustomerID,Total", "A,10.00", "B,3.50"}, lines)
			},
		},
		{
			name:     "write with BOM prefix",
			filePath: "test_bom.csv",
			options: WriteOptions{
				Headers:   []string{"Channel"},
				Records:   [][]string{{"web"}},
				BOMPrefix: true,
			},
			validate: func(t *testing.T, fullPath string) {
				content, err := os.ReadFile(fullPath)
				require.NoError(t, err)
				assert.True(t, bytes.HasPrefix(content, utf8BOM))
			},
		},
		{
			name:     "empty records",
			filePath: "test_empty.csv",
			options: WriteOptions{
				Headers: []string{"Col1", "Col2"},
				Records: [][]string{},
			},
			validate: func(t *testing.T, fullPath string) {
				assert.Equal(t, []string{"Col1,Col2"}, readCSVLines(t, fullPath))
			},
		},
		{
			name:     "fields needing quotes",
			filePath: "test_quotes.csv",
			options: WriteOptions{
				Headers: []string{"CustomerID"},
				Records: [][]string{{"Smith, J"}},
			},
			validate: func(t *testing.T, fullPath string) {
				assert.Equal(t, `"Smith, J"`, readCSVLines(t, fullPath)[1])
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.NoError(t, writer.WriteCSV(tt.filePath, tt.options))
			tt.validate(t, paths.GetReportPath(tt.filePath))
		})
	}
}

func TestCSVWriter_OverwritesExistingFile(t *testing.T) {
	writer, paths := setupTestEnv(t)

	require.NoError(t, writer.WriteSimpleCSV("report.csv", []string{"H"}, [][]string{{"1"}, {"2"}}))
	require.NoError(t, writer.WriteSimpleCSV("report.csv", []string{"H"}, [][]string{{"3"}}))

	assert.Equal(t, []string{"H", "3"}, readCSVLines(t, paths.GetReportPath("report.csv")))
}

func TestCSVWriter_AbsolutePath(t *testing.T) {
	writer, _ := setupTestEnv(t)
	abs := filepath.Join(t.TempDir(), "nested", "abs.csv")

	require.NoError(t, writer.WriteSimpleCSV(abs, []string{"H"}, [][]string{{"v"}}))
	assert.FileExists(t, abs)
}

func TestCSVWriter_StreamWriter(t *testing.T) {
	writer, paths := setupTestEnv(t)

	stream, err := writer.CreateStreamWriter("stream.csv", []string{"Name", "Value"})
	require.NoError(t, err)
	for _, rec := range [][]string{{"a", "1"}, {"b", "2"}} {
		require.NoError(t, stream.WriteRecord(rec))
	}
	require.NoError(t, stream.Close())

	assert.Equal(t, []string{"Name,Value", "a,1", "b,2"}, readCSVLines(t, paths.GetReportPath("stream.csv")))
}
