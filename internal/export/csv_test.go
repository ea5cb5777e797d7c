package export

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jonathan/variant-studio/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return records
}

func TestWriteVariants(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "exports")
	sink, err := NewFileSink(dir)
	require.NoError(t, err)

	name, err := sink.WriteVariants("req1", []types.Variant{
		{Channel: "LinkedIn", Copy: "Line one\n\nLine \"two\", with comma", Specs: []string{"700–900 chars"}, Rationale: "Fits."},
		{Channel: "Unknown", Copy: "x", Rationale: ""},
	})
	require.NoError(t, err)
	assert.Equal(t, "req1.csv", name)

	records := readCSV(t, filepath.Join(dir, name))
	require.Len(t, records, 3)
	assert.Equal(t, VariantsHeader, records[0])
	assert.Equal(t, []string{"LinkedIn", "Line one\n\nLine \"two\", with comma", `["700–900 chars"]`, "Fits."}, records[1])
	assert.Equal(t, "[]", records[2][2])
}

func TestWriteExport(t *testing.T) {
	dir := t.TempDir()
	sink, err := NewFileSink(dir)
	require.NoError(t, err)
	sink.now = func() time.Time { return time.Date(2026, 3, 4, 5, 6, 7, 0, time.UTC) }

	name, err := sink.WriteExport("abc", types.ExportRequest{
		Variants: []types.ExportVariant{
			{Channel: "instagram", Content: "Post", Reasoning: "Short"},
			{Channel: "linkedin", Content: "Long post"},
		},
		OriginalContent: "Source",
	}, "Leads")
	require.NoError(t, err)
	assert.Equal(t, "export-abc.csv", name)

	records := readCSV(t, filepath.Join(dir, name))
	require.Len(t, records, 3)
	assert.Equal(t, ExportHeader, records[0])
	assert.Equal(t, []string{"instagram", "Post", "Short", "Leads", "2026-03-04T05-06-07", "Source"}, records[1])
	assert.Equal(t, []string{"linkedin", "Long post", "", "Leads", "2026-03-04T05-06-07", "Source"}, records[2])
}

func TestWrite_LeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	sink, err := NewFileSink(dir)
	require.NoError(t, err)

	_, err = sink.WriteVariants("req1", nil)
	require.NoError(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "req1.csv", entries[0].Name())
}

func TestWrite_RejectsUnsafeIDs(t *testing.T) {
	sink, err := NewFileSink(t.TempDir())
	require.NoError(t, err)

	for _, id := range []string{"", "../escape", `a\b`, ".."} {
		_, err := sink.WriteVariants(id, nil)
		var persistErr *PersistenceError
		assert.ErrorAs(t, err, &persistErr, "id %q", id)
	}
}

func TestWrite_MissingDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "gone")
	sink, err := NewFileSink(dir)
	require.NoError(t, err)
	require.NoError(t, os.RemoveAll(dir))

	_, err = sink.WriteVariants("req1", nil)
	var persistErr *PersistenceError
	require.ErrorAs(t, err, &persistErr)
	assert.Equal(t, "failed to create temp file", persistErr.Message)
}

func TestNewFileSink_BadDirectory(t *testing.T) {
	file := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))

	_, err := NewFileSink(filepath.Join(file, "sub"))
	var persistErr *PersistenceError
	assert.ErrorAs(t, err, &persistErr)
}
