// Package export writes variant sets to CSV files served from the exports directory.
package export

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jonathan/variant-studio/internal/types"
)

// VariantsHeader is the header of files written by WriteVariants.
var VariantsHeader = []string{"Platform", "Copy", "Spec(JSON)", "Rationale"}

// ExportHeader is the header of files written by WriteExport.
var ExportHeader = []string{"Channel", "Content", "Reasoning", "Goal", "Timestamp", "Original Content"}

// TimestampLayout formats the Timestamp column.
const TimestampLayout = "2006-01-02T15-04-05"

// FileSink writes CSV files into one directory. A file is visible under its final
// name only once it is completely written.
type FileSink struct {
	dir string
	now func() time.Time
}

// NewFileSink creates the directory if needed.
func NewFileSink(dir string) (*FileSink, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, &PersistenceError{Path: dir, Message: "failed to create export directory", Cause: err}
	}
	return &FileSink{dir: dir, now: time.Now}, nil
}

// Dir returns the directory files are written to.
func (s *FileSink) Dir() string {
	return s.dir
}

// VariantsFilename is the file name used for a generation request's CSV.
func VariantsFilename(requestID string) string {
	return requestID + ".csv"
}

// ExportFilename is the file name used for an explicit export.
func ExportFilename(exportID string) string {
	return "export-" + exportID + ".csv"
}

// WriteVariants writes one row per variant and returns the file name.
func (s *FileSink) WriteVariants(requestID string, variants []types.Variant) (string, error) {
	rows := make([][]string, 0, len(variants))
	for _, v := range variants {
		specs := v.Specs
		if specs == nil {
			specs = []string{}
		}
		specJSON, err := json.Marshal(specs)
		if err != nil {
			return "", &PersistenceError{Path: requestID, Message: "failed to encode specs", Cause: err}
		}
		rows = append(rows, []string{v.Channel, v.Copy, string(specJSON), v.Rationale})
	}

	name := VariantsFilename(requestID)
	return name, s.write(requestID, name, VariantsHeader, rows)
}

// WriteExport writes the rows of an explicit export and returns the file name.
func (s *FileSink) WriteExport(exportID string, req types.ExportRequest, goal string) (string, error) {
	timestamp := s.now().UTC().Format(TimestampLayout)

	rows := make([][]string, 0, len(req.Variants))
	for _, v := range req.Variants {
		rows = append(rows, []string{v.Channel, v.Content, v.Reasoning, goal, timestamp, req.OriginalContent})
	}

	name := ExportFilename(exportID)
	return name, s.write(exportID, name, ExportHeader, rows)
}

func (s *FileSink) write(id, name string, header []string, rows [][]string) error {
	if id == "" || strings.ContainsAny(id, `/\`) || id == "." || id == ".." {
		return &PersistenceError{Path: name, Message: "invalid file id"}
	}
	path := filepath.Join(s.dir, name)

	tmp, err := os.CreateTemp(s.dir, "."+name+".*.tmp")
	if err != nil {
		return &PersistenceError{Path: path, Message: "failed to create temp file", Cause: err}
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	w := csv.NewWriter(tmp)
	if err := w.Write(header); err != nil {
		_ = tmp.Close()
		return &PersistenceError{Path: path, Message: "failed to write header", Cause: err}
	}
	if err := w.WriteAll(rows); err != nil {
		_ = tmp.Close()
		return &PersistenceError{Path: path, Message: "failed to write rows", Cause: err}
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return &PersistenceError{Path: path, Message: "failed to sync file", Cause: err}
	}
	if err := tmp.Close(); err != nil {
		return &PersistenceError{Path: path, Message: "failed to close file", Cause: err}
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return &PersistenceError{Path: path, Message: "failed to set permissions", Cause: err}
	}
	if err := os.Rename(tmpName, path); err != nil {
		return &PersistenceError{Path: path, Message: "failed to move file into place", Cause: err}
	}
	return nil
}
