package csvdb

import (
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

type badRowFunc func(file string, line int, reason string, err ...error)

// readTable calls processRow for every data row of the CSV file at path, header excluded.
// Fields are trimmed. A missing or empty file has no rows; malformed lines are reported to
// badRow and skipped.
func readTable(path string, processRow func(line int, row []string), badRow badRowFunc) error {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return errors.Wrap(err, "opening table")
	}
	defer func() { _ = file.Close() }()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	// skip header
	if _, err = reader.Read(); err == io.EOF {
		return nil
	} else if err != nil {
		var pErr *csv.ParseError
		if !errors.As(err, &pErr) {
			return errors.Wrap(err, "reading header")
		}
	}

	name := filepath.Base(path)
	for {
		row, err := reader.Read()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			var pErr *csv.ParseError
			if errors.As(err, &pErr) {
				badRow(name, pErr.Line, "malformed csv", err)
				continue
			}
			return errors.Wrap(err, "reading row")
		}
		if isBlank(row) {
			continue
		}
		line, _ := reader.FieldPos(0)
		for i := range row {
			row[i] = strings.TrimSpace(row[i])
		}
		processRow(line, row)
	}
}

func isBlank(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// writeTable replaces the file at path by header and rows. The new content is written to a
// temporary file first so a failed write leaves the previous table in place.
func writeTable(path string, header []string, rows [][]string) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()

	writer := csv.NewWriter(tmp)
	if err = writer.Write(header); err != nil {
		return err
	}
	if err = writer.WriteAll(rows); err != nil { // WriteAll flushes
		return err
	}
	if err = tmp.Chmod(0o644); err != nil {
		return err
	}
	if err = tmp.Sync(); err != nil {
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// appendRows appends rows to the CSV file at path, writing header first when the file is new.
func appendRows(path string, header []string, rows [][]string) error {
	if len(rows) == 0 {
		return nil
	}
	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer func() { _ = file.Close() }()

	stat, err := file.Stat()
	if err != nil {
		return err
	}

	writer := csv.NewWriter(file)
	if stat.Size() == 0 {
		if err = writer.Write(header); err != nil {
			return err
		}
	}
	if err = writer.WriteAll(rows); err != nil {
		return err
	}
	return file.Sync()
}
