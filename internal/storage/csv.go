// Package storage persists the expense collection as a flat CSV table
// and manages point-in-time backups of it.
package storage

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jnx001/finance-manager/internal/core"
	"github.com/jnx001/finance-manager/internal/log"
)

// header is the first row of the data file and of every backup.
var header = []string{"Date", "Category", "Amount", "Description"}

// RowWarning records one persisted row that failed validation and was
// skipped during load.
type RowWarning struct {
	Row int // 1-based row index in the data file, header included
	Err error
}

// CSVStore owns the on-disk expense collection. Save replaces the whole
// file; nothing is appended in place.
type CSVStore struct {
	dataFile  string
	backupDir string

	now func() time.Time // injected in tests for backup naming
}

// New creates a store for dataFile, creating its directory and the
// backup directory when missing.
func New(dataFile, backupDir string) (*CSVStore, error) {
	if err := os.MkdirAll(filepath.Dir(dataFile), 0755); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}
	if err := os.MkdirAll(backupDir, 0755); err != nil {
		return nil, fmt.Errorf("create backup directory: %w", err)
	}

	return &CSVStore{
		dataFile:  dataFile,
		backupDir: backupDir,
		now:       time.Now,
	}, nil
}

// Load reads the persisted collection. A missing file yields an empty
// collection, not an error. Rows that fail validation are skipped and
// returned as warnings so one bad historical row never blocks access to
// the rest of the data.
func (s *CSVStore) Load() ([]core.Expense, []RowWarning, error) {
	f, err := os.Open(s.dataFile)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("open data file: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	var (
		expenses []core.Expense
		warnings []RowWarning
		row      int
	)
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		row++
		var parseErr *csv.ParseError
		if errors.As(err, &parseErr) {
			warnings = append(warnings, RowWarning{Row: row, Err: err})
			continue
		}
		if err != nil {
			return nil, warnings, fmt.Errorf("read data file: %w", err)
		}
		if row == 1 && isHeader(record) {
			continue
		}
		e, err := parseRecord(record)
		if err != nil {
			warnings = append(warnings, RowWarning{Row: row, Err: err})
			continue
		}
		expenses = append(expenses, e)
	}

	slog.Debug("Expenses loaded",
		log.FieldFile, s.dataFile,
		log.FieldCount, len(expenses),
		log.FieldSkipped, len(warnings))

	return expenses, warnings, nil
}

// Save writes the whole collection, replacing prior contents. The rows
// are staged to a temporary file and renamed over the primary so a
// failed write never truncates existing data.
func (s *CSVStore) Save(expenses []core.Expense) error {
	tmp := s.dataFile + ".tmp"
	if err := writeCSV(tmp, expenses); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("stage data file: %w", err)
	}
	if err := os.Rename(tmp, s.dataFile); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("replace data file: %w", err)
	}

	slog.Debug("Expenses saved", log.FieldFile, s.dataFile, log.FieldCount, len(expenses))
	return nil
}

func writeCSV(path string, expenses []core.Expense) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		f.Close()
		return fmt.Errorf("write header: %w", err)
	}
	for _, e := range expenses {
		if err := w.Write(e.Record()); err != nil {
			f.Close()
			return fmt.Errorf("write expense row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return fmt.Errorf("flush rows: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}

	return nil
}

func parseRecord(record []string) (core.Expense, error) {
	if len(record) != len(header) {
		return core.Expense{}, fmt.Errorf("expected %d fields, got %d", len(header), len(record))
	}
	return core.New(record[2], record[1], record[0], record[3])
}

func isHeader(record []string) bool {
	if len(record) != len(header) {
		return false
	}
	for i, field := range record {
		if !strings.EqualFold(strings.TrimSpace(field), header[i]) {
			return false
		}
	}
	return true
}
