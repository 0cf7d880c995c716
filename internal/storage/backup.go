package storage

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/jnx001/finance-manager/internal/log"
)

// backupPrefix identifies the store's backup files inside the backup
// directory; anything else in there is ignored.
const backupPrefix = "expenses_backup_"

var (
	// ErrNoDataFile means a backup was requested before anything was
	// ever saved.
	ErrNoDataFile = errors.New("no data file to back up")

	// ErrBackupNotFound means the named backup does not exist.
	ErrBackupNotFound = errors.New("backup not found")
)

// Backup copies the current data file into the backup directory under a
// timestamped name and returns that name. When two backups land in the
// same second the later one takes a numeric suffix, so a backup never
// silently overwrites an earlier one.
func (s *CSVStore) Backup() (string, error) {
	src, err := os.Open(s.dataFile)
	if errors.Is(err, os.ErrNotExist) {
		return "", ErrNoDataFile
	}
	if err != nil {
		return "", fmt.Errorf("open data file: %w", err)
	}
	defer src.Close()

	name, dst, err := s.createBackupFile()
	if err != nil {
		return "", err
	}

	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		os.Remove(filepath.Join(s.backupDir, name))
		return "", fmt.Errorf("copy data file: %w", err)
	}
	if err := dst.Close(); err != nil {
		return "", fmt.Errorf("close backup file: %w", err)
	}

	slog.Info("Backup created", log.FieldBackup, name)
	return name, nil
}

// createBackupFile opens a new exclusively-created backup file, probing
// counter suffixes until an unused name is found.
func (s *CSVStore) createBackupFile() (string, *os.File, error) {
	stamp := s.now().Format("20060102_150405")
	for i := 0; ; i++ {
		name := backupPrefix + stamp + ".csv"
		if i > 0 {
			name = fmt.Sprintf("%s%s_%d.csv", backupPrefix, stamp, i)
		}

		f, err := os.OpenFile(filepath.Join(s.backupDir, name), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
		if errors.Is(err, os.ErrExist) {
			continue
		}
		if err != nil {
			return "", nil, fmt.Errorf("create backup file: %w", err)
		}
		return name, f, nil
	}
}

// Restore overwrites the primary data file with the named backup's
// bytes. The in-memory collection is the caller's to reload; Restore
// only touches the file.
func (s *CSVStore) Restore(name string) error {
	// A name with path elements can never match a listed backup.
	if name == "" || name != filepath.Base(name) {
		return fmt.Errorf("restore %q: %w", name, ErrBackupNotFound)
	}

	src, err := os.Open(filepath.Join(s.backupDir, name))
	if errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("restore %q: %w", name, ErrBackupNotFound)
	}
	if err != nil {
		return fmt.Errorf("open backup: %w", err)
	}
	defer src.Close()

	tmp := s.dataFile + ".tmp"
	dst, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		os.Remove(tmp)
		return fmt.Errorf("copy backup: %w", err)
	}
	if err := dst.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmp, s.dataFile); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("replace data file: %w", err)
	}

	slog.Info("Backup restored", log.FieldBackup, name)
	return nil
}

// ListBackups returns the names of all backups, most recent first. The
// fixed-width timestamp makes lexicographic order chronological.
func (s *CSVStore) ListBackups() ([]string, error) {
	entries, err := os.ReadDir(s.backupDir)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read backup directory: %w", err)
	}

	var names []string
	for _, entry := range entries {
		name := entry.Name()
		if !entry.IsDir() && strings.HasPrefix(name, backupPrefix) && strings.HasSuffix(name, ".csv") {
			names = append(names, name)
		}
	}
	sort.Slice(names, func(i, j int) bool { return names[i] > names[j] })

	return names, nil
}
